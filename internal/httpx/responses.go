package httpx

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// JSON is the codec used for request and response bodies.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    map[string]any    `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func buildMeta(r *http.Request) map[string]any {
	if r == nil {
		return nil
	}
	requestID := RequestIDFrom(r)
	if requestID == "" {
		return nil
	}
	return map[string]any{"request_id": requestID}
}

// WriteJSON writes body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = JSON.NewEncoder(w).Encode(body)
}

func JSONOK(w http.ResponseWriter, body any) {
	WriteJSON(w, http.StatusOK, body)
}

func JSONCreated(w http.ResponseWriter, body any) {
	WriteJSON(w, http.StatusCreated, body)
}

// JSONError writes the error envelope; the request ID, when present, is
// echoed under meta.
func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	WriteJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r),
	})
}

// NotFound is an http.HandlerFunc answering 404 with the error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
}
