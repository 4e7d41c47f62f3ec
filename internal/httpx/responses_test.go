package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONOK(t *testing.T) {
	w := httptest.NewRecorder()

	JSONOK(w, map[string]string{"message": "Book deleted"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Error("Expected Content-Type application/json")
	}

	var body map[string]string
	if err := JSON.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["message"] != "Book deleted" {
		t.Errorf("Unexpected body %v", body)
	}
}

func TestJSONCreated(t *testing.T) {
	w := httptest.NewRecorder()

	JSONCreated(w, map[string]string{"isbn": "019283"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/books", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))
	details := []ErrorDetail{
		{Field: "pages", Message: "expected integer, but got string"},
	}

	JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book payload", details)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var response ErrorResponse
	if err := JSON.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Success {
		t.Error("Expected success to be false")
	}
	if response.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected error code VALIDATION_ERROR, got %s", response.Error.Code)
	}
	if len(response.Error.Details) != 1 {
		t.Errorf("Expected 1 error detail, got %d", len(response.Error.Details))
	}
	if response.Meta["request_id"] != "req-1" {
		t.Errorf("Expected request id in meta, got %v", response.Meta)
	}
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()

	NotFound(w, httptest.NewRequest(http.MethodPut, "/books", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
