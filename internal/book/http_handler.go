package book

import (
	"errors"
	"io"
	"net/http"

	"bookshelf/internal/httpx"

	"github.com/rs/zerolog"
)

type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

type listResponse struct {
	Books []Book `json:"books"`
}

type bookResponse struct {
	Book Book `json:"book"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register mounts the book routes on mux. guard wraps the mutating routes
// and may be nil.
func (h *HTTPHandler) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/{isbn}", h.GetByISBN)
	mux.Handle("POST /books", guard(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /books/{isbn}", guard(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /books/{isbn}", guard(http.HandlerFunc(h.Delete)))

	// Unmatched methods and paths under /books answer 404, not 405.
	mux.HandleFunc("/books", httpx.NotFound)
	mux.HandleFunc("/books/", httpx.NotFound)
}

// List handles GET /books
// @Summary List books
// @Tags books
// @Produce json
// @Success 200 {object} listResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONOK(w, listResponse{Books: books})
}

// GetByISBN handles GET /books/{isbn}
// @Summary Get book by ISBN
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} bookResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{isbn} [get]
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if isbn == "" {
		httpx.NotFound(w, r)
		return
	}

	b, err := h.service.GetByISBN(r.Context(), isbn)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONOK(w, bookResponse{Book: b})
}

// Create handles POST /books
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Success 201 {object} bookResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	b, err := h.service.Create(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.audit(r, "book created", b.ISBN)
	httpx.JSONCreated(w, bookResponse{Book: b})
}

// Update handles PUT /books/{isbn}
// @Summary Replace a book
// @Tags books
// @Accept json
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} bookResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{isbn} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if isbn == "" {
		httpx.NotFound(w, r)
		return
	}

	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	b, err := h.service.Update(r.Context(), isbn, body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.audit(r, "book updated", b.ISBN)
	httpx.JSONOK(w, bookResponse{Book: b})
}

// Delete handles DELETE /books/{isbn}
// @Summary Delete a book
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} messageResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{isbn} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if isbn == "" {
		httpx.NotFound(w, r)
		return
	}

	if err := h.service.Delete(r.Context(), isbn); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.audit(r, "book deleted", isbn)
	httpx.JSONOK(w, messageResponse{Message: "Book deleted"})
}

// audit records a successful write. subject and role are empty when auth
// is off.
func (h *HTTPHandler) audit(r *http.Request, msg, isbn string) {
	h.log.Info().
		Str("request_id", httpx.RequestIDFrom(r)).
		Str("subject", httpx.SubjectFrom(r)).
		Str("role", httpx.RoleFrom(r)).
		Str("isbn", isbn).
		Msg(msg)
}

func (h *HTTPHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err == nil {
		return body, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
		return nil, false
	}
	httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Could not read request body", nil)
	return nil, false
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, 0, len(verr.Violations))
		for _, v := range verr.Violations {
			details = append(details, httpx.ErrorDetail{Field: v.Field, Message: v.Message})
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book payload", details)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		h.log.Error().Err(err).
			Str("request_id", httpx.RequestIDFrom(r)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("book request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
