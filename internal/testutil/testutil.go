// Package testutil holds fixtures and request helpers shared by the HTTP
// tests.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"bookshelf/internal/auth"
	"bookshelf/internal/book"
	"bookshelf/internal/httpx"

	"github.com/golang-jwt/jwt/v5"
)

// TestBook is a complete, valid book.
var TestBook = book.Book{
	ISBN:      "019283",
	AmazonURL: "amazon@books.com",
	Author:    "Test-Author",
	Language:  "english",
	Pages:     250,
	Publisher: "Test-Publisher",
	Title:     "Test-Title",
	Year:      2000,
}

// GenerateTestToken returns a valid bearer token for subject.
func GenerateTestToken(secret, subject, role string, ttl time.Duration) string {
	token, _, _ := auth.GenerateToken(secret, subject, role, ttl)
	return token
}

// GenerateExpiredToken returns a correctly signed token that expired an
// hour ago.
func GenerateExpiredToken(secret, subject, role string) string {
	c := auth.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a request whose body is body encoded as JSON.
// A []byte or string body is sent as is.
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	switch b := body.(type) {
	case nil:
	case []byte:
		bodyBytes = b
	case string:
		bodyBytes = []byte(b)
	default:
		bodyBytes, _ = httpx.JSON.Marshal(b)
	}

	if bodyBytes == nil {
		return httptest.NewRequest(method, path, nil)
	}
	r := httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse is a decoded httptest response.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = httpx.JSON.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
