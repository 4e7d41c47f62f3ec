package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	subjectKey   contextKey = "subject"
	roleKey      contextKey = "role"
	requestIDKey contextKey = "requestID"
)

// RequestIDFrom retrieves the request ID set by RequestIDMiddleware.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// SubjectFrom retrieves the token subject stored by AuthMiddleware.
func SubjectFrom(r *http.Request) string {
	if v, ok := r.Context().Value(subjectKey).(string); ok {
		return v
	}
	return ""
}

// RoleFrom retrieves the token role stored by AuthMiddleware.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithSubject returns a new context with the token subject and role.
func ContextWithSubject(ctx context.Context, subject, role string) context.Context {
	ctx = context.WithValue(ctx, subjectKey, subject)
	return context.WithValue(ctx, roleKey, role)
}
