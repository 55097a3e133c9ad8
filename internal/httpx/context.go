package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	// PrincipalHeader names the caller. It is set by the authenticating
	// proxy in front of the service; no header means an anonymous caller.
	PrincipalHeader = "X-Principal"

	maxRequestIDLen = 128
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	principalKey
)

// RequestID tags the request with an ID, reusing the caller's X-Request-ID
// when it is short printable ASCII. The ID is echoed in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !usableRequestID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}
	return true
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the ID stored by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Principal copies the trimmed PrincipalHeader into the request context.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := strings.TrimSpace(r.Header.Get(PrincipalHeader))
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), user)))
	})
}

func WithPrincipal(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

// GetPrincipal returns the caller's user name, or "" when anonymous.
func GetPrincipal(ctx context.Context) string {
	user, _ := ctx.Value(principalKey).(string)
	return user
}
