package httpx

import (
	"net/http"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

type kindMapping struct {
	status int
	code   string
}

var (
	kindMappings = map[errx.Kind]kindMapping{
		errx.NotFound:     {http.StatusNotFound, "not_found"},
		errx.Conflict:     {http.StatusConflict, "conflict"},
		errx.Invalid:      {http.StatusBadRequest, "invalid_input"},
		errx.Unauthorized: {http.StatusUnauthorized, "unauthorized"},
		errx.Forbidden:    {http.StatusForbidden, "forbidden"},
		errx.Gone:         {http.StatusGone, "gone"},
		errx.Unavailable:  {http.StatusServiceUnavailable, "unavailable"},
		errx.Internal:     {http.StatusInternalServerError, "internal_error"},
	}
	unmappedKind = kindMapping{http.StatusInternalServerError, "internal_error"}
)

func mappingFor(kind errx.Kind) kindMapping {
	if m, ok := kindMappings[kind]; ok {
		return m
	}
	return unmappedKind
}

// ErrorKindToStatus maps errx.Kind to HTTP status codes.
func ErrorKindToStatus(kind errx.Kind) int { return mappingFor(kind).status }

// ErrorKindToCode maps errx.Kind to error codes for JSON responses.
func ErrorKindToCode(kind errx.Kind) string { return mappingFor(kind).code }

// StatusOf returns the status and response code for err's kind.
func StatusOf(err error) (int, string) {
	m := mappingFor(errx.KindOf(err))
	return m.status, m.code
}

// ErrorAttrs returns the slog attributes handlers attach when logging err.
func ErrorAttrs(err error, extra ...any) []any {
	attrs := []any{
		"error", err.Error(),
		"error_kind", errx.KindOf(err),
		"operation", errx.OpOf(err),
	}
	return append(attrs, extra...)
}
