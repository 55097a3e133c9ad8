package httpx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

func TestErrorKindMapping(t *testing.T) {
	tests := []struct {
		kind       errx.Kind
		wantStatus int
		wantCode   string
	}{
		{errx.NotFound, http.StatusNotFound, "not_found"},
		{errx.Conflict, http.StatusConflict, "conflict"},
		{errx.Invalid, http.StatusBadRequest, "invalid_input"},
		{errx.Unauthorized, http.StatusUnauthorized, "unauthorized"},
		{errx.Forbidden, http.StatusForbidden, "forbidden"},
		{errx.Gone, http.StatusGone, "gone"},
		{errx.Unavailable, http.StatusServiceUnavailable, "unavailable"},
		{errx.Internal, http.StatusInternalServerError, "internal_error"},
		{errx.Unknown, http.StatusInternalServerError, "internal_error"},
		{errx.Kind(99), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := ErrorKindToStatus(tt.kind); got != tt.wantStatus {
				t.Errorf("ErrorKindToStatus(%v) = %d, want %d", tt.kind, got, tt.wantStatus)
			}
			if got := ErrorKindToCode(tt.kind); got != tt.wantCode {
				t.Errorf("ErrorKindToCode(%v) = %q, want %q", tt.kind, got, tt.wantCode)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	status, code := StatusOf(errx.E("shortener.service.Resolve", errx.Gone, errors.New("expired")))
	if status != http.StatusGone || code != "gone" {
		t.Errorf("StatusOf(Gone) = %d %q", status, code)
	}

	status, code = StatusOf(errors.New("plain"))
	if status != http.StatusInternalServerError || code != "internal_error" {
		t.Errorf("StatusOf(plain) = %d %q", status, code)
	}
}

func TestErrorAttrs(t *testing.T) {
	err := errx.E("shortener.postgres.FindBySlug", errx.Unavailable, errors.New("connection reset"))

	got := ErrorAttrs(err, "slug", "abc123")
	want := []any{
		"error", "shortener.postgres.FindBySlug: connection reset",
		"error_kind", errx.Unavailable,
		"operation", "shortener.postgres.FindBySlug",
		"slug", "abc123",
	}
	if len(got) != len(want) {
		t.Fatalf("ErrorAttrs() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("attr %d = %v, want %v", i, got[i], want[i])
		}
	}
}
