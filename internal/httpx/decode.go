package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"slices"
)

// MaxRequestBodySize bounds every decoded body. Link forms and auth events
// are small.
const MaxRequestBodySize = 64 << 10

const formMediaType = "application/x-www-form-urlencoded"

// DecodeJSON decodes a single JSON object from the request body into a T.
// Unknown fields and trailing data are rejected.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var zero T

	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)
	defer func() { _ = r.Body.Close() }()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var v T
	if err := decoder.Decode(&v); err != nil {
		return zero, describeJSONError(err)
	}
	if decoder.More() {
		return zero, errors.New("request body contains multiple JSON objects")
	}
	return v, nil
}

func describeJSONError(err error) error {
	var (
		syntaxErr    *json.SyntaxError
		unmarshalErr *json.UnmarshalTypeError
		maxBytesErr  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("malformed JSON at position %d", syntaxErr.Offset)
	case errors.As(err, &unmarshalErr):
		return fmt.Errorf("invalid value for field %q", unmarshalErr.Field)
	case errors.As(err, &maxBytesErr):
		return tooLarge()
	case errors.Is(err, io.EOF):
		return errors.New("request body is empty")
	default:
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
}

func tooLarge() error {
	return fmt.Errorf("request body too large (max %d bytes)", MaxRequestBodySize)
}

// IsForm reports whether r carries a url-encoded HTML form body.
func IsForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == formMediaType
}

// DecodeForm parses a url-encoded body and returns the first value of each
// allowed field. Missing fields are empty; any other field is rejected.
func DecodeForm(r *http.Request, allowed ...string) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)
	defer func() { _ = r.Body.Close() }()

	if err := r.ParseForm(); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, tooLarge()
		}
		return nil, fmt.Errorf("malformed form body: %w", err)
	}

	values := make(map[string]string, len(allowed))
	for key := range r.PostForm {
		if !slices.Contains(allowed, key) {
			return nil, fmt.Errorf("unknown form field %q", key)
		}
	}
	for _, key := range allowed {
		values[key] = r.PostForm.Get(key)
	}
	return values, nil
}
