// Package errx provides application error kinds shared by the link engine and
// its adapters. Kinds are transport-neutral; the HTTP adapter maps them to
// status codes in httpx.
package errx

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	Unknown Kind = iota
	NotFound
	Conflict
	Invalid
	Unauthorized
	Forbidden
	Unavailable
	Internal
	Gone // the record exists but its lifetime is over
)

var kindNames = [...]string{
	Unknown:      "Unknown",
	NotFound:     "NotFound",
	Conflict:     "Conflict",
	Invalid:      "Invalid",
	Unauthorized: "Unauthorized",
	Forbidden:    "Forbidden",
	Unavailable:  "Unavailable",
	Internal:     "Internal",
	Gone:         "Gone",
}

// String returns the string representation of the error kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Error tags err with the operation that failed and a Kind.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// E wraps err. A nil err yields nil so call sites can wrap unconditionally.
func E(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Errorf is E with a formatted cause. %w verbs are honoured.
func Errorf(op string, kind Kind, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Op
	case e.Op == "":
		return e.Err.Error()
	default:
		return e.Op + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func OpOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}
