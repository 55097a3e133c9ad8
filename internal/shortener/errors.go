package shortener

import "errors"

// Domain failures. They are always returned wrapped in an *errx.Error, so
// callers can match with errors.Is or switch on errx.KindOf.
var (
	ErrInvalidFormat    = errors.New("slug may only contain letters, digits, dash and underscore")
	ErrDuplicateSlug    = errors.New("slug is already taken")
	ErrEmptyDestination = errors.New("destination cannot be empty")
	ErrNotFound         = errors.New("short link not found")
	ErrExpired          = errors.New("short link expired")
)
