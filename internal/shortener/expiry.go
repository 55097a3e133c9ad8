package shortener

import "time"

// Status is the lifecycle state of a link at a given instant.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// IsActive reports whether link still resolves at now. The deadline itself
// is inclusive.
func IsActive(link Link, now time.Time) bool {
	return !now.After(link.ValidUntil)
}

// Status evaluates the expiry policy for l at now.
func (l Link) Status(now time.Time) Status {
	if IsActive(l, now) {
		return StatusActive
	}
	return StatusExpired
}
