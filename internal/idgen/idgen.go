// Package idgen produces surrogate keys for stored link records.
package idgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator generates unique identifiers. Implementations must be safe for
// concurrent use.
type Generator interface {
	Generate() (uuid.UUID, error)
}

// Func adapts a plain function to Generator.
type Func func() (uuid.UUID, error)

func (f Func) Generate() (uuid.UUID, error) { return f() }

// Version selects a UUID variant.
type Version uint8

const (
	V4 Version = 4
	V7 Version = 7
)

func (v Version) String() string { return fmt.Sprintf("v%d", uint8(v)) }

// ParseVersion accepts "v4", "4", "v7" or "7", case-insensitively.
func ParseVersion(s string) (Version, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "v") {
	case "4":
		return V4, nil
	case "7":
		return V7, nil
	default:
		return 0, fmt.Errorf("unsupported uuid version %q", s)
	}
}

type generator struct {
	version Version
	draw    func() (uuid.UUID, error)
	retries int
}

// New returns a Generator for v. A failed draw is retried up to retries more
// times; uuid.NewV7 can fail when the system clock or entropy source does.
// Unknown versions fall back to V4.
func New(v Version, retries int) Generator {
	g := &generator{version: v, draw: uuid.NewRandom, retries: max(retries, 0)}
	if v == V7 {
		g.draw = uuid.NewV7
	} else {
		g.version = V4
	}
	return g
}

func (g *generator) Generate() (uuid.UUID, error) {
	var last error
	for range g.retries + 1 {
		id, err := g.draw()
		if err == nil {
			return id, nil
		}
		last = err
	}
	return uuid.Nil, fmt.Errorf("uuid %s generation failed after %d attempts: %w", g.version, g.retries+1, last)
}
