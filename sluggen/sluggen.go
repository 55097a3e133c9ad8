// Package sluggen provides random slug generation.
// Generators should be safe for concurrent use.
package sluggen

import (
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	// Base62 is the alphanumeric alphabet used for generated slugs.
	Base62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// Generator generates URL slugs.
// Implementations should be safe for concurrent use.
type Generator interface {
	Generate(length int) (string, error)
}

// alphabetGenerator draws characters uniformly from a fixed alphabet.
type alphabetGenerator struct {
	alphabet string
	// limit is the largest multiple of len(alphabet) that fits in a byte;
	// bytes at or above it are rejected to avoid modulo bias.
	limit int
}

// NewBase62 returns a generator over the base62 alphabet.
func NewBase62() Generator {
	g, _ := NewAlphabet(Base62)
	return g
}

// NewAlphabet returns a generator over the given characters. The alphabet must
// hold between 2 and 256 distinct single-byte characters.
func NewAlphabet(alphabet string) (Generator, error) {
	if len(alphabet) < 2 || len(alphabet) > 256 {
		return nil, fmt.Errorf("alphabet size must be between 2 and 256, got %d", len(alphabet))
	}
	seen := make(map[byte]bool, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		if seen[alphabet[i]] {
			return nil, fmt.Errorf("alphabet contains duplicate character %q", alphabet[i])
		}
		seen[alphabet[i]] = true
	}
	return &alphabetGenerator{
		alphabet: alphabet,
		limit:    256 - 256%len(alphabet),
	}, nil
}

// Generate returns a random string of the specified length.
func (g *alphabetGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= g.limit {
				continue
			}
			out = append(out, g.alphabet[int(b)%len(g.alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
