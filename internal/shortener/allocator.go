package shortener

import (
	"context"
	"regexp"
	"strings"

	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/sluggen"
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Allocator picks a slug for a new link and checks it against the store.
// It does not reserve anything: the repository's InsertIfAbsent is the final
// word on uniqueness.
type Allocator struct {
	links      LinkRepository
	generator  sluggen.Generator
	slugLength int
}

// NewAllocator returns an Allocator generating slugs of slugLength characters.
// Lengths below MinSlugLength are raised to it.
func NewAllocator(links LinkRepository, generator sluggen.Generator, slugLength int) *Allocator {
	if generator == nil {
		generator = sluggen.NewBase62()
	}
	if slugLength < MinSlugLength {
		slugLength = MinSlugLength
	}
	return &Allocator{
		links:      links,
		generator:  generator,
		slugLength: slugLength,
	}
}

// Allocate returns the trimmed candidate, or a generated slug when the
// candidate is blank. generated reports which of the two happened.
func (a *Allocator) Allocate(ctx context.Context, candidate string) (slug string, generated bool, err error) {
	const op = "shortener.allocator.Allocate"

	slug = strings.TrimSpace(candidate)
	if slug == "" {
		slug, err = a.generator.Generate(a.slugLength)
		if err != nil {
			return "", true, errx.E(op, errx.Unavailable, err)
		}
		generated = true
	}

	if err := ValidateSlug(slug); err != nil {
		return "", generated, errx.E(op, errx.Invalid, err)
	}

	_, err = a.links.FindBySlug(ctx, slug)
	switch {
	case err == nil:
		return "", generated, errx.E(op, errx.Conflict, ErrDuplicateSlug)
	case errx.Is(err, errx.NotFound):
		return slug, generated, nil
	default:
		return "", generated, errx.E(op, errx.KindOf(err), err)
	}
}

// ValidateSlug checks slug against the allowed character class.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return ErrInvalidFormat
	}
	return nil
}
