package shortener

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/idgen"
	"github.com/sundayezeilo/shortlinks/sluggen"
)

const (
	DefaultSlugLength     = 6
	MinSlugLength         = 6
	MaxSlugLength         = 64
	DefaultSlugMaxRetries = 3
	DefaultTTLMinutes     = 30
	MaxTTLMinutes         = 100 * 365 * 24 * 60
	DefaultLogLimit       = 10
	ShortPathPrefix       = "/s/"
)

const tracerName = "github.com/sundayezeilo/shortlinks/internal/shortener"

// CreateLinkRequest carries the raw form values for a new link.
type CreateLinkRequest struct {
	Owner         string
	Destination   string
	CandidateSlug string // Optional: blank means generate one
	TTLMinutesRaw string // Optional: unparsable or non-positive means DefaultTTLMinutes
}

// Service is the link lifecycle engine: creation, resolution and the audit
// views that go with them.
type Service interface {
	CreateLink(ctx context.Context, req CreateLinkRequest) (ShortenedLink, error)
	Resolve(ctx context.Context, slug string) (string, error)
	ListLinks(ctx context.Context, owner string) ([]LinkView, error)
	RecentActivity(ctx context.Context, owner string, limit int) ([]LogEntry, error)
	RecordEvent(ctx context.Context, user string, action Action, details string) error
}

// ServiceConfig holds optional collaborators and tuning for the service.
type ServiceConfig struct {
	SlugGenerator  sluggen.Generator
	IDGenerator    idgen.Generator
	SlugLength     int
	SlugMaxRetries int // attempts when a generated slug collides (default: 3)
	LogLimit       int // default bound for RecentActivity (default: 10)
	BaseURL        string
	Clock          func() time.Time
	Tracer         trace.Tracer
}

type service struct {
	links          LinkRepository
	audit          AuditRepository
	allocator      *Allocator
	ids            idgen.Generator
	slugMaxRetries int
	logLimit       int
	baseURL        string
	now            func() time.Time
	tracer         trace.Tracer
}

// NewService wires the engine over the given repositories.
func NewService(links LinkRepository, audit AuditRepository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	slugLength := config.SlugLength
	if slugLength < MinSlugLength || slugLength > MaxSlugLength {
		slugLength = DefaultSlugLength
	}

	retries := config.SlugMaxRetries
	if retries <= 0 {
		retries = DefaultSlugMaxRetries
	}

	logLimit := config.LogLimit
	if logLimit <= 0 {
		logLimit = DefaultLogLimit
	}

	ids := config.IDGenerator
	if ids == nil {
		ids = idgen.New(idgen.V7, 1)
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &service{
		links:          links,
		audit:          audit,
		allocator:      NewAllocator(links, config.SlugGenerator, slugLength),
		ids:            ids,
		slugMaxRetries: retries,
		logLimit:       logLimit,
		baseURL:        strings.TrimRight(config.BaseURL, "/"),
		now:            clock,
		tracer:         tracer,
	}
}

// CreateLink allocates a slug, stores the link and records a Shorten event.
func (s *service) CreateLink(ctx context.Context, req CreateLinkRequest) (ShortenedLink, error) {
	const op = "shortener.service.CreateLink"

	ctx, span := s.tracer.Start(ctx, "shortener.CreateLink")
	defer span.End()

	if strings.TrimSpace(req.Destination) == "" {
		return ShortenedLink{}, s.fail(span, errx.E(op, errx.Invalid, ErrEmptyDestination))
	}

	ttl := ParseTTL(req.TTLMinutesRaw)
	span.SetAttributes(
		attribute.Int("shortener.ttl_minutes", ttl),
		attribute.Bool("shortener.custom_slug", strings.TrimSpace(req.CandidateSlug) != ""),
	)

	var (
		link Link
		err  error
	)
	for range s.slugMaxRetries {
		var generated bool
		link, generated, err = s.claim(ctx, req, ttl)
		if err == nil {
			break
		}
		// Only generated slugs get another attempt; a caller's slug is final.
		if !generated || !errors.Is(err, ErrDuplicateSlug) {
			return ShortenedLink{}, s.fail(span, errx.E(op, errx.KindOf(err), err))
		}
	}
	if err != nil {
		return ShortenedLink{}, s.fail(span, errx.E(op, errx.Conflict,
			fmt.Errorf("could not generate unique slug after %d attempts: %w", s.slugMaxRetries, err)))
	}
	span.SetAttributes(attribute.String("shortener.slug", link.Slug))

	details := fmt.Sprintf("Slug: %s, Expiry: %d min", link.Slug, link.TTLMinutes)
	if err := s.record(ctx, link.Owner, ActionShorten, details); err != nil {
		return ShortenedLink{}, s.fail(span, errx.E(op, errx.KindOf(err), err))
	}

	return ShortenedLink{Link: link, ShortURL: s.shortURL(link.Slug)}, nil
}

// claim runs one allocate-then-insert round.
func (s *service) claim(ctx context.Context, req CreateLinkRequest, ttl int) (Link, bool, error) {
	const op = "shortener.service.claim"

	slug, generated, err := s.allocator.Allocate(ctx, req.CandidateSlug)
	if err != nil {
		return Link{}, generated, err
	}

	id, err := s.ids.Generate()
	if err != nil {
		return Link{}, generated, errx.E(op, errx.Unavailable, err)
	}

	// Millisecond precision survives every backend unchanged.
	createdAt := s.now().Truncate(time.Millisecond)
	link := Link{
		ID:          id,
		Slug:        slug,
		Destination: req.Destination,
		Owner:       req.Owner,
		CreatedAt:   createdAt,
		ValidUntil:  createdAt.Add(time.Duration(ttl) * time.Minute),
		TTLMinutes:  ttl,
	}

	inserted, err := s.links.InsertIfAbsent(ctx, link)
	if err != nil {
		return Link{}, generated, errx.E(op, errx.KindOf(err), err)
	}
	if !inserted {
		// Someone claimed the slug between the allocator's check and our insert.
		return Link{}, generated, errx.E(op, errx.Conflict, ErrDuplicateSlug)
	}
	return link, generated, nil
}

// Resolve returns the destination for slug and records a Redirect event
// against the link's owner.
func (s *service) Resolve(ctx context.Context, slug string) (string, error) {
	const op = "shortener.service.Resolve"

	ctx, span := s.tracer.Start(ctx, "shortener.Resolve",
		trace.WithAttributes(attribute.String("shortener.slug", slug)))
	defer span.End()

	link, err := s.links.FindBySlug(ctx, slug)
	if err != nil {
		// Repositories wrap ErrNotFound for a missing slug.
		return "", s.fail(span, errx.E(op, errx.KindOf(err), err))
	}

	if !IsActive(link, s.now()) {
		return "", s.fail(span, errx.Errorf(op, errx.Gone, "%w: %s", ErrExpired, slug))
	}

	if err := s.record(ctx, link.Owner, ActionRedirect, "Slug: "+link.Slug); err != nil {
		return "", s.fail(span, errx.E(op, errx.KindOf(err), err))
	}
	return link.Destination, nil
}

// ListLinks returns the owner's links with their status evaluated now.
func (s *service) ListLinks(ctx context.Context, owner string) ([]LinkView, error) {
	const op = "shortener.service.ListLinks"

	links, err := s.links.ListByOwner(ctx, owner)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}

	now := s.now()
	views := make([]LinkView, 0, len(links))
	for _, link := range links {
		views = append(views, LinkView{
			Link:     link,
			ShortURL: s.shortURL(link.Slug),
			Status:   link.Status(now),
		})
	}
	return views, nil
}

// RecentActivity returns the owner's newest audit entries. A non-positive
// limit uses the configured default.
func (s *service) RecentActivity(ctx context.Context, owner string, limit int) ([]LogEntry, error) {
	const op = "shortener.service.RecentActivity"

	if limit <= 0 {
		limit = s.logLimit
	}
	entries, err := s.audit.RecentByUser(ctx, owner, limit)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return entries, nil
}

// RecordEvent appends an event reported by a collaborator, typically the
// authentication layer's Login, Register and Logout.
func (s *service) RecordEvent(ctx context.Context, user string, action Action, details string) error {
	const op = "shortener.service.RecordEvent"

	if !action.Valid() {
		return errx.Errorf(op, errx.Invalid, "unknown action %q", action)
	}
	if err := s.record(ctx, user, action, details); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

func (s *service) record(ctx context.Context, user string, action Action, details string) error {
	_, err := s.audit.Append(ctx, LogEntry{
		Time:    s.now(),
		User:    user,
		Action:  action,
		Details: details,
	})
	return err
}

func (s *service) shortURL(slug string) string {
	return s.baseURL + ShortPathPrefix + slug
}

func (s *service) fail(span trace.Span, err error) error {
	span.SetAttributes(attribute.String("shortener.error_kind", errx.KindOf(err).String()))
	span.SetStatus(codes.Error, err.Error())
	return err
}

// ParseTTL reads a lifetime in minutes the way a form field is read: leading
// whitespace is ignored and parsing stops at the first non-digit. Anything that
// does not yield a positive number of minutes falls back to DefaultTTLMinutes.
func ParseTTL(raw string) int {
	raw = strings.TrimSpace(raw)

	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return DefaultTTLMinutes
	}

	minutes, err := strconv.Atoi(raw[:end])
	if err != nil || minutes <= 0 || minutes > MaxTTLMinutes {
		return DefaultTTLMinutes
	}
	return minutes
}
