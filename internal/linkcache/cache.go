// Package linkcache puts a Redis read-through cache in front of a link
// repository. Links are immutable, so a cached copy never goes stale; it only
// stops being useful once the link expires, which is when its key does too.
package linkcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

const defaultPrefix = "shortlinks"

// Repository wraps a shortener.LinkRepository. Cache failures are logged and
// fall through to the wrapped store; they never fail a call.
type Repository struct {
	next   shortener.LinkRepository
	client goredis.UniversalClient
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Repository)

// WithPrefix sets the key namespace.
func WithPrefix(prefix string) Option {
	return func(r *Repository) {
		if p := strings.TrimSpace(prefix); p != "" {
			r.prefix = p
		}
	}
}

// WithLogger sets the logger used for cache errors.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the clock used to compute key lifetimes.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// New returns a caching decorator over next.
func New(next shortener.LinkRepository, client goredis.UniversalClient, opts ...Option) *Repository {
	r := &Repository{
		next:   next,
		client: client,
		prefix: defaultPrefix,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// cachedLink is the JSON shape stored under a slug key.
type cachedLink struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Destination string    `json:"destination"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	ValidUntil  time.Time `json:"valid_until"`
	TTLMinutes  int       `json:"ttl_minutes"`
}

func (r *Repository) key(slug string) string {
	return r.prefix + ":link:" + slug
}

func (r *Repository) InsertIfAbsent(ctx context.Context, link shortener.Link) (bool, error) {
	inserted, err := r.next.InsertIfAbsent(ctx, link)
	if err != nil || !inserted {
		return inserted, err
	}
	r.store(ctx, link)
	return true, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (shortener.Link, error) {
	if link, ok := r.load(ctx, slug); ok {
		return link, nil
	}

	link, err := r.next.FindBySlug(ctx, slug)
	if err != nil {
		return shortener.Link{}, err
	}
	r.store(ctx, link)
	return link, nil
}

// ListByOwner always reads the wrapped store; owner lists are not cached.
func (r *Repository) ListByOwner(ctx context.Context, owner string) ([]shortener.Link, error) {
	return r.next.ListByOwner(ctx, owner)
}

// store caches link for the rest of its active lifetime. Expired links are
// never cached so a lookup after expiry reaches the store and reports Expired.
func (r *Repository) store(ctx context.Context, link shortener.Link) {
	ttl := link.ValidUntil.Sub(r.now())
	if ttl <= 0 {
		return
	}

	raw, err := json.Marshal(cachedLink{
		ID:          link.ID.String(),
		Slug:        link.Slug,
		Destination: link.Destination,
		Owner:       link.Owner,
		CreatedAt:   link.CreatedAt,
		ValidUntil:  link.ValidUntil,
		TTLMinutes:  link.TTLMinutes,
	})
	if err != nil {
		r.logger.WarnContext(ctx, "link cache encode failed", "slug", link.Slug, "error", err.Error())
		return
	}

	if err := r.client.Set(ctx, r.key(link.Slug), raw, ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "link cache write failed", "slug", link.Slug, "error", err.Error())
	}
}

func (r *Repository) load(ctx context.Context, slug string) (shortener.Link, bool) {
	raw, err := r.client.Get(ctx, r.key(slug)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			r.logger.WarnContext(ctx, "link cache read failed", "slug", slug, "error", err.Error())
		}
		return shortener.Link{}, false
	}

	link, err := decode(raw)
	if err != nil {
		r.logger.WarnContext(ctx, "link cache decode failed", "slug", slug, "error", err.Error())
		return shortener.Link{}, false
	}
	return link, true
}

func decode(raw []byte) (shortener.Link, error) {
	var c cachedLink
	if err := json.Unmarshal(raw, &c); err != nil {
		return shortener.Link{}, err
	}
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return shortener.Link{}, err
	}
	return shortener.Link{
		ID:          id,
		Slug:        c.Slug,
		Destination: c.Destination,
		Owner:       c.Owner,
		CreatedAt:   c.CreatedAt,
		ValidUntil:  c.ValidUntil,
		TTLMinutes:  c.TTLMinutes,
	}, nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client goredis.UniversalClient) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
