package shortener

import (
	"context"
	"sync"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

// MemoryLinkRepository keeps links in process memory. It is safe for
// concurrent use.
type MemoryLinkRepository struct {
	mu     sync.RWMutex
	bySlug map[string]Link
	order  []string
}

// NewMemoryLinkRepository returns an empty in-memory link store.
func NewMemoryLinkRepository() *MemoryLinkRepository {
	return &MemoryLinkRepository{bySlug: make(map[string]Link)}
}

func (r *MemoryLinkRepository) InsertIfAbsent(_ context.Context, link Link) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlug[link.Slug]; taken {
		return false, nil
	}
	r.bySlug[link.Slug] = link
	r.order = append(r.order, link.Slug)
	return true, nil
}

func (r *MemoryLinkRepository) FindBySlug(_ context.Context, slug string) (Link, error) {
	const op = "shortener.memory.FindBySlug"

	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.bySlug[slug]
	if !ok {
		return Link{}, errx.Errorf(op, errx.NotFound, "%w: %s", ErrNotFound, slug)
	}
	return link, nil
}

func (r *MemoryLinkRepository) ListByOwner(_ context.Context, owner string) ([]Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var links []Link
	for _, slug := range r.order {
		if link := r.bySlug[slug]; link.Owner == owner {
			links = append(links, link)
		}
	}
	return links, nil
}

// MemoryAuditRepository keeps audit entries in process memory. It is safe
// for concurrent use.
type MemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// NewMemoryAuditRepository returns an empty in-memory audit log.
func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Append(_ context.Context, entry LogEntry) (LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.Seq = int64(len(r.entries)) + 1
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *MemoryAuditRepository) RecentByUser(_ context.Context, user string, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []LogEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].User == user {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}
