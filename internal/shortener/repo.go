package shortener

import "context"

// LinkRepository persists Link records. Records are never updated or deleted
// through this interface.
type LinkRepository interface {
	// InsertIfAbsent stores link unless its slug is already taken. The check and
	// the insert are a single atomic step; a taken slug yields (false, nil).
	InsertIfAbsent(ctx context.Context, link Link) (bool, error)
	// FindBySlug returns an errx.NotFound error when no record exists.
	FindBySlug(ctx context.Context, slug string) (Link, error)
	// ListByOwner returns the owner's links oldest first.
	ListByOwner(ctx context.Context, owner string) ([]Link, error)
}

// AuditRepository is an append-only event log.
type AuditRepository interface {
	// Append stores entry and returns it with its sequence number set.
	Append(ctx context.Context, entry LogEntry) (LogEntry, error)
	// RecentByUser returns at most limit entries for user, newest first.
	RecentByUser(ctx context.Context, user string, limit int) ([]LogEntry, error)
}
