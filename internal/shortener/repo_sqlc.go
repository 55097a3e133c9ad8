package shortener

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/sundayezeilo/shortlinks/internal/db/sqlc"
	"github.com/sundayezeilo/shortlinks/internal/errx"
)

// querier is the subset of *db.Queries used by the Postgres repositories.
type querier interface {
	InsertLinkIfAbsent(ctx context.Context, arg db.InsertLinkIfAbsentParams) (int64, error)
	GetLinkBySlug(ctx context.Context, slug string) (db.Link, error)
	ListLinksByOwner(ctx context.Context, owner string) ([]db.Link, error)
	AppendAuditLog(ctx context.Context, arg db.AppendAuditLogParams) (db.AuditLog, error)
	ListRecentAuditLogsByUser(ctx context.Context, arg db.ListRecentAuditLogsByUserParams) ([]db.AuditLog, error)
}

// PostgresRepository implements LinkRepository and AuditRepository on top of
// the sqlc queries.
type PostgresRepository struct {
	q querier
}

// NewPostgresRepository returns a repository backed by q.
func NewPostgresRepository(q querier) *PostgresRepository {
	return &PostgresRepository{q: q}
}

func toTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func toDomainLink(x db.Link) (Link, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return Link{}, err
	}
	validUntil, err := mustTime(x.ValidUntil, "valid_until")
	if err != nil {
		return Link{}, err
	}

	return Link{
		ID:          x.ID,
		Slug:        x.Slug,
		Destination: x.Destination,
		Owner:       x.Owner,
		CreatedAt:   createdAt,
		ValidUntil:  validUntil,
		TTLMinutes:  int(x.TtlMinutes),
	}, nil
}

func toDomainEntry(x db.AuditLog) (LogEntry, error) {
	loggedAt, err := mustTime(x.LoggedAt, "logged_at")
	if err != nil {
		return LogEntry{}, err
	}
	return LogEntry{
		Seq:     x.Seq,
		Time:    loggedAt,
		User:    x.Username,
		Action:  Action(x.Action),
		Details: x.Details,
	}, nil
}

func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, link Link) (bool, error) {
	const op = "shortener.postgres.InsertIfAbsent"

	if link.TTLMinutes <= 0 || link.TTLMinutes > math.MaxInt32 {
		return false, errx.Errorf(op, errx.Invalid, "ttl out of range: %d", link.TTLMinutes)
	}

	n, err := r.q.InsertLinkIfAbsent(ctx, db.InsertLinkIfAbsentParams{
		ID:          link.ID,
		Slug:        link.Slug,
		Destination: link.Destination,
		Owner:       link.Owner,
		CreatedAt:   toTimestamptz(link.CreatedAt),
		ValidUntil:  toTimestamptz(link.ValidUntil),
		TtlMinutes:  int32(link.TTLMinutes),
	})
	if err != nil {
		// ON CONFLICT covers the slug, but a racing insert can still surface
		// the constraint name on some isolation levels.
		if isSlugUniqueViolation(err) {
			return false, nil
		}
		return false, mapRepoError(op, err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) FindBySlug(ctx context.Context, slug string) (Link, error) {
	const op = "shortener.postgres.FindBySlug"

	row, err := r.q.GetLinkBySlug(ctx, slug)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	link, err := toDomainLink(row)
	if err != nil {
		return Link{}, errx.E(op, errx.Internal, err)
	}
	return link, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]Link, error) {
	const op = "shortener.postgres.ListByOwner"

	rows, err := r.q.ListLinksByOwner(ctx, owner)
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	links := make([]Link, 0, len(rows))
	for _, row := range rows {
		link, err := toDomainLink(row)
		if err != nil {
			return nil, errx.E(op, errx.Internal, err)
		}
		links = append(links, link)
	}
	return links, nil
}

func (r *PostgresRepository) Append(ctx context.Context, entry LogEntry) (LogEntry, error) {
	const op = "shortener.postgres.Append"

	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	row, err := r.q.AppendAuditLog(ctx, db.AppendAuditLogParams{
		LoggedAt: toTimestamptz(entry.Time),
		Username: entry.User,
		Action:   string(entry.Action),
		Details:  entry.Details,
	})
	if err != nil {
		return LogEntry{}, mapRepoError(op, err)
	}
	saved, err := toDomainEntry(row)
	if err != nil {
		return LogEntry{}, errx.E(op, errx.Internal, err)
	}
	return saved, nil
}

func (r *PostgresRepository) RecentByUser(ctx context.Context, user string, limit int) ([]LogEntry, error) {
	const op = "shortener.postgres.RecentByUser"

	if limit <= 0 {
		return nil, nil
	}
	if limit > math.MaxInt32 {
		limit = math.MaxInt32
	}

	rows, err := r.q.ListRecentAuditLogsByUser(ctx, db.ListRecentAuditLogsByUserParams{
		Username: user,
		Limit:    int32(limit),
	})
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	entries := make([]LogEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := toDomainEntry(row)
		if err != nil {
			return nil, errx.E(op, errx.Internal, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
