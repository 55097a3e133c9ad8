package shortener

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

// SQLiteRepository implements LinkRepository and AuditRepository in a single
// SQLite file. Timestamps are stored as Unix milliseconds.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository migrates db and returns a repository over it.
func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS links (
            id             TEXT    PRIMARY KEY,
            slug           TEXT    NOT NULL UNIQUE,
            destination    TEXT    NOT NULL CHECK (length(destination) > 0),
            owner          TEXT    NOT NULL DEFAULT '',
            created_at_ms  INTEGER NOT NULL,
            valid_until_ms INTEGER NOT NULL,
            ttl_minutes    INTEGER NOT NULL CHECK (ttl_minutes > 0),
            CHECK (valid_until_ms > created_at_ms)
        );
        CREATE INDEX IF NOT EXISTS idx_links_owner ON links(owner, created_at_ms);

        CREATE TABLE IF NOT EXISTS audit_logs (
            seq       INTEGER PRIMARY KEY AUTOINCREMENT,
            logged_at TEXT    NOT NULL,
            username  TEXT    NOT NULL DEFAULT '',
            action    TEXT    NOT NULL,
            details   TEXT    NOT NULL DEFAULT ''
        );
        CREATE INDEX IF NOT EXISTS idx_audit_logs_username ON audit_logs(username, seq);
    `
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("shortener: sqlite migration failed: %w", err)
	}
	return nil
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, link Link) (bool, error) {
	const op = "shortener.sqlite.InsertIfAbsent"

	result, err := r.db.ExecContext(ctx, `
        INSERT INTO links (id, slug, destination, owner, created_at_ms, valid_until_ms, ttl_minutes)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(slug) DO NOTHING`,
		link.ID.String(), link.Slug, link.Destination, link.Owner,
		link.CreatedAt.UnixMilli(), link.ValidUntil.UnixMilli(), link.TTLMinutes,
	)
	if err != nil {
		return false, errx.E(op, errx.Unavailable, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, errx.E(op, errx.Unavailable, err)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) FindBySlug(ctx context.Context, slug string) (Link, error) {
	const op = "shortener.sqlite.FindBySlug"

	row := r.db.QueryRowContext(ctx, `
        SELECT id, slug, destination, owner, created_at_ms, valid_until_ms, ttl_minutes
        FROM links WHERE slug = ?`, slug)

	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Link{}, errx.Errorf(op, errx.NotFound, "%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return Link{}, errx.E(op, errx.Unavailable, err)
	}
	return link, nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, owner string) ([]Link, error) {
	const op = "shortener.sqlite.ListByOwner"

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, slug, destination, owner, created_at_ms, valid_until_ms, ttl_minutes
        FROM links WHERE owner = ? ORDER BY created_at_ms, rowid`, owner)
	if err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, errx.E(op, errx.Unavailable, err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}
	return links, nil
}

func (r *SQLiteRepository) Append(ctx context.Context, entry LogEntry) (LogEntry, error) {
	const op = "shortener.sqlite.Append"

	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	result, err := r.db.ExecContext(ctx, `
        INSERT INTO audit_logs (logged_at, username, action, details)
        VALUES (?, ?, ?, ?)`,
		entry.Time.UTC().Format(time.RFC3339Nano), entry.User, string(entry.Action), entry.Details,
	)
	if err != nil {
		return LogEntry{}, errx.E(op, errx.Unavailable, err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return LogEntry{}, errx.E(op, errx.Unavailable, err)
	}
	entry.Seq = seq
	return entry, nil
}

func (r *SQLiteRepository) RecentByUser(ctx context.Context, user string, limit int) ([]LogEntry, error) {
	const op = "shortener.sqlite.RecentByUser"

	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT seq, logged_at, username, action, details
        FROM audit_logs WHERE username = ? ORDER BY seq DESC LIMIT ?`, user, limit)
	if err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var (
			entry    LogEntry
			loggedAt string
			action   string
		)
		if err := rows.Scan(&entry.Seq, &loggedAt, &entry.User, &action, &entry.Details); err != nil {
			return nil, errx.E(op, errx.Unavailable, err)
		}
		entry.Action = Action(action)
		entry.Time, err = time.Parse(time.RFC3339Nano, loggedAt)
		if err != nil {
			return nil, errx.Errorf(op, errx.Internal, "logged_at: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (Link, error) {
	var (
		link         Link
		id           string
		createdAtMs  int64
		validUntilMs int64
	)
	if err := row.Scan(&id, &link.Slug, &link.Destination, &link.Owner,
		&createdAtMs, &validUntilMs, &link.TTLMinutes); err != nil {
		return Link{}, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return Link{}, fmt.Errorf("id: %w", err)
	}
	link.ID = parsed
	link.CreatedAt = time.UnixMilli(createdAtMs)
	link.ValidUntil = time.UnixMilli(validUntilMs)
	return link, nil
}
