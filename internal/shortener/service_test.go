package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/idgen"
)

/***************
 * Fakes
 ***************/

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// seqSlugs hands out slugs in order, repeating the last one.
type seqSlugs struct {
	mu    sync.Mutex
	slugs []string
	calls int
}

func (g *seqSlugs) Generate(int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := min(g.calls, len(g.slugs)-1)
	g.calls++
	return g.slugs[i], nil
}

// racingLinks reports every slug as free but refuses every insert, the way a
// store behaves when another writer wins between check and insert.
type racingLinks struct {
	*MemoryLinkRepository
	inserts int
}

func (r *racingLinks) InsertIfAbsent(context.Context, Link) (bool, error) {
	r.inserts++
	return false, nil
}

// brokenAudit fails every append.
type brokenAudit struct {
	*MemoryAuditRepository
}

func (brokenAudit) Append(context.Context, LogEntry) (LogEntry, error) {
	return LogEntry{}, errx.E("shortener.test.Append", errx.Unavailable, errors.New("disk full"))
}

type fixture struct {
	svc   Service
	links *MemoryLinkRepository
	audit *MemoryAuditRepository
	clock *fakeClock
}

func newFixture(t *testing.T, cfg *ServiceConfig) *fixture {
	t.Helper()

	f := &fixture{
		links: NewMemoryLinkRepository(),
		audit: NewMemoryAuditRepository(),
		clock: newFakeClock(),
	}
	if cfg == nil {
		cfg = &ServiceConfig{}
	}
	cfg.Clock = f.clock.Now
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://sho.rt"
	}
	f.svc = NewService(f.links, f.audit, cfg)
	return f
}

func (f *fixture) create(t *testing.T, owner, dest, slug, ttl string) ShortenedLink {
	t.Helper()
	link, err := f.svc.CreateLink(context.Background(), CreateLinkRequest{
		Owner: owner, Destination: dest, CandidateSlug: slug, TTLMinutesRaw: ttl,
	})
	if err != nil {
		t.Fatalf("CreateLink(%q) error = %v", slug, err)
	}
	return link
}

func (f *fixture) entries(t *testing.T, user string) []LogEntry {
	t.Helper()
	entries, err := f.audit.RecentByUser(context.Background(), user, 100)
	if err != nil {
		t.Fatalf("RecentByUser() error = %v", err)
	}
	return entries
}

func assertKind(t *testing.T, err error, kind errx.Kind, sentinel error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", kind)
	}
	if got := errx.KindOf(err); got != kind {
		t.Errorf("KindOf() = %v, want %v (err %v)", got, kind, err)
	}
	if sentinel != nil && !errors.Is(err, sentinel) {
		t.Errorf("error %v does not wrap %v", err, sentinel)
	}
}

/***************
 * CreateLink
 ***************/

func TestServiceCreateLink(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateLinkRequest
		wantSlug string // empty means generated
		wantTTL  int
	}{
		{
			name:     "custom slug and ttl",
			req:      CreateLinkRequest{Owner: "alice", Destination: "https://example.com", CandidateSlug: "docs_1", TTLMinutesRaw: "15"},
			wantSlug: "docs_1",
			wantTTL:  15,
		},
		{
			name:     "candidate is trimmed",
			req:      CreateLinkRequest{Owner: "alice", Destination: "https://example.com", CandidateSlug: "  my-link \n", TTLMinutesRaw: "5"},
			wantSlug: "my-link",
			wantTTL:  5,
		},
		{
			name:    "blank candidate generates",
			req:     CreateLinkRequest{Owner: "alice", Destination: "https://example.com", CandidateSlug: "   "},
			wantTTL: DefaultTTLMinutes,
		},
		{
			name:    "anonymous owner is attributed as empty",
			req:     CreateLinkRequest{Destination: "https://example.com", TTLMinutesRaw: "2"},
			wantTTL: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			got, err := f.svc.CreateLink(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("CreateLink() error = %v", err)
			}

			if tt.wantSlug != "" && got.Slug != tt.wantSlug {
				t.Errorf("Slug = %q, want %q", got.Slug, tt.wantSlug)
			}
			if tt.wantSlug == "" && (len(got.Slug) < MinSlugLength || ValidateSlug(got.Slug) != nil) {
				t.Errorf("generated slug %q is not a valid %d+ character slug", got.Slug, MinSlugLength)
			}

			want := Link{
				ID:          got.ID,
				Slug:        got.Slug,
				Destination: tt.req.Destination,
				Owner:       tt.req.Owner,
				CreatedAt:   f.clock.Now(),
				ValidUntil:  f.clock.Now().Add(time.Duration(tt.wantTTL) * time.Minute),
				TTLMinutes:  tt.wantTTL,
			}
			if diff := cmp.Diff(want, got.Link); diff != "" {
				t.Errorf("Link mismatch (-want +got):\n%s", diff)
			}
			if got.ID == uuid.Nil {
				t.Error("ID should be assigned")
			}
			if got.ShortURL != "https://sho.rt/s/"+got.Slug {
				t.Errorf("ShortURL = %q", got.ShortURL)
			}

			stored, err := f.links.FindBySlug(context.Background(), got.Slug)
			if err != nil {
				t.Fatalf("stored link missing: %v", err)
			}
			if diff := cmp.Diff(got.Link, stored); diff != "" {
				t.Errorf("stored link mismatch (-want +got):\n%s", diff)
			}

			wantLog := []LogEntry{{
				Seq:     1,
				User:    tt.req.Owner,
				Action:  ActionShorten,
				Details: fmt.Sprintf("Slug: %s, Expiry: %d min", got.Slug, tt.wantTTL),
			}}
			if diff := cmp.Diff(wantLog, f.entries(t, tt.req.Owner), cmpopts.IgnoreFields(LogEntry{}, "Time")); diff != "" {
				t.Errorf("audit log mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestServiceCreateLink_TTLFallback(t *testing.T) {
	for _, raw := range []string{"", "0", "-5", "abc"} {
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			f := newFixture(t, nil)
			link := f.create(t, "alice", "https://example.com", "", raw)
			if link.TTLMinutes != 30 {
				t.Errorf("TTLMinutes = %d, want 30", link.TTLMinutes)
			}
		})
	}
}

func TestServiceCreateLink_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateLinkRequest
		kind     errx.Kind
		sentinel error
	}{
		{"empty destination", CreateLinkRequest{Owner: "alice", Destination: ""}, errx.Invalid, ErrEmptyDestination},
		{"whitespace destination", CreateLinkRequest{Owner: "alice", Destination: " \t"}, errx.Invalid, ErrEmptyDestination},
		{"space in slug", CreateLinkRequest{Owner: "alice", Destination: "https://x.io", CandidateSlug: "two words"}, errx.Invalid, ErrInvalidFormat},
		{"slash in slug", CreateLinkRequest{Owner: "alice", Destination: "https://x.io", CandidateSlug: "a/b"}, errx.Invalid, ErrInvalidFormat},
		{"non-ascii slug", CreateLinkRequest{Owner: "alice", Destination: "https://x.io", CandidateSlug: "café"}, errx.Invalid, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			_, err := f.svc.CreateLink(context.Background(), tt.req)
			assertKind(t, err, tt.kind, tt.sentinel)

			if links, _ := f.links.ListByOwner(context.Background(), "alice"); len(links) != 0 {
				t.Errorf("nothing should be inserted, got %d links", len(links))
			}
			if entries := f.entries(t, "alice"); len(entries) != 0 {
				t.Errorf("nothing should be logged, got %+v", entries)
			}
		})
	}
}

func TestServiceCreateLink_DuplicateCandidate(t *testing.T) {
	gen := &seqSlugs{slugs: []string{"unused"}}
	f := newFixture(t, &ServiceConfig{SlugGenerator: gen})
	f.create(t, "alice", "https://a.example.com", "shared", "")

	_, err := f.svc.CreateLink(context.Background(), CreateLinkRequest{
		Owner: "bob", Destination: "https://b.example.com", CandidateSlug: "shared",
	})
	assertKind(t, err, errx.Conflict, ErrDuplicateSlug)

	if gen.calls != 0 {
		t.Errorf("caller-supplied slug must not fall back to generation, got %d calls", gen.calls)
	}
	stored, _ := f.links.FindBySlug(context.Background(), "shared")
	if stored.Destination != "https://a.example.com" {
		t.Errorf("first link overwritten: %+v", stored)
	}
}

func TestServiceCreateLink_ExpiredSlugStaysTaken(t *testing.T) {
	f := newFixture(t, nil)
	f.create(t, "alice", "https://a.example.com", "oldone", "1")
	f.clock.Advance(time.Hour)

	_, err := f.svc.CreateLink(context.Background(), CreateLinkRequest{
		Owner: "bob", Destination: "https://b.example.com", CandidateSlug: "oldone",
	})
	assertKind(t, err, errx.Conflict, ErrDuplicateSlug)
}

func TestServiceCreateLink_GeneratedCollisionRetries(t *testing.T) {
	t.Run("retries until a free slug", func(t *testing.T) {
		gen := &seqSlugs{slugs: []string{"taken1", "taken1", "fresh1"}}
		f := newFixture(t, &ServiceConfig{SlugGenerator: gen})
		if _, err := f.links.InsertIfAbsent(context.Background(), Link{Slug: "taken1", Destination: "x"}); err != nil {
			t.Fatal(err)
		}

		link := f.create(t, "alice", "https://example.com", "", "")
		if link.Slug != "fresh1" {
			t.Errorf("Slug = %q, want fresh1", link.Slug)
		}
		if gen.calls != 3 {
			t.Errorf("generator calls = %d, want 3", gen.calls)
		}
	})

	t.Run("gives up after the bound", func(t *testing.T) {
		gen := &seqSlugs{slugs: []string{"taken1"}}
		f := newFixture(t, &ServiceConfig{SlugGenerator: gen, SlugMaxRetries: 4})
		if _, err := f.links.InsertIfAbsent(context.Background(), Link{Slug: "taken1", Destination: "x"}); err != nil {
			t.Fatal(err)
		}

		_, err := f.svc.CreateLink(context.Background(), CreateLinkRequest{Owner: "alice", Destination: "https://example.com"})
		assertKind(t, err, errx.Conflict, ErrDuplicateSlug)
		if gen.calls != 4 {
			t.Errorf("generator calls = %d, want 4", gen.calls)
		}
	})
}

func TestServiceCreateLink_LostInsertRace(t *testing.T) {
	links := &racingLinks{MemoryLinkRepository: NewMemoryLinkRepository()}
	audit := NewMemoryAuditRepository()
	svc := NewService(links, audit, nil)

	_, err := svc.CreateLink(context.Background(), CreateLinkRequest{
		Owner: "alice", Destination: "https://example.com", CandidateSlug: "racy01",
	})
	assertKind(t, err, errx.Conflict, ErrDuplicateSlug)
	if links.inserts != 1 {
		t.Errorf("inserts = %d, want exactly 1 for a caller-supplied slug", links.inserts)
	}
	if entries, _ := audit.RecentByUser(context.Background(), "alice", 10); len(entries) != 0 {
		t.Errorf("failed create should not be logged: %+v", entries)
	}
}

func TestServiceCreateLink_IDGeneratorFailure(t *testing.T) {
	f := newFixture(t, &ServiceConfig{
		IDGenerator: idgen.Func(func() (uuid.UUID, error) { return uuid.Nil, errors.New("entropy exhausted") }),
	})

	_, err := f.svc.CreateLink(context.Background(), CreateLinkRequest{Owner: "alice", Destination: "https://example.com"})
	assertKind(t, err, errx.Unavailable, nil)
}

func TestServiceCreateLink_AuditFailureIsReported(t *testing.T) {
	links := NewMemoryLinkRepository()
	svc := NewService(links, brokenAudit{NewMemoryAuditRepository()}, nil)

	_, err := svc.CreateLink(context.Background(), CreateLinkRequest{
		Owner: "alice", Destination: "https://example.com", CandidateSlug: "logged",
	})
	assertKind(t, err, errx.Unavailable, nil)
}

func TestServiceCreateLink_UniqueUnderConcurrency(t *testing.T) {
	const n = 64
	f := newFixture(t, nil)

	var wg sync.WaitGroup
	results := make([]ShortenedLink, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			candidate := ""
			if i%2 == 0 {
				candidate = fmt.Sprintf("slug%03d", i)
			}
			results[i], errs[i] = f.svc.CreateLink(context.Background(), CreateLinkRequest{
				Owner: "alice", Destination: "https://example.com", CandidateSlug: candidate,
			})
		}()
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := range n {
		if errs[i] != nil {
			t.Fatalf("create %d: %v", i, errs[i])
		}
		if seen[results[i].Slug] {
			t.Fatalf("slug %q handed out twice", results[i].Slug)
		}
		seen[results[i].Slug] = true
	}

	links, _ := f.links.ListByOwner(context.Background(), "alice")
	if len(links) != n {
		t.Errorf("stored %d links, want %d", len(links), n)
	}
}

func TestServiceCreateLink_ConcurrentSameCandidate(t *testing.T) {
	const n = 32
	f := newFixture(t, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateLink(context.Background(), CreateLinkRequest{
				Owner: "alice", Destination: "https://example.com", CandidateSlug: "hot-slug",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrDuplicateSlug):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 || conflicts != n-1 {
		t.Errorf("wins = %d, conflicts = %d; want 1 and %d", wins, conflicts, n-1)
	}
}

/***************
 * Resolve
 ***************/

func TestServiceResolve_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr bool
	}{
		{"immediately", 0, false},
		{"mid lifetime", 5 * time.Minute, false},
		{"exactly at deadline", 10 * time.Minute, false},
		{"one nanosecond late", 10*time.Minute + time.Nanosecond, true},
		{"long after", 48 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			link := f.create(t, "alice", "https://example.com/page", "", "10")
			f.clock.Advance(tt.elapsed)

			dest, err := f.svc.Resolve(context.Background(), link.Slug)
			if tt.wantErr {
				assertKind(t, err, errx.Gone, ErrExpired)
				if _, findErr := f.links.FindBySlug(context.Background(), link.Slug); findErr != nil {
					t.Errorf("expired record should stay in the store: %v", findErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if dest != "https://example.com/page" {
				t.Errorf("Resolve() = %q", dest)
			}
		})
	}
}

func TestServiceResolve_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	f.create(t, "alice", "https://example.com", "exists", "")

	_, err := f.svc.Resolve(context.Background(), "nonexistent")
	assertKind(t, err, errx.NotFound, ErrNotFound)

	entries := f.entries(t, "alice")
	if len(entries) != 1 || entries[0].Action != ActionShorten {
		t.Errorf("a failed resolve must not be logged, got %+v", entries)
	}
}

func TestServiceResolve_LogsRedirectAfterShorten(t *testing.T) {
	f := newFixture(t, nil)
	link := f.create(t, "alice", "https://example.com", "", "")
	f.clock.Advance(time.Second)

	if _, err := f.svc.Resolve(context.Background(), link.Slug); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	got, err := f.svc.RecentActivity(context.Background(), "alice", 10)
	if err != nil {
		t.Fatalf("RecentActivity() error = %v", err)
	}
	want := []LogEntry{
		{Seq: 2, Time: f.clock.Now(), User: "alice", Action: ActionRedirect, Details: "Slug: " + link.Slug},
		{Seq: 1, Time: f.clock.Now().Add(-time.Second), User: "alice", Action: ActionShorten,
			Details: fmt.Sprintf("Slug: %s, Expiry: 30 min", link.Slug)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("activity mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceResolve_AttributesRedirectToOwner(t *testing.T) {
	f := newFixture(t, nil)
	link := f.create(t, "alice", "https://example.com", "", "")

	// The visitor is not known to the engine; only the owner is recorded.
	if _, err := f.svc.Resolve(context.Background(), link.Slug); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if entries := f.entries(t, ""); len(entries) != 0 {
		t.Errorf("anonymous user should have no entries, got %+v", entries)
	}
	if entries := f.entries(t, "alice"); len(entries) != 2 {
		t.Errorf("owner should have 2 entries, got %+v", entries)
	}
}

func TestService_OneMinuteLinkLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	link := f.create(t, "alice", "https://example.com", "", "1")

	if len(link.Slug) < 6 {
		t.Errorf("generated slug %q is shorter than 6", link.Slug)
	}
	if link.TTLMinutes != 1 {
		t.Errorf("TTLMinutes = %d, want 1", link.TTLMinutes)
	}

	f.clock.Advance(61 * time.Second)
	_, err := f.svc.Resolve(context.Background(), link.Slug)
	assertKind(t, err, errx.Gone, ErrExpired)
}

func TestServiceResolve_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f := newFixture(t, &ServiceConfig{Tracer: provider.Tracer("test")})
	_, _ = f.svc.Resolve(context.Background(), "missing")

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "shortener.Resolve" {
		t.Errorf("span name = %q", span.Name())
	}
	if span.Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", span.Status().Code)
	}
}

/***************
 * Views and events
 ***************/

func TestServiceListLinks(t *testing.T) {
	f := newFixture(t, nil)
	short := f.create(t, "alice", "https://a.example.com", "short1", "1")
	long := f.create(t, "alice", "https://b.example.com", "long01", "60")
	f.create(t, "bob", "https://c.example.com", "bobs01", "")
	f.clock.Advance(2 * time.Minute)

	got, err := f.svc.ListLinks(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListLinks() error = %v", err)
	}
	want := []LinkView{
		{Link: short.Link, ShortURL: "https://sho.rt/s/short1", Status: StatusExpired},
		{Link: long.Link, ShortURL: "https://sho.rt/s/long01", Status: StatusActive},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListLinks mismatch (-want +got):\n%s", diff)
	}

	none, err := f.svc.ListLinks(context.Background(), "carol")
	if err != nil || len(none) != 0 {
		t.Errorf("ListLinks(carol) = %v, %v; want empty", none, err)
	}
}

func TestServiceRecentActivity_Limit(t *testing.T) {
	f := newFixture(t, &ServiceConfig{LogLimit: 3})
	for i := range 5 {
		f.create(t, "alice", "https://example.com", fmt.Sprintf("slug%02d", i), "")
	}

	tests := []struct {
		limit     int
		wantCount int
		wantFirst string
	}{
		{0, 3, "slug04"},
		{-1, 3, "slug04"},
		{2, 2, "slug04"},
		{50, 5, "slug04"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit %d", tt.limit), func(t *testing.T) {
			got, err := f.svc.RecentActivity(context.Background(), "alice", tt.limit)
			if err != nil {
				t.Fatalf("RecentActivity() error = %v", err)
			}
			if len(got) != tt.wantCount {
				t.Fatalf("got %d entries, want %d", len(got), tt.wantCount)
			}
			if !strings.Contains(got[0].Details, tt.wantFirst) {
				t.Errorf("newest entry = %q, want it to mention %s", got[0].Details, tt.wantFirst)
			}
			for i := 1; i < len(got); i++ {
				if got[i-1].Seq <= got[i].Seq {
					t.Errorf("entries not newest-first: %d before %d", got[i-1].Seq, got[i].Seq)
				}
			}
		})
	}
}

func TestServiceRecordEvent(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		wantErr bool
	}{
		{"login", ActionLogin, false},
		{"register", ActionRegister, false},
		{"logout", ActionLogout, false},
		{"unknown", Action("Delete"), true},
		{"wrong case", Action("login"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			err := f.svc.RecordEvent(context.Background(), "dana", tt.action, "via sso")

			if tt.wantErr {
				assertKind(t, err, errx.Invalid, nil)
				if entries := f.entries(t, "dana"); len(entries) != 0 {
					t.Errorf("rejected event was logged: %+v", entries)
				}
				return
			}
			if err != nil {
				t.Fatalf("RecordEvent() error = %v", err)
			}
			want := []LogEntry{{Seq: 1, Time: f.clock.Now(), User: "dana", Action: tt.action, Details: "via sso"}}
			if diff := cmp.Diff(want, f.entries(t, "dana")); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

/***************
 * Helpers
 ***************/

func TestParseTTL(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 30},
		{"0", 30},
		{"-5", 30},
		{"abc", 30},
		{"15", 15},
		{" 7 ", 7},
		{"+3", 3},
		{"12abc", 12},
		{"1.5", 1},
		{"-", 30},
		{"99999999999999999999", 30},
		{fmt.Sprint(MaxTTLMinutes), MaxTTLMinutes},
		{fmt.Sprint(MaxTTLMinutes + 1), 30},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.raw), func(t *testing.T) {
			if got := ParseTTL(tt.raw); got != tt.want {
				t.Errorf("ParseTTL(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewService_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		slugLength int
		wantLength int
	}{
		{"zero uses default", 0, DefaultSlugLength},
		{"below minimum uses default", 3, DefaultSlugLength},
		{"above maximum uses default", MaxSlugLength + 1, DefaultSlugLength},
		{"custom", 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &ServiceConfig{SlugLength: tt.slugLength})
			link := f.create(t, "alice", "https://example.com", "", "")
			if len(link.Slug) != tt.wantLength {
				t.Errorf("slug %q has length %d, want %d", link.Slug, len(link.Slug), tt.wantLength)
			}
		})
	}
}
