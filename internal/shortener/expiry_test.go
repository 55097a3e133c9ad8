package shortener

import (
	"testing"
	"time"
)

func TestLinkStatus(t *testing.T) {
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	link := Link{CreatedAt: created, ValidUntil: created.Add(time.Minute), TTLMinutes: 1}

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"at creation", created, StatusActive},
		{"before creation", created.Add(-time.Hour), StatusActive},
		{"one millisecond before deadline", link.ValidUntil.Add(-time.Millisecond), StatusActive},
		{"at deadline", link.ValidUntil, StatusActive},
		{"one millisecond after deadline", link.ValidUntil.Add(time.Millisecond), StatusExpired},
		{"sixty one seconds later", created.Add(61 * time.Second), StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := link.Status(tt.now); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
			if got := IsActive(link, tt.now); got != (tt.want == StatusActive) {
				t.Errorf("IsActive() = %v", got)
			}
		})
	}
}

func TestLinkStatus_IgnoresLocation(t *testing.T) {
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	link := Link{ValidUntil: created.Add(time.Minute)}

	tokyo := time.FixedZone("JST", 9*60*60)
	if got := link.Status(link.ValidUntil.In(tokyo)); got != StatusActive {
		t.Errorf("Status() in another zone = %q, want active", got)
	}
}
