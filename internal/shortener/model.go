package shortener

import (
	"time"

	"github.com/google/uuid"
)

// Link is an immutable slug-to-destination mapping owned by a principal.
type Link struct {
	ID          uuid.UUID
	Slug        string
	Destination string
	Owner       string
	CreatedAt   time.Time
	ValidUntil  time.Time
	TTLMinutes  int
}

// Action names an audit event.
type Action string

const (
	ActionLogin    Action = "Login"
	ActionRegister Action = "Register"
	ActionLogout   Action = "Logout"
	ActionShorten  Action = "Shorten"
	ActionRedirect Action = "Redirect"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionLogin, ActionRegister, ActionLogout, ActionShorten, ActionRedirect:
		return true
	default:
		return false
	}
}

// LogEntry is a single audit event. Seq is assigned by the audit repository
// and increases with insertion order.
type LogEntry struct {
	Seq     int64
	Time    time.Time
	User    string
	Action  Action
	Details string
}

// ShortenedLink is what CreateLink hands back to the presentation layer.
type ShortenedLink struct {
	Link
	ShortURL string
}

// LinkView is a link as shown in an owner's link list.
type LinkView struct {
	Link
	ShortURL string
	Status   Status
}
