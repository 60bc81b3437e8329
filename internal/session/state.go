package session

import (
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/journal"
)

// State of the controller.
type State int

const (
	SignedOut State = iota
	SignedIn
)

func (s State) String() string {
	switch s {
	case SignedIn:
		return "signed-in"
	default:
		return "signed-out"
	}
}

// RenewStrategy selects how a session is extended.
type RenewStrategy string

const (
	// Reauthenticate submits the stored credentials again.
	Reauthenticate RenewStrategy = "reauthenticate"
	// Refresh presents the current secret to the refresh endpoint.
	Refresh RenewStrategy = "refresh"
)

// FailurePolicy decides what a failed renewal does to the session.
type FailurePolicy string

const (
	// KeepStale stays SignedIn with the old secret and no timer.
	KeepStale FailurePolicy = "keep"
	// SignOutOnFailure drops the session and credentials.
	SignOutOnFailure FailurePolicy = "signout"
)

// Snapshot is a point-in-time copy of what the surfaces render.
type Snapshot struct {
	State     State           `json:"-"`
	SignedIn  bool            `json:"signed_in"`
	Username  string          `json:"username,omitempty"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Expiry    string          `json:"expiry,omitempty"`
	Countdown string          `json:"countdown"`
	Busy      bool            `json:"busy"`
	Log       []journal.Entry `json:"log"`
}
