package journal

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies an entry for rendering.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Error   Severity = "error"
)

// Entry is one line of the activity log. ID is 1-based and increases in
// insertion order.
type Entry struct {
	ID       int64     `json:"id"`
	Severity Severity  `json:"severity"`
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
}

// Record is a persisted entry together with the run that produced it.
type Record struct {
	RunID string
	Entry
}

// Run summarises one process lifetime in the history.
type Run struct {
	ID        string
	StartedAt time.Time
	Entries   int
}

// NewRunID returns an identifier for the current process.
func NewRunID() string {
	return uuid.NewString()
}
