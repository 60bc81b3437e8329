package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/journal"
	"github.com/dmitrijs2005/netkeeper/internal/session"
)

// controller is the part of session.Controller the terminal uses.
type controller interface {
	SignIn(ctx context.Context, username string, password []byte) error
	SignOut(ctx context.Context) error
	Snapshot() session.Snapshot
	Book() *journal.Book
}

type App struct {
	ctrl    controller
	history journal.Store
	loc     *time.Location
	reader  *bufio.Reader
	out     io.Writer

	printMu  sync.Mutex
	lastSeen int64
}

// NewApp creates a terminal over ctrl. history may be nil when persistence
// is disabled.
func NewApp(ctrl controller, history journal.Store, loc *time.Location, in io.Reader, out io.Writer) *App {
	if loc == nil {
		loc = time.Local
	}
	return &App{
		ctrl:    ctrl,
		history: history,
		loc:     loc,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run prints the greeting and runs the REPL until the user exits or input
// ends. New activity-log entries are printed while it runs.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to netkeeper (type 'help' for commands)")
	a.flushLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.watchLog(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isSignedIn() bool {
	return a.ctrl.Snapshot().SignedIn
}

func (a *App) getStatus() string {
	s := a.ctrl.Snapshot()
	switch {
	case s.Busy:
		return "(working...)"
	case s.SignedIn:
		return fmt.Sprintf("(%s)", s.Username)
	default:
		return "(signed out)"
	}
}

// watchLog prints entries appended by background work, such as renewals,
// until ctx is cancelled.
func (a *App) watchLog(ctx context.Context) {
	ch, unsubscribe := a.ctrl.Book().Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ch:
			a.flushLog()
		case <-ctx.Done():
			return
		}
	}
}

// flushLog prints entries not shown yet.
func (a *App) flushLog() {
	a.printMu.Lock()
	defer a.printMu.Unlock()

	for _, e := range a.ctrl.Book().Since(a.lastSeen) {
		fmt.Fprintln(a.out, renderEntry(e))
		a.lastSeen = e.ID
	}
}
