package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/netkeeper/internal/common"
	"github.com/dmitrijs2005/netkeeper/internal/portal"
	"github.com/dmitrijs2005/netkeeper/internal/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in. The outcome is reported by
// the activity log; the password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if s := a.ctrl.Snapshot(); s.SignedIn {
		a.notice(fmt.Sprintf("Already signed in as %s, use logout first.", s.Username))
		return session.ErrAlreadySignedIn
	}

	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.ctrl.SignIn(ctx, userName, password)
	if errors.Is(err, session.ErrBusy) {
		a.notice("Another operation is in progress, try again.")
	}
	a.flushLog()
	return err
}

// Logout signs out. A failed sign-out leaves no activity-log entry, so the
// reason is printed here.
func (a *App) Logout(ctx context.Context) error {
	err := a.ctrl.SignOut(ctx)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotSignedIn):
		a.notice("Not signed in.")
	case errors.Is(err, session.ErrBusy):
		a.notice("Another operation is in progress, try again.")
	default:
		a.notice(errorStyle.Render("Sign-out failed: " + portal.Message(err)))
	}
	a.flushLog()
	return err
}

func (a *App) notice(msg string) {
	a.printMu.Lock()
	defer a.printMu.Unlock()
	fmt.Fprintln(a.out, msg)
}
