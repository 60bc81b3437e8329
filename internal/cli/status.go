package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

const defaultHistoryLimit = 20

var errHistoryDisabled = errors.New("history is disabled")

// Status prints the session state, expiry and countdown.
func (a *App) Status(ctx context.Context) error {
	s := a.ctrl.Snapshot()

	a.printMu.Lock()
	defer a.printMu.Unlock()

	if !s.SignedIn {
		fmt.Fprintln(a.out, labelStyle.Render("Status:"), "signed out")
		return nil
	}

	fmt.Fprintln(a.out, labelStyle.Render("Status:"), "signed in as", s.Username)
	fmt.Fprintln(a.out, labelStyle.Render("Expires:"), s.Expiry)
	if s.Countdown != "" {
		fmt.Fprintln(a.out, faintStyle.Render(s.Countdown))
	} else {
		fmt.Fprintln(a.out, faintStyle.Render("Automatic renewal is not scheduled."))
	}
	return nil
}

// ShowLog prints the whole activity log.
func (a *App) ShowLog(ctx context.Context) error {
	a.printMu.Lock()
	defer a.printMu.Unlock()

	for _, e := range a.ctrl.Book().Entries() {
		fmt.Fprintln(a.out, renderEntry(e))
	}
	return nil
}

// History prints persisted entries from earlier and current runs.
// args may hold the number of entries to show.
func (a *App) History(ctx context.Context, args []string) error {
	if a.history == nil {
		a.notice("History is disabled, start with -history <file> to enable it.")
		return errHistoryDisabled
	}

	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			a.notice("Usage: history [n]")
			return fmt.Errorf("invalid history limit %q", args[0])
		}
		limit = n
	}

	records, err := a.history.Recent(ctx, limit)
	if err != nil {
		a.notice(errorStyle.Render("Could not read history: " + err.Error()))
		return err
	}

	a.printMu.Lock()
	defer a.printMu.Unlock()

	if len(records) == 0 {
		fmt.Fprintln(a.out, "No history yet.")
		return nil
	}
	for _, r := range records {
		fmt.Fprintln(a.out, renderRecord(r, a.loc))
	}
	return nil
}
