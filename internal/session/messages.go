package session

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MsgGreeting         = "Hi, please sign-in using your CMU Account (email)."
	MsgSignInSuccess    = "Sign-in successfully 🎉."
	MsgConnected        = "You are now connected to the internet."
	MsgSignInFailed     = "Sign-in failed 😢. "
	MsgSessionDeleted   = "Session is deleted 🗑️."
	MsgDisconnected     = "You are disconnected from the internet."
	MsgRenewFailed      = "Refreshing session failed 😢. "
	msgExpiresAt        = "Session will be expired at "
	msgRefreshedExpires = "Session is refreshed. It will be expired at "

	// ExpiryLayout renders e.g. "January 1, 2025 12:00 PM".
	ExpiryLayout = "January 2, 2006 3:04 PM"
)

var printer = message.NewPrinter(language.English)

// FormatExpiry renders t in loc with ExpiryLayout.
func FormatExpiry(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(ExpiryLayout)
}

// CountdownText renders the renewal countdown with grouped digits.
func CountdownText(seconds int64) string {
	return printer.Sprintf("Refreshing session in %d second(s)... Do not exit this app. (Minimize is OK)", seconds)
}

// secondsUntil returns whole seconds from now to t, truncated toward zero.
func secondsUntil(t, now time.Time) int64 {
	return int64(t.Sub(now) / time.Second)
}
