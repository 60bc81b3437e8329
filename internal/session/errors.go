package session

import "errors"

var (
	ErrAlreadySignedIn = errors.New("already signed in")
	ErrNotSignedIn     = errors.New("not signed in")
	ErrBusy            = errors.New("another operation is in progress")
	ErrStaleResponse   = errors.New("response belongs to a previous session")
	ErrClosed          = errors.New("controller is closed")
)
