package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dmitrijs2005/netkeeper/internal/portal"
	"github.com/dmitrijs2005/netkeeper/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	f := newFakeCtrl()
	a, out := newTestApp(f, nil)
	pw := []byte("secret")
	stubInputs(t, "user@cmu.ac.th", pw)

	require.NoError(t, a.Login(context.Background()))

	assert.Equal(t, "user@cmu.ac.th", f.gotUser)
	assert.Equal(t, "secret", f.gotPass)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, pw, "password must be wiped")
	assert.Contains(t, out.String(), session.MsgSignInSuccess)
}

func TestLogin_FailureIsReportedByLog(t *testing.T) {
	f := newFakeCtrl()
	f.signInErr = &portal.Error{Status: "401 Unauthorized", Message: "invalid password", Err: portal.ErrUnauthorized}
	a, out := newTestApp(f, nil)
	stubInputs(t, "user@cmu.ac.th", []byte("bad"))

	err := a.Login(context.Background())

	assert.ErrorIs(t, err, portal.ErrUnauthorized)
	assert.Contains(t, out.String(), "Sign-in failed 😢. invalid password")
}

func TestLogin_AlreadySignedInDoesNotPrompt(t *testing.T) {
	f := newFakeCtrl()
	f.snap = session.Snapshot{SignedIn: true, Username: "u"}
	a, out := newTestApp(f, nil)

	orig := getSimpleText
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		t.Fatal("must not prompt")
		return "", nil
	}
	t.Cleanup(func() { getSimpleText = orig })

	assert.ErrorIs(t, a.Login(context.Background()), session.ErrAlreadySignedIn)
	assert.Contains(t, out.String(), "Already signed in as u")
}

func TestLogin_InputErrors(t *testing.T) {
	f := newFakeCtrl()
	a, _ := newTestApp(f, nil)

	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = origST, origGP })

	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return "", io.EOF }
	assert.ErrorIs(t, a.Login(context.Background()), io.EOF)

	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return "u", nil }
	getPassword = func(io.Writer) ([]byte, error) { return nil, errors.New("no tty") }
	assert.Error(t, a.Login(context.Background()))
	assert.Empty(t, f.gotUser)
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantOut string
	}{
		{name: "success", wantOut: session.MsgSessionDeleted},
		{name: "not signed in", err: session.ErrNotSignedIn, wantOut: "Not signed in."},
		{name: "busy", err: session.ErrBusy, wantOut: "Another operation is in progress"},
		{name: "portal failure", err: &portal.Error{Message: portal.GenericMessage, Err: portal.ErrUnavailable},
			wantOut: "Sign-out failed: " + portal.GenericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeCtrl()
			f.signOutErr = tt.err
			a, out := newTestApp(f, nil)

			err := a.Logout(context.Background())
			if tt.err == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.err)
			}
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}
