package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/common"
	"github.com/dmitrijs2005/netkeeper/internal/cryptox"
	"github.com/dmitrijs2005/netkeeper/internal/journal"
	"github.com/dmitrijs2005/netkeeper/internal/logging"
	"github.com/dmitrijs2005/netkeeper/internal/metrics"
	"github.com/dmitrijs2005/netkeeper/internal/portal"
	"github.com/jonboulle/clockwork"
)

// Portal is the remote API the controller drives.
type Portal interface {
	Authenticate(ctx context.Context, username, password string) (*portal.Session, error)
	Terminate(ctx context.Context, username, secret string) error
	Refresh(ctx context.Context, username, secret string) (*portal.Session, error)
}

// Options tune a Controller. Zero values select the defaults.
type Options struct {
	Clock         clockwork.Clock
	Location      *time.Location
	TickInterval  time.Duration
	RenewAfter    time.Duration
	RenewStrategy RenewStrategy
	RenewFailure  FailurePolicy
	Logger        logging.Logger
}

// Controller owns the session state machine.
type Controller struct {
	portal   Portal
	book     *journal.Book
	timer    *Timer
	sealer   *cryptox.Sealer
	log      logging.Logger
	loc      *time.Location
	strategy RenewStrategy
	policy   FailurePolicy

	// base is the context of timer-driven renewals; cancelled by Close.
	base   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	session  *portal.Session
	username string
	password *cryptox.Box
	busy     bool
	renewing bool
	epoch    uint64
	closed   bool

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

// NewController creates a signed-out controller and greets the user in book.
func NewController(p Portal, book *journal.Book, opts Options) (*Controller, error) {
	sealer, err := cryptox.NewSealer()
	if err != nil {
		return nil, err
	}

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.RenewStrategy == "" {
		opts.RenewStrategy = Reauthenticate
	}
	if opts.RenewFailure == "" {
		opts.RenewFailure = KeepStale
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	base, cancel := context.WithCancel(context.Background())

	c := &Controller{
		portal:   p,
		book:     book,
		sealer:   sealer,
		log:      opts.Logger.With("component", "session"),
		loc:      opts.Location,
		strategy: opts.RenewStrategy,
		policy:   opts.RenewFailure,
		base:     base,
		cancel:   cancel,
		subs:     make(map[chan struct{}]struct{}),
	}
	c.timer = NewTimer(opts.Clock, opts.TickInterval, opts.RenewAfter, c.onTrigger, c.notify)

	book.Append(journal.Info, MsgGreeting)
	metrics.SessionSignedIn.Set(0)

	return c, nil
}

// SignIn authenticates username and, on success, arms the renewal timer.
// A failure is logged to the book and returned.
func (c *Controller) SignIn(ctx context.Context, username string, password []byte) error {
	c.mu.Lock()
	if err := c.beginLocked(SignedOut); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()
	c.notify()

	sess, err := c.portal.Authenticate(ctx, username, string(password))

	c.mu.Lock()
	c.busy = false
	if err != nil {
		c.book.Append(journal.Error, MsgSignInFailed+portal.Message(err))
		c.mu.Unlock()
		c.notify()
		c.log.Warn(ctx, "sign-in failed", "username", username, "error", err)
		return err
	}

	c.epoch++
	c.state = SignedIn
	c.session = sess
	c.username = username
	c.password = c.sealer.Seal(password)

	c.book.Append(journal.Success, MsgSignInSuccess)
	c.book.Append(journal.Success, MsgConnected)
	c.book.Append(journal.Success, msgExpiresAt+FormatExpiry(sess.ExpiresAt, c.loc))
	if !c.closed {
		c.timer.Arm(sess.ExpiresAt)
	}
	metrics.SessionSignedIn.Set(1)
	c.mu.Unlock()
	c.notify()

	c.log.Info(ctx, "signed in", "username", username, "expires_at", sess.ExpiresAt)
	return nil
}

// SignOut terminates the current session. On failure nothing changes and
// the book is left untouched.
func (c *Controller) SignOut(ctx context.Context) error {
	c.mu.Lock()
	if err := c.beginLocked(SignedIn); err != nil {
		c.mu.Unlock()
		return err
	}
	username, secret := c.username, c.session.Secret
	c.mu.Unlock()
	c.notify()

	err := c.portal.Terminate(ctx, username, secret)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		c.mu.Unlock()
		c.notify()
		c.log.Warn(ctx, "sign-out failed", "username", username, "error", err)
		return err
	}

	c.signOutLocked()
	c.book.Append(journal.Success, MsgSessionDeleted)
	c.book.Append(journal.Success, MsgDisconnected)
	c.mu.Unlock()
	c.notify()

	c.log.Info(ctx, "signed out", "username", username)
	return nil
}

// Renew extends the current session. It is driven by the timer trigger.
//
// With the KeepStale policy a failure leaves the controller SignedIn with
// the old secret and no armed timer.
func (c *Controller) Renew(ctx context.Context) error {
	c.mu.Lock()
	if c.state != SignedIn {
		c.mu.Unlock()
		return ErrNotSignedIn
	}
	if c.renewing {
		c.mu.Unlock()
		return ErrBusy
	}
	c.renewing = true
	epoch := c.epoch
	username, secret := c.username, c.session.Secret

	var password []byte
	var openErr error
	if c.strategy != Refresh {
		password, openErr = c.sealer.Open(c.password)
	}
	c.mu.Unlock()

	var (
		sess *portal.Session
		err  error
	)
	switch {
	case openErr != nil:
		err = openErr
	case c.strategy == Refresh:
		sess, err = c.portal.Refresh(ctx, username, secret)
	default:
		sess, err = c.portal.Authenticate(ctx, username, string(password))
		common.WipeByteArray(password)
	}

	c.mu.Lock()
	c.renewing = false
	if c.epoch != epoch || c.state != SignedIn {
		closed := c.closed
		c.mu.Unlock()
		metrics.SessionRenewalsTotal.WithLabelValues(metrics.OutcomeStale).Inc()
		c.log.Info(ctx, "discarding renewal result of a previous session", "username", username, "error", err)
		if err == nil && !closed {
			c.terminateOrphan(ctx, username, sess)
		}
		return ErrStaleResponse
	}
	metrics.SessionRenewalsTotal.WithLabelValues(metrics.Outcome(err)).Inc()

	if err != nil {
		c.book.Append(journal.Error, MsgRenewFailed+portal.Message(err))
		if c.policy == SignOutOnFailure {
			c.signOutLocked()
			c.book.Append(journal.Success, MsgDisconnected)
		}
		c.mu.Unlock()
		c.notify()
		c.log.Warn(ctx, "renewal failed", "username", username, "policy", string(c.policy), "error", err)
		return err
	}

	c.session = sess
	c.book.Append(journal.Success, msgRefreshedExpires+FormatExpiry(sess.ExpiresAt, c.loc))
	c.timer.Arm(sess.ExpiresAt)
	c.mu.Unlock()
	c.notify()

	c.log.Info(ctx, "session renewed", "username", username, "expires_at", sess.ExpiresAt)
	return nil
}

// terminateOrphan deletes a session the portal issued after the controller
// had already moved on, so the machine does not stay online behind the
// user's back. The result is only logged.
func (c *Controller) terminateOrphan(ctx context.Context, username string, sess *portal.Session) {
	if sess == nil || sess.Secret == "" {
		return
	}
	if err := c.portal.Terminate(context.WithoutCancel(ctx), username, sess.Secret); err != nil {
		c.log.Warn(ctx, "failed to terminate orphaned session", "username", username, "error", err)
		return
	}
	c.log.Info(ctx, "orphaned session terminated", "username", username)
}

// Snapshot returns the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:     c.state,
		SignedIn:  c.state == SignedIn,
		Countdown: c.timer.Countdown(),
		Busy:      c.busy,
		Log:       c.book.Entries(),
	}
	if c.state == SignedIn {
		s.Username = c.username
		exp := c.session.ExpiresAt
		s.ExpiresAt = &exp
		s.Expiry = FormatExpiry(exp, c.loc)
	}
	return s
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Book returns the activity log the controller writes to.
func (c *Controller) Book() *journal.Book {
	return c.book
}

// Subscribe returns a channel signalled after every state, log or countdown
// change. Signals coalesce. The returned func unsubscribes.
func (c *Controller) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	c.subMu.Lock()
	c.subs[ch] = struct{}{}
	c.subMu.Unlock()

	return ch, func() {
		c.subMu.Lock()
		delete(c.subs, ch)
		c.subMu.Unlock()
	}
}

// Close cancels the timer and any in-flight renewal. The portal session is
// left as is. Further intents fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.epoch++
	c.timer.Cancel()
	c.mu.Unlock()

	c.cancel()
}

func (c *Controller) beginLocked(want State) error {
	switch {
	case c.closed:
		return ErrClosed
	case c.busy:
		return ErrBusy
	case want == SignedOut && c.state == SignedIn:
		return ErrAlreadySignedIn
	case want == SignedIn && c.state != SignedIn:
		return ErrNotSignedIn
	}
	c.busy = true
	return nil
}

// signOutLocked cancels the timer and forgets the session and credentials.
func (c *Controller) signOutLocked() {
	c.timer.Cancel()
	c.epoch++
	c.state = SignedOut
	c.session = nil
	c.username = ""
	if c.password != nil {
		c.password.Wipe()
		c.password = nil
	}
	metrics.SessionSignedIn.Set(0)
}

func (c *Controller) onTrigger() {
	err := c.Renew(c.base)
	if err != nil && !errors.Is(err, ErrStaleResponse) {
		c.log.Debug(c.base, "timer renewal ended with error", "error", err)
	}
}

func (c *Controller) notify() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
