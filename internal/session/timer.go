package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultTickInterval = time.Second
	DefaultRenewAfter   = 30*time.Minute - time.Second
)

// armed is one live ticker/trigger pair. Both handles are created by Arm and
// released together.
type armed struct {
	expiresAt time.Time
	ticker    clockwork.Ticker
	trigger   clockwork.Timer
	done      chan struct{}
}

func (p *armed) stop() {
	p.ticker.Stop()
	p.trigger.Stop()
	close(p.done)
}

// Timer drives the renewal countdown for one session at a time.
//
// A tick or trigger only acts if its pair is still the current one, checked
// under the timer lock, so nothing runs after Cancel returns.
type Timer struct {
	clock      clockwork.Clock
	tickEvery  time.Duration
	renewAfter time.Duration
	onFire     func()
	onChange   func()

	mu        sync.Mutex
	pair      *armed
	countdown string
}

// NewTimer creates a disarmed timer. onFire runs when a trigger elapses;
// onChange runs after the countdown text changes. Neither is called with the
// timer lock held. onChange must not block.
func NewTimer(clock clockwork.Clock, tickEvery, renewAfter time.Duration, onFire, onChange func()) *Timer {
	if tickEvery <= 0 {
		tickEvery = DefaultTickInterval
	}
	if renewAfter <= 0 {
		renewAfter = DefaultRenewAfter
	}
	if onChange == nil {
		onChange = func() {}
	}
	return &Timer{
		clock:      clock,
		tickEvery:  tickEvery,
		renewAfter: renewAfter,
		onFire:     onFire,
		onChange:   onChange,
	}
}

// Arm replaces any live pair with a new one counting down to expiresAt. The
// trigger fires renewAfter from now regardless of expiresAt.
func (t *Timer) Arm(expiresAt time.Time) {
	t.mu.Lock()
	t.cancelLocked()

	p := &armed{
		expiresAt: expiresAt,
		ticker:    t.clock.NewTicker(t.tickEvery),
		done:      make(chan struct{}),
	}
	p.trigger = t.clock.AfterFunc(t.renewAfter, func() { t.fire(p) })
	t.pair = p
	t.countdown = CountdownText(secondsUntil(expiresAt, t.clock.Now()))
	t.mu.Unlock()

	go t.forward(p)
	t.onChange()
}

// Cancel stops the live pair, if any, and clears the countdown.
func (t *Timer) Cancel() {
	t.mu.Lock()
	changed := t.cancelLocked()
	t.mu.Unlock()

	if changed {
		t.onChange()
	}
}

// Countdown returns the current countdown text, empty when disarmed.
func (t *Timer) Countdown() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.countdown
}

// Armed reports whether a pair is live.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pair != nil
}

func (t *Timer) cancelLocked() bool {
	if t.pair == nil {
		t.countdown = ""
		return false
	}
	t.pair.stop()
	t.pair = nil
	t.countdown = ""
	return true
}

func (t *Timer) forward(p *armed) {
	for {
		select {
		case now := <-p.ticker.Chan():
			t.tick(p, now)
		case <-p.done:
			return
		}
	}
}

func (t *Timer) tick(p *armed, now time.Time) {
	t.mu.Lock()
	if t.pair != p {
		t.mu.Unlock()
		return
	}
	t.countdown = CountdownText(secondsUntil(p.expiresAt, now))
	t.mu.Unlock()

	t.onChange()
}

func (t *Timer) fire(p *armed) {
	t.mu.Lock()
	if t.pair != p {
		t.mu.Unlock()
		return
	}
	p.stop()
	t.pair = nil
	t.countdown = ""
	t.mu.Unlock()

	t.onChange()
	if t.onFire != nil {
		t.onFire()
	}
}
