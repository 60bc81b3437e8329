// Package session owns the portal session lifecycle.
//
// A Controller moves between SignedOut and SignedIn in response to user
// intents (SignIn, SignOut) and to its Timer, which counts down to the next
// renewal and triggers Renew about a second before the portal's 30 minute
// window runs out. Presentation surfaces never touch state directly: they
// call the intents, read Snapshot and wait on Subscribe.
//
// Concurrency
//
// Controller state is guarded by one mutex that is never held across a
// portal call. Only one user operation may be in flight (ErrBusy). Each
// sign-in and each transition to SignedOut bumps an epoch; a renewal that
// finishes under a different epoch is dropped with ErrStaleResponse. Lock
// order is controller, then timer.
package session
