// Package console serves the optional browser surface of netkeeper.
//
// Routes
//
//	GET    /                 single-page console
//	GET    /api/v1/state     current session snapshot (JSON)
//	POST   /api/v1/session   sign in, body {"username","password"}
//	DELETE /api/v1/session   sign out
//	GET    /ws               snapshot stream, one JSON message per change
//	GET    /health           liveness
//	GET    /metrics          prometheus
//
// The console holds no state of its own: every request goes through the
// session controller and every websocket message is a fresh Snapshot.
// It is meant to listen on a loopback address.
package console
