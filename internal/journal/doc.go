// Package journal keeps the user-facing activity log.
//
// A Book is the in-memory, append-only list rendered by the terminal and
// browser surfaces. When history is enabled, a Recorder attached as the
// Book's Sink copies every entry into a SQLiteStore tagged with the run id
// of the current process.
//
// Only the rendered log text is persisted. Callers must never put session
// secrets or passwords into an entry.
package journal
