// Package cli provides the interactive netkeeper terminal.
//
// The REPL drives a session.Controller: it prompts for credentials on
// "login", signs out on "logout" and prints activity-log entries as they
// are appended, including the ones produced by automatic renewals while the
// prompt is idle.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. See runREPL for the command set.
package cli
