// Package portal talks to the CMU network login API.
//
// The API has three calls used here:
//
//	POST   /login                 {"username","password"} -> session list
//	POST   /                      {"username"} + x-session-secret -> session list
//	DELETE /{username}/{secret}   x-session-secret
//
// Every failure is reported as *Error, whose Message is fit for the user's
// activity log.
package portal
