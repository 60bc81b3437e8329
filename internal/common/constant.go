// Package common contains small helpers and constants shared by the netkeeper
// packages.
package common

// SessionSecretHeaderName is the HTTP header that carries the portal session
// secret on terminate and refresh requests.
const SessionSecretHeaderName = "x-session-secret"

// DefaultAPIURL is the base URL of the CMU login API.
const DefaultAPIURL = "https://login-api.cmu.ac.th"
