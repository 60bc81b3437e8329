// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
)

var (
	// Portal metrics
	PortalRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netkeeper_portal_requests_total",
			Help: "Total number of requests sent to the login portal",
		},
		[]string{"op", "outcome"},
	)

	PortalRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netkeeper_portal_request_duration_seconds",
			Help:    "Login portal request latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"op"},
	)

	// Session metrics
	SessionSignedIn = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "netkeeper_session_signed_in",
			Help: "1 while a portal session is held, 0 otherwise",
		},
	)

	SessionRenewalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netkeeper_session_renewals_total",
			Help: "Total number of automatic session renewals",
		},
		[]string{"outcome"},
	)

	// Console metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netkeeper_http_requests_total",
			Help: "Total number of console HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netkeeper_http_request_duration_seconds",
			Help:    "Console HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "netkeeper_websocket_clients",
			Help: "Number of connected console websocket clients",
		},
	)
)

// Outcome maps an error to the outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
