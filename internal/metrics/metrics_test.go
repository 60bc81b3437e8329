package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome(nil))
	assert.Equal(t, OutcomeFailure, Outcome(errors.New("boom")))
}

func TestPortalRequestsTotal(t *testing.T) {
	c := PortalRequestsTotal.WithLabelValues("test-op", OutcomeSuccess)
	before := testutil.ToFloat64(c)

	c.Inc()
	c.Inc()

	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestSessionSignedIn(t *testing.T) {
	SessionSignedIn.Set(1)
	assert.Equal(t, float64(1), testutil.ToFloat64(SessionSignedIn))

	SessionSignedIn.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(SessionSignedIn))
}

func TestWebSocketClients(t *testing.T) {
	before := testutil.ToFloat64(WebSocketClients)
	WebSocketClients.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(WebSocketClients))
	WebSocketClients.Dec()
	assert.Equal(t, before, testutil.ToFloat64(WebSocketClients))
}

func TestHistogramsAcceptLabels(t *testing.T) {
	assert.NotPanics(t, func() {
		PortalRequestDuration.WithLabelValues("authenticate").Observe(0.2)
		HTTPRequestDuration.WithLabelValues("GET", "/api/v1/state").Observe(0.01)
	})
}
