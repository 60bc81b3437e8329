package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/common"
	"github.com/dmitrijs2005/netkeeper/internal/logging"
	"github.com/dmitrijs2005/netkeeper/internal/metrics"
	"github.com/google/uuid"
)

const (
	opAuthenticate = "authenticate"
	opTerminate    = "terminate"
	opRefresh      = "refresh"

	maxBodyBytes = 1 << 20
)

// Client handles requests to the login portal.
type Client struct {
	baseURL    string
	httpClient *http.Client
	loc        *time.Location
	log        logging.Logger
}

// NewClient creates a portal client. A zero timeout disables the deadline.
// Expiry timestamps without a zone are read in loc; nil means time.Local.
func NewClient(baseURL string, timeout time.Duration, loc *time.Location, log logging.Logger) *Client {
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		loc: loc,
		log: log,
	}
}

// Authenticate signs username in and returns the new session.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	body := loginRequest{Username: username, Password: password}

	var s *Session
	err := c.do(ctx, opAuthenticate, http.MethodPost, "/login", "", body, func(raw []byte) error {
		var err error
		s, err = decodeSession(raw, username, c.loc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh extends the session identified by secret.
func (c *Client) Refresh(ctx context.Context, username, secret string) (*Session, error) {
	body := refreshRequest{Username: username}

	var s *Session
	err := c.do(ctx, opRefresh, http.MethodPost, "/", secret, body, func(raw []byte) error {
		var err error
		s, err = decodeSession(raw, username, c.loc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Terminate deletes the session. The portal's explanation is never surfaced;
// any failure carries GenericMessage.
func (c *Client) Terminate(ctx context.Context, username, secret string) error {
	path := "/" + url.PathEscape(username) + "/" + url.PathEscape(secret)

	err := c.do(ctx, opTerminate, http.MethodDelete, path, secret, nil, nil)
	var pe *Error
	if errors.As(err, &pe) {
		pe.Message = GenericMessage
	}
	return err
}

func decodeSession(raw []byte, username string, loc *time.Location) (*Session, error) {
	var resp sessionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return resp.session(username, loc)
}

// do performs one request. decode, when non-nil, receives the body of a 2xx
// response; its error turns into ErrUnavailable.
func (c *Client) do(ctx context.Context, op, method, path, secret string, body any, decode func([]byte) error) error {
	start := time.Now()
	log := c.log.With("op", op, "op_id", uuid.NewString())

	err := c.roundTrip(ctx, log, method, path, secret, body, decode)

	elapsed := time.Since(start)
	metrics.PortalRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	metrics.PortalRequestsTotal.WithLabelValues(op, metrics.Outcome(err)).Inc()
	if err != nil {
		log.Warn(ctx, "portal request failed", "error", err, "elapsed", elapsed)
	} else {
		log.Debug(ctx, "portal request done", "elapsed", elapsed)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, log logging.Logger, method, path, secret string, body any, decode func([]byte) error) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if secret != "" {
		req.Header.Set(common.SessionSecretHeaderName, secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug(ctx, "transport error", "error", err)
		return unavailable("")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Debug(ctx, "failed to read body", "error", err)
		return unavailable(statusText(resp))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejection(resp, raw)
	}

	if decode != nil {
		if err := decode(raw); err != nil {
			log.Debug(ctx, "unexpected response", "error", err)
			return unavailable(statusText(resp))
		}
	}
	return nil
}

// rejection maps a non-2xx answer onto *Error using the body's msg field.
func rejection(resp *http.Response, raw []byte) *Error {
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Msg == "" {
		return unavailable(statusText(resp))
	}

	sentinel := ErrRejected
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		sentinel = ErrUnauthorized
	}
	return &Error{Status: statusText(resp), Message: body.Msg, Err: sentinel}
}

// statusText renders "401 Unauthorized" style status lines.
func statusText(resp *http.Response) string {
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
