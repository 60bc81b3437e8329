package portal

import (
	"errors"
	"fmt"
	"time"
)

// Session is an authenticated network session.
type Session struct {
	Username  string
	Secret    string
	ExpiresAt time.Time
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Username string `json:"username"`
}

type currentSession struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

type sessionRecord struct {
	CreateAt string `json:"createat"`
	Expire   string `json:"expire"`
	IP       string `json:"ip"`
	Secret   string `json:"secret"`
	Username string `json:"username"`
}

type sessionResponse struct {
	CurrentSession currentSession  `json:"current_session"`
	AllSession     []sessionRecord `json:"all_session"`
}

type errorResponse struct {
	Msg string `json:"msg"`
}

var expireLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseExpire reads an expiry timestamp. Values without a zone are taken as
// wall-clock time in loc.
func parseExpire(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range expireLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised expiry %q", s)
}

// session picks the entry matching the current secret, or the first entry
// when none matches.
func (r *sessionResponse) session(fallbackUser string, loc *time.Location) (*Session, error) {
	if r.CurrentSession.Secret == "" {
		return nil, errors.New("missing current session secret")
	}
	if len(r.AllSession) == 0 {
		return nil, errors.New("empty session list")
	}

	rec := r.AllSession[0]
	for _, s := range r.AllSession {
		if s.Secret == r.CurrentSession.Secret {
			rec = s
			break
		}
	}

	exp, err := parseExpire(rec.Expire, loc)
	if err != nil {
		return nil, err
	}

	user := r.CurrentSession.Username
	if user == "" {
		user = fallbackUser
	}

	return &Session{Username: user, Secret: r.CurrentSession.Secret, ExpiresAt: exp}, nil
}
