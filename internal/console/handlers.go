package console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/netkeeper/internal/common"
	"github.com/dmitrijs2005/netkeeper/internal/portal"
	"github.com/dmitrijs2005/netkeeper/internal/session"
	"github.com/gorilla/websocket"
)

const maxRequestBody = 4 << 10

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string            `json:"error"`
	State *session.Snapshot `json:"state,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body."})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Username and password are required."})
		return
	}

	password := []byte(req.Password)
	defer common.WipeByteArray(password)

	// A closed tab must not abort a sign-in the portal may already have accepted.
	err := s.ctrl.SignIn(context.WithoutCancel(r.Context()), req.Username, password)
	s.respond(w, err)
}

func (s *Server) signOut(w http.ResponseWriter, r *http.Request) {
	err := s.ctrl.SignOut(context.WithoutCancel(r.Context()))
	s.respond(w, err)
}

// respond maps an intent's outcome to a status code. The body always carries
// the resulting snapshot.
func (s *Server) respond(w http.ResponseWriter, err error) {
	snap := s.ctrl.Snapshot()
	if err == nil {
		writeJSON(w, http.StatusOK, snap)
		return
	}

	status := http.StatusBadGateway
	msg := portal.Message(err)
	switch {
	case errors.Is(err, session.ErrAlreadySignedIn), errors.Is(err, session.ErrNotSignedIn), errors.Is(err, session.ErrBusy):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, session.ErrClosed):
		status = http.StatusServiceUnavailable
		msg = err.Error()
	case errors.Is(err, portal.ErrUnauthorized):
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, errorResponse{Error: msg, State: &snap})
}

// sameOrigin accepts requests without an Origin header and those whose
// Origin host matches the Host header.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(s.hub, conn, r.RemoteAddr)
	if !s.hub.Register(client) {
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     sameOrigin,
	}
}
