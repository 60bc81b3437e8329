package console

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/logging"
	"github.com/dmitrijs2005/netkeeper/internal/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed static/index.html
var indexHTML []byte

// controller is the part of session.Controller the console uses.
type controller interface {
	SignIn(ctx context.Context, username string, password []byte) error
	SignOut(ctx context.Context) error
	Snapshot() session.Snapshot
	Subscribe() (<-chan struct{}, func())
}

// Config configures the console server.
type Config struct {
	Addr        string
	SignInRate  float64
	SignInBurst int
}

type Server struct {
	cfg      Config
	ctrl     controller
	hub      *Hub
	upgrader websocket.Upgrader
	log      logging.Logger
}

func NewServer(cfg Config, ctrl controller, log logging.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		ctrl:     ctrl,
		upgrader: newUpgrader(),
		log:      log.With("component", "console"),
	}
	s.hub = NewHub(s.snapshotMessage, s.log)
	return s
}

// Handler builds the router. ctx bounds background work of the middleware.
func (s *Server) Handler(ctx context.Context) http.Handler {
	limiter := NewRateLimiter(ctx, s.cfg.SignInRate, s.cfg.SignInBurst)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(s.log))
	r.Use(Metrics())

	r.Get("/", s.index)
	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", s.serveWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.state)
		r.With(SameOrigin, RequireJSON, limiter.Middleware()).Post("/session", s.signIn)
		r.With(SameOrigin).Delete("/session", s.signOut)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() { _ = s.hub.Run(ctx) }()
	go s.pump(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "console listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info(ctx, "console stopped")
	return nil
}

// pump broadcasts a fresh snapshot after every controller change.
func (s *Server) pump(ctx context.Context) {
	ch, unsubscribe := s.ctrl.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ch:
			if msg := s.snapshotMessage(); msg != nil {
				s.hub.Broadcast(msg)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) snapshotMessage() []byte {
	data, err := json.Marshal(s.ctrl.Snapshot())
	if err != nil {
		s.log.Error(context.Background(), "failed to marshal snapshot", "error", err)
		return nil
	}
	return data
}
