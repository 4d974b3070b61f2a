// Package control lets one-shot commands drive the engine of a running
// daemon. The daemon serves a small JSON API over a unix socket in the
// state directory; a command that finds nobody listening acts on its own
// engine instead.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jacksmith/wallsafe/internal/rotation"
)

// SocketName is the socket file name inside the state directory.
const SocketName = "wallsafe.sock"

// ErrAlreadyRunning is returned by Listen when another daemon answers on the socket.
var ErrAlreadyRunning = errors.New("control: another daemon is already running")

// Navigator is the part of the engine exposed to other processes.
type Navigator interface {
	Advance(dir rotation.Direction) (rotation.Selection, error)
	DeleteCurrent() (rotation.Deletion, error)
	State() rotation.State
}

// Server routes control requests to a Navigator.
type Server struct {
	nav    Navigator
	log    *slog.Logger
	router chi.Router
}

// NewServer builds the HTTP routes for nav.
func NewServer(nav Navigator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{nav: nav, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/state", s.handleState)
	r.Post("/next", s.handleAdvance(rotation.Next))
	r.Post("/prev", s.handleAdvance(rotation.Previous))
	r.Post("/delete", s.handleDelete)
	s.router = r

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen opens the control socket at path. A socket file left behind by a
// daemon that died is removed; one that still answers is ErrAlreadyRunning.
func Listen(path string) (net.Listener, error) {
	if _, err := os.Lstat(path); err == nil {
		conn, err := net.DialTimeout("unix", path, time.Second)
		if err == nil {
			conn.Close()
			return nil, fmt.Errorf("%w (socket %s)", ErrAlreadyRunning, path)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("control: remove stale socket: %w", err)
		}
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("control: listen %s: %w", path, err)
	}
	return ln, nil
}

// Serve answers requests on ln until ctx is done, then shuts down and
// closes ln, which removes the socket file.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Debug("control: listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return fmt.Errorf("control: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("control: shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("control: serve: %w", err)
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.nav.State())
}

func (s *Server) handleAdvance(dir rotation.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		sel, err := s.nav.Advance(dir)
		if err != nil {
			s.log.Warn("control: advance failed", "direction", dir, "error", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, sel)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, _ *http.Request) {
	del, err := s.nav.DeleteCurrent()
	if err != nil {
		s.log.Warn("control: delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, del)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorBody{Error: err.Error()})
}
