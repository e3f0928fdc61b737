package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
)

// Status is the live breakpoint state served at /status.
type Status struct {
	Breakpoint string                 `json:"breakpoint"`
	Width      int                    `json:"width"`
	Thresholds breakpoints.Thresholds `json:"thresholds"`
}

// TrackerStatus reads a Status from a tracker.
func TrackerStatus(t *breakpoints.Tracker) func() Status {
	return func() Status {
		return Status{
			Breakpoint: t.Current(),
			Width:      t.Width(),
			Thresholds: t.Thresholds(),
		}
	}
}

// Server exposes /metrics and /status.
type Server struct {
	addr     string
	gatherer prometheus.Gatherer
	status   func() Status
	server   *http.Server
	log      *slog.Logger
}

// NewServer creates a server on addr (for example ":9090").
func NewServer(addr string, g prometheus.Gatherer, status func() Status, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{addr: addr, gatherer: g, status: status, log: log}
}

// Handler returns the HTTP routes without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/status", s.statusHandler)
	return mux
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("metrics server listening", "addr", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	if s.status == nil {
		http.Error(w, `{"error":"no tracker"}`, http.StatusServiceUnavailable)
		return
	}
	if err := json.NewEncoder(w).Encode(s.status()); err != nil {
		s.log.Warn("encode status", "error", err)
	}
}
