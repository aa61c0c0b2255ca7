// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

// Package server is the HTTP gateway: it binds browser sessions to
// players and exposes the command and state endpoints the client talks
// to.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/derelict-game/derelict/internal/engine"
	"github.com/derelict-game/derelict/internal/observability"
	"github.com/derelict-game/derelict/internal/player"
	"github.com/derelict-game/derelict/internal/world"
)

// Config holds the gateway's collaborators and settings.
type Config struct {
	Engine    *engine.Engine
	World     world.Repository
	Players   player.Repository
	Sessions  player.SessionRepository
	Metrics   *observability.Metrics
	StartRoom string
}

// Server is the HTTP gateway.
type Server struct {
	addr       string
	engine     *engine.Engine
	world      world.Repository
	players    player.Repository
	sessions   player.SessionRepository
	metrics    *observability.Metrics
	startRoom  string
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// New creates a gateway server.
func New(addr string, cfg Config) *Server {
	return &Server{
		addr:      addr,
		engine:    cfg.Engine,
		world:     cfg.World,
		players:   cfg.Players,
		sessions:  cfg.Sessions,
		metrics:   cfg.Metrics,
		startRoom: cfg.StartRoom,
	}
}

// Handler returns the gateway's routes wrapped in session and metrics
// middleware. Exposed for httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("POST /command", s.withSession(s.handleCommand))
	mux.Handle("GET /state", s.withSession(s.handleState))
	return s.withMetrics(mux)
}

// Start begins serving. The returned channel receives any serve error and
// is closed on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("gateway already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("gateway error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("gateway started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the gateway.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown gateway").Wrap(err)
		}
	}

	slog.Info("gateway stopped")
	return nil
}

// Addr returns the bound address, or "" when not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if s.metrics != nil {
			s.metrics.RequestsTotal.
				WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).
				Inc()
		}
	})
}
