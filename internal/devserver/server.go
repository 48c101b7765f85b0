// Copyright (c) 2025 MLCRemote authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

// Package devserver serves the front-end to an ordinary browser during
// development and exposes the command registry over HTTP.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Invoker runs named commands. *commands.Registry satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)
	Names() []string
}

// Options configure a Server.
type Options struct {
	Host      string
	Port      int // 0 picks a free port
	StaticDir string
	Token     string  // empty disables auth
	RateLimit float64 // invocations per second, 0 disables
	Burst     int
	Gatherer  prometheus.Gatherer // nil disables /metrics
}

// Server represents the HTTP server configuration and mux.
type Server struct {
	opts       Options
	invoker    Invoker
	hub        *Hub
	log        zerolog.Logger
	limiter    *limiter
	Mux        *http.ServeMux
	httpServer *http.Server
}

// New creates a Server for inv. hub may be nil, in which case /ws/events is
// not served.
func New(inv Invoker, hub *Hub, opts Options, log zerolog.Logger) *Server {
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	return &Server{
		opts:    opts,
		invoker: inv,
		hub:     hub,
		log:     log,
		limiter: newLimiter(opts.RateLimit, opts.Burst),
		Mux:     http.NewServeMux(),
	}
}

// Routes registers all HTTP handlers on the server mux.
func (s *Server) Routes() {
	s.Mux.HandleFunc("GET /health", s.health)
	s.Mux.HandleFunc("GET /api/version", s.version)
	s.Mux.HandleFunc("GET /api/commands", s.commandNames)
	s.Mux.Handle("POST /api/invoke/{name}", s.limiter.middleware(http.HandlerFunc(s.invoke)))

	if s.hub != nil {
		s.Mux.Handle("GET /ws/events", s.hub)
	}
	if s.opts.Gatherer != nil {
		s.Mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	// Static files (for dev)
	if s.opts.StaticDir != "" {
		abs, err := filepath.Abs(s.opts.StaticDir)
		if err == nil {
			s.Mux.Handle("/", http.FileServer(http.Dir(abs)))
			s.log.Info().Str("dir", abs).Msg("serving static files")
			return
		}
		s.log.Warn().Err(err).Str("dir", s.opts.StaticDir).Msg("static dir unusable")
	}
	s.Mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Dev Server</h1><p>Build the frontend and use --static-dir to serve it.</p></body></html>"))
	})
}

// Handler returns the mux wrapped in authentication.
func (s *Server) Handler() http.Handler {
	return requireToken(s.opts.Token, s.Mux)
}

// Start listens on the configured address and serves in the background.
// It returns the port actually bound.
func (s *Server) Start() (int, error) {
	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("listen on %s: %w", addr, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", ln.Addr().String()).Bool("auth", s.opts.Token != "").Msg("dev server listening")
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("server error")
		}
	}()
	return port, nil
}

// Shutdown stops accepting connections, drops websocket clients and waits
// for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
