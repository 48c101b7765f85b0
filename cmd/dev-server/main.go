// Copyright (c) 2025 MLCRemote authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

// Command dev-server runs the scoreboard's command surface over HTTP so the
// front-end can be developed in a normal browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/riky97/volleyball-scoreboard/internal/app"
	"github.com/riky97/volleyball-scoreboard/internal/buildinfo"
	"github.com/riky97/volleyball-scoreboard/internal/commands"
	"github.com/riky97/volleyball-scoreboard/internal/config"
	"github.com/riky97/volleyball-scoreboard/internal/devserver"
	"github.com/riky97/volleyball-scoreboard/internal/dialog"
	"github.com/riky97/volleyball-scoreboard/internal/logging"
	"github.com/riky97/volleyball-scoreboard/internal/store"
)

func main() {
	cfgPath := flag.String("config", "", "config file (default <UserConfigDir>/VolleyScore/config.yaml)")
	port := flag.Int("port", 0, "port to listen on (default from config)")
	host := flag.String("host", "", "host interface to listen on (default from config)")
	staticDir := flag.String("static-dir", "", "directory for static files")
	dataDir := flag.String("data-dir", "", "directory for the saved match")
	tokenFlag := flag.String("token", "", "auth token (if empty and no-auth is false, one will be generated)")
	noAuth := flag.Bool("no-auth", false, "disable authentication")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.Version)
		os.Exit(0)
	}

	path := *cfgPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, "locate config:", err)
			os.Exit(1)
		}
		path = p
	}
	settings, cfgErr := config.Load(path)
	overrideFromFlags(settings, *host, *port, *staticDir, *dataDir)

	sink := logging.NewSink(logging.Options{Level: settings.LogLevel, Format: settings.LogFormat, Out: os.Stdout})
	log := sink.Component("dev-server")
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Str("path", path).Msg("config unreadable, using defaults")
	}

	token := *tokenFlag
	if token == "" {
		token = settings.DevServer.Token
	}
	if token == "" && !*noAuth {
		token = devserver.GenerateToken()
	}
	if *noAuth {
		token = ""
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	registry := commands.New(
		commands.WithLogger(sink.Component("commands")),
		commands.WithMetrics(commands.NewMetrics(reg)),
	)
	hub := devserver.NewHub(sink.Component("ws"))
	a := app.New(app.Deps{
		Settings: settings,
		Sink:     sink,
		Registry: registry,
		Dialogs:  dialog.Headless{},
		Store:    store.New(settings.DataDir),
		OnEvent:  hub.Publish,
	})

	srv := devserver.New(registry, hub, devserver.Options{
		Host:      settings.DevServer.Host,
		Port:      settings.DevServer.Port,
		StaticDir: settings.DevServer.StaticDir,
		Token:     token,
		RateLimit: settings.DevServer.RateLimit,
		Burst:     settings.DevServer.Burst,
		Gatherer:  reg,
	}, sink.Component("http"))
	srv.Routes()

	if h := settings.DevServer.Host; h != "127.0.0.1" && h != "localhost" {
		log.Warn().Str("host", h).Msg("dev server is listening on an external interface")
	}
	actualPort, err := srv.Start()
	if err != nil {
		log.Fatal().Err(err).Msg("server error")
	}

	displayHost := settings.DevServer.Host
	if displayHost == "0.0.0.0" {
		displayHost = "localhost"
	}
	url := fmt.Sprintf("http://%s:%d/", displayHost, actualPort)
	if token != "" {
		url += "?token=" + token
	}
	log.Info().Str("url", url).Str("data", settings.DataDir).Msg("dev server ready")

	if w, err := config.NewWatcher(path, sink.Component("config")); err == nil {
		updates := w.Subscribe()
		if err := w.Start(); err != nil {
			log.Warn().Err(err).Msg("config hot reload disabled")
		} else {
			go func() {
				for s := range updates {
					a.ApplySettings(s)
				}
			}()
		}
		defer w.Stop()
	}

	// wait for interrupt (Ctrl-C) or termination signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	a.Shutdown(ctx)
}

func overrideFromFlags(s *config.Settings, host string, port int, staticDir, dataDir string) {
	if host != "" {
		s.DevServer.Host = host
	}
	if port > 0 {
		s.DevServer.Port = port
	}
	if staticDir != "" {
		s.DevServer.StaticDir = staticDir
	}
	if dataDir != "" {
		s.DataDir = dataDir
	}
}
