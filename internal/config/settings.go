// Copyright (c) 2025 MLCRemote authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppDirName is the per-user directory under os.UserConfigDir.
	AppDirName = "VolleyScore"

	fileName = "config.yaml"
)

// Window holds the initial window geometry.
type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DevServer configures the browser bridge started by cmd/dev-server.
type DevServer struct {
	Host      string  `yaml:"host"`
	Port      int     `yaml:"port"`
	StaticDir string  `yaml:"staticDir"`
	Token     string  `yaml:"token"`
	RateLimit float64 `yaml:"rateLimit"` // invocations per second, 0 disables
	Burst     int     `yaml:"burst"`
}

// Settings is the on-disk application configuration.
type Settings struct {
	LogLevel       string        `yaml:"logLevel"`
	LogFormat      string        `yaml:"logFormat"`
	DataDir        string        `yaml:"dataDir"`
	ConfirmOnClose bool          `yaml:"confirmOnClose"`
	AutosaveDelay  time.Duration `yaml:"autosaveDelay"`
	Window         Window        `yaml:"window"`
	DevServer      DevServer     `yaml:"devServer"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		LogLevel:       "info",
		LogFormat:      "console",
		DataDir:        defaultDataDir(),
		ConfirmOnClose: true,
		AutosaveDelay:  150 * time.Millisecond,
		Window:         Window{Width: 1280, Height: 800},
		DevServer: DevServer{
			Host:      "127.0.0.1",
			Port:      34115,
			RateLimit: 50,
			Burst:     100,
		},
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, AppDirName)
}

// DefaultPath returns <UserConfigDir>/VolleyScore/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDirName, fileName), nil
}

var fileMu sync.Mutex

// Load reads settings from path. A missing file yields the defaults.
// When the file exists but cannot be parsed the defaults are returned
// together with the error so callers can decide whether to continue.
// Environment overrides are applied in both cases.
func Load(path string) (*Settings, error) {
	fileMu.Lock()
	defer fileMu.Unlock()

	s := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		err = nil
	case err != nil:
		err = fmt.Errorf("read config: %w", err)
	default:
		parsed := Default()
		if uerr := yaml.Unmarshal(data, parsed); uerr != nil {
			err = fmt.Errorf("parse config %s: %w", path, uerr)
		} else {
			s = parsed
		}
	}

	applyEnv(s, os.Getenv)
	s.normalize()
	return s, err
}

// Save writes s to path, creating the parent directory.
func Save(path string, s *Settings) error {
	fileMu.Lock()
	defer fileMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnv overrides fields from VOLLEYSCORE_* variables.
func applyEnv(s *Settings, getenv func(string) string) {
	if v := getenv("VOLLEYSCORE_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := getenv("VOLLEYSCORE_LOG_FORMAT"); v != "" {
		s.LogFormat = v
	}
	if v := getenv("VOLLEYSCORE_DATA_DIR"); v != "" {
		s.DataDir = expandHome(v)
	}
	if v := getenv("VOLLEYSCORE_DEV_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			s.DevServer.Port = p
		}
	}
}

// normalize fills zero values left by partial files.
func (s *Settings) normalize() {
	d := Default()
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	if s.LogFormat == "" {
		s.LogFormat = d.LogFormat
	}
	if s.DataDir == "" {
		s.DataDir = d.DataDir
	}
	s.DataDir = expandHome(s.DataDir)
	if s.AutosaveDelay <= 0 {
		s.AutosaveDelay = d.AutosaveDelay
	}
	if s.Window.Width <= 0 {
		s.Window.Width = d.Window.Width
	}
	if s.Window.Height <= 0 {
		s.Window.Height = d.Window.Height
	}
	if s.DevServer.Host == "" {
		s.DevServer.Host = d.DevServer.Host
	}
	if s.DevServer.Port <= 0 || s.DevServer.Port > 65535 {
		s.DevServer.Port = d.DevServer.Port
	}
	s.DevServer.StaticDir = expandHome(s.DevServer.StaticDir)
	if s.DevServer.RateLimit < 0 {
		s.DevServer.RateLimit = 0
	}
	if s.DevServer.Burst <= 0 {
		s.DevServer.Burst = d.DevServer.Burst
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
