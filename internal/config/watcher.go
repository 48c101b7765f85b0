// Copyright (c) 2025 MLCRemote authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands the
// new settings to subscribers.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	log      zerolog.Logger
	debounce time.Duration

	mu      sync.Mutex
	clients map[chan *Settings]bool
	done    chan struct{}
	once    sync.Once
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     filepath.Clean(path),
		fsw:      fsw,
		log:      log,
		debounce: defaultDebounce,
		clients:  make(map[chan *Settings]bool),
		done:     make(chan struct{}),
	}, nil
}

// Start watches the directory holding the file. Editors often replace the
// file instead of writing it, so watching the file itself would lose track.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop ends the watch loop and closes all subscriber channels.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
		_ = w.fsw.Close()

		w.mu.Lock()
		for ch := range w.clients {
			close(ch)
		}
		w.clients = make(map[chan *Settings]bool)
		w.mu.Unlock()
	})
}

// Subscribe returns a channel receiving every successfully reloaded config.
func (w *Watcher) Subscribe() chan *Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(chan *Settings, 4)
	w.clients[ch] = true
	return ch
}

// Unsubscribe removes and closes ch.
func (w *Watcher) Unsubscribe(ch chan *Settings) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.clients[ch]; ok {
		delete(w.clients, ch)
		close(ch)
	}
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			w.log.Debug().Str("op", event.Op.String()).Msg("config file changed")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watcher error")
		}
	}
}

func (w *Watcher) reload() {
	if _, err := os.Stat(w.path); err != nil {
		// removed or mid-rename; keep the current settings
		return
	}
	s, err := Load(w.path)
	if err != nil {
		w.log.Warn().Err(err).Msg("config reload failed, keeping current settings")
		return
	}
	w.log.Info().Str("path", w.path).Msg("config reloaded")
	w.broadcast(s)
}

func (w *Watcher) broadcast(s *Settings) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.clients {
		select {
		case ch <- s:
		default:
			// slow subscriber, drop
		}
	}
}
