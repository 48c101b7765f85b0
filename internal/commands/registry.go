// Copyright (c) 2025 MLCRemote authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

// Package commands holds the table of operations the front-end can invoke
// by name, and the operations themselves.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrUnknownCommand is returned by Invoke for names never registered.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidArguments wraps argument decoding failures.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Handler runs one invocation. args is the raw JSON object sent by the
// caller and may be empty.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry maps command names to handlers.
type Registry struct {
	mu      sync.RWMutex
	all     map[string]Handler
	metrics *Metrics
	log     zerolog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics records every invocation in m.
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithLogger sets the logger used for invocation tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		all: make(map[string]Handler),
		log: zerolog.Nop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register adds a handler. Registering the same name twice is a programming
// error and panics.
func (r *Registry) Register(name string, h Handler) {
	if name == "" || h == nil {
		panic("commands: empty name or nil handler")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.all[name]; exists {
		panic(fmt.Sprintf("commands: %q already registered", name))
	}
	r.all[name] = h
	r.log.Debug().Str("command", name).Msg("registered command")
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.all[name]
	return ok
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.all))
	for name := range r.all {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Invoke looks up name and runs its handler. Handler errors are returned
// unchanged so their text reaches the caller as-is.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	h, ok := r.all[name]
	r.mu.RUnlock()
	if !ok {
		r.metrics.observe("unknown", 0, ErrUnknownCommand)
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	start := time.Now()
	out, err := h(ctx, args)
	elapsed := time.Since(start)
	r.metrics.observe(name, elapsed, err)

	ev := r.log.Debug()
	if err != nil {
		ev = r.log.Warn().Err(err)
	}
	ev.Str("command", name).Dur("took", elapsed).Msg("command invoked")
	return out, err
}

// Typed adapts a function taking a decoded argument struct into a Handler.
// Empty args decode to the zero value of T.
func Typed[T any](fn func(ctx context.Context, in T) (any, error)) Handler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var in T
		if len(args) > 0 && string(args) != "null" {
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
			}
		}
		return fn(ctx, in)
	}
}
