// Copyright (c) 2025 MLCRemote authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package devserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/riky97/volleyball-scoreboard/internal/buildinfo"
	"github.com/riky97/volleyball-scoreboard/internal/commands"
)

const maxArgsBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// version returns version compatibility information.
func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"backend":            buildinfo.Version,
		"frontendCompatible": buildinfo.FrontendCompatible,
	})
}

func (s *Server) commandNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.invoker.Names())
}

// invoke runs the command named in the path with the request body as its
// JSON arguments. A nil result is answered with 204.
func (s *Server) invoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxArgsBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: err.Error()})
		return
	}

	out, err := s.invoker.Invoke(r.Context(), name, body)
	if err != nil {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, commands.ErrUnknownCommand):
			status = http.StatusNotFound
		case errors.Is(err, commands.ErrInvalidArguments):
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}
	if out == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
