// Copyright (c) 2025 MLCRemote authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package commands

import (
	"context"
	"fmt"
	"os"
)

// WriteTextFileName is the name the front-end invokes.
const WriteTextFileName = "write_text_file"

// WritePathRequest is the argument object of write_text_file.
type WritePathRequest struct {
	Path     string `json:"path"`
	Contents string `json:"contents"`
}

// WriteTextFile replaces (or creates) the file at path with contents.
// The path is handed to the OS unchanged: no confinement, no parent
// directory creation, no temp-file rename, no fsync.
func WriteTextFile(path, contents string) error {
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return fmt.Errorf("write_text_file failed: %w", err)
	}
	return nil
}

// RegisterWriteTextFile adds write_text_file to r.
func RegisterWriteTextFile(r *Registry) {
	r.Register(WriteTextFileName, Typed(func(_ context.Context, req WritePathRequest) (any, error) {
		return nil, WriteTextFile(req.Path, req.Contents)
	}))
}
