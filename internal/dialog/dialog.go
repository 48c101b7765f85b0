// Package dialog exposes the native file and message dialogs the app needs.
package dialog

import (
	"context"
	"errors"
)

var (
	// ErrNotAttached is returned before the host runtime has started.
	ErrNotAttached = errors.New("dialog: runtime not attached")
	// ErrUnavailable is returned by Headless for dialogs it cannot show.
	ErrUnavailable = errors.New("dialog: not available without a window")
)

// Filter restricts the files offered by a file dialog. Pattern uses
// semicolon-separated globs, e.g. "*.csv;*.txt".
type Filter struct {
	DisplayName string
	Pattern     string
}

// SaveOptions configure a save dialog.
type SaveOptions struct {
	Title            string
	DefaultDirectory string
	DefaultFilename  string
	Filters          []Filter
}

// OpenOptions configure an open dialog.
type OpenOptions struct {
	Title            string
	DefaultDirectory string
	Filters          []Filter
}

// Dialogs is implemented by Native and Headless.
//
// SaveFile and OpenFile return "" with a nil error when the user cancels.
type Dialogs interface {
	SaveFile(ctx context.Context, opts SaveOptions) (string, error)
	OpenFile(ctx context.Context, opts OpenOptions) (string, error)
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// CSVFilter is offered when exporting reports.
var CSVFilter = Filter{DisplayName: "CSV (*.csv)", Pattern: "*.csv"}
