package dialog

import "context"

// Headless is used when no window exists, e.g. behind the dev server. The
// browser asks its own questions, so Confirm always agrees; file dialogs are
// unavailable and callers must pass explicit paths.
type Headless struct{}

// SaveFile implements Dialogs.
func (Headless) SaveFile(context.Context, SaveOptions) (string, error) { return "", ErrUnavailable }

// OpenFile implements Dialogs.
func (Headless) OpenFile(context.Context, OpenOptions) (string, error) { return "", ErrUnavailable }

// Confirm implements Dialogs.
func (Headless) Confirm(context.Context, string, string) (bool, error) { return true, nil }
