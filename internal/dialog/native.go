package dialog

import (
	"context"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Native shows dialogs through the Wails runtime. It needs the context
// handed to OnStartup; call Attach from there.
type Native struct {
	mu  sync.RWMutex
	ctx context.Context
}

// NewNative returns a Native that is not yet attached.
func NewNative() *Native { return &Native{} }

// Attach records the runtime context.
func (n *Native) Attach(ctx context.Context) {
	n.mu.Lock()
	n.ctx = ctx
	n.mu.Unlock()
}

func (n *Native) runtimeCtx() (context.Context, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.ctx == nil {
		return nil, ErrNotAttached
	}
	return n.ctx, nil
}

// SaveFile implements Dialogs.
func (n *Native) SaveFile(_ context.Context, opts SaveOptions) (string, error) {
	ctx, err := n.runtimeCtx()
	if err != nil {
		return "", err
	}
	return runtime.SaveFileDialog(ctx, runtime.SaveDialogOptions{
		Title:                opts.Title,
		DefaultDirectory:     opts.DefaultDirectory,
		DefaultFilename:      opts.DefaultFilename,
		Filters:              wailsFilters(opts.Filters),
		CanCreateDirectories: true,
	})
}

// OpenFile implements Dialogs.
func (n *Native) OpenFile(_ context.Context, opts OpenOptions) (string, error) {
	ctx, err := n.runtimeCtx()
	if err != nil {
		return "", err
	}
	return runtime.OpenFileDialog(ctx, runtime.OpenDialogOptions{
		Title:            opts.Title,
		DefaultDirectory: opts.DefaultDirectory,
		Filters:          wailsFilters(opts.Filters),
	})
}

// Confirm asks a yes/no question.
func (n *Native) Confirm(_ context.Context, title, message string) (bool, error) {
	ctx, err := n.runtimeCtx()
	if err != nil {
		return false, err
	}
	answer, err := runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         title,
		Message:       message,
		DefaultButton: "No",
	})
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

// isYes normalizes the button label, which differs per platform.
func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "ok", "sì", "si":
		return true
	}
	return false
}

func wailsFilters(in []Filter) []runtime.FileFilter {
	if len(in) == 0 {
		return nil
	}
	out := make([]runtime.FileFilter, len(in))
	for i, f := range in {
		out[i] = runtime.FileFilter{DisplayName: f.DisplayName, Pattern: f.Pattern}
	}
	return out
}
