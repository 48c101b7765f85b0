// Package app is the object bound to the host runtime: its exported methods
// are what the front-end calls.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/riky97/volleyball-scoreboard/internal/buildinfo"
	"github.com/riky97/volleyball-scoreboard/internal/commands"
	"github.com/riky97/volleyball-scoreboard/internal/config"
	"github.com/riky97/volleyball-scoreboard/internal/dialog"
	"github.com/riky97/volleyball-scoreboard/internal/logging"
	"github.com/riky97/volleyball-scoreboard/internal/match"
	"github.com/riky97/volleyball-scoreboard/internal/report"
	"github.com/riky97/volleyball-scoreboard/internal/store"
)

// EventMatchState carries the full match state after every change.
const EventMatchState = "match:state"

const (
	confirmTitle       = "Conferma"
	confirmNewMatch    = "Vuoi iniziare una nuova partita?"
	confirmResetSet    = "Vuoi azzerare il set corrente?"
	confirmCloseWindow = "Vuoi davvero chiudere l'applicazione?"
)

// EmitFunc matches runtime.EventsEmit.
type EmitFunc func(ctx context.Context, name string, data ...interface{})

// Deps are the collaborators of an App. Only Settings is required.
type Deps struct {
	Settings *config.Settings
	Sink     *logging.Sink
	Registry *commands.Registry
	Dialogs  dialog.Dialogs
	Store    *store.Store
	Emit     EmitFunc
	// OnEvent sees every event the App publishes, with or without a window.
	OnEvent func(name string, data any)
	Now     func() time.Time
}

// Info describes the running build.
type Info struct {
	Version            string `json:"version"`
	FrontendCompatible string `json:"frontendCompatible"`
	Debug              bool   `json:"debug"`
}

// ReportFile is a rendered report ready to be written.
type ReportFile struct {
	FileName string `json:"fileName"`
	Contents string `json:"contents"`
}

// App struct
type App struct {
	mu  sync.RWMutex
	ctx context.Context

	settings *config.Settings
	sink     *logging.Sink
	log      zerolog.Logger
	registry *commands.Registry
	dialogs  dialog.Dialogs
	store    *store.Store
	autosave *store.Autosaver
	session  *match.Session
	emit     EmitFunc
	onEvent  func(string, any)
	now      func() time.Time
}

// New restores the saved match (or starts a fresh one) and registers the
// app's commands in d.Registry.
func New(d Deps) *App {
	a := &App{
		settings: d.Settings,
		sink:     d.Sink,
		registry: d.Registry,
		dialogs:  d.Dialogs,
		store:    d.Store,
		emit:     d.Emit,
		onEvent:  d.OnEvent,
		now:      d.Now,
	}
	if a.sink == nil {
		a.sink = logging.Discard()
	}
	if a.dialogs == nil {
		a.dialogs = dialog.Headless{}
	}
	if a.store == nil {
		a.store = store.New(d.Settings.DataDir)
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.registry == nil {
		a.registry = commands.New(commands.WithLogger(a.sink.Component("commands")))
	}
	a.log = a.sink.Component("app")
	a.autosave = store.NewAutosaver(a.store, d.Settings.AutosaveDelay, a.sink.Component("store"))

	initial := a.restore()
	a.session = match.NewSession(initial,
		match.WithClock(a.now),
		match.WithOnChange(a.stateChanged),
	)
	a.registerCommands()
	return a
}

func (a *App) restore() match.State {
	saved, err := a.store.Load()
	if err != nil {
		a.log.Warn().Err(err).Str("path", a.store.Path()).Msg("could not read saved match")
	}
	if saved == nil {
		return match.NewState(match.DefaultRules())
	}
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	a.log.Info().Str("match", saved.ID).Int("set", saved.CurrentSet).Msg("restored saved match")
	return *saved
}

// Startup is called at application startup
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	if n, ok := a.dialogs.(interface{ Attach(context.Context) }); ok {
		n.Attach(ctx)
	}
	a.log.Info().Str("version", buildinfo.Version).Bool("debug", buildinfo.Debug).Msg("started")
	a.publish(EventMatchState, a.session.State())
}

// Shutdown is called at application termination
func (a *App) Shutdown(ctx context.Context) {
	if err := a.autosave.Close(); err != nil {
		a.log.Error().Err(err).Msg("final save failed")
	}
	a.log.Info().Msg("stopped")
}

// BeforeClose is called when the user tries to close the window
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	if !a.Settings().ConfirmOnClose {
		return false
	}
	ok, err := a.dialogs.Confirm(ctx, confirmTitle, confirmCloseWindow)
	if err != nil {
		a.log.Warn().Err(err).Msg("close confirmation failed, closing anyway")
		return false
	}
	return !ok
}

func (a *App) context() context.Context {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// stateChanged runs for every session change.
func (a *App) stateChanged(st match.State) {
	a.autosave.Schedule(st)
	a.publish(EventMatchState, st)
}

func (a *App) publish(name string, data any) {
	a.mu.RLock()
	ctx := a.ctx
	a.mu.RUnlock()

	if ctx != nil && a.emit != nil {
		a.emit(ctx, name, data)
	}
	if a.onEvent != nil {
		a.onEvent(name, data)
	}
}

// ApplySettings switches to s, e.g. after the config file changed.
func (a *App) ApplySettings(s *config.Settings) {
	if s == nil {
		return
	}
	a.mu.Lock()
	prev := a.settings
	a.settings = s
	a.mu.Unlock()

	if prev == nil || prev.LogLevel != s.LogLevel {
		a.sink.SetLevel(s.LogLevel)
	}
	if prev != nil && prev.DataDir != s.DataDir {
		a.log.Warn().Str("dataDir", s.DataDir).Msg("data directory change takes effect after restart")
	}
	a.log.Info().Str("level", s.LogLevel).Msg("settings applied")
}

// Settings returns a copy of the active settings.
func (a *App) Settings() config.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return *a.settings
}

// BuildInfo reports the version and build flavour.
func (a *App) BuildInfo() Info {
	return Info{
		Version:            buildinfo.Version,
		FrontendCompatible: buildinfo.FrontendCompatible,
		Debug:              buildinfo.Debug,
	}
}

// WriteTextFile writes contents to path through the write_text_file command.
func (a *App) WriteTextFile(path, contents string) error {
	_, err := a.invoke(commands.WriteTextFileName, commands.WritePathRequest{Path: path, Contents: contents})
	return err
}

// Invoke runs a registered command by name with JSON arguments.
func (a *App) Invoke(name string, args json.RawMessage) (any, error) {
	return a.registry.Invoke(a.context(), name, args)
}

// Commands lists the registered command names.
func (a *App) Commands() []string {
	return a.registry.Names()
}

func (a *App) invoke(name string, args any) (any, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	return a.Invoke(name, raw)
}

// GetMatch returns the live match.
func (a *App) GetMatch() match.State {
	return a.session.State()
}

// Dispatch applies a front-end action.
func (a *App) Dispatch(action match.Action) (match.State, error) {
	return a.session.Dispatch(action)
}

// Undo reverts the last change, if any.
func (a *App) Undo() match.State {
	st, _ := a.session.Dispatch(match.Action{Type: match.Undo})
	return st
}

// CanUndo reports whether Undo would change anything.
func (a *App) CanUndo() bool {
	return a.session.CanUndo()
}

// NewMatch asks for confirmation, forgets the saved match and resets the
// score. It reports false when the user declined.
func (a *App) NewMatch() (bool, error) {
	ok, err := a.dialogs.Confirm(a.context(), confirmTitle, confirmNewMatch)
	if err != nil || !ok {
		return false, err
	}
	a.autosave.Discard()
	if err := a.store.Clear(); err != nil {
		return false, err
	}
	if _, err := a.session.Dispatch(match.Action{Type: match.MatchReset}); err != nil {
		return false, err
	}
	a.log.Info().Str("match", a.session.State().ID).Msg("new match")
	return true, nil
}

// ResetCurrentSet asks for confirmation and zeroes the current set.
func (a *App) ResetCurrentSet() (bool, error) {
	ok, err := a.dialogs.Confirm(a.context(), confirmTitle, confirmResetSet)
	if err != nil || !ok {
		return false, err
	}
	if _, err := a.session.Dispatch(match.Action{Type: match.SetResetCurrent}); err != nil {
		return false, err
	}
	return true, nil
}

// PickSavePath shows a save dialog for a CSV file. It returns "" when the
// user cancels.
func (a *App) PickSavePath(defaultName string) (string, error) {
	return a.dialogs.SaveFile(a.context(), dialog.SaveOptions{
		Title:           "Esporta report",
		DefaultFilename: defaultName,
		Filters:         []dialog.Filter{dialog.CSVFilter},
	})
}

// ExportReport asks where to save the match report and writes it there.
// It returns the chosen path, or "" when the user cancelled.
func (a *App) ExportReport() (string, error) {
	rep, err := a.buildReport()
	if err != nil {
		return "", err
	}
	path, err := a.PickSavePath(rep.FileName)
	if err != nil {
		return "", fmt.Errorf("choose report location: %w", err)
	}
	if path == "" {
		return "", nil
	}
	if err := a.WriteTextFile(path, rep.Contents); err != nil {
		return "", err
	}
	a.log.Info().Str("path", path).Msg("report exported")
	return path, nil
}

func (a *App) buildReport() (ReportFile, error) {
	csv, err := report.BuildMatchReportCSV(a.session.State())
	if err != nil {
		return ReportFile{}, err
	}
	return ReportFile{FileName: report.DefaultFileName(a.now()), Contents: csv}, nil
}

