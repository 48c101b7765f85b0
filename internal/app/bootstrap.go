package app

import (
	"fmt"
	"io/fs"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/riky97/volleyball-scoreboard/internal/buildinfo"
	"github.com/riky97/volleyball-scoreboard/internal/commands"
	"github.com/riky97/volleyball-scoreboard/internal/config"
	"github.com/riky97/volleyball-scoreboard/internal/dialog"
	"github.com/riky97/volleyball-scoreboard/internal/logging"
	"github.com/riky97/volleyball-scoreboard/internal/store"
)

const windowTitle = "Volleyball Scoreboard"

// Run builds the application and blocks until its window closes. Errors
// returned here are fatal to the process.
func Run(assets fs.FS) error {
	path, err := config.DefaultPath()
	if err != nil {
		return fmt.Errorf("locate config: %w", err)
	}
	settings, cfgErr := config.Load(path)

	sink := newSink(settings)
	log := sink.Component("bootstrap")
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Str("path", path).Msg("config unreadable, using defaults")
	}

	a := New(Deps{
		Settings: settings,
		Sink:     sink,
		Registry: commands.New(commands.WithLogger(sink.Component("commands"))),
		Dialogs:  dialog.NewNative(),
		Store:    store.New(settings.DataDir),
		Emit:     runtime.EventsEmit,
	})

	if w, err := watchConfig(path, sink, a); err != nil {
		log.Warn().Err(err).Msg("config hot reload disabled")
	} else {
		defer w.Stop()
	}

	if err := wails.Run(wailsOptions(settings, sink, a, assets)); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}

// newSink attaches the log sink only to debug builds.
func newSink(s *config.Settings) *logging.Sink {
	if !buildinfo.Debug {
		return logging.Discard()
	}
	return logging.NewSink(logging.Options{Level: s.LogLevel, Format: s.LogFormat})
}

func watchConfig(path string, sink *logging.Sink, a *App) (*config.Watcher, error) {
	w, err := config.NewWatcher(path, sink.Component("config"))
	if err != nil {
		return nil, err
	}
	updates := w.Subscribe()
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}
	go func() {
		for s := range updates {
			a.ApplySettings(s)
		}
	}()
	return w, nil
}

func wailsOptions(s *config.Settings, sink *logging.Sink, a *App, assets fs.FS) *options.App {
	opts := &options.App{
		Title:  windowTitle,
		Width:  s.Window.Width,
		Height: s.Window.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup:          a.Startup,
		OnShutdown:         a.Shutdown,
		OnBeforeClose:      a.BeforeClose,
		Bind:               []interface{}{a},
		LogLevelProduction: logger.ERROR,
	}
	if buildinfo.Debug {
		opts.Logger = logging.NewWailsLogger(sink.Component("wails"))
		opts.LogLevel = logging.WailsLevel(logging.ParseLevel(s.LogLevel))
	}
	return opts
}
