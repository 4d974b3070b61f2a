package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jacksmith/wallsafe/internal/catalog"
	"github.com/jacksmith/wallsafe/internal/control"
	"github.com/jacksmith/wallsafe/internal/desktop"
	"github.com/jacksmith/wallsafe/internal/index"
	"github.com/jacksmith/wallsafe/internal/prefs"
	"github.com/jacksmith/wallsafe/internal/rotation"
	"github.com/jacksmith/wallsafe/internal/settings"
)

// app is everything one command invocation needs.
type app struct {
	cfg      bootstrapConfig
	log      *slog.Logger
	prefs    prefs.Store
	settings *settings.Settings
	index    *index.Store
	catalog  *catalog.Catalog
	painter  desktop.Painter
	engine   *rotation.Engine
	daemon   *control.Client

	reload func() error
	close  func() error
}

// openApp loads the bootstrap config and wires the preference store,
// settings, keyword index, catalog, painter and engine.
func openApp() (*app, error) {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, os.Stderr)

	a := &app{
		cfg:    cfg,
		log:    logger,
		reload: func() error { return nil },
		close:  func() error { return nil },
	}

	switch cfg.Store {
	case storeSQLite:
		s, err := prefs.OpenSQLite(filepath.Join(cfg.StateDir, prefs.DefaultSQLiteName), logger)
		if err != nil {
			return nil, err
		}
		a.prefs, a.close = s, s.Close
	default:
		s, err := prefs.OpenFile(filepath.Join(cfg.StateDir, prefs.DefaultFileName))
		if err != nil {
			return nil, err
		}
		a.prefs, a.reload = s, s.Reload
	}

	a.settings = settings.New(a.prefs)
	a.index = index.Open(a.prefs, logger)
	a.catalog = catalog.NewFunc(a.settings.DirectoryPath)
	a.painter = choosePainter(cfg, a.settings.DesktopMode)
	a.engine = rotation.NewEngine(a.settings, a.index, a.catalog, a.painter, rotation.WithLogger(logger))
	a.daemon = control.NewClient(a.socketPath())

	logger.Debug("wallsafe: opened", "store", cfg.Store, "state_dir", cfg.StateDir, "dry_run", flagDryRun)
	return a, nil
}

func choosePainter(cfg bootstrapConfig, mode desktop.ModeFunc) desktop.Painter {
	switch {
	case flagDryRun:
		return &desktop.Recorder{}
	case cfg.PaintCommand != "":
		return desktop.CommandPainter{Template: cfg.PaintCommand, Mode: mode}
	default:
		return desktop.System(mode)
	}
}

// socketPath is where a running daemon accepts control requests.
func (a *app) socketPath() string {
	return filepath.Join(a.cfg.StateDir, control.SocketName)
}

// Close releases the preference store.
func (a *app) Close() error {
	return a.close()
}

// dumper returns the store's full-contents view.
func (a *app) dumper() (prefs.Dumper, error) {
	d, ok := a.prefs.(prefs.Dumper)
	if !ok {
		return nil, fmt.Errorf("%s store cannot be listed", a.cfg.Store)
	}
	return d, nil
}

// withApp opens the app, runs fn and closes the app.
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
