package rotation

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jacksmith/wallsafe/internal/catalog"
	"github.com/jacksmith/wallsafe/internal/desktop"
	"github.com/jacksmith/wallsafe/internal/index"
	"github.com/jacksmith/wallsafe/internal/schedule"
	"github.com/jacksmith/wallsafe/internal/settings"
)

// RandomKeyword stands in for the keyword when none are configured.
const RandomKeyword = "random"

// Selection describes one wallpaper change. The zero value means nothing
// was changed.
type Selection struct {
	Keyword string `json:"keyword,omitempty"`
	Index   int    `json:"index"`
	Path    string `json:"path,omitempty"`
	Painted bool   `json:"painted"` // false when the desktop refused the image
}

// Empty reports whether the navigation was a no-op.
func (s Selection) Empty() bool { return s.Path == "" }

// Deletion is the outcome of DeleteCurrent.
type Deletion struct {
	Deleted string    `json:"deleted,omitempty"`
	Next    Selection `json:"next"`
}

// State is a snapshot of the engine's in-memory state.
type State struct {
	CurrentPath    string        `json:"current_path,omitempty"`
	CurrentKeyword string        `json:"current_keyword,omitempty"`
	Running        bool          `json:"running"`
	Interval       time.Duration `json:"interval"`
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger. Default: slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// WithRand sets the source used to pick keywords.
func WithRand(r *rand.Rand) EngineOption {
	return func(e *Engine) { e.intn = r.IntN }
}

// Engine changes the wallpaper on a timer and on request.
//
// mu serializes every read-modify-write of the cursor map and the current
// wallpaper, including scheduled ticks. ctl serializes Start, UpdateInterval
// and Stop; it is never taken by a tick, so lifecycle calls can wait for an
// in-flight tick without deadlocking.
type Engine struct {
	settings *settings.Settings
	index    *index.Store
	catalog  *catalog.Catalog
	painter  desktop.Painter
	log      *slog.Logger
	intn     func(int) int

	ctl sync.Mutex

	mu             sync.Mutex
	currentPath    string
	currentKeyword string
	running        bool
	sched          *schedule.Scheduler
}

// NewEngine wires an engine from its collaborators.
func NewEngine(cfg *settings.Settings, idx *index.Store, cat *catalog.Catalog, painter desktop.Painter, opts ...EngineOption) *Engine {
	e := &Engine{
		settings: cfg,
		index:    idx,
		catalog:  cat,
		painter:  painter,
		log:      slog.Default(),
		intn:     rand.IntN,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Advance shows the next or previous wallpaper of a randomly chosen keyword.
// It is a no-op when no keywords are configured or the chosen keyword has
// no wallpapers.
func (e *Engine) Advance(dir Direction) (Selection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.advanceLocked(dir)
}

func (e *Engine) advanceLocked(dir Direction) (Selection, error) {
	keyword, ok := e.randomKeyword()
	if !ok {
		e.log.Debug("rotation: no keywords configured", "keyword", keyword)
		return Selection{}, nil
	}

	entries, err := e.catalog.List(keyword)
	if err != nil {
		return Selection{}, fmt.Errorf("failed to list %q: %w", keyword, err)
	}
	if len(entries) == 0 {
		e.log.Debug("rotation: nothing to show", "keyword", keyword, "dir", e.catalog.Dir(keyword))
		return Selection{}, nil
	}

	i := Resolve(len(entries), e.index.Get(keyword), dir)
	path := entries[i].Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	sel := Selection{Keyword: keyword, Index: i, Path: path, Painted: true}
	if err := e.painter.SetWallpaper(path); err != nil {
		e.log.Warn("rotation: failed to set wallpaper", "path", path, "error", err)
		sel.Painted = false
	}

	e.currentPath, e.currentKeyword = path, keyword

	if err := e.index.Set(keyword, i); err != nil {
		return sel, err
	}

	e.log.Info("rotation: wallpaper changed",
		"keyword", keyword, "index", i, "of", len(entries), "direction", dir, "path", path)
	return sel, nil
}

// randomKeyword picks uniformly from the configured keywords. With none
// configured it returns RandomKeyword and false.
func (e *Engine) randomKeyword() (string, bool) {
	keywords := e.index.Keywords()
	if len(keywords) == 0 {
		return RandomKeyword, false
	}
	return keywords[e.intn(len(keywords))], true
}

// DeleteCurrent removes the wallpaper on screen and moves on to the next one.
//
// When nothing has been shown yet in this process it first advances once
// and deletes whatever that shows.
func (e *Engine) DeleteCurrent() (Deletion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.currentPath == "" {
		if _, err := e.advanceLocked(Next); err != nil {
			return Deletion{}, err
		}
		if e.currentPath == "" {
			return Deletion{}, nil
		}
	}

	deleted, keyword := e.currentPath, e.currentKeyword
	if err := os.Remove(deleted); err != nil {
		e.log.Debug("rotation: delete failed, continuing", "path", deleted, "error", err)
	} else {
		e.log.Info("rotation: wallpaper deleted", "keyword", keyword, "path", deleted)
	}

	// Keep the cursor inside the shorter playlist; 0 stays 0.
	if cursor := e.index.Get(keyword); cursor > 0 {
		if err := e.index.Set(keyword, cursor-1); err != nil {
			return Deletion{Deleted: deleted}, err
		}
	}

	next, err := e.advanceLocked(Next)
	return Deletion{Deleted: deleted, Next: next}, err
}

// ResetAllCursors starts every keyword's playlist from the beginning.
func (e *Engine) ResetAllCursors() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.ResetAll()
}

// Reload re-reads the keyword map written by other processes.
func (e *Engine) Reload() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.index.Reload()
}

// Start replaces any scheduler with a fresh one armed at the configured
// change interval.
func (e *Engine) Start() error {
	e.ctl.Lock()
	defer e.ctl.Unlock()
	return e.startLocked()
}

func (e *Engine) startLocked() error {
	iv := e.settings.ChangeInterval()
	if err := iv.Validate(); err != nil {
		return err
	}

	sched := schedule.New(e.tick, schedule.WithLogger(e.log))

	e.mu.Lock()
	old := e.sched
	e.sched = sched
	e.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	if err := sched.Start(iv.Duration()); err != nil {
		return err
	}

	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.log.Info("rotation: started", "interval", iv.String())
	return nil
}

// UpdateInterval re-arms the existing scheduler with the configured change
// interval. It starts the engine if it was never started.
func (e *Engine) UpdateInterval() error {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	e.mu.Lock()
	sched := e.sched
	e.mu.Unlock()

	if sched == nil {
		return e.startLocked()
	}

	iv := e.settings.ChangeInterval()
	if err := sched.Restart(iv.Duration()); err != nil {
		return err
	}

	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.log.Info("rotation: interval updated", "interval", iv.String())
	return nil
}

// Stop cancels the scheduler and waits for an in-flight tick to finish.
func (e *Engine) Stop() {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	e.mu.Lock()
	sched := e.sched
	e.mu.Unlock()

	if sched != nil {
		sched.Stop()
	}

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

func (e *Engine) tick() {
	if _, err := e.Advance(Next); err != nil {
		e.log.Error("rotation: scheduled change failed", "error", err)
	}
}

// State returns a copy of the engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	st := State{
		CurrentPath:    e.currentPath,
		CurrentKeyword: e.currentKeyword,
		Running:        e.running,
	}
	sched := e.sched
	e.mu.Unlock()

	// Queried outside mu: the scheduler lock may be held by a Restart
	// that is waiting for a tick, and ticks need mu.
	if sched != nil {
		st.Interval = sched.Interval()
	}
	return st
}
