package rotation

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jacksmith/wallsafe/internal/catalog"
	"github.com/jacksmith/wallsafe/internal/desktop"
	"github.com/jacksmith/wallsafe/internal/index"
	"github.com/jacksmith/wallsafe/internal/prefs"
	"github.com/jacksmith/wallsafe/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	root    string
	prefs   *prefs.MemoryStore
	cfg     *settings.Settings
	index   *index.Store
	painter *desktop.Recorder
	engine  *Engine
}

// newFixture builds an engine over a temp wallpaper root. keywords is the
// raw JSON stored under the keyword preference.
func newFixture(t *testing.T, keywords string, opts ...EngineOption) *fixture {
	t.Helper()
	root := t.TempDir()
	mem := prefs.NewMemory(map[string]string{
		settings.KeyDirectory: root,
		index.PrefKey:         keywords,
	})
	cfg := settings.New(mem)
	idx := index.Open(mem, nil)
	rec := &desktop.Recorder{}
	return &fixture{
		root:    root,
		prefs:   mem,
		cfg:     cfg,
		index:   idx,
		painter: rec,
		engine:  NewEngine(cfg, idx, catalog.NewFunc(cfg.DirectoryPath), rec, opts...),
	}
}

// wallpapers creates n files for keyword and returns their paths in
// catalog order, newest first.
func (f *fixture) wallpapers(t *testing.T, keyword string, n int) []string {
	t.Helper()
	dir := filepath.Join(f.root, keyword)
	require.NoError(t, os.MkdirAll(dir, 0755))

	base := time.Now().Add(-time.Hour)
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("wallhaven-%s%d.jpg", keyword, i))
		require.NoError(t, os.WriteFile(p, []byte("img"), 0644))
		mtime := base.Add(time.Duration(n-i) * time.Minute)
		require.NoError(t, os.Chtimes(p, mtime, mtime))
		paths[i] = p
	}
	return paths
}

func TestAdvanceNextWraps(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":-1}`)
	files := f.wallpapers(t, "nature", 3)

	var got []int
	for i := 0; i < 4; i++ {
		sel, err := f.engine.Advance(Next)
		require.NoError(t, err)
		assert.Equal(t, "nature", sel.Keyword)
		assert.True(t, sel.Painted)
		got = append(got, sel.Index)
	}

	assert.Equal(t, []int{0, 1, 2, 0}, got)
	assert.Equal(t, []string{files[0], files[1], files[2], files[0]}, f.painter.Paths())
	assert.Equal(t, 0, f.index.Get("nature"))
}

func TestAdvancePreviousFromUnset(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":-1}`)
	files := f.wallpapers(t, "nature", 3)

	sel, err := f.engine.Advance(Previous)
	require.NoError(t, err)
	assert.Equal(t, 2, sel.Index)
	assert.Equal(t, files[2], sel.Path)
	assert.Equal(t, 2, f.index.Get("nature"))
}

func TestAdvanceNoop(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		f := newFixture(t, `{"keywords.nature":-1}`)

		sel, err := f.engine.Advance(Next)
		require.NoError(t, err)
		assert.True(t, sel.Empty())
		assert.Empty(t, f.painter.Paths())
		assert.Zero(t, f.prefs.Puts())
		assert.Equal(t, index.Unset, f.index.Get("nature"))
	})

	t.Run("no keywords", func(t *testing.T) {
		f := newFixture(t, `{}`)

		sel, err := f.engine.Advance(Previous)
		require.NoError(t, err)
		assert.True(t, sel.Empty())
		assert.Empty(t, f.painter.Paths())
		assert.Zero(t, f.prefs.Puts())
	})

	t.Run("non-matching files are ignored", func(t *testing.T) {
		f := newFixture(t, `{"keywords.nature":-1}`)
		dir := filepath.Join(f.root, "nature")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))

		sel, err := f.engine.Advance(Next)
		require.NoError(t, err)
		assert.True(t, sel.Empty())
	})
}

func TestAdvancePaintFailure(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":-1}`)
	files := f.wallpapers(t, "nature", 2)
	f.painter.Err = errors.New("no display")

	sel, err := f.engine.Advance(Next)
	require.NoError(t, err)
	assert.False(t, sel.Painted)
	assert.Equal(t, files[0], sel.Path)
	assert.Equal(t, 0, f.index.Get("nature"))
	assert.Equal(t, files[0], f.engine.State().CurrentPath)
}

func TestAdvanceCursorSurvivesRestart(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":-1}`)
	files := f.wallpapers(t, "nature", 3)

	_, err := f.engine.Advance(Next)
	require.NoError(t, err)
	_, err = f.engine.Advance(Next)
	require.NoError(t, err)

	// A second engine over the same preferences continues where the first stopped.
	idx := index.Open(f.prefs, nil)
	rec := &desktop.Recorder{}
	e := NewEngine(f.cfg, idx, catalog.NewFunc(f.cfg.DirectoryPath), rec)

	sel, err := e.Advance(Next)
	require.NoError(t, err)
	assert.Equal(t, files[2], sel.Path)
}

func TestAdvanceFollowsDirectoryChange(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":-1}`)
	f.wallpapers(t, "nature", 1)

	other := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(other, "nature"), 0755))
	moved := filepath.Join(other, "nature", "wallhaven-moved.jpg")
	require.NoError(t, os.WriteFile(moved, nil, 0644))
	require.NoError(t, f.cfg.SetDirectoryPath(other))

	sel, err := f.engine.Advance(Next)
	require.NoError(t, err)
	assert.Equal(t, moved, sel.Path)
}

func TestAdvanceRandomKeyword(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":-1,"keywords.space":-1}`,
		WithRand(rand.New(rand.NewPCG(1, 2))))
	f.wallpapers(t, "nature", 2)
	f.wallpapers(t, "space", 2)

	seen := map[string]int{}
	for i := 0; i < 50; i++ {
		sel, err := f.engine.Advance(Next)
		require.NoError(t, err)
		seen[sel.Keyword]++
	}

	assert.Len(t, seen, 2)
	assert.Positive(t, seen["nature"])
	assert.Positive(t, seen["space"])
}

func TestAdvanceConcurrent(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":-1}`)
	f.wallpapers(t, "nature", 3)

	const calls = 30
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Advance(Next)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// No lost updates: 30 steps from -1 on a 3-file playlist end at 2.
	assert.Equal(t, (calls-1)%3, f.index.Get("nature"))
	assert.Len(t, f.painter.Paths(), calls)
}

func TestDeleteCurrent(t *testing.T) {
	t.Run("cursor at zero stays at zero", func(t *testing.T) {
		f := newFixture(t, `{"keywords.nature":-1}`)
		files := f.wallpapers(t, "nature", 3)

		_, err := f.engine.Advance(Next)
		require.NoError(t, err)

		del, err := f.engine.DeleteCurrent()
		require.NoError(t, err)
		assert.Equal(t, files[0], del.Deleted)
		assert.NoFileExists(t, files[0])

		// Remaining [f1, f2]; cursor 0 then Next shows index 1.
		assert.Equal(t, 1, del.Next.Index)
		assert.Equal(t, files[2], del.Next.Path)
		assert.Equal(t, 1, f.index.Get("nature"))
	})

	t.Run("positive cursor steps back", func(t *testing.T) {
		f := newFixture(t, `{"keywords.nature":1}`)
		files := f.wallpapers(t, "nature", 3)

		sel, err := f.engine.Advance(Next)
		require.NoError(t, err)
		require.Equal(t, 2, sel.Index)

		del, err := f.engine.DeleteCurrent()
		require.NoError(t, err)
		assert.Equal(t, files[2], del.Deleted)
		assert.NoFileExists(t, files[2])

		// Cursor 2 -> 1, then Next wraps to 0 in [f0, f1].
		assert.Equal(t, files[0], del.Next.Path)
		assert.Equal(t, 0, f.index.Get("nature"))
	})

	t.Run("nothing shown yet advances first", func(t *testing.T) {
		f := newFixture(t, `{"keywords.nature":-1}`)
		files := f.wallpapers(t, "nature", 3)

		del, err := f.engine.DeleteCurrent()
		require.NoError(t, err)
		assert.Equal(t, files[0], del.Deleted)
		assert.Equal(t, []string{files[0], files[2]}, f.painter.Paths())
	})

	t.Run("nothing to show", func(t *testing.T) {
		f := newFixture(t, `{"keywords.nature":-1}`)

		del, err := f.engine.DeleteCurrent()
		require.NoError(t, err)
		assert.Equal(t, Deletion{}, del)
		assert.Zero(t, f.prefs.Puts())
	})

	t.Run("file already gone", func(t *testing.T) {
		f := newFixture(t, `{"keywords.nature":-1}`)
		files := f.wallpapers(t, "nature", 3)

		_, err := f.engine.Advance(Next)
		require.NoError(t, err)
		require.NoError(t, os.Remove(files[0]))

		del, err := f.engine.DeleteCurrent()
		require.NoError(t, err)
		assert.Equal(t, files[0], del.Deleted)
		assert.Equal(t, files[2], del.Next.Path)
	})

	t.Run("last wallpaper", func(t *testing.T) {
		f := newFixture(t, `{"keywords.nature":-1}`)
		files := f.wallpapers(t, "nature", 1)

		del, err := f.engine.DeleteCurrent()
		require.NoError(t, err)
		assert.Equal(t, files[0], del.Deleted)
		assert.True(t, del.Next.Empty())
		// The deleted path is still what the desktop shows.
		assert.Equal(t, files[0], f.engine.State().CurrentPath)
	})
}

func TestResetAllCursors(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":2,"keywords.space":0}`)

	require.NoError(t, f.engine.ResetAllCursors())

	assert.Equal(t, index.Unset, f.index.Get("nature"))
	assert.Equal(t, index.Unset, f.index.Get("space"))
	assert.Equal(t, []string{"nature", "space"}, f.index.Keywords())
}

func TestReload(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":-1}`)
	files := f.wallpapers(t, "cities", 2)

	require.NoError(t, f.prefs.Put(index.PrefKey, `{"keywords.cities":0}`))
	f.engine.Reload()

	sel, err := f.engine.Advance(Next)
	require.NoError(t, err)
	assert.Equal(t, "cities", sel.Keyword)
	assert.Equal(t, files[1], sel.Path)
}

func TestLifecycle(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":-1}`)
	f.wallpapers(t, "nature", 2)
	require.NoError(t, f.cfg.SetChangeInterval(settings.Interval{Value: 1, Unit: settings.Seconds}))
	t.Cleanup(f.engine.Stop)

	assert.False(t, f.engine.State().Running)

	require.NoError(t, f.engine.Start())
	st := f.engine.State()
	assert.True(t, st.Running)
	assert.Equal(t, time.Second, st.Interval)

	assert.Eventually(t, func() bool {
		return len(f.painter.Paths()) > 0
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, f.cfg.SetChangeInterval(settings.Interval{Value: 1, Unit: settings.Hours}))
	require.NoError(t, f.engine.UpdateInterval())
	st = f.engine.State()
	assert.True(t, st.Running)
	assert.Equal(t, time.Hour, st.Interval)

	f.engine.Stop()
	assert.False(t, f.engine.State().Running)

	// Stopping twice is harmless.
	f.engine.Stop()
}

func TestUpdateIntervalStartsEngine(t *testing.T) {
	f := newFixture(t, `{}`)
	t.Cleanup(f.engine.Stop)

	require.NoError(t, f.engine.UpdateInterval())
	st := f.engine.State()
	assert.True(t, st.Running)
	assert.Equal(t, time.Minute, st.Interval)
}

func TestRestartDuringAdvance(t *testing.T) {
	f := newFixture(t, `{"keywords.nature":-1}`)
	f.wallpapers(t, "nature", 3)
	require.NoError(t, f.cfg.SetChangeInterval(settings.Interval{Value: 1, Unit: settings.Seconds}))
	t.Cleanup(f.engine.Stop)
	require.NoError(t, f.engine.Start())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.engine.Advance(Next)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, f.engine.UpdateInterval())
		}()
	}
	wg.Wait()

	assert.True(t, f.engine.State().Running)
}
