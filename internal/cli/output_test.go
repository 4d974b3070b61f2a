package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f), "regular file is not a terminal")

	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf), "bytes.Buffer is not a terminal")
}

func TestColorFunctions(t *testing.T) {
	defer SetColorEnabled(ColorEnabled())

	SetColorEnabled(true)
	assert.Equal(t, "\033[32mon\033[0m", Green("on"))
	assert.Equal(t, "\033[31mx\033[0m", Red("x"))
	assert.Equal(t, "\033[33mx\033[0m", Yellow("x"))
	assert.Equal(t, "\033[90mx\033[0m", Gray("x"))
	assert.Equal(t, "\033[1mx\033[0m", Bold("x"))
	assert.True(t, ColorEnabled())

	SetColorEnabled(false)
	assert.Equal(t, "x", Green("x"))
	assert.Equal(t, "x", Bold("x"))
	assert.False(t, ColorEnabled())
}

func TestOnOffAndCursor(t *testing.T) {
	defer SetColorEnabled(ColorEnabled())
	SetColorEnabled(false)

	assert.Equal(t, "on", OnOff(true))
	assert.Equal(t, "off", OnOff(false))
	assert.Equal(t, "-", Cursor(-1))
	assert.Equal(t, "0", Cursor(0))
	assert.Equal(t, "12", Cursor(12))
}

func TestHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	assert.Equal(t, "~", HomePath(home))
	assert.Equal(t, filepath.Join("~", "Desktop", "Wallpapers"), HomePath(filepath.Join(home, "Desktop", "Wallpapers")))
	assert.Equal(t, "/srv/walls", HomePath("/srv/walls"))
	assert.Equal(t, home+"x", HomePath(home+"x"))
}

func TestTable(t *testing.T) {
	defer SetColorEnabled(ColorEnabled())
	SetColorEnabled(false)

	t.Run("aligns columns", func(t *testing.T) {
		table := NewTable()
		table.AddRow("nature", "3")
		table.AddRow("space", "-")
		table.AddRow("abstract", "0")

		var buf bytes.Buffer
		table.Render(&buf)

		assert.Equal(t, "nature    3\nspace     -\nabstract  0\n", buf.String())
		assert.Equal(t, 3, table.Len())
	})

	t.Run("header counts toward widths", func(t *testing.T) {
		table := NewTable("KEYWORD", "CURSOR")
		table.AddRow("sea", "1")

		var buf bytes.Buffer
		table.Render(&buf)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "KEYWORD  CURSOR", lines[0])
		assert.Equal(t, "sea      1", lines[1])
		assert.Equal(t, 1, table.Len())
	})

	t.Run("colored cells pad by visible width", func(t *testing.T) {
		SetColorEnabled(true)
		defer SetColorEnabled(false)

		table := NewTable()
		table.AddRow(Green("on"), "general")
		table.AddRow("off", "nsfw")

		var buf bytes.Buffer
		table.Render(&buf)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		assert.Equal(t, "\033[32mon\033[0m   general", lines[0])
		assert.Equal(t, "off  nsfw", lines[1])
	})

	t.Run("ragged rows", func(t *testing.T) {
		table := NewTable()
		table.AddRow("a", "b", "c")
		table.AddRow("dd")

		var buf bytes.Buffer
		table.Render(&buf)
		assert.Equal(t, "a   b  c\ndd\n", buf.String())
	})
}

func TestVisibleWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"\033[32mhello\033[0m", 5},
		{"\033[1m\033[31mab\033[0m", 2},
		{"héllo", 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, visibleWidth(tt.in), "visibleWidth(%q)", tt.in)
	}
}
