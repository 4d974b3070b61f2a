package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when neither VISUAL nor EDITOR is set.
var ErrNoEditor = errors.New("EDITOR not set; set it or use 'wallsafe config set'")

// EditInEditor writes content to a temporary file named with suffix, opens
// it in the user's editor and returns what was saved.
func EditInEditor(content []byte, suffix string) ([]byte, error) {
	editor := getEditor()
	if editor == "" {
		return nil, ErrNoEditor
	}

	f, err := os.CreateTemp("", "wallsafe-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	_, werr := f.Write(content)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", werr)
	}

	if err := runEditor(editor, path); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return edited, nil
}

// getEditor prefers VISUAL over EDITOR.
func getEditor() string {
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	return os.Getenv("EDITOR")
}

// runEditor runs editor, which may carry arguments ("code --wait"), on path
// attached to the current terminal.
func runEditor(editor, path string) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("empty editor command")
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
