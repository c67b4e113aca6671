// Package clipboard moves BibTeX text in and out of the system clipboard
// via the platform's clipboard commands.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// tool is a clipboard command pair for one platform.
type tool struct {
	copy  []string
	paste []string
}

// tools lists candidates per platform, in preference order.
var tools = map[string][]tool{
	"darwin": {
		{copy: []string{"pbcopy"}, paste: []string{"pbpaste"}},
	},
	"linux": {
		{copy: []string{"wl-copy"}, paste: []string{"wl-paste", "--no-newline"}},
		{copy: []string{"xclip", "-selection", "clipboard"}, paste: []string{"xclip", "-selection", "clipboard", "-o"}},
		{copy: []string{"xsel", "--clipboard", "--input"}, paste: []string{"xsel", "--clipboard", "--output"}},
	},
}

// findTool returns the first installed clipboard tool for goos.
func findTool(goos string) (tool, error) {
	for _, t := range tools[goos] {
		if _, err := lookPath(t.copy[0]); err == nil {
			return t, nil
		}
	}
	return tool{}, ErrClipboardUnavailable
}

// IsAvailable checks if clipboard functionality is available on this system.
func IsAvailable() bool {
	_, err := findTool(runtime.GOOS)
	return err == nil
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Copy(text string) error {
	t, err := findTool(runtime.GOOS)
	if err != nil {
		return err
	}
	cmd := exec.Command(t.copy[0], t.copy[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", t.copy[0], err)
	}
	return nil
}

// Paste returns the clipboard text.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Paste() (string, error) {
	t, err := findTool(runtime.GOOS)
	if err != nil {
		return "", err
	}
	out, err := exec.Command(t.paste[0], t.paste[1:]...).Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.paste[0], err)
	}
	return string(out), nil
}
