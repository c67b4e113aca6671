// Package pdf resolves paper files against the paper root, opens them in
// a reader, and guesses titles from their first page.
package pdf

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Readers lists the accepted pdf_reader values.
var Readers = []string{"system", "skim", "preview", "zathura", "evince", "okular"}

// Opener handles resolving and opening paper files.
type Opener struct {
	paperRoot string
	reader    string
	goos      string
}

// NewOpener creates an opener. Relative paper paths are joined onto
// paperRoot; an empty reader means the platform default.
func NewOpener(paperRoot, reader string) *Opener {
	if reader == "" {
		reader = "system"
	}
	return &Opener{
		paperRoot: paperRoot,
		reader:    reader,
		goos:      runtime.GOOS,
	}
}

// ResolvePath resolves a stored paper path to an existing file.
func (o *Opener) ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("paper has no file")
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		if o.paperRoot == "" {
			return "", fmt.Errorf("paper_root not configured")
		}
		fullPath = filepath.Join(o.paperRoot, path)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", fullPath)
		}
		return "", fmt.Errorf("checking file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a file: %s", fullPath)
	}

	return fullPath, nil
}

// Open starts the configured reader on fullPath without waiting for it.
func (o *Opener) Open(fullPath string) error {
	// Fail fast if file doesn't exist
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", fullPath)
		}
		return fmt.Errorf("checking file: %w", err)
	}

	cmd, err := o.Command(fullPath)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command returns the reader command for fullPath on this platform.
func (o *Opener) Command(fullPath string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return o.darwinCommand(fullPath), nil
	case "linux", "freebsd", "openbsd":
		return o.linuxCommand(fullPath), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", fullPath), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", o.goos)
	}
}

// darwinCommand returns the command to open a file on macOS.
func (o *Opener) darwinCommand(path string) *exec.Cmd {
	switch o.reader {
	case "skim":
		return exec.Command("open", "-a", "Skim", path)
	case "preview":
		return exec.Command("open", "-a", "Preview", path)
	default: // "system"
		return exec.Command("open", path)
	}
}

// linuxCommand returns the command to open a file on Linux.
func (o *Opener) linuxCommand(path string) *exec.Cmd {
	switch o.reader {
	case "zathura", "evince", "okular":
		return exec.Command(o.reader, path)
	default: // "system"
		return exec.Command("xdg-open", path)
	}
}
