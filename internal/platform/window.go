// Package platform - window.go
//
// This file locates the emulator window that hosts the game and brings it to
// the foreground before the bot starts clicking.
//
// Key Responsibilities:
//   - Find the window whose title contains the configured text
//   - Report its live on-screen bounds
//   - Activate it so synthetic input lands on the game
//
// Window Discovery:
// robotgo has no portable "find window by title" call, so every process id
// is enumerated and its main window title compared. The first match wins.
// Titles are compared case-insensitively as substrings, since emulators
// append instance numbers ("MuMuPlayer-2").
//
// Fallback:
// A missing window is fatal. When the window exists but its bounds read back
// empty (minimised, or a platform without geometry support), the rectangle
// from the configuration file is used instead. The window is never moved or
// resized; reference images are scaled to its width instead.
package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"

	"fish-bot/internal/data"
	"fish-bot/internal/logging"
)

// ErrWindowNotFound is returned when no window title matches.
var ErrWindowNotFound = errors.New("window not found")

// Window is a top-level window owned by a running process.
//
// Fields:
//   - Pid: Owning process id, used for activation and bounds queries
//   - Title: Full window title as reported by the OS
type Window struct {
	Pid   int
	Title string
}

// FindWindow returns the first window whose title contains title.
//
// Parameters:
//   - title: Text to look for, case-insensitive (e.g. "MuMuPlayer")
//
// Returns:
//   - *Window: Matching window
//   - error: ErrWindowNotFound when nothing matches, or the enumeration error
func FindWindow(title string) (*Window, error) {
	if title == "" {
		return nil, fmt.Errorf("empty title: %w", ErrWindowNotFound)
	}

	pids, err := robotgo.Pids()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	want := strings.ToLower(title)
	for _, pid := range pids {
		name := robotgo.GetTitle(pid)
		if name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(name), want) {
			logging.Debug("Window %q matched pid %d", name, pid)
			return &Window{Pid: pid, Title: name}, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", title, ErrWindowNotFound)
}

// Bounds returns the window's current screen rectangle.
func (w *Window) Bounds() data.Bounds {
	x, y, width, height := robotgo.GetBounds(w.Pid)
	return data.NewBounds(x, y, width, height)
}

// Activate raises the window and gives it input focus.
func (w *Window) Activate() error {
	if err := robotgo.ActivePid(w.Pid); err != nil {
		return fmt.Errorf("failed to activate %q: %w", w.Title, err)
	}
	return nil
}

// ResolveBounds finds the window named title and returns the screen area to
// automate.
//
// Parameters:
//   - title: Window title to search for
//   - fallback: Rectangle used when the window's bounds cannot be read
//
// Returns:
//   - data.Bounds: Live window bounds, or fallback when they come back empty
//   - *Window: The matched window
//   - error: ErrWindowNotFound when no window matches
func ResolveBounds(title string, fallback data.Bounds) (data.Bounds, *Window, error) {
	w, err := FindWindow(title)
	if err != nil {
		return data.Bounds{}, nil, err
	}
	b := w.Bounds()
	if b.Empty() {
		logging.Warn("Window %q reports empty bounds, using configured rectangle %s", w.Title, fallback)
		return fallback, w, nil
	}
	logging.Info("Found window %q at %s", w.Title, b)
	return b, w, nil
}
