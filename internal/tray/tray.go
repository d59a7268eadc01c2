// Package tray - tray.go
//
// This file implements the system tray icon shown while the bot runs.
// Uses getlantern/systray for cross-platform tray menu support.
//
// Menu Structure:
//
//	Fish Bot
//	├─ Status: Phase | Rounds | Uptime (read-only, refreshed every second)
//	├─ Last action (read-only)
//	└─ Quit (graceful shutdown, same as the stop key)
//
// Lifecycle:
//  1. New: Create the app around a status source and a stop function
//  2. Run: Start systray on the calling goroutine (blocking; must be the
//     main goroutine on macOS)
//  3. onReady: Build the menu and start the event loop
//  4. handleEvents: Refresh the status and wait for Quit or cancellation
//  5. onExit: Log and return from Run
package tray

import (
	"context"
	"fmt"
	"time"

	"github.com/getlantern/systray"

	"fish-bot/internal/fishing"
	"fish-bot/internal/logging"
	"fish-bot/internal/platform"
)

// Source reports the running session's progress.
type Source interface {
	Phase() fishing.Phase
	Rounds() int
}

// ActionSource reports recent mouse actions. Optional.
type ActionSource interface {
	RecentActions() []platform.ActionLog
}

// App manages the tray icon and its menu.
type App struct {
	ctx     context.Context
	source  Source
	actions ActionSource
	stop    func()
	started time.Time

	statusItem *systray.MenuItem
	actionItem *systray.MenuItem
}

// New creates a tray app. stop is called when the user picks Quit; the tray
// closes itself once ctx is done.
func New(ctx context.Context, source Source, actions ActionSource, stop func()) *App {
	return &App{
		ctx:     ctx,
		source:  source,
		actions: actions,
		stop:    stop,
		started: time.Now(),
	}
}

// Run shows the tray icon and blocks until the menu is closed.
func (t *App) Run() {
	logging.Info("Starting system tray")
	systray.Run(t.onReady, func() {
		logging.Info("System tray closed")
	})
}

func (t *App) onReady() {
	systray.SetTitle("Fish Bot")
	systray.SetTooltip("Fishing mini-game bot")

	t.statusItem = systray.AddMenuItem("Status: Starting...", "Current phase and progress")
	t.statusItem.Disable()
	t.actionItem = systray.AddMenuItem("Last action: none", "Most recent mouse action")
	t.actionItem.Disable()

	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Stop fishing and exit")

	go t.handleEvents(quitItem)
}

func (t *App) handleEvents(quitItem *systray.MenuItem) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.refresh()
		case <-quitItem.ClickedCh:
			logging.Info("Quit requested from tray")
			t.stop()
			systray.Quit()
			return
		case <-t.ctx.Done():
			systray.Quit()
			return
		}
	}
}

func (t *App) refresh() {
	t.statusItem.SetTitle(FormatStatus(t.source.Phase(), t.source.Rounds(), time.Since(t.started)))
	if t.actions == nil {
		return
	}
	if recent := t.actions.RecentActions(); len(recent) > 0 {
		last := recent[len(recent)-1]
		t.actionItem.SetTitle(fmt.Sprintf("Last action: %s (%s)", last.Message, last.Timestamp.Format("15:04:05")))
	}
}

// FormatStatus renders the status line.
func FormatStatus(phase fishing.Phase, rounds int, uptime time.Duration) string {
	return fmt.Sprintf("Status: %s | Rounds: %d | Uptime: %s", phase, rounds, uptime.Truncate(time.Second))
}
