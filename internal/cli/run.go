package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fish-bot/internal/config"
	"fish-bot/internal/fishing"
	"fish-bot/internal/hotkey"
	"fish-bot/internal/logging"
	"fish-bot/internal/platform"
	"fish-bot/internal/tray"
	"fish-bot/internal/vision"
	"fish-bot/internal/vision/cvmatch"
)

var noTray bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Find the game window and start fishing",
	Long: `Find the emulator window, load the reference images and play until stopped.

Stop with the configured stop key (esc by default), Ctrl+C, or Quit in the
tray menu. Calibrated button positions are saved to the config file as soon
as they are found and once more on exit.`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func init() {
	runCmd.Flags().BoolVar(&noTray, "no-tray", false, "run without the system tray icon")
}

func runBot(cmd *cobra.Command, args []string) error {
	store, err := config.Open(configPath)
	if err != nil {
		return err
	}
	cfg := store.Config()

	if err := logging.Init(cfg.LogFile, cfg.Debug); err != nil {
		return err
	}
	defer logging.Close()
	logging.Info("fish-bot %s starting with %s", version, store.Path())

	if errs := config.Validate(&cfg); len(errs) > 0 {
		return fmt.Errorf("invalid configuration %s: %w", store.Path(), errors.Join(errs...))
	}

	bounds, win, err := platform.ResolveBounds(cfg.Window.Title, cfg.Window.Rect)
	if err != nil {
		logging.Error("Game window not found: %v", err)
		return err
	}
	if err := win.Activate(); err != nil {
		logging.Warn("%v", err)
	}

	set, err := vision.LoadTemplates(cfg.ImageDir, vision.ScaleFor(bounds.W, cfg.ReferenceWidth))
	if err != nil {
		logging.Error("%v", err)
		return err
	}
	matcher, err := cvmatch.New(set)
	if err != nil {
		return err
	}
	defer matcher.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mouse := platform.NewMouse(func() time.Duration { return store.Timing().ClickInterval / 2 })
	screen := platform.NewScreen()
	snapshotDir := ""
	if cfg.Debug {
		snapshotDir = cfg.SnapshotDir
	}

	session := fishing.NewSession(
		fishing.Deps{
			Capture: screen,
			Matcher: matcher,
			Input:   mouse,
			Store:   store,
			Tuning:  store,
		},
		fishing.Options{
			Window:        bounds,
			Layout:        store.Layout(),
			Threshold:     cfg.MatchThreshold,
			ClusterRadius: cfg.ClusterRadius,
			SnapshotDir:   snapshotDir,
		},
	)

	go func() {
		if err := store.Watch(ctx); err != nil {
			logging.Warn("Config watcher stopped: %v", err)
		}
	}()
	go hotkey.Listen(ctx, cfg.StopKeys, cancel)

	if noTray {
		return keepLastFrame(session.Run(ctx), screen, cfg.SnapshotDir)
	}

	errCh := make(chan error, 1)
	go func() {
		err := session.Run(ctx)
		cancel()
		errCh <- err
	}()
	tray.New(ctx, session, mouse, cancel).Run()
	return keepLastFrame(<-errCh, screen, cfg.SnapshotDir)
}

// keepLastFrame saves the frame the session last looked at when it stopped
// on an error, and passes err through.
func keepLastFrame(err error, screen *platform.Screen, dir string) error {
	if err == nil {
		return nil
	}
	img, area := screen.LastImage()
	if img == nil {
		return err
	}
	if path, saveErr := vision.SaveSnapshot(dir, "failure", img, nil); saveErr != nil {
		logging.Warn("Last frame not saved: %v", saveErr)
	} else {
		logging.Info("Last frame of %s saved to %s", area, path)
	}
	return err
}
