package fishing

import (
	"context"
	"image"
	"time"

	"fish-bot/internal/config"
	"fish-bot/internal/data"
	"fish-bot/internal/vision"
)

// Capturer grabs a screen region. The returned image's origin is the
// region's top-left corner.
type Capturer interface {
	Capture(region data.Bounds) (image.Image, error)
}

// Matcher prepares a capture for template queries.
type Matcher interface {
	Open(img image.Image) (vision.Scene, error)
}

// Input injects synthetic mouse events at absolute screen coordinates.
type Input interface {
	Click(p data.Point) error
	Drag(from data.Point, dx, dy int, d time.Duration) error
	PixelColor(p data.Point) (data.Color, error)
}

// LayoutStore persists calibrated coordinates.
type LayoutStore interface {
	SaveLayout(l data.Layout) error
}

// Tuning supplies the current delays; they may change while running.
type Tuning interface {
	Timing() config.Timing
}

// Clock abstracts time for the loops and the rate limits.
type Clock interface {
	Now() time.Time
	// Sleep waits for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep waits for d or until ctx is done.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FixedTuning serves a constant timing block.
type FixedTuning config.Timing

// Timing returns the fixed delays.
func (f FixedTuning) Timing() config.Timing { return config.Timing(f) }
