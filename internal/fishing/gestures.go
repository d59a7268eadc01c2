package fishing

import (
	"fmt"

	"fish-bot/internal/data"
	"fish-bot/internal/logging"
)

// Gesture reach in pixels.
const (
	castLift     = 100 // upward flick that casts the line
	retrieveLift = 75  // shorter flick that reels in slack
	wiggleReach  = 100 // sideways swing of the rod handle, each way
)

// Gestures translates fishing moves into mouse input.
//
// Every drag lasts the configured drag duration, read on each call so a live
// config change applies to the next gesture.
type Gestures struct {
	input  Input
	tuning Tuning
}

// NewGestures creates a gesture coordinator over input.
func NewGestures(input Input, tuning Tuning) *Gestures {
	return &Gestures{input: input, tuning: tuning}
}

// Tap clicks once at p.
func (g *Gestures) Tap(p data.Point) error {
	if err := g.input.Click(p); err != nil {
		return fmt.Errorf("failed to click %s: %w", p, err)
	}
	return nil
}

// Cast flicks upward from the start control.
func (g *Gestures) Cast(from data.Point) error {
	logging.Debug("Cast from %s", from)
	return g.drag(from, 0, -castLift)
}

// Retrieve reels in with a short upward flick.
func (g *Gestures) Retrieve(from data.Point) error {
	logging.Debug("Retrieve from %s", from)
	return g.drag(from, 0, -retrieveLift)
}

// Wiggle swings the rod handle right then left.
func (g *Gestures) Wiggle(rod data.Point) error {
	logging.Debug("Wiggle rod at %s", rod)
	if err := g.drag(rod, wiggleReach, 0); err != nil {
		return err
	}
	return g.drag(rod, -wiggleReach, 0)
}

func (g *Gestures) drag(from data.Point, dx, dy int) error {
	d := g.tuning.Timing().DragDuration
	if err := g.input.Drag(from, dx, dy, d); err != nil {
		return fmt.Errorf("failed to drag from %s by (%d, %d): %w", from, dx, dy, err)
	}
	return nil
}
