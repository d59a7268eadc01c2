package fishing

import (
	"context"
	"fmt"

	"fish-bot/internal/data"
	"fish-bot/internal/logging"
	"fish-bot/internal/vision"
)

// Field names one calibratable point of the layout.
type Field int

const (
	FieldStart Field = iota
	FieldRod
	FieldPressure
	FieldBait
	FieldRetry
)

// String implements fmt.Stringer
func (f Field) String() string {
	switch f {
	case FieldStart:
		return "start"
	case FieldRod:
		return "rod"
	case FieldPressure:
		return "pressure"
	case FieldBait:
		return "bait"
	case FieldRetry:
		return "retry"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// pressureAnchor samples the gauge left of centre, where it first changes
// colour as tension rises.
var pressureAnchor = vision.Anchor{X: 0.25, Y: 0.5}

// target is one template to locate during a calibration.
type target struct {
	id     vision.TemplateID
	anchor vision.Anchor
}

// Reel is everything the reeling phase needs: the rod handle and tension
// gauge points, and the colours they showed when calibrated.
type Reel struct {
	Rod           data.Point
	RodColor      data.Color
	Pressure      data.Point
	PressureColor data.Color
}

// Calibrator finds interactive elements on demand and remembers them.
//
// Every Ensure call is idempotent for the run: a populated field is returned
// without touching the screen. Each calibration rewrites the layout store.
// Not safe for concurrent use; only the action loop calibrates.
type Calibrator struct {
	layout    data.Layout
	window    data.Bounds
	capture   Capturer
	matcher   Matcher
	input     Input
	store     LayoutStore
	threshold float64

	// SnapshotDir, when set, receives an annotated copy of every capture
	// used for calibration.
	SnapshotDir string
}

// NewCalibrator starts from a previously persisted layout.
func NewCalibrator(layout data.Layout, window data.Bounds, capture Capturer, matcher Matcher, input Input, store LayoutStore, threshold float64) *Calibrator {
	return &Calibrator{
		layout:    layout.Clone(),
		window:    window,
		capture:   capture,
		matcher:   matcher,
		input:     input,
		store:     store,
		threshold: threshold,
	}
}

// Layout returns a copy of the current layout.
func (c *Calibrator) Layout() data.Layout {
	return c.layout.Clone()
}

// Flush writes the layout to the store.
func (c *Calibrator) Flush() error {
	if err := c.store.SaveLayout(c.layout); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	return nil
}

// Ensure returns the absolute coordinate of f, calibrating it first if it is
// not known yet.
func (c *Calibrator) Ensure(ctx context.Context, f Field) (data.Point, error) {
	switch f {
	case FieldRod:
		reel, err := c.EnsureReel(ctx)
		return reel.Rod, err
	case FieldPressure:
		reel, err := c.EnsureReel(ctx)
		return reel.Pressure, err
	}

	slot, id := c.slot(f)
	if slot == nil {
		return data.Point{}, fmt.Errorf("unknown layout field %s", f)
	}
	if *slot != nil {
		return **slot, nil
	}

	pts, err := c.locate(ctx, c.window, f.String(), target{id: id, anchor: vision.Center})
	if err != nil {
		return data.Point{}, err
	}
	p := pts[0]
	*slot = &p
	logging.Info("Calibrated %s at %s", f, p)

	if err := c.Flush(); err != nil {
		return data.Point{}, err
	}
	return p, nil
}

func (c *Calibrator) slot(f Field) (**data.Point, vision.TemplateID) {
	switch f {
	case FieldStart:
		return &c.layout.Start, vision.StartButton
	case FieldBait:
		return &c.layout.BaitButton, vision.UseButton
	case FieldRetry:
		return &c.layout.RetryButton, vision.RetryButton
	}
	return nil, 0
}

// EnsureReel returns the rod handle and tension gauge, calibrating both from
// one capture if either is missing. Their baseline colours are sampled from
// the live screen right after.
func (c *Calibrator) EnsureReel(ctx context.Context) (Reel, error) {
	l := &c.layout
	if l.Rod != nil && l.Pressure != nil && l.RodColor != nil && l.PressureColor != nil {
		return Reel{Rod: *l.Rod, RodColor: *l.RodColor, Pressure: *l.Pressure, PressureColor: *l.PressureColor}, nil
	}

	pts, err := c.locate(ctx, c.window, "reel",
		target{id: vision.RodHandle, anchor: vision.Center},
		target{id: vision.PressureGauge, anchor: pressureAnchor},
	)
	if err != nil {
		return Reel{}, err
	}
	reel := Reel{Rod: pts[0], Pressure: pts[1]}

	if reel.PressureColor, err = c.input.PixelColor(reel.Pressure); err != nil {
		return Reel{}, fmt.Errorf("failed to sample pressure colour: %w", err)
	}
	if reel.RodColor, err = c.input.PixelColor(reel.Rod); err != nil {
		return Reel{}, fmt.Errorf("failed to sample rod colour: %w", err)
	}

	l.Rod, l.RodColor = &reel.Rod, &reel.RodColor
	l.Pressure, l.PressureColor = &reel.Pressure, &reel.PressureColor
	logging.Info("Calibrated rod at %s (#%s), pressure at %s (#%s)",
		reel.Rod, reel.RodColor.Hex(), reel.Pressure, reel.PressureColor.Hex())

	if err := c.Flush(); err != nil {
		return Reel{}, err
	}
	return reel, nil
}

// EnsureDirections returns the direction-button coordinates keyed by icon
// name. The buttons sit in the bottom half of the window, which is searched
// alone so the prompt icons in the top half cannot be picked instead.
func (c *Calibrator) EnsureDirections(ctx context.Context) (map[string]data.Point, error) {
	if len(c.layout.Directions) > 0 {
		return c.layout.Directions, nil
	}

	targets := make([]target, len(vision.DirectionIDs))
	for i, id := range vision.DirectionIDs {
		targets[i] = target{id: id, anchor: vision.Center}
	}
	pts, err := c.locate(ctx, c.window.BottomHalf(), "directions", targets...)
	if err != nil {
		return nil, err
	}

	dirs := make(map[string]data.Point, len(pts))
	for i, id := range vision.DirectionIDs {
		dirs[id.Name()] = pts[i]
	}
	c.layout.Directions = dirs
	logging.Info("Calibrated %d direction buttons", len(dirs))

	if err := c.Flush(); err != nil {
		return nil, err
	}
	return dirs, nil
}

// locate captures region once and returns the absolute point of every
// target's best match, in order. Weak matches are used anyway but logged.
func (c *Calibrator) locate(ctx context.Context, region data.Bounds, tag string, targets ...target) ([]data.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := c.capture.Capture(region)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s for %s calibration: %w", region, tag, err)
	}
	scene, err := c.matcher.Open(img)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare capture for %s calibration: %w", tag, err)
	}
	defer scene.Close()

	pts := make([]data.Point, len(targets))
	var marks []vision.Mark
	for i, t := range targets {
		anchor, clamped := t.anchor.Clamp()
		if clamped {
			logging.Warn("Anchor %v for %s clamped to %v", t.anchor, t.id, anchor)
		}

		m, err := scene.Locate(t.id, anchor)
		if err != nil {
			return nil, fmt.Errorf("failed to locate %s: %w", t.id, err)
		}
		if m.Score < c.threshold {
			logging.Warn("Best match for %s scores %.3f, below %.2f; calibrating anyway", t.id, m.Score, c.threshold)
		}
		pts[i] = m.At.Add(region.X, region.Y)
		logging.Debug("%s: %s (score %.3f) -> %s", t.id, m.At, m.Score, pts[i])

		col := vision.MarkHit
		if m.Score < c.threshold {
			col = vision.MarkMiss
		}
		marks = append(marks, vision.Mark{Label: fmt.Sprintf("%s %.2f", t.id, m.Score), Box: m.Box, Color: col})
	}

	if c.SnapshotDir != "" {
		if path, err := vision.SaveSnapshot(c.SnapshotDir, tag, img, marks); err != nil {
			logging.Warn("Snapshot for %s calibration not saved: %v", tag, err)
		} else {
			logging.Debug("Snapshot saved to %s", path)
		}
	}
	return pts, nil
}
