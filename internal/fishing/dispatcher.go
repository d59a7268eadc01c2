package fishing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fish-bot/internal/data"
	"fish-bot/internal/logging"
	"fish-bot/internal/vision"
)

// preCatchFactor and pressureBackoff scale the click interval for the
// slower bite clicks and for the pause after the gauge turns hot.
const (
	preCatchFactor  = 3
	pressureBackoff = 3
)

// Dispatcher runs the action for the current phase on every action tick.
//
// One-shot phases act on their first tick only, gated by the State flags.
// PreCatch and ActiveFishing act every tick and pace themselves with the
// click and retrieve timers, which belong to this dispatcher alone.
type Dispatcher struct {
	state    *State
	cal      *Calibrator
	gestures *Gestures
	input    Input
	capture  Capturer
	matcher  Matcher
	tuning   Tuning
	clock    Clock

	window        data.Bounds
	threshold     float64
	clusterRadius int

	lastClick    time.Time
	lastRetrieve time.Time
}

// DispatcherConfig groups the dispatcher's collaborators.
type DispatcherConfig struct {
	State         *State
	Calibrator    *Calibrator
	Input         Input
	Capture       Capturer
	Matcher       Matcher
	Tuning        Tuning
	Clock         Clock
	Window        data.Bounds
	Threshold     float64
	ClusterRadius int
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		state:         cfg.State,
		cal:           cfg.Calibrator,
		gestures:      NewGestures(cfg.Input, cfg.Tuning),
		input:         cfg.Input,
		capture:       cfg.Capture,
		matcher:       cfg.Matcher,
		tuning:        cfg.Tuning,
		clock:         cfg.Clock,
		window:        cfg.Window,
		threshold:     cfg.Threshold,
		clusterRadius: cfg.ClusterRadius,
	}
}

// Dispatch performs p's action for one tick.
func (d *Dispatcher) Dispatch(ctx context.Context, p Phase) error {
	switch p {
	case AwaitingStart:
		return d.once(p, d.onAwaitingStart(ctx))
	case RodCast:
		return d.once(p, d.onRodCast(ctx))
	case BaitDepleted:
		return d.once(p, d.onBaitDepleted(ctx))
	case PreCatch:
		return d.onPreCatch(ctx)
	case ActiveFishing:
		return d.onActiveFishing(ctx)
	case TimedChallenge:
		return d.once(p, d.onTimedChallenge(ctx))
	case RoundEnded:
		return d.once(p, d.onRoundEnded(ctx))
	case Terminated:
		return nil
	default:
		return fmt.Errorf("no action for phase %s", p)
	}
}

// once runs action if p's first-tick flag is armed, then clears it.
func (d *Dispatcher) once(p Phase, action func() error) error {
	if !d.state.FirstTick(p) {
		return nil
	}
	if err := action(); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	d.state.Clear(p)
	return nil
}

func (d *Dispatcher) onAwaitingStart(ctx context.Context) func() error {
	return func() error {
		start, err := d.cal.Ensure(ctx, FieldStart)
		if err != nil {
			return err
		}
		logging.Info("Starting fishing at %s", start)
		return d.gestures.Tap(start)
	}
}

func (d *Dispatcher) onRodCast(ctx context.Context) func() error {
	return func() error {
		start, err := d.cal.Ensure(ctx, FieldStart)
		if err != nil {
			return err
		}
		if err := d.gestures.Cast(start); err != nil {
			return err
		}
		d.state.Arm(RoundEnded)
		return nil
	}
}

func (d *Dispatcher) onBaitDepleted(ctx context.Context) func() error {
	return func() error {
		bait, err := d.cal.Ensure(ctx, FieldBait)
		if err != nil {
			return err
		}
		logging.Info("Out of bait, using more at %s", bait)
		if err := d.gestures.Tap(bait); err != nil {
			return err
		}
		d.state.Arm(RodCast)
		return nil
	}
}

func (d *Dispatcher) onPreCatch(ctx context.Context) error {
	start, err := d.cal.Ensure(ctx, FieldStart)
	if err != nil {
		return fmt.Errorf("%s: %w", PreCatch, err)
	}

	now := d.clock.Now()
	if now.Sub(d.lastClick) < preCatchFactor*d.tuning.Timing().ClickInterval {
		return nil
	}
	if err := d.gestures.Tap(start); err != nil {
		return fmt.Errorf("%s: %w", PreCatch, err)
	}
	d.lastClick = now
	return nil
}

func (d *Dispatcher) onActiveFishing(ctx context.Context) error {
	if err := d.reel(ctx); err != nil {
		return fmt.Errorf("%s: %w", ActiveFishing, err)
	}
	return nil
}

// reel is one tick of the tug of war: periodic retrieve, tension-aware
// clicking, and swinging the rod when the fish pulls it.
func (d *Dispatcher) reel(ctx context.Context) error {
	start, err := d.cal.Ensure(ctx, FieldStart)
	if err != nil {
		return err
	}
	r, err := d.cal.EnsureReel(ctx)
	if err != nil {
		return err
	}

	t := d.tuning.Timing()
	now := d.clock.Now()

	if now.Sub(d.lastRetrieve) > t.RetrieveInterval {
		if err := d.gestures.Retrieve(start); err != nil {
			return err
		}
		d.lastRetrieve = d.clock.Now()
	}

	if now.Sub(d.lastClick) >= t.ClickInterval {
		pressure, err := d.input.PixelColor(r.Pressure)
		if err != nil {
			return fmt.Errorf("failed to sample pressure: %w", err)
		}
		if pressure != r.PressureColor {
			d.lastClick = now.Add(pressureBackoff * t.ClickInterval)
			logging.Debug("Tension high (#%s), holding clicks until %s", pressure.Hex(), d.lastClick.Format("15:04:05.000"))
		} else {
			if err := d.gestures.Tap(start); err != nil {
				return err
			}
			d.lastClick = now
		}
	}

	rod, err := d.input.PixelColor(r.Rod)
	if err != nil {
		return fmt.Errorf("failed to sample rod: %w", err)
	}
	if rod != r.RodColor {
		return d.gestures.Wiggle(r.Rod)
	}
	return nil
}

func (d *Dispatcher) onTimedChallenge(ctx context.Context) func() error {
	return func() error {
		dirs, err := d.cal.EnsureDirections(ctx)
		if err != nil {
			return err
		}
		seq, err := d.readSequence()
		if err != nil {
			return err
		}
		logging.Info("Challenge sequence: %v", seq)

		for _, name := range seq {
			p, ok := dirs[name]
			if !ok {
				logging.Warn("No calibrated button for %s, skipping", name)
				continue
			}
			if err := d.gestures.Tap(p); err != nil {
				return err
			}
		}
		return nil
	}
}

// promptIcon is one direction icon found in the challenge prompt.
type promptIcon struct {
	at   data.Point
	name string
}

// readSequence captures the prompt in the top half of the window and returns
// the icon names from left to right.
func (d *Dispatcher) readSequence() ([]string, error) {
	region := d.window.TopHalf()
	img, err := d.capture.Capture(region)
	if err != nil {
		return nil, fmt.Errorf("failed to capture challenge prompt: %w", err)
	}
	scene, err := d.matcher.Open(img)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare challenge prompt: %w", err)
	}
	defer scene.Close()

	var icons []promptIcon
	for _, id := range vision.DirectionIDs {
		hits, err := scene.LocateAll(id, d.threshold)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", id, err)
		}
		for _, p := range data.NewPointCloud(hits...).Cluster(d.clusterRadius) {
			icons = append(icons, promptIcon{at: p, name: id.Name()})
		}
	}

	sort.SliceStable(icons, func(i, j int) bool {
		return icons[i].at.X < icons[j].at.X
	})

	seq := make([]string, len(icons))
	for i, icon := range icons {
		seq[i] = icon.name
	}
	return seq, nil
}

func (d *Dispatcher) onRoundEnded(ctx context.Context) func() error {
	return func() error {
		retry, err := d.cal.Ensure(ctx, FieldRetry)
		if err != nil {
			return err
		}
		if err := d.gestures.Tap(retry); err != nil {
			return err
		}
		d.state.ArmAllExcept(RoundEnded)
		return nil
	}
}
