package fishing

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"fish-bot/internal/data"
	"fish-bot/internal/logging"
)

// Deps are the session's external collaborators.
type Deps struct {
	Capture Capturer
	Matcher Matcher
	Input   Input
	Store   LayoutStore
	Tuning  Tuning
	Clock   Clock // defaults to SystemClock
}

// Options configure a session.
type Options struct {
	Window        data.Bounds // absolute screen area of the game
	Layout        data.Layout // previously persisted calibration
	Threshold     float64
	ClusterRadius int
	SnapshotDir   string // empty disables calibration snapshots
}

// Session is one automation run: a perception loop that classifies the
// screen and moves the phase, and an action loop that acts on it.
type Session struct {
	state      *State
	engine     *Engine
	classifier Classifier
	calibrator *Calibrator
	dispatcher *Dispatcher

	capture Capturer
	matcher Matcher
	tuning  Tuning
	clock   Clock
	window  data.Bounds

	rounds atomic.Int64
}

// NewSession wires a session. Nothing touches the screen until Run.
func NewSession(deps Deps, opts Options) *Session {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	state := NewState()

	cal := NewCalibrator(opts.Layout, opts.Window, deps.Capture, deps.Matcher, deps.Input, deps.Store, opts.Threshold)
	cal.SnapshotDir = opts.SnapshotDir

	s := &Session{
		state:      state,
		engine:     NewEngine(state, clock, deps.Tuning),
		classifier: Classifier{Threshold: opts.Threshold},
		calibrator: cal,
		dispatcher: NewDispatcher(DispatcherConfig{
			State:         state,
			Calibrator:    cal,
			Input:         deps.Input,
			Capture:       deps.Capture,
			Matcher:       deps.Matcher,
			Tuning:        deps.Tuning,
			Clock:         clock,
			Window:        opts.Window,
			Threshold:     opts.Threshold,
			ClusterRadius: opts.ClusterRadius,
		}),
		capture: deps.Capture,
		matcher: deps.Matcher,
		tuning:  deps.Tuning,
		clock:   clock,
		window:  opts.Window,
	}

	s.engine.OnTransition(func(from, to Phase) {
		if to == RoundEnded {
			n := s.rounds.Add(1)
			logging.Info("Round %d finished", n)
		}
	})
	return s
}

// OnTransition registers fn for every phase change.
func (s *Session) OnTransition(fn Listener) {
	s.engine.OnTransition(fn)
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.state.Phase()
}

// Rounds returns how many rounds reached the result screen.
func (s *Session) Rounds() int {
	return int(s.rounds.Load())
}

// Layout returns the calibrated layout so far.
func (s *Session) Layout() data.Layout {
	return s.calibrator.Layout()
}

// Run blocks until ctx is cancelled or a loop fails, then persists the
// layout. Cancellation is a clean stop and returns nil.
func (s *Session) Run(ctx context.Context) error {
	logging.Info("Session started on %s", s.window)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer s.state.Terminate()
		return guard("perception", func() error { return s.perceive(gctx) })
	})
	g.Go(func() error {
		return guard("action", func() error { return s.act(gctx) })
	})

	err := g.Wait()
	s.state.Terminate()
	if err != nil {
		logging.Error("Session failed: %v", err)
	}

	if flushErr := s.calibrator.Flush(); flushErr != nil {
		logging.Error("Final layout save failed: %v", flushErr)
		err = errors.Join(err, flushErr)
	}
	logging.Info("Session stopped after %d rounds", s.Rounds())
	return err
}

// perceive is the perception loop. It is the only writer of the phase.
func (s *Session) perceive(ctx context.Context) error {
	for ctx.Err() == nil {
		if err := s.observe(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if tick := s.tuning.Timing().PerceptionTick; tick > 0 {
			s.clock.Sleep(ctx, tick)
		}
	}
	return nil
}

// observe runs one perception tick.
func (s *Session) observe(ctx context.Context) error {
	phase := s.state.Phase()
	want := Relevant(phase)
	if want == 0 {
		return nil
	}

	img, err := s.capture.Capture(s.window)
	if err != nil {
		return fmt.Errorf("failed to capture window: %w", err)
	}
	scene, err := s.matcher.Open(img)
	if err != nil {
		return fmt.Errorf("failed to prepare capture: %w", err)
	}
	cues, err := s.classifier.Classify(scene, want)
	scene.Close()
	if err != nil {
		return fmt.Errorf("failed to classify %s screen: %w", phase, err)
	}

	_, err = s.engine.Step(ctx, cues)
	return err
}

// act is the action loop. It stops once the phase is Terminated.
func (s *Session) act(ctx context.Context) error {
	for {
		phase := s.state.Phase()
		if phase == Terminated {
			return nil
		}
		if err := s.dispatcher.Dispatch(ctx, phase); err != nil {
			if ctx.Err() != nil {
				<-s.state.Done()
				return nil
			}
			return err
		}
		if err := s.clock.Sleep(ctx, s.tuning.Timing().ActionTick); err != nil {
			<-s.state.Done()
			return nil
		}
	}
}

// guard turns a panic inside fn into an error carrying the stack.
func guard(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Panic in %s loop: %v\n%s", name, r, debug.Stack())
			err = fmt.Errorf("%s loop panic: %v", name, r)
		}
	}()
	return fn()
}
