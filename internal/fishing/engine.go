package fishing

import (
	"context"
	"sync"

	"fish-bot/internal/logging"
)

// rule is one row of the transition table: when cue's presence equals
// present, move to the destination.
type rule struct {
	cue     Cue
	present bool
	to      Phase
	settle  bool // wait for the settle delay before publishing the new phase
}

// transitions lists the outgoing rules of each phase in priority order. At
// most one rule fires per tick.
var transitions = map[Phase][]rule{
	AwaitingStart: {
		{cue: CueCastRod, present: true, to: RodCast},
	},
	RodCast: {
		{cue: CueNoBait, present: true, to: BaitDepleted},
		{cue: CueCatchFish, present: true, to: PreCatch},
	},
	BaitDepleted: {
		{cue: CueNoBait, present: false, to: RodCast},
	},
	PreCatch: {
		// The reel screen is drawn before its widgets reset.
		{cue: CueActiveFishing, present: true, to: ActiveFishing, settle: true},
	},
	ActiveFishing: {
		{cue: CueRoundEnd, present: true, to: RoundEnded},
		{cue: CueTimedChallenge, present: true, to: TimedChallenge},
	},
	TimedChallenge: {
		{cue: CueRoundEnd, present: true, to: RoundEnded},
	},
	RoundEnded: {
		{cue: CueCastRod, present: true, to: RodCast},
	},
}

// Relevant returns the cues p's rules look at. Other markers need not be
// tested while in p.
func Relevant(p Phase) Cues {
	var s Cues
	for _, r := range transitions[p] {
		s |= Cues(r.cue)
	}
	return s
}

// Next applies the table to one cue set and returns the destination, which
// is p itself when no rule fires.
func Next(p Phase, cues Cues) Phase {
	if r, ok := match(p, cues); ok {
		return r.to
	}
	return p
}

func match(p Phase, cues Cues) (rule, bool) {
	for _, r := range transitions[p] {
		if cues.Has(r.cue) == r.present {
			return r, true
		}
	}
	return rule{}, false
}

// Listener is told about every phase change.
type Listener func(from, to Phase)

// Engine advances the shared state from classified cues.
type Engine struct {
	state  *State
	clock  Clock
	tuning Tuning

	mu        sync.Mutex
	listeners []Listener
}

// NewEngine creates an engine driving state.
func NewEngine(state *State, clock Clock, tuning Tuning) *Engine {
	return &Engine{state: state, clock: clock, tuning: tuning}
}

// OnTransition registers fn to be called after each phase change, from the
// perception goroutine.
func (e *Engine) OnTransition(fn Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Step applies one perception tick. It returns the phase after the tick.
//
// For transitions that need the game to settle, Step blocks for the settle
// delay before publishing; cancellation during the wait returns ctx's error
// and leaves the phase unchanged.
func (e *Engine) Step(ctx context.Context, cues Cues) (Phase, error) {
	from := e.state.Phase()
	if from == Terminated {
		return from, nil
	}

	r, ok := match(from, cues)
	if !ok {
		return from, nil
	}
	to := r.to

	if r.settle {
		delay := e.tuning.Timing().SettleDelay
		logging.Debug("%s -> %s: waiting %v for the screen to settle", from, to, delay)
		if err := e.clock.Sleep(ctx, delay); err != nil {
			return from, err
		}
	}

	if !e.state.advance(from, to) {
		return e.state.Phase(), nil
	}
	logging.Info("Phase changed: %s -> %s (cues %s)", from, to, cues)

	e.mu.Lock()
	listeners := append([]Listener(nil), e.listeners...)
	e.mu.Unlock()
	for _, fn := range listeners {
		fn(from, to)
	}
	return to, nil
}
