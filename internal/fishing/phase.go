// Package fishing - phase.go
//
// The fishing automation core: a perception-driven state machine over the
// screens of the fishing mini-game.
//
// Components:
//   - Classifier (cues.go): template tests turning a capture into a cue set
//   - Engine (engine.go): the transition table, advancing the current phase
//   - Calibrator (calibrator.go): lazy, persisted screen coordinates
//   - Dispatcher (dispatcher.go): the per-phase mouse actions
//   - Session (session.go): the perception and action loops
//
// Phase Cycle:
//
//	AwaitingStart -> RodCast -> PreCatch -> ActiveFishing -> RoundEnded -> RodCast ...
//	                    |  ^                     |               ^
//	                    v  |                     v               |
//	               BaitDepleted           TimedChallenge --------+
//
// Terminated is entered only when the session is cancelled.
//
// Concurrency:
// The perception loop is the only goroutine that moves the phase. The action
// loop reads it and clears the one-shot flags. Both go through State.
package fishing

import "sync"

// Phase is the game screen the bot believes is showing.
type Phase int

const (
	AwaitingStart Phase = iota
	RodCast
	BaitDepleted
	PreCatch
	ActiveFishing
	TimedChallenge
	RoundEnded
	Terminated
	phaseCount
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case AwaitingStart:
		return "AwaitingStart"
	case RodCast:
		return "RodCast"
	case BaitDepleted:
		return "BaitDepleted"
	case PreCatch:
		return "PreCatch"
	case ActiveFishing:
		return "ActiveFishing"
	case TimedChallenge:
		return "TimedChallenge"
	case RoundEnded:
		return "RoundEnded"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// State is the shared phase container.
//
// Besides the current phase it keeps one "first tick" flag per phase. A flag
// is armed whenever its phase is entered and cleared by the dispatcher once
// the phase's one-shot action has run; only the current phase's flag means
// anything.
type State struct {
	mu    sync.Mutex
	phase Phase
	first [phaseCount]bool
	done  chan struct{}
}

// NewState returns a state in AwaitingStart with every flag armed.
func NewState() *State {
	s := &State{phase: AwaitingStart, done: make(chan struct{})}
	for i := range s.first {
		s.first[i] = true
	}
	return s
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// advance moves from -> to and arms to's flag. It refuses when the phase is
// no longer from, which only happens if the run was terminated meanwhile.
func (s *State) advance(from, to Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != from || s.phase == Terminated {
		return false
	}
	s.phase = to
	s.first[to] = true
	return true
}

// Terminate enters the terminal phase. Safe to call more than once.
func (s *State) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Terminated {
		return
	}
	s.phase = Terminated
	close(s.done)
}

// Done is closed once the state is terminated.
func (s *State) Done() <-chan struct{} {
	return s.done
}

// FirstTick reports whether p's one-shot action is still pending.
func (s *State) FirstTick(p Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.first[p]
}

// Clear marks p's one-shot action as done.
func (s *State) Clear(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.first[p] = false
}

// Arm makes p's one-shot action run again on its next tick.
func (s *State) Arm(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.first[p] = true
}

// ArmAllExcept arms every flag but p's.
func (s *State) ArmAllExcept(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.first {
		s.first[i] = Phase(i) != p
	}
}
