package platform

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-vgo/robotgo"

	"fish-bot/internal/data"
	"fish-bot/internal/logging"
)

// dragSteps is how many intermediate moves a drag is split into.
const dragSteps = 10

// ActionLog is one recorded mouse action, kept for the tray status line.
type ActionLog struct {
	Message   string
	Timestamp time.Time
}

// pointer is the part of robotgo the mouse drives.
type pointer interface {
	Move(x, y int)
	Toggle(down bool) error
	Click()
	PixelHex(x, y int) string
}

type robotPointer struct{}

func (robotPointer) Move(x, y int) { robotgo.Move(x, y) }

func (robotPointer) Toggle(down bool) error {
	if down {
		return robotgo.Toggle("left")
	}
	return robotgo.Toggle("left", "up")
}

func (robotPointer) Click() { robotgo.Click("left", false) }

func (robotPointer) PixelHex(x, y int) string { return robotgo.GetPixelColor(x, y) }

// Mouse injects native mouse events through robotgo.
//
// robotgo's own per-call pause is switched off so a drag lasts only as long
// as requested. Instead every Click and Drag is followed by one pause, read
// from pause on each call so a reloaded click interval applies at once.
type Mouse struct {
	mu         sync.Mutex
	ptr        pointer
	sleep      func(time.Duration)
	pause      func() time.Duration
	actionLogs []ActionLog
}

// NewMouse creates a mouse controller.
//
// Parameters:
//   - pause: Returns the pause to hold after each click or drag, usually
//     half the configured click interval
func NewMouse(pause func() time.Duration) *Mouse {
	robotgo.MouseSleep = 0
	return newMouse(robotPointer{}, time.Sleep, pause)
}

func newMouse(ptr pointer, sleep func(time.Duration), pause func() time.Duration) *Mouse {
	return &Mouse{
		ptr:        ptr,
		sleep:      sleep,
		pause:      pause,
		actionLogs: make([]ActionLog, 0, 10),
	}
}

// Click moves to p and presses the left button once.
func (m *Mouse) Click(p data.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ptr.Move(p.X, p.Y)
	m.ptr.Click()
	m.record(fmt.Sprintf("Click %s", p))
	m.rest()
	return nil
}

// Drag presses at from, moves by (dx, dy) over d, and releases.
//
// The path is a straight line split into dragSteps moves so the game sees a
// swipe rather than a teleport.
func (m *Mouse) Drag(from data.Point, dx, dy int, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ptr.Move(from.X, from.Y)
	if err := m.ptr.Toggle(true); err != nil {
		return fmt.Errorf("failed to press at %s: %w", from, err)
	}

	step := d / dragSteps
	for i := 1; i <= dragSteps; i++ {
		m.ptr.Move(from.X+dx*i/dragSteps, from.Y+dy*i/dragSteps)
		if step > 0 {
			m.sleep(step)
		}
	}

	if err := m.ptr.Toggle(false); err != nil {
		return fmt.Errorf("failed to release at %s: %w", from.Add(dx, dy), err)
	}
	m.record(fmt.Sprintf("Drag %s by (%d, %d)", from, dx, dy))
	m.rest()
	return nil
}

// PixelColor reads the screen colour at p.
func (m *Mouse) PixelColor(p data.Point) (data.Color, error) {
	c, err := data.ParseHex(m.ptr.PixelHex(p.X, p.Y))
	if err != nil {
		return data.Color{}, fmt.Errorf("failed to read pixel at %s: %w", p, err)
	}
	return c, nil
}

// rest holds the post-action pause. Caller holds m.mu.
func (m *Mouse) rest() {
	if m.pause == nil {
		return
	}
	if d := m.pause(); d > 0 {
		m.sleep(d)
	}
}

// record logs an action, keeping the last 10. Caller holds m.mu.
func (m *Mouse) record(message string) {
	logging.Debug("%s", message)

	m.actionLogs = append(m.actionLogs, ActionLog{Message: message, Timestamp: time.Now()})
	if len(m.actionLogs) > 10 {
		m.actionLogs = m.actionLogs[len(m.actionLogs)-10:]
	}
}

// RecentActions returns a copy of the recorded actions, oldest first.
func (m *Mouse) RecentActions() []ActionLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ActionLog(nil), m.actionLogs...)
}
