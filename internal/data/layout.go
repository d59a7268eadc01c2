package data

// Layout holds every screen coordinate the bot has calibrated, plus the
// baseline colours sampled right after calibration.
//
// A nil field means "not calibrated yet". Once set, a field is not
// recalibrated for the rest of the run.
type Layout struct {
	Start         *Point           `yaml:"start,omitempty"`
	Rod           *Point           `yaml:"rod,omitempty"`
	RodColor      *Color           `yaml:"rod_color,omitempty"`
	Pressure      *Point           `yaml:"pressure,omitempty"`
	PressureColor *Color           `yaml:"pressure_color,omitempty"`
	BaitButton    *Point           `yaml:"bait_button,omitempty"`
	RetryButton   *Point           `yaml:"retry_button,omitempty"`
	Directions    map[string]Point `yaml:"directions,omitempty"`
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (l Layout) Clone() Layout {
	out := Layout{
		Start:         clonePoint(l.Start),
		Rod:           clonePoint(l.Rod),
		RodColor:      cloneColor(l.RodColor),
		Pressure:      clonePoint(l.Pressure),
		PressureColor: cloneColor(l.PressureColor),
		BaitButton:    clonePoint(l.BaitButton),
		RetryButton:   clonePoint(l.RetryButton),
	}
	if l.Directions != nil {
		out.Directions = make(map[string]Point, len(l.Directions))
		for k, v := range l.Directions {
			out.Directions[k] = v
		}
	}
	return out
}

// Reset forgets calibrated fields so the next run measures them again.
func (l *Layout) Reset(keepDirections bool) {
	dirs := l.Directions
	*l = Layout{}
	if keepDirections {
		l.Directions = dirs
	}
}

// Calibrated counts the populated fields, the direction map counting as one.
func (l Layout) Calibrated() int {
	n := 0
	for _, p := range []*Point{l.Start, l.Rod, l.Pressure, l.BaitButton, l.RetryButton} {
		if p != nil {
			n++
		}
	}
	if len(l.Directions) > 0 {
		n++
	}
	return n
}

func clonePoint(p *Point) *Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneColor(c *Color) *Color {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
