package fishing

import (
	"fmt"
	"strings"

	"fish-bot/internal/vision"
)

// Cue is one boolean observation about the current screen.
type Cue uint8

const (
	CueCastRod        Cue = 1 << iota // cast prompt visible
	CueNoBait                         // bait-use button visible
	CueCatchFish                      // bite timer visible
	CueActiveFishing                  // tension gauge visible
	CueTimedChallenge                 // direction challenge visible
	CueRoundEnd                       // result screen visible
)

// Cues is a set of cues.
type Cues uint8

// AllCues selects every cue.
const AllCues = Cues(CueCastRod | CueNoBait | CueCatchFish | CueActiveFishing | CueTimedChallenge | CueRoundEnd)

// cueOrder fixes the evaluation and printing order.
var cueOrder = []Cue{CueCastRod, CueNoBait, CueCatchFish, CueActiveFishing, CueTimedChallenge, CueRoundEnd}

// cueMarkers maps each cue to the reference image that proves it.
var cueMarkers = map[Cue]vision.TemplateID{
	CueCastRod:        vision.CastMarker,
	CueNoBait:         vision.UseButton,
	CueCatchFish:      vision.CatchMarker,
	CueActiveFishing:  vision.PressureGauge,
	CueTimedChallenge: vision.DirUp,
	CueRoundEnd:       vision.RetryButton,
}

// Of builds a cue set.
func Of(cues ...Cue) Cues {
	var s Cues
	for _, c := range cues {
		s |= Cues(c)
	}
	return s
}

// Has reports whether c is in the set.
func (s Cues) Has(c Cue) bool {
	return s&Cues(c) != 0
}

// String implements fmt.Stringer
func (c Cue) String() string {
	switch c {
	case CueCastRod:
		return "cast-rod"
	case CueNoBait:
		return "no-bait"
	case CueCatchFish:
		return "catch-fish"
	case CueActiveFishing:
		return "active-fishing"
	case CueTimedChallenge:
		return "timed-challenge"
	case CueRoundEnd:
		return "round-end"
	default:
		return fmt.Sprintf("cue(%d)", uint8(c))
	}
}

// String lists the cues in the set.
func (s Cues) String() string {
	var names []string
	for _, c := range cueOrder {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Classifier turns a capture into cues. It has no side effects.
type Classifier struct {
	Threshold float64
}

// Classify tests the markers of every cue in want and returns those present.
func (c Classifier) Classify(scene vision.Scene, want Cues) (Cues, error) {
	var found Cues
	for _, cue := range cueOrder {
		if !want.Has(cue) {
			continue
		}
		id := cueMarkers[cue]
		ok, err := scene.Match(id, c.Threshold)
		if err != nil {
			return 0, fmt.Errorf("failed to match %s: %w", id, err)
		}
		if ok {
			found |= Cues(cue)
		}
	}
	return found, nil
}
