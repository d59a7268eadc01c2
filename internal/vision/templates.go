// Package vision - templates.go
//
// Reference-image catalogue and the pure-Go half of template matching.
//
// Responsibilities:
//   - Name every reference image the bot matches against (TemplateID)
//   - Load them all up front so a missing file fails the run before any input
//   - Rescale them when the game window is not the size they were cut at
//   - Anchor arithmetic: turn a best-match corner into a click point
//   - Annotated snapshots of captures for offline debugging (snapshot.go)
//
// The matching itself needs OpenCV and lives in vision/cvmatch; nothing in
// this package links against cgo.
package vision

import (
	"fmt"
	"math"
)

// TemplateID identifies one reference image.
type TemplateID int

const (
	StartButton TemplateID = iota // "start fishing" control, later reused as the reel button
	CastMarker                    // shown while the rod can be cast
	UseButton                     // bait-use button, shown when out of bait
	CatchMarker                   // bite timer, shown before the hook
	PressureGauge                 // line-tension gauge, shown while reeling
	RodHandle                     // rod handle, its colour changes when the fish pulls
	RetryButton                   // "again" button on the result screen
	DirUp
	DirLeft
	DirDown
	DirRight
	DirWind
	DirFire
	DirRay
	DirElectricity
	templateCount
)

var templateFiles = [templateCount]string{
	StartButton:    "start_fish.png",
	CastMarker:     "huaner.png",
	UseButton:      "use_button.png",
	CatchMarker:    "time.png",
	PressureGauge:  "guogao.png",
	RodHandle:      "push_gan_button.png",
	RetryButton:    "again_button.png",
	DirUp:          "01_up.png",
	DirLeft:        "02_left.png",
	DirDown:        "03_un.png",
	DirRight:       "04_right.png",
	DirWind:        "05_wind.png",
	DirFire:        "06_fire.png",
	DirRay:         "07_ray.png",
	DirElectricity: "08_electricity.png",
}

// DirectionIDs lists the challenge icons in catalogue order.
var DirectionIDs = []TemplateID{
	DirUp, DirLeft, DirDown, DirRight, DirWind, DirFire, DirRay, DirElectricity,
}

// AllTemplates lists every catalogued template.
func AllTemplates() []TemplateID {
	ids := make([]TemplateID, 0, templateCount)
	for id := TemplateID(0); id < templateCount; id++ {
		ids = append(ids, id)
	}
	return ids
}

// FileName returns the reference image's file name inside the image folder.
func (id TemplateID) FileName() string {
	if id < 0 || id >= templateCount {
		return ""
	}
	return templateFiles[id]
}

// Name returns the file name without extension. Direction icons are keyed
// by this name in the persisted layout.
func (id TemplateID) Name() string {
	f := id.FileName()
	if len(f) > 4 {
		return f[:len(f)-4]
	}
	return fmt.Sprintf("template(%d)", int(id))
}

// String implements fmt.Stringer
func (id TemplateID) String() string {
	return id.Name()
}

// IsDirection reports whether id is one of the challenge icons.
func (id TemplateID) IsDirection() bool {
	return id >= DirUp && id <= DirElectricity
}

// Anchor is a position inside a matched template, as fractions of its width
// and height. (0,0) is the top-left corner, (1,1) the bottom-right.
type Anchor struct {
	X float64
	Y float64
}

// Center is the default anchor.
var Center = Anchor{X: 0.5, Y: 0.5}

// Clamp restricts both components to [0,1]. The boolean reports whether
// anything was changed.
func (a Anchor) Clamp() (Anchor, bool) {
	c := Anchor{
		X: math.Max(0, math.Min(1, a.X)),
		Y: math.Max(0, math.Min(1, a.Y)),
	}
	return c, c != a
}

// Offset returns the pixel offset of the anchor inside a w×h template,
// truncated toward zero.
func (a Anchor) Offset(w, h int) (int, int) {
	return int(float64(w) * a.X), int(float64(h) * a.Y)
}
