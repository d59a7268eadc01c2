package vision

import (
	"image"

	"fish-bot/internal/data"
)

// Match is the best location of a template inside a capture.
type Match struct {
	At    data.Point      // anchor point, relative to the capture's top-left
	Box   image.Rectangle // matched area, relative to the capture's top-left
	Score float64         // normalised correlation, 1 is a perfect match
}

// Scene is one capture prepared for template queries. All coordinates are
// relative to the capture. Close releases whatever the implementation holds.
type Scene interface {
	// Match reports whether any location scores at least threshold.
	Match(id TemplateID, threshold float64) (bool, error)
	// Locate returns the best-scoring location, at anchor inside the
	// template, whatever its score.
	Locate(id TemplateID, anchor Anchor) (Match, error)
	// LocateAll returns the top-left corner of every location scoring at
	// least threshold, in row-major order.
	LocateAll(id TemplateID, threshold float64) ([]data.Point, error)
	Close() error
}
