package platform

import (
	"fmt"
	"image"
	"sync"

	"github.com/kbinani/screenshot"

	"fish-bot/internal/data"
)

// Screen grabs regions of the desktop.
//
// The last frame is kept so a run that stops on an error can save what the
// bot was looking at.
type Screen struct {
	mu        sync.RWMutex
	lastImage *image.RGBA
	lastArea  data.Bounds
}

// NewScreen creates a screen capturer.
func NewScreen() *Screen {
	return &Screen{}
}

// Capture grabs region in absolute screen coordinates. The returned image's
// bounds start at (0, 0).
func (s *Screen) Capture(region data.Bounds) (image.Image, error) {
	if region.Empty() {
		return nil, fmt.Errorf("cannot capture empty region %s", region)
	}
	img, err := screenshot.CaptureRect(region.Rectangle())
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", region, err)
	}

	s.remember(img, region)
	return img, nil
}

func (s *Screen) remember(img *image.RGBA, region data.Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastImage = img
	s.lastArea = region
}

// LastImage returns the most recent capture and where it was taken, or nil
// before the first capture.
func (s *Screen) LastImage() (*image.RGBA, data.Bounds) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastImage, s.lastArea
}
