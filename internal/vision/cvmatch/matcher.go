// Package cvmatch - matcher.go
//
// OpenCV-backed template matching for captured frames.
//
// Responsibilities:
//   - Convert the loaded template set to Mats once per run
//   - Wrap each capture as a vision.Scene answering match queries
//   - Normalized cross-correlation (TmCcoeffNormed), scores in [-1, 1]
//
// Template Mats are only read after construction, so one Matcher can serve
// the perception and action loops at the same time. Each Scene belongs to
// the goroutine that opened it.
package cvmatch

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"fish-bot/internal/data"
	"fish-bot/internal/vision"
)

// ErrTemplateTooLarge is returned when a template does not fit the capture.
var ErrTemplateTooLarge = errors.New("template larger than capture")

// Matcher holds one Mat per reference image.
type Matcher struct {
	templates map[vision.TemplateID]gocv.Mat
}

// New converts every image of set to a Mat.
func New(set *vision.TemplateSet) (*Matcher, error) {
	m := &Matcher{templates: make(map[vision.TemplateID]gocv.Mat)}
	for _, id := range vision.AllTemplates() {
		img := set.Image(id)
		if img == nil {
			m.Close()
			return nil, fmt.Errorf("template %s not loaded", id)
		}
		mat, err := gocv.ImageToMatRGB(img)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("failed to convert template %s: %w", id, err)
		}
		m.templates[id] = mat
	}
	return m, nil
}

// Open wraps a capture for querying. The caller must Close the scene.
func (m *Matcher) Open(img image.Image) (vision.Scene, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert capture: %w", err)
	}
	return &scene{m: m, mat: mat}, nil
}

// Close releases the template Mats.
func (m *Matcher) Close() error {
	for id, mat := range m.templates {
		mat.Close()
		delete(m.templates, id)
	}
	return nil
}

type scene struct {
	m   *Matcher
	mat gocv.Mat
}

// correlate runs the template over the scene. The returned result Mat must
// be closed by the caller.
func (s *scene) correlate(id vision.TemplateID) (gocv.Mat, gocv.Mat, error) {
	templ, ok := s.m.templates[id]
	if !ok {
		return gocv.Mat{}, gocv.Mat{}, fmt.Errorf("unknown template %s", id)
	}
	if templ.Rows() > s.mat.Rows() || templ.Cols() > s.mat.Cols() {
		return gocv.Mat{}, gocv.Mat{}, fmt.Errorf("%s is %dx%d, capture is %dx%d: %w",
			id, templ.Cols(), templ.Rows(), s.mat.Cols(), s.mat.Rows(), ErrTemplateTooLarge)
	}

	result := gocv.NewMat()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(s.mat, templ, &result, gocv.TmCcoeffNormed, mask)
	return result, templ, nil
}

// Match reports whether the best score for id reaches threshold. A template
// that cannot fit the capture is simply absent.
func (s *scene) Match(id vision.TemplateID, threshold float64) (bool, error) {
	result, _, err := s.correlate(id)
	if errors.Is(err, ErrTemplateTooLarge) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer result.Close()

	_, maxVal, _, _ := gocv.MinMaxLoc(result)
	return float64(maxVal) >= threshold, nil
}

// Locate returns the best match for id, offset by anchor inside the
// template.
func (s *scene) Locate(id vision.TemplateID, anchor vision.Anchor) (vision.Match, error) {
	result, templ, err := s.correlate(id)
	if err != nil {
		return vision.Match{}, err
	}
	defer result.Close()

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
	w, h := templ.Cols(), templ.Rows()
	dx, dy := anchor.Offset(w, h)
	return vision.Match{
		At:    data.NewPoint(maxLoc.X+dx, maxLoc.Y+dy),
		Box:   image.Rect(maxLoc.X, maxLoc.Y, maxLoc.X+w, maxLoc.Y+h),
		Score: float64(maxVal),
	}, nil
}

// LocateAll returns the top-left corner of every placement scoring at least
// threshold, in row-major order.
func (s *scene) LocateAll(id vision.TemplateID, threshold float64) ([]data.Point, error) {
	result, _, err := s.correlate(id)
	if errors.Is(err, ErrTemplateTooLarge) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer result.Close()

	scores, err := result.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read scores for %s: %w", id, err)
	}
	return hitsAbove(scores, result.Cols(), float32(threshold)), nil
}

// hitsAbove turns a row-major score grid into the cells scoring at least t.
func hitsAbove(scores []float32, cols int, t float32) []data.Point {
	if cols <= 0 {
		return nil
	}
	var hits []data.Point
	for i, v := range scores {
		if v >= t {
			hits = append(hits, data.NewPoint(i%cols, i/cols))
		}
	}
	return hits
}

func (s *scene) Close() error {
	return s.mat.Close()
}
