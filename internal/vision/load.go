package vision

import (
	"errors"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/vcaesar/imgo"

	"fish-bot/internal/logging"
)

// ErrResourceMissing is returned when a reference image cannot be read.
var ErrResourceMissing = errors.New("reference image missing")

// scaleTolerance below which templates are used as cut.
const scaleTolerance = 0.01

// TemplateSet holds every decoded reference image, already scaled to the
// live window.
type TemplateSet struct {
	dir    string
	scale  float64
	images [templateCount]image.Image
}

// ScaleFor returns the factor that maps reference images cut from a window
// referenceWidth pixels wide onto a window windowWidth pixels wide.
func ScaleFor(windowWidth, referenceWidth int) float64 {
	if windowWidth <= 0 || referenceWidth <= 0 {
		return 1
	}
	return float64(windowWidth) / float64(referenceWidth)
}

// LoadTemplates reads every catalogued image from dir.
//
// All files are checked before returning; the error names each one that is
// absent or undecodable and wraps ErrResourceMissing.
func LoadTemplates(dir string, scale float64) (*TemplateSet, error) {
	set := &TemplateSet{dir: dir, scale: scale}
	var missing []string

	for _, id := range AllTemplates() {
		path := filepath.Join(dir, id.FileName())
		img, err := imgo.Read(path)
		if err != nil {
			logging.Error("Cannot read template %s: %v", path, err)
			missing = append(missing, id.FileName())
			continue
		}
		set.images[id] = scaleImage(img, scale)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w in %s: %s", ErrResourceMissing, dir, strings.Join(missing, ", "))
	}

	if math.Abs(scale-1) > scaleTolerance {
		logging.Info("Loaded %d templates from %s (scaled x%.3f)", templateCount, dir, scale)
	} else {
		logging.Info("Loaded %d templates from %s", templateCount, dir)
	}
	return set, nil
}

func scaleImage(img image.Image, scale float64) image.Image {
	if math.Abs(scale-1) <= scaleTolerance || scale <= 0 {
		return img
	}
	w := uint(math.Max(1, math.Round(float64(img.Bounds().Dx())*scale)))
	return resize.Resize(w, 0, img, resize.Bicubic)
}

// Image returns the reference image for id.
func (s *TemplateSet) Image(id TemplateID) image.Image {
	if id < 0 || id >= templateCount {
		return nil
	}
	return s.images[id]
}

// Size returns the dimensions of the reference image for id.
func (s *TemplateSet) Size(id TemplateID) (int, int) {
	img := s.Image(id)
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

// Scale returns the factor the images were resized by.
func (s *TemplateSet) Scale() float64 {
	return s.scale
}

// Dir returns the folder the images were read from.
func (s *TemplateSet) Dir() string {
	return s.dir
}
