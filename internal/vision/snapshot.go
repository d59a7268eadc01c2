package vision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"time"

	"github.com/vcaesar/imgo"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Mark is one labelled box drawn onto a snapshot.
type Mark struct {
	Label string
	Box   image.Rectangle
	Color color.RGBA
}

// Common mark colours.
var (
	MarkHit  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	MarkMiss = color.RGBA{R: 255, G: 64, B: 64, A: 255}
)

// Annotate copies img and draws every mark on the copy.
func Annotate(img image.Image, marks []Mark) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for _, m := range marks {
		box := m.Box.Add(bounds.Min)
		drawRect(result, box, m.Color, 2)
		if m.Label != "" {
			drawLabel(result, box.Min.X, box.Min.Y-3, m.Label, m.Color)
		}
	}
	return result
}

// drawRect draws a rectangle outline, clipped to the image.
func drawRect(img *image.RGBA, r image.Rectangle, col color.RGBA, thickness int) {
	clip := img.Bounds()
	for t := 0; t < thickness; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			setClipped(img, clip, x, r.Min.Y+t, col)
			setClipped(img, clip, x, r.Max.Y-1-t, col)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			setClipped(img, clip, r.Min.X+t, y, col)
			setClipped(img, clip, r.Max.X-1-t, y, col)
		}
	}
}

func setClipped(img *image.RGBA, clip image.Rectangle, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(clip) {
		img.SetRGBA(x, y, col)
	}
}

// drawLabel writes text with its baseline at (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, col color.RGBA) {
	if y < basicfont.Face7x13.Ascent {
		y = basicfont.Face7x13.Ascent
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// SaveImage writes img to path, creating parent folders as needed.
func SaveImage(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := imgo.Save(path, img); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// SaveSnapshot annotates img and writes it to dir under a timestamped name
// built from tag. It returns the written path.
func SaveSnapshot(dir, tag string, img image.Image, marks []Mark) (string, error) {
	name := fmt.Sprintf("%s_%s.png", time.Now().Format("20060102_150405.000"), tag)
	path := filepath.Join(dir, name)
	if err := SaveImage(path, Annotate(img, marks)); err != nil {
		return "", err
	}
	return path, nil
}
