// Package data - data.go
//
// Core value types shared by perception, calibration and input.
//
// Geometric Types:
//   - Point: absolute or window-relative screen coordinate
//   - Bounds: rectangle in screen space (the game window, or a half of it)
//   - PointCloud: match locations that can be clustered into distinct icons
//
// Colour:
//   - Color: RGB triple sampled from a single screen pixel
//
// Layout (layout.go):
//   - Layout: every calibrated coordinate and baseline colour, persisted to config
//
// All types are plain values and can be copied freely; PointCloud is the
// only one that owns a slice.
package data

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Point represents a 2D coordinate in screen space.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// NewPoint creates a new Point
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p shifted by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// String formats the point as (x, y)
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Bounds represents a rectangular area
type Bounds struct {
	X int `yaml:"x"` // Top-left X coordinate
	Y int `yaml:"y"` // Top-left Y coordinate
	W int `yaml:"w"` // Width
	H int `yaml:"h"` // Height
}

// NewBounds creates a new Bounds
func NewBounds(x, y, w, h int) Bounds {
	return Bounds{X: x, Y: y, W: w, H: h}
}

// Origin returns the top-left corner.
func (b Bounds) Origin() Point {
	return Point{X: b.X, Y: b.Y}
}

// Center returns the center point of the bounds
func (b Bounds) Center() Point {
	return Point{
		X: b.X + b.W/2,
		Y: b.Y + b.H/2,
	}
}

// TopHalf returns the upper half of the bounds, where the challenge
// sequence prompt is drawn.
func (b Bounds) TopHalf() Bounds {
	return Bounds{X: b.X, Y: b.Y, W: b.W, H: b.H / 2}
}

// BottomHalf returns the lower half of the bounds, where the direction
// buttons sit. Together with TopHalf it covers b exactly.
func (b Bounds) BottomHalf() Bounds {
	top := b.H / 2
	return Bounds{X: b.X, Y: b.Y + top, W: b.W, H: b.H - top}
}

// Empty reports whether the bounds cover no pixels.
func (b Bounds) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Contains checks if a point is within the bounds
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.X+b.W &&
		p.Y >= b.Y && p.Y < b.Y+b.H
}

// Rectangle converts the bounds to an image.Rectangle.
func (b Bounds) Rectangle() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// String formats the bounds as x,y wxh
func (b Bounds) String() string {
	return fmt.Sprintf("%d,%d %dx%d", b.X, b.Y, b.W, b.H)
}

// Color represents an RGB color
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// NewColor creates a new Color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ParseHex parses a colour in "rrggbb" or "#rrggbb" form.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex formats the colour as rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
