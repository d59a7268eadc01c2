package fishing

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"fish-bot/internal/config"
	"fish-bot/internal/data"
	"fish-bot/internal/vision"
)

// Template size used by the fake scene for every reference image.
const (
	fakeTemplateW = 20
	fakeTemplateH = 10
)

type drag struct {
	From   data.Point
	DX, DY int
	D      time.Duration
}

// fakeGame is a scripted screen plus mouse. Visible templates drive
// classification; locations (absolute top-left corners) drive Locate and
// LocateAll; pixels drive PixelColor.
type fakeGame struct {
	mu        sync.Mutex
	visible   map[vision.TemplateID]bool
	locations map[vision.TemplateID][]data.Point
	pixels    map[data.Point]data.Color

	captures []data.Bounds
	clicks   []data.Point
	drags    []drag
	log      []string

	captureErr error
	onClick    func(g *fakeGame, p data.Point)
	onDrag     func(g *fakeGame, d drag)
}

func newFakeGame() *fakeGame {
	return &fakeGame{
		visible:   map[vision.TemplateID]bool{},
		locations: map[vision.TemplateID][]data.Point{},
		pixels:    map[data.Point]data.Color{},
	}
}

// show makes id visible. Must be called with g.mu held or before the game
// is shared.
func (g *fakeGame) show(ids ...vision.TemplateID) {
	for _, id := range ids {
		g.visible[id] = true
	}
}

func (g *fakeGame) hide(ids ...vision.TemplateID) {
	for _, id := range ids {
		delete(g.visible, id)
	}
}

// Set replaces the visible set under the lock.
func (g *fakeGame) Set(ids ...vision.TemplateID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.visible = map[vision.TemplateID]bool{}
	g.show(ids...)
}

func (g *fakeGame) place(id vision.TemplateID, pts ...data.Point) {
	g.locations[id] = append(g.locations[id], pts...)
}

type fakeFrame struct {
	*image.RGBA
	region    data.Bounds
	visible   map[vision.TemplateID]bool
	locations map[vision.TemplateID][]data.Point
}

func (g *fakeGame) Capture(region data.Bounds) (image.Image, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.captureErr != nil {
		return nil, g.captureErr
	}
	g.captures = append(g.captures, region)

	f := &fakeFrame{
		RGBA:      image.NewRGBA(image.Rect(0, 0, 4, 4)),
		region:    region,
		visible:   map[vision.TemplateID]bool{},
		locations: map[vision.TemplateID][]data.Point{},
	}
	for k, v := range g.visible {
		f.visible[k] = v
	}
	for k, v := range g.locations {
		f.locations[k] = append([]data.Point(nil), v...)
	}
	return f, nil
}

func (g *fakeGame) Open(img image.Image) (vision.Scene, error) {
	f, ok := img.(*fakeFrame)
	if !ok {
		return nil, errors.New("not a fake frame")
	}
	return &fakeScene{frame: f}, nil
}

func (g *fakeGame) Click(p data.Point) error {
	g.mu.Lock()
	g.clicks = append(g.clicks, p)
	g.log = append(g.log, fmt.Sprintf("click %s", p))
	hook := g.onClick
	if hook != nil {
		hook(g, p)
	}
	g.mu.Unlock()
	return nil
}

func (g *fakeGame) Drag(from data.Point, dx, dy int, d time.Duration) error {
	g.mu.Lock()
	dr := drag{From: from, DX: dx, DY: dy, D: d}
	g.drags = append(g.drags, dr)
	g.log = append(g.log, fmt.Sprintf("drag %s %d,%d", from, dx, dy))
	hook := g.onDrag
	if hook != nil {
		hook(g, dr)
	}
	g.mu.Unlock()
	return nil
}

func (g *fakeGame) PixelColor(p data.Point) (data.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pixels[p], nil
}

func (g *fakeGame) setPixel(p data.Point, c data.Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pixels[p] = c
}

func (g *fakeGame) Clicks() []data.Point {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]data.Point(nil), g.clicks...)
}

func (g *fakeGame) Drags() []drag {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]drag(nil), g.drags...)
}

func (g *fakeGame) Captures() []data.Bounds {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]data.Bounds(nil), g.captures...)
}

type fakeScene struct {
	frame  *fakeFrame
	closed bool
}

// inRegion returns id's locations inside the frame, relative to it.
func (s *fakeScene) inRegion(id vision.TemplateID) []data.Point {
	var out []data.Point
	for _, p := range s.frame.locations[id] {
		if s.frame.region.Contains(p) {
			out = append(out, p.Add(-s.frame.region.X, -s.frame.region.Y))
		}
	}
	return out
}

func (s *fakeScene) Match(id vision.TemplateID, threshold float64) (bool, error) {
	return s.frame.visible[id], nil
}

func (s *fakeScene) Locate(id vision.TemplateID, anchor vision.Anchor) (vision.Match, error) {
	dx, dy := anchor.Offset(fakeTemplateW, fakeTemplateH)
	pts := s.inRegion(id)
	if len(pts) == 0 {
		return vision.Match{At: data.NewPoint(dx, dy), Box: image.Rect(0, 0, fakeTemplateW, fakeTemplateH), Score: 0.1}, nil
	}
	p := pts[0]
	return vision.Match{
		At:    p.Add(dx, dy),
		Box:   image.Rect(p.X, p.Y, p.X+fakeTemplateW, p.Y+fakeTemplateH),
		Score: 0.95,
	}, nil
}

func (s *fakeScene) LocateAll(id vision.TemplateID, threshold float64) ([]data.Point, error) {
	return s.inRegion(id), nil
}

func (s *fakeScene) Close() error {
	s.closed = true
	return nil
}

type fakeStore struct {
	mu    sync.Mutex
	saves []data.Layout
	err   error
}

func (s *fakeStore) SaveLayout(l data.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saves = append(s.saves, l.Clone())
	return nil
}

func (s *fakeStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

func (s *fakeStore) Last() data.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saves) == 0 {
		return data.Layout{}
	}
	return s.saves[len(s.saves)-1]
}

// fakeClock advances only when told to or when slept on.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	slept   []time.Duration
	onSleep func(d time.Duration)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	hook := c.onSleep
	c.mu.Unlock()
	if hook != nil {
		hook(d)
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
	c.mu.Unlock()
	return ctx.Err()
}

func testTiming() FixedTuning {
	return FixedTuning(config.Timing{
		ClickInterval:    80 * time.Millisecond,
		RetrieveInterval: 14 * time.Second,
		SettleDelay:      2 * time.Second,
		DragDuration:     30 * time.Millisecond,
		ActionTick:       5 * time.Millisecond,
	})
}

var testWindow = data.NewBounds(100, 50, 800, 600)
