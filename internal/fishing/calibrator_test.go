package fishing

import (
	"context"
	"errors"
	"os"
	"testing"

	"fish-bot/internal/data"
	"fish-bot/internal/vision"
)

func newTestCalibrator(game *fakeGame, store *fakeStore, layout data.Layout) *Calibrator {
	return NewCalibrator(layout, testWindow, game, game, game, store, 0.8)
}

func TestEnsureCalibratesOnce(t *testing.T) {
	game := newFakeGame()
	game.place(vision.StartButton, data.NewPoint(300, 200))
	store := &fakeStore{}
	cal := newTestCalibrator(game, store, data.Layout{})

	want := data.NewPoint(310, 205)
	for i := 0; i < 3; i++ {
		got, err := cal.Ensure(context.Background(), FieldStart)
		if err != nil {
			t.Fatalf("Ensure() #%d error = %v", i, err)
		}
		if got != want {
			t.Fatalf("Ensure() #%d = %s, want %s", i, got, want)
		}
	}

	if n := len(game.Captures()); n != 1 {
		t.Errorf("captures = %d, want 1", n)
	}
	if store.Saves() != 1 {
		t.Errorf("saves = %d, want 1", store.Saves())
	}
	if s := store.Last().Start; s == nil || *s != want {
		t.Errorf("persisted start = %v, want %s", s, want)
	}
}

func TestEnsureUsesPersistedLayout(t *testing.T) {
	game := newFakeGame()
	store := &fakeStore{}
	retry := data.NewPoint(42, 24)
	cal := newTestCalibrator(game, store, data.Layout{RetryButton: &retry})

	got, err := cal.Ensure(context.Background(), FieldRetry)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if got != retry {
		t.Errorf("Ensure() = %s, want %s", got, retry)
	}
	if len(game.Captures()) != 0 || store.Saves() != 0 {
		t.Errorf("touched screen or store: captures %d, saves %d", len(game.Captures()), store.Saves())
	}
}

func TestEnsureReel(t *testing.T) {
	game := newFakeGame()
	game.place(vision.RodHandle, data.NewPoint(400, 300))
	game.place(vision.PressureGauge, data.NewPoint(500, 100))
	rodColor := data.NewColor(10, 20, 30)
	gaugeColor := data.NewColor(200, 100, 0)
	game.pixels[data.NewPoint(410, 305)] = rodColor
	game.pixels[data.NewPoint(505, 105)] = gaugeColor
	store := &fakeStore{}
	cal := newTestCalibrator(game, store, data.Layout{})

	reel, err := cal.EnsureReel(context.Background())
	if err != nil {
		t.Fatalf("EnsureReel() error = %v", err)
	}
	want := Reel{
		Rod:           data.NewPoint(410, 305),
		RodColor:      rodColor,
		Pressure:      data.NewPoint(505, 105),
		PressureColor: gaugeColor,
	}
	if reel != want {
		t.Errorf("EnsureReel() = %+v, want %+v", reel, want)
	}

	// Rod and pressure resolve through the same calibration.
	if p, _ := cal.Ensure(context.Background(), FieldPressure); p != want.Pressure {
		t.Errorf("Ensure(pressure) = %s, want %s", p, want.Pressure)
	}
	if p, _ := cal.Ensure(context.Background(), FieldRod); p != want.Rod {
		t.Errorf("Ensure(rod) = %s, want %s", p, want.Rod)
	}
	if n := len(game.Captures()); n != 1 {
		t.Errorf("captures = %d, want 1", n)
	}

	l := store.Last()
	if l.RodColor == nil || *l.RodColor != rodColor || l.PressureColor == nil || *l.PressureColor != gaugeColor {
		t.Errorf("persisted colours = %v / %v", l.RodColor, l.PressureColor)
	}
}

func TestEnsureDirectionsSearchesBottomHalf(t *testing.T) {
	game := newFakeGame()
	// A prompt icon in the top half must not be taken for the button.
	game.place(vision.DirUp, data.NewPoint(150, 60), data.NewPoint(150, 400))
	game.place(vision.DirFire, data.NewPoint(700, 500))
	store := &fakeStore{}
	cal := newTestCalibrator(game, store, data.Layout{})

	dirs, err := cal.EnsureDirections(context.Background())
	if err != nil {
		t.Fatalf("EnsureDirections() error = %v", err)
	}

	if got := game.Captures(); len(got) != 1 || got[0] != testWindow.BottomHalf() {
		t.Fatalf("captures = %v, want [%s]", got, testWindow.BottomHalf())
	}
	if len(dirs) != len(vision.DirectionIDs) {
		t.Errorf("len(dirs) = %d, want %d", len(dirs), len(vision.DirectionIDs))
	}
	if got, want := dirs[vision.DirUp.Name()], data.NewPoint(160, 405); got != want {
		t.Errorf("dirs[%s] = %s, want %s", vision.DirUp.Name(), got, want)
	}
	if got, want := dirs[vision.DirFire.Name()], data.NewPoint(710, 505); got != want {
		t.Errorf("dirs[%s] = %s, want %s", vision.DirFire.Name(), got, want)
	}
	if len(store.Last().Directions) != len(dirs) {
		t.Errorf("persisted %d directions, want %d", len(store.Last().Directions), len(dirs))
	}

	if _, err := cal.EnsureDirections(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(game.Captures()) != 1 || store.Saves() != 1 {
		t.Errorf("recalibrated: captures %d, saves %d", len(game.Captures()), store.Saves())
	}
}

func TestEnsureErrors(t *testing.T) {
	errCapture := errors.New("capture failed")
	errSave := errors.New("disk full")

	tests := []struct {
		name    string
		setup   func(g *fakeGame, s *fakeStore)
		cancel  bool
		wantErr error
	}{
		{
			name:    "capture",
			setup:   func(g *fakeGame, s *fakeStore) { g.captureErr = errCapture },
			wantErr: errCapture,
		},
		{
			name:    "persist",
			setup:   func(g *fakeGame, s *fakeStore) { s.err = errSave },
			wantErr: errSave,
		},
		{
			name:    "cancelled",
			setup:   func(g *fakeGame, s *fakeStore) {},
			cancel:  true,
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := newFakeGame()
			store := &fakeStore{}
			tt.setup(game, store)
			cal := newTestCalibrator(game, store, data.Layout{})

			ctx, cancel := context.WithCancel(context.Background())
			if tt.cancel {
				cancel()
			}
			defer cancel()

			_, err := cal.Ensure(ctx, FieldBait)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Ensure() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalibrationSnapshot(t *testing.T) {
	game := newFakeGame()
	game.place(vision.RetryButton, data.NewPoint(120, 60))
	dir := t.TempDir()
	cal := newTestCalibrator(game, &fakeStore{}, data.Layout{})
	cal.SnapshotDir = dir

	if _, err := cal.Ensure(context.Background(), FieldRetry); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("snapshot files = %d, want 1", len(entries))
	}
}
