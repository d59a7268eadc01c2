package fishing

import (
	"bytes"
	"strings"
	"testing"

	"fish-bot/internal/data"
	"fish-bot/internal/vision"
)

func TestInspect(t *testing.T) {
	game := newFakeGame()
	game.show(vision.CatchMarker, vision.UseButton)
	game.place(vision.UseButton, data.NewPoint(400, 300))
	img, _ := game.Capture(testWindow)
	scene, _ := game.Open(img)

	r, err := Inspect(scene, 0.8)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if r.Cues != Of(CueNoBait, CueCatchFish) {
		t.Errorf("Cues = %s", r.Cues)
	}
	if got := r.Next[RodCast]; got != BaitDepleted {
		t.Errorf("Next[RodCast] = %s, want BaitDepleted", got)
	}
	if got := r.Next[BaitDepleted]; got != BaitDepleted {
		t.Errorf("Next[BaitDepleted] = %s, want BaitDepleted", got)
	}
	if _, ok := r.Next[Terminated]; ok {
		t.Error("report includes Terminated")
	}
	if len(r.Findings) != len(vision.AllTemplates()) {
		t.Fatalf("findings = %d, want %d", len(r.Findings), len(vision.AllTemplates()))
	}

	var hits int
	for _, m := range r.Marks(0.8) {
		if m.Color == vision.MarkHit {
			hits++
		}
	}
	if hits != 1 {
		t.Errorf("hit marks = %d, want 1", hits)
	}

	var buf bytes.Buffer
	r.Print(&buf, 0.8)
	out := buf.String()
	for _, want := range []string{"{no-bait, catch-fish}", "RodCast         -> BaitDepleted", "* use_button"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
