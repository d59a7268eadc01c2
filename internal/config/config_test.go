package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fish-bot/internal/data"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadMissingWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Title != "MuMuPlayer" {
		t.Errorf("title = %q, want default", cfg.Window.Title)
	}
	if cfg.Timing.ClickInterval != 80*time.Millisecond {
		t.Errorf("click interval = %v, want 80ms", cfg.Timing.ClickInterval)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("defaults were not written: %v", err)
	}
	if !strings.Contains(string(raw), "click_interval: 80ms") {
		t.Errorf("durations should be written as strings:\n%s", raw)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
window:
  title: LDPlayer
timing:
  click_interval: 50ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Title != "LDPlayer" {
		t.Errorf("title = %q, want LDPlayer", cfg.Window.Title)
	}
	if cfg.Timing.ClickInterval != 50*time.Millisecond {
		t.Errorf("click interval = %v, want 50ms", cfg.Timing.ClickInterval)
	}
	if cfg.Timing.RetrieveInterval != 14*time.Second {
		t.Errorf("retrieve interval = %v, want default 14s", cfg.Timing.RetrieveInterval)
	}
	if cfg.MatchThreshold != 0.8 {
		t.Errorf("threshold = %v, want 0.8", cfg.MatchThreshold)
	}
	if cfg.Window.Rect != data.NewBounds(163, 33, 1602, 946) {
		t.Errorf("rect = %v, want default", cfg.Window.Rect)
	}
}

func TestLoadWritesMissingTitle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "debug: true\n")

	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "title: MuMuPlayer") {
		t.Errorf("default title not written back:\n%s", raw)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "window: [unclosed\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStoreLayoutRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	start := data.NewPoint(880, 800)
	rod := data.NewPoint(1500, 700)
	rodColor := data.NewColor(10, 20, 30)
	layout := data.Layout{
		Start:    &start,
		Rod:      &rod,
		RodColor: &rodColor,
		Directions: map[string]data.Point{
			"01_up":   {X: 400, Y: 800},
			"02_left": {X: 300, Y: 850},
		},
	}
	if err := s.SaveLayout(layout); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.Layout()
	if got.Start == nil || *got.Start != start {
		t.Errorf("start = %v, want %v", got.Start, start)
	}
	if got.RodColor == nil || *got.RodColor != rodColor {
		t.Errorf("rod colour = %v, want %v", got.RodColor, rodColor)
	}
	if got.Pressure != nil {
		t.Errorf("pressure = %v, want nil", got.Pressure)
	}
	if got.Directions["02_left"] != (data.Point{X: 300, Y: 850}) {
		t.Errorf("directions = %v", got.Directions)
	}
}

func TestStoreReloadKeepsLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	start := data.NewPoint(1, 2)
	if err := s.SaveLayout(data.Layout{Start: &start}); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Dir(path), "config.yaml", "timing:\n  click_interval: 120ms\n")
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if got := s.Timing().ClickInterval; got != 120*time.Millisecond {
		t.Errorf("click interval = %v, want 120ms", got)
	}
	if l := s.Layout(); l.Start == nil || *l.Start != start {
		t.Errorf("layout lost on reload: %+v", l)
	}
}

func TestWatchReloadsTiming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	cfg := s.Config()
	cfg.Timing.RetrieveInterval = 9 * time.Second
	if err := Save(path, &cfg); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if s.Timing().RetrieveInterval == 9*time.Second {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timing not reloaded, retrieve interval = %v", s.Timing().RetrieveInterval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"threshold above one", func(c *Config) { c.MatchThreshold = 1.5 }, "match_threshold"},
		{"empty title", func(c *Config) { c.Window.Title = "" }, "window.title"},
		{"zero click interval", func(c *Config) { c.Timing.ClickInterval = 0 }, "timing.click_interval"},
		{"negative tick", func(c *Config) { c.Timing.ActionTick = -time.Millisecond }, "negative"},
		{"zero radius", func(c *Config) { c.ClusterRadius = 0 }, "cluster_radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			errs := Validate(&cfg)
			if tt.wantErr == "" {
				if len(errs) != 0 {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e.Error(), tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", errs, tt.wantErr)
			}
		})
	}
}
