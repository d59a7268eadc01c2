// Package config - types.go
//
// Settings and persisted layout for the bot, stored together in one YAML file
// (config.yaml by default).
//
// File Layout:
//
//	window:
//	  title: MuMuPlayer
//	  rect: {x: 163, y: 33, w: 1602, h: 946}
//	image_dir: images
//	reference_width: 1602
//	match_threshold: 0.8
//	cluster_radius: 10
//	timing:
//	  click_interval: 80ms
//	  retrieve_interval: 14s
//	  settle_delay: 2s
//	  drag_duration: 30ms
//	  perception_tick: 0s
//	  action_tick: 5ms
//	stop_keys: [esc]
//	log_file: bot.log
//	debug: false
//	snapshot_dir: snapshots
//	layout:
//	  start: {x: 880, y: 800}
//	  ...
//
// The layout block is rewritten by the bot after every calibration; the rest
// is only ever written when the file is created with defaults.
package config

import (
	"time"

	"fish-bot/internal/data"
)

// DefaultPath is where the bot looks for its configuration.
const DefaultPath = "config.yaml"

// Config is the whole configuration file.
type Config struct {
	Window         WindowConfig `yaml:"window"`
	ImageDir       string       `yaml:"image_dir"`
	ReferenceWidth int          `yaml:"reference_width"` // window width the reference images were cut at
	MatchThreshold float64      `yaml:"match_threshold"`
	ClusterRadius  int          `yaml:"cluster_radius"`
	Timing         Timing       `yaml:"timing"`
	StopKeys       []string     `yaml:"stop_keys"`
	LogFile        string       `yaml:"log_file"`
	Debug          bool         `yaml:"debug"`
	SnapshotDir    string       `yaml:"snapshot_dir"`
	Layout         data.Layout  `yaml:"layout"`
}

// WindowConfig identifies the emulator window.
type WindowConfig struct {
	Title string `yaml:"title"`
	// Rect is used when the window's live bounds cannot be read.
	Rect data.Bounds `yaml:"rect"`
}

// Timing groups every tunable delay. It is the only block picked up by a
// live reload.
type Timing struct {
	ClickInterval    time.Duration `yaml:"click_interval"`
	RetrieveInterval time.Duration `yaml:"retrieve_interval"`
	SettleDelay      time.Duration `yaml:"settle_delay"`
	DragDuration     time.Duration `yaml:"drag_duration"`
	PerceptionTick   time.Duration `yaml:"perception_tick"`
	ActionTick       time.Duration `yaml:"action_tick"`
}

// Default returns the configuration written on first start.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title: "MuMuPlayer",
			Rect:  data.NewBounds(163, 33, 1602, 946),
		},
		ImageDir:       "images",
		ReferenceWidth: 1602,
		MatchThreshold: 0.8,
		ClusterRadius:  10,
		Timing:         DefaultTiming(),
		StopKeys:       []string{"esc"},
		LogFile:        "bot.log",
		SnapshotDir:    "snapshots",
	}
}

// DefaultTiming returns the stock delays.
func DefaultTiming() Timing {
	return Timing{
		ClickInterval:    80 * time.Millisecond,
		RetrieveInterval: 14 * time.Second,
		SettleDelay:      2 * time.Second,
		DragDuration:     30 * time.Millisecond,
		ActionTick:       5 * time.Millisecond,
	}
}

// applyDefaults fills zero values with defaults. PerceptionTick may
// legitimately be zero and is left alone.
func applyDefaults(cfg *Config) {
	d := Default()

	if cfg.Window.Title == "" {
		cfg.Window.Title = d.Window.Title
	}
	if cfg.Window.Rect.Empty() {
		cfg.Window.Rect = d.Window.Rect
	}
	if cfg.ImageDir == "" {
		cfg.ImageDir = d.ImageDir
	}
	if cfg.ReferenceWidth == 0 {
		cfg.ReferenceWidth = d.ReferenceWidth
	}
	if cfg.MatchThreshold == 0 {
		cfg.MatchThreshold = d.MatchThreshold
	}
	if cfg.ClusterRadius == 0 {
		cfg.ClusterRadius = d.ClusterRadius
	}
	if len(cfg.StopKeys) == 0 {
		cfg.StopKeys = d.StopKeys
	}
	if cfg.LogFile == "" {
		cfg.LogFile = d.LogFile
	}
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = d.SnapshotDir
	}
	applyTimingDefaults(&cfg.Timing)
}

func applyTimingDefaults(t *Timing) {
	d := DefaultTiming()
	if t.ClickInterval == 0 {
		t.ClickInterval = d.ClickInterval
	}
	if t.RetrieveInterval == 0 {
		t.RetrieveInterval = d.RetrieveInterval
	}
	if t.SettleDelay == 0 {
		t.SettleDelay = d.SettleDelay
	}
	if t.DragDuration == 0 {
		t.DragDuration = d.DragDuration
	}
	if t.ActionTick == 0 {
		t.ActionTick = d.ActionTick
	}
}
