package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"fish-bot/internal/data"
	"fish-bot/internal/logging"
)

// Load reads the configuration at path and fills in defaults.
//
// A missing file is not an error: the defaults are returned and written to
// path so the user has something to edit. A file that exists but does not
// parse is an error.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Info("No config at %s, writing defaults", path)
		cfg := Default()
		if err := Save(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	titleMissing := cfg.Window.Title == ""
	applyDefaults(&cfg)
	if titleMissing {
		if err := Save(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to save config: %w", err)
		}
	}

	logging.Info("Config loaded from %s (%d layout fields calibrated)", path, cfg.Layout.Calibrated())
	return &cfg, nil
}

// Save writes cfg to path, replacing the file in one rename so a concurrent
// reader never sees half a document.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// Store owns the configuration file for the duration of a run.
//
// The action loop persists calibrations through SaveLayout while the file
// watcher may swap in new timing; both go through the same lock.
type Store struct {
	path string
	cfg  Config
	mu   sync.RWMutex
}

// Open loads (or creates) the configuration at path.
func Open(path string) (*Store, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cfg: *cfg}, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Config returns a copy of the current configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.cfg
	c.Layout = s.cfg.Layout.Clone()
	c.StopKeys = append([]string(nil), s.cfg.StopKeys...)
	return c
}

// Timing returns the current delays.
func (s *Store) Timing() Timing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Timing
}

// Layout returns a copy of the persisted layout.
func (s *Store) Layout() data.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Layout.Clone()
}

// SaveLayout replaces the layout and rewrites the whole file.
func (s *Store) SaveLayout(l data.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.Layout = l.Clone()
	if err := Save(s.path, &s.cfg); err != nil {
		return err
	}
	logging.Debug("Layout saved to %s", s.path)
	return nil
}

// Reload re-reads the file and adopts its timing block. Everything else in
// memory is kept, the layout in particular, since the file may be older than
// the last calibration.
func (s *Store) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", s.path, err)
	}
	applyTimingDefaults(&cfg.Timing)

	s.mu.Lock()
	changed := s.cfg.Timing != cfg.Timing
	s.cfg.Timing = cfg.Timing
	s.mu.Unlock()

	if changed {
		logging.Info("Timing reloaded: click=%v retrieve=%v settle=%v",
			cfg.Timing.ClickInterval, cfg.Timing.RetrieveInterval, cfg.Timing.SettleDelay)
	}
	return nil
}
