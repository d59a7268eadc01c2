package config

import "fmt"

// Validate checks a loaded configuration and returns every problem found.
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Window.Title == "" {
		errs = append(errs, fmt.Errorf("window.title is required"))
	}
	if cfg.Window.Rect.Empty() {
		errs = append(errs, fmt.Errorf("window.rect must have positive width and height, got %s", cfg.Window.Rect))
	}
	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold > 1 {
		errs = append(errs, fmt.Errorf("match_threshold must be in (0, 1], got %v", cfg.MatchThreshold))
	}
	if cfg.ClusterRadius <= 0 {
		errs = append(errs, fmt.Errorf("cluster_radius must be positive, got %d", cfg.ClusterRadius))
	}
	if cfg.ReferenceWidth <= 0 {
		errs = append(errs, fmt.Errorf("reference_width must be positive, got %d", cfg.ReferenceWidth))
	}

	t := cfg.Timing
	for _, d := range []struct {
		name  string
		value int64
	}{
		{"timing.click_interval", int64(t.ClickInterval)},
		{"timing.retrieve_interval", int64(t.RetrieveInterval)},
		{"timing.drag_duration", int64(t.DragDuration)},
	} {
		if d.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", d.name))
		}
	}
	if t.SettleDelay < 0 || t.PerceptionTick < 0 || t.ActionTick < 0 {
		errs = append(errs, fmt.Errorf("timing delays must not be negative"))
	}

	return errs
}
