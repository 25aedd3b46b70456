package twinscreen

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/twinscreen/retained"
)

// Config is the twinscreen.toml configuration file.
type Config struct {
	Timing  TimingConfig      `toml:"timing"`
	Stereo  StereoConfig      `toml:"stereo"`
	Images  ImagesConfig      `toml:"images"`
	Palette map[string]uint32 `toml:"palette,omitempty"`
}

// TimingConfig holds input and scheduling timings. Durations use
// time.ParseDuration syntax.
type TimingConfig struct {
	TapMaxDuration    string  `toml:"tap_max_duration"`
	TapMaxDistance    float32 `toml:"tap_max_distance"`
	KeyRepeatDelay    string  `toml:"key_repeat_delay"`
	KeyRepeatInterval string  `toml:"key_repeat_interval"`
	RenderDebounce    string  `toml:"render_debounce"`
	PollInterval      string  `toml:"poll_interval"`
}

type StereoConfig struct {
	MaxDepth      float32 `toml:"max_depth"`
	InitialSlider float32 `toml:"initial_slider"`
}

type ImagesConfig struct {
	// PlaceholderSprite is drawn while an image is missing; -1 disables it.
	PlaceholderSprite int `toml:"placeholder_sprite"`
	QRSize            int `toml:"qr_size"`
	// IconCachePath is the on-disk icon store; empty disables it.
	IconCachePath string `toml:"icon_cache_path"`
	Workers       int    `toml:"workers"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Timing: TimingConfig{
			TapMaxDuration:    "1s",
			TapMaxDistance:    20,
			KeyRepeatDelay:    "300ms",
			KeyRepeatInterval: "60ms",
			RenderDebounce:    "100µs",
			PollInterval:      "4ms",
		},
		Stereo: StereoConfig{
			MaxDepth:      retained.DefaultMaxDepth,
			InitialSlider: 2,
		},
		Images: ImagesConfig{
			PlaceholderSprite: retained.DefaultPlaceholderSprite,
			QRSize:            128,
			IconCachePath:     "/save-cloud/cache/icons.bin",
			Workers:           2,
		},
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if _, err := config.LoopConfig(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// SaveConfig writes config to path.
func SaveConfig(path string, config Config) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoopConfig converts the file form into scheduler settings.
func (c Config) LoopConfig() (retained.LoopConfig, error) {
	lc := retained.DefaultLoopConfig()

	durations := []struct {
		name string
		src  string
		dst  *time.Duration
	}{
		{"tap_max_duration", c.Timing.TapMaxDuration, &lc.Trigger.TapMaxDuration},
		{"key_repeat_delay", c.Timing.KeyRepeatDelay, &lc.Trigger.KeyRepeatDelay},
		{"key_repeat_interval", c.Timing.KeyRepeatInterval, &lc.Trigger.KeyRepeatInterval},
		{"render_debounce", c.Timing.RenderDebounce, &lc.RenderDebounce},
		{"poll_interval", c.Timing.PollInterval, &lc.PollInterval},
	}
	for _, d := range durations {
		if d.src == "" {
			continue
		}
		v, err := time.ParseDuration(d.src)
		if err != nil {
			return lc, fmt.Errorf("timing.%s: %w", d.name, err)
		}
		*d.dst = v
	}
	if c.Timing.TapMaxDistance > 0 {
		lc.Trigger.TapMaxDistance = c.Timing.TapMaxDistance
	}

	lc.MaxDepth = c.Stereo.MaxDepth
	lc.InitialSlider = c.Stereo.InitialSlider
	lc.PlaceholderSprite = c.Images.PlaceholderSprite
	lc.Images.QRSize = c.Images.QRSize
	lc.Images.Workers = c.Images.Workers

	if len(c.Palette) > 0 {
		extra := make(map[string]retained.Color, len(c.Palette))
		for name, v := range c.Palette {
			extra[name] = retained.Color(v)
		}
		lc.Palette = retained.DefaultPalette().With(extra)
	}
	return lc, nil
}
