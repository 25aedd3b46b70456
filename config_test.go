package twinscreen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agiangrant/twinscreen/retained"
)

func TestDefaultLoopConfig(t *testing.T) {
	lc, err := DefaultConfig().LoopConfig()
	if err != nil {
		t.Fatalf("LoopConfig: %v", err)
	}
	want := retained.DefaultLoopConfig()
	want.Images.QRSize, want.Images.Workers = 128, 2

	if lc.Trigger != want.Trigger {
		t.Errorf("trigger = %+v, want %+v", lc.Trigger, want.Trigger)
	}
	if lc.RenderDebounce != want.RenderDebounce {
		t.Errorf("debounce = %v, want %v", lc.RenderDebounce, want.RenderDebounce)
	}
	if lc.PollInterval != want.PollInterval {
		t.Errorf("poll = %v, want %v", lc.PollInterval, want.PollInterval)
	}
	if lc.InitialSlider != want.InitialSlider || lc.MaxDepth != want.MaxDepth {
		t.Errorf("stereo = %v/%v, want %v/%v", lc.InitialSlider, lc.MaxDepth, want.InitialSlider, want.MaxDepth)
	}
	if lc.Images != want.Images {
		t.Errorf("images = %+v, want %+v", lc.Images, want.Images)
	}
	if lc.Palette != nil {
		t.Errorf("palette = %v, want nil", lc.Palette)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		check   func(t *testing.T, c Config)
		wantErr bool
	}{
		{
			name: "overlay keeps defaults",
			src:  "[timing]\nkey_repeat_delay = \"500ms\"\n",
			check: func(t *testing.T, c Config) {
				lc, _ := c.LoopConfig()
				if got, want := lc.Trigger.KeyRepeatDelay, 500*time.Millisecond; got != want {
					t.Errorf("got %v, want %v", got, want)
				}
				if got, want := lc.Trigger.KeyRepeatInterval, 60*time.Millisecond; got != want {
					t.Errorf("got %v, want %v", got, want)
				}
			},
		},
		{
			name: "palette extends defaults",
			src:  "[palette]\naccent = 0xff00ff00\nred = 0xff0000aa\n",
			check: func(t *testing.T, c Config) {
				lc, _ := c.LoopConfig()
				if got, want := lc.Palette.Lookup("accent"), retained.RGBA(0, 0xff, 0, 0xff); got != want {
					t.Errorf("got %#x, want %#x", got, want)
				}
				if got, want := lc.Palette.Lookup("red"), retained.RGBA(0xaa, 0, 0, 0xff); got != want {
					t.Errorf("got %#x, want %#x", got, want)
				}
				if got, want := lc.Palette.Lookup("blue"), retained.DefaultPalette()["blue"]; got != want {
					t.Errorf("got %#x, want %#x", got, want)
				}
			},
		},
		{
			name: "stereo and images",
			src:  "[stereo]\nmax_depth = 3.0\ninitial_slider = 0.0\n[images]\nplaceholder_sprite = -1\nworkers = 4\n",
			check: func(t *testing.T, c Config) {
				lc, _ := c.LoopConfig()
				if lc.MaxDepth != 3 || lc.InitialSlider != 0 {
					t.Errorf("got %v/%v, want 3/0", lc.MaxDepth, lc.InitialSlider)
				}
				if lc.PlaceholderSprite != -1 || lc.Images.Workers != 4 {
					t.Errorf("got sprite %d workers %d, want -1 and 4", lc.PlaceholderSprite, lc.Images.Workers)
				}
			},
		},
		{name: "bad duration", src: "[timing]\npoll_interval = \"often\"\n", wantErr: true},
		{name: "bad toml", src: "[timing\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "twinscreen.toml")
			if err := os.WriteFile(path, []byte(tt.src), 0644); err != nil {
				t.Fatal(err)
			}
			c, err := LoadConfig(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got, want := c.Images.IconCachePath, DefaultConfig().Images.IconCachePath; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twinscreen.toml")
	c := DefaultConfig()
	c.Timing.PollInterval = "8ms"
	c.Palette = map[string]uint32{"accent": 0xff123456}

	if err := SaveConfig(path, c); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Timing != c.Timing {
		t.Errorf("timing = %+v, want %+v", got.Timing, c.Timing)
	}
	if got.Palette["accent"] != 0xff123456 {
		t.Errorf("palette = %v", got.Palette)
	}
}
