// Package scripted replays a timed input script in place of real hardware.
package scripted

import (
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/twinscreen/retained"
)

// Step is one input state held from At until the next step begins.
type Step struct {
	At      string   `toml:"at"`
	Buttons []string `toml:"buttons,omitempty"`
	// Touch is an x, y pair; absent means the screen is not touched.
	Touch []float32 `toml:"touch,omitempty"`
	// Slider carries over from the previous step when absent.
	Slider *float32 `toml:"slider,omitempty"`
}

// Script is the file form of an input script.
type Script struct {
	Slider float32 `toml:"slider"`
	Steps  []Step  `toml:"step"`
}

type frame struct {
	at    time.Duration
	state retained.InputState
}

// Input replays a compiled script. Time starts at the first Poll.
type Input struct {
	mu     sync.Mutex
	frames []frame
	idle   retained.InputState
	clock  func() time.Time
	start  time.Time
}

var _ retained.Input = (*Input)(nil)

// Load reads and compiles a TOML script.
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var s Script
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	in, err := Compile(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// Compile validates a script. Steps are sorted by start time.
func Compile(s Script) (*Input, error) {
	in := &Input{clock: time.Now, idle: retained.InputState{Slider: s.Slider}}
	slider := s.Slider
	for i, st := range s.Steps {
		at, err := time.ParseDuration(st.At)
		if err != nil {
			return nil, fmt.Errorf("step %d: bad time %q: %w", i, st.At, err)
		}
		state := retained.InputState{}
		for _, name := range st.Buttons {
			b, ok := retained.ParseButton(name)
			if !ok {
				return nil, fmt.Errorf("step %d: unknown button %q", i, name)
			}
			state.Buttons |= b
		}
		switch len(st.Touch) {
		case 0:
		case 2:
			state.Touched, state.X, state.Y = true, st.Touch[0], st.Touch[1]
		default:
			return nil, fmt.Errorf("step %d: touch needs x and y, got %d values", i, len(st.Touch))
		}
		if st.Slider != nil {
			slider = *st.Slider
		}
		state.Slider = slider
		in.frames = append(in.frames, frame{at: at, state: state})
	}
	slices.SortStableFunc(in.frames, func(a, b frame) int {
		return int(a.at - b.at)
	})
	return in, nil
}

// SetClock replaces the time source. It must be called before the first Poll.
func (in *Input) SetClock(clock func() time.Time) { in.clock = clock }

// Poll returns the state of the latest step that has started.
func (in *Input) Poll() retained.InputState {
	in.mu.Lock()
	defer in.mu.Unlock()
	now := in.clock()
	if in.start.IsZero() {
		in.start = now
	}
	elapsed := now.Sub(in.start)
	state := in.idle
	for _, f := range in.frames {
		if f.at > elapsed {
			break
		}
		state = f.state
	}
	return state
}

// Duration is the start time of the last step.
func (in *Input) Duration() time.Duration {
	if len(in.frames) == 0 {
		return 0
	}
	return in.frames[len(in.frames)-1].at
}

// Done reports whether the last step has started.
func (in *Input) Done() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return !in.start.IsZero() && in.clock().Sub(in.start) >= in.Duration()
}
