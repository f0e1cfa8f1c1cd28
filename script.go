package gesture

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// scriptStep is a single timed primitive in a script.
type scriptStep struct {
	Action string  `json:"action"`
	At     int64   `json:"at"` // milliseconds since script start
	ID     int     `json:"id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Target string  `json:"target,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script is a recorded sequence of pointer primitives with timestamps.
// Actions are "down", "move", "up", "cancel" and "tick"; "tick" only
// advances time so pending timers can fire.
type Script struct {
	steps []scriptStep
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	var last int64
	for i, st := range f.Steps {
		switch st.Action {
		case "down", "move", "up", "cancel", "tick":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
		if st.At < last {
			return nil, fmt.Errorf("parse script: step %d: time %dms before previous step", i, st.At)
		}
		last = st.At
	}
	return &Script{steps: f.Steps}, nil
}

// Len returns the number of steps.
func (s *Script) Len() int { return len(s.steps) }

// Duration returns the timestamp of the last step.
func (s *Script) Duration() time.Duration {
	if len(s.steps) == 0 {
		return 0
	}
	return time.Duration(s.steps[len(s.steps)-1].At) * time.Millisecond
}

// DefaultScriptTarget is returned by Targets for scripts whose steps name
// no target.
const DefaultScriptTarget = "script"

// Targets returns the distinct step targets in order of first use, or
// DefaultScriptTarget when no step names one.
func (s *Script) Targets() []Target {
	var out []Target
	seen := make(map[string]bool)
	for _, st := range s.steps {
		if st.Target == "" || seen[st.Target] {
			continue
		}
		seen[st.Target] = true
		out = append(out, st.Target)
	}
	if len(out) == 0 {
		out = append(out, DefaultScriptTarget)
	}
	return out
}

// Run feeds every step into r, advancing clock to the step's time first.
// r must have been created with clock.Now as its clock. Step targets are
// passed as string Targets; steps without a target broadcast.
func (s *Script) Run(r *Recognizer, clock *clockwork.FakeClock) {
	start := clock.Now()
	for _, st := range s.steps {
		if d := start.Add(time.Duration(st.At) * time.Millisecond).Sub(clock.Now()); d > 0 {
			clock.Advance(d)
		}
		var targets []Target
		if st.Target != "" {
			targets = []Target{st.Target}
		}
		id := PointerID(st.ID)
		switch st.Action {
		case "down":
			r.PointerDown(id, st.X, st.Y, st, targets...)
		case "move":
			r.PointerMove(id, st.X, st.Y, st, targets...)
		case "up":
			r.PointerUp(id, st, targets...)
		case "cancel":
			r.PointerCancel(id, st, targets...)
		case "tick":
			r.Tick()
		}
	}
}
