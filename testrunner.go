package scribble

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a scripted session.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Level  int     `json:"level,omitempty"`
	Sketch string  `json:"sketch,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// TestRunner plays a JSON script of strokes, key presses and screenshots
// against a session, one step per frame once injected input has drained.
//
// Supported actions: stroke, click, key, undo, rotate, vibration, dashed,
// load, finish, wait and screenshot.
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	err       error
}

// LoadTestScript parses a JSON script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range sc.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: sc.Steps}, nil
}

func knownAction(a string) bool {
	switch a {
	case "stroke", "click", "key", "undo", "rotate", "vibration",
		"dashed", "load", "finish", "wait", "screenshot":
		return true
	}
	return false
}

// Done reports whether every step has run.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the first error raised by a load step.
func (r *TestRunner) Err() error {
	return r.err
}

// Step advances the runner by one frame. Call it before Session.Update.
// shoot receives screenshot labels and may be nil.
func (r *TestRunner) Step(s *Session, shoot func(label string)) {
	if r.done {
		return
	}
	if s.InjectPending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		if shoot != nil {
			shoot(st.Label)
		}
	case "stroke":
		s.InjectStroke(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "click":
		s.InjectPress(st.X, st.Y)
		s.InjectRelease(st.X, st.Y)
	case "key":
		s.InjectKey()
	case "undo":
		s.InjectUndo()
	case "rotate":
		s.InjectRotate(st.Frames)
	case "vibration":
		s.SetVibration(st.Level)
	case "dashed":
		s.SetDashed(!s.Dashed())
	case "load":
		if err := s.Load([]byte(st.Sketch)); err != nil && r.err == nil {
			r.err = err
		}
	case "finish":
		s.Replay().Finish()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && s.InjectPending() == 0 {
		r.done = true
	}
}
