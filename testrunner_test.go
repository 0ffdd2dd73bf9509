package scribble

import "testing"

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "stroke", "fromX": 10, "fromY": 20, "toX": 110, "toY": 20, "frames": 8},
			{"action": "wait", "frames": 3},
			{"action": "screenshot", "label": "after-stroke"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "screenshot" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	st := runner.steps[1]
	if st.Action != "stroke" || st.FromX != 10 || st.ToX != 110 || st.Frames != 8 {
		t.Errorf("step 1 = %+v", st)
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"empty steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "explode"}]}`},
	}
	for _, tt := range tests {
		if _, err := LoadTestScript([]byte(tt.data)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

// runScript steps the runner and the session together until the script ends.
func runScript(t *testing.T, r *TestRunner, s *Session, shoot func(string)) {
	t.Helper()
	for i := 0; !r.Done(); i++ {
		if i > 10000 {
			t.Fatal("script never finished")
		}
		r.Step(s, shoot)
		s.Update(frame)
	}
}

func TestRunnerStrokeAndScreenshot(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps": [
		{"action": "stroke", "fromX": 10, "fromY": 20, "toX": 110, "toY": 20, "frames": 6},
		{"action": "dashed"},
		{"action": "stroke", "fromX": 10, "fromY": 60, "toX": 110, "toY": 60, "frames": 6},
		{"action": "screenshot", "label": "two-lines"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession()
	var shots []string
	runScript(t, r, s, func(label string) { shots = append(shots, label) })

	if len(s.Sketch().Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(s.Sketch().Lines))
	}
	if s.Sketch().Lines[0].Dashed || !s.Sketch().Lines[1].Dashed {
		t.Error("dashed toggle applied to the wrong line")
	}
	if len(shots) != 1 || shots[0] != "two-lines" {
		t.Errorf("screenshots = %v, want [two-lines]", shots)
	}
}

func TestRunnerUndoAndVibration(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps": [
		{"action": "stroke", "fromX": 10, "fromY": 20, "toX": 110, "toY": 20},
		{"action": "undo"},
		{"action": "vibration", "level": 2}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession()
	runScript(t, r, s, nil)

	if len(s.Sketch().Lines) != 0 {
		t.Errorf("lines = %d after undo, want 0", len(s.Sketch().Lines))
	}
	if s.Vibration() != 2 {
		t.Errorf("Vibration = %d, want 2", s.Vibration())
	}
}

func TestRunnerLoadAndFinish(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps": [
		{"action": "load", "sketch": "{\"p\":0.3,\"l\":[{\"points\":[\"1x1\",\"5x5\",\"9x9\"]}]}"},
		{"action": "finish"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession()
	runScript(t, r, s, nil)

	if r.Err() != nil {
		t.Fatalf("Err = %v", r.Err())
	}
	if s.Replay().Active() {
		t.Error("replay still active after finish")
	}
	if s.Sketch().PointCount() != 3 {
		t.Errorf("points = %d, want 3", s.Sketch().PointCount())
	}
}

func TestRunnerLoadError(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps": [{"action": "load", "sketch": "garbage"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, r, newTestSession(), nil)
	if r.Err() == nil {
		t.Error("Err = nil, want decode error")
	}
}

func TestRunnerWait(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 5},
		{"action": "screenshot", "label": "late"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession()
	frames := 0
	shotAt := -1
	for !r.Done() && frames < 100 {
		r.Step(s, func(string) { shotAt = frames })
		s.Update(frame)
		frames++
	}
	if shotAt != 5 {
		t.Errorf("screenshot at frame %d, want 5", shotAt)
	}
}
