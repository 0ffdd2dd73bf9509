package scribble

import "time"

// replayTimer is a one-shot timer driven by frame time. It fires once per
// arm; the owner re-arms it after handling a tick, so stopping the owner
// never leaves a periodic timer behind.
//
// Re-arming right after a fire keeps the overshoot, so the tick rate holds
// at one per interval whatever the frame rate.
type replayTimer struct {
	interval  time.Duration
	remaining time.Duration
	armed     bool
	fired     bool
}

func (t *replayTimer) arm() {
	if t.fired {
		t.remaining += t.interval
	} else {
		t.remaining = t.interval
	}
	t.armed = true
	t.fired = false
}

func (t *replayTimer) stop() {
	t.armed = false
	t.fired = false
}

// advance consumes dt and reports whether the timer fired.
func (t *replayTimer) advance(dt time.Duration) bool {
	if !t.armed {
		return false
	}
	t.remaining -= dt
	if t.remaining > 0 {
		return false
	}
	t.armed = false
	t.fired = true
	return true
}
