package scribble

// EventType identifies a kind of session event.
type EventType uint8

const (
	EventLineBegun       EventType = iota // a new line was started
	EventPointAppended                    // a point was added by drawing or replay
	EventLinePopped                       // the last line was undone
	EventReplayStarted                    // a loaded sketch began replaying
	EventReplayFinishing                  // all points replayed, perspective still easing
	EventReplayFinished                   // replay completed on its own
	EventReplayCancelled                  // replay was force-completed by user input
	EventSaved                            // the sketch was stored; ID is set
	EventSaveFailed                       // storing the sketch failed
	EventLoadFailed                       // loading or decoding a sketch failed
	EventReset                            // the session was cleared
)

var eventNames = [...]string{
	EventLineBegun:       "line-begun",
	EventPointAppended:   "point-appended",
	EventLinePopped:      "line-popped",
	EventReplayStarted:   "replay-started",
	EventReplayFinishing: "replay-finishing",
	EventReplayFinished:  "replay-finished",
	EventReplayCancelled: "replay-cancelled",
	EventSaved:           "saved",
	EventSaveFailed:      "save-failed",
	EventLoadFailed:      "load-failed",
	EventReset:           "reset",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event carries session activity to an EventSink.
type Event struct {
	Type        EventType
	Line        int // index of the affected line, -1 when not applicable
	X, Y        float64
	Perspective float64
	ID          string // sketch identifier for EventSaved
	Err         error  // cause for the failure events
}

// EventSink is the interface for optional event forwarding, for example
// into an ECS world. Events are emitted on the frame timeline.
type EventSink interface {
	EmitEvent(event Event)
}
