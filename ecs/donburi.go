package ecs

import (
	"github.com/phanxgames/scribble"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SketchEventType is the Donburi event type for scribble session events.
var SketchEventType = events.NewEventType[scribble.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on SketchEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) scribble.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event scribble.Event) {
	SketchEventType.Publish(s.world, event)
}

// StrokeCounter is a component tracking how many lines and points a world
// has seen. Attach it with CountStrokes.
type StrokeCounter struct {
	Lines   int
	Points  int
	Undone  int
	Replays int
}

// StrokeCounterComponent is the Donburi component type for StrokeCounter.
var StrokeCounterComponent = donburi.NewComponentType[StrokeCounter]()

// CountStrokes creates an entity holding a StrokeCounter and subscribes it
// to SketchEventType. The returned entry is updated on every ProcessEvents.
func CountStrokes(world donburi.World) *donburi.Entry {
	entity := world.Create(StrokeCounterComponent)
	entry := world.Entry(entity)
	SketchEventType.Subscribe(world, func(w donburi.World, e scribble.Event) {
		c := StrokeCounterComponent.Get(entry)
		switch e.Type {
		case scribble.EventLineBegun:
			c.Lines++
		case scribble.EventPointAppended:
			c.Points++
		case scribble.EventLinePopped:
			c.Undone++
		case scribble.EventReplayStarted:
			c.Replays++
		}
	})
	return entry
}
