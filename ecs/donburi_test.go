package ecs

import (
	"testing"

	"github.com/phanxgames/scribble"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []scribble.Event
	SketchEventType.Subscribe(world, func(w donburi.World, e scribble.Event) {
		received = append(received, e)
	})

	sink.EmitEvent(scribble.Event{Type: scribble.EventPointAppended, Line: 2, X: 100, Y: 200})
	sink.EmitEvent(scribble.Event{Type: scribble.EventSaved, Line: -1, ID: "abc"})

	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	SketchEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != scribble.EventPointAppended || e.Line != 2 || e.X != 100 || e.Y != 200 {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != scribble.EventSaved || e.ID != "abc" {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	SketchEventType.Subscribe(world, func(w donburi.World, e scribble.Event) { count1++ })
	SketchEventType.Subscribe(world, func(w donburi.World, e scribble.Event) { count2++ })

	sink.EmitEvent(scribble.Event{Type: scribble.EventReset})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestCountStrokes_FromSession(t *testing.T) {
	world := donburi.NewWorld()
	entry := CountStrokes(world)

	cfg := scribble.DefaultConfig()
	cfg.Seed = 7
	s := scribble.NewSession(cfg)
	s.SetEventSink(NewDonburiSink(world))

	s.InjectStroke(100, 100, 200, 100, 10)
	s.InjectStroke(100, 300, 200, 300, 10)
	s.InjectUndo()
	for s.InjectPending() > 0 {
		s.Update(1.0 / 60)
	}
	events.ProcessAllEvents(world)

	c := StrokeCounterComponent.Get(entry)
	if c.Lines != 2 {
		t.Errorf("Lines = %d, want 2", c.Lines)
	}
	if c.Undone != 1 {
		t.Errorf("Undone = %d, want 1", c.Undone)
	}
	if c.Points < 4 {
		t.Errorf("Points = %d, want at least 4", c.Points)
	}
}
