// Package scribble is a vibrating sketchpad engine for [Ebitengine].
//
// Strokes are drawn as quadratic curves through the midpoints of sampled
// points. Every point keeps the position the user drew (its normal) and an
// animated position that is pulled back toward the normal each frame and
// kicked randomly once it settles, so the drawing never stops trembling.
// A scalar perspective shears every stroke around the canvas center by how
// far its own perspective is from the global one, which reads as a rotation
// in depth.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	session := scribble.NewSession(scribble.DefaultConfig())
//	scribble.Run(session, scribble.RunConfig{Title: "Sketch"})
//
// For full control, drive a [Session] yourself. It only needs an
// [InputState] per frame and a [Canvas] to draw on:
//
//	session.HandleInput(in)
//	session.Update(1.0 / 60)
//	session.Draw(canvas)
//
// # Saving and replaying
//
// [Encode] flattens a sketch into a compact JSON payload and [Decode] reads
// it back, accepting both the short and the older long field names.
// [Session.Load] replays a payload: the drawing redraws itself a few points
// per tick while the perspective eases from line to line. Any key press or
// canvas press finishes the replay at once.
//
// [Session.SaveAsync] and [Session.LoadAsync] talk to a [Persistence]
// implementation (see the persist package) without ever blocking a frame.
//
// # Events
//
// Set an [EventSink] with [Session.SetEventSink] to observe strokes, undo,
// replay progress and saves. The ecs package bridges them into a [Donburi]
// world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package scribble
