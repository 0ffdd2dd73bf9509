// Package ecs bridges scribble session events into ECS worlds.
//
// The primary adapter is [NewDonburiSink], which publishes every session
// [scribble.Event] (strokes, undo, replay progress, saves) into a [Donburi]
// world as typed events. Subscribe to [SketchEventType] in your ECS systems
// to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	session.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
