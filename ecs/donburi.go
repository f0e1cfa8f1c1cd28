package ecs

import (
	"github.com/phanxgames/gesture"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEventType is the Donburi event type for dispatched gestures.
var GestureEventType = events.NewEventType[gesture.GestureEvent]()

// gestureSink publishes recognizer output into a world. A nil filter
// publishes every gesture.
type gestureSink struct {
	world  donburi.World
	filter map[gesture.Target]bool
}

// NewDonburiStore creates an EventSink backed by a Donburi world.
// Gestures are published to GestureEventType and reach subscribers on the
// next ProcessEvents (or events.ProcessAllEvents) of the world.
func NewDonburiStore(world donburi.World) gesture.EventSink {
	return &gestureSink{world: world}
}

// NewDonburiStoreFor is like NewDonburiStore but only publishes gestures
// dispatched on one of targets, leaving the rest to plain callbacks.
func NewDonburiStoreFor(world donburi.World, targets ...gesture.Target) gesture.EventSink {
	filter := make(map[gesture.Target]bool, len(targets))
	for _, t := range targets {
		filter[t] = true
	}
	return &gestureSink{world: world, filter: filter}
}

func (s *gestureSink) EmitGesture(event gesture.GestureEvent) {
	if s.filter != nil && !s.filter[event.Target] {
		return
	}
	GestureEventType.Publish(s.world, event)
}
