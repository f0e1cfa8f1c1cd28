// Package ecs provides ECS adapters for gesture's recognizer.
//
// The primary adapter is [NewDonburiStore], which bridges dispatched
// gestures (click, drag, swipe, pinch, rotate and the rest) into a
// [Donburi] world as typed events. Subscribe to [GestureEventType] in your
// ECS systems to receive them. [NewDonburiStoreFor] publishes only the
// gestures of selected targets.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	recognizer.SetEventSink(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
