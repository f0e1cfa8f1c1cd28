// Package gesture recognizes pointer gestures from raw pointer primitives.
//
// A [Recognizer] consumes down, move, up and cancel primitives for any
// number of pointers, keeps an aggregate [EventState] (per-pointer location,
// displacement and velocity, two-pointer scale and rotation, click runs) and
// classifies each transition against a registry of named [Condition]s.
// Callbacks subscribe per target and gesture type and receive the output
// snapshot of the transition that matched.
//
// # Quick start
//
//	r := gesture.New(gesture.Options{})
//	r.Register(button, gesture.GestureDoubleClick, func(ctx gesture.GestureContext) {
//		fmt.Println("double click at", ctx.State.Pointer.Location)
//	})
//
//	// From the input surface, once per raw event:
//	r.PointerDown(id, x, y, ev, button)
//	r.PointerMove(id, x, y, ev, button)
//	r.PointerUp(id, ev, button)
//
//	// Once per frame, so long touch and velocity decay fire on time:
//	r.Tick()
//
// Passing no targets to a primitive dispatches to every target holding a
// subscription.
//
// # Gestures
//
// [DefaultConditions] registers press, release, click, doubleclick,
// longtouch, move, drag (start, move, end, cancel, left, right, up, down),
// doubledrag (start, move, end, cancel), swipe (left, right, up, down),
// pinch (start, move, end, cancel, in, out) and rotate (start, move, end,
// cancel). Add or override gestures with [Recognizer.SetCondition]:
//
//	r.SetCondition("tripleclick", func(cur, prev *gesture.EventState, t gesture.Trigger) bool {
//		return r.Conditions().Eval(gesture.GestureClick, cur, prev, t) && cur.ClickCount == 3
//	})
//
// # Timing
//
// A Recognizer never starts goroutines. Long touch and velocity decay are
// delayed tasks that run when the next primitive arrives or when
// [Recognizer.Tick] is called, in deadline order, on the caller's
// goroutine. Adapters for Ebitengine (gesture/ebitensource) and for
// browsers over a websocket (cmd/gestured) drive Tick for you.
//
// # ECS
//
// Set an [EventSink] with [Recognizer.SetEventSink] to receive every
// dispatched gesture as a [GestureEvent]; gesture/ecs provides a
// [Donburi] sink.
//
// [Donburi]: https://github.com/yohamta/donburi
package gesture
