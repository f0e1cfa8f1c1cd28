package gesture

import "fmt"

// Vec2 is a 2D vector used for locations, displacements and velocities
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// PointerID identifies one pointer (mouse, pen or finger) for the lifetime
// of a down..up sequence.
type PointerID int

// Target is any comparable value that callbacks are subscribed on, typically
// a pointer to a UI element. Using a non-comparable value panics.
type Target = any

// Trigger identifies the raw lifecycle phase that started an update and
// dispatch cycle. It doubles as the event-type tag stored in EventState.
type Trigger uint8

const (
	TriggerNone      Trigger = iota // no update has happened yet
	TriggerDown                     // a pointer was pressed
	TriggerMove                     // a pointer moved beyond the movement threshold
	TriggerUp                       // a pointer was released
	TriggerCancel                   // a pointer was cancelled by the input surface
	TriggerLongTouch                // the long-touch timer fired
)

var triggerNames = [...]string{
	TriggerNone:      "none",
	TriggerDown:      "down",
	TriggerMove:      "move",
	TriggerUp:        "up",
	TriggerCancel:    "cancel",
	TriggerLongTouch: "longtouch",
}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return fmt.Sprintf("Trigger(%d)", t)
}

// ParseTrigger returns the Trigger whose String form is s.
func ParseTrigger(s string) (Trigger, bool) {
	for i, name := range triggerNames {
		if name == s {
			return Trigger(i), true
		}
	}
	return TriggerNone, false
}

// Gesture type names registered by DefaultConditions.
const (
	GesturePress       = "press"
	GestureRelease     = "release"
	GestureClick       = "click"
	GestureDoubleClick = "doubleclick"
	GestureLongTouch   = "longtouch"
	GestureMove        = "move"

	GestureDrag       = "drag"
	GestureDragStart  = "dragstart"
	GestureDragMove   = "dragmove"
	GestureDragEnd    = "dragend"
	GestureDragCancel = "dragcancel"
	GestureDragLeft   = "dragleft"
	GestureDragRight  = "dragright"
	GestureDragUp     = "dragup"
	GestureDragDown   = "dragdown"

	GestureDoubleDragStart  = "doubledragstart"
	GestureDoubleDragMove   = "doubledragmove"
	GestureDoubleDragEnd    = "doubledragend"
	GestureDoubleDragCancel = "doubledragcancel"

	GestureSwipeLeft  = "swipeleft"
	GestureSwipeRight = "swiperight"
	GestureSwipeUp    = "swipeup"
	GestureSwipeDown  = "swipedown"

	GesturePinch       = "pinch"
	GesturePinchStart  = "pinchstart"
	GesturePinchMove   = "pinchmove"
	GesturePinchEnd    = "pinchend"
	GesturePinchCancel = "pinchcancel"
	GesturePinchIn     = "pinchin"
	GesturePinchOut    = "pinchout"

	GestureRotate       = "rotate"
	GestureRotateStart  = "rotatestart"
	GestureRotateMove   = "rotatemove"
	GestureRotateEnd    = "rotateend"
	GestureRotateCancel = "rotatecancel"
)
