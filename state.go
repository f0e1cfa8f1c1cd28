package gesture

import (
	"sort"
	"time"
)

// --- Per-pointer state ---

// PointerInfo is the tracked state of one active pointer.
type PointerInfo struct {
	// Moved is set once the pointer has left the movement threshold around
	// its start location.
	Moved bool
	// FirstMove is true only on the update in which Moved became true.
	FirstMove bool
	// Velocity is in pixels per millisecond. It decays to zero when no
	// recognized move arrives within the velocity decay window.
	Velocity Vec2
	// Displacement is Location - StartLocation.
	Displacement  Vec2
	Location      Vec2
	StartLocation Vec2
	DownTime      time.Time
}

// --- Aggregate state ---

// EventState is a snapshot of the whole recognizer at one instant.
//
// The recognizer keeps three of them: the current state it mutates, the
// previous state captured just before an update and the output state handed
// to callbacks. Callbacks receive copies; they must treat the Pointers map
// as read-only.
type EventState struct {
	Time time.Time
	Type Trigger

	// Two-pointer derived values. Scale and DeltaAngle hold 1 and 0 while
	// fewer than two pointers are down.
	Scale      float64
	DeltaAngle float64 // degrees, in (-180, 180]
	Midpoint   Vec2

	// MaxPoint is the highest PointerCount seen since the first pointer went
	// down. It returns to 0 with PointerCount.
	MaxPoint int

	ClickCount        int
	LastClickTime     time.Time
	LastClickLocation Vec2

	IsPinch     bool
	PinchStart  bool // edge: true only on the update IsPinch became true
	IsRotate    bool
	RotateStart bool // edge: true only on the update IsRotate became true

	// Captured when the second pointer arrives.
	StartSpan  float64
	StartAngle float64
	StartTime  time.Time // first pointer down

	Pointers map[PointerID]PointerInfo

	// PointerID and Pointer describe the pointer that triggered this update.
	// On up and cancel Pointer holds the final state of the removed pointer.
	PointerID PointerID
	Pointer   PointerInfo

	PointerCount int

	// Raw is the originating input event, passed through unchanged.
	Raw any
}

func newEventState() EventState {
	return EventState{
		Scale:    1,
		Pointers: make(map[PointerID]PointerInfo),
	}
}

// Clone returns a copy of s that shares no mutable storage with it.
func (s *EventState) Clone() EventState {
	c := *s
	c.Pointers = make(map[PointerID]PointerInfo, len(s.Pointers))
	for id, p := range s.Pointers {
		c.Pointers[id] = p
	}
	return c
}

// Elapsed returns the time since the first pointer of the current sequence
// went down.
func (s *EventState) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return s.Time.Sub(s.StartTime)
}

// pointerIDs returns the active pointer ids in ascending order.
func (s *EventState) pointerIDs() []PointerID {
	ids := make([]PointerID, 0, len(s.Pointers))
	for id := range s.Pointers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// pairIDs returns the ids of the two lowest-ordered active pointers.
func (s *EventState) pairIDs() ([2]PointerID, bool) {
	if len(s.Pointers) < 2 {
		return [2]PointerID{}, false
	}
	ids := s.pointerIDs()
	return [2]PointerID{ids[0], ids[1]}, true
}

// pair returns the locations of the two lowest-ordered active pointers.
func (s *EventState) pair() (Vec2, Vec2, bool) {
	ids, ok := s.pairIDs()
	if !ok {
		return Vec2{}, Vec2{}, false
	}
	return s.Pointers[ids[0]].Location, s.Pointers[ids[1]].Location, true
}

// anyMoved reports whether any active pointer, or the triggering pointer,
// has a recognized move.
func (s *EventState) anyMoved() bool {
	if s.Pointer.Moved {
		return true
	}
	for _, p := range s.Pointers {
		if p.Moved {
			return true
		}
	}
	return false
}

func (s *EventState) resetTwoPointer() {
	s.Scale = 1
	s.DeltaAngle = 0
	s.IsPinch = false
	s.PinchStart = false
	s.IsRotate = false
	s.RotateStart = false
}
