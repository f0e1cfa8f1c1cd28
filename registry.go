package gesture

import (
	"fmt"
	"slices"
)

// Callback receives a matched gesture.
type Callback func(GestureContext)

// GestureContext is passed to callbacks. State is a copy of the output
// snapshot of the update that matched; changing it does not affect the
// recognizer or other callbacks.
type GestureContext struct {
	Gesture string
	Trigger Trigger
	Target  Target
	State   EventState
}

// --- Subscription registry ---

type subscription struct {
	id   uint32
	fn   Callback
	refs int
}

// targetSubscriptions maps gesture types to callbacks for one target. types
// keeps first-subscription order so dispatch is deterministic.
type targetSubscriptions struct {
	types  []string
	byType map[string][]subscription
}

type subscriptionRegistry struct {
	targets map[Target]*targetSubscriptions
	order   []Target
	nextID  uint32
}

// CallbackHandle identifies one registered callback.
type CallbackHandle struct {
	id      uint32
	target  Target
	gesture string
	r       *Recognizer
}

// Gesture returns the gesture type the callback is registered for.
func (h CallbackHandle) Gesture() string { return h.gesture }

// Target returns the target the callback is registered on.
func (h CallbackHandle) Target() Target { return h.target }

// Remove unregisters the callback. It is shorthand for Recognizer.Unregister.
func (h CallbackHandle) Remove() error {
	if h.r == nil {
		return fmt.Errorf("unregister: %w", ErrCallbackNotFound)
	}
	return h.r.Unregister(h)
}

func (s *subscriptionRegistry) add(target Target, gesture string, fn Callback) uint32 {
	if s.targets == nil {
		s.targets = make(map[Target]*targetSubscriptions)
	}
	ts, ok := s.targets[target]
	if !ok {
		ts = &targetSubscriptions{byType: make(map[string][]subscription)}
		s.targets[target] = ts
		s.order = append(s.order, target)
	}
	if _, ok := ts.byType[gesture]; !ok {
		ts.types = append(ts.types, gesture)
	}
	s.nextID++
	ts.byType[gesture] = append(ts.byType[gesture], subscription{id: s.nextID, fn: fn, refs: 1})
	return s.nextID
}

// find returns the subscription slot for a handle.
func (s *subscriptionRegistry) find(target Target, gesture string, id uint32) (*targetSubscriptions, int) {
	ts, ok := s.targets[target]
	if !ok {
		return nil, -1
	}
	subs := ts.byType[gesture]
	for i := range subs {
		if subs[i].id == id {
			return ts, i
		}
	}
	return nil, -1
}

// remove drops the subscription at index i and prunes empty entries.
func (s *subscriptionRegistry) remove(target Target, ts *targetSubscriptions, gesture string, i int) {
	subs := ts.byType[gesture]
	copy(subs[i:], subs[i+1:])
	subs[len(subs)-1] = subscription{}
	subs = subs[:len(subs)-1]
	if len(subs) > 0 {
		ts.byType[gesture] = subs
		return
	}
	delete(ts.byType, gesture)
	if j := slices.Index(ts.types, gesture); j >= 0 {
		ts.types = slices.Delete(ts.types, j, j+1)
	}
	if len(ts.types) == 0 {
		delete(s.targets, target)
		if j := slices.Index(s.order, target); j >= 0 {
			s.order = slices.Delete(s.order, j, j+1)
		}
	}
}

// count returns the number of callbacks registered for gesture on target.
func (s *subscriptionRegistry) count(target Target, gesture string) int {
	ts, ok := s.targets[target]
	if !ok {
		return 0
	}
	return len(ts.byType[gesture])
}

// --- Registration API ---

// Register subscribes fn to gesture on target. It fails with
// ErrUnknownGesture, leaving the registry unchanged, when gesture has no
// condition.
func (r *Recognizer) Register(target Target, gesture string, fn Callback) (CallbackHandle, error) {
	if !r.conds.Has(gesture) {
		return CallbackHandle{}, fmt.Errorf("register %q: %w", gesture, ErrUnknownGesture)
	}
	if fn == nil {
		return CallbackHandle{}, fmt.Errorf("register %q: nil callback", gesture)
	}
	id := r.subs.add(target, gesture, fn)
	return CallbackHandle{id: id, target: target, gesture: gesture, r: r}, nil
}

// Retain registers an already registered callback again. The duplicate is a
// no-op apart from a warning: the callback still fires once per match, and
// it takes one extra Unregister before it is removed.
func (r *Recognizer) Retain(h CallbackHandle) error {
	ts, i := r.subs.find(h.target, h.gesture, h.id)
	if ts == nil {
		return fmt.Errorf("retain %q: %w", h.gesture, ErrCallbackNotFound)
	}
	sub := &ts.byType[h.gesture][i]
	sub.refs++
	r.logger.Warn("duplicate gesture registration", "gesture", h.gesture, "refs", sub.refs)
	return nil
}

// Unregister releases a callback. It fails with ErrCallbackNotFound when the
// handle is not registered.
func (r *Recognizer) Unregister(h CallbackHandle) error {
	ts, i := r.subs.find(h.target, h.gesture, h.id)
	if ts == nil {
		return fmt.Errorf("unregister %q: %w", h.gesture, ErrCallbackNotFound)
	}
	sub := &ts.byType[h.gesture][i]
	sub.refs--
	if sub.refs > 0 {
		return nil
	}
	r.subs.remove(h.target, ts, h.gesture, i)
	return nil
}

// Subscribed returns the gesture types subscribed on target in
// first-subscription order.
func (r *Recognizer) Subscribed(target Target) []string {
	ts, ok := r.subs.targets[target]
	if !ok {
		return nil
	}
	return slices.Clone(ts.types)
}

// Targets returns every target holding a subscription, in the order of
// their first registration.
func (r *Recognizer) Targets() []Target {
	return slices.Clone(r.subs.order)
}

func (r *Recognizer) resolveTargets(targets []Target) []Target {
	if len(targets) > 0 {
		return targets
	}
	return r.Targets()
}

// Registered reports whether h is still registered.
func (r *Recognizer) Registered(h CallbackHandle) bool {
	ts, _ := r.subs.find(h.target, h.gesture, h.id)
	return ts != nil
}
