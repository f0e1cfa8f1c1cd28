package gesture

import "slices"

// Dispatch evaluates every gesture type subscribed on target against the
// last published transition and invokes the matching callbacks in
// subscription order. It returns the number of callbacks invoked.
//
// The primitives call Dispatch themselves; call it directly only to replay
// the last transition on another target.
func (r *Recognizer) Dispatch(trigger Trigger, target Target) int {
	ts, ok := r.subs.targets[target]
	if !ok {
		return 0
	}
	fired := 0
	for _, gesture := range slices.Clone(ts.types) {
		cond, ok := r.conds.Get(gesture)
		if !ok {
			r.warnOrphaned(gesture)
			continue
		}
		if !cond(&r.output, &r.previous, trigger) {
			continue
		}
		if r.debug {
			r.logger.Debug("gesture", "type", gesture, "trigger", trigger.String(),
				"pointer", int(r.output.PointerID), "pointers", r.output.PointerCount)
		}
		for _, sub := range slices.Clone(ts.byType[gesture]) {
			sub.fn(GestureContext{Gesture: gesture, Trigger: trigger, Target: target, State: r.output.Clone()})
			fired++
		}
		r.emitGestureEvent(gesture, trigger, target)
	}
	return fired
}

// warnOrphaned logs once per gesture type that is subscribed but has no
// condition.
func (r *Recognizer) warnOrphaned(gesture string) {
	if r.orphaned[gesture] {
		return
	}
	if r.orphaned == nil {
		r.orphaned = make(map[string]bool)
	}
	r.orphaned[gesture] = true
	r.logger.Warn("gesture subscribed without condition", "gesture", gesture)
}

// --- ECS bridge ---

func (r *Recognizer) emitGestureEvent(gesture string, trigger Trigger, target Target) {
	if r.sink == nil {
		return
	}
	s := &r.output
	r.sink.EmitGesture(GestureEvent{
		Gesture:      gesture,
		Trigger:      trigger,
		Target:       target,
		PointerID:    s.PointerID,
		X:            s.Pointer.Location.X,
		Y:            s.Pointer.Location.Y,
		DeltaX:       s.Pointer.Displacement.X,
		DeltaY:       s.Pointer.Displacement.Y,
		VelocityX:    s.Pointer.Velocity.X,
		VelocityY:    s.Pointer.Velocity.Y,
		Scale:        s.Scale,
		DeltaAngle:   s.DeltaAngle,
		MidX:         s.Midpoint.X,
		MidY:         s.Midpoint.Y,
		ClickCount:   s.ClickCount,
		PointerCount: s.PointerCount,
		Time:         s.Time,
	})
}
