package gesture

import (
	"math"
	"time"
)

// --- Primitives ---

// PointerDown records a pointer press at (x, y) and dispatches TriggerDown
// to targets. With no targets, every target holding a subscription is
// dispatched. raw is passed through to callbacks untouched.
func (r *Recognizer) PointerDown(id PointerID, x, y float64, raw any, targets ...Target) {
	now := r.advance()
	r.onPointerDown(id, Vec2{x, y}, raw, now)

	targets = r.resolveTargets(targets)
	for _, t := range targets {
		r.Dispatch(TriggerDown, t)
	}
	if r.current.PointerCount == 1 {
		for _, t := range targets {
			r.armLongTouch(t, now)
		}
	} else {
		r.timers.cancelKind(timerLongTouch)
	}
}

// PointerMove records a pointer move to (x, y). Moves within the movement
// threshold of the pointer's start location, and moves of pointers that are
// not down, change nothing and dispatch nothing.
func (r *Recognizer) PointerMove(id PointerID, x, y float64, raw any, targets ...Target) {
	now := r.advance()
	if !r.onPointerMove(id, Vec2{x, y}, raw, now) {
		return
	}
	for _, t := range r.resolveTargets(targets) {
		r.Dispatch(TriggerMove, t)
	}
}

// PointerUp records a pointer release. Unknown pointers are ignored.
func (r *Recognizer) PointerUp(id PointerID, raw any, targets ...Target) {
	now := r.advance()
	if !r.removePointer(id, TriggerUp, raw, now) {
		return
	}
	for _, t := range r.resolveTargets(targets) {
		r.Dispatch(TriggerUp, t)
	}
	r.timers.cancelKind(timerLongTouch)
}

// PointerCancel records that the input surface abandoned a pointer. It
// removes the pointer like PointerUp but never counts a click.
func (r *Recognizer) PointerCancel(id PointerID, raw any, targets ...Target) {
	now := r.advance()
	if !r.removePointer(id, TriggerCancel, raw, now) {
		return
	}
	for _, t := range r.resolveTargets(targets) {
		r.Dispatch(TriggerCancel, t)
	}
	r.timers.cancelKind(timerLongTouch)
}

// --- Snapshots ---

// begin captures the previous snapshot and clears the edge flags of the
// current state.
func (r *Recognizer) begin(now time.Time) {
	r.previous = r.current.Clone()
	r.previous.Time = now

	cur := &r.current
	cur.PinchStart = false
	cur.RotateStart = false
	for id, p := range cur.Pointers {
		if p.FirstMove {
			p.FirstMove = false
			cur.Pointers[id] = p
		}
	}
	cur.Pointer.FirstMove = false
}

// publish copies the current state to the output snapshot.
func (r *Recognizer) publish(raw any) {
	r.current.Raw = raw
	r.output = r.current.Clone()
}

// --- State engine ---

func (r *Recognizer) onPointerDown(id PointerID, loc Vec2, raw any, now time.Time) {
	r.begin(now)
	cur := &r.current

	if cur.PointerCount == 0 {
		cur.StartTime = now
	}
	info := PointerInfo{Location: loc, StartLocation: loc, DownTime: now}
	cur.Pointers[id] = info
	cur.PointerCount = len(cur.Pointers)
	cur.MaxPoint = max(cur.MaxPoint, cur.PointerCount)
	switch {
	case cur.PointerCount == 2:
		r.captureStart()
	case cur.PointerCount > 2:
		r.syncPair()
	}

	cur.Time = now
	cur.Type = TriggerDown
	cur.PointerID = id
	cur.Pointer = info
	r.timers.cancel(timerKey{kind: timerVelocityDecay, pointer: id})
	r.publish(raw)
}

func (r *Recognizer) onPointerMove(id PointerID, loc Vec2, raw any, now time.Time) bool {
	cur := &r.current
	if cur.PointerCount < 1 {
		return false
	}
	p, ok := cur.Pointers[id]
	if !ok {
		return false
	}
	disp := loc.Sub(p.StartLocation)
	if disp.Length() <= r.cfg.MovementThreshold {
		return false
	}

	// Velocity is measured against the last published state.
	var vel Vec2
	if dt := now.Sub(cur.Time); dt > 0 {
		ms := float64(dt) / float64(time.Millisecond)
		vel = loc.Sub(p.Location).Scale(1 / ms)
	}

	r.begin(now)
	p.FirstMove = !p.Moved
	p.Moved = true
	p.Location = loc
	p.Displacement = disp
	p.Velocity = vel
	cur.Pointers[id] = p

	cur.Time = now
	cur.Type = TriggerMove
	cur.PointerID = id
	cur.Pointer = p
	r.armDecay(id, now)

	if cur.PointerCount >= 2 {
		r.updateTwoPointer()
	}
	r.publish(raw)
	return true
}

// removePointer is the shared bookkeeping of up and cancel.
func (r *Recognizer) removePointer(id PointerID, trigger Trigger, raw any, now time.Time) bool {
	cur := &r.current
	p, ok := cur.Pointers[id]
	if !ok {
		return false
	}

	r.begin(now)
	before := cur.PointerCount
	delete(cur.Pointers, id)
	cur.PointerCount = len(cur.Pointers)
	r.timers.cancel(timerKey{kind: timerVelocityDecay, pointer: id})

	cur.Time = now
	cur.Type = trigger
	cur.PointerID = id
	cur.Pointer = p

	if trigger == TriggerUp {
		r.countClick(p, now)
	}
	switch {
	case cur.PointerCount < 2:
		cur.resetTwoPointer()
	case cur.PointerCount == 2 && before > 2:
		// Restart from the remaining two.
		r.captureStart()
	default:
		r.syncPair()
	}
	if cur.PointerCount == 0 {
		cur.MaxPoint = 0
	}
	r.publish(raw)
	return true
}

// countClick updates the click run for a released pointer. It must run
// before MaxPoint is reset.
func (r *Recognizer) countClick(p PointerInfo, now time.Time) {
	cur := &r.current
	if p.Moved || cur.MaxPoint != 1 || now.Sub(p.DownTime) > r.cfg.ClickWindow {
		cur.ClickCount = 0
		return
	}
	if cur.ClickCount > 0 &&
		Distance(p.Location, cur.LastClickLocation) <= r.cfg.ClickProximity &&
		now.Sub(cur.LastClickTime) <= r.cfg.ClickWindow {
		cur.ClickCount++
	} else {
		cur.ClickCount = 1
	}
	cur.LastClickTime = now
	cur.LastClickLocation = p.Location
}

// captureStart records the initial span, angle and midpoint of the two
// lowest-ordered pointers and resets the two-pointer values.
func (r *Recognizer) captureStart() {
	cur := &r.current
	a, b, ok := cur.pair()
	if !ok {
		return
	}
	r.startPair, _ = cur.pairIDs()
	cur.StartSpan = Distance(a, b)
	cur.StartAngle = ReferenceAngle(a, b)
	cur.Midpoint = Midpoint(a, b)
	cur.resetTwoPointer()
}

// syncPair recaptures the start values when the two lowest-ordered
// pointers are no longer the pair they were captured from, so scale and
// rotation never compare spans of different pairs.
func (r *Recognizer) syncPair() {
	if ids, ok := r.current.pairIDs(); ok && ids != r.startPair {
		r.captureStart()
	}
}

// updateTwoPointer recomputes scale, rotation and midpoint and applies the
// pinch and rotate hysteresis. Once active, pinch and rotate stay active
// until fewer than two pointers remain.
func (r *Recognizer) updateTwoPointer() {
	cur := &r.current
	a, b, ok := cur.pair()
	if !ok {
		return
	}
	if cur.StartSpan == 0 {
		// Both pointers started on the same spot; no usable reference yet.
		r.captureStart()
		return
	}
	cur.Scale = Distance(a, b) / cur.StartSpan
	cur.DeltaAngle = normalizeAngle(ReferenceAngle(a, b) - cur.StartAngle)
	cur.Midpoint = Midpoint(a, b)

	if !cur.IsPinch && math.Abs(cur.Scale-1) > r.cfg.ScaleThreshold {
		cur.IsPinch = true
		cur.PinchStart = true
	}
	if !cur.IsRotate && math.Abs(cur.DeltaAngle) > r.cfg.AngleThreshold {
		cur.IsRotate = true
		cur.RotateStart = true
	}
}

// --- Timers ---

// armDecay (re)schedules the velocity reset of a pointer.
func (r *Recognizer) armDecay(id PointerID, now time.Time) {
	r.timers.schedule(timerKey{kind: timerVelocityDecay, pointer: id}, now.Add(r.cfg.VelocityDecay), func(time.Time) {
		cur := &r.current
		p, ok := cur.Pointers[id]
		if !ok {
			return
		}
		p.Velocity = Vec2{}
		cur.Pointers[id] = p
		if cur.PointerID == id {
			cur.Pointer.Velocity = Vec2{}
		}
	})
}

// armLongTouch (re)schedules the long-touch dispatch for target.
func (r *Recognizer) armLongTouch(target Target, now time.Time) {
	r.timers.schedule(timerKey{kind: timerLongTouch, target: target}, now.Add(r.cfg.LongTouchDelay), func(at time.Time) {
		r.fireLongTouch(target, at)
	})
}

func (r *Recognizer) fireLongTouch(target Target, at time.Time) {
	cur := &r.current
	if cur.PointerCount == 0 {
		return
	}
	r.begin(at)
	cur.Time = at
	cur.Type = TriggerLongTouch
	if p, ok := cur.Pointers[cur.PointerID]; ok {
		cur.Pointer = p
	}
	r.publish(cur.Raw)
	r.Dispatch(TriggerLongTouch, target)
}
