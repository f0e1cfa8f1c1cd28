package gesture

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// Condition reports whether a gesture matches a state transition. cur is the
// published output snapshot, prev the snapshot taken just before the update
// and trigger the lifecycle phase that caused it. Conditions must not mutate
// either snapshot.
type Condition func(cur, prev *EventState, trigger Trigger) bool

// Conditions is a mutable registry of named gesture conditions. Conditions
// may refer to each other by name through Eval, so overriding one changes
// every condition built on it.
type Conditions struct {
	m      map[string]Condition
	order  []string
	logger *slog.Logger
}

// NewConditions returns an empty registry. A nil logger uses slog.Default.
func NewConditions(logger *slog.Logger) *Conditions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conditions{m: make(map[string]Condition), logger: logger}
}

// DefaultConditions returns a registry holding the stock gesture catalog,
// parameterized by cfg.
func DefaultConditions(cfg Config, logger *slog.Logger) *Conditions {
	c := NewConditions(logger)
	c.registerDefaults(cfg)
	return c
}

// Set adds or replaces the condition for name. Replacing an existing
// condition logs a warning. It reports whether a condition was replaced.
func (c *Conditions) Set(name string, cond Condition) bool {
	if cond == nil {
		panic(fmt.Sprintf("gesture: nil condition for %q", name))
	}
	_, replaced := c.m[name]
	if replaced {
		c.logger.Warn("gesture condition overwritten", "gesture", name)
	} else {
		c.order = append(c.order, name)
	}
	c.m[name] = cond
	return replaced
}

// Remove deletes the condition for name.
func (c *Conditions) Remove(name string) error {
	if _, ok := c.m[name]; !ok {
		return fmt.Errorf("remove condition %q: %w", name, ErrUnknownGesture)
	}
	delete(c.m, name)
	if i := slices.Index(c.order, name); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return nil
}

// Get returns the condition registered for name.
func (c *Conditions) Get(name string) (Condition, bool) {
	cond, ok := c.m[name]
	return cond, ok
}

// Has reports whether name is registered.
func (c *Conditions) Has(name string) bool {
	_, ok := c.m[name]
	return ok
}

// Names returns the registered gesture types in registration order.
func (c *Conditions) Names() []string {
	return slices.Clone(c.order)
}

// Eval evaluates the condition registered for name. Unknown names are false.
func (c *Conditions) Eval(name string, cur, prev *EventState, trigger Trigger) bool {
	cond, ok := c.m[name]
	if !ok {
		return false
	}
	return cond(cur, prev, trigger)
}

// --- Stock catalog ---

type direction uint8

const (
	dirNone direction = iota
	dirLeft
	dirRight
	dirUp
	dirDown
)

// dominantDirection classifies v by its larger axis. Ties have no
// direction.
func dominantDirection(v Vec2) direction {
	ax, ay := math.Abs(v.X), math.Abs(v.Y)
	switch {
	case ax > ay && v.X < 0:
		return dirLeft
	case ax > ay:
		return dirRight
	case ay > ax && v.Y < 0:
		return dirUp
	case ay > ax:
		return dirDown
	}
	return dirNone
}

func (c *Conditions) registerDefaults(cfg Config) {
	add := func(name string, cond Condition) {
		c.m[name] = cond
		c.order = append(c.order, name)
	}
	is := func(name string) Condition {
		return func(cur, prev *EventState, trigger Trigger) bool {
			return c.Eval(name, cur, prev, trigger)
		}
	}

	// Press / release / click.
	add(GesturePress, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerDown
	})
	add(GestureRelease, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerUp
	})
	add(GestureClick, func(cur, prev *EventState, trigger Trigger) bool {
		return is(GestureRelease)(cur, prev, trigger) && cur.PointerCount == 0 && cur.ClickCount >= 1
	})
	add(GestureDoubleClick, func(cur, prev *EventState, trigger Trigger) bool {
		return is(GestureClick)(cur, prev, trigger) && cur.ClickCount > 0 && cur.ClickCount%2 == 0
	})
	add(GestureLongTouch, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerLongTouch &&
			cur.Elapsed() >= cfg.LongTouchDelay &&
			cur.MaxPoint == 1 && cur.PointerCount == 1 &&
			!cur.Pointer.Moved
	})
	add(GestureMove, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerMove && cur.Pointer.Moved
	})

	// Single-pointer drag.
	add(GestureDragStart, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerMove && cur.MaxPoint == 1 && cur.Pointer.FirstMove
	})
	add(GestureDragMove, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerMove && cur.MaxPoint == 1 && cur.Pointer.Moved
	})
	// MaxPoint is already reset when the last pointer lifts, so the ending
	// variants gate on the snapshot taken before the update.
	add(GestureDragEnd, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerUp && prev.MaxPoint == 1 && cur.Pointer.Moved
	})
	add(GestureDragCancel, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerCancel && prev.MaxPoint == 1 && cur.Pointer.Moved
	})
	dragDir := func(d direction) Condition {
		return func(cur, prev *EventState, trigger Trigger) bool {
			return is(GestureDragMove)(cur, prev, trigger) && dominantDirection(cur.Pointer.Displacement) == d
		}
	}
	add(GestureDragLeft, dragDir(dirLeft))
	add(GestureDragRight, dragDir(dirRight))
	add(GestureDragUp, dragDir(dirUp))
	add(GestureDragDown, dragDir(dirDown))

	// Two-pointer drag.
	add(GestureDoubleDragStart, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerMove && cur.MaxPoint == 2 && cur.PointerCount == 2 && cur.Pointer.FirstMove
	})
	add(GestureDoubleDragMove, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerMove && cur.MaxPoint == 2 && cur.PointerCount == 2 && cur.Pointer.Moved
	})
	add(GestureDoubleDragEnd, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerUp && prev.MaxPoint == 2 && prev.PointerCount == 2 && prev.anyMoved()
	})
	add(GestureDoubleDragCancel, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerCancel && prev.MaxPoint == 2 && prev.PointerCount == 2 && prev.anyMoved()
	})
	add(GestureDrag, func(cur, prev *EventState, trigger Trigger) bool {
		return is(GestureDragMove)(cur, prev, trigger) || is(GestureDoubleDragMove)(cur, prev, trigger)
	})

	// Swipe: judged on the final release from the lifted pointer's
	// displacement and terminal velocity.
	swipe := func(d direction) Condition {
		return func(cur, prev *EventState, trigger Trigger) bool {
			if trigger != TriggerUp || cur.PointerCount != 0 || !cur.Pointer.Moved {
				return false
			}
			disp, vel := cur.Pointer.Displacement, cur.Pointer.Velocity
			minD, minV := cfg.SwipeMinDisplacement, cfg.SwipeMinVelocity
			ax, ay := math.Abs(disp.X), math.Abs(disp.Y)
			switch d {
			case dirLeft:
				return disp.X < -minD && ax > ay && vel.X < -minV
			case dirRight:
				return disp.X > minD && ax > ay && vel.X > minV
			case dirUp:
				return disp.Y < -minD && ay > ax && vel.Y < -minV
			case dirDown:
				return disp.Y > minD && ay > ax && vel.Y > minV
			}
			return false
		}
	}
	add(GestureSwipeLeft, swipe(dirLeft))
	add(GestureSwipeRight, swipe(dirRight))
	add(GestureSwipeUp, swipe(dirUp))
	add(GestureSwipeDown, swipe(dirDown))

	// Pinch.
	add(GesturePinchStart, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerMove && cur.PinchStart
	})
	add(GesturePinchMove, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerMove && cur.IsPinch
	})
	add(GesturePinchEnd, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerUp && prev.IsPinch && !cur.IsPinch
	})
	add(GesturePinchCancel, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerCancel && prev.IsPinch && !cur.IsPinch
	})
	add(GesturePinchIn, func(cur, prev *EventState, trigger Trigger) bool {
		return is(GesturePinchMove)(cur, prev, trigger) && cur.Scale < 1
	})
	add(GesturePinchOut, func(cur, prev *EventState, trigger Trigger) bool {
		return is(GesturePinchMove)(cur, prev, trigger) && cur.Scale > 1
	})
	add(GesturePinch, is(GesturePinchMove))

	// Rotate.
	add(GestureRotateStart, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerMove && cur.RotateStart
	})
	add(GestureRotateMove, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerMove && cur.IsRotate
	})
	add(GestureRotateEnd, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerUp && prev.IsRotate && !cur.IsRotate
	})
	add(GestureRotateCancel, func(cur, prev *EventState, trigger Trigger) bool {
		return trigger == TriggerCancel && prev.IsRotate && !cur.IsRotate
	})
	add(GestureRotate, is(GestureRotateMove))
}
