package gesture

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Fling animates the inertial travel that follows a swipe. It starts at the
// terminal velocity of the released pointer and eases out to rest over its
// duration, covering the distance a linear deceleration would.
//
// There is no global animation manager; call Update each frame.
type Fling struct {
	tweens   [2]*gween.Tween
	offset   Vec2
	distance Vec2
	Done     bool
}

// NewFling creates a fling from a velocity in pixels per millisecond lasting
// duration. A non-positive duration yields a finished fling.
func NewFling(velocity Vec2, duration time.Duration) *Fling {
	if duration <= 0 {
		return &Fling{Done: true}
	}
	ms := float64(duration) / float64(time.Millisecond)
	dist := velocity.Scale(ms / 2)
	secs := float32(duration.Seconds())
	f := &Fling{distance: dist}
	f.tweens[0] = gween.New(0, float32(dist.X), secs, ease.OutQuad)
	f.tweens[1] = gween.New(0, float32(dist.Y), secs, ease.OutQuad)
	return f
}

// FlingFrom creates a fling from the velocity of the pointer that triggered
// state, typically the output snapshot of a swipe.
func FlingFrom(state EventState, duration time.Duration) *Fling {
	return NewFling(state.Pointer.Velocity, duration)
}

// Update advances the fling by dt and returns the offset travelled since
// the previous Update.
func (f *Fling) Update(dt time.Duration) Vec2 {
	if f.Done {
		return Vec2{}
	}
	secs := float32(dt.Seconds())
	x, doneX := f.tweens[0].Update(secs)
	y, doneY := f.tweens[1].Update(secs)
	next := Vec2{float64(x), float64(y)}
	step := next.Sub(f.offset)
	f.offset = next
	f.Done = doneX && doneY
	return step
}

// Offset returns the total offset travelled so far.
func (f *Fling) Offset() Vec2 { return f.offset }

// Distance returns the total offset the fling travels when finished.
func (f *Fling) Distance() Vec2 { return f.distance }
