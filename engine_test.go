package gesture

import (
	"io"
	"log/slog"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// harness drives a Recognizer with a manual clock and records every
// dispatched gesture.
type harness struct {
	t     *testing.T
	r     *Recognizer
	clock *clockwork.FakeClock
	got   []string
}

func newHarness(t *testing.T, gestures ...string) *harness {
	t.Helper()
	h := &harness{t: t, clock: clockwork.NewFakeClockAt(time.Unix(1000, 0))}
	h.r = New(Options{
		Clock:  h.clock.Now,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if len(gestures) == 0 {
		gestures = h.r.Conditions().Names()
	}
	for _, g := range gestures {
		if _, err := h.r.Register("box", g, func(ctx GestureContext) {
			h.got = append(h.got, ctx.Gesture)
		}); err != nil {
			t.Fatalf("Register(%q): %v", g, err)
		}
	}
	return h
}

func (h *harness) advance(ms int) { h.clock.Advance(time.Duration(ms) * time.Millisecond) }

func (h *harness) down(id int, x, y float64) { h.r.PointerDown(PointerID(id), x, y, nil) }
func (h *harness) move(id int, x, y float64) { h.r.PointerMove(PointerID(id), x, y, nil) }
func (h *harness) up(id int)                 { h.r.PointerUp(PointerID(id), nil) }
func (h *harness) cancel(id int)             { h.r.PointerCancel(PointerID(id), nil) }

// take returns and clears the recorded gestures.
func (h *harness) take() []string {
	got := h.got
	h.got = nil
	return got
}

func (h *harness) expect(got []string, want ...string) {
	h.t.Helper()
	for _, w := range want {
		if !slices.Contains(got, w) {
			h.t.Errorf("expected %q in %v", w, got)
		}
	}
}

func (h *harness) reject(got []string, unwanted ...string) {
	h.t.Helper()
	for _, u := range unwanted {
		if slices.Contains(got, u) {
			h.t.Errorf("did not expect %q in %v", u, got)
		}
	}
}

// --- Pointer bookkeeping ---

func TestPointerCountAndMaxPoint(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.down(2, 50, 0)
	h.down(3, 100, 0)
	if st := h.r.State(); st.PointerCount != 3 || st.MaxPoint != 3 {
		t.Fatalf("count=%d max=%d, want 3 3", st.PointerCount, st.MaxPoint)
	}
	h.up(3)
	if st := h.r.State(); st.PointerCount != 2 || st.MaxPoint != 3 {
		t.Errorf("count=%d max=%d, want 2 3", st.PointerCount, st.MaxPoint)
	}
	h.up(1)
	h.up(2)
	if st := h.r.State(); st.PointerCount != 0 || st.MaxPoint != 0 {
		t.Errorf("count=%d max=%d, want 0 0", st.PointerCount, st.MaxPoint)
	}
	if st := h.r.State(); len(st.Pointers) != st.PointerCount {
		t.Errorf("Pointers has %d entries, count %d", len(st.Pointers), st.PointerCount)
	}
}

func TestPointerDown_ReplacesSameID(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.down(1, 40, 40)
	st := h.r.State()
	if st.PointerCount != 1 || st.Pointers[1].StartLocation != (Vec2{40, 40}) {
		t.Errorf("count=%d start=%v", st.PointerCount, st.Pointers[1].StartLocation)
	}
}

func TestUnknownPointerIgnored(t *testing.T) {
	h := newHarness(t)
	h.move(9, 100, 100)
	h.up(9)
	h.cancel(9)
	if got := h.take(); len(got) != 0 {
		t.Errorf("unknown pointer dispatched %v", got)
	}
	if st := h.r.State(); st.Type != TriggerNone {
		t.Errorf("state changed: %v", st.Type)
	}
}

// --- Movement ---

func TestMove_WithinThresholdIgnored(t *testing.T) {
	h := newHarness(t)
	h.down(1, 100, 100)
	h.take()
	h.advance(10)
	h.move(1, 103, 103) // ~4.2px, threshold 5
	if got := h.take(); len(got) != 0 {
		t.Errorf("jitter dispatched %v", got)
	}
	st := h.r.State()
	if st.Pointers[1].Moved || st.Type != TriggerDown {
		t.Errorf("jitter recorded: moved=%v type=%v", st.Pointers[1].Moved, st.Type)
	}
}

func TestMove_FirstMoveEdge(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.take()

	h.advance(16)
	h.move(1, 20, 0)
	got := h.take()
	h.expect(got, GestureMove, GestureDragStart, GestureDragMove, GestureDragRight, GestureDrag)
	if st := h.r.State(); !st.Pointer.FirstMove || st.Pointer.Displacement != (Vec2{20, 0}) {
		t.Errorf("first move: firstMove=%v disp=%v", st.Pointer.FirstMove, st.Pointer.Displacement)
	}

	h.advance(16)
	h.move(1, 40, 0)
	got = h.take()
	h.reject(got, GestureDragStart)
	h.expect(got, GestureDragMove)
	if st := h.r.State(); st.Pointer.FirstMove {
		t.Error("FirstMove should only be set on the first recognized move")
	}
}

func TestMove_Velocity(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.advance(20)
	h.move(1, 40, 0)
	if v := h.r.State().Pointer.Velocity; !approxEqual(v.X, 2) || v.Y != 0 {
		t.Errorf("velocity = %v, want {2 0}", v)
	}
}

func TestVelocityDecay(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.advance(20)
	h.move(1, 40, 0)

	h.advance(99)
	h.r.Tick()
	if v := h.r.current.Pointers[1].Velocity; v.X == 0 {
		t.Fatal("velocity decayed early")
	}
	h.advance(1)
	h.r.Tick()
	if v := h.r.current.Pointers[1].Velocity; v != (Vec2{}) {
		t.Errorf("velocity = %v after decay, want zero", v)
	}

	// Re-armed by every move.
	h.advance(10)
	h.move(1, 60, 0)
	h.advance(60)
	h.move(1, 80, 0)
	h.advance(60)
	h.r.Tick()
	if v := h.r.current.Pointers[1].Velocity; v == (Vec2{}) {
		t.Error("decay should restart on each move")
	}
}

// --- Click ---

func TestClick_Single(t *testing.T) {
	h := newHarness(t)
	h.down(1, 50, 50)
	h.advance(80)
	h.up(1)
	got := h.take()
	h.expect(got, GesturePress, GestureRelease, GestureClick)
	h.reject(got, GestureDoubleClick, GestureDragEnd)
	if st := h.r.State(); st.ClickCount != 1 {
		t.Errorf("ClickCount = %d, want 1", st.ClickCount)
	}
}

func TestClick_Double(t *testing.T) {
	h := newHarness(t)
	h.down(1, 50, 50)
	h.advance(50)
	h.up(1)
	h.take()

	h.advance(100)
	h.down(1, 52, 51)
	h.advance(50)
	h.up(1)
	got := h.take()
	h.expect(got, GestureClick, GestureDoubleClick)
	if st := h.r.State(); st.ClickCount != 2 {
		t.Errorf("ClickCount = %d, want 2", st.ClickCount)
	}
}

func TestClick_RunBrokenByDistanceAndTime(t *testing.T) {
	h := newHarness(t)
	click := func(x, y float64) {
		h.down(1, x, y)
		h.advance(30)
		h.up(1)
	}

	click(0, 0)
	h.advance(100)
	click(100, 0) // too far
	if c := h.r.State().ClickCount; c != 1 {
		t.Errorf("far click: ClickCount = %d, want 1", c)
	}

	h.advance(600)
	click(100, 0) // too late
	if c := h.r.State().ClickCount; c != 1 {
		t.Errorf("late click: ClickCount = %d, want 1", c)
	}

	h.advance(100)
	click(100, 0)
	h.advance(100)
	click(100, 0)
	if c := h.r.State().ClickCount; c != 3 {
		t.Errorf("triple click: ClickCount = %d, want 3", c)
	}
	h.take()
}

func TestClick_LongPressIsNotClick(t *testing.T) {
	h := newHarness(t, GestureClick)
	h.down(1, 0, 0)
	h.advance(600)
	h.up(1)
	if got := h.take(); len(got) != 0 {
		t.Errorf("long press clicked: %v", got)
	}
	if c := h.r.State().ClickCount; c != 0 {
		t.Errorf("ClickCount = %d, want 0", c)
	}
}

func TestClick_MultiTouchIsNotClick(t *testing.T) {
	h := newHarness(t, GestureClick)
	h.down(1, 0, 0)
	h.down(2, 100, 0)
	h.up(2)
	h.up(1)
	if got := h.take(); len(got) != 0 {
		t.Errorf("two-finger tap clicked: %v", got)
	}
}

// --- Swipe ---

func TestSwipeLeft(t *testing.T) {
	h := newHarness(t)
	h.down(1, 100, 100)
	h.advance(80)
	h.move(1, 40, 100)
	h.up(1)
	got := h.take()
	h.expect(got, GestureSwipeLeft, GestureDragEnd, GestureRelease)
	h.reject(got, GestureClick, GestureSwipeRight, GestureSwipeUp, GestureSwipeDown)
}

func TestSwipe_SlowReleaseIsNotSwipe(t *testing.T) {
	h := newHarness(t, GestureSwipeLeft, GestureDragEnd)
	h.down(1, 100, 100)
	h.advance(80)
	h.move(1, 40, 100)
	h.advance(200) // velocity decays before release
	h.up(1)
	got := h.take()
	h.expect(got, GestureDragEnd)
	h.reject(got, GestureSwipeLeft)
}

func TestSwipeDirections(t *testing.T) {
	tests := []struct {
		name  string
		to    Vec2
		swipe string
	}{
		{"right", Vec2{160, 100}, GestureSwipeRight},
		{"up", Vec2{100, 40}, GestureSwipeUp},
		{"down", Vec2{100, 160}, GestureSwipeDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, GestureSwipeLeft, GestureSwipeRight, GestureSwipeUp, GestureSwipeDown)
			h.down(1, 100, 100)
			h.advance(50)
			h.move(1, tt.to.X, tt.to.Y)
			h.up(1)
			got := h.take()
			if len(got) != 1 || got[0] != tt.swipe {
				t.Errorf("got %v, want [%s]", got, tt.swipe)
			}
		})
	}
}

// --- Long touch ---

func TestLongTouch_Fires(t *testing.T) {
	h := newHarness(t, GestureLongTouch)
	h.down(1, 10, 10)
	h.advance(499)
	h.r.Tick()
	if got := h.take(); len(got) != 0 {
		t.Fatalf("long touch fired early: %v", got)
	}
	h.advance(1)
	h.r.Tick()
	if got := h.take(); len(got) != 1 || got[0] != GestureLongTouch {
		t.Fatalf("got %v, want [longtouch]", got)
	}
	if st := h.r.State(); st.Type != TriggerLongTouch || st.Elapsed() != 500*time.Millisecond {
		t.Errorf("type=%v elapsed=%v", st.Type, st.Elapsed())
	}

	h.advance(1000)
	h.r.Tick()
	if got := h.take(); len(got) != 0 {
		t.Errorf("long touch fired twice: %v", got)
	}
}

func TestLongTouch_FiresOnNextPrimitive(t *testing.T) {
	h := newHarness(t, GestureLongTouch, GestureRelease)
	h.down(1, 10, 10)
	h.advance(700)
	h.up(1)
	got := h.take()
	if len(got) != 2 || got[0] != GestureLongTouch || got[1] != GestureRelease {
		t.Errorf("got %v, want [longtouch release]", got)
	}
}

func TestLongTouch_Cancelled(t *testing.T) {
	tests := []struct {
		name   string
		action func(h *harness)
	}{
		{"up", func(h *harness) { h.up(1) }},
		{"cancel", func(h *harness) { h.cancel(1) }},
		{"second pointer", func(h *harness) { h.down(2, 200, 200) }},
		{"moved", func(h *harness) { h.move(1, 60, 10) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, GestureLongTouch)
			h.down(1, 10, 10)
			h.advance(100)
			tt.action(h)
			h.advance(1000)
			h.r.Tick()
			if got := h.take(); len(got) != 0 {
				t.Errorf("long touch fired: %v", got)
			}
		})
	}
}

// --- Cancel ---

func TestCancel_NoClick(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.advance(30)
	h.cancel(1)
	got := h.take()
	h.reject(got, GestureClick, GestureRelease, GestureDragCancel)
	if st := h.r.State(); st.PointerCount != 0 || st.MaxPoint != 0 || st.Type != TriggerCancel {
		t.Errorf("count=%d max=%d type=%v", st.PointerCount, st.MaxPoint, st.Type)
	}
}

func TestCancel_Drag(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.advance(30)
	h.move(1, 30, 0)
	h.take()
	h.cancel(1)
	got := h.take()
	h.expect(got, GestureDragCancel)
	h.reject(got, GestureDragEnd, GestureSwipeRight)
}

// --- Two pointers ---

func TestTwoPointer_ScaleIdentity(t *testing.T) {
	h := newHarness(t)
	h.down(1, 100, 100)
	h.down(2, 200, 100)
	st := h.r.State()
	if st.Scale != 1 || st.DeltaAngle != 0 {
		t.Errorf("scale=%v angle=%v at second down", st.Scale, st.DeltaAngle)
	}
	if st.StartSpan != 100 || st.Midpoint != (Vec2{150, 100}) {
		t.Errorf("span=%v mid=%v", st.StartSpan, st.Midpoint)
	}
}

func TestPinch(t *testing.T) {
	h := newHarness(t)
	h.down(1, 100, 100)
	h.down(2, 200, 100)
	h.take()

	h.advance(16)
	h.move(2, 300, 100)
	got := h.take()
	h.expect(got, GesturePinchStart, GesturePinchMove, GesturePinchOut, GesturePinch, GestureDoubleDragStart)
	h.reject(got, GesturePinchIn, GestureDragStart, GestureRotateStart)
	st := h.r.State()
	if !approxEqual(st.Scale, 2) || !st.IsPinch || !st.PinchStart {
		t.Errorf("scale=%v isPinch=%v start=%v", st.Scale, st.IsPinch, st.PinchStart)
	}
	if st.Midpoint != (Vec2{200, 100}) {
		t.Errorf("midpoint = %v", st.Midpoint)
	}

	h.advance(16)
	h.move(2, 150, 100)
	got = h.take()
	h.expect(got, GesturePinchMove, GesturePinchIn)
	h.reject(got, GesturePinchStart)

	h.advance(16)
	h.up(2)
	got = h.take()
	h.expect(got, GesturePinchEnd, GestureDoubleDragEnd)
	if st := h.r.State(); st.IsPinch || st.Scale != 1 {
		t.Errorf("after up: isPinch=%v scale=%v", st.IsPinch, st.Scale)
	}
}

func TestPinch_WithinThreshold(t *testing.T) {
	h := newHarness(t, GesturePinchStart, GesturePinchMove)
	h.down(1, 100, 100)
	h.down(2, 200, 100)
	h.advance(16)
	h.move(2, 204, 100) // below movement threshold
	h.move(2, 206, 100) // scale 1.06 > 1.05
	got := h.take()
	if len(got) != 2 {
		t.Errorf("got %v, want [pinchstart pinchmove]", got)
	}
}

func TestRotate(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.down(2, 100, 0)
	h.take()

	h.advance(16)
	h.move(2, 0, 100)
	got := h.take()
	h.expect(got, GestureRotateStart, GestureRotateMove, GestureRotate)
	if st := h.r.State(); !approxEqual(st.DeltaAngle, 90) || !st.IsRotate {
		t.Errorf("angle=%v isRotate=%v", st.DeltaAngle, st.IsRotate)
	}

	h.advance(16)
	h.cancel(1)
	got = h.take()
	h.expect(got, GestureRotateCancel, GestureDoubleDragCancel)
	h.reject(got, GestureRotateEnd)
}

func TestRotate_DeltaAngleNormalized(t *testing.T) {
	h := newHarness(t, GestureRotateMove)
	h.down(1, 0, 0)
	h.down(2, -100, 1) // start angle just below 180
	h.advance(16)
	h.move(2, -100, -30) // crosses the +-180 boundary
	st := h.r.State()
	if st.DeltaAngle <= -180 || st.DeltaAngle > 180 || math.Abs(st.DeltaAngle) > 30 {
		t.Errorf("DeltaAngle = %v, want small rotation in (-180, 180]", st.DeltaAngle)
	}
}

func TestThreePointers_RecapturesPair(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.down(2, 100, 0)
	h.down(3, 500, 500)
	h.advance(16)
	h.move(2, 300, 0)
	if st := h.r.State(); !st.IsPinch {
		t.Fatal("pinch should start with three pointers")
	}

	h.up(1)
	st := h.r.State()
	if st.IsPinch || st.Scale != 1 {
		t.Errorf("after dropping to two: isPinch=%v scale=%v", st.IsPinch, st.Scale)
	}
	if want := Distance(Vec2{300, 0}, Vec2{500, 500}); !approxEqual(st.StartSpan, want) {
		t.Errorf("StartSpan = %v, want %v", st.StartSpan, want)
	}
}

func TestTwoPointer_ZeroSpanRecaptures(t *testing.T) {
	h := newHarness(t)
	h.down(1, 50, 50)
	h.down(2, 50, 50)
	h.advance(16)
	h.move(2, 150, 50)
	st := h.r.State()
	if st.StartSpan != 100 || st.Scale != 1 || st.IsPinch {
		t.Errorf("span=%v scale=%v pinch=%v", st.StartSpan, st.Scale, st.IsPinch)
	}
}

// --- Snapshots ---

func TestPreviousSnapshot(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.advance(10)
	h.down(2, 10, 0)
	prev := h.r.Previous()
	if prev.PointerCount != 1 || prev.Type != TriggerDown {
		t.Errorf("previous count=%d type=%v", prev.PointerCount, prev.Type)
	}
	if !prev.Time.Equal(h.clock.Now()) {
		t.Errorf("previous time = %v, want update time", prev.Time)
	}
}

func TestClockNeverGoesBackwards(t *testing.T) {
	now := time.Unix(500, 0)
	r := New(Options{Clock: func() time.Time { return now }})
	r.PointerDown(1, 0, 0, nil)
	now = now.Add(-time.Second)
	r.PointerUp(1, nil)
	if st := r.State(); st.Time.Before(time.Unix(500, 0)) {
		t.Errorf("state time went backwards: %v", st.Time)
	}
}

func TestRawPassthrough(t *testing.T) {
	h := newHarness(t)
	var raw any
	h.r.Register("box", GesturePress, func(ctx GestureContext) { raw = ctx.State.Raw })
	h.r.PointerDown(1, 0, 0, "event-1")
	if raw != "event-1" {
		t.Errorf("Raw = %v", raw)
	}
}

func TestThreePointers_LowerIDJoinsPair(t *testing.T) {
	h := newHarness(t)
	h.down(5, 0, 0)
	h.down(6, 100, 0)
	h.down(1, 500, 0)
	if st := h.r.State(); st.StartSpan != 500 || st.Scale != 1 {
		t.Fatalf("span=%v scale=%v, want the pair of ids 1 and 5", st.StartSpan, st.Scale)
	}
	h.take()

	h.advance(16)
	h.move(6, 106, 0)
	got := h.take()
	h.reject(got, GesturePinchStart, GesturePinchOut, GesturePinch, GestureRotateStart, GestureRotate)
	if st := h.r.State(); st.Scale != 1 || st.DeltaAngle != 0 {
		t.Errorf("scale=%v angle=%v after a pointer outside the pair moved", st.Scale, st.DeltaAngle)
	}
}

func TestFourPointers_LowestLiftsRecapturesPair(t *testing.T) {
	h := newHarness(t)
	h.down(1, 0, 0)
	h.down(2, 100, 0)
	h.down(3, 0, 300)
	h.down(4, 400, 400)
	h.up(1)
	st := h.r.State()
	if want := Distance(Vec2{100, 0}, Vec2{0, 300}); !approxEqual(st.StartSpan, want) {
		t.Fatalf("StartSpan = %v, want %v", st.StartSpan, want)
	}
	h.take()

	h.advance(16)
	h.move(4, 420, 400)
	got := h.take()
	h.reject(got, GesturePinchStart, GestureRotateStart)
}

func TestDragDirections(t *testing.T) {
	tests := []struct {
		name string
		to   Vec2
		drag string
	}{
		{"left", Vec2{60, 100}, GestureDragLeft},
		{"right", Vec2{140, 100}, GestureDragRight},
		{"up", Vec2{100, 60}, GestureDragUp},
		{"down", Vec2{100, 140}, GestureDragDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, GestureDragLeft, GestureDragRight, GestureDragUp, GestureDragDown)
			h.down(1, 100, 100)
			h.advance(50)
			h.move(1, tt.to.X, tt.to.Y)
			got := h.take()
			if len(got) != 1 || got[0] != tt.drag {
				t.Errorf("got %v, want [%s]", got, tt.drag)
			}
		})
	}
}

func TestDoubleDrag(t *testing.T) {
	h := newHarness(t)
	h.down(1, 100, 100)
	h.down(2, 200, 100)
	h.take()

	h.advance(16)
	h.move(1, 100, 130)
	got := h.take()
	h.expect(got, GestureDoubleDragStart, GestureDoubleDragMove, GestureDrag)
	h.reject(got, GestureDragStart, GestureDragMove, GestureDragDown)

	h.advance(16)
	h.move(1, 100, 160)
	got = h.take()
	h.expect(got, GestureDoubleDragMove)
	h.reject(got, GestureDoubleDragStart)

	h.advance(16)
	h.up(2)
	got = h.take()
	h.expect(got, GestureDoubleDragEnd)
	h.reject(got, GestureDragEnd, GestureDoubleDragCancel)
}
