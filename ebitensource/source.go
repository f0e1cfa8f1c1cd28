// Package ebitensource feeds Ebitengine mouse and touch input into a
// gesture.Recognizer.
//
// Call Source.Update from your game's Update:
//
//	func (g *Game) Update() error { g.input.Update(); return nil }
package ebitensource

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/gesture"
)

// MousePointer is the pointer id used for the mouse. Touches use their
// ebiten.TouchID offset by TouchPointerBase.
const (
	MousePointer     gesture.PointerID = 0
	TouchPointerBase gesture.PointerID = 1
)

// Touch is one active touch in a Frame.
type Touch struct {
	ID   ebiten.TouchID
	X, Y float64
}

// Frame is the polled input state of one tick.
type Frame struct {
	MousePressed bool
	MouseX       float64
	MouseY       float64
	Touches      []Touch
}

type pointerState struct {
	down bool
	x, y float64
}

// Source turns per-frame polled input into pointer primitives.
type Source struct {
	r *gesture.Recognizer

	// Targets receive every dispatch. Empty means broadcast to every
	// subscribed target.
	Targets []gesture.Target
	// ScreenToWorld converts cursor and touch positions before they reach
	// the recognizer. Nil means identity.
	ScreenToWorld func(x, y float64) (float64, float64)

	mouse    pointerState
	touches  map[ebiten.TouchID]pointerState
	touchIDs []ebiten.TouchID
	seen     map[ebiten.TouchID]bool
}

// New creates a Source feeding r.
func New(r *gesture.Recognizer) *Source {
	return &Source{
		r:       r,
		touches: make(map[ebiten.TouchID]pointerState),
		seen:    make(map[ebiten.TouchID]bool),
	}
}

// Update polls ebiten for the current mouse and touch state, emits the
// resulting primitives and ticks the recognizer's timers.
func (s *Source) Update() {
	s.Apply(s.poll())
	s.r.Tick()
}

// poll reads the current input state from ebiten.
func (s *Source) poll() Frame {
	mx, my := ebiten.CursorPosition()
	f := Frame{
		MousePressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		MouseX:       float64(mx),
		MouseY:       float64(my),
	}
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	for _, tid := range s.touchIDs {
		tx, ty := ebiten.TouchPosition(tid)
		f.Touches = append(f.Touches, Touch{ID: tid, X: float64(tx), Y: float64(ty)})
	}
	return f
}

// Apply diffs f against the previous frame and emits down, move and up
// primitives. Touches missing from f are released at their last position.
func (s *Source) Apply(f Frame) {
	mx, my := s.toWorld(f.MouseX, f.MouseY)
	s.mouse = s.step(MousePointer, s.mouse, f.MousePressed, mx, my)

	clear(s.seen)
	for _, t := range f.Touches {
		s.seen[t.ID] = true
		x, y := s.toWorld(t.X, t.Y)
		s.touches[t.ID] = s.step(touchPointer(t.ID), s.touches[t.ID], true, x, y)
	}
	for tid, ps := range s.touches {
		if s.seen[tid] {
			continue
		}
		s.step(touchPointer(tid), ps, false, ps.x, ps.y)
		delete(s.touches, tid)
	}
}

// step runs the press/move/release state machine for one pointer.
func (s *Source) step(id gesture.PointerID, ps pointerState, pressed bool, x, y float64) pointerState {
	switch {
	case pressed && !ps.down:
		s.r.PointerDown(id, x, y, nil, s.Targets...)
		return pointerState{down: true, x: x, y: y}
	case !pressed && ps.down:
		s.r.PointerUp(id, nil, s.Targets...)
		return pointerState{x: x, y: y}
	case pressed && ps.down:
		if x != ps.x || y != ps.y {
			s.r.PointerMove(id, x, y, nil, s.Targets...)
		}
		return pointerState{down: true, x: x, y: y}
	}
	return pointerState{x: x, y: y}
}

func (s *Source) toWorld(x, y float64) (float64, float64) {
	if s.ScreenToWorld != nil {
		return s.ScreenToWorld(x, y)
	}
	return x, y
}

func touchPointer(tid ebiten.TouchID) gesture.PointerID {
	return TouchPointerBase + gesture.PointerID(tid)
}
