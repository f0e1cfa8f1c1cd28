package wsbridge

import (
	"time"

	"github.com/phanxgames/gesture"
)

// Message is the envelope for both directions.
type Message struct {
	Type string `json:"type"`

	// Pointer primitives.
	ID     int     `json:"id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Target string  `json:"target,omitempty"`

	// Subscriptions.
	Gestures []string `json:"gestures,omitempty"`

	// Server to client.
	Session string     `json:"session,omitempty"`
	Gesture string     `json:"gesture,omitempty"`
	State   *StateView `json:"state,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// StateView is the JSON form of an output snapshot sent with a gesture.
type StateView struct {
	Time         int64   `json:"time"` // unix milliseconds
	Trigger      string  `json:"trigger"`
	PointerID    int     `json:"pointerId"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	DeltaX       float64 `json:"dx"`
	DeltaY       float64 `json:"dy"`
	VelocityX    float64 `json:"vx"`
	VelocityY    float64 `json:"vy"`
	Scale        float64 `json:"scale"`
	DeltaAngle   float64 `json:"deltaAngle"`
	MidX         float64 `json:"midX"`
	MidY         float64 `json:"midY"`
	ClickCount   int     `json:"clickCount"`
	PointerCount int     `json:"pointerCount"`
	MaxPoint     int     `json:"maxPoint"`
}

const (
	TypePointerDown   = "pointerdown"
	TypePointerMove   = "pointermove"
	TypePointerUp     = "pointerup"
	TypePointerCancel = "pointercancel"
	TypeSubscribe     = "subscribe"
	TypeUnsubscribe   = "unsubscribe"

	TypeWelcome = "welcome"
	TypeGesture = "gesture"
	TypeError   = "error"
)

func newStateView(s *gesture.EventState) *StateView {
	return &StateView{
		Time:         s.Time.UnixNano() / int64(time.Millisecond),
		Trigger:      s.Type.String(),
		PointerID:    int(s.PointerID),
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
		MaxPoint:     s.MaxPoint,
	}
}
