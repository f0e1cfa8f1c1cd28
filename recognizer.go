package gesture

import (
	"errors"
	"log/slog"
	"time"
)

var (
	// ErrUnknownGesture is returned when a gesture type has no registered
	// condition.
	ErrUnknownGesture = errors.New("gesture: unknown gesture type")
	// ErrCallbackNotFound is returned when unregistering a callback that is
	// not registered.
	ErrCallbackNotFound = errors.New("gesture: callback not found")
)

// EventSink is the interface for optional ECS integration. When set on a
// Recognizer, every dispatched gesture is forwarded to it.
type EventSink interface {
	EmitGesture(event GestureEvent)
}

// GestureEvent carries a dispatched gesture for an EventSink.
type GestureEvent struct {
	Gesture   string
	Trigger   Trigger
	Target    Target
	PointerID PointerID
	X, Y      float64
	// Displacement and velocity of the triggering pointer.
	DeltaX, DeltaY       float64
	VelocityX, VelocityY float64
	// Two-pointer values (identity unless two pointers are down).
	Scale      float64
	DeltaAngle float64
	MidX, MidY float64

	ClickCount   int
	PointerCount int
	Time         time.Time
}

// Options configures a Recognizer. The zero value is usable.
type Options struct {
	// Config holds the thresholds. Zero fields take their DefaultConfig
	// value.
	Config Config
	// Conditions replaces the stock catalog built from Config.
	Conditions *Conditions
	// Clock returns the current time. It must not go backwards.
	// Defaults to time.Now.
	Clock func() time.Time
	// Logger receives warnings and, with Debug set, one record per
	// dispatched gesture. Defaults to slog.Default.
	Logger *slog.Logger
	Debug  bool
}

// Recognizer turns pointer primitives into gestures and dispatches them to
// subscribed callbacks.
//
// A Recognizer is one logical input surface: all targets share its state
// and differ only in which subscriptions are consulted. It is not safe for
// concurrent use; primitives, Tick and registration calls must come from a
// single goroutine.
type Recognizer struct {
	cfg    Config
	conds  *Conditions
	clock  func() time.Time
	logger *slog.Logger
	debug  bool
	sink   EventSink

	current  EventState
	previous EventState
	output   EventState

	subs    subscriptionRegistry
	timers  timerQueue
	lastNow time.Time

	// startPair holds the ids StartSpan and StartAngle were captured from.
	startPair [2]PointerID
	// orphaned holds subscribed gesture types already warned about for
	// having no condition.
	orphaned map[string]bool
}

// New creates a Recognizer.
func New(opts Options) *Recognizer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config.withDefaults()
	if err := cfg.Validate(); err != nil {
		logger.Warn("invalid gesture config", "error", err)
	}
	conds := opts.Conditions
	if conds == nil {
		conds = DefaultConditions(cfg, logger)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Recognizer{
		cfg:      cfg,
		conds:    conds,
		clock:    clock,
		logger:   logger,
		debug:    opts.Debug,
		current:  newEventState(),
		previous: newEventState(),
		output:   newEventState(),
	}
}

// Config returns the thresholds in use.
func (r *Recognizer) Config() Config {
	return r.cfg
}

// Conditions returns the condition registry consulted at dispatch.
func (r *Recognizer) Conditions() *Conditions {
	return r.conds
}

// SetEventSink sets the sink that receives every dispatched gesture.
// Pass nil to disable.
func (r *Recognizer) SetEventSink(sink EventSink) {
	r.sink = sink
}

// SetDebug toggles per-gesture debug logging.
func (r *Recognizer) SetDebug(debug bool) {
	r.debug = debug
}

// State returns a copy of the last published output snapshot.
func (r *Recognizer) State() EventState {
	return r.output.Clone()
}

// Previous returns a copy of the snapshot taken before the last update.
func (r *Recognizer) Previous() EventState {
	return r.previous.Clone()
}

// SetCondition adds or replaces the condition for a gesture type.
func (r *Recognizer) SetCondition(gesture string, cond Condition) {
	r.conds.Set(gesture, cond)
	delete(r.orphaned, gesture)
}

// RemoveCondition removes a gesture type. Subscriptions on it stay
// registered but never fire.
func (r *Recognizer) RemoveCondition(gesture string) error {
	return r.conds.Remove(gesture)
}

// Tick runs every delayed task (velocity decay, long touch) that is due.
// Hosts call it once per frame or on a short ticker.
func (r *Recognizer) Tick() {
	r.advance()
}

// advance reads the clock, clamps it to be monotonic and drains due timers.
func (r *Recognizer) advance() time.Time {
	now := r.clock()
	if now.Before(r.lastNow) {
		now = r.lastNow
	}
	r.lastNow = now
	r.timers.runDue(now)
	return now
}
