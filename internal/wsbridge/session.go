// Package wsbridge lets a browser drive a gesture.Recognizer over a
// websocket: pointer events come in as JSON, matched gestures go back out.
package wsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/gesture"
)

const (
	writeWait    = 10 * time.Second
	pingPeriod   = 30 * time.Second
	maxMsgSize   = 16 * 1024
	tickInterval = 10 * time.Millisecond
	sendBuffer   = 256
)

// Options configures sessions created by Handler.
type Options struct {
	Config         gesture.Config
	OriginPatterns []string
	Logger         *slog.Logger
	Debug          bool
}

// Session is one browser connection. Its recognizer is owned by the event
// loop goroutine; the read pump only forwards decoded messages to it.
type Session struct {
	ID string

	conn   *websocket.Conn
	r      *gesture.Recognizer
	in     chan Message
	send   chan []byte
	logger *slog.Logger

	// handles[target][gesture] is the bridge callback for that pair.
	handles map[string]map[string]gesture.CallbackHandle
}

// NewSession wraps an accepted connection.
func NewSession(conn *websocket.Conn, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()
	logger = logger.With("session", id)
	return &Session{
		ID:      id,
		conn:    conn,
		r:       gesture.New(gesture.Options{Config: opts.Config, Logger: logger, Debug: opts.Debug}),
		in:      make(chan Message, sendBuffer),
		send:    make(chan []byte, sendBuffer),
		logger:  logger,
		handles: make(map[string]map[string]gesture.CallbackHandle),
	}
}

// Handler returns an HTTP handler that upgrades to a websocket and runs a
// Session until the connection closes.
func Handler(opts Options) http.HandlerFunc {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			logger.Error("websocket accept", "error", err)
			return
		}
		s := NewSession(conn, opts)
		s.logger.Info("session opened", "remote", r.RemoteAddr)
		err = s.Run(r.Context())
		s.logger.Info("session closed", "error", err)
	}
}

// Run serves the session until the peer disconnects or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	defer s.conn.Close(websocket.StatusNormalClosure, "")
	s.conn.SetReadLimit(maxMsgSize)

	s.queue(Message{Type: TypeWelcome, Session: s.ID})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readPump(ctx) })
	g.Go(func() error { return s.loop(ctx) })
	g.Go(func() error { return s.writePump(ctx) })
	err := g.Wait()
	if errors.Is(err, errPeerClosed) {
		return nil
	}
	return err
}

var errPeerClosed = errors.New("peer closed")

func (s *Session) readPump(ctx context.Context) error {
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return errPeerClosed
			}
			return fmt.Errorf("read: %w", err)
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("invalid message", "error", err)
			s.queue(Message{Type: TypeError, Error: "invalid message"})
			continue
		}
		select {
		case s.in <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// loop is the only goroutine touching the recognizer.
func (s *Session) loop(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case msg := <-s.in:
			s.handle(msg)
		case <-ticker.C:
			s.r.Tick()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Session) writePump(ctx context.Context) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case data := <-s.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return fmt.Errorf("write: %w", err)
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handle applies one client message to the recognizer.
func (s *Session) handle(msg Message) {
	var targets []gesture.Target
	if msg.Target != "" {
		targets = []gesture.Target{msg.Target}
	}
	id := gesture.PointerID(msg.ID)

	switch msg.Type {
	case TypePointerDown:
		s.r.PointerDown(id, msg.X, msg.Y, msg, targets...)
	case TypePointerMove:
		s.r.PointerMove(id, msg.X, msg.Y, msg, targets...)
	case TypePointerUp:
		s.r.PointerUp(id, msg, targets...)
	case TypePointerCancel:
		s.r.PointerCancel(id, msg, targets...)
	case TypeSubscribe:
		for _, name := range msg.Gestures {
			if err := s.subscribe(msg.Target, name); err != nil {
				s.queue(Message{Type: TypeError, Target: msg.Target, Gesture: name, Error: err.Error()})
			}
		}
	case TypeUnsubscribe:
		for _, name := range msg.Gestures {
			if err := s.unsubscribe(msg.Target, name); err != nil {
				s.queue(Message{Type: TypeError, Target: msg.Target, Gesture: name, Error: err.Error()})
			}
		}
	default:
		s.queue(Message{Type: TypeError, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

func (s *Session) subscribe(target, name string) error {
	byGesture := s.handles[target]
	if h, ok := byGesture[name]; ok {
		return s.r.Retain(h)
	}
	h, err := s.r.Register(target, name, func(ctx gesture.GestureContext) {
		s.queue(Message{
			Type:    TypeGesture,
			Gesture: ctx.Gesture,
			Target:  target,
			State:   newStateView(&ctx.State),
		})
	})
	if err != nil {
		return err
	}
	if byGesture == nil {
		byGesture = make(map[string]gesture.CallbackHandle)
		s.handles[target] = byGesture
	}
	byGesture[name] = h
	return nil
}

func (s *Session) unsubscribe(target, name string) error {
	h, ok := s.handles[target][name]
	if !ok {
		return fmt.Errorf("unsubscribe %q: %w", name, gesture.ErrCallbackNotFound)
	}
	if err := h.Remove(); err != nil {
		return err
	}
	if s.r.Registered(h) {
		return nil
	}
	delete(s.handles[target], name)
	if len(s.handles[target]) == 0 {
		delete(s.handles, target)
	}
	return nil
}

// queue sends msg without blocking; messages are dropped when the client
// falls behind.
func (s *Session) queue(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("marshal message", "error", err)
		return
	}
	select {
	case s.send <- data:
	default:
		s.logger.Warn("send buffer full, dropping message", "type", msg.Type)
	}
}
