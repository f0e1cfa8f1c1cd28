// Command gesturereplay feeds a recorded pointer script through a
// recognizer and prints every gesture it matches.
//
// Usage:
//
//	gesturereplay [-config thresholds.toml] [-gestures click,swipeleft] [-fling 300ms] script.json
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/phanxgames/gesture"
)

func main() {
	configPath := flag.String("config", "", "TOML file with threshold overrides")
	only := flag.String("gestures", "", "comma-separated gesture types to report (default all)")
	flingDur := flag.Duration("fling", 300*time.Millisecond, "fling duration projected after swipes")
	verbose := flag.Bool("v", false, "log every dispatch")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gesturereplay [flags] script.json")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(flag.Arg(0), *configPath, *only, *flingDur, *verbose, logger); err != nil {
		logger.Error("replay failed", "error", err)
		os.Exit(1)
	}
}

func run(scriptPath, configPath, only string, flingDur time.Duration, verbose bool, logger *slog.Logger) error {
	cfg, err := gesture.LoadConfig(configPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	script, err := gesture.LoadScript(data)
	if err != nil {
		return err
	}

	clock := clockwork.NewFakeClockAt(time.Unix(0, 0))
	r := gesture.New(gesture.Options{Config: cfg, Clock: clock.Now, Logger: logger, Debug: verbose})

	names := r.Conditions().Names()
	if only != "" {
		names = strings.Split(only, ",")
	}
	start := clock.Now()
	for _, target := range script.Targets() {
		for _, name := range names {
			_, err := r.Register(target, strings.TrimSpace(name), func(ctx gesture.GestureContext) {
				report(ctx, start, flingDur)
			})
			if err != nil {
				return err
			}
		}
	}

	script.Run(r, clock)
	fmt.Printf("replayed %d steps over %v\n", script.Len(), script.Duration())
	return nil
}

func report(ctx gesture.GestureContext, start time.Time, flingDur time.Duration) {
	s := ctx.State
	at := s.Time.Sub(start).Milliseconds()
	line := fmt.Sprintf("%6dms  %-9v %-16s pointer=%d at=(%.1f,%.1f)",
		at, ctx.Target, ctx.Gesture, s.PointerID, s.Pointer.Location.X, s.Pointer.Location.Y)
	switch ctx.Gesture {
	case gesture.GestureClick, gesture.GestureDoubleClick:
		line += fmt.Sprintf(" clicks=%d", s.ClickCount)
	case gesture.GesturePinch, gesture.GesturePinchMove, gesture.GesturePinchIn, gesture.GesturePinchOut:
		line += fmt.Sprintf(" scale=%.3f", s.Scale)
	case gesture.GestureRotate, gesture.GestureRotateMove:
		line += fmt.Sprintf(" angle=%.1f", s.DeltaAngle)
	case gesture.GestureSwipeLeft, gesture.GestureSwipeRight, gesture.GestureSwipeUp, gesture.GestureSwipeDown:
		d := gesture.FlingFrom(s, flingDur).Distance()
		line += fmt.Sprintf(" velocity=(%.2f,%.2f) fling=(%.1f,%.1f)",
			s.Pointer.Velocity.X, s.Pointer.Velocity.Y, d.X, d.Y)
	}
	fmt.Println(line)
}
