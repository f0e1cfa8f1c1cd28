package gesture

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the prefix of environment overrides read by LoadConfig,
// e.g. GESTURE_CLICK_WINDOW=400ms.
const envPrefix = "GESTURE"

// Config holds every threshold used by the state engine and the default
// condition catalog.
type Config struct {
	// MovementThreshold is the distance in pixels a pointer must travel from
	// its start location before a move is recognized.
	MovementThreshold float64 `toml:"movement_threshold" envconfig:"MOVEMENT_THRESHOLD"`
	// ClickWindow bounds both the press duration of a click and the gap
	// between consecutive clicks of a run.
	ClickWindow time.Duration `toml:"click_window" envconfig:"CLICK_WINDOW"`
	// ClickProximity is the maximum distance in pixels between consecutive
	// clicks of a run.
	ClickProximity float64 `toml:"click_proximity" envconfig:"CLICK_PROXIMITY"`
	// LongTouchDelay is how long a single unmoved pointer must stay down.
	LongTouchDelay time.Duration `toml:"longtouch_delay" envconfig:"LONGTOUCH_DELAY"`
	// AngleThreshold is the rotation in degrees that activates rotate.
	AngleThreshold float64 `toml:"angle_threshold" envconfig:"ANGLE_THRESHOLD"`
	// ScaleThreshold is the deviation of scale from 1 that activates pinch.
	ScaleThreshold float64 `toml:"scale_threshold" envconfig:"SCALE_THRESHOLD"`
	// SwipeMinDisplacement is the dominant-axis travel in pixels a swipe needs.
	SwipeMinDisplacement float64 `toml:"swipe_min_displacement" envconfig:"SWIPE_MIN_DISPLACEMENT"`
	// SwipeMinVelocity is the terminal speed in pixels per millisecond a
	// swipe needs along its direction.
	SwipeMinVelocity float64 `toml:"swipe_min_velocity" envconfig:"SWIPE_MIN_VELOCITY"`
	// VelocityDecay zeroes a pointer's velocity when no recognized move
	// arrives within it.
	VelocityDecay time.Duration `toml:"velocity_decay" envconfig:"VELOCITY_DECAY"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		MovementThreshold:    5,
		ClickWindow:          500 * time.Millisecond,
		ClickProximity:       20,
		LongTouchDelay:       500 * time.Millisecond,
		AngleThreshold:       5,
		ScaleThreshold:       0.05,
		SwipeMinDisplacement: 10,
		SwipeMinVelocity:     0.3,
		VelocityDecay:        100 * time.Millisecond,
	}
}

// withDefaults returns c with every zero field set to its DefaultConfig
// value.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	setF := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	setD := func(v *time.Duration, def time.Duration) {
		if *v == 0 {
			*v = def
		}
	}
	setF(&c.MovementThreshold, d.MovementThreshold)
	setD(&c.ClickWindow, d.ClickWindow)
	setF(&c.ClickProximity, d.ClickProximity)
	setD(&c.LongTouchDelay, d.LongTouchDelay)
	setF(&c.AngleThreshold, d.AngleThreshold)
	setF(&c.ScaleThreshold, d.ScaleThreshold)
	setF(&c.SwipeMinDisplacement, d.SwipeMinDisplacement)
	setF(&c.SwipeMinVelocity, d.SwipeMinVelocity)
	setD(&c.VelocityDecay, d.VelocityDecay)
	return c
}

// Validate reports every field holding a value the engine cannot use.
func (c Config) Validate() error {
	var errs []error
	nonNeg := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", name, v))
		}
	}
	positive := func(name string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, d))
		}
	}
	nonNeg("movement_threshold", c.MovementThreshold)
	nonNeg("click_proximity", c.ClickProximity)
	nonNeg("angle_threshold", c.AngleThreshold)
	nonNeg("scale_threshold", c.ScaleThreshold)
	nonNeg("swipe_min_displacement", c.SwipeMinDisplacement)
	nonNeg("swipe_min_velocity", c.SwipeMinVelocity)
	positive("click_window", c.ClickWindow)
	positive("longtouch_delay", c.LongTouchDelay)
	positive("velocity_decay", c.VelocityDecay)
	return errors.Join(errs...)
}

// LoadConfig starts from DefaultConfig, decodes the TOML file at path over
// it (skipped when path is empty) and applies GESTURE_* environment
// overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("decode config %s: unknown key %q", path, undecoded[0].String())
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
