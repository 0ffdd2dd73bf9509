package scribble

import (
	"log/slog"
	"time"
)

const (
	// DefaultWidth and DefaultHeight are the canvas size sketches are drawn on.
	DefaultWidth  = 960
	DefaultHeight = 580

	// DefaultAmplitude is how far settled points jump while vibrating.
	// Vibration levels are multiples of it.
	DefaultAmplitude = 3.0

	// DefaultElasticity is the fraction of the distance to its normal a
	// point covers each frame (0-1, higher is faster).
	DefaultElasticity = 0.7

	// DefaultThickness is the brush width used when none is given.
	DefaultThickness = 3.0

	// DefaultMinPointDistance limits point density while drawing.
	DefaultMinPointDistance = 2.0

	// DefaultReplayInterval is the delay between replay ticks.
	DefaultReplayInterval = 20 * time.Millisecond

	// DefaultReplayBudget is the number of points a replay tick may add.
	DefaultReplayBudget = 2

	// DefaultPerspectiveEasing is the fraction of the remaining perspective
	// gap closed each frame during a replay.
	DefaultPerspectiveEasing = 0.08

	// DefaultFinishEpsilon is how close the perspective must get to its
	// final value before a finishing replay completes.
	DefaultFinishEpsilon = 0.003

	// DefaultMaxDust is the dust pool size.
	DefaultMaxDust = 2048

	// unsavedPointsThreshold is the number of hand-drawn points after which
	// discarding the session should be confirmed.
	unsavedPointsThreshold = 4
)

// Config tunes a Session. Start from DefaultConfig and override fields.
type Config struct {
	// Width and Height are the canvas size. Width/2 is the projection axis.
	Width, Height float64
	// Amplitude is the initial vibration amplitude.
	Amplitude float64
	// Elasticity is the per-frame relaxation fraction in (0, 1].
	Elasticity float64
	// Thickness is the initial brush width.
	Thickness float64
	// MinPointDistance is the minimum pointer travel before a new point is added.
	MinPointDistance float64
	// ReplayInterval is the delay between replay ticks.
	ReplayInterval time.Duration
	// ReplayBudget is the number of points drained per replay tick.
	ReplayBudget int
	// PerspectiveEasing is the per-frame easing fraction used during replay.
	PerspectiveEasing float64
	// FinishEpsilon is the completion tolerance of a finishing replay.
	FinishEpsilon float64
	// MaxDust is the dust pool size. New dust is dropped when full.
	MaxDust int
	// Seed makes vibration and dust deterministic when non-zero.
	Seed uint64
	// Logger receives lifecycle and debug records. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		Amplitude:         DefaultAmplitude,
		Elasticity:        DefaultElasticity,
		Thickness:         DefaultThickness,
		MinPointDistance:  DefaultMinPointDistance,
		ReplayInterval:    DefaultReplayInterval,
		ReplayBudget:      DefaultReplayBudget,
		PerspectiveEasing: DefaultPerspectiveEasing,
		FinishEpsilon:     DefaultFinishEpsilon,
		MaxDust:           DefaultMaxDust,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Amplitude < 0 {
		c.Amplitude = d.Amplitude
	}
	if c.Elasticity <= 0 || c.Elasticity > 1 {
		c.Elasticity = d.Elasticity
	}
	if c.Thickness <= 0 {
		c.Thickness = d.Thickness
	}
	if c.MinPointDistance <= 0 {
		c.MinPointDistance = d.MinPointDistance
	}
	if c.ReplayInterval <= 0 {
		c.ReplayInterval = d.ReplayInterval
	}
	if c.ReplayBudget <= 0 {
		c.ReplayBudget = d.ReplayBudget
	}
	if c.PerspectiveEasing <= 0 || c.PerspectiveEasing > 1 {
		c.PerspectiveEasing = d.PerspectiveEasing
	}
	if c.FinishEpsilon <= 0 {
		c.FinishEpsilon = d.FinishEpsilon
	}
	if c.MaxDust <= 0 {
		c.MaxDust = d.MaxDust
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
