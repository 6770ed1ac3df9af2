package vp9me

import (
	"fmt"

	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mcomp"
	"github.com/deepteams/vp9me/internal/pickmode"
)

// MaxSpeed is the fastest speed preset.
const MaxSpeed = 8

// Options controls the mode decision. Start from DefaultOptions and
// override fields; the zero value is not a valid configuration.
type Options struct {
	// Speed is the preset the other fields were derived from, 0 (slowest)
	// to MaxSpeed. It also selects the mode masks, which have no field.
	Speed int

	SearchMethod SearchMethod
	SubpelMethod SubpelMethod
	// StepParam is the first step of the integer search, 0 (widest) to 9.
	StepParam int
	// SubpelForcedStop ends sub-pixel refinement at 1/8 (0), 1/4 (1) or
	// 1/2 (2) pel.
	SubpelForcedStop   int
	SubpelItersPerStep int

	AdaptiveMotionSearch bool
	VarBasedPartition    bool
	// MaxIntraBSize is the largest block on which intra modes are tried.
	MaxIntraBSize BlockSize
	// AdaptiveRDThresh is the level of mode threshold adaptation, 0 to
	// disable.
	AdaptiveRDThresh   int
	ElevateNewMVThresh int
	ReuseInterPred     bool
	// IntProSeed seeds NEWMV search with the integral projection estimate.
	IntProSeed bool

	// Backend selects the distortion kernels.
	Backend Backend
	// Logger receives debug records of frames and decisions; nil discards
	// them.
	Logger *Logger
}

// DefaultOptions returns the real-time preset of a speed level. Speeds
// outside 0-MaxSpeed are clamped.
func DefaultOptions(speed int) *Options {
	speed = min(max(speed, 0), MaxSpeed)
	c := pickmode.DefaultConfig(speed)
	return &Options{
		Speed:                speed,
		SearchMethod:         c.SearchMethod,
		SubpelMethod:         c.SubpelMethod,
		StepParam:            c.StepParam,
		SubpelForcedStop:     c.SubpelForcedStop,
		SubpelItersPerStep:   c.SubpelItersPerStep,
		AdaptiveMotionSearch: c.AdaptiveMotionSearch,
		VarBasedPartition:    c.VarBasedPartition,
		MaxIntraBSize:        c.MaxIntraBSize,
		AdaptiveRDThresh:     c.AdaptiveRDThresh,
		ElevateNewMVThresh:   c.ElevateNewMVThresh,
		ReuseInterPred:       c.ReuseInterPred,
		Backend:              dsp.ActiveBackend(),
	}
}

// Option adjusts Options after the preset is applied.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(l *Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithBackend forces the distortion kernels.
func WithBackend(b Backend) Option {
	return func(o *Options) { o.Backend = b }
}

// WithSearchMethod selects the integer-pel search.
func WithSearchMethod(m SearchMethod) Option {
	return func(o *Options) { o.SearchMethod = m }
}

// WithSubpelMethod selects the sub-pixel refinement.
func WithSubpelMethod(m SubpelMethod) Option {
	return func(o *Options) { o.SubpelMethod = m }
}

// WithIntProSeed enables the integral projection seed.
func WithIntProSeed(on bool) Option {
	return func(o *Options) { o.IntProSeed = on }
}

// WithAdaptiveRDThresh sets the threshold adaptation level.
func WithAdaptiveRDThresh(level int) Option {
	return func(o *Options) { o.AdaptiveRDThresh = level }
}

// validate returns an error describing the first invalid field.
func (o *Options) validate() error {
	if o.Speed < 0 || o.Speed > MaxSpeed {
		return fmt.Errorf("vp9me: invalid Speed %d (must be 0-%d)", o.Speed, MaxSpeed)
	}
	if o.SearchMethod < mcomp.MethodNStep || o.SearchMethod > mcomp.MethodFastDiamond {
		return fmt.Errorf("vp9me: invalid SearchMethod %d", int(o.SearchMethod))
	}
	if o.SubpelMethod < mcomp.SubpelMethodTree || o.SubpelMethod > mcomp.SubpelMethodPrunedEvenMore {
		return fmt.Errorf("vp9me: invalid SubpelMethod %d", int(o.SubpelMethod))
	}
	if o.StepParam < 0 || o.StepParam > mcomp.MaxMVSearchSteps-2 {
		return fmt.Errorf("vp9me: invalid StepParam %d (must be 0-%d)", o.StepParam, mcomp.MaxMVSearchSteps-2)
	}
	if o.SubpelForcedStop < 0 || o.SubpelForcedStop > 2 {
		return fmt.Errorf("vp9me: invalid SubpelForcedStop %d (must be 0-2)", o.SubpelForcedStop)
	}
	if o.SubpelItersPerStep < 1 {
		return fmt.Errorf("vp9me: invalid SubpelItersPerStep %d (must be >= 1)", o.SubpelItersPerStep)
	}
	if o.MaxIntraBSize >= dsp.BlockSizes {
		return fmt.Errorf("vp9me: invalid MaxIntraBSize %d", int(o.MaxIntraBSize))
	}
	if o.AdaptiveRDThresh < 0 {
		return fmt.Errorf("vp9me: invalid AdaptiveRDThresh %d (must be >= 0)", o.AdaptiveRDThresh)
	}
	if o.ElevateNewMVThresh < 0 {
		return fmt.Errorf("vp9me: invalid ElevateNewMVThresh %d (must be >= 0)", o.ElevateNewMVThresh)
	}
	if o.Backend != dsp.Generic && o.Backend != dsp.Unrolled {
		return fmt.Errorf("vp9me: invalid Backend %d", int(o.Backend))
	}
	return nil
}

// config overlays the options on the speed preset.
func (o *Options) config() pickmode.Config {
	c := pickmode.DefaultConfig(o.Speed)
	c.SearchMethod = o.SearchMethod
	c.SubpelMethod = o.SubpelMethod
	c.StepParam = o.StepParam
	c.SubpelForcedStop = o.SubpelForcedStop
	c.SubpelItersPerStep = o.SubpelItersPerStep
	c.AdaptiveMotionSearch = o.AdaptiveMotionSearch
	c.VarBasedPartition = o.VarBasedPartition
	c.MaxIntraBSize = o.MaxIntraBSize
	c.AdaptiveRDThresh = o.AdaptiveRDThresh
	c.ElevateNewMVThresh = o.ElevateNewMVThresh
	c.ReuseInterPred = o.ReuseInterPred
	c.IntProSeed = o.IntProSeed
	c.Kernels = dsp.NewTable(o.Backend)
	return c
}
