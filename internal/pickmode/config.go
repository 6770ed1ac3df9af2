package pickmode

import (
	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mcomp"
)

// Config holds the speed features of the mode decision.
type Config struct {
	SearchMethod mcomp.SearchMethod
	SubpelMethod mcomp.SubpelMethod
	// StepParam is the initial step of the integer search.
	StepParam          int
	SubpelForcedStop   int
	SubpelItersPerStep int

	// AdaptiveMotionSearch adds the enclosing partition's MV to the
	// candidates measured by the SAD predictor for blocks smaller than
	// MaxPartitionSize.
	AdaptiveMotionSearch bool
	MaxPartitionSize     dsp.BlockSize
	// VarBasedPartition lowers the intra penalty of small blocks, caps the
	// selected transform at 16x16 and keeps NEWMV when the best cost is
	// already low.
	VarBasedPartition bool
	// MaxIntraBSize is the largest block on which intra modes are tried.
	MaxIntraBSize dsp.BlockSize

	InterModeMask  [dsp.BlockSizes]uint8
	IntraYModeMask [4]uint8

	// AdaptiveRDThresh is the adaptive threshold level; zero disables it.
	AdaptiveRDThresh   int
	ElevateNewMVThresh int

	// ReuseInterPred keeps the winning inter prediction and copies it to
	// Block.Dst.
	ReuseInterPred bool
	// IntProSeed starts the NEWMV search from the integral projection
	// estimate when that beats the best candidate.
	IntProSeed bool

	// Kernels supplies the distortion metrics.
	Kernels *dsp.Table
}

// DefaultConfig returns the real-time speed features of a speed level
// from 0 (slowest) to 8.
func DefaultConfig(speed int) Config {
	c := Config{
		SearchMethod:         mcomp.MethodNStep,
		SubpelMethod:         mcomp.SubpelMethodTree,
		StepParam:            6,
		SubpelItersPerStep:   2,
		AdaptiveMotionSearch: true,
		MaxPartitionSize:     dsp.Block64x64,
		MaxIntraBSize:        dsp.Block64x64,
		AdaptiveRDThresh:     1,
	}
	for i := range c.InterModeMask {
		c.InterModeMask[i] = InterAll
	}
	for i := range c.IntraYModeMask {
		c.IntraYModeMask[i] = IntraAll
	}
	if speed >= 1 {
		c.SearchMethod = mcomp.MethodBigDiamond
	}
	if speed >= 3 {
		c.SubpelItersPerStep = 1
		c.SearchMethod = mcomp.MethodHex
	}
	if speed >= 4 {
		c.SubpelMethod = mcomp.SubpelMethodPruned
	}
	if speed >= 5 {
		c.SearchMethod = mcomp.MethodFastHex
		c.AdaptiveRDThresh = 2
		c.ElevateNewMVThresh = 2000
		c.MaxIntraBSize = dsp.Block32x32
		for i := range c.IntraYModeMask {
			c.IntraYModeMask[i] = IntraDCHV
		}
	}
	if speed >= 6 {
		c.SearchMethod = mcomp.MethodFastDiamond
		c.SubpelMethod = mcomp.SubpelMethodPrunedMore
		c.VarBasedPartition = true
		c.ReuseInterPred = true
		for bs := dsp.Block32x32; bs < dsp.BlockSizes; bs++ {
			c.InterModeMask[bs] = InterNearestNewZero
		}
	}
	if speed >= 7 {
		c.SubpelMethod = mcomp.SubpelMethodPrunedEvenMore
		c.SubpelForcedStop = 1
		c.IntraYModeMask[dsp.Tx32x32] = IntraDCOnly
		c.MaxIntraBSize = dsp.Block16x16
	}
	if speed >= 8 {
		c.SubpelForcedStop = 2
		c.AdaptiveMotionSearch = false
	}
	return c
}

// costListEnabled reports whether the integer search should produce the
// cost list the sub-pixel method consumes.
func (c *Config) costListEnabled() bool {
	return c.SubpelMethod != mcomp.SubpelMethodTree
}
