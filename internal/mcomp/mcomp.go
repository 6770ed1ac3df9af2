// Package mcomp implements block motion search: integer-pel pattern,
// diamond and exhaustive searches, and sub-pixel refinement down to 1/8
// pel.
//
// Searches never fail with an error. A candidate that cannot be evaluated
// costs InvalidCost and loses every comparison.
package mcomp

import (
	"math"

	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mvcost"
)

// InvalidCost is the sentinel for a cost that could not be computed.
const InvalidCost = math.MaxInt32

// Search geometry limits.
const (
	MaxMVSearchSteps = 11
	// MaxFullPelVal is the largest full-pel displacement from the predictor.
	MaxFullPelVal = (1 << (MaxMVSearchSteps - 1)) - 1
	// MaxFirstStep is the coarsest diamond step.
	MaxFirstStep = 1 << (MaxMVSearchSteps - 1)
)

// MV is re-exported for brevity inside the package.
type MV = mvcost.MV

// Block is one search problem. Src is positioned at the source block and
// Ref at the co-located reference block, so MV (0,0) addresses Ref's
// origin. Both views are borrowed and never written.
type Block struct {
	Src    dsp.Buf
	Ref    dsp.Buf
	Fn     dsp.Variance
	Limits Limits
	Costs  *mvcost.Tables

	// ErrorPerBit weights MV rate in the variance domain.
	ErrorPerBit int
	// SADPerBit weights MV rate in the SAD domain.
	SADPerBit int
}

// refAt returns the reference samples for a full-pel MV.
func (b *Block) refAt(mv MV) []byte {
	return b.Ref.At(mv.Row, mv.Col)
}

func (b *Block) src() []byte { return b.Src.At(0, 0) }

// sad measures the full-pel candidate mv.
func (b *Block) sad(mv MV) int {
	return int(b.Fn.SAD(b.src(), b.Src.Stride, b.refAt(mv), b.Ref.Stride))
}

// variance measures the full-pel candidate mv in the variance domain.
func (b *Block) variance(mv MV) int {
	v, _ := b.Fn.Variance(b.src(), b.Src.Stride, b.refAt(mv), b.Ref.Stride)
	return int(v)
}

// sadCost is the SAD-domain rate of a full-pel mv around a full-pel centre.
func (b *Block) sadCost(mv, center MV) int {
	return b.Costs.SADErrCost(mv, center, b.SADPerBit)
}

// MVPredVar returns the variance of the full-pel mv plus its rate relative
// to the 1/8-pel center.
func (b *Block) MVPredVar(mv, center MV, useCost bool) int {
	v := b.variance(mv)
	if useCost {
		v += b.Costs.ErrCost(mv.ToSubpel(), center, b.ErrorPerBit)
	}
	return v
}

// CostList holds costs at the best integer position and its 4 neighbours:
// centre, left {0,-1}, bottom {1,0}, right {0,1}, top {-1,0}.
type CostList [5]int

// Invalidate marks every entry as InvalidCost.
func (c *CostList) Invalidate() {
	for i := range c {
		c[i] = InvalidCost
	}
}

// Valid reports whether every entry holds a cost.
func (c *CostList) Valid() bool {
	if c == nil {
		return false
	}
	for _, v := range c {
		if v == InvalidCost {
			return false
		}
	}
	return true
}

// WellBehaved reports whether the centre is strictly cheaper than all four
// neighbours, the precondition for the closed-form minimum.
func (c *CostList) WellBehaved() bool {
	return c[0] < c[1] && c[0] < c[2] && c[0] < c[3] && c[0] < c[4]
}

// SurfaceMin estimates the minimum of a paraboloid through the cost list,
// in units of 2^-bits of the neighbour distance.
func (c *CostList) SurfaceMin(bits int) (ir, ic int) {
	ic = divideAndRound((c[1]-c[3])*(1<<(bits-1)), c[1]-2*c[0]+c[3])
	ir = divideAndRound((c[4]-c[2])*(1<<(bits-1)), c[4]-2*c[0]+c[2])
	return ir, ic
}

// divideAndRound divides rounding half away from zero.
func divideAndRound(x, y int) int {
	if (x < 0) != (y < 0) {
		return (x - y/2) / y
	}
	return (x + y/2) / y
}

// costListNeighbors are the cost list offsets in slot order 1..4.
var costListNeighbors = [4]MV{{Row: 0, Col: -1}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: -1, Col: 0}}

// calcIntCostList fills c around the full-pel best. The centre uses the SAD
// rate, the neighbours the variance-domain rate, as the sub-pixel stage
// expects. center is in 1/8 pel.
func calcIntCostList(b *Block, center, best MV, c *CostList) {
	fcenter := center.ToFullpel()
	c[0] = b.variance(best) + b.sadCost(best, fcenter)
	allIn := b.Limits.checkBounds(best, 1)
	for i, n := range costListNeighbors {
		mv := best.Add(n)
		if !allIn && !b.Limits.Contains(mv) {
			c[i+1] = InvalidCost
			continue
		}
		c[i+1] = b.variance(mv) + b.Costs.ErrCost(mv.ToSubpel(), center, b.ErrorPerBit)
	}
}
