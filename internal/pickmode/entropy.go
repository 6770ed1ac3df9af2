package pickmode

import "github.com/deepteams/vp9me/internal/mvcost"

const (
	interModeContexts = 7
	intraModes        = 10 // every VP9 luma intra mode, directional ones included
	tmPred            = 9  // TM's token in intraModeTree
)

// Default VP9 probabilities of the mode syntax elements.
var (
	defaultInterModeProbs = [interModeContexts][3]mvcost.Prob{
		{2, 173, 34},
		{7, 145, 85},
		{7, 166, 63},
		{7, 94, 66},
		{8, 64, 46},
		{17, 81, 31},
		{25, 29, 30},
	}

	// Inter-frame luma mode probabilities for blocks of 8x8 up to 16x16.
	defaultYModeProbs = [intraModes - 1]mvcost.Prob{132, 68, 18, 165, 217, 196, 45, 127, 98}

	defaultSwitchableInterpProbs = [switchableFilters + 1][switchableFilters - 1]mvcost.Prob{
		{235, 162},
		{36, 255},
		{34, 3},
		{149, 144},
	}
)

// Tokens are inter mode offsets: NEARESTMV 0, NEARMV 1, ZEROMV 2, NEWMV 3.
var interModeTree = mvcost.Tree{
	-2, 2,
	-0, 4,
	-1, -3,
}

// Tokens: DC 0, V 1, H 2, D45 3, D135 4, D117 5, D153 6, D207 7, D63 8,
// TM 9.
var intraModeTree = mvcost.Tree{
	-0, 2,
	-9, 4,
	-1, 6,
	8, 12,
	-2, 10,
	-4, -5,
	-3, 14,
	-8, 16,
	-6, -7,
}

var switchableInterpTree = mvcost.Tree{
	-int8(EightTap), 2,
	-int8(EightTapSmooth), -int8(EightTapSharp),
}

// refFrameCost is the fixed signalling cost of each reference.
var refFrameCost = [MaxRefFrames]int{1235, 229, 530}

// modeCosts are the per-frame rates of the mode syntax in 1/256 bits.
type modeCosts struct {
	inter      [interModeContexts][4]int
	intra      [intraModes]int
	switchable [switchableFilters + 1][switchableFilters]int
}

func newModeCosts() *modeCosts {
	c := new(modeCosts)
	for ctx := range c.inter {
		mvcost.TreeCosts(c.inter[ctx][:], defaultInterModeProbs[ctx][:], interModeTree)
	}
	mvcost.TreeCosts(c.intra[:], defaultYModeProbs[:], intraModeTree)
	for ctx := range c.switchable {
		mvcost.TreeCosts(c.switchable[ctx][:], defaultSwitchableInterpProbs[ctx][:], switchableInterpTree)
	}
	return c
}

// interMode returns the rate of an inter mode in mode context ctx.
func (c *modeCosts) interMode(ctx int, m Mode) int {
	return c.inter[min(max(ctx, 0), interModeContexts-1)][m.interOffset()]
}

// intraMode returns the rate of one of the four supported intra modes.
func (c *modeCosts) intraMode(m Mode) int {
	if m == ModeTM {
		return c.intra[tmPred]
	}
	return c.intra[m]
}

// switchableContext derives the filter context from the neighbours: their
// shared filter, the filter of the only inter neighbour, or the extra
// context when they disagree or neither is inter.
func switchableContext(above, left Neighbor) int {
	lt, at := switchableFilters, switchableFilters
	if left.Available && left.Inter {
		lt = int(left.Filter)
	}
	if above.Available && above.Inter {
		at = int(above.Filter)
	}
	switch {
	case lt == at:
		return lt
	case lt == switchableFilters:
		return at
	case at == switchableFilters:
		return lt
	}
	return switchableFilters
}
