package mcomp

import (
	"fmt"
	"strings"

	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mvcost"
)

// SubpelParams configures a sub-pixel refinement.
type SubpelParams struct {
	// AllowHP enables 1/8-pel steps, subject to mvcost.UseHP on the
	// predictor.
	AllowHP bool
	// ForcedStop ends refinement early: 0 runs to the finest precision, 1
	// stops at quarter pel and 2 at half pel.
	ForcedStop int
	// ItersPerStep above 1 adds the second-level checks at each precision.
	ItersPerStep int
	// Costs is the integer-pel cost list; the pruned methods use it when
	// it is fully valid.
	Costs *CostList
	// Second is an optional second predictor averaged with every candidate.
	Second []byte
}

// SubpelResult is the outcome of a sub-pixel refinement. Cost is
// InvalidCost when the result strays too far from the predictor.
type SubpelResult struct {
	MV         MV
	Cost       int
	Distortion int
	SSE        uint32
}

// subpelSearch is the candidate evaluator shared by the refinement
// methods. Positions are 1/8 pel; best tracks the cheapest point seen.
type subpelSearch struct {
	b      *Block
	ref    MV
	second []byte
	iters  int

	minr, maxr, minc, maxc int

	br, bc     int
	besterr    int
	distortion int
	sse        uint32

	hstep    int
	whichdir int
}

func newSubpelSearch(b *Block, best, ref MV, p *SubpelParams) *subpelSearch {
	lim := b.Limits.Subpel()
	s := &subpelSearch{
		b:      b,
		ref:    ref,
		second: p.Second,
		iters:  p.ItersPerStep,
		minc:   max(lim.ColMin, ref.Col-mvcost.Max),
		maxc:   min(lim.ColMax, ref.Col+mvcost.Max),
		minr:   max(lim.RowMin, ref.Row-mvcost.Max),
		maxr:   min(lim.RowMax, ref.Row+mvcost.Max),
		br:     best.Row * 8,
		bc:     best.Col * 8,
		hstep:  4,
	}
	s.setupCenterError(best)
	return s
}

// setupCenterError measures the full-pel starting point.
func (s *subpelSearch) setupCenterError(best MV) {
	b := s.b
	pre := b.refAt(best)
	var v, sse uint32
	if s.second == nil {
		v, sse = b.Fn.Variance(pre, b.Ref.Stride, b.src(), b.Src.Stride)
	} else {
		bs := b.Fn.Size()
		w, h := bs.Width(), bs.Height()
		var comp [64 * 64]byte
		dsp.CompAvgPred(comp[:], s.second, w, h, pre, b.Ref.Stride)
		v, sse = b.Fn.Variance(comp[:], w, b.src(), b.Src.Stride)
	}
	s.distortion = int(v)
	s.sse = sse
	s.besterr = int(v) + b.Costs.ErrCost(best.ToSubpel(), s.ref, b.ErrorPerBit)
}

// sp converts a 1/8-pel fraction to the sixteenth-pel filter phase.
func sp(x int) int { return (x & 7) << 1 }

// check measures the 1/8-pel point (r, c) and returns its cost, updating
// the best point on a strict improvement. Points outside the bounds cost
// InvalidCost.
func (s *subpelSearch) check(r, c int) int {
	if c < s.minc || c > s.maxc || r < s.minr || r > s.maxr {
		return InvalidCost
	}
	b := s.b
	pre := b.Ref.At(r>>3, c>>3)
	var mse, sse uint32
	if s.second == nil {
		mse, sse = b.Fn.SubpixVariance(pre, b.Ref.Stride, sp(c), sp(r), b.src(), b.Src.Stride)
	} else {
		mse, sse = b.Fn.SubpixAvgVariance(pre, b.Ref.Stride, sp(c), sp(r), b.src(), b.Src.Stride, s.second)
	}
	v := b.Costs.ErrCost(MV{Row: r, Col: c}, s.ref, b.ErrorPerBit) + int(mse)
	if v < s.besterr {
		s.besterr = v
		s.br, s.bc = r, c
		s.distortion = int(mse)
		s.sse = sse
	}
	return v
}

// firstLevel checks the four axis neighbours of (tr, tc) at the current
// step, then the diagonal between the cheaper horizontal and vertical
// candidate.
func (s *subpelSearch) firstLevel(tr, tc int) {
	h := s.hstep
	left := s.check(tr, tc-h)
	right := s.check(tr, tc+h)
	up := s.check(tr-h, tc)
	down := s.check(tr+h, tc)
	s.whichdir = 0
	if left >= right {
		s.whichdir++
	}
	if up >= down {
		s.whichdir += 2
	}
	s.checkDiagonal(tr, tc)
}

// checkDiagonal checks the diagonal selected by whichdir: bit 0 picks
// right over left, bit 1 down over up.
func (s *subpelSearch) checkDiagonal(tr, tc int) {
	h := s.hstep
	switch s.whichdir {
	case 0:
		s.check(tr-h, tc-h)
	case 1:
		s.check(tr-h, tc+h)
	case 2:
		s.check(tr+h, tc-h)
	case 3:
		s.check(tr+h, tc+h)
	}
}

// secondLevel extends the search past the point the first level moved to
// from (tr, tc).
func (s *subpelSearch) secondLevel(tr, tc int) {
	h := s.hstep
	br, bc := s.br, s.bc
	switch {
	case tr != br && tc != bc:
		kr, kc := br-tr, bc-tc
		s.check(tr+kr, tc+2*kc)
		s.check(tr+2*kr, tc+kc)
	case tr == br && tc != bc:
		kc := bc - tc
		s.check(tr+h, tc+2*kc)
		s.check(tr-h, tc+2*kc)
		switch s.whichdir {
		case 0, 1:
			s.check(tr+h, tc+kc)
		case 2, 3:
			s.check(tr-h, tc+kc)
		}
	case tr != br && tc == bc:
		kr := br - tr
		s.check(tr+2*kr, tc+h)
		s.check(tr+2*kr, tc-h)
		switch s.whichdir {
		case 0, 2:
			s.check(tr+kr, tc+h)
		case 1, 3:
			s.check(tr+kr, tc-h)
		}
	}
}

// level runs one precision from the current best.
func (s *subpelSearch) level() {
	tr, tc := s.br, s.bc
	s.firstLevel(tr, tc)
	if s.iters > 1 {
		s.secondLevel(tr, tc)
	}
}

// result finalises the search, rejecting MVs that cannot be coded
// relative to the predictor.
func (s *subpelSearch) result() SubpelResult {
	r := SubpelResult{
		MV:         MV{Row: s.br, Col: s.bc},
		Cost:       s.besterr,
		Distortion: s.distortion,
		SSE:        s.sse,
	}
	if abs(r.MV.Col-s.ref.Col) > MaxFullPelVal<<3 || abs(r.MV.Row-s.ref.Row) > MaxFullPelVal<<3 {
		r.Cost = InvalidCost
	}
	return r
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// useHP reports whether the 1/8-pel level runs for predictor ref.
func (p *SubpelParams) useHP(ref MV) bool {
	return p.AllowHP && mvcost.UseHP(ref)
}

// subpelSteps are the left, right, up and down steps of each tree round.
var subpelSteps = [3][4]MV{
	{{Row: 0, Col: -4}, {Row: 0, Col: 4}, {Row: -4, Col: 0}, {Row: 4, Col: 0}},
	{{Row: 0, Col: -2}, {Row: 0, Col: 2}, {Row: -2, Col: 0}, {Row: 2, Col: 0}},
	{{Row: 0, Col: -1}, {Row: 0, Col: 1}, {Row: -1, Col: 0}, {Row: 1, Col: 0}},
}

// SubpelTree refines the full-pel best around the 1/8-pel predictor ref.
// Each round checks the four axis neighbours of the current best and the
// diagonal between the cheaper ones, then halves the step. A tie between
// opposite candidates sends the diagonal towards the positive side.
func SubpelTree(b *Block, best, ref MV, p *SubpelParams) SubpelResult {
	s := newSubpelSearch(b, best, ref, p)
	rounds := 3 - p.ForcedStop
	if !p.useHP(ref) && rounds == 3 {
		rounds = 2
	}
	// The tree keeps the second-level tie direction fixed.
	s.whichdir = 0
	for round := 0; round < rounds; round++ {
		r0, c0 := s.br, s.bc
		var cost [4]int
		for i, d := range subpelSteps[round] {
			cost[i] = s.check(r0+d.Row, c0+d.Col)
		}
		tr, tc := r0+s.hstep, c0+s.hstep
		if cost[0] < cost[1] {
			tc = c0 - s.hstep
		}
		if cost[2] < cost[3] {
			tr = r0 - s.hstep
		}
		s.check(tr, tc)
		if s.iters > 1 {
			s.secondLevel(tr, tc)
		}
		s.hstep >>= 1
	}
	return s.result()
}

// SubpelMethod selects the sub-pixel refinement strategy.
type SubpelMethod int

const (
	SubpelMethodTree SubpelMethod = iota
	SubpelMethodPruned
	SubpelMethodPrunedMore
	SubpelMethodPrunedEvenMore
)

var subpelMethodNames = [...]string{"tree", "pruned", "pruned_more", "pruned_evenmore"}

func (m SubpelMethod) String() string {
	if m < 0 || int(m) >= len(subpelMethodNames) {
		return fmt.Sprintf("SubpelMethod(%d)", int(m))
	}
	return subpelMethodNames[m]
}

// ParseSubpelMethod maps a method name to its value.
func ParseSubpelMethod(s string) (SubpelMethod, error) {
	for i, n := range subpelMethodNames {
		if strings.EqualFold(s, n) {
			return SubpelMethod(i), nil
		}
	}
	return 0, fmt.Errorf("mcomp: unknown subpel method %q", s)
}

// Search runs the method on the full-pel best with predictor ref.
func (m SubpelMethod) Search(b *Block, best, ref MV, p *SubpelParams) SubpelResult {
	switch m {
	case SubpelMethodPruned:
		return SubpelTreePruned(b, best, ref, p)
	case SubpelMethodPrunedMore:
		return SubpelTreePrunedMore(b, best, ref, p)
	case SubpelMethodPrunedEvenMore:
		return SubpelTreePrunedEvenMore(b, best, ref, p)
	default:
		return SubpelTree(b, best, ref, p)
	}
}
