package pickmode

import (
	"math"

	"github.com/deepteams/vp9me/internal/mcomp"
	"github.com/deepteams/vp9me/internal/mvcost"
	"github.com/deepteams/vp9me/internal/rd"
)

// searchBlock builds the motion search problem of blk against ref.
func (e *Engine) searchBlock(f *Frame, blk *Block, ref RefFrame) *mcomp.Block {
	src := f.Source.Y
	p := f.Refs[ref].luma()
	return &mcomp.Block{
		Src:         src.Buf(blk.Row, blk.Col),
		Ref:         p.Buf(blk.Row, blk.Col),
		Fn:          e.kernels.For(blk.Size),
		Limits:      mcomp.FrameLimits(blk.Row, blk.Col, blk.Size, src.Width, src.Height, p.Border),
		Costs:       f.mvCosts,
		ErrorPerBit: f.params.ErrorPerBit,
		SADPerBit:   f.params.SADPerBit16,
	}
}

// setupReference fills the NEARESTMV, NEARMV and ZEROMV vectors of ref
// and, for unscaled references, measures the candidates' SADs.
func (e *Engine) setupReference(f *Frame, blk *Block, st *blockState, ref RefFrame) {
	rc := &blk.Refs[ref]
	b := e.searchBlock(f, blk, ref)
	lim := b.Limits.Subpel()

	var cands [2]mvcost.MV
	for i, mv := range rc.Candidates {
		cands[i] = lim.Clamp(mvcost.LowerPrecision(mv, f.AllowHP))
	}
	st.frameMV[ModeNearest][ref] = cands[0]
	st.frameMV[ModeNear][ref] = cands[1]
	st.frameMV[ModeZero][ref] = mvcost.MV{}

	if f.Refs[ref].Scaled == nil {
		st.bestRefIndex[ref], st.predMVSAD[ref] = e.mvPred(b, blk, rc, cands)
	}
}

// mvPred measures the full-pel SAD of the candidate MVs, plus the
// enclosing partition's MV when adaptive motion search applies, and
// returns the index of the best and its SAD.
func (e *Engine) mvPred(b *mcomp.Block, blk *Block, rc *Reference, cands [2]mvcost.MV) (bestIdx, bestSAD int) {
	list := [3]mvcost.MV{cands[0], cands[1], rc.PredMV}
	n := 2
	if e.cfg.AdaptiveMotionSearch && blk.Size < e.cfg.MaxPartitionSize && rc.HasPredMV {
		n = 3
	}
	return e.measureCandidates(b, list, n)
}

// measureCandidates scores the first n vectors of list by SAD. A repeated
// zero vector is measured once.
func (e *Engine) measureCandidates(b *mcomp.Block, list [3]mvcost.MV, n int) (bestIdx, bestSAD int) {
	bestSAD = math.MaxInt32
	zeroSeen := false
	src := b.Src.At(0, 0)
	for i := 0; i < n; i++ {
		mv := list[i]
		if mv == (mvcost.MV{}) {
			if zeroSeen {
				continue
			}
			zeroSeen = true
		}
		full := b.Limits.Clamp(mv.ToFullpel())
		sad := int(b.Fn.SAD(src, b.Src.Stride, b.Ref.At(full.Row, full.Col), b.Ref.Stride))
		if sad < bestSAD {
			bestSAD, bestIdx = sad, i
		}
	}
	return bestIdx, bestSAD
}

// combinedMotionSearch finds the NEWMV of ref: an integer search from the
// best predicted MV, then sub-pixel refinement. It gives up when the
// reference's predictors are much worse than LAST's, or when the MV rate
// alone already costs more than bestRD. A refined MV too far from the
// predictor to be coded is rejected.
func (e *Engine) combinedMotionSearch(f *Frame, blk *Block, st *blockState, ref RefFrame, bestRD int64) (mvcost.MV, int, bool) {
	if !f.Hidden && st.predMVSAD[ref]>>3 > st.predMVSAD[LastFrame] {
		return mvcost.MV{}, 0, false
	}
	rc := &blk.Refs[ref]
	b := e.searchBlock(f, blk, ref)
	refMV := st.frameMV[ModeNearest][ref]
	b.Limits.SetSearchRange(refMV)

	var mvp mvcost.MV
	if idx := st.bestRefIndex[ref]; idx < 2 {
		mvp = st.frameMV[ModeNearest+Mode(idx)][ref]
	} else {
		mvp = rc.PredMV
	}
	start := b.Limits.Clamp(mvp.ToFullpel())

	if e.cfg.IntProSeed {
		if est, sad, ok := mcomp.IntProMotionEstimation(b); ok {
			full := est.ToFullpel()
			src := b.Src.At(0, 0)
			cur := int(b.Fn.SAD(src, b.Src.Stride, b.Ref.At(start.Row, start.Col), b.Ref.Stride))
			if b.Limits.Contains(full) && sad < cur {
				start = full
			}
		}
	}

	var costs *mcomp.CostList
	if e.cfg.costListEnabled() {
		costs = &st.costList
	}
	full, _ := mcomp.FullPixelSearch(b, e.sitesFor(b.Ref.Stride), e.cfg.SearchMethod, start, e.cfg.StepParam, costs, refMV, math.MaxInt32, false)

	rateMV := f.mvCosts.BitCost(full.ToSubpel(), refMV, mvcost.MVCostWeight)
	rateMode := f.modeCosts.interMode(rc.ModeContext, ModeNew)
	if rd.RDCost(f.params.RDMult, f.params.RDDiv, rateMV+rateMode, 0) > bestRD {
		return mvcost.MV{}, 0, false
	}

	res := e.cfg.SubpelMethod.Search(b, full, refMV, &mcomp.SubpelParams{
		AllowHP:      f.AllowHP,
		ForcedStop:   e.cfg.SubpelForcedStop,
		ItersPerStep: e.cfg.SubpelItersPerStep,
		Costs:        costs,
	})
	if res.Cost == mcomp.InvalidCost {
		return mvcost.MV{}, 0, false
	}
	st.predSSE[ref] = res.SSE
	return res.MV, rateMV, true
}

// SearchResult is the outcome of a standalone motion search.
type SearchResult struct {
	// MV is the refined vector in 1/8 pel; FullPel is the integer search
	// result it started from.
	MV      mvcost.MV
	FullPel mvcost.MV
	// IntCost is the variance-domain cost of FullPel, Cost the sub-pixel
	// cost of MV including its rate.
	IntCost    int
	Cost       int
	Distortion int
	SSE        uint32
	// RateMV is the rate of coding MV against center.
	RateMV   int
	CostList mcomp.CostList
}

// Search runs the integer and sub-pixel search of blk against ref around
// the 1/8-pel predictor center, without any mode decision.
func (e *Engine) Search(f *Frame, blk *Block, ref RefFrame, center mvcost.MV) SearchResult {
	b := e.searchBlock(f, blk, ref)
	b.Limits.SetSearchRange(center)
	var r SearchResult
	r.CostList.Invalidate()
	var costs *mcomp.CostList
	if e.cfg.costListEnabled() {
		costs = &r.CostList
	}
	start := b.Limits.Clamp(center.ToFullpel())
	r.FullPel, r.IntCost = mcomp.FullPixelSearch(b, e.sitesFor(b.Ref.Stride), e.cfg.SearchMethod, start, e.cfg.StepParam, costs, center, math.MaxInt32, false)
	res := e.cfg.SubpelMethod.Search(b, r.FullPel, center, &mcomp.SubpelParams{
		AllowHP:      f.AllowHP,
		ForcedStop:   e.cfg.SubpelForcedStop,
		ItersPerStep: e.cfg.SubpelItersPerStep,
		Costs:        costs,
	})
	r.MV, r.Cost, r.Distortion, r.SSE = res.MV, res.Cost, res.Distortion, res.SSE
	r.RateMV = f.mvCosts.BitCost(r.MV, center, mvcost.MVCostWeight)
	return r
}
