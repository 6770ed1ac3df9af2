// Package pickmode implements the real-time inter mode decision of a VP9
// encoder: for one block it measures the candidate MVs of each reference,
// runs motion search for NEWMV, models the rate and distortion of every
// surviving inter mode with an optional interpolation filter search and
// falls back to the non-directional intra modes when inter prediction is
// poor.
//
// An Engine is owned by one goroutine. Frames are immutable once built and
// may be shared.
package pickmode

import (
	"math"

	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mcomp"
	"github.com/deepteams/vp9me/internal/mvcost"
	"github.com/deepteams/vp9me/internal/pool"
	"github.com/deepteams/vp9me/internal/rd"
)

// predBuffers covers the best prediction so far, the best filter of an
// ongoing search and the filter being tried.
const predBuffers = 4

// Inter modes in evaluation order.
var interModeOrder = [...]Mode{ModeZero, ModeNearest, ModeNear, ModeNew}

// Intra modes in evaluation order.
var intraModeOrder = [...]Mode{ModeDC, ModeV, ModeH, ModeTM}

// modeIdx maps a reference and inter mode offset to its threshold slot.
var modeIdx = [MaxRefFrames][4]rd.ThrMode{
	LastFrame:   {rd.ThrNearestMV, rd.ThrNearMV, rd.ThrZeroMV, rd.ThrNewMV},
	GoldenFrame: {rd.ThrNearestG, rd.ThrNearG, rd.ThrZeroG, rd.ThrNewG},
}

var intraThrMode = [4]rd.ThrMode{
	ModeDC: rd.ThrDC,
	ModeV:  rd.ThrVPred,
	ModeH:  rd.ThrHPred,
	ModeTM: rd.ThrTM,
}

// interThrModes are the slots adjusted after every decision.
var interThrModes = [...]rd.ThrMode{
	rd.ThrNearestMV, rd.ThrNearMV, rd.ThrZeroMV, rd.ThrNewMV,
	rd.ThrNearestG, rd.ThrNearG, rd.ThrZeroG, rd.ThrNewG,
}

// neutralThresholds stands in when the caller keeps no adaptive state.
// Its level is zero, so it is never written.
var neutralThresholds = rd.NewAdaptiveThresholds(0)

// Engine runs mode decisions with one speed configuration.
type Engine struct {
	cfg     Config
	kernels *dsp.Table
	preds   *pool.PredPool
	sites   map[int]*mcomp.SearchSiteConfig
}

// NewEngine returns an engine for cfg. Close releases its buffers.
func NewEngine(cfg Config) *Engine {
	k := cfg.Kernels
	if k == nil {
		k = dsp.DefaultTable()
	}
	return &Engine{
		cfg:     cfg,
		kernels: k,
		preds:   pool.NewPredPool(predBuffers),
		sites:   make(map[int]*mcomp.SearchSiteConfig),
	}
}

// Config returns the engine's speed features.
func (e *Engine) Config() Config { return e.cfg }

// Close returns the prediction buffers to the shared pool.
func (e *Engine) Close() {
	e.preds.Close()
}

// Buffers returns the prediction pool, for tests that check it drains.
func (e *Engine) Buffers() *pool.PredPool { return e.preds }

// sitesFor returns the search sites of a reference stride.
func (e *Engine) sitesFor(stride int) *mcomp.SearchSiteConfig {
	if s, ok := e.sites[stride]; ok {
		return s
	}
	var s *mcomp.SearchSiteConfig
	if e.cfg.SearchMethod == mcomp.MethodNStep {
		s = mcomp.NewThreeStepSites(stride)
	} else {
		s = mcomp.NewDiamondSites(stride)
	}
	e.sites[stride] = s
	return s
}

// blockState is the per-block scratch of a decision.
type blockState struct {
	frameMV      [numModes][MaxRefFrames]mvcost.MV
	predMVSAD    [MaxRefFrames]int
	bestRefIndex [MaxRefFrames]int
	predSSE      [MaxRefFrames]uint32
	costList     mcomp.CostList
}

// candidate is one evaluated inter prediction.
type candidate struct {
	filter   Filter
	pred     *pool.PredBuffer
	tx       dsp.TxSize
	skipTx   rd.SkipTx
	rate     int
	dist     int64
	variance uint32
	sse      uint32
}

// PickInterMode decides the mode of blk. thr carries the adaptive
// threshold factors across blocks and is updated in place; nil disables
// adaptation.
func (e *Engine) PickInterMode(f *Frame, blk *Block, thr *rd.AdaptiveThresholds) Decision {
	if thr == nil {
		thr = neutralThresholds
	}
	bs := blk.Size
	scope := pool.NewScope(e.preds)
	defer scope.Close()

	var st blockState
	st.costList.Invalidate()

	d := Decision{Ref: LastFrame, Mode: ModeZero, Filter: EightTap}
	var best rd.Cost
	best.Reset()
	bestTx := min(bs.MaxTxSize(), f.TxMode.BiggestTx())
	bestSkipTx := rd.SkipNone
	var bestPred *pool.PredBuffer
	skip := false

	filterRef := f.InterpFilter
	switch {
	case blk.Above.Available:
		filterRef = blk.Above.Filter
	case blk.Left.Available:
		filterRef = blk.Left.Filter
	}

	reduction := 0
	if e.cfg.VarBasedPartition && bs <= dsp.Block16x16 {
		reduction = 2
	}
	penalty := f.params.IntraCostPenalty >> reduction
	interModeThresh := rd.RDCost(f.params.RDMult, f.params.RDDiv, penalty, 0)
	threshes := &f.thresholds[bs]
	fact := &thr.Fact[bs]

	predFilterSearch := false
	if f.InterpFilter == Switchable {
		miRow, miCol := blk.Row>>3, blk.Col>>3
		predFilterSearch = (((miRow+miCol)>>bs.MIWidthLog2())+(f.Index&1))&1 != 0
	}
	switchCtx := switchableContext(blk.Above, blk.Left)

	var skipMask RefFlags
	for ref := LastFrame; ref <= GoldenFrame; ref++ {
		st.predMVSAD[ref] = mcomp.InvalidCost
		st.bestRefIndex[ref] = 0
		if !f.usable(ref) {
			skipMask |= ref.flag()
			continue
		}
		e.setupReference(f, blk, &st, ref)
	}
	if f.FramesSinceGolden == 0 {
		skipMask |= GoldenFlag
	}

refLoop:
	for ref := LastFrame; ref <= GoldenFrame; ref++ {
		other := GoldenFrame
		if ref == GoldenFrame {
			other = LastFrame
		}
		if f.RefFlags&ref.flag() == 0 {
			continue
		}
		if f.RefFlags&other.flag() != 0 && st.predMVSAD[ref] > st.predMVSAD[other]<<1 {
			skipMask |= ref.flag()
		}
		if skipMask&ref.flag() != 0 {
			continue
		}
		rc := &blk.Refs[ref]

		for _, mode := range interModeOrder {
			off := mode.interOffset()
			idx := modeIdx[ref][off]
			rateMV := 0

			if rc.ConstMotion && mode == ModeNear {
				continue
			}
			if e.cfg.InterModeMask[bs]&(1<<off) == 0 {
				continue
			}
			thresh := threshes[idx]
			if bestSkipTx != rd.SkipNone && thresh != math.MaxInt32 {
				thresh <<= 1
			}
			if rd.LessThanThresh(best.RDCost, thresh, fact[idx]) {
				continue
			}

			if mode == ModeNew {
				if ref != LastFrame {
					continue
				}
				if !e.cfg.VarBasedPartition && best.RDCost < int64(1)<<bs.NumPelsLog2() {
					continue
				}
				mv, r, ok := e.combinedMotionSearch(f, blk, &st, ref, best.RDCost)
				if !ok {
					continue
				}
				st.frameMV[ModeNew][ref] = mv
				rateMV = r
			}

			mv := st.frameMV[mode][ref]
			if mode != ModeNearest && mv == st.frameMV[ModeNearest][ref] {
				continue
			}

			var c candidate
			if (mode == ModeNew || filterRef == Switchable) && predFilterSearch && mv.IsSubpel() {
				c = e.searchFilter(f, blk, scope, ref, mv, switchCtx)
			} else {
				filt := filterRef
				if filt == Switchable || (f.InterpFilter == Switchable && filt >= switchableFilters) {
					filt = EightTap
				}
				c = e.predictAndModel(f, blk, scope, ref, mv, filt)
				if f.InterpFilter == Switchable {
					c.rate += f.modeCosts.switchable[switchCtx][filt]
				}
			}

			if blk.ColorSensitivity[0] || blk.ColorSensitivity[1] {
				e.modelChroma(f, blk, ref, mv, c.filter, &c)
			}

			rate := c.rate + rateMV + f.modeCosts.interMode(rc.ModeContext, mode) + refFrameCost[ref]
			dist := c.dist
			cost := rd.RDCost(f.params.RDMult, f.params.RDDiv, rate, dist)

			thisSkip := false
			if f.AllowEncodeBreakout {
				if r, dd, ok := e.encodeBreakout(f, blk, ref, mode, mv, c.filter, c.variance, c.sse); ok {
					thisSkip = true
					rate = r + rateMV
					dist = dd
					cost = rd.RDCost(f.params.RDMult, f.params.RDDiv, rate, dist)
				}
			}

			if cost < best.RDCost || thisSkip {
				best = rd.Cost{Rate: rate, Dist: dist, RDCost: cost}
				d.Ref = ref
				d.Mode = mode
				d.Filter = c.filter
				bestTx = c.tx
				bestSkipTx = c.skipTx
				scope.Release(bestPred)
				bestPred = c.pred
			} else {
				scope.Release(c.pred)
			}
			if thisSkip {
				skip = true
				break refLoop
			}
		}
	}

	d.MV = st.frameMV[d.Mode][d.Ref]
	d.TxSize = bestTx
	d.SkipTx = bestSkipTx
	d.Skip = skip

	if best.RDCost == rd.MaxRD || (!skip && best.RDCost > interModeThresh && bs <= e.cfg.MaxIntraBSize) {
		d.IntraSearched = true
		intraTx := min(bs.MaxTxSize(), f.TxMode.BiggestTx())
		for _, mode := range intraModeOrder {
			if e.cfg.IntraYModeMask[intraTx]&(1<<mode) == 0 {
				continue
			}
			rate, dist := e.estimateIntra(f, blk, mode, intraTx)
			rate += f.modeCosts.intraMode(mode) + refFrameCost[IntraFrame] + penalty
			cost := rd.RDCost(f.params.RDMult, f.params.RDDiv, rate, dist)
			if cost < best.RDCost {
				best = rd.Cost{Rate: rate, Dist: dist, RDCost: cost}
				d.Ref = IntraFrame
				d.Mode = mode
				d.MV = mvcost.MV{}
				d.Filter = EightTap
				d.TxSize = intraTx
				d.SkipTx = rd.SkipNone
			}
		}
	}

	if e.cfg.ReuseInterPred && bestPred != nil && d.Mode.IsInter() && blk.Dst != nil {
		w, h := bs.Width(), bs.Height()
		for y := 0; y < h; y++ {
			copy(blk.Dst[y*w:(y+1)*w], bestPred.Pix[y*bestPred.Stride:y*bestPred.Stride+w])
		}
	}

	var bestIdx rd.ThrMode
	if d.Mode.IsInter() {
		bestIdx = modeIdx[d.Ref][d.Mode.interOffset()]
	} else {
		bestIdx = intraThrMode[d.Mode]
	}
	thr.Update(bs, bestIdx, interThrModes[:])

	d.Rate, d.Dist, d.RDCost = best.Rate, best.Dist, best.RDCost
	d.PredMVSAD = st.predMVSAD
	d.PredSSE = st.predSSE
	d.CostList = st.costList
	return d
}

// predictAndModel renders the luma prediction of mv with filt into a pool
// buffer and models it.
func (e *Engine) predictAndModel(f *Frame, blk *Block, scope *pool.Scope, ref RefFrame, mv mvcost.MV, filt Filter) candidate {
	bs := blk.Size
	bw := bs.Width()
	buf := scope.Acquire(bw)
	if buf == nil {
		panic("pickmode: prediction buffers exhausted")
	}
	predictLuma(buf.Pix, bw, f.Refs[ref].luma(), blk.Row, blk.Col, bs, mv, filt)
	src := f.Source.Y.Buf(blk.Row, blk.Col)
	m, tx := e.modelLuma(f, bs, src.At(0, 0), src.Stride, buf.Pix, bw)
	return candidate{
		filter:   filt,
		pred:     buf,
		tx:       tx,
		skipTx:   m.Skip,
		rate:     m.Rate,
		dist:     m.Dist,
		variance: m.Variance,
		sse:      m.SSE,
	}
}

// searchFilter tries every switchable filter on mv and keeps the cheapest,
// signalling cost included.
func (e *Engine) searchFilter(f *Frame, blk *Block, scope *pool.Scope, ref RefFrame, mv mvcost.MV, ctx int) candidate {
	var best candidate
	var bestCost int64 = rd.MaxRD
	for filt := EightTap; filt < switchableFilters; filt++ {
		c := e.predictAndModel(f, blk, scope, ref, mv, filt)
		c.rate += f.modeCosts.switchable[ctx][filt]
		cost := rd.RDCost(f.params.RDMult, f.params.RDDiv, c.rate, c.dist)
		if cost < bestCost {
			scope.Release(best.pred)
			best, bestCost = c, cost
		} else {
			scope.Release(c.pred)
		}
	}
	return best
}
