package mcomp

// Pattern tables are indexed by scale; scale s reaches at most 2^s pels.
const (
	maxPatternScales     = 11
	maxPatternCandidates = 8
	// patternCandidatesRef is the number of neighbours revisited around the
	// last winning direction during refinement.
	patternCandidatesRef = 3
)

// searchParamToSteps maps a step parameter to the coarsest scale searched.
var searchParamToSteps = [MaxMVSearchSteps]int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}

type pattern struct {
	num        [maxPatternScales]int
	candidates [maxPatternScales][maxPatternCandidates]MV
}

var (
	hexPattern    = buildHexPattern()
	bigdiaPattern = buildBigdiaPattern()
	squarePattern = buildSquarePattern()
)

func buildHexPattern() *pattern {
	p := &pattern{}
	p.num[0] = 8
	p.candidates[0] = [8]MV{
		{Row: -1, Col: -1}, {Row: 0, Col: -1}, {Row: 1, Col: -1}, {Row: 1, Col: 0},
		{Row: 1, Col: 1}, {Row: 0, Col: 1}, {Row: -1, Col: 1}, {Row: -1, Col: 0},
	}
	for s := 1; s < maxPatternScales; s++ {
		a := 1 << (s - 1)
		p.num[s] = 6
		p.candidates[s] = [8]MV{
			{Row: -a, Col: -2 * a}, {Row: a, Col: -2 * a}, {Row: 2 * a, Col: 0},
			{Row: a, Col: 2 * a}, {Row: -a, Col: 2 * a}, {Row: -2 * a, Col: 0},
		}
	}
	return p
}

func buildBigdiaPattern() *pattern {
	p := &pattern{}
	p.num[0] = 4
	// Scale 0 is in cost list order: left, bottom, right, top.
	p.candidates[0] = [8]MV{{Row: 0, Col: -1}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: -1, Col: 0}}
	for s := 1; s < maxPatternScales; s++ {
		a := 1 << (s - 1)
		p.num[s] = 8
		p.candidates[s] = [8]MV{
			{Row: -a, Col: -a}, {Row: 0, Col: -2 * a}, {Row: a, Col: -a}, {Row: 2 * a, Col: 0},
			{Row: a, Col: a}, {Row: 0, Col: 2 * a}, {Row: -a, Col: a}, {Row: -2 * a, Col: 0},
		}
	}
	return p
}

func buildSquarePattern() *pattern {
	p := &pattern{}
	for s := 0; s < maxPatternScales; s++ {
		d := 1 << s
		p.num[s] = 8
		p.candidates[s] = [8]MV{
			{Row: -d, Col: -d}, {Row: 0, Col: -d}, {Row: d, Col: -d}, {Row: d, Col: 0},
			{Row: d, Col: d}, {Row: 0, Col: d}, {Row: -d, Col: d}, {Row: -d, Col: 0},
		}
	}
	return p
}

// patternSearch carries the state of one pattern search.
type patternSearch struct {
	b       *Block
	p       *pattern
	fcenter MV
	useCost bool

	best    MV
	bestSAD int
	// bestRaw is the SAD of best without its MV rate.
	bestRaw int
}

// check measures best+offset and reports whether it became the new best.
// The MV rate is only added once the raw SAD already wins. raw receives the
// unweighted SAD when it is non-nil.
func (ps *patternSearch) check(mv MV, allIn bool, raw *int) bool {
	if !allIn && !ps.b.Limits.Contains(mv) {
		return false
	}
	sad := ps.b.sad(mv)
	if raw != nil {
		*raw = sad
	}
	if sad >= ps.bestSAD {
		return false
	}
	cost := sad
	if ps.useCost {
		cost += ps.b.sadCost(mv, ps.fcenter)
	}
	if cost >= ps.bestSAD {
		return false
	}
	ps.bestSAD = cost
	ps.bestRaw = sad
	return true
}

// scan checks every candidate of scale s around base and returns the index
// of the winner, or -1.
func (ps *patternSearch) scan(base MV, s int) int {
	bestSite := -1
	allIn := ps.b.Limits.checkBounds(base, 1<<s)
	for i := 0; i < ps.p.num[s]; i++ {
		if ps.check(base.Add(ps.p.candidates[s][i]), allIn, nil) {
			bestSite = i
		}
	}
	return bestSite
}

// nextCheckpoints returns the candidates adjacent to k on scale s.
func (ps *patternSearch) nextCheckpoints(k, s int) [patternCandidatesRef]int {
	n := ps.p.num[s]
	prev, next := k-1, k+1
	if k == 0 {
		prev = n - 1
	}
	if k == n-1 {
		next = 0
	}
	return [patternCandidatesRef]int{prev, k, next}
}

// refine walks scale s from the last winning direction k until no
// neighbour of it improves.
func (ps *patternSearch) refine(s, k int) int {
	for {
		bestSite := -1
		idx := ps.nextCheckpoints(k, s)
		allIn := ps.b.Limits.checkBounds(ps.best, 1<<s)
		base := ps.best
		for i := range idx {
			if ps.check(base.Add(ps.p.candidates[s][idx[i]]), allIn, nil) {
				bestSite = i
			}
		}
		if bestSite == -1 {
			return k
		}
		k = idx[bestSite]
		ps.best = base.Add(ps.p.candidates[s][k])
	}
}

// newPatternSearch clamps the start point and measures it.
func newPatternSearch(b *Block, p *pattern, start, center MV, useCost bool) *patternSearch {
	ps := &patternSearch{b: b, p: p, fcenter: center.ToFullpel(), useCost: useCost}
	ps.best = b.Limits.Clamp(start)
	ps.bestRaw = b.sad(ps.best)
	ps.bestSAD = ps.bestRaw + b.sadCost(ps.best, ps.fcenter)
	return ps
}

// initScan searches every scale up to the one selected by searchParam
// around the start point and moves to the best candidate found. It returns
// the winning scale and candidate, or -1 when the start point stayed best.
func (ps *patternSearch) initScan(searchParam int) (scale, k int) {
	scale, k = -1, -1
	origin := ps.best
	for t := 0; t <= searchParamToSteps[searchParam]; t++ {
		if site := ps.scan(origin, t); site != -1 {
			scale, k = t, site
		}
	}
	if scale != -1 {
		ps.best = origin.Add(ps.p.candidates[scale][k])
	}
	return scale, k
}

// patternSearchSAD is the generic pattern search: an optional scan of all
// scales, then a coarse-to-fine descent that refines each scale around the
// last winning direction. start is full pel, center 1/8 pel. When costs is
// non-nil it receives the variance cost list around the result.
func patternSearchSAD(b *Block, p *pattern, start MV, searchParam int, doInit bool, costs *CostList, useCost bool, center MV) (MV, int) {
	ps := newPatternSearch(b, p, start, center, useCost)
	k := -1
	bestInit := searchParamToSteps[searchParam]
	if doInit {
		bestInit, k = ps.initScan(searchParam)
	}
	if bestInit != -1 {
		for s := bestInit; s >= 0; s-- {
			if !doInit || s != bestInit {
				site := ps.scan(ps.best, s)
				if site == -1 {
					continue
				}
				ps.best = ps.best.Add(p.candidates[s][site])
				k = site
			}
			k = ps.refine(s, k)
		}
	}
	if costs != nil {
		calcIntCostList(b, center, ps.best, costs)
	}
	return ps.best, ps.bestSAD
}

// bigdiaSearchSAD is the pattern search for the big diamond. Its scale 0
// candidates are exactly the cost list neighbours, so the cost list is
// gathered in the SAD domain while the final scale runs.
func bigdiaSearchSAD(b *Block, start MV, searchParam int, doInit bool, costs *CostList, useCost bool, center MV) (MV, int) {
	p := bigdiaPattern
	ps := newPatternSearch(b, p, start, center, useCost)
	if costs != nil {
		costs.Invalidate()
	}
	k := -1
	bestInit := searchParamToSteps[searchParam]
	if doInit {
		bestInit, k = ps.initScan(searchParam)
	}

	s := bestInit
	if bestInit != -1 {
		lowest := 0
		if costs != nil {
			lowest = 1
		}
		bestSite := -1
		for ; s >= lowest; s-- {
			if !doInit || s != bestInit {
				bestSite = ps.scan(ps.best, s)
				if bestSite == -1 {
					continue
				}
				ps.best = ps.best.Add(p.candidates[s][bestSite])
				k = bestSite
			}
			k = ps.refine(s, k)
		}

		if s == 0 {
			costs[0] = ps.bestSAD
			centerRaw := ps.bestRaw
			if !doInit || s != bestInit {
				bestSite = -1
				base := ps.best
				allIn := b.Limits.checkBounds(base, 1)
				for i := 0; i < p.num[0]; i++ {
					mv := base.Add(p.candidates[0][i])
					if !allIn && !b.Limits.Contains(mv) {
						continue
					}
					if ps.check(mv, true, &costs[i+1]) {
						bestSite = i
					}
				}
				if bestSite != -1 {
					ps.best = base.Add(p.candidates[0][bestSite])
					k = bestSite
				}
			}
			for bestSite != -1 {
				bestSite = -1
				idx := ps.nextCheckpoints(k, 0)
				// The previous centre sits opposite the direction just taken.
				costs.Invalidate()
				costs[(k+2)%4+1] = centerRaw
				costs[0] = ps.bestSAD
				centerRaw = ps.bestRaw
				base := ps.best
				allIn := b.Limits.checkBounds(base, 1)
				for i := range idx {
					mv := base.Add(p.candidates[0][idx[i]])
					if !allIn && !b.Limits.Contains(mv) {
						continue
					}
					if ps.check(mv, true, &costs[idx[i]+1]) {
						bestSite = i
					}
				}
				if bestSite != -1 {
					k = idx[bestSite]
					ps.best = base.Add(p.candidates[0][k])
				}
			}
		}
	}

	if costs != nil {
		finishSADCostList(b, ps, costs)
	}
	return ps.best, ps.bestSAD
}

// finishSADCostList completes a SAD-domain cost list: it measures the
// neighbours when the final scale never ran, and adds the MV rate to every
// gathered neighbour.
func finishSADCostList(b *Block, ps *patternSearch, costs *CostList) {
	best := ps.best
	if costs[0] == InvalidCost {
		costs[0] = ps.bestSAD
		allIn := b.Limits.checkBounds(best, 1)
		for i, n := range costListNeighbors {
			mv := best.Add(n)
			if !allIn && !b.Limits.Contains(mv) {
				costs[i+1] = InvalidCost
				continue
			}
			costs[i+1] = b.sad(mv)
		}
	}
	if !ps.useCost {
		return
	}
	for i, n := range costListNeighbors {
		if costs[i+1] != InvalidCost {
			costs[i+1] += b.sadCost(best.Add(n), ps.fcenter)
		}
	}
}

// HexSearch runs the hexagon pattern search from the full-pel start.
// center is the 1/8-pel MV predictor the rate is measured against.
func HexSearch(b *Block, start MV, searchParam int, doInit bool, costs *CostList, useCost bool, center MV) (MV, int) {
	return patternSearchSAD(b, hexPattern, start, searchParam, doInit, costs, useCost, center)
}

// BigDiamondSearch runs the big diamond pattern search.
func BigDiamondSearch(b *Block, start MV, searchParam int, doInit bool, costs *CostList, useCost bool, center MV) (MV, int) {
	return bigdiaSearchSAD(b, start, searchParam, doInit, costs, useCost, center)
}

// SquareSearch runs the square pattern search.
func SquareSearch(b *Block, start MV, searchParam int, doInit bool, costs *CostList, useCost bool, center MV) (MV, int) {
	return patternSearchSAD(b, squarePattern, start, searchParam, doInit, costs, useCost, center)
}

// FastHexSearch is the hexagon search limited to the two finest scales
// with no initial scan.
func FastHexSearch(b *Block, start MV, searchParam int, costs *CostList, useCost bool, center MV) (MV, int) {
	return HexSearch(b, start, max(MaxMVSearchSteps-2, searchParam), false, costs, useCost, center)
}

// FastDiamondSearch is the big diamond search limited to the two finest
// scales with no initial scan.
func FastDiamondSearch(b *Block, start MV, searchParam int, costs *CostList, useCost bool, center MV) (MV, int) {
	return BigDiamondSearch(b, start, max(MaxMVSearchSteps-2, searchParam), false, costs, useCost, center)
}
