package mcomp

// DiamondSearch runs the step-halving diamond search starting at the scale
// selected by searchParam. It returns the best full-pel MV, its SAD cost,
// and num00: the number of leading steps that left the start point
// unchanged, which lets the caller skip repeating them.
func DiamondSearch(b *Block, cfg *SearchSiteConfig, start MV, searchParam int, center MV) (best MV, bestSAD, num00 int) {
	fcenter := center.ToFullpel()
	ref := b.Limits.Clamp(start)
	best = ref
	bestSAD = b.sad(best) + b.sadCost(best, fcenter)

	per := cfg.PerStep
	searchParam = min(searchParam, cfg.Steps()-1)
	ss := cfg.Sites[searchParam*per:]
	totSteps := cfg.Count()/per - searchParam
	src := b.src()
	var (
		refs [4][]byte
		sads [4]uint32
	)

	i := 1
	bestSite, lastSite := 0, 0
	for step := 0; step < totSteps; step++ {
		// The first four sites of a step are up, down, left and right.
		allIn := best.Row+ss[i].MV.Row > b.Limits.RowMin &&
			best.Row+ss[i+1].MV.Row < b.Limits.RowMax &&
			best.Col+ss[i+2].MV.Col > b.Limits.ColMin &&
			best.Col+ss[i+3].MV.Col < b.Limits.ColMax

		if allIn {
			for j := 0; j < per; j += 4 {
				for t := range refs {
					refs[t] = b.refAt(best.Add(ss[i+t].MV))
				}
				b.Fn.SAD4(src, b.Src.Stride, &refs, b.Ref.Stride, &sads)
				for t := range sads {
					if sad := int(sads[t]); sad < bestSAD {
						mv := best.Add(ss[i].MV)
						if sad += b.sadCost(mv, fcenter); sad < bestSAD {
							bestSAD = sad
							bestSite = i
						}
					}
					i++
				}
			}
		} else {
			for j := 0; j < per; j++ {
				mv := best.Add(ss[i].MV)
				if b.Limits.Contains(mv) {
					if sad := b.sad(mv); sad < bestSAD {
						if sad += b.sadCost(mv, fcenter); sad < bestSAD {
							bestSAD = sad
							bestSite = i
						}
					}
				}
				i++
			}
		}

		if bestSite != lastSite {
			best = best.Add(ss[bestSite].MV)
			lastSite = bestSite
		} else if best == ref {
			num00++
		}
	}
	return best, bestSAD, num00
}

// refiningNeighbors are the one-away offsets of RefiningSearch, in the
// order of the batched reference positions.
var refiningNeighbors = [4]MV{{Row: -1}, {Col: -1}, {Col: 1}, {Row: 1}}

// RefiningSearch greedily moves best one pel at a time toward the cheaper
// of its four neighbours, for at most searchRange moves. It returns the
// final MV and its SAD cost.
func RefiningSearch(b *Block, best MV, searchRange int, center MV) (MV, int) {
	fcenter := center.ToFullpel()
	src := b.src()
	bestSAD := b.sad(best) + b.sadCost(best, fcenter)
	var (
		refs [4][]byte
		sads [4]uint32
	)
	for i := 0; i < searchRange; i++ {
		bestSite := -1
		allIn := best.Row-1 > b.Limits.RowMin && best.Row+1 < b.Limits.RowMax &&
			best.Col-1 > b.Limits.ColMin && best.Col+1 < b.Limits.ColMax

		if allIn {
			for j, n := range refiningNeighbors {
				refs[j] = b.refAt(best.Add(n))
			}
			b.Fn.SAD4(src, b.Src.Stride, &refs, b.Ref.Stride, &sads)
			for j, n := range refiningNeighbors {
				if sad := int(sads[j]); sad < bestSAD {
					if sad += b.sadCost(best.Add(n), fcenter); sad < bestSAD {
						bestSAD = sad
						bestSite = j
					}
				}
			}
		} else {
			for j, n := range refiningNeighbors {
				mv := best.Add(n)
				if !b.Limits.Contains(mv) {
					continue
				}
				if sad := b.sad(mv); sad < bestSAD {
					if sad += b.sadCost(mv, fcenter); sad < bestSAD {
						bestSAD = sad
						bestSite = j
					}
				}
			}
		}

		if bestSite == -1 {
			break
		}
		best = best.Add(refiningNeighbors[bestSite])
	}
	return best, bestSAD
}

// refining8Neighbors extend the refining search with the diagonals.
var refining8Neighbors = [8]MV{
	{Row: -1}, {Col: -1}, {Col: 1}, {Row: 1},
	{Row: -1, Col: -1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: 1, Col: 1},
}

// RefiningSearch8p is RefiningSearch over eight neighbours, measuring the
// average of each candidate with the second predictor second.
func RefiningSearch8p(b *Block, best MV, searchRange int, center MV, second []byte) (MV, int) {
	fcenter := center.ToFullpel()
	src := b.src()
	best = b.Limits.Clamp(best)
	sadAvg := func(mv MV) int {
		return int(b.Fn.SADAvg(src, b.Src.Stride, b.refAt(mv), b.Ref.Stride, second))
	}
	bestSAD := sadAvg(best) + b.sadCost(best, fcenter)
	for i := 0; i < searchRange; i++ {
		bestSite := -1
		for j, n := range refining8Neighbors {
			mv := best.Add(n)
			if !b.Limits.Contains(mv) {
				continue
			}
			if sad := sadAvg(mv); sad < bestSAD {
				if sad += b.sadCost(mv, fcenter); sad < bestSAD {
					bestSAD = sad
					bestSite = j
				}
			}
		}
		if bestSite == -1 {
			break
		}
		best = best.Add(refining8Neighbors[bestSite])
	}
	return best, bestSAD
}

// refineRange is the move budget of the refinement after a diamond search.
const refineRange = 8

// FullPixelDiamond runs DiamondSearch at step and then at each finer step
// up to furtherSteps, skipping steps a previous run proved redundant. The
// winner of all runs, measured by MVPredVar, is optionally polished with
// RefiningSearch. When costs is non-nil it receives the cost list around
// the result.
func FullPixelDiamond(b *Block, cfg *SearchSiteConfig, start MV, step, furtherSteps int, doRefine bool, costs *CostList, center MV) (MV, int) {
	mv, bestSME, n := DiamondSearch(b, cfg, start, step, center)
	if bestSME < InvalidCost {
		bestSME = b.MVPredVar(mv, center, true)
	}
	best := mv

	if n > furtherSteps {
		doRefine = false
	}
	num00 := 0
	for n < furtherSteps {
		n++
		if num00 > 0 {
			num00--
			continue
		}
		var sme int
		mv, sme, num00 = DiamondSearch(b, cfg, start, step+n, center)
		if sme < InvalidCost {
			sme = b.MVPredVar(mv, center, true)
		}
		if num00 > furtherSteps-n {
			doRefine = false
		}
		if sme < bestSME {
			bestSME = sme
			best = mv
		}
	}

	if doRefine {
		mv, sme := RefiningSearch(b, best, refineRange, center)
		if sme < InvalidCost {
			sme = b.MVPredVar(mv, center, true)
		}
		if sme < bestSME {
			bestSME = sme
			best = mv
		}
	}

	if costs != nil {
		calcIntCostList(b, center, best, costs)
	}
	return best, bestSME
}
