package mcomp

// fullRange is the half-width of the window of FullRangeSearch.
const fullRange = 64

// FullRangeSearch exhaustively evaluates every full-pel MV within ±64 of
// the clamped start point, batching four horizontal neighbours per call.
func FullRangeSearch(b *Block, start MV, center MV) (MV, int) {
	fcenter := center.ToFullpel()
	ref := b.Limits.Clamp(start)
	best := ref
	bestSAD := b.sad(ref) + b.sadCost(ref, fcenter)

	startRow := max(-fullRange, b.Limits.RowMin-ref.Row)
	startCol := max(-fullRange, b.Limits.ColMin-ref.Col)
	endRow := min(fullRange, b.Limits.RowMax-ref.Row)
	endCol := min(fullRange, b.Limits.ColMax-ref.Col)

	src := b.src()
	var (
		refs [4][]byte
		sads [4]uint32
	)
	for r := startRow; r <= endRow; r++ {
		for c := startCol; c <= endCol; c += 4 {
			if c+3 <= endCol {
				for i := range refs {
					refs[i] = b.refAt(MV{Row: ref.Row + r, Col: ref.Col + c + i})
				}
				b.Fn.SAD4(src, b.Src.Stride, &refs, b.Ref.Stride, &sads)
				for i := range sads {
					if sad := int(sads[i]); sad < bestSAD {
						mv := MV{Row: ref.Row + r, Col: ref.Col + c + i}
						if sad += b.sadCost(mv, fcenter); sad < bestSAD {
							bestSAD = sad
							best = mv
						}
					}
				}
				continue
			}
			for i := 0; i <= endCol-c; i++ {
				mv := MV{Row: ref.Row + r, Col: ref.Col + c + i}
				if sad := b.sad(mv); sad < bestSAD {
					if sad += b.sadCost(mv, fcenter); sad < bestSAD {
						bestSAD = sad
						best = mv
					}
				}
			}
		}
	}
	return best, bestSAD
}

// FullSearchBatch selects how many horizontally adjacent positions
// FullSearch measures per kernel call.
type FullSearchBatch int

const (
	FullSearchX1 FullSearchBatch = 1
	FullSearchX3 FullSearchBatch = 3
	FullSearchX8 FullSearchBatch = 8
)

// FullSearch evaluates every full-pel MV in the half-open window
// [ref-distance, ref+distance) intersected with the limits. All batch
// widths visit the same positions and return the same result.
func FullSearch(b *Block, ref MV, distance int, center MV, batch FullSearchBatch) (MV, int) {
	fcenter := center.ToFullpel()
	rowMin := max(ref.Row-distance, b.Limits.RowMin)
	rowMax := min(ref.Row+distance, b.Limits.RowMax)
	colMin := max(ref.Col-distance, b.Limits.ColMin)
	colMax := min(ref.Col+distance, b.Limits.ColMax)

	best := ref
	bestSAD := b.sad(ref) + b.sadCost(ref, fcenter)

	src := b.src()
	var sads [8]uint32
	consider := func(mv MV, sad int) {
		if sad < bestSAD {
			if sad += b.sadCost(mv, fcenter); sad < bestSAD {
				bestSAD = sad
				best = mv
			}
		}
	}
	for r := rowMin; r < rowMax; r++ {
		c := colMin
		for _, w := range [...]int{8, 3} {
			if int(batch) < w {
				continue
			}
			for c+w-1 < colMax {
				row := sads[:w]
				b.Fn.SADRow(src, b.Src.Stride, b.refAt(MV{Row: r, Col: c}), b.Ref.Stride, row)
				for i, s := range row {
					consider(MV{Row: r, Col: c + i}, int(s))
				}
				c += w
			}
		}
		for ; c < colMax; c++ {
			mv := MV{Row: r, Col: c}
			consider(mv, b.sad(mv))
		}
	}
	return best, bestSAD
}
