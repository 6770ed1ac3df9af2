package mcomp

import "math"

// intProPos are the one-away checks after the projection match, in SAD4
// order: up, left, right, down.
var intProPos = [4]MV{{Row: -1}, {Col: -1}, {Col: 1}, {Row: 1}}

// IntProMotionEstimation estimates a full-pel MV for blocks at least 16
// pels wide by matching 1-D integral projections of source and reference
// over a window of half the block size on each side, then probing the
// one-away neighbours. It returns the MV in 1/8 pel and its SAD, and false
// when the block is too small or the window leaves the reference buffer.
func IntProMotionEstimation(b *Block) (MV, int, bool) {
	bs := b.Fn.Size()
	bw, bh := bs.Width(), bs.Height()
	if bw < 16 || bh < 16 {
		return MV{}, InvalidCost, false
	}
	if !b.Ref.Contains(-(bh >> 1), -(bw >> 1), 2*bh, 2*bw) {
		return MV{}, InvalidCost, false
	}
	normFactor := 3 + (bw >> 5)
	searchW, searchH := bw<<1, bh<<1

	var hbuf, vbuf [128]int
	var srcH, srcV [64]int

	// Column projections, normalised by half the height.
	for x := 0; x < searchW; x++ {
		hbuf[x] = projectColumn(b.Ref.At(0, x-(bw>>1)), b.Ref.Stride, bh) / (bh >> 1)
	}
	for y := 0; y < searchH; y++ {
		vbuf[y] = projectRow(b.Ref.At(y-(bh>>1), 0), bw) >> normFactor
	}
	src := b.src()
	for x := 0; x < bw; x++ {
		srcH[x] = projectColumn(src[x:], b.Src.Stride, bh) / (bh >> 1)
	}
	for y := 0; y < bh; y++ {
		srcV[y] = projectRow(src[y*b.Src.Stride:], bw) >> normFactor
	}

	mv := MV{
		Row: vectorMatch(vbuf[:], srcV[:], bs.HeightLog2()),
		Col: vectorMatch(hbuf[:], srcH[:], bs.WidthLog2()),
	}
	mv = b.Limits.Clamp(mv)
	best := mv
	bestSAD := b.sad(mv)

	var sads [4]int
	for i, p := range intProPos {
		n := mv.Add(p)
		if !b.Limits.Contains(n) {
			sads[i] = math.MaxInt32
			continue
		}
		sads[i] = b.sad(n)
		if sads[i] < bestSAD {
			bestSAD = sads[i]
			best = n
		}
	}

	// Try the diagonal between the cheaper vertical and horizontal candidates.
	diag := mv
	if sads[0] < sads[3] {
		diag.Row--
	} else {
		diag.Row++
	}
	if sads[1] < sads[2] {
		diag.Col--
	} else {
		diag.Col++
	}
	if b.Limits.Contains(diag) {
		if s := b.sad(diag); s < bestSAD {
			bestSAD = s
			best = diag
		}
	}
	return best.ToSubpel(), bestSAD, true
}

func projectColumn(p []byte, stride, h int) int {
	sum := 0
	for i := 0; i < h; i++ {
		sum += int(p[i*stride])
	}
	return sum
}

func projectRow(p []byte, w int) int {
	sum := 0
	for _, v := range p[:w] {
		sum += int(v)
	}
	return sum
}

// vectorVar is the variance of the difference of two projections of
// length 4<<bwl.
func vectorVar(ref, src []int, bwl int) int {
	width := 4 << bwl
	sse, mean := 0, 0
	for i := 0; i < width; i++ {
		d := ref[i] - src[i]
		mean += d
		sse += d * d
	}
	return sse - (mean*mean)>>(bwl+2)
}

// vectorMatch finds the offset of src within ref, which is twice as long,
// with a coarse scan in steps of 16 followed by halving refinements. The
// result is relative to the centre of ref.
func vectorMatch(ref, src []int, bwl int) int {
	bw := 4 << bwl
	best := math.MaxInt
	offset := 0
	for d := 0; d <= bw; d += 16 {
		if v := vectorVar(ref[d:], src, bwl); v < best {
			best = v
			offset = d
		}
	}
	center := offset
	for _, step := range [...]int{8, 4, 2, 1} {
		for _, d := range [...]int{-step, step} {
			pos := offset + d
			if pos < 0 || pos > bw {
				continue
			}
			if v := vectorVar(ref[pos:], src, bwl); v < best {
				best = v
				center = pos
			}
		}
		offset = center
	}
	return center - (bw >> 1)
}
