package dsp

// FilterBits is the precision of every interpolation kernel.
const FilterBits = 7

// SubpelShifts is the number of sixteenth-pel phases.
const SubpelShifts = 16

// BilinearFilters holds the 2-tap kernels used by the sub-pixel variance
// metrics, one per sixteenth-pel phase.
var BilinearFilters = [SubpelShifts][2]uint32{
	{128, 0}, {120, 8}, {112, 16}, {104, 24},
	{96, 32}, {88, 40}, {80, 48}, {72, 56},
	{64, 64}, {56, 72}, {48, 80}, {40, 88},
	{32, 96}, {24, 104}, {16, 112}, {8, 120},
}

// BilinearPredict filters ref at phase (xoff, yoff) into the contiguous
// w x h block dst: a horizontal pass over h+1 rows, then a vertical pass.
// One column right of and one row below the block are always read.
func BilinearPredict(dst []byte, ref []byte, refStride, xoff, yoff, w, h int) {
	var tmp [(64 + 1) * 64]uint16
	fx := BilinearFilters[xoff]
	for y := 0; y <= h; y++ {
		r := ref[y*refStride : y*refStride+w+1]
		t := tmp[y*w : y*w+w]
		for x := range t {
			t[x] = uint16((uint32(r[x])*fx[0] + uint32(r[x+1])*fx[1] + 64) >> FilterBits)
		}
	}
	fy := BilinearFilters[yoff]
	for y := 0; y < h; y++ {
		t0 := tmp[y*w : y*w+w]
		t1 := tmp[(y+1)*w : (y+1)*w+w]
		d := dst[y*w : y*w+w]
		for x := range d {
			d[x] = byte((uint32(t0[x])*fy[0] + uint32(t1[x])*fy[1] + 64) >> FilterBits)
		}
	}
}

// varianceFrom turns an (sse, sum) pair into a variance over 1<<pelsLog2
// samples.
func varianceFrom(sse uint32, sum int32, pelsLog2 int) uint32 {
	return sse - uint32((int64(sum)*int64(sum))>>pelsLog2)
}
