package pickmode

import (
	"github.com/deepteams/vp9me/internal/mvcost"
)

// Bounds of the AC breakout threshold before block size scaling.
const (
	maxBreakoutThresh = 36000
	breakoutShift     = 4
)

// breakoutThresholds returns the AC and DC energy limits below which a
// prediction is coded without residual. A zero user threshold disables
// the test.
func (f *Frame) breakoutThresholds(bwl, bhl int) (ac, dc uint32) {
	if f.EncodeBreakout <= 0 {
		return 0, 0
	}
	acq, dcq := f.yQuant.AC, f.yQuant.DC
	minThresh := min(f.EncodeBreakout<<breakoutShift, maxBreakoutThresh)
	t := min(max((acq*acq)>>3, minThresh), maxBreakoutThresh)
	t >>= 8 - (bwl + bhl)
	return uint32(t), uint32((dcq * dcq) >> 6)
}

// encodeBreakout tests whether the luma error, and then the chroma error
// of both planes, is small enough to skip the residual. On success it
// returns the rate without residual, excluding the MV rate, and the
// distortion of coding nothing.
func (e *Engine) encodeBreakout(f *Frame, blk *Block, ref RefFrame, mode Mode, mv mvcost.MV, filt Filter, varY, sseY uint32) (int, int64, bool) {
	bs := blk.Size
	ac, dc := f.breakoutThresholds(bs.WidthLog2(), bs.HeightLog2())
	if varY > ac || sseY-varY > dc {
		return 0, 0, false
	}
	if f.hasChroma(ref) {
		if _, ok := bs.UV(); ok {
			for plane := 0; plane < 2; plane++ {
				v, s := e.chromaError(f, blk, ref, mv, filt, plane)
				if v<<2 > ac || s-v > dc {
					return 0, 0, false
				}
			}
		}
	}
	rate := f.modeCosts.interMode(blk.Refs[ref].ModeContext, mode)
	return rate, int64(sseY) << 4, true
}
