package mcomp

import (
	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mvcost"
)

// Limits bounds the full-pel MVs a search may visit, inclusive.
type Limits struct {
	RowMin, RowMax int
	ColMin, ColMax int
}

// FrameLimits returns the MV bounds of the block at pixel (row, col): the
// block may leave the frame by at most its own size plus the interpolation
// extension, and never so far that filtering would read past the border of
// a reference plane of the same dimensions.
func FrameLimits(row, col int, bs dsp.BlockSize, frameW, frameH, border int) Limits {
	w, h := bs.Width(), bs.Height()
	l := Limits{
		RowMin: -(row + h + dsp.InterpExtend),
		RowMax: frameH - row + dsp.InterpExtend,
		ColMin: -(col + w + dsp.InterpExtend),
		ColMax: frameW - col + dsp.InterpExtend,
	}
	// Taps reach 3 samples before and 4 after the block.
	l.RowMin = max(l.RowMin, 3-border-row)
	l.ColMin = max(l.ColMin, 3-border-col)
	l.RowMax = min(l.RowMax, frameH+border-dsp.InterpExtend-h-row)
	l.ColMax = min(l.ColMax, frameW+border-dsp.InterpExtend-w-col)
	return l
}

// SetSearchRange narrows l to what can be coded relative to the 1/8-pel
// predictor ref. It never widens the range, so repeating it is a no-op.
func (l *Limits) SetSearchRange(ref MV) {
	colMin := (ref.Col >> 3) - MaxFullPelVal
	rowMin := (ref.Row >> 3) - MaxFullPelVal
	if ref.Col&7 != 0 {
		colMin++
	}
	if ref.Row&7 != 0 {
		rowMin++
	}
	colMax := (ref.Col >> 3) + MaxFullPelVal
	rowMax := (ref.Row >> 3) + MaxFullPelVal

	// Stay inside what the MV codec can represent.
	colMin = max(colMin, (mvcost.Low>>3)+1)
	rowMin = max(rowMin, (mvcost.Low>>3)+1)
	colMax = min(colMax, (mvcost.Upp>>3)-1)
	rowMax = min(rowMax, (mvcost.Upp>>3)-1)

	l.ColMin = max(l.ColMin, colMin)
	l.ColMax = min(l.ColMax, colMax)
	l.RowMin = max(l.RowMin, rowMin)
	l.RowMax = min(l.RowMax, rowMax)
}

// Contains reports whether the full-pel mv lies inside l.
func (l Limits) Contains(mv MV) bool {
	return mv.Col >= l.ColMin && mv.Col <= l.ColMax &&
		mv.Row >= l.RowMin && mv.Row <= l.RowMax
}

// Clamp moves mv to the nearest point inside l.
func (l Limits) Clamp(mv MV) MV {
	mv.Col = min(max(mv.Col, l.ColMin), l.ColMax)
	mv.Row = min(max(mv.Row, l.RowMin), l.RowMax)
	return mv
}

// Subpel returns the bounds in 1/8 pel.
func (l Limits) Subpel() Limits {
	return Limits{l.RowMin * 8, l.RowMax * 8, l.ColMin * 8, l.ColMax * 8}
}

// ClampSubpel moves a 1/8-pel mv inside the bounds.
func (l Limits) ClampSubpel(mv MV) MV {
	return l.Subpel().Clamp(mv)
}

// checkBounds reports whether every point within r of mv is inside l.
func (l Limits) checkBounds(mv MV, r int) bool {
	return mv.Row-r >= l.RowMin && mv.Row+r <= l.RowMax &&
		mv.Col-r >= l.ColMin && mv.Col+r <= l.ColMax
}

// InitSearchRange returns the initial step parameter for a frame whose
// larger dimension is size: the first step that covers the frame.
func InitSearchRange(size int) int {
	size = max(16, size)
	sr := 0
	for (size << sr) < MaxFullPelVal {
		sr++
	}
	return min(sr, MaxMVSearchSteps-2)
}
