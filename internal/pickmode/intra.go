package pickmode

import (
	"github.com/deepteams/vp9me/internal/dsp"
)

// estimateIntra models an intra mode over blk, one transform block at a
// time in raster order. Edges come from the source picture, since the
// reconstruction of the neighbours is not known yet. Transform blocks
// wholly outside the visible frame are not coded and cost nothing.
func (e *Engine) estimateIntra(f *Frame, blk *Block, mode Mode, tx dsp.TxSize) (rate int, dist int64) {
	n := tx.Pixels()
	tb := tx.Block()
	src := f.Source.Y
	var pred [32 * 32]byte
	var edges dsp.IntraEdges
	for y := 0; y < blk.Size.Height(); y += n {
		row := blk.Row + y
		if row >= src.Height {
			break
		}
		for x := 0; x < blk.Size.Width(); x += n {
			col := blk.Col + x
			if col >= src.Width {
				break
			}
			view := src.Buf(row, col)
			edges.Load(view, n, row > 0, col > 0)
			dsp.PredictIntra(mode.intra(), &edges, pred[:], n)
			m, _ := e.modelLuma(f, tb, view.At(0, 0), view.Stride, pred[:], n)
			rate += m.Rate
			dist += m.Dist
		}
	}
	return rate, dist
}
