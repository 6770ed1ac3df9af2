package pickmode

import (
	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mvcost"
	"github.com/deepteams/vp9me/internal/rd"
)

// bilinearKernel places the 2-tap bilinear weights on the centre taps of
// an 8-tap kernel so Convolve8 can apply it.
var bilinearKernel = func() dsp.InterpKernel {
	var k dsp.InterpKernel
	for i, f := range dsp.BilinearFilters {
		k[i][3] = int16(f[0])
		k[i][4] = int16(f[1])
	}
	return k
}()

var interpKernels = [Switchable]*dsp.InterpKernel{
	EightTap:       &dsp.RegularFilter,
	EightTapSmooth: &dsp.SmoothFilter,
	EightTapSharp:  &dsp.SharpFilter,
	Bilinear:       &bilinearKernel,
}

func kernelFor(f Filter) *dsp.InterpKernel {
	if f >= Switchable {
		return interpKernels[EightTap]
	}
	return interpKernels[f]
}

// predictLuma renders the prediction of the block at (row, col) displaced
// by the 1/8-pel mv. The MV must lie inside the block's frame limits.
func predictLuma(dst []byte, stride int, p *dsp.Plane, row, col int, bs dsp.BlockSize, mv mvcost.MV, f Filter) {
	src := p.Buf(row+(mv.Row>>3), col+(mv.Col>>3))
	dsp.Convolve8(dst, stride, src, kernelFor(f), (mv.Col&7)<<1, (mv.Row&7)<<1, bs.Width(), bs.Height())
}

// predictChroma renders a 4:2:0 chroma prediction. The luma MV in 1/8 pel
// is a 1/16-pel chroma MV; (row, col) is the chroma block position.
func predictChroma(dst []byte, stride int, p *dsp.Plane, row, col int, bs dsp.BlockSize, mv mvcost.MV, f Filter) {
	w, h := bs.Width(), bs.Height()
	r := row + (mv.Row >> 4)
	c := col + (mv.Col >> 4)
	// Rounding the halved plane can leave the filter window a sample
	// outside the border; keep it in.
	r = min(max(r, 3-p.Border), p.Height+p.Border-dsp.InterpExtend-h)
	c = min(max(c, 3-p.Border), p.Width+p.Border-dsp.InterpExtend-w)
	dsp.Convolve8(dst, stride, p.Buf(r, c), kernelFor(f), mv.Col&15, mv.Row&15, w, h)
}

// selectTx picks the transform the model assumes for a block with the
// given prediction error.
func (e *Engine) selectTx(f *Frame, bs dsp.BlockSize, variance, sse uint32) dsp.TxSize {
	maxTx := min(bs.MaxTxSize(), f.TxMode.BiggestTx())
	if f.TxMode != dsp.TxModeSelect {
		return maxTx
	}
	tx := dsp.Tx8x8
	if uint64(sse) > uint64(variance)<<2 {
		tx = maxTx
	}
	if e.cfg.VarBasedPartition {
		tx = min(tx, dsp.Tx16x16)
	}
	return min(tx, bs.MaxTxSize())
}

// modelLuma estimates rate and distortion of coding src against pred.
func (e *Engine) modelLuma(f *Frame, bs dsp.BlockSize, src []byte, srcStride int, pred []byte, predStride int) (rd.BlockModel, dsp.TxSize) {
	variance, sse := e.kernels.For(bs).Variance(src, srcStride, pred, predStride)
	tx := e.selectTx(f, bs, variance, sse)
	tb := tx.Block()
	numTxLog2 := (bs.WidthLog2() - tb.WidthLog2()) + (bs.HeightLog2() - tb.HeightLog2())
	return rd.ModelPlane(f.yQuant, variance, sse, bs.NumPelsLog2(), numTxLog2), tx
}

// chromaError predicts one chroma plane (0 for U, 1 for V) and measures it
// against the source.
func (e *Engine) chromaError(f *Frame, blk *Block, ref RefFrame, mv mvcost.MV, filt Filter, plane int) (variance, sse uint32) {
	uvbs, ok := blk.Size.UV()
	if !ok {
		return 0, 0
	}
	src, dst := f.Source.U, f.Refs[ref].U
	if plane == 1 {
		src, dst = f.Source.V, f.Refs[ref].V
	}
	var pred [32 * 32]byte
	w := uvbs.Width()
	row, col := blk.Row>>1, blk.Col>>1
	predictChroma(pred[:], w, dst, row, col, uvbs, mv, filt)
	s := src.Buf(row, col)
	return e.kernels.For(uvbs).Variance(s.At(0, 0), s.Stride, pred[:], w)
}

// modelChroma adds the modelled cost of the colour-sensitive chroma planes.
func (e *Engine) modelChroma(f *Frame, blk *Block, ref RefFrame, mv mvcost.MV, filt Filter, c *candidate) {
	uvbs, ok := blk.Size.UV()
	if !ok || !f.hasChroma(ref) {
		return
	}
	for plane, on := range blk.ColorSensitivity {
		if !on {
			continue
		}
		v, s := e.chromaError(f, blk, ref, mv, filt, plane)
		rate, dist := rd.ModelChroma(f.uvQuant, v, s, uvbs.NumPelsLog2())
		c.rate += rate
		c.dist += dist
		c.variance += v
		c.sse += s
	}
}
