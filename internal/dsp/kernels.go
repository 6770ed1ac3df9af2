// Package dsp provides the pixel kernels of the motion search: block
// distortion metrics, sub-pixel and 8-tap interpolation, intra predictors
// and colour conversion for frame input.
package dsp

// Variance is the per-block-size set of distortion metrics used by motion
// search. Slices are positioned at the block origin; second predictors are
// contiguous blocks of the same size.
type Variance interface {
	Size() BlockSize
	SAD(src []byte, srcStride int, ref []byte, refStride int) uint32
	SADAvg(src []byte, srcStride int, ref []byte, refStride int, second []byte) uint32
	// SAD4 measures four independent reference positions.
	SAD4(src []byte, srcStride int, refs *[4][]byte, refStride int, sads *[4]uint32)
	// SADRow measures len(sads) horizontally consecutive reference positions.
	SADRow(src []byte, srcStride int, ref []byte, refStride int, sads []uint32)
	Variance(src []byte, srcStride int, ref []byte, refStride int) (variance, sse uint32)
	// SubpixVariance filters ref at sixteenth-pel phase (xoff, yoff) before
	// measuring it against src.
	SubpixVariance(ref []byte, refStride int, xoff, yoff int, src []byte, srcStride int) (variance, sse uint32)
	SubpixAvgVariance(ref []byte, refStride int, xoff, yoff int, src []byte, srcStride int, second []byte) (variance, sse uint32)
}

// kernelSet is one backend's primitive metrics.
type kernelSet struct {
	sad      func(src []byte, srcStride int, ref []byte, refStride int, w, h int) uint32
	sadAvg   func(src []byte, srcStride int, ref []byte, refStride int, second []byte, w, h int) uint32
	variance func(a []byte, aStride int, b []byte, bStride int, w, h int) (uint32, int32)
}

var (
	genericKernels  = kernelSet{sad: sadGeneric, sadAvg: sadAvgGeneric, variance: varianceGeneric}
	unrolledKernels = kernelSet{sad: sadUnrolled, sadAvg: sadAvgUnrolled, variance: varianceUnrolled}
)

// fn binds a kernel set to one block size.
type fn struct {
	size     BlockSize
	w, h     int
	pelsLog2 int
	k        *kernelSet
}

func (f *fn) Size() BlockSize { return f.size }

func (f *fn) SAD(src []byte, srcStride int, ref []byte, refStride int) uint32 {
	return f.k.sad(src, srcStride, ref, refStride, f.w, f.h)
}

func (f *fn) SADAvg(src []byte, srcStride int, ref []byte, refStride int, second []byte) uint32 {
	return f.k.sadAvg(src, srcStride, ref, refStride, second, f.w, f.h)
}

func (f *fn) SAD4(src []byte, srcStride int, refs *[4][]byte, refStride int, sads *[4]uint32) {
	for i := range refs {
		sads[i] = f.k.sad(src, srcStride, refs[i], refStride, f.w, f.h)
	}
}

func (f *fn) SADRow(src []byte, srcStride int, ref []byte, refStride int, sads []uint32) {
	for i := range sads {
		sads[i] = f.k.sad(src, srcStride, ref[i:], refStride, f.w, f.h)
	}
}

func (f *fn) Variance(src []byte, srcStride int, ref []byte, refStride int) (uint32, uint32) {
	sse, sum := f.k.variance(src, srcStride, ref, refStride, f.w, f.h)
	return varianceFrom(sse, sum, f.pelsLog2), sse
}

func (f *fn) SubpixVariance(ref []byte, refStride int, xoff, yoff int, src []byte, srcStride int) (uint32, uint32) {
	var pred [64 * 64]byte
	BilinearPredict(pred[:], ref, refStride, xoff, yoff, f.w, f.h)
	sse, sum := f.k.variance(pred[:], f.w, src, srcStride, f.w, f.h)
	return varianceFrom(sse, sum, f.pelsLog2), sse
}

func (f *fn) SubpixAvgVariance(ref []byte, refStride int, xoff, yoff int, src []byte, srcStride int, second []byte) (uint32, uint32) {
	var pred, avg [64 * 64]byte
	BilinearPredict(pred[:], ref, refStride, xoff, yoff, f.w, f.h)
	CompAvgPred(avg[:], second, f.w, f.h, pred[:], f.w)
	sse, sum := f.k.variance(avg[:], f.w, src, srcStride, f.w, f.h)
	return varianceFrom(sse, sum, f.pelsLog2), sse
}

// Table holds one Variance per block size. It is built once and only read
// afterwards, so it may be shared between goroutines.
type Table struct {
	backend Backend
	fns     [BlockSizes]fn
}

// NewTable binds the kernels of the given backend to every block size.
func NewTable(b Backend) *Table {
	k := &genericKernels
	if b == Unrolled {
		k = &unrolledKernels
	}
	t := &Table{backend: b}
	for bs := Block4x4; bs < BlockSizes; bs++ {
		t.fns[bs] = fn{size: bs, w: bs.Width(), h: bs.Height(), pelsLog2: bs.NumPelsLog2(), k: k}
	}
	return t
}

// DefaultTable returns a table for the backend chosen at start-up.
func DefaultTable() *Table {
	return NewTable(ActiveBackend())
}

// Backend reports which kernels the table uses.
func (t *Table) Backend() Backend { return t.backend }

// For returns the metrics for a block size.
func (t *Table) For(bs BlockSize) Variance { return &t.fns[bs] }
