package dsp

// Intra prediction for the fast mode decision. Only the four non-directional
// predictors are provided.
//
// Edges are gathered from a reference view first, so the predictors never
// read outside the slices they are given.

// IntraMode selects one of the supported intra predictors.
type IntraMode uint8

const (
	IntraDC IntraMode = iota
	IntraV
	IntraH
	IntraTM

	// NumIntraModes is the number of supported intra predictors.
	NumIntraModes
)

func (m IntraMode) String() string {
	return [...]string{"DC", "V", "H", "TM"}[m]
}

// IntraEdges holds the neighbourhood of an n x n block.
type IntraEdges struct {
	N         int
	HaveAbove bool
	HaveLeft  bool
	TopLeft   byte
	Above     [32]byte
	Left      [32]byte
}

// Load gathers the edges of the n x n block at ref's origin. Missing
// neighbours take the VP9 substitute values: 127 above, 129 left.
func (e *IntraEdges) Load(ref Buf, n int, haveAbove, haveLeft bool) {
	e.N, e.HaveAbove, e.HaveLeft = n, haveAbove, haveLeft
	if haveLeft {
		for i := 0; i < n; i++ {
			e.Left[i] = ref.Pix[ref.Index(i, -1)]
		}
	} else {
		fill(e.Left[:n], 129)
	}
	switch {
	case haveAbove:
		copy(e.Above[:n], ref.At(-1, 0)[:n])
		if haveLeft {
			e.TopLeft = ref.Pix[ref.Index(-1, -1)]
		} else {
			e.TopLeft = 129
		}
	default:
		fill(e.Above[:n], 127)
		e.TopLeft = 127
	}
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}

// PredictIntra writes the n x n prediction for mode into dst.
func PredictIntra(mode IntraMode, e *IntraEdges, dst []byte, dstStride int) {
	n := e.N
	switch mode {
	case IntraDC:
		fillBlock(dst, dstStride, n, dcValue(e))
	case IntraV:
		for y := 0; y < n; y++ {
			copy(dst[y*dstStride:y*dstStride+n], e.Above[:n])
		}
	case IntraH:
		for y := 0; y < n; y++ {
			fill(dst[y*dstStride:y*dstStride+n], e.Left[y])
		}
	case IntraTM:
		tl := int(e.TopLeft)
		for y := 0; y < n; y++ {
			base := int(e.Left[y]) - tl
			row := dst[y*dstStride : y*dstStride+n]
			for x := range row {
				row[x] = ClipPixel(base + int(e.Above[x]))
			}
		}
	}
}

func dcValue(e *IntraEdges) byte {
	n := e.N
	sum := 0
	switch {
	case e.HaveAbove && e.HaveLeft:
		for i := 0; i < n; i++ {
			sum += int(e.Above[i]) + int(e.Left[i])
		}
		return byte((sum + n) / (2 * n))
	case e.HaveAbove:
		for i := 0; i < n; i++ {
			sum += int(e.Above[i])
		}
		return byte((sum + n/2) / n)
	case e.HaveLeft:
		for i := 0; i < n; i++ {
			sum += int(e.Left[i])
		}
		return byte((sum + n/2) / n)
	default:
		return 128
	}
}

func fillBlock(dst []byte, stride, n int, v byte) {
	for y := 0; y < n; y++ {
		fill(dst[y*stride:y*stride+n], v)
	}
}
