package rd

import "math"

// Bounds of the normalised quantizer step q/sigma handled by the model.
// Above maxStep every coefficient lands in the zero bin.
const (
	minStep = 0.01
	maxStep = 15.5
)

// ModelFromVariance estimates the rate (1/256 bits) and the distortion of
// coding a residual of total energy variance spread over 1<<nLog2 samples
// with a uniform dead-zone-free quantizer of step qstep. Samples are taken
// to be Laplacian; the rate is the entropy of the quantized symbols.
func ModelFromVariance(variance uint32, nLog2 int, qstep int) (rate int, dist int64) {
	if variance == 0 {
		return 0, 0
	}
	n := float64(int(1) << uint(nLog2))
	sigma := math.Sqrt(float64(variance) / n)
	x := float64(qstep) / sigma
	if x >= maxStep {
		return 0, int64(variance)
	}
	x = max(x, minStep)
	h, d := laplacianQuant(x)
	return int(math.Round(h * 256 * n)), int64(math.Round(float64(variance) * d))
}

// laplacianQuant returns the entropy in bits per sample and the
// distortion relative to the variance of a unit-variance Laplacian
// quantized with step x, reconstructing at bin centres.
func laplacianQuant(x float64) (entropy, dnorm float64) {
	a := math.Sqrt2 // 1/b for unit variance
	h := x / 2
	r := math.Exp(-a * x)
	s := math.Exp(-a * h)
	p0 := 1 - s
	c := s / 2 * (1 - r)

	entropy = -p0*math.Log2(p0) - s*math.Log2(c) - s*r*math.Log2(r)/(1-r)

	a2, a3 := a*a, a*a*a
	d0 := 2/a2 - s*(h*h+2*h/a+2/a2)
	in := (h*h/a-2*h/a2+2/a3)/s - s*(h*h/a+2*h/a2+2/a3)
	d := d0 + a*in*r/(1-r)
	return entropy, d * a2 / 2
}

// SkipTx classifies a block from its residual statistics.
type SkipTx uint8

const (
	// SkipNone codes the block normally.
	SkipNone SkipTx = iota
	// SkipAll means every coefficient quantizes to zero.
	SkipAll
	// SkipAC means only the DC coefficients survive quantization.
	SkipAC
)

// BlockModel is the outcome of modelling one plane of a block.
type BlockModel struct {
	Rate     int
	Dist     int64
	Variance uint32
	SSE      uint32
	Skip     SkipTx
}

// ModelPlane estimates rate and distortion of a prediction with the
// given variance and sse over a block of 1<<nLog2 pixels. numTxLog2 is
// log2 of the number of transform blocks inside it, which scales the
// skip thresholds. The DC part is measured with the DC step and the AC
// part with the AC step; transform coefficients are 8 times an orthogonal
// transform, hence the >>3 on both steps.
func ModelPlane(q Quant, variance, sse uint32, nLog2, numTxLog2 int) BlockModel {
	m := BlockModel{Variance: variance, SSE: sse}
	dcThr := uint32(q.DCThresh >> 6)
	acThr := uint32(q.ACThresh >> 6)
	sseTx := sse >> uint(numTxLog2)
	varTx := variance >> uint(numTxLog2)
	if varTx < acThr || variance == 0 {
		m.Skip = SkipAC
		if sseTx-varTx < dcThr || sse == variance {
			m.Skip = SkipAll
		}
	}
	if m.Skip == SkipAll {
		m.Dist = int64(sse) << 4
		return m
	}
	rate, dist := ModelFromVariance(sse-variance, nLog2, q.DC>>3)
	m.Rate = rate >> 1
	m.Dist = dist << 3
	rate, dist = ModelFromVariance(variance, nLog2, q.AC>>3)
	m.Rate += rate
	m.Dist += dist << 4
	return m
}

// ModelChroma estimates the rate and distortion of one chroma plane. It
// never takes the skip shortcut.
func ModelChroma(q Quant, variance, sse uint32, nLog2 int) (int, int64) {
	rate, dist := ModelFromVariance(sse-variance, nLog2, q.DC>>3)
	r := rate >> 1
	d := dist << 3
	rate, dist = ModelFromVariance(variance, nLog2, q.AC>>3)
	return r + rate, d + dist<<4
}
