// Package rd holds the rate-distortion arithmetic of the mode decision:
// quantizer tables, the RD cost, the variance based rate/distortion model
// and the adaptive per-mode thresholds.
package rd

import "math"

// DivBits is the distortion shift of RDCost.
const DivBits = 7

// MaxRD is the cost of a candidate that was never evaluated.
const MaxRD = math.MaxInt64

// RDCost combines rate in 1/256 bits with distortion using the frame's
// multiplier.
func RDCost(rdmult, rddiv, rate int, dist int64) int64 {
	return ((128 + int64(rate)*int64(rdmult)) >> 8) + dist<<uint(rddiv)
}

// Params are the per-frame rate weights derived from the base quantizer.
type Params struct {
	QIndex int
	RDMult int
	RDDiv  int
	// ErrorPerBit weights MV rate against variance.
	ErrorPerBit int
	// SADPerBit16 and SADPerBit4 weight MV rate against SAD for blocks of
	// at least 8x8 and for smaller ones.
	SADPerBit16 int
	SADPerBit4  int
	// IntraCostPenalty is added to the rate of every intra candidate.
	IntraCostPenalty int
}

// NewParams derives the frame's rate weights at qindex, with the luma DC
// delta applied where the DC step is used.
func NewParams(qindex, dcDelta int) Params {
	rdmult := ComputeRDMult(qindex)
	epb := rdmult >> 6
	if epb == 0 {
		epb = 1
	}
	q := float64(ACQuant(qindex, 0)) / 4
	return Params{
		QIndex:           qindex,
		RDMult:           rdmult,
		RDDiv:            DivBits,
		ErrorPerBit:      epb,
		SADPerBit16:      int(0.0418*q + 2.4107),
		SADPerBit4:       int(0.063*q + 2.742),
		IntraCostPenalty: IntraCostPenalty(qindex, dcDelta),
	}
}

// ComputeRDMult returns the Lagrangian multiplier at qindex.
func ComputeRDMult(qindex int) int {
	q := DCQuant(qindex, 0)
	return max(88*q*q/24, 1)
}

// IntraCostPenalty is the rate added to intra candidates so that inter
// prediction wins ties.
func IntraCostPenalty(qindex, dcDelta int) int {
	return 20 * DCQuant(qindex, dcDelta)
}

// Cost is a rate/distortion pair and its combined cost.
type Cost struct {
	Rate   int
	Dist   int64
	RDCost int64
}

// Reset marks c as not yet evaluated.
func (c *Cost) Reset() {
	*c = Cost{Rate: math.MaxInt32, Dist: math.MaxInt64, RDCost: MaxRD}
}

// Valid reports whether c holds an evaluated candidate.
func (c Cost) Valid() bool { return c.RDCost != MaxRD }
