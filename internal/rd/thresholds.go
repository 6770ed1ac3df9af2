package rd

import (
	"math"

	"github.com/deepteams/vp9me/internal/dsp"
)

// ThrMode indexes the per-mode thresholds: one entry per (reference,
// inter mode) pair for LAST and GOLDEN, plus the intra modes.
type ThrMode uint8

const (
	ThrNearestMV ThrMode = iota
	ThrNearestG
	ThrDC
	ThrNewMV
	ThrNewG
	ThrNearMV
	ThrNearG
	ThrZeroMV
	ThrZeroG
	ThrTM
	ThrHPred
	ThrVPred

	// NumThrModes is the number of threshold slots.
	NumThrModes
)

var thrModeNames = [NumThrModes]string{
	"NEARESTMV", "NEARESTG", "DC", "NEWMV", "NEWG", "NEARMV",
	"NEARG", "ZEROMV", "ZEROG", "TM", "H_PRED", "V_PRED",
}

func (m ThrMode) String() string {
	if m >= NumThrModes {
		return "invalid"
	}
	return thrModeNames[m]
}

// Adaptive threshold factor bounds. Factors are in 1/32 units.
const (
	ThreshInitFact = 32
	ThreshMaxFact  = 64
	ThreshInc      = 1
)

var blockSizeThreshFactor = [dsp.BlockSizes]int{2, 3, 3, 4, 6, 6, 8, 12, 12, 16, 24, 24, 32}

// ModeThreshMult returns the per-mode threshold multipliers. adaptive
// raises the NEAREST thresholds off zero so that they can be pruned too;
// elevateNewMV is added to LAST's NEWMV.
func ModeThreshMult(adaptive bool, elevateNewMV int) [NumThrModes]int {
	var m [NumThrModes]int
	if adaptive {
		m[ThrNearestMV] = 300
		m[ThrNearestG] = 300
	}
	m[ThrDC] += 1000
	m[ThrNewMV] += 1000 + elevateNewMV
	m[ThrNewG] += 1000
	m[ThrNearMV] += 1000
	m[ThrNearG] += 1000
	m[ThrTM] += 1000
	m[ThrZeroMV] += 2000
	m[ThrZeroG] += 2000
	m[ThrHPred] += 2000
	m[ThrVPred] += 2000
	return m
}

// threshFactor scales the thresholds with the DC step of qindex.
func threshFactor(qindex int) int {
	q := float64(DCQuant(qindex, 0)) / 4
	return max(int(math.Pow(q, 1.25)*5.12), 8)
}

// BlockThresholds are the frame's mode thresholds per block size. A
// threshold of math.MaxInt32 disables the mode.
type BlockThresholds [dsp.BlockSizes][NumThrModes]int

// NewBlockThresholds scales mult for every block size at qindex.
func NewBlockThresholds(qindex, dcDelta int, mult [NumThrModes]int) *BlockThresholds {
	q := threshFactor(clampQ(qindex + dcDelta))
	t := new(BlockThresholds)
	for bs := range t {
		f := q * blockSizeThreshFactor[bs]
		limit := math.MaxInt32 / f
		for i, m := range mult {
			if m < limit {
				t[bs][i] = m * f / 4
			} else {
				t[bs][i] = math.MaxInt32
			}
		}
	}
	return t
}

// LessThanThresh reports whether a candidate gated by thresh can be
// skipped because the best cost so far is already below it.
func LessThanThresh(bestRD int64, thresh, fact int) bool {
	return thresh == math.MaxInt32 || bestRD < (int64(thresh)*int64(fact))>>5
}

// AdaptiveThresholds are per block size and mode scale factors that
// drift with how often each mode wins. They persist across blocks and
// frames and are not safe for concurrent use.
type AdaptiveThresholds struct {
	// Level is the adaptive speed level; zero disables updates.
	Level int
	Fact  [dsp.BlockSizes][NumThrModes]int
}

// NewAdaptiveThresholds returns factors at their neutral value.
func NewAdaptiveThresholds(level int) *AdaptiveThresholds {
	a := &AdaptiveThresholds{Level: level}
	a.Reset()
	return a
}

// Reset restores every factor to the neutral value.
func (a *AdaptiveThresholds) Reset() {
	for bs := range a.Fact {
		for i := range a.Fact[bs] {
			a.Fact[bs][i] = ThreshInitFact
		}
	}
}

// Update decays the factor of the winning mode and raises the factors of
// the other candidates in modes, capped at Level*ThreshMaxFact.
func (a *AdaptiveThresholds) Update(bs dsp.BlockSize, best ThrMode, modes []ThrMode) {
	if a.Level == 0 {
		return
	}
	limit := a.Level * ThreshMaxFact
	f := &a.Fact[bs]
	for _, m := range modes {
		if m == best {
			f[m] -= f[m] >> 4
		} else {
			f[m] = min(f[m]+ThreshInc, limit)
		}
	}
}
