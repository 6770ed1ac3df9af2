package pickmode

import (
	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mcomp"
	"github.com/deepteams/vp9me/internal/mvcost"
	"github.com/deepteams/vp9me/internal/rd"
)

// RefFrame identifies the prediction source of a block.
type RefFrame uint8

const (
	IntraFrame RefFrame = iota
	LastFrame
	GoldenFrame

	// MaxRefFrames sizes arrays indexed by RefFrame.
	MaxRefFrames
)

func (r RefFrame) String() string {
	switch r {
	case IntraFrame:
		return "INTRA"
	case LastFrame:
		return "LAST"
	case GoldenFrame:
		return "GOLDEN"
	}
	return "invalid"
}

// RefFlags is a set of usable inter references.
type RefFlags uint8

const (
	LastFlag   RefFlags = 1 << 0
	GoldenFlag RefFlags = 1 << 1
)

// flag returns the bit of an inter reference.
func (r RefFrame) flag() RefFlags {
	return 1 << (r - 1)
}

// Mode is a prediction mode. The first four are intra, the rest inter.
type Mode uint8

const (
	ModeDC Mode = iota
	ModeV
	ModeH
	ModeTM
	ModeNearest
	ModeNear
	ModeZero
	ModeNew

	numModes
)

var modeNames = [numModes]string{"DC", "V", "H", "TM", "NEARESTMV", "NEARMV", "ZEROMV", "NEWMV"}

func (m Mode) String() string {
	if m >= numModes {
		return "invalid"
	}
	return modeNames[m]
}

// IsInter reports whether m predicts from a reference frame.
func (m Mode) IsInter() bool { return m >= ModeNearest }

// interOffset is the index of an inter mode in per-mode cost arrays.
func (m Mode) interOffset() int { return int(m - ModeNearest) }

// intra returns the predictor of an intra mode.
func (m Mode) intra() dsp.IntraMode { return dsp.IntraMode(m) }

// Mode masks. Bit i enables the inter mode with offset i, or the intra
// mode i.
const (
	InterAll            uint8 = 0xf
	InterNearestNewZero uint8 = 1<<0 | 1<<2 | 1<<3
	IntraAll            uint8 = 0xf
	IntraDCHV           uint8 = 1<<0 | 1<<1 | 1<<2
	IntraDCOnly         uint8 = 1 << 0
)

// Filter is an interpolation filter.
type Filter uint8

const (
	EightTap Filter = iota
	EightTapSmooth
	EightTapSharp
	Bilinear
	// Switchable leaves the filter choice to each block.
	Switchable

	// switchableFilters is the number of filters a block can signal.
	switchableFilters = 3
)

var filterNames = [...]string{"regular", "smooth", "sharp", "bilinear", "switchable"}

func (f Filter) String() string {
	if int(f) >= len(filterNames) {
		return "invalid"
	}
	return filterNames[f]
}

// ParseFilter maps a filter name to its value.
func ParseFilter(s string) (Filter, bool) {
	for i, n := range filterNames {
		if n == s {
			return Filter(i), true
		}
	}
	return 0, false
}

// Planes is a 4:2:0 picture. U and V may be nil when chroma is not
// modelled.
type Planes struct {
	Y, U, V *dsp.Plane
}

// RefPlanes is a reference picture. Scaled, when set, is the luma plane
// resampled to the current frame size; motion search and luma prediction
// use it instead of Y.
type RefPlanes struct {
	Planes
	Scaled *dsp.Plane
}

// luma returns the plane luma prediction reads from.
func (r *RefPlanes) luma() *dsp.Plane {
	if r.Scaled != nil {
		return r.Scaled
	}
	return r.Y
}

// Reference is the neighbourhood information of one reference for the
// current block.
type Reference struct {
	// Candidates are the ranked neighbour MVs in 1/8 pel, nearest first.
	// Missing entries are zero.
	Candidates [2]mvcost.MV
	// PredMV is the MV this reference found for the enclosing partition.
	PredMV    mvcost.MV
	HasPredMV bool
	// ConstMotion is set when the neighbours agree closely enough that
	// NEARMV adds nothing.
	ConstMotion bool
	// ModeContext selects the inter mode probabilities, 0 to 6.
	ModeContext int
}

// Neighbor describes an adjacent, already decided block.
type Neighbor struct {
	Available bool
	Inter     bool
	Filter    Filter
}

// Block is one mode decision problem. Row and Col are the luma pixel
// position of the block.
type Block struct {
	Row, Col int
	Size     dsp.BlockSize
	Refs     [MaxRefFrames]Reference

	Above, Left Neighbor

	// ColorSensitivity enables chroma modelling of U and V.
	ColorSensitivity [2]bool

	// Dst receives the luma prediction of the chosen inter mode when the
	// engine reuses predictions. Its stride is the block width.
	Dst []byte
}

// Decision is the outcome of a mode decision.
type Decision struct {
	Ref    RefFrame
	Mode   Mode
	MV     mvcost.MV
	Filter Filter
	TxSize dsp.TxSize
	// Skip is set when the prediction alone reconstructs the block well
	// enough that no residual is coded.
	Skip   bool
	SkipTx rd.SkipTx

	Rate   int
	Dist   int64
	RDCost int64

	// CostList holds the integer costs around the NEWMV search result,
	// when one was produced.
	CostList mcomp.CostList
	// PredMVSAD is the best candidate SAD per reference, InvalidCost when
	// not measured.
	PredMVSAD [MaxRefFrames]int
	// PredSSE is the sub-pixel refinement's SSE per reference.
	PredSSE [MaxRefFrames]uint32
	// IntraSearched reports whether intra modes were evaluated.
	IntraSearched bool
}
