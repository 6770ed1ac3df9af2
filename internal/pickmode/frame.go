package pickmode

import (
	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mvcost"
	"github.com/deepteams/vp9me/internal/rd"
)

// FrameParams describe the frame being coded.
type FrameParams struct {
	Source Planes
	Refs   [MaxRefFrames]RefPlanes
	// RefFlags selects the references the encoder may use.
	RefFlags RefFlags

	// Index is the frame number; its parity alternates the blocks that
	// search interpolation filters.
	Index int
	// FramesSinceGolden is zero on the frame right after a golden update,
	// when GOLDEN duplicates LAST.
	FramesSinceGolden int
	// Hidden marks a frame that is not shown.
	Hidden bool

	QIndex    int
	YDCDelta  int
	UVDCDelta int
	UVACDelta int

	InterpFilter Filter
	TxMode       dsp.TxMode
	AllowHP      bool

	// EncodeBreakout is the user breakout threshold; it only applies when
	// AllowEncodeBreakout is set.
	EncodeBreakout      int
	AllowEncodeBreakout bool

	// MVContext holds the MV probabilities; nil selects the defaults.
	MVContext *mvcost.Context
}

// Frame is a frame prepared for mode decision: its parameters plus the
// rate tables derived from them. It is read-only once built and may be
// shared by engines running on different goroutines.
type Frame struct {
	FrameParams

	mvCosts    *mvcost.Tables
	modeCosts  *modeCosts
	params     rd.Params
	yQuant     rd.Quant
	uvQuant    rd.Quant
	thresholds *rd.BlockThresholds
}

// NewFrame derives the frame's rate tables. adaptive and elevateNewMV
// select the mode threshold multipliers, as in Config.
func NewFrame(p FrameParams, adaptive bool, elevateNewMV int) *Frame {
	ctx := p.MVContext
	if ctx == nil {
		ctx = mvcost.DefaultContext()
	}
	return &Frame{
		FrameParams: p,
		mvCosts:     mvcost.NewTables(ctx, p.AllowHP),
		modeCosts:   newModeCosts(),
		params:      rd.NewParams(p.QIndex, p.YDCDelta),
		yQuant:      rd.NewQuant(p.QIndex, p.YDCDelta, 0),
		uvQuant:     rd.NewQuant(p.QIndex, p.UVDCDelta, p.UVACDelta),
		thresholds:  rd.NewBlockThresholds(p.QIndex, p.YDCDelta, rd.ModeThreshMult(adaptive, elevateNewMV)),
	}
}

// Params returns the frame's rate weights.
func (f *Frame) Params() rd.Params { return f.params }

// MVCosts returns the frame's MV cost tables.
func (f *Frame) MVCosts() *mvcost.Tables { return f.mvCosts }

// usable reports whether ref may be predicted from.
func (f *Frame) usable(ref RefFrame) bool {
	return f.RefFlags&ref.flag() != 0 && f.Refs[ref].luma() != nil
}

// hasChroma reports whether source and reference chroma planes exist.
func (f *Frame) hasChroma(ref RefFrame) bool {
	return f.Source.U != nil && f.Source.V != nil && f.Refs[ref].U != nil && f.Refs[ref].V != nil
}
