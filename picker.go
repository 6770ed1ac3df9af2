package vp9me

import (
	"fmt"

	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/pickmode"
	"github.com/deepteams/vp9me/internal/rd"
)

// Picker decides the prediction modes of the blocks of a frame sequence.
// The adaptive mode thresholds it carries persist across blocks and frames.
//
// A Picker is not safe for concurrent use. Independent pickers may run in
// parallel over the same frames.
type Picker struct {
	opts   Options
	engine *pickmode.Engine
	thr    *rd.AdaptiveThresholds
	frame  *pickmode.Frame
	log    *Logger
}

// NewPicker validates opts, applies extra on top and returns a picker.
// A nil opts selects DefaultOptions(5).
func NewPicker(opts *Options, extra ...Option) (*Picker, error) {
	o := DefaultOptions(5)
	if opts != nil {
		*o = *opts
	}
	for _, fn := range extra {
		fn(o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	log := o.Logger
	if log == nil {
		log = NoopLogger()
	}
	return &Picker{
		opts:   *o,
		engine: pickmode.NewEngine(o.config()),
		thr:    rd.NewAdaptiveThresholds(o.AdaptiveRDThresh),
		log:    log.WithSpeed(o.Speed),
	}, nil
}

// Options returns the options in effect.
func (p *Picker) Options() Options { return p.opts }

// Close releases the picker's buffers.
func (p *Picker) Close() {
	p.engine.Close()
	p.frame = nil
}

// ResetThresholds returns the adaptive thresholds to their neutral state,
// as after a scene cut.
func (p *Picker) ResetThresholds() { p.thr.Reset() }

// BeginFrame validates the frame and derives its rate tables. Blocks are
// decided against the most recent frame begun.
func (p *Picker) BeginFrame(fp FrameParams) error {
	if err := validateFrame(&fp); err != nil {
		p.log.LogError("frame", err)
		return err
	}
	p.frame = pickmode.NewFrame(fp, p.opts.AdaptiveRDThresh > 0, p.opts.ElevateNewMVThresh)
	p.log.WithFrame(fp.Index).LogFrame(&fp)
	return nil
}

// PickBlock decides the mode of blk. When blk.Dst is set and the picker
// reuses predictions, it receives the winning inter prediction.
func (p *Picker) PickBlock(blk *Block) (Decision, error) {
	if p.frame == nil {
		return Decision{}, ErrNoFrame
	}
	if err := validateBlock(&p.frame.FrameParams, blk); err != nil {
		p.log.LogError("block", err)
		return Decision{}, err
	}
	d := p.engine.PickInterMode(p.frame, blk, p.thr)
	p.log.LogDecision(blk, &d)
	return d, nil
}

// MotionResult is the outcome of MotionSearch.
type MotionResult = pickmode.SearchResult

// MotionSearch runs the motion search of one block against ref around
// the 1/8-pel predictor, without mode decision.
func (p *Picker) MotionSearch(ref RefFrame, row, col int, bs BlockSize, pred MV) (MotionResult, error) {
	if p.frame == nil {
		return MotionResult{}, ErrNoFrame
	}
	if ref != LastFrame && ref != GoldenFrame {
		return MotionResult{}, inputErr("ref", ErrOutOfRange)
	}
	f := &p.frame.FrameParams
	if f.Refs[ref].Y == nil && f.Refs[ref].Scaled == nil {
		return MotionResult{}, inputErr(fmt.Sprintf("Refs[%s]", ref), ErrNoReference)
	}
	blk := &Block{Row: row, Col: col, Size: bs}
	if err := validateBlock(f, blk); err != nil {
		return MotionResult{}, err
	}
	return p.engine.Search(p.frame, blk, ref, pred), nil
}

func validateFrame(fp *FrameParams) error {
	src := fp.Source.Y
	if src == nil {
		return inputErr("Source.Y", ErrPlaneTooSmall)
	}
	if err := validatePlane("Source.Y", src, src.Width, src.Height, 0); err != nil {
		return err
	}
	cw, ch := (src.Width+1)>>1, (src.Height+1)>>1
	if (fp.Source.U == nil) != (fp.Source.V == nil) {
		return inputErr("Source.U", ErrPlaneTooSmall)
	}
	if fp.Source.U != nil {
		if err := validatePlane("Source.U", fp.Source.U, cw, ch, 0); err != nil {
			return err
		}
		if err := validatePlane("Source.V", fp.Source.V, cw, ch, 0); err != nil {
			return err
		}
	}
	for ref := LastFrame; ref <= GoldenFrame; ref++ {
		r := &fp.Refs[ref]
		name := fmt.Sprintf("Refs[%s]", ref)
		if r.Y != nil {
			if err := validatePlane(name+".Y", r.Y, src.Width, src.Height, MinBorder); err != nil {
				return err
			}
		}
		if r.Scaled != nil {
			if err := validatePlane(name+".Scaled", r.Scaled, src.Width, src.Height, MinBorder); err != nil {
				return err
			}
		}
		for i, c := range [2]*Plane{r.U, r.V} {
			if c == nil {
				continue
			}
			if err := validatePlane(name+[2]string{".U", ".V"}[i], c, cw, ch, MinBorder/2); err != nil {
				return err
			}
		}
	}
	if fp.QIndex < 0 || fp.QIndex > rd.MaxQ {
		return inputErr("QIndex", ErrOutOfRange)
	}
	if fp.InterpFilter > FilterSwitchable {
		return inputErr("InterpFilter", ErrOutOfRange)
	}
	if fp.TxMode > TxModeSelect {
		return inputErr("TxMode", ErrOutOfRange)
	}
	if fp.EncodeBreakout < 0 {
		return inputErr("EncodeBreakout", ErrOutOfRange)
	}
	return nil
}

// validatePlane checks the dimensions, border and buffer of a plane.
func validatePlane(name string, pl *Plane, w, h, border int) error {
	if pl.Width != w || pl.Height != h || w <= 0 || h <= 0 {
		return inputErr(name, fmt.Errorf("%w: %dx%d, want %dx%d", ErrPlaneTooSmall, pl.Width, pl.Height, w, h))
	}
	if pl.Border < border {
		return inputErr(name, fmt.Errorf("%w: %d, want at least %d", ErrBorderTooSmall, pl.Border, border))
	}
	if pl.Stride < w+2*pl.Border || len(pl.Pix) < pl.Stride*(h+2*pl.Border) {
		return inputErr(name, ErrPlaneTooSmall)
	}
	return nil
}

func validateBlock(f *FrameParams, blk *Block) error {
	if blk.Size >= dsp.BlockSizes {
		return inputErr("Block.Size", ErrOutOfRange)
	}
	src := f.Source.Y
	if blk.Row < 0 || blk.Col < 0 || blk.Row >= src.Height || blk.Col >= src.Width || blk.Row&3 != 0 || blk.Col&3 != 0 {
		return inputErr("Block position", fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, blk.Row, blk.Col))
	}
	w, h := blk.Size.Width(), blk.Size.Height()
	if !src.Buf(blk.Row, blk.Col).Contains(0, 0, h, w) {
		return inputErr("Block.Size", ErrPlaneTooSmall)
	}
	if blk.Dst != nil && len(blk.Dst) < w*h {
		return inputErr("Block.Dst", ErrPlaneTooSmall)
	}
	for ref := LastFrame; ref <= GoldenFrame; ref++ {
		if c := blk.Refs[ref].ModeContext; c < 0 || c > 6 {
			return inputErr("Block.ModeContext", ErrOutOfRange)
		}
	}
	if blk.Above.Filter > FilterBilinear || blk.Left.Filter > FilterBilinear {
		return inputErr("Block neighbour filter", ErrOutOfRange)
	}
	return nil
}
