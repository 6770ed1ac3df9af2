// Package vp9me is the motion estimation and real-time mode decision core
// of a VP9 encoder, in pure Go.
//
// For each coding block a Picker measures the candidate motion vectors of
// the LAST and GOLDEN references, searches a new vector at integer and
// sub-pixel precision, models the rate and distortion of every inter mode
// and falls back to DC, V, H and TM intra prediction when inter prediction
// is poor. The search strategies and speed presets are those of VP9's
// real-time encoding mode.
//
// The package supports:
//   - Integer-pel searches: n-step diamond, hex, big diamond, square and
//     their fast variants, plus exhaustive full search
//   - Sub-pixel refinement to 1/8 pel, with pruned variants that use the
//     integer cost surface
//   - Interpolation filter search on switchable frames
//   - Encode breakout on luma and chroma energy
//   - Adaptive mode thresholds that persist across blocks and frames
//
// Basic usage:
//
//	p, err := vp9me.NewPicker(vp9me.DefaultOptions(6))
//	...
//	err = p.BeginFrame(vp9me.FrameParams{Source: cur, Refs: refs, ...})
//	d, err := p.PickBlock(&vp9me.Block{Row: 0, Col: 0, Size: vp9me.Block16x16})
//
// The distortion kernels are chosen at start-up from the CPU features; the
// VP9ME_KERNELS environment variable ("generic" or "unrolled") overrides
// the choice.
package vp9me
