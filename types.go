package vp9me

import (
	"image"

	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mcomp"
	"github.com/deepteams/vp9me/internal/mvcost"
	"github.com/deepteams/vp9me/internal/pickmode"
)

// Picture and block types.
type (
	// MV is a motion vector in 1/8 pel.
	MV = mvcost.MV
	// Plane is a sample plane with a replicated border.
	Plane = dsp.Plane
	// Planes is a 4:2:0 picture.
	Planes = pickmode.Planes
	// RefPlanes is a reference picture with an optional pre-scaled luma.
	RefPlanes = pickmode.RefPlanes

	BlockSize = dsp.BlockSize
	TxMode    = dsp.TxMode
	TxSize    = dsp.TxSize

	FrameParams = pickmode.FrameParams
	Block       = pickmode.Block
	Reference   = pickmode.Reference
	Neighbor    = pickmode.Neighbor
	Decision    = pickmode.Decision

	RefFrame = pickmode.RefFrame
	RefFlags = pickmode.RefFlags
	Mode     = pickmode.Mode
	Filter   = pickmode.Filter

	SearchMethod = mcomp.SearchMethod
	SubpelMethod = mcomp.SubpelMethod
	Backend      = dsp.Backend
)

// References.
const (
	IntraFrame  = pickmode.IntraFrame
	LastFrame   = pickmode.LastFrame
	GoldenFrame = pickmode.GoldenFrame

	LastFlag   = pickmode.LastFlag
	GoldenFlag = pickmode.GoldenFlag
)

// Prediction modes.
const (
	ModeDC      = pickmode.ModeDC
	ModeV       = pickmode.ModeV
	ModeH       = pickmode.ModeH
	ModeTM      = pickmode.ModeTM
	ModeNearest = pickmode.ModeNearest
	ModeNear    = pickmode.ModeNear
	ModeZero    = pickmode.ModeZero
	ModeNew     = pickmode.ModeNew
)

// Block sizes.
const (
	Block4x4   = dsp.Block4x4
	Block4x8   = dsp.Block4x8
	Block8x4   = dsp.Block8x4
	Block8x8   = dsp.Block8x8
	Block8x16  = dsp.Block8x16
	Block16x8  = dsp.Block16x8
	Block16x16 = dsp.Block16x16
	Block16x32 = dsp.Block16x32
	Block32x16 = dsp.Block32x16
	Block32x32 = dsp.Block32x32
	Block32x64 = dsp.Block32x64
	Block64x32 = dsp.Block64x32
	Block64x64 = dsp.Block64x64
)

// Interpolation filters.
const (
	FilterRegular    = pickmode.EightTap
	FilterSmooth     = pickmode.EightTapSmooth
	FilterSharp      = pickmode.EightTapSharp
	FilterBilinear   = pickmode.Bilinear
	FilterSwitchable = pickmode.Switchable
)

// Transform modes.
const (
	Only4x4      = dsp.Only4x4
	Allow8x8     = dsp.Allow8x8
	Allow16x16   = dsp.Allow16x16
	Allow32x32   = dsp.Allow32x32
	TxModeSelect = dsp.TxModeSelect
)

// Integer-pel search methods.
const (
	SearchNStep       = mcomp.MethodNStep
	SearchHex         = mcomp.MethodHex
	SearchBigDiamond  = mcomp.MethodBigDiamond
	SearchSquare      = mcomp.MethodSquare
	SearchFastHex     = mcomp.MethodFastHex
	SearchFastDiamond = mcomp.MethodFastDiamond
)

// Sub-pixel refinement methods.
const (
	SubpelTree           = mcomp.SubpelMethodTree
	SubpelPruned         = mcomp.SubpelMethodPruned
	SubpelPrunedMore     = mcomp.SubpelMethodPrunedMore
	SubpelPrunedEvenMore = mcomp.SubpelMethodPrunedEvenMore
)

// Kernel backends.
const (
	BackendGeneric  = dsp.Generic
	BackendUnrolled = dsp.Unrolled
)

// Border sizes. DefaultBorder matches the VP9 encoder's frame border; a
// luma plane needs at least MinBorder, chroma half of it.
const (
	DefaultBorder = 160
	MinBorder     = 16
)

// NewPlane allocates a zeroed plane.
func NewPlane(width, height, border int) *Plane {
	return dsp.NewPlane(width, height, border)
}

// PlanesFromImage converts img to 4:2:0 planes with DefaultBorder.
func PlanesFromImage(img image.Image) Planes {
	y, u, v := dsp.ImageToPlanes(img, DefaultBorder)
	return Planes{Y: y, U: u, V: v}
}

// ParseSearchMethod maps a method name such as "fast_hex" to its value.
func ParseSearchMethod(s string) (SearchMethod, error) { return mcomp.ParseSearchMethod(s) }

// ParseSubpelMethod maps a method name such as "pruned" to its value.
func ParseSubpelMethod(s string) (SubpelMethod, error) { return mcomp.ParseSubpelMethod(s) }

// ParseFilter maps a filter name such as "smooth" to its value.
func ParseFilter(s string) (Filter, bool) { return pickmode.ParseFilter(s) }

// ParseBlockSize maps "WxH" to a block size.
func ParseBlockSize(s string) (BlockSize, bool) { return dsp.ParseBlockSize(s) }

// ParseBackend maps "generic" or "unrolled" to a backend.
func ParseBackend(s string) (Backend, bool) { return dsp.ParseBackend(s) }
