package pickmode

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mcomp"
	"github.com/deepteams/vp9me/internal/mvcost"
	"github.com/deepteams/vp9me/internal/rd"
)

const (
	testW, testH = 128, 128
	testBorder   = 64
	testRow      = 48
	testCol      = 48
	testQIndex   = 60
)

func clampByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

func makePlane(w, h, border int, f func(x, y int) float64) *dsp.Plane {
	p := dsp.NewPlane(w, h, border)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Set(y, x, clampByte(f(x, y)))
		}
	}
	p.ExtendBorders()
	return p
}

// makePlanes builds a 4:2:0 picture; chroma samples f at twice the
// coordinates.
func makePlanes(f func(x, y int) float64) Planes {
	return Planes{
		Y: makePlane(testW, testH, testBorder, f),
		U: makePlane(testW/2, testH/2, testBorder/2, func(x, y int) float64 { return f(2*x, 2*y) }),
		V: makePlane(testW/2, testH/2, testBorder/2, func(x, y int) float64 { return 255 - f(2*x, 2*y) }),
	}
}

func noise(seed int64) func(x, y int) float64 {
	rng := rand.New(rand.NewSource(seed))
	cache := make(map[[2]int]float64)
	return func(x, y int) float64 {
		k := [2]int{x, y}
		if v, ok := cache[k]; ok {
			return v
		}
		v := float64(rng.Intn(256))
		cache[k] = v
		return v
	}
}

func smooth(x, y int) float64 {
	return 128 + 50*math.Sin(0.3*float64(x)+0.2*float64(y)) + 40*math.Cos(0.25*float64(y)-0.1*float64(x))
}

func flat(int, int) float64 { return 128 }

func shifted(f func(x, y int) float64, d mvcost.MV) func(x, y int) float64 {
	return func(x, y int) float64 { return f(x+d.Col, y+d.Row) }
}

func testFrame(src Planes, last, golden *Planes, mod func(*FrameParams)) *Frame {
	p := FrameParams{
		Source:            src,
		Index:             1,
		FramesSinceGolden: 3,
		QIndex:            testQIndex,
		InterpFilter:      EightTap,
		TxMode:            dsp.TxModeSelect,
		AllowHP:           true,
	}
	if last != nil {
		p.Refs[LastFrame] = RefPlanes{Planes: *last}
		p.RefFlags |= LastFlag
	}
	if golden != nil {
		p.Refs[GoldenFrame] = RefPlanes{Planes: *golden}
		p.RefFlags |= GoldenFlag
	}
	if mod != nil {
		mod(&p)
	}
	return NewFrame(p, true, 0)
}

func testBlock(bs dsp.BlockSize) *Block {
	return &Block{Row: testRow, Col: testCol, Size: bs}
}

func withBreakout(p *FrameParams) {
	p.AllowEncodeBreakout = true
	p.EncodeBreakout = 800
}

func TestStaticBlockBreaksOut(t *testing.T) {
	pic := makePlanes(smooth)
	f := testFrame(pic, &pic, nil, withBreakout)
	e := NewEngine(DefaultConfig(5))
	defer e.Close()

	d := e.PickInterMode(f, testBlock(dsp.Block16x16), nil)
	assert.Equal(t, LastFrame, d.Ref)
	assert.Equal(t, ModeZero, d.Mode)
	assert.Equal(t, mvcost.Zero, d.MV)
	assert.True(t, d.Skip)
	assert.False(t, d.IntraSearched)
	assert.Zero(t, d.Dist)
	assert.Zero(t, e.Buffers().InUse())
}

func TestNewMVFindsShift(t *testing.T) {
	ref := makePlanes(smooth)
	src := makePlanes(shifted(smooth, mvcost.MV{Row: 2, Col: 3}))
	f := testFrame(src, &ref, nil, nil)
	e := NewEngine(DefaultConfig(0))
	defer e.Close()

	d := e.PickInterMode(f, testBlock(dsp.Block16x16), nil)
	require.Equal(t, LastFrame, d.Ref)
	assert.Equal(t, ModeNew, d.Mode)
	assert.InDelta(t, 16, d.MV.Row, 4)
	assert.InDelta(t, 24, d.MV.Col, 4)
	assert.False(t, d.Skip)
	assert.NotEqual(t, mcomp.InvalidCost, d.PredMVSAD[LastFrame])
	assert.Equal(t, mcomp.InvalidCost, d.PredMVSAD[GoldenFrame])
}

func TestNearestCandidateWins(t *testing.T) {
	ref := makePlanes(smooth)
	src := makePlanes(shifted(smooth, mvcost.MV{Row: 2, Col: 3}))
	f := testFrame(src, &ref, nil, nil)
	e := NewEngine(DefaultConfig(0))
	defer e.Close()

	blk := testBlock(dsp.Block16x16)
	blk.Refs[LastFrame].Candidates[0] = mvcost.MV{Row: 16, Col: 24}
	d := e.PickInterMode(f, blk, nil)
	assert.Equal(t, LastFrame, d.Ref)
	assert.Equal(t, ModeNearest, d.Mode)
	assert.Equal(t, mvcost.MV{Row: 16, Col: 24}, d.MV)
	assert.Zero(t, d.PredMVSAD[LastFrame])
}

func TestGoldenPreferredWhenLastIsPoor(t *testing.T) {
	src := makePlanes(smooth)
	last := makePlanes(noise(1))
	f := testFrame(src, &last, &src, withBreakout)
	e := NewEngine(DefaultConfig(5))
	defer e.Close()

	d := e.PickInterMode(f, testBlock(dsp.Block16x16), nil)
	assert.Equal(t, GoldenFrame, d.Ref)
	assert.Equal(t, ModeZero, d.Mode)
	assert.True(t, d.Skip)
	assert.Zero(t, d.PredMVSAD[GoldenFrame])
}

func TestGoldenSkippedRightAfterUpdate(t *testing.T) {
	src := makePlanes(smooth)
	last := makePlanes(noise(2))
	f := testFrame(src, &last, &src, func(p *FrameParams) {
		withBreakout(p)
		p.FramesSinceGolden = 0
	})
	e := NewEngine(DefaultConfig(5))
	defer e.Close()

	d := e.PickInterMode(f, testBlock(dsp.Block16x16), nil)
	assert.NotEqual(t, GoldenFrame, d.Ref)
	assert.False(t, d.Skip)
}

// A golden reference that would win is ignored once the frame no longer
// flags it as usable.
func TestGoldenUnavailableWithoutFlag(t *testing.T) {
	src := makePlanes(smooth)
	last := makePlanes(noise(4))
	f := testFrame(src, &last, &src, func(p *FrameParams) {
		withBreakout(p)
		p.RefFlags &^= GoldenFlag
	})
	e := NewEngine(DefaultConfig(5))
	defer e.Close()

	d := e.PickInterMode(f, testBlock(dsp.Block16x16), nil)
	assert.NotEqual(t, GoldenFrame, d.Ref)
	assert.Equal(t, mcomp.InvalidCost, d.PredMVSAD[GoldenFrame])
	assert.Zero(t, e.Buffers().InUse())
}

// A refinement that lands too far from its predictor to be coded yields no
// NEWMV.
func TestNewMVRejectsUncodableResult(t *testing.T) {
	ref := makePlanes(smooth)
	f := testFrame(makePlanes(smooth), &ref, nil, nil)
	e := NewEngine(DefaultConfig(0))
	defer e.Close()

	var st blockState
	// Far enough past the frame that the search range and frame limits
	// no longer overlap.
	st.frameMV[ModeNearest][LastFrame] = mvcost.MV{Col: 8 * 1800}
	blk := testBlock(dsp.Block16x16)
	mv, rate, ok := e.combinedMotionSearch(f, blk, &st, LastFrame, math.MaxInt64)
	assert.False(t, ok)
	assert.Equal(t, mvcost.MV{}, mv)
	assert.Zero(t, rate)
	assert.Zero(t, st.predSSE[LastFrame])
}

func TestIntraFallback(t *testing.T) {
	src := makePlanes(flat)
	last := makePlanes(noise(3))

	t.Run("poor reference", func(t *testing.T) {
		f := testFrame(src, &last, nil, nil)
		e := NewEngine(DefaultConfig(5))
		defer e.Close()
		d := e.PickInterMode(f, testBlock(dsp.Block16x16), nil)
		assert.True(t, d.IntraSearched)
		assert.Equal(t, IntraFrame, d.Ref)
		assert.False(t, d.Mode.IsInter())
		assert.Equal(t, mvcost.Zero, d.MV)
	})

	t.Run("no reference", func(t *testing.T) {
		f := testFrame(src, nil, nil, nil)
		e := NewEngine(DefaultConfig(7))
		defer e.Close()
		// Larger than MaxIntraBSize, but nothing else is available.
		d := e.PickInterMode(f, testBlock(dsp.Block32x32), nil)
		assert.True(t, d.IntraSearched)
		assert.Equal(t, IntraFrame, d.Ref)
		assert.Equal(t, ModeDC, d.Mode)
		assert.True(t, rd.Cost{RDCost: d.RDCost}.Valid())
	})
}

func TestFilterSearchPicksSwitchableFilter(t *testing.T) {
	ref := makePlanes(smooth)
	src := makePlanes(shifted(smooth, mvcost.MV{Row: 1, Col: 1}))
	f := testFrame(src, &ref, nil, func(p *FrameParams) {
		p.InterpFilter = Switchable
		p.Index = 1
	})
	e := NewEngine(DefaultConfig(5))
	defer e.Close()

	blk := testBlock(dsp.Block16x16)
	blk.Refs[LastFrame].Candidates[0] = mvcost.MV{Row: 4, Col: 4}
	d := e.PickInterMode(f, blk, nil)
	require.True(t, d.Mode.IsInter())
	assert.Less(t, int(d.Filter), switchableFilters)
	assert.Zero(t, e.Buffers().InUse())
}

func TestReuseInterPredFillsDst(t *testing.T) {
	pic := makePlanes(smooth)
	f := testFrame(pic, &pic, nil, withBreakout)
	cfg := DefaultConfig(6)
	require.True(t, cfg.ReuseInterPred)
	e := NewEngine(cfg)
	defer e.Close()

	blk := testBlock(dsp.Block16x16)
	blk.Dst = make([]byte, 16*16)
	d := e.PickInterMode(f, blk, nil)
	require.True(t, d.Mode.IsInter())
	for y := 0; y < 16; y++ {
		want := pic.Y.Buf(testRow+y, testCol).At(0, 0)[:16]
		assert.Equal(t, want, blk.Dst[y*16:(y+1)*16], "row %d", y)
	}
}

func TestAdaptiveThresholdsFollowWinner(t *testing.T) {
	pic := makePlanes(smooth)
	f := testFrame(pic, &pic, nil, withBreakout)
	e := NewEngine(DefaultConfig(5))
	defer e.Close()

	thr := rd.NewAdaptiveThresholds(2)
	bs := dsp.Block16x16
	e.PickInterMode(f, testBlock(bs), thr)
	assert.Equal(t, rd.ThreshInitFact-rd.ThreshInitFact>>4, thr.Fact[bs][rd.ThrZeroMV])
	assert.Equal(t, rd.ThreshInitFact+rd.ThreshInc, thr.Fact[bs][rd.ThrNearestMV])
	assert.Equal(t, rd.ThreshInitFact+rd.ThreshInc, thr.Fact[bs][rd.ThrNewG])
	assert.Equal(t, rd.ThreshInitFact, thr.Fact[bs][rd.ThrDC], "intra slots are not adapted")
	assert.Equal(t, rd.ThreshInitFact, thr.Fact[dsp.Block8x8][rd.ThrZeroMV])
}

func TestDecisionsAreDeterministic(t *testing.T) {
	ref := makePlanes(smooth)
	src := makePlanes(shifted(smooth, mvcost.MV{Row: -3, Col: 1}))
	f := testFrame(src, &ref, &ref, nil)

	run := func() []Decision {
		e := NewEngine(DefaultConfig(6))
		defer e.Close()
		thr := rd.NewAdaptiveThresholds(e.Config().AdaptiveRDThresh)
		var out []Decision
		for _, bs := range []dsp.BlockSize{dsp.Block8x8, dsp.Block16x16, dsp.Block32x32} {
			out = append(out, e.PickInterMode(f, testBlock(bs), thr))
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestSelectTx(t *testing.T) {
	f := testFrame(makePlanes(flat), nil, nil, nil)
	e := NewEngine(DefaultConfig(0))
	defer e.Close()

	assert.Equal(t, dsp.Tx32x32, e.selectTx(f, dsp.Block64x64, 10, 100))
	assert.Equal(t, dsp.Tx8x8, e.selectTx(f, dsp.Block64x64, 100, 100))
	assert.Equal(t, dsp.Tx4x4, e.selectTx(f, dsp.Block4x4, 100, 100))

	e.cfg.VarBasedPartition = true
	assert.Equal(t, dsp.Tx16x16, e.selectTx(f, dsp.Block64x64, 10, 100))

	f.TxMode = dsp.Allow16x16
	assert.Equal(t, dsp.Tx16x16, e.selectTx(f, dsp.Block32x32, 100, 100))
	assert.Equal(t, dsp.Tx8x8, e.selectTx(f, dsp.Block8x8, 100, 100))
}

func TestSwitchableContext(t *testing.T) {
	inter := func(f Filter) Neighbor { return Neighbor{Available: true, Inter: true, Filter: f} }
	intra := Neighbor{Available: true}
	for _, tc := range []struct {
		name        string
		above, left Neighbor
		want        int
	}{
		{"none", Neighbor{}, Neighbor{}, switchableFilters},
		{"same", inter(EightTapSharp), inter(EightTapSharp), int(EightTapSharp)},
		{"above only", inter(EightTapSmooth), intra, int(EightTapSmooth)},
		{"left only", Neighbor{}, inter(EightTap), int(EightTap)},
		{"disagree", inter(EightTap), inter(EightTapSharp), switchableFilters},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, switchableContext(tc.above, tc.left))
		})
	}
}

func TestModeCosts(t *testing.T) {
	c := newModeCosts()
	for ctx := 0; ctx < interModeContexts; ctx++ {
		for m := ModeNearest; m <= ModeNew; m++ {
			assert.Positive(t, c.interMode(ctx, m))
		}
	}
	assert.Equal(t, c.interMode(interModeContexts-1, ModeNew), c.interMode(99, ModeNew))
	// Context 0 all but rules out ZEROMV.
	assert.Less(t, c.interMode(0, ModeNearest), c.interMode(0, ModeZero))
	assert.Less(t, c.intraMode(ModeDC), c.intraMode(ModeTM))
	for _, row := range c.switchable {
		for _, v := range row {
			assert.Positive(t, v)
		}
	}
}

func TestBilinearKernel(t *testing.T) {
	for phase, taps := range bilinearKernel {
		var sum int
		for _, v := range taps {
			sum += int(v)
		}
		assert.Equal(t, 1<<dsp.FilterBits, sum, "phase %d", phase)
	}
	assert.Same(t, interpKernels[EightTap], kernelFor(Switchable))
}

func TestDefaultConfigSpeeds(t *testing.T) {
	slow, fast := DefaultConfig(0), DefaultConfig(8)
	assert.Equal(t, mcomp.MethodNStep, slow.SearchMethod)
	assert.Equal(t, mcomp.MethodFastDiamond, fast.SearchMethod)
	assert.False(t, slow.costListEnabled())
	assert.True(t, fast.costListEnabled())
	assert.Equal(t, InterNearestNewZero, fast.InterModeMask[dsp.Block64x64])
	assert.Equal(t, InterAll, fast.InterModeMask[dsp.Block16x16])
	assert.Equal(t, IntraDCOnly, fast.IntraYModeMask[dsp.Tx32x32])
	assert.Equal(t, 2, fast.SubpelForcedStop)
	assert.False(t, fast.AdaptiveMotionSearch)
}

func TestParseFilter(t *testing.T) {
	for f := EightTap; f <= Switchable; f++ {
		got, ok := ParseFilter(f.String())
		require.True(t, ok)
		assert.Equal(t, f, got)
	}
	_, ok := ParseFilter("lanczos")
	assert.False(t, ok)
}

func BenchmarkPickInterMode(b *testing.B) {
	ref := makePlanes(smooth)
	src := makePlanes(shifted(smooth, mvcost.MV{Row: 2, Col: -1}))
	f := testFrame(src, &ref, &ref, nil)
	e := NewEngine(DefaultConfig(6))
	defer e.Close()
	thr := rd.NewAdaptiveThresholds(2)
	blk := testBlock(dsp.Block16x16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.PickInterMode(f, blk, thr)
	}
}
