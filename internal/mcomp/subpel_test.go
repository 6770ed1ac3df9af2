package mcomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepteams/vp9me/internal/dsp"
	"github.com/deepteams/vp9me/internal/mvcost"
)

var subpelMethods = []SubpelMethod{
	SubpelMethodTree, SubpelMethodPruned, SubpelMethodPrunedMore, SubpelMethodPrunedEvenMore,
}

// halfPelBlock returns a block whose source is the reference interpolated
// half a pel to the right of the co-located position.
func halfPelBlock(t *testing.T) *Block {
	t.Helper()
	ref := makePlane(smooth)
	b := newTestBlock(ref, ref, testBlockSize)
	pred := make([]byte, 16*16)
	dsp.BilinearPredict(pred, b.Ref.At(0, 0), b.Ref.Stride, 8, 0, 16, 16)
	b.Src = dsp.Buf{Pix: pred, Stride: 16}
	b.Costs = mvcost.NewTables(mvcost.DefaultContext(), true)
	return b
}

func TestSubpelZeroMotionStays(t *testing.T) {
	p := randomPlane(9)
	b := newTestBlock(p, p, testBlockSize)
	b.Costs = mvcost.NewTables(mvcost.DefaultContext(), true)
	b.ErrorPerBit = 60
	for _, m := range subpelMethods {
		r := m.Search(b, Zero, Zero, &SubpelParams{AllowHP: true, ItersPerStep: 2})
		assert.Equal(t, Zero, r.MV, m.String())
		assert.Zero(t, r.Distortion, m.String())
	}
}

func TestSubpelFindsHalfPel(t *testing.T) {
	b := halfPelBlock(t)
	for _, m := range subpelMethods {
		r := m.Search(b, Zero, Zero, &SubpelParams{ForcedStop: 2, ItersPerStep: 1})
		assert.Equal(t, MV{Col: 4}, r.MV, m.String())
		assert.Zero(t, r.Cost, m.String())
	}
}

// Refinement starts from the integer position, so it can never report a
// cost above it.
func TestSubpelNeverWorseThanCenter(t *testing.T) {
	ref := makePlane(smooth)
	src := shifted(smooth, MV{Row: 2, Col: -3})
	b := newTestBlock(src, ref, testBlockSize)
	b.Costs = mvcost.NewTables(mvcost.DefaultContext(), true)
	b.ErrorPerBit = 40
	best := MV{Row: 1, Col: -2}
	center := b.MVPredVar(best, Zero, true)
	for _, m := range subpelMethods {
		for stop := 0; stop <= 2; stop++ {
			r := m.Search(b, best, Zero, &SubpelParams{AllowHP: true, ForcedStop: stop, ItersPerStep: 2})
			assert.LessOrEqual(t, r.Cost, center, "%v stop %d", m, stop)
			if stop == 2 {
				assert.Zero(t, r.MV.Row&3, "%v half pel only", m)
				assert.Zero(t, r.MV.Col&3, "%v half pel only", m)
			}
		}
	}
}

func TestSubpelClosedFormMatchesIterative(t *testing.T) {
	b := halfPelBlock(t)
	b.ErrorPerBit = 0
	costs := CostList{100, 300, 200, 101, 200}
	for _, m := range []SubpelMethod{SubpelMethodPrunedMore, SubpelMethodPrunedEvenMore} {
		closed := m.Search(b, Zero, Zero, &SubpelParams{Costs: &costs, ItersPerStep: 1})
		iterative := m.Search(b, Zero, Zero, &SubpelParams{ItersPerStep: 1})
		assert.Equal(t, MV{Col: 4}, closed.MV, m.String())
		assert.Zero(t, closed.Cost, m.String())
		assert.LessOrEqual(t, closed.Cost, iterative.Cost, m.String())
	}
}

func TestSubpelRejectsFarResult(t *testing.T) {
	b := halfPelBlock(t)
	far := MV{Row: 0, Col: 9000}
	r := SubpelTree(b, Zero, far, &SubpelParams{})
	assert.Equal(t, InvalidCost, r.Cost)
}

func TestSubpelSecondPredictor(t *testing.T) {
	p := randomPlane(21)
	b := newTestBlock(p, p, testBlockSize)
	second := make([]byte, 16*16)
	for y := 0; y < 16; y++ {
		copy(second[y*16:y*16+16], b.Src.At(y, 0))
	}
	r := SubpelTree(b, Zero, Zero, &SubpelParams{AllowHP: true, Second: second})
	assert.Equal(t, Zero, r.MV)
	assert.Zero(t, r.Cost)
}

func TestSubpelMethodNames(t *testing.T) {
	for _, m := range subpelMethods {
		got, err := ParseSubpelMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseSubpelMethod("exhaustive")
	assert.Error(t, err)
}

// Opposite candidates of equal cost send the diagonal to the positive side.
func TestSubpelTreeTieGoesPositive(t *testing.T) {
	b, m := newCostMapBlock(costTable(500, map[MV]uint32{
		{}:                 100,
		{Row: 0, Col: -4}:  150,
		{Row: 0, Col: 4}:   150,
		{Row: -4, Col: 0}:  150,
		{Row: 4, Col: 0}:   150,
		{Row: 4, Col: 4}:   50,
		{Row: -4, Col: -4}: 120,
		{Row: -4, Col: 4}:  120,
		{Row: 4, Col: -4}:  120,
	}))
	r := SubpelTree(b, Zero, Zero, &SubpelParams{ForcedStop: 2, ItersPerStep: 1})
	assert.Equal(t, MV{Row: 4, Col: 4}, r.MV)
	assert.Equal(t, 50, r.Cost)
	assert.Zero(t, m.seen[MV{Row: -4, Col: -4}])
}

// The second level extends from the diagonal point, so a diagonal win
// leaves nothing to extend.
func TestSubpelTreeSecondLevelFromDiagonal(t *testing.T) {
	b, m := newCostMapBlock(costTable(500, map[MV]uint32{
		{}:                 100,
		{Row: 0, Col: -4}:  80,
		{Row: -4, Col: 0}:  90,
		{Row: -4, Col: -4}: 60,
		{Row: -4, Col: -8}: 10,
		{Row: -8, Col: -4}: 10,
	}))
	r := SubpelTree(b, Zero, Zero, &SubpelParams{ForcedStop: 2, ItersPerStep: 2})
	assert.Equal(t, MV{Row: -4, Col: -4}, r.MV)
	assert.Equal(t, 60, r.Cost)
	assert.Zero(t, m.seen[MV{Row: -4, Col: -8}])
	assert.Zero(t, m.seen[MV{Row: -8, Col: -4}])
}

// When the diagonal loses to an axis point, the second level continues past
// the axis winner.
func TestSubpelTreeSecondLevelFromAxis(t *testing.T) {
	b, _ := newCostMapBlock(costTable(500, map[MV]uint32{
		{}:                 100,
		{Row: 0, Col: -4}:  80,
		{Row: -4, Col: 0}:  90,
		{Row: -4, Col: -4}: 200,
		{Row: 4, Col: -8}:  10,
	}))
	r := SubpelTree(b, Zero, Zero, &SubpelParams{ForcedStop: 2, ItersPerStep: 2})
	assert.Equal(t, MV{Row: 4, Col: -8}, r.MV)
	assert.Equal(t, 10, r.Cost)
}

func TestSecondLevelFollowsWhichdir(t *testing.T) {
	tests := []struct {
		name     string
		best     MV
		whichdir int
		want     []MV
		skip     MV
	}{
		{"row fixed left up", MV{Col: -4}, 0, []MV{{Row: 4, Col: -8}, {Row: -4, Col: -8}, {Row: 4, Col: -4}}, MV{Row: -4, Col: -4}},
		{"row fixed right up", MV{Col: -4}, 1, []MV{{Row: 4, Col: -4}}, MV{Row: -4, Col: -4}},
		{"row fixed left down", MV{Col: -4}, 2, []MV{{Row: -4, Col: -4}}, MV{Row: 4, Col: -4}},
		{"row fixed right down", MV{Col: -4}, 3, []MV{{Row: -4, Col: -4}}, MV{Row: 4, Col: -4}},
		{"col fixed left up", MV{Row: -4}, 0, []MV{{Row: -8, Col: 4}, {Row: -8, Col: -4}, {Row: -4, Col: 4}}, MV{Row: -4, Col: -4}},
		{"col fixed right up", MV{Row: -4}, 1, []MV{{Row: -4, Col: -4}}, MV{Row: -4, Col: 4}},
		{"col fixed left down", MV{Row: -4}, 2, []MV{{Row: -4, Col: 4}}, MV{Row: -4, Col: -4}},
		{"col fixed right down", MV{Row: -4}, 3, []MV{{Row: -4, Col: -4}}, MV{Row: -4, Col: 4}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			b, m := newCostMapBlock(costTable(500, nil))
			s := newSubpelSearch(b, Zero, Zero, &SubpelParams{ItersPerStep: 2})
			s.br, s.bc = tc.best.Row, tc.best.Col
			s.besterr = 100
			s.whichdir = tc.whichdir
			s.secondLevel(0, 0)
			for _, mv := range tc.want {
				assert.Equal(t, 1, m.seen[mv], "%v", mv)
			}
			assert.Zero(t, m.seen[tc.skip])
			assert.Equal(t, tc.best, MV{Row: s.br, Col: s.bc})
		})
	}
}

// With no cost list the pruned methods search the half-pel level from the
// centre, and the second level turns to the side the first level favoured.
func TestSubpelPrunedSecondLevelDirection(t *testing.T) {
	for _, m := range []SubpelMethod{SubpelMethodPruned, SubpelMethodPrunedMore, SubpelMethodPrunedEvenMore} {
		b, cm := newCostMapBlock(costTable(500, map[MV]uint32{
			{}:                 100,
			{Row: 0, Col: -4}:  80,
			{Row: -4, Col: 0}:  90,
			{Row: -4, Col: -4}: 200,
			{Row: 4, Col: -4}:  10,
		}))
		r := m.Search(b, Zero, Zero, &SubpelParams{ForcedStop: 2, ItersPerStep: 2})
		assert.Equal(t, MV{Row: 4, Col: -4}, r.MV, m.String())
		assert.Equal(t, 10, r.Cost, m.String())
		assert.Equal(t, 1, cm.seen[MV{Row: -4, Col: -4}], m.String())
	}
}
