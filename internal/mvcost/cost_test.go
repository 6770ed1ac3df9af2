package mvcost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJointOf(t *testing.T) {
	tests := []struct {
		mv   MV
		want Joint
	}{
		{MV{0, 0}, JointZero},
		{MV{0, -3}, JointHNZVZ},
		{MV{5, 0}, JointHZVNZ},
		{MV{-1, 1}, JointHNZVNZ},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JointOf(tt.mv), "JointOf(%v)", tt.mv)
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		z, class, offset int
	}{
		{0, 0, 0},
		{15, 0, 15},
		{16, 1, 0},
		{47, 2, 15},
		{8191, 9, 4095},
		{8192, 10, 0},
		{Max - 1, 10, Max - 1 - 8192},
	}
	for _, tt := range tests {
		c, o := classOf(tt.z)
		assert.Equal(t, tt.class, c, "class of %d", tt.z)
		assert.Equal(t, tt.offset, o, "offset of %d", tt.z)
	}
}

func TestUseHP(t *testing.T) {
	assert.True(t, UseHP(MV{63, -63}))
	assert.False(t, UseHP(MV{64, 0}))
	assert.False(t, UseHP(MV{0, -64}))
	assert.Equal(t, MV{62, -62}, LowerPrecision(MV{63, -63}, false))
	assert.Equal(t, MV{63, -63}, LowerPrecision(MV{63, -63}, true))
	assert.Equal(t, MV{100, 0}, LowerPrecision(MV{101, 0}, true))
}

func TestProbCost(t *testing.T) {
	assert.Equal(t, 256, CostBit(128, 0))
	assert.Equal(t, 256, CostBit(128, 1))
	assert.Equal(t, 768, CostBit(32, 0))
	assert.Less(t, CostBit(250, 0), CostBit(250, 1))
}

func TestDefaultTables(t *testing.T) {
	tab := NewTables(DefaultContext(), true)
	require.Len(t, tab.Comp[0], Vals)
	assert.Equal(t, 768, tab.Joint[JointZero])
	assert.Zero(t, tab.Comp[0][Max])
	assert.Equal(t, 648, tab.BitCost(Zero, Zero, MVCostWeight))

	// The high precision bit adds cost on top of the same tables.
	lp := NewTables(DefaultContext(), false)
	assert.Greater(t, tab.Comp[1][Max+3], lp.Comp[1][Max+3])
}

// Equal sign probabilities make the cost symmetric under negating both
// components, though not under negating only one of them in general.
func TestErrCostSymmetry(t *testing.T) {
	tab := NewTables(DefaultContext(), true)
	ref := MV{12, -40}
	for _, d := range []MV{{1, 0}, {0, 7}, {-9, 33}, {120, -5}, {1000, 1000}} {
		a := tab.ErrCost(ref.Add(d), ref, 90)
		b := tab.ErrCost(ref.Sub(d), ref, 90)
		assert.Equal(t, a, b, "diff %v", d)
		assert.Equal(t, tab.SADErrCost(d, Zero, 20), tab.SADErrCost(Zero.Sub(d), Zero, 20))
	}
}

func TestSADErrCostMonotone(t *testing.T) {
	tab := NewTables(DefaultContext(), false)
	for _, col := range []int{0, 3, -17} {
		prev := -1
		for row := 0; row < 200; row++ {
			c := tab.SADErrCost(MV{row, col}, Zero, 48)
			assert.GreaterOrEqual(t, c, prev, "row %d col %d", row, col)
			prev = c
		}
	}
}

func TestNilTablesCostNothing(t *testing.T) {
	var tab *Tables
	assert.Zero(t, tab.ErrCost(MV{40, 40}, Zero, 100))
	assert.Zero(t, tab.SADErrCost(MV{40, 40}, Zero, 100))
	assert.Zero(t, tab.BitCost(MV{40, 40}, Zero, MVCostWeight))
}

func TestTreeCosts(t *testing.T) {
	costs := make([]int, 4)
	TreeCosts(costs, []Prob{128, 128, 128}, jointTree)
	assert.Equal(t, []int{256, 512, 768, 768}, costs)
}
