package mvcost

import "math"

// Weight applied by BitCost when reporting MV rate.
const MVCostWeight = 108

// Fixed-point shifts of the rate-weighted error terms.
const (
	errCostShift    = 13
	sadErrCostShift = 8
)

// Tables holds the per-frame MV cost arrays. They are rebuilt once per
// frame and only read during search, so one Tables may be shared by any
// number of concurrent searches.
type Tables struct {
	Joint [Joints]int
	// Comp[0] is the row component, Comp[1] the column; index v+Max.
	Comp [2][]int

	// SAD-domain costs of whole-pixel differences, same layout.
	SADJoint [Joints]int
	SADComp  [2][]int

	// HP reports whether the component costs include the 1/8-pel bit.
	HP bool
}

// NewTables builds the cost tables for ctx. allowHP selects whether the
// high precision bit is costed.
func NewTables(ctx *Context, allowHP bool) *Tables {
	t := &Tables{HP: allowHP}
	TreeCosts(t.Joint[:], ctx.Joints[:], jointTree)
	for i := range t.Comp {
		t.Comp[i] = make([]int, Vals)
		buildComponentCosts(t.Comp[i], &ctx.Comps[i], allowHP)
	}

	t.SADJoint = [Joints]int{600, 300, 300, 300}
	for i := range t.SADComp {
		c := make([]int, Vals)
		for v := 1; v <= Max; v++ {
			z := int(256 * (2 * (math.Log2(float64(8*v)) + 0.6)))
			c[Max+v] = z
			c[Max-v] = z
		}
		t.SADComp[i] = c
	}
	return t
}

// raw returns the unweighted cost of coding diff.
func (t *Tables) raw(diff MV) int {
	return t.Joint[JointOf(diff)] + t.Comp[0][clampComp(diff.Row)+Max] + t.Comp[1][clampComp(diff.Col)+Max]
}

// RawCost returns the cost of coding mv relative to ref in 1/256 bits.
func (t *Tables) RawCost(mv, ref MV) int {
	if t == nil {
		return 0
	}
	return t.raw(mv.Sub(ref))
}

// BitCost returns the rate of coding mv relative to ref, scaled by weight
// and rounded: ROUND_POW2(cost*weight, 7).
func (t *Tables) BitCost(mv, ref MV, weight int) int {
	if t == nil {
		return 0
	}
	return (t.raw(mv.Sub(ref))*weight + 64) >> 7
}

// ErrCost returns the coding cost of mv relative to ref weighted by
// errorPerBit, in the variance domain. Both vectors are in 1/8 pel.
func (t *Tables) ErrCost(mv, ref MV, errorPerBit int) int {
	if t == nil {
		return 0
	}
	return (t.raw(mv.Sub(ref))*errorPerBit + (1 << (errCostShift - 1))) >> errCostShift
}

// SADErrCost returns the SAD-domain coding cost of the whole-pixel vector
// mv relative to the whole-pixel ref, weighted by sadPerBit.
func (t *Tables) SADErrCost(mv, ref MV, sadPerBit int) int {
	if t == nil {
		return 0
	}
	d := mv.Sub(ref)
	c := t.SADJoint[JointOf(d)] + t.SADComp[0][clampComp(d.Row)+Max] + t.SADComp[1][clampComp(d.Col)+Max]
	return (c*sadPerBit + (1 << (sadErrCostShift - 1))) >> sadErrCostShift
}

// clampComp keeps a component difference inside the table.
func clampComp(v int) int {
	if v > Max {
		return Max
	}
	if v < -Max {
		return -Max
	}
	return v
}
