package mvcost

import "math"

// Prob is an 8-bit probability that the next coded bit is zero.
type Prob = uint8

// probCost[p] is the cost of coding a zero with probability p/256, in
// 1/256 bit units.
var probCost [256]int

func init() {
	probCost[0] = 4096
	for p := 1; p < 256; p++ {
		probCost[p] = int(math.Round(-math.Log2(float64(p)/256) * 256))
	}
}

// CostBit returns the cost of coding bit with zero-probability p.
func CostBit(p Prob, bit int) int {
	if bit != 0 {
		return probCost[256-int(p)]
	}
	return probCost[p]
}

// Tree is a binary coding tree in the VP9 layout: entries come in
// pairs, a value <= 0 is a leaf holding -token, a positive value is the
// index of the next pair. Node i uses probability probs[i>>1].
type Tree []int8

// TreeCosts fills costs[token] for every leaf of tree.
func TreeCosts(costs []int, probs []Prob, tree Tree) {
	treeCosts(costs, probs, tree, 0, 0)
}

func treeCosts(costs []int, probs []Prob, tree Tree, i, c int) {
	p := probs[i>>1]
	for b := 0; b < 2; b++ {
		cc := c + CostBit(p, b)
		if ii := int(tree[i+b]); ii <= 0 {
			costs[-ii] = cc
		} else {
			treeCosts(costs, probs, tree, ii, cc)
		}
	}
}

var (
	jointTree = Tree{
		-int8(JointZero), 2,
		-int8(JointHNZVZ), 4,
		-int8(JointHZVNZ), -int8(JointHNZVNZ),
	}
	classTree = Tree{
		-0, 2,
		-1, 4,
		6, 8,
		-2, -3,
		10, 12,
		-4, -5,
		-6, 14,
		16, 18,
		-7, -8,
		-9, -10,
	}
	class0Tree = Tree{-0, -1}
	fpTree     = Tree{-0, 2, -1, 4, -2, -3}
)

// Component holds the coding probabilities of one MV component.
type Component struct {
	Sign     Prob
	Classes  [Classes - 1]Prob
	Class0   [Class0Size - 1]Prob
	Bits     [OffsetBits]Prob
	Class0FP [Class0Size][FPSize - 1]Prob
	FP       [FPSize - 1]Prob
	Class0HP Prob
	HP       Prob
}

// Context holds the probabilities of a whole MV: the joint class and the
// row and column components.
type Context struct {
	Joints [Joints - 1]Prob
	Comps  [2]Component
}

// DefaultContext returns the VP9 default MV probabilities.
func DefaultContext() *Context {
	comp := Component{
		Sign:     128,
		Classes:  [Classes - 1]Prob{224, 144, 192, 168, 192, 176, 192, 198, 198, 245},
		Class0:   [Class0Size - 1]Prob{216},
		Bits:     [OffsetBits]Prob{136, 140, 148, 160, 176, 192, 224, 234, 234, 240},
		Class0FP: [Class0Size][FPSize - 1]Prob{{128, 128, 64}, {96, 112, 64}},
		FP:       [FPSize - 1]Prob{64, 96, 64},
		Class0HP: 160,
		HP:       128,
	}
	return &Context{
		Joints: [Joints - 1]Prob{32, 64, 96},
		Comps:  [2]Component{comp, comp},
	}
}

// buildComponentCosts fills cost[v+Max] for v in [-Max, Max].
func buildComponentCosts(cost []int, c *Component, useHP bool) {
	sign := [2]int{CostBit(c.Sign, 0), CostBit(c.Sign, 1)}
	var classCost [Classes]int
	var class0Cost [Class0Size]int
	var class0FPCost [Class0Size][FPSize]int
	var fpCost [FPSize]int
	TreeCosts(classCost[:], c.Classes[:], classTree)
	TreeCosts(class0Cost[:], c.Class0[:], class0Tree)
	for i := range class0FPCost {
		TreeCosts(class0FPCost[i][:], c.Class0FP[i][:], fpTree)
	}
	TreeCosts(fpCost[:], c.FP[:], fpTree)

	cost[Max] = 0
	for v := 1; v <= Max; v++ {
		class, o := classOf(v - 1)
		d := o >> 3       // integer part
		f := (o >> 1) & 3 // fractional part
		e := o & 1        // high precision bit
		z := classCost[class]
		if class == 0 {
			z += class0Cost[d] + class0FPCost[d][f]
		} else {
			n := class + Class0Bits - 1
			for i := 0; i < n; i++ {
				z += CostBit(c.Bits[i], (d>>i)&1)
			}
			z += fpCost[f]
		}
		if useHP {
			if class == 0 {
				z += CostBit(c.Class0HP, e)
			} else {
				z += CostBit(c.HP, e)
			}
		}
		cost[Max+v] = z + sign[0]
		cost[Max-v] = z + sign[1]
	}
}
