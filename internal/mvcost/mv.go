// Package mvcost models the bit cost of coding motion vectors and the
// rate-weighted error terms the searches add to their distortion.
package mvcost

import "fmt"

// MV is a motion vector. Sub-pixel searches use 1/8-pel units; integer
// searches use whole pixels.
type MV struct {
	Row, Col int
}

// Zero is the zero motion vector.
var Zero = MV{}

// Add returns a + b.
func (a MV) Add(b MV) MV { return MV{a.Row + b.Row, a.Col + b.Col} }

// Sub returns a - b.
func (a MV) Sub(b MV) MV { return MV{a.Row - b.Row, a.Col - b.Col} }

// ToSubpel scales a whole-pixel vector to 1/8-pel units.
func (a MV) ToSubpel() MV { return MV{a.Row * 8, a.Col * 8} }

// ToFullpel rounds a 1/8-pel vector down to whole pixels.
func (a MV) ToFullpel() MV { return MV{a.Row >> 3, a.Col >> 3} }

// IsSubpel reports whether either component has a fractional part.
func (a MV) IsSubpel() bool { return a.Row&7 != 0 || a.Col&7 != 0 }

func (a MV) String() string { return fmt.Sprintf("(%d,%d)", a.Row, a.Col) }

// Codec limits of a motion vector component.
const (
	Classes    = 11
	Class0Bits = 1
	Class0Size = 1 << Class0Bits
	OffsetBits = Classes + Class0Bits - 2
	FPSize     = 4

	MaxBits = Classes + Class0Bits + 2
	// Max is the largest coded component magnitude, in 1/8 pel.
	Max = (1 << MaxBits) - 1
	// Vals is the number of coded component values.
	Vals = 2*Max + 1

	Low = -(1 << MaxBits)
	Upp = 1 << MaxBits

	// CompandedRefThresh is the full-pel magnitude at or above which a
	// reference MV disables high precision.
	CompandedRefThresh = 8
)

// Joint classifies which components of a vector are non-zero.
type Joint uint8

const (
	JointZero   Joint = iota // row == 0, col == 0
	JointHNZVZ               // row == 0, col != 0
	JointHZVNZ               // row != 0, col == 0
	JointHNZVNZ              // row != 0, col != 0

	// Joints is the number of joint classes.
	Joints
)

// JointOf returns the joint class of v.
func JointOf(v MV) Joint {
	if v.Row == 0 {
		if v.Col == 0 {
			return JointZero
		}
		return JointHNZVZ
	}
	if v.Col == 0 {
		return JointHZVNZ
	}
	return JointHNZVNZ
}

// UseHP reports whether 1/8-pel precision may be coded relative to ref.
func UseHP(ref MV) bool {
	return abs(ref.Row)>>3 < CompandedRefThresh && abs(ref.Col)>>3 < CompandedRefThresh
}

// LowerPrecision rounds odd 1/8-pel components toward zero when high
// precision is not usable.
func LowerPrecision(v MV, allowHP bool) MV {
	if allowHP && UseHP(v) {
		return v
	}
	if v.Row&1 != 0 {
		if v.Row > 0 {
			v.Row--
		} else {
			v.Row++
		}
	}
	if v.Col&1 != 0 {
		if v.Col > 0 {
			v.Col--
		} else {
			v.Col++
		}
	}
	return v
}

// classOf returns the magnitude class of z = |v|-1 and the offset inside it.
func classOf(z int) (class, offset int) {
	if z >= Class0Size*4096 {
		class = Classes - 1
	} else {
		class = log2Floor(z >> 3)
	}
	return class, z - classBase(class)
}

func classBase(c int) int {
	if c == 0 {
		return 0
	}
	return Class0Size << (c + 2)
}

func log2Floor(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
