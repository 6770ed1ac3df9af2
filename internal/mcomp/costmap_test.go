package mcomp

import (
	"github.com/deepteams/vp9me/internal/dsp"
)

// costMap is a dsp.Variance whose metrics are read from a function of the
// 1/8-pel position being measured instead of from pixels. It recovers the
// position from where the reference slice starts inside ref, and counts
// every position it is asked about.
type costMap struct {
	size dsp.BlockSize
	ref  dsp.Buf
	cost func(mv MV) uint32
	seen map[MV]int
}

// newCostMapBlock returns a block over a blank reference whose metrics
// come from cost. The block carries no rate tables, so MV rate is free.
func newCostMapBlock(cost func(mv MV) uint32) (*Block, *costMap) {
	p := dsp.NewPlane(testW, testH, testBorder)
	b := newTestBlock(p, p, testBlockSize)
	m := &costMap{size: testBlockSize, ref: b.Ref, cost: cost, seen: map[MV]int{}}
	b.Fn = m
	b.Src = dsp.Buf{Pix: make([]byte, 16*16), Stride: 16}
	return b, m
}

// costTable maps listed positions to their cost and everything else to def.
func costTable(def uint32, pts map[MV]uint32) func(MV) uint32 {
	return func(mv MV) uint32 {
		if v, ok := pts[mv]; ok {
			return v
		}
		return def
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// isRef reports whether s is a tail of the reference buffer.
func (m *costMap) isRef(s []byte) bool {
	pix := m.ref.Pix[:cap(m.ref.Pix)]
	if cap(s) == 0 || cap(s) > len(pix) {
		return false
	}
	return &s[:cap(s)][cap(s)-1] == &pix[len(pix)-1]
}

func (m *costMap) measure(s []byte, xoff, yoff int) uint32 {
	if !m.isRef(s) {
		panic("costMap: slice is not part of the reference")
	}
	d := cap(m.ref.Pix) - cap(s) - m.ref.Off
	r := floorDiv(d+m.ref.Stride/2, m.ref.Stride)
	c := d - r*m.ref.Stride
	mv := MV{Row: r*8 + yoff/2, Col: c*8 + xoff/2}
	m.seen[mv]++
	return m.cost(mv)
}

func (m *costMap) Size() dsp.BlockSize { return m.size }

func (m *costMap) SAD(src []byte, srcStride int, ref []byte, refStride int) uint32 {
	return m.measure(ref, 0, 0)
}

func (m *costMap) SADAvg(src []byte, srcStride int, ref []byte, refStride int, second []byte) uint32 {
	return m.measure(ref, 0, 0)
}

func (m *costMap) SAD4(src []byte, srcStride int, refs *[4][]byte, refStride int, sads *[4]uint32) {
	for i := range refs {
		sads[i] = m.measure(refs[i], 0, 0)
	}
}

func (m *costMap) SADRow(src []byte, srcStride int, ref []byte, refStride int, sads []uint32) {
	for i := range sads {
		sads[i] = m.measure(ref[i:], 0, 0)
	}
}

func (m *costMap) Variance(a []byte, aStride int, b []byte, bStride int) (uint32, uint32) {
	if !m.isRef(a) {
		a = b
	}
	v := m.measure(a, 0, 0)
	return v, v
}

func (m *costMap) SubpixVariance(ref []byte, refStride int, xoff, yoff int, src []byte, srcStride int) (uint32, uint32) {
	v := m.measure(ref, xoff, yoff)
	return v, v
}

func (m *costMap) SubpixAvgVariance(ref []byte, refStride int, xoff, yoff int, src []byte, srcStride int, second []byte) (uint32, uint32) {
	v := m.measure(ref, xoff, yoff)
	return v, v
}
