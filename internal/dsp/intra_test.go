package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictIntra(t *testing.T) {
	p := NewPlane(16, 16, 8)
	for y := -1; y < 16; y++ {
		for x := -1; x < 16; x++ {
			p.Set(y, x, uint8(100+x-y))
		}
	}
	var e IntraEdges
	e.Load(p.Buf(0, 0), 4, true, true)
	dst := make([]byte, 16)

	PredictIntra(IntraV, &e, dst, 4)
	assert.Equal(t, []byte{101, 102, 103, 104}, dst[12:16])

	PredictIntra(IntraH, &e, dst, 4)
	assert.Equal(t, []byte{98, 98, 98, 98}, dst[4:8])

	// A plane-shaped neighbourhood is reproduced exactly by TM.
	PredictIntra(IntraTM, &e, dst, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, uint8(100+x-y), dst[y*4+x])
		}
	}

	e.Load(p.Buf(0, 0), 4, false, false)
	PredictIntra(IntraDC, &e, dst, 4)
	assert.Equal(t, uint8(128), dst[5])
	assert.Equal(t, byte(127), e.Above[0])
	assert.Equal(t, byte(129), e.Left[3])
}
