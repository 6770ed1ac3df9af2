package dsp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpKernelsSumToUnity(t *testing.T) {
	for name, k := range map[string]*InterpKernel{
		"regular": &RegularFilter,
		"smooth":  &SmoothFilter,
		"sharp":   &SharpFilter,
	} {
		for phase, taps := range k {
			sum := 0
			for _, c := range taps {
				sum += int(c)
			}
			assert.Equal(t, 1<<FilterBits, sum, "%s phase %d", name, phase)
		}
	}
}

func TestBilinearFiltersSumToUnity(t *testing.T) {
	for phase, f := range BilinearFilters {
		assert.Equal(t, uint32(1<<FilterBits), f[0]+f[1], "phase %d", phase)
	}
}

func TestConvolve8FlatAreaIsFlat(t *testing.T) {
	p := NewPlane(32, 32, 16)
	for i := range p.Pix {
		p.Pix[i] = 77
	}
	dst := make([]byte, 16*16)
	for _, k := range []*InterpKernel{&RegularFilter, &SmoothFilter, &SharpFilter} {
		Convolve8(dst, 16, p.Buf(8, 8), k, 5, 11, 16, 16)
		for i, v := range dst {
			if v != 77 {
				t.Fatalf("dst[%d] = %d, want 77", i, v)
			}
		}
	}
}

func TestConvolve8ZeroPhaseCopies(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := NewPlane(32, 32, 16)
	copy(p.Pix, makeRandBuf(rng, len(p.Pix)))
	dst := make([]byte, 8*8)
	Convolve8(dst, 8, p.Buf(4, 4), &SharpFilter, 0, 0, 8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, p.Get(4+y, 4+x), dst[y*8+x])
		}
	}
	// A pure vertical phase is a one-dimensional filter.
	Convolve8(dst, 8, p.Buf(4, 4), &RegularFilter, 0, 8, 8, 8)
	want := 0
	for i, c := range RegularFilter[8] {
		want += int(p.Get(4+i-3, 4)) * int(c)
	}
	assert.Equal(t, ClipPixel((want+64)>>FilterBits), dst[0])
}

func TestPlaneExtendBorders(t *testing.T) {
	p := NewPlane(4, 3, 5)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			p.Set(y, x, uint8(10*y+x))
		}
	}
	p.ExtendBorders()
	assert.Equal(t, uint8(0), p.Get(-5, -5))
	assert.Equal(t, uint8(23), p.Get(7, 8))
	assert.Equal(t, uint8(13), p.Get(1, 9))
	assert.Equal(t, uint8(2), p.Get(-3, 2))
	assert.True(t, p.Buf(0, 0).Contains(-5, -5, 13, 14))
	assert.False(t, p.Buf(0, 0).Contains(-6, -5, 1, 1))
}
