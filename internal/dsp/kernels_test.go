package dsp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeRandBuf creates a random buffer with the given size seeded by rng.
func makeRandBuf(rng *rand.Rand, size int) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(rng.Intn(256))
	}
	return buf
}

const testStride = 80

// Unrolled kernels must agree with the per-pixel reference for every size.
func TestKernelConformance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	generic := NewTable(Generic)
	unrolled := NewTable(Unrolled)
	for bs := Block4x4; bs < BlockSizes; bs++ {
		g, u := generic.For(bs), unrolled.For(bs)
		for iter := 0; iter < 20; iter++ {
			src := makeRandBuf(rng, 66*testStride)
			ref := makeRandBuf(rng, 66*testStride)
			second := makeRandBuf(rng, 64*64)

			require.Equal(t, g.SAD(src, testStride, ref, testStride), u.SAD(src, testStride, ref, testStride), "SAD %v", bs)
			require.Equal(t, g.SADAvg(src, testStride, ref, testStride, second),
				u.SADAvg(src, testStride, ref, testStride, second), "SADAvg %v", bs)

			gv, gs := g.Variance(src, testStride, ref, testStride)
			uv, us := u.Variance(src, testStride, ref, testStride)
			require.Equal(t, gv, uv, "variance %v", bs)
			require.Equal(t, gs, us, "sse %v", bs)

			xoff, yoff := rng.Intn(16), rng.Intn(16)
			gv, gs = g.SubpixVariance(ref, testStride, xoff, yoff, src, testStride)
			uv, us = u.SubpixVariance(ref, testStride, xoff, yoff, src, testStride)
			require.Equal(t, gv, uv, "subpix variance %v", bs)
			require.Equal(t, gs, us, "subpix sse %v", bs)
		}
	}
}

func TestSADKnownValues(t *testing.T) {
	tab := NewTable(Generic)
	src := make([]byte, 16*16)
	ref := make([]byte, 16*16)
	for i := range ref {
		ref[i] = 3
	}
	assert.Equal(t, uint32(3*256), tab.For(Block16x16).SAD(src, 16, ref, 16))
	assert.Equal(t, uint32(3*64), tab.For(Block8x8).SAD(src, 16, ref, 16))
}

func TestSADBatchesMatchSingle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	src := makeRandBuf(rng, 40*testStride)
	ref := makeRandBuf(rng, 40*testStride)
	f := DefaultTable().For(Block16x16)

	var refs [4][]byte
	var sads [4]uint32
	for i := range refs {
		refs[i] = ref[i*testStride+i:]
	}
	f.SAD4(src, testStride, &refs, testStride, &sads)
	for i := range refs {
		assert.Equal(t, f.SAD(src, testStride, refs[i], testStride), sads[i])
	}

	row := make([]uint32, 8)
	f.SADRow(src, testStride, ref, testStride, row)
	for i := range row {
		assert.Equal(t, f.SAD(src, testStride, ref[i:], testStride), row[i])
	}
}

func TestVarianceIgnoresDCOffset(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	src := makeRandBuf(rng, 16*16)
	for i := range src {
		src[i] /= 2
	}
	ref := make([]byte, len(src))
	for i := range ref {
		ref[i] = src[i] + 10
	}
	v, sse := DefaultTable().For(Block16x16).Variance(src, 16, ref, 16)
	assert.Zero(t, v)
	assert.Equal(t, uint32(100*256), sse)
}

// Phase zero must reproduce the integer-position metric.
func TestSubpixVarianceZeroPhase(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	src := makeRandBuf(rng, 20*testStride)
	ref := makeRandBuf(rng, 20*testStride)
	f := DefaultTable().For(Block8x8)
	v0, s0 := f.Variance(ref, testStride, src, testStride)
	v1, s1 := f.SubpixVariance(ref, testStride, 0, 0, src, testStride)
	assert.Equal(t, v0, v1)
	assert.Equal(t, s0, s1)
}

func TestSubpixAvgVarianceSelfAverage(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	ref := makeRandBuf(rng, 20*testStride)
	f := DefaultTable().For(Block8x8)
	pred := make([]byte, 64)
	BilinearPredict(pred, ref, testStride, 8, 4, 8, 8)
	// Averaging a prediction with itself reproduces it.
	v, sse := f.SubpixAvgVariance(ref, testStride, 8, 4, pred, 8, pred)
	assert.Zero(t, v)
	assert.Zero(t, sse)
}

func TestBlockSizeLookups(t *testing.T) {
	tests := []struct {
		bs   BlockSize
		w, h int
		uv   BlockSize
		ok   bool
	}{
		{Block4x4, 4, 4, BlockInvalid, false},
		{Block8x8, 8, 8, Block4x4, true},
		{Block16x8, 16, 8, Block8x4, true},
		{Block32x64, 32, 64, Block16x32, true},
		{Block64x64, 64, 64, Block32x32, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.bs.String(), func(t *testing.T) {
			assert.Equal(t, tt.w, tt.bs.Width())
			assert.Equal(t, tt.h, tt.bs.Height())
			assert.Equal(t, tt.w*tt.h, 1<<tt.bs.NumPelsLog2())
			uv, ok := tt.bs.UV()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.uv, uv)
			got, ok := ParseBlockSize(tt.bs.String())
			assert.True(t, ok)
			assert.Equal(t, tt.bs, got)
		})
	}
}

func TestParseBackend(t *testing.T) {
	b, ok := ParseBackend(" Unrolled ")
	assert.True(t, ok)
	assert.Equal(t, Unrolled, b)
	_, ok = ParseBackend("avx9")
	assert.False(t, ok)
	assert.Equal(t, ActiveBackend(), DefaultTable().Backend())
}

func BenchmarkSAD16x16(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	src := makeRandBuf(rng, 16*testStride)
	ref := makeRandBuf(rng, 16*testStride)
	for _, backend := range []Backend{Generic, Unrolled} {
		f := NewTable(backend).For(Block16x16)
		b.Run(backend.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				f.SAD(src, testStride, ref, testStride)
			}
		})
	}
}
