package pool

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestClassOf(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 0},
		{1, 0},
		{MaxPredSize, 0},
		{MaxPredSize + 1, 1},
		{2 * MaxPredSize, 1},
		{3 * MaxPredSize, 2},
		{4 * MaxPredSize, 2},
		{5 * MaxPredSize, 3},
		{MaxPooled, 3},
		{MaxPooled + 1, -1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, classOf(tc.size), "size %d", tc.size)
	}
}

func TestGetLengthAndCapacity(t *testing.T) {
	for _, size := range []int{0, 16 * 16, MaxPredSize, 3 * MaxPredSize, MaxPooled, MaxPooled + 7} {
		b := Get(size)
		require.Len(t, b, size)
		if c := classOf(size); c >= 0 {
			assert.Equal(t, MaxPredSize<<c, cap(b), "size %d", size)
		}
		Put(b)
	}
}

func TestPutIgnoresForeignSlices(t *testing.T) {
	assert.NotPanics(t, func() {
		Put(nil)
		Put(make([]byte, 100))
		Put(make([]byte, MaxPredSize+1))
		Put(make([]byte, 2*MaxPooled))
	})
	// A foreign slice never comes back with a short capacity.
	b := Get(2 * MaxPredSize)
	assert.Equal(t, 2*MaxPredSize, cap(b))
	Put(b)
}

func TestConcurrentGetPut(t *testing.T) {
	var g errgroup.Group
	for w := 0; w < 16; w++ {
		g.Go(func() error {
			for i := 0; i < 50; i++ {
				for _, size := range []int{64, MaxPredSize, 2*MaxPredSize + 1, MaxPooled} {
					b := Get(size)
					for j := range b {
						b[j] = byte(j)
					}
					Put(b)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func BenchmarkGet(b *testing.B) {
	for _, size := range []int{MaxPredSize, 4 * MaxPredSize} {
		size := size
		b.Run(fmt.Sprintf("%dK", size>>10), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Put(Get(size))
			}
		})
	}
}
