// Package pool provides the scratch memory of the mode decision: sync.Pool
// backed slabs sized in whole 64x64 predictions, and PredPool, a small
// fixed set of prediction buffers whose ownership is tracked per block.
package pool

import (
	"math/bits"
	"sync"
)

// numClasses is the number of slab classes. Class i holds 1<<i
// predictions of MaxPredSize samples.
const numClasses = 4

// MaxPooled is the largest request served from a slab class.
const MaxPooled = MaxPredSize << (numClasses - 1)

var slabs [numClasses]sync.Pool

func init() {
	for i := range slabs {
		n := MaxPredSize << i
		slabs[i].New = func() any {
			b := make([]byte, n)
			return &b
		}
	}
}

// classOf returns the smallest class holding size samples, or -1 when the
// request is too large to pool.
func classOf(size int) int {
	if size > MaxPooled {
		return -1
	}
	if size <= MaxPredSize {
		return 0
	}
	return bits.Len(uint(size-1) / MaxPredSize)
}

// Get returns a slab of length size. Its contents are unspecified.
func Get(size int) []byte {
	c := classOf(size)
	if c < 0 {
		return make([]byte, size)
	}
	return (*slabs[c].Get().(*[]byte))[:size]
}

// Put recycles a slab obtained from Get. Slices whose capacity is not
// exactly a class size are dropped.
func Put(b []byte) {
	n := cap(b)
	c := classOf(n)
	if c < 0 || n != MaxPredSize<<c {
		return
	}
	b = b[:n]
	slabs[c].Put(&b)
}
