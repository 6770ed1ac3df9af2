package pool

import (
	"github.com/bits-and-blooms/bitset"
)

// MaxPredSize is the sample count of the largest prediction block.
const MaxPredSize = 64 * 64

// PredBuffer is one prediction buffer of a PredPool.
type PredBuffer struct {
	Index  int
	Pix    []byte
	Stride int
}

// PredPool is a fixed set of prediction buffers, each either free or in
// use. The backing memory comes from the bucketed pools and is returned
// by Close. A PredPool is owned by one goroutine.
type PredPool struct {
	backing []byte
	bufs    []PredBuffer
	inUse   bitset.BitSet
}

// NewPredPool allocates n buffers large enough for a 64x64 block.
func NewPredPool(n int) *PredPool {
	p := &PredPool{
		backing: Get(n * MaxPredSize),
		bufs:    make([]PredBuffer, n),
	}
	for i := range p.bufs {
		p.bufs[i] = PredBuffer{
			Index: i,
			Pix:   p.backing[i*MaxPredSize : (i+1)*MaxPredSize : (i+1)*MaxPredSize],
		}
	}
	return p
}

// Len returns the number of buffers.
func (p *PredPool) Len() int { return len(p.bufs) }

// InUse returns how many buffers are currently held.
func (p *PredPool) InUse() int { return int(p.inUse.Count()) }

// Acquire marks the first free buffer in use and returns it with the given
// stride. It returns nil when every buffer is held.
func (p *PredPool) Acquire(stride int) *PredBuffer {
	for i := range p.bufs {
		if !p.inUse.Test(uint(i)) {
			p.inUse.Set(uint(i))
			b := &p.bufs[i]
			b.Stride = stride
			return b
		}
	}
	return nil
}

// Release frees b. Releasing nil or a free buffer does nothing.
func (p *PredPool) Release(b *PredBuffer) {
	if b == nil {
		return
	}
	p.inUse.Clear(uint(b.Index))
}

// Close returns the backing memory. The pool must not be used afterwards.
func (p *PredPool) Close() {
	if p.backing != nil {
		Put(p.backing)
		p.backing = nil
		p.bufs = nil
		p.inUse.ClearAll()
	}
}

// Scope tracks the buffers acquired while deciding one block so that all
// of them are released on every exit path.
type Scope struct {
	pool *PredPool
	held bitset.BitSet
}

// NewScope starts a scope on p.
func NewScope(p *PredPool) *Scope {
	return &Scope{pool: p}
}

// Acquire takes a buffer from the pool for the lifetime of the scope.
func (s *Scope) Acquire(stride int) *PredBuffer {
	b := s.pool.Acquire(stride)
	if b != nil {
		s.held.Set(uint(b.Index))
	}
	return b
}

// Release returns b to the pool before the scope ends.
func (s *Scope) Release(b *PredBuffer) {
	if b == nil {
		return
	}
	s.held.Clear(uint(b.Index))
	s.pool.Release(b)
}

// Close releases every buffer still held.
func (s *Scope) Close() {
	for i, ok := s.held.NextSet(0); ok; i, ok = s.held.NextSet(i + 1) {
		s.pool.Release(&s.pool.bufs[i])
	}
	s.held.ClearAll()
}
