package vector

import (
	"sync"

	"github.com/eapache/queue"
)

// DefaultPoolDepth is the number of released blocks a PoolAllocator keeps per
// block length when created with a non-positive depth.
const DefaultPoolDepth = 64

// PoolStats holds the counters of a PoolAllocator.
type PoolStats struct {
	Allocs   uint64 // blocks created by the pool
	Reuses   uint64 // blocks handed out again after a release
	Releases uint64 // blocks taken back
	Drops    uint64 // released blocks discarded because their class was full
}

// A PoolAllocator keeps released blocks in one free list per block length
// and hands them out again before allocating new ones. Vectors request block
// lengths that are powers of two, so a handful of classes covers all of them.
// A PoolAllocator can be shared by vectors used from multiple goroutines.
type PoolAllocator[T any] struct {
	mu      sync.Mutex
	depth   int
	classes map[int]*queue.Queue
	stats   PoolStats
}

// NewPoolAllocator creates a pool keeping at most depth released blocks per
// block length.
func NewPoolAllocator[T any](depth int) *PoolAllocator[T] {
	if depth <= 0 {
		depth = DefaultPoolDepth
	}
	return &PoolAllocator[T]{
		depth:   depth,
		classes: make(map[int]*queue.Queue),
	}
}

// Allocate returns a zeroed block of n elements, reusing a released one if
// available.
func (p *PoolAllocator[T]) Allocate(n int) ([]T, error) {
	p.mu.Lock()
	if q, ok := p.classes[n]; ok && q.Length() > 0 {
		block := q.Remove().([]T)
		p.stats.Reuses++
		p.mu.Unlock()
		return block, nil
	}
	p.mu.Unlock()
	block, err := HeapAllocator[T]{}.Allocate(n)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.stats.Allocs++
	p.mu.Unlock()
	return block, nil
}

// Release zeroes the block and keeps it for a later Allocate of the same
// length, unless the pool already holds enough blocks of that length.
func (p *PoolAllocator[T]) Release(block []T) {
	clear(block)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Releases++
	n := len(block)
	q, ok := p.classes[n]
	if !ok {
		q = queue.New()
		p.classes[n] = q
	}
	if q.Length() >= p.depth {
		p.stats.Drops++
		return
	}
	q.Add(block)
}

// Stats returns a snapshot of the pool counters.
func (p *PoolAllocator[T]) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Idle returns the number of released blocks currently held by the pool.
func (p *PoolAllocator[T]) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, q := range p.classes {
		n += q.Length()
	}
	return n
}
