//go:build linux || darwin

package vector

import (
	"fmt"
	"math"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// A MmapAllocator places blocks in anonymous private memory mappings, outside
// the Go heap. Element types are restricted to Scalar since the garbage
// collector does not scan the mappings. An optional limit caps the number of
// bytes mapped at any time; requests beyond it fail with an error.
// A MmapAllocator can be shared by vectors used from multiple goroutines.
type MmapAllocator[T Scalar] struct {
	mu     sync.Mutex
	limit  int
	mapped int
	blocks map[unsafe.Pointer][]byte
}

// NewMmapAllocator creates an allocator mapping at most limit bytes. A
// non-positive limit means no limit.
func NewMmapAllocator[T Scalar](limit int) *MmapAllocator[T] {
	return &MmapAllocator[T]{
		limit:  limit,
		blocks: make(map[unsafe.Pointer][]byte),
	}
}

// Allocate maps a zeroed block of n elements.
func (a *MmapAllocator[T]) Allocate(n int) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative block length %d", n)
	}
	if n == 0 {
		return []T{}, nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if n > math.MaxInt/size {
		return nil, fmt.Errorf("block of %d elements of %d bytes overflows", n, size)
	}
	length := n * size
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.limit > 0 && length > a.limit-a.mapped {
		return nil, fmt.Errorf("mapping %d bytes with %d of %d mapped", length, a.mapped, a.limit)
	}
	mem, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", length, err)
	}
	p := unsafe.Pointer(unsafe.SliceData(mem))
	a.blocks[p] = mem
	a.mapped += length
	return unsafe.Slice((*T)(p), n), nil
}

// Release unmaps a block returned by Allocate. Blocks this allocator did not
// map are ignored. If unmapping fails the block stays mapped and is still
// counted by Mapped; no error is reported otherwise.
func (a *MmapAllocator[T]) Release(block []T) {
	if len(block) == 0 {
		return
	}
	clear(block)
	p := unsafe.Pointer(unsafe.SliceData(block))
	a.mu.Lock()
	defer a.mu.Unlock()
	mem, ok := a.blocks[p]
	if !ok {
		return
	}
	if err := unix.Munmap(mem); err != nil {
		return
	}
	delete(a.blocks, p)
	a.mapped -= len(mem)
}

// Mapped returns the number of bytes currently mapped.
func (a *MmapAllocator[T]) Mapped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mapped
}
