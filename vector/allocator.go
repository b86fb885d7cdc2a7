package vector

import (
	"fmt"
	"math"
	"unsafe"
)

// maxHeapBytes bounds the size of a single block handed out by HeapAllocator:
// 2 GiB on 32-bit platforms and 128 TiB on 64-bit platforms.
const maxHeapBytes = 1 << (31 + 16*(^uint(0)>>63))

// An Allocator provides the blocks a Vector uses once it holds more elements
// than fit inline.
//
// Allocate returns a block of exactly n elements or an error. Release
// destroys the elements of a block previously returned by Allocate, so that
// nothing they reference is kept alive, and takes the block back. The caller
// must not use the block after releasing it.
type Allocator[T any] interface {
	Allocate(n int) ([]T, error)
	Release(block []T)
}

// Scalar is the set of element types holding no pointers that allocators
// placing blocks outside the Go heap accept.
type Scalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 | ~complex64 | ~complex128
}

// HeapAllocator allocates blocks on the Go heap. It is the allocator used by
// vectors created without an explicit one.
type HeapAllocator[T any] struct{}

// Allocate returns a zeroed block of n elements.
func (HeapAllocator[T]) Allocate(n int) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative block length %d", n)
	}
	var zero T
	if size := unsafe.Sizeof(zero); size > 0 && uint64(n) > maxHeapBytes/uint64(size) {
		return nil, fmt.Errorf("block of %d elements of %d bytes exceeds the address space", n, size)
	}
	return make([]T, n), nil
}

// Release zeroes the block and leaves it to the garbage collector.
func (HeapAllocator[T]) Release(block []T) {
	clear(block)
}

// growCapacity returns the capacity of the block that replaces a block of
// capacity c when at least n elements must fit: 1 if c is 0, otherwise c
// doubled until it reaches n. The second value is false if the result does
// not fit in an int.
func growCapacity(c, n int) (int, bool) {
	x := 1
	if c > 0 {
		x = c
		if x > math.MaxInt/2 {
			return 0, false
		}
		x *= 2
	}
	for x < n {
		if x > math.MaxInt/2 {
			return 0, false
		}
		x *= 2
	}
	return x, true
}
