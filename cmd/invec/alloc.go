package main

import (
	"fmt"
	"log/slog"

	"github.com/geofduf/inline-vector/vector"
)

// newAllocator returns the block allocator selected by name.
func newAllocator(name string) (vector.Allocator[int], error) {
	switch name {
	case "heap":
		return vector.HeapAllocator[int]{}, nil
	case "pool":
		return vector.NewPoolAllocator[int](0), nil
	case "mmap":
		return newMmapAllocator()
	}
	return nil, fmt.Errorf("unknown allocator %q", name)
}

// logAllocator logs the counters of allocators that keep some.
func logAllocator(logger *slog.Logger, a vector.Allocator[int]) {
	switch a := a.(type) {
	case *vector.PoolAllocator[int]:
		s := a.Stats()
		logger.Debug("pool allocator", "allocs", s.Allocs, "reuses", s.Reuses, "releases", s.Releases, "drops", s.Drops, "idle", a.Idle())
	case mappedAllocator:
		logger.Debug("mmap allocator", "mapped", a.Mapped())
	}
}

type mappedAllocator interface {
	Mapped() int
}
