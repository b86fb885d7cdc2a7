//go:build !linux && !darwin

package main

import (
	"fmt"
	"runtime"

	"github.com/geofduf/inline-vector/vector"
)

func newMmapAllocator() (vector.Allocator[int], error) {
	return nil, fmt.Errorf("mmap allocator not supported on %s", runtime.GOOS)
}
