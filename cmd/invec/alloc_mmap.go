//go:build linux || darwin

package main

import "github.com/geofduf/inline-vector/vector"

func newMmapAllocator() (vector.Allocator[int], error) {
	return vector.NewMmapAllocator[int](0), nil
}
