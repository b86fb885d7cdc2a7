package vector

import "errors"

var (
	// ErrOutOfRange is returned when an index or position lies outside the
	// vector, including any element access on an empty vector.
	ErrOutOfRange = errors.New("out of range")

	// ErrAllocation is returned when an Allocator cannot provide a block.
	// The vector is left unchanged.
	ErrAllocation = errors.New("allocation failed")
)
