package vector

import (
	"fmt"
	"iter"
	"unsafe"

	"golang.org/x/exp/slices"
)

// Inline is the set of array types usable as the inline storage of a Vector.
// The length of the array is the inline capacity of the vector.
type Inline[T any] interface {
	~[1]T | ~[2]T | ~[3]T | ~[4]T | ~[5]T | ~[6]T | ~[7]T | ~[8]T |
		~[12]T | ~[16]T | ~[24]T | ~[32]T | ~[48]T | ~[64]T | ~[128]T | ~[256]T
}

// A Vector is a sequence of elements of type T that stores up to len(A)
// elements in an array embedded in the Vector and the rest in a block obtained
// from its Allocator.
//
// The vector is inline while Len() <= len(A) and spilled otherwise. A spilled
// vector owns exactly one block, whose length is the capacity reported by Cap.
// The block grows by doubling and is never shrunk: it is released when the
// vector becomes inline again or is cleared.
//
// The zero value is an empty inline vector using a HeapAllocator.
type Vector[T any, A Inline[T]] struct {
	length int
	inline A
	heap   []T
	alloc  Allocator[T]
}

// New creates an empty vector using a HeapAllocator.
func New[T any, A Inline[T]]() *Vector[T, A] {
	return &Vector[T, A]{}
}

// NewWithAllocator creates an empty vector using a as the source of its
// blocks. A nil a selects a HeapAllocator.
func NewWithAllocator[T any, A Inline[T]](a Allocator[T]) *Vector[T, A] {
	return &Vector[T, A]{alloc: a}
}

// NewFromValues creates a vector holding values. The result, capacity
// included, is the one obtained by calling PushBack for each value in order.
func NewFromValues[T any, A Inline[T]](values ...T) (*Vector[T, A], error) {
	v := New[T, A]()
	if err := v.Append(values...); err != nil {
		return nil, err
	}
	return v, nil
}

// Len returns the number of elements in the vector.
func (v *Vector[T, A]) Len() int {
	return v.length
}

// Cap returns the number of elements the vector can hold before it has to
// allocate: the inline capacity while inline, the block length once spilled.
func (v *Vector[T, A]) Cap() int {
	if v.length <= len(v.inline) {
		return len(v.inline)
	}
	return len(v.heap)
}

// Empty reports whether the vector has no elements.
func (v *Vector[T, A]) Empty() bool {
	return v.length == 0
}

// Spilled reports whether the elements live in an allocated block.
func (v *Vector[T, A]) Spilled() bool {
	return v.length > len(v.inline)
}

// At returns the element at index i.
func (v *Vector[T, A]) At(i int) (T, error) {
	p, err := v.Ref(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Ref returns a pointer to the element at index i. The pointer is valid until
// the next operation that changes the length of the vector.
func (v *Vector[T, A]) Ref(i int) (*T, error) {
	if i < 0 || i >= v.length {
		return nil, fmt.Errorf("index %d with length %d: %w", i, v.length, ErrOutOfRange)
	}
	return &v.active()[i], nil
}

// Set replaces the element at index i with x.
func (v *Vector[T, A]) Set(i int, x T) error {
	p, err := v.Ref(i)
	if err != nil {
		return err
	}
	*p = x
	return nil
}

// Front returns the first element.
func (v *Vector[T, A]) Front() (T, error) {
	if v.length == 0 {
		var zero T
		return zero, fmt.Errorf("front of empty vector: %w", ErrOutOfRange)
	}
	return v.active()[0], nil
}

// Back returns the last element.
func (v *Vector[T, A]) Back() (T, error) {
	if v.length == 0 {
		var zero T
		return zero, fmt.Errorf("back of empty vector: %w", ErrOutOfRange)
	}
	return v.active()[v.length-1], nil
}

// Slice returns the elements as a slice sharing the vector's storage. The
// slice is valid until the next operation that changes the length of the
// vector; writes through it are visible in the vector.
func (v *Vector[T, A]) Slice() []T {
	return v.active()[:v.length:v.length]
}

// All returns an iterator over the indices and elements of the vector, in
// order. Each iteration reads the storage active when it starts.
func (v *Vector[T, A]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range v.active() {
			if !yield(i, x) {
				return
			}
		}
	}
}

// Backward returns an iterator over the indices and elements of the vector,
// from the last element to the first.
func (v *Vector[T, A]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		s := v.active()
		for i := len(s) - 1; i >= 0; i-- {
			if !yield(i, s[i]) {
				return
			}
		}
	}
}

// PushBack appends x to the vector. Appending the element that no longer fits
// inline moves all elements into a newly allocated block.
func (v *Vector[T, A]) PushBack(x T) error {
	if v.length < len(v.inline) {
		v.inlineBlock()[v.length] = x
		v.length++
		return nil
	}
	if err := v.reserve(v.length + 1); err != nil {
		return err
	}
	v.heap[v.length] = x
	v.length++
	return nil
}

// Append calls PushBack for each value in order. It stops at the first
// error; values appended before it stay in the vector.
func (v *Vector[T, A]) Append(values ...T) error {
	for _, x := range values {
		if err := v.PushBack(x); err != nil {
			return err
		}
	}
	return nil
}

// PopBack removes and returns the last element. Removing the element that
// lets the rest fit inline moves them back and releases the block.
func (v *Vector[T, A]) PopBack() (T, error) {
	var zero T
	if v.length == 0 {
		return zero, fmt.Errorf("pop from empty vector: %w", ErrOutOfRange)
	}
	s := v.active()
	x := s[v.length-1]
	s[v.length-1] = zero
	v.length--
	v.shrink()
	return x, nil
}

// Insert inserts x before the element at index i, shifting the following
// elements up. Inserting at Len() is the same as PushBack.
func (v *Vector[T, A]) Insert(i int, x T) error {
	if i < 0 || i > v.length {
		return fmt.Errorf("insert at %d with length %d: %w", i, v.length, ErrOutOfRange)
	}
	if i == v.length {
		return v.PushBack(x)
	}
	var block []T
	if v.length < len(v.inline) {
		block = v.inlineBlock()
	} else {
		if err := v.reserve(v.length + 1); err != nil {
			return err
		}
		block = v.heap
	}
	copy(block[i+1:v.length+1], block[i:v.length])
	block[i] = x
	v.length++
	return nil
}

// Erase removes the element at index i, shifting the following elements down.
func (v *Vector[T, A]) Erase(i int) error {
	if i < 0 || i >= v.length {
		return fmt.Errorf("erase at %d with length %d: %w", i, v.length, ErrOutOfRange)
	}
	if i == v.length-1 {
		_, err := v.PopBack()
		return err
	}
	s := v.active()
	copy(s[i:], s[i+1:])
	var zero T
	s[v.length-1] = zero
	v.length--
	v.shrink()
	return nil
}

// Clear removes all elements and releases the block, if any. The capacity
// of an empty vector is its inline capacity.
func (v *Vector[T, A]) Clear() {
	if v.heap != nil {
		v.allocator().Release(v.heap)
		v.heap = nil
	}
	v.inline = *new(A)
	v.length = 0
}

// Clone returns an independent copy of the vector with the same elements and
// the same capacity. The copy uses the same allocator.
func (v *Vector[T, A]) Clone() (*Vector[T, A], error) {
	c := NewWithAllocator[T, A](v.alloc)
	if err := c.Assign(v); err != nil {
		return nil, err
	}
	return c, nil
}

// Assign replaces the contents of the vector with a copy of the elements of
// src, allocating a block of src's capacity if src is spilled. The vector is
// unchanged if the allocation fails.
func (v *Vector[T, A]) Assign(src *Vector[T, A]) error {
	if v == src {
		return nil
	}
	var block []T
	if src.Spilled() {
		var err error
		if block, err = v.allocate(len(src.heap)); err != nil {
			return err
		}
		copy(block, src.heap[:src.length])
	}
	v.Clear()
	if block != nil {
		v.heap = block
	} else {
		copy(v.inlineBlock(), src.active())
	}
	v.length = src.length
	return nil
}

// Format implements fmt.Formatter by formatting the elements as a slice.
func (v *Vector[T, A]) Format(state fmt.State, verb rune) {
	fmt.Fprintf(state, fmt.FormatString(state, verb), v.active())
}

// Equal reports whether x and y have the same length, the same capacity and
// equal elements in the same order. Two vectors holding the same elements
// after different growth histories may differ in capacity and are then not
// equal.
func Equal[T comparable, A Inline[T]](x, y *Vector[T, A]) bool {
	return x.length == y.length && x.Cap() == y.Cap() && slices.Equal(x.active(), y.active())
}

// EqualFunc is like Equal but compares elements using eq.
func EqualFunc[T any, A Inline[T]](x, y *Vector[T, A], eq func(T, T) bool) bool {
	return x.length == y.length && x.Cap() == y.Cap() && slices.EqualFunc(x.active(), y.active(), eq)
}

// active returns the elements, wherever they currently live.
func (v *Vector[T, A]) active() []T {
	if v.length <= len(v.inline) {
		return v.inlineBlock()[:v.length]
	}
	return v.heap[:v.length]
}

// inlineBlock returns the inline array as a slice.
func (v *Vector[T, A]) inlineBlock() []T {
	return unsafe.Slice((*T)(unsafe.Pointer(&v.inline)), len(v.inline))
}

func (v *Vector[T, A]) allocator() Allocator[T] {
	if v.alloc == nil {
		return HeapAllocator[T]{}
	}
	return v.alloc
}

// allocate returns a block of exactly n elements from the allocator.
func (v *Vector[T, A]) allocate(n int) ([]T, error) {
	block, err := v.allocator().Allocate(n)
	if err != nil {
		return nil, fmt.Errorf("block of %d elements: %w: %w", n, ErrAllocation, err)
	}
	if len(block) != n {
		return nil, fmt.Errorf("block of %d elements: %w: allocator returned %d", n, ErrAllocation, len(block))
	}
	return block, nil
}

// reserve makes sure the vector can hold n elements, n > len(A), moving the
// elements into a larger block if needed. The vector is unchanged if the
// allocation fails.
func (v *Vector[T, A]) reserve(n int) error {
	if n <= len(v.heap) {
		return nil
	}
	c, ok := growCapacity(len(v.heap), n)
	if !ok {
		return fmt.Errorf("capacity for %d elements: %w", n, ErrAllocation)
	}
	block, err := v.allocate(c)
	if err != nil {
		return err
	}
	copy(block, v.active())
	if v.heap != nil {
		v.allocator().Release(v.heap)
	} else {
		v.inline = *new(A)
	}
	v.heap = block
	return nil
}

// shrink moves the elements back inline once they fit and releases the block.
func (v *Vector[T, A]) shrink() {
	if v.heap == nil || v.length != len(v.inline) {
		return
	}
	copy(v.inlineBlock(), v.heap[:v.length])
	v.allocator().Release(v.heap)
	v.heap = nil
}
