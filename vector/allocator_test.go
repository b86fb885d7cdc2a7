package vector

import (
	"errors"
	"math"
	"sync"
	"testing"
)

var errTestAllocation = errors.New("test allocation failure")

// testAllocator records the blocks it hands out and fails on demand.
type testAllocator struct {
	allocs   []int
	releases []int
	live     int
	fail     bool
}

func (a *testAllocator) Allocate(n int) ([]int, error) {
	if a.fail {
		return nil, errTestAllocation
	}
	a.allocs = append(a.allocs, n)
	a.live++
	return make([]int, n), nil
}

func (a *testAllocator) Release(block []int) {
	a.releases = append(a.releases, len(block))
	a.live--
	clear(block)
}

// shortAllocator returns blocks one element shorter than requested.
type shortAllocator struct{}

func (shortAllocator) Allocate(n int) ([]int, error) { return make([]int, n-1), nil }
func (shortAllocator) Release([]int)                 {}

func assertInts(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCustomAllocator(t *testing.T) {
	a := &testAllocator{}
	v := NewWithAllocator[int, [4]int](a)
	if err := v.Append(1, 2, 3, 4); err != nil {
		t.Fatalf("got error %s, want error nil", err)
	}
	assertVector(t, v, 4, 4, sequence(1, 4))
	if len(a.allocs) != 0 {
		t.Fatalf("got %v, want no allocation while inline", a.allocs)
	}
	if err := v.PushBack(5); err != nil {
		t.Fatalf("got error %s, want error nil", err)
	}
	assertVector(t, v, 5, 8, sequence(1, 5))
	if err := v.Append(6, 7, 8, 9); err != nil {
		t.Fatalf("got error %s, want error nil", err)
	}
	assertInts(t, a.allocs, []int{8, 16})
	assertInts(t, a.releases, []int{8})
	for v.Len() > 4 {
		if _, err := v.PopBack(); err != nil {
			t.Fatalf("got error %s, want error nil", err)
		}
	}
	assertInts(t, a.releases, []int{8, 16})
	if a.live != 0 {
		t.Fatalf("got %d live blocks, want 0", a.live)
	}
	assertVector(t, v, 4, 4, sequence(1, 4))
}

func TestAllocationFailureLeavesVectorUnchanged(t *testing.T) {
	tests := []struct {
		id       string
		values   []int
		capacity int
		op       func(v *Vector[int, [4]int]) error
	}{
		{"PushBackAtTransition", sequence(1, 4), 4, func(v *Vector[int, [4]int]) error { return v.PushBack(5) }},
		{"PushBackSpilled", sequence(1, 8), 8, func(v *Vector[int, [4]int]) error { return v.PushBack(9) }},
		{"InsertAtTransition", sequence(1, 4), 4, func(v *Vector[int, [4]int]) error { return v.Insert(0, 0) }},
		{"InsertSpilled", sequence(1, 8), 8, func(v *Vector[int, [4]int]) error { return v.Insert(3, 0) }},
		{"Append", sequence(1, 4), 4, func(v *Vector[int, [4]int]) error { return v.Append(5, 6) }},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a := &testAllocator{}
			v := NewWithAllocator[int, [4]int](a)
			if err := v.Append(tt.values...); err != nil {
				t.Fatalf("got error %s, want error nil", err)
			}
			a.fail = true
			err := tt.op(v)
			if !errors.Is(err, ErrAllocation) {
				t.Fatalf("got error %v, want %v", err, ErrAllocation)
			}
			if !errors.Is(err, errTestAllocation) {
				t.Fatalf("got error %v, want it to wrap %v", err, errTestAllocation)
			}
			if errors.Is(err, ErrOutOfRange) {
				t.Fatalf("allocation error should not match %v", ErrOutOfRange)
			}
			assertVector(t, v, len(tt.values), tt.capacity, tt.values)
			a.fail = false
			if err := tt.op(v); err != nil {
				t.Fatalf("got error %s, want error nil", err)
			}
		})
	}
}

func TestAllocationFailureOnCopy(t *testing.T) {
	a := &testAllocator{}
	src := NewWithAllocator[int, [4]int](a)
	if err := src.Append(sequence(1, 6)...); err != nil {
		t.Fatalf("got error %s, want error nil", err)
	}
	dst := NewWithAllocator[int, [4]int](a)
	if err := dst.Append(7, 8); err != nil {
		t.Fatalf("got error %s, want error nil", err)
	}
	a.fail = true
	if _, err := src.Clone(); !errors.Is(err, ErrAllocation) {
		t.Fatalf("got error %v, want %v", err, ErrAllocation)
	}
	if err := dst.Assign(src); !errors.Is(err, ErrAllocation) {
		t.Fatalf("got error %v, want %v", err, ErrAllocation)
	}
	assertVector(t, dst, 2, 4, []int{7, 8})
	assertVector(t, src, 6, 8, sequence(1, 6))
}

func TestShortBlockIsAllocationFailure(t *testing.T) {
	v := NewWithAllocator[int, [2]int](shortAllocator{})
	if err := v.Append(1, 2); err != nil {
		t.Fatalf("got error %s, want error nil", err)
	}
	if err := v.PushBack(3); !errors.Is(err, ErrAllocation) {
		t.Fatalf("got error %v, want %v", err, ErrAllocation)
	}
	assertVector(t, v, 2, 2, []int{1, 2})
}

func TestHeapAllocator(t *testing.T) {
	var a HeapAllocator[int]
	block, err := a.Allocate(8)
	if err != nil {
		t.Fatalf("got error %s, want error nil", err)
	}
	if len(block) != 8 {
		t.Fatalf("got %d, want 8", len(block))
	}
	block[3] = 42
	a.Release(block)
	if block[3] != 0 {
		t.Fatalf("got %d, want 0", block[3])
	}
	for _, n := range []int{-1, math.MaxInt} {
		if _, err := a.Allocate(n); err == nil {
			t.Fatalf("n=%d: got error nil, want non nil error", n)
		}
	}
}

func TestPoolAllocatorReuse(t *testing.T) {
	p := NewPoolAllocator[int](2)
	v := NewWithAllocator[int, [4]int](p)
	for round := 0; round < 3; round++ {
		if err := v.Append(sequence(1, 9)...); err != nil {
			t.Fatalf("got error %s, want error nil", err)
		}
		assertVector(t, v, 9, 16, sequence(1, 9))
		v.Clear()
	}
	got := p.Stats()
	want := PoolStats{Allocs: 2, Reuses: 4, Releases: 6}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if n := p.Idle(); n != 2 {
		t.Fatalf("got %d, want 2", n)
	}
}

func TestPoolAllocatorReturnsZeroedBlocks(t *testing.T) {
	p := NewPoolAllocator[int](0)
	block, err := p.Allocate(4)
	if err != nil {
		t.Fatalf("got error %s, want error nil", err)
	}
	for i := range block {
		block[i] = i + 1
	}
	p.Release(block)
	again, err := p.Allocate(4)
	if err != nil {
		t.Fatalf("got error %s, want error nil", err)
	}
	assertInts(t, again, []int{0, 0, 0, 0})
	if _, err := p.Allocate(-1); err == nil {
		t.Fatal("got error nil, want non nil error")
	}
}

func TestPoolAllocatorDepth(t *testing.T) {
	p := NewPoolAllocator[int](1)
	var blocks [][]int
	for i := 0; i < 3; i++ {
		block, err := p.Allocate(8)
		if err != nil {
			t.Fatalf("got error %s, want error nil", err)
		}
		blocks = append(blocks, block)
	}
	for _, block := range blocks {
		p.Release(block)
	}
	got := p.Stats()
	want := PoolStats{Allocs: 3, Releases: 3, Drops: 2}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPoolAllocatorConcurrentVectors(t *testing.T) {
	p := NewPoolAllocator[int](DefaultPoolDepth)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := NewWithAllocator[int, [4]int](p)
			for round := 0; round < 50; round++ {
				if err := v.Append(sequence(1, 40)...); err != nil {
					errs <- err
					return
				}
				for !v.Empty() {
					if err := v.Erase(0); err != nil {
						errs <- err
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("got error %s, want error nil", err)
	}
	if s := p.Stats(); s.Allocs+s.Reuses != s.Releases {
		t.Fatalf("got %+v, want every block released", s)
	}
}
