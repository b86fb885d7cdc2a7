/*
Package vector implements a sequence container that keeps its first N elements
inline and moves to a separately allocated block once it grows past N. It
defines the type Vector, with methods for adding, removing and accessing
elements, and the type Store, with methods for interacting with a collection of
vectors.

The inline capacity N is fixed at compile time by the array type parameter:

	var v vector.Vector[int, [4]int] // N = 4

N must be one of the array lengths listed by the Inline constraint: 1 to 8,
12, 16, 24, 32, 48, 64, 128 or 256. Other lengths, such as [10]int, do not
satisfy the constraint and are rejected by the compiler.

While Len() <= N the elements live in the array embedded in the Vector and no
allocation takes place. Growing past N copies the elements into a block obtained
from the vector's Allocator, and shrinking back to N copies them back and
releases the block. Block capacities follow a doubling policy starting at 1,
so with N = 4 the capacity reported by Cap is 4 up to four elements, then 8, 16,
32 and so on.

References returned by Ref, Slice and All borrow the vector's storage. They are
valid only until the next call to PushBack, PopBack, Insert, Erase, Clear,
Append or Assign on the same vector, any of which may move the elements. Using
a reference after that point is a programming error that the package does not
detect.

A Vector is not safe for concurrent mutation. A Store is essentially a wrapper
around a map of vectors that provides convenience methods safe to use from
multiple goroutines.
*/
package vector
