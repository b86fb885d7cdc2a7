package vector

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// A StatementType identifies the vector operation a Statement performs.
type StatementType uint8

// Statement types.
const (
	statementInvalid StatementType = iota
	StatementPushBack
	StatementPopBack
	StatementInsert
	StatementErase
	StatementSet
	StatementClear
	statementUnknown
)

var statementNames = [...]string{
	StatementPushBack: "push_back",
	StatementPopBack:  "pop_back",
	StatementInsert:   "insert",
	StatementErase:    "erase",
	StatementSet:      "set",
	StatementClear:    "clear",
}

func (t StatementType) valid() bool {
	return t > statementInvalid && t < statementUnknown
}

func (t StatementType) String() string {
	if !t.valid() {
		return fmt.Sprintf("StatementType(%d)", uint8(t))
	}
	return statementNames[t]
}

// MarshalYAML implements yaml.Marshaler.
func (t StatementType) MarshalYAML() (interface{}, error) {
	if !t.valid() {
		return nil, fmt.Errorf("unknown statement type %d", uint8(t))
	}
	return statementNames[t], nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *StatementType) UnmarshalYAML(value *yaml.Node) error {
	for i, name := range statementNames {
		if name != "" && value.Value == name {
			*t = StatementType(i)
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown statement type %q", value.Line, value.Value)
}

// A Statement represents an operation to perform on a store. Index is used by
// insert, erase and set; Value by push_back, insert and set. A Statement with
// no Type is rejected.
type Statement[T any] struct {
	Key               string        `yaml:"key"`
	Type              StatementType `yaml:"op"`
	Index             int           `yaml:"index,omitempty"`
	Value             T             `yaml:"value,omitempty"`
	CreateIfNotExists bool          `yaml:"create,omitempty"`
}

// A Store represents a collection of vectors identified by keys. A Store can
// be used simultaneously from multiple goroutines; the vectors it holds are
// only reachable through copies.
type Store[T any, A Inline[T]] struct {
	m     map[string]*Vector[T, A]
	alloc Allocator[T]
	mu    sync.RWMutex
}

// NewStore creates and intializes a new Store whose vectors use a
// HeapAllocator.
func NewStore[T any, A Inline[T]]() *Store[T, A] {
	return NewStoreWithAllocator[T, A](nil)
}

// NewStoreWithAllocator creates and intializes a new Store whose vectors use a.
// The allocator must be safe for concurrent use if the store is.
func NewStoreWithAllocator[T any, A Inline[T]](a Allocator[T]) *Store[T, A] {
	return &Store[T, A]{
		m:     make(map[string]*Vector[T, A]),
		alloc: a,
	}
}

// New adds an empty vector to the store using key as its identifier. If a
// vector already exists for the identifier it is silently replaced.
func (s *Store[T, A]) New(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, NewWithAllocator[T, A](s.alloc))
}

// Add adds a copy of x to the store using key as its identifier. If a vector
// already exists for the identifier it is silently replaced.
func (s *Store[T, A]) Add(key string, x *Vector[T, A]) error {
	c := NewWithAllocator[T, A](s.alloc)
	if err := c.Assign(x); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, c)
	return nil
}

// Get returns a copy of the vector associated to key. The second return value
// is true if the key exists in the store and false if not.
func (s *Store[T, A]) Get(key string) (*Vector[T, A], bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	x, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	c := NewWithAllocator[T, A](s.alloc)
	if err := c.Assign(x); err != nil {
		return nil, true, err
	}
	return c, true, nil
}

// Delete removes the vector associated to key, if any.
func (s *Store[T, A]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x, ok := s.m[key]; ok {
		x.Clear()
		delete(s.m, key)
	}
}

// Keys returns the identifiers known in the store, sorted.
func (s *Store[T, A]) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Execute executes a statement against the store, returning an error if the
// statement cannot be executed or if the underlying operation returned an error.
func (s *Store[T, A]) Execute(statement Statement[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executeUnsafe(statement)
}

// Batch executes multiple statements against the store. Individual errors are
// non blocking but if one or more statements could not be executed or induced
// an error the method returns a slice holding information about each
// individual error and a global error.
func (s *Store[T, A]) Batch(statements []Statement[T]) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var report []string
	for i, v := range statements {
		if err := s.executeUnsafe(v); err != nil {
			report = append(report, fmt.Sprintf("%s, at index %d", err, i))
		}
	}
	if len(report) > 0 {
		return report, errors.New("some operations could not be completed")
	}
	return report, nil
}

// Dump exports the store as a YAML mapping of keys to element sequences.
func (s *Store[T, A]) Dump() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := yaml.Marshal(s.m)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// Load replaces the content of the store with a dump previously exported
// using the Dump method. The store is unchanged if data cannot be loaded.
func (s *Store[T, A]) Load(data []byte) error {
	var dump map[string][]T
	if err := yaml.Unmarshal(data, &dump); err != nil {
		return fmt.Errorf("yaml unmarshal: %w", err)
	}
	m := make(map[string]*Vector[T, A], len(dump))
	for k, values := range dump {
		x := NewWithAllocator[T, A](s.alloc)
		if err := x.Append(values...); err != nil {
			for _, y := range m {
				y.Clear()
			}
			x.Clear()
			return fmt.Errorf("key %q: %w", k, err)
		}
		m[k] = x
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.m {
		x.Clear()
	}
	s.m = m
	return nil
}

// put stores x under key, releasing the storage of the vector it replaces.
func (s *Store[T, A]) put(key string, x *Vector[T, A]) {
	if old, ok := s.m[key]; ok {
		old.Clear()
	}
	s.m[key] = x
}

// executeUnsafe executes a statement against the store, returning an error if
// the statement cannot be executed or if the underlying operation returned an
// error. This method is not goroutine-safe. The caller is responsible for
// properly acquiring / releasing the lock on the store.
func (s *Store[T, A]) executeUnsafe(statement Statement[T]) error {
	if !statement.Type.valid() {
		return errors.New("unknown statement type")
	}
	x, ok := s.m[statement.Key]
	if !ok {
		if !statement.CreateIfNotExists {
			return fmt.Errorf("key %q does not exist", statement.Key)
		}
		x = NewWithAllocator[T, A](s.alloc)
		s.m[statement.Key] = x
	}
	var err error
	switch statement.Type {
	case StatementPushBack:
		err = x.PushBack(statement.Value)
	case StatementPopBack:
		_, err = x.PopBack()
	case StatementInsert:
		err = x.Insert(statement.Index, statement.Value)
	case StatementErase:
		err = x.Erase(statement.Index)
	case StatementSet:
		err = x.Set(statement.Index, statement.Value)
	case StatementClear:
		x.Clear()
	}
	if err != nil {
		return fmt.Errorf("%s on %q: %w", statement.Type, statement.Key, err)
	}
	return nil
}
