package vector

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// A vector is encoded as the sequence of its elements. Decoding replaces the
// contents of the vector by appending the decoded elements in order, so the
// capacity after decoding is the one NewFromValues would give. If the input
// cannot be decoded, or the storage for the decoded elements cannot be
// allocated, the vector is left unchanged.

// MarshalYAML implements yaml.Marshaler.
func (v *Vector[T, A]) MarshalYAML() (interface{}, error) {
	return v.Slice(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Vector[T, A]) UnmarshalYAML(value *yaml.Node) error {
	var values []T
	if err := value.Decode(&values); err != nil {
		return fmt.Errorf("yaml decode: %w", err)
	}
	return v.replace(values)
}

// MarshalJSON implements json.Marshaler.
func (v *Vector[T, A]) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Slice())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vector[T, A]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return v.replace(values)
}

// replace builds the new contents in a separate vector before releasing the
// current ones.
func (v *Vector[T, A]) replace(values []T) error {
	x := NewWithAllocator[T, A](v.alloc)
	if err := x.Append(values...); err != nil {
		x.Clear()
		return err
	}
	v.Clear()
	*v = *x
	return nil
}
