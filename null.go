package jsonld

import (
	"github.com/condensedlight/jsonld/internal/json"
)

// Scalar is the interface of Go types that match JSON scalars.
type Scalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~bool |
		~string
}

// Null is a tri-state scalar. It distinguishes an explicit JSON null from a
// set value and from the key being absent entirely. Context processing needs
// all three: @language: null clears an inherited default, whereas an absent
// @language inherits it.
type Null[T Scalar] struct {
	Null  bool
	Set   bool
	Value T
}

// Equal checks if two values are the same.
func (n *Null[T]) Equal(on *Null[T]) bool {
	if n == nil && on == nil {
		return true
	}
	if n == nil || on == nil {
		return false
	}

	return n.Null == on.Null && n.Set == on.Set && n.Value == on.Value
}

func (n *Null[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if json.IsNull(data) {
		n.Null = true
		return nil
	}

	var s T
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = s
	return nil
}
