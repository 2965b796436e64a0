// Package optional provides Option, the present-or-absent wrapper used by
// generated optional structs.
package optional

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Option holds either a value (Some) or nothing (None). The zero value is
// None, so a field missing from decoded input stays absent.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns a present Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromPtr returns None for a nil pointer and Some(*p) otherwise.
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the held value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool { return o.ok }

// IsNone reports whether the Option is absent.
func (o Option[T]) IsNone() bool { return !o.ok }

// IsZero reports absence; it lets encoders honour omitempty/omitzero.
func (o Option[T]) IsZero() bool { return !o.ok }

// OrElse returns the held value, or fallback when absent.
func (o Option[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// Ptr returns a pointer to a copy of the held value, or nil when absent.
func (o Option[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.value
	return &v
}

func (o Option[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

func (o Option[T]) GoString() string {
	if !o.ok {
		return fmt.Sprintf("optional.None[%T]()", o.value)
	}
	return fmt.Sprintf("optional.Some(%#v)", o.value)
}

var jsonNull = []byte("null")

func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return jsonNull, nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as None and any other value as Some.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o Option[T]) MarshalYAML() (any, error) {
	if !o.ok {
		return nil, nil
	}
	return o.value, nil
}

// UnmarshalYAML decodes a null node as None and any other node as Some.
func (o *Option[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*o = None[T]()
		return nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
