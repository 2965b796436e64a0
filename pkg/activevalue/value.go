// Package activevalue is a reference implementation of the three-state
// update value consumed by generated ToActive methods.
//
// A persistence layer reads each field of an active model and applies it
// according to its state: Set writes the value, Unchanged keeps the stored
// value (the carried value is the current one), NotSet leaves the column out
// of the update entirely.
package activevalue

import "fmt"

// State is the update directive carried by a Value.
type State uint8

const (
	StateNotSet State = iota
	StateSet
	StateUnchanged
)

func (s State) String() string {
	switch s {
	case StateSet:
		return "Set"
	case StateUnchanged:
		return "Unchanged"
	default:
		return "NotSet"
	}
}

// Value is one field of an active model. The zero value is NotSet.
type Value[T any] struct {
	value T
	state State
}

// Set returns a Value that writes v.
func Set[T any](v T) Value[T] {
	return Value[T]{value: v, state: StateSet}
}

// Unchanged returns a Value that carries v without writing it.
func Unchanged[T any](v T) Value[T] {
	return Value[T]{value: v, state: StateUnchanged}
}

// NotSet returns a Value that leaves the field out of the update.
func NotSet[T any]() Value[T] {
	return Value[T]{}
}

func (v Value[T]) State() State { return v.state }

// Get returns the carried value; ok is false for NotSet.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.state != StateNotSet
}

func (v Value[T]) IsSet() bool       { return v.state == StateSet }
func (v Value[T]) IsUnchanged() bool { return v.state == StateUnchanged }
func (v Value[T]) IsNotSet() bool    { return v.state == StateNotSet }

func (v Value[T]) String() string {
	if v.state == StateNotSet {
		return "NotSet"
	}
	return fmt.Sprintf("%s(%v)", v.state, v.value)
}
