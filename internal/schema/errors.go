package schema

import "errors"

// ErrUnsupportedShape matches every *UnsupportedShapeError with errors.Is.
var ErrUnsupportedShape = errors.New("unsupported shape")

// UnsupportedShapeError is returned when a derivation target is not a struct
// with named fields.
type UnsupportedShapeError struct {
	Name  string
	Shape string
	Pos   string
}

func (e *UnsupportedShapeError) Error() string {
	msg := "optionalize: " + e.Name + " is " + e.Shape + "; only structs with named fields are supported"
	if e.Pos != "" {
		return e.Pos + ": " + msg
	}
	return msg
}

func (e *UnsupportedShapeError) Is(target error) bool {
	return target == ErrUnsupportedShape
}
