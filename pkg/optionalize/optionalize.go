// Package optionalize links a data-record struct to its generated optional
// counterpart.
//
// The optionalize command emits, for every annotated struct T, a struct
// TOptional whose fields are wrapped in optional.Option, and a method
//
//	func (T) OptionalType() TOptional
//
// so that T satisfies Optionalizer[TOptional]. The method is the only link
// between the two types; deriving twice for the same struct in one package is
// a redeclaration reported by the Go compiler.
package optionalize

// Suffix is appended to a struct name to form its optional counterpart.
const Suffix = "Optional"

// Directive marks a type declaration for generation when placed in its doc
// comment.
const Directive = "optionalize:generate"

// TagKey is the struct tag key carrying per-field markers.
const TagKey = "optionalize"

// Optionalizer is implemented by structs with a generated optional
// counterpart O.
type Optionalizer[O any] interface {
	OptionalType() O
}

// OptionalOf returns the zero optional counterpart of v.
func OptionalOf[O any](v Optionalizer[O]) O {
	return v.OptionalType()
}
