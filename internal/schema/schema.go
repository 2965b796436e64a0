// Package schema holds the field IR shared by the Go source parser and the
// declarative YAML schema loader.
package schema

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"
)

// Kind is the shape of a derivation target.
type Kind string

const (
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindUnion     Kind = "union"
	KindTuple     Kind = "tuple"
	KindInterface Kind = "interface"
	KindDefined   Kind = "defined"
	KindAlias     Kind = "alias"
)

// File is one generation input: the structs of a single package.
type File struct {
	Package string
	PkgPath string
	Structs []*Struct
}

// Struct describes one derivation target.
type Struct struct {
	Name       string
	Kind       Kind
	Underlying string
	TypeParams []TypeParam
	Fields     []Field
	// Imports maps the local package names used by field types to their
	// imports, as declared in the file holding the struct.
	Imports map[string]Import
	Pos     string
}

// Import is one package import visible to a struct declaration.
type Import struct {
	Path string
	// Alias is set when the local name differs from the package name.
	Alias bool
}

// TypeParam is one type parameter of a generic struct.
type TypeParam struct {
	Name       string
	Constraint ast.Expr
}

// Field is one declared field. It is never mutated after loading.
type Field struct {
	Name     string
	Type     ast.Expr
	Tag      string
	Markers  []string
	// Ignore excludes the field whatever ignore marker is configured. The
	// YAML `ignore: true` shorthand sets it.
	Ignore   bool
	Embedded bool
}

// Validate reports an *UnsupportedShapeError unless s is a struct whose
// fields are all named.
func (s *Struct) Validate() error {
	if s.Kind != KindStruct {
		return &UnsupportedShapeError{Name: s.Name, Shape: describeKind(s), Pos: s.Pos}
	}
	for i, f := range s.Fields {
		if f.Name == "" || !token.IsIdentifier(f.Name) {
			return &UnsupportedShapeError{
				Name:  s.Name,
				Shape: "a tuple struct (field " + strconv.Itoa(i) + " has no name)",
				Pos:   s.Pos,
			}
		}
	}
	return nil
}

// IsGeneric reports whether s declares type parameters.
func (s *Struct) IsGeneric() bool {
	return len(s.TypeParams) > 0
}

// IsTypeParam reports whether name is one of the type parameters of s.
func (s *Struct) IsTypeParam(name string) bool {
	for _, tp := range s.TypeParams {
		if tp.Name == name {
			return true
		}
	}
	return false
}

// TypeString renders a field type expression for logs and tests.
func TypeString(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	return types.ExprString(expr)
}

// DefaultImportName guesses the package name of an import path the way
// tools do when no name is given: the last element, without a major version
// element, a ".vN" suffix, or a "go-" prefix.
func DefaultImportName(importPath string) string {
	elems := strings.Split(strings.Trim(importPath, "/"), "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 && isMajorVersion(name[i+1:]) {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return -1
		}
		return r
	}, name)
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

func describeKind(s *Struct) string {
	switch s.Kind {
	case KindEnum:
		return "an enum"
	case KindUnion:
		return "a union"
	case KindTuple:
		return "a tuple struct"
	case KindInterface:
		return "an interface"
	case KindAlias:
		return "an alias of " + s.Underlying
	case KindDefined:
		if s.Underlying != "" {
			return "a defined type over " + s.Underlying
		}
		return "a defined non-struct type"
	case "":
		return "an unknown shape"
	default:
		return "a " + strings.ToLower(string(s.Kind))
	}
}
