package classifier

import (
	"go/ast"
	"slices"
	"strings"

	"github.com/seitarof/optionalize/internal/schema"
)

// DefaultWrapperPath is the import path of the optional wrapper emitted by
// default.
const DefaultWrapperPath = "github.com/seitarof/optionalize/pkg/optional"

// DefaultIgnoreMarker is the marker value that excludes a field from
// wrapping, as in `optionalize:"ignore"`.
const DefaultIgnoreMarker = "ignore"

// Wrapper names the optional wrapper recognised on input and emitted on
// output.
type Wrapper struct {
	// Name is matched against the outermost identifier of field types.
	Name string
	Path string
	// Some constructs a present value.
	Some string
	// Get returns (value, ok).
	Get string
}

// Policy is the complete, inspectable configuration of the classifier.
// Nothing outside it influences a verdict.
type Policy struct {
	IgnoreMarker string
	Wrapper      Wrapper
	// Scalars lists outermost identifiers assumed to have no optional
	// counterpart.
	Scalars []string
}

// DefaultScalars returns the builtin denylist of counterpart candidates.
func DefaultScalars() []string {
	return []string{
		"bool", "string",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"byte", "rune",
		"float32", "float64",
		"complex64", "complex128",
		"any", "error",
		"Time", "Duration",
	}
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		IgnoreMarker: DefaultIgnoreMarker,
		Wrapper: Wrapper{
			Name: "Option",
			Path: DefaultWrapperPath,
			Some: "Some",
			Get:  "Get",
		},
		Scalars: DefaultScalars(),
	}
}

// WithScalars returns a copy of p whose denylist also contains extra.
func (p Policy) WithScalars(extra ...string) Policy {
	scalars := slices.Clone(p.Scalars)
	for _, s := range extra {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(scalars, s) {
			continue
		}
		scalars = append(scalars, s)
	}
	p.Scalars = scalars
	return p
}

// ClassifiedField is a field annotated with the classifier verdict.
type ClassifiedField struct {
	Field           schema.Field
	Ignored         bool
	AlreadyOptional bool
	// HasCounterpart is only computed for fields that are neither ignored
	// nor already optional.
	HasCounterpart bool
}

// Classifier classifies struct fields.
type Classifier interface {
	Policy() Policy
	Classify(st *schema.Struct, f schema.Field) ClassifiedField
	ClassifyAll(st *schema.Struct) []ClassifiedField
}

type classifierImpl struct {
	policy  Policy
	scalars map[string]bool
}

// New returns a classifier for policy p.
func New(p Policy) Classifier {
	return &classifierImpl{policy: p, scalars: toScalarSet(p.Scalars)}
}

func (c *classifierImpl) Policy() Policy {
	return c.policy
}

func (c *classifierImpl) Classify(st *schema.Struct, f schema.Field) ClassifiedField {
	out := ClassifiedField{
		Field:           f,
		Ignored:         c.isIgnored(f),
		AlreadyOptional: c.isOptional(f.Type),
	}
	if !out.Ignored && !out.AlreadyOptional {
		out.HasCounterpart = c.hasCounterpart(st, f.Type)
	}
	return out
}

func (c *classifierImpl) ClassifyAll(st *schema.Struct) []ClassifiedField {
	out := make([]ClassifiedField, 0, len(st.Fields))
	for _, f := range st.Fields {
		out = append(out, c.Classify(st, f))
	}
	return out
}

func (c *classifierImpl) isIgnored(f schema.Field) bool {
	return f.Ignore || slices.Contains(f.Markers, c.policy.IgnoreMarker)
}

func (c *classifierImpl) isOptional(expr ast.Expr) bool {
	name, ok := OutermostIdent(expr)
	return ok && name == c.policy.Wrapper.Name
}

func (c *classifierImpl) hasCounterpart(st *schema.Struct, expr ast.Expr) bool {
	if !IsNamedPath(expr) {
		return false
	}
	name, _ := OutermostIdent(expr)
	if c.scalars[name] {
		return false
	}
	if id, ok := unparen(expr).(*ast.Ident); ok && st != nil && st.IsTypeParam(id.Name) {
		return false
	}
	return true
}

// OutermostIdent returns the identifier naming the outermost type of expr:
// Option for Option[T], pkg.Option and pkg.Option[T]. Pointers, slices, maps
// and other composite shapes have none.
func OutermostIdent(expr ast.Expr) (string, bool) {
	switch v := unparen(expr).(type) {
	case *ast.Ident:
		return v.Name, true
	case *ast.SelectorExpr:
		if _, ok := v.X.(*ast.Ident); !ok {
			return "", false
		}
		return v.Sel.Name, true
	case *ast.IndexExpr:
		return OutermostIdent(v.X)
	case *ast.IndexListExpr:
		return OutermostIdent(v.X)
	default:
		return "", false
	}
}

// IsNamedPath reports whether expr is a plain or qualified type name,
// optionally instantiated with type arguments.
func IsNamedPath(expr ast.Expr) bool {
	_, ok := OutermostIdent(expr)
	return ok
}

func unparen(expr ast.Expr) ast.Expr {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}

func toScalarSet(scalars []string) map[string]bool {
	set := make(map[string]bool, len(scalars))
	for _, s := range scalars {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		set[s] = true
	}
	return set
}
