package resolver

import (
	"go/ast"

	"github.com/seitarof/optionalize/internal/classifier"
	"github.com/seitarof/optionalize/internal/schema"
	"github.com/seitarof/optionalize/pkg/optionalize"
)

// ConversionRule is the update directive emitted for one field of ToActive.
type ConversionRule int

const (
	// RuleUnchanged passes the raw field value through as Unchanged.
	RuleUnchanged ConversionRule = iota
	// RuleSetOrNotSet maps Some(v) to Set(v) and None to NotSet.
	RuleSetOrNotSet
	// RuleSetSomeOrNotSet maps Some(v) to Set(Some(v)) and None to NotSet.
	RuleSetSomeOrNotSet
)

func (r ConversionRule) String() string {
	switch r {
	case RuleUnchanged:
		return "Unchanged"
	case RuleSetOrNotSet:
		return "SetOrNotSet"
	case RuleSetSomeOrNotSet:
		return "SetSomeOrNotSet"
	default:
		return "ConversionRule(?)"
	}
}

// RuleFor selects the conversion rule of a field. Ignored fields are always
// passed through, whatever their optionality.
func RuleFor(ignored, alreadyOptional bool) ConversionRule {
	switch {
	case ignored:
		return RuleUnchanged
	case alreadyOptional:
		return RuleSetSomeOrNotSet
	default:
		return RuleSetOrNotSet
	}
}

// OutputShape is how a field type is rewritten in the generated struct.
type OutputShape int

const (
	// ShapeDeclared keeps the declared type.
	ShapeDeclared OutputShape = iota
	// ShapeWrapped wraps the declared type: Option[T].
	ShapeWrapped
	// ShapeWrappedCounterpart wraps the counterpart of the declared type:
	// Option[TOptional].
	ShapeWrappedCounterpart
)

func (s OutputShape) String() string {
	switch s {
	case ShapeDeclared:
		return "declared"
	case ShapeWrapped:
		return "wrapped"
	case ShapeWrappedCounterpart:
		return "wrapped-counterpart"
	default:
		return "OutputShape(?)"
	}
}

// FieldPlan describes one field of a generated struct.
type FieldPlan struct {
	Field classifier.ClassifiedField
	Shape OutputShape
	// Elem is the declared type for ShapeDeclared, and the type inside the
	// wrapper otherwise.
	Elem ast.Expr
	Rule ConversionRule
}

// Name returns the field name.
func (p FieldPlan) Name() string { return p.Field.Field.Name }

// Declared returns the declared type of the source field.
func (p FieldPlan) Declared() ast.Expr { return p.Field.Field.Type }

// OutputString renders the output type using wrapperName for the wrapper.
func (p FieldPlan) OutputString(wrapperName string) string {
	elem := schema.TypeString(p.Elem)
	if p.Shape == ShapeDeclared {
		return elem
	}
	return wrapperName + "[" + elem + "]"
}

// StructPlan describes one generated struct and its companions.
type StructPlan struct {
	Src  *schema.Struct
	Name string
	Mode Mode
	// Fields are in source declaration order.
	Fields         []FieldPlan
	EmitConversion bool
}

// OptionalName returns the generated counterpart name of a struct.
func OptionalName(name string) string {
	return name + optionalize.Suffix
}

// CounterpartType returns the counterpart type expression of a named type:
// Address -> AddressOptional, geo.Point -> geo.PointOptional,
// Page[int] -> PageOptional[int]. It returns nil for any other shape. The
// input expression is not modified.
func CounterpartType(expr ast.Expr) ast.Expr {
	switch v := expr.(type) {
	case *ast.ParenExpr:
		return CounterpartType(v.X)
	case *ast.Ident:
		return ast.NewIdent(OptionalName(v.Name))
	case *ast.SelectorExpr:
		x, ok := v.X.(*ast.Ident)
		if !ok {
			return nil
		}
		return &ast.SelectorExpr{X: ast.NewIdent(x.Name), Sel: ast.NewIdent(OptionalName(v.Sel.Name))}
	case *ast.IndexExpr:
		x := CounterpartType(v.X)
		if x == nil {
			return nil
		}
		return &ast.IndexExpr{X: x, Index: v.Index}
	case *ast.IndexListExpr:
		x := CounterpartType(v.X)
		if x == nil {
			return nil
		}
		return &ast.IndexListExpr{X: x, Indices: v.Indices}
	default:
		return nil
	}
}
