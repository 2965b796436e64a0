package parser

import "go/ast"

// embeddedFieldName returns the implicit field name of an embedded field:
// the unqualified type name, without pointer or type arguments.
func embeddedFieldName(expr ast.Expr) string {
	switch v := expr.(type) {
	case *ast.Ident:
		return v.Name
	case *ast.SelectorExpr:
		return v.Sel.Name
	case *ast.StarExpr:
		return embeddedFieldName(v.X)
	case *ast.IndexExpr:
		return embeddedFieldName(v.X)
	case *ast.IndexListExpr:
		return embeddedFieldName(v.X)
	case *ast.ParenExpr:
		return embeddedFieldName(v.X)
	default:
		return ""
	}
}
