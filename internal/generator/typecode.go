package generator

import (
	"go/ast"
	"go/types"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"
)

// typeCode renders a declared type expression. Package selectors resolve
// through the imports of the file declaring the struct; shapes without a
// structured rendering are emitted verbatim and left to goimports.
func (e *emitter) typeCode(expr ast.Expr) *jen.Statement {
	switch v := expr.(type) {
	case nil:
		return jen.Null()
	case *ast.Ident:
		return jen.Id(v.Name)
	case *ast.SelectorExpr:
		x, ok := v.X.(*ast.Ident)
		if !ok {
			break
		}
		if imp, ok := e.imports[x.Name]; ok {
			return jen.Qual(imp.Path, v.Sel.Name)
		}
		return jen.Id(x.Name).Dot(v.Sel.Name)
	case *ast.StarExpr:
		return jen.Op("*").Add(e.typeCode(v.X))
	case *ast.ParenExpr:
		return jen.Parens(e.typeCode(v.X))
	case *ast.ArrayType:
		if v.Len == nil {
			return jen.Index().Add(e.typeCode(v.Elt))
		}
		return jen.Index(jen.Id(types.ExprString(v.Len))).Add(e.typeCode(v.Elt))
	case *ast.MapType:
		return jen.Map(e.typeCode(v.Key)).Add(e.typeCode(v.Value))
	case *ast.ChanType:
		switch v.Dir {
		case ast.SEND:
			return jen.Chan().Op("<-").Add(e.typeCode(v.Value))
		case ast.RECV:
			return jen.Op("<-").Chan().Add(e.typeCode(v.Value))
		default:
			return jen.Chan().Add(e.typeCode(v.Value))
		}
	case *ast.IndexExpr:
		return e.typeCode(v.X).Types(e.typeCode(v.Index))
	case *ast.IndexListExpr:
		args := make([]jen.Code, 0, len(v.Indices))
		for _, idx := range v.Indices {
			args = append(args, e.typeCode(idx))
		}
		return e.typeCode(v.X).Types(args...)
	}
	return jen.Id(types.ExprString(expr))
}

// someFunc returns the constructor of a present value for an already
// optional declared type, qualified like the declared wrapper.
func (e *emitter) someFunc(declared ast.Expr) *jen.Statement {
	x := declared
	for {
		switch v := x.(type) {
		case *ast.ParenExpr:
			x = v.X
			continue
		case *ast.IndexExpr:
			x = v.X
			continue
		case *ast.IndexListExpr:
			x = v.X
			continue
		case *ast.SelectorExpr:
			if pkg, ok := v.X.(*ast.Ident); ok {
				if imp, ok := e.imports[pkg.Name]; ok {
					return jen.Qual(imp.Path, e.opts.Wrapper.Some)
				}
				return jen.Id(pkg.Name).Dot(e.opts.Wrapper.Some)
			}
		}
		return jen.Id(e.opts.Wrapper.Some)
	}
}

// stripTagKey parses a conventional struct tag and drops key. The other
// pairs keep their source order and quoting.
func stripTagKey(tag, key string) string {
	var kept []string
	for tag != "" {
		tag = strings.TrimLeft(tag, " ")
		if tag == "" {
			break
		}
		i := 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}
		name := tag[:i]

		j := i + 2
		for j < len(tag) && tag[j] != '"' {
			if tag[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(tag) {
			break
		}
		pair := tag[:j+1]
		tag = tag[j+1:]
		if _, err := strconv.Unquote(pair[i+1:]); err != nil {
			break
		}
		if name != key {
			kept = append(kept, pair)
		}
	}
	return strings.Join(kept, " ")
}

// tagCode renders a struct tag literal, as a raw string when possible.
func tagCode(tag string) jen.Code {
	if strconv.CanBackquote(tag) {
		return jen.Op("`" + tag + "`")
	}
	return jen.Lit(tag)
}
