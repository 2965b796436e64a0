package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/seitarof/optionalize/internal/schema"
	"github.com/seitarof/optionalize/pkg/optionalize"
)

// Parser extracts struct descriptions from Go packages.
type Parser interface {
	// Parse loads pkgPath and describes typeNames. With no names, every type
	// annotated with the generation directive is described.
	Parse(pkgPath string, typeNames []string) (*schema.File, error)
}

type parserImpl struct {
	dir string
}

// New returns default parser resolving patterns from the working directory.
func New() Parser {
	return &parserImpl{}
}

// NewInDir returns a parser resolving patterns relative to dir.
func NewInDir(dir string) Parser {
	return &parserImpl{dir: dir}
}

type typeDecl struct {
	file *ast.File
	gen  *ast.GenDecl
	spec *ast.TypeSpec
}

func (p *parserImpl) Parse(pkgPath string, typeNames []string) (*schema.File, error) {
	pkg, err := p.loadPackage(pkgPath)
	if err != nil {
		return nil, err
	}

	decls, order := collectTypeDecls(pkg.Syntax)
	selected, err := selectTypes(decls, order, typeNames, pkgPath)
	if err != nil {
		return nil, err
	}

	pkgNames := importedPackageNames(pkg)
	out := &schema.File{
		Package: pkg.Name,
		PkgPath: pkg.PkgPath,
		Structs: make([]*schema.Struct, 0, len(selected)),
	}
	for _, d := range selected {
		out.Structs = append(out.Structs, describe(pkg.Fset, d, pkgNames))
	}
	return out, nil
}

func (p *parserImpl) loadPackage(pkgPath string) (*packages.Package, error) {
	cfg := &packages.Config{
		Dir: p.dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes,
	}

	pkgs, err := packages.Load(cfg, pkgPath)
	if err != nil {
		return nil, fmt.Errorf("load package %q: %w", pkgPath, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("package %q not found", pkgPath)
	}
	pkg := pkgs[0]
	// Type errors are tolerated so a stale generated file can be regenerated.
	for _, e := range pkg.Errors {
		if e.Kind != packages.TypeError {
			return nil, fmt.Errorf("package %q: %s", pkgPath, e.Error())
		}
	}
	if len(pkg.Syntax) == 0 {
		return nil, fmt.Errorf("package %q has no Go files", pkgPath)
	}
	return pkg, nil
}

func collectTypeDecls(files []*ast.File) (map[string]typeDecl, []string) {
	decls := map[string]typeDecl{}
	order := []string{}
	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if _, dup := decls[ts.Name.Name]; dup {
					continue
				}
				decls[ts.Name.Name] = typeDecl{file: file, gen: gen, spec: ts}
				order = append(order, ts.Name.Name)
			}
		}
	}
	return decls, order
}

func selectTypes(decls map[string]typeDecl, order []string, typeNames []string, pkgPath string) ([]typeDecl, error) {
	if len(typeNames) == 0 {
		out := []typeDecl{}
		for _, name := range order {
			if hasDirective(decls[name]) {
				out = append(out, decls[name])
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("no types annotated with //%s in package %q", optionalize.Directive, pkgPath)
		}
		return out, nil
	}

	out := make([]typeDecl, 0, len(typeNames))
	for _, name := range typeNames {
		d, ok := decls[name]
		if !ok {
			return nil, fmt.Errorf("struct %q not found in package %q", name, pkgPath)
		}
		out = append(out, d)
	}
	return out, nil
}

func hasDirective(d typeDecl) bool {
	docs := []*ast.CommentGroup{d.spec.Doc}
	// A lone type declaration keeps its doc comment on the GenDecl.
	if !d.gen.Lparen.IsValid() {
		docs = append(docs, d.gen.Doc)
	}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, c := range doc.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if text == optionalize.Directive || strings.HasPrefix(text, optionalize.Directive+" ") {
				return true
			}
		}
	}
	return false
}

func describe(fset *token.FileSet, d typeDecl, pkgNames map[string]string) *schema.Struct {
	st := &schema.Struct{
		Name:    d.spec.Name.Name,
		Imports: fileImports(d.file, pkgNames),
		Pos:     fset.Position(d.spec.Pos()).String(),
	}

	if d.spec.TypeParams != nil {
		for _, field := range d.spec.TypeParams.List {
			for _, name := range field.Names {
				st.TypeParams = append(st.TypeParams, schema.TypeParam{Name: name.Name, Constraint: field.Type})
			}
		}
	}

	if d.spec.Assign.IsValid() {
		st.Kind = schema.KindAlias
		st.Underlying = types.ExprString(d.spec.Type)
		return st
	}

	switch t := d.spec.Type.(type) {
	case *ast.StructType:
		st.Kind = schema.KindStruct
		st.Fields = structFields(t)
	case *ast.InterfaceType:
		st.Kind = schema.KindInterface
	default:
		st.Kind = schema.KindDefined
		st.Underlying = types.ExprString(d.spec.Type)
	}
	return st
}

func structFields(st *ast.StructType) []schema.Field {
	fields := []schema.Field{}
	for _, f := range st.Fields.List {
		tag := ""
		if f.Tag != nil {
			if unquoted, err := strconv.Unquote(f.Tag.Value); err == nil {
				tag = unquoted
			}
		}
		markers := tagMarkers(tag)

		if len(f.Names) == 0 {
			fields = append(fields, schema.Field{
				Name:     embeddedFieldName(f.Type),
				Type:     f.Type,
				Tag:      tag,
				Markers:  markers,
				Embedded: true,
			})
			continue
		}
		for _, name := range f.Names {
			fields = append(fields, schema.Field{
				Name:    name.Name,
				Type:    f.Type,
				Tag:     tag,
				Markers: markers,
			})
		}
	}
	return fields
}

func tagMarkers(tag string) []string {
	raw, ok := reflect.StructTag(tag).Lookup(optionalize.TagKey)
	if !ok {
		return nil
	}
	var markers []string
	for _, m := range strings.Split(raw, ",") {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		markers = append(markers, m)
	}
	return markers
}

func fileImports(file *ast.File, pkgNames map[string]string) map[string]schema.Import {
	out := make(map[string]schema.Import, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name, ok := pkgNames[path]
		if !ok {
			name = schema.DefaultImportName(path)
		}
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			out[spec.Name.Name] = schema.Import{Path: path, Alias: spec.Name.Name != name}
			continue
		}
		out[name] = schema.Import{Path: path}
	}
	return out
}

func importedPackageNames(pkg *packages.Package) map[string]string {
	names := map[string]string{}
	if pkg.Types == nil {
		return names
	}
	for _, imp := range pkg.Types.Imports() {
		names[imp.Path()] = imp.Name()
	}
	return names
}
