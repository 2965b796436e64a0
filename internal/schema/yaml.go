package schema

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Package string            `yaml:"package"`
	PkgPath string            `yaml:"pkgPath"`
	Imports map[string]string `yaml:"imports"`
	Structs []yaml.Node       `yaml:"structs"`
}

type yamlStruct struct {
	Name       string            `yaml:"name"`
	Kind       string            `yaml:"kind"`
	Underlying string            `yaml:"underlying"`
	Imports    map[string]string `yaml:"imports"`
	TypeParams []yamlTypeParam   `yaml:"typeParams"`
	Fields     []yamlField       `yaml:"fields"`
}

type yamlTypeParam struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint"`
}

type yamlField struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Tag      string   `yaml:"tag"`
	Ignore   bool     `yaml:"ignore"`
	Markers  []string `yaml:"markers"`
	Embedded bool     `yaml:"embedded"`
}

// LoadYAML reads a declarative schema file.
func LoadYAML(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()
	return DecodeYAML(path, f)
}

// DecodeYAML decodes a declarative schema. name is used in positions only.
func DecodeYAML(name string, r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc yamlDocument
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty schema", name)
		}
		return nil, fmt.Errorf("%s: decode schema: %w", name, err)
	}
	if strings.TrimSpace(doc.Package) == "" {
		return nil, fmt.Errorf("%s: package is required", name)
	}
	if !token.IsIdentifier(doc.Package) {
		return nil, fmt.Errorf("%s: package %q is not a valid identifier", name, doc.Package)
	}

	file := &File{
		Package: doc.Package,
		PkgPath: doc.PkgPath,
		Structs: make([]*Struct, 0, len(doc.Structs)),
	}
	for i := range doc.Structs {
		node := &doc.Structs[i]
		pos := fmt.Sprintf("%s:%d", name, node.Line)

		var raw yamlStruct
		if err := node.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%s: decode struct: %w", pos, err)
		}
		st, err := raw.toStruct(pos, doc.Imports)
		if err != nil {
			return nil, err
		}
		file.Structs = append(file.Structs, st)
	}
	return file, nil
}

func (raw yamlStruct) toStruct(pos string, fileImports map[string]string) (*Struct, error) {
	if !token.IsIdentifier(raw.Name) {
		return nil, fmt.Errorf("%s: struct name %q is not a valid identifier", pos, raw.Name)
	}

	kind := Kind(strings.ToLower(strings.TrimSpace(raw.Kind)))
	if kind == "" {
		kind = KindStruct
	}

	st := &Struct{
		Name:       raw.Name,
		Kind:       kind,
		Underlying: raw.Underlying,
		Imports:    mergeImports(fileImports, raw.Imports),
		Pos:        pos,
	}

	for _, tp := range raw.TypeParams {
		if !token.IsIdentifier(tp.Name) {
			return nil, fmt.Errorf("%s: %s: type parameter %q is not a valid identifier", pos, raw.Name, tp.Name)
		}
		constraint := tp.Constraint
		if strings.TrimSpace(constraint) == "" {
			constraint = "any"
		}
		expr, err := parseTypeExpr(constraint)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: type parameter %s: %w", pos, raw.Name, tp.Name, err)
		}
		st.TypeParams = append(st.TypeParams, TypeParam{Name: tp.Name, Constraint: expr})
	}

	for _, rf := range raw.Fields {
		expr, err := parseTypeExpr(rf.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %s.%s: %w", pos, raw.Name, rf.Name, err)
		}
		st.Fields = append(st.Fields, Field{
			Name:     rf.Name,
			Type:     expr,
			Tag:      rf.Tag,
			Markers:  append([]string(nil), rf.Markers...),
			Ignore:   rf.Ignore,
			Embedded: rf.Embedded,
		})
	}
	return st, nil
}

func parseTypeExpr(src string) (ast.Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New("type is required")
	}
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", src, err)
	}
	return expr, nil
}

func mergeImports(base, override map[string]string) map[string]Import {
	out := make(map[string]Import, len(base)+len(override))
	for _, m := range []map[string]string{base, override} {
		for name, path := range m {
			out[name] = Import{Path: path, Alias: name != DefaultImportName(path)}
		}
	}
	return out
}
