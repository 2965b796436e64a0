package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/seitarof/optionalize/internal/resolver"
	"github.com/seitarof/optionalize/internal/schema"
	"github.com/seitarof/optionalize/pkg/optionalize"
)

const (
	linkMethod     = "OptionalType"
	convertMethod  = "ToActive"
	receiverName   = "o"
	activeVarName  = "m"
	presentVarName = "v"
)

type emitter struct {
	file    *jen.File
	plan    *resolver.StructPlan
	opts    Options
	imports map[string]schema.Import
}

func (e *emitter) registerImports() {
	for name, imp := range e.imports {
		if imp.Alias {
			e.file.ImportAlias(imp.Path, name)
			continue
		}
		e.file.ImportName(imp.Path, name)
	}
}

// emitStruct writes the optional struct declaration.
func (e *emitter) emitStruct() {
	src := e.plan.Src
	fields := make([]jen.Code, 0, len(e.plan.Fields))
	for _, fp := range e.plan.Fields {
		field := jen.Id(fp.Name()).Add(e.outputType(fp))
		if tag := stripTagKey(fp.Field.Field.Tag, optionalize.TagKey); tag != "" {
			field.Add(tagCode(tag))
		}
		fields = append(fields, field)
	}

	e.file.Commentf("%s is the optional counterpart of %s.", e.plan.Name, src.Name)
	e.file.Type().Add(e.withTypeParams(jen.Id(e.plan.Name))).Struct(fields...)
}

// emitLink binds the source struct to its counterpart.
func (e *emitter) emitLink() {
	src := e.plan.Src
	e.file.Commentf("%s returns the zero %s; it links %s to its optional counterpart.", linkMethod, e.plan.Name, src.Name)
	e.file.Func().
		Params(e.withTypeArgs(jen.Id(src.Name))).
		Id(linkMethod).Params().
		Add(e.withTypeArgs(jen.Id(e.plan.Name))).
		Block(jen.Return(e.withTypeArgs(jen.Id(e.plan.Name)).Values()))

	if !src.IsGeneric() {
		e.file.Var().Id("_").
			Qual(optionalizePkg, "Optionalizer").Types(jen.Id(e.plan.Name)).
			Op("=").Id(src.Name).Values()
	}
}

// emitConversion writes ToActive, consuming the receiver by value.
func (e *emitter) emitConversion() {
	body := []jen.Code{jen.Var().Id(activeVarName).Id(e.opts.ActiveModel)}
	for _, fp := range e.plan.Fields {
		body = append(body, e.convertField(fp))
	}
	body = append(body, jen.Return(jen.Id(activeVarName)))

	e.file.Commentf("%s converts o into an %s update. Absent fields are NotSet.", convertMethod, e.opts.ActiveModel)
	e.file.Func().
		Params(jen.Id(receiverName).Add(e.withTypeArgs(jen.Id(e.plan.Name)))).
		Id(convertMethod).Params().
		Id(e.opts.ActiveModel).
		Block(body...)
}

func (e *emitter) convertField(fp resolver.FieldPlan) jen.Code {
	target := jen.Id(activeVarName).Dot(fp.Name())
	source := jen.Id(receiverName).Dot(fp.Name())

	switch fp.Rule {
	case resolver.RuleUnchanged:
		return target.Op("=").Add(e.active("Unchanged")).Call(source)
	case resolver.RuleSetSomeOrNotSet:
		present := e.someFunc(fp.Declared()).Call(jen.Id(presentVarName))
		return e.setOrNotSet(fp, target, source, present)
	default:
		return e.setOrNotSet(fp, target, source, jen.Id(presentVarName))
	}
}

func (e *emitter) setOrNotSet(fp resolver.FieldPlan, target, source *jen.Statement, present jen.Code) jen.Code {
	return jen.If(
		jen.List(jen.Id(presentVarName), jen.Id("ok")).Op(":=").Add(source).Dot(e.opts.Wrapper.Get).Call(),
		jen.Id("ok"),
	).Block(
		target.Clone().Op("=").Add(e.active("Set")).Call(present),
	).Else().Block(
		target.Clone().Op("=").Add(e.active("NotSet")).Types(e.typeCode(fp.Declared())).Call(),
	)
}

func (e *emitter) outputType(fp resolver.FieldPlan) *jen.Statement {
	elem := e.typeCode(fp.Elem)
	if fp.Shape == resolver.ShapeDeclared {
		return elem
	}
	return e.wrapper().Types(elem)
}

func (e *emitter) wrapper() *jen.Statement {
	if e.opts.Wrapper.Path == "" {
		return jen.Id(e.opts.Wrapper.Name)
	}
	return jen.Qual(e.opts.Wrapper.Path, e.opts.Wrapper.Name)
}

func (e *emitter) active(name string) *jen.Statement {
	if e.opts.ActivePkg == "" {
		return jen.Id(name)
	}
	return jen.Qual(e.opts.ActivePkg, name)
}

func (e *emitter) withTypeParams(s *jen.Statement) *jen.Statement {
	src := e.plan.Src
	if !src.IsGeneric() {
		return s
	}
	params := make([]jen.Code, 0, len(src.TypeParams))
	for _, tp := range src.TypeParams {
		params = append(params, jen.Id(tp.Name).Add(e.typeCode(tp.Constraint)))
	}
	return s.Types(params...)
}

func (e *emitter) withTypeArgs(s *jen.Statement) *jen.Statement {
	src := e.plan.Src
	if !src.IsGeneric() {
		return s
	}
	args := make([]jen.Code, 0, len(src.TypeParams))
	for _, tp := range src.TypeParams {
		args = append(args, jen.Id(tp.Name))
	}
	return s.Types(args...)
}
