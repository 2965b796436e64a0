package generator

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/seitarof/optionalize/internal/classifier"
	"github.com/seitarof/optionalize/internal/resolver"
	"github.com/seitarof/optionalize/internal/schema"
)

const (
	// DefaultActivePkg provides Set, Unchanged and NotSet by default.
	DefaultActivePkg = "github.com/seitarof/optionalize/pkg/activevalue"
	// DefaultActiveModel is the conversion target type assumed in scope.
	DefaultActiveModel = "ActiveModel"

	optionalizePkg = "github.com/seitarof/optionalize/pkg/optionalize"
	headerComment  = "Code generated by optionalize. DO NOT EDIT."
)

// Generator generates optional counterparts from struct plans.
type Generator interface {
	Generate(cfg Config, file *schema.File, plans []*resolver.StructPlan) error
	Render(file *schema.File, plans []*resolver.StructPlan) ([]byte, error)
}

// Config is the minimum config contract required by generator.
type Config interface {
	OutputFilename() string
}

// Formatter formats generated Go code and organizes imports.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

// FileWriter writes generated code to disk.
type FileWriter interface {
	Write(filename string, data []byte) error
}

// Options configures emission. The zero value uses the defaults.
type Options struct {
	Wrapper classifier.Wrapper
	// ActiveModel is the return type of ToActive.
	ActiveModel string
	// ActivePkg is the import path providing Set, Unchanged and NotSet. An
	// empty path refers to the generated package itself.
	ActivePkg string
}

type generatorImpl struct {
	formatter Formatter
	writer    FileWriter
	opts      Options
}

type goimportsFormatter struct{}

type fileWriter struct{}

// New creates a code generator.
func New(f Formatter, w FileWriter, opts Options) Generator {
	if opts.Wrapper.Name == "" {
		opts.Wrapper = classifier.DefaultPolicy().Wrapper
	}
	if opts.ActiveModel == "" {
		opts.ActiveModel = DefaultActiveModel
	}
	return &generatorImpl{formatter: f, writer: w, opts: opts}
}

// NewGoimportsFormatter creates a formatter backed by goimports.
func NewGoimportsFormatter() Formatter {
	return &goimportsFormatter{}
}

// NewFileWriter creates a plain file writer.
func NewFileWriter() FileWriter {
	return &fileWriter{}
}

func (g *generatorImpl) Generate(cfg Config, file *schema.File, plans []*resolver.StructPlan) error {
	src, err := g.Render(file, plans)
	if err != nil {
		return err
	}

	formatted, err := g.formatter.Format(cfg.OutputFilename(), src)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if err := g.writer.Write(cfg.OutputFilename(), formatted); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (g *generatorImpl) Render(file *schema.File, plans []*resolver.StructPlan) ([]byte, error) {
	if file == nil || file.Package == "" {
		return nil, fmt.Errorf("no target package")
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("no struct plans")
	}

	f := g.newFile(file)
	for _, plan := range plans {
		e := &emitter{file: f, plan: plan, opts: g.opts, imports: plan.Src.Imports}
		e.registerImports()
		e.emitStruct()
		e.emitLink()
		if plan.EmitConversion {
			e.emitConversion()
		}
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *generatorImpl) newFile(file *schema.File) *jen.File {
	var f *jen.File
	if file.PkgPath != "" {
		f = jen.NewFilePathName(file.PkgPath, file.Package)
	} else {
		f = jen.NewFile(file.Package)
	}
	f.HeaderComment(headerComment)
	if g.opts.Wrapper.Path != "" {
		f.ImportName(g.opts.Wrapper.Path, schema.DefaultImportName(g.opts.Wrapper.Path))
	}
	if g.opts.ActivePkg != "" {
		f.ImportName(g.opts.ActivePkg, schema.DefaultImportName(g.opts.ActivePkg))
	}
	f.ImportName(optionalizePkg, "optionalize")
	return f
}

func (f *goimportsFormatter) Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

func (w *fileWriter) Write(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0o644)
}
