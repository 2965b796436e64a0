package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/seitarof/optionalize/internal/classifier"
	"github.com/seitarof/optionalize/internal/generator"
	"github.com/seitarof/optionalize/internal/parser"
	"github.com/seitarof/optionalize/internal/resolver"
	"github.com/seitarof/optionalize/internal/schema"
)

// Runner orchestrates parser/classifier/resolver/generator layers.
type Runner interface {
	Run(ctx context.Context, cfg *Config) error
}

// SchemaLoader reads a declarative schema file.
type SchemaLoader func(path string) (*schema.File, error)

type runnerImpl struct {
	parser     parser.Parser
	loadSchema SchemaLoader
	generator  generator.Generator
	logger     *log.Logger
}

// NewRunner creates a default runner implementation. A nil logger discards
// output.
func NewRunner(p parser.Parser, g generator.Generator, logger *log.Logger) Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &runnerImpl{
		parser:     p,
		loadSchema: schema.LoadYAML,
		generator:  g,
		logger:     logger,
	}
}

// Run executes a single generation cycle. Nothing is written unless every
// selected struct resolves.
func (r *runnerImpl) Run(ctx context.Context, cfg *Config) error {
	file, err := r.load(cfg)
	if err != nil {
		return err
	}
	if len(file.Structs) == 0 {
		return fmt.Errorf("no structs to generate in package %q", file.Package)
	}

	c := classifier.New(cfg.Policy())
	rv, err := resolver.New(cfg.Mode, c)
	if err != nil {
		return err
	}

	plans, err := r.resolveAll(ctx, rv, file.Structs)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		r.logPlan(plan)
	}

	if err := r.generator.Generate(cfg, file, plans); err != nil {
		return err
	}
	r.logger.Info("generated", "file", cfg.OutputFilename(), "structs", len(plans), "mode", cfg.Mode)
	return nil
}

func (r *runnerImpl) load(cfg *Config) (*schema.File, error) {
	if cfg.SchemaPath != "" {
		file, err := r.loadSchema(cfg.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("load schema: %w", err)
		}
		structs, err := selectStructs(file.Structs, cfg.Types, cfg.SchemaPath)
		if err != nil {
			return nil, err
		}
		file.Structs = structs
		r.logger.Debug("loaded schema", "path", cfg.SchemaPath, "structs", len(structs))
		return file, nil
	}

	file, err := r.parser.Parse(cfg.SrcPath, cfg.Types)
	if err != nil {
		return nil, fmt.Errorf("parse src: %w", err)
	}
	r.logger.Debug("parsed package", "path", cfg.SrcPath, "structs", len(file.Structs))
	return file, nil
}

// resolveAll resolves every struct concurrently. Plans keep the input order.
func (r *runnerImpl) resolveAll(ctx context.Context, rv resolver.Resolver, structs []*schema.Struct) ([]*resolver.StructPlan, error) {
	plans := make([]*resolver.StructPlan, len(structs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, st := range structs {
		i, st := i, st
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, err := rv.Resolve(st)
			if err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *runnerImpl) logPlan(plan *resolver.StructPlan) {
	for _, fp := range plan.Fields {
		r.logger.Debug("field",
			"struct", plan.Src.Name,
			"name", fp.Name(),
			"ignored", fp.Field.Ignored,
			"optional", fp.Field.AlreadyOptional,
			"shape", fp.Shape,
			"rule", fp.Rule,
		)
		if fp.Shape == resolver.ShapeWrappedCounterpart {
			r.logger.Info("assuming optional counterpart",
				"struct", plan.Src.Name,
				"name", fp.Name(),
				"type", schema.TypeString(fp.Elem),
			)
		}
	}
}

func selectStructs(structs []*schema.Struct, names []string, source string) ([]*schema.Struct, error) {
	if len(names) == 0 {
		return structs, nil
	}
	byName := make(map[string]*schema.Struct, len(structs))
	for _, st := range structs {
		byName[st.Name] = st
	}
	out := make([]*schema.Struct, 0, len(names))
	for _, name := range names {
		st, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("struct %q not found in schema %q", name, source)
		}
		out = append(out, st)
	}
	return out, nil
}
