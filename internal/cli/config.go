package cli

import (
	"github.com/seitarof/optionalize/internal/classifier"
	"github.com/seitarof/optionalize/internal/generator"
	"github.com/seitarof/optionalize/internal/resolver"
)

// Config stores CLI options for a single generation run.
type Config struct {
	SrcPath    string
	SchemaPath string
	// Types restricts generation to the named structs. Empty means every
	// annotated struct (Go input) or every struct (schema input).
	Types        []string
	Filename     string
	Mode         resolver.Mode
	ActiveModel  string
	ActivePkg    string
	Scalars      []string
	IgnoreMarker string
	LogLevel     string
	ShowVersion  bool
}

// OutputFilename returns destination file path for generator layer.
func (c *Config) OutputFilename() string {
	return c.Filename
}

// Policy returns the classifier policy configured by the flags.
func (c *Config) Policy() classifier.Policy {
	p := classifier.DefaultPolicy().WithScalars(c.Scalars...)
	if c.IgnoreMarker != "" {
		p.IgnoreMarker = c.IgnoreMarker
	}
	return p
}

// GeneratorOptions returns the emission options configured by the flags.
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{
		Wrapper:     c.Policy().Wrapper,
		ActiveModel: c.ActiveModel,
		ActivePkg:   c.ActivePkg,
	}
}
