package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/seitarof/optionalize/internal/classifier"
	"github.com/seitarof/optionalize/internal/generator"
	"github.com/seitarof/optionalize/internal/resolver"
)

// ParseArgs parses command line arguments into Config.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	var modeRaw string

	fs := pflag.NewFlagSet("optionalize", pflag.ContinueOnError)
	fs.StringVar(&cfg.SrcPath, "src-path", "", "source package path")
	fs.StringVar(&cfg.SchemaPath, "schema", "", "declarative YAML schema file")
	fs.StringSliceVarP(&cfg.Types, "type", "t", nil, "struct types to generate (default: annotated types)")
	fs.StringVarP(&cfg.Filename, "filename", "o", "", "output file name")
	fs.StringVar(&modeRaw, "mode", resolver.ModeSimple.String(), "generation mode: simple or active")
	fs.StringVar(&cfg.ActiveModel, "active-model", generator.DefaultActiveModel, "return type of ToActive")
	fs.StringVar(&cfg.ActivePkg, "active-pkg", generator.DefaultActivePkg, "package providing Set, Unchanged and NotSet")
	fs.StringSliceVar(&cfg.Scalars, "scalar", nil, "extra type names without an optional counterpart")
	fs.StringVar(&cfg.IgnoreMarker, "ignore-marker", classifier.DefaultIgnoreMarker, "optionalize tag marker excluding a field")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	hasSrc := strings.TrimSpace(cfg.SrcPath) != ""
	hasSchema := strings.TrimSpace(cfg.SchemaPath) != ""
	if hasSrc == hasSchema {
		return nil, fmt.Errorf("exactly one of --src-path or --schema is required")
	}
	if strings.TrimSpace(cfg.Filename) == "" {
		return nil, fmt.Errorf("--filename is required")
	}

	mode, err := resolver.ParseMode(modeRaw)
	if err != nil {
		return nil, fmt.Errorf("--mode: %w", err)
	}
	cfg.Mode = mode

	if strings.TrimSpace(cfg.ActiveModel) == "" {
		return nil, fmt.Errorf("--active-model must not be empty")
	}
	if strings.TrimSpace(cfg.IgnoreMarker) == "" {
		return nil, fmt.Errorf("--ignore-marker must not be empty")
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}

	cfg.Types = cleanList(cfg.Types)
	cfg.Scalars = cleanList(cfg.Scalars)
	return cfg, nil
}

func cleanList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, p := range items {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
