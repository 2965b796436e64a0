package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"

	"github.com/seitarof/optionalize/internal/cli"
	"github.com/seitarof/optionalize/internal/generator"
	"github.com/seitarof/optionalize/internal/parser"
)

var version = "dev"

func main() {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.ShowVersion {
		fmt.Println(version)
		return
	}

	logger, err := cli.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}

	p := parser.New()
	f := generator.NewGoimportsFormatter()
	w := generator.NewFileWriter()
	g := generator.New(f, w, cfg.GeneratorOptions())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := cli.NewRunner(p, g, logger)
	if err := runner.Run(ctx, cfg); err != nil {
		stop()
		logger.Fatal("generation failed", "err", err)
	}
}
