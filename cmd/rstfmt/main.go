// Command rstfmt reformats reStructuredText documents into a single
// canonical layout.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/gentlegiantJGC/rstfmt"
	"github.com/gentlegiantJGC/rstfmt/parser"
	"github.com/gentlegiantJGC/rstfmt/selfcheck"
)

var cli struct {
	Width   int      `short:"w" default:"${default_width}" help:"Line width; zero or less disables wrapping."`
	InPlace bool     `short:"i" help:"Rewrite files in place instead of printing to stdout."`
	Verbose bool     `short:"v" help:"Dump each parsed document tree to stderr."`
	Test    bool     `help:"Check that each input formats to a fixed point instead of printing it."`
	Paths   []string `arg:"" optional:"" help:"Input files; - or nothing reads stdin."`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig()
	if err != nil {
		logger.Warn("ignoring config", "error", err)
	}
	kctx := kong.Parse(&cli,
		kong.Name("rstfmt"),
		kong.Description("A formatter for reStructuredText."),
		kong.UsageOnError(),
		kong.Vars{"default_width": strconv.Itoa(cfg.Width)},
	)
	kctx.FatalIfErrorf(run(logger))
}

func run(logger *slog.Logger) error {
	paths := cli.Paths
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	p := parser.New(nil)
	for _, path := range paths {
		if err := processFile(logger, p, path); err != nil {
			return err
		}
	}
	return nil
}

func processFile(logger *slog.Logger, p *parser.Parser, path string) error {
	stdin := path == "-"
	var (
		src []byte
		err error
	)
	if stdin {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	doc := p.Parse(string(src))
	if cli.Verbose {
		fmt.Fprintf(os.Stderr, "%s %s\n", strings.Repeat("=", 60), displayName(path))
		rstfmt.Dump(os.Stderr, doc)
	}

	if cli.Test {
		checker := &selfcheck.Checker{Parser: p}
		if err := checker.Check(doc); err != nil {
			return fmt.Errorf("%s: %w", displayName(path), err)
		}
		return nil
	}

	out := rstfmt.FormatNode(doc, cli.Width) + "\n"
	if cli.InPlace && !stdin {
		return os.WriteFile(path, []byte(out), 0o644)
	}
	if cli.InPlace && stdin {
		logger.Warn("cannot rewrite stdin in place, writing to stdout")
	}
	_, err = io.WriteString(os.Stdout, out)
	return err
}

func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}
