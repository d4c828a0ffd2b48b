package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-tlgen/pkg/emit"
	"github.com/goliatone/go-tlgen/pkg/generate"
	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("tlgen", flag.ContinueOnError)
	schemaPath := flags.String("schema", "", "TL schema file")
	errorsDir := flags.String("errors", "", "directory of CODE_NAME.tsv error-table sources")
	outputDir := flags.String("out", "", "output directory for generated code")
	configPath := flags.String("config", "", "YAML config file; explicit flags win")
	rendererName := flags.String("renderer", "", "renderer to use (default go)")
	packageName := flags.String("package", "", "package name stamped on generated files")
	check := flags.Bool("check", false, "report whether output is current without writing")
	interactive := flags.Bool("interactive", false, "confirm before replacing existing output")
	verbose := flags.Bool("verbose", false, "enable debug logging on stderr")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}

	cfg := generate.Config{}
	if *configPath != "" {
		loaded, err := generate.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tlgen: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	cfg = cfg.Merge(generate.Config{
		Schema:   *schemaPath,
		Errors:   *errorsDir,
		Output:   *outputDir,
		Renderer: *rendererName,
		Package:  *packageName,
	})

	if cfg.Schema == "" || cfg.Output == "" {
		fmt.Fprintln(os.Stderr, "tlgen: -schema and -out are required (flags or config file)")
		flags.Usage()
		return 1
	}

	req := generate.Request{
		Source:    pkgschema.SourceFromFile(cfg.Schema),
		OutputDir: cfg.Output,
		Renderer:  cfg.Renderer,
		CheckOnly: *check,
		Emit: emit.Options{
			Package:       cfg.Package,
			RuntimeImport: cfg.RuntimeImport,
			ErrorsImport:  cfg.ErrorsImport,
		},
	}
	if cfg.Errors != "" {
		req.ErrorsFS = os.DirFS(cfg.Errors)
	}

	ctx := context.Background()
	gen := generate.New(generate.WithLogger(logger))

	if *interactive && !*check {
		code, done := confirmReplace(ctx, gen, req)
		if done {
			return code
		}
	}

	result, err := gen.Run(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tlgen: %v\n", err)
		return generate.OutcomeFailed.ExitCode()
	}

	switch result.Outcome {
	case generate.OutcomeUnchanged:
		fmt.Printf("tlgen: %s is up to date (layer %d)\n", req.OutputDir, result.Layer)
	case generate.OutcomeRegenerated:
		if *check {
			fmt.Printf("tlgen: %s is out of date (layer %d)\n", req.OutputDir, result.Layer)
		} else {
			fmt.Printf("tlgen: regenerated %s (%d files, layer %d)\n", req.OutputDir, len(result.Files), result.Layer)
		}
	}
	return result.Outcome.ExitCode()
}

// confirmReplace does a check-mode dry run and asks before an existing tree
// is replaced. Returns (exit code, true) when the run should stop here.
func confirmReplace(ctx context.Context, gen *generate.Generator, req generate.Request) (int, bool) {
	dryRun := req
	dryRun.CheckOnly = true

	result, err := gen.Run(ctx, dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tlgen: %v\n", err)
		return generate.OutcomeFailed.ExitCode(), true
	}
	if result.Outcome == generate.OutcomeUnchanged {
		fmt.Printf("tlgen: %s is up to date (layer %d)\n", req.OutputDir, result.Layer)
		return result.Outcome.ExitCode(), true
	}

	if _, err := os.Stat(req.OutputDir); err != nil {
		// Nothing to replace yet.
		return 0, false
	}

	replace := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Replace generated output in %s?", req.OutputDir),
		Default: true,
	}
	if err := survey.AskOne(prompt, &replace); err != nil {
		fmt.Fprintf(os.Stderr, "tlgen: %v\n", err)
		return 1, true
	}
	if !replace {
		fmt.Fprintln(os.Stderr, "tlgen: aborted")
		return 1, true
	}
	return 0, false
}
