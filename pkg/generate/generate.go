package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	internalgolang "github.com/goliatone/go-tlgen/internal/emit/golang"
	"github.com/goliatone/go-tlgen/internal/ident"
	internalloader "github.com/goliatone/go-tlgen/internal/schema/loader"
	internalparser "github.com/goliatone/go-tlgen/internal/schema/parser"
	"github.com/goliatone/go-tlgen/pkg/emit"
	"github.com/goliatone/go-tlgen/pkg/errtable"
	"github.com/goliatone/go-tlgen/pkg/model"
	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

const defaultRendererName = "go"

// Outcome classifies one generation run for the process exit contract.
type Outcome int

const (
	// OutcomeUnchanged means the published output already matches the input.
	OutcomeUnchanged Outcome = iota
	// OutcomeRegenerated means the output tree was (or, in check mode, would
	// be) replaced.
	OutcomeRegenerated
	// OutcomeFailed means the run aborted with no change to published output.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeRegenerated:
		return "regenerated"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ExitCode maps the outcome onto the exit contract consumed by CI: 0 for
// unchanged, 2 for regenerated, 1 for failed.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeUnchanged:
		return 0
	case OutcomeRegenerated:
		return 2
	default:
		return 1
	}
}

// Option customises the generator configuration.
type Option func(*Generator)

// WithLoader injects a custom schema loader.
func WithLoader(loader pkgschema.Loader) Option {
	return func(g *Generator) {
		g.loader = loader
	}
}

// WithParser injects a custom schema parser.
func WithParser(parser pkgschema.Parser) Option {
	return func(g *Generator) {
		g.parser = parser
	}
}

// WithBuilder injects a custom object model builder.
func WithBuilder(builder *model.Builder) Option {
	return func(g *Generator) {
		g.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *emit.Registry) Option {
	return func(g *Generator) {
		g.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(g *Generator) {
		g.defaultRenderer = name
	}
}

// WithLogger attaches a logger. The default logger is disabled.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// Generator coordinates the full pipeline from TL schema text to a published
// output tree: parse, build, resolve ids, render, stage, publish. It applies
// defaults for every dependency while remaining open to injection.
type Generator struct {
	loader          pkgschema.Loader
	parser          pkgschema.Parser
	builder         *model.Builder
	registry        *emit.Registry
	defaultRenderer string
	logger          zerolog.Logger
	defaultsApplied bool
}

// New constructs a Generator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Generator {
	g := &Generator{
		defaultRenderer: defaultRendererName,
		logger:          zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.applyDefaults()
	return g
}

// Request describes one generation run.
type Request struct {
	// Source identifies where the schema text lives. Optional when Document
	// is supplied.
	Source pkgschema.Source

	// Document allows callers to bypass the loader when they already hold
	// the schema text.
	Document *pkgschema.Document

	// ErrorsFS optionally holds CODE_NAME.tsv error-table sources; when set,
	// an errors artifact is rendered alongside the entities.
	ErrorsFS fs.FS

	// OutputDir is the published output tree. Replaced atomically.
	OutputDir string

	// Renderer names the renderer to use; empty falls back to the default.
	Renderer string

	// CheckOnly reports the outcome without writing anything.
	CheckOnly bool

	// Emit carries per-request rendering parameters.
	Emit emit.Options
}

// Result reports what a generation run did.
type Result struct {
	Outcome Outcome
	// Layer is the schema layer the run generated from.
	Layer int
	// Files lists the rendered output paths relative to OutputDir.
	Files []string
	// Manifest is the fingerprint record describing the rendered output.
	Manifest Manifest
}

// errorTableRenderer is the optional renderer upgrade for emitting the error
// taxonomy artifact.
type errorTableRenderer interface {
	RenderErrorTable(ctx context.Context, sources []errtable.Source, options emit.Options) (emit.File, error)
}

// Run executes loader, parser, builder, id resolver, and renderer, then
// publishes the output tree unless it already matches the recorded manifest.
// Every failure leaves previously published output untouched.
func (g *Generator) Run(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return failed(), errors.New("generate: context is required")
	}
	if err := ctx.Err(); err != nil {
		return failed(), err
	}
	if req.OutputDir == "" {
		return failed(), errors.New("generate: output dir is required")
	}
	g.applyDefaults()

	doc, err := g.resolveDocument(ctx, req)
	if err != nil {
		return failed(), err
	}

	file, err := g.parser.Parse(ctx, doc)
	if err != nil {
		return failed(), fmt.Errorf("generate: parse schema: %w", err)
	}

	schema, err := g.builder.Build(ctx, file)
	if err != nil {
		return failed(), fmt.Errorf("generate: build model: %w", err)
	}

	if err := ident.Resolve(ctx, schema); err != nil {
		return failed(), fmt.Errorf("generate: resolve ids: %w", err)
	}
	g.logger.Debug().
		Int("layer", schema.Layer).
		Int("constructors", len(schema.Constructors)).
		Int("functions", len(schema.Functions)).
		Msg("schema resolved")

	renderer, err := g.rendererFor(req.Renderer)
	if err != nil {
		return failed(), err
	}

	options := req.Emit
	if options.Layer == 0 {
		options.Layer = schema.Layer
	}
	files, err := renderer.Render(ctx, schema, options)
	if err != nil {
		return failed(), fmt.Errorf("generate: render: %w", err)
	}

	if req.ErrorsFS != nil {
		errFile, err := g.renderErrors(ctx, renderer, req.ErrorsFS, options)
		if err != nil {
			return failed(), err
		}
		files = append(files, errFile)
	}

	manifest := NewManifest(schema.Layer, doc.Raw(), files)

	previous, found, err := LoadManifest(req.OutputDir)
	if err != nil {
		return failed(), err
	}
	if found && previous.Equal(manifest) {
		g.logger.Info().Str("dir", req.OutputDir).Msg("output unchanged")
		return Result{
			Outcome:  OutcomeUnchanged,
			Layer:    schema.Layer,
			Files:    manifest.Paths(),
			Manifest: manifest,
		}, nil
	}

	result := Result{
		Outcome:  OutcomeRegenerated,
		Layer:    schema.Layer,
		Files:    manifest.Paths(),
		Manifest: manifest,
	}
	if req.CheckOnly {
		g.logger.Info().Str("dir", req.OutputDir).Msg("output out of date")
		return result, nil
	}

	if err := publish(req.OutputDir, files, manifest); err != nil {
		return failed(), fmt.Errorf("generate: publish: %w", err)
	}
	g.logger.Info().
		Str("dir", req.OutputDir).
		Int("files", len(files)).
		Int("layer", schema.Layer).
		Msg("output regenerated")
	return result, nil
}

func (g *Generator) renderErrors(ctx context.Context, renderer emit.Renderer, fsys fs.FS, options emit.Options) (emit.File, error) {
	upgraded, ok := renderer.(errorTableRenderer)
	if !ok {
		return emit.File{}, fmt.Errorf("generate: renderer %q cannot emit error tables", renderer.Name())
	}
	sources, err := errtable.LoadFS(fsys)
	if err != nil {
		return emit.File{}, fmt.Errorf("generate: load error table: %w", err)
	}
	file, err := upgraded.RenderErrorTable(ctx, sources, options)
	if err != nil {
		return emit.File{}, fmt.Errorf("generate: render error table: %w", err)
	}
	return file, nil
}

func (g *Generator) resolveDocument(ctx context.Context, req Request) (pkgschema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgschema.Document{}, errors.New("generate: source or document is required")
	}
	doc, err := g.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgschema.Document{}, fmt.Errorf("generate: load schema: %w", err)
	}
	return doc, nil
}

func (g *Generator) rendererFor(name string) (emit.Renderer, error) {
	if g.registry == nil {
		return nil, errors.New("generate: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = g.defaultRenderer
	}

	renderer, err := g.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("generate: renderer %q: %w", target, err)
	}
	return renderer, nil
}

func (g *Generator) applyDefaults() {
	if g.defaultsApplied {
		return
	}

	if g.loader == nil {
		g.loader = internalloader.New(pkgschema.LoaderOptions{})
	}
	if g.parser == nil {
		g.parser = internalparser.New(pkgschema.NewParserOptions())
	}
	if g.builder == nil {
		g.builder = model.NewBuilder()
	}
	if g.registry == nil {
		g.registry = emit.NewRegistry()
		g.registry.MustRegister(internalgolang.New())
	}
	if g.defaultRenderer == "" {
		g.defaultRenderer = defaultRendererName
	}

	g.defaultsApplied = true
}

func failed() Result {
	return Result{Outcome: OutcomeFailed}
}
