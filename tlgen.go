package tlgen

import (
	"context"

	internalgolang "github.com/goliatone/go-tlgen/internal/emit/golang"
	internalLoader "github.com/goliatone/go-tlgen/internal/schema/loader"
	internalParser "github.com/goliatone/go-tlgen/internal/schema/parser"
	"github.com/goliatone/go-tlgen/pkg/emit"
	"github.com/goliatone/go-tlgen/pkg/generate"
	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

// Request describes one generation run; alias exported via the root package
// for convenience.
type Request = generate.Request

// Result reports what a generation run did.
type Result = generate.Result

// Outcome classifies a run for the process exit contract.
type Outcome = generate.Outcome

// Outcome values re-exported for callers that only import the root package.
const (
	OutcomeUnchanged   = generate.OutcomeUnchanged
	OutcomeRegenerated = generate.OutcomeRegenerated
	OutcomeFailed      = generate.OutcomeFailed
)

// NewLoader constructs a schema loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options pkgschema.LoaderOptions) pkgschema.Loader {
	return internalLoader.New(options)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgschema.ParserOption) pkgschema.Parser {
	cfg := pkgschema.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// NewGoRenderer exposes the built-in Go renderer so callers can register it
// in their own emit.Registry without importing the internal package.
func NewGoRenderer() emit.Renderer {
	return internalgolang.New()
}

// Generate runs the full pipeline with default dependencies. Callers with
// custom wiring use generate.New directly.
func Generate(ctx context.Context, req Request, options ...generate.Option) (Result, error) {
	return generate.New(options...).Run(ctx, req)
}
