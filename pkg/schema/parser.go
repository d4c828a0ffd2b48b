package schema

import (
	"context"
	"io/fs"
)

// Parser turns a schema Document into the raw declaration list consumed by
// the model builder. Implementations live under internal/schema.
type Parser interface {
	Parse(ctx context.Context, doc Document) (File, error)
}

// ParserOptions exposes toggles for parser behaviour.
type ParserOptions struct {
	// RequireLayer makes the parser fail when no `// LAYER N` marker is
	// present. Vendored production schemas always carry one; test
	// fragments often do not.
	RequireLayer bool

	// AllowMissingSections permits documents without explicit section
	// separators, treating all declarations as type constructors.
	AllowMissingSections bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithRequiredLayer toggles the layer-marker requirement.
func WithRequiredLayer(required bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.RequireLayer = required
	}
}

// WithMissingSections toggles support for separator-free fragments.
func WithMissingSections(allowed bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowMissingSections = allowed
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration. Implementations under internal/schema call this helper to
// remain consistent.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		RequireLayer:         false,
		AllowMissingSections: true,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// Loader fetches schema text from a Source and wraps it in a Document.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions carries pre-resolved loader configuration.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS lookups.
	FileSystem fs.FS
}
