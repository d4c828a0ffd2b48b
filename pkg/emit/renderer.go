package emit

import (
	"context"

	"github.com/goliatone/go-tlgen/pkg/model"
)

// File is one generated output file, path relative to the output root.
type File struct {
	Path    string
	Content []byte
}

// Options carries per-run rendering parameters.
type Options struct {
	// Package is the Go package name stamped on generated files.
	Package string
	// Layer is the schema layer stamped on the generated artifact set.
	Layer int
	// RuntimeImport is the import path of the tl runtime package.
	RuntimeImport string
	// ErrorsImport is the import path of the errtable runtime package.
	ErrorsImport string
}

// Renderer converts an object model into generated source files. Output must
// be deterministic: rendering the same schema twice yields byte-identical
// files in the same order.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, schema *model.Schema, options Options) ([]File, error)
}
