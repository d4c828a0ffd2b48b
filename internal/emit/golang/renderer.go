package golang

import (
	"context"
	"embed"
	"fmt"
	"go/format"
	"io/fs"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tlgen/pkg/emit"
	"github.com/goliatone/go-tlgen/pkg/model"
)

//go:embed templates/*.tpl
var templateFS embed.FS

const (
	defaultPackage       = "tlschema"
	defaultRuntimeImport = "github.com/goliatone/go-tlgen/pkg/tl"

	entitiesTemplate = "entities.go.tpl"
	registryTemplate = "registry.go.tpl"
)

// Renderer emits one Go source file per schema namespace and kind, plus a
// registry file with the constructor table and union interfaces. Output runs
// through go/format, so every emitted file is canonically formatted.
type Renderer struct {
	engine *engine
}

var _ emit.Renderer = (*Renderer)(nil)

// New constructs the Go renderer over the embedded template set.
func New() *Renderer {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("golang: embedded templates: %v", err))
	}
	return &Renderer{engine: newEngine(sub)}
}

// Name identifies the renderer inside an emit.Registry.
func (r *Renderer) Name() string { return "go" }

// ContentType describes the produced artifacts.
func (r *Renderer) ContentType() string { return "text/x-go" }

// Render produces the full artifact set for a resolved schema. Files come
// back sorted by namespace with the registry file last, and rendering the
// same schema twice yields byte-identical output.
func (r *Renderer) Render(ctx context.Context, schema *model.Schema, options emit.Options) ([]emit.File, error) {
	if schema == nil {
		return nil, fmt.Errorf("golang: schema is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if options.Package == "" {
		options.Package = defaultPackage
	}
	if options.RuntimeImport == "" {
		options.RuntimeImport = defaultRuntimeImport
	}
	if options.Layer == 0 {
		options.Layer = schema.Layer
	}

	view, err := buildView(schema)
	if err != nil {
		return nil, err
	}

	var files []emit.File
	for _, ns := range view.Namespaces {
		if len(ns.Types) > 0 {
			file, err := r.renderFile(entitiesTemplate, ns.Stem+"_types.go", pongo2.Context{
				"package":  options.Package,
				"layer":    options.Layer,
				"runtime":  options.RuntimeImport,
				"entities": ns.Types,
			})
			if err != nil {
				return nil, err
			}
			files = append(files, file)
		}
		if len(ns.Functions) > 0 {
			file, err := r.renderFile(entitiesTemplate, ns.Stem+"_functions.go", pongo2.Context{
				"package":  options.Package,
				"layer":    options.Layer,
				"runtime":  options.RuntimeImport,
				"entities": ns.Functions,
			})
			if err != nil {
				return nil, err
			}
			files = append(files, file)
		}
	}

	registry, err := r.renderFile(registryTemplate, "registry.go", pongo2.Context{
		"package":    options.Package,
		"layer":      options.Layer,
		"runtime":    options.RuntimeImport,
		"registered": view.Registered,
		"unions":     view.Unions,
	})
	if err != nil {
		return nil, err
	}
	files = append(files, registry)

	return files, nil
}

func (r *Renderer) renderFile(template, path string, ctx pongo2.Context) (emit.File, error) {
	raw, err := r.engine.render(template, ctx)
	if err != nil {
		return emit.File{}, err
	}

	formatted, err := format.Source(raw)
	if err != nil {
		return emit.File{}, fmt.Errorf("golang: format %s: %w", path, err)
	}
	return emit.File{Path: path, Content: formatted}, nil
}
