package golang

import (
	"context"
	"fmt"
	"strconv"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tlgen/pkg/emit"
	"github.com/goliatone/go-tlgen/pkg/errtable"
)

const (
	defaultErrorsImport = "github.com/goliatone/go-tlgen/pkg/errtable"

	errorsTemplate = "errors.go.tpl"
	errorsFileName = "errors.go"
)

// sourceView quotes one errtable source for safe template insertion.
type sourceView struct {
	Code    int
	NameLit string
	Entries []entryView
}

type entryView struct {
	IDLit      string
	MessageLit string
}

// RenderErrorTable emits the compiled error table as a Go source artifact:
// the raw sources baked into the file, compiled once at package init. Source
// order is preserved so resolution stays order-stable.
func (r *Renderer) RenderErrorTable(ctx context.Context, sources []errtable.Source, options emit.Options) (emit.File, error) {
	if err := ctx.Err(); err != nil {
		return emit.File{}, err
	}
	if options.Package == "" {
		options.Package = defaultPackage
	}
	if options.ErrorsImport == "" {
		options.ErrorsImport = defaultErrorsImport
	}

	// Reject ambiguous tables before emitting anything; MustCompile in the
	// artifact would otherwise panic at its consumer's init.
	if _, err := errtable.Compile(sources); err != nil {
		return emit.File{}, fmt.Errorf("golang: compile error table: %w", err)
	}

	views := make([]sourceView, 0, len(sources))
	for _, src := range sources {
		view := sourceView{
			Code:    src.Code,
			NameLit: strconv.Quote(src.Name),
		}
		for _, entry := range src.Entries {
			view.Entries = append(view.Entries, entryView{
				IDLit:      strconv.Quote(entry.ID),
				MessageLit: strconv.Quote(entry.Message),
			})
		}
		views = append(views, view)
	}

	return r.renderFile(errorsTemplate, errorsFileName, pongo2.Context{
		"package":   options.Package,
		"errimport": options.ErrorsImport,
		"sources":   views,
	})
}
