package golang

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// engine wraps a pongo2 template set loaded from an fs.FS, with per-name
// caching. Autoescaping is disabled set-wide: the output is Go source, not
// HTML.
type engine struct {
	mu    sync.Mutex
	set   *pongo2.TemplateSet
	cache map[string]*pongo2.Template
}

func newEngine(fsys fs.FS) *engine {
	pongo2.SetAutoescape(false)
	set := pongo2.NewSet("tlgen", pongo2.NewFSLoader(fsys))
	return &engine{
		set:   set,
		cache: make(map[string]*pongo2.Template),
	}
}

func (e *engine) render(name string, ctx pongo2.Context) ([]byte, error) {
	tmpl, err := e.template(name)
	if err != nil {
		return nil, err
	}

	out, err := tmpl.ExecuteBytes(ctx)
	if err != nil {
		return nil, fmt.Errorf("golang: execute template %q: %w", name, err)
	}
	return out, nil
}

func (e *engine) template(name string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("golang: load template %q: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}
