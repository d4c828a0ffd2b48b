package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

// Loader implements pkgschema.Loader by delegating to file, fs.FS, or
// in-memory strategies. Construction helpers live in the top-level tlgen
// package.
type Loader struct {
	fs fs.FS
}

// Ensure the implementation satisfies the public interface.
var _ pkgschema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgschema.LoaderOptions) pkgschema.Loader {
	return &Loader{fs: options.FileSystem}
}

// Load fetches schema text from the provided source and wraps it in a
// Document.
func (l *Loader) Load(ctx context.Context, src pkgschema.Source) (pkgschema.Document, error) {
	if src == nil {
		return pkgschema.Document{}, errors.New("schema loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return pkgschema.Document{}, err
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case pkgschema.SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case pkgschema.SourceKindFS:
		data, err = loadFromFS(l.fs, src.Location())
	case pkgschema.SourceKindBytes:
		data, err = loadBytes(src)
	default:
		err = fmt.Errorf("schema loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgschema.Document{}, err
	}

	return pkgschema.NewDocument(src, data)
}

func loadFromFS(fsys fs.FS, name string) ([]byte, error) {
	if fsys == nil {
		return nil, errors.New("schema loader: fs source requires a file system")
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("schema loader: open %q: %w", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("schema loader: read %q: %w", name, err)
	}
	return data, nil
}

func loadBytes(src pkgschema.Source) ([]byte, error) {
	type byteser interface {
		Bytes() []byte
	}
	b, ok := src.(byteser)
	if !ok {
		return nil, errors.New("schema loader: bytes source does not expose payload")
	}
	return b.Bytes(), nil
}
