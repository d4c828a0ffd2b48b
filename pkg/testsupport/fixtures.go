package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tlgen/internal/ident"
	schemaparser "github.com/goliatone/go-tlgen/internal/schema/parser"
	pkgmodel "github.com/goliatone/go-tlgen/pkg/model"
	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

// LoadDocument reads a fixture and builds a schema.Document using a file
// source. Testing helpers fail fatally to keep contract tests concise.
func LoadDocument(t *testing.T, path string) pkgschema.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadDocumentFromPath(path string) (pkgschema.Document, error) {
	if path == "" {
		return pkgschema.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgschema.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgschema.NewDocument(pkgschema.SourceFromFile(path), data)
	if err != nil {
		return pkgschema.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustResolveSchema runs the full parse, build, and id-resolution pipeline
// over an inline schema and fails the test on any stage error. Most emitter
// and generator tests start from this helper.
func MustResolveSchema(t *testing.T, raw string) *pkgmodel.Schema {
	t.Helper()

	doc, err := pkgschema.NewDocument(pkgschema.SourceFromBytes("inline.tl", []byte(raw)), []byte(raw))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	file, err := schemaparser.New(pkgschema.NewParserOptions()).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	schema, err := pkgmodel.NewBuilder().Build(context.Background(), file)
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	if err := ident.Resolve(context.Background(), schema); err != nil {
		t.Fatalf("resolve ids: %v", err)
	}
	return schema
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
