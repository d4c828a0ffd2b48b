package generate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-tlgen/pkg/generate"
	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
	"github.com/goliatone/go-tlgen/pkg/testsupport"
)

const generatorSchema = `// LAYER 181
boolTrue#997275b5 = Bool;
boolFalse#bc799737 = Bool;
ipPort ipv4:int port:int = IpPort;

---functions---

ping ping_id:long = Bool;
`

func inlineDocument(t *testing.T, raw string) *pkgschema.Document {
	t.Helper()
	doc, err := pkgschema.NewDocument(pkgschema.SourceFromBytes("inline.tl", []byte(raw)), []byte(raw))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return &doc
}

func TestRun_PublishesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "generated")

	result, err := generate.New().Run(testsupport.Context(), generate.Request{
		Document:  inlineDocument(t, generatorSchema),
		OutputDir: out,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Outcome != generate.OutcomeRegenerated {
		t.Fatalf("outcome = %v, want regenerated", result.Outcome)
	}
	if result.Layer != 181 {
		t.Fatalf("layer = %d, want 181", result.Layer)
	}

	for _, name := range []string{"root_types.go", "root_functions.go", "registry.go", generate.ManifestName} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("published tree missing %s: %v", name, err)
		}
	}
}

func TestRun_UnchangedInputIsNoOp(t *testing.T) {
	out := filepath.Join(t.TempDir(), "generated")
	gen := generate.New()

	first, err := gen.Run(testsupport.Context(), generate.Request{
		Document:  inlineDocument(t, generatorSchema),
		OutputDir: out,
	})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Outcome != generate.OutcomeRegenerated {
		t.Fatalf("first outcome = %v", first.Outcome)
	}

	before, err := os.Stat(filepath.Join(out, "registry.go"))
	if err != nil {
		t.Fatalf("stat registry: %v", err)
	}

	second, err := gen.Run(testsupport.Context(), generate.Request{
		Document:  inlineDocument(t, generatorSchema),
		OutputDir: out,
	})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Outcome != generate.OutcomeUnchanged {
		t.Fatalf("second outcome = %v, want unchanged", second.Outcome)
	}

	after, err := os.Stat(filepath.Join(out, "registry.go"))
	if err != nil {
		t.Fatalf("stat registry: %v", err)
	}
	if !before.ModTime().Equal(after.ModTime()) {
		t.Fatal("unchanged run must not rewrite published files")
	}
}

func TestRun_SchemaChangeRegenerates(t *testing.T) {
	out := filepath.Join(t.TempDir(), "generated")
	gen := generate.New()

	if _, err := gen.Run(testsupport.Context(), generate.Request{
		Document:  inlineDocument(t, generatorSchema),
		OutputDir: out,
	}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	grown := generatorSchema + "pong msg_id:long = Bool;\n"
	result, err := gen.Run(testsupport.Context(), generate.Request{
		Document:  inlineDocument(t, grown),
		OutputDir: out,
	})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Outcome != generate.OutcomeRegenerated {
		t.Fatalf("outcome = %v, want regenerated", result.Outcome)
	}

	functions := testsupport.MustReadGoldenString(t, filepath.Join(out, "root_functions.go"))
	if !strings.Contains(functions, "type Pong struct") {
		t.Fatalf("regenerated output missing new declaration:\n%s", functions)
	}
}

func TestRun_CheckOnlyWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "generated")

	result, err := generate.New().Run(testsupport.Context(), generate.Request{
		Document:  inlineDocument(t, generatorSchema),
		OutputDir: out,
		CheckOnly: true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Outcome != generate.OutcomeRegenerated {
		t.Fatalf("outcome = %v, want regenerated", result.Outcome)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("check mode must not create the output tree, stat err = %v", err)
	}
}

func TestRun_FailureLeavesOutputIntact(t *testing.T) {
	out := filepath.Join(t.TempDir(), "generated")
	gen := generate.New()

	if _, err := gen.Run(testsupport.Context(), generate.Request{
		Document:  inlineDocument(t, generatorSchema),
		OutputDir: out,
	}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	before := testsupport.MustReadGolden(t, filepath.Join(out, "registry.go"))

	result, err := gen.Run(testsupport.Context(), generate.Request{
		Document:  inlineDocument(t, "// LAYER 181\nbroken garbage without terminator"),
		OutputDir: out,
	})
	if err == nil {
		t.Fatal("want parse failure")
	}
	if result.Outcome != generate.OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", result.Outcome)
	}

	after := testsupport.MustReadGolden(t, filepath.Join(out, "registry.go"))
	if string(before) != string(after) {
		t.Fatal("failed run must not touch published output")
	}
}

func TestRun_DanglingConditionNeverPublishes(t *testing.T) {
	out := filepath.Join(t.TempDir(), "generated")

	result, err := generate.New().Run(testsupport.Context(), generate.Request{
		Document:  inlineDocument(t, "// LAYER 181\nbroken a:flags.0?int = Broken;"),
		OutputDir: out,
	})
	if err == nil {
		t.Fatal("a field gated by a missing bitmask must fail the run")
	}
	if result.Outcome != generate.OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", result.Outcome)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("failed run must not create the output tree, stat err = %v", statErr)
	}
}

func TestRun_ErrorTableArtifact(t *testing.T) {
	out := filepath.Join(t.TempDir(), "generated")

	result, err := generate.New().Run(testsupport.Context(), generate.Request{
		Document:  inlineDocument(t, generatorSchema),
		OutputDir: out,
		ErrorsFS: fstest.MapFS{
			"420_FLOOD.tsv": &fstest.MapFile{
				Data: []byte("id\tmessage\nFLOOD_WAIT_X\tWait {value} seconds\n"),
			},
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Outcome != generate.OutcomeRegenerated {
		t.Fatalf("outcome = %v", result.Outcome)
	}

	errorsFile := testsupport.MustReadGoldenString(t, filepath.Join(out, "errors.go"))
	if !strings.Contains(errorsFile, "errtable.MustCompile") {
		t.Fatalf("errors artifact malformed:\n%s", errorsFile)
	}
}

func TestRun_LoadsFromSourceFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "api.tl")
	if err := os.WriteFile(schemaPath, []byte(generatorSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	result, err := generate.New().Run(testsupport.Context(), generate.Request{
		Source:    pkgschema.SourceFromFile(schemaPath),
		OutputDir: filepath.Join(dir, "generated"),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Layer != 181 {
		t.Fatalf("layer = %d, want 181", result.Layer)
	}
}

func TestOutcome_ExitCodes(t *testing.T) {
	cases := map[generate.Outcome]int{
		generate.OutcomeUnchanged:   0,
		generate.OutcomeRegenerated: 2,
		generate.OutcomeFailed:      1,
	}
	for outcome, want := range cases {
		if got := outcome.ExitCode(); got != want {
			t.Fatalf("%v exit code = %d, want %d", outcome, got, want)
		}
	}
}

func TestConfig_Merge(t *testing.T) {
	base := generate.Config{
		Schema:   "api.tl",
		Output:   "generated",
		Renderer: "go",
		Package:  "raw",
	}
	merged := base.Merge(generate.Config{Output: "elsewhere", Errors: "errors"})

	if merged.Output != "elsewhere" {
		t.Fatalf("output = %q, want override to win", merged.Output)
	}
	if merged.Schema != "api.tl" || merged.Renderer != "go" || merged.Package != "raw" {
		t.Fatalf("base fields lost: %+v", merged)
	}
	if merged.Errors != "errors" {
		t.Fatalf("errors = %q", merged.Errors)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tlgen.yaml")
	payload := "schema: api.tl\noutput: generated\npackage: raw\nruntime_import: example.com/proto/tl\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := generate.LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Schema != "api.tl" || cfg.Output != "generated" || cfg.Package != "raw" {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.RuntimeImport != "example.com/proto/tl" {
		t.Fatalf("runtime import = %q", cfg.RuntimeImport)
	}
}
