package ident_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-tlgen/internal/ident"
	"github.com/goliatone/go-tlgen/internal/schema/parser"
	pkgmodel "github.com/goliatone/go-tlgen/pkg/model"
	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

func parseOne(t *testing.T, text string) pkgschema.Declaration {
	t.Helper()

	doc := pkgschema.MustNewDocument(pkgschema.SourceFromBytes("one.tl", []byte(text)), []byte(text))
	file, err := parser.New(pkgschema.NewParserOptions()).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	decls := file.Declarations()
	if len(decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(decls))
	}
	return decls[0]
}

// The expected values below are the published constructor ids of the
// upstream protocol schema; matching them is a bit-exact interoperability
// requirement, not an internal convention.
func TestCompute_OfficialIDs(t *testing.T) {
	cases := []struct {
		text string
		want uint32
	}{
		{"boolFalse = Bool;", 0xbc799737},
		{"boolTrue = Bool;", 0x997275b5},
		{"null = Null;", 0x56730bcc},
		{"error code:int text:string = Error;", 0xc4b9f9bb},
		{"resPQ nonce:int128 server_nonce:int128 pq:bytes server_public_key_fingerprints:Vector<long> = ResPQ;", 0x05162463},
		{"future_salts req_msg_id:long now:int salts:vector<future_salt> = FutureSalts;", 0xae500895},
		{"msg_container messages:vector<%Message> = MessageContainer;", 0x73f1f8dc},
		{"rpc_answer_dropped_running = RpcDropAnswer;", 0xcd78e586},
		{"dcOption flags:# ipv6:flags.0?true media_only:flags.1?true tcpo_only:flags.2?true cdn:flags.3?true static:flags.4?true this_port_only:flags.5?true force_try_ipv6:flags.14?true id:int ip_address:string port:int secret:flags.10?bytes = DcOption;", 0x18b7a10d},
		{"invokeAfterMsg {X:Type} msg_id:long query:!X = X;", 0xcb9f372d},
	}

	for _, tc := range cases {
		decl := parseOne(t, tc.text)
		if got := ident.Compute(decl); got != tc.want {
			t.Errorf("%s: computed 0x%08x, want 0x%08x (signature %q)",
				decl.QualifiedName(), got, tc.want, ident.CanonicalSignature(decl))
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	decl := parseOne(t, "error code:int text:string = Error;")
	first := ident.Compute(decl)
	for i := 0; i < 3; i++ {
		if got := ident.Compute(decl); got != first {
			t.Fatalf("id changed between runs: 0x%08x != 0x%08x", got, first)
		}
	}
}

func buildSchema(t *testing.T, text string) *pkgmodel.Schema {
	t.Helper()

	doc := pkgschema.MustNewDocument(pkgschema.SourceFromBytes("schema.tl", []byte(text)), []byte(text))
	file, err := parser.New(pkgschema.NewParserOptions()).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	schema, err := pkgmodel.NewBuilder().Build(context.Background(), file)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return schema
}

func TestResolve_FillsMissingIDs(t *testing.T) {
	schema := buildSchema(t, "boolFalse = Bool;\nboolTrue = Bool;")

	if err := ident.Resolve(context.Background(), schema); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if schema.Constructors[0].ID != 0xbc799737 {
		t.Fatalf("boolFalse resolved to 0x%08x", schema.Constructors[0].ID)
	}
	if schema.Constructors[1].ID != 0x997275b5 {
		t.Fatalf("boolTrue resolved to 0x%08x", schema.Constructors[1].ID)
	}
}

func TestResolve_MismatchIsFatal(t *testing.T) {
	schema := buildSchema(t, "boolFalse#deadbeef = Bool;")

	err := ident.Resolve(context.Background(), schema)
	var mismatch *ident.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.Explicit != 0xdeadbeef || mismatch.Computed != 0xbc799737 {
		t.Fatalf("unexpected detail %+v", mismatch)
	}
}

func TestResolve_DuplicateIsFatal(t *testing.T) {
	// Two declarations with identical signatures collapse to one checksum.
	schema := buildSchema(t, "boolFalse#bc799737 = Bool;\nboolFalse = Bool;")

	err := ident.Resolve(context.Background(), schema)
	var dup *ident.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dup.ID != 0xbc799737 {
		t.Fatalf("unexpected detail %+v", dup)
	}
}
