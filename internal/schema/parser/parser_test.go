package parser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tlgen/internal/schema/parser"
	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

const sampleSchema = `// LAYER 181

---types---

inputPeerEmpty#7f3b18ea = InputPeer;
inputPeerSelf#7da07ec9 = InputPeer;

message#38116ee0 flags:# out:flags.1?true id:int message:string views:flags.10?int = Message;

updates.state#a56c2a3e pts:int qts:int date:int seq:int unread_count:int = updates.State;

---functions---

invokeWithLayer#da9b0d0d {X:Type} layer:int query:!X = X;

messages.getHistory#4423e6c5 peer:InputPeer limit:int = messages.Messages;
`

func parseText(t *testing.T, text string, options ...pkgschema.ParserOption) pkgschema.File {
	t.Helper()

	doc := pkgschema.MustNewDocument(pkgschema.SourceFromBytes("test.tl", []byte(text)), []byte(text))
	file, err := parser.New(pkgschema.NewParserOptions(options...)).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return file
}

func TestParser_Sections(t *testing.T) {
	file := parseText(t, sampleSchema)

	if file.Layer != 181 {
		t.Fatalf("expected layer 181, got %d", file.Layer)
	}
	if got := len(file.Types); got != 4 {
		t.Fatalf("expected 4 type declarations, got %d", got)
	}
	if got := len(file.Functions); got != 2 {
		t.Fatalf("expected 2 function declarations, got %d", got)
	}

	state := file.Types[3]
	if state.Namespace != "updates" || state.Name != "state" {
		t.Fatalf("unexpected qualified name %q", state.QualifiedName())
	}
	if !state.HasID || state.ID != 0xa56c2a3e {
		t.Fatalf("unexpected id %#x (has=%v)", state.ID, state.HasID)
	}
	if state.Result != "updates.State" {
		t.Fatalf("unexpected result %q", state.Result)
	}
}

func TestParser_FieldOrderPreserved(t *testing.T) {
	file := parseText(t, sampleSchema)

	msg := file.Types[2]
	want := []pkgschema.Param{
		{Name: "flags", Type: "#", ConditionBit: -1},
		{Name: "out", Type: "flags.1?true", ConditionField: "flags", ConditionBit: 1},
		{Name: "id", Type: "int", ConditionBit: -1},
		{Name: "message", Type: "string", ConditionBit: -1},
		{Name: "views", Type: "flags.10?int", ConditionField: "flags", ConditionBit: 10},
	}
	if diff := cmp.Diff(want, msg.Params); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
	if got := msg.Params[4].BareType(); got != "int" {
		t.Fatalf("expected bare type int, got %q", got)
	}
}

func TestParser_Generic(t *testing.T) {
	file := parseText(t, sampleSchema)

	invoke := file.Functions[0]
	if !invoke.Generic() || invoke.GenericArg != "X" {
		t.Fatalf("expected generic arg X, got %q", invoke.GenericArg)
	}
	if invoke.Params[1].Type != "!X" {
		t.Fatalf("expected !X query param, got %q", invoke.Params[1].Type)
	}
}

func TestParser_BareReferenceInsideVector(t *testing.T) {
	file := parseText(t, "msg_container#73f1f8dc messages:vector<%Message> = MessageContainer;")

	container := file.Types[0]
	if got := container.Params[0].Type; got != "vector<%Message>" {
		t.Fatalf("expected %%Message reference preserved, got %q", got)
	}
}

func TestParser_SyntaxErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		line int
	}{
		{name: "unterminated", text: "---types---\nuser#d3bc4b7a id:long = User", line: 2},
		{name: "missing result", text: "user#d3bc4b7a id:long;", line: 1},
		{name: "bad flag bit", text: "msg flags:# body:flags.32?string = Msg;", line: 1},
		{name: "non numeric flag bit", text: "msg flags:# body:flags.x?string = Msg;", line: 1},
		{name: "bad field", text: "user#d3bc4b7a id: = User;", line: 1},
		{name: "bad type ref", text: "user id:lo!!ng = User;", line: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := pkgschema.MustNewDocument(pkgschema.SourceFromBytes("bad.tl", []byte(tc.text)), []byte(tc.text))
			_, err := parser.New(pkgschema.NewParserOptions()).Parse(context.Background(), doc)

			var syntaxErr *pkgschema.SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
			if syntaxErr.Line != tc.line {
				t.Fatalf("expected error on line %d, got %d (%v)", tc.line, syntaxErr.Line, err)
			}
		})
	}
}

func TestParser_RequireLayer(t *testing.T) {
	text := "user#d3bc4b7a id:long = User;"
	doc := pkgschema.MustNewDocument(pkgschema.SourceFromBytes("nolayer.tl", []byte(text)), []byte(text))

	_, err := parser.New(pkgschema.NewParserOptions(pkgschema.WithRequiredLayer(true))).Parse(context.Background(), doc)
	var syntaxErr *pkgschema.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError for missing layer, got %v", err)
	}
}
