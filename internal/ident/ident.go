// Package ident computes and validates the 32-bit constructor ids that tag
// every wire-level combinator. The id is the IEEE CRC32 of the declaration's
// canonical signature, the same checksum the protocol's official schema uses,
// so ids derived here interoperate with unmodified servers.
package ident

import (
	"context"
	"hash/crc32"
	"strings"
	"unicode"

	"github.com/goliatone/go-tlgen/internal/model"
	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

// CanonicalSignature builds the checksum input for a declaration:
//
//	name [generic] field:type ... = Result
//
// normalized as the upstream schema does it: the explicit `#id` and trailing
// `;` are absent, the generic argument appears without braces (`X:Type`),
// flag-gated `true` fields are dropped, `bytes` is spelled `string`, angle
// brackets become spaces (`Vector<long>` -> `Vector long`), and `%Name`
// references use the bare constructor spelling (`%Message` -> `message`).
// Verified against the published ids of boolFalse, error, resPQ, future_salts,
// msg_container, dcOption and invokeAfterMsg.
func CanonicalSignature(decl pkgschema.Declaration) string {
	var sb strings.Builder
	sb.WriteString(decl.QualifiedName())

	if decl.GenericArg != "" {
		sb.WriteByte(' ')
		sb.WriteString(decl.GenericArg)
		sb.WriteString(":Type")
	}

	for _, param := range decl.Params {
		if param.Conditional() && param.BareType() == "true" {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(param.Name)
		sb.WriteByte(':')
		sb.WriteString(normalizeType(param.Type))
	}

	sb.WriteString(" = ")
	sb.WriteString(normalizeType(decl.Result))
	return sb.String()
}

// Compute derives the constructor id for a declaration.
func Compute(decl pkgschema.Declaration) uint32 {
	return crc32.ChecksumIEEE([]byte(CanonicalSignature(decl)))
}

// normalizeType rewrites one raw type string into its canonical spelling.
func normalizeType(raw string) string {
	out := strings.ReplaceAll(raw, "<", " ")
	out = strings.ReplaceAll(out, ">", "")

	// %Name collapses to the bare constructor spelling.
	for {
		idx := strings.Index(out, "%")
		if idx < 0 || idx+1 >= len(out) {
			break
		}
		head := out[:idx]
		tail := out[idx+1:]
		out = head + lowerFirst(tail)
	}

	out = replaceWord(out, "bytes", "string")
	return out
}

// replaceWord substitutes whole type words, leaving identifiers that merely
// contain the word untouched.
func replaceWord(s, word, repl string) string {
	fields := strings.Split(s, " ")
	for i, f := range fields {
		switch {
		case f == word:
			fields[i] = repl
		case strings.HasSuffix(f, "?"+word):
			fields[i] = f[:len(f)-len(word)] + repl
		}
	}
	return strings.Join(fields, " ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Resolve fills in missing constructor ids and validates explicit ones
// against the recomputed checksum. It also enforces id uniqueness across the
// whole schema, both sections included.
func Resolve(ctx context.Context, schema *model.Schema) error {
	seen := make(map[uint32]string, len(schema.Constructors)+len(schema.Functions))

	for _, ctor := range schema.All() {
		if err := ctx.Err(); err != nil {
			return err
		}

		computed := Compute(ctor.Raw)
		if ctor.HasID {
			if ctor.ID != computed {
				return &MismatchError{
					Declaration: ctor.QualifiedName(),
					Line:        ctor.Line,
					Explicit:    ctor.ID,
					Computed:    computed,
				}
			}
		} else {
			ctor.ID = computed
		}

		if prev, dup := seen[ctor.ID]; dup {
			return &DuplicateError{ID: ctor.ID, First: prev, Second: ctor.QualifiedName()}
		}
		seen[ctor.ID] = ctor.QualifiedName()
	}

	return nil
}
