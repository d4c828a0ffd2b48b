package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

// Parser implements pkgschema.Parser for the TL text grammar:
//
//	name#hexid field1:type1 field2:type2 ... = ResultType;
//
// with `---types---` / `---functions---` section separators, `//` comments,
// and a `// LAYER N` marker line.
type Parser struct {
	options pkgschema.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgschema.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgschema.ParserOptions) pkgschema.Parser {
	return &Parser{options: options}
}

var (
	layerRe      = regexp.MustCompile(`//\s*LAYER\s+(\d+)`)
	sectionRe    = regexp.MustCompile(`^---(\w+)---$`)
	combinatorRe = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_]*)(?:\.([a-zA-Z][a-zA-Z0-9_]*))?(?:#([0-9a-fA-F]{1,8}))?$`)
	paramNameRe  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	conditionRe  = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_]*)\.(\d+)\?(.+)$`)
	genericArgRe = regexp.MustCompile(`^\{([a-zA-Z][a-zA-Z0-9_]*):Type\}$`)
	typeRefRe    = regexp.MustCompile(`^[!%]?[a-zA-Z#][a-zA-Z0-9_.<>%]*$`)
)

// Parse reads the document into ordered raw declarations, preserving field
// order exactly; order determines wire byte order.
func (p *Parser) Parse(ctx context.Context, doc pkgschema.Document) (pkgschema.File, error) {
	if err := ctx.Err(); err != nil {
		return pkgschema.File{}, err
	}

	raw := doc.Raw()
	if len(raw) == 0 {
		return pkgschema.File{}, &pkgschema.SyntaxError{Line: 1, Reason: "schema document is empty"}
	}

	var (
		file        pkgschema.File
		section     = pkgschema.SectionTypes
		sectionSeen = false
		pending     strings.Builder
		pendingLine int
	)

	lines := strings.Split(string(raw), "\n")
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "//") {
			if m := layerRe.FindStringSubmatch(trimmed); m != nil {
				layer, err := strconv.Atoi(m[1])
				if err != nil || layer <= 0 {
					return pkgschema.File{}, &pkgschema.SyntaxError{Line: lineNo, Token: m[1], Reason: "invalid layer marker"}
				}
				file.Layer = layer
			}
			continue
		}

		if m := sectionRe.FindStringSubmatch(trimmed); m != nil {
			if pending.Len() > 0 {
				return pkgschema.File{}, &pkgschema.SyntaxError{Line: pendingLine, Reason: "unterminated declaration"}
			}
			switch m[1] {
			case "types":
				section = pkgschema.SectionTypes
			case "functions":
				section = pkgschema.SectionFunctions
			default:
				return pkgschema.File{}, &pkgschema.SyntaxError{Line: lineNo, Token: trimmed, Reason: "unknown section separator"}
			}
			sectionSeen = true
			continue
		}

		if pending.Len() == 0 {
			pendingLine = lineNo
		} else {
			pending.WriteByte(' ')
		}
		pending.WriteString(trimmed)

		if !strings.HasSuffix(trimmed, ";") {
			continue
		}

		decl, err := parseDeclaration(pending.String(), pendingLine, section)
		if err != nil {
			return pkgschema.File{}, err
		}
		pending.Reset()

		switch section {
		case pkgschema.SectionFunctions:
			file.Functions = append(file.Functions, decl)
		default:
			file.Types = append(file.Types, decl)
		}
	}

	if pending.Len() > 0 {
		return pkgschema.File{}, &pkgschema.SyntaxError{Line: pendingLine, Reason: "unterminated declaration"}
	}
	if p.options.RequireLayer && file.Layer == 0 {
		return pkgschema.File{}, &pkgschema.SyntaxError{Line: len(lines), Reason: "missing layer marker"}
	}
	if !sectionSeen && !p.options.AllowMissingSections {
		return pkgschema.File{}, &pkgschema.SyntaxError{Line: 1, Reason: "missing section separators"}
	}

	return file, nil
}

// parseDeclaration parses one semicolon-terminated declaration.
func parseDeclaration(text string, line int, section pkgschema.Section) (pkgschema.Declaration, error) {
	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))
	if body == "" {
		return pkgschema.Declaration{}, &pkgschema.SyntaxError{Line: line, Reason: "empty declaration"}
	}

	eq := strings.LastIndex(body, "=")
	if eq < 0 {
		return pkgschema.Declaration{}, &pkgschema.SyntaxError{Line: line, Token: body, Reason: "declaration has no result type"}
	}

	lhs := strings.Fields(strings.TrimSpace(body[:eq]))
	result := strings.TrimSpace(body[eq+1:])
	if len(lhs) == 0 {
		return pkgschema.Declaration{}, &pkgschema.SyntaxError{Line: line, Reason: "declaration has no combinator name"}
	}
	if result == "" {
		return pkgschema.Declaration{}, &pkgschema.SyntaxError{Line: line, Token: body, Reason: "empty result type"}
	}

	m := combinatorRe.FindStringSubmatch(lhs[0])
	if m == nil {
		return pkgschema.Declaration{}, &pkgschema.SyntaxError{Line: line, Token: lhs[0], Reason: "malformed combinator name"}
	}

	decl := pkgschema.Declaration{
		Section: section,
		Line:    line,
		Result:  result,
	}
	if m[2] != "" {
		decl.Namespace, decl.Name = m[1], m[2]
	} else {
		decl.Name = m[1]
	}
	if m[3] != "" {
		id, err := strconv.ParseUint(m[3], 16, 32)
		if err != nil {
			return pkgschema.Declaration{}, &pkgschema.SyntaxError{Line: line, Token: lhs[0], Reason: "malformed constructor id"}
		}
		decl.ID = uint32(id)
		decl.HasID = true
	}

	for _, tok := range lhs[1:] {
		if g := genericArgRe.FindStringSubmatch(tok); g != nil {
			if decl.GenericArg != "" {
				return pkgschema.Declaration{}, &pkgschema.SyntaxError{Line: line, Token: tok, Reason: "multiple generic arguments"}
			}
			if len(decl.Params) > 0 {
				return pkgschema.Declaration{}, &pkgschema.SyntaxError{Line: line, Token: tok, Reason: "generic argument must precede fields"}
			}
			decl.GenericArg = g[1]
			continue
		}

		param, err := parseParam(tok, line)
		if err != nil {
			return pkgschema.Declaration{}, err
		}
		decl.Params = append(decl.Params, param)
	}

	return decl, nil
}

// parseParam parses a single `name:type` token, including the
// `name:flags.N?Type` conditional form.
func parseParam(tok string, line int) (pkgschema.Param, error) {
	colon := strings.Index(tok, ":")
	if colon <= 0 || colon == len(tok)-1 {
		return pkgschema.Param{}, &pkgschema.SyntaxError{Line: line, Token: tok, Reason: "malformed field, want name:type"}
	}

	name := tok[:colon]
	typ := tok[colon+1:]
	if !paramNameRe.MatchString(name) {
		return pkgschema.Param{}, &pkgschema.SyntaxError{Line: line, Token: tok, Reason: "malformed field name"}
	}

	param := pkgschema.Param{Name: name, Type: typ, ConditionBit: -1}

	if strings.Contains(typ, "?") {
		c := conditionRe.FindStringSubmatch(typ)
		if c == nil {
			return pkgschema.Param{}, &pkgschema.SyntaxError{Line: line, Token: tok, Reason: "malformed flags condition, want field:flags.N?Type"}
		}
		bit, err := strconv.Atoi(c[2])
		if err != nil || bit < 0 || bit > 31 {
			return pkgschema.Param{}, &pkgschema.SyntaxError{Line: line, Token: tok, Reason: "flags bit index must be in [0, 31]"}
		}
		if !typeRefRe.MatchString(c[3]) {
			return pkgschema.Param{}, &pkgschema.SyntaxError{Line: line, Token: tok, Reason: "malformed conditional payload type"}
		}
		param.ConditionField = c[1]
		param.ConditionBit = bit
		return param, nil
	}

	if !typeRefRe.MatchString(typ) {
		return pkgschema.Param{}, &pkgschema.SyntaxError{Line: line, Token: tok, Reason: "malformed type reference"}
	}
	return param, nil
}
