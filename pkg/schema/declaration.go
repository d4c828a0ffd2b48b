package schema

import "strings"

// Section identifies which half of a TL schema a declaration came from.
type Section string

const (
	// SectionTypes holds type constructors (`---types---`).
	SectionTypes Section = "types"
	// SectionFunctions holds RPC method declarations (`---functions---`).
	SectionFunctions Section = "functions"
)

// Param is one raw field of a declaration, in declared (wire) order.
type Param struct {
	// Name is the field name as written in the schema.
	Name string
	// Type is the raw type string, e.g. "long", "Vector<int>", "!X" or
	// "flags.2?string".
	Type string
	// ConditionField names the bitmask parameter gating this field, empty
	// for unconditional fields.
	ConditionField string
	// ConditionBit is the flag bit index, -1 for unconditional fields.
	ConditionBit int
}

// Conditional reports whether the param is gated by a flags bit.
func (p Param) Conditional() bool {
	return p.ConditionField != ""
}

// BareType returns the type string with any flags condition stripped.
func (p Param) BareType() string {
	if !p.Conditional() {
		return p.Type
	}
	if idx := strings.Index(p.Type, "?"); idx >= 0 {
		return p.Type[idx+1:]
	}
	return p.Type
}

// Declaration is one raw schema entry, either a type constructor or a
// function. Field order is wire order and is never normalized.
type Declaration struct {
	Section Section
	// Line is the 1-based source line, kept for diagnostics.
	Line int
	// Namespace is the optional dotted qualifier ("messages" in
	// "messages.getHistory"), empty for the root namespace.
	Namespace string
	// Name is the bare combinator name without namespace.
	Name string
	// ID is the explicit 32-bit constructor id from the `#hex` suffix.
	// Valid only when HasID is true; otherwise the resolver derives it.
	ID uint32
	// HasID records whether the schema text spelled an explicit id.
	HasID bool
	// GenericArg is the type-parameter placeholder name for generic
	// declarations such as `invokeWithLayer {X:Type} ...`, empty otherwise.
	GenericArg string
	// Params are the ordered fields.
	Params []Param
	// Result is the raw result type for functions, or the base type the
	// constructor belongs to for type declarations.
	Result string
}

// QualifiedName returns "namespace.name" or just the name when the
// declaration lives in the root namespace.
func (d Declaration) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// Generic reports whether the declaration is parametrized over a boxed type.
func (d Declaration) Generic() bool {
	return d.GenericArg != ""
}

// File is the parser output: the ordered declarations of both sections plus
// the layer marker extracted from the schema text.
type File struct {
	// Layer is the value of the `// LAYER N` marker line, 0 when absent.
	Layer int
	// Types are the constructor declarations in source order.
	Types []Declaration
	// Functions are the method declarations in source order.
	Functions []Declaration
}

// Declarations returns both sections concatenated, types first, preserving
// source order inside each section.
func (f File) Declarations() []Declaration {
	out := make([]Declaration, 0, len(f.Types)+len(f.Functions))
	out = append(out, f.Types...)
	out = append(out, f.Functions...)
	return out
}
