package model

import pkgschema "github.com/goliatone/go-tlgen/pkg/schema"

// RefKind discriminates the resolved forms a parameter type can take.
type RefKind string

const (
	RefPrimitive   RefKind = "primitive"
	RefVector      RefKind = "vector"
	RefConstructor RefKind = "constructor"
	RefBase        RefKind = "base"
	RefGeneric     RefKind = "generic"
)

// Primitive enumerates the fixed wire-level scalar types.
type Primitive string

const (
	PrimitiveInt    Primitive = "int"
	PrimitiveLong   Primitive = "long"
	PrimitiveInt128 Primitive = "int128"
	PrimitiveInt256 Primitive = "int256"
	PrimitiveDouble Primitive = "double"
	PrimitiveBool   Primitive = "Bool"
	PrimitiveString Primitive = "string"
	PrimitiveBytes  Primitive = "bytes"
	// PrimitiveFlags is the `#` bitmask type, a plain uint32 on the wire.
	PrimitiveFlags Primitive = "#"
	// PrimitiveTrue occupies zero wire bytes; its value is the flag bit
	// itself.
	PrimitiveTrue Primitive = "true"
)

// TypeRef is a resolved parameter or result type. Exactly one shape is
// populated, selected by Kind.
type TypeRef struct {
	Kind RefKind

	// Primitive is set for RefPrimitive.
	Primitive Primitive
	// Item is the element type for RefVector.
	Item *TypeRef
	// Name is the qualified target for RefConstructor and RefBase.
	Name string
	// Bare marks layout-only references that carry no constructor id on
	// the wire (lowercase vector, `%Name` references, bare constructors).
	Bare bool
	// Placeholder is the generic argument name for RefGeneric.
	Placeholder string
}

// Field is one resolved parameter in declared wire order.
type Field struct {
	Name string
	Type TypeRef
	// ConditionField and ConditionBit gate flags-conditional fields; the
	// bit is -1 for unconditional fields.
	ConditionField string
	ConditionBit   int
}

// Conditional reports whether the field is gated by a flags bit.
func (f Field) Conditional() bool {
	return f.ConditionField != ""
}

// Constructor is a resolved concrete combinator: a type constructor or a
// function, tagged by its 32-bit id once the resolver has run.
type Constructor struct {
	Section   pkgschema.Section
	Namespace string
	Name      string
	// ID is the constructor id. Zero until the resolver fills it in for
	// declarations without an explicit id.
	ID uint32
	// HasID records whether the id came from the schema text.
	HasID bool
	// GenericArg names the type placeholder for generic functions.
	GenericArg string
	Fields     []Field
	// BaseType is the qualified union name this constructor belongs to;
	// empty for functions.
	BaseType string
	// Result is the resolved result type for functions.
	Result TypeRef
	// Line is the declaring source line, kept for diagnostics.
	Line int
	// Raw is the originating raw declaration, retained so the id resolver
	// can rebuild the canonical signature text.
	Raw pkgschema.Declaration
}

// QualifiedName returns "namespace.name" or the bare name for the root
// namespace.
func (c *Constructor) QualifiedName() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + "." + c.Name
}

// BaseType is an abstract union: a result-type name shared by one or more
// constructors. Decoding a base-type value reads the next constructor id off
// the wire and dispatches to the matching variant.
type BaseType struct {
	Namespace string
	Name      string
	// Constructors holds the variants in declaration order.
	Constructors []*Constructor
}

// QualifiedName returns "namespace.Name" or the bare name.
func (b *BaseType) QualifiedName() string {
	if b.Namespace == "" {
		return b.Name
	}
	return b.Namespace + "." + b.Name
}

// Schema is the immutable object model handed from the builder to the id
// resolver and emitter. Each pipeline stage receives a snapshot and never
// retains it past its own output.
type Schema struct {
	// Layer is the schema version extracted from the layer marker.
	Layer int
	// Constructors are the type-section combinators in source order.
	Constructors []*Constructor
	// Functions are the method combinators in source order.
	Functions []*Constructor
	// BaseTypes are the unions in order of first appearance.
	BaseTypes []*BaseType

	byName     map[string]*Constructor
	baseByName map[string]*BaseType
}

// Constructor looks up a concrete combinator by qualified name.
func (s *Schema) Constructor(qualified string) (*Constructor, bool) {
	c, ok := s.byName[qualified]
	return c, ok
}

// Base looks up a union by qualified name.
func (s *Schema) Base(qualified string) (*BaseType, bool) {
	b, ok := s.baseByName[qualified]
	return b, ok
}

// All returns constructors followed by functions, preserving source order
// inside each section.
func (s *Schema) All() []*Constructor {
	out := make([]*Constructor, 0, len(s.Constructors)+len(s.Functions))
	out = append(out, s.Constructors...)
	out = append(out, s.Functions...)
	return out
}
