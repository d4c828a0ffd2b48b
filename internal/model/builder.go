package model

import (
	"context"
	"strings"

	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

// Builder resolves raw declarations into the typed object model.
type Builder struct{}

// New creates a Builder.
func New() *Builder {
	return &Builder{}
}

// Build runs the two resolution passes: first a name index over every
// declaration, then type-reference resolution for each parameter and result
// against that index. The returned Schema is a self-contained snapshot.
func (b *Builder) Build(ctx context.Context, file pkgschema.File) (*Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schema := &Schema{
		Layer:      file.Layer,
		byName:     make(map[string]*Constructor),
		baseByName: make(map[string]*BaseType),
	}

	// Pass 1: skeleton constructors plus the name and base-type indexes.
	for _, decl := range file.Types {
		ctor := newConstructor(decl)
		schema.Constructors = append(schema.Constructors, ctor)
		schema.byName[ctor.QualifiedName()] = ctor

		base, ok := schema.baseByName[decl.Result]
		if !ok {
			ns, name := splitQualified(decl.Result)
			base = &BaseType{Namespace: ns, Name: name}
			schema.baseByName[decl.Result] = base
			schema.BaseTypes = append(schema.BaseTypes, base)
		}
		base.Constructors = append(base.Constructors, ctor)
		ctor.BaseType = decl.Result
	}
	for _, decl := range file.Functions {
		ctor := newConstructor(decl)
		schema.Functions = append(schema.Functions, ctor)
		schema.byName[ctor.QualifiedName()] = ctor
	}

	// Pass 2: resolve every parameter and function result.
	for _, ctor := range schema.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := validateConditions(ctor); err != nil {
			return nil, err
		}
		for i := range ctor.Fields {
			ref, err := b.resolveRef(schema, ctor, ctor.Raw.Params[i].BareType())
			if err != nil {
				return nil, err
			}
			ctor.Fields[i].Type = ref
		}
		if ctor.Section == pkgschema.SectionFunctions {
			ref, err := b.resolveRef(schema, ctor, ctor.Raw.Result)
			if err != nil {
				return nil, err
			}
			ctor.Result = ref
		} else {
			ctor.Result = TypeRef{Kind: RefBase, Name: ctor.BaseType}
		}
	}

	return schema, nil
}

func newConstructor(decl pkgschema.Declaration) *Constructor {
	ctor := &Constructor{
		Section:    decl.Section,
		Namespace:  decl.Namespace,
		Name:       decl.Name,
		ID:         decl.ID,
		HasID:      decl.HasID,
		GenericArg: decl.GenericArg,
		Line:       decl.Line,
		Raw:        decl,
	}
	ctor.Fields = make([]Field, len(decl.Params))
	for i, p := range decl.Params {
		ctor.Fields[i] = Field{
			Name:           p.Name,
			ConditionField: p.ConditionField,
			ConditionBit:   p.ConditionBit,
		}
	}
	return ctor
}

// validateConditions checks every flags-conditional parameter against the
// bitmask it references: the `#` parameter must exist and must be declared
// before the gated field, or decoding could never have read it.
func validateConditions(ctor *Constructor) error {
	bitmask := make(map[string]int)
	for i, p := range ctor.Raw.Params {
		if p.Type == "#" {
			bitmask[p.Name] = i
		}
	}
	for i, p := range ctor.Raw.Params {
		if !p.Conditional() {
			continue
		}
		at, ok := bitmask[p.ConditionField]
		if !ok || at >= i {
			return &ConditionReferenceError{
				Declaration: ctor.QualifiedName(),
				Field:       p.Name,
				Condition:   p.ConditionField,
				Line:        ctor.Line,
			}
		}
	}
	return nil
}

// resolveRef maps a raw type string to its typed node. Primitives resolve
// immediately; named references resolve against the schema indexes.
func (b *Builder) resolveRef(schema *Schema, ctor *Constructor, raw string) (TypeRef, error) {
	switch raw {
	case "#":
		return TypeRef{Kind: RefPrimitive, Primitive: PrimitiveFlags}, nil
	case "int":
		return TypeRef{Kind: RefPrimitive, Primitive: PrimitiveInt}, nil
	case "long":
		return TypeRef{Kind: RefPrimitive, Primitive: PrimitiveLong}, nil
	case "int128":
		return TypeRef{Kind: RefPrimitive, Primitive: PrimitiveInt128}, nil
	case "int256":
		return TypeRef{Kind: RefPrimitive, Primitive: PrimitiveInt256}, nil
	case "double":
		return TypeRef{Kind: RefPrimitive, Primitive: PrimitiveDouble}, nil
	case "string":
		return TypeRef{Kind: RefPrimitive, Primitive: PrimitiveString}, nil
	case "bytes":
		return TypeRef{Kind: RefPrimitive, Primitive: PrimitiveBytes}, nil
	case "Bool":
		return TypeRef{Kind: RefPrimitive, Primitive: PrimitiveBool}, nil
	case "true":
		return TypeRef{Kind: RefPrimitive, Primitive: PrimitiveTrue}, nil
	}

	// Generic placeholders resolve to an "any boxed value" contract.
	if trimmed := strings.TrimPrefix(raw, "!"); ctor.GenericArg != "" && trimmed == ctor.GenericArg {
		return TypeRef{Kind: RefGeneric, Placeholder: ctor.GenericArg}, nil
	}

	if item, bare, ok := vectorItem(raw); ok {
		inner, err := b.resolveRef(schema, ctor, item)
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{Kind: RefVector, Item: &inner, Bare: bare}, nil
	}

	// `%Name` forces the bare layout of a single-constructor boxed type.
	if name, ok := strings.CutPrefix(raw, "%"); ok {
		if base, found := schema.baseByName[name]; found && len(base.Constructors) == 1 {
			return TypeRef{Kind: RefConstructor, Name: base.Constructors[0].QualifiedName(), Bare: true}, nil
		}
		if _, found := schema.byName[name]; found {
			return TypeRef{Kind: RefConstructor, Name: name, Bare: true}, nil
		}
		return TypeRef{}, &UnknownTypeReferenceError{Reference: raw, Declaration: ctor.QualifiedName(), Line: ctor.Line}
	}

	if _, found := schema.byName[raw]; found {
		return TypeRef{Kind: RefConstructor, Name: raw, Bare: true}, nil
	}
	if _, found := schema.baseByName[raw]; found {
		return TypeRef{Kind: RefBase, Name: raw}, nil
	}

	return TypeRef{}, &UnknownTypeReferenceError{Reference: raw, Declaration: ctor.QualifiedName(), Line: ctor.Line}
}

// vectorItem unwraps `Vector<T>` / `vector<T>`, reporting bareness.
func vectorItem(raw string) (item string, bare bool, ok bool) {
	switch {
	case strings.HasPrefix(raw, "Vector<") && strings.HasSuffix(raw, ">"):
		return raw[len("Vector<") : len(raw)-1], false, true
	case strings.HasPrefix(raw, "vector<") && strings.HasSuffix(raw, ">"):
		return raw[len("vector<") : len(raw)-1], true, true
	default:
		return "", false, false
	}
}

func splitQualified(qualified string) (namespace, name string) {
	if idx := strings.LastIndex(qualified, "."); idx >= 0 {
		return qualified[:idx], qualified[idx+1:]
	}
	return "", qualified
}
