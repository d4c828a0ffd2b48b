package golang

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-tlgen/pkg/model"
	pkgschema "github.com/goliatone/go-tlgen/pkg/schema"
)

// fieldView is one struct field of a generated entity.
type fieldView struct {
	GoName     string
	GoType     string
	SchemaName string
	SchemaType string
}

// entityView is one generated entity with its precomputed method bodies.
type entityView struct {
	GoName      string
	SchemaName  string
	HexID       string
	Function    bool
	UnionGoName string
	Fields      []fieldView
	EncodeLines []string
	DecodeLines []string
}

// namespaceView groups entities sharing a namespace into output files.
type namespaceView struct {
	Namespace string
	Stem      string
	Types     []entityView
	Functions []entityView
}

// variantView is one union member.
type variantView struct {
	GoName     string
	SchemaName string
	HexID      string
}

// unionView is one base type rendered as a closed interface plus dispatch.
type unionView struct {
	GoName     string
	SchemaName string
	Variants   []variantView
}

// schemaView is the full deterministic rendering input: namespaces sorted by
// name (root first), entities in declaration order, unions sorted by
// namespace then first appearance.
type schemaView struct {
	Layer      int
	Namespaces []namespaceView
	Unions     []unionView
	Registered []variantView
}

func buildView(schema *model.Schema) (*schemaView, error) {
	byNS := make(map[string]*namespaceView)
	order := []string{}

	ns := func(name string) *namespaceView {
		view, ok := byNS[name]
		if !ok {
			view = &namespaceView{Namespace: name, Stem: fileStem(name)}
			byNS[name] = view
			order = append(order, name)
		}
		return view
	}

	for _, ctor := range schema.Constructors {
		entity, err := buildEntity(schema, ctor)
		if err != nil {
			return nil, err
		}
		view := ns(ctor.Namespace)
		view.Types = append(view.Types, entity)
	}
	for _, ctor := range schema.Functions {
		entity, err := buildEntity(schema, ctor)
		if err != nil {
			return nil, err
		}
		view := ns(ctor.Namespace)
		view.Functions = append(view.Functions, entity)
	}

	// Deterministic file order regardless of declaration interleaving.
	sort.Strings(order)

	out := &schemaView{Layer: schema.Layer}
	for _, name := range order {
		out.Namespaces = append(out.Namespaces, *byNS[name])
	}

	unions := append([]*model.BaseType(nil), schema.BaseTypes...)
	sort.SliceStable(unions, func(i, j int) bool {
		return unions[i].Namespace < unions[j].Namespace
	})
	for _, base := range unions {
		uns, uname := base.Namespace, base.Name
		view := unionView{
			GoName:     unionName(uns, uname),
			SchemaName: base.QualifiedName(),
		}
		for _, ctor := range base.Constructors {
			view.Variants = append(view.Variants, variantView{
				GoName:     entityName(ctor.Namespace, ctor.Name),
				SchemaName: ctor.QualifiedName(),
				HexID:      fmt.Sprintf("0x%08x", ctor.ID),
			})
		}
		out.Unions = append(out.Unions, view)
	}

	// Registration order: namespace, then declared order, types before
	// functions, so repeated generation is byte-identical.
	for _, nsView := range out.Namespaces {
		for _, entity := range nsView.Types {
			out.Registered = append(out.Registered, variantView{GoName: entity.GoName, SchemaName: entity.SchemaName, HexID: entity.HexID})
		}
		for _, entity := range nsView.Functions {
			out.Registered = append(out.Registered, variantView{GoName: entity.GoName, SchemaName: entity.SchemaName, HexID: entity.HexID})
		}
	}

	return out, nil
}

func buildEntity(schema *model.Schema, ctor *model.Constructor) (entityView, error) {
	entity := entityView{
		GoName:     entityName(ctor.Namespace, ctor.Name),
		SchemaName: ctor.QualifiedName(),
		HexID:      fmt.Sprintf("0x%08x", ctor.ID),
		Function:   ctor.Section == pkgschema.SectionFunctions,
	}
	if ctor.BaseType != "" {
		bns, bname := splitQualified(ctor.BaseType)
		entity.UnionGoName = unionName(bns, bname)
	}

	for _, f := range ctor.Fields {
		if isFlagsField(f) {
			continue
		}
		var (
			typ string
			err error
		)
		if f.Conditional() {
			typ, err = conditionalGoType(f.Type)
		} else {
			typ, err = goType(f.Type)
		}
		if err != nil {
			return entityView{}, fmt.Errorf("golang: %s: field %s: %w", ctor.QualifiedName(), f.Name, err)
		}
		entity.Fields = append(entity.Fields, fieldView{
			GoName:     exported(f.Name),
			GoType:     typ,
			SchemaName: f.Name,
			SchemaType: rawFieldType(ctor, f),
		})
	}

	encode, err := encodeLines(ctor)
	if err != nil {
		return entityView{}, err
	}
	decode, err := decodeLines(ctor)
	if err != nil {
		return entityView{}, err
	}
	entity.EncodeLines = encode
	entity.DecodeLines = decode
	return entity, nil
}

func rawFieldType(ctor *model.Constructor, f model.Field) string {
	for _, p := range ctor.Raw.Params {
		if p.Name == f.Name {
			return p.Type
		}
	}
	return ""
}
