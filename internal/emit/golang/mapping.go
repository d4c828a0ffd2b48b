package golang

import (
	"fmt"

	"github.com/goliatone/go-tlgen/pkg/model"
)

// goType maps a resolved type reference onto its Go spelling.
func goType(ref model.TypeRef) (string, error) {
	switch ref.Kind {
	case model.RefPrimitive:
		switch ref.Primitive {
		case model.PrimitiveInt:
			return "int32", nil
		case model.PrimitiveLong:
			return "int64", nil
		case model.PrimitiveInt128:
			return "[16]byte", nil
		case model.PrimitiveInt256:
			return "[32]byte", nil
		case model.PrimitiveDouble:
			return "float64", nil
		case model.PrimitiveString:
			return "string", nil
		case model.PrimitiveBytes:
			return "[]byte", nil
		case model.PrimitiveBool, model.PrimitiveTrue:
			return "bool", nil
		case model.PrimitiveFlags:
			return "tl.Flags", nil
		}
		return "", fmt.Errorf("golang: unmapped primitive %q", ref.Primitive)
	case model.RefVector:
		item, err := goType(*ref.Item)
		if err != nil {
			return "", err
		}
		return "[]" + item, nil
	case model.RefConstructor:
		ns, name := splitQualified(ref.Name)
		return "*" + entityName(ns, name), nil
	case model.RefBase:
		ns, name := splitQualified(ref.Name)
		return unionName(ns, name), nil
	case model.RefGeneric:
		return "tl.Object", nil
	}
	return "", fmt.Errorf("golang: unmapped type reference kind %q", ref.Kind)
}

// conditionalGoType wraps a field's Go type for flags-conditional storage:
// scalars become pointers so absence is distinguishable from the zero value,
// reference types stay nilable as they are.
func conditionalGoType(ref model.TypeRef) (string, error) {
	base, err := goType(ref)
	if err != nil {
		return "", err
	}
	if ref.Kind == model.RefPrimitive {
		switch ref.Primitive {
		case model.PrimitiveTrue:
			// Presence only; the bit itself is the value.
			return "bool", nil
		case model.PrimitiveBytes:
			return base, nil
		default:
			return "*" + base, nil
		}
	}
	return base, nil
}

// pointerWrapped reports whether conditional storage for the ref uses an
// explicit pointer (and therefore needs deref on encode, address-of on
// decode).
func pointerWrapped(ref model.TypeRef) bool {
	if ref.Kind != model.RefPrimitive {
		return false
	}
	switch ref.Primitive {
	case model.PrimitiveTrue, model.PrimitiveBytes:
		return false
	default:
		return true
	}
}

// unionName builds the exported interface name for a base type. The "Union"
// suffix keeps it distinct from constructors whose name differs only in
// case (messages.dialogs vs messages.Dialogs).
func unionName(namespace, name string) string {
	return entityName(namespace, name) + "Union"
}
