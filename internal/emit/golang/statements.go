package golang

import (
	"fmt"

	"github.com/goliatone/go-tlgen/pkg/model"
)

// stmts collects generated statement lines with a shared temp-name counter.
type stmts struct {
	lines []string
	next  int
}

func (s *stmts) add(format string, args ...any) {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

func (s *stmts) indent(lines []string) {
	for _, l := range lines {
		s.lines = append(s.lines, "\t"+l)
	}
}

func (s *stmts) temp(prefix string) string {
	name := fmt.Sprintf("%s%d", prefix, s.next)
	s.next++
	return name
}

func isFlagsField(f model.Field) bool {
	return f.Type.Kind == model.RefPrimitive && f.Type.Primitive == model.PrimitiveFlags
}

func isTrueField(f model.Field) bool {
	return f.Type.Kind == model.RefPrimitive && f.Type.Primitive == model.PrimitiveTrue
}

// presenceExpr yields the encode-time "field is present" test.
func presenceExpr(f model.Field) string {
	name := exported(f.Name)
	if isTrueField(f) {
		return "v." + name
	}
	return "v." + name + " != nil"
}

// encodeLines renders the Encode body: fields in declared order, flags
// bitmasks computed from field presence, conditional fields written only
// when their bit is set.
func encodeLines(ctor *model.Constructor) ([]string, error) {
	s := &stmts{}

	for _, f := range ctor.Fields {
		if isFlagsField(f) {
			local := f.Name
			s.add("var %s tl.Flags", local)
			for _, gated := range ctor.Fields {
				if gated.ConditionField != f.Name {
					continue
				}
				s.add("if %s {", presenceExpr(gated))
				s.add("\t%s.Set(%d, true)", local, gated.ConditionBit)
				s.add("}")
			}
			s.add("e.PutFlags(%s)", local)
			continue
		}

		if f.Conditional() {
			if isTrueField(f) {
				continue
			}
			expr := "v." + exported(f.Name)
			if pointerWrapped(f.Type) {
				expr = "*" + expr
			}
			inner, err := encodeValue(ctor, f, f.Type, expr, true, 0)
			if err != nil {
				return nil, err
			}
			s.add("if %s {", presenceExpr(f))
			s.indent(inner)
			s.add("}")
			continue
		}

		lines, err := encodeValue(ctor, f, f.Type, "v."+exported(f.Name), false, 0)
		if err != nil {
			return nil, err
		}
		s.lines = append(s.lines, lines...)
	}

	return s.lines, nil
}

// encodeValue renders the write statements for one value expression. depth
// keeps loop variables of nested vectors distinct.
func encodeValue(ctor *model.Constructor, f model.Field, ref model.TypeRef, expr string, guarded bool, depth int) ([]string, error) {
	s := &stmts{}

	switch ref.Kind {
	case model.RefPrimitive:
		switch ref.Primitive {
		case model.PrimitiveInt:
			s.add("e.PutInt(%s)", expr)
		case model.PrimitiveLong:
			s.add("e.PutLong(%s)", expr)
		case model.PrimitiveInt128:
			s.add("e.PutInt128(%s)", expr)
		case model.PrimitiveInt256:
			s.add("e.PutInt256(%s)", expr)
		case model.PrimitiveDouble:
			s.add("e.PutDouble(%s)", expr)
		case model.PrimitiveString:
			s.add("e.PutString(%s)", expr)
		case model.PrimitiveBytes:
			s.add("e.PutBytes(%s)", expr)
		case model.PrimitiveBool:
			s.add("e.PutBool(%s)", expr)
		default:
			return nil, fmt.Errorf("golang: %s: cannot encode primitive %q", ctor.QualifiedName(), ref.Primitive)
		}

	case model.RefVector:
		if ref.Bare {
			s.add("e.PutUint32(uint32(len(%s)))", expr)
		} else {
			s.add("e.PutVectorHeader(len(%s))", expr)
		}
		item := "item"
		if depth > 0 {
			item = fmt.Sprintf("item%d", depth+1)
		}
		s.add("for _, %s := range %s {", item, expr)
		elem, err := encodeValue(ctor, f, *ref.Item, item, true, depth+1)
		if err != nil {
			return nil, err
		}
		s.indent(elem)
		s.add("}")

	case model.RefConstructor:
		if !guarded {
			s.add("if %s == nil {", expr)
			s.add("\treturn tl.NilFieldError(%q, %q)", ctor.QualifiedName(), f.Name)
			s.add("}")
		}
		s.add("if err := %s.Encode(e); err != nil {", expr)
		s.add("\treturn err")
		s.add("}")

	case model.RefBase, model.RefGeneric:
		if !guarded {
			s.add("if %s == nil {", expr)
			s.add("\treturn tl.NilFieldError(%q, %q)", ctor.QualifiedName(), f.Name)
			s.add("}")
		}
		s.add("if err := tl.EncodeBoxed(e, %s); err != nil {", expr)
		s.add("\treturn err")
		s.add("}")

	default:
		return nil, fmt.Errorf("golang: %s: cannot encode %q", ctor.QualifiedName(), ref.Kind)
	}

	return s.lines, nil
}

// decodeLines renders the body of the typed decode function, reading fields
// in declared order and honoring the flags/vector rules.
func decodeLines(ctor *model.Constructor) ([]string, error) {
	s := &stmts{}

	for _, f := range ctor.Fields {
		if isFlagsField(f) {
			local := f.Name
			if flagsUsed(ctor, f.Name) {
				s.add("%s, err := d.Flags()", local)
				s.add("if err != nil {")
				s.add("\treturn nil, err")
				s.add("}")
			} else {
				s.add("if _, err := d.Flags(); err != nil {")
				s.add("\treturn nil, err")
				s.add("}")
			}
			continue
		}

		if f.Conditional() {
			if isTrueField(f) {
				s.add("v.%s = %s.Has(%d)", exported(f.Name), f.ConditionField, f.ConditionBit)
				continue
			}
			value := s.temp("value")
			inner, err := decodeValue(s, f.Type, value)
			if err != nil {
				return nil, err
			}
			assign := value
			if pointerWrapped(f.Type) {
				assign = "&" + value
			}
			s.add("if %s.Has(%d) {", f.ConditionField, f.ConditionBit)
			s.indent(inner)
			s.add("\tv.%s = %s", exported(f.Name), assign)
			s.add("}")
			continue
		}

		value := s.temp("value")
		inner, err := decodeValue(s, f.Type, value)
		if err != nil {
			return nil, err
		}
		s.lines = append(s.lines, inner...)
		s.add("v.%s = %s", exported(f.Name), value)
	}

	return s.lines, nil
}

func flagsUsed(ctor *model.Constructor, name string) bool {
	for _, f := range ctor.Fields {
		if f.ConditionField == name {
			return true
		}
	}
	return false
}

// decodeValue renders statements that leave the decoded value in a local
// named target.
func decodeValue(s *stmts, ref model.TypeRef, target string) ([]string, error) {
	out := &stmts{next: s.next}
	defer func() { s.next = out.next }()

	read := func(call string) {
		out.add("%s, err := %s", target, call)
		out.add("if err != nil {")
		out.add("\treturn nil, err")
		out.add("}")
	}

	switch ref.Kind {
	case model.RefPrimitive:
		switch ref.Primitive {
		case model.PrimitiveInt:
			read("d.Int()")
		case model.PrimitiveLong:
			read("d.Long()")
		case model.PrimitiveInt128:
			read("d.Int128()")
		case model.PrimitiveInt256:
			read("d.Int256()")
		case model.PrimitiveDouble:
			read("d.Double()")
		case model.PrimitiveString:
			read("d.String()")
		case model.PrimitiveBytes:
			read("d.Bytes()")
		case model.PrimitiveBool:
			read("d.Bool()")
		default:
			return nil, fmt.Errorf("golang: cannot decode primitive %q", ref.Primitive)
		}

	case model.RefVector:
		count := out.temp("count")
		if ref.Bare {
			out.add("%s, err := d.VectorCount()", count)
		} else {
			out.add("%s, err := d.VectorHeader()", count)
		}
		out.add("if err != nil {")
		out.add("\treturn nil, err")
		out.add("}")
		itemType, err := goType(*ref.Item)
		if err != nil {
			return nil, err
		}
		out.add("%s := make([]%s, 0, %s)", target, itemType, count)
		item := out.temp("item")
		idx := out.temp("i")
		out.add("for %s := 0; %s < %s; %s++ {", idx, idx, count, idx)
		elem, err := decodeValue(out, *ref.Item, item)
		if err != nil {
			return nil, err
		}
		out.indent(elem)
		out.add("\t%s = append(%s, %s)", target, target, item)
		out.add("}")

	case model.RefConstructor:
		ns, name := splitQualified(ref.Name)
		read(fmt.Sprintf("Decode%s(d)", entityName(ns, name)))

	case model.RefBase:
		ns, name := splitQualified(ref.Name)
		read(fmt.Sprintf("Decode%s(d)", unionName(ns, name)))

	case model.RefGeneric:
		read("Registry.Object(d)")

	default:
		return nil, fmt.Errorf("golang: cannot decode %q", ref.Kind)
	}

	return out.lines, nil
}
