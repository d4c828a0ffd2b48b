package model

import "fmt"

// UnknownTypeReferenceError reports a parameter or result type that resolves
// to no declared constructor or base type. Fatal for a generation run.
type UnknownTypeReferenceError struct {
	// Reference is the unresolved type string.
	Reference string
	// Declaration is the qualified name of the combinator using it.
	Declaration string
	// Line is the declaring source line.
	Line int
}

func (e *UnknownTypeReferenceError) Error() string {
	return fmt.Sprintf("model: line %d: %s references undeclared type %q", e.Line, e.Declaration, e.Reference)
}

// ConditionReferenceError reports a flags-conditional field whose condition
// does not name a preceding `#` bitmask parameter of the same declaration.
// Fatal: generated code for such a field would reference a bitmask that is
// never read off the wire.
type ConditionReferenceError struct {
	// Declaration is the qualified name of the offending combinator.
	Declaration string
	// Field is the gated field name.
	Field string
	// Condition is the bitmask parameter name the field references.
	Condition string
	// Line is the declaring source line.
	Line int
}

func (e *ConditionReferenceError) Error() string {
	return fmt.Sprintf("model: line %d: %s: field %s is gated by %q, which is not a preceding # parameter",
		e.Line, e.Declaration, e.Field, e.Condition)
}
