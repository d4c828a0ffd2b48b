package ident

import "fmt"

// MismatchError reports an explicit constructor id that disagrees with the
// recomputed checksum, guarding against hand-edited schema corruption and
// silent wire incompatibility. Always fatal.
type MismatchError struct {
	Declaration string
	Line        int
	Explicit    uint32
	Computed    uint32
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("ident: line %d: %s declares id 0x%08x but its signature computes to 0x%08x",
		e.Line, e.Declaration, e.Explicit, e.Computed)
}

// DuplicateError reports two declarations sharing one constructor id. Always
// fatal: ids must be unique across the entire schema.
type DuplicateError struct {
	ID     uint32
	First  string
	Second string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("ident: constructor id 0x%08x declared by both %s and %s", e.ID, e.First, e.Second)
}
