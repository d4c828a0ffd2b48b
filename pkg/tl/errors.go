package tl

import "fmt"

// UnknownConstructorError reports a constructor id with no registered
// decoder. It is a protocol-version signal, not a schema bug: the peer may
// speak a newer layer. The cursor is left at the offending id so callers can
// report or skip it.
type UnknownConstructorError struct {
	// ID is the unrecognized constructor id.
	ID uint32
	// Offset is the cursor position of the id.
	Offset int
	// Expected names the union or primitive being decoded, when known.
	Expected string
}

func (e *UnknownConstructorError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("tl: unknown constructor 0x%08x at offset %d while decoding %s", e.ID, e.Offset, e.Expected)
	}
	return fmt.Sprintf("tl: unknown constructor 0x%08x at offset %d", e.ID, e.Offset)
}

// NilFieldError reports an entity encoded with a required object field left
// nil. Generated Encode methods return it instead of panicking.
func NilFieldError(entity, field string) error {
	return fmt.Errorf("tl: %s: field %s is nil", entity, field)
}

// UnexpectedTypeError reports a decoded object that does not belong to the
// union the caller asked for. This signals a schema inconsistency rather
// than a protocol-version mismatch.
type UnexpectedTypeError struct {
	Got      string
	Expected string
}

func (e *UnexpectedTypeError) Error() string {
	return fmt.Sprintf("tl: decoded %s where a %s variant was expected", e.Got, e.Expected)
}

// TruncatedError reports wire data ending before a read completed.
type TruncatedError struct {
	Offset int
	Want   int
	Have   int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("tl: truncated data at offset %d: want %d bytes, have %d", e.Offset, e.Want, e.Have)
}
