// Package tl implements the runtime wire-format contract shared by all
// generated entities: little-endian primitive serialization, boxed and bare
// framing, vector framing, flags bitmasks, and constructor-id dispatch for
// decoding base-type unions.
package tl

import "errors"

// Well-known constructor ids that are part of the protocol itself rather
// than any particular schema layer.
const (
	// VectorID frames boxed vectors.
	VectorID uint32 = 0x1cb5c415
	// BoolTrueID and BoolFalseID encode the boxed Bool primitive.
	BoolTrueID  uint32 = 0x997275b5
	BoolFalseID uint32 = 0xbc799737
	// NullID encodes the null combinator.
	NullID uint32 = 0x56730bcc
)

// Object is the contract every generated entity satisfies. Encode writes the
// bare layout (no constructor id); boxed contexts use EncodeBoxed.
type Object interface {
	// TypeID returns the 32-bit constructor id.
	TypeID() uint32
	// TypeName returns the qualified schema name, for diagnostics.
	TypeName() string
	// Encode appends the entity's bare wire layout to the encoder,
	// fields in declared order.
	Encode(e *Encoder) error
}

// EncodeBoxed writes the constructor id followed by the bare layout.
func EncodeBoxed(e *Encoder, o Object) error {
	if o == nil {
		return errors.New("tl: encode boxed: nil object")
	}
	e.PutID(o.TypeID())
	return o.Encode(e)
}

// Bytes is a convenience wrapper producing the boxed byte sequence of an
// object in one call.
func Bytes(o Object) ([]byte, error) {
	e := NewEncoder()
	if err := EncodeBoxed(e, o); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Flags is the `#` bitmask primitive. Generated entities compute it before
// encoding and consult it while decoding conditional fields.
type Flags uint32

// Has reports whether the given bit is set.
func (f Flags) Has(bit int) bool {
	return f&(1<<uint(bit)) != 0
}

// Set switches one bit on or off.
func (f *Flags) Set(bit int, on bool) {
	if on {
		*f |= 1 << uint(bit)
	} else {
		*f &^= 1 << uint(bit)
	}
}
