package tl

import (
	"encoding/binary"
	"fmt"
	"math"
)

// maxBytesLen is the largest payload the 3-byte length form can frame.
const maxBytesLen = 1<<24 - 1

// Encoder accumulates the little-endian wire form of one or more objects.
// The zero value is not usable; construct with NewEncoder.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 64)}
}

// Bytes returns the accumulated wire bytes.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// PutID writes a 4-byte constructor id.
func (e *Encoder) PutID(id uint32) {
	e.PutUint32(id)
}

// PutUint32 writes a 32-bit little-endian value.
func (e *Encoder) PutUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

// PutInt writes the `int` primitive.
func (e *Encoder) PutInt(v int32) {
	e.PutUint32(uint32(v))
}

// PutLong writes the `long` primitive.
func (e *Encoder) PutLong(v int64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v))
}

// PutInt128 writes a 16-byte value as-is.
func (e *Encoder) PutInt128(v [16]byte) {
	e.buf = append(e.buf, v[:]...)
}

// PutInt256 writes a 32-byte value as-is.
func (e *Encoder) PutInt256(v [32]byte) {
	e.buf = append(e.buf, v[:]...)
}

// PutDouble writes the `double` primitive as an IEEE-754 bit pattern.
func (e *Encoder) PutDouble(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}

// PutBool writes the boxed Bool primitive.
func (e *Encoder) PutBool(v bool) {
	if v {
		e.PutID(BoolTrueID)
	} else {
		e.PutID(BoolFalseID)
	}
}

// PutFlags writes the `#` bitmask.
func (e *Encoder) PutFlags(f Flags) {
	e.PutUint32(uint32(f))
}

// PutBytes writes the `bytes`/`string` primitive: a one-byte length for
// payloads up to 253 bytes, otherwise a 0xfe marker plus 3-byte length,
// both forms zero-padded to a 4-byte boundary. Payloads beyond the 3-byte
// length form (2^24-1 bytes) cannot be framed and panic.
func (e *Encoder) PutBytes(b []byte) {
	n := len(b)
	if n > maxBytesLen {
		panic(fmt.Sprintf("tl: bytes value of %d bytes exceeds the %d-byte wire limit", n, maxBytesLen))
	}
	if n <= 253 {
		e.buf = append(e.buf, byte(n))
		e.buf = append(e.buf, b...)
		e.pad(1 + n)
		return
	}
	e.buf = append(e.buf, 0xfe, byte(n), byte(n>>8), byte(n>>16))
	e.buf = append(e.buf, b...)
	e.pad(n)
}

// PutString writes a string using the bytes layout.
func (e *Encoder) PutString(s string) {
	e.PutBytes([]byte(s))
}

// PutVectorHeader writes the boxed vector framing: the fixed vector id
// followed by the element count. Bare vectors write only the count via
// PutUint32.
func (e *Encoder) PutVectorHeader(count int) {
	e.PutID(VectorID)
	e.PutUint32(uint32(count))
}

func (e *Encoder) pad(written int) {
	for written%4 != 0 {
		e.buf = append(e.buf, 0)
		written++
	}
}
