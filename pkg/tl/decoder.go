package tl

import (
	"encoding/binary"
	"math"
)

// Decoder is a cursor over wire bytes. Every read advances the cursor by
// exactly the bytes consumed; failed reads leave it untouched so callers can
// report the faulting offset.
type Decoder struct {
	data []byte
	off  int
}

// NewDecoder wraps a byte slice. The decoder does not copy the data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Offset returns the current cursor position.
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.off
}

func (d *Decoder) need(n int) error {
	if d.Remaining() < n {
		return &TruncatedError{Offset: d.off, Want: n, Have: d.Remaining()}
	}
	return nil
}

// Uint32 reads a 32-bit little-endian value.
func (d *Decoder) Uint32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v, nil
}

// Int reads the `int` primitive.
func (d *Decoder) Int() (int32, error) {
	v, err := d.Uint32()
	return int32(v), err
}

// Long reads the `long` primitive.
func (d *Decoder) Long() (int64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.data[d.off:])
	d.off += 8
	return int64(v), nil
}

// Int128 reads a 16-byte value.
func (d *Decoder) Int128() ([16]byte, error) {
	var out [16]byte
	if err := d.need(16); err != nil {
		return out, err
	}
	copy(out[:], d.data[d.off:])
	d.off += 16
	return out, nil
}

// Int256 reads a 32-byte value.
func (d *Decoder) Int256() ([32]byte, error) {
	var out [32]byte
	if err := d.need(32); err != nil {
		return out, err
	}
	copy(out[:], d.data[d.off:])
	d.off += 32
	return out, nil
}

// Double reads the `double` primitive.
func (d *Decoder) Double() (float64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.data[d.off:])
	d.off += 8
	return math.Float64frombits(v), nil
}

// Bool reads the boxed Bool primitive.
func (d *Decoder) Bool() (bool, error) {
	id, err := d.PeekID()
	if err != nil {
		return false, err
	}
	switch id {
	case BoolTrueID:
		d.off += 4
		return true, nil
	case BoolFalseID:
		d.off += 4
		return false, nil
	default:
		return false, &UnknownConstructorError{ID: id, Offset: d.off, Expected: "Bool"}
	}
}

// Flags reads the `#` bitmask.
func (d *Decoder) Flags() (Flags, error) {
	v, err := d.Uint32()
	return Flags(v), err
}

// PeekID returns the next 4 bytes as a constructor id without consuming
// them, so union dispatch can report an unknown id at a stable offset.
func (d *Decoder) PeekID() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(d.data[d.off:]), nil
}

// Bytes reads the `bytes`/`string` primitive, including its padding.
func (d *Decoder) Bytes() ([]byte, error) {
	if err := d.need(1); err != nil {
		return nil, err
	}

	var (
		n      int
		header int
	)
	if first := d.data[d.off]; first <= 253 {
		n = int(first)
		header = 1
	} else {
		if err := d.need(4); err != nil {
			return nil, err
		}
		b := d.data[d.off:]
		n = int(b[1]) | int(b[2])<<8 | int(b[3])<<16
		header = 4
	}

	padded := header + n
	for padded%4 != 0 {
		padded++
	}
	if err := d.need(padded); err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, d.data[d.off+header:])
	d.off += padded
	return out, nil
}

// String reads a string using the bytes layout.
func (d *Decoder) String() (string, error) {
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VectorHeader consumes the boxed vector framing and returns the element
// count. Bare vectors read only the count via VectorCount.
func (d *Decoder) VectorHeader() (int, error) {
	id, err := d.PeekID()
	if err != nil {
		return 0, err
	}
	if id != VectorID {
		return 0, &UnknownConstructorError{ID: id, Offset: d.off, Expected: "Vector"}
	}
	d.off += 4

	count, err := d.VectorCount()
	if err != nil {
		d.off -= 4
		return 0, err
	}
	return count, nil
}

// VectorCount reads a bare vector's element count. Counts that could not
// possibly fit in the remaining data are rejected before any allocation:
// every wire element occupies at least four bytes, so a count larger than
// a quarter of the remaining payload is framing corruption, not data.
func (d *Decoder) VectorCount() (int, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	count := int(binary.LittleEndian.Uint32(d.data[d.off:]))
	if rem := d.Remaining() - 4; count < 0 || count > rem/4 {
		return 0, &TruncatedError{Offset: d.off, Want: 4 + count*4, Have: d.Remaining()}
	}
	d.off += 4
	return count, nil
}
