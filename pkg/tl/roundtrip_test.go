package tl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tlgen/pkg/tl"
)

// The types below mirror, statement for statement, what the emitter produces
// for the layer-181 fixture schema, so the codec contract the generated code
// relies on is exercised without compiling generated output.

// dcOption#18b7a10d flags:# ipv6:flags.0?true ... id:int ip_address:string
// port:int secret:flags.10?bytes = DcOption;
type dcOption struct {
	IPv6         bool
	MediaOnly    bool
	TcpoOnly     bool
	CDN          bool
	Static       bool
	ThisPortOnly bool
	ID           int32
	IPAddress    string
	Port         int32
	Secret       []byte
}

func (*dcOption) TypeID() uint32 { return 0x18b7a10d }

func (*dcOption) TypeName() string { return "dcOption" }

func (v *dcOption) Encode(e *tl.Encoder) error {
	var flags tl.Flags
	if v.IPv6 {
		flags.Set(0, true)
	}
	if v.MediaOnly {
		flags.Set(1, true)
	}
	if v.TcpoOnly {
		flags.Set(2, true)
	}
	if v.CDN {
		flags.Set(3, true)
	}
	if v.Static {
		flags.Set(4, true)
	}
	if v.ThisPortOnly {
		flags.Set(5, true)
	}
	if v.Secret != nil {
		flags.Set(10, true)
	}
	e.PutFlags(flags)
	e.PutInt(v.ID)
	e.PutString(v.IPAddress)
	e.PutInt(v.Port)
	if v.Secret != nil {
		e.PutBytes(v.Secret)
	}
	return nil
}

func decodeDCOption(d *tl.Decoder) (*dcOption, error) {
	var v dcOption
	flags, err := d.Flags()
	if err != nil {
		return nil, err
	}
	v.IPv6 = flags.Has(0)
	v.MediaOnly = flags.Has(1)
	v.TcpoOnly = flags.Has(2)
	v.CDN = flags.Has(3)
	v.Static = flags.Has(4)
	v.ThisPortOnly = flags.Has(5)
	value0, err := d.Int()
	if err != nil {
		return nil, err
	}
	v.ID = value0
	value1, err := d.String()
	if err != nil {
		return nil, err
	}
	v.IPAddress = value1
	value2, err := d.Int()
	if err != nil {
		return nil, err
	}
	v.Port = value2
	if flags.Has(10) {
		value3, err := d.Bytes()
		if err != nil {
			return nil, err
		}
		v.Secret = value3
	}
	return &v, nil
}

// resPQ#05162463 nonce:int128 server_nonce:int128 pq:bytes
// server_public_key_fingerprints:Vector<long> = ResPQ;
type resPQ struct {
	Nonce                       [16]byte
	ServerNonce                 [16]byte
	Pq                          []byte
	ServerPublicKeyFingerprints []int64
}

func (*resPQ) TypeID() uint32 { return 0x05162463 }

func (*resPQ) TypeName() string { return "resPQ" }

func (v *resPQ) Encode(e *tl.Encoder) error {
	e.PutInt128(v.Nonce)
	e.PutInt128(v.ServerNonce)
	e.PutBytes(v.Pq)
	e.PutVectorHeader(len(v.ServerPublicKeyFingerprints))
	for _, item := range v.ServerPublicKeyFingerprints {
		e.PutLong(item)
	}
	return nil
}

func decodeResPQ(d *tl.Decoder) (*resPQ, error) {
	var v resPQ
	value0, err := d.Int128()
	if err != nil {
		return nil, err
	}
	v.Nonce = value0
	value1, err := d.Int128()
	if err != nil {
		return nil, err
	}
	v.ServerNonce = value1
	value2, err := d.Bytes()
	if err != nil {
		return nil, err
	}
	v.Pq = value2
	count3, err := d.VectorHeader()
	if err != nil {
		return nil, err
	}
	value4 := make([]int64, 0, count3)
	for i5 := 0; i5 < count3; i5++ {
		item6, err := d.Long()
		if err != nil {
			return nil, err
		}
		value4 = append(value4, item6)
	}
	v.ServerPublicKeyFingerprints = value4
	return &v, nil
}

func TestDCOption_RoundTripWithFlagsSet(t *testing.T) {
	want := &dcOption{
		IPv6:      true,
		Static:    true,
		ID:        2,
		IPAddress: "149.154.167.50",
		Port:      443,
		Secret:    []byte{0xde, 0xad, 0xbe, 0xef},
	}

	e := tl.NewEncoder()
	if err := want.Encode(e); err != nil {
		t.Fatalf("encode: %v", err)
	}

	d := tl.NewDecoder(e.Bytes())
	got, err := decodeDCOption(d)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip changed the value (-want +got):\n%s", diff)
	}
	if d.Remaining() != 0 {
		t.Fatalf("decode left %d bytes unread", d.Remaining())
	}
}

func TestDCOption_AbsentConditionalsStayAbsent(t *testing.T) {
	want := &dcOption{ID: 4, IPAddress: "149.154.167.91", Port: 443}

	e := tl.NewEncoder()
	if err := want.Encode(e); err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Flags word + id + padded address + port, no secret bytes.
	wantLen := 4 + 4 + 16 + 4
	if e.Len() != wantLen {
		t.Fatalf("encoded %d bytes, want %d (absent field must occupy zero bytes)", e.Len(), wantLen)
	}

	got, err := decodeDCOption(tl.NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Secret != nil {
		t.Fatalf("absent secret decoded as %x", got.Secret)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip changed the value (-want +got):\n%s", diff)
	}
}

func TestResPQ_RoundTrip(t *testing.T) {
	want := &resPQ{
		Pq:                          []byte{0x17, 0xed, 0x48, 0x94, 0x1a, 0x08, 0xf9, 0x81},
		ServerPublicKeyFingerprints: []int64{-4344800451088585951, 1},
	}
	for i := range want.Nonce {
		want.Nonce[i] = byte(i)
		want.ServerNonce[i] = byte(255 - i)
	}

	e := tl.NewEncoder()
	if err := tl.EncodeBoxed(e, want); err != nil {
		t.Fatalf("encode boxed: %v", err)
	}

	d := tl.NewDecoder(e.Bytes())
	reg := tl.NewRegistry()
	reg.MustRegister(0x05162463, "resPQ", func(d *tl.Decoder) (tl.Object, error) { return decodeResPQ(d) })
	reg.MustRegister(0x18b7a10d, "dcOption", func(d *tl.Decoder) (tl.Object, error) { return decodeDCOption(d) })

	obj, err := reg.Object(d)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	got, ok := obj.(*resPQ)
	if !ok {
		t.Fatalf("dispatched to %T", obj)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip changed the value (-want +got):\n%s", diff)
	}
	if d.Remaining() != 0 {
		t.Fatalf("decode left %d bytes unread", d.Remaining())
	}
}

func TestUnionDispatch_WrongMemberIsUnexpectedType(t *testing.T) {
	// Mirrors the generated DecodeXUnion body: registry dispatch followed by
	// a union membership assertion.
	type isBool interface{ isBoolUnion() }

	reg := tl.NewRegistry()
	reg.MustRegister(0x18b7a10d, "dcOption", func(d *tl.Decoder) (tl.Object, error) { return decodeDCOption(d) })

	e := tl.NewEncoder()
	if err := tl.EncodeBoxed(e, &dcOption{IPAddress: "x"}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	obj, err := reg.Object(tl.NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, ok := obj.(isBool); ok {
		t.Fatal("dcOption must not satisfy the Bool union")
	}
	mismatch := &tl.UnexpectedTypeError{Got: obj.TypeName(), Expected: "Bool"}
	if !strings.Contains(mismatch.Error(), "dcOption") || !strings.Contains(mismatch.Error(), "Bool") {
		t.Fatalf("mismatch error should name both sides: %v", mismatch)
	}
}

func TestEncodeBoxed_BytesHelper(t *testing.T) {
	v := &dcOption{ID: 1, IPAddress: "a", Port: 80}

	direct := tl.NewEncoder()
	if err := tl.EncodeBoxed(direct, v); err != nil {
		t.Fatalf("encode boxed: %v", err)
	}
	viaHelper, err := tl.Bytes(v)
	if err != nil {
		t.Fatalf("bytes helper: %v", err)
	}
	if !bytes.Equal(direct.Bytes(), viaHelper) {
		t.Fatal("Bytes helper disagrees with EncodeBoxed")
	}
}
