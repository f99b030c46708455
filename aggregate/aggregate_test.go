package aggregate

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/xdr"
)

type sample struct {
	A uint32
	B uint32
}

func uint32Field() *registry.TypeFuncs {
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			v := fv.(uint32)
			return xdr.EncodeUint32(&v, dst, max)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			var v uint32
			n, err := xdr.DecodeUint32(src, &v, max)
			return v, n, err
		},
	}
}

func sampleFields() []registry.FieldDefinition {
	return []registry.FieldDefinition{
		{
			Get:       func(c interface{}) interface{} { return c.(*sample).A },
			Set:       func(c interface{}, v interface{}) { c.(*sample).A = v.(uint32) },
			TypeFuncs: uint32Field(),
		},
		{
			Get:       func(c interface{}) interface{} { return c.(*sample).B },
			Set:       func(c interface{}, v interface{}) { c.(*sample).B = v.(uint32) },
			TypeFuncs: uint32Field(),
		},
	}
}

func TestStructEncodeDecodeRoundTrip(t *testing.T) {
	defs := sampleFields()
	src := &sample{A: 0xDEADBEEF, B: 7}

	n, err := StructEncode(src, defs, nil, 64)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if n != 8 {
		t.Fatalf("dry run size = %d, want 8", n)
	}

	buf := make([]byte, n)
	used, err := StructEncode(src, defs, buf, 64)
	if err != nil || used != 8 {
		t.Fatalf("encode: used=%d err=%v", used, err)
	}

	got := &sample{}
	used, err = StructDecode(buf, got, defs, 64)
	if err != nil || used != 8 {
		t.Fatalf("decode: used=%d err=%v", used, err)
	}
	if diff := deep.Equal(src, got); diff != nil {
		t.Fatalf("round trip mismatch: %v", diff)
	}
}

func TestStructDecodeTruncated(t *testing.T) {
	defs := sampleFields()
	_, err := StructDecode([]byte{0, 0, 0, 1}, &sample{}, defs, 64)
	if err != xdr.ErrTruncated {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
}

type bitword struct {
	Low  uint32
	High uint32
}

func bitField() *registry.TypeFuncs {
	return &registry.TypeFuncs{
		EncodeBits: func(fv interface{}, width int) (uint32, error) {
			return fv.(uint32), nil
		},
		DecodeBits: func(bits uint32, width int) (interface{}, error) {
			return bits, nil
		},
	}
}

func bitfieldDefs() []registry.FieldDefinition {
	four := 4
	return []registry.FieldDefinition{
		{
			Get:       func(c interface{}) interface{} { return c.(*bitword).Low },
			Set:       func(c interface{}, v interface{}) { c.(*bitword).Low = v.(uint32) },
			LenGet:    func(interface{}) int { return four },
			StructID:  0,
			TypeFuncs: bitField(),
		},
		{
			Get:       func(c interface{}) interface{} { return c.(*bitword).High },
			Set:       func(c interface{}, v interface{}) { c.(*bitword).High = v.(uint32) },
			LenGet:    func(interface{}) int { return four },
			StructID:  4,
			TypeFuncs: bitField(),
		},
	}
}

func TestBitfieldStructEncodeDecode(t *testing.T) {
	defs := bitfieldDefs()
	src := &bitword{Low: 0xA, High: 0x3}

	buf := make([]byte, 4)
	n, err := BitfieldStructEncode(src, defs, buf, 4)
	if err != nil || n != 4 {
		t.Fatalf("encode: n=%d err=%v", n, err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x3A}
	if diff := deep.Equal(buf, want); diff != nil {
		t.Fatalf("wire mismatch: %v", diff)
	}

	got := &bitword{}
	n, err = BitfieldStructDecode(buf, got, defs, 4)
	if err != nil || n != 4 {
		t.Fatalf("decode: n=%d err=%v", n, err)
	}
	if diff := deep.Equal(src, got); diff != nil {
		t.Fatalf("round trip mismatch: %v", diff)
	}
}

func TestBitfieldStructDecodeTruncated(t *testing.T) {
	defs := bitfieldDefs()
	_, err := BitfieldStructDecode([]byte{0, 0, 1}, &bitword{}, defs, 4)
	if err != errTruncated {
		t.Fatalf("want errTruncated, got %v", err)
	}
}
