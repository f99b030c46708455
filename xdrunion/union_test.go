package xdrunion

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/xdr"
)

func uint32Registry() *registry.Registry {
	r := registry.New()
	r.Register(&registry.StructDefinition{
		Type: 7,
		Encode: func(v interface{}, dst []byte, max int) (int, error) {
			u := v.(uint32)
			return xdr.EncodeUint32(&u, dst, max)
		},
		Decode: func(src []byte, max int) (interface{}, int, error) {
			var u uint32
			n, err := xdr.DecodeUint32(src, &u, max)
			return u, n, err
		},
	})
	return r
}

func TestUnionEncodeDecodeRoundTrip(t *testing.T) {
	r := uint32Registry()
	u := Union{Type: 7, Payload: uint32(0x11223344)}

	buf := make([]byte, 8)
	n, err := EncodeUnion(u, buf, 8, r)
	if err != nil || n != 8 {
		t.Fatalf("encode: n=%d err=%v", n, err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x07, 0x11, 0x22, 0x33, 0x44}
	if diff := deep.Equal(buf, want); diff != nil {
		t.Fatalf("wire mismatch: %v", diff)
	}

	got, n, err := DecodeUnion(buf, 8, r)
	if err != nil || n != 8 {
		t.Fatalf("decode: n=%d err=%v", n, err)
	}
	if diff := deep.Equal(u, got); diff != nil {
		t.Fatalf("round trip mismatch: %v", diff)
	}
}

func TestUnionUnknownDiscriminant(t *testing.T) {
	r := uint32Registry()
	buf := []byte{0x00, 0x00, 0x00, 0x63, 0, 0, 0, 0}
	_, _, err := DecodeUnion(buf, 8, r)
	if err != ErrUnknownDiscriminant {
		t.Fatalf("want ErrUnknownDiscriminant, got %v", err)
	}
}

func TestUnionArrayRoundTrip(t *testing.T) {
	r := uint32Registry()
	in := []Union{
		{Type: 7, Payload: uint32(1)},
		{Type: 7, Payload: uint32(2)},
		{Type: 7, Payload: uint32(3)},
	}
	buf := make([]byte, 24)
	n, err := EncodeUnionArray(in, buf, 24, r)
	if err != nil || n != 24 {
		t.Fatalf("encode array: n=%d err=%v", n, err)
	}
	out, n, err := DecodeUnionArray(buf, 3, 24, r)
	if err != nil || n != 24 {
		t.Fatalf("decode array: n=%d err=%v", n, err)
	}
	if diff := deep.Equal(in, out); diff != nil {
		t.Fatalf("round trip mismatch: %v", diff)
	}
}

func TestDeallocateUnionArrayInvokesPerElementDealloc(t *testing.T) {
	r := registry.New()
	freed := 0
	r.Register(&registry.StructDefinition{
		Type:    7,
		Dealloc: func(v interface{}) { freed++ },
	})
	r.Register(&registry.StructDefinition{
		Type:    9,
		Dealloc: func(v interface{}) { freed += 10 },
	})

	values := []Union{{Type: 7, Payload: nil}, {Type: 9, Payload: nil}, {Type: 7, Payload: nil}}
	DeallocateUnionArray(values, r)
	if freed != 12 {
		t.Fatalf("freed = %d, want 12", freed)
	}
}

func TestDeallocateStructArrayInvokesPerElementDealloc(t *testing.T) {
	r := registry.New()
	freed := 0
	r.Register(&registry.StructDefinition{
		Type:    3,
		Dealloc: func(v interface{}) { freed++ },
	})

	err := DeallocateStructArray([]interface{}{nil, nil, nil}, 3, r)
	if err != nil {
		t.Fatal(err)
	}
	if freed != 3 {
		t.Fatalf("freed = %d, want 3", freed)
	}
}
