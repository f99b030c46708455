package xdr

import (
	"bytes"
	"testing"

	"github.com/go-test/deep"
)

// S1 — uint32 round trip: 0xDEADBEEF -> DE AD BE EF.
func TestUint32RoundTrip(t *testing.T) {
	var v uint32 = 0xDEADBEEF
	buf := make([]byte, 4)
	used, err := EncodeUint32(&v, buf, 4)
	if err != nil || used != 4 {
		t.Fatalf("encode: used=%d err=%v", used, err)
	}
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got % x want % x", buf, want)
	}
	var got uint32
	used, err = DecodeUint32(buf, &got, 4)
	if err != nil || used != 4 || got != v {
		t.Fatalf("decode: got=%x used=%d err=%v", got, used, err)
	}
}

// S2 — byte array padding.
func TestByteArrayPadding(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5}
	buf := make([]byte, 12)
	used, err := EncodeBytes(src, buf, 12)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 5, 1, 2, 3, 4, 5, 0, 0, 0}
	if used != 12 || !bytes.Equal(buf, want) {
		t.Fatalf("got % x (used %d) want % x", buf, used, want)
	}
	var dst []byte
	used, err = DecodeBytes(buf, &dst, 12)
	if err != nil || used != 12 || !bytes.Equal(dst, src) {
		t.Fatalf("decode got % x used %d err %v", dst, used, err)
	}
}

// S3 — int64 round trip, -2.
func TestInt64RoundTrip(t *testing.T) {
	var v int64 = -2
	buf := make([]byte, 8)
	if _, err := EncodeInt64(&v, buf, 8); err != nil {
		t.Fatal(err)
	}
	want := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got % x want % x", buf, want)
	}
	var got int64
	if _, err := DecodeInt64(buf, &got, 8); err != nil || got != v {
		t.Fatalf("got %d err %v", got, err)
	}
}

func TestEncodeDryRunMatchesRealSize(t *testing.T) {
	src := []byte("hello world")
	dryUsed, err := EncodeBytes(src, nil, 64)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, dryUsed)
	realUsed, err := EncodeBytes(src, buf, 64)
	if err != nil || realUsed != dryUsed {
		t.Fatalf("dry=%d real=%d err=%v", dryUsed, realUsed, err)
	}
}

func TestEncodedLengthIsFourByteAligned(t *testing.T) {
	for n := 0; n < 20; n++ {
		src := make([]byte, n)
		used, err := EncodeBytes(src, nil, 1024)
		if err != nil {
			t.Fatal(err)
		}
		if used%4 != 0 {
			t.Fatalf("len %d not 4-aligned for n=%d", used, n)
		}
	}
}

func TestBufferTooSmallReportsRequiredSize(t *testing.T) {
	src := []byte("0123456789")
	small := make([]byte, 2)
	used, err := EncodeBytes(src, small, 2)
	if err != ErrBufferTooSmall {
		t.Fatalf("want ErrBufferTooSmall got %v", err)
	}
	if used != 16 { // 4 count + 10 bytes + 2 pad
		t.Fatalf("want required size 16, got %d", used)
	}
}

func TestFloatNativeEndianRoundTrip(t *testing.T) {
	v := float64(3.25)
	buf := make([]byte, 8)
	if _, err := EncodeFloat64(&v, buf, 8, NativeEndian); err != nil {
		t.Fatal(err)
	}
	var got float64
	if _, err := DecodeFloat64(buf, &got, 8, NativeEndian); err != nil || got != v {
		t.Fatalf("got %v err %v", got, err)
	}
}

func TestDecodeArrayRoundTrip(t *testing.T) {
	src := []uint32{1, 2, 3, 0xFFFFFFFF}
	codec := ElementCodec[uint32]{Decode: DecodeUint32, Encode: EncodeUint32}
	buf := make([]byte, 16)
	used, err := EncodeArray(src, buf, 16, codec)
	if err != nil || used != 16 {
		t.Fatalf("used=%d err=%v", used, err)
	}
	got, used, err := DecodeArray(buf, len(src), 16, codec)
	if err != nil || used != 16 {
		t.Fatalf("decode used=%d err=%v", used, err)
	}
	if diff := deep.Equal(got, src); diff != nil {
		t.Fatal(diff)
	}
}

func TestBareStringIsGrammarError(t *testing.T) {
	var s string
	if _, err := BareStringDecode(nil, &s, 0); err != ErrBareString {
		t.Fatalf("want ErrBareString got %v", err)
	}
	if _, err := BareStringEncode("x", nil, 0); err != ErrBareString {
		t.Fatalf("want ErrBareString got %v", err)
	}
}
