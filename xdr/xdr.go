// Package xdr implements the primitive codec contract used throughout
// satnet-ipc: encoding and decoding fixed-width integers, floats, counted
// byte blobs, counted strings, and fixed-length arrays to and from the
// XDR wire format described in RFC 4506 (a strict subset of it, matching
// what the original PolySat libproc producers and consumers expect).
//
// Every scalar codec is a pair of functions of the same shape, typed to
// the value T it handles:
//
//	DecodeT(src []byte, dst *T, max int) (used int, err error)
//	EncodeT(src *T, dst []byte, max int) (used int, err error)
//
// Array lengths are passed separately (see DecodeArray).
//
// A nil dst on Encode is a dry run: the call still must report the
// correct used count, so callers can size a buffer in two passes.
package xdr

import (
	"encoding/binary"
	"errors"
	"math"
)

// Error kinds returned by the codecs below.
var (
	ErrBufferTooSmall = errors.New("xdr: buffer too small")
	ErrTruncated      = errors.New("xdr: truncated while decoding")
	ErrBareString     = errors.New("xdr: strings outside arrays not supported")
)

// align4 rounds n up to the next multiple of 4, matching the 4-byte XDR
// alignment rule every encoded field obeys.
func align4(n int) int {
	return (n + 3) &^ 3
}

// padding returns the number of zero pad bytes needed after n raw bytes
// to reach 4-byte alignment.
func padding(n int) int {
	return (4 - n%4) % 4
}

// DecodeUint32 reads a big-endian uint32 from src into *dst.
func DecodeUint32(src []byte, dst *uint32, max int) (used int, err error) {
	if max < 4 || len(src) < 4 {
		return 0, ErrTruncated
	}
	*dst = binary.BigEndian.Uint32(src)
	return 4, nil
}

// EncodeUint32 writes *src as big-endian into dst. dst may be nil for a
// dry-run sizing pass.
func EncodeUint32(src *uint32, dst []byte, max int) (used int, err error) {
	if max < 4 {
		return 4, ErrBufferTooSmall
	}
	if dst == nil {
		return 4, nil
	}
	if len(dst) < 4 {
		return 4, ErrBufferTooSmall
	}
	binary.BigEndian.PutUint32(dst, *src)
	return 4, nil
}

// DecodeInt32 reads a big-endian int32.
func DecodeInt32(src []byte, dst *int32, max int) (used int, err error) {
	var u uint32
	used, err = DecodeUint32(src, &u, max)
	*dst = int32(u)
	return used, err
}

// EncodeInt32 writes a big-endian int32.
func EncodeInt32(src *int32, dst []byte, max int) (used int, err error) {
	u := uint32(*src)
	return EncodeUint32(&u, dst, max)
}

// DecodeUint64 reads a 64-bit value stored as two network-order 32-bit
// halves, high word first.
func DecodeUint64(src []byte, dst *uint64, max int) (used int, err error) {
	if max < 8 || len(src) < 8 {
		return 0, ErrTruncated
	}
	hi := binary.BigEndian.Uint32(src[0:4])
	lo := binary.BigEndian.Uint32(src[4:8])
	*dst = uint64(hi)<<32 | uint64(lo)
	return 8, nil
}

// EncodeUint64 writes the value as (high32, low32), each big-endian.
func EncodeUint64(src *uint64, dst []byte, max int) (used int, err error) {
	if max < 8 {
		return 8, ErrBufferTooSmall
	}
	if dst == nil {
		return 8, nil
	}
	if len(dst) < 8 {
		return 8, ErrBufferTooSmall
	}
	binary.BigEndian.PutUint32(dst[0:4], uint32(*src>>32))
	binary.BigEndian.PutUint32(dst[4:8], uint32(*src))
	return 8, nil
}

// DecodeInt64 reads a signed 64-bit value using the same split
// representation as DecodeUint64.
func DecodeInt64(src []byte, dst *int64, max int) (used int, err error) {
	var u uint64
	used, err = DecodeUint64(src, &u, max)
	*dst = int64(u)
	return used, err
}

// EncodeInt64 writes a signed 64-bit value using the same split
// representation as EncodeUint64.
func EncodeInt64(src *int64, dst []byte, max int) (used int, err error) {
	u := uint64(*src)
	return EncodeUint64(&u, dst, max)
}

// FloatByteOrder selects how Float32/Float64 are placed on the wire.
// The existing libproc producers write raw platform bytes (little-endian
// on the satellites' ARM/x86 targets), which is not portable XDR but is
// what peers on the wire expect. NativeEndian
// is bug-compatible with those existing producers and is the default;
// BigEndianIEEE is offered for deployments that control both ends.
type FloatByteOrder int

const (
	// NativeEndian reproduces the existing producers' behavior: raw
	// little-endian IEEE-754 bytes, copied byte for byte.
	NativeEndian FloatByteOrder = iota
	// BigEndianIEEE writes a conventional big-endian IEEE-754
	// representation. Not wire-compatible with the legacy producers.
	BigEndianIEEE
)

// DefaultFloatByteOrder is bug-compatible with existing producers.
var DefaultFloatByteOrder = NativeEndian

// DecodeFloat32 reads a 4-byte float using ord. Any ord other than
// BigEndianIEEE, including the zero value, reads little-endian bytes.
func DecodeFloat32(src []byte, dst *float32, max int, ord FloatByteOrder) (used int, err error) {
	if max < 4 || len(src) < 4 {
		return 0, ErrTruncated
	}
	var bits uint32
	if ord == BigEndianIEEE {
		bits = binary.BigEndian.Uint32(src)
	} else {
		bits = binary.LittleEndian.Uint32(src)
	}
	*dst = math.Float32frombits(bits)
	return 4, nil
}

// EncodeFloat32 writes a 4-byte float using ord.
func EncodeFloat32(src *float32, dst []byte, max int, ord FloatByteOrder) (used int, err error) {
	if max < 4 {
		return 4, ErrBufferTooSmall
	}
	if dst == nil {
		return 4, nil
	}
	if len(dst) < 4 {
		return 4, ErrBufferTooSmall
	}
	bits := math.Float32bits(*src)
	if ord == BigEndianIEEE {
		binary.BigEndian.PutUint32(dst, bits)
	} else {
		binary.LittleEndian.PutUint32(dst, bits)
	}
	return 4, nil
}

// DecodeFloat64 reads an 8-byte double using ord.
func DecodeFloat64(src []byte, dst *float64, max int, ord FloatByteOrder) (used int, err error) {
	if max < 8 || len(src) < 8 {
		return 0, ErrTruncated
	}
	var bits uint64
	if ord == BigEndianIEEE {
		bits = binary.BigEndian.Uint64(src)
	} else {
		bits = binary.LittleEndian.Uint64(src)
	}
	*dst = math.Float64frombits(bits)
	return 8, nil
}

// EncodeFloat64 writes an 8-byte double using ord.
func EncodeFloat64(src *float64, dst []byte, max int, ord FloatByteOrder) (used int, err error) {
	if max < 8 {
		return 8, ErrBufferTooSmall
	}
	if dst == nil {
		return 8, nil
	}
	if len(dst) < 8 {
		return 8, ErrBufferTooSmall
	}
	bits := math.Float64bits(*src)
	if ord == BigEndianIEEE {
		binary.BigEndian.PutUint64(dst, bits)
	} else {
		binary.LittleEndian.PutUint64(dst, bits)
	}
	return 8, nil
}

// DecodeBytes decodes a counted byte blob: a 4-byte big-endian count,
// the raw bytes, then zero padding to 4-byte alignment (RFC 4506 section
// 4.1/6). *dst is replaced with a freshly allocated, owned slice.
func DecodeBytes(src []byte, dst *[]byte, max int) (used int, err error) {
	var count uint32
	n, err := DecodeUint32(src, &count, max)
	if err != nil {
		return 0, err
	}
	byteLen := int(count)
	pad := padding(byteLen)
	total := n + byteLen + pad
	if total > max || len(src) < total {
		return n, ErrTruncated
	}
	buf := make([]byte, byteLen)
	copy(buf, src[n:n+byteLen])
	*dst = buf
	return total, nil
}

// EncodeBytes encodes a counted byte blob. dst may be nil for a dry run.
func EncodeBytes(src []byte, dst []byte, max int) (used int, err error) {
	byteLen := len(src)
	pad := padding(byteLen)
	total := 4 + byteLen + pad
	if total > max {
		return total, ErrBufferTooSmall
	}
	if dst == nil {
		return total, nil
	}
	if len(dst) < total {
		return total, ErrBufferTooSmall
	}
	count := uint32(byteLen)
	binary.BigEndian.PutUint32(dst, count)
	copy(dst[4:4+byteLen], src)
	for i := 0; i < pad; i++ {
		dst[4+byteLen+i] = 0
	}
	return total, nil
}

// DecodeString decodes a counted string field: identical wire layout to
// DecodeBytes, with *dst set to exactly the decoded bytes. No trailing
// NUL is appended, so encoding the result reproduces the same wire
// bytes. Per libproc's XDR_decode_string assert, standalone strings
// (outside of an array-of-strings field) are a grammar error; this
// function backs the array element decoder only and must not be wired
// up as a bare field decoder.
func DecodeString(src []byte, dst *string, max int) (used int, err error) {
	var raw []byte
	used, err = DecodeBytes(src, &raw, max)
	if err != nil {
		return used, err
	}
	*dst = string(raw)
	return used, nil
}

// EncodeString encodes a string using the same layout as EncodeBytes.
// As with DecodeString, bare top-level string fields are not supported;
// see ErrBareString.
func EncodeString(src string, dst []byte, max int) (used int, err error) {
	return EncodeBytes([]byte(src), dst, max)
}

// BareStringDecode always fails: it exists only so a FieldDefinition
// table can explicitly wire up the "strings outside arrays" grammar
// error, the way libproc's XDR_decode_string does.
func BareStringDecode([]byte, *string, int) (int, error) {
	return 0, ErrBareString
}

// BareStringEncode is the encode-side counterpart of BareStringDecode.
func BareStringEncode(string, []byte, int) (int, error) {
	return 0, ErrBareString
}
