package render

import (
	"strconv"
	"strings"

	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/xdr"
)

// Uint32Funcs is the wire-type record for a bare uint32 field,
// mirroring libproc's xdr_uint32_functions table: EncodeUint32/
// DecodeUint32 for the wire, decimal formatting for Print, ScanUint32
// for Scan.
func Uint32Funcs() *registry.TypeFuncs {
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
		Print: func(fv interface{}) string {
			return strconv.FormatUint(uint64(fv.(uint32)), 10)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanUint32(token)
		},
	}
}

// Int32Funcs is the wire-type record for a bare int32 field, mirroring
// xdr_int32_functions.
func Int32Funcs() *registry.TypeFuncs {
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			v := fv.(int32)
			return xdr.EncodeInt32(&v, dst, max)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			var v int32
			n, err := xdr.DecodeInt32(src, &v, max)
			return v, n, err
		},
		Print: func(fv interface{}) string {
			return strconv.FormatInt(int64(fv.(int32)), 10)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanInt32(token)
		},
	}
}

// Uint64Funcs is the wire-type record for a bare uint64 field,
// mirroring xdr_uint64_functions.
func Uint64Funcs() *registry.TypeFuncs {
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			v := fv.(uint64)
			return xdr.EncodeUint64(&v, dst, max)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			var v uint64
			n, err := xdr.DecodeUint64(src, &v, max)
			return v, n, err
		},
		Print: func(fv interface{}) string {
			return strconv.FormatUint(fv.(uint64), 10)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanUint64(token)
		},
	}
}

// Int64Funcs is the wire-type record for a bare int64 field, mirroring
// xdr_int64_functions.
func Int64Funcs() *registry.TypeFuncs {
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			v := fv.(int64)
			return xdr.EncodeInt64(&v, dst, max)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			var v int64
			n, err := xdr.DecodeInt64(src, &v, max)
			return v, n, err
		},
		Print: func(fv interface{}) string {
			return strconv.FormatInt(fv.(int64), 10)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanInt64(token)
		},
	}
}

// Float32Funcs is the wire-type record for a bare float field,
// mirroring xdr_float_functions. Wire byte order follows
// xdr.DefaultFloatByteOrder.
func Float32Funcs() *registry.TypeFuncs {
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			v := fv.(float32)
			return xdr.EncodeFloat32(&v, dst, max, xdr.DefaultFloatByteOrder)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			var v float32
			n, err := xdr.DecodeFloat32(src, &v, max, xdr.DefaultFloatByteOrder)
			return v, n, err
		},
		Print: func(fv interface{}) string {
			return strconv.FormatFloat(float64(fv.(float32)), 'f', -1, 32)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanFloat32(token)
		},
	}
}

// Float64Funcs is the wire-type record for a bare double field,
// mirroring xdr_double_functions.
func Float64Funcs() *registry.TypeFuncs {
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			v := fv.(float64)
			return xdr.EncodeFloat64(&v, dst, max, xdr.DefaultFloatByteOrder)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			var v float64
			n, err := xdr.DecodeFloat64(src, &v, max, xdr.DefaultFloatByteOrder)
			return v, n, err
		},
		Print: func(fv interface{}) string {
			return strconv.FormatFloat(fv.(float64), 'f', -1, 64)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanFloat64(token)
		},
	}
}

// CharFuncs is the wire-type record for a single character stored
// widened to int32 on the wire, mirroring xdr_char_functions.
func CharFuncs() *registry.TypeFuncs {
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			v := fv.(int32)
			return xdr.EncodeInt32(&v, dst, max)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			var v int32
			n, err := xdr.DecodeInt32(src, &v, max)
			return v, n, err
		},
		Print: func(fv interface{}) string {
			return string(rune(fv.(int32)))
		},
		Scan: func(token string) (interface{}, error) {
			return ScanChar(token)
		},
	}
}

// BytesFuncs is the wire-type record for a counted byte blob, mirroring
// xdr_bytes_functions: hex-encoded for Print/Scan, the way libproc
// prints byte arrays as ASCII hex pairs.
func BytesFuncs() *registry.TypeFuncs {
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			return xdr.EncodeBytes(fv.([]byte), dst, max)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			var v []byte
			n, err := xdr.DecodeBytes(src, &v, max)
			return v, n, err
		},
		Print: func(fv interface{}) string {
			b, _ := fv.([]byte)
			out := make([]byte, len(b)*2)
			const hexDigits = "0123456789abcdef"
			for i, c := range b {
				out[i*2] = hexDigits[c>>4]
				out[i*2+1] = hexDigits[c&0xf]
			}
			return string(out)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanHexBytes(token)
		},
	}
}

// BareStringFuncs is the wire-type record for a field that, per
// libproc, must never appear as a bare (non-array) field: its
// Encode/Decode always fail with xdr.ErrBareString, while Print/Scan
// behave normally since rendering and reparsing a single string value
// has no such restriction.
func BareStringFuncs() *registry.TypeFuncs {
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			return xdr.BareStringEncode(fv.(string), dst, max)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			var v string
			n, err := xdr.BareStringDecode(src, &v, max)
			return v, n, err
		},
		Print: func(fv interface{}) string {
			return fv.(string)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanString(token)
		},
	}
}

// Uint32ArrayFuncs is the wire-type record for a variable-length uint32
// array field, mirroring xdr_uint32_array_functions. lenHint carries
// the element count on decode, supplied by the companion length field
// (FieldDefinition.LenGet).
func Uint32ArrayFuncs() *registry.TypeFuncs {
	codec := xdr.ElementCodec[uint32]{Decode: xdr.DecodeUint32, Encode: xdr.EncodeUint32}
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			return xdr.EncodeArray(fv.([]uint32), dst, max, codec)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			return xdr.DecodeArray(src, lenHint, max, codec)
		},
		Print: func(fv interface{}) string {
			vals := fv.([]uint32)
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = strconv.FormatUint(uint64(v), 10)
			}
			return joinComma(parts)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanArray(token, ScanUint32)
		},
	}
}

// Int32ArrayFuncs is the wire-type record for a variable-length int32
// array field, mirroring xdr_int32_array_functions.
func Int32ArrayFuncs() *registry.TypeFuncs {
	codec := xdr.ElementCodec[int32]{Decode: xdr.DecodeInt32, Encode: xdr.EncodeInt32}
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			return xdr.EncodeArray(fv.([]int32), dst, max, codec)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			return xdr.DecodeArray(src, lenHint, max, codec)
		},
		Print: func(fv interface{}) string {
			vals := fv.([]int32)
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = strconv.FormatInt(int64(v), 10)
			}
			return joinComma(parts)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanArray(token, ScanInt32)
		},
	}
}

// Uint64ArrayFuncs is the wire-type record for a variable-length uint64
// array field, mirroring xdr_uint64_array_functions.
func Uint64ArrayFuncs() *registry.TypeFuncs {
	codec := xdr.ElementCodec[uint64]{Decode: xdr.DecodeUint64, Encode: xdr.EncodeUint64}
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			return xdr.EncodeArray(fv.([]uint64), dst, max, codec)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			return xdr.DecodeArray(src, lenHint, max, codec)
		},
		Print: func(fv interface{}) string {
			vals := fv.([]uint64)
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = strconv.FormatUint(v, 10)
			}
			return joinComma(parts)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanArray(token, ScanUint64)
		},
	}
}

// Int64ArrayFuncs is the wire-type record for a variable-length int64
// array field, mirroring xdr_int64_array_functions.
func Int64ArrayFuncs() *registry.TypeFuncs {
	codec := xdr.ElementCodec[int64]{Decode: xdr.DecodeInt64, Encode: xdr.EncodeInt64}
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			return xdr.EncodeArray(fv.([]int64), dst, max, codec)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			return xdr.DecodeArray(src, lenHint, max, codec)
		},
		Print: func(fv interface{}) string {
			vals := fv.([]int64)
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = strconv.FormatInt(v, 10)
			}
			return joinComma(parts)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanArray(token, ScanInt64)
		},
	}
}

// Float32ArrayFuncs is the wire-type record for a variable-length float
// array field, mirroring xdr_float_array_functions.
func Float32ArrayFuncs() *registry.TypeFuncs {
	codec := xdr.ElementCodec[float32]{
		Decode: func(src []byte, dst *float32, max int) (int, error) {
			return xdr.DecodeFloat32(src, dst, max, xdr.DefaultFloatByteOrder)
		},
		Encode: func(src *float32, dst []byte, max int) (int, error) {
			return xdr.EncodeFloat32(src, dst, max, xdr.DefaultFloatByteOrder)
		},
	}
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			return xdr.EncodeArray(fv.([]float32), dst, max, codec)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			return xdr.DecodeArray(src, lenHint, max, codec)
		},
		Print: func(fv interface{}) string {
			vals := fv.([]float32)
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
			}
			return joinComma(parts)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanArray(token, ScanFloat32)
		},
	}
}

// Float64ArrayFuncs is the wire-type record for a variable-length
// double array field, mirroring xdr_double_array_functions.
func Float64ArrayFuncs() *registry.TypeFuncs {
	codec := xdr.ElementCodec[float64]{
		Decode: func(src []byte, dst *float64, max int) (int, error) {
			return xdr.DecodeFloat64(src, dst, max, xdr.DefaultFloatByteOrder)
		},
		Encode: func(src *float64, dst []byte, max int) (int, error) {
			return xdr.EncodeFloat64(src, dst, max, xdr.DefaultFloatByteOrder)
		},
	}
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			return xdr.EncodeArray(fv.([]float64), dst, max, codec)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			return xdr.DecodeArray(src, lenHint, max, codec)
		},
		Print: func(fv interface{}) string {
			vals := fv.([]float64)
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
			return joinComma(parts)
		},
		Scan: func(token string) (interface{}, error) {
			return ScanArray(token, ScanFloat64)
		},
	}
}

// StringArrayFuncs is the wire-type record for a variable-length array
// of counted strings, mirroring xdr_string_array_functions: each
// element is a full counted-string blob on the wire, unlike
// BareStringFuncs which forbids appearing outside an array.
func StringArrayFuncs() *registry.TypeFuncs {
	codec := xdr.ElementCodec[string]{
		Decode: xdr.DecodeString,
		Encode: func(src *string, dst []byte, max int) (int, error) {
			return xdr.EncodeString(*src, dst, max)
		},
	}
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			return xdr.EncodeArray(fv.([]string), dst, max, codec)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			return xdr.DecodeArray(src, lenHint, max, codec)
		},
		Print: func(fv interface{}) string {
			return joinComma(fv.([]string))
		},
		Scan: func(token string) (interface{}, error) {
			return SplitArray(token), nil
		},
	}
}

// joinComma joins parts with "," the way libproc's array printer
// separates elements.
func joinComma(parts []string) string {
	return strings.Join(parts, ",")
}
