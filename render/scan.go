package render

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyScalar is returned by ScanChar when asked to scan an empty
// token, mirroring XDR_scan_char's reliance on sscanf("%c", ...) having
// at least one byte to read.
var ErrEmptyScalar = errors.New("render: empty scalar token")

// ScanUint32 parses token as an unsigned integer, mirroring
// XDR_scan_uint32's sscanf(in, "%i", val) (base-prefix aware: "0x..."
// is hex, "0..." is octal, otherwise decimal).
func ScanUint32(token string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(token), 0, 32)
	return uint32(v), err
}

// ScanInt32 parses token as a signed integer, mirroring XDR_scan_int32.
func ScanInt32(token string) (int32, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(token), 0, 32)
	return int32(v), err
}

// ScanUint64 parses token as an unsigned 64-bit integer, mirroring
// XDR_scan_uint64.
func ScanUint64(token string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(token), 0, 64)
}

// ScanInt64 parses token as a signed 64-bit integer, mirroring
// XDR_scan_int64.
func ScanInt64(token string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(token), 0, 64)
}

// ScanFloat32 parses token as a float, mirroring XDR_scan_float's
// sscanf(in, "%f", val).
func ScanFloat32(token string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(token), 32)
	return float32(v), err
}

// ScanFloat64 parses token as a double, mirroring XDR_scan_double's
// sscanf(in, "%lf", val).
func ScanFloat64(token string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(token), 64)
}

// ScanChar parses token's first byte widened to int32, mirroring
// XDR_scan_char's sscanf(in, "%c", &c) into an int32-sized field.
func ScanChar(token string) (int32, error) {
	if token == "" {
		return 0, ErrEmptyScalar
	}
	return int32(token[0]), nil
}

// ScanString returns token unchanged, mirroring XDR_scan_string's
// strdup/strcpy into the destination.
func ScanString(token string) (string, error) {
	return token, nil
}

// ScanHexBytes parses an ASCII hex string (two hex digits per byte, no
// separators) into the byte blob it represents, mirroring
// XDR_scan_byte_array's ASCII2HEX pairing.
func ScanHexBytes(token string) ([]byte, error) {
	return hex.DecodeString(token)
}

// SplitArray splits a comma-joined array token the way printed array
// fields are rendered (each element separated by ","). Used when
// reparsing a CSV or KVP field back into its element tokens.
func SplitArray(token string) []string {
	if token == "" {
		return nil
	}
	return strings.Split(token, ",")
}

// ScanArray splits token on commas and scans each piece through elem,
// mirroring XDR_array_field_scanner: an empty token decodes to a nil,
// zero-length slice; otherwise the destination is sized to exactly
// comma-count+1 elements, one per comma-separated piece, and every
// piece is scanned through the element scanner in turn.
func ScanArray[T any](token string, elem func(string) (T, error)) ([]T, error) {
	if token == "" {
		return nil, nil
	}
	parts := strings.Split(token, ",")
	out := make([]T, len(parts))
	for i, p := range parts {
		v, err := elem(p)
		if err != nil {
			return out, fmt.Errorf("render: scanning array element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
