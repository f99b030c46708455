// Package aggregate implements the struct and bit-packed struct codecs:
// walking a FieldDefinition table to encode or decode a struct by
// composing per-field codecs.
package aggregate

import (
	"reflect"

	"github.com/polysat/satnet-ipc/registry"
)

// StructEncode walks fields in order, invoking each field's encoder at
// the value Get returns, writing sequentially into dst. It keeps
// encoding fields after a failure (computing the true required size) and
// returns the first error encountered, mirroring XDR_struct_encoder
// A nil dst is a dry-run sizing pass.
func StructEncode(container interface{}, defs []registry.FieldDefinition, dst []byte, max int) (used int, err error) {
	offset := 0
	var firstErr error
	for i := range defs {
		fd := &defs[i]
		if fd.IsTerminator() {
			break
		}
		val := fd.Get(container)
		lenHint := 0
		if fd.LenGet != nil {
			lenHint = fd.LenGet(container)
		}
		var sub []byte
		if dst != nil {
			if offset > len(dst) {
				sub = nil
			} else {
				sub = dst[offset:]
			}
		}
		n, encErr := fd.TypeFuncs.Encode(val, sub, max-offset, lenHint)
		offset += n
		if encErr != nil && firstErr == nil {
			firstErr = encErr
		}
	}
	return offset, firstErr
}

// StructDecode mirrors StructEncode: it reads fields in order, invoking
// each field's decoder and calling Set with the resulting value. On any
// failure the partially decoded struct is abandoned; callers are
// expected to discard container on error.
func StructDecode(src []byte, container interface{}, defs []registry.FieldDefinition, max int) (used int, err error) {
	offset := 0
	for i := range defs {
		fd := &defs[i]
		if fd.IsTerminator() {
			break
		}
		lenHint := 0
		if fd.LenGet != nil {
			lenHint = fd.LenGet(container)
		}
		if offset > len(src) {
			return offset, errTruncated
		}
		val, n, decErr := fd.TypeFuncs.Decode(src[offset:], max-offset, lenHint)
		offset += n
		if decErr != nil {
			return offset, decErr
		}
		fd.Set(container, val)
		if fd.LenSet != nil {
			if rv := reflect.ValueOf(val); rv.Kind() == reflect.Slice {
				fd.LenSet(container, rv.Len())
			}
		}
	}
	return offset, nil
}
