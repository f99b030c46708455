package aggregate

import (
	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/xdr"
)

// BitfieldStructEncode packs every field in defs into a single 32-bit
// wire word: each field's Get value is passed through its
// TypeFuncs.EncodeBits, then masked to its width and shifted into
// StructID before being OR'd into the word. This mirrors
// XDR_bitfield_struct_encoder, which encodes each field in turn into
// the same in-memory word via shift and mask rather than writing
// separate wire positions per field.
//
// A field's StructID is the bit shift, LenGet the bit width (LenGet is
// repurposed here since bitfield fields have no companion length).
func BitfieldStructEncode(container interface{}, defs []registry.FieldDefinition, dst []byte, max int) (used int, err error) {
	if max < 4 {
		return 0, errTruncated
	}
	var word uint32
	for i := range defs {
		fd := &defs[i]
		if fd.IsTerminator() {
			break
		}
		width := 32
		if fd.LenGet != nil {
			width = fd.LenGet(container)
		}
		val := fd.Get(container)
		bits, encErr := fd.TypeFuncs.EncodeBits(val, width)
		if encErr != nil {
			return 0, encErr
		}
		mask := uint32(1)<<uint(width) - 1
		word |= (bits & mask) << uint(fd.StructID)
	}
	if dst != nil {
		if len(dst) < 4 {
			return 0, xdr.ErrBufferTooSmall
		}
		dst[0] = byte(word >> 24)
		dst[1] = byte(word >> 16)
		dst[2] = byte(word >> 8)
		dst[3] = byte(word)
	}
	return 4, nil
}

// BitfieldStructDecode unpacks a single 32-bit wire word into the
// fields in defs, mirroring XDR_bitfield_struct_decoder: for each field
// it extracts (word >> shift) & ((1<<width)-1) and hands that to the
// field's bit decoder before calling Set.
func BitfieldStructDecode(src []byte, container interface{}, defs []registry.FieldDefinition, max int) (used int, err error) {
	if max < 4 || len(src) < 4 {
		return 0, errTruncated
	}
	word := uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])
	for i := range defs {
		fd := &defs[i]
		if fd.IsTerminator() {
			break
		}
		width := 32
		if fd.LenGet != nil {
			width = fd.LenGet(container)
		}
		mask := uint32(1)<<uint(width) - 1
		bits := (word >> uint(fd.StructID)) & mask
		val, decErr := fd.TypeFuncs.DecodeBits(bits, width)
		if decErr != nil {
			return 0, decErr
		}
		fd.Set(container, val)
	}
	return 4, nil
}
