package xdrunion

import (
	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/xdr"
)

// unionCodec adapts DecodeUnion/EncodeUnion to xdr.ElementCodec so union
// arrays can reuse xdr.DecodeArray/EncodeArray, mirroring
// XDR_decode_union_array / XDR_encode_union_array which both delegate
// to the generic XDR_array_decoder/XDR_array_encoder with
// XDR_decode_union/XDR_encode_union as the element function.
func unionCodec(r *registry.Registry) xdr.ElementCodec[Union] {
	return xdr.ElementCodec[Union]{
		Decode: func(src []byte, dst *Union, max int) (int, error) {
			u, n, err := DecodeUnion(src, max, r)
			*dst = u
			return n, err
		},
		Encode: func(src *Union, dst []byte, max int) (int, error) {
			return EncodeUnion(*src, dst, max, r)
		},
	}
}

// DecodeUnionArray decodes a fixed-length array of count unions.
func DecodeUnionArray(src []byte, count int, max int, r *registry.Registry) (out []Union, used int, err error) {
	return xdr.DecodeArray(src, count, max, unionCodec(r))
}

// EncodeUnionArray encodes a slice of unions, one after another.
func EncodeUnionArray(src []Union, dst []byte, max int, r *registry.Registry) (used int, err error) {
	return xdr.EncodeArray(src, dst, max, unionCodec(r))
}

// DeallocateStructArray releases every element of a decoded struct
// array by invoking the registered Deallocator for id on each element
// in turn. Libproc's XDR_struct_array_field_deallocator was left
// as a "needs to be written" assert stub; this implements it by
// iterating the elements and invoking the element deallocator on each.
func DeallocateStructArray(values []interface{}, id registry.TypeID, r *registry.Registry) error {
	def, err := r.Lookup(id)
	if err != nil {
		return err
	}
	if def.Dealloc == nil {
		return nil
	}
	for _, v := range values {
		def.Dealloc(v)
	}
	return nil
}

// DeallocateUnionArray releases every element of a decoded union array,
// dispatching each element's deallocation through its own discriminant
// rather than a single shared type id, since each Union in the slice
// may carry a different payload type. This implements the other
// "needs to be written" stub, XDR_union_array_field_deallocator.
func DeallocateUnionArray(values []Union, r *registry.Registry) {
	for _, u := range values {
		def, err := r.Lookup(u.Type)
		if err != nil || def.Dealloc == nil {
			continue
		}
		def.Dealloc(u.Payload)
	}
}
