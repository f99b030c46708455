// Package xdrunion implements a tagged-union codec: a Union carries a
// 32-bit type discriminant on the wire
// followed immediately by the registered struct that discriminant
// names, with no independent length of its own (XDR_decode_union /
// XDR_encode_union in C libproc).
package xdrunion

import (
	"errors"

	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/xdr"
)

// ErrUnknownDiscriminant is returned when a union's type tag has no
// registered definition, mirroring XDR_decode_union's "def ||
// !def->decoder" bail-out.
var ErrUnknownDiscriminant = errors.New("xdrunion: unknown discriminant")

// Union is the decoded/in-memory form of a tagged union value: Type is
// the wire discriminant, Payload is the decoded struct value for that
// type (or the value to encode).
type Union struct {
	Type    registry.TypeID
	Payload interface{}
}

// DecodeUnion reads a discriminant and then the struct it names, via
// the registry.
func DecodeUnion(src []byte, max int, r *registry.Registry) (u Union, used int, err error) {
	var typeWord uint32
	n, decErr := xdr.DecodeUint32(src, &typeWord, max)
	if decErr != nil {
		return Union{}, n, decErr
	}
	typ := registry.TypeID(typeWord)
	used = n

	def, lookupErr := r.Lookup(typ)
	if lookupErr != nil || def.Decode == nil {
		return Union{}, used, ErrUnknownDiscriminant
	}

	payload, n, decErr := def.Decode(src[used:], max-used)
	used += n
	if decErr != nil {
		return Union{}, used, decErr
	}
	return Union{Type: typ, Payload: payload}, used, nil
}

// EncodeUnion writes the union's discriminant followed by its payload
// struct, via the registry entry for u.Type.
// A nil dst is a dry-run sizing pass.
func EncodeUnion(u Union, dst []byte, max int, r *registry.Registry) (used int, err error) {
	def, lookupErr := r.Lookup(u.Type)
	if lookupErr != nil || def.Encode == nil {
		return 0, ErrUnknownDiscriminant
	}

	typeWord := uint32(u.Type)
	n, headErr := xdr.EncodeUint32(&typeWord, dst, max)
	used = n

	// Even if the discriminant didn't fit, keep sizing the payload as a
	// dry run so the caller still learns the true required size in one
	// pass, mirroring XDR_encode_union's "dst = NULL" fallback when the
	// discriminant write already failed.
	var tail []byte
	if dst != nil && headErr == nil {
		tail = dst[used:]
	}
	n, encErr := def.Encode(u.Payload, tail, max-used)
	used += n
	if headErr != nil {
		return used, headErr
	}
	return used, encErr
}
