package ipc

import (
	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/render"
	"github.com/polysat/satnet-ipc/xdrunion"
)

// VoidType is the registry.TypeID a Response's payload carries when
// Result is non-zero: no bytes follow on the wire, mirroring
// IPC_TYPES_VOID's zero-byte codec (ipc.c). It is never registered into
// an application's registry; responseDataFuncs short-circuits around
// the registry lookup entirely for this case.
const VoidType registry.TypeID = 0

// uint32Funcs adapts render's shared uint32 wire-type record to the
// envelope's plain uint32 fields, so cmd/ipcref/result render and
// reparse the same way any other registered uint32 field does.
func uint32Funcs() *registry.TypeFuncs {
	return render.Uint32Funcs()
}

// unionFuncs adapts xdrunion.EncodeUnion/DecodeUnion to the
// registry.TypeFuncs shape, for a tagged-union field whose discriminant
// always names a registered type.
func unionFuncs(r *registry.Registry) *registry.TypeFuncs {
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			return xdrunion.EncodeUnion(fv.(xdrunion.Union), dst, max, r)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			return xdrunion.DecodeUnion(src, max, r)
		},
	}
}

// responseDataFuncs wraps unionFuncs so that a Response's Data field is
// only ever encoded/decoded when lenHint (the companion Result field,
// via FieldDefinition.LenGet) is ResultSuccess. A non-zero Result means
// the payload is void: callers must not attempt to decode it (the
// original's IPC_TYPES_VOID codec), so a failed command can always be
// reported back to the sender even when no type happens to be
// registered under VoidType.
func responseDataFuncs(r *registry.Registry) *registry.TypeFuncs {
	union := unionFuncs(r)
	return &registry.TypeFuncs{
		Encode: func(fv interface{}, dst []byte, max int, lenHint int) (int, error) {
			if lenHint != int(ResultSuccess) {
				var disc uint32
				return render.Uint32Funcs().Encode(disc, dst, max, 0)
			}
			return union.Encode(fv, dst, max, lenHint)
		},
		Decode: func(src []byte, max int, lenHint int) (interface{}, int, error) {
			if lenHint != int(ResultSuccess) {
				_, n, err := render.Uint32Funcs().Decode(src, max, 0)
				return xdrunion.Union{Type: VoidType}, n, err
			}
			return union.Decode(src, max, lenHint)
		},
	}
}
