// Package ipc implements the Command/Response envelope layer: a tagged
// Command wraps a caller's parameters with a
// monotonically increasing reference number, sent either blocking (no
// host loop) or asynchronously through a pending-response table that a
// host loop drains on every incoming datagram and timer tick.
package ipc

import (
	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/xdrunion"
)

// ResponseSentinel is the Command field value (cmd) that marks an
// envelope as a Response rather than a Command, mirroring
// IPC_CMDS_RESPONSE.
const ResponseSentinel uint32 = 0xFFFFFFFF

// ResultCode is the Response.result field: zero is success, any other
// value names a specific failure the caller's callback receives
// instead of a decoded payload.
type ResultCode uint32

const (
	ResultSuccess        ResultCode = 0
	ResultUnknownCommand ResultCode = 1
	ResultDecodeFailed   ResultCode = 2
	ResultHandlerFailed  ResultCode = 3
	ResultUnknownType    ResultCode = 4
)

// Command is the request envelope.
type Command struct {
	Cmd        uint32
	IPCRef     uint32
	Parameters xdrunion.Union
}

// Response is the reply envelope. Cmd is always
// ResponseSentinel on the wire.
type Response struct {
	Cmd    uint32
	IPCRef uint32
	Result ResultCode
	Data   xdrunion.Union
}

// commandFields/responseFields describe the two envelope structs' wire
// layout as FieldDefinition tables, the same shape every registered
// application struct uses, so Command/Response ride the same aggregate
// codec as any other registered type.
func commandFields(r *registry.Registry) []registry.FieldDefinition {
	return []registry.FieldDefinition{
		{
			Key: "cmd",
			Get: func(c interface{}) interface{} { return c.(*Command).Cmd },
			Set: func(c interface{}, v interface{}) { c.(*Command).Cmd = v.(uint32) },
			TypeFuncs: uint32Funcs(),
		},
		{
			Key: "ipcref",
			Get: func(c interface{}) interface{} { return c.(*Command).IPCRef },
			Set: func(c interface{}, v interface{}) { c.(*Command).IPCRef = v.(uint32) },
			TypeFuncs: uint32Funcs(),
		},
		{
			Key: "parameters",
			Get: func(c interface{}) interface{} { return c.(*Command).Parameters },
			Set: func(c interface{}, v interface{}) { c.(*Command).Parameters = v.(xdrunion.Union) },
			TypeFuncs: unionFuncs(r),
		},
	}
}

func responseFields(r *registry.Registry) []registry.FieldDefinition {
	return []registry.FieldDefinition{
		{
			Key: "cmd",
			Get: func(c interface{}) interface{} { return c.(*Response).Cmd },
			Set: func(c interface{}, v interface{}) { c.(*Response).Cmd = v.(uint32) },
			TypeFuncs: uint32Funcs(),
		},
		{
			Key: "ipcref",
			Get: func(c interface{}) interface{} { return c.(*Response).IPCRef },
			Set: func(c interface{}, v interface{}) { c.(*Response).IPCRef = v.(uint32) },
			TypeFuncs: uint32Funcs(),
		},
		{
			Key: "result",
			Get: func(c interface{}) interface{} { return uint32(c.(*Response).Result) },
			Set: func(c interface{}, v interface{}) { c.(*Response).Result = ResultCode(v.(uint32)) },
			TypeFuncs: uint32Funcs(),
		},
		{
			Key:       "data",
			Get:       func(c interface{}) interface{} { return c.(*Response).Data },
			Set:       func(c interface{}, v interface{}) { c.(*Response).Data = v.(xdrunion.Union) },
			LenGet:    func(c interface{}) int { return int(c.(*Response).Result) },
			TypeFuncs: responseDataFuncs(r),
		},
	}
}
