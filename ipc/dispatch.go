package ipc

import "github.com/polysat/satnet-ipc/xdrunion"

// Handler processes an unsolicited Command received on the named local
// endpoint and returns the Response to send back (or nil to send
// nothing), mirroring a service's per-command handler tables that sit
// above IPC_response/IPC_error.
type Handler func(cmd *Command) *Response

// DispatchTable maps a command id to the Handler that serves it.
type DispatchTable struct {
	handlers map[uint32]Handler
}

// NewDispatchTable returns an empty table.
func NewDispatchTable() *DispatchTable {
	return &DispatchTable{handlers: make(map[uint32]Handler)}
}

// Register installs handler for cmd id. Registering the same id twice
// replaces the previous handler.
func (d *DispatchTable) Register(cmdID uint32, handler Handler) {
	d.handlers[cmdID] = handler
}

// Dispatch invokes the handler registered for cmd.Cmd, if any. ok is
// false when no handler is registered, letting the caller apply
// ResultUnknownCommand.
func (d *DispatchTable) Dispatch(cmd *Command) (resp *Response, ok bool) {
	h, found := d.handlers[cmd.Cmd]
	if !found {
		return nil, false
	}
	return h(cmd), true
}

// ErrorResponse builds the void-payload error Response IPC_error sends:
// same ipcref as cmd, a non-zero result, no data.
func ErrorResponse(cmd *Command, code ResultCode) *Response {
	return &Response{
		Cmd:    ResponseSentinel,
		IPCRef: cmd.IPCRef,
		Result: code,
	}
}

// SuccessResponse builds the Response IPC_response sends: same ipcref
// as cmd, ResultSuccess, and the given payload union.
func SuccessResponse(cmd *Command, payload xdrunion.Union) *Response {
	return &Response{
		Cmd:    ResponseSentinel,
		IPCRef: cmd.IPCRef,
		Result: ResultSuccess,
		Data:   payload,
	}
}
