package ipc

import (
	"errors"
	"strconv"
	"time"

	"github.com/polysat/satnet-ipc/ipcnet"
	"github.com/polysat/satnet-ipc/metrics"
	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/xdrunion"
)

// replyBufSize is sized generously for a single envelope reply; the
// blocking path has no host loop to reuse a scratch buffer from.
const replyBufSize = 65536

// SendBlocking implements the no-host-loop send mode (mirroring
// IPC_command_internal's synchronous branch): open a throwaway
// ephemeral endpoint, encode cmd, send
// it to destHost/destName, wait up to timeout for a single reply,
// decode it, and invoke cb exactly once. cb sees CBReply with the
// decoded Response on success, CBTimeout on deadline expiry, CBError
// with a nil Response on any encode/transport/decode failure, or
// CBError with the decoded Response on a non-zero peer Result. Safe to
// call from a
// goroutine other than the one driving a host loop, since it opens and
// closes its own socket.
func SendBlocking(destHost, destName string, cmdID uint32, ipcref uint32, params xdrunion.Union, r *registry.Registry, timeout time.Duration, cb Callback) {
	metrics.IPCRefRate.WithLabelValues(strconv.FormatUint(uint64(cmdID), 10)).Inc()
	cmd := &Command{Cmd: cmdID, IPCRef: ipcref, Parameters: params}

	buf, err := EncodeCommand(cmd, r)
	if err != nil {
		cb(nil, CBError)
		return
	}

	ip, err := ipcnet.ResolveHost(destHost)
	if err != nil {
		cb(nil, CBError)
		return
	}
	port, ok := ipcnet.PortForName(destName)
	if !ok {
		cb(nil, CBError)
		return
	}

	respBuf := make([]byte, replyBufSize)
	n, err := ipcnet.RequestReply(buf, ip, port, respBuf, timeout)
	if err != nil {
		if errors.Is(err, ipcnet.ErrTimeout) {
			cb(nil, CBTimeout)
		} else {
			cb(nil, CBError)
		}
		return
	}

	resp, err := DecodeResponse(respBuf[:n], r)
	if err != nil {
		cb(nil, CBError)
		return
	}
	if resp.Result != ResultSuccess {
		cb(resp, CBError)
		return
	}
	cb(resp, CBReply)
}

// SendAsync implements the host-loop send mode:
// encode cmd, send it over ep, and register the pending
// entry in table so the host loop's own receive/expire path delivers
// cb exactly once when a matching reply arrives or the deadline fires.
// Unlike SendBlocking this never waits; the caller's loop owns that.
func SendAsync(ep *ipcnet.Endpoint, destName string, cmdID uint32, ipcref uint32, params xdrunion.Union, r *registry.Registry, table *PendingTable, timeout time.Duration, cb Callback) error {
	metrics.IPCRefRate.WithLabelValues(strconv.FormatUint(uint64(cmdID), 10)).Inc()
	cmd := &Command{Cmd: cmdID, IPCRef: ipcref, Parameters: params}

	buf, err := EncodeCommand(cmd, r)
	if err != nil {
		cb(nil, CBError)
		return err
	}

	if err := ep.SendToName(buf, destName); err != nil {
		cb(nil, CBError)
		return err
	}

	table.Register(ipcref, destName, time.Now().Add(timeout), cb)
	return nil
}
