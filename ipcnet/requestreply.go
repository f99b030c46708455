package ipcnet

import (
	"fmt"
	"time"
)

// RequestReply opens a throwaway ephemeral-port endpoint, sends req to
// (ip, port), and blocks for a single reply into respBuf, mirroring
// socket_send_packet_and_read_response: a fresh local socket per call,
// a single send, one wait_for_packet/read_response pair. It may safely
// be called from a goroutine other than the one driving the host loop,
// since it owns its own socket for the duration of the call - the same
// guarantee libproc gives blocking command callers.
func RequestReply(req []byte, ip [4]byte, port int, respBuf []byte, timeout time.Duration) (n int, err error) {
	ep, err := Listen(0)
	if err != nil {
		return 0, err
	}
	defer ep.Close()

	if err := ep.SendTo(req, ip, port); err != nil {
		return 0, fmt.Errorf("ipcnet: send request: %w", err)
	}

	ready, err := ep.WaitReadable(timeout)
	if err != nil {
		return 0, fmt.Errorf("ipcnet: wait for reply: %w", err)
	}
	if !ready {
		return 0, ErrTimeout
	}

	n, _, _, err = ep.Recv(respBuf)
	if err != nil {
		return 0, fmt.Errorf("ipcnet: read reply: %w", err)
	}
	return n, nil
}
