package ipc

import (
	"strconv"
	"testing"
	"time"

	"github.com/polysat/satnet-ipc/ipcnet"
	"github.com/polysat/satnet-ipc/xdrunion"
)

// TestSendBlockingTimesOut sends to a port with no listener with a
// 50ms timeout: the callback fires exactly once with CBTimeout within
// roughly that window and never again afterward.
func TestSendBlockingTimesOut(t *testing.T) {
	r := uint32Registry()

	// Bind an ephemeral port and immediately release it so nothing is
	// listening on it, mirroring "send to a port with no listener".
	probe, err := ipcnet.Listen(0)
	if err != nil {
		t.Fatal(err)
	}
	port := probe.Port()
	probe.Close()

	start := time.Now()
	calls := 0
	var gotType CBType
	SendBlocking("127.0.0.1", strconv.Itoa(port), 1, 1,
		xdrunion.Union{Type: 7, Payload: uint32(1)}, r, 50*time.Millisecond,
		func(resp *Response, cbType CBType) {
			calls++
			gotType = cbType
		})
	elapsed := time.Since(start)

	if calls != 1 {
		t.Fatalf("callback fired %d times, want exactly 1", calls)
	}
	if gotType != CBTimeout {
		t.Fatalf("cbType = %v, want CBTimeout", gotType)
	}
	if elapsed < 40*time.Millisecond {
		t.Fatalf("elapsed = %v, too fast for a 50ms wait", elapsed)
	}
}

func TestSendBlockingUnknownDestFailsFast(t *testing.T) {
	r := uint32Registry()
	calls := 0
	var gotType CBType
	SendBlocking("127.0.0.1", "not-a-registered-service", 1, 1,
		xdrunion.Union{Type: 7, Payload: uint32(1)}, r, 50*time.Millisecond,
		func(resp *Response, cbType CBType) {
			calls++
			gotType = cbType
		})
	if calls != 1 || gotType != CBError {
		t.Fatalf("calls=%d cbType=%v, want 1/CBError", calls, gotType)
	}
}

func TestSendAsyncRegistersPendingEntry(t *testing.T) {
	r := uint32Registry()
	table := NewPendingTable()

	ep, err := ipcnet.Listen(0)
	if err != nil {
		t.Fatal(err)
	}
	defer ep.Close()

	calls := 0
	var gotType CBType
	err = SendAsync(ep, strconv.Itoa(ep.Port()), 1, 9,
		xdrunion.Union{Type: 7, Payload: uint32(1)}, r, table, time.Hour,
		func(resp *Response, cbType CBType) {
			calls++
			gotType = cbType
		})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Fatalf("callback fired %d times before any reply arrived", calls)
	}
	if table.Len() != 1 {
		t.Fatalf("pending table len = %d, want 1", table.Len())
	}

	if !table.Deliver(&Response{IPCRef: 9, Result: ResultSuccess}) {
		t.Fatal("expected delivery to match the registered ipcref")
	}
	if calls != 1 || gotType != CBReply {
		t.Fatalf("calls=%d cbType=%v after delivery, want 1/CBReply", calls, gotType)
	}
}
