package ipc

import (
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/xdr"
	"github.com/polysat/satnet-ipc/xdrunion"
)

func uint32Registry() *registry.Registry {
	r := registry.New()
	r.Register(&registry.StructDefinition{
		Type: 7,
		Encode: func(v interface{}, dst []byte, max int) (int, error) {
			u := v.(uint32)
			return xdr.EncodeUint32(&u, dst, max)
		},
		Decode: func(src []byte, max int) (interface{}, int, error) {
			var u uint32
			n, err := xdr.DecodeUint32(src, &u, max)
			return u, n, err
		},
	})
	return r
}

func TestCommandEncodeDecodeRoundTrip(t *testing.T) {
	r := uint32Registry()
	cmd := &Command{
		Cmd:        42,
		IPCRef:     5,
		Parameters: xdrunion.Union{Type: 7, Payload: uint32(99)},
	}

	buf, err := EncodeCommand(cmd, r)
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeCommand(buf, r)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(cmd, got); diff != nil {
		t.Fatalf("round trip mismatch: %v", diff)
	}
}

func TestResponseEncodeDecodeRoundTrip(t *testing.T) {
	r := uint32Registry()
	resp := &Response{
		Cmd:    ResponseSentinel,
		IPCRef: 5,
		Result: ResultSuccess,
		Data:   xdrunion.Union{Type: 7, Payload: uint32(1234)},
	}

	buf, err := EncodeResponse(resp, r)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeResponse(buf, r)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(resp, got); diff != nil {
		t.Fatalf("round trip mismatch: %v", diff)
	}
}

func TestRefCounterMonotonic(t *testing.T) {
	c := NewRefCounter()
	a := c.Next()
	b := c.Next()
	d := c.Next()
	if !(a < b && b < d) {
		t.Fatalf("refs not strictly increasing: %d %d %d", a, b, d)
	}
}

func TestPendingTableDeliverFiresOnce(t *testing.T) {
	pt := NewPendingTable()
	calls := 0
	var gotType CBType
	pt.Register(1, "peer", time.Now().Add(time.Hour), func(resp *Response, cbType CBType) {
		calls++
		gotType = cbType
	})

	resp := &Response{IPCRef: 1}
	if !pt.Deliver(resp) {
		t.Fatal("expected delivery match")
	}
	if calls != 1 || gotType != CBReply {
		t.Fatalf("calls=%d type=%v", calls, gotType)
	}
	if pt.Deliver(resp) {
		t.Fatal("second delivery should not match, entry was removed")
	}
	if pt.Len() != 0 {
		t.Fatalf("len = %d, want 0", pt.Len())
	}
}

func TestPendingTableExpireFiresTimeout(t *testing.T) {
	pt := NewPendingTable()
	var gotType CBType
	fired := false
	pt.Register(1, "peer", time.Now().Add(-time.Millisecond), func(resp *Response, cbType CBType) {
		fired = true
		gotType = cbType
	})

	n := pt.ExpireBefore(time.Now())
	if n != 1 || !fired || gotType != CBTimeout {
		t.Fatalf("n=%d fired=%v type=%v", n, fired, gotType)
	}
	if pt.Len() != 0 {
		t.Fatalf("len = %d, want 0", pt.Len())
	}
}

func TestDispatchTableUnknownCommand(t *testing.T) {
	dt := NewDispatchTable()
	_, ok := dt.Dispatch(&Command{Cmd: 99})
	if ok {
		t.Fatal("expected no handler registered")
	}
}

func TestDispatchTableRegisteredHandler(t *testing.T) {
	dt := NewDispatchTable()
	dt.Register(5, func(cmd *Command) *Response {
		return SuccessResponse(cmd, xdrunion.Union{Type: 7, Payload: uint32(1)})
	})
	resp, ok := dt.Dispatch(&Command{Cmd: 5, IPCRef: 3})
	if !ok || resp.IPCRef != 3 || resp.Result != ResultSuccess {
		t.Fatalf("resp=%+v ok=%v", resp, ok)
	}
}
