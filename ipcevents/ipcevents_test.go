package ipcevents

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"testing"

	"github.com/m-lab/go/rtx"
)

func TestServerBroadcastsCommandSent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir, err := os.MkdirTemp("", "TestIPCEventsServer")
	rtx.Must(err, "Could not create tempdir")
	defer os.RemoveAll(dir)

	srv := New(dir + "/ipcevents.sock").(*server)
	rtx.Must(srv.Listen(), "Could not listen")
	go srv.Serve(ctx)

	c, err := net.Dial("unix", dir+"/ipcevents.sock")
	rtx.Must(err, "Could not dial")

	for {
		srv.mutex.Lock()
		n := len(srv.clients)
		srv.mutex.Unlock()
		if n > 0 {
			break
		}
	}

	srv.CommandSent(7, 42, "watchdog")

	r := bufio.NewScanner(c)
	if !r.Scan() {
		t.Fatal("expected a broadcast line")
	}
	var got CommandEvent
	rtx.Must(json.Unmarshal(r.Bytes(), &got), "could not unmarshal")
	if got.Kind != Sent || got.IPCRef != 7 || got.Cmd != 42 || got.Dest != "watchdog" {
		t.Fatalf("got %+v", got)
	}
	if got.EventID == "" {
		t.Fatal("expected a non-empty EventID")
	}
}

func TestNullServerDoesNothing(t *testing.T) {
	s := NullServer()
	if err := s.Listen(); err != nil {
		t.Fatal(err)
	}
	if err := s.Serve(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.CommandSent(1, 2, "x")
	s.CommandDelivered(1)
	s.CommandTimedOut(1)
}
