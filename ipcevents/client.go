package ipcevents

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log"
	"net"
	"strings"

	"github.com/m-lab/go/rtx"
)

var (
	// Filename is the command-line flag naming the unix-domain socket
	// the ipcevents client and server share.
	Filename = flag.String("ipc.eventsocket", "", "The filename of the unix-domain socket on which command events are served.")
)

// Handler receives CommandEvents as MustRun scans them off the socket.
type Handler interface {
	Sent(ctx context.Context, ev CommandEvent)
	Delivered(ctx context.Context, ev CommandEvent)
	TimedOut(ctx context.Context, ev CommandEvent)
}

// MustRun connects to socket and dispatches every CommandEvent read
// from it to handler until ctx is cancelled. Errors besides a clean
// shutdown are fatal, mirroring eventsocket.MustRun.
func MustRun(ctx context.Context, socket string, handler Handler) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c, err := net.Dial("unix", socket)
	rtx.Must(err, "Could not connect to %q", socket)
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	s := bufio.NewScanner(c)
	for s.Scan() {
		var event CommandEvent
		rtx.Must(json.Unmarshal(s.Bytes(), &event), "Could not unmarshal event")
		switch event.Kind {
		case Sent:
			handler.Sent(ctx, event)
		case Delivered:
			handler.Delivered(ctx, event)
		case TimedOut:
			handler.TimedOut(ctx, event)
		default:
			log.Println("unknown ipc event kind:", event.Kind)
		}
	}

	err = s.Err()
	if err != nil && strings.Contains(err.Error(), "use of closed network connection") {
		err = nil
	}
	rtx.Must(err, "scanning of %s died with non-EOF error", socket)
}
