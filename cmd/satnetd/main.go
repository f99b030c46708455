// Command satnetd runs the IPC host loop: a named datagram endpoint
// that receives Command/Response envelopes, matches responses against
// a pending-command table, dispatches unsolicited commands, and
// expires overdue pending entries on every tick.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/prometheusx"
	"github.com/m-lab/go/rtx"

	"github.com/polysat/satnet-ipc/ipc"
	"github.com/polysat/satnet-ipc/ipcevents"
	"github.com/polysat/satnet-ipc/ipcnet"
	"github.com/polysat/satnet-ipc/metrics"
	"github.com/polysat/satnet-ipc/registry"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

var (
	service     = flag.String("service", "", "service name this process listens on (resolved via the ipcnet name directory)")
	port        = flag.Int("port", 0, "local UDP port to listen on; ignored if -service is set")
	promPort    = flag.String("prom", ":9090", "Prometheus metrics export address and port")
	tickPeriod  = flag.Duration("tick", 100*time.Millisecond, "pending-table expiry poll interval")
	eventSocket = flag.String("eventsocket", "", "unix-domain socket path for broadcasting command lifecycle events; empty disables broadcasting")
)

func openEndpoint() (*ipcnet.Endpoint, error) {
	if *service != "" {
		return ipcnet.ListenNamed(*service)
	}
	return ipcnet.Listen(*port)
}

func main() {
	flag.Parse()
	flagx.ArgsFromEnv(flag.CommandLine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	promSrv := prometheusx.MustStartPrometheus(*promPort)
	defer promSrv.Shutdown(ctx)

	r := registry.New()
	pending := ipc.NewPendingTable()
	dispatch := ipc.NewDispatchTable()

	events := ipcevents.NullServer()
	if *eventSocket != "" {
		events = ipcevents.New(*eventSocket)
		rtx.Must(events.Listen(), "could not listen on event socket %q", *eventSocket)
		go events.Serve(ctx)
	}

	ep, err := openEndpoint()
	rtx.Must(err, "could not open ipc endpoint")
	defer ep.Close()
	log.Printf("satnetd listening on port %d", ep.Port())

	runLoop(ctx, ep, r, pending, dispatch, events)
}

// runLoop drains incoming datagrams into Command/Response envelopes and
// expires overdue pending entries on every tick, mirroring
// collector.Run's ticker-driven poll loop shape - here the tick itself
// is WaitReadable's own timeout rather than a separate time.Ticker.
func runLoop(ctx context.Context, ep *ipcnet.Endpoint, r *registry.Registry, pending *ipc.PendingTable, dispatch *ipc.DispatchTable, events ipcevents.Server) {
	buf := make([]byte, 65536)
	for ctx.Err() == nil {
		metrics.PendingTableSize.Set(float64(pending.Len()))

		ready, err := ep.WaitReadable(*tickPeriod)
		if err != nil {
			metrics.EndpointErrorCount.WithLabelValues("recv").Inc()
			continue
		}
		if ready {
			handleDatagram(ep, buf, r, pending, dispatch, events)
		}

		// per-entry CBTimeout notification already happened inside the
		// registered callback itself; the count isn't otherwise needed.
		pending.ExpireBefore(time.Now())
	}
}

func handleDatagram(ep *ipcnet.Endpoint, buf []byte, r *registry.Registry, pending *ipc.PendingTable, dispatch *ipc.DispatchTable, events ipcevents.Server) {
	n, fromIP, fromPort, err := ep.Recv(buf)
	if err != nil {
		return
	}

	resp, err := ipc.DecodeResponse(buf[:n], r)
	if err == nil && resp.Cmd == ipc.ResponseSentinel {
		if pending.Deliver(resp) {
			events.CommandDelivered(resp.IPCRef)
			metrics.ResponseResultCount.WithLabelValues(resultLabel(resp.Result)).Inc()
		}
		return
	}

	cmd, err := ipc.DecodeCommand(buf[:n], r)
	if err != nil {
		metrics.CodecErrorCount.WithLabelValues("DecodeFailed").Inc()
		return
	}

	out, ok := dispatch.Dispatch(cmd)
	if !ok {
		out = ipc.ErrorResponse(cmd, ipc.ResultUnknownCommand)
	}
	if out == nil {
		return
	}
	respBuf, err := ipc.EncodeResponse(out, r)
	if err != nil {
		return
	}
	if err := ep.SendTo(respBuf, fromIP, fromPort); err != nil {
		metrics.EndpointErrorCount.WithLabelValues("send").Inc()
	}
}

func resultLabel(code ipc.ResultCode) string {
	switch code {
	case ipc.ResultSuccess:
		return "success"
	case ipc.ResultUnknownCommand:
		return "unknown_command"
	case ipc.ResultDecodeFailed:
		return "decode_failed"
	case ipc.ResultHandlerFailed:
		return "handler_failed"
	case ipc.ResultUnknownType:
		return "unknown_type"
	default:
		return "other"
	}
}
