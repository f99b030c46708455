// Package ipcevents broadcasts command lifecycle events (sent,
// delivered, timed out) over a Unix domain socket in JSONL form,
// adapted from eventsocket's TCP flow-open/flow-close broadcaster: the
// same client-map/mutex/notify-goroutine shape, reused for a different
// kind of event.
package ipcevents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the lifecycle stage a CommandEvent reports: exactly one of
// Delivered or TimedOut follows every Sent command.
type Kind int

const (
	// Sent is emitted when a command is first transmitted.
	Sent = Kind(iota)
	// Delivered is emitted when a matching response arrives.
	Delivered
	// TimedOut is emitted when a pending entry's deadline fires first.
	TimedOut
)

// CommandEvent is the JSONL record broadcast to connected listeners.
// EventID is a fresh identifier per broadcast, distinct from the
// command's own ipcref, so a listener can dedupe retried broadcasts
// without needing to know the command layer's internal counters.
type CommandEvent struct {
	EventID   string
	Kind      Kind
	Timestamp time.Time
	IPCRef    uint32
	Cmd       uint32
	Dest      string
}

// Server serves CommandEvents over a Unix domain socket to any number
// of connected listeners, mirroring eventsocket.Server.
type Server interface {
	Listen() error
	Serve(context.Context) error
	CommandSent(ipcref, cmd uint32, dest string)
	CommandDelivered(ipcref uint32)
	CommandTimedOut(ipcref uint32)
}

type server struct {
	eventC       chan *CommandEvent
	filename     string
	clients      map[net.Conn]struct{}
	unixListener net.Listener
	mutex        sync.Mutex
	servingWG    sync.WaitGroup
}

// New makes a new Server that broadcasts on the given Unix domain
// socket path.
func New(filename string) Server {
	return &server{
		filename: filename,
		eventC:   make(chan *CommandEvent, 100),
		clients:  make(map[net.Conn]struct{}),
	}
}

func (s *server) addClient(c net.Conn) {
	log.Println("Adding new ipc event client", c)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.clients[c] = struct{}{}
}

func (s *server) removeClient(c net.Conn) {
	s.servingWG.Add(1)
	defer s.servingWG.Done()
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
}

func (s *server) sendToAllListeners(data string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for c := range s.clients {
		if _, err := fmt.Fprintln(c, data); err != nil {
			log.Println("write to ipc event client", c, "failed:", err, "- removing")
			go s.removeClient(c)
			go c.Close()
		}
	}
}

func (s *server) notifyClients(ctx context.Context) {
	s.servingWG.Add(1)
	defer s.servingWG.Done()
	for ctx.Err() == nil {
		event := <-s.eventC
		if event == nil {
			continue
		}
		b, err := json.Marshal(*event)
		if err != nil {
			log.Printf("WARNING: could not marshal event %+v: %v\n", event, err)
			continue
		}
		s.sendToAllListeners(string(b))
	}
}

// Listen binds the Unix domain socket. Call Serve afterward to start
// accepting connections.
func (s *server) Listen() error {
	s.servingWG.Add(1)
	os.Remove(s.filename)
	var err error
	s.unixListener, err = net.Listen("unix", s.filename)
	return err
}

// Serve accepts client connections and broadcasts events until ctx is
// cancelled.
func (s *server) Serve(ctx context.Context) error {
	defer s.servingWG.Done()
	derivedCtx, derivedCancel := context.WithCancel(ctx)
	defer derivedCancel()

	go s.notifyClients(derivedCtx)

	s.servingWG.Add(1)
	go func() {
		<-derivedCtx.Done()
		s.unixListener.Close()
		close(s.eventC)
		s.servingWG.Done()
	}()

	var err error
	for derivedCtx.Err() == nil {
		var conn net.Conn
		conn, err = s.unixListener.Accept()
		if err != nil {
			log.Printf("could not accept on socket %q: %s\n", s.filename, err)
			continue
		}
		s.addClient(conn)
	}
	return err
}

func (s *server) CommandSent(ipcref, cmd uint32, dest string) {
	s.eventC <- &CommandEvent{
		EventID:   uuid.NewString(),
		Kind:      Sent,
		Timestamp: time.Now(),
		IPCRef:    ipcref,
		Cmd:       cmd,
		Dest:      dest,
	}
}

func (s *server) CommandDelivered(ipcref uint32) {
	s.eventC <- &CommandEvent{
		EventID:   uuid.NewString(),
		Kind:      Delivered,
		Timestamp: time.Now(),
		IPCRef:    ipcref,
	}
}

func (s *server) CommandTimedOut(ipcref uint32) {
	s.eventC <- &CommandEvent{
		EventID:   uuid.NewString(),
		Kind:      TimedOut,
		Timestamp: time.Now(),
		IPCRef:    ipcref,
	}
}

type nullServer struct{}

func (nullServer) Listen() error                               { return nil }
func (nullServer) Serve(context.Context) error                 { return nil }
func (nullServer) CommandSent(ipcref, cmd uint32, dest string) {}
func (nullServer) CommandDelivered(ipcref uint32)              {}
func (nullServer) CommandTimedOut(ipcref uint32)               {}

// NullServer returns a Server that discards every event, for callers
// that want a Server interface without caring whether broadcasting is
// actually wired up.
func NullServer() Server {
	return nullServer{}
}
