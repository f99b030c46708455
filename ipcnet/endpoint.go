package ipcnet

import (
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sys/unix"
)

// ErrUnknownService is returned when a service name cannot be resolved
// to a port through any step of the PortForName chain.
var ErrUnknownService = errors.New("ipcnet: unknown service name")

// ErrTimeout is returned by RequestReply when no reply arrives within
// the requested timeout.
var ErrTimeout = errors.New("ipcnet: timed out waiting for reply")

// Endpoint is a non-blocking UDP socket bound to a fixed local port,
// mirroring socket_init / socket_named_init in C libproc.
// It is not safe for concurrent use from multiple goroutines except
// where noted (RequestReply).
type Endpoint struct {
	fd   int
	port int
}

// Listen opens a non-blocking UDP socket bound to port, with
// SO_REUSEADDR set, matching socket_init. port 0 lets the kernel pick
// an ephemeral port, used for RequestReply's throwaway reply socket.
func Listen(port int) (*Endpoint, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		return nil, fmt.Errorf("ipcnet: socket: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ipcnet: set nonblocking: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ipcnet: set SO_REUSEADDR: %w", err)
	}
	sa := &unix.SockaddrInet4{Port: port}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ipcnet: bind port %d: %w", port, err)
	}
	if port == 0 {
		bound, err := unix.Getsockname(fd)
		if err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("ipcnet: getsockname: %w", err)
		}
		if in4, ok := bound.(*unix.SockaddrInet4); ok {
			port = in4.Port
		}
	}
	return &Endpoint{fd: fd, port: port}, nil
}

// ListenNamed resolves name to a port via PortForName and opens an
// Endpoint on it, mirroring socket_named_init.
func ListenNamed(name string) (*Endpoint, error) {
	port, ok := PortForName(name)
	if !ok {
		return nil, ErrUnknownService
	}
	return Listen(port)
}

// Port returns the endpoint's bound local port.
func (e *Endpoint) Port() int {
	return e.port
}

// Close closes the underlying socket.
func (e *Endpoint) Close() error {
	return unix.Close(e.fd)
}

// SendTo writes data to the given IPv4 address/port, mirroring
// socket_write.
func (e *Endpoint) SendTo(data []byte, ip [4]byte, port int) error {
	sa := &unix.SockaddrInet4{Port: port, Addr: ip}
	return unix.Sendto(e.fd, data, 0, sa)
}

// SendToName resolves name to a local port and sends data there over
// the loopback interface, mirroring socket_named_write.
func (e *Endpoint) SendToName(data []byte, name string) error {
	port, ok := PortForName(name)
	if !ok {
		return ErrUnknownService
	}
	return e.SendTo(data, [4]byte{127, 0, 0, 1}, port)
}

// resolveHost is overridable by tests; wraps net.LookupHost for the
// non-literal-IP branch of ResolveHost.
var resolveHost = func(host string) ([]string, error) {
	return net.LookupHost(host)
}

// ResolveHost resolves host to an IPv4 address, mirroring
// socket_get_addr_by_name's "IP literal, else name-to-address lookup"
// chain: an empty host means loopback, a
// dotted-decimal literal is parsed directly, anything else goes
// through the OS resolver so a peer on the LAN can be addressed by
// hostname rather than only by IP.
func ResolveHost(host string) ([4]byte, error) {
	if host == "" {
		return [4]byte{127, 0, 0, 1}, nil
	}
	if ip := net.ParseIP(host).To4(); ip != nil {
		return [4]byte{ip[0], ip[1], ip[2], ip[3]}, nil
	}
	addrs, err := resolveHost(host)
	if err != nil || len(addrs) == 0 {
		return [4]byte{}, fmt.Errorf("ipcnet: resolve host %q: %w", host, errLookupFailed(err))
	}
	for _, a := range addrs {
		if ip := net.ParseIP(a).To4(); ip != nil {
			return [4]byte{ip[0], ip[1], ip[2], ip[3]}, nil
		}
	}
	return [4]byte{}, fmt.Errorf("ipcnet: host %q has no IPv4 address", host)
}

func errLookupFailed(err error) error {
	if err != nil {
		return err
	}
	return ErrUnknownService
}

// Send resolves host via ResolveHost and service via PortForName, then
// sends data to the resulting address, mirroring socket_write's
// general (non-named-local) path. Unlike
// SendToName, host need not be loopback, so this is the path a
// cross-host LAN command would use.
func (e *Endpoint) Send(host, service string, data []byte) (int, error) {
	ip, err := ResolveHost(host)
	if err != nil {
		return 0, err
	}
	port, ok := PortForName(service)
	if !ok {
		return 0, ErrUnknownService
	}
	if err := e.SendTo(data, ip, port); err != nil {
		return 0, err
	}
	return len(data), nil
}

// Recv performs a single non-blocking read, returning
// unix.EAGAIN-wrapped errors when nothing is pending.
func (e *Endpoint) Recv(buf []byte) (n int, fromIP [4]byte, fromPort int, err error) {
	n, from, err := unix.Recvfrom(e.fd, buf, 0)
	if err != nil {
		return 0, fromIP, 0, err
	}
	if in4, ok := from.(*unix.SockaddrInet4); ok {
		fromIP = in4.Addr
		fromPort = in4.Port
	}
	return n, fromIP, fromPort, nil
}

// WaitReadable blocks until the endpoint's socket is readable or
// timeout elapses, recomputing the remaining wait on every iteration,
// mirroring wait_for_packet's select loop around EINTR.
func (e *Endpoint) WaitReadable(timeout time.Duration) (ready bool, err error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}
		tv := unix.NsecToTimeval(remaining.Nanoseconds())
		rfds := &unix.FdSet{}
		fdSet(rfds, e.fd)
		n, err := unix.Select(e.fd+1, rfds, nil, nil, &tv)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return false, err
		}
		if n > 0 {
			return true, nil
		}
		return false, nil
	}
}

func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << uint(fd%64)
}
