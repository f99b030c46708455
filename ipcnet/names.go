// Package ipcnet implements the named UDP datagram transport:
// non-blocking per-process endpoints addressed by a
// service name, resolved to a port through the same three-step chain as
// socket_get_addr_by_name in C libproc.
package ipcnet

import (
	"net"
	"strconv"
)

// serverName is one compiled-in fallback service, mirroring
// struct ServiceNames / serverNameList in C libproc.
type serverName struct {
	name          string
	port          int
	multicastIP   string
	multicastPort int
}

// builtinServices is the fallback table consulted when the OS service
// database has no entry for a name, ported verbatim (name, port,
// multicast IP, multicast port) from ipc.c's serverNameList.
var builtinServices = []serverName{
	{"beacon", 50000, "234.192.101.1", 51000},
	{"sys_manager", 50001, "234.192.101.2", 51001},
	{"watchdog", 50002, "234.192.101.3", 51002},
	{"satcomm", 50003, "234.192.101.4", 51003},
	{"filemgr", 50004, "234.192.101.5", 51004},
	{"telemetry", 50005, "234.192.101.6", 51005},
	{"datalogger", 50006, "234.192.101.7", 51006},
	{"ethcomm", 50007, "234.192.101.8", 51007},
	{"comm_server", 50008, "234.192.101.9", 51008},
	{"clksync", 50009, "234.192.101.10", 51009},
	{"payload", 50010, "234.192.101.11", 51010},
	{"adcs", 50011, "234.192.101.12", 51011},
	{"pscam", 50012, "234.192.101.13", 51012},
	{"camera", 50012, "234.192.101.13", 51012},
	{"gps", 50013, "234.192.101.14", 51013},
	{"log_cleaner", 50014, "234.192.101.15", 51014},
	{"test1", 52003, "224.0.0.1", 52003},
	{"test2", 52004, "234.192.101.16", 52004},
}

// unknownServiceName is returned by NameForPort when no resolution
// chain step identifies the port, mirroring libproc's behavior of
// reporting lookup failure rather than guessing.
const unknownServiceName = "unknown"

// lookupService is overridable by tests; wraps net.LookupPort against
// the OS service database (/etc/services equivalent of getservbyname).
var lookupService = func(name string) (int, error) {
	return net.LookupPort("udp", name)
}

// PortForName resolves service to a UDP port: the OS service database
// first, then the built-in compiled table, then a plain decimal parse
// of name itself.
// Returns ok=false if every step fails.
func PortForName(name string) (port int, ok bool) {
	if p, err := lookupService(name); err == nil && p > 0 {
		return p, true
	}
	for _, s := range builtinServices {
		if s.name == name {
			return s.port, true
		}
	}
	if p, err := strconv.Atoi(name); err == nil && p > 0 {
		return p, true
	}
	return 0, false
}

// NameForPort resolves a UDP port back to a service name using the
// built-in table, else "unknown" (mirroring socket_get_name_by_addr's
// fallback). Unlike PortForName, there is no portable stdlib
// equivalent of a getservbyport reverse lookup, so this chain skips
// straight to the built-in table.
func NameForPort(port int) string {
	for _, s := range builtinServices {
		if s.port == port {
			return s.name
		}
	}
	return unknownServiceName
}

// MulticastAddrForName returns the multicast group and port associated
// with service in the built-in table, mirroring
// socket_multicast_addr_by_name / socket_multicast_port_by_name. ok is
// false if service has no multicast entry.
func MulticastAddrForName(service string) (addr string, port int, ok bool) {
	for _, s := range builtinServices {
		if s.name == service {
			return s.multicastIP, s.multicastPort, true
		}
	}
	return "", 0, false
}

// multicastCache holds the parsed form of the table's dotted-quad
// multicast strings, filled on first request per service. Unsynchronized
// like the rest of the name directory: the table is immutable after
// startup and lookups happen on the host loop's thread.
var multicastCache = map[string][4]byte{}

// MulticastGroupForName returns the parsed IPv4 multicast group and port
// for service, parsing the built-in table's text form on first use and
// caching the result for subsequent lookups.
func MulticastGroupForName(service string) (group [4]byte, port int, ok bool) {
	addr, port, ok := MulticastAddrForName(service)
	if !ok {
		return group, 0, false
	}
	if g, hit := multicastCache[service]; hit {
		return g, port, true
	}
	ip := net.ParseIP(addr).To4()
	if ip == nil {
		return group, 0, false
	}
	copy(group[:], ip)
	multicastCache[service] = group
	return group, port, true
}
