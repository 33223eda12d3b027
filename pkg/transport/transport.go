// Package transport opens the byte streams carrying the link.
package transport

import (
	"io"
	"net"
	"strings"

	"go.bug.st/serial"
)

// TCPPrefix selects a TCP connection, e.g. tcp:localhost:5760 for a
// simulator or a serial-to-network adapter.
const TCPPrefix = "tcp:"

// DefaultBaudRate of serial ports.
const DefaultBaudRate = 115200

// Conn is an open transport.
type Conn interface {
	io.ReadWriteCloser
}

// IsTCP tells if the name selects a TCP connection.
func IsTCP(name string) bool {
	return strings.HasPrefix(name, TCPPrefix)
}

// Open opens the transport by name. The baud rate only applies to serial
// ports, zero uses DefaultBaudRate.
func Open(name string, baud int) (Conn, error) {
	if IsTCP(name) {
		return net.Dial("tcp", name[len(TCPPrefix):])
	}
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return serial.Open(name, &serial.Mode{BaudRate: baud})
}

// AvailablePorts returns the serial ports in the system followed by the
// given TCP endpoints.
func AvailablePorts(tcpAddrs ...string) ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		pe, ok := err.(*serial.PortError)
		if !ok || pe.Code() != serial.ErrorEnumeratingPorts {
			return nil, err
		}
		// no serial ports at all on some platforms.
		ports = nil
	}
	for _, addr := range tcpAddrs {
		if !IsTCP(addr) {
			addr = TCPPrefix + addr
		}
		ports = append(ports, addr)
	}
	return ports, nil
}
