package lan

import (
	"encoding/json"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/net/ipv4"
)

const (
	// scanPort is where devices listen for scan requests.
	scanPort = 4001
	// listenPort is where the client listens for replies to any request.
	listenPort = 4002
	// cmdPort is where devices listen for control requests.
	cmdPort = 4003
)

// multicastGroup is the LAN API's well-known multicast address.
var multicastGroup = net.IPv4(239, 255, 255, 250)

// broadcaster sends scan packets to a single destination address on
// scanPort, with multicast loopback disabled when the address is a
// multicast group and SO_BROADCAST enabled otherwise.
type broadcaster struct {
	addr net.IP
	conn *net.UDPConn
}

func newBroadcaster(addr net.IP) (*broadcaster, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("lan: binding broadcaster socket: %w", err)
	}

	if addr.IsMulticast() {
		pc := ipv4.NewPacketConn(conn)
		if err := pc.SetMulticastLoopback(false); err != nil {
			conn.Close()
			return nil, fmt.Errorf("lan: disabling multicast loopback for %s: %w", addr, err)
		}
	} else if err := setBroadcast(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("lan: enabling broadcast for %s: %w", addr, err)
	}

	return &broadcaster{addr: addr, conn: conn}, nil
}

// setBroadcast enables SO_BROADCAST so packets can be sent to a broadcast
// destination address (e.g. 255.255.255.255 or an interface's broadcast
// address) rather than just unicast/multicast ones.
func setBroadcast(conn *net.UDPConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	if err := raw.Control(func(fd uintptr) {
		sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1)
	}); err != nil {
		return err
	}
	return sockErr
}

func (b *broadcaster) send(req request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("lan: encoding request: %w", err)
	}
	_, err = b.conn.WriteToUDP(data, &net.UDPAddr{IP: b.addr, Port: scanPort})
	if err != nil {
		return fmt.Errorf("lan: sending to %s: %w", b.addr, err)
	}
	return nil
}

func (b *broadcaster) close() error {
	return b.conn.Close()
}

// sendTo sends req directly to addr on cmdPort, for unicast control and
// status requests to a device whose IP is already known.
func sendTo(addr net.IP, req request) error {
	conn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: addr, Port: cmdPort})
	if err != nil {
		return fmt.Errorf("lan: dialing %s: %w", addr, err)
	}
	defer conn.Close()

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("lan: encoding request: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("lan: writing to %s: %w", addr, err)
	}
	return nil
}
