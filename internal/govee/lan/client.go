package lan

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// Options controls which addresses a Client scans.
type Options struct {
	// DisableMulticast stops scan requests from going to the LAN API's
	// well-known multicast group, which they are sent to by default.
	DisableMulticast bool

	// AdditionalAddresses are sent scan requests alongside (or instead
	// of) multicast — individual device IPs or broadcast addresses.
	AdditionalAddresses []net.IP

	// GlobalBroadcast additionally sends to 255.255.255.255.
	GlobalBroadcast bool
}

func (o Options) addresses() []net.IP {
	addrs := append([]net.IP{}, o.AdditionalAddresses...)
	if !o.DisableMulticast {
		addrs = append(addrs, multicastGroup)
	}
	if o.GlobalBroadcast {
		addrs = append(addrs, net.IPv4bcast)
	}
	return addrs
}

// Logger is the logging dependency for Client. Compatible with
// logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

type addrListener struct {
	addr net.IP
	ch   chan response
}

// Client discovers and controls Govee devices over the LAN UDP protocol.
type Client struct {
	mu        sync.Mutex
	listeners []*addrListener

	logger Logger
}

// NewClient starts listening for LAN replies on listenPort, runs the
// discovery loop against opts' addresses, and returns discovered devices
// on the returned channel until ctx is canceled.
func NewClient(ctx context.Context, opts Options, logger Logger) (*Client, <-chan LanDevice, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: listenPort})
	if err != nil {
		return nil, nil, fmt.Errorf(
			"lan: binding UDP port %d, which is required for the Govee LAN API "+
				"(another integration, e.g. the official Govee LAN Control "+
				"add-on, may already be bound to it): %w", listenPort, err)
	}

	c := &Client{logger: logger}
	discovered := make(chan LanDevice, 8)

	go c.runDiscovery(ctx, conn, opts, discovered)

	return c, discovered, nil
}

func (c *Client) addListener(addr net.IP) *addrListener {
	l := &addrListener{addr: addr, ch: make(chan response, 4)}
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
	return l
}

func (c *Client) removeListener(l *addrListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.listeners {
		if existing == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

func (c *Client) dispatch(src net.IP, r response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.listeners {
		if l.addr.Equal(src) {
			select {
			case l.ch <- r:
			default:
			}
		}
	}
}

func (c *Client) runDiscovery(ctx context.Context, conn *net.UDPConn, opts Options, discovered chan<- LanDevice) {
	defer conn.Close()

	sendScan := func() {
		if err := c.broadcastScan(opts); err != nil && c.logger != nil {
			c.logger.Error("lan: broadcasting scan", "error", err)
		}
	}

	const (
		initialRetry = 2 * time.Second
		maxRetry     = 60 * time.Second
	)

	sendScan()
	retry := initialRetry
	buf := make([]byte, 4096)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(retry))
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			sendScan()
			retry = min(retry*2, maxRetry)
			continue
		}

		retry = initialRetry
		c.processPacket(src.IP, buf[:n], discovered)
	}
}

func (c *Client) processPacket(src net.IP, data []byte, discovered chan<- LanDevice) {
	r, err := parseResponse(data)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("lan: discarding malformed packet", "source", src, "error", err)
		}
		return
	}

	if r.Kind == "scan" {
		if r.Scan.IP == "" {
			r.Scan.IP = src.String()
		} else if r.Scan.IP != src.String() && c.logger != nil {
			c.logger.Warn("lan: scan reply ip mismatch", "declared", r.Scan.IP, "source", src.String())
		}
	}

	c.dispatch(src, r)

	if r.Kind == "scan" {
		select {
		case discovered <- r.Scan:
		default:
		}
	}
}

func (c *Client) broadcastScan(opts Options) error {
	var firstErr error
	for _, addr := range opts.addresses() {
		b, err := newBroadcaster(addr)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sendErr := b.send(newScanRequest())
		b.close()
		if sendErr != nil && firstErr == nil {
			firstErr = sendErr
		}
	}
	return firstErr
}

// ScanIP interrogates a single address directly, bypassing the discovery
// loop, and returns its scan reply or ErrTimeout after 10 seconds.
func (c *Client) ScanIP(ctx context.Context, addr net.IP) (LanDevice, error) {
	l := c.addListener(addr)
	defer c.removeListener(l)

	b, err := newBroadcaster(addr)
	if err != nil {
		return LanDevice{}, err
	}
	defer b.close()
	if err := b.send(newScanRequest()); err != nil {
		return LanDevice{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for {
		select {
		case r, ok := <-l.ch:
			if !ok {
				return LanDevice{}, ErrListenerClosed
			}
			if r.Kind == "scan" {
				return r.Scan, nil
			}
		case <-ctx.Done():
			return LanDevice{}, ErrTimeout
		}
	}
}

// QueryStatus polls device for its current status, resending devStatus
// every 350ms until a reply arrives or 10 seconds elapse.
func (c *Client) QueryStatus(ctx context.Context, device LanDevice) (DeviceStatus, error) {
	ip := net.ParseIP(device.IP)
	if ip == nil {
		return DeviceStatus{}, fmt.Errorf("lan: invalid device ip %q", device.IP)
	}

	l := c.addListener(ip)
	defer c.removeListener(l)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ticker := time.NewTicker(350 * time.Millisecond)
	defer ticker.Stop()

	send := func() {
		if err := sendTo(ip, newDevStatusRequest()); err != nil && c.logger != nil {
			c.logger.Warn("lan: sending devStatus", "device", device.Device, "error", err)
		}
	}
	send()

	for {
		select {
		case r, ok := <-l.ch:
			if !ok {
				return DeviceStatus{}, ErrListenerClosed
			}
			if r.Kind == "devStatus" {
				return r.Status, nil
			}
		case <-ticker.C:
			send()
		case <-ctx.Done():
			return DeviceStatus{}, ErrTimeout
		}
	}
}

// SendTurn sends an on/off control command to device.
func SendTurn(device LanDevice, on bool) error {
	ip := net.ParseIP(device.IP)
	if ip == nil {
		return fmt.Errorf("lan: invalid device ip %q", device.IP)
	}
	return sendTo(ip, newTurnRequest(on))
}

// SendBrightness sends a 0-100 brightness control command to device.
func SendBrightness(device LanDevice, percent int) error {
	ip := net.ParseIP(device.IP)
	if ip == nil {
		return fmt.Errorf("lan: invalid device ip %q", device.IP)
	}
	return sendTo(ip, newBrightnessRequest(percent))
}

// SendColorRGB sends an RGB color control command to device.
func SendColorRGB(device LanDevice, color DeviceColor) error {
	ip := net.ParseIP(device.IP)
	if ip == nil {
		return fmt.Errorf("lan: invalid device ip %q", device.IP)
	}
	return sendTo(ip, newColorRequest(color, 0))
}

// SendColorTemperatureKelvin sends a white-balance control command to
// device.
func SendColorTemperatureKelvin(device LanDevice, kelvin uint32) error {
	ip := net.ParseIP(device.IP)
	if ip == nil {
		return fmt.Errorf("lan: invalid device ip %q", device.IP)
	}
	return sendTo(ip, newColorRequest(DeviceColor{}, kelvin))
}

// SendReal sends a raw ptReal command, a list of base64-encoded BLE
// envelope frames, to device. Used for scene selection and any control not
// otherwise exposed by the LAN protocol.
func SendReal(device LanDevice, commands []string) error {
	ip := net.ParseIP(device.IP)
	if ip == nil {
		return fmt.Errorf("lan: invalid device ip %q", device.IP)
	}
	return sendTo(ip, newPtRealRequest(commands))
}
