package registry

import (
	"strings"
	"sync"
	"time"

	"github.com/nerrad567/gv2mqtt/internal/govee/iot"
	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
	"github.com/nerrad567/gv2mqtt/internal/govee/platform"
)

// Logger defines the logging interface used by the Registry. This allows
// different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Notifier is invoked, coalesced, whenever a device's published state
// should be refreshed — normally wired to the Home Assistant bridge's
// state-topic publisher.
type Notifier func(deviceID string)

// coalesceWindow bounds how long NotifyStateChange waits for further
// updates to the same device before firing the notifier once.
const coalesceWindow = 250 * time.Millisecond

// Registry holds every known device and the per-device control
// serialization used to issue commands against them. All public methods
// are thread-safe.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device
	logger  Logger

	semMu      sync.Mutex
	semaphores map[string]chan struct{}

	notifyMu sync.Mutex
	notify   Notifier
	pending  map[string]*time.Timer
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		devices:    make(map[string]*Device),
		logger:     noopLogger{},
		semaphores: make(map[string]chan struct{}),
		pending:    make(map[string]*time.Timer),
	}
}

// SetLogger sets the logger used for registration and update events.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetNotifier wires the callback NotifyStateChange schedules.
func (r *Registry) SetNotifier(n Notifier) {
	r.notifyMu.Lock()
	r.notify = n
	r.notifyMu.Unlock()
}

// Upsert returns the device for (sku, id), creating it if this is the
// first time it has been seen.
func (r *Registry) Upsert(sku, id string) *Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		d = &Device{SKU: sku, ID: id, UpdatedAt: time.Now()}
		r.devices[id] = d
		r.logger.Info("device registered", "id", id, "sku", sku)
	}
	return d
}

// DeviceByID returns a snapshot of the device with the given exact id.
func (r *Registry) DeviceByID(id string) (*Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	if !ok {
		return nil, false
	}
	return d.clone(), true
}

// ListDevices returns a snapshot of every known device.
func (r *Registry) ListDevices() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d.clone())
	}
	return out
}

// Resolve looks up a device by id or name. Precedence is exact id, then
// exact name, then case-insensitive name; a name that matches more than
// one device at a given precedence level is ErrAmbiguous rather than
// picking one arbitrarily.
func (r *Registry) Resolve(idOrName string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.devices[idOrName]; ok {
		return d.clone(), nil
	}

	var exact []*Device
	for _, d := range r.devices {
		if d.Name() == idOrName {
			exact = append(exact, d)
		}
	}
	switch len(exact) {
	case 1:
		return exact[0].clone(), nil
	default:
		if len(exact) > 1 {
			return nil, ErrAmbiguous
		}
	}

	var fold []*Device
	for _, d := range r.devices {
		if strings.EqualFold(d.Name(), idOrName) {
			fold = append(fold, d)
		}
	}
	switch len(fold) {
	case 1:
		return fold[0].clone(), nil
	default:
		if len(fold) > 1 {
			return nil, ErrAmbiguous
		}
	}

	return nil, ErrNotFound
}

// SetGoveeName records the name the Govee app has assigned the device.
func (r *Registry) SetGoveeName(id, name string) {
	r.touch(id, func(d *Device) { d.GoveeName = name })
}

// SetRoom records the room the Govee app has assigned the device.
func (r *Registry) SetRoom(id, room string) {
	r.touch(id, func(d *Device) { d.Room = room })
}

// SetIPAddr records the device's current LAN address.
func (r *Registry) SetIPAddr(id, ip string) {
	r.touch(id, func(d *Device) { d.IPAddr = ip })
}

// SetLanDevice records a scan reply and notifies listeners.
func (r *Registry) SetLanDevice(id string, ld lan.LanDevice) {
	if r.touch(id, func(d *Device) { d.LanDevice = &ld }) {
		r.NotifyStateChange(id)
	}
}

// SetLanStatus records a devStatus reply and notifies listeners.
func (r *Registry) SetLanStatus(id string, status lan.DeviceStatus) {
	changed := r.touch(id, func(d *Device) {
		d.LanStatus = &status
		d.LastLanUpdate = d.UpdatedAt
	})
	if changed {
		r.NotifyStateChange(id)
	}
}

// SetPlatformInfo records a device's Platform API capability listing.
func (r *Registry) SetPlatformInfo(id string, info platform.DeviceInfo) {
	r.touch(id, func(d *Device) { d.PlatformInfo = &info })
}

// SetPlatformState records a Platform API state response and notifies
// listeners.
func (r *Registry) SetPlatformState(id string, state platform.DeviceState) {
	if r.touch(id, func(d *Device) { d.PlatformState = &state }) {
		r.NotifyStateChange(id)
	}
}

// MergeIotStatus implements iot.StateSink: it folds an AWS IoT status push
// into the device's last-known IoT status using the packet's own
// brightness/color/kelvin-then-onOff precedence, and notifies listeners.
func (r *Registry) MergeIotStatus(sku, deviceID string, update iot.StatusUpdate) {
	r.mu.Lock()
	d, ok := r.devices[deviceID]
	if !ok {
		d = &Device{SKU: sku, ID: deviceID}
		r.devices[deviceID] = d
	}

	base := lan.DeviceStatus{}
	switch {
	case d.IotStatus != nil:
		base = *d.IotStatus
	case d.LanStatus != nil:
		base = *d.LanStatus
	}
	merged := iot.MergeStatus(base, update)
	d.IotStatus = &merged
	d.LastIotUpdate = time.Now()
	d.UpdatedAt = d.LastIotUpdate
	r.mu.Unlock()

	r.NotifyStateChange(deviceID)
}

// NotifyStateChange implements iot.StateSink and is also called directly
// after LAN/platform status updates. Repeated calls for the same device
// within coalesceWindow collapse into a single notifier invocation, so a
// burst of IoT packets for one device produces one published snapshot
// rather than one per packet.
func (r *Registry) NotifyStateChange(deviceID string) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	if r.notify == nil {
		return
	}

	if t, pending := r.pending[deviceID]; pending {
		t.Stop()
	}
	r.pending[deviceID] = time.AfterFunc(coalesceWindow, func() {
		r.notifyMu.Lock()
		notify := r.notify
		delete(r.pending, deviceID)
		r.notifyMu.Unlock()
		if notify != nil {
			notify(deviceID)
		}
	})
}

// touch applies mutate to the stored device for id, stamping UpdatedAt.
// It reports whether a device was found and mutated.
func (r *Registry) touch(id string, mutate func(*Device)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return false
	}
	d.UpdatedAt = time.Now()
	mutate(d)
	return true
}
