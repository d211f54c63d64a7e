package registry

import (
	"strings"
	"time"

	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
	"github.com/nerrad567/gv2mqtt/internal/govee/platform"
)

// Device is the registry's in-memory view of one physical Govee device,
// merging identity and last-seen status from whichever transports have
// reported on it.
type Device struct {
	SKU string
	ID  string

	// GoveeName is the name assigned in the Govee app, learned from the
	// undocumented device list. Empty until that list has been fetched at
	// least once.
	GoveeName string
	Room      string

	IPAddr        string
	LanDevice     *lan.LanDevice
	LanStatus     *lan.DeviceStatus
	LastLanUpdate time.Time

	// IotStatus is the merged view of AWS IoT status push packets, kept in
	// the same shape as a LAN devStatus reply so callers need one status
	// model regardless of which transport last reported it.
	IotStatus     *lan.DeviceStatus
	LastIotUpdate time.Time

	PlatformInfo  *platform.DeviceInfo
	PlatformState *platform.DeviceState

	UpdatedAt time.Time
}

// Name returns the device's assigned Govee app name, falling back to its
// computed name when none has been learned yet.
func (d *Device) Name() string {
	if d.GoveeName != "" {
		return d.GoveeName
	}
	return d.ComputedName()
}

// ComputedName derives a stable, human-legible fallback identifier from the
// device's SKU and the tail of its MAC-derived id: sku "H6000" and id
// "AA:BB:CC:DD:EE:FF:42:2A" produce "H6000_422A" — the last two octets of
// the address, colons stripped.
func (d *Device) ComputedName() string {
	suffix := d.ID
	if len(suffix) > 18 {
		suffix = suffix[18:]
	}
	suffix = strings.ReplaceAll(suffix, ":", "")
	return d.SKU + "_" + suffix
}

// CurrentStatus returns the most recently reported on/off, brightness, and
// color state for the device, preferring whichever of the LAN and IoT
// transports last reported — either source uses the same shape, so
// callers need only one status model regardless of which transport most
// recently updated it. ok is false if neither transport has reported yet.
func (d *Device) CurrentStatus() (status lan.DeviceStatus, ok bool) {
	switch {
	case d.IotStatus != nil && (d.LanStatus == nil || d.LastIotUpdate.After(d.LastLanUpdate)):
		return *d.IotStatus, true
	case d.LanStatus != nil:
		return *d.LanStatus, true
	default:
		return lan.DeviceStatus{}, false
	}
}

// IotControllable reports whether this device has been seen on the AWS IoT
// push channel, i.e. it supports cloud-IoT control rather than only
// platform REST.
func (d *Device) IotControllable() bool {
	return !d.LastIotUpdate.IsZero()
}

// LanControllable reports whether the device has answered a LAN scan.
func (d *Device) LanControllable() bool {
	return d.LanDevice != nil
}

// clone returns a shallow copy of d suitable for handing to a caller
// outside the registry's lock: pointer fields still alias the same
// immutable-once-set payloads, but the Device struct itself is independent.
func (d *Device) clone() *Device {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}
