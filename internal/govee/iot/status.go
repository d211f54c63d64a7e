package iot

import (
	"encoding/json"

	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
)

// StatusUpdate is one IoT-pushed device status delta. Only the fields
// actually present in the wire packet are populated.
type StatusUpdate struct {
	OnOff                  *bool
	Brightness             *uint8
	Color                  *lan.DeviceColor
	ColorTemperatureKelvin *uint32
}

type statusUpdateWire struct {
	OnOff                  *uint8           `json:"onOff"`
	Brightness             *uint8           `json:"brightness"`
	Color                  *lan.DeviceColor `json:"color"`
	ColorTemperatureKelvin *uint32          `json:"colorTemInKelvin"`
}

// packet is the shape of every message published to the account's IoT
// topic: {sku, device, cmd, state:{...}}.
type packet struct {
	SKU    string           `json:"sku"`
	Device string           `json:"device"`
	Cmd    string           `json:"cmd"`
	State  statusUpdateWire `json:"state"`
}

func parsePacket(data []byte) (sku, device string, update StatusUpdate, err error) {
	var p packet
	if err := json.Unmarshal(data, &p); err != nil {
		return "", "", StatusUpdate{}, err
	}
	update = StatusUpdate{
		Brightness:             p.State.Brightness,
		Color:                  p.State.Color,
		ColorTemperatureKelvin: p.State.ColorTemperatureKelvin,
	}
	if p.State.OnOff != nil {
		on := *p.State.OnOff != 0
		update.OnOff = &on
	}
	return p.SKU, p.Device, update, nil
}

// MergeStatus applies update onto current, in the exact field order the
// original bridge uses: brightness, then color, then color temperature —
// any of which implies the device is on — and onOff is checked last, since
// it can override what the other fields would otherwise synthesize.
func MergeStatus(current lan.DeviceStatus, update StatusUpdate) lan.DeviceStatus {
	next := current

	if update.Brightness != nil {
		next.Brightness = *update.Brightness
		next.On = true
	}
	if update.Color != nil {
		next.Color = *update.Color
		next.On = true
	}
	if update.ColorTemperatureKelvin != nil {
		next.ColorTemperatureKelvin = *update.ColorTemperatureKelvin
		next.On = true
	}
	if update.OnOff != nil {
		next.On = *update.OnOff
	}

	return next
}

// StateSink receives parsed IoT status updates so they can be merged into
// the shared device registry, and is notified afterward so it can publish
// the resulting state to Home Assistant.
type StateSink interface {
	MergeIotStatus(sku, device string, update StatusUpdate)
	NotifyStateChange(deviceID string)
}
