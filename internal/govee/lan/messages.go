package lan

import (
	"encoding/json"
	"fmt"
)

// request is the outer envelope every LAN control/scan packet shares:
// {"msg":{"cmd":"...","data":{...}}}.
type request struct {
	Msg requestBody `json:"msg"`
}

type requestBody struct {
	Cmd  string `json:"cmd"`
	Data any    `json:"data"`
}

type scanData struct {
	AccountTopic string `json:"account_topic"`
}

type turnData struct {
	Value int `json:"value"`
}

type brightnessData struct {
	Value int `json:"value"`
}

type colorData struct {
	Color            DeviceColor `json:"color"`
	ColorTemInKelvin uint32      `json:"colorTemInKelvin"`
}

type ptRealData struct {
	Command []string `json:"command"`
}

func newScanRequest() request {
	return request{Msg: requestBody{Cmd: "scan", Data: scanData{AccountTopic: "reserve"}}}
}

func newDevStatusRequest() request {
	return request{Msg: requestBody{Cmd: "devStatus", Data: struct{}{}}}
}

func newTurnRequest(on bool) request {
	v := 0
	if on {
		v = 1
	}
	return request{Msg: requestBody{Cmd: "turn", Data: turnData{Value: v}}}
}

func newBrightnessRequest(percent int) request {
	return request{Msg: requestBody{Cmd: "brightness", Data: brightnessData{Value: percent}}}
}

func newColorRequest(color DeviceColor, kelvin uint32) request {
	return request{Msg: requestBody{Cmd: "colorwc", Data: colorData{Color: color, ColorTemInKelvin: kelvin}}}
}

func newPtRealRequest(commands []string) request {
	return request{Msg: requestBody{Cmd: "ptReal", Data: ptRealData{Command: commands}}}
}

// DeviceColor is an RGB triple as reported and accepted by the LAN
// protocol's colorwc command.
type DeviceColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// LanDevice is a device's reply to a scan request.
type LanDevice struct {
	// IP is the device's address. A scan reply that omits this field (some
	// newer devices do) is populated from the response packet's source
	// address by the caller.
	IP string `json:"ip,omitempty"`

	Device          string `json:"device"`
	SKU             string `json:"sku"`
	BLEVersionHard  string `json:"bleVersionHard"`
	BLEVersionSoft  string `json:"bleVersionSoft"`
	WifiVersionHard string `json:"wifiVersionHard"`
	WifiVersionSoft string `json:"wifiVersionSoft"`
}

// DeviceStatus is a device's reply to a devStatus request.
type DeviceStatus struct {
	On                     bool
	Brightness             uint8
	Color                  DeviceColor
	ColorTemperatureKelvin uint32
}

// deviceStatusWire mirrors the wire shape of DeviceStatus; OnOff arrives as
// a bool, a 0/1 number, or null depending on firmware version.
type deviceStatusWire struct {
	OnOff            json.RawMessage `json:"onOff"`
	Brightness       uint8           `json:"brightness"`
	Color            DeviceColor     `json:"color"`
	ColorTemInKelvin uint32          `json:"colorTemInKelvin"`
}

func (s *DeviceStatus) UnmarshalJSON(data []byte) error {
	var w deviceStatusWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	on, err := parseOnOff(w.OnOff)
	if err != nil {
		return err
	}

	s.On = on
	s.Brightness = w.Brightness
	s.Color = w.Color
	s.ColorTemperatureKelvin = w.ColorTemInKelvin
	return nil
}

func (s DeviceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(deviceStatusWire{
		OnOff:            json.RawMessage(fmt.Sprintf("%t", s.On)),
		Brightness:       s.Brightness,
		Color:            s.Color,
		ColorTemInKelvin: s.ColorTemperatureKelvin,
	})
}

func parseOnOff(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf("lan: onOff field has unexpected type: %s", raw)
}

// responseEnvelope is the outer shape of every scan/devStatus reply.
type responseEnvelope struct {
	Msg responseBody `json:"msg"`
}

type responseBody struct {
	Cmd  string          `json:"cmd"`
	Data json.RawMessage `json:"data"`
}

// response is a decoded scan or devStatus reply. Exactly one of Scan or
// Status is set, discriminated by Kind.
type response struct {
	Kind   string
	Scan   LanDevice
	Status DeviceStatus
}

func parseResponse(data []byte) (response, error) {
	var env responseEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return response{}, fmt.Errorf("lan: parsing response: %w", err)
	}

	switch env.Msg.Cmd {
	case "scan":
		var dev LanDevice
		if err := json.Unmarshal(env.Msg.Data, &dev); err != nil {
			return response{}, fmt.Errorf("lan: parsing scan reply: %w", err)
		}
		return response{Kind: "scan", Scan: dev}, nil
	case "devStatus":
		var status DeviceStatus
		if err := json.Unmarshal(env.Msg.Data, &status); err != nil {
			return response{}, fmt.Errorf("lan: parsing devStatus reply: %w", err)
		}
		return response{Kind: "devStatus", Status: status}, nil
	default:
		return response{Kind: env.Msg.Cmd}, nil
	}
}
