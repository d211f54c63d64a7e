package iot

import (
	"testing"

	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
)

func u8(v uint8) *uint8   { return &v }
func u32(v uint32) *uint32 { return &v }
func b(v bool) *bool       { return &v }

func TestMergeStatusBrightnessImpliesOn(t *testing.T) {
	current := lan.DeviceStatus{On: false, Brightness: 0}
	next := MergeStatus(current, StatusUpdate{Brightness: u8(80)})
	if !next.On || next.Brightness != 80 {
		t.Fatalf("MergeStatus() = %+v, want On=true Brightness=80", next)
	}
}

func TestMergeStatusZeroBrightnessStillImpliesOn(t *testing.T) {
	current := lan.DeviceStatus{On: false, Brightness: 50}
	next := MergeStatus(current, StatusUpdate{Brightness: u8(0)})
	if !next.On || next.Brightness != 0 {
		t.Fatalf("MergeStatus() = %+v, want On=true Brightness=0 (a reported brightness implies on)", next)
	}
}

func TestMergeStatusColorImpliesOn(t *testing.T) {
	current := lan.DeviceStatus{On: false}
	color := lan.DeviceColor{R: 255, G: 0, B: 0}
	next := MergeStatus(current, StatusUpdate{Color: &color})
	if !next.On || next.Color != color {
		t.Fatalf("MergeStatus() = %+v, want On=true Color=%+v", next, color)
	}
}

func TestMergeStatusKelvinImpliesOn(t *testing.T) {
	current := lan.DeviceStatus{On: false}
	next := MergeStatus(current, StatusUpdate{ColorTemperatureKelvin: u32(4000)})
	if !next.On || next.ColorTemperatureKelvin != 4000 {
		t.Fatalf("MergeStatus() = %+v, want On=true ColorTemperatureKelvin=4000", next)
	}
}

func TestMergeStatusOnOffOverridesSynthesizedOn(t *testing.T) {
	current := lan.DeviceStatus{On: false}
	// Brightness alone would synthesize On=true, but an explicit onOff:false
	// in the same packet must win — onOff is checked last.
	next := MergeStatus(current, StatusUpdate{Brightness: u8(80), OnOff: b(false)})
	if next.On {
		t.Fatalf("MergeStatus() = %+v, want On=false (explicit onOff wins)", next)
	}
	if next.Brightness != 80 {
		t.Fatalf("MergeStatus() = %+v, want Brightness=80 preserved", next)
	}
}

func TestMergeStatusPreservesUnmentionedFields(t *testing.T) {
	current := lan.DeviceStatus{On: true, Brightness: 42, ColorTemperatureKelvin: 3000}
	next := MergeStatus(current, StatusUpdate{Color: &lan.DeviceColor{R: 1, G: 2, B: 3}})
	if next.Brightness != 42 || next.ColorTemperatureKelvin != 3000 {
		t.Fatalf("MergeStatus() = %+v, want unrelated fields preserved", next)
	}
}

func TestParsePacket(t *testing.T) {
	data := []byte(`{"sku":"H6072","device":"dev-1","cmd":"status","state":{"onOff":1,"brightness":50}}`)
	sku, device, update, err := parsePacket(data)
	if err != nil {
		t.Fatalf("parsePacket() error = %v", err)
	}
	if sku != "H6072" || device != "dev-1" {
		t.Fatalf("parsePacket() sku/device = %s/%s", sku, device)
	}
	if update.OnOff == nil || !*update.OnOff {
		t.Fatalf("update.OnOff = %+v, want true", update.OnOff)
	}
	if update.Brightness == nil || *update.Brightness != 50 {
		t.Fatalf("update.Brightness = %+v, want 50", update.Brightness)
	}
}

func TestParsePacketOmittedFieldsAreNil(t *testing.T) {
	data := []byte(`{"sku":"H6072","device":"dev-1","cmd":"status","state":{}}`)
	_, _, update, err := parsePacket(data)
	if err != nil {
		t.Fatalf("parsePacket() error = %v", err)
	}
	if update.OnOff != nil || update.Brightness != nil || update.Color != nil || update.ColorTemperatureKelvin != nil {
		t.Fatalf("update = %+v, want all fields nil", update)
	}
}
