package registry

import (
	"testing"
	"time"

	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
)

func TestComputedNameStripsColonsFromTail(t *testing.T) {
	d := &Device{SKU: "H6000", ID: "AA:BB:CC:DD:EE:FF:42:2A"}
	if got := d.ComputedName(); got != "H6000_422A" {
		t.Fatalf("ComputedName() = %q, want H6000_422A", got)
	}
}

func TestNamePrefersGoveeName(t *testing.T) {
	d := &Device{SKU: "H6000", ID: "AA:BB:CC:DD:EE:FF:42:2A", GoveeName: "Office Lamp"}
	if got := d.Name(); got != "Office Lamp" {
		t.Fatalf("Name() = %q, want Office Lamp", got)
	}
}

func TestNameFallsBackToComputedName(t *testing.T) {
	d := &Device{SKU: "H6000", ID: "AA:BB:CC:DD:EE:FF:42:2A"}
	if got := d.Name(); got != "H6000_422A" {
		t.Fatalf("Name() = %q, want H6000_422A", got)
	}
}

func TestComputedNameHandlesShortID(t *testing.T) {
	d := &Device{SKU: "H6000", ID: "abc"}
	if got := d.ComputedName(); got != "H6000_abc" {
		t.Fatalf("ComputedName() = %q, want H6000_abc", got)
	}
}

func TestCurrentStatusNoneReported(t *testing.T) {
	d := &Device{}
	if _, ok := d.CurrentStatus(); ok {
		t.Fatal("CurrentStatus() ok = true, want false with no reports")
	}
}

func TestCurrentStatusPrefersMostRecentTransport(t *testing.T) {
	now := time.Now()
	lanStatus := lan.DeviceStatus{On: true, Brightness: 10}
	iotStatus := lan.DeviceStatus{On: true, Brightness: 90}

	d := &Device{
		LanStatus:     &lanStatus,
		LastLanUpdate: now,
		IotStatus:     &iotStatus,
		LastIotUpdate: now.Add(time.Second),
	}

	status, ok := d.CurrentStatus()
	if !ok {
		t.Fatal("CurrentStatus() ok = false, want true")
	}
	if status.Brightness != 90 {
		t.Fatalf("CurrentStatus() = %+v, want the newer IoT report (brightness 90)", status)
	}
}

func TestCurrentStatusFallsBackToLAN(t *testing.T) {
	lanStatus := lan.DeviceStatus{On: true, Brightness: 42}
	d := &Device{LanStatus: &lanStatus, LastLanUpdate: time.Now()}

	status, ok := d.CurrentStatus()
	if !ok || status.Brightness != 42 {
		t.Fatalf("CurrentStatus() = %+v, %v, want (brightness 42, true)", status, ok)
	}
}
