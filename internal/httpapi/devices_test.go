package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nerrad567/gv2mqtt/internal/registry"
)

type fakeLister struct {
	devices []*registry.Device
}

func (f *fakeLister) ListDevices() []*registry.Device { return f.devices }

func TestHandleListDevicesSortsByRoomThenName(t *testing.T) {
	lister := &fakeLister{devices: []*registry.Device{
		{SKU: "H6000", ID: "1", GoveeName: "Zeta", Room: "Office"},
		{SKU: "H6000", ID: "2", GoveeName: "Alpha", Room: "Office"},
		{SKU: "H6000", ID: "3", GoveeName: "Lamp", Room: "Bedroom"},
	}}

	s := New(":0", lister)
	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	rec := httptest.NewRecorder()

	s.handleListDevices(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var items []deviceItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}

	want := []string{"Lamp", "Alpha", "Zeta"}
	for i, name := range want {
		if items[i].Name != name {
			t.Fatalf("items[%d].Name = %q, want %q (order: %+v)", i, items[i].Name, name, items)
		}
	}
}

func TestHandleListDevicesEmpty(t *testing.T) {
	s := New(":0", &fakeLister{})
	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	rec := httptest.NewRecorder()

	s.handleListDevices(rec, req)

	if rec.Body.String() != "[]\n" {
		t.Fatalf("body = %q, want an empty JSON array", rec.Body.String())
	}
}
