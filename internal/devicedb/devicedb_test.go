package devicedb

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestComputeDeviceName(t *testing.T) {
	tests := []struct {
		sku, id, want string
	}{
		{"H6072", "AA:BB:CC:DD:EE:FF:00:11", "H6072_0011"},
		{"H6072", "aabbccddeeff0011", "H6072_0011"},
		{"H6072", "1234", "H6072_1234"},
		{"H6072", "12", "H6072_12"},
	}
	for _, tt := range tests {
		if got := ComputeDeviceName(tt.sku, tt.id); got != tt.want {
			t.Errorf("ComputeDeviceName(%q, %q) = %q, want %q", tt.sku, tt.id, got, tt.want)
		}
	}
}

func TestOpenFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.json")

	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !h.IsEmpty() {
		t.Error("expected fresh database to be empty")
	}
}

func TestUpdateFromAPIPreservesUserOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.json")
	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	h.UpdateFromAPI("dev-1", "H6072", "Living Room Lamp", "Living Room", SourcePlatformAPI)

	d, err := h.Get("dev-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	d.UserName = "My Custom Lamp Name"
	h.mu.Lock()
	h.db.Devices["dev-1"] = d
	h.mu.Unlock()

	h.UpdateFromAPI("dev-1", "H6072", "Living Room Lamp v2", "Living Room", SourcePlatformAPI)

	got, err := h.Get("dev-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.DisplayName() != "My Custom Lamp Name" {
		t.Errorf("DisplayName() = %q, want user override preserved", got.DisplayName())
	}
	if got.Name != "Living Room Lamp v2" {
		t.Errorf("Name = %q, want API-sourced name updated", got.Name)
	}
}

func TestHandleLANDiscoveryCreatesMinimalEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.json")
	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	name := h.HandleLANDiscovery("AA:BB:CC:DD:EE:FF:00:11", "H6072")
	if name != "H6072_0011" {
		t.Errorf("HandleLANDiscovery() = %q, want H6072_0011", name)
	}
	if !h.Contains("AA:BB:CC:DD:EE:FF:00:11") {
		t.Error("expected device to be recorded")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.json")
	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	h.UpdateFromAPI("dev-1", "H6072", "Living Room Lamp", "Living Room", SourcePlatformAPI)
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("Open() (reload) error = %v", err)
	}
	if reloaded.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reloaded.Len())
	}
	d, err := reloaded.Get("dev-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if d.Name != "Living Room Lamp" {
		t.Errorf("Name = %q, want Living Room Lamp", d.Name)
	}
}

func TestGetNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.json")
	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	_, err = h.Get("missing")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Get() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestDetectStartupMode(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "devices.json")
	cachePath := filepath.Join(dir, "cache.db")

	if mode := DetectStartupMode(dbPath, cachePath); mode != StartupFresh {
		t.Errorf("DetectStartupMode() = %v, want StartupFresh", mode)
	}

	h, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	h.UpdateFromAPI("dev-1", "H6072", "Lamp", "", SourcePlatformAPI)
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if mode := DetectStartupMode(dbPath, cachePath); mode != StartupNormal {
		t.Errorf("DetectStartupMode() = %v, want StartupNormal", mode)
	}
}
