package quirks

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLANCapableDefault(t *testing.T) {
	table := NewTable()

	q, ok := table.Resolve("H6072")
	if !ok {
		t.Fatal("expected H6072 to resolve")
	}
	if !q.LANAPICapable {
		t.Error("expected H6072 to be LAN API capable")
	}
	if !q.SupportsRGB || !q.SupportsBrightness {
		t.Error("expected H6072 to support RGB and brightness")
	}
	if q.ColorTempRange == nil || q.ColorTempRange.Min != 2000 || q.ColorTempRange.Max != 9000 {
		t.Errorf("ColorTempRange = %+v, want 2000-9000", q.ColorTempRange)
	}
}

func TestResolveLaterEntryWins(t *testing.T) {
	table := NewTable()

	// H610A is first registered as broken-platform, then re-registered
	// plainly as LAN-capable — the later entry should win.
	q, ok := table.Resolve("H610A")
	if !ok {
		t.Fatal("expected H610A to resolve")
	}
	if q.AvoidPlatformAPI {
		t.Error("expected H610A's later entry to clear AvoidPlatformAPI")
	}
	if !q.LANAPICapable {
		t.Error("expected H610A to be LAN API capable")
	}

	// H6159 is first registered plainly (not LAN-capable) with a broken
	// platform marker, then re-registered as LAN-capable without it.
	q, ok = table.Resolve("H6159")
	if !ok {
		t.Fatal("expected H6159 to resolve")
	}
	if q.AvoidPlatformAPI {
		t.Error("expected H6159's later entry to clear AvoidPlatformAPI")
	}
	if !q.LANAPICapable {
		t.Error("expected H6159's later entry to be LAN API capable")
	}
}

func TestResolveBrokenPlatformOnly(t *testing.T) {
	table := NewTable()

	q, ok := table.Resolve("H6141")
	if !ok {
		t.Fatal("expected H6141 to resolve")
	}
	if !q.AvoidPlatformAPI {
		t.Error("expected H6141 to avoid the platform API")
	}
	if q.LANAPICapable {
		t.Error("expected H6141 to not be LAN API capable")
	}
}

func TestResolveUnknownSKU(t *testing.T) {
	table := NewTable()
	_, ok := table.Resolve("H0000")
	if ok {
		t.Error("expected unknown SKU to not resolve")
	}
}

func TestLoadTableMissingOverrideFile(t *testing.T) {
	table, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if _, ok := table.Resolve("H6072"); !ok {
		t.Error("expected built-in quirks to still be present")
	}
}

func TestLoadTableWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quirks.yaml")
	contents := `
H6072:
  icon: mdi:custom-icon
H9999:
  supports_rgb: true
  supports_brightness: false
  color_temp_min: 2700
  color_temp_max: 6500
  lan_api_capable: true
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}

	q, ok := table.Resolve("H6072")
	if !ok {
		t.Fatal("expected H6072 to resolve")
	}
	if q.Icon != "mdi:custom-icon" {
		t.Errorf("Icon = %q, want override applied", q.Icon)
	}
	if !q.LANAPICapable {
		t.Error("expected built-in LANAPICapable to survive a partial override")
	}

	q, ok = table.Resolve("H9999")
	if !ok {
		t.Fatal("expected new SKU H9999 to resolve from override file")
	}
	if !q.SupportsRGB || q.SupportsBrightness {
		t.Errorf("H9999 = %+v, want rgb=true brightness=false", q)
	}
	if q.ColorTempRange == nil || q.ColorTempRange.Min != 2700 {
		t.Errorf("H9999 ColorTempRange = %+v, want min 2700", q.ColorTempRange)
	}
}

