package hass

import (
	"testing"

	"github.com/nerrad567/gv2mqtt/internal/govee/platform"
	"github.com/nerrad567/gv2mqtt/internal/quirks"
	"github.com/nerrad567/gv2mqtt/internal/registry"
)

func TestLightConfigForDeviceUsesPlatformCapabilities(t *testing.T) {
	d := &registry.Device{
		SKU: "H6000",
		ID:  "AA:BB:CC:DD:EE:FF:42:2A",
		PlatformInfo: &platform.DeviceInfo{
			Capabilities: []platform.Capability{
				{Kind: platform.CapabilityColorSetting, Instance: "colorRgb"},
			},
		},
	}

	cfg, ok := LightConfigForDevice(d, quirks.Quirk{}, nil)
	if !ok {
		t.Fatal("LightConfigForDevice() ok = false, want true")
	}
	if len(cfg.SupportedColorModes) != 1 || cfg.SupportedColorModes[0] != "rgb" {
		t.Fatalf("SupportedColorModes = %v, want [rgb]", cfg.SupportedColorModes)
	}
	if cfg.CommandTopic != LightCommandTopic(d.ID) {
		t.Fatalf("CommandTopic = %q", cfg.CommandTopic)
	}
	if cfg.UniqueID != "gv2mqtt-"+TopicSafeID(d.ID) {
		t.Fatalf("UniqueID = %q", cfg.UniqueID)
	}
}

func TestLightConfigForDeviceFallsBackToQuirks(t *testing.T) {
	d := &registry.Device{SKU: "H6143", ID: "AA:BB:CC:DD:EE:FF:00:01"}
	q := quirks.Quirk{SKU: "H6143", SupportsRGB: true}

	cfg, ok := LightConfigForDevice(d, q, nil)
	if !ok {
		t.Fatal("LightConfigForDevice() ok = false, want true")
	}
	if len(cfg.SupportedColorModes) != 1 || cfg.SupportedColorModes[0] != "rgb" {
		t.Fatalf("SupportedColorModes = %v, want [rgb]", cfg.SupportedColorModes)
	}
}

func TestLightConfigForDeviceAvoidsPlatformAPIWhenQuirked(t *testing.T) {
	d := &registry.Device{
		SKU: "H6143",
		ID:  "AA:BB:CC:DD:EE:FF:00:01",
		PlatformInfo: &platform.DeviceInfo{
			Capabilities: []platform.Capability{
				{Kind: platform.CapabilityColorSetting, Instance: "colorRgb"},
			},
		},
	}
	q := quirks.Quirk{SKU: "H6143", AvoidPlatformAPI: true, SupportsRGB: false}

	_, ok := LightConfigForDevice(d, q, nil)
	if ok {
		t.Fatal("LightConfigForDevice() ok = true, want false once the Platform API is distrusted and quirks report no color support")
	}
}

func TestLightConfigForDeviceNoCapabilities(t *testing.T) {
	d := &registry.Device{SKU: "H5001", ID: "AA:BB:CC:DD:EE:FF:00:02"}
	if _, ok := LightConfigForDevice(d, quirks.Quirk{}, nil); ok {
		t.Fatal("LightConfigForDevice() ok = true, want false for a device with no color/brightness capability")
	}
}

func TestPurgeCachesButtonConfig(t *testing.T) {
	cfg := PurgeCachesButtonConfig()
	if cfg.CommandTopic != PurgeCachesTopic {
		t.Fatalf("CommandTopic = %q, want %q", cfg.CommandTopic, PurgeCachesTopic)
	}
	if cfg.UniqueID != "gv2mqtt-purge-caches" {
		t.Fatalf("UniqueID = %q", cfg.UniqueID)
	}
}

func TestSceneConfigForOneClick(t *testing.T) {
	cfg := SceneConfigForOneClick("Movie Night", "movie-night")
	if cfg.PayloadOn != "Movie Night" {
		t.Fatalf("PayloadOn = %q, want Movie Night", cfg.PayloadOn)
	}
	if cfg.CommandTopic != OneClickTopic {
		t.Fatalf("CommandTopic = %q, want %q", cfg.CommandTopic, OneClickTopic)
	}
	if cfg.UniqueID != "gv2mqtt-oneclick-movie-night" {
		t.Fatalf("UniqueID = %q", cfg.UniqueID)
	}
}

func TestDeviceDescriptorForUsesRoomAsSuggestedArea(t *testing.T) {
	d := &registry.Device{SKU: "H6000", ID: "AA:BB:CC:DD:EE:FF:42:2A", Room: "Office"}
	desc := DeviceDescriptorFor(d)
	if desc.SuggestedArea != "Office" {
		t.Fatalf("SuggestedArea = %q, want Office", desc.SuggestedArea)
	}
	if desc.Model != "H6000" {
		t.Fatalf("Model = %q, want H6000", desc.Model)
	}
}
