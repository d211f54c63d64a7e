package hass

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nerrad567/gv2mqtt/internal/cache"
	"github.com/nerrad567/gv2mqtt/internal/govee/platform"
	"github.com/nerrad567/gv2mqtt/internal/lockout"
	"github.com/nerrad567/gv2mqtt/internal/registry"
)

type controlCall struct {
	instance string
	value    any
}

type fakePlatform struct {
	calls      []controlCall
	powerOn    *bool
	brightness *uint8
	colorTemp  *uint32
	rgb        *[3]uint8
	scene      string
}

func (f *fakePlatform) ControlDevice(_ context.Context, _ platform.DeviceInfo, cap platform.Capability, value any) (platform.ControlResult, error) {
	f.calls = append(f.calls, controlCall{instance: cap.Instance, value: value})
	return platform.ControlResult{}, nil
}

func (f *fakePlatform) SetSceneByName(_ context.Context, _ platform.DeviceInfo, scene string) (platform.ControlResult, error) {
	f.scene = scene
	return platform.ControlResult{}, nil
}

func (f *fakePlatform) SetPowerState(_ context.Context, _ platform.DeviceInfo, on bool) (platform.ControlResult, error) {
	f.powerOn = &on
	return platform.ControlResult{}, nil
}

func (f *fakePlatform) SetBrightness(_ context.Context, _ platform.DeviceInfo, percent uint8) (platform.ControlResult, error) {
	f.brightness = &percent
	return platform.ControlResult{}, nil
}

func (f *fakePlatform) SetColorTemperature(_ context.Context, _ platform.DeviceInfo, kelvin uint32) (platform.ControlResult, error) {
	f.colorTemp = &kelvin
	return platform.ControlResult{}, nil
}

func (f *fakePlatform) SetColorRGB(_ context.Context, _ platform.DeviceInfo, r, g, b uint8) (platform.ControlResult, error) {
	f.rgb = &[3]uint8{r, g, b}
	return platform.ControlResult{}, nil
}

func newTestRouterLockout(t *testing.T) *lockout.Controller {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return lockout.NewController(store)
}

func newRouterWithDevice(t *testing.T, info platform.DeviceInfo) (*Router, *fakePlatform, string) {
	t.Helper()
	reg := registry.NewRegistry()
	id := "AA:BB:CC:DD:EE:FF:00:01"
	d := reg.Upsert("H6143", id)
	reg.SetPlatformInfo(d.ID, info)

	fp := &fakePlatform{}
	r := NewRouter(reg, fp, nil, newTestRouterLockout(t))
	return r, fp, id
}

type fakeOneClick struct {
	lastName string
	err      error
}

func (f *fakeOneClick) ActivateOneClickByName(_ context.Context, name string) error {
	f.lastName = name
	return f.err
}

type fakeCachePurger struct {
	called bool
	err    error
}

func (f *fakeCachePurger) Purge() error {
	f.called = true
	return f.err
}

func TestDispatchOneClick_NoActivatorConfigured(t *testing.T) {
	r, _, _ := newRouterWithDevice(t, platform.DeviceInfo{})
	if err := r.Dispatch(context.Background(), OneClickTopic, []byte("movie night")); err == nil {
		t.Fatal("Dispatch() should fail when no OneClickActivator is configured")
	}
}

func TestDispatchOneClick_ActivatesByName(t *testing.T) {
	r, _, _ := newRouterWithDevice(t, platform.DeviceInfo{})
	oc := &fakeOneClick{}
	r.SetOneClickActivator(oc)

	if err := r.Dispatch(context.Background(), OneClickTopic, []byte("movie night")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if oc.lastName != "movie night" {
		t.Errorf("activated one-click %q, want %q", oc.lastName, "movie night")
	}
}

func TestDispatchPurgeCaches_NoPurgerConfigured(t *testing.T) {
	r, _, _ := newRouterWithDevice(t, platform.DeviceInfo{})
	if err := r.Dispatch(context.Background(), PurgeCachesTopic, nil); err == nil {
		t.Fatal("Dispatch() should fail when no CachePurger is configured")
	}
}

func TestDispatchPurgeCaches_Purges(t *testing.T) {
	r, _, _ := newRouterWithDevice(t, platform.DeviceInfo{})
	cp := &fakeCachePurger{}
	r.SetCachePurger(cp)

	if err := r.Dispatch(context.Background(), PurgeCachesTopic, nil); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !cp.called {
		t.Error("Purge() was not called")
	}
}

func TestDispatchLightCommandPowerOff(t *testing.T) {
	r, fp, id := newRouterWithDevice(t, platform.DeviceInfo{})
	err := r.Dispatch(context.Background(), LightCommandTopic(id), []byte(`{"state":"OFF"}`))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if fp.powerOn == nil || *fp.powerOn {
		t.Fatalf("powerOn = %v, want false", fp.powerOn)
	}
}

func TestDispatchLightCommandDefaultsToPowerOn(t *testing.T) {
	r, fp, id := newRouterWithDevice(t, platform.DeviceInfo{})
	if err := r.Dispatch(context.Background(), LightCommandTopic(id), []byte(`{"state":"ON"}`)); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if fp.powerOn == nil || !*fp.powerOn {
		t.Fatalf("powerOn = %v, want true", fp.powerOn)
	}
}

func TestDispatchLightCommandBrightness(t *testing.T) {
	r, fp, id := newRouterWithDevice(t, platform.DeviceInfo{})
	if err := r.Dispatch(context.Background(), LightCommandTopic(id), []byte(`{"state":"ON","brightness":42}`)); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if fp.brightness == nil || *fp.brightness != 42 {
		t.Fatalf("brightness = %v, want 42", fp.brightness)
	}
}

func TestDispatchLightCommandColorRGB(t *testing.T) {
	r, fp, id := newRouterWithDevice(t, platform.DeviceInfo{})
	payload := []byte(`{"state":"ON","color":{"r":10,"g":20,"b":30}}`)
	if err := r.Dispatch(context.Background(), LightCommandTopic(id), payload); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if fp.rgb == nil || *fp.rgb != [3]uint8{10, 20, 30} {
		t.Fatalf("rgb = %v, want [10 20 30]", fp.rgb)
	}
}

func TestDispatchLightCommandColorTempConvertsMiredToKelvin(t *testing.T) {
	r, fp, id := newRouterWithDevice(t, platform.DeviceInfo{})
	payload := []byte(`{"state":"ON","color_temp":200}`)
	if err := r.Dispatch(context.Background(), LightCommandTopic(id), payload); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if fp.colorTemp == nil || *fp.colorTemp != 5000 {
		t.Fatalf("colorTemp = %v, want 5000", fp.colorTemp)
	}
}

func TestDispatchLightCommandEffect(t *testing.T) {
	r, fp, id := newRouterWithDevice(t, platform.DeviceInfo{})
	payload := []byte(`{"state":"ON","effect":"Sunset"}`)
	if err := r.Dispatch(context.Background(), LightCommandTopic(id), payload); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if fp.scene != "Sunset" {
		t.Fatalf("scene = %q, want Sunset", fp.scene)
	}
}

func TestDispatchSwitchCommand(t *testing.T) {
	info := platform.DeviceInfo{Capabilities: []platform.Capability{
		{Kind: platform.CapabilityToggle, Instance: "nightlightToggle"},
	}}
	r, fp, id := newRouterWithDevice(t, info)

	if err := r.Dispatch(context.Background(), SwitchCommandTopic(id, "nightlightToggle"), []byte("ON")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(fp.calls) != 1 || fp.calls[0].instance != "nightlightToggle" || fp.calls[0].value != "on" {
		t.Fatalf("calls = %+v, want one on/nightlightToggle call", fp.calls)
	}
}

func TestDispatchHumidifierSetTarget(t *testing.T) {
	info := platform.DeviceInfo{Capabilities: []platform.Capability{
		{Kind: platform.CapabilityRange, Instance: "humidity"},
	}}
	r, fp, id := newRouterWithDevice(t, info)

	if err := r.Dispatch(context.Background(), HumidifierSetTargetTopic(id), []byte("55")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(fp.calls) != 1 || fp.calls[0].instance != "humidity" || fp.calls[0].value != 55 {
		t.Fatalf("calls = %+v, want one humidity=55 call", fp.calls)
	}
}

func TestDispatchFanSetSpeed(t *testing.T) {
	info := platform.DeviceInfo{Capabilities: []platform.Capability{
		{Kind: platform.CapabilityRange, Instance: "gearMode"},
	}}
	r, fp, id := newRouterWithDevice(t, info)

	if err := r.Dispatch(context.Background(), FanSetSpeedTopic(id), []byte("80")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(fp.calls) != 1 || fp.calls[0].instance != "gearMode" || fp.calls[0].value != 80 {
		t.Fatalf("calls = %+v, want one gearMode=80 call", fp.calls)
	}
}

func TestDispatchSetTemperatureConvertsFahrenheitToCelsius(t *testing.T) {
	info := platform.DeviceInfo{Capabilities: []platform.Capability{
		{Kind: platform.CapabilityTemperatureSetting, Instance: "targetTemperature"},
	}}
	r, fp, id := newRouterWithDevice(t, info)

	if err := r.Dispatch(context.Background(), SetTemperatureTopic(id, "f"), []byte("98.6")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(fp.calls) != 1 || fp.calls[0].instance != "targetTemperature" {
		t.Fatalf("calls = %+v, want one targetTemperature call", fp.calls)
	}
	got, ok := fp.calls[0].value.(float64)
	if !ok || got < 36.5 || got > 37.1 {
		t.Fatalf("targetTemperature = %v, want approximately 37C", fp.calls[0].value)
	}
}

func TestDispatchIgnoresUnknownTopic(t *testing.T) {
	r, _, _ := newRouterWithDevice(t, platform.DeviceInfo{})
	if err := r.Dispatch(context.Background(), "homeassistant/status", []byte("online")); err != nil {
		t.Fatalf("Dispatch() error = %v, want nil for an unrecognized topic", err)
	}
}

func TestDispatchSwitchCommandMissingCapability(t *testing.T) {
	r, _, id := newRouterWithDevice(t, platform.DeviceInfo{})
	err := r.Dispatch(context.Background(), SwitchCommandTopic(id, "nightlightToggle"), []byte("ON"))
	if err == nil {
		t.Fatal("expected an error for a device with no such capability")
	}
}
