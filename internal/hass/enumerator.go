package hass

import (
	"github.com/nerrad567/gv2mqtt/internal/govee/platform"
	"github.com/nerrad567/gv2mqtt/internal/quirks"
	"github.com/nerrad567/gv2mqtt/internal/registry"
)

// DeviceEntities is every discovery document derivable from one device,
// grouped by component. Pointer fields are nil when the device doesn't
// support that component. Ported from the upstream's
// enumerate_entities_for_device.
type DeviceEntities struct {
	Light          *LightConfig
	SegmentLights  []LightConfig
	Switches       []SwitchConfig
	Humidifier     *HumidifierConfig
	Fan            *FanConfig
	Numbers        []NumberConfig
	Sensors        []SensorConfig
	PlatformButton *ButtonConfig
}

// GlobalEntities is every discovery document not tied to one device.
type GlobalEntities struct {
	PurgeCaches ButtonConfig
	Version     SensorConfig
	Scenes      []SceneConfig
}

// EnumerateDeviceEntities walks d's declared capabilities and builds every
// discovery document §4.J requires for it: a light (plus one per
// segment_color_setting segment), a switch per on_off/toggle capability, a
// humidifier or fan entity, a number per contiguous WorkMode sub-mode, a
// sensor per Property capability (with a Fahrenheit twin for temperature
// sensors), and a "request platform data" button.
func EnumerateDeviceEntities(d *registry.Device, q quirks.Quirk, sceneNames []string) DeviceEntities {
	var out DeviceEntities

	if cfg, ok := LightConfigForDevice(d, q, sceneNames); ok {
		out.Light = &cfg
	}

	info := d.PlatformInfo
	if info == nil {
		return out
	}

	button := PlatformDataButtonConfig(d)
	out.PlatformButton = &button

	if info.DeviceType == platform.DeviceTypeHumidifier {
		cfg := HumidifierConfigForDevice(d)
		out.Humidifier = &cfg
	}
	if info.IsFan() {
		cfg := FanConfigForDevice(d)
		out.Fan = &cfg
	}

	for _, cap := range info.Capabilities {
		switch cap.Kind {
		case platform.CapabilityOnOff, platform.CapabilityToggle:
			out.Switches = append(out.Switches, SwitchConfigForCapability(d, cap))

		case platform.CapabilityColorSetting, platform.CapabilitySegmentColorSetting,
			platform.CapabilityMusicSetting, platform.CapabilityDynamicScene:
			// Already covered by the light entity (or its per-segment twins).

		case platform.CapabilityRange:
			if cap.Instance == "brightness" || cap.Instance == "humidity" {
				continue // brightness belongs to the light entity, humidity to the humidifier/fan entity.
			}

		case platform.CapabilityWorkMode:
			out.Numbers = append(out.Numbers, numbersForWorkMode(d, cap)...)

		case platform.CapabilityProperty:
			out.Sensors = append(out.Sensors, sensorsForProperty(d, cap)...)
		}
	}

	if min, max, ok := info.SegmentRange(); ok {
		for seg := min; seg <= max; seg++ {
			out.SegmentLights = append(out.SegmentLights, LightSegmentConfigForDevice(d, seg))
		}
	}

	return out
}

// numbersForWorkMode derives one number.mqtt entity per sub-mode of cap
// that carries a contiguous value range; a sub-mode whose values aren't
// contiguous gets no number entity.
func numbersForWorkMode(d *registry.Device, cap platform.Capability) []NumberConfig {
	wm, ok := ParseWorkModeCapability(cap)
	if !ok {
		return nil
	}

	var out []NumberConfig
	for _, mode := range wm.ModesWithValues() {
		modeNum, ok := mode.IntValue()
		if !ok {
			continue
		}
		min, max, ok := mode.ContiguousRange()
		if !ok {
			continue
		}
		out = append(out, NumberConfigForWorkMode(d, mode.Name, int(modeNum), int(min), int(max-1)))
	}
	return out
}

// sensorsForProperty derives a sensor.mqtt entity for one Property
// capability, plus a synthetic Fahrenheit twin when it reports degrees
// Celsius.
func sensorsForProperty(d *registry.Device, cap platform.Capability) []SensorConfig {
	unit := sensorUnitOfMeasurement(cap.Parameters.Unit)
	sensor := SensorConfigForProperty(d, cap.Instance, unit)
	if unit == "°C" {
		return []SensorConfig{sensor, sensor.FahrenheitTwin()}
	}
	return []SensorConfig{sensor}
}

// sensorUnitOfMeasurement maps a Platform API unit identifier to the
// symbol Home Assistant expects in unit_of_measurement.
func sensorUnitOfMeasurement(raw string) string {
	switch raw {
	case "unit.temperature.celsius":
		return "°C"
	case "unit.temperature.fahrenheit":
		return "°F"
	case "unit.percent":
		return "%"
	default:
		return raw
	}
}

// EnumerateGlobalEntities builds the discovery documents not tied to any
// one device: the global Purge Caches button, the global Version
// diagnostic sensor, and one scene per saved one-click shortcut.
func EnumerateGlobalEntities(version string, oneClickNames []string) GlobalEntities {
	scenes := make([]SceneConfig, 0, len(oneClickNames))
	for _, name := range oneClickNames {
		scenes = append(scenes, SceneConfigForOneClick(name, slugify(name)))
	}

	return GlobalEntities{
		PurgeCaches: PurgeCachesButtonConfig(),
		Version:     VersionSensorConfig(version),
		Scenes:      scenes,
	}
}
