package hass

import (
	"fmt"
	"strings"

	"github.com/nerrad567/gv2mqtt/internal/govee/platform"
	"github.com/nerrad567/gv2mqtt/internal/quirks"
	"github.com/nerrad567/gv2mqtt/internal/registry"
)

// bridgeVersion is reported in every discovery document's origin block.
const bridgeVersion = "dev"

const (
	originName = "gv2mqtt"
	originURL  = "https://github.com/nerrad567/gv2mqtt"
)

// Origin identifies the software that published a discovery document, per
// Home Assistant's MQTT discovery "origin" block.
type Origin struct {
	Name      string `json:"name"`
	SWVersion string `json:"sw_version"`
	URL       string `json:"url"`
}

// DefaultOrigin is the Origin block every discovery document carries.
func DefaultOrigin() Origin {
	return Origin{Name: originName, SWVersion: bridgeVersion, URL: originURL}
}

// DeviceDescriptor is Home Assistant's "device" block, grouping every
// entity derived from one physical device under a single device card.
type DeviceDescriptor struct {
	Name            string   `json:"name"`
	Manufacturer    string   `json:"manufacturer"`
	Model           string   `json:"model"`
	SuggestedArea   string   `json:"suggested_area,omitempty"`
	Identifiers     []string `json:"identifiers,omitempty"`
}

// DeviceDescriptorFor builds the device block shared by every entity
// published for d.
func DeviceDescriptorFor(d *registry.Device) DeviceDescriptor {
	return DeviceDescriptor{
		Name:          d.Name(),
		Manufacturer:  "Govee",
		Model:         d.SKU,
		SuggestedArea: d.Room,
		Identifiers:   []string{"gv2mqtt-" + TopicSafeID(d.ID)},
	}
}

// ThisServiceDescriptor is the device block used for entities that belong
// to the bridge itself rather than any one Govee device (the global
// diagnostic sensor and one-click scenes).
func ThisServiceDescriptor() DeviceDescriptor {
	return DeviceDescriptor{
		Name:         "gv2mqtt",
		Manufacturer: "Govee",
		Model:        "gv2mqtt bridge",
		Identifiers:  []string{"gv2mqtt-service"},
	}
}

// slugify reduces name to a lowercase, hyphen-separated identifier suitable
// for use in a unique_id or MQTT topic segment.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// EntityConfig carries the fields common to every discovery document.
// Embedding it in a component-specific config flattens these fields into
// the outer JSON object, mirroring the original's #[serde(flatten)].
type EntityConfig struct {
	AvailabilityTopic string            `json:"availability_topic"`
	Name              *string           `json:"name,omitempty"`
	DeviceClass       string            `json:"device_class,omitempty"`
	Origin            Origin            `json:"origin"`
	Device            DeviceDescriptor  `json:"device"`
	UniqueID          string            `json:"unique_id"`
	EntityCategory    string            `json:"entity_category,omitempty"`
	Icon              string            `json:"icon,omitempty"`
}

func baseEntity(d *registry.Device, availabilityTopic, uniqueID, icon string) EntityConfig {
	return EntityConfig{
		AvailabilityTopic: availabilityTopic,
		Origin:            DefaultOrigin(),
		Device:            DeviceDescriptorFor(d),
		UniqueID:          uniqueID,
		Icon:              icon,
	}
}

// LightConfig is a light.mqtt JSON-schema discovery document.
// https://www.home-assistant.io/integrations/light.mqtt/#json-schema
type LightConfig struct {
	EntityConfig
	Schema               string   `json:"schema"`
	CommandTopic         string   `json:"command_topic"`
	StateTopic           string   `json:"state_topic"`
	SupportedColorModes  []string `json:"supported_color_modes"`
	Brightness           bool     `json:"brightness"`
	BrightnessScale      uint32   `json:"brightness_scale"`
	Effect               bool     `json:"effect"`
	EffectList           []string `json:"effect_list,omitempty"`
	PayloadAvailable     string   `json:"payload_available"`
}

// LightConfigForDevice builds the light discovery document for d, or ok=false
// if d supports neither RGB nor color temperature; brightness support alone
// does not produce a light. sceneNames lists scene/DIY-scene names for the
// effect_list.
func LightConfigForDevice(d *registry.Device, q quirks.Quirk, sceneNames []string) (LightConfig, bool) {
	supportsRGB, supportsCT := lightCapabilities(d, q)
	if !supportsRGB && !supportsCT {
		return LightConfig{}, false
	}

	id := d.ID
	uniqueID := "gv2mqtt-" + TopicSafeID(id)
	icon := q.Icon

	modes := []string{}
	if supportsRGB {
		modes = append(modes, "rgb")
	}
	if supportsCT {
		modes = append(modes, "color_temp")
	}

	return LightConfig{
		EntityConfig:        baseEntity(d, LightAvailabilityTopic(id), uniqueID, icon),
		Schema:              "json",
		CommandTopic:        LightCommandTopic(id),
		StateTopic:          LightStateTopic(id),
		SupportedColorModes: modes,
		Brightness:          true,
		BrightnessScale:     100,
		Effect:              len(sceneNames) > 0,
		EffectList:          sceneNames,
		PayloadAvailable:    "online",
	}, true
}

// LightSegmentConfigForDevice builds the light discovery document for one
// addressable segment of a segment_color_setting-capable device. Segments
// are RGB-only: the Platform API's segment capability carries no color
// temperature or scene parameters of its own.
func LightSegmentConfigForDevice(d *registry.Device, segment int) LightConfig {
	id := d.ID
	uniqueID := fmt.Sprintf("gv2mqtt-%s-%d", TopicSafeID(id), segment)
	name := fmt.Sprintf("Segment %d", segment)

	entity := baseEntity(d, LightAvailabilityTopic(id), uniqueID, "")
	entity.Name = &name

	return LightConfig{
		EntityConfig:        entity,
		Schema:              "json",
		CommandTopic:        LightSegmentCommandTopic(id, segment),
		StateTopic:          LightSegmentStateTopic(id, segment),
		SupportedColorModes: []string{"rgb"},
		Brightness:          true,
		BrightnessScale:     100,
		PayloadAvailable:    "online",
	}
}

// lightCapabilities reports RGB and color-temperature support, preferring
// the Platform API's declared capabilities and falling back to the quirks
// table when the API's metadata is absent, contradictory, or flagged
// broken (quirks.Quirk.AvoidPlatformAPI).
func lightCapabilities(d *registry.Device, q quirks.Quirk) (rgb, colorTemp bool) {
	if d.PlatformInfo != nil && !q.AvoidPlatformAPI {
		info := *d.PlatformInfo
		rgb = info.SupportsRGB()
		_, _, ctOK := info.ColorTemperatureRange()
		colorTemp = ctOK
		if rgb || colorTemp {
			return rgb, colorTemp
		}
	}
	return q.SupportsRGB, q.ColorTempRange != nil
}

// SwitchConfig is a switch.mqtt discovery document for one on_off or
// toggle capability instance.
type SwitchConfig struct {
	EntityConfig
	CommandTopic string `json:"command_topic"`
	StateTopic   string `json:"state_topic"`
	PayloadOn    string `json:"payload_on"`
	PayloadOff   string `json:"payload_off"`
}

// SwitchConfigForCapability builds a switch discovery document for one
// on_off/toggle capability instance of d (e.g. an oscillation toggle on a
// fan, or a nightlight toggle on a light).
func SwitchConfigForCapability(d *registry.Device, cap platform.Capability) SwitchConfig {
	id := d.ID
	uniqueID := "gv2mqtt-" + TopicSafeID(id) + "-" + cap.Instance
	return SwitchConfig{
		EntityConfig: baseEntity(d, LightAvailabilityTopic(id), uniqueID, ""),
		CommandTopic: SwitchCommandTopic(id, cap.Instance),
		StateTopic:   SwitchStateTopic(id, cap.Instance),
		PayloadOn:    "ON",
		PayloadOff:   "OFF",
	}
}

// SceneConfig is a scene.mqtt discovery document for a one-click shortcut.
type SceneConfig struct {
	EntityConfig
	CommandTopic string `json:"command_topic"`
	PayloadOn    string `json:"payload_on"`
}

// SceneConfigForOneClick builds a scene discovery document activating a
// saved one-click shortcut by name.
func SceneConfigForOneClick(name, slug string) SceneConfig {
	return SceneConfig{
		EntityConfig: EntityConfig{
			AvailabilityTopic: OneClickTopic,
			Origin:            DefaultOrigin(),
			Device:            ThisServiceDescriptor(),
			UniqueID:          "gv2mqtt-oneclick-" + slug,
		},
		CommandTopic: OneClickTopic,
		PayloadOn:    name,
	}
}

// ButtonConfig is a button.mqtt discovery document for a stateless action.
type ButtonConfig struct {
	EntityConfig
	CommandTopic string `json:"command_topic"`
	PayloadPress string `json:"payload_press,omitempty"`
}

// PurgeCachesButtonConfig is the global "Purge Caches" button, not tied to
// any one device.
func PurgeCachesButtonConfig() ButtonConfig {
	name := "Purge Caches"
	return ButtonConfig{
		EntityConfig: EntityConfig{
			AvailabilityTopic: PurgeCachesTopic,
			Name:              &name,
			Origin:            DefaultOrigin(),
			UniqueID:          "gv2mqtt-purge-caches",
			EntityCategory:    "config",
			Icon:              "mdi:delete-sweep",
		},
		CommandTopic: PurgeCachesTopic,
		PayloadPress: "PRESS",
	}
}

// HumidifierConfig is a humidifier.mqtt discovery document.
type HumidifierConfig struct {
	EntityConfig
	ModeCommandTopic           string `json:"mode_command_topic"`
	TargetHumidityCommandTopic string `json:"target_humidity_command_topic"`
	StateTopic                 string `json:"state_topic"`
}

func HumidifierConfigForDevice(d *registry.Device) HumidifierConfig {
	id := d.ID
	uniqueID := "gv2mqtt-" + TopicSafeID(id)
	return HumidifierConfig{
		EntityConfig:               baseEntity(d, LightAvailabilityTopic(id), uniqueID, ""),
		ModeCommandTopic:           HumidifierSetModeTopic(id),
		TargetHumidityCommandTopic: HumidifierSetTargetTopic(id),
		StateTopic:                 HumidifierStateTopic(id),
	}
}

// FanConfig is a fan.mqtt discovery document.
type FanConfig struct {
	EntityConfig
	PercentageCommandTopic    string `json:"percentage_command_topic"`
	PresetModeCommandTopic    string `json:"preset_mode_command_topic"`
	OscillationCommandTopic   string `json:"oscillation_command_topic"`
	StateTopic                string `json:"state_topic"`
}

func FanConfigForDevice(d *registry.Device) FanConfig {
	id := d.ID
	uniqueID := "gv2mqtt-" + TopicSafeID(id)
	return FanConfig{
		EntityConfig:            baseEntity(d, LightAvailabilityTopic(id), uniqueID, ""),
		PercentageCommandTopic:  FanSetSpeedTopic(id),
		PresetModeCommandTopic:  FanSetModeTopic(id),
		OscillationCommandTopic: FanSetOscillationTopic(id),
		StateTopic:              FanStateTopic(id),
	}
}

// NumberConfig is a number.mqtt discovery document for one WorkMode
// sub-mode that has a contiguous value range.
type NumberConfig struct {
	EntityConfig
	CommandTopic string `json:"command_topic"`
	StateTopic   string `json:"state_topic"`
	Min          int    `json:"min"`
	Max          int    `json:"max"`
}

func NumberConfigForWorkMode(d *registry.Device, modeName string, modeNum, min, max int) NumberConfig {
	id := d.ID
	uniqueID := "gv2mqtt-" + TopicSafeID(id) + "-" + modeName
	return NumberConfig{
		EntityConfig: baseEntity(d, LightAvailabilityTopic(id), uniqueID, ""),
		CommandTopic: NumberCommandTopic(id, modeName, modeNum),
		StateTopic:   NumberStateTopic(id, modeName, modeNum),
		Min:          min,
		Max:          max,
	}
}

// SensorConfig is a sensor.mqtt discovery document for one reported
// Property capability.
type SensorConfig struct {
	EntityConfig
	StateTopic        string `json:"state_topic"`
	UnitOfMeasurement string `json:"unit_of_measurement,omitempty"`
}

func SensorConfigForProperty(d *registry.Device, property, unit string) SensorConfig {
	id := d.ID
	uniqueID := "gv2mqtt-" + TopicSafeID(id) + "-" + property
	return SensorConfig{
		EntityConfig:      baseEntity(d, LightAvailabilityTopic(id), uniqueID, ""),
		StateTopic:        SensorStateTopic(id, property),
		UnitOfMeasurement: unit,
	}
}

// FahrenheitTwin derives the synthetic Fahrenheit sensor that accompanies a
// Celsius temperature sensor. §4.J requires publishing both so either unit
// preference is available natively in Home Assistant without a template
// sensor.
func (s SensorConfig) FahrenheitTwin() SensorConfig {
	twin := s
	twin.UniqueID = s.UniqueID + "-f"
	twin.StateTopic = s.StateTopic + "-f"
	if s.UnitOfMeasurement == "°C" {
		twin.UnitOfMeasurement = "°F"
	}
	return twin
}

// VersionSensorConfig is the global "Version" diagnostic sensor, not tied
// to any one device.
func VersionSensorConfig(version string) SensorConfig {
	uniqueID := "global-" + slugify("version")
	return SensorConfig{
		EntityConfig: EntityConfig{
			AvailabilityTopic: PurgeCachesTopic,
			Name:              stringPtr("Version"),
			Origin:            DefaultOrigin(),
			Device:            ThisServiceDescriptor(),
			UniqueID:          uniqueID,
			EntityCategory:    "diagnostic",
		},
		StateTopic: fmt.Sprintf("%s/sensor/%s/state", baseTopic, uniqueID),
	}
}

func stringPtr(s string) *string { return &s }

// PlatformDataButtonConfig is the per-device "request platform data" button
// that forces a fresh Platform API poll for d, bypassing the response
// cache.
func PlatformDataButtonConfig(d *registry.Device) ButtonConfig {
	id := d.ID
	uniqueID := "gv2mqtt-" + TopicSafeID(id) + "-request-platform-data"
	name := "Request platform data"
	return ButtonConfig{
		EntityConfig: EntityConfig{
			AvailabilityTopic: LightAvailabilityTopic(id),
			Name:              &name,
			Origin:            DefaultOrigin(),
			Device:            DeviceDescriptorFor(d),
			UniqueID:          uniqueID,
			EntityCategory:    "config",
			Icon:              "mdi:refresh",
		},
		CommandTopic: ButtonCommandTopic(id, "request-platform-data"),
		PayloadPress: "PRESS",
	}
}
