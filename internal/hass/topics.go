package hass

import (
	"fmt"
	"strings"
)

// baseTopic is the root of every command/state topic this bridge owns;
// discovery documents live under the broker's (configurable) discovery
// prefix instead.
const baseTopic = "gv2mqtt"

// Global, device-independent command topics.
const (
	OneClickTopic    = baseTopic + "/oneclick"
	PurgeCachesTopic = baseTopic + "/purge-caches"
)

// TopicSafeID strips colons from a device id for use as an MQTT topic
// segment — Govee device ids are MAC-style and MQTT topics may not
// contain ':' reliably across all brokers/tools.
func TopicSafeID(id string) string {
	return strings.ReplaceAll(id, ":", "")
}

// DiscoveryTopic builds the config topic a discovery document is
// published to, under the broker's discovery prefix.
func DiscoveryTopic(prefix, component, uniqueID string) string {
	return fmt.Sprintf("%s/%s/%s/config", prefix, component, uniqueID)
}

// StatusTopic is the Home Assistant birth/LWT topic this bridge
// subscribes to in order to detect a Home Assistant restart and
// re-publish discovery documents.
func StatusTopic(prefix string) string {
	return prefix + "/status"
}

func LightStateTopic(id string) string {
	return fmt.Sprintf("%s/light/%s/state", baseTopic, TopicSafeID(id))
}

func LightAvailabilityTopic(id string) string {
	return fmt.Sprintf("%s/light/%s/avail", baseTopic, TopicSafeID(id))
}

func LightCommandTopic(id string) string {
	return fmt.Sprintf("%s/light/%s/command", baseTopic, TopicSafeID(id))
}

// LightSegmentCommandTopic addresses one addressable segment of a
// segment_color_setting-capable light, published as its own light entity.
func LightSegmentCommandTopic(id string, segment int) string {
	return fmt.Sprintf("%s/light/%s/command/%d", baseTopic, TopicSafeID(id), segment)
}

func LightSegmentStateTopic(id string, segment int) string {
	return fmt.Sprintf("%s/light/%s/state/%d", baseTopic, TopicSafeID(id), segment)
}

func SwitchCommandTopic(id, instance string) string {
	return fmt.Sprintf("%s/switch/%s/command/%s", baseTopic, TopicSafeID(id), instance)
}

func SwitchStateTopic(id, instance string) string {
	return fmt.Sprintf("%s/switch/%s/state/%s", baseTopic, TopicSafeID(id), instance)
}

func HumidifierStateTopic(id string) string {
	return fmt.Sprintf("%s/humidifier/%s/state", baseTopic, TopicSafeID(id))
}

func HumidifierSetModeTopic(id string) string {
	return fmt.Sprintf("%s/humidifier/%s/set-mode", baseTopic, TopicSafeID(id))
}

func HumidifierSetTargetTopic(id string) string {
	return fmt.Sprintf("%s/humidifier/%s/set-target", baseTopic, TopicSafeID(id))
}

func FanStateTopic(id string) string {
	return fmt.Sprintf("%s/fan/%s/state", baseTopic, TopicSafeID(id))
}

func FanSetModeTopic(id string) string {
	return fmt.Sprintf("%s/fan/%s/set-mode", baseTopic, TopicSafeID(id))
}

func FanSetSpeedTopic(id string) string {
	return fmt.Sprintf("%s/fan/%s/set-speed", baseTopic, TopicSafeID(id))
}

func FanSetOscillationTopic(id string) string {
	return fmt.Sprintf("%s/fan/%s/set-oscillation", baseTopic, TopicSafeID(id))
}

// NumberCommandTopic addresses one sub-mode of a WorkMode capability —
// modeName is the work mode's name (e.g. "gearMode"), modeNum its value.
func NumberCommandTopic(id, modeName string, modeNum int) string {
	return fmt.Sprintf("%s/number/%s/command/%s/%d", baseTopic, TopicSafeID(id), modeName, modeNum)
}

func NumberStateTopic(id, modeName string, modeNum int) string {
	return fmt.Sprintf("%s/number/%s/state/%s/%d", baseTopic, TopicSafeID(id), modeName, modeNum)
}

func SensorStateTopic(id, property string) string {
	return fmt.Sprintf("%s/sensor/%s/state/%s", baseTopic, TopicSafeID(id), property)
}

// SetTemperatureTopic is the one command topic that sits directly under
// the device id rather than under a component name, matching spec's
// `<id>/set-temperature/<units>` layout.
func SetTemperatureTopic(id, units string) string {
	return fmt.Sprintf("%s/%s/set-temperature/%s", baseTopic, TopicSafeID(id), units)
}

func SceneCommandTopic(id, sceneSlug string) string {
	return fmt.Sprintf("%s/scene/%s/%s/command", baseTopic, TopicSafeID(id), sceneSlug)
}

func ButtonCommandTopic(id, action string) string {
	return fmt.Sprintf("%s/button/%s/%s/command", baseTopic, TopicSafeID(id), action)
}
