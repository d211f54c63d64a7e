package hass

import "testing"

func TestTopicSafeIDStripsColons(t *testing.T) {
	if got := TopicSafeID("AA:BB:CC:DD:EE:FF"); got != "AABBCCDDEEFF" {
		t.Fatalf("TopicSafeID() = %q, want AABBCCDDEEFF", got)
	}
}

func TestDiscoveryTopic(t *testing.T) {
	got := DiscoveryTopic("homeassistant", "light", "gv2mqtt-abc")
	want := "homeassistant/light/gv2mqtt-abc/config"
	if got != want {
		t.Fatalf("DiscoveryTopic() = %q, want %q", got, want)
	}
}

func TestLightTopics(t *testing.T) {
	id := "AA:BB:CC:DD:EE:FF:42:2A"
	if got := LightCommandTopic(id); got != "gv2mqtt/light/AABBCCDDEEFF422A/command" {
		t.Fatalf("LightCommandTopic() = %q", got)
	}
	if got := LightStateTopic(id); got != "gv2mqtt/light/AABBCCDDEEFF422A/state" {
		t.Fatalf("LightStateTopic() = %q", got)
	}
	if got := LightAvailabilityTopic(id); got != "gv2mqtt/light/AABBCCDDEEFF422A/avail" {
		t.Fatalf("LightAvailabilityTopic() = %q", got)
	}
	if got := LightSegmentCommandTopic(id, 3); got != "gv2mqtt/light/AABBCCDDEEFF422A/command/3" {
		t.Fatalf("LightSegmentCommandTopic() = %q", got)
	}
}

func TestSetTemperatureTopicHasNoComponentSegment(t *testing.T) {
	got := SetTemperatureTopic("AABBCC", "f")
	want := "gv2mqtt/AABBCC/set-temperature/f"
	if got != want {
		t.Fatalf("SetTemperatureTopic() = %q, want %q", got, want)
	}
}

func TestNumberTopics(t *testing.T) {
	if got := NumberCommandTopic("AABBCC", "gearMode", 2); got != "gv2mqtt/number/AABBCC/command/gearMode/2" {
		t.Fatalf("NumberCommandTopic() = %q", got)
	}
	if got := NumberStateTopic("AABBCC", "gearMode", 2); got != "gv2mqtt/number/AABBCC/state/gearMode/2" {
		t.Fatalf("NumberStateTopic() = %q", got)
	}
}

func TestGlobalTopics(t *testing.T) {
	if OneClickTopic != "gv2mqtt/oneclick" {
		t.Fatalf("OneClickTopic = %q", OneClickTopic)
	}
	if PurgeCachesTopic != "gv2mqtt/purge-caches" {
		t.Fatalf("PurgeCachesTopic = %q", PurgeCachesTopic)
	}
}
