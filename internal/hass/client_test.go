package hass

import (
	"testing"
	"time"

	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
	"github.com/nerrad567/gv2mqtt/internal/quirks"
	"github.com/nerrad567/gv2mqtt/internal/registry"
)

type publishedMessage struct {
	topic    string
	payload  []byte
	retained bool
}

type fakeBroker struct {
	published []publishedMessage
}

func (f *fakeBroker) Publish(topic string, payload []byte, qos byte, retained bool) error {
	f.published = append(f.published, publishedMessage{topic: topic, payload: payload, retained: retained})
	return nil
}

func (f *fakeBroker) Subscribe(string, byte, func(string, []byte) error) error { return nil }

func newTestQuirks() *quirks.Table {
	return quirks.NewTable()
}

func TestPublishLightDiscoverySkipsDevicesWithNoKnownColorSupport(t *testing.T) {
	broker := &fakeBroker{}
	c := NewClient(broker, newTestQuirks(), "homeassistant", nil)

	// H9999 is not in the built-in quirks table and has no PlatformInfo, so
	// it resolves to a zero Quirk with no color/brightness support at all.
	d := &registry.Device{SKU: "H9999", ID: "AA:BB:CC:DD:EE:FF:00:01"}

	if err := c.PublishLightDiscovery(d); err != nil {
		t.Fatalf("PublishLightDiscovery() error = %v", err)
	}
	if len(broker.published) != 0 {
		t.Fatalf("expected no publish for a device with no known capability, got %d", len(broker.published))
	}
}

func TestPublishLightDiscoveryClearsThenPublishes(t *testing.T) {
	broker := &fakeBroker{}
	c := NewClient(broker, newTestQuirks(), "homeassistant", nil)

	d := &registry.Device{
		SKU: "H6072", // LANAPICapableLight in the built-in table
		ID:  "AA:BB:CC:DD:EE:FF:00:01",
	}

	if err := c.PublishLightDiscovery(d); err != nil {
		t.Fatalf("PublishLightDiscovery() error = %v", err)
	}

	uniqueID := "gv2mqtt-" + TopicSafeID(d.ID)
	topic := DiscoveryTopic("homeassistant", "light", uniqueID)

	if len(broker.published) != 2 {
		t.Fatalf("expected 2 publishes (clear, then document), got %d", len(broker.published))
	}
	if broker.published[0].topic != topic || len(broker.published[0].payload) != 0 {
		t.Fatalf("first publish = %+v, want an empty payload on %s", broker.published[0], topic)
	}
	if broker.published[1].topic != topic || len(broker.published[1].payload) == 0 {
		t.Fatalf("second publish = %+v, want the discovery document on %s", broker.published[1], topic)
	}
}

func TestAdviseLightStateReportsOffWithNoStatus(t *testing.T) {
	broker := &fakeBroker{}
	c := NewClient(broker, newTestQuirks(), "homeassistant", nil)

	d := &registry.Device{SKU: "H6143", ID: "AA:BB:CC:DD:EE:FF:00:01"}
	if err := c.AdviseLightState(d); err != nil {
		t.Fatalf("AdviseLightState() error = %v", err)
	}

	foundState := false
	for _, msg := range broker.published {
		if msg.topic == LightStateTopic(d.ID) {
			foundState = true
			if string(msg.payload) != `{"state":"OFF"}` {
				t.Fatalf("state payload = %s, want OFF-only payload", msg.payload)
			}
		}
	}
	if !foundState {
		t.Fatal("expected a publish to the light state topic")
	}
}

func TestAdviseLightStateReportsColorTemp(t *testing.T) {
	broker := &fakeBroker{}
	c := NewClient(broker, newTestQuirks(), "homeassistant", nil)

	d := &registry.Device{SKU: "H6143", ID: "AA:BB:CC:DD:EE:FF:00:01"}
	d.LanStatus = &lan.DeviceStatus{On: true, Brightness: 50, ColorTemperatureKelvin: 5000}
	d.LastLanUpdate = time.Now()

	if err := c.AdviseLightState(d); err != nil {
		t.Fatalf("AdviseLightState() error = %v", err)
	}

	for _, msg := range broker.published {
		if msg.topic == LightStateTopic(d.ID) {
			want := `{"state":"ON","color_mode":"color_temp","brightness":50,"color_temp":200}`
			if string(msg.payload) != want {
				t.Fatalf("state payload = %s, want %s", msg.payload, want)
			}
			return
		}
	}
	t.Fatal("expected a publish to the light state topic")
}
