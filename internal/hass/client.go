package hass

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/gv2mqtt/internal/quirks"
	"github.com/nerrad567/gv2mqtt/internal/registry"
	"github.com/nerrad567/gv2mqtt/internal/temperature"
)

// Logger mirrors the small logging interface used across this module.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Broker is the subset of the infrastructure MQTT client this package
// needs — publishing and subscribing. Defined locally so this package
// only depends on the shape it actually uses.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte) error) error
}

// SceneNamesFunc resolves the scene/DIY-scene names usable as a light's
// effect_list. Looked up lazily so discovery publishing never blocks on a
// network round trip for a device nobody is about to control.
type SceneNamesFunc func(d *registry.Device) []string

// OneClickNamesFunc resolves the account's saved one-click shortcut names,
// published as scene.mqtt entities. Looked up lazily for the same reason
// as SceneNamesFunc.
type OneClickNamesFunc func() []string

// Client publishes discovery documents and device state to Home Assistant
// over an already-connected broker client.
type Client struct {
	broker        Broker
	quirks        *quirks.Table
	discoPrefix   string
	sceneNames    SceneNamesFunc
	oneClickNames OneClickNamesFunc
	logger        Logger
}

// NewClient builds a Client. sceneNames may be nil, in which case every
// light is published with an empty effect list.
func NewClient(broker Broker, quirksTable *quirks.Table, discoPrefix string, sceneNames SceneNamesFunc) *Client {
	if sceneNames == nil {
		sceneNames = func(*registry.Device) []string { return nil }
	}
	return &Client{
		broker:        broker,
		quirks:        quirksTable,
		discoPrefix:   discoPrefix,
		sceneNames:    sceneNames,
		oneClickNames: func() []string { return nil },
		logger:        noopLogger{},
	}
}

// SetLogger sets the logger used for publish tracing.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// SetOneClickNames wires the lookup used to publish a scene.mqtt entity per
// saved one-click shortcut. Until set, no one-click scenes are published.
func (c *Client) SetOneClickNames(fn OneClickNamesFunc) {
	if fn == nil {
		fn = func() []string { return nil }
	}
	c.oneClickNames = fn
}


func (c *Client) publish(topic string, payload []byte) error {
	c.logger.Info("publish", "topic", topic)
	return c.broker.Publish(topic, payload, 0, false)
}

func (c *Client) publishObj(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("hass: marshaling %s: %w", topic, err)
	}
	return c.publish(topic, data)
}

// publishDiscovery clears any previously published document on component's
// config topic, then publishes cfg — Home Assistant's recommended sequence
// for a changed discovery document, since a stale schema can otherwise
// confuse an already-registered entity.
func (c *Client) publishDiscovery(component, uniqueID string, cfg any) error {
	topic := DiscoveryTopic(c.discoPrefix, component, uniqueID)
	if err := c.publish(topic, nil); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	return c.publishObj(topic, cfg)
}

// PublishLightDiscovery publishes the light discovery document for d, or
// does nothing if d supports neither RGB nor color temperature.
func (c *Client) PublishLightDiscovery(d *registry.Device) error {
	q, _ := c.quirks.Resolve(d.SKU)
	cfg, ok := LightConfigForDevice(d, q, c.sceneNames(d))
	if !ok {
		return nil
	}
	return c.publishDiscovery("light", cfg.UniqueID, cfg)
}

// PublishPurgeCachesButton publishes the global "Purge Caches" button.
func (c *Client) PublishPurgeCachesButton() error {
	cfg := PurgeCachesButtonConfig()
	return c.publishDiscovery("button", cfg.UniqueID, cfg)
}

// PublishDeviceEntities publishes every discovery document §4.J requires
// for d: its light (and per-segment lights), switches, humidifier/fan,
// WorkMode numbers, property sensors, and "request platform data" button.
func (c *Client) PublishDeviceEntities(d *registry.Device) error {
	q, _ := c.quirks.Resolve(d.SKU)
	entities := EnumerateDeviceEntities(d, q, c.sceneNames(d))

	if entities.Light != nil {
		if err := c.publishDiscovery("light", entities.Light.UniqueID, entities.Light); err != nil {
			return err
		}
	}
	for i := range entities.SegmentLights {
		cfg := entities.SegmentLights[i]
		if err := c.publishDiscovery("light", cfg.UniqueID, cfg); err != nil {
			return err
		}
	}
	for i := range entities.Switches {
		cfg := entities.Switches[i]
		if err := c.publishDiscovery("switch", cfg.UniqueID, cfg); err != nil {
			return err
		}
	}
	if entities.Humidifier != nil {
		if err := c.publishDiscovery("humidifier", entities.Humidifier.UniqueID, entities.Humidifier); err != nil {
			return err
		}
	}
	if entities.Fan != nil {
		if err := c.publishDiscovery("fan", entities.Fan.UniqueID, entities.Fan); err != nil {
			return err
		}
	}
	for i := range entities.Numbers {
		cfg := entities.Numbers[i]
		if err := c.publishDiscovery("number", cfg.UniqueID, cfg); err != nil {
			return err
		}
	}
	for i := range entities.Sensors {
		cfg := entities.Sensors[i]
		if err := c.publishDiscovery("sensor", cfg.UniqueID, cfg); err != nil {
			return err
		}
	}
	if entities.PlatformButton != nil {
		if err := c.publishDiscovery("button", entities.PlatformButton.UniqueID, entities.PlatformButton); err != nil {
			return err
		}
	}
	return nil
}

// PublishGlobalEntities publishes every discovery document not tied to a
// device: the global Purge Caches button, the Version diagnostic sensor,
// and one scene per saved one-click shortcut.
func (c *Client) PublishGlobalEntities() error {
	entities := EnumerateGlobalEntities(bridgeVersion, c.oneClickNames())

	if err := c.publishDiscovery("button", entities.PurgeCaches.UniqueID, entities.PurgeCaches); err != nil {
		return err
	}
	if err := c.publishDiscovery("sensor", entities.Version.UniqueID, entities.Version); err != nil {
		return err
	}
	for i := range entities.Scenes {
		cfg := entities.Scenes[i]
		if err := c.publishDiscovery("scene", cfg.UniqueID, cfg); err != nil {
			return err
		}
	}
	return c.publish(entities.Version.StateTopic, []byte(bridgeVersion))
}

// RegisterWithHass (re)publishes discovery documents, marks every device
// available, and reports current state. It is called once at startup and
// again whenever Home Assistant reports itself restarted.
func (c *Client) RegisterWithHass(devices []*registry.Device) error {
	for _, d := range devices {
		if err := c.PublishDeviceEntities(d); err != nil {
			return fmt.Errorf("hass: publishing discovery for %s: %w", d.ID, err)
		}
	}
	time.Sleep(time.Duration(50*len(devices)) * time.Millisecond)

	for _, d := range devices {
		if err := c.publish(LightAvailabilityTopic(d.ID), []byte("online")); err != nil {
			return fmt.Errorf("hass: marking %s online: %w", d.ID, err)
		}
	}
	time.Sleep(time.Duration(50*len(devices)) * time.Millisecond)

	for _, d := range devices {
		if err := c.AdviseLightState(d); err != nil {
			return fmt.Errorf("hass: reporting state for %s: %w", d.ID, err)
		}
	}

	return c.PublishGlobalEntities()
}

// lightStatePayload is the light.mqtt JSON schema's state payload.
type lightStatePayload struct {
	State      string      `json:"state"`
	ColorMode  string      `json:"color_mode,omitempty"`
	Color      *rgbPayload `json:"color,omitempty"`
	Brightness uint8       `json:"brightness,omitempty"`
	ColorTemp  uint32      `json:"color_temp,omitempty"`
}

type rgbPayload struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// AdviseLightState publishes d's current on/off, color, and brightness to
// its light state topic, and marks it available. A device with no
// reported status yet is published as simply OFF, so Home Assistant shows
// a definite state rather than "unknown" — this never issues a control
// call of its own, so it can't wake a sleeping device.
func (c *Client) AdviseLightState(d *registry.Device) error {
	status, ok := d.CurrentStatus()

	var payload lightStatePayload
	switch {
	case !ok || !status.On:
		payload = lightStatePayload{State: "OFF"}
	case status.ColorTemperatureKelvin == 0:
		payload = lightStatePayload{
			State:      "ON",
			ColorMode:  "rgb",
			Color:      &rgbPayload{R: status.Color.R, G: status.Color.G, B: status.Color.B},
			Brightness: status.Brightness,
		}
	default:
		payload = lightStatePayload{
			State:      "ON",
			ColorMode:  "color_temp",
			Brightness: status.Brightness,
			ColorTemp:  temperature.KelvinToMired(status.ColorTemperatureKelvin),
		}
	}

	if err := c.publishObj(LightStateTopic(d.ID), payload); err != nil {
		return err
	}
	return c.publish(LightAvailabilityTopic(d.ID), []byte("online"))
}
