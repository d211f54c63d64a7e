// Package hass publishes Home Assistant MQTT discovery documents for known
// Govee devices and routes Home Assistant's command topics back into
// device control operations.
package hass
