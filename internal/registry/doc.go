// Package registry owns the bridge's in-memory view of every known Govee
// device: identity, last-seen status from each transport, and the
// per-device control serialization and cross-transport fallback policy
// that lets callers from MQTT and HTTP issue commands without stepping on
// each other or on a device's own stateful quirks.
package registry
