package platform

import "errors"

var (
	// ErrDeviceNotFound is returned when a device id isn't present in the
	// cached device list.
	ErrDeviceNotFound = errors.New("platform: device not found")

	// ErrCapabilityNotFound is returned when a device lacks a capability
	// a convenience method requires (e.g. powerSwitch, brightness).
	ErrCapabilityNotFound = errors.New("platform: device has no such capability")

	// ErrSceneNotFound is returned by SetSceneByName when no scene option
	// matches the requested name, case-insensitively.
	ErrSceneNotFound = errors.New("platform: scene not available for this device")

	// ErrUnexpectedParameters is returned when a capability's parameter
	// shape doesn't match what a convenience method expects.
	ErrUnexpectedParameters = errors.New("platform: unexpected capability parameter type")
)
