package lan

import "errors"

var (
	// ErrTimeout is returned when no reply arrives within the operation's
	// deadline.
	ErrTimeout = errors.New("lan: timed out waiting for device response")

	// ErrSceneNotFound is returned by SetSceneByName when no scene in the
	// device's scene library matches the requested name.
	ErrSceneNotFound = errors.New("lan: scene not found for device")

	// ErrListenerClosed is returned when a per-address listener channel
	// closes before the expected response arrives.
	ErrListenerClosed = errors.New("lan: listener closed")
)
