package registry

import "errors"

// Domain errors for the registry package. These can be checked with
// errors.Is.
var (
	// ErrNotFound is returned when no device matches an id or name lookup.
	ErrNotFound = errors.New("registry: device not found")

	// ErrAmbiguous is returned when a name lookup matches more than one
	// device and the caller did not supply an exact id.
	ErrAmbiguous = errors.New("registry: name matches multiple devices")

	// ErrDegraded is returned when a control operation cannot be carried
	// out on any transport — the preferred cloud path is locked out and
	// the device has no LAN fallback, or the device exposes no transport
	// at all for the requested operation.
	ErrDegraded = errors.New("registry: no transport available for this operation")
)
