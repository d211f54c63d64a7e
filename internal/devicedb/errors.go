package devicedb

import "errors"

// ErrDeviceNotFound is returned when a device ID has no entry in the
// database.
var ErrDeviceNotFound = errors.New("devicedb: device not found")
