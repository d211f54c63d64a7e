package iot

import "errors"

var (
	// ErrNotConnected is returned by publish operations attempted before a
	// successful Connect or after the session has dropped.
	ErrNotConnected = errors.New("iot: not connected")

	// ErrConnectFailed wraps the underlying error from a failed connection
	// attempt to AWS IoT Core.
	ErrConnectFailed = errors.New("iot: connect failed")
)
