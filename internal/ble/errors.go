package ble

import "errors"

// Domain errors for the BLE packet codec.
var (
	// ErrChecksumMismatch is returned when a decoded packet's trailing
	// checksum byte does not match the XOR of the preceding bytes.
	ErrChecksumMismatch = errors.New("ble: packet checksum mismatch")

	// ErrEncodingFailed is returned when a value cannot be encoded into a
	// 20-byte envelope.
	ErrEncodingFailed = errors.New("ble: encoding failed")

	// ErrDecodingFailed is returned when base64 or envelope decoding fails.
	ErrDecodingFailed = errors.New("ble: decoding failed")
)
