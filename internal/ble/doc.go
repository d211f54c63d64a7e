// Package ble implements Govee's 20-byte BLE GATT command envelope.
//
// Every command or notification exchanged with a Govee BLE characteristic is
// a 20-byte frame: a command byte, a subcommand byte, up to 17 payload
// bytes, and a trailing XOR checksum over the first 19 bytes. This package
// encodes and decodes that envelope without opening a BLE connection itself
// — LAN and cloud transports both carry these same frames base64-encoded
// inside their own JSON payloads, so the codec is transport-agnostic.
package ble
