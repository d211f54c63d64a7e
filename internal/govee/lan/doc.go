// Package lan implements Govee's LAN UDP control protocol.
//
// Devices that opt in to LAN control listen for scan requests on port 4001
// and control requests on port 4003, replying to both on port 4002. A
// Client multicasts scan requests, tracks replies by source IP, and lets
// callers send control commands and poll device status without involving
// either cloud API.
//
// See: https://app-h5.govee.com/user-manual/wlan-guide
package lan
