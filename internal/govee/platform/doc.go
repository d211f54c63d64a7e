// Package platform implements the Govee Platform API v1, documented at
// https://developer.govee.com/reference/get-you-devices.
//
// This is the officially supported, key-authenticated cloud API — distinct
// from the undocumented app/community APIs in internal/govee/undoc and the
// LAN UDP protocol in internal/govee/lan. Device listings and scene
// libraries are cache-backed via internal/cache; device control and state
// reads are not cached, since they reflect point-in-time actions.
package platform
