// Package undoc implements the undocumented Govee app and community APIs,
// reverse engineered from the Govee Home mobile app traffic (see
// https://github.com/constructorfleet/homebridge-ultimate-govee for prior
// art). Unlike internal/govee/platform, this surface is unversioned,
// unauthenticated by API key, and liable to break without notice — it
// exists because it is the only way to obtain an AWS IoT credential
// (internal/govee/iot) and the full scene/one-click libraries the
// Platform API does not expose.
package undoc
