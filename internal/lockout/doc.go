// Package lockout tracks cloud API failures and decides when to fall back
// to LAN-only operation.
//
// Govee's Platform and undocumented APIs occasionally reject every request
// for a while — rate limiting, a flagged account, or a network outage. Use
// Record to classify an error and persist a lockout; Current and
// ShouldAttempt let callers check whether cloud calls should be skipped in
// favor of LAN control.
package lockout
