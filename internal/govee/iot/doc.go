// Package iot implements the cloud-side control path: an MQTT session to
// AWS IoT Core, authenticated with a client certificate extracted from the
// PFX bundle internal/govee/undoc's get_iot_key returns. Devices push
// unsolicited state deltas over this channel; the bridge also uses it to
// request a fresh status read and to replay one-click shortcuts.
package iot
