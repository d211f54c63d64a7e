package mqtt

import "fmt"

// TopicPrefixSystem is the base for this client's own connection-status
// topic. Home Assistant-facing command/state/discovery topics live in
// internal/hass, which owns the gv2mqtt/ and discovery-prefix namespaces.
const TopicPrefixSystem = "gv2mqtt/bridge"

// Topics provides builders for this package's own housekeeping topics.
//
//	topics := mqtt.Topics{}
//	statusTopic := topics.SystemStatus()
//	// Returns: "gv2mqtt/bridge/status"
type Topics struct{}

// SystemStatus returns the bridge's own online/offline LWT topic.
//
// Example: gv2mqtt/bridge/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
