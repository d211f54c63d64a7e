package iot

import (
	"encoding/json"

	"github.com/nerrad567/gv2mqtt/internal/govee/undoc"
)

// ParsedOneClickEntry is one device target plus the already-decoded IoT
// messages a one-click shortcut publishes to it.
type ParsedOneClickEntry struct {
	Topic    string
	Messages []json.RawMessage
}

// ParsedOneClick reduces an undoc.OneClickComponent to the set of IoT
// messages ActivateOneClick needs to replay, discarding everything about
// the shortcut that isn't a publishable device command.
type ParsedOneClick struct {
	Name    string
	Entries []ParsedOneClickEntry
}

// ParseOneClick extracts the IoT-publishable messages from a saved
// shortcut. Entries with no iot_msg payload (BLE-only rules) are skipped.
func ParseOneClick(component undoc.OneClickComponent) ParsedOneClick {
	parsed := ParsedOneClick{Name: component.Name}
	for _, oneClick := range component.OneClicks {
		for _, rule := range oneClick.IotRules {
			var messages []json.RawMessage
			for _, entry := range rule.Rule {
				if len(entry.IotMsg) > 0 {
					messages = append(messages, entry.IotMsg)
				}
			}
			if len(messages) == 0 {
				continue
			}
			parsed.Entries = append(parsed.Entries, ParsedOneClickEntry{
				Topic:    rule.DeviceObj.Topic,
				Messages: messages,
			})
		}
	}
	return parsed
}
