package devicedb

import "time"

// DiscoverySource identifies which API first discovered a device.
type DiscoverySource string

const (
	SourcePlatformAPI DiscoverySource = "platform_api"
	SourceUndocAPI    DiscoverySource = "undoc_api"
	SourceLAN         DiscoverySource = "lan"
	SourceBLE         DiscoverySource = "ble"
)

// PersistedDevice is a single database entry. Fields tagged omitempty hold
// API-sourced metadata or user overrides that may legitimately be absent.
type PersistedDevice struct {
	ID   string `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
	Room string `json:"room,omitempty"`

	DiscoveredVia DiscoverySource `json:"discovered_via"`
	FirstSeen     time.Time       `json:"first_seen"`
	LastSeen      time.Time       `json:"last_seen"`
	LastAPISync   *time.Time      `json:"last_api_sync,omitempty"`

	// User overrides, editable directly in the JSON file; always take
	// precedence over whatever an API reports.
	UserName string `json:"user_name,omitempty"`
	UserRoom string `json:"user_room,omitempty"`
}

// DisplayName returns the effective name: user override if set, else the
// API/computed name.
func (d PersistedDevice) DisplayName() string {
	if d.UserName != "" {
		return d.UserName
	}
	return d.Name
}

// EffectiveRoom returns the effective room: user override if set, else the
// API-reported room.
func (d PersistedDevice) EffectiveRoom() string {
	if d.UserRoom != "" {
		return d.UserRoom
	}
	return d.Room
}

func newMinimal(id, sku string, source DiscoverySource) PersistedDevice {
	now := time.Now().UTC()
	return PersistedDevice{
		ID:            id,
		SKU:           sku,
		Name:          ComputeDeviceName(sku, id),
		DiscoveredVia: source,
		FirstSeen:     now,
		LastSeen:      now,
	}
}

func newFromAPI(id, sku, name, room string, source DiscoverySource) PersistedDevice {
	now := time.Now().UTC()
	return PersistedDevice{
		ID:            id,
		SKU:           sku,
		Name:          name,
		Room:          room,
		DiscoveredVia: source,
		FirstSeen:     now,
		LastSeen:      now,
		LastAPISync:   &now,
	}
}

// ComputeDeviceName derives a fallback display name from a device's SKU and
// its hardware ID, taking the last 4 hex characters of the ID (colons
// stripped, uppercased) — e.g. "H6072" + "AA:BB:CC:DD:EE:FF:00:11" ->
// "H6072_0011". IDs shorter than 4 characters after normalization are used
// in full.
func ComputeDeviceName(sku, id string) string {
	normalized := make([]byte, 0, len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c == ':' {
			continue
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		normalized = append(normalized, c)
	}

	start := len(normalized) - 4
	if start < 0 {
		start = 0
	}

	return sku + "_" + string(normalized[start:])
}
