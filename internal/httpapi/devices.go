package httpapi

import (
	"net/http"
	"sort"

	"github.com/nerrad567/gv2mqtt/internal/registry"
)

// DeviceLister is the registry surface this server needs.
type DeviceLister interface {
	ListDevices() []*registry.Device
}

// deviceItem is the JSON shape returned by GET /api/devices.
type deviceItem struct {
	SKU  string `json:"sku"`
	ID   string `json:"id"`
	Name string `json:"name"`
	Room string `json:"room,omitempty"`
	IP   string `json:"ip,omitempty"`
}

// handleListDevices lists every known device, sorted by (room, name) —
// matching a wall-mounted dashboard's natural grouping.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices := s.devices.ListDevices()

	items := make([]deviceItem, 0, len(devices))
	for _, d := range devices {
		items = append(items, deviceItem{
			SKU:  d.SKU,
			ID:   d.ID,
			Name: d.Name(),
			Room: d.Room,
			IP:   d.IPAddr,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Room != items[j].Room {
			return items[i].Room < items[j].Room
		}
		return items[i].Name < items[j].Name
	})

	writeJSON(w, http.StatusOK, items)
}
