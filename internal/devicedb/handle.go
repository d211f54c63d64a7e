package devicedb

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Handle is a thread-safe handle onto a device database backed by a single
// JSON file on disk. All methods are safe for concurrent use.
type Handle struct {
	mu   sync.RWMutex
	db   *database
	path string
}

// Open loads the database at path, creating an empty one in memory if the
// file doesn't exist yet (it is created on first Save).
func Open(path string) (*Handle, error) {
	db, err := loadDatabase(path)
	if err != nil {
		return nil, err
	}
	return &Handle{db: db, path: path}, nil
}

// Path returns the file path backing this handle.
func (h *Handle) Path() string {
	return h.path
}

// Save persists the current in-memory state to disk atomically.
func (h *Handle) Save() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.db.save(h.path)
}

// Len returns the number of devices in the database.
func (h *Handle) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.db.Devices)
}

// IsEmpty reports whether the database has no devices, used for first-run
// detection.
func (h *Handle) IsEmpty() bool {
	return h.Len() == 0
}

// Contains reports whether a device ID has a database entry.
func (h *Handle) Contains(deviceID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.db.Devices[deviceID]
	return ok
}

// Get returns a copy of a device's database entry.
func (h *Handle) Get(deviceID string) (PersistedDevice, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	d, ok := h.db.Devices[deviceID]
	if !ok {
		return PersistedDevice{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	return d, nil
}

// DisplayName returns the effective display name for a device, or "" if
// the device isn't known.
func (h *Handle) DisplayName(deviceID string) string {
	d, err := h.Get(deviceID)
	if err != nil {
		return ""
	}
	return d.DisplayName()
}

// Room returns the effective room for a device, or "" if the device isn't
// known or has no room set.
func (h *Handle) Room(deviceID string) string {
	d, err := h.Get(deviceID)
	if err != nil {
		return ""
	}
	return d.EffectiveRoom()
}

// List returns a copy of every device in the database, ordered by ID.
func (h *Handle) List() []PersistedDevice {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]PersistedDevice, 0, len(h.db.Devices))
	for _, id := range h.db.sortedIDs() {
		out = append(out, h.db.Devices[id])
	}
	return out
}

// UpdateFromAPI records (or refreshes) a device discovered or enriched by
// an API. User name/room overrides are preserved; API-sourced fields are
// replaced.
func (h *Handle) UpdateFromAPI(deviceID, sku, apiName, apiRoom string, source DiscoverySource) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := h.db.Devices[deviceID]; ok {
		existing.SKU = sku
		existing.Name = apiName
		existing.Room = apiRoom
		existing.LastSeen = now
		existing.LastAPISync = &now
		h.db.Devices[deviceID] = existing
		return
	}

	h.db.Devices[deviceID] = newFromAPI(deviceID, sku, apiName, apiRoom, source)
}

// HandleLANDiscovery records a LAN broadcast sighting, creating a minimal
// SKU-named entry if the device is unknown, and returns the device's
// effective display name.
func (h *Handle) HandleLANDiscovery(deviceID, sku string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.db.Devices[deviceID]; ok {
		existing.LastSeen = time.Now().UTC()
		h.db.Devices[deviceID] = existing
		return existing.DisplayName()
	}

	d := newMinimal(deviceID, sku, SourceLAN)
	h.db.Devices[deviceID] = d
	return d.DisplayName()
}

// StartupMode describes the environment the bridge found itself starting
// in, based on whether a device database and/or legacy cache file exist.
type StartupMode int

const (
	// StartupFresh: no device database, no cache — a brand new install.
	StartupFresh StartupMode = iota
	// StartupUpgrade: no device database but a cache exists — upgrading
	// from a version that predates the device database.
	StartupUpgrade
	// StartupNormal: a device database already exists.
	StartupNormal
)

// DetectStartupMode inspects the filesystem to classify this run.
func DetectStartupMode(deviceDBPath, cachePath string) StartupMode {
	_, dbErr := os.Stat(deviceDBPath)
	_, cacheErr := os.Stat(cachePath)

	hasDB := dbErr == nil
	hasCache := cacheErr == nil

	switch {
	case hasDB:
		return StartupNormal
	case hasCache:
		return StartupUpgrade
	default:
		return StartupFresh
	}
}
