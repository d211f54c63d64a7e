package devicedb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// schemaVersion is incremented whenever the on-disk format changes in a way
// that requires a migration.
const schemaVersion = 1

// database is the raw JSON-serializable document. encoding/json already
// sorts map[string]... keys when marshaling, which keeps the file
// diff-stable across saves without extra bookkeeping.
type database struct {
	Version uint32                     `json:"version"`
	Devices map[string]PersistedDevice `json:"devices"`
}

func loadDatabase(path string) (*database, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &database{Version: schemaVersion, Devices: make(map[string]PersistedDevice)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("devicedb: reading %s: %w", path, err)
	}

	var db database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("devicedb: parsing %s: %w", path, err)
	}
	if db.Version == 0 {
		db.Version = schemaVersion
	}
	if db.Devices == nil {
		db.Devices = make(map[string]PersistedDevice)
	}
	return &db, nil
}

// save writes the database atomically: serialize to a temp file in the
// same directory, fsync, then rename over the target path.
func (db *database) save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("devicedb: creating %s: %w", dir, err)
		}
	}

	contents, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("devicedb: marshaling: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("devicedb: creating temp file: %w", err)
	}
	if _, err := f.Write(contents); err != nil {
		f.Close()
		return fmt.Errorf("devicedb: writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("devicedb: syncing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("devicedb: closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("devicedb: renaming into place: %w", err)
	}
	return nil
}

func (db *database) sortedIDs() []string {
	ids := make([]string, 0, len(db.Devices))
	for id := range db.Devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
