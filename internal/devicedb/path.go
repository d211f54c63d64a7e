package devicedb

import (
	"os"
	"os/user"
	"path/filepath"
)

// DefaultPath resolves the device database location when no explicit path
// is configured: the Home Assistant add-on's /data directory if present,
// otherwise the user cache directory.
func DefaultPath() string {
	if v := os.Getenv("GOVEE_DEVICE_DB"); v != "" {
		return v
	}

	if info, err := os.Stat("/data"); err == nil && info.IsDir() {
		return filepath.Join("/data", "devices.json")
	}

	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "govee2mqtt", "devices.json")
	}

	if u, err := user.Current(); err == nil {
		return filepath.Join(u.HomeDir, ".cache", "govee2mqtt", "devices.json")
	}

	return filepath.Join(".", "devices.json")
}
