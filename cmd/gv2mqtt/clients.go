package main

import (
	"path/filepath"

	"github.com/nerrad567/gv2mqtt/internal/cache"
	"github.com/nerrad567/gv2mqtt/internal/govee/platform"
	"github.com/nerrad567/gv2mqtt/internal/govee/undoc"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/config"
)

// openCacheStore opens the cache database the CLI subcommands share with
// the serve command, defaulting to the current directory when
// GOVEE_CACHE_DIR is unset.
func openCacheStore(cfg *config.Config) (*cache.Store, error) {
	return cache.Open(filepath.Join(cfg.Cache.Dir, "cache.db"))
}

func newPlatformClient(cfg *config.Config, store *cache.Store) *platform.Client {
	return platform.NewClient(cfg.Platform.APIKey, store)
}

func newUndocClient(cfg *config.Config, store *cache.Store) *undoc.Client {
	return undoc.NewClient(cfg.Undoc.Email, cfg.Undoc.Password, store)
}
