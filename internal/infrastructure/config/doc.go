// Package config loads gv2mqtt's settings from environment variables.
//
// There is no configuration file for the bridge itself: every setting in
// Config is either a hardcoded default or an environment variable override.
// The one exception is the optional quirks override file consumed directly
// by internal/quirks, which is not part of this package.
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
