// Package logging provides structured logging for gv2mqtt.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the bridge.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured entirely from the environment, via
// config.LoggingConfig:
//
//	GOVEE_LOG_LEVEL=info    # debug, info, warn, error
//	GOVEE_LOG_FORMAT=json   # json, text
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting bridge", "mqtt_host", cfg.MQTT.Broker.Host)
//	logger.Error("platform api request failed", "error", err)
//
// # Security
//
// Never log secrets, tokens, passwords, or API keys.
// Use field redaction for sensitive data:
//
//	logger.Info("platform api key used", "key_prefix", key[:8]+"...")
package logging
