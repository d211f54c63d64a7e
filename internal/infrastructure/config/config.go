// Package config loads gv2mqtt's runtime configuration purely from the
// process environment. There is no YAML settings file for the bridge itself:
// the only file-backed configuration in this module is the optional quirks
// override consumed directly by internal/quirks.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the root configuration for the bridge process.
type Config struct {
	Platform PlatformConfig
	Undoc    UndocConfig
	MQTT     MQTTConfig
	LAN      LANConfig
	Cache    CacheConfig
	Logging  LoggingConfig

	DiscoveryPrefix string
}

// PlatformConfig holds Govee Platform REST v1 credentials.
type PlatformConfig struct {
	APIKey string
}

// UndocConfig holds undocumented-cloud account credentials and the local
// paths the AWS IoT client material is extracted to.
type UndocConfig struct {
	Email        string
	Password     string
	IoTKeyPath   string
	IoTCertPath  string
	AmazonRootCA string
}

// MQTTConfig describes the broker the bridge publishes Home Assistant
// discovery/state/command traffic to. Shape matches the teacher's
// infrastructure/mqtt.Client expectations.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig
	Auth      MQTTAuthConfig
	QoS       int
	Reconnect MQTTReconnectConfig
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string
	Port     int
	TLS      bool
	ClientID string
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string
	Password string
}

// MQTTReconnectConfig contains MQTT reconnection settings, in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int
	MaxDelay     int
	MaxAttempts  int
}

// LANConfig controls the UDP discovery/control transport (4.D).
type LANConfig struct {
	NoMulticast     bool
	BroadcastAll    bool
	BroadcastGlobal bool
	ScanAddresses   []string
	DiscoTimeout    int // seconds
}

// CacheConfig locates the cache store (4.B) and device database (4.C).
type CacheConfig struct {
	Dir          string
	DeviceDBPath string
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load builds a Config from defaults overridden by the process environment,
// then validates it.
//
// Environment variables: GOVEE_API_KEY, GOVEE_EMAIL, GOVEE_PASSWORD,
// GOVEE_MQTT_HOST, GOVEE_MQTT_PORT, GOVEE_MQTT_USER, GOVEE_MQTT_PASSWORD,
// GOVEE_LAN_NO_MULTICAST, GOVEE_LAN_BROADCAST_ALL, GOVEE_LAN_BROADCAST_GLOBAL,
// GOVEE_LAN_SCAN, GOVEE_LAN_DISCO_TIMEOUT, GOVEE_CACHE_DIR, GOVEE_DEVICE_DB.
func Load() (*Config, error) {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Undoc: UndocConfig{
			IoTKeyPath:   "/dev/shm/govee.iot.key",
			IoTCertPath:  "/dev/shm/govee.iot.cert",
			AmazonRootCA: "AmazonRootCA1.pem",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "gv2mqtt",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		LAN: LANConfig{
			DiscoTimeout: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		DiscoveryPrefix: "homeassistant",
	}
}

// applyEnvOverrides applies environment variable overrides per spec.md §6.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GOVEE_API_KEY"); v != "" {
		cfg.Platform.APIKey = v
	}
	if v := os.Getenv("GOVEE_EMAIL"); v != "" {
		cfg.Undoc.Email = v
	}
	if v := os.Getenv("GOVEE_PASSWORD"); v != "" {
		cfg.Undoc.Password = v
	}
	if v := os.Getenv("GOVEE_IOT_KEY"); v != "" {
		cfg.Undoc.IoTKeyPath = v
	}
	if v := os.Getenv("GOVEE_IOT_CERT"); v != "" {
		cfg.Undoc.IoTCertPath = v
	}
	if v := os.Getenv("GOVEE_AMAZON_ROOT_CA"); v != "" {
		cfg.Undoc.AmazonRootCA = v
	}

	if v := os.Getenv("GOVEE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GOVEE_MQTT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = n
		}
	}
	if v := os.Getenv("GOVEE_MQTT_USER"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GOVEE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v, ok := os.LookupEnv("GOVEE_LAN_NO_MULTICAST"); ok {
		cfg.LAN.NoMulticast = Truthy(v)
	}
	if v, ok := os.LookupEnv("GOVEE_LAN_BROADCAST_ALL"); ok {
		cfg.LAN.BroadcastAll = Truthy(v)
	}
	if v, ok := os.LookupEnv("GOVEE_LAN_BROADCAST_GLOBAL"); ok {
		cfg.LAN.BroadcastGlobal = Truthy(v)
	}
	if v := os.Getenv("GOVEE_LAN_SCAN"); v != "" {
		cfg.LAN.ScanAddresses = splitCSV(v)
	}
	if v := os.Getenv("GOVEE_LAN_DISCO_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LAN.DiscoTimeout = n
		}
	}

	if v := os.Getenv("GOVEE_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("GOVEE_DEVICE_DB"); v != "" {
		cfg.Cache.DeviceDBPath = v
	}

	if v := os.Getenv("GOVEE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GOVEE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("GOVEE_DISCOVERY_PREFIX"); v != "" {
		cfg.DiscoveryPrefix = v
	}
}

// Truthy parses the spec's truthy/falsy vocabulary: true/yes/on/1 vs
// false/no/off/0. Anything else is treated as falsy.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true
	default:
		return false
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration for internal consistency. Credentials
// being empty is not a validation error here: individual CLI subcommands
// decide which credentials they require (e.g. lan-disco needs none).
func (c *Config) Validate() error {
	var errs []string

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt qos must be 0, 1, or 2")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt port must be between 1 and 65535")
	}
	if c.LAN.DiscoTimeout <= 0 {
		errs = append(errs, "lan disco timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
