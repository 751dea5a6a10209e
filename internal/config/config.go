package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the alarm-blackout binaries.
type Config struct {
	// ServerAddress is the gRPC address of the intake service.
	ServerAddress string `yaml:"server_addr"`
	// MetricsAddress is the HTTP address Prometheus metrics are served on.
	// Metrics are disabled when empty.
	MetricsAddress string `yaml:"metrics_addr,omitempty"`
	// AlertStore is the path to the JSON file storing alerts.
	AlertStore string `yaml:"alert_store"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level,omitempty"`
	// NATS configures the blackout lifecycle event subscription.
	NATS NATSConfig `yaml:"nats,omitempty"`
	// Plugins holds the settings read by the suppression plugin.
	Plugins PluginsConfig `yaml:"plugins"`
}

// NATSConfig configures the event bus connection.
type NATSConfig struct {
	// URL is the NATS server URL. The subscription is disabled when empty.
	URL string `yaml:"url,omitempty"`
	// Subject is the subject blackout lifecycle events are published on.
	Subject string `yaml:"subject,omitempty"`
}

// PluginsConfig holds plugin settings.
type PluginsConfig struct {
	// NotificationBlackout keeps alerts in blackout with a suppressed status
	// instead of dropping them. Defaults to true when unset.
	NotificationBlackout *bool `yaml:"notification_blackout,omitempty"`
	// AlarmModel selects the status vocabulary (ALERTA or ISA_18_2).
	AlarmModel string `yaml:"alarm_model,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-blackout-settings.yaml"

	// DefaultAlertStoreFilename is the default filename for the alert store.
	DefaultAlertStoreFilename = "alarm-blackout-alerts.json"

	// DefaultNATSSubject is the subject blackout events are read from.
	DefaultNATSSubject = "alerta.blackout"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.MetricsAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics socket: %w", err)
		}
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.AlertStore == "" {
		settings.AlertStore = DefaultAlertStoreFilename
	}

	if settings.NATS.URL == "" {
		return nil
	}

	if _, err := url.ParseRequestURI(settings.NATS.URL); err != nil {
		return fmt.Errorf("invalid NATS URL: %w", err)
	}

	if settings.NATS.Subject == "" {
		settings.NATS.Subject = DefaultNATSSubject
	}

	return nil
}

// applyEnv overrides plugin settings from environment variables named after
// the provider keys.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(KeyNotificationBlackout); ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", KeyNotificationBlackout, err)
		}

		cfg.Plugins.NotificationBlackout = &enabled
	}

	if v, ok := lookup(KeyAlarmModel); ok {
		cfg.Plugins.AlarmModel = strings.TrimSpace(v)
	}

	return nil
}
