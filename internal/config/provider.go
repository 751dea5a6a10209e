package config

import (
	"errors"
	"fmt"
	"sync"
)

// Provider keys understood by Config.
const (
	// KeyNotificationBlackout toggles muting instead of dropping alerts in blackout.
	KeyNotificationBlackout = "NOTIFICATION_BLACKOUT"
	// KeyAlarmModel selects the alarm model.
	KeyAlarmModel = "ALARM_MODEL"
)

var (
	// ErrConfigurationMissing is returned when a required setting has no value.
	ErrConfigurationMissing = errors.New("required configuration is missing")
	// ErrUnknownKey is returned for keys the provider does not know.
	ErrUnknownKey = errors.New("unknown configuration key")
)

// Provider resolves plugin settings by key.
type Provider interface {
	// Bool returns the boolean setting or fallback when it is unset.
	Bool(key string, fallback bool) (bool, error)
	// String returns a required string setting.
	String(key string) (string, error)
}

// Bool implements Provider.
func (c *Config) Bool(key string, fallback bool) (bool, error) {
	switch key {
	case KeyNotificationBlackout:
		if c.Plugins.NotificationBlackout == nil {
			return fallback, nil
		}

		return *c.Plugins.NotificationBlackout, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// String implements Provider.
func (c *Config) String(key string) (string, error) {
	switch key {
	case KeyAlarmModel:
		if c.Plugins.AlarmModel == "" {
			return "", fmt.Errorf("%w: %s", ErrConfigurationMissing, key)
		}

		return c.Plugins.AlarmModel, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Holder keeps the active configuration and lets it be swapped at runtime.
type Holder struct {
	// cfg is the active configuration.
	cfg *Config
	// mu protects cfg.
	mu sync.RWMutex
}

// NewHolder creates a holder with the given initial configuration.
func NewHolder(cfg *Config) *Holder {
	if cfg == nil {
		cfg = new(Config)
	}

	return &Holder{cfg: cfg}
}

// Get returns the active configuration.
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.cfg
}

// Set replaces the active configuration. Nil is ignored.
func (h *Holder) Set(cfg *Config) {
	if cfg == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.cfg = cfg
}

// Bool implements Provider using the active configuration.
func (h *Holder) Bool(key string, fallback bool) (bool, error) {
	return h.Get().Bool(key, fallback)
}

// String implements Provider using the active configuration.
func (h *Holder) String(key string) (string, error) {
	return h.Get().String(key)
}
