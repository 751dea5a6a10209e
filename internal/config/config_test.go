package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, format validations and defaults.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing socket.
	require.Error(t, Validate(new(Config)))

	// Bad socket.
	require.Error(t, Validate(&Config{ServerAddress: "bad:address"}))

	// Bad metrics socket.
	require.Error(t, Validate(&Config{ServerAddress: "127.0.0.1:0", MetricsAddress: "nope"}))

	// Bad NATS URL.
	require.Error(t, Validate(&Config{ServerAddress: "127.0.0.1:0", NATS: NATSConfig{URL: "::not a url"}}))

	// Defaults.
	settings := &Config{
		ServerAddress: "127.0.0.1:0",
		NATS:          NATSConfig{URL: "nats://127.0.0.1:4222"},
	}

	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, DefaultAlertStoreFilename, settings.AlertStore)
	require.Equal(t, DefaultNATSSubject, settings.NATS.Subject)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	enabled := false

	settings := &Config{
		ServerAddress:  "127.0.0.1:50051",
		MetricsAddress: "127.0.0.1:9090",
		AlertStore:     filepath.Join(dir, "alerts.json"),
		Plugins: PluginsConfig{
			NotificationBlackout: &enabled,
			AlarmModel:           "ALERTA",
		},
	}

	require.NoError(t, Save(path, settings))

	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.ServerAddress, loaded.ServerAddress)
	require.Equal(t, settings.MetricsAddress, loaded.MetricsAddress)
	require.Equal(t, settings.AlertStore, loaded.AlertStore)
	require.Equal(t, settings.Timeout, loaded.Timeout)
	require.NotNil(t, loaded.Plugins.NotificationBlackout)
	require.False(t, *loaded.Plugins.NotificationBlackout)
	require.Equal(t, "ALERTA", loaded.Plugins.AlarmModel)
}

// TestSaveNil verifies Save rejects a nil configuration.
func TestSaveNil(t *testing.T) {
	t.Parallel()

	require.Error(t, Save(filepath.Join(t.TempDir(), "settings.yaml"), nil))
}

// TestApplyEnv verifies environment overrides for plugin settings.
func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		KeyNotificationBlackout: "false",
		KeyAlarmModel:           " ISA_18_2 ",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]

		return v, ok
	}

	cfg := new(Config)
	require.NoError(t, applyEnv(cfg, lookup))
	require.NotNil(t, cfg.Plugins.NotificationBlackout)
	require.False(t, *cfg.Plugins.NotificationBlackout)
	require.Equal(t, "ISA_18_2", cfg.Plugins.AlarmModel)

	env[KeyNotificationBlackout] = "maybe"
	require.Error(t, applyEnv(cfg, lookup))
}

// TestProvider covers defaults, missing required settings and unknown keys.
func TestProvider(t *testing.T) {
	t.Parallel()

	cfg := new(Config)

	enabled, err := cfg.Bool(KeyNotificationBlackout, true)
	require.NoError(t, err)
	require.True(t, enabled)

	_, err = cfg.String(KeyAlarmModel)
	require.ErrorIs(t, err, ErrConfigurationMissing)

	_, err = cfg.Bool("PLUGINS", false)
	require.ErrorIs(t, err, ErrUnknownKey)

	_, err = cfg.String("PLUGINS")
	require.ErrorIs(t, err, ErrUnknownKey)

	disabled := false
	cfg.Plugins = PluginsConfig{NotificationBlackout: &disabled, AlarmModel: "ALERTA"}

	enabled, err = cfg.Bool(KeyNotificationBlackout, true)
	require.NoError(t, err)
	require.False(t, enabled)

	model, err := cfg.String(KeyAlarmModel)
	require.NoError(t, err)
	require.Equal(t, "ALERTA", model)
}

// TestHolder verifies the holder swaps configurations and ignores nil.
func TestHolder(t *testing.T) {
	t.Parallel()

	h := NewHolder(nil)

	_, err := h.String(KeyAlarmModel)
	require.ErrorIs(t, err, ErrConfigurationMissing)

	h.Set(&Config{Plugins: PluginsConfig{AlarmModel: "ALERTA"}})
	h.Set(nil)

	model, err := h.String(KeyAlarmModel)
	require.NoError(t, err)
	require.Equal(t, "ALERTA", model)
}
