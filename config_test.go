package gibil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 2*time.Minute, cfg.PollInterval)
	require.Equal(t, 10*time.Second, cfg.StartupGraceDelay)
	require.Equal(t, 5, cfg.Fetch.Concurrency)
	require.Equal(t, 50*time.Millisecond, cfg.Fetch.Pacing)
	require.Equal(t, 20*time.Minute, cfg.Window.Past)
	require.Equal(t, 7*time.Hour, cfg.Window.Future)
	require.Equal(t, "Europe/Oslo", cfg.Timezone)
	require.Equal(t, []string{"LYR"}, cfg.ExtraScopeAirports)
	require.Equal(t, 5, cfg.FailureThreshold)
	require.Equal(t, 60*time.Second, cfg.DefaultHeartbeatInterval)
}

func TestSetDefaultsFillsMissingValues(t *testing.T) {
	cfg := Config{
		Airports:     []string{"OSL"},
		PollInterval: 30 * time.Second,
		Fetch:        FetchConfig{Concurrency: 2},
	}

	SetDefaults(&cfg)

	// Explicit values survive.
	require.Equal(t, 30*time.Second, cfg.PollInterval)
	require.Equal(t, 2, cfg.Fetch.Concurrency)

	// Missing values are filled.
	require.Equal(t, 50*time.Millisecond, cfg.Fetch.Pacing)
	require.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, 20*time.Minute, cfg.Window.Past)
	require.Equal(t, "Europe/Oslo", cfg.Timezone)
	require.Equal(t, 5, cfg.FailureThreshold)
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Airports = []string{"OSL", "BGO"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no airports", func(c *Config) { c.Airports = nil }},
		{"zero concurrency", func(c *Config) { c.Fetch.Concurrency = 0 }},
		{"negative pacing", func(c *Config) { c.Fetch.Pacing = -time.Millisecond }},
		{"zero past window", func(c *Config) { c.Window.Past = 0 }},
		{"zero future window", func(c *Config) { c.Window.Future = 0 }},
		{"zero failure threshold", func(c *Config) { c.FailureThreshold = 0 }},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }},
		{"zero post timeout", func(c *Config) { c.PostTimeout = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Airports = []string{"OSL"}
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	require.NoError(t, cfg.Validate())
	require.NotEmpty(t, cfg.Airports)
	require.Less(t, cfg.PollInterval, time.Second)
	require.Less(t, cfg.StartupGraceDelay, 100*time.Millisecond)
}
