package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ServerPort:      "8090",
		APIBaseURL:      "http://127.0.0.1:8080",
		SessionCookie:   "access_token",
		PageSize:        20,
		RefreshInterval: 30 * time.Second,
		NotifyTTL:       4 * time.Second,
		PollInterval:    time.Second,
		PollMaxAttempts: 10,
		RequestTimeout:  30 * time.Second,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty port", mutate: func(c *Config) { c.ServerPort = "" }},
		{name: "relative api url", mutate: func(c *Config) { c.APIBaseURL = "/api" }},
		{name: "empty cookie name", mutate: func(c *Config) { c.SessionCookie = " " }},
		{name: "page size too small", mutate: func(c *Config) { c.PageSize = 0 }},
		{name: "page size too large", mutate: func(c *Config) { c.PageSize = 500 }},
		{name: "refresh interval below 1s", mutate: func(c *Config) { c.RefreshInterval = 100 * time.Millisecond }},
		{name: "notify ttl too short", mutate: func(c *Config) { c.NotifyTTL = 0 }},
		{name: "notify ttl too long", mutate: func(c *Config) { c.NotifyTTL = time.Minute }},
		{name: "poll interval zero", mutate: func(c *Config) { c.PollInterval = 0 }},
		{name: "poll attempts zero", mutate: func(c *Config) { c.PollMaxAttempts = 0 }},
		{name: "request timeout zero", mutate: func(c *Config) { c.RequestTimeout = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.ServerPort)
	assert.Equal(t, "access_token", cfg.SessionCookie)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 4*time.Second, cfg.NotifyTTL)
	assert.Equal(t, 10, cfg.PollMaxAttempts)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("REFRESH_INTERVAL", "10s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 10*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestSplitCSV(t *testing.T) {
	t.Parallel()

	assert.Empty(t, splitCSV(""))
	assert.Equal(t, []string{"a", "b"}, splitCSV("a, b"))
	assert.Equal(t, []string{"a"}, splitCSV("a,,"))
}
