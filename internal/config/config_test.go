package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load looks at; viper ignores empty values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"ALLOW_ALL_ORIGINS", "UPSTREAM_URL", "LOG_LEVEL", "PORT",
		"CHAT_CORS_ALLOW_ALL_ORIGINS", "CHAT_UPSTREAM_URL", "CHAT_LOG_LEVEL", "CHAT_SERVER_PORT",
		"CHAT_UPSTREAM_TIMEOUT", "CHAT_METRICS_ENABLED",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	require.Equal(t, DefaultUpstreamURL, cfg.Upstream.URL)
	require.Equal(t, 180*time.Second, cfg.Upstream.Timeout)
	require.Zero(t, cfg.Upstream.MaxRedirects)
	require.False(t, cfg.CORS.AllowAllOrigins)
	require.Equal(t, DefaultAllowedOrigins, cfg.CORS.AllowedOrigins)
	require.Equal(t, "info", cfg.Log.Level)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, 8000, cfg.Server.Port)
}

func TestLoad_AllowAllOrigins(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"0", false},
		{"true", false},
		{"yes", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run("value="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ALLOW_ALL_ORIGINS", tc.value)

			cfg, err := Load("")
			require.NoError(t, err)
			require.Equal(t, tc.want, cfg.CORS.AllowAllOrigins)
		})
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9000
upstream:
  url: "http://upstream.internal/hook"
  timeout: 5s
cors:
  allowed_origins:
    - "https://app.example"
log:
  level: DEBUG
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "http://upstream.internal/hook", cfg.Upstream.URL)
	require.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, []string{"https://app.example"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Run("bad upstream url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("UPSTREAM_URL", "not a url")

		_, err := Load("")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("bad log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_LEVEL", "verbose")

		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
	})
}
