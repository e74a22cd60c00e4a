package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("STORE_URL", "postgres://app@db.example.com:5432/shortlink")
	t.Setenv("STORE_KEY", "s3cret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres://app@db.example.com:5432/shortlink", cfg.Store.URL)
	assert.Equal(t, "s3cret", cfg.Store.Key)
	assert.Equal(t, int32(10), cfg.Store.MaxConns)
	assert.Empty(t, cfg.App.PublicBaseURL)
	assert.Equal(t, 10, cfg.Shortener.MaxAttempts)
	assert.True(t, cfg.Geo.Enabled)
	assert.Equal(t, "http://ip-api.com/json", cfg.Geo.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Geo.Timeout)
	assert.Equal(t, 45, cfg.Geo.RatePerMinute)
	assert.False(t, cfg.Validation.Strict)
	assert.False(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Pprof.Enabled)
}

func TestLoad_MissingStoreURL(t *testing.T) {
	t.Setenv("STORE_URL", "")
	t.Setenv("STORE_KEY", "s3cret")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_URL")
}

func TestLoad_MissingStoreKey(t *testing.T) {
	t.Setenv("STORE_URL", "file::memory:")
	t.Setenv("STORE_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_KEY")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "https://sho.rt")
	t.Setenv("GEO_TIMEOUT", "500ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://sho.rt", cfg.App.PublicBaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Geo.Timeout)

	level, err := cfg.App.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_TLSRequiresFiles(t *testing.T) {
	setRequired(t)
	t.Setenv("TLS_ENABLED", "true")

	_, err := config.Load()
	assert.ErrorContains(t, err, "tls")
}

func TestValidate_ShortenerAttempts(t *testing.T) {
	setRequired(t)
	t.Setenv("SHORTENER_MAX_ATTEMPTS", "0")

	_, err := config.Load()
	assert.ErrorContains(t, err, "max attempts")
}

func TestValidate_PprofRequiresSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("PPROF_ENABLED", "true")

	_, err := config.Load()
	assert.ErrorContains(t, err, "pprof secret")

	t.Setenv("PPROF_SECRET", "letmein")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "letmein", cfg.Pprof.Secret)
}

func TestValidate_MaxRequestBodySize(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{"64K", 64_000, false},
		{"1Mi", 1 << 20, false},
		{"lots", 0, true},
		{"0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setRequired(t)
			t.Setenv("VALIDATION_MAX_REQUEST_BODY_SIZE", tt.value)

			cfg, err := config.Load()
			if tt.wantErr {
				assert.ErrorContains(t, err, "max request body size")
				return
			}
			require.NoError(t, err)
			limit, err := cfg.Validation.MaxRequestBodyBytes()
			require.NoError(t, err)
			assert.Equal(t, tt.want, limit)
		})
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8,fd00::/8")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "fd00::/8"}, cfg.Server.TrustedProxies)

	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8,proxy.internal")
	_, err = config.Load()
	assert.ErrorContains(t, err, "invalid trusted proxy")
}
