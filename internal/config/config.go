package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
)

type Config struct {
	Server     ServerConfig
	TLS        TLSConfig
	Store      StoreConfig
	App        AppConfig
	Shortener  ShortenerConfig
	Geo        GeoConfig
	Validation ValidationConfig
	Metrics    MetricsConfig
	Pprof      PprofConfig
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8000"`
	MaxConnections  int           `env:"SERVER_MAX_CONNECTIONS" envDefault:"0"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For. Empty
	// means the visitor IP is always the socket peer.
	TrustedProxies  []string      `env:"SERVER_TRUSTED_PROXIES" envSeparator:","`
}

type TLSConfig struct {
	Enabled  bool   `env:"TLS_ENABLED" envDefault:"false"`
	Port     int    `env:"TLS_PORT" envDefault:"8443"`
	CertFile string `env:"TLS_CERT_FILE"`
	KeyFile  string `env:"TLS_KEY_FILE"`
}

// StoreConfig selects the backend by the scheme of URL. Key is the
// password or auth token, depending on the backend.
type StoreConfig struct {
	URL      string `env:"STORE_URL,required,notEmpty"`
	Key      string `env:"STORE_KEY,required,notEmpty"`
	MaxConns int32  `env:"STORE_MAX_CONNS" envDefault:"10"`
	Database string `env:"STORE_DATABASE" envDefault:"shortlink"`
}

type AppConfig struct {
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

type ShortenerConfig struct {
	MaxAttempts int `env:"SHORTENER_MAX_ATTEMPTS" envDefault:"10"`
}

type GeoConfig struct {
	Enabled       bool          `env:"GEO_ENABLED" envDefault:"true"`
	BaseURL       string        `env:"GEO_BASE_URL" envDefault:"http://ip-api.com/json"`
	Timeout       time.Duration `env:"GEO_TIMEOUT" envDefault:"3s"`
	RatePerMinute int           `env:"GEO_RATE_PER_MINUTE" envDefault:"45"`
}

type ValidationConfig struct {
	MaxURLLength       int    `env:"VALIDATION_MAX_URL_LENGTH" envDefault:"2048"`
	Strict             bool   `env:"VALIDATION_STRICT" envDefault:"false"`
	AllowPrivateIPs    bool   `env:"VALIDATION_ALLOW_PRIVATE_IPS" envDefault:"true"`
	MaxRequestBodySize string `env:"VALIDATION_MAX_REQUEST_BODY_SIZE" envDefault:"64K"`
}

type MetricsConfig struct {
	Enabled        bool `env:"METRICS_ENABLED" envDefault:"false"`
	BufferSize     int  `env:"METRICS_BUFFER_SIZE" envDefault:"10000"`
	FlushInterval  int  `env:"METRICS_FLUSH_INTERVAL_MS" envDefault:"1000"`
	FlushThreshold int  `env:"METRICS_FLUSH_THRESHOLD" envDefault:"500"`
}

type PprofConfig struct {
	Enabled bool   `env:"PPROF_ENABLED" envDefault:"false"`
	Secret  string `env:"PPROF_SECRET"`
}

// Load reads an optional .env file from the working directory and then
// parses the process environment. Variables already set win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server port must be positive")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	for _, cidr := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("invalid trusted proxy %q: %w", cidr, err)
		}
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return errors.New("tls cert and key files are required when tls is enabled")
	}
	if c.Store.MaxConns <= 0 {
		return errors.New("store max connections must be positive")
	}
	if c.Shortener.MaxAttempts <= 0 {
		return errors.New("shortener max attempts must be positive")
	}
	if c.Geo.Enabled && c.Geo.Timeout <= 0 {
		return errors.New("geo timeout must be positive")
	}
	if c.Pprof.Enabled && c.Pprof.Secret == "" {
		return errors.New("pprof secret is required when pprof is enabled")
	}
	if c.Metrics.Enabled && (c.Metrics.BufferSize <= 0 || c.Metrics.FlushInterval <= 0 || c.Metrics.FlushThreshold <= 0) {
		return errors.New("metrics buffer size, flush interval and flush threshold must be positive")
	}
	if _, err := c.Validation.MaxRequestBodyBytes(); err != nil {
		return err
	}
	if _, err := c.App.Level(); err != nil {
		return err
	}
	return nil
}

// MaxRequestBodyBytes parses VALIDATION_MAX_REQUEST_BODY_SIZE the way echo's
// BodyLimit does ("64K" is decimal, "64Ki" binary).
func (c *ValidationConfig) MaxRequestBodyBytes() (int64, error) {
	limit, err := bytes.Parse(c.MaxRequestBodySize)
	if err != nil {
		return 0, fmt.Errorf("invalid max request body size %q: %w", c.MaxRequestBodySize, err)
	}
	if limit <= 0 {
		return 0, fmt.Errorf("max request body size %q must be positive", c.MaxRequestBodySize)
	}
	return limit, nil
}

// Level maps LOG_LEVEL to a slog level.
func (c *AppConfig) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
