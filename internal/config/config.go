package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AllowAllMarker is the only value of ALLOW_ALL_ORIGINS that enables wildcard CORS.
const AllowAllMarker = "1"

const DefaultUpstreamURL = "https://iqbalmih.app.n8n.cloud/webhook/ai-agent"

// DefaultAllowedOrigins are the local development frontends accepted when
// wildcard CORS is off.
var DefaultAllowedOrigins = []string{
	"http://localhost",
	"http://localhost:8000",
	"http://localhost:8080",
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1",
	"http://127.0.0.1:8000",
	"http://127.0.0.1:8080",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes" validate:"gte=0"`
}

// Addr is the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type UpstreamConfig struct {
	URL          string        `mapstructure:"url" validate:"required,url"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRedirects int           `mapstructure:"max_redirects" validate:"gte=0"`
}

type CORSConfig struct {
	// AllowAllOrigins is derived from the raw allow_all_origins value; only
	// AllowAllMarker turns it on.
	AllowAllOrigins bool     `mapstructure:"-"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path" validate:"omitempty,startswith=/"`
	Namespace string `mapstructure:"namespace"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// legacyEnv maps config keys to the bare environment variables the service
// has always honoured, in addition to the CHAT_ prefixed ones.
var legacyEnv = map[string]string{
	"cors.allow_all_origins": "ALLOW_ALL_ORIGINS",
	"upstream.url":           "UPSTREAM_URL",
	"log.level":              "LOG_LEVEL",
	"server.port":            "PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	// must outlive the upstream timeout or relayed replies get cut off
	v.SetDefault("server.write_timeout", "190s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.max_header_bytes", 1<<20)

	v.SetDefault("upstream.url", DefaultUpstreamURL)
	v.SetDefault("upstream.timeout", "180s")
	v.SetDefault("upstream.max_redirects", 0)

	v.SetDefault("cors.allow_all_origins", "0")
	v.SetDefault("cors.allowed_origins", DefaultAllowedOrigins)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "chat_relay")
}

// Load reads configuration from an optional YAML file, .env and the
// environment. An empty or missing configPath yields the built-in defaults.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "CHAT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", configPath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	cfg.CORS.AllowAllOrigins = v.GetString("cors.allow_all_origins") == AllowAllMarker
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
