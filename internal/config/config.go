package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "CASEDESK"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Location LocationConfig
	Cache    CacheConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port    int
	GinMode string // debug, release, test
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// LocationConfig configures the location cascade and its providers.
type LocationConfig struct {
	APIKey            string
	BaseURL           string
	RequestTimeout    time.Duration // 0 disables the per-request deadline
	SearchDebounce    time.Duration
	SearchLimit       int
	CitySelectDelay   time.Duration
	CoordinateLatency time.Duration
	GeocoderEnabled   bool
	GeocoderURL       string
	TimezonesEnabled  bool
	SessionTTL        time.Duration
}

// CacheConfig configures the shared list cache. An empty RedisURL keeps the
// cache in process memory.
type CacheConfig struct {
	RedisURL    string
	TTL         time.Duration
	PoolSize    int
	DialTimeout time.Duration
}

// Load reads configuration from file and environment variables. An empty
// file searches the default locations; a missing config file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.casedesk")
	}

	setDefaults(v)

	// CASEDESK_LOCATION_APIKEY overrides location.apiKey
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ginMode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("location.apiKey", "")
	v.SetDefault("location.baseURL", "https://api.countrystatecity.in/v1")
	v.SetDefault("location.requestTimeout", 10*time.Second)
	v.SetDefault("location.searchDebounce", 300*time.Millisecond)
	v.SetDefault("location.searchLimit", 10)
	v.SetDefault("location.citySelectDelay", 100*time.Millisecond)
	v.SetDefault("location.coordinateLatency", time.Second)
	v.SetDefault("location.geocoderEnabled", false)
	v.SetDefault("location.geocoderURL", "https://nominatim.openstreetmap.org")
	v.SetDefault("location.timezonesEnabled", true)
	v.SetDefault("location.sessionTTL", 30*time.Minute)

	v.SetDefault("cache.redisURL", "")
	v.SetDefault("cache.ttl", 6*time.Hour)
	v.SetDefault("cache.poolSize", 10)
	v.SetDefault("cache.dialTimeout", 5*time.Second)
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger writing to stdout.
func (c *Config) NewLogger() *slog.Logger {
	return c.NewLoggerTo(os.Stdout)
}

// NewLoggerTo creates a new slog.Logger based on the configuration
func (c *Config) NewLoggerTo(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
