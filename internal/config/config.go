// Package config loads opus settings from opus.yaml, a .env file and OPUS_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey is returned when a remote call is needed but no key
	// is configured.
	ErrMissingAPIKey = errors.New("missing API key: set API_KEY or api.key in opus.yaml")

	// ErrMissingBaseURL is returned when a remote call is needed but no
	// endpoint is configured.
	ErrMissingBaseURL = errors.New("missing API base URL: set OPUS_API_BASE_URL or api.base_url in opus.yaml")
)

// Config holds every setting the CLI needs.
type Config struct {
	API     APIConfig
	Loader  LoaderConfig
	Company string
	Cache   CacheConfig
	Log     LogConfig

	// File is the config file that was read, if any.
	File string
}

type APIConfig struct {
	BaseURL    string
	Key        string
	Timeout    time.Duration
	MaxRetries int
	RateLimit  float64
	RateBurst  int
}

type LoaderConfig struct {
	FanOut int
}

type CacheConfig struct {
	Path string
}

type LogConfig struct {
	Level  string
	Format string
}

// Dir is the per-user opus directory, ~/.opus.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".opus"
	}
	return filepath.Join(home, ".opus")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:3000/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.rate_limit", 10.0)
	v.SetDefault("api.rate_burst", 5)
	v.SetDefault("loader.fan_out", 8)
	v.SetDefault("company", "cp00909ucQ")
	v.SetDefault("cache.path", filepath.Join(Dir(), "opus.db"))
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// Load reads the configuration. file overrides the search for opus.yaml in
// ~/.opus and the working directory. A missing config file is not an error.
func Load(file string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("opus")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("OPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the bare API_KEY used by the web proxy is honoured too
	if err := v.BindEnv("api.key", "OPUS_API_KEY", "API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		API: APIConfig{
			BaseURL:    strings.TrimSpace(v.GetString("api.base_url")),
			Key:        strings.TrimSpace(v.GetString("api.key")),
			Timeout:    v.GetDuration("api.timeout"),
			MaxRetries: v.GetInt("api.max_retries"),
			RateLimit:  v.GetFloat64("api.rate_limit"),
			RateBurst:  v.GetInt("api.rate_burst"),
		},
		Loader:  LoaderConfig{FanOut: v.GetInt("loader.fan_out")},
		Company: strings.TrimSpace(v.GetString("company")),
		Cache:   CacheConfig{Path: expandHome(v.GetString("cache.path"))},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		File: v.ConfigFileUsed(),
	}
	return cfg, nil
}

// RequireRemote checks the settings needed to talk to the API.
func (c Config) RequireRemote() error {
	if c.API.Key == "" {
		return ErrMissingAPIKey
	}
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	return nil
}

// MaskedKey shows the first and last three characters of the API key.
func (c APIConfig) MaskedKey() string {
	if len(c.Key) <= 6 {
		return strings.Repeat("*", len(c.Key))
	}
	return c.Key[:3] + "..." + c.Key[len(c.Key)-3:]
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
