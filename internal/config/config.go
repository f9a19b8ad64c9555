// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBackendURL is used when neither the config file nor the environment
// names a backend.
const DefaultBackendURL = "http://localhost:8000"

// Config is the resolved client configuration.
type Config struct {
	BackendURL  string        `mapstructure:"backend_url"`
	APIPrefix   string        `mapstructure:"api_prefix"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MetricsFile string        `mapstructure:"metrics_file"`
	UseBrowser  bool          `mapstructure:"use_browser"`

	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
}

// LogConfig selects the zap logger level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// StorageConfig selects where the session is persisted.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"` // file, memory, redis, postgres
	Path        string `mapstructure:"path"`
	RedisURL    string `mapstructure:"redis_url"`
	DatabaseURL string `mapstructure:"database_url"`
	Prefix      string `mapstructure:"prefix"`
}

// APIBaseURL joins the backend URL and the API prefix.
func (c *Config) APIBaseURL() string {
	return strings.TrimRight(c.BackendURL, "/") + c.APIPrefix
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend_url", DefaultBackendURL)
	v.SetDefault("api_prefix", "/api")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("metrics_file", "")
	v.SetDefault("use_browser", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.redis_url", "redis://localhost:6379/0")
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.prefix", "careeriq:")
}

// Load resolves configuration from defaults, an optional YAML file and the
// environment. Environment variables use the CAREERIQ_ prefix with dots
// replaced by underscores (CAREERIQ_STORAGE_DRIVER). BACKEND_URL is honored
// unprefixed for compatibility with the web frontend.
// An empty path searches for config.yaml in the working directory and the
// careeriq user config directory; a missing file is not an error unless path was given.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CAREERIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(dir + "/careeriq")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if backend := os.Getenv("BACKEND_URL"); backend != "" && os.Getenv("CAREERIQ_BACKEND_URL") == "" {
		cfg.BackendURL = backend
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config error: 'backend_url' must be an absolute URL, got %q", c.BackendURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config error: 'backend_url' scheme must be http or https, got %q", u.Scheme)
	}

	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("config error: 'api_prefix' must start with '/'")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("config error: 'timeout' must be positive")
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config error: 'log.format' must be console or json, got %q", c.Log.Format)
	}

	switch c.Storage.Driver {
	case "file", "memory":
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("config error: 'storage.redis_url' is required for the redis driver")
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("config error: 'storage.database_url' is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config error: unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}
