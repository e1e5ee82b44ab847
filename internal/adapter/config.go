package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultAPIBaseURL is the production poster list endpoint.
const DefaultAPIBaseURL = "https://posterbridge.incandescentsolution.com/api/v1"

// ErrFatalConfig marks configuration problems the process cannot start
// with. main exits with a distinct status code on these so a supervisor
// can tell misconfiguration from a crash.
var ErrFatalConfig = errors.New("fatal configuration error")

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Display DisplayConfig `mapstructure:"display"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds remote API configuration
type APIConfig struct {
	Token          string `mapstructure:"token"`           // Static bearer token (required)
	BaseURL        string `mapstructure:"base_url"`        // Poster API base URL
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // Probe + request timeout
}

// DisplayConfig holds display behavior configuration
type DisplayConfig struct {
	DeviceID    string `mapstructure:"device_id"`    // Screen number as known to the API
	DisplayTime int    `mapstructure:"display_time"` // Seconds per poster in timed rotation
	Orientation string `mapstructure:"orientation"`  // "portrait" or "landscape"
	Width       int    `mapstructure:"width"`        // Target width in cells, 0 = detect
	Height      int    `mapstructure:"height"`       // Target height in cells, 0 = detect
}

// CacheConfig holds on-disk cache configuration
type CacheConfig struct {
	Dir                 string `mapstructure:"dir"`                   // Cache directory
	RefreshSeconds      int    `mapstructure:"refresh"`               // Refresh cycle interval
	EvictionGraceCycles int    `mapstructure:"eviction_grace_cycles"` // Cycles a poster may be absent before eviction
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Timeout returns the API/probe timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the refresh cadence as a duration.
func (c CacheConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultAPIBaseURL,
			TimeoutSeconds: 5,
		},
		Display: DisplayConfig{
			DeviceID:    "default_device",
			DisplayTime: 5,
			Orientation: "portrait",
		},
		Cache: CacheConfig{
			Dir:                 defaultCachePath(),
			RefreshSeconds:      60,
			EvictionGraceCycles: 0,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "eposter", "eposter.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "eposter", "eposter.log")
	}
}

// defaultCachePath returns the default poster cache directory
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "eposter", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "eposter_cache")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "eposter")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "eposter")
	}
}

// configKeys lists every settable key so AutomaticEnv can resolve
// env-only values (viper only consults env vars for known keys).
var configKeys = []string{
	"api.token", "api.base_url", "api.timeout_seconds",
	"display.device_id", "display.display_time", "display.orientation",
	"display.width", "display.height",
	"cache.dir", "cache.refresh", "cache.eviction_grace_cycles",
	"logging.file", "logging.level",
}

// LoadConfig loads configuration from file and environment. Environment
// variables (EPOSTER_API_TOKEN, EPOSTER_CACHE_REFRESH, ...) override
// file values, which override built-in defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")

	v.SetEnvPrefix("EPOSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("%w: binding %s: %v", ErrFatalConfig, key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%w: reading config file: %v", ErrFatalConfig, err)
		}
		// Config file not found is OK, use defaults + env
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config: %v", ErrFatalConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the startup-fatal invariants.
func (c *Config) Validate() error {
	if c.API.Token == "" {
		return fmt.Errorf("%w: api.token (EPOSTER_API_TOKEN) is required", ErrFatalConfig)
	}
	if c.Display.DisplayTime <= 0 {
		return fmt.Errorf("%w: display.display_time must be > 0, got %d", ErrFatalConfig, c.Display.DisplayTime)
	}
	if c.Cache.RefreshSeconds <= 0 {
		return fmt.Errorf("%w: cache.refresh must be > 0, got %d", ErrFatalConfig, c.Cache.RefreshSeconds)
	}
	if c.Cache.EvictionGraceCycles < 0 {
		return fmt.Errorf("%w: cache.eviction_grace_cycles must be >= 0, got %d", ErrFatalConfig, c.Cache.EvictionGraceCycles)
	}
	switch c.Display.Orientation {
	case "portrait", "landscape":
	default:
		return fmt.Errorf("%w: display.orientation must be portrait or landscape, got %q", ErrFatalConfig, c.Display.Orientation)
	}
	return nil
}
