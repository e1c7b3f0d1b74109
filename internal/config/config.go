package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

// Config holds application configuration
type Config struct {
	// Column width used when rendering listings
	// Default: 80
	OutputWidth int

	// Path of the offline scrobble queue database
	// Default: <config dir>/queue.db
	QueuePath string

	// Last.fm API settings
	LastFM LastFMConfig
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	APIKey         string
	APISecret      string
	SessionKey     string
	BaseURL        string
	CacheKeying    string
	MaxRetries     int
	TimeoutSeconds int
}

// Load reads configuration from file and environment.
// SCROBBLER_LASTFM_API_KEY overrides lastfm.api_key, and so on.
func Load() (*Config, error) {
	return load(getConfigDir())
}

func load(configDir string) (*Config, error) {
	v := newViper(configDir)

	// The config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return fromViper(v), nil
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetDefault("output_width", 80)
	v.SetDefault("queue_path", filepath.Join(configDir, "queue.db"))
	v.SetDefault("lastfm.base_url", lastfm.DefaultBaseURL)
	v.SetDefault("lastfm.cache_keying", lastfm.CacheKeyByArguments.String())
	v.SetDefault("lastfm.max_retries", 3)
	v.SetDefault("lastfm.timeout_seconds", 30)

	v.SetEnvPrefix("SCROBBLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		OutputWidth: v.GetInt("output_width"),
		QueuePath:   v.GetString("queue_path"),
		LastFM: LastFMConfig{
			APIKey:         v.GetString("lastfm.api_key"),
			APISecret:      v.GetString("lastfm.api_secret"),
			SessionKey:     v.GetString("lastfm.session_key"),
			BaseURL:        v.GetString("lastfm.base_url"),
			CacheKeying:    v.GetString("lastfm.cache_keying"),
			MaxRetries:     v.GetInt("lastfm.max_retries"),
			TimeoutSeconds: v.GetInt("lastfm.timeout_seconds"),
		},
	}
}

// ClientConfig converts the Last.fm settings into a lastfm.Config.
func (c *Config) ClientConfig(logger lastfm.Logger) (lastfm.Config, error) {
	keying, err := lastfm.ParseCacheKeying(c.LastFM.CacheKeying)
	if err != nil {
		return lastfm.Config{}, err
	}

	cfg := lastfm.Config{
		APIKey:      c.LastFM.APIKey,
		APISecret:   c.LastFM.APISecret,
		SessionKey:  c.LastFM.SessionKey,
		BaseURL:     c.LastFM.BaseURL,
		Logger:      logger,
		MaxRetries:  c.LastFM.MaxRetries,
		CacheKeying: keying,
	}
	if c.LastFM.TimeoutSeconds > 0 {
		cfg.HTTPClient = &http.Client{Timeout: time.Duration(c.LastFM.TimeoutSeconds) * time.Second}
	}
	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "scrobbler")
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	return c.saveTo(getConfigDir())
}

func (c *Config) saveTo(configDir string) error {
	v := viper.New()

	v.Set("output_width", c.OutputWidth)
	v.Set("queue_path", c.QueuePath)
	v.Set("lastfm.api_key", c.LastFM.APIKey)
	v.Set("lastfm.api_secret", c.LastFM.APISecret)
	v.Set("lastfm.session_key", c.LastFM.SessionKey)
	v.Set("lastfm.base_url", c.LastFM.BaseURL)
	v.Set("lastfm.cache_keying", c.LastFM.CacheKeying)
	v.Set("lastfm.max_retries", c.LastFM.MaxRetries)
	v.Set("lastfm.timeout_seconds", c.LastFM.TimeoutSeconds)

	return v.WriteConfigAs(filepath.Join(configDir, "config.yaml"))
}
