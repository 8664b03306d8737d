package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported router backends
const (
	ModelTPLink = "tplink"
	ModelUniFi  = "unifi"
)

var ErrMissingPassword = errors.New("router password is not set (router.password or ROUTER_PASSWORD)")

type Config struct {
	Router RouterConfig `mapstructure:"router"`
	Output OutputConfig `mapstructure:"output"`
}

type RouterConfig struct {
	Model     string `mapstructure:"model"`
	URL       string `mapstructure:"url"`
	Username  string `mapstructure:"username"` // UniFi only
	Password  string `mapstructure:"password"`
	SiteID    string `mapstructure:"site_id"` // UniFi only
	VerifySSL bool   `mapstructure:"verify_ssl"`
	Timeout   int    `mapstructure:"timeout"` // seconds
}

type OutputConfig struct {
	JSONPath string `mapstructure:"json_path"`
	Color    bool   `mapstructure:"color"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults
	v.SetDefault("router.model", ModelTPLink)
	v.SetDefault("router.url", "http://192.168.0.1")
	v.SetDefault("router.username", "admin")
	v.SetDefault("router.password", "")
	v.SetDefault("router.site_id", "default")
	v.SetDefault("router.verify_ssl", false)
	v.SetDefault("router.timeout", 30)
	v.SetDefault("output.json_path", "")
	v.SetDefault("output.color", true)

	// router.password is read from ROUTER_PASSWORD and so on
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load builds the configuration from defaults, the optional YAML file at
// configPath and the environment. Variables from envFiles are added to the
// environment first; missing env files are ignored.
func Load(configPath string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Router.Model = strings.ToLower(strings.TrimSpace(cfg.Router.Model))

	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Router: RouterConfig{
			Model:    ModelTPLink,
			URL:      "http://192.168.0.1",
			Username: "admin",
			SiteID:   "default",
			Timeout:  30,
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}

func SaveConfig(configPath string, cfg *Config) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("router.model", cfg.Router.Model)
	v.Set("router.url", cfg.Router.URL)
	v.Set("router.username", cfg.Router.Username)
	v.Set("router.password", cfg.Router.Password)
	v.Set("router.site_id", cfg.Router.SiteID)
	v.Set("router.verify_ssl", cfg.Router.VerifySSL)
	v.Set("router.timeout", cfg.Router.Timeout)

	v.Set("output.json_path", cfg.Output.JSONPath)
	v.Set("output.color", cfg.Output.Color)

	return v.WriteConfigAs(configPath)
}

// Validate checks that a report can be attempted with this configuration.
func (c *Config) Validate() error {
	switch c.Router.Model {
	case ModelTPLink, ModelUniFi:
	default:
		return fmt.Errorf("unknown router model %q (want %s or %s)", c.Router.Model, ModelTPLink, ModelUniFi)
	}
	if c.Router.URL == "" {
		return errors.New("router url is not set")
	}
	if c.Router.Password == "" {
		return ErrMissingPassword
	}
	if c.Router.Model == ModelUniFi && c.Router.Username == "" {
		return errors.New("router username is required for unifi")
	}
	return nil
}

// TimeoutDuration is the HTTP timeout as a duration.
func (r RouterConfig) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}
