// Package config resolves apicli settings from defaults, the settings file
// and the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	ModeDirect = "direct"
	ModeProxy  = "proxy"

	configFile = "config.toml"
	envPrefix  = "APICLI_"
)

// Config holds the resolved settings
type Config struct {
	DataDir    string
	Storage    string
	Mode       string
	ProxyURL   string
	ProxyToken string
	Timeout    time.Duration
	Debug      bool
}

// fileConfig mirrors config.toml, timeout is written as a duration string
type fileConfig struct {
	Storage    string `toml:"storage"`
	Mode       string `toml:"mode"`
	ProxyURL   string `toml:"proxy_url"`
	ProxyToken string `toml:"proxy_token"`
	Timeout    string `toml:"timeout"`
	Debug      *bool  `toml:"debug"`
}

// Default returns the built-in settings
func Default() Config {
	dataDir := ".apicli"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".apicli")
	}
	return Config{
		DataDir: dataDir,
		Storage: "sqlite",
		Mode:    ModeDirect,
		Timeout: 30 * time.Second,
	}
}

// Load resolves the configuration. A missing .env or config.toml is not an error.
func Load() (Config, error) {
	// .env only fills variables that are not already set
	_ = godotenv.Load()

	cfg := Default()
	if dir := os.Getenv(envPrefix + "DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	if err := cfg.loadFile(filepath.Join(cfg.DataDir, configFile)); err != nil {
		return cfg, err
	}
	if err := cfg.loadEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFile returns the defaults overlaid with config.toml in dataDir alone.
// Environment variables are not consulted, so saving the result never
// persists values that only came from the environment.
func LoadFile(dataDir string) (Config, error) {
	cfg := Default()
	cfg.DataDir = dataDir
	return cfg, cfg.loadFile(filepath.Join(dataDir, configFile))
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read %s", path)
	}

	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}

	if fc.Storage != "" {
		c.Storage = fc.Storage
	}
	if fc.Mode != "" {
		c.Mode = fc.Mode
	}
	if fc.ProxyURL != "" {
		c.ProxyURL = fc.ProxyURL
	}
	if fc.ProxyToken != "" {
		c.ProxyToken = fc.ProxyToken
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return errors.Wrapf(err, "invalid timeout %q in %s", fc.Timeout, path)
		}
		c.Timeout = d
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(envPrefix + "STORAGE"); v != "" {
		c.Storage = v
	}
	if v := os.Getenv(envPrefix + "MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv(envPrefix + "PROXY_URL"); v != "" {
		c.ProxyURL = v
	}
	if v := os.Getenv(envPrefix + "PROXY_TOKEN"); v != "" {
		c.ProxyToken = v
	}
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %sTIMEOUT %q", envPrefix, v)
		}
		c.Timeout = d
	}
	if v := os.Getenv(envPrefix + "DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %sDEBUG %q", envPrefix, v)
		}
		c.Debug = b
	}
	return nil
}

// Validate checks the resolved values
func (c Config) Validate() error {
	c.Mode = strings.ToLower(c.Mode)
	switch c.Mode {
	case ModeDirect:
	case ModeProxy:
		if c.ProxyURL == "" {
			return errors.New("proxy mode requires a proxy URL")
		}
	default:
		return errors.Errorf("unknown mode %q", c.Mode)
	}
	switch strings.ToLower(c.Storage) {
	case "sqlite", "json":
	default:
		return errors.Errorf("unknown storage backend %q", c.Storage)
	}
	// 0 disables the limit
	if c.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// UseProxy reports whether requests go through the proxy
func (c Config) UseProxy() bool {
	return strings.EqualFold(c.Mode, ModeProxy)
}

// Save writes the current settings to config.toml in the data directory
func (c Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return errors.Wrap(err, "create data directory")
	}
	fc := fileConfig{
		Storage:    c.Storage,
		Mode:       c.Mode,
		ProxyURL:   c.ProxyURL,
		ProxyToken: c.ProxyToken,
		Timeout:    c.Timeout.String(),
		Debug:      &c.Debug,
	}
	raw, err := toml.Marshal(fc)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	path := filepath.Join(c.DataDir, configFile)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
