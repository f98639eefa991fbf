// Package config provides the clockface application configuration and its
// YAML-based load/save behavior, including first-run config creation.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WeatherConfig holds the OpenWeatherMap query parameters.
type WeatherConfig struct {
	// APIKey authenticates against OpenWeatherMap. If empty, the
	// OPEN_WEATHER_MAP_API_KEY environment variable is used.
	APIKey string `yaml:"api_key" json:"api_key"`
	// Latitude and Longitude of the location to report.
	Latitude  float64 `yaml:"lat" json:"lat"`
	Longitude float64 `yaml:"lon" json:"lon"`
	// RefreshCron is a cron-style schedule for refetching the weather
	// (e.g. "@hourly").
	RefreshCron string `yaml:"refresh" json:"refresh"`
}

// DisplayConfig holds the wiring of the LCD module.
type DisplayConfig struct {
	// SPI is the SPI port name for spireg.Open; empty selects the
	// platform default.
	SPI string `yaml:"spi" json:"spi"`
	// CSPin is the chip-select GPIO name (e.g. "GPIO13").
	CSPin string `yaml:"cs_pin" json:"cs_pin"`
	// ResetPin is the reset GPIO name; empty if the module's reset line
	// is tied high.
	ResetPin string `yaml:"reset_pin" json:"reset_pin"`
}

// FontConfig holds the TrueType fonts the clockface renders with.
type FontConfig struct {
	Regular string `yaml:"regular" json:"regular"`
	Bold    string `yaml:"bold" json:"bold"`
}

// Config is the top-level application configuration.
type Config struct {
	Display DisplayConfig `yaml:"display" json:"display"`
	Weather WeatherConfig `yaml:"weather" json:"weather"`
	Fonts   FontConfig    `yaml:"fonts" json:"fonts"`
}

// DefaultConfig returns an in-memory default configuration matching the
// reference wiring of the clockface build.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			SPI:      "",
			CSPin:    "GPIO13",
			ResetPin: "GPIO26",
		},
		Weather: WeatherConfig{
			RefreshCron: "@hourly",
		},
		Fonts: FontConfig{
			Regular: "./fonts/JetBrainsMono-Regular.ttf",
			Bold:    "./fonts/JetBrainsMono-Bold.ttf",
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Display.CSPin == "" {
		c.Display.CSPin = def.Display.CSPin
	}
	if c.Weather.RefreshCron == "" {
		c.Weather.RefreshCron = def.Weather.RefreshCron
	}
	if c.Weather.APIKey == "" {
		c.Weather.APIKey = os.Getenv("OPEN_WEATHER_MAP_API_KEY")
	}
	if c.Fonts.Regular == "" {
		c.Fonts.Regular = def.Fonts.Regular
	}
	if c.Fonts.Bold == "" {
		c.Fonts.Bold = def.Fonts.Bold
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (creating
// the parent directory if needed) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			cfg.Normalize()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions, since it may contain the API key.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".clockface-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
