package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "clockface.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.CSPin != "GPIO13" {
		t.Errorf("CSPin = %q, want GPIO13", cfg.Display.CSPin)
	}
	if cfg.Weather.RefreshCron != "@hourly" {
		t.Errorf("RefreshCron = %q, want @hourly", cfg.Weather.RefreshCron)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}
}

func TestLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clockface.yaml")

	want := DefaultConfig()
	want.Display.CSPin = "GPIO5"
	want.Weather.APIKey = "secret"
	want.Weather.Latitude = 52.52
	want.Weather.Longitude = 13.405

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Display.CSPin != "GPIO5" {
		t.Errorf("CSPin = %q, want GPIO5", got.Display.CSPin)
	}
	if got.Weather.APIKey != "secret" {
		t.Errorf("APIKey = %q, want secret", got.Weather.APIKey)
	}
	if got.Weather.Latitude != 52.52 || got.Weather.Longitude != 13.405 {
		t.Errorf("coordinates = (%v, %v)", got.Weather.Latitude, got.Weather.Longitude)
	}
}

func TestNormalizeAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPEN_WEATHER_MAP_API_KEY", "from-env")

	cfg := &Config{}
	cfg.Normalize()
	if cfg.Weather.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", cfg.Weather.APIKey)
	}

	// An explicit key wins over the environment.
	cfg = &Config{Weather: WeatherConfig{APIKey: "explicit"}}
	cfg.Normalize()
	if cfg.Weather.APIKey != "explicit" {
		t.Errorf("APIKey = %q, want explicit", cfg.Weather.APIKey)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("Load should reject an empty path")
	}
}
