package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test athlete defaults
	if cfg.Athlete.RestingHR != 50 {
		t.Errorf("Athlete.RestingHR = %v, want 50", cfg.Athlete.RestingHR)
	}
	if cfg.Athlete.MaxHR != 185 {
		t.Errorf("Athlete.MaxHR = %v, want 185", cfg.Athlete.MaxHR)
	}

	// Test pace profile defaults
	if cfg.PaceProfile.IntervalCutoff != 270 || cfg.PaceProfile.TempoCutoff != 300 {
		t.Errorf("heuristic cutoffs = %v/%v, want 270/300", cfg.PaceProfile.IntervalCutoff, cfg.PaceProfile.TempoCutoff)
	}
	if cfg.PaceProfile.MinSamples != 5 {
		t.Errorf("PaceProfile.MinSamples = %d, want 5", cfg.PaceProfile.MinSamples)
	}
	if cfg.PaceProfile.MinGap != 10 {
		t.Errorf("PaceProfile.MinGap = %v, want 10", cfg.PaceProfile.MinGap)
	}

	start, err := cfg.Snapshot.AllTimeStartDate()
	if err != nil {
		t.Fatalf("AllTimeStartDate error: %v", err)
	}
	if !start.Equal(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("AllTimeStartDate = %v, want 2000-01-01", start)
	}

	// Provider is off by default
	if cfg.Provider.Enabled {
		t.Error("Provider.Enabled should be false by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		errContains string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name: "provider enabled with credentials",
			modify: func(c *Config) {
				c.Provider.Enabled = true
				c.Provider.BaseURL = "https://paces.example.com"
				c.Provider.ClientID = "12345"
				c.Provider.ClientSecret = "abc123secret"
			},
		},
		{
			name: "provider enabled without base url",
			modify: func(c *Config) {
				c.Provider.Enabled = true
				c.Provider.ClientID = "12345"
				c.Provider.ClientSecret = "abc123secret"
			},
			errContains: "base_url",
		},
		{
			name: "provider placeholder client ID",
			modify: func(c *Config) {
				c.Provider.Enabled = true
				c.Provider.BaseURL = "https://paces.example.com"
				c.Provider.ClientID = "YOUR_CLIENT_ID"
				c.Provider.ClientSecret = "abc123secret"
			},
			errContains: "client_id",
		},
		{
			name: "provider empty client secret",
			modify: func(c *Config) {
				c.Provider.Enabled = true
				c.Provider.BaseURL = "https://paces.example.com"
				c.Provider.ClientID = "12345"
			},
			errContains: "client_secret",
		},
		{
			name: "disabled provider ignores credentials",
			modify: func(c *Config) {
				c.Provider.ClientID = "YOUR_CLIENT_ID"
			},
		},
		{
			name:        "invalid distance unit",
			modify:      func(c *Config) { c.Display.DistanceUnit = "miles" },
			errContains: "distance_unit",
		},
		{
			name:        "invalid pace unit",
			modify:      func(c *Config) { c.Display.PaceUnit = "min/mile" },
			errContains: "pace_unit",
		},
		{
			name: "resting above max",
			modify: func(c *Config) {
				c.Athlete.RestingHR = 190
				c.Athlete.MaxHR = 185
			},
			errContains: "resting_hr",
		},
		{
			name:        "negative max hr",
			modify:      func(c *Config) { c.Athlete.MaxHR = -1 },
			errContains: "must not be negative",
		},
		{
			name: "zero heart rates fall back to defaults",
			modify: func(c *Config) {
				c.Athlete.RestingHR = 0
				c.Athlete.MaxHR = 0
			},
		},
		{
			name: "heuristic cutoffs inverted",
			modify: func(c *Config) {
				c.PaceProfile.IntervalCutoff = 300
				c.PaceProfile.TempoCutoff = 270
			},
			errContains: "interval_cutoff",
		},
		{
			name:        "zero min samples",
			modify:      func(c *Config) { c.PaceProfile.MinSamples = 0 },
			errContains: "min_samples",
		},
		{
			name: "percentiles inverted",
			modify: func(c *Config) {
				c.PaceProfile.IntervalPercentile = 60
				c.PaceProfile.TempoPercentile = 20
			},
			errContains: "percentiles",
		},
		{
			name:        "negative gap",
			modify:      func(c *Config) { c.PaceProfile.MinGap = -1 },
			errContains: "min_gap",
		},
		{
			name:        "zero recovery days",
			modify:      func(c *Config) { c.Snapshot.RecoveryDays = 0 },
			errContains: "recovery_days",
		},
		{
			name:        "bad all-time start",
			modify:      func(c *Config) { c.Snapshot.AllTimeStart = "01/01/2000" },
			errContains: "all_time_start",
		},
		{
			name:        "bad log level",
			modify:      func(c *Config) { c.Logging.Level = "trace" },
			errContains: "logging.level",
		},
		{
			name:        "bad log format",
			modify:      func(c *Config) { c.Logging.Format = "xml" },
			errContains: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
athlete:
  max_hr: 192
pace_profile:
  min_samples: 8
provider:
  timeout: 3s
logging:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Athlete.MaxHR != 192 {
		t.Errorf("Athlete.MaxHR = %v, want 192", cfg.Athlete.MaxHR)
	}
	// Missing values keep their defaults
	if cfg.Athlete.RestingHR != 50 {
		t.Errorf("Athlete.RestingHR = %v, want 50", cfg.Athlete.RestingHR)
	}
	if cfg.PaceProfile.MinSamples != 8 {
		t.Errorf("PaceProfile.MinSamples = %d, want 8", cfg.PaceProfile.MinSamples)
	}
	if cfg.PaceProfile.TempoPercentile != 60 {
		t.Errorf("PaceProfile.TempoPercentile = %v, want 60", cfg.PaceProfile.TempoPercentile)
	}
	if cfg.Provider.Timeout != 3*time.Second {
		t.Errorf("Provider.Timeout = %v, want 3s", cfg.Provider.Timeout)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrNoConfig) {
		t.Errorf("Load error = %v, want ErrNoConfig", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RUNCOACH_ATHLETE_MAX_HR", "178")
	t.Setenv("RUNCOACH_SNAPSHOT_RECOVERY_DAYS", "14")
	t.Setenv("RUNCOACH_LOGGING_LEVEL", "debug")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	if cfg.Athlete.MaxHR != 178 {
		t.Errorf("Athlete.MaxHR = %v, want 178", cfg.Athlete.MaxHR)
	}
	if cfg.Snapshot.RecoveryDays != 14 {
		t.Errorf("Snapshot.RecoveryDays = %d, want 14", cfg.Snapshot.RecoveryDays)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Display.DistanceUnit != "km" {
		t.Errorf("Display.DistanceUnit = %q, want km", cfg.Display.DistanceUnit)
	}
}
