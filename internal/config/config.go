package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. RUNCOACH_ATHLETE_MAX_HR
const EnvPrefix = "RUNCOACH"

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Athlete     AthleteConfig     `mapstructure:"athlete"`
	Display     DisplayConfig     `mapstructure:"display"`
	PaceProfile PaceProfileConfig `mapstructure:"pace_profile"`
	Snapshot    SnapshotConfig    `mapstructure:"snapshot"`
	Provider    ProviderConfig    `mapstructure:"provider"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// DatabaseConfig holds the SQLite location. Empty means ~/.runcoach/data.db.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	RestingHR float64 `mapstructure:"resting_hr"`
	MaxHR     float64 `mapstructure:"max_hr"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `mapstructure:"distance_unit"`
	PaceUnit     string `mapstructure:"pace_unit"`
}

// PaceProfileConfig tunes the pace cutoff resolver. Cutoffs and gap are seconds per km.
type PaceProfileConfig struct {
	IntervalCutoff     float64 `mapstructure:"interval_cutoff"`
	TempoCutoff        float64 `mapstructure:"tempo_cutoff"`
	MinSamples         int     `mapstructure:"min_samples"`
	IntervalPercentile float64 `mapstructure:"interval_percentile"`
	TempoPercentile    float64 `mapstructure:"tempo_percentile"`
	MinGap             float64 `mapstructure:"min_gap"`
}

// SnapshotConfig holds training snapshot settings
type SnapshotConfig struct {
	RecoveryDays int    `mapstructure:"recovery_days"`
	RecentLimit  int    `mapstructure:"recent_limit"`
	AllTimeStart string `mapstructure:"all_time_start"` // YYYY-MM-DD
}

// ProviderConfig holds the external pace provider credentials
type ProviderConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	BaseURL      string        `mapstructure:"base_url"`
	TokenURL     string        `mapstructure:"token_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinInterval  time.Duration `mapstructure:"min_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			RestingHR: 50,
			MaxHR:     185,
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
			PaceUnit:     "min/km",
		},
		PaceProfile: PaceProfileConfig{
			IntervalCutoff:     270, // 4:30/km
			TempoCutoff:        300, // 5:00/km
			MinSamples:         5,
			IntervalPercentile: 20,
			TempoPercentile:    60,
			MinGap:             10,
		},
		Snapshot: SnapshotConfig{
			RecoveryDays: 7,
			RecentLimit:  10,
			AllTimeStart: "2000-01-01",
		},
		Provider: ProviderConfig{
			Timeout:     10 * time.Second,
			MinInterval: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration file at path (default ~/.runcoach/config.yaml),
// applies defaults for missing values and RUNCOACH_* environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = getConfigPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrNoConfig
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return decode(v)
}

// FromEnv returns the defaults with RUNCOACH_* environment overrides applied.
// Used when no config file exists.
func FromEnv() (*Config, error) {
	return decode(newViper())
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := newViper()
	v.Set("provider.client_id", "YOUR_CLIENT_ID")
	v.Set("provider.client_secret", "YOUR_CLIENT_SECRET")

	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}

	// Heart rate reserve feeds TRIMP, so it must be positive
	if c.Athlete.RestingHR < 0 || c.Athlete.MaxHR < 0 {
		return fmt.Errorf("athlete heart rates must not be negative, got resting_hr %v max_hr %v", c.Athlete.RestingHR, c.Athlete.MaxHR)
	}
	if c.Athlete.RestingHR > 0 && c.Athlete.MaxHR > 0 && c.Athlete.RestingHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.resting_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.RestingHR, c.Athlete.MaxHR)
	}

	pp := c.PaceProfile
	if pp.IntervalCutoff <= 0 || pp.TempoCutoff <= pp.IntervalCutoff {
		return fmt.Errorf("pace_profile.interval_cutoff (%v) must be positive and faster than tempo_cutoff (%v)", pp.IntervalCutoff, pp.TempoCutoff)
	}
	if pp.MinSamples < 1 {
		return errors.New("pace_profile.min_samples must be at least 1")
	}
	if pp.IntervalPercentile <= 0 || pp.TempoPercentile > 100 || pp.IntervalPercentile >= pp.TempoPercentile {
		return fmt.Errorf("pace_profile percentiles must satisfy 0 < interval (%v) < tempo (%v) <= 100", pp.IntervalPercentile, pp.TempoPercentile)
	}
	if pp.MinGap < 0 {
		return errors.New("pace_profile.min_gap must not be negative")
	}

	if c.Snapshot.RecoveryDays < 1 {
		return errors.New("snapshot.recovery_days must be at least 1")
	}
	if c.Snapshot.RecentLimit < 0 {
		return errors.New("snapshot.recent_limit must not be negative")
	}
	if _, err := c.Snapshot.AllTimeStartDate(); err != nil {
		return fmt.Errorf("snapshot.all_time_start must be YYYY-MM-DD: %w", err)
	}

	if c.Provider.Enabled {
		if c.Provider.BaseURL == "" {
			return errors.New("provider.base_url is required when the provider is enabled")
		}
		if c.Provider.ClientID == "" || c.Provider.ClientID == "YOUR_CLIENT_ID" {
			return errors.New("provider.client_id is required when the provider is enabled")
		}
		if c.Provider.ClientSecret == "" || c.Provider.ClientSecret == "YOUR_CLIENT_SECRET" {
			return errors.New("provider.client_secret is required when the provider is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return errors.New("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return errors.New("logging.format must be one of: json, text")
	}

	return nil
}

// AllTimeStartDate parses the earliest date of the all-time snapshot window
func (s SnapshotConfig) AllTimeStartDate() (time.Time, error) {
	return time.Parse(time.DateOnly, s.AllTimeStart)
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".runcoach"), nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// setDefaults registers every key so environment overrides apply even without a file
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("athlete.resting_hr", d.Athlete.RestingHR)
	v.SetDefault("athlete.max_hr", d.Athlete.MaxHR)

	v.SetDefault("display.distance_unit", d.Display.DistanceUnit)
	v.SetDefault("display.pace_unit", d.Display.PaceUnit)

	v.SetDefault("pace_profile.interval_cutoff", d.PaceProfile.IntervalCutoff)
	v.SetDefault("pace_profile.tempo_cutoff", d.PaceProfile.TempoCutoff)
	v.SetDefault("pace_profile.min_samples", d.PaceProfile.MinSamples)
	v.SetDefault("pace_profile.interval_percentile", d.PaceProfile.IntervalPercentile)
	v.SetDefault("pace_profile.tempo_percentile", d.PaceProfile.TempoPercentile)
	v.SetDefault("pace_profile.min_gap", d.PaceProfile.MinGap)

	v.SetDefault("snapshot.recovery_days", d.Snapshot.RecoveryDays)
	v.SetDefault("snapshot.recent_limit", d.Snapshot.RecentLimit)
	v.SetDefault("snapshot.all_time_start", d.Snapshot.AllTimeStart)

	v.SetDefault("provider.enabled", d.Provider.Enabled)
	v.SetDefault("provider.base_url", d.Provider.BaseURL)
	v.SetDefault("provider.token_url", d.Provider.TokenURL)
	v.SetDefault("provider.client_id", d.Provider.ClientID)
	v.SetDefault("provider.client_secret", d.Provider.ClientSecret)
	v.SetDefault("provider.timeout", d.Provider.Timeout)
	v.SetDefault("provider.min_interval", d.Provider.MinInterval)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
