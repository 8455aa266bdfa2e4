package render

import (
	"fmt"
	"math"

	"runcoach/internal/config"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
	kmPerMile     = metersPerMile / metersPerKm
)

// Units provides unit conversion and formatting based on user preferences.
// Snapshot payloads are always metric; conversion happens only here.
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in km to the user's preferred unit
func (u Units) FormatDistance(km float64) string {
	return fmt.Sprintf("%.1f %s", u.DistanceValue(km), u.DistanceLabel())
}

// DistanceValue converts km to the user's preferred unit
func (u Units) DistanceValue(km float64) float64 {
	if u.IsMiles() {
		return km / kmPerMile
	}
	return km
}

// FormatPace formats a seconds-per-km pace in the user's preferred unit
func (u Units) FormatPace(secondsPerKm *float64) string {
	if secondsPerKm == nil || *secondsPerKm <= 0 {
		return "-"
	}

	pace := *secondsPerKm
	if u.cfg.PaceUnit == "min/mi" {
		pace *= kmPerMile
	}

	total := int(math.Round(pace))
	return fmt.Sprintf("%d:%02d/%s", total/60, total%60, u.paceDistanceLabel())
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.IsMiles() {
		return "mi"
	}
	return "km"
}

func (u Units) paceDistanceLabel() string {
	if u.cfg.PaceUnit == "min/mi" {
		return "mi"
	}
	return "km"
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.cfg.DistanceUnit == "mi"
}
