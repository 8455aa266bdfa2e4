package service

import "runcoach/internal/analysis"

const (
	// Unit conversions
	MetersPerMile = 1609.34
	MetersPerKm   = 1000.0

	// Seconds per minute for pace calculations
	SecondsPerMinute = 60

	// Trailing window used by the snapshot command when --weeks is not given
	DefaultSnapshotWeeks = 6
)

// raceDistances maps the accepted race names to meters
var raceDistances = map[string]float64{
	"1500m":    analysis.Distance1500m,
	"mile":     analysis.Distance1Mile,
	"1mi":      analysis.Distance1Mile,
	"5k":       analysis.Distance5K,
	"10k":      analysis.Distance10K,
	"half":     analysis.DistanceHalfMara,
	"hm":       analysis.DistanceHalfMara,
	"marathon": analysis.DistanceMarathon,
	"full":     analysis.DistanceMarathon,
}
