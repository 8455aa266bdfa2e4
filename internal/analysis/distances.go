package analysis

import "math"

// Standard race distances in meters
const (
	Distance1500m    = 1500
	Distance1Mile    = 1609.34
	Distance5K       = 5000
	Distance10K      = 10000
	DistanceHalfMara = 21097.5
	DistanceMarathon = 42195

	DistanceTolerance = 0.05 // 5% tolerance for race distance matching
)

// MatchesDistance checks if a distance is within DistanceTolerance of a target
func MatchesDistance(distance, target float64) bool {
	return math.Abs(distance-target) <= target*DistanceTolerance
}
