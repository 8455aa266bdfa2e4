package analysis

import "math"

// FallbackPaceSeconds is returned for a zone whose velocity cannot be solved (10:00/km)
const FallbackPaceSeconds = 600

// Fraction of VDOT used for each training zone
const (
	EasySlowFraction   = 0.65
	EasyFastFraction   = 0.78
	MarathonFraction   = 0.84
	ThresholdFraction  = 0.92
	IntervalFraction   = 0.98
	RepetitionFraction = 1.02
)

// TrainingPaces holds zone paces in seconds per kilometer.
// Lower is faster: Repetition < Interval < Threshold < Marathon < EasyMin <= EasyMax.
type TrainingPaces struct {
	EasyMin    int `json:"easy_min"`
	EasyMax    int `json:"easy_max"`
	Marathon   int `json:"marathon"`
	Threshold  int `json:"threshold"`
	Interval   int `json:"interval"`
	Repetition int `json:"repetition"`
}

// DerivePaces computes training paces for a VDOT
func DerivePaces(vdot float64) TrainingPaces {
	return TrainingPaces{
		EasyMin:    paceAtFraction(vdot, EasyFastFraction),
		EasyMax:    paceAtFraction(vdot, EasySlowFraction),
		Marathon:   paceAtFraction(vdot, MarathonFraction),
		Threshold:  paceAtFraction(vdot, ThresholdFraction),
		Interval:   paceAtFraction(vdot, IntervalFraction),
		Repetition: paceAtFraction(vdot, RepetitionFraction),
	}
}

func paceAtFraction(vdot, fraction float64) int {
	v, ok := velocityForVO2(vdot * fraction)
	if !ok {
		return FallbackPaceSeconds
	}
	return int(math.Round(60000 / v))
}

// velocityForVO2 inverts the oxygen cost curve, returning m/min.
// ok is false when the quadratic has no positive root.
func velocityForVO2(vo2 float64) (float64, bool) {
	a := vo2Quadratic
	b := vo2Linear
	c := vo2Intercept - vo2

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}

	v := (-b + math.Sqrt(disc)) / (2 * a)
	if v <= 0 {
		return 0, false
	}
	return v, true
}

// RaceEquivalent is the predicted finish time at a reference distance
type RaceEquivalent struct {
	Name        string  `json:"distance_name"`
	DistanceKm  float64 `json:"distance_km"`
	TimeSeconds int     `json:"time_seconds"`
}

// RaceTarget is a reference distance for race equivalents
type RaceTarget struct {
	Name           string
	DistanceMeters float64
}

// RaceTargets defines the reference distances, shortest first
var RaceTargets = []RaceTarget{
	{"5K", Distance5K},
	{"10K", Distance10K},
	{"Half Marathon", DistanceHalfMara},
	{"Marathon", DistanceMarathon},
}

// DeriveRaceEquivalents predicts a finish time for every RaceTargets distance
func DeriveRaceEquivalents(vdot float64) []RaceEquivalent {
	equivalents := make([]RaceEquivalent, 0, len(RaceTargets))
	for _, target := range RaceTargets {
		seconds := PredictTime(vdot, target.DistanceMeters)
		equivalents = append(equivalents, RaceEquivalent{
			Name:        target.Name,
			DistanceKm:  target.DistanceMeters / 1000,
			TimeSeconds: int(math.Round(seconds)),
		})
	}
	return equivalents
}
