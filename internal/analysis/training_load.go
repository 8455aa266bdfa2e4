package analysis

import (
	"math"
	"sort"
	"time"
)

// HRZones represents athlete's heart rate zones
type HRZones struct {
	RestingHR float64
	MaxHR     float64
}

// DefaultZones returns sensible defaults if not configured
func DefaultZones() HRZones {
	return HRZones{
		RestingHR: 50,
		MaxHR:     185,
	}
}

// NewHRZones builds zones from configured values, falling back to defaults for zeros
func NewHRZones(restingHR, maxHR float64) HRZones {
	zones := DefaultZones()
	if restingHR > 0 {
		zones.RestingHR = restingHR
	}
	if maxHR > 0 {
		zones.MaxHR = maxHR
	}
	return zones
}

// TRIMP calculates Training Impulse (Banister model)
// TRIMP = duration (min) * ΔHR ratio * e^(b * ΔHR ratio)
// where b = 1.92 for men, 1.67 for women (using male default)
func TRIMP(durationSeconds, avgHR float64, zones HRZones) float64 {
	if durationSeconds <= 0 || avgHR <= 0 {
		return 0
	}

	// Heart rate reserve ratio
	hrReserve := zones.MaxHR - zones.RestingHR
	if hrReserve <= 0 {
		return 0
	}

	hrRatio := (avgHR - zones.RestingHR) / hrReserve
	if hrRatio < 0 {
		hrRatio = 0
	}
	if hrRatio > 1 {
		hrRatio = 1
	}

	b := 1.92

	return durationSeconds / 60 * hrRatio * math.Exp(b*hrRatio)
}

// DailyLoad represents training load for a single day
type DailyLoad struct {
	Date  time.Time
	TRIMP float64
}

// FitnessMetrics represents CTL/ATL/TSB for a day
type FitnessMetrics struct {
	Date time.Time
	CTL  float64 // Chronic Training Load (42-day EMA) - "Fitness"
	ATL  float64 // Acute Training Load (7-day EMA) - "Fatigue"
	TSB  float64 // Training Stress Balance (CTL - ATL) - "Form"
}

// CalculateFitnessTrend computes CTL/ATL/TSB from daily loads.
// The series runs from the first load through `through`, or through the
// last load when `through` is zero or earlier.
func CalculateFitnessTrend(dailyLoads []DailyLoad, through time.Time) []FitnessMetrics {
	if len(dailyLoads) == 0 {
		return nil
	}

	sort.Slice(dailyLoads, func(i, j int) bool {
		return dailyLoads[i].Date.Before(dailyLoads[j].Date)
	})

	// EMA decay constants
	ctlDecay := 2.0 / (42.0 + 1.0)
	atlDecay := 2.0 / (7.0 + 1.0)

	startDate := dailyLoads[0].Date.Truncate(24 * time.Hour)
	endDate := dailyLoads[len(dailyLoads)-1].Date.Truncate(24 * time.Hour)
	if t := through.Truncate(24 * time.Hour); t.After(endDate) {
		endDate = t
	}

	// Sum multiple activities on the same day
	loadMap := make(map[string]float64)
	for _, dl := range dailyLoads {
		loadMap[dl.Date.Format(time.DateOnly)] += dl.TRIMP
	}

	var metrics []FitnessMetrics
	var ctl, atl float64

	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		trimp := loadMap[d.Format(time.DateOnly)]

		ctl = ctl + ctlDecay*(trimp-ctl)
		atl = atl + atlDecay*(trimp-atl)

		metrics = append(metrics, FitnessMetrics{
			Date: d,
			CTL:  ctl,
			ATL:  atl,
			TSB:  ctl - atl,
		})
	}

	return metrics
}

// GetCurrentFitness returns the CTL/ATL/TSB values as of `through`
func GetCurrentFitness(dailyLoads []DailyLoad, through time.Time) FitnessMetrics {
	metrics := CalculateFitnessTrend(dailyLoads, through)
	if len(metrics) == 0 {
		return FitnessMetrics{}
	}
	return metrics[len(metrics)-1]
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh and ready to race"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Slightly fatigued"
	case tsb > -25:
		return "Tired but building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}
