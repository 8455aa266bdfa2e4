package analysis

import (
	"log/slog"
	"math"
)

// Daniels/Gilbert oxygen cost and drop-dead curve coefficients
const (
	vo2Intercept = -4.60
	vo2Linear    = 0.182258
	vo2Quadratic = 0.000104

	pctBase      = 0.8
	pctFastCoef  = 0.1894393
	pctFastDecay = -0.012778
	pctSlowCoef  = 0.2989558
	pctSlowDecay = -0.1932605
)

// Predictor search parameters
const (
	PredictTolerance     = 0.01 // VDOT units
	PredictMaxIterations = 50
)

// EstimateVDOT derives VDOT from a race result using Daniels' formula.
// distanceMeters and timeSeconds must both be positive; the result for
// zero or negative inputs is undefined and not clamped.
func EstimateVDOT(distanceMeters, timeSeconds float64) float64 {
	minutes := timeSeconds / 60
	velocity := distanceMeters / minutes // m/min

	return oxygenCost(velocity) / fractionOfMax(minutes)
}

// oxygenCost returns the VO2 (ml/kg/min) needed to run at velocity m/min
func oxygenCost(velocity float64) float64 {
	return vo2Intercept + vo2Linear*velocity + vo2Quadratic*velocity*velocity
}

// fractionOfMax returns the fraction of VO2max sustainable for a race lasting minutes
func fractionOfMax(minutes float64) float64 {
	return pctBase +
		pctFastCoef*math.Exp(pctFastDecay*minutes) +
		pctSlowCoef*math.Exp(pctSlowDecay*minutes)
}

// Prediction is the outcome of a race-time search
type Prediction struct {
	Seconds    float64
	Iterations int
	Converged  bool
}

// PredictTime predicts the race time in seconds for distanceMeters at the given VDOT.
//
// The result is numerically converged, not an exact inverse of EstimateVDOT;
// round trips are good to roughly 1%. If the search does not converge within
// PredictMaxIterations the last candidate is returned and a warning is logged.
// Returns 0 for non-positive vdot or distance.
func PredictTime(vdot, distanceMeters float64) float64 {
	p := PredictTimeDetailed(vdot, distanceMeters)
	if !p.Converged && p.Seconds > 0 {
		slog.Warn("race time prediction did not converge",
			"vdot", vdot,
			"distance_m", distanceMeters,
			"iterations", p.Iterations,
			"seconds", p.Seconds)
	}
	return p.Seconds
}

// PredictTimeDetailed runs the ratio-correction search and reports how it went
func PredictTimeDetailed(vdot, distanceMeters float64) Prediction {
	return predictTime(vdot, distanceMeters, PredictMaxIterations)
}

func predictTime(vdot, distanceMeters float64, maxIterations int) Prediction {
	if vdot <= 0 || distanceMeters <= 0 {
		return Prediction{}
	}

	// Start from the time it would take at 100% of VDOT
	seconds := distanceMeters / 1000 * FallbackPaceSeconds
	if v, ok := velocityForVO2(vdot); ok {
		seconds = distanceMeters / v * 60
	}

	for i := 1; i <= maxIterations; i++ {
		candidate := EstimateVDOT(distanceMeters, seconds)
		if math.Abs(candidate-vdot) < PredictTolerance {
			return Prediction{Seconds: seconds, Iterations: i, Converged: true}
		}
		seconds = seconds / (vdot / candidate)
	}

	return Prediction{Seconds: seconds, Iterations: maxIterations}
}

// VDOTLabel returns a human-readable fitness level for a VDOT value
func VDOTLabel(vdot float64) string {
	switch {
	case vdot >= 75:
		return "Elite"
	case vdot >= 65:
		return "Highly Competitive"
	case vdot >= 55:
		return "Competitive"
	case vdot >= 45:
		return "Advanced Recreational"
	case vdot >= 38:
		return "Intermediate"
	case vdot >= 30:
		return "Beginner"
	default:
		return "Novice"
	}
}
