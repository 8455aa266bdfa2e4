package paceprofile

import (
	"context"
	"log/slog"
	"math"
	"sort"
)

// Strategy attempts to produce a profile. It returns false to defer to the next tier.
type Strategy func(ctx context.Context, req Request) (Profile, bool)

// ExternalStrategy asks the provider for boundaries. Any failure defers to the next tier.
func ExternalStrategy(provider BoundaryProvider, logger *slog.Logger) Strategy {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, req Request) (Profile, bool) {
		b, err := provider.PaceBoundaries(ctx, req.UserID)
		if err != nil {
			logger.Warn("pace provider unavailable, falling back", "user_id", req.UserID, "error", err)
			return Profile{}, false
		}
		if b == nil {
			logger.Debug("pace provider returned no boundaries", "user_id", req.UserID)
			return Profile{}, false
		}

		tempo, okTempo := firstUsable(b.EasyMin, b.MarathonMax, b.ThresholdMax)
		interval, okInterval := firstUsable(b.IntervalMax, b.ThresholdMax, b.MarathonMax, b.EasyMin)
		if !okTempo || !okInterval {
			logger.Debug("pace provider boundaries unusable", "user_id", req.UserID)
			return Profile{}, false
		}

		return Profile{
			IntervalCutoff: interval,
			TempoCutoff:    tempo,
			Source:         SourceExternalProvider,
		}, true
	}
}

// PercentileStrategy derives cutoffs from the athlete's own paces when enough samples exist
func PercentileStrategy(settings Settings) Strategy {
	return func(_ context.Context, req Request) (Profile, bool) {
		samples := usablePaces(req.Paces)
		if len(samples) == 0 || len(samples) < settings.MinSamples {
			return Profile{}, false
		}

		sort.Float64s(samples)
		return Profile{
			IntervalCutoff: Percentile(samples, settings.IntervalPercentile),
			TempoCutoff:    Percentile(samples, settings.TempoPercentile),
			Source:         SourceActivityPercentile,
		}, true
	}
}

// HeuristicStrategy always succeeds with the configured fixed cutoffs
func HeuristicStrategy(settings Settings) Strategy {
	return func(context.Context, Request) (Profile, bool) {
		return Profile{
			IntervalCutoff: settings.IntervalCutoff,
			TempoCutoff:    settings.TempoCutoff,
			Source:         SourceHeuristic,
		}, true
	}
}

// Percentile returns the nearest-rank percentile p (0-100) of ascending sorted values.
// Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	rank := int(math.Ceil(p / 100 * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

func usablePaces(paces []float64) []float64 {
	out := make([]float64, 0, len(paces))
	for _, p := range paces {
		if isUsable(p) {
			out = append(out, p)
		}
	}
	return out
}

func firstUsable(values ...*float64) (float64, bool) {
	for _, v := range values {
		if v != nil && isUsable(*v) {
			return *v, true
		}
	}
	return 0, false
}

func isUsable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
