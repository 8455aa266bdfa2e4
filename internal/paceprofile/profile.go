// Package paceprofile decides the interval and tempo pace cutoffs used to
// classify training intensity. Cutoffs come from the first tier that can
// produce them: an external pace provider, percentiles of the athlete's own
// recent paces, or fixed defaults.
package paceprofile

import (
	"context"
)

// Source records which tier produced a profile
type Source string

const (
	SourceExternalProvider   Source = "external_provider"
	SourceActivityPercentile Source = "activity_percentile"
	SourceHeuristic          Source = "heuristic"
)

// Profile holds pace cutoffs in seconds per km. Paces at or below
// IntervalCutoff are interval work, paces at or below TempoCutoff are tempo,
// anything slower is easy.
type Profile struct {
	IntervalCutoff float64 `json:"interval_cutoff"`
	TempoCutoff    float64 `json:"tempo_cutoff"`
	Source         Source  `json:"source"`
}

// Settings tunes the percentile and heuristic tiers
type Settings struct {
	IntervalCutoff     float64 // heuristic interval cutoff, s/km
	TempoCutoff        float64 // heuristic tempo cutoff, s/km
	MinSamples         int
	IntervalPercentile float64
	TempoPercentile    float64
	MinGap             float64 // minimum tempo minus interval, seconds
}

// DefaultSettings returns 4:30/km and 5:00/km heuristics, P20/P60 from at
// least 5 samples, and a 10 second gap.
func DefaultSettings() Settings {
	return Settings{
		IntervalCutoff:     270,
		TempoCutoff:        300,
		MinSamples:         5,
		IntervalPercentile: 20,
		TempoPercentile:    60,
		MinGap:             10,
	}
}

// Boundaries are named pace zone limits from an external provider, in seconds
// per km. Any field may be missing.
type Boundaries struct {
	EasyMin      *float64 `json:"easy_min"`
	MarathonMax  *float64 `json:"marathon_max"`
	ThresholdMax *float64 `json:"threshold_max"`
	IntervalMax  *float64 `json:"interval_max"`
}

// BoundaryProvider supplies pace boundaries for a user
type BoundaryProvider interface {
	PaceBoundaries(ctx context.Context, userID int64) (*Boundaries, error)
}

// Request is the input to a resolution
type Request struct {
	UserID int64
	Paces  []float64 // recent per-activity paces, s/km
}
