package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/snapshot"
	"runcoach/internal/store"
)

// TrainingService answers fitness and training-load questions for the CLI
type TrainingService struct {
	snapshots *snapshot.Manager
	paceUnit  string // "min/km" or "min/mi"
}

// NewTrainingService creates a new training service
func NewTrainingService(snapshots *snapshot.Manager, paceUnit string) *TrainingService {
	if paceUnit == "" {
		paceUnit = "min/km"
	}
	return &TrainingService{snapshots: snapshots, paceUnit: paceUnit}
}

// PaceDisplay is one training pace zone formatted for display
type PaceDisplay struct {
	Zone    string // "Easy", "Marathon", ...
	Pace    string // "4:05/km" or "6:10-6:45/km" for ranges
	Seconds int    // seconds per km, fastest end of the zone
}

// PredictionDisplay represents a formatted race equivalent for display
type PredictionDisplay struct {
	TargetLabel   string // "5K", "10K", "Half Marathon", "Marathon"
	DistanceKm    float64
	PredictedTime string // formatted duration "M:SS" or "H:MM:SS"
	PredictedPace string // formatted pace "M:SS/km"
	Seconds       int
}

// FitnessReport contains everything derived from one race result
type FitnessReport struct {
	VDOT        float64
	VDOTLabel   string // "Advanced Recreational", "Competitive", etc.
	SourceLabel string // "10K in 45:00"
	Paces       []PaceDisplay
	Predictions []PredictionDisplay
	Raw         analysis.TrainingPaces
}

// FitnessFromRace estimates VDOT from a race and derives paces and equivalents
func (s *TrainingService) FitnessFromRace(distanceMeters, timeSeconds float64) (*FitnessReport, error) {
	if distanceMeters <= 0 || timeSeconds <= 0 {
		return nil, fmt.Errorf("%w: distance and time must be positive", ErrInvalidPerformance)
	}

	vdot := analysis.EstimateVDOT(distanceMeters, timeSeconds)
	report := s.FitnessFromVDOT(vdot)
	report.SourceLabel = fmt.Sprintf("%s in %s", formatDistance(distanceMeters), formatDuration(int(math.Round(timeSeconds))))
	return report, nil
}

// FitnessFromVDOT derives paces and race equivalents for a known VDOT
func (s *TrainingService) FitnessFromVDOT(vdot float64) *FitnessReport {
	paces := analysis.DerivePaces(vdot)
	unit := paceLabel(s.paceUnit)

	report := &FitnessReport{
		VDOT:      math.Round(vdot*10) / 10,
		VDOTLabel: analysis.VDOTLabel(vdot),
		Raw:       paces,
		Paces: []PaceDisplay{
			{
				Zone:    "Easy",
				Pace:    s.pace(paces.EasyMin) + "-" + s.pace(paces.EasyMax) + unit,
				Seconds: paces.EasyMin,
			},
			{Zone: "Marathon", Pace: s.pace(paces.Marathon) + unit, Seconds: paces.Marathon},
			{Zone: "Threshold", Pace: s.pace(paces.Threshold) + unit, Seconds: paces.Threshold},
			{Zone: "Interval", Pace: s.pace(paces.Interval) + unit, Seconds: paces.Interval},
			{Zone: "Repetition", Pace: s.pace(paces.Repetition) + unit, Seconds: paces.Repetition},
		},
	}

	for _, eq := range analysis.DeriveRaceEquivalents(vdot) {
		perKm := float64(eq.TimeSeconds) / eq.DistanceKm
		report.Predictions = append(report.Predictions, PredictionDisplay{
			TargetLabel:   eq.Name,
			DistanceKm:    eq.DistanceKm,
			PredictedTime: formatDuration(eq.TimeSeconds),
			PredictedPace: formatPace(paceForUnit(perKm, s.paceUnit)) + unit,
			Seconds:       eq.TimeSeconds,
		})
	}

	return report
}

func (s *TrainingService) pace(secondsPerKm int) string {
	return formatPace(paceForUnit(float64(secondsPerKm), s.paceUnit))
}

// SnapshotView is a cached snapshot with its decoded payload
type SnapshotView struct {
	GeneratedAt      time.Time
	SourceLastSyncAt *time.Time
	Payload          *snapshot.Payload
}

// Snapshot returns the training snapshot for the trailing weeks, or all time when weeks is nil
func (s *TrainingService) Snapshot(ctx context.Context, userID int64, weeks *int, force bool) (*SnapshotView, error) {
	snap, err := s.snapshots.EnsureSnapshot(ctx, userID, force, weeks)
	if err != nil {
		return nil, err
	}
	return newSnapshotView(snap)
}

// Snapshots returns the 6 week, 12 week and all-time payloads. Partial
// results are returned alongside the error when some periods fail.
func (s *TrainingService) Snapshots(ctx context.Context, userID int64, force bool) (map[string]*snapshot.Payload, error) {
	return s.snapshots.MultiPeriod(ctx, userID, force)
}

func newSnapshotView(snap *store.Snapshot) (*SnapshotView, error) {
	payload, err := snapshot.DecodePayload(snap.SchemaVersion, snap.Payload)
	if err != nil {
		return nil, err
	}
	return &SnapshotView{
		GeneratedAt:      snap.GeneratedAt,
		SourceLastSyncAt: snap.SourceLastSyncAt,
		Payload:          payload,
	}, nil
}

// formatDistance names standard race distances and falls back to km
func formatDistance(meters float64) string {
	for _, target := range analysis.RaceTargets {
		if analysis.MatchesDistance(meters, target.DistanceMeters) {
			return target.Name
		}
	}
	if analysis.MatchesDistance(meters, analysis.Distance1Mile) {
		return "Mile"
	}
	return fmt.Sprintf("%.2f km", meters/MetersPerKm)
}
