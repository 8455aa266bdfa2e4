package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/paceprofile"
	"runcoach/internal/snapshot"
	"runcoach/internal/store"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, paceUnit string) (*TrainingService, *store.DB) {
	t.Helper()

	db := store.NewTestDB(t)
	resolver := paceprofile.NewResolver(paceprofile.DefaultSettings(), nil, nil)
	m := snapshot.NewManager(snapshot.Deps{
		Activities: db,
		Sleep:      db,
		HeartRate:  db,
		Watermarks: db,
		Snapshots:  db,
		Builder:    snapshot.NewBuilder(resolver, analysis.DefaultZones(), snapshot.DefaultRecentLimit),
		Now:        func() time.Time { return testNow },
	})
	return NewTrainingService(m, paceUnit), db
}

func TestFitnessFromRace(t *testing.T) {
	svc, _ := newTestService(t, "min/km")

	report, err := svc.FitnessFromRace(analysis.Distance5K, 1200)
	if err != nil {
		t.Fatalf("FitnessFromRace error: %v", err)
	}

	if math.Abs(report.VDOT-49.8) > 0.2 {
		t.Errorf("VDOT = %.1f, want ~49.8", report.VDOT)
	}
	if report.SourceLabel != "5K in 20:00" {
		t.Errorf("SourceLabel = %q, want %q", report.SourceLabel, "5K in 20:00")
	}
	if report.VDOTLabel == "" {
		t.Error("VDOTLabel should not be empty")
	}

	if len(report.Paces) != 5 {
		t.Fatalf("len(Paces) = %d, want 5", len(report.Paces))
	}
	wantZones := []string{"Easy", "Marathon", "Threshold", "Interval", "Repetition"}
	for i, p := range report.Paces {
		if p.Zone != wantZones[i] {
			t.Errorf("Paces[%d].Zone = %q, want %q", i, p.Zone, wantZones[i])
		}
		if !strings.HasSuffix(p.Pace, "/km") {
			t.Errorf("Paces[%d].Pace = %q, want /km suffix", i, p.Pace)
		}
		// Each zone is faster than the one before it
		if i > 0 && p.Seconds >= report.Paces[i-1].Seconds {
			t.Errorf("%s (%d) should be faster than %s (%d)", p.Zone, p.Seconds, report.Paces[i-1].Zone, report.Paces[i-1].Seconds)
		}
	}
	if !strings.Contains(report.Paces[0].Pace, "-") {
		t.Errorf("Easy pace %q should be a range", report.Paces[0].Pace)
	}

	if len(report.Predictions) != 4 {
		t.Fatalf("len(Predictions) = %d, want 4", len(report.Predictions))
	}
	// The race itself predicts back to its own time
	if p := report.Predictions[0]; p.TargetLabel != "5K" || math.Abs(float64(p.Seconds)-1200) > 5 {
		t.Errorf("5K prediction = %s %ds, want ~1200s", p.TargetLabel, p.Seconds)
	}
	for i := 1; i < len(report.Predictions); i++ {
		if report.Predictions[i].Seconds <= report.Predictions[i-1].Seconds {
			t.Errorf("prediction %s should be slower than %s", report.Predictions[i].TargetLabel, report.Predictions[i-1].TargetLabel)
		}
	}
}

func TestFitnessFromRace_Invalid(t *testing.T) {
	svc, _ := newTestService(t, "")

	tests := []struct {
		name     string
		distance float64
		time     float64
	}{
		{"zero distance", 0, 1200},
		{"zero time", 5000, 0},
		{"negative time", 5000, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.FitnessFromRace(tt.distance, tt.time)
			if !errors.Is(err, ErrInvalidPerformance) {
				t.Errorf("error = %v, want ErrInvalidPerformance", err)
			}
		})
	}
}

func TestFitnessFromVDOT_Miles(t *testing.T) {
	km, _ := newTestService(t, "min/km")
	mi, _ := newTestService(t, "min/mi")

	perKm := km.FitnessFromVDOT(50)
	perMile := mi.FitnessFromVDOT(50)

	for i := range perMile.Paces {
		if !strings.HasSuffix(perMile.Paces[i].Pace, "/mi") {
			t.Errorf("Paces[%d].Pace = %q, want /mi suffix", i, perMile.Paces[i].Pace)
		}
		// Seconds stay per km regardless of the display unit
		if perMile.Paces[i].Seconds != perKm.Paces[i].Seconds {
			t.Errorf("Paces[%d].Seconds = %d, want %d", i, perMile.Paces[i].Seconds, perKm.Paces[i].Seconds)
		}
	}

	threshold := perKm.Raw.Threshold
	want := formatPace(paceForUnit(float64(threshold), "min/mi")) + "/mi"
	if perMile.Paces[2].Pace != want {
		t.Errorf("Threshold = %q, want %q", perMile.Paces[2].Pace, want)
	}
}

func TestSnapshot(t *testing.T) {
	svc, db := newTestService(t, "min/km")
	ctx := context.Background()

	run := store.Activity{
		ID:              1,
		UserID:          1,
		Name:            "Morning Run",
		Type:            "Run",
		StartTime:       testNow.AddDate(0, 0, -2),
		DistanceMeters:  10000,
		DurationSeconds: 3000,
	}
	if err := db.UpsertActivity(ctx, &run); err != nil {
		t.Fatalf("UpsertActivity error: %v", err)
	}

	weeks := DefaultSnapshotWeeks
	view, err := svc.Snapshot(ctx, 1, &weeks, false)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	if !view.GeneratedAt.Equal(testNow) {
		t.Errorf("GeneratedAt = %v, want %v", view.GeneratedAt, testNow)
	}
	if view.SourceLastSyncAt != nil {
		t.Errorf("SourceLastSyncAt = %v, want nil", view.SourceLastSyncAt)
	}
	if view.Payload.Window.Days != 42 {
		t.Errorf("Window.Days = %d, want 42", view.Payload.Window.Days)
	}
	if view.Payload.Volume.ActivityCount != 1 {
		t.Errorf("ActivityCount = %d, want 1", view.Payload.Volume.ActivityCount)
	}
	if view.Payload.Volume.TotalDistanceKm != 10 {
		t.Errorf("TotalDistanceKm = %v, want 10", view.Payload.Volume.TotalDistanceKm)
	}

	all, err := svc.Snapshots(ctx, 1, false)
	if err != nil {
		t.Fatalf("Snapshots error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(Snapshots) = %d, want 3", len(all))
	}
	for period, p := range all {
		if p.Volume.ActivityCount != 1 {
			t.Errorf("%s ActivityCount = %d, want 1", period, p.Volume.ActivityCount)
		}
	}
}

func TestSnapshot_InvalidWeeks(t *testing.T) {
	svc, _ := newTestService(t, "min/km")

	weeks := -1
	if _, err := svc.Snapshot(context.Background(), 1, &weeks, false); !errors.Is(err, snapshot.ErrInvalidWindow) {
		t.Errorf("error = %v, want ErrInvalidWindow", err)
	}
}
