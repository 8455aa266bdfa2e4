package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"runcoach/internal/store"
)

// DefaultRecoveryDays is the trailing period averaged into the recovery block
const DefaultRecoveryDays = 7

// ErrInvalidWindow is returned for a non-positive number of weeks
var ErrInvalidWindow = errors.New("invalid snapshot window")

// ActivityRepository reads activities starting in [start, end)
type ActivityRepository interface {
	QueryActivities(ctx context.Context, userID int64, start, end time.Time) ([]store.Activity, error)
}

// SleepRepository averages sleep over an inclusive date range
type SleepRepository interface {
	AverageSleep(ctx context.Context, userID int64, start, end time.Time) (store.SleepAverages, error)
}

// HeartRateRepository averages resting heart rate over an inclusive date range
type HeartRateRepository interface {
	AverageRestingHR(ctx context.Context, userID int64, start, end time.Time) (*float64, error)
}

// WatermarkProvider reports when the user's data was last synced
type WatermarkProvider interface {
	LastSuccessAt(ctx context.Context, userID int64) (*time.Time, error)
}

// SnapshotStore persists snapshots
type SnapshotStore interface {
	GetSnapshot(ctx context.Context, key store.SnapshotKey) (*store.Snapshot, error)
	UpsertSnapshot(ctx context.Context, s *store.Snapshot) (*store.Snapshot, error)
}

// Deps are the manager's collaborators. *store.DB satisfies every repository.
type Deps struct {
	Activities ActivityRepository
	Sleep      SleepRepository
	HeartRate  HeartRateRepository
	Watermarks WatermarkProvider
	Snapshots  SnapshotStore
	Builder    *Builder

	RecoveryDays int       // defaults to DefaultRecoveryDays
	AllTimeStart time.Time // defaults to DefaultAllTimeStart
	Now          func() time.Time
	Logger       *slog.Logger
}

// Manager owns the snapshot cache: it decides when to rebuild and persists results
type Manager struct {
	deps Deps
}

// NewManager creates a manager, filling unset options with defaults
func NewManager(deps Deps) *Manager {
	if deps.RecoveryDays <= 0 {
		deps.RecoveryDays = DefaultRecoveryDays
	}
	if deps.AllTimeStart.IsZero() {
		deps.AllTimeStart = DefaultAllTimeStart
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Manager{deps: deps}
}

// Ensure returns the cached snapshot for the window, rebuilding it when forced
// or when the sync watermark has moved since it was built
func (m *Manager) Ensure(ctx context.Context, userID int64, w Window, force bool) (*store.Snapshot, error) {
	w = Window{Start: dateOf(w.Start), End: dateOf(w.End)}
	log := m.deps.Logger.With("user_id", userID, "window", w.String())

	watermark, err := m.deps.Watermarks.LastSuccessAt(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading sync watermark: %w", err)
	}

	key := store.SnapshotKey{
		UserID:        userID,
		WindowStart:   w.Start,
		WindowEnd:     w.End,
		SchemaVersion: SchemaVersion,
	}

	existing, err := m.deps.Snapshots.GetSnapshot(ctx, key)
	if err != nil && !errors.Is(err, store.ErrSnapshotNotFound) {
		return nil, fmt.Errorf("reading cached snapshot: %w", err)
	}

	if existing != nil && !IsStale(existing.SourceLastSyncAt, watermark, force) {
		recordOutcome(outcomeHit)
		log.Debug("snapshot cache hit", "generated_at", existing.GeneratedAt)
		return existing, nil
	}

	payload, err := m.build(ctx, userID, w)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot payload: %w", err)
	}

	// Nothing is written once the caller has gone away
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saved, err := m.deps.Snapshots.UpsertSnapshot(ctx, &store.Snapshot{
		UserID:           userID,
		WindowStart:      w.Start,
		WindowEnd:        w.End,
		SchemaVersion:    SchemaVersion,
		GeneratedAt:      m.deps.Now().UTC(),
		SourceLastSyncAt: watermark,
		Payload:          raw,
	})
	if err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}

	if existing == nil {
		recordOutcome(outcomeCreated)
	} else {
		recordOutcome(outcomeUpdated)
	}
	log.Info("snapshot generated", "forced", force, "activities", payload.Volume.ActivityCount)

	return saved, nil
}

// EnsureSnapshot ensures the trailing window of weeks ending today, or the
// all-time window when weeks is nil
func (m *Manager) EnsureSnapshot(ctx context.Context, userID int64, force bool, weeks *int) (*store.Snapshot, error) {
	today := m.deps.Now()

	if weeks == nil {
		return m.Ensure(ctx, userID, AllTimeWindow(today, m.deps.AllTimeStart), force)
	}
	if *weeks <= 0 {
		return nil, fmt.Errorf("%w: %d weeks", ErrInvalidWindow, *weeks)
	}
	return m.Ensure(ctx, userID, TrailingWindow(today, *weeks), force)
}

// MultiPeriod ensures the 6 week, 12 week and all-time snapshots one after
// another. Each window stands alone: failures are joined and returned with
// the payloads that succeeded.
func (m *Manager) MultiPeriod(ctx context.Context, userID int64, force bool) (map[string]*Payload, error) {
	six, twelve := 6, 12
	periods := []struct {
		name  string
		weeks *int
	}{
		{Period6Weeks, &six},
		{Period12Weeks, &twelve},
		{PeriodAllTime, nil},
	}

	result := make(map[string]*Payload, len(periods))
	var errs []error

	for _, period := range periods {
		s, err := m.EnsureSnapshot(ctx, userID, force, period.weeks)
		if err != nil {
			m.deps.Logger.Error("snapshot period failed", "user_id", userID, "period", period.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", period.name, err))
			continue
		}

		p, err := DecodePayload(s.SchemaVersion, s.Payload)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", period.name, err))
			continue
		}
		result[period.name] = p
	}

	return result, errors.Join(errs...)
}

// build reads the window's records and runs the builder
func (m *Manager) build(ctx context.Context, userID int64, w Window) (*Payload, error) {
	defer observeBuild(time.Now())

	activities, err := m.deps.Activities.QueryActivities(ctx, userID, w.Start, w.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}

	recoveryStart := w.End.AddDate(0, 0, -(m.deps.RecoveryDays - 1))

	sleep, err := m.deps.Sleep.AverageSleep(ctx, userID, recoveryStart, w.End)
	if err != nil {
		return nil, fmt.Errorf("averaging sleep: %w", err)
	}

	restingHR, err := m.deps.HeartRate.AverageRestingHR(ctx, userID, recoveryStart, w.End)
	if err != nil {
		return nil, fmt.Errorf("averaging resting heart rate: %w", err)
	}

	return m.deps.Builder.Build(ctx, Input{
		UserID:     userID,
		Activities: activities,
		Recovery: RecoveryStats{
			SleepMinutes: sleep.DurationMinutes,
			SleepScore:   sleep.Score,
			RestingHR:    restingHR,
		},
		WindowStart:  w.Start,
		WindowEnd:    w.End,
		RecoveryDays: m.deps.RecoveryDays,
	})
}
