// Package snapshot aggregates a user's activity, sleep and heart rate history
// over a date window into a cached training summary.
package snapshot

import (
	"context"
	"math"
	"sort"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/paceprofile"
	"runcoach/internal/store"
)

// DefaultRecentLimit is the number of activities listed in a payload
const DefaultRecentLimit = 10

// maxWeeklyBuckets caps the weekly series for long windows
const maxWeeklyBuckets = 52

// RecoveryStats are averages pre-aggregated over the recovery period
type RecoveryStats struct {
	SleepMinutes *float64
	SleepScore   *float64
	RestingHR    *float64
}

// Input is everything a build reads
type Input struct {
	UserID       int64
	Activities   []store.Activity
	Recovery     RecoveryStats
	WindowStart  time.Time
	WindowEnd    time.Time
	RecoveryDays int
}

// Builder turns raw records into a Payload. It never persists.
type Builder struct {
	resolver    *paceprofile.Resolver
	zones       analysis.HRZones
	recentLimit int
}

// NewBuilder creates a builder. A negative recentLimit uses DefaultRecentLimit.
func NewBuilder(resolver *paceprofile.Resolver, zones analysis.HRZones, recentLimit int) *Builder {
	if recentLimit < 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Builder{
		resolver:    resolver,
		zones:       zones,
		recentLimit: recentLimit,
	}
}

// Build aggregates the activities that start within the window's calendar dates
func (b *Builder) Build(ctx context.Context, in Input) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	windowStart := dateOf(in.WindowStart)
	windowEnd := dateOf(in.WindowEnd)
	window := Window{Start: windowStart, End: windowEnd}
	activities := activitiesInWindow(in.Activities, window)

	p := &Payload{
		SchemaVersion: SchemaVersion,
		UserID:        in.UserID,
		Window: WindowSummary{
			Start: windowStart.Format(time.DateOnly),
			End:   windowEnd.Format(time.DateOnly),
			Days:  window.Days(),
		},
		Recovery: Recovery{
			Days:            in.RecoveryDays,
			AvgSleepMinutes: roundPtr(in.Recovery.SleepMinutes, 1),
			AvgSleepScore:   roundPtr(in.Recovery.SleepScore, 1),
			AvgRestingHR:    roundPtr(in.Recovery.RestingHR, 1),
		},
	}

	p.Volume = volume(activities, p.Window.Days)

	paces := make([]float64, 0, len(activities))
	for _, a := range activities {
		if pace, ok := effectivePace(a); ok {
			paces = append(paces, pace)
		}
	}
	profile := b.resolver.Resolve(ctx, paceprofile.Request{UserID: in.UserID, Paces: paces})
	p.Distribution = distribution(activities, profile)

	p.Load = b.load(activities, window)
	p.Load.WeeklyKmAvg = weeklyAverage(p.Volume.TotalDistanceKm, p.Window.Days)
	p.DataQuality = dataQuality(activities)
	p.RecentActivities = b.recent(activities)

	return p, nil
}

// effectivePace prefers the recorded average pace, then duration over distance
func effectivePace(a store.Activity) (float64, bool) {
	if a.AvgPaceSeconds != nil && *a.AvgPaceSeconds > 0 {
		return *a.AvgPaceSeconds, true
	}
	if a.DurationSeconds > 0 && a.DistanceMeters > 0 {
		return float64(a.DurationSeconds) / a.DistanceMeters * 1000, true
	}
	return 0, false
}

func activitiesInWindow(activities []store.Activity, w Window) []store.Activity {
	end := w.End.AddDate(0, 0, 1)

	out := make([]store.Activity, 0, len(activities))
	for _, a := range activities {
		if a.StartTime.Before(w.Start) || !a.StartTime.Before(end) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func volume(activities []store.Activity, windowDays int) Volume {
	var v Volume
	var distance float64
	var longest store.Activity
	days := make(map[string]struct{})

	for _, a := range activities {
		v.ActivityCount++
		distance += a.DistanceMeters
		v.TotalDurationS += a.DurationSeconds
		days[a.StartTime.UTC().Format(time.DateOnly)] = struct{}{}

		if a.DistanceMeters > longest.DistanceMeters {
			longest = a
		}
	}

	v.TotalDistanceKm = round(distance/1000, 2)
	v.LongestDistanceKm = round(longest.DistanceMeters/1000, 2)
	v.LongestDurationS = longest.DurationSeconds
	v.ActiveDays = len(days)

	if windowDays > 0 {
		v.Coverage = round(float64(v.ActiveDays)/float64(windowDays), 3)
	}
	return v
}

func distribution(activities []store.Activity, profile paceprofile.Profile) Distribution {
	in := Distribution{PaceProfile: profile}
	var easy, tempo, interval, unpaced float64

	for _, a := range activities {
		pace, ok := effectivePace(a)
		switch {
		case !ok:
			unpaced += a.DistanceMeters
		case pace <= profile.IntervalCutoff:
			interval += a.DistanceMeters
		case pace <= profile.TempoCutoff:
			tempo += a.DistanceMeters
		default:
			easy += a.DistanceMeters
		}
	}

	in.EasyKm = round(easy/1000, 2)
	in.TempoKm = round(tempo/1000, 2)
	in.IntervalKm = round(interval/1000, 2)
	in.UnpacedKm = round(unpaced/1000, 2)

	if total := easy + tempo + interval; total > 0 {
		in.EasyPct = round(easy/total*100, 1)
		in.TempoPct = round(tempo/total*100, 1)
		in.IntervalPct = round(interval/total*100, 1)
	}
	return in
}

func (b *Builder) load(activities []store.Activity, w Window) Load {
	var loads []analysis.DailyLoad
	for _, a := range activities {
		if a.AverageHeartrate == nil {
			continue
		}
		trimp := analysis.TRIMP(float64(a.DurationSeconds), *a.AverageHeartrate, b.zones)
		if trimp > 0 {
			loads = append(loads, analysis.DailyLoad{Date: dateOf(a.StartTime), TRIMP: trimp})
		}
	}

	l := Load{WeeklyKm: weeklyVolume(activities, w)}
	if len(loads) == 0 {
		return l
	}

	fitness := analysis.GetCurrentFitness(loads, w.End)
	l.CTL = round(fitness.CTL, 1)
	l.ATL = round(fitness.ATL, 1)
	l.TSB = round(fitness.TSB, 1)
	l.Form = analysis.FormDescription(fitness.TSB)
	return l
}

func weeklyAverage(totalKm float64, days int) float64 {
	if days <= 0 {
		return 0
	}
	return round(totalKm/float64(days)*7, 1)
}

// weeklyVolume buckets distance into Monday-based weeks overlapping the window
func weeklyVolume(activities []store.Activity, w Window) []WeeklyVolume {
	first := mondayOf(w.Start)
	last := mondayOf(w.End)
	if earliest := last.AddDate(0, 0, -7*(maxWeeklyBuckets-1)); first.Before(earliest) {
		first = earliest
	}

	totals := make(map[string]float64)
	for _, a := range activities {
		totals[mondayOf(a.StartTime).Format(time.DateOnly)] += a.DistanceMeters
	}

	var weeks []WeeklyVolume
	for d := first; !d.After(last); d = d.AddDate(0, 0, 7) {
		key := d.Format(time.DateOnly)
		weeks = append(weeks, WeeklyVolume{WeekStart: key, DistanceKm: round(totals[key]/1000, 2)})
	}
	return weeks
}

func dataQuality(activities []store.Activity) DataQuality {
	var dq DataQuality
	if len(activities) == 0 {
		return dq
	}

	var missingHR int
	for _, a := range activities {
		if a.AverageHeartrate == nil || *a.AverageHeartrate <= 0 {
			missingHR++
		}
		if _, ok := effectivePace(a); !ok {
			dq.UnpacedActivities++
		}
	}
	dq.MissingHeartRatePct = round(float64(missingHR)/float64(len(activities))*100, 1)
	return dq
}

func (b *Builder) recent(activities []store.Activity) []RecentActivity {
	sorted := make([]store.Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.After(sorted[j].StartTime)
	})
	if len(sorted) > b.recentLimit {
		sorted = sorted[:b.recentLimit]
	}

	recent := make([]RecentActivity, 0, len(sorted))
	for _, a := range sorted {
		ra := RecentActivity{
			Date:       a.StartTime.UTC().Format(time.DateOnly),
			Type:       a.Type,
			Name:       a.Name,
			DistanceKm: round(a.DistanceMeters/1000, 2),
			DurationS:  a.DurationSeconds,
		}
		if pace, ok := effectivePace(a); ok {
			pace = round(pace, 1)
			ra.PaceSPerKm = &pace
		}
		recent = append(recent, ra)
	}
	return recent
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v, places)
	return &r
}
