package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"runcoach/internal/paceprofile"
)

// SchemaVersion is the payload shape written by this build
const SchemaVersion = 1

// ErrUnsupportedSchema is returned when a stored payload has an unknown version
var ErrUnsupportedSchema = errors.New("unsupported snapshot schema version")

// Payload is the aggregated training summary for one window
type Payload struct {
	SchemaVersion    int              `json:"schema_version"`
	UserID           int64            `json:"user_id"`
	Window           WindowSummary    `json:"window"`
	Volume           Volume           `json:"volume"`
	Distribution     Distribution     `json:"distribution_distance"`
	Load             Load             `json:"load"`
	Recovery         Recovery         `json:"recovery"`
	DataQuality      DataQuality      `json:"data_quality"`
	RecentActivities []RecentActivity `json:"recent_activities"`

	// Reserved for downstream collaborators; always present, null when unset
	PersonalRecords json.RawMessage `json:"personal_records"`
	Availability    json.RawMessage `json:"availability"`
}

// WindowSummary describes the date range the payload covers
type WindowSummary struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`   // YYYY-MM-DD
	Days  int    `json:"days"`
}

// Volume totals
type Volume struct {
	ActivityCount     int     `json:"activity_count"`
	TotalDistanceKm   float64 `json:"total_distance_km"`
	TotalDurationS    int     `json:"total_duration_s"`
	LongestDistanceKm float64 `json:"longest_distance_km"`
	LongestDurationS  int     `json:"longest_duration_s"`
	ActiveDays        int     `json:"active_days"`
	Coverage          float64 `json:"coverage"` // active days / window days
}

// Distribution is the distance split across pace zones
type Distribution struct {
	PaceProfile paceprofile.Profile `json:"pace_profile"`
	EasyKm      float64             `json:"easy_km"`
	TempoKm     float64             `json:"tempo_km"`
	IntervalKm  float64             `json:"interval_km"`
	UnpacedKm   float64             `json:"unpaced_km"`
	EasyPct     float64             `json:"easy_pct"`
	TempoPct    float64             `json:"tempo_pct"`
	IntervalPct float64             `json:"interval_pct"`
}

// Load is heart-rate based training load as of the window end
type Load struct {
	CTL         float64        `json:"ctl"`
	ATL         float64        `json:"atl"`
	TSB         float64        `json:"tsb"`
	Form        string         `json:"form"`
	WeeklyKmAvg float64        `json:"weekly_km_avg"` // total km per 7 window days
	WeeklyKm    []WeeklyVolume `json:"weekly_km"`
}

// WeeklyVolume is the distance of one Monday-based week
type WeeklyVolume struct {
	WeekStart  string  `json:"week_start"` // YYYY-MM-DD, a Monday
	DistanceKm float64 `json:"distance_km"`
}

// Recovery averages over the trailing recovery days of the window
type Recovery struct {
	Days            int      `json:"days"`
	AvgSleepMinutes *float64 `json:"avg_sleep_minutes"`
	AvgSleepScore   *float64 `json:"avg_sleep_score"`
	AvgRestingHR    *float64 `json:"avg_resting_hr"`
}

// DataQuality flags gaps in the source data
type DataQuality struct {
	MissingHeartRatePct float64 `json:"missing_heart_rate_pct"`
	UnpacedActivities   int     `json:"unpaced_activities"`
}

// RecentActivity summarizes one of the latest activities in the window
type RecentActivity struct {
	Date       string   `json:"date"` // YYYY-MM-DD
	Type       string   `json:"type"`
	Name       string   `json:"name"`
	DistanceKm float64  `json:"distance_km"`
	DurationS  int      `json:"duration_s"`
	PaceSPerKm *float64 `json:"pace_s_per_km"` // nil when unpaced
}

// DecodePayload parses a stored payload written with the given schema version.
// Older versions are adapted here when the shape changes.
func DecodePayload(version int, raw []byte) (*Payload, error) {
	switch version {
	case 1:
		var p Payload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decoding snapshot payload v%d: %w", version, err)
		}
		p.SchemaVersion = version
		return &p, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSchema, version)
	}
}
