package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidPerformance is returned for a race result that can't be scored
var ErrInvalidPerformance = errors.New("invalid race performance")

// ParseRaceDistance accepts a race name ("5k", "half", "marathon", ...) or a
// number of meters, optionally suffixed with "m" or "km"
func ParseRaceDistance(s string) (float64, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if meters, ok := raceDistances[key]; ok {
		return meters, nil
	}

	scale := 1.0
	switch {
	case strings.HasSuffix(key, "km"):
		key, scale = strings.TrimSuffix(key, "km"), MetersPerKm
	case strings.HasSuffix(key, "m"):
		key = strings.TrimSuffix(key, "m")
	}

	v, err := parseFinite(key)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: unknown distance %q", ErrInvalidPerformance, s)
	}
	return v * scale, nil
}

// ParseRaceTime parses "SS", "M:SS" or "H:MM:SS" into seconds
func ParseRaceTime(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidPerformance, s)
	}

	var total float64
	for i, p := range parts {
		v, err := parseFinite(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: bad time %q", ErrInvalidPerformance, s)
		}
		// Minutes and seconds fields after the first must be below 60
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("%w: bad time %q", ErrInvalidPerformance, s)
		}
		total = total*60 + v
	}

	if total <= 0 {
		return 0, fmt.Errorf("%w: time must be positive", ErrInvalidPerformance)
	}
	return total, nil
}

// parseFinite is strconv.ParseFloat without the "inf" and "nan" spellings
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}
