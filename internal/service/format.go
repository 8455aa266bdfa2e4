package service

import (
	"fmt"
	"math"
)

// formatPace formats seconds as "M:SS"
func formatPace(seconds int) string {
	mins := seconds / SecondsPerMinute
	secs := seconds % SecondsPerMinute
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// formatDuration formats seconds as "M:SS" or "H:MM:SS"
func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// paceForUnit converts a seconds-per-km pace to the display unit
func paceForUnit(secondsPerKm float64, paceUnit string) int {
	if paceUnit == "min/mi" {
		return int(math.Round(secondsPerKm * MetersPerMile / MetersPerKm))
	}
	return int(math.Round(secondsPerKm))
}

func paceLabel(paceUnit string) string {
	if paceUnit == "min/mi" {
		return "/mi"
	}
	return "/km"
}
