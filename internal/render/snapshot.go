package render

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"runcoach/internal/paceprofile"
	"runcoach/internal/service"
	"runcoach/internal/snapshot"
)

const recentRows = 5

// Snapshot renders a single training snapshot. now anchors the relative timestamps.
func Snapshot(v *service.SnapshotView, u Units, now time.Time) string {
	p := v.Payload

	header := headerStyle.Render(fmt.Sprintf("Training snapshot %s to %s (%d days)",
		p.Window.Start, p.Window.End, p.Window.Days))

	sections := []string{
		header,
		mutedStyle.Render(freshness(v, now)),
		lipgloss.JoinHorizontal(lipgloss.Top, volumeCard(p, u), "  ", loadCard(p)),
		intensityCard(p, u),
	}

	if chart := weeklyChart(p, u); chart != "" {
		sections = append(sections, chart)
	}

	sections = append(sections, recoveryCard(p), recentCard(p, u))

	if warn := qualityWarning(p); warn != "" {
		sections = append(sections, warningStyle.Render(warn))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Periods renders the multi-period comparison as one table
func Periods(payloads map[string]*snapshot.Payload, u Units) string {
	order := []string{snapshot.Period6Weeks, snapshot.Period12Weeks, snapshot.PeriodAllTime}
	labels := map[string]string{
		snapshot.Period6Weeks:  "6 weeks",
		snapshot.Period12Weeks: "12 weeks",
		snapshot.PeriodAllTime: "All time",
	}

	rows := []string{
		tableHeaderStyle.Render(fmt.Sprintf("%-9s  %5s  %12s  %9s  %5s  %5s  %5s  %6s",
			"Period", "Runs", "Distance", "Time", "Easy", "Tempo", "Int", "CTL")),
	}

	for _, period := range order {
		p, ok := payloads[period]
		if !ok {
			rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-9s  %s", labels[period], errorStyle.Render("unavailable"))))
			continue
		}
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-9s  %5d  %12s  %9s  %4.0f%%  %4.0f%%  %4.0f%%  %6.1f",
			labels[period],
			p.Volume.ActivityCount,
			formatTotal(u, p.Volume.TotalDistanceKm),
			formatHours(p.Volume.TotalDurationS),
			p.Distribution.EasyPct,
			p.Distribution.TempoPct,
			p.Distribution.IntervalPct,
			p.Load.CTL,
		)))
	}

	return card("Training Periods", rows...)
}

func freshness(v *service.SnapshotView, now time.Time) string {
	s := "Generated " + humanize.RelTime(v.GeneratedAt, now, "ago", "from now")
	if v.SourceLastSyncAt != nil {
		s += ", data synced " + humanize.RelTime(*v.SourceLastSyncAt, now, "ago", "from now")
	} else {
		s += ", no completed sync yet"
	}
	return s
}

func volumeCard(p *snapshot.Payload, u Units) string {
	vol := p.Volume
	return card("Volume",
		Metric("Runs", humanize.Comma(int64(vol.ActivityCount)), ""),
		Metric("Distance", formatTotal(u, vol.TotalDistanceKm), ""),
		Metric("Time", formatHours(vol.TotalDurationS), ""),
		Metric("Weekly average", u.FormatDistance(p.Load.WeeklyKmAvg), ""),
		Metric("Longest", u.FormatDistance(vol.LongestDistanceKm), ""),
		Metric("Active days", fmt.Sprintf("%d (%.0f%%)", vol.ActiveDays, vol.Coverage*100), ""),
	)
}

func loadCard(p *snapshot.Payload) string {
	load := p.Load
	if load.Form == "" {
		return card("Training Load", mutedStyle.Render("No heart rate data"))
	}
	return card("Training Load",
		Metric("Fitness (CTL)", fmt.Sprintf("%.0f", load.CTL), ""),
		Metric("Fatigue (ATL)", fmt.Sprintf("%.0f", load.ATL), ""),
		Metric("Form (TSB)", fmt.Sprintf("%+.0f", load.TSB), fmt.Sprintf("%+.0f", load.TSB)),
		"",
		mutedStyle.Render(load.Form),
	)
}

func intensityCard(p *snapshot.Payload, u Units) string {
	in := p.Distribution
	const barWidth = 30

	zone := func(name string, pct, km float64) string {
		return lipgloss.JoinHorizontal(lipgloss.Left,
			metricLabelStyle.Render(name),
			ProgressBar(pct/100, barWidth),
			metricValueStyle.Render(fmt.Sprintf(" %5.1f%%", pct)),
			mutedStyle.Render("  "+u.FormatDistance(km)),
		)
	}

	interval, tempo := in.PaceProfile.IntervalCutoff, in.PaceProfile.TempoCutoff
	lines := []string{
		zone("Easy", in.EasyPct, in.EasyKm),
		zone("Tempo", in.TempoPct, in.TempoKm),
		zone("Interval", in.IntervalPct, in.IntervalKm),
		"",
		mutedStyle.Render(fmt.Sprintf("Interval faster than %s, tempo faster than %s (%s)",
			u.FormatPace(&interval), u.FormatPace(&tempo), sourceLabel(in.PaceProfile.Source))),
	}
	return card("Intensity", lines...)
}

func weeklyChart(p *snapshot.Payload, u Units) string {
	if len(p.Load.WeeklyKm) < 2 {
		return ""
	}

	data := make([]float64, len(p.Load.WeeklyKm))
	for i, w := range p.Load.WeeklyKm {
		data[i] = u.DistanceValue(w.DistanceKm)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(50),
		asciigraph.Precision(0),
	)

	title := fmt.Sprintf("Weekly Distance (%s)", u.DistanceLabel())
	return card(title, graph)
}

func recoveryCard(p *snapshot.Payload) string {
	rec := p.Recovery
	orDash := func(v *float64, format string) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf(format, *v)
	}

	sleep := "-"
	if rec.AvgSleepMinutes != nil {
		mins := int(*rec.AvgSleepMinutes)
		sleep = fmt.Sprintf("%dh %02dm", mins/60, mins%60)
	}

	return card(fmt.Sprintf("Recovery (last %d days)", rec.Days),
		Metric("Sleep", sleep, ""),
		Metric("Sleep score", orDash(rec.AvgSleepScore, "%.0f"), ""),
		Metric("Resting HR", orDash(rec.AvgRestingHR, "%.0f bpm"), ""),
	)
}

func recentCard(p *snapshot.Payload, u Units) string {
	if len(p.RecentActivities) == 0 {
		return card("Recent Activities", "No activities in this window")
	}

	rows := []string{
		tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-20s  %9s  %9s  %9s", "Date", "Name", "Distance", "Time", "Pace")),
	}
	for i, a := range p.RecentActivities {
		if i >= recentRows {
			break
		}
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %-20s  %9s  %9s  %9s",
			a.Date,
			truncateName(a.Name, 20),
			u.FormatDistance(a.DistanceKm),
			formatHours(a.DurationS),
			u.FormatPace(a.PaceSPerKm),
		)))
	}
	return card("Recent Activities", rows...)
}

func qualityWarning(p *snapshot.Payload) string {
	dq := p.DataQuality
	var notes []string
	if p.Volume.ActivityCount > 0 && dq.MissingHeartRatePct >= 50 {
		notes = append(notes, fmt.Sprintf("%.0f%% of activities have no heart rate", dq.MissingHeartRatePct))
	}
	if dq.UnpacedActivities > 0 {
		notes = append(notes, fmt.Sprintf("%d without pace", dq.UnpacedActivities))
	}
	if len(notes) == 0 {
		return ""
	}

	s := "Data quality: " + notes[0]
	for _, n := range notes[1:] {
		s += ", " + n
	}
	return s
}

func sourceLabel(source paceprofile.Source) string {
	switch source {
	case paceprofile.SourceExternalProvider:
		return "from provider"
	case paceprofile.SourceActivityPercentile:
		return "from your runs"
	default:
		return "default cutoffs"
	}
}

func formatTotal(u Units, km float64) string {
	return humanize.CommafWithDigits(u.DistanceValue(km), 1) + " " + u.DistanceLabel()
}

// formatHours formats seconds as "H:MM:SS", or "M:SS" under an hour
func formatHours(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%s:%02d:%02d", humanize.Comma(int64(h)), m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
