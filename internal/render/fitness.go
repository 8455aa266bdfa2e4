package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"runcoach/internal/service"
)

// Fitness renders a VDOT estimate with its training paces and race equivalents
func Fitness(r *service.FitnessReport) string {
	var sections []string

	title := fmt.Sprintf("VDOT %.1f", r.VDOT)
	if r.SourceLabel != "" {
		title += " from " + r.SourceLabel
	}
	sections = append(sections, headerStyle.Render(title))

	summary := card("Fitness",
		Metric("VDOT", fmt.Sprintf("%.1f", r.VDOT), ""),
		Metric("Level", r.VDOTLabel, ""),
	)

	paceLines := make([]string, 0, len(r.Paces))
	for _, p := range r.Paces {
		paceLines = append(paceLines, Metric(p.Zone, p.Pace, ""))
	}
	paces := card("Training Paces", paceLines...)

	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, summary, "  ", paces))

	if len(r.Predictions) > 0 {
		rows := []string{
			tableHeaderStyle.Render(fmt.Sprintf("%-14s  %9s  %10s", "Race", "Time", "Pace")),
		}
		for _, p := range r.Predictions {
			rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-14s  %9s  %10s",
				p.TargetLabel, p.PredictedTime, p.PredictedPace)))
		}
		sections = append(sections, card("Equivalent Performances", rows...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
