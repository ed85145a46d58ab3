package main

import (
	"strings"

	"github.com/aouyang1/go-forecast-dashboard/indicator"
	"github.com/aouyang1/go-forecast-dashboard/predict"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorTeal    = lipgloss.Color("#008080")
	colorSubtext = lipgloss.Color("#7f849c")
	colorText    = lipgloss.Color("#cdd6f4")

	titleStyle = lipgloss.NewStyle().Foreground(colorTeal).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	valueStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTeal).
			Padding(0, 2).
			Width(34)
)

// renderCards lays out one card per indicator side by side
func renderCards(res *predict.Result, metrics []indicator.Metric) string {
	cards := make([]string, 0, len(metrics))
	for _, m := range metrics {
		b := res.Bounds[m.Label]
		cards = append(cards, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			labelStyle.Render(m.Title),
			valueStyle.Render(m.Format(res.Values[m.Label])),
			labelStyle.Render(m.Format(b.Lower)+" to "+m.Format(b.Upper)),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Displaying predictions for "+res.Day()),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
	)
}

// renderHorizon prints one row per forecasted year
func renderHorizon(horizon []*predict.Result, metrics []indicator.Metric) string {
	cellStyle := lipgloss.NewStyle().Width(16).Align(lipgloss.Right)
	dateStyle := lipgloss.NewStyle().Width(12)

	var b strings.Builder
	header := []string{dateStyle.Render("Date")}
	for _, m := range metrics {
		header = append(header, cellStyle.Render(m.Unit))
	}
	b.WriteString(labelStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, header...)))

	for _, res := range horizon {
		row := []string{dateStyle.Render(res.Day())}
		for _, m := range metrics {
			row = append(row, cellStyle.Render(m.Format(res.Values[m.Label])))
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return b.String()
}
