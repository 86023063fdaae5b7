package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"quizcraft/internal/ui/theme"
)

// ProgressBar renders a horizontal bar of block runes fitted to Width
// cells overall, label and percentage readout included.
type ProgressBar struct {
	Label       string
	Percent     float64 // 0..1
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

func (p ProgressBar) View() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}
	barWidth := max(p.Width-lipgloss.Width(b.String())-percentWidth, 4)

	frac := min(max(p.Percent, 0), 1)
	filled := min(int(float64(barWidth)*frac+0.5), barWidth)

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.Repeat("░", barWidth-filled)))

	if p.ShowPercent {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(frac*100+0.5))))
	}

	return b.String()
}
