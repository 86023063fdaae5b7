package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"quizcraft/internal/ui/layout"
	"quizcraft/internal/ui/theme"
)

func (p *PlayScreen) View(width, height int) string {
	if p.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  %s\n\n  Press any key to continue.", p.errMsg))
	}
	if p.session.IsPaused() {
		return p.renderPaused(width)
	}
	if p.reporting {
		return p.renderReport(width)
	}
	return p.renderQuestion(width)
}

func (p *PlayScreen) renderQuestion(width int) string {
	s := p.session
	q := s.Current()
	index, total, score := s.Progress()

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", index+1, total))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Score %d  %s",
			score, layout.FormatClock(s.Elapsed())))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	questionStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(questionStyle.Render(q.Text))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, p.choices.View()))

	if s.Revealed() {
		b.WriteString("\n")
		if p.choices.ChosenIndex == p.choices.CorrectIndex {
			b.WriteString(theme.Correct.Width(width).Align(lipgloss.Center).Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Width(width).Align(lipgloss.Center).Render("Not quite"))
		}
		if q.Explanation != "" {
			b.WriteString("\n\n")
			exp := lipgloss.NewStyle().
				Width(min(width-8, 70)).
				Foreground(theme.Text).
				Render(q.Explanation)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
			Render("Press Enter for the next question"))
	}

	if p.flash != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Render(p.flash))
	}

	return b.String()
}

func (p *PlayScreen) renderPaused(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Paused"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).
		Render(fmt.Sprintf("Clock stopped at %s", layout.FormatClock(p.session.Elapsed()))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Esc] Resume"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[W] Save for later & exit"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Q] Quit without saving"))

	return b.String()
}

func (p *PlayScreen) renderReport(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Report this question"))
	b.WriteString("\n\n")

	q := p.session.Current()
	b.WriteString(theme.Subtitle.Width(width).Render(q.Text))
	b.WriteString("\n\n")

	input := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Reason: " + p.reportIn.View())
	b.WriteString(input)

	return b.String()
}
