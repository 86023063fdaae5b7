package reports

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"quizcraft/internal/report"
	"quizcraft/internal/screen"
	"quizcraft/internal/ui/layout"
	"quizcraft/internal/ui/theme"
)

// listLoadedMsg carries the report list after a load or status change.
type listLoadedMsg struct {
	reports []report.QuestionReport
	err     error
}

// ReportsScreen lists filed question reports and cycles their status.
type ReportsScreen struct {
	reporter *report.Reporter

	reports []report.QuestionReport
	cursor  int
	errMsg  string
}

var _ screen.Screen = (*ReportsScreen)(nil)
var _ screen.KeyHintProvider = (*ReportsScreen)(nil)

func New(reporter *report.Reporter) *ReportsScreen {
	return &ReportsScreen{reporter: reporter}
}

func (r *ReportsScreen) Init() tea.Cmd {
	return r.loadList()
}

func (r *ReportsScreen) Title() string {
	return "Question Reports"
}

func (r *ReportsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Cycle status"},
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ReportsScreen) loadList() tea.Cmd {
	reporter := r.reporter
	return func() tea.Msg {
		reports, err := reporter.List(context.Background())
		return listLoadedMsg{reports: reports, err: err}
	}
}

func (r *ReportsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		if msg.err != nil {
			r.errMsg = msg.err.Error()
			return r, nil
		}
		r.reports = msg.reports
		if r.cursor >= len(r.reports) && r.cursor > 0 {
			r.cursor = len(r.reports) - 1
		}
		return r, nil

	case tea.KeyMsg:
		if r.errMsg != "" {
			r.errMsg = ""
			return r, nil
		}
		switch msg.String() {
		case "up", "k":
			if r.cursor > 0 {
				r.cursor--
			}
		case "down", "j":
			if r.cursor < len(r.reports)-1 {
				r.cursor++
			}
		case "enter", " ":
			if len(r.reports) > 0 {
				rep := r.reports[r.cursor]
				return r, r.setStatus(rep.ID, nextStatus(rep.Status))
			}
		}
	}
	return r, nil
}

// nextStatus cycles pending -> reviewed -> fixed -> invalid -> pending.
func nextStatus(s report.Status) report.Status {
	switch s {
	case report.StatusPending:
		return report.StatusReviewed
	case report.StatusReviewed:
		return report.StatusFixed
	case report.StatusFixed:
		return report.StatusInvalid
	default:
		return report.StatusPending
	}
}

func (r *ReportsScreen) setStatus(id string, status report.Status) tea.Cmd {
	reporter := r.reporter
	load := r.loadList()
	return func() tea.Msg {
		if err := reporter.SetStatus(context.Background(), id, status); err != nil {
			return listLoadedMsg{err: err}
		}
		return load()
	}
}

func (r *ReportsScreen) View(width, height int) string {
	if r.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n  %s\n\n  Press any key to continue.", r.errMsg))
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(r.reports) == 0 {
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
			Render("No reports filed. Press R during a quiz to report a question."))
		return b.String()
	}

	var list strings.Builder
	for i, rep := range r.reports {
		text := rep.Question.Text
		if len([]rune(text)) > 40 {
			text = string([]rune(text)[:39]) + "…"
		}

		line := fmt.Sprintf("%s  %-40s  %s",
			statusBadge(rep.Status), text, rep.CreatedAt.Format("Jan 2 15:04"))

		if i == r.cursor {
			list.WriteString(theme.Selected.Render("  ▸ ") + line)
		} else {
			list.WriteString("    " + line)
		}
		list.WriteString("\n")

		if i == r.cursor {
			list.WriteString(theme.Hint.Render("      " + rep.Reason))
			list.WriteString("\n")
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))

	return b.String()
}

func statusBadge(s report.Status) string {
	label := fmt.Sprintf("%-8s", string(s))
	switch s {
	case report.StatusPending:
		return theme.Incorrect.Render(label)
	case report.StatusFixed:
		return theme.Correct.Render(label)
	default:
		return theme.Hint.Render(label)
	}
}
