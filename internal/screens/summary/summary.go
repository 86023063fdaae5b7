package summary

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"quizcraft/internal/quiz"
	"quizcraft/internal/screen"
	"quizcraft/internal/stars"
	"quizcraft/internal/ui/components"
	"quizcraft/internal/ui/layout"
	"quizcraft/internal/ui/theme"
)

// starToggledMsg reports the outcome of a star toggle.
type starToggledMsg struct {
	index   int
	starred bool
	err     error
}

// SummaryScreen shows the final result of a completed quiz and lets the
// user walk the per-question review, starring questions for later.
type SummaryScreen struct {
	result   quiz.Result
	statsErr error
	registry *stars.Registry

	cursor  int
	starred map[int]bool
	errMsg  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a summary screen and loads current star state for the
// reviewed questions.
func New(result quiz.Result, statsErr error, registry *stars.Registry) *SummaryScreen {
	starred := make(map[int]bool, len(result.Review))
	ctx := context.Background()
	for i := range result.Review {
		ok, err := registry.IsStarred(ctx, result.Folder, i)
		if err != nil {
			break
		}
		starred[i] = ok
	}

	return &SummaryScreen{
		result:   result,
		statsErr: statsErr,
		registry: registry,
		starred:  starred,
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Review"},
		{Key: "S", Description: "Star/unstar"},
		{Key: "Esc", Description: "Done"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case starToggledMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.starred[msg.index] = msg.starred
		return s, nil

	case tea.KeyMsg:
		s.errMsg = ""
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.result.Review)-1 {
				s.cursor++
			}
		case "s", "enter":
			return s, s.toggleStar(s.cursor)
		}
	}
	return s, nil
}

func (s *SummaryScreen) toggleStar(index int) tea.Cmd {
	registry := s.registry
	folder := s.result.Folder
	return func() tea.Msg {
		starred, err := registry.Toggle(context.Background(), folder, index)
		return starToggledMsg{index: index, starred: starred, err: err}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	var b strings.Builder

	b.WriteString("\n")
	heading := fmt.Sprintf("%d / %d correct", r.CorrectAnswers, r.TotalQuestions)
	b.WriteString(theme.Title.Width(width).Render(heading))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Accuracy", r.Accuracy/100, true, min(width-10, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	detail := fmt.Sprintf("Wrong %d   Skipped %d   Streak %d   Time %s   Avg %ds/question",
		r.IncorrectAnswers, r.Skipped, r.LongestStreak,
		layout.FormatClock(r.TotalTime), r.AverageTimePerQuestion)
	b.WriteString(theme.Subtitle.Width(width).Render(detail))
	b.WriteString("\n")

	if s.statsErr != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Statistics update failed: " + s.statsErr.Error()))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
			Render("Run `quizcraft stats --recompute` to repair."))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
	}

	b.WriteString("\n")
	b.WriteString(s.renderReview(width, height))

	return b.String()
}

func (s *SummaryScreen) renderReview(width, height int) string {
	var list strings.Builder

	// Keep a window of rows visible around the cursor.
	visible := max(height-12, 3)
	start := 0
	if s.cursor >= visible {
		start = s.cursor - visible + 1
	}
	end := min(start+visible, len(s.result.Review))

	for i := start; i < end; i++ {
		rv := s.result.Review[i]

		marker := " "
		if s.starred[i] {
			marker = "★"
		}

		var outcome string
		switch {
		case rv.Skipped:
			outcome = theme.Hint.Render("skipped")
		case rv.Correct:
			outcome = theme.Correct.Render("correct")
		default:
			outcome = theme.Incorrect.Render("wrong")
		}

		text := rv.Question.Text
		if lipgloss.Width(text) > width-30 {
			text = truncate(text, max(width-30, 10))
		}

		line := fmt.Sprintf("%s %2d. %s  %s (%ds)",
			theme.Starred.Render(marker), i+1, text, outcome, rv.TimeSpent)

		if i == s.cursor {
			list.WriteString(theme.Selected.Render("▸ ") + line)
		} else {
			list.WriteString("  " + line)
		}
		list.WriteString("\n")

		// Expand the selected row with the answer detail.
		if i == s.cursor && !rv.Skipped {
			correct, _ := rv.Question.CorrectChoice()
			var detail string
			if rv.Correct {
				detail = fmt.Sprintf("      answered: %s", correct)
			} else if rv.Answer != nil {
				detail = fmt.Sprintf("      answered: %s   correct: %s", *rv.Answer, correct)
			}
			if detail != "" {
				list.WriteString(theme.Hint.Render(detail))
				list.WriteString("\n")
			}
		}
	}

	return list.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
