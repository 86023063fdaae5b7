package saved

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"quizcraft/internal/quiz"
	"quizcraft/internal/report"
	"quizcraft/internal/router"
	"quizcraft/internal/scheduled"
	"quizcraft/internal/screen"
	"quizcraft/internal/screens/play"
	"quizcraft/internal/stars"
	"quizcraft/internal/stats"
	"quizcraft/internal/store"
	"quizcraft/internal/ui/layout"
	"quizcraft/internal/ui/theme"
)

// resumedMsg carries the session loaded from a snapshot.
type resumedMsg struct {
	session *quiz.Session
	err     error
}

// listRefreshedMsg carries the saved-quiz list after a delete.
type listRefreshedMsg struct {
	saved []quiz.SavedQuiz
	err   error
}

// SavedScreen lists saved quizzes for resume or deletion.
type SavedScreen struct {
	kv       store.KV
	agg      *stats.Aggregator
	registry *stars.Registry
	sched    *scheduled.Scheduler
	reporter *report.Reporter

	saved  []quiz.SavedQuiz
	cursor int
	errMsg string
}

var _ screen.Screen = (*SavedScreen)(nil)
var _ screen.KeyHintProvider = (*SavedScreen)(nil)

func New(kv store.KV, agg *stats.Aggregator, registry *stars.Registry, sched *scheduled.Scheduler, reporter *report.Reporter) *SavedScreen {
	s := &SavedScreen{
		kv:       kv,
		agg:      agg,
		registry: registry,
		sched:    sched,
		reporter: reporter,
	}
	saved, err := quiz.ListSaved(context.Background(), kv)
	if err != nil {
		s.errMsg = err.Error()
	}
	s.saved = saved
	return s
}

func (s *SavedScreen) Init() tea.Cmd {
	return nil
}

func (s *SavedScreen) Title() string {
	return "Saved Quizzes"
}

func (s *SavedScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Resume"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SavedScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resumedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		return s, func() tea.Msg {
			return router.PushScreenMsg{
				Screen: play.New(msg.session, s.kv, s.agg, s.registry, s.sched, s.reporter),
			}
		}

	case listRefreshedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.saved = msg.saved
		if s.cursor >= len(s.saved) && s.cursor > 0 {
			s.cursor = len(s.saved) - 1
		}
		return s, nil

	case tea.KeyMsg:
		if s.errMsg != "" {
			s.errMsg = ""
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.saved)-1 {
				s.cursor++
			}
		case "enter":
			if len(s.saved) > 0 {
				return s, s.resume(s.saved[s.cursor].ID)
			}
		case "d":
			if len(s.saved) > 0 {
				return s, s.delete(s.saved[s.cursor].ID)
			}
		}
	}
	return s, nil
}

func (s *SavedScreen) resume(id string) tea.Cmd {
	kv := s.kv
	return func() tea.Msg {
		session, err := quiz.ResumeFromSnapshot(context.Background(), kv, id)
		return resumedMsg{session: session, err: err}
	}
}

func (s *SavedScreen) delete(id string) tea.Cmd {
	kv := s.kv
	return func() tea.Msg {
		ctx := context.Background()
		if err := quiz.DeleteSaved(ctx, kv, id); err != nil {
			return listRefreshedMsg{err: err}
		}
		saved, err := quiz.ListSaved(ctx, kv)
		return listRefreshedMsg{saved: saved, err: err}
	}
}

func (s *SavedScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n  %s\n\n  Press any key to continue.", s.errMsg))
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(s.saved) == 0 {
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
			Render("No saved quizzes. Save one mid-quiz with W."))
		return b.String()
	}

	var list strings.Builder
	for i, sq := range s.saved {
		source := sq.Folder
		if sq.SourceFileName != "" {
			source += "/" + sq.SourceFileName
		}
		line := fmt.Sprintf("%-30s  question %d/%d  score %d  %s",
			source, sq.CurrentIndex+1, sq.TotalQuestions, sq.Score,
			sq.SavedAt.Format("Jan 2 15:04"))

		if i == s.cursor {
			list.WriteString(theme.Selected.Render("  ▸ " + line))
		} else {
			list.WriteString(theme.Unselected.Render("    " + line))
		}
		list.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))

	return b.String()
}
