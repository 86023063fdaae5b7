package schedule

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"quizcraft/internal/question"
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

// entry pairs a generated quiz with its completion flag for display.
type entry struct {
	quiz      scheduled.Quiz
	completed bool
}

// listLoadedMsg carries the scheduled-quiz list with completion flags.
type listLoadedMsg struct {
	entries []entry
	err     error
}

// generatedMsg reports the outcome of a generate request.
type generatedMsg struct {
	err error
}

// ScheduleScreen lists generated quizzes and creates new ones from
// starred questions.
type ScheduleScreen struct {
	provider question.Provider
	kv       store.KV
	agg      *stats.Aggregator
	registry *stars.Registry
	sched    *scheduled.Scheduler
	reporter *report.Reporter

	entries []entry
	cursor  int

	// Folder picker for the generate flow.
	picking      bool
	folders      []string
	folderCursor int

	errMsg string
}

var _ screen.Screen = (*ScheduleScreen)(nil)
var _ screen.KeyHintProvider = (*ScheduleScreen)(nil)
var _ screen.EscInterceptor = (*ScheduleScreen)(nil)

func New(provider question.Provider, kv store.KV, agg *stats.Aggregator, registry *stars.Registry, sched *scheduled.Scheduler, reporter *report.Reporter) *ScheduleScreen {
	return &ScheduleScreen{
		provider: provider,
		kv:       kv,
		agg:      agg,
		registry: registry,
		sched:    sched,
		reporter: reporter,
	}
}

func (s *ScheduleScreen) Init() tea.Cmd {
	return s.loadList()
}

func (s *ScheduleScreen) Title() string {
	return "Scheduled Quizzes"
}

// InterceptEsc keeps Esc local while the folder picker is open.
func (s *ScheduleScreen) InterceptEsc() bool {
	return s.picking
}

func (s *ScheduleScreen) KeyHints() []layout.KeyHint {
	if s.picking {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Generate"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "G", Description: "Generate from stars"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ScheduleScreen) loadList() tea.Cmd {
	sched := s.sched
	return func() tea.Msg {
		ctx := context.Background()
		quizzes, err := sched.List(ctx)
		if err != nil {
			return listLoadedMsg{err: err}
		}
		entries := make([]entry, 0, len(quizzes))
		for _, q := range quizzes {
			done, err := sched.IsCompleted(ctx, q.ID)
			if err != nil {
				return listLoadedMsg{err: err}
			}
			entries = append(entries, entry{quiz: q, completed: done})
		}
		return listLoadedMsg{entries: entries}
	}
}

func (s *ScheduleScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.entries = msg.entries
		if s.cursor >= len(s.entries) && s.cursor > 0 {
			s.cursor = len(s.entries) - 1
		}
		return s, nil

	case generatedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		return s, s.loadList()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ScheduleScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		s.errMsg = ""
		return s, nil
	}

	if s.picking {
		switch key {
		case "esc":
			s.picking = false
		case "up", "k":
			if s.folderCursor > 0 {
				s.folderCursor--
			}
		case "down", "j":
			if s.folderCursor < len(s.folders)-1 {
				s.folderCursor++
			}
		case "enter":
			if len(s.folders) > 0 {
				s.picking = false
				return s, s.generate(s.folders[s.folderCursor])
			}
		}
		return s, nil
	}

	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.entries)-1 {
			s.cursor++
		}
	case "g":
		folders, err := s.provider.Folders()
		if err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		if len(folders) == 0 {
			s.errMsg = "no question folders available"
			return s, nil
		}
		s.folders = folders
		s.folderCursor = 0
		s.picking = true
	case "enter":
		if len(s.entries) > 0 {
			return s, s.start(s.entries[s.cursor].quiz)
		}
	case "d":
		if len(s.entries) > 0 {
			return s, s.delete(s.entries[s.cursor].quiz.ID)
		}
	}
	return s, nil
}

func (s *ScheduleScreen) generate(folder string) tea.Cmd {
	sched := s.sched
	provider := s.provider
	return func() tea.Msg {
		_, err := sched.Generate(context.Background(), provider, folder, "", 0)
		return generatedMsg{err: err}
	}
}

func (s *ScheduleScreen) start(q scheduled.Quiz) tea.Cmd {
	session, err := quiz.Start(q.Questions, q.Folder, quiz.StartOptions{QuizID: q.ID})
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	// A generated quiz mixes questions from several files.
	session.SourceFileName = ""

	return func() tea.Msg {
		return router.PushScreenMsg{
			Screen: play.New(session, s.kv, s.agg, s.registry, s.sched, s.reporter),
		}
	}
}

func (s *ScheduleScreen) delete(id string) tea.Cmd {
	load := s.loadList()
	sched := s.sched
	return func() tea.Msg {
		if err := sched.Delete(context.Background(), id); err != nil {
			return listLoadedMsg{err: err}
		}
		return load()
	}
}

func (s *ScheduleScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n  %s\n\n  Press any key to continue.", s.errMsg))
	}
	if s.picking {
		return s.renderPicker(width)
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(s.entries) == 0 {
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
			Render("No scheduled quizzes. Star questions in a results screen, then press G."))
		return b.String()
	}

	var list strings.Builder
	for i, e := range s.entries {
		marker := "  "
		if e.completed {
			marker = theme.Correct.Render("✓ ")
		}
		line := fmt.Sprintf("%s%-36s  %2d questions  %s",
			marker, e.quiz.Name, len(e.quiz.Questions),
			e.quiz.CreatedAt.Format("Jan 2 15:04"))

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

func (s *ScheduleScreen) renderPicker(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Generate from which folder?"))
	b.WriteString("\n\n")

	var list strings.Builder
	for i, f := range s.folders {
		if i == s.folderCursor {
			list.WriteString(theme.Selected.Render("  ▸ " + f))
		} else {
			list.WriteString(theme.Unselected.Render("    " + f))
		}
		list.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))

	return b.String()
}
