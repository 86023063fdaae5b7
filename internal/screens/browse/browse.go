package browse

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

// entireFolder is the synthetic first entry of the file list.
const entireFolder = "Entire folder"

// questionsLoadedMsg carries a freshly started session, or the load error.
type questionsLoadedMsg struct {
	session *quiz.Session
	err     error
}

// BrowseScreen walks folders, then question-set files, and starts a quiz.
type BrowseScreen struct {
	provider question.Provider
	kv       store.KV
	agg      *stats.Aggregator
	registry *stars.Registry
	sched    *scheduled.Scheduler
	reporter *report.Reporter

	folders []string
	files   []string
	folder  string // empty while picking a folder
	cursor  int
	loading bool
	errMsg  string
}

var _ screen.Screen = (*BrowseScreen)(nil)
var _ screen.KeyHintProvider = (*BrowseScreen)(nil)
var _ screen.EscInterceptor = (*BrowseScreen)(nil)

func New(provider question.Provider, kv store.KV, agg *stats.Aggregator, registry *stars.Registry, sched *scheduled.Scheduler, reporter *report.Reporter) *BrowseScreen {
	folders, err := provider.Folders()
	b := &BrowseScreen{
		provider: provider,
		kv:       kv,
		agg:      agg,
		registry: registry,
		sched:    sched,
		reporter: reporter,
		folders:  folders,
	}
	if err != nil {
		b.errMsg = err.Error()
	}
	return b
}

func (b *BrowseScreen) Init() tea.Cmd {
	return nil
}

func (b *BrowseScreen) Title() string {
	if b.folder != "" {
		return b.folder
	}
	return "Play Quiz"
}

// InterceptEsc claims Esc while a file list is open so Esc steps back to
// the folder list instead of leaving the screen.
func (b *BrowseScreen) InterceptEsc() bool {
	return b.folder != ""
}

func (b *BrowseScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (b *BrowseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		b.loading = false
		if msg.err != nil {
			b.errMsg = msg.err.Error()
			return b, nil
		}
		return b, func() tea.Msg {
			return router.PushScreenMsg{
				Screen: play.New(msg.session, b.kv, b.agg, b.registry, b.sched, b.reporter),
			}
		}

	case tea.KeyMsg:
		return b.handleKey(msg)
	}
	return b, nil
}

func (b *BrowseScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if b.loading {
		return b, nil
	}
	if b.errMsg != "" {
		b.errMsg = ""
		return b, nil
	}

	items := b.items()
	switch msg.String() {
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(items)-1 {
			b.cursor++
		}
	case "esc":
		if b.folder != "" {
			b.folder = ""
			b.files = nil
			b.cursor = 0
		}
	case "enter":
		if len(items) == 0 {
			return b, nil
		}
		if b.folder == "" {
			return b, b.openFolder(items[b.cursor])
		}
		return b, b.startQuiz(items[b.cursor])
	}
	return b, nil
}

func (b *BrowseScreen) items() []string {
	if b.folder == "" {
		return b.folders
	}
	return append([]string{entireFolder}, b.files...)
}

func (b *BrowseScreen) openFolder(folder string) tea.Cmd {
	files, err := b.provider.Files(folder)
	if err != nil {
		b.errMsg = err.Error()
		return nil
	}
	b.folder = folder
	b.files = files
	b.cursor = 0
	return nil
}

// startQuiz loads the selected question set and starts a session.
func (b *BrowseScreen) startQuiz(selection string) tea.Cmd {
	folder := b.folder
	b.loading = true
	return func() tea.Msg {
		ctx := context.Background()

		var qs []question.Question
		var err error
		if selection == entireFolder {
			qs, err = b.provider.FolderQuestions(ctx, folder)
		} else {
			qs, err = b.provider.GetQuestions(ctx, folder, selection)
		}
		if err != nil {
			return questionsLoadedMsg{err: err}
		}

		s, err := quiz.Start(qs, folder, quiz.StartOptions{})
		if err != nil {
			return questionsLoadedMsg{err: err}
		}
		if selection == entireFolder {
			s.SourceFileName = ""
		}
		return questionsLoadedMsg{session: s}
	}
}

func (b *BrowseScreen) View(width, height int) string {
	if b.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n  %s\n\n  Press any key to continue.", b.errMsg))
	}
	if b.loading {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading questions...")
	}

	var heading string
	if b.folder == "" {
		heading = "Choose a folder"
	} else {
		heading = "Choose a question set"
	}

	var body strings.Builder
	body.WriteString("\n")
	body.WriteString(theme.Subtitle.Width(width).Render(heading))
	body.WriteString("\n\n")

	items := b.items()
	if len(items) == 0 {
		body.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
			Render("Nothing here yet. Add question files to your library."))
		return body.String()
	}

	var list strings.Builder
	for i, item := range items {
		if i == b.cursor {
			list.WriteString(theme.Selected.Render("  ▸ " + item))
		} else {
			list.WriteString(theme.Unselected.Render("    " + item))
		}
		list.WriteString("\n")
	}
	body.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))

	return body.String()
}
