package home

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
	"quizcraft/internal/screens/browse"
	"quizcraft/internal/screens/reports"
	"quizcraft/internal/screens/saved"
	"quizcraft/internal/screens/schedule"
	"quizcraft/internal/screens/statistics"
	"quizcraft/internal/stars"
	"quizcraft/internal/stats"
	"quizcraft/internal/store"
	"quizcraft/internal/ui/components"
	"quizcraft/internal/ui/theme"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	menu        components.Menu
	folderCount int
	savedCount  int
	quizCount   int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen and wires every sub-screen's dependencies.
func New(provider question.Provider, kv store.KV, agg *stats.Aggregator, registry *stars.Registry, scheduler *scheduled.Scheduler, reporter *report.Reporter) *HomeScreen {
	ctx := context.Background()

	folders, _ := provider.Folders()
	savedQuizzes, _ := quiz.ListSaved(ctx, kv)
	generated, _ := scheduler.List(ctx)

	items := []components.MenuItem{
		{Label: "PLAY QUIZ", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: browse.New(provider, kv, agg, registry, scheduler, reporter),
				}
			}
		}},
		{Label: "SAVED QUIZZES", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: saved.New(kv, agg, registry, scheduler, reporter),
				}
			}
		}},
		{Label: "SCHEDULED QUIZZES", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: schedule.New(provider, kv, agg, registry, scheduler, reporter),
				}
			}
		}},
		{Label: "STATISTICS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: statistics.New(provider, agg, registry),
				}
			}
		}},
		{Label: "QUESTION REPORTS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: reports.New(reporter)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:        components.NewMenu(items),
		folderCount: len(folders),
		savedCount:  len(savedQuizzes),
		quizCount:   len(generated),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("QuizCraft"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Terminal quiz practice"))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("%d folders   %d saved   %d scheduled",
		h.folderCount, h.savedCount, h.quizCount)
	b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render(statsLine))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}
