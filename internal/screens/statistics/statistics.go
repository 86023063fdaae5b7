package statistics

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"quizcraft/internal/question"
	"quizcraft/internal/screen"
	"quizcraft/internal/stars"
	"quizcraft/internal/stats"
	"quizcraft/internal/ui/components"
	"quizcraft/internal/ui/layout"
	"quizcraft/internal/ui/theme"
)

// folderRow is the per-folder display model.
type folderRow struct {
	name    string
	stats   stats.FolderStats
	starred int
}

// fileRow is the per-file display model for the drill-down view.
type fileRow struct {
	name  string
	stats stats.FileStats
}

// foldersLoadedMsg carries the per-folder statistics.
type foldersLoadedMsg struct {
	rows []folderRow
	err  error
}

// filesLoadedMsg carries the per-file statistics of one folder.
type filesLoadedMsg struct {
	folder string
	rows   []fileRow
	err    error
}

// StatisticsScreen shows aggregate statistics per folder, with a
// per-file drill-down.
type StatisticsScreen struct {
	provider question.Provider
	agg      *stats.Aggregator
	registry *stars.Registry

	rows   []folderRow
	cursor int

	// Drill-down state; folder is empty at the top level.
	folder     string
	files      []fileRow
	fileCursor int

	errMsg string
}

var _ screen.Screen = (*StatisticsScreen)(nil)
var _ screen.KeyHintProvider = (*StatisticsScreen)(nil)
var _ screen.EscInterceptor = (*StatisticsScreen)(nil)

func New(provider question.Provider, agg *stats.Aggregator, registry *stars.Registry) *StatisticsScreen {
	return &StatisticsScreen{
		provider: provider,
		agg:      agg,
		registry: registry,
	}
}

func (s *StatisticsScreen) Init() tea.Cmd {
	return s.loadFolders()
}

func (s *StatisticsScreen) Title() string {
	return "Statistics"
}

// InterceptEsc keeps Esc local while a folder drill-down is open.
func (s *StatisticsScreen) InterceptEsc() bool {
	return s.folder != ""
}

func (s *StatisticsScreen) KeyHints() []layout.KeyHint {
	if s.folder != "" {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "R", Description: "Recompute"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Files"},
		{Key: "R", Description: "Recompute"},
		{Key: "X", Description: "Reset"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatisticsScreen) loadFolders() tea.Cmd {
	provider := s.provider
	agg := s.agg
	registry := s.registry
	return func() tea.Msg {
		ctx := context.Background()
		folders, err := provider.Folders()
		if err != nil {
			return foldersLoadedMsg{err: err}
		}
		rows := make([]folderRow, 0, len(folders))
		for _, f := range folders {
			fs, err := agg.Folder(ctx, f)
			if err != nil {
				return foldersLoadedMsg{err: err}
			}
			starred, err := registry.Count(ctx, f)
			if err != nil {
				return foldersLoadedMsg{err: err}
			}
			rows = append(rows, folderRow{name: f, stats: fs, starred: starred})
		}
		return foldersLoadedMsg{rows: rows}
	}
}

func (s *StatisticsScreen) loadFiles(folder string) tea.Cmd {
	provider := s.provider
	agg := s.agg
	return func() tea.Msg {
		ctx := context.Background()
		files, err := provider.Files(folder)
		if err != nil {
			return filesLoadedMsg{err: err}
		}
		rows := make([]fileRow, 0, len(files))
		for _, f := range files {
			fs, err := agg.File(ctx, folder, f)
			if err != nil {
				return filesLoadedMsg{err: err}
			}
			rows = append(rows, fileRow{name: f, stats: fs})
		}
		return filesLoadedMsg{folder: folder, rows: rows}
	}
}

func (s *StatisticsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case foldersLoadedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.rows = msg.rows
		if s.cursor >= len(s.rows) && s.cursor > 0 {
			s.cursor = len(s.rows) - 1
		}
		return s, nil

	case filesLoadedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.folder = msg.folder
		s.files = msg.rows
		s.fileCursor = 0
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *StatisticsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		s.errMsg = ""
		return s, nil
	}

	if s.folder != "" {
		switch key {
		case "esc":
			s.folder = ""
			s.files = nil
			return s, s.loadFolders()
		case "up", "k":
			if s.fileCursor > 0 {
				s.fileCursor--
			}
		case "down", "j":
			if s.fileCursor < len(s.files)-1 {
				s.fileCursor++
			}
		case "r":
			if len(s.files) > 0 {
				return s, s.recomputeFile(s.folder, s.files[s.fileCursor].name)
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
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
	case "enter":
		if len(s.rows) > 0 {
			return s, s.loadFiles(s.rows[s.cursor].name)
		}
	case "r":
		if len(s.rows) > 0 {
			return s, s.recomputeFolder(s.rows[s.cursor].name)
		}
	case "x":
		if len(s.rows) > 0 {
			return s, s.resetFolder(s.rows[s.cursor].name)
		}
	}
	return s, nil
}

func (s *StatisticsScreen) recomputeFolder(folder string) tea.Cmd {
	agg := s.agg
	load := s.loadFolders()
	return func() tea.Msg {
		if _, err := agg.RecomputeFolder(context.Background(), folder); err != nil {
			return foldersLoadedMsg{err: err}
		}
		return load()
	}
}

func (s *StatisticsScreen) recomputeFile(folder, file string) tea.Cmd {
	agg := s.agg
	load := s.loadFiles(folder)
	return func() tea.Msg {
		if _, err := agg.RecomputeFile(context.Background(), folder, file); err != nil {
			return filesLoadedMsg{err: err}
		}
		return load()
	}
}

func (s *StatisticsScreen) resetFolder(folder string) tea.Cmd {
	agg := s.agg
	load := s.loadFolders()
	return func() tea.Msg {
		if err := agg.ResetFolder(context.Background(), folder); err != nil {
			return foldersLoadedMsg{err: err}
		}
		return load()
	}
}

func (s *StatisticsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n  %s\n\n  Press any key to continue.", s.errMsg))
	}
	if s.folder != "" {
		return s.renderFiles(width)
	}
	return s.renderFolders(width)
}

func (s *StatisticsScreen) renderFolders(width int) string {
	var b strings.Builder
	b.WriteString("\n")

	if len(s.rows) == 0 {
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
			Render("No question folders found."))
		return b.String()
	}

	var list strings.Builder
	for i, row := range s.rows {
		fs := row.stats

		var acc float64
		if fs.TotalQuestions > 0 {
			acc = float64(fs.CorrectAnswers) / float64(fs.TotalQuestions)
		}
		bar := components.NewProgressBar("", acc, false, 16)

		line := fmt.Sprintf("%-20s %s %3.0f%%  %2d quizzes  avg %3ds  best %3ds  ★%d",
			row.name, bar.View(), acc*100,
			fs.QuizzesCompleted, fs.AverageTime, fs.BestTime, row.starred)

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

func (s *StatisticsScreen) renderFiles(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(s.folder))
	b.WriteString("\n\n")

	if len(s.files) == 0 {
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
			Render("No question files in this folder."))
		return b.String()
	}

	var list strings.Builder
	for i, row := range s.files {
		fs := row.stats

		var acc float64
		if fs.TotalQuestions > 0 {
			acc = float64(fs.CorrectAnswers) / float64(fs.TotalQuestions)
		}

		line := fmt.Sprintf("%-28s %3.0f%%  %2d attempts  best score %3.0f%%  avg %3ds",
			row.name, acc*100, fs.Attempts, fs.BestScore, fs.AverageTime)

		if i == s.fileCursor {
			list.WriteString(theme.Selected.Render("  ▸ " + line))
		} else {
			list.WriteString(theme.Unselected.Render("    " + line))
		}
		list.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))

	return b.String()
}
