package reports

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizcraft/internal/question"
	"quizcraft/internal/report"
	"quizcraft/internal/screen"
	"quizcraft/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testReportsScreen(t *testing.T, reasons ...string) (*ReportsScreen, *report.Reporter) {
	t.Helper()

	reporter := report.NewReporter(store.NewMemKV())
	q := question.Question{
		Text: "What is 2 + 2?",
		Choices: []question.Choice{
			{Text: "4", IsCorrect: true},
			{Text: "5", IsCorrect: false},
		},
		Folder:   "Math",
		FileName: "arithmetic.json",
	}
	for _, reason := range reasons {
		_, err := reporter.File(context.Background(), q, reason)
		require.NoError(t, err)
	}

	r := New(reporter)
	var scr screen.Screen = r
	scr, _ = scr.Update(r.Init()())
	return scr.(*ReportsScreen), reporter
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name string
		from report.Status
		want report.Status
	}{
		{"pending to reviewed", report.StatusPending, report.StatusReviewed},
		{"reviewed to fixed", report.StatusReviewed, report.StatusFixed},
		{"fixed to invalid", report.StatusFixed, report.StatusInvalid},
		{"invalid back to pending", report.StatusInvalid, report.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextStatus(tt.from))
		})
	}
}

func TestReportsScreen_LoadsReports(t *testing.T) {
	r, _ := testReportsScreen(t, "typo in question", "wrong answer marked correct")
	assert.Len(t, r.reports, 2)
}

func TestReportsScreen_CycleStatus(t *testing.T) {
	r, reporter := testReportsScreen(t, "typo in question")

	var scr screen.Screen = r
	scr, cmd := scr.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)

	// The command persists the new status and reloads the list.
	scr, _ = scr.Update(cmd())
	r = scr.(*ReportsScreen)

	require.Len(t, r.reports, 1)
	assert.Equal(t, report.StatusReviewed, r.reports[0].Status)

	reports, err := reporter.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, report.StatusReviewed, reports[0].Status)
}

func TestReportsScreen_CursorStaysInBounds(t *testing.T) {
	r, _ := testReportsScreen(t, "typo in question", "ambiguous wording")

	var scr screen.Screen = r
	scr, _ = scr.Update(keyPress('j'))
	scr, _ = scr.Update(keyPress('j'))
	r = scr.(*ReportsScreen)
	assert.Equal(t, 1, r.cursor)

	scr, _ = scr.Update(keyPress('k'))
	scr, _ = scr.Update(keyPress('k'))
	r = scr.(*ReportsScreen)
	assert.Equal(t, 0, r.cursor)
}

func TestReportsScreen_View_Empty(t *testing.T) {
	r, _ := testReportsScreen(t)
	assert.NotEmpty(t, r.View(80, 24))
}
