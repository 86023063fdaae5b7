package play

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"quizcraft/internal/question"
	"quizcraft/internal/quiz"
	"quizcraft/internal/report"
	"quizcraft/internal/scheduled"
	"quizcraft/internal/screen"
	"quizcraft/internal/stars"
	"quizcraft/internal/stats"
	"quizcraft/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQuestions(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			ID:   "q",
			Text: "Pick the first option",
			Choices: []question.Choice{
				{Text: "right", IsCorrect: true},
				{Text: "wrong", IsCorrect: false},
			},
			Folder:   "Math",
			FileName: "algebra.json",
		}
	}
	return qs
}

func testPlayScreen(t *testing.T, n int) *PlayScreen {
	t.Helper()

	session, err := quiz.Start(testQuestions(n), "Math", quiz.StartOptions{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	kv := store.NewMemKV()
	registry := stars.NewRegistry(kv)
	return New(session, kv, stats.NewAggregator(kv), registry,
		scheduled.NewScheduler(kv, registry), report.NewReporter(kv))
}

func TestPlayScreen_AnswerReveals(t *testing.T) {
	p := testPlayScreen(t, 2)

	var scr screen.Screen = p
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	p = scr.(*PlayScreen)

	if !p.session.Revealed() {
		t.Error("expected answer to be revealed after Enter")
	}
	if _, _, score := p.session.Progress(); score != 1 {
		t.Errorf("score = %d, want 1", score)
	}
	if !p.choices.Revealed {
		t.Error("expected choices component to be revealed")
	}
}

func TestPlayScreen_AdvanceAfterReveal(t *testing.T) {
	p := testPlayScreen(t, 2)

	var scr screen.Screen = p
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	p = scr.(*PlayScreen)

	if index, _, _ := p.session.Progress(); index != 1 {
		t.Errorf("index = %d, want 1", index)
	}
	if p.session.Revealed() {
		t.Error("expected fresh question without a revealed answer")
	}
}

func TestPlayScreen_EscTogglesPause(t *testing.T) {
	p := testPlayScreen(t, 1)

	var scr screen.Screen = p
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	p = scr.(*PlayScreen)
	if !p.session.IsPaused() {
		t.Error("expected session paused after Esc")
	}

	scr, _ = p.Update(specialKey(tea.KeyEscape))
	p = scr.(*PlayScreen)
	if p.session.IsPaused() {
		t.Error("expected session resumed after second Esc")
	}
}

func TestPlayScreen_PausedIgnoresAnswerKeys(t *testing.T) {
	p := testPlayScreen(t, 1)

	var scr screen.Screen = p
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	p = scr.(*PlayScreen)

	if p.session.Revealed() {
		t.Error("expected no answer while paused")
	}
}

func TestPlayScreen_SkipRecordsNoAnswer(t *testing.T) {
	p := testPlayScreen(t, 2)

	var scr screen.Screen = p
	scr, _ = scr.Update(keyPress('s'))
	p = scr.(*PlayScreen)

	if index, _, _ := p.session.Progress(); index != 1 {
		t.Errorf("index = %d, want 1", index)
	}
	if p.session.Answers[0] != nil {
		t.Error("expected skipped question to record no answer")
	}
}

func TestPlayScreen_CompletionEmitsResult(t *testing.T) {
	p := testPlayScreen(t, 1)

	var scr screen.Screen = p
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	scr, cmd := scr.Update(specialKey(tea.KeyEnter))
	p = scr.(*PlayScreen)

	if !p.finishing {
		t.Fatal("expected finishing after the last question")
	}
	if cmd == nil {
		t.Fatal("expected completion command")
	}

	got := cmd()
	msg, ok := got.(sessionDoneMsg)
	if !ok {
		t.Fatalf("expected sessionDoneMsg, got %T", got)
	}
	if msg.statsErr != nil {
		t.Fatalf("statsErr = %v", msg.statsErr)
	}
	if msg.result.CorrectAnswers != 1 {
		t.Errorf("CorrectAnswers = %d, want 1", msg.result.CorrectAnswers)
	}
}

func TestPlayScreen_Title(t *testing.T) {
	p := testPlayScreen(t, 1)
	if p.Title() != "Math" {
		t.Errorf("Title = %q, want %q", p.Title(), "Math")
	}
}

func TestPlayScreen_View_States(t *testing.T) {
	p := testPlayScreen(t, 1)

	if p.View(80, 24) == "" {
		t.Error("expected non-empty question view")
	}

	var scr screen.Screen = p
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	p = scr.(*PlayScreen)
	if p.View(80, 24) == "" {
		t.Error("expected non-empty paused view")
	}
}
