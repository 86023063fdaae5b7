package quiz

import (
	"errors"
	"fmt"
	"testing"

	"quizcraft/internal/question"
)

// testQuestion builds a question whose correct choice is "right".
func testQuestion(id int) question.Question {
	return question.Question{
		ID:   fmt.Sprintf("Test/set.json#%d", id),
		Text: fmt.Sprintf("Question %d", id),
		Choices: []question.Choice{
			{Text: "wrong-a"},
			{Text: "right", IsCorrect: true},
			{Text: "wrong-b"},
			{Text: "wrong-c"},
		},
		Folder:   "Test",
		FileName: "set.json",
	}
}

func testQuestions(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = testQuestion(i)
	}
	return qs
}

func TestStartRejectsEmptySet(t *testing.T) {
	if _, err := Start(nil, "Test", StartOptions{}); err == nil {
		t.Fatal("expected error for empty question set")
	}
}

func TestCorrectWrongCorrectScenario(t *testing.T) {
	s, err := Start(testQuestions(3), "Test", StartOptions{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	steps := []struct {
		choice      string
		wantCorrect bool
	}{
		{"right", true},
		{"wrong-a", false},
		{"right", true},
	}
	for i, step := range steps {
		s.Tick()
		correct, err := s.SelectAnswer(step.choice)
		if err != nil {
			t.Fatalf("question %d: select: %v", i, err)
		}
		if correct != step.wantCorrect {
			t.Errorf("question %d: correct = %v, want %v", i, correct, step.wantCorrect)
		}
		done, err := s.NextQuestion()
		if err != nil {
			t.Fatalf("question %d: next: %v", i, err)
		}
		if wantDone := i == 2; done != wantDone {
			t.Errorf("question %d: done = %v, want %v", i, done, wantDone)
		}
	}

	if s.Score != 2 {
		t.Errorf("score = %d, want 2", s.Score)
	}

	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.TotalQuestions != 3 || res.CorrectAnswers != 2 || res.IncorrectAnswers != 1 {
		t.Errorf("result = %d/%d/%d, want 3/2/1",
			res.TotalQuestions, res.CorrectAnswers, res.IncorrectAnswers)
	}
	if res.Accuracy != 66.67 {
		t.Errorf("accuracy = %v, want 66.67", res.Accuracy)
	}
	if res.TotalTime != 3 {
		t.Errorf("totalTime = %d, want 3", res.TotalTime)
	}
	if res.AverageTimePerQuestion != 1 {
		t.Errorf("averageTime = %d, want 1", res.AverageTimePerQuestion)
	}
}

func TestScoreMatchesCorrectAnswers(t *testing.T) {
	s, err := Start(testQuestions(5), "Test", StartOptions{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	choices := []string{"right", "wrong-b", "right", "right", "wrong-c"}
	for _, c := range choices {
		if _, err := s.SelectAnswer(c); err != nil {
			t.Fatalf("select: %v", err)
		}
		if _, err := s.NextQuestion(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}

	correct := 0
	for i, a := range s.Answers {
		if a == nil {
			continue
		}
		want, _ := s.Questions[i].CorrectChoice()
		if *a == want {
			correct++
		}
	}
	if s.Score != correct {
		t.Errorf("score = %d, answers say %d", s.Score, correct)
	}
}

func TestSelectAnswerRejectedWhileRevealed(t *testing.T) {
	s, _ := Start(testQuestions(2), "Test", StartOptions{})
	if _, err := s.SelectAnswer("right"); err != nil {
		t.Fatalf("first select: %v", err)
	}

	_, err := s.SelectAnswer("wrong-a")
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("second select error = %v, want TransitionError", err)
	}
	if s.Score != 1 {
		t.Errorf("score changed by rejected select: %d", s.Score)
	}
	if *s.Answers[0] != "right" {
		t.Errorf("answer overwritten: %q", *s.Answers[0])
	}
}

func TestNextRequiresRevealedAnswer(t *testing.T) {
	s, _ := Start(testQuestions(2), "Test", StartOptions{})
	if _, err := s.NextQuestion(); err == nil {
		t.Fatal("expected error advancing without an answer")
	}
	if s.CurrentIndex != 0 {
		t.Errorf("index moved to %d", s.CurrentIndex)
	}
}

func TestSkipRecordsNilAnswerAndTime(t *testing.T) {
	s, _ := Start(testQuestions(2), "Test", StartOptions{})
	s.Tick()
	s.Tick()
	done, err := s.Skip()
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if done {
		t.Fatal("done after first of two questions")
	}
	if s.Answers[0] != nil {
		t.Errorf("skipped answer = %v, want nil", *s.Answers[0])
	}
	if s.PerQuestionTimes[0] != 2 {
		t.Errorf("time = %d, want 2", s.PerQuestionTimes[0])
	}
	if s.Score != 0 {
		t.Errorf("score = %d after skip", s.Score)
	}

	// Second question's clock starts from the rebased mark.
	s.Tick()
	if _, err := s.SelectAnswer("right"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if s.PerQuestionTimes[1] != 1 {
		t.Errorf("second time = %d, want 1", s.PerQuestionTimes[1])
	}
}

func TestSkipCompletesOnLastQuestion(t *testing.T) {
	s, _ := Start(testQuestions(1), "Test", StartOptions{})
	done, err := s.Skip()
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if !done || !s.Completed {
		t.Fatal("expected session completed after skipping last question")
	}
	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Skipped != 1 || res.CorrectAnswers != 0 {
		t.Errorf("result skipped/correct = %d/%d, want 1/0", res.Skipped, res.CorrectAnswers)
	}
}

func TestPauseFreezesClockAndBlocksTransitions(t *testing.T) {
	s, _ := Start(testQuestions(2), "Test", StartOptions{})
	s.Tick()
	if err := s.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}

	s.Tick()
	s.Tick()
	if s.ElapsedSeconds != 1 {
		t.Errorf("clock advanced while paused: %d", s.ElapsedSeconds)
	}

	if _, err := s.SelectAnswer("right"); !errors.Is(err, ErrSessionPaused) {
		t.Errorf("select while paused: %v, want ErrSessionPaused", err)
	}
	if _, err := s.Skip(); !errors.Is(err, ErrSessionPaused) {
		t.Errorf("skip while paused: %v, want ErrSessionPaused", err)
	}

	if err := s.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	s.Tick()
	if s.ElapsedSeconds != 2 {
		t.Errorf("clock = %d after resume+tick, want 2", s.ElapsedSeconds)
	}
	if _, err := s.SelectAnswer("right"); err != nil {
		t.Errorf("select after resume: %v", err)
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	s, _ := Start(testQuestions(1), "Test", StartOptions{})
	if _, err := s.SelectAnswer("right"); err != nil {
		t.Fatalf("select: %v", err)
	}
	done, err := s.NextQuestion()
	if err != nil || !done {
		t.Fatalf("next: done=%v err=%v", done, err)
	}

	if _, err := s.SelectAnswer("right"); err == nil {
		t.Error("select accepted after completion")
	}
	if _, err := s.Skip(); err == nil {
		t.Error("skip accepted after completion")
	}
	if err := s.Pause(); err == nil {
		t.Error("pause accepted after completion")
	}
	s.Tick()
	if s.ElapsedSeconds != 0 {
		t.Errorf("clock advanced after completion: %d", s.ElapsedSeconds)
	}
}

func TestAccessorsTrackTransitions(t *testing.T) {
	s, _ := Start(testQuestions(2), "Test", StartOptions{})

	if idx, total, score := s.Progress(); idx != 0 || total != 2 || score != 0 {
		t.Errorf("progress = %d/%d score %d, want 0/2 score 0", idx, total, score)
	}
	if s.Revealed() || s.SelectedChoice() != nil || s.IsCompleted() {
		t.Error("fresh session should be unrevealed, unselected, incomplete")
	}

	s.Tick()
	if s.Elapsed() != 1 {
		t.Errorf("elapsed = %d, want 1", s.Elapsed())
	}

	if _, err := s.SelectAnswer("right"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if !s.Revealed() {
		t.Error("answer not revealed after selection")
	}
	if got := s.SelectedChoice(); got == nil || *got != "right" {
		t.Errorf("selectedChoice = %v, want right", got)
	}
	if _, _, score := s.Progress(); score != 1 {
		t.Errorf("score = %d, want 1", score)
	}

	if _, err := s.NextQuestion(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := s.Skip(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if !s.IsCompleted() {
		t.Error("session not completed after last question")
	}
}

func TestResultBeforeCompletion(t *testing.T) {
	s, _ := Start(testQuestions(2), "Test", StartOptions{})
	if _, err := s.Result(); err == nil {
		t.Fatal("expected error computing result before completion")
	}
}

func TestLongestStreak(t *testing.T) {
	s, _ := Start(testQuestions(6), "Test", StartOptions{})
	choices := []string{"right", "right", "wrong-a", "right", "right", "right"}
	for _, c := range choices {
		if _, err := s.SelectAnswer(c); err != nil {
			t.Fatalf("select: %v", err)
		}
		if _, err := s.NextQuestion(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.LongestStreak != 3 {
		t.Errorf("longest streak = %d, want 3", res.LongestStreak)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{2.0 / 3.0 * 100, 66.67},
		{100, 100},
		{1.0 / 3.0 * 100, 33.33},
		{0.125 * 100, 12.5},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
