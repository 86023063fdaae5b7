package quiz

import (
	"sync"
	"time"

	"quizcraft/internal/question"
)

// Session is one quiz attempt from start to completion or save-and-exit.
// All mutation goes through its methods; the mutex keeps timer ticks and
// user-driven transitions from interleaving.
//
// Timing discipline: ElapsedSeconds is the tick-driven session clock and is
// authoritative for every statistic. It freezes while paused and survives
// save/resume exactly. StartedAt and QuestionStartedAt are wall-clock
// provenance markers only; they never feed aggregates, so a session resumed
// days later cannot inflate its recorded times.
type Session struct {
	mu sync.Mutex

	// ID is empty until the session is first saved (or was supplied as a
	// scheduled-quiz id at start).
	ID string `json:"id"`

	Questions []question.Question `json:"questions"`

	CurrentIndex int `json:"currentIndex"`

	// Answers holds one slot per question: the chosen choice text, or nil
	// for skipped / not-yet-answered.
	Answers []*string `json:"answers"`

	// PerQuestionTimes holds the seconds spent on each question, recorded
	// when it was answered or skipped.
	PerQuestionTimes []int `json:"perQuestionTimes"`

	Score int `json:"score"`

	// ElapsedSeconds is the cumulative session clock, advanced by Tick.
	ElapsedSeconds int `json:"elapsedSeconds"`

	// QuestionStartElapsed is ElapsedSeconds at the moment the current
	// question became visible.
	QuestionStartElapsed int `json:"questionStartElapsed"`

	StartedAt         time.Time `json:"startedAt"`
	QuestionStartedAt time.Time `json:"questionStartedAt"`

	Paused         bool `json:"paused"`
	AnswerRevealed bool `json:"answerRevealed"`
	Completed      bool `json:"completed"`

	// SelectedOption is the chosen choice text for the visible question.
	SelectedOption *string `json:"selectedOption"`

	Folder         string `json:"folder"`
	SourceFileName string `json:"sourceFileName"`

	// QuizID links a scheduled quiz to its completion bookkeeping.
	QuizID string `json:"quizId,omitempty"`
}

// StartOptions carries optional provenance for a new session.
type StartOptions struct {
	// QuizID marks the session as a scheduled quiz.
	QuizID string
}

// Start creates a new active session over the given questions.
func Start(questions []question.Question, folder string, opts StartOptions) (*Session, error) {
	if len(questions) == 0 {
		return nil, &TransitionError{Action: "start", State: "empty question set"}
	}

	now := time.Now()
	fileName := questions[0].FileName

	return &Session{
		ID:                opts.QuizID,
		Questions:         questions,
		Answers:           make([]*string, len(questions)),
		PerQuestionTimes:  make([]int, len(questions)),
		StartedAt:         now,
		QuestionStartedAt: now,
		Folder:            folder,
		SourceFileName:    fileName,
		QuizID:            opts.QuizID,
	}, nil
}

// stateName describes the current sub-state for transition errors.
func (s *Session) stateName() string {
	switch {
	case s.Completed:
		return "completed"
	case s.Paused:
		return "paused"
	case s.AnswerRevealed:
		return "revealing the answer"
	default:
		return "active"
	}
}

// Tick advances the session clock by one second. No-op while paused or
// after completion.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Paused || s.Completed {
		return
	}
	s.ElapsedSeconds++
}

// SelectAnswer records the chosen choice for the current question, reveals
// the answer, and updates the score. Valid only while active with the
// answer not yet revealed. Returns whether the choice was correct.
func (s *Session) SelectAnswer(choice string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Completed {
		return false, &TransitionError{Action: "select answer", State: s.stateName()}
	}
	if s.Paused {
		return false, ErrSessionPaused
	}
	if s.AnswerRevealed {
		return false, &TransitionError{Action: "select answer", State: s.stateName()}
	}

	s.Answers[s.CurrentIndex] = &choice
	s.PerQuestionTimes[s.CurrentIndex] = s.ElapsedSeconds - s.QuestionStartElapsed
	s.SelectedOption = &choice
	s.AnswerRevealed = true

	correct, _ := s.Questions[s.CurrentIndex].CorrectChoice()
	if choice == correct {
		s.Score++
		return true, nil
	}
	return false, nil
}

// NextQuestion advances past the current (revealed) question. Completes
// the session when the last question was just answered; returns true on
// completion.
func (s *Session) NextQuestion() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Completed {
		return false, &TransitionError{Action: "advance", State: s.stateName()}
	}
	if s.Paused {
		return false, ErrSessionPaused
	}
	if !s.AnswerRevealed {
		return false, &TransitionError{Action: "advance", State: s.stateName()}
	}
	return s.advance(), nil
}

// Skip records the current question as unanswered and advances, completing
// the session if it was the last question. Valid only while active with no
// answer revealed.
func (s *Session) Skip() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Completed {
		return false, &TransitionError{Action: "skip", State: s.stateName()}
	}
	if s.Paused {
		return false, ErrSessionPaused
	}
	if s.AnswerRevealed {
		return false, &TransitionError{Action: "skip", State: s.stateName()}
	}

	s.Answers[s.CurrentIndex] = nil
	s.PerQuestionTimes[s.CurrentIndex] = s.ElapsedSeconds - s.QuestionStartElapsed
	return s.advance(), nil
}

// advance moves to the next question or completes the session.
// Caller holds the mutex.
func (s *Session) advance() bool {
	if s.CurrentIndex+1 < len(s.Questions) {
		s.CurrentIndex++
		s.AnswerRevealed = false
		s.SelectedOption = nil
		s.QuestionStartedAt = time.Now()
		s.QuestionStartElapsed = s.ElapsedSeconds
		return false
	}
	s.Completed = true
	s.AnswerRevealed = false
	s.SelectedOption = nil
	return true
}

// Pause freezes the session clock and rejects transitions until Resume.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Completed {
		return &TransitionError{Action: "pause", State: s.stateName()}
	}
	s.Paused = true
	return nil
}

// Resume unfreezes a paused session.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Completed {
		return &TransitionError{Action: "resume", State: s.stateName()}
	}
	s.Paused = false
	return nil
}

// TogglePause flips between paused and running.
func (s *Session) TogglePause() error {
	s.mu.Lock()
	paused := s.Paused
	s.mu.Unlock()
	if paused {
		return s.Resume()
	}
	return s.Pause()
}

// IsPaused reports whether the session is paused.
func (s *Session) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Paused
}

// Current returns the visible question.
func (s *Session) Current() question.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Questions[s.CurrentIndex]
}

// Elapsed reports the session clock in seconds.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ElapsedSeconds
}

// Revealed reports whether the current question's answer is showing.
func (s *Session) Revealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.AnswerRevealed
}

// SelectedChoice returns the chosen choice text for the visible question,
// or nil before a selection.
func (s *Session) SelectedChoice() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SelectedOption
}

// IsCompleted reports whether the session has finished.
func (s *Session) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Completed
}

// Progress reports the current question index, the question count, and
// the score as one consistent observation.
func (s *Session) Progress() (index, total, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CurrentIndex, len(s.Questions), s.Score
}
