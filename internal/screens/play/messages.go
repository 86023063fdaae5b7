package play

import (
	"time"

	"quizcraft/internal/quiz"
)

// timerTickMsg is sent every second to advance the session clock.
type timerTickMsg time.Time

// sessionDoneMsg is sent after completion bookkeeping (statistics,
// scheduled-quiz tracking) has run. statsErr is non-nil when an aggregate
// write failed; the session itself still completed.
type sessionDoneMsg struct {
	result   quiz.Result
	statsErr error
}

// savedMsg is sent when a save-for-later write finishes.
type savedMsg struct {
	id  string
	err error
}

// reportFiledMsg is sent when a question report write finishes.
type reportFiledMsg struct {
	err error
}
