package quiz

import (
	"math"
	"time"

	"quizcraft/internal/question"
)

// Result is the final outcome of a completed session, consumed by the
// summary screen and the statistics aggregator.
type Result struct {
	TotalQuestions   int     `json:"totalQuestions"`
	CorrectAnswers   int     `json:"correctAnswers"`
	IncorrectAnswers int     `json:"incorrectAnswers"`
	Skipped          int     `json:"skipped"`
	Accuracy         float64 `json:"accuracy"`

	// TotalTime is the session clock at completion, in seconds.
	TotalTime int `json:"totalTime"`
	// AverageTimePerQuestion is TotalTime/TotalQuestions rounded to the
	// nearest second.
	AverageTimePerQuestion int `json:"averageTimePerQuestion"`

	LongestStreak int `json:"longestStreak"`

	PerQuestionTimes []int            `json:"perQuestionTimes"`
	Review           []QuestionReview `json:"review"`

	Folder         string    `json:"folder"`
	SourceFileName string    `json:"sourceFileName"`
	QuizID         string    `json:"quizId,omitempty"`
	CompletedAt    time.Time `json:"completedAt"`
}

// QuestionReview pairs a question with how it was answered, for the
// post-quiz review list.
type QuestionReview struct {
	Question question.Question `json:"question"`
	// Answer is the chosen choice text, nil if skipped.
	Answer  *string `json:"answer"`
	Correct bool    `json:"correct"`
	Skipped bool    `json:"skipped"`
	// TimeSpent is the seconds spent on this question.
	TimeSpent int `json:"timeSpent"`
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Result computes the final result tuple. Valid only after completion.
func (s *Session) Result() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Completed {
		return Result{}, &TransitionError{Action: "compute result", State: s.stateName()}
	}

	total := len(s.Questions)
	review := make([]QuestionReview, total)
	incorrect, skipped, streak, longest := 0, 0, 0, 0

	for i, q := range s.Questions {
		r := QuestionReview{
			Question:  q,
			Answer:    s.Answers[i],
			TimeSpent: s.PerQuestionTimes[i],
		}
		switch {
		case s.Answers[i] == nil:
			r.Skipped = true
			skipped++
			streak = 0
		default:
			correct, _ := q.CorrectChoice()
			if *s.Answers[i] == correct {
				r.Correct = true
				streak++
				if streak > longest {
					longest = streak
				}
			} else {
				incorrect++
				streak = 0
			}
		}
		review[i] = r
	}

	avg := 0
	if total > 0 {
		avg = int(math.Round(float64(s.ElapsedSeconds) / float64(total)))
	}

	return Result{
		TotalQuestions:         total,
		CorrectAnswers:         s.Score,
		IncorrectAnswers:       incorrect,
		Skipped:                skipped,
		Accuracy:               Round2(float64(s.Score) / float64(total) * 100),
		TotalTime:              s.ElapsedSeconds,
		AverageTimePerQuestion: avg,
		LongestStreak:          longest,
		PerQuestionTimes:       append([]int(nil), s.PerQuestionTimes...),
		Review:                 review,
		Folder:                 s.Folder,
		SourceFileName:         s.SourceFileName,
		QuizID:                 s.QuizID,
		CompletedAt:            time.Now(),
	}, nil
}
