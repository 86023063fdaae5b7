package stats

import (
	"math"
	"time"

	"quizcraft/internal/quiz"
)

// FolderStats are the running aggregates for one folder, updated once per
// completed session.
type FolderStats struct {
	TotalQuestions   int    `json:"totalQuestions"`
	CorrectAnswers   int    `json:"correctAnswers"`
	QuizzesCompleted int    `json:"quizzesCompleted"`
	AverageTime      int    `json:"averageTime"`
	BestTime         int    `json:"bestTime"`
	TotalTime        int    `json:"totalTime"`
	LongestStreak    int    `json:"longestStreak"`
	TotalStarred     int    `json:"totalStarred"`
	LastQuizDate     string `json:"lastQuizDate"`
}

// FileStats are the running aggregates for one question-set file.
// BestScore is the best accuracy percentage over all attempts, so a 3/4
// run outranks a 5/10 one.
type FileStats struct {
	TotalQuestions  int     `json:"totalQuestions"`
	CorrectAnswers  int     `json:"correctAnswers"`
	Attempts        int     `json:"attempts"`
	AverageTime     int     `json:"averageTime"`
	BestTime        int     `json:"bestTime"`
	TotalTime       int     `json:"totalTime"`
	LongestStreak   int     `json:"longestStreak"`
	BestScore       float64 `json:"bestScore"`
	LastAttemptDate string  `json:"lastAttemptDate"`
}

// HistoryEntry is one completed session's contribution, appended alongside
// every aggregate update so aggregates can be recomputed from scratch.
type HistoryEntry struct {
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalTime      int       `json:"totalTime"`
	LongestStreak  int       `json:"longestStreak"`
	CompletedAt    time.Time `json:"completedAt"`
}

// accuracyOf is one session's accuracy percentage, rounded to two decimals.
func accuracyOf(e HistoryEntry) float64 {
	if e.TotalQuestions == 0 {
		return 0
	}
	return quiz.Round2(float64(e.CorrectAnswers) / float64(e.TotalQuestions) * 100)
}

// incrementalMean folds one more observation into a running mean,
// rounding to the nearest whole second.
func incrementalMean(oldAvg, oldCount, value int) int {
	return int(math.Round(float64(oldAvg*oldCount+value) / float64(oldCount+1)))
}

// apply folds one session into folder aggregates. Zero-valued stats are
// treated as "first completion": BestTime seeds from the session rather
// than storing an infinity sentinel.
func (f FolderStats) apply(e HistoryEntry) FolderStats {
	updated := FolderStats{
		TotalQuestions:   f.TotalQuestions + e.TotalQuestions,
		CorrectAnswers:   f.CorrectAnswers + e.CorrectAnswers,
		QuizzesCompleted: f.QuizzesCompleted + 1,
		AverageTime:      incrementalMean(f.AverageTime, f.QuizzesCompleted, e.TotalTime),
		BestTime:         e.TotalTime,
		TotalTime:        f.TotalTime + e.TotalTime,
		LongestStreak:    max(f.LongestStreak, e.LongestStreak),
		TotalStarred:     f.TotalStarred,
		LastQuizDate:     e.CompletedAt.Format(time.RFC3339),
	}
	if f.QuizzesCompleted > 0 && f.BestTime < e.TotalTime {
		updated.BestTime = f.BestTime
	}
	return updated
}

func (f FileStats) apply(e HistoryEntry) FileStats {
	updated := FileStats{
		TotalQuestions:  f.TotalQuestions + e.TotalQuestions,
		CorrectAnswers:  f.CorrectAnswers + e.CorrectAnswers,
		Attempts:        f.Attempts + 1,
		AverageTime:     incrementalMean(f.AverageTime, f.Attempts, e.TotalTime),
		BestTime:        e.TotalTime,
		TotalTime:       f.TotalTime + e.TotalTime,
		LongestStreak:   max(f.LongestStreak, e.LongestStreak),
		BestScore:       max(f.BestScore, accuracyOf(e)),
		LastAttemptDate: e.CompletedAt.Format(time.RFC3339),
	}
	if f.Attempts > 0 && f.BestTime < e.TotalTime {
		updated.BestTime = f.BestTime
	}
	return updated
}
