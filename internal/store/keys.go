package store

// Storage key schema. These keys are the stable contract between the
// engine and the persistent store and must not change shape between
// releases, or saved sessions and aggregates become unreachable.

const (
	// SavedQuizPrefix precedes a saved (paused, resumable) session id.
	SavedQuizPrefix = "savedQuiz_"

	// GeneratedQuizPrefix precedes a scheduled quiz id.
	GeneratedQuizPrefix = "generatedQuiz_"

	// CompletedScheduledKey holds the set of completed scheduled-quiz ids.
	CompletedScheduledKey = "completedScheduledQuizzes"

	// QuestionReportsKey holds the appended list of question-issue reports.
	QuestionReportsKey = "questionReports"
)

// SavedQuizKey returns the snapshot key for a saved session id.
func SavedQuizKey(id string) string {
	return SavedQuizPrefix + id
}

// GeneratedQuizKey returns the key for a generated scheduled quiz.
func GeneratedQuizKey(id string) string {
	return GeneratedQuizPrefix + id
}

// StarredKey returns the key holding a folder's starred-question set.
func StarredKey(folder string) string {
	return "starredQuestions_" + folder
}

// FolderStatsKey returns the key for a folder's running aggregate.
func FolderStatsKey(folder string) string {
	return "quizStats_" + folder
}

// FileStatsKey returns the key for a file's running aggregate.
func FileStatsKey(folder, file string) string {
	return "fileStats_" + folder + "_" + file
}

// FolderHistoryKey returns the key for a folder's completed-session history.
func FolderHistoryKey(folder string) string {
	return "quizHistory_" + folder
}

// FileHistoryKey returns the key for a file's completed-session history.
func FileHistoryKey(folder, file string) string {
	return "fileHistory_" + folder + "_" + file
}
