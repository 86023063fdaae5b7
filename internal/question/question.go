package question

import "context"

// Choice is a single answer option. The provider always normalizes choices
// to this shape; the engine never infers correctness from letter codes or
// option positions.
type Choice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is one multiple-choice question. Immutable for the duration of
// a session; owned by the provider that loaded it.
type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Choices     []Choice `json:"choices"`
	Explanation string   `json:"explanation,omitempty"`
	Category    string   `json:"category,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`

	// Provenance for statistics rollups.
	Folder   string `json:"folder"`
	FileName string `json:"fileName"`
}

// CorrectChoice returns the text of the correct choice.
// The second return is false if the question has no correct choice,
// which a validated question never does.
func (q Question) CorrectChoice() (string, bool) {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return c.Text, true
		}
	}
	return "", false
}

// Provider supplies validated, ordered question lists to the session engine.
type Provider interface {
	// Folders lists the available question folders.
	Folders() ([]string, error)

	// Files lists the question-set files within a folder.
	Files(folder string) ([]string, error)

	// GetQuestions returns the ordered questions of one file, validated
	// and normalized.
	GetQuestions(ctx context.Context, folder, file string) ([]Question, error)

	// FolderQuestions returns every question in a folder, concatenated in
	// file order. Star identifiers index into this list.
	FolderQuestions(ctx context.Context, folder string) ([]Question, error)
}
