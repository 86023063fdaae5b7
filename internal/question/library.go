package question

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Library is a filesystem-backed Provider. Each subdirectory of the root
// is a folder; each *.json file inside is a question set.
type Library struct {
	root string
}

// NewLibrary creates a Library over the given root directory.
func NewLibrary(root string) *Library {
	return &Library{root: root}
}

// DefaultLibraryPath resolves the question-set directory:
// 1. QUIZCRAFT_QUESTIONS environment variable
// 2. $XDG_DATA_HOME/quizcraft/questions
// 3. ~/.local/share/quizcraft/questions
func DefaultLibraryPath() (string, error) {
	if p := os.Getenv("QUIZCRAFT_QUESTIONS"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "quizcraft", "questions"), nil
}

// Folders lists subdirectories of the library root, sorted.
func (l *Library) Folders() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("read library root: %w", err)
	}
	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// Files lists the question-set files in a folder, sorted.
func (l *Library) Files(folder string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.root, folder))
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", folder, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// GetQuestions loads, validates, and normalizes one question-set file.
func (l *Library) GetQuestions(ctx context.Context, folder, file string) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.root, folder, file)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question set: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s/%s: %w", folder, file, err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("validate %s/%s: %w", folder, file, err)
	}

	var set rawQuestionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", folder, file, err)
	}

	questions := make([]Question, 0, len(set.Questions))
	for i, rq := range set.Questions {
		q, err := rq.normalize(folder, file, i)
		if err != nil {
			return nil, fmt.Errorf("%s/%s question %d: %w", folder, file, i, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// FolderQuestions concatenates every file's questions in file order.
// Star identifiers ("<folder>-<index>") index into this list.
func (l *Library) FolderQuestions(ctx context.Context, folder string) ([]Question, error) {
	files, err := l.Files(folder)
	if err != nil {
		return nil, err
	}
	var all []Question
	for _, f := range files {
		qs, err := l.GetQuestions(ctx, folder, f)
		if err != nil {
			return nil, err
		}
		all = append(all, qs...)
	}
	return all, nil
}

// rawQuestionSet mirrors the on-disk file shape before normalization.
type rawQuestionSet struct {
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Question      string            `json:"question"`
	Choices       []json.RawMessage `json:"choices"`
	CorrectAnswer *int              `json:"correctAnswer,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
	Category      string            `json:"category,omitempty"`
	Difficulty    string            `json:"difficulty,omitempty"`
}

// normalize converts a raw question into the engine's Question shape,
// resolving legacy string choices and enforcing exactly one correct choice.
func (rq rawQuestion) normalize(folder, file string, index int) (Question, error) {
	choices := make([]Choice, 0, len(rq.Choices))
	for i, rc := range rq.Choices {
		var s string
		if err := json.Unmarshal(rc, &s); err == nil {
			// Legacy form: plain string plus a correctAnswer index.
			choices = append(choices, Choice{
				Text:      s,
				IsCorrect: rq.CorrectAnswer != nil && *rq.CorrectAnswer == i,
			})
			continue
		}
		var c Choice
		if err := json.Unmarshal(rc, &c); err != nil {
			return Question{}, fmt.Errorf("choice %d: %w", i, err)
		}
		choices = append(choices, c)
	}

	correct := 0
	for _, c := range choices {
		if c.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return Question{}, fmt.Errorf("expected exactly one correct choice, found %d", correct)
	}

	return Question{
		ID:          fmt.Sprintf("%s/%s#%d", folder, file, index),
		Text:        rq.Question,
		Choices:     choices,
		Explanation: rq.Explanation,
		Category:    rq.Category,
		Difficulty:  rq.Difficulty,
		Folder:      folder,
		FileName:    file,
	}, nil
}
