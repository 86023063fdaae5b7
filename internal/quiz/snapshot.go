package quiz

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"quizcraft/internal/question"
	"quizcraft/internal/store"
)

// sessionPayload is the serialized form of a Session. It mirrors the
// session's fields one to one so a resumed session is observably identical
// to the one that was saved.
type sessionPayload struct {
	ID                   string              `json:"id"`
	Questions            []question.Question `json:"questions"`
	CurrentIndex         int                 `json:"currentIndex"`
	Answers              []*string           `json:"answers"`
	PerQuestionTimes     []int               `json:"perQuestionTimes"`
	Score                int                 `json:"score"`
	ElapsedSeconds       int                 `json:"elapsedSeconds"`
	QuestionStartElapsed int                 `json:"questionStartElapsed"`
	StartedAt            time.Time           `json:"startedAt"`
	QuestionStartedAt    time.Time           `json:"questionStartedAt"`
	Paused               bool                `json:"paused"`
	AnswerRevealed       bool                `json:"answerRevealed"`
	Completed            bool                `json:"completed"`
	SelectedOption       *string             `json:"selectedOption"`
	Folder               string              `json:"folder"`
	SourceFileName       string              `json:"sourceFileName"`
	QuizID               string              `json:"quizId,omitempty"`
	SavedAt              time.Time           `json:"savedAt"`
}

// SavedQuiz is a saved-session listing entry.
type SavedQuiz struct {
	ID             string
	Folder         string
	SourceFileName string
	CurrentIndex   int
	TotalQuestions int
	Score          int
	SavedAt        time.Time
}

// SaveForLater writes the full session to the store under its id, minting
// a time-based id on first save. The serialized copy always carries
// paused=true so the clock cannot run between save and resume. The live
// session is left untouched apart from the minted id.
func (s *Session) SaveForLater(ctx context.Context, kv store.KV) (string, error) {
	s.mu.Lock()

	if s.Completed {
		s.mu.Unlock()
		return "", &TransitionError{Action: "save", State: s.stateName()}
	}
	if s.ID == "" {
		s.ID = newSaveID()
	}

	// kv.Set marshals after the lock is released, so the payload must not
	// alias the live session's slices. Answer strings are never mutated in
	// place, fresh pointers are assigned on each selection.
	questions := make([]question.Question, len(s.Questions))
	copy(questions, s.Questions)
	answers := make([]*string, len(s.Answers))
	copy(answers, s.Answers)
	times := make([]int, len(s.PerQuestionTimes))
	copy(times, s.PerQuestionTimes)

	p := sessionPayload{
		ID:                   s.ID,
		Questions:            questions,
		CurrentIndex:         s.CurrentIndex,
		Answers:              answers,
		PerQuestionTimes:     times,
		Score:                s.Score,
		ElapsedSeconds:       s.ElapsedSeconds,
		QuestionStartElapsed: s.QuestionStartElapsed,
		StartedAt:            s.StartedAt,
		QuestionStartedAt:    s.QuestionStartedAt,
		Paused:               true,
		AnswerRevealed:       s.AnswerRevealed,
		Completed:            s.Completed,
		SelectedOption:       s.SelectedOption,
		Folder:               s.Folder,
		SourceFileName:       s.SourceFileName,
		QuizID:               s.QuizID,
		SavedAt:              time.Now(),
	}
	id := s.ID
	s.mu.Unlock()

	if err := kv.Set(ctx, store.SavedQuizKey(id), p); err != nil {
		return "", fmt.Errorf("save session %s: %w", id, err)
	}
	return id, nil
}

// newSaveID mints a base36 millisecond timestamp, the same id shape used
// for saved sessions since the first release.
func newSaveID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36)
}

// Load reads a saved session back exactly as stored, paused flag included.
func Load(ctx context.Context, kv store.KV, id string) (*Session, error) {
	var p sessionPayload
	err := kv.Get(ctx, store.SavedQuizKey(id), &p)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("session %s: %w", id, ErrSnapshotNotFound)
	case err != nil:
		if errors.Is(err, store.ErrUnavailable) {
			return nil, fmt.Errorf("load session %s: %w", id, err)
		}
		return nil, fmt.Errorf("session %s: %w", id, ErrCorruptSnapshot)
	}

	if len(p.Questions) == 0 ||
		len(p.Answers) != len(p.Questions) ||
		len(p.PerQuestionTimes) != len(p.Questions) ||
		p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Questions) {
		return nil, fmt.Errorf("session %s: %w", id, ErrCorruptSnapshot)
	}

	return &Session{
		ID:                   p.ID,
		Questions:            p.Questions,
		CurrentIndex:         p.CurrentIndex,
		Answers:              p.Answers,
		PerQuestionTimes:     p.PerQuestionTimes,
		Score:                p.Score,
		ElapsedSeconds:       p.ElapsedSeconds,
		QuestionStartElapsed: p.QuestionStartElapsed,
		StartedAt:            p.StartedAt,
		QuestionStartedAt:    p.QuestionStartedAt,
		Paused:               p.Paused,
		AnswerRevealed:       p.AnswerRevealed,
		Completed:            p.Completed,
		SelectedOption:       p.SelectedOption,
		Folder:               p.Folder,
		SourceFileName:       p.SourceFileName,
		QuizID:               p.QuizID,
	}, nil
}

// ResumeFromSnapshot loads a saved session and unpauses it so play can
// continue immediately.
func ResumeFromSnapshot(ctx context.Context, kv store.KV, id string) (*Session, error) {
	s, err := Load(ctx, kv, id)
	if err != nil {
		return nil, err
	}
	s.Paused = false
	return s, nil
}

// ListSaved returns all saved sessions, newest first. Corrupt entries are
// skipped rather than failing the whole listing.
func ListSaved(ctx context.Context, kv store.KV) ([]SavedQuiz, error) {
	keys, err := kv.Keys(ctx, store.SavedQuizPrefix)
	if err != nil {
		return nil, fmt.Errorf("list saved sessions: %w", err)
	}

	var saved []SavedQuiz
	for _, key := range keys {
		var p sessionPayload
		if err := kv.Get(ctx, key, &p); err != nil {
			continue
		}
		if len(p.Questions) == 0 {
			continue
		}
		saved = append(saved, SavedQuiz{
			ID:             strings.TrimPrefix(key, store.SavedQuizPrefix),
			Folder:         p.Folder,
			SourceFileName: p.SourceFileName,
			CurrentIndex:   p.CurrentIndex,
			TotalQuestions: len(p.Questions),
			Score:          p.Score,
			SavedAt:        p.SavedAt,
		})
	}
	sort.Slice(saved, func(i, j int) bool {
		return saved[i].SavedAt.After(saved[j].SavedAt)
	})
	return saved, nil
}

// DeleteSaved removes a saved session. Deleting an absent id is a no-op.
func DeleteSaved(ctx context.Context, kv store.KV, id string) error {
	if err := kv.Delete(ctx, store.SavedQuizKey(id)); err != nil {
		return fmt.Errorf("delete saved session %s: %w", id, err)
	}
	return nil
}
