package scheduled

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"quizcraft/internal/question"
	"quizcraft/internal/stars"
	"quizcraft/internal/store"
)

// Quiz is a pre-generated quiz assembled from a folder's starred questions.
// The question pool is snapshotted at generation time so later star changes
// do not alter it.
type Quiz struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Folder    string              `json:"folder"`
	Questions []question.Question `json:"questions"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Scheduler generates quizzes from starred pools and tracks their
// completion.
type Scheduler struct {
	kv       store.KV
	registry *stars.Registry
}

func NewScheduler(kv store.KV, registry *stars.Registry) *Scheduler {
	return &Scheduler{kv: kv, registry: registry}
}

// Generate builds a quiz from the folder's starred questions, drawn from
// the folder's concatenated question list. At most limit questions are
// taken in starred order; limit <= 0 takes every starred question.
func (s *Scheduler) Generate(ctx context.Context, provider question.Provider, folder, name string, limit int) (Quiz, error) {
	indices, err := s.registry.StarredIndices(ctx, folder)
	if err != nil {
		return Quiz{}, err
	}
	if len(indices) == 0 {
		return Quiz{}, fmt.Errorf("no starred questions in %s", folder)
	}

	pool, err := provider.FolderQuestions(ctx, folder)
	if err != nil {
		return Quiz{}, err
	}

	var questions []question.Question
	for _, i := range indices {
		if i < 0 || i >= len(pool) {
			continue
		}
		questions = append(questions, pool[i])
		if limit > 0 && len(questions) == limit {
			break
		}
	}
	if len(questions) == 0 {
		return Quiz{}, fmt.Errorf("starred indices for %s no longer match its questions", folder)
	}

	q := Quiz{
		ID:        uuid.NewString(),
		Name:      name,
		Folder:    folder,
		Questions: questions,
		CreatedAt: time.Now(),
	}
	if q.Name == "" {
		q.Name = fmt.Sprintf("%s starred review", folder)
	}
	if err := s.kv.Set(ctx, store.GeneratedQuizKey(q.ID), q); err != nil {
		return Quiz{}, fmt.Errorf("persist generated quiz: %w", err)
	}
	return q, nil
}

// Get reads one generated quiz.
func (s *Scheduler) Get(ctx context.Context, id string) (Quiz, error) {
	var q Quiz
	if err := s.kv.Get(ctx, store.GeneratedQuizKey(id), &q); err != nil {
		return Quiz{}, fmt.Errorf("generated quiz %s: %w", id, err)
	}
	return q, nil
}

// List returns all generated quizzes, newest first.
func (s *Scheduler) List(ctx context.Context) ([]Quiz, error) {
	keys, err := s.kv.Keys(ctx, store.GeneratedQuizPrefix)
	if err != nil {
		return nil, fmt.Errorf("list generated quizzes: %w", err)
	}
	var quizzes []Quiz
	for _, key := range keys {
		var q Quiz
		if err := s.kv.Get(ctx, key, &q); err != nil {
			continue
		}
		if q.ID == "" {
			q.ID = strings.TrimPrefix(key, store.GeneratedQuizPrefix)
		}
		quizzes = append(quizzes, q)
	}
	sort.Slice(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
	})
	return quizzes, nil
}

// Delete removes a generated quiz along with any session saved for it.
func (s *Scheduler) Delete(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, store.GeneratedQuizKey(id)); err != nil {
		return fmt.Errorf("delete generated quiz %s: %w", id, err)
	}
	if err := s.kv.Delete(ctx, store.SavedQuizKey(id)); err != nil {
		return fmt.Errorf("delete saved session for quiz %s: %w", id, err)
	}
	return nil
}

// MarkCompleted adds the quiz id to the completed set. Marking twice is a
// no-op.
func (s *Scheduler) MarkCompleted(ctx context.Context, id string) error {
	ids, err := s.completed(ctx)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	ids = append(ids, id)
	sort.Strings(ids)
	if err := s.kv.Set(ctx, store.CompletedScheduledKey, ids); err != nil {
		return fmt.Errorf("mark quiz %s completed: %w", id, err)
	}
	return nil
}

// IsCompleted reports whether a quiz id is in the completed set.
func (s *Scheduler) IsCompleted(ctx context.Context, id string) (bool, error) {
	ids, err := s.completed(ctx)
	if err != nil {
		return false, err
	}
	for _, existing := range ids {
		if existing == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Scheduler) completed(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.kv.Get(ctx, store.CompletedScheduledKey, &ids)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("read completed quizzes: %w", err)
	}
	return ids, nil
}
