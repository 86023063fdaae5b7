package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"quizcraft/internal/question"
	"quizcraft/internal/store"
)

// Status tracks what has happened to a reported question. The engine only
// stores it; triage happens elsewhere.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusFixed    Status = "fixed"
	StatusInvalid  Status = "invalid"
)

// QuestionReport is a user-filed issue against a question, carrying a full
// snapshot of the question as it appeared so the report stays meaningful
// even after the question file changes.
type QuestionReport struct {
	ID        string            `json:"id"`
	Question  question.Question `json:"question"`
	Reason    string            `json:"reason"`
	Status    Status            `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Reporter appends and lists question reports in the store.
type Reporter struct {
	kv store.KV
}

func NewReporter(kv store.KV) *Reporter {
	return &Reporter{kv: kv}
}

// File appends a new pending report for a question.
func (r *Reporter) File(ctx context.Context, q question.Question, reason string) (QuestionReport, error) {
	if reason == "" {
		return QuestionReport{}, errors.New("report reason is empty")
	}

	reports, err := r.List(ctx)
	if err != nil {
		return QuestionReport{}, err
	}

	rep := QuestionReport{
		ID:        uuid.NewString(),
		Question:  q,
		Reason:    reason,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	if err := r.kv.Set(ctx, store.QuestionReportsKey, append(reports, rep)); err != nil {
		return QuestionReport{}, fmt.Errorf("file report: %w", err)
	}
	return rep, nil
}

// List returns all reports, newest first.
func (r *Reporter) List(ctx context.Context) ([]QuestionReport, error) {
	var reports []QuestionReport
	err := r.kv.Get(ctx, store.QuestionReportsKey, &reports)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

// SetStatus updates one report's status.
func (r *Reporter) SetStatus(ctx context.Context, id string, status Status) error {
	switch status {
	case StatusPending, StatusReviewed, StatusFixed, StatusInvalid:
	default:
		return fmt.Errorf("unknown report status %q", status)
	}

	reports, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range reports {
		if reports[i].ID == id {
			reports[i].Status = status
			if err := r.kv.Set(ctx, store.QuestionReportsKey, reports); err != nil {
				return fmt.Errorf("update report %s: %w", id, err)
			}
			return nil
		}
	}
	return fmt.Errorf("report %s: %w", id, store.ErrNotFound)
}
