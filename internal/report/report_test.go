package report

import (
	"context"
	"errors"
	"testing"

	"quizcraft/internal/question"
	"quizcraft/internal/store"
)

func sampleQuestion() question.Question {
	return question.Question{
		ID:   "Math/algebra.json#0",
		Text: "2 + 2?",
		Choices: []question.Choice{
			{Text: "3"},
			{Text: "4", IsCorrect: true},
			{Text: "5"},
			{Text: "22"},
		},
		Folder:   "Math",
		FileName: "algebra.json",
	}
}

func TestFileAndList(t *testing.T) {
	ctx := context.Background()
	r := NewReporter(store.NewMemKV())

	rep, err := r.File(ctx, sampleQuestion(), "answer key looks wrong")
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if rep.ID == "" {
		t.Error("report has no id")
	}
	if rep.Status != StatusPending {
		t.Errorf("status = %q, want pending", rep.Status)
	}

	reports, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("len = %d, want 1", len(reports))
	}
	if reports[0].Question.ID != "Math/algebra.json#0" {
		t.Errorf("question snapshot = %q", reports[0].Question.ID)
	}
	if reports[0].Reason != "answer key looks wrong" {
		t.Errorf("reason = %q", reports[0].Reason)
	}
}

func TestFileRejectsEmptyReason(t *testing.T) {
	r := NewReporter(store.NewMemKV())
	if _, err := r.File(context.Background(), sampleQuestion(), ""); err == nil {
		t.Fatal("expected error for empty reason")
	}
}

func TestReportsAppend(t *testing.T) {
	ctx := context.Background()
	r := NewReporter(store.NewMemKV())

	first, err := r.File(ctx, sampleQuestion(), "first")
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	second, err := r.File(ctx, sampleQuestion(), "second")
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if first.ID == second.ID {
		t.Error("reports share an id")
	}

	reports, _ := r.List(ctx)
	if len(reports) != 2 {
		t.Fatalf("len = %d, want 2", len(reports))
	}
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	r := NewReporter(store.NewMemKV())

	rep, err := r.File(ctx, sampleQuestion(), "typo in question text")
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if err := r.SetStatus(ctx, rep.ID, StatusFixed); err != nil {
		t.Fatalf("set status: %v", err)
	}

	reports, _ := r.List(ctx)
	if reports[0].Status != StatusFixed {
		t.Errorf("status = %q, want fixed", reports[0].Status)
	}

	if err := r.SetStatus(ctx, rep.ID, Status("bogus")); err == nil {
		t.Error("accepted unknown status")
	}
	if err := r.SetStatus(ctx, "missing", StatusReviewed); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing id err = %v, want ErrNotFound", err)
	}
}
