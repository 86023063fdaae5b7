package scheduled

import (
	"context"
	"fmt"
	"testing"

	"quizcraft/internal/question"
	"quizcraft/internal/stars"
	"quizcraft/internal/store"
)

// fakeProvider serves a fixed per-folder question list.
type fakeProvider struct {
	questions map[string][]question.Question
}

func (p *fakeProvider) Folders() ([]string, error) {
	var folders []string
	for f := range p.questions {
		folders = append(folders, f)
	}
	return folders, nil
}

func (p *fakeProvider) Files(folder string) ([]string, error) {
	return []string{"set.json"}, nil
}

func (p *fakeProvider) GetQuestions(ctx context.Context, folder, file string) ([]question.Question, error) {
	return p.questions[folder], nil
}

func (p *fakeProvider) FolderQuestions(ctx context.Context, folder string) ([]question.Question, error) {
	return p.questions[folder], nil
}

func pool(folder string, n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			ID:   fmt.Sprintf("%s/set.json#%d", folder, i),
			Text: fmt.Sprintf("Question %d", i),
			Choices: []question.Choice{
				{Text: "a", IsCorrect: true},
				{Text: "b"}, {Text: "c"}, {Text: "d"},
			},
			Folder:   folder,
			FileName: "set.json",
		}
	}
	return qs
}

func newFixture(t *testing.T, starredIndices []int) (*Scheduler, *fakeProvider, store.KV) {
	t.Helper()
	kv := store.NewMemKV()
	registry := stars.NewRegistry(kv)
	for _, i := range starredIndices {
		if _, err := registry.Toggle(context.Background(), "Math", i); err != nil {
			t.Fatalf("star %d: %v", i, err)
		}
	}
	provider := &fakeProvider{questions: map[string][]question.Question{
		"Math": pool("Math", 10),
	}}
	return NewScheduler(kv, registry), provider, kv
}

func TestGenerateFromStarredPool(t *testing.T) {
	ctx := context.Background()
	sched, provider, _ := newFixture(t, []int{8, 1, 4})

	q, err := sched.Generate(ctx, provider, "Math", "weekly review", 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if q.ID == "" {
		t.Error("generated quiz has no id")
	}
	if q.Name != "weekly review" || q.Folder != "Math" {
		t.Errorf("quiz = %+v", q)
	}
	if len(q.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(q.Questions))
	}
	// Drawn in starred-index order.
	if q.Questions[0].ID != "Math/set.json#1" || q.Questions[2].ID != "Math/set.json#8" {
		t.Errorf("order = [%s ... %s]", q.Questions[0].ID, q.Questions[2].ID)
	}

	got, err := sched.Get(ctx, q.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != q.ID || len(got.Questions) != 3 {
		t.Errorf("reloaded quiz = %+v", got)
	}
}

func TestGenerateHonorsLimit(t *testing.T) {
	ctx := context.Background()
	sched, provider, _ := newFixture(t, []int{0, 2, 4, 6})

	q, err := sched.Generate(ctx, provider, "Math", "", 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(q.Questions) != 2 {
		t.Errorf("questions = %d, want 2", len(q.Questions))
	}
	if q.Name == "" {
		t.Error("default name not applied")
	}
}

func TestGenerateRequiresStars(t *testing.T) {
	ctx := context.Background()
	sched, provider, _ := newFixture(t, nil)

	if _, err := sched.Generate(ctx, provider, "Math", "", 0); err == nil {
		t.Fatal("expected error with no starred questions")
	}
}

func TestGenerateSkipsStaleIndices(t *testing.T) {
	ctx := context.Background()
	sched, provider, _ := newFixture(t, []int{1, 42})

	q, err := sched.Generate(ctx, provider, "Math", "", 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(q.Questions) != 1 {
		t.Errorf("questions = %d, want 1 (stale index dropped)", len(q.Questions))
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	sched, provider, _ := newFixture(t, []int{0})

	for _, name := range []string{"first", "second"} {
		if _, err := sched.Generate(ctx, provider, "Math", name, 0); err != nil {
			t.Fatalf("generate %s: %v", name, err)
		}
	}

	quizzes, err := sched.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 2 {
		t.Fatalf("len = %d, want 2", len(quizzes))
	}
	if quizzes[0].CreatedAt.Before(quizzes[1].CreatedAt) {
		t.Errorf("not newest first: %s then %s", quizzes[0].Name, quizzes[1].Name)
	}
}

func TestDeleteRemovesQuizAndSavedSession(t *testing.T) {
	ctx := context.Background()
	sched, provider, kv := newFixture(t, []int{0})

	q, err := sched.Generate(ctx, provider, "Math", "", 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// A session saved mid-way through this quiz.
	if err := kv.Set(ctx, store.SavedQuizKey(q.ID), map[string]any{"id": q.ID}); err != nil {
		t.Fatalf("set saved: %v", err)
	}

	if err := sched.Delete(ctx, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := sched.Get(ctx, q.ID); err == nil {
		t.Error("quiz survives delete")
	}
	if keys, _ := kv.Keys(ctx, store.SavedQuizKey(q.ID)); len(keys) != 0 {
		t.Error("saved session survives delete")
	}
}

func TestCompletionTracking(t *testing.T) {
	ctx := context.Background()
	sched, _, _ := newFixture(t, nil)

	done, err := sched.IsCompleted(ctx, "abc")
	if err != nil {
		t.Fatalf("is completed: %v", err)
	}
	if done {
		t.Error("unknown quiz reported completed")
	}

	if err := sched.MarkCompleted(ctx, "abc"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := sched.MarkCompleted(ctx, "abc"); err != nil {
		t.Fatalf("second mark: %v", err)
	}

	done, err = sched.IsCompleted(ctx, "abc")
	if err != nil {
		t.Fatalf("is completed: %v", err)
	}
	if !done {
		t.Error("completed quiz not reported")
	}
}
