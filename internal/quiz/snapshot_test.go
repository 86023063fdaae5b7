package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"quizcraft/internal/store"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()

	s, _ := Start(testQuestions(3), "Test", StartOptions{})
	s.Tick()
	s.Tick()
	if _, err := s.SelectAnswer("right"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := s.NextQuestion(); err != nil {
		t.Fatalf("next: %v", err)
	}
	s.Tick()

	id, err := s.SaveForLater(ctx, kv)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("save minted no id")
	}
	if s.ID != id {
		t.Errorf("session id = %q, want %q", s.ID, id)
	}

	loaded, err := Load(ctx, kv, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Loaded sessions come back paused regardless of the live session's state.
	if !loaded.Paused {
		t.Error("loaded session not paused")
	}

	if loaded.CurrentIndex != s.CurrentIndex ||
		loaded.Score != s.Score ||
		loaded.ElapsedSeconds != s.ElapsedSeconds ||
		loaded.QuestionStartElapsed != s.QuestionStartElapsed ||
		loaded.AnswerRevealed != s.AnswerRevealed ||
		loaded.Folder != s.Folder ||
		loaded.SourceFileName != s.SourceFileName {
		t.Errorf("loaded session diverges: %+v", loaded)
	}
	if !reflect.DeepEqual(loaded.PerQuestionTimes, s.PerQuestionTimes) {
		t.Errorf("perQuestionTimes = %v, want %v", loaded.PerQuestionTimes, s.PerQuestionTimes)
	}
	if len(loaded.Answers) != 3 || loaded.Answers[0] == nil || *loaded.Answers[0] != "right" {
		t.Errorf("answers = %v", loaded.Answers)
	}
	if len(loaded.Questions) != 3 || loaded.Questions[0].ID != s.Questions[0].ID {
		t.Error("questions not restored")
	}
}

func TestSaveKeepsExistingID(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()

	s, _ := Start(testQuestions(1), "Test", StartOptions{})
	first, err := s.SaveForLater(ctx, kv)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	s.Tick()
	second, err := s.SaveForLater(ctx, kv)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first != second {
		t.Errorf("id changed across saves: %q -> %q", first, second)
	}
	keys, _ := kv.Keys(ctx, store.SavedQuizPrefix)
	if len(keys) != 1 {
		t.Errorf("saved entries = %d, want 1", len(keys))
	}
}

// deferredKV records the last Set value and only marshals it on flush,
// standing in for a Set whose serialization happens off the caller's
// goroutine.
type deferredKV struct {
	store.KV
	key   string
	value any
}

func (d *deferredKV) Set(_ context.Context, key string, value any) error {
	d.key = key
	d.value = value
	return nil
}

func (d *deferredKV) flush(t *testing.T) {
	t.Helper()
	if err := d.KV.Set(context.Background(), d.key, d.value); err != nil {
		t.Fatalf("flush %s: %v", d.key, err)
	}
}

func TestSavedSnapshotIsolatedFromLiveSession(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemKV()
	kv := &deferredKV{KV: mem}

	s, _ := Start(testQuestions(3), "Test", StartOptions{})
	s.Tick()
	id, err := s.SaveForLater(ctx, kv)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Keep playing before the payload gets serialized. The snapshot must
	// still show the session as it was at save time.
	if _, err := s.SelectAnswer("right"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := s.NextQuestion(); err != nil {
		t.Fatalf("next: %v", err)
	}
	kv.flush(t)

	loaded, err := Load(ctx, mem, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Answers[0] != nil {
		t.Errorf("answers[0] = %q, want unanswered", *loaded.Answers[0])
	}
	if loaded.Score != 0 || loaded.CurrentIndex != 0 {
		t.Errorf("score/index = %d/%d, want 0/0", loaded.Score, loaded.CurrentIndex)
	}
	if loaded.PerQuestionTimes[0] != 0 {
		t.Errorf("perQuestionTimes[0] = %d, want 0", loaded.PerQuestionTimes[0])
	}
}

func TestSaveRejectsCompletedSession(t *testing.T) {
	s, _ := Start(testQuestions(1), "Test", StartOptions{})
	if _, err := s.Skip(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if _, err := s.SaveForLater(context.Background(), store.NewMemKV()); err == nil {
		t.Fatal("expected error saving a completed session")
	}
}

func TestResumeFromSnapshotUnpauses(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()

	s, _ := Start(testQuestions(2), "Test", StartOptions{})
	s.Tick()
	id, err := s.SaveForLater(ctx, kv)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	resumed, err := ResumeFromSnapshot(ctx, kv, id)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.Paused {
		t.Error("resumed session still paused")
	}
	resumed.Tick()
	if resumed.ElapsedSeconds != 2 {
		t.Errorf("clock = %d after resume+tick, want 2", resumed.ElapsedSeconds)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	_, err := Load(context.Background(), store.NewMemKV(), "nope")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestLoadCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()

	// Structurally valid JSON that is not a valid session.
	setRaw(t, kv, store.SavedQuizKey("bad"), `{"questions": []}`)
	if _, err := Load(ctx, kv, "bad"); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("empty questions: err = %v, want ErrCorruptSnapshot", err)
	}

	// Answer slots out of step with the question list.
	setPayload(t, kv, "short", func(p *sessionPayload) {
		p.Answers = p.Answers[:1]
	})
	if _, err := Load(ctx, kv, "short"); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("short answers: err = %v, want ErrCorruptSnapshot", err)
	}

	setPayload(t, kv, "index", func(p *sessionPayload) {
		p.CurrentIndex = 99
	})
	if _, err := Load(ctx, kv, "index"); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("bad index: err = %v, want ErrCorruptSnapshot", err)
	}
}

func setRaw(t *testing.T, kv store.KV, key, raw string) {
	t.Helper()
	if err := kv.Set(context.Background(), key, json.RawMessage(raw)); err != nil {
		t.Fatalf("set %s: %v", key, err)
	}
}

func setPayload(t *testing.T, kv store.KV, id string, mutate func(*sessionPayload)) {
	t.Helper()
	p := sessionPayload{
		Questions:        testQuestions(2),
		Answers:          make([]*string, 2),
		PerQuestionTimes: make([]int, 2),
		Paused:           true,
	}
	mutate(&p)
	if err := kv.Set(context.Background(), store.SavedQuizKey(id), p); err != nil {
		t.Fatalf("set payload %s: %v", id, err)
	}
}

func TestListSavedNewestFirstSkippingCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()

	old := sessionPayload{
		ID:               "old",
		Questions:        testQuestions(2),
		Answers:          make([]*string, 2),
		PerQuestionTimes: make([]int, 2),
		Folder:           "History",
		SavedAt:          time.Now().Add(-time.Hour),
	}
	recent := old
	recent.ID = "recent"
	recent.Folder = "Math"
	recent.SavedAt = time.Now()

	for _, p := range []sessionPayload{old, recent} {
		if err := kv.Set(ctx, store.SavedQuizKey(p.ID), p); err != nil {
			t.Fatalf("set %s: %v", p.ID, err)
		}
	}
	setRaw(t, kv, store.SavedQuizKey("corrupt"), `"not an object"`)

	saved, err := ListSaved(ctx, kv)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("len = %d, want 2", len(saved))
	}
	if saved[0].ID != "recent" || saved[1].ID != "old" {
		t.Errorf("order = [%s %s], want [recent old]", saved[0].ID, saved[1].ID)
	}
	if saved[0].Folder != "Math" || saved[0].TotalQuestions != 2 {
		t.Errorf("entry = %+v", saved[0])
	}
}

func TestDeleteSavedIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()

	s, _ := Start(testQuestions(1), "Test", StartOptions{})
	id, err := s.SaveForLater(ctx, kv)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := DeleteSaved(ctx, kv, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := DeleteSaved(ctx, kv, id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := Load(ctx, kv, id); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("load after delete: %v", err)
	}
}
