package store

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is only meaningful with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestKVRoundTrip(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := kv.Set(ctx, "test_key", payload{Name: "math", Count: 3}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	if err := kv.Get(ctx, "test_key", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "math" || got.Count != 3 {
		t.Errorf("got %+v, want {math 3}", got)
	}
}

func TestKVGetMissing(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()

	var out map[string]any
	err := kv.Get(context.Background(), "nope", &out)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestKVSetReplaces(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if err := kv.Set(ctx, "k", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "k", 2); err != nil {
		t.Fatalf("set again: %v", err)
	}

	var got int
	if err := kv.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != 2 {
		t.Errorf("got %d, want 2", got)
	}

	count, err := s.Client().KVEntry.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("entry count = %d, want 1 (replace, not append)", count)
	}
}

func TestKVDelete(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if err := kv.Set(ctx, "doomed", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var out string
	if err := kv.Get(ctx, "doomed", &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}

	// Deleting an absent key is not an error.
	if err := kv.Delete(ctx, "doomed"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestKVKeysByPrefix(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	for _, k := range []string{"savedQuiz_a", "savedQuiz_b", "quizStats_Math"} {
		if err := kv.Set(ctx, k, struct{}{}); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	keys, err := kv.Keys(ctx, SavedQuizPrefix)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	sort.Strings(keys)
	want := []string{"savedQuiz_a", "savedQuiz_b"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestKeySchema(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{SavedQuizKey("abc"), "savedQuiz_abc"},
		{StarredKey("Math"), "starredQuestions_Math"},
		{FolderStatsKey("Math"), "quizStats_Math"},
		{FileStatsKey("Math", "algebra.json"), "fileStats_Math_algebra.json"},
		{FolderHistoryKey("Math"), "quizHistory_Math"},
		{FileHistoryKey("Math", "algebra.json"), "fileHistory_Math_algebra.json"},
		{GeneratedQuizKey("xyz"), "generatedQuiz_xyz"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTable(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='kv_entries'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if name != "kv_entries" {
		t.Errorf("table name = %q, want 'kv_entries'", name)
	}
}
