package stars

import (
	"context"
	"testing"

	"quizcraft/internal/store"
)

func TestToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(store.NewMemKV())

	starred, err := r.Toggle(ctx, "Math", 3)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !starred {
		t.Error("first toggle should star")
	}
	if ok, _ := r.IsStarred(ctx, "Math", 3); !ok {
		t.Error("question not starred after toggle")
	}

	starred, err = r.Toggle(ctx, "Math", 3)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if starred {
		t.Error("second toggle should unstar")
	}
	if ok, _ := r.IsStarred(ctx, "Math", 3); ok {
		t.Error("question still starred after double toggle")
	}
}

func TestFoldersAreIndependent(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(store.NewMemKV())

	if _, err := r.Toggle(ctx, "Math", 0); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if ok, _ := r.IsStarred(ctx, "History", 0); ok {
		t.Error("star leaked across folders")
	}
}

func TestStarredIndicesSorted(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(store.NewMemKV())

	for _, i := range []int{7, 2, 11} {
		if _, err := r.Toggle(ctx, "Math", i); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}

	indices, err := r.StarredIndices(ctx, "Math")
	if err != nil {
		t.Fatalf("indices: %v", err)
	}
	want := []int{2, 7, 11}
	if len(indices) != len(want) {
		t.Fatalf("indices = %v, want %v", indices, want)
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", indices, want)
		}
	}

	if n, _ := r.Count(ctx, "Math"); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestMembershipSurvivesReload(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()

	r1 := NewRegistry(kv)
	if _, err := r1.Toggle(ctx, "Math", 5); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	// A fresh registry over the same store sees the same membership.
	r2 := NewRegistry(kv)
	if ok, _ := r2.IsStarred(ctx, "Math", 5); !ok {
		t.Error("star lost across registry instances")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(store.NewMemKV())

	if _, err := r.Toggle(ctx, "Math", 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := r.Clear(ctx, "Math"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n, _ := r.Count(ctx, "Math"); n != 0 {
		t.Errorf("count = %d after clear", n)
	}
	if err := r.Clear(ctx, "Math"); err != nil {
		t.Errorf("clearing empty folder: %v", err)
	}
}
