package stars

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"quizcraft/internal/store"
)

// Registry tracks starred questions per folder. A starred question is
// identified by "<folder>-<index>", where index positions the question in
// the folder's concatenated question list.
type Registry struct {
	kv store.KV
}

func NewRegistry(kv store.KV) *Registry {
	return &Registry{kv: kv}
}

// ID builds the persisted star identifier for a question.
func ID(folder string, index int) string {
	return fmt.Sprintf("%s-%d", folder, index)
}

// Toggle flips the star on a question and persists the folder's full set.
// Returns the new starred state.
func (r *Registry) Toggle(ctx context.Context, folder string, index int) (bool, error) {
	set, err := r.load(ctx, folder)
	if err != nil {
		return false, err
	}

	id := ID(folder, index)
	starred := !set[id]
	if starred {
		set[id] = true
	} else {
		delete(set, id)
	}

	ids := make([]string, 0, len(set))
	for k := range set {
		ids = append(ids, k)
	}
	sort.Strings(ids)

	if err := r.kv.Set(ctx, store.StarredKey(folder), ids); err != nil {
		return false, fmt.Errorf("persist starred set for %s: %w", folder, err)
	}
	return starred, nil
}

// IsStarred reports whether a question is starred.
func (r *Registry) IsStarred(ctx context.Context, folder string, index int) (bool, error) {
	set, err := r.load(ctx, folder)
	if err != nil {
		return false, err
	}
	return set[ID(folder, index)], nil
}

// StarredIndices returns the starred question indices for a folder, sorted.
func (r *Registry) StarredIndices(ctx context.Context, folder string) ([]int, error) {
	set, err := r.load(ctx, folder)
	if err != nil {
		return nil, err
	}

	indices := make([]int, 0, len(set))
	prefix := folder + "-"
	for id := range set {
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		indices = append(indices, n)
	}
	sort.Ints(indices)
	return indices, nil
}

// Count returns how many questions are starred in a folder.
func (r *Registry) Count(ctx context.Context, folder string) (int, error) {
	set, err := r.load(ctx, folder)
	if err != nil {
		return 0, err
	}
	return len(set), nil
}

// Clear removes every star in a folder. Clearing an empty folder is a no-op.
func (r *Registry) Clear(ctx context.Context, folder string) error {
	if err := r.kv.Delete(ctx, store.StarredKey(folder)); err != nil {
		return fmt.Errorf("clear starred set for %s: %w", folder, err)
	}
	return nil
}

func (r *Registry) load(ctx context.Context, folder string) (map[string]bool, error) {
	var ids []string
	err := r.kv.Get(ctx, store.StarredKey(folder), &ids)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load starred set for %s: %w", folder, err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
