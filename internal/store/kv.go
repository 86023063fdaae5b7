package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quizcraft/ent"
	"quizcraft/ent/kventry"
)

// ErrNotFound is returned by Get when no value exists under the key.
var ErrNotFound = errors.New("key not found")

// ErrUnavailable wraps persistence failures so callers can distinguish a
// missing key from a store that could not be reached or written.
var ErrUnavailable = errors.New("store unavailable")

// KV is the generic persistent key-value interface the engine reads and
// writes through. Values are JSON documents; Get unmarshals into out.
type KV interface {
	// Get reads the value stored under key into out.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string, out any) error

	// Set stores value (JSON-marshaled) under key, creating or replacing it.
	Set(ctx context.Context, key string, value any) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// kvRepo implements KV using the ent client.
type kvRepo struct {
	client *ent.Client
}

func (r *kvRepo) Get(ctx context.Context, key string, out any) error {
	e, err := r.client.KVEntry.Query().
		Where(kventry.Key(key)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return fmt.Errorf("get %q: %w", key, ErrNotFound)
		}
		return fmt.Errorf("get %q: %w: %v", key, ErrUnavailable, err)
	}
	if err := json.Unmarshal(e.Value, out); err != nil {
		return fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}

	existing, err := r.client.KVEntry.Query().
		Where(kventry.Key(key)).
		Only(ctx)
	switch {
	case err == nil:
		_, err = r.client.KVEntry.UpdateOneID(existing.ID).
			SetValue(raw).
			Save(ctx)
	case ent.IsNotFound(err):
		_, err = r.client.KVEntry.Create().
			SetKey(key).
			SetValue(raw).
			Save(ctx)
	}
	if err != nil {
		return fmt.Errorf("set %q: %w: %v", key, ErrUnavailable, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	_, err := r.client.KVEntry.Delete().
		Where(kventry.Key(key)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete %q: %w: %v", key, ErrUnavailable, err)
	}
	return nil
}

func (r *kvRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	entries, err := r.client.KVEntry.Query().
		Where(kventry.KeyHasPrefix(prefix)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("keys %q: %w: %v", prefix, ErrUnavailable, err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Key, prefix) {
			keys = append(keys, e.Key)
		}
	}
	return keys, nil
}
