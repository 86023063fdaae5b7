package stats

import (
	"context"
	"errors"
	"fmt"

	"quizcraft/internal/quiz"
	"quizcraft/internal/store"
)

// PartialUpdateError reports that one of the two aggregate writes for a
// completed session succeeded while the other failed. The two records are
// inconsistent with each other until RecomputeFromHistory is run; the error
// is surfaced rather than retried so the caller can decide.
type PartialUpdateError struct {
	Folder string
	File   string
	// Succeeded names the write that landed, "folder" or "file".
	Succeeded string
	Err       error
}

func (e *PartialUpdateError) Error() string {
	failed := "folder"
	if e.Succeeded == "folder" {
		failed = "file"
	}
	return fmt.Sprintf("stats for %s/%s: %s aggregate updated but %s write failed: %v",
		e.Folder, e.File, e.Succeeded, failed, e.Err)
}

func (e *PartialUpdateError) Unwrap() error { return e.Err }

// Aggregator folds completed sessions into folder- and file-level
// aggregates and keeps the per-session history that backs recomputation.
type Aggregator struct {
	kv store.KV
}

func NewAggregator(kv store.KV) *Aggregator {
	return &Aggregator{kv: kv}
}

// Apply folds one completed session into the folder aggregate and, when the
// session came from a single file, the file aggregate. The two writes are
// independent read-modify-write operations, not a transaction; if the first
// lands and the second fails the error is a PartialUpdateError.
func (a *Aggregator) Apply(ctx context.Context, res quiz.Result) error {
	entry := HistoryEntry{
		TotalQuestions: res.TotalQuestions,
		CorrectAnswers: res.CorrectAnswers,
		TotalTime:      res.TotalTime,
		LongestStreak:  res.LongestStreak,
		CompletedAt:    res.CompletedAt,
	}

	if err := a.applyFolder(ctx, res.Folder, entry); err != nil {
		return fmt.Errorf("folder stats for %s: %w", res.Folder, err)
	}

	if res.SourceFileName == "" {
		return nil
	}
	if err := a.applyFile(ctx, res.Folder, res.SourceFileName, entry); err != nil {
		return &PartialUpdateError{
			Folder:    res.Folder,
			File:      res.SourceFileName,
			Succeeded: "folder",
			Err:       err,
		}
	}
	return nil
}

func (a *Aggregator) applyFolder(ctx context.Context, folder string, entry HistoryEntry) error {
	current, err := a.Folder(ctx, folder)
	if err != nil {
		return err
	}
	next := current.apply(entry)
	if next.TotalStarred, err = a.starredCount(ctx, folder); err != nil {
		return err
	}
	if err := a.kv.Set(ctx, store.FolderStatsKey(folder), next); err != nil {
		return err
	}
	return a.appendHistory(ctx, store.FolderHistoryKey(folder), entry)
}

// starredCount reads the size of the folder's starred set. The count is
// carried on the folder aggregate so the stats record is self-contained.
func (a *Aggregator) starredCount(ctx context.Context, folder string) (int, error) {
	var ids []string
	err := a.kv.Get(ctx, store.StarredKey(folder), &ids)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}
	return len(ids), nil
}

func (a *Aggregator) applyFile(ctx context.Context, folder, file string, entry HistoryEntry) error {
	current, err := a.File(ctx, folder, file)
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, store.FileStatsKey(folder, file), current.apply(entry)); err != nil {
		return err
	}
	return a.appendHistory(ctx, store.FileHistoryKey(folder, file), entry)
}

func (a *Aggregator) appendHistory(ctx context.Context, key string, entry HistoryEntry) error {
	var history []HistoryEntry
	if err := a.kv.Get(ctx, key, &history); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return a.kv.Set(ctx, key, append(history, entry))
}

// Folder reads the folder aggregate, zero-valued if none exists yet.
func (a *Aggregator) Folder(ctx context.Context, folder string) (FolderStats, error) {
	var s FolderStats
	err := a.kv.Get(ctx, store.FolderStatsKey(folder), &s)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return FolderStats{}, err
	}
	return s, nil
}

// File reads the file aggregate, zero-valued if none exists yet.
func (a *Aggregator) File(ctx context.Context, folder, file string) (FileStats, error) {
	var s FileStats
	err := a.kv.Get(ctx, store.FileStatsKey(folder, file), &s)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return FileStats{}, err
	}
	return s, nil
}

// FolderHistory returns the recorded sessions backing a folder aggregate.
func (a *Aggregator) FolderHistory(ctx context.Context, folder string) ([]HistoryEntry, error) {
	var history []HistoryEntry
	err := a.kv.Get(ctx, store.FolderHistoryKey(folder), &history)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return history, nil
}

// ResetFolder deletes a folder's aggregate along with the history behind
// it. Resetting an absent folder is a no-op.
func (a *Aggregator) ResetFolder(ctx context.Context, folder string) error {
	if err := a.kv.Delete(ctx, store.FolderStatsKey(folder)); err != nil {
		return fmt.Errorf("reset folder stats: %w", err)
	}
	if err := a.kv.Delete(ctx, store.FolderHistoryKey(folder)); err != nil {
		return fmt.Errorf("reset folder history: %w", err)
	}
	return nil
}

// ResetFile deletes a file's aggregate and its history.
func (a *Aggregator) ResetFile(ctx context.Context, folder, file string) error {
	if err := a.kv.Delete(ctx, store.FileStatsKey(folder, file)); err != nil {
		return fmt.Errorf("reset file stats: %w", err)
	}
	if err := a.kv.Delete(ctx, store.FileHistoryKey(folder, file)); err != nil {
		return fmt.Errorf("reset file history: %w", err)
	}
	return nil
}

// RecomputeFolder rebuilds the folder aggregate by folding its recorded
// history from scratch, repairing any divergence left by a partial update.
func (a *Aggregator) RecomputeFolder(ctx context.Context, folder string) (FolderStats, error) {
	history, err := a.FolderHistory(ctx, folder)
	if err != nil {
		return FolderStats{}, err
	}
	var s FolderStats
	for _, e := range history {
		s = s.apply(e)
	}
	if len(history) == 0 {
		if err := a.kv.Delete(ctx, store.FolderStatsKey(folder)); err != nil {
			return FolderStats{}, err
		}
		return s, nil
	}
	if s.TotalStarred, err = a.starredCount(ctx, folder); err != nil {
		return FolderStats{}, err
	}
	if err := a.kv.Set(ctx, store.FolderStatsKey(folder), s); err != nil {
		return FolderStats{}, err
	}
	return s, nil
}

// RecomputeFile rebuilds the file aggregate from its history.
func (a *Aggregator) RecomputeFile(ctx context.Context, folder, file string) (FileStats, error) {
	var history []HistoryEntry
	err := a.kv.Get(ctx, store.FileHistoryKey(folder, file), &history)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return FileStats{}, err
	}
	var s FileStats
	for _, e := range history {
		s = s.apply(e)
	}
	if len(history) == 0 {
		if err := a.kv.Delete(ctx, store.FileStatsKey(folder, file)); err != nil {
			return FileStats{}, err
		}
		return s, nil
	}
	if err := a.kv.Set(ctx, store.FileStatsKey(folder, file), s); err != nil {
		return FileStats{}, err
	}
	return s, nil
}
