package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"quizcraft/internal/quiz"
	"quizcraft/internal/store"
)

// failingKV fails Set for keys containing a marker substring.
type failingKV struct {
	store.KV
	failSubstr string
}

func (f *failingKV) Set(ctx context.Context, key string, value any) error {
	if strings.Contains(key, f.failSubstr) {
		return fmt.Errorf("set %q: %w", key, store.ErrUnavailable)
	}
	return f.KV.Set(ctx, key, value)
}

func result(correct, total, totalTime, streak int) quiz.Result {
	return quiz.Result{
		TotalQuestions: total,
		CorrectAnswers: correct,
		TotalTime:      totalTime,
		LongestStreak:  streak,
		Folder:         "Math",
		SourceFileName: "algebra.json",
		CompletedAt:    time.Now(),
	}
}

func TestApplyFirstCompletion(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(store.NewMemKV())

	if err := agg.Apply(ctx, result(7, 10, 120, 4)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	fs, err := agg.Folder(ctx, "Math")
	if err != nil {
		t.Fatalf("folder: %v", err)
	}
	if fs.QuizzesCompleted != 1 || fs.TotalQuestions != 10 || fs.CorrectAnswers != 7 {
		t.Errorf("folder = %+v", fs)
	}
	if fs.AverageTime != 120 || fs.BestTime != 120 || fs.TotalTime != 120 {
		t.Errorf("folder times = avg %d best %d total %d, want 120 each",
			fs.AverageTime, fs.BestTime, fs.TotalTime)
	}
	if fs.LastQuizDate == "" {
		t.Error("lastQuizDate not set")
	}

	file, err := agg.File(ctx, "Math", "algebra.json")
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if file.Attempts != 1 || file.BestScore != 70 || file.BestTime != 120 {
		t.Errorf("file = %+v", file)
	}
}

func TestApplyIncrementalMeanAndBest(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(store.NewMemKV())

	for _, tt := range []int{100, 50, 130} {
		if err := agg.Apply(ctx, result(5, 10, tt, 2)); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	fs, _ := agg.Folder(ctx, "Math")
	// round(100) -> round((100+50)/2)=75 -> round((75*2+130)/3)=93
	if fs.AverageTime != 93 {
		t.Errorf("averageTime = %d, want 93", fs.AverageTime)
	}
	if fs.BestTime != 50 {
		t.Errorf("bestTime = %d, want 50", fs.BestTime)
	}
	if fs.TotalTime != 280 || fs.QuizzesCompleted != 3 {
		t.Errorf("total/count = %d/%d, want 280/3", fs.TotalTime, fs.QuizzesCompleted)
	}
}

func TestIncrementalEqualsFoldFromHistory(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(store.NewMemKV())

	sessions := []quiz.Result{
		result(3, 10, 95, 2),
		result(8, 10, 61, 5),
		result(10, 10, 58, 10),
		result(6, 10, 77, 3),
		result(9, 10, 102, 6),
	}
	for _, r := range sessions {
		if err := agg.Apply(ctx, r); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	incremental, _ := agg.Folder(ctx, "Math")
	recomputed, err := agg.RecomputeFolder(ctx, "Math")
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if incremental.AverageTime != recomputed.AverageTime ||
		incremental.BestTime != recomputed.BestTime ||
		incremental.TotalQuestions != recomputed.TotalQuestions ||
		incremental.CorrectAnswers != recomputed.CorrectAnswers {
		t.Errorf("incremental %+v != recomputed %+v", incremental, recomputed)
	}

	fileInc, _ := agg.File(ctx, "Math", "algebra.json")
	fileRec, err := agg.RecomputeFile(ctx, "Math", "algebra.json")
	if err != nil {
		t.Fatalf("recompute file: %v", err)
	}
	if fileInc != fileRec {
		t.Errorf("file incremental %+v != recomputed %+v", fileInc, fileRec)
	}
}

func TestBestScoreIsMonotonic(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(store.NewMemKV())

	for _, correct := range []int{6, 9, 4} {
		if err := agg.Apply(ctx, result(correct, 10, 60, 1)); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	file, _ := agg.File(ctx, "Math", "algebra.json")
	if file.BestScore != 90 {
		t.Errorf("bestScore = %v, want 90", file.BestScore)
	}
}

func TestBestScoreIsAccuracyNotCount(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(store.NewMemKV())

	// 5/10 scores more raw points than 3/4, but 3/4 is the better run.
	if err := agg.Apply(ctx, result(5, 10, 60, 2)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := agg.Apply(ctx, result(3, 4, 40, 3)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	file, _ := agg.File(ctx, "Math", "algebra.json")
	if file.BestScore != 75 {
		t.Errorf("bestScore = %v, want 75", file.BestScore)
	}

	rec, err := agg.RecomputeFile(ctx, "Math", "algebra.json")
	if err != nil {
		t.Fatalf("recompute file: %v", err)
	}
	if rec.BestScore != 75 {
		t.Errorf("recomputed bestScore = %v, want 75", rec.BestScore)
	}
}

func TestApplyRefreshesStarredCount(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()
	agg := NewAggregator(kv)

	if err := kv.Set(ctx, store.StarredKey("Math"), []string{"Math-0", "Math-3"}); err != nil {
		t.Fatalf("seed starred: %v", err)
	}
	if err := agg.Apply(ctx, result(5, 10, 60, 2)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	fs, _ := agg.Folder(ctx, "Math")
	if fs.TotalStarred != 2 {
		t.Errorf("totalStarred = %d, want 2", fs.TotalStarred)
	}

	// The count is re-read on every completion.
	if err := kv.Set(ctx, store.StarredKey("Math"), []string{"Math-0"}); err != nil {
		t.Fatalf("update starred: %v", err)
	}
	if err := agg.Apply(ctx, result(5, 10, 60, 2)); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	fs, _ = agg.Folder(ctx, "Math")
	if fs.TotalStarred != 1 {
		t.Errorf("totalStarred = %d, want 1", fs.TotalStarred)
	}
}

func TestApplyWithoutFileSkipsFileStats(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()
	agg := NewAggregator(kv)

	r := result(5, 10, 60, 2)
	r.SourceFileName = ""
	if err := agg.Apply(ctx, r); err != nil {
		t.Fatalf("apply: %v", err)
	}

	keys, _ := kv.Keys(ctx, "fileStats_")
	if len(keys) != 0 {
		t.Errorf("file stats written without a source file: %v", keys)
	}
	fs, _ := agg.Folder(ctx, "Math")
	if fs.QuizzesCompleted != 1 {
		t.Errorf("folder not updated: %+v", fs)
	}
}

func TestPartialUpdateSurfaced(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{KV: store.NewMemKV(), failSubstr: "fileStats_"}
	agg := NewAggregator(kv)

	err := agg.Apply(ctx, result(5, 10, 60, 2))
	var pe *PartialUpdateError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PartialUpdateError", err)
	}
	if pe.Succeeded != "folder" {
		t.Errorf("succeeded = %q, want folder", pe.Succeeded)
	}

	// The folder write landed before the failure.
	fs, _ := agg.Folder(ctx, "Math")
	if fs.QuizzesCompleted != 1 {
		t.Errorf("folder aggregate missing after partial update: %+v", fs)
	}
	file, _ := agg.File(ctx, "Math", "algebra.json")
	if file.Attempts != 0 {
		t.Errorf("file aggregate written despite failure: %+v", file)
	}
}

func TestRecomputeRepairsDivergedAggregate(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()
	agg := NewAggregator(kv)

	if err := agg.Apply(ctx, result(5, 10, 60, 2)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	want, _ := agg.Folder(ctx, "Math")

	// Corrupt the stored aggregate without touching history.
	if err := kv.Set(ctx, store.FolderStatsKey("Math"), FolderStats{TotalTime: 9999}); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	got, err := agg.RecomputeFolder(ctx, "Math")
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got != want {
		t.Errorf("recomputed %+v, want %+v", got, want)
	}
}

func TestResetPurgesStatsAndHistoryIdempotently(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()
	agg := NewAggregator(kv)

	if err := agg.Apply(ctx, result(5, 10, 60, 2)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := agg.ResetFolder(ctx, "Math"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := agg.ResetFolder(ctx, "Math"); err != nil {
		t.Fatalf("second reset: %v", err)
	}

	fs, err := agg.Folder(ctx, "Math")
	if err != nil {
		t.Fatalf("folder: %v", err)
	}
	if fs != (FolderStats{}) {
		t.Errorf("stats survive reset: %+v", fs)
	}
	history, err := agg.FolderHistory(ctx, "Math")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history survives reset: %v", history)
	}

	// A recompute after reset leaves nothing behind.
	if _, err := agg.RecomputeFolder(ctx, "Math"); err != nil {
		t.Fatalf("recompute after reset: %v", err)
	}
	if keys, _ := kv.Keys(ctx, store.FolderStatsKey("Math")); len(keys) != 0 {
		t.Error("recompute resurrected an empty aggregate")
	}

	if err := agg.ResetFile(ctx, "Math", "algebra.json"); err != nil {
		t.Fatalf("reset file: %v", err)
	}
	file, _ := agg.File(ctx, "Math", "algebra.json")
	if file != (FileStats{}) {
		t.Errorf("file stats survive reset: %+v", file)
	}
}
