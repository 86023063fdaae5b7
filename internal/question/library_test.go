package question

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const validSet = `{
  "questions": [
    {
      "question": "What is the capital of France?",
      "choices": [
        {"text": "Berlin"},
        {"text": "Paris", "isCorrect": true},
        {"text": "Rome"},
        {"text": "Madrid"}
      ],
      "explanation": "Paris has been the capital since 987.",
      "category": "Geography"
    },
    {
      "question": "Which planet is closest to the sun?",
      "choices": ["Venus", "Earth", "Mercury", "Mars"],
      "correctAnswer": 2
    }
  ]
}`

func writeSet(t *testing.T, root, folder, file, content string) {
	t.Helper()
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
		t.Fatalf("write set: %v", err)
	}
}

func TestGetQuestions(t *testing.T) {
	root := t.TempDir()
	writeSet(t, root, "Geography", "capitals.json", validSet)

	lib := NewLibrary(root)
	qs, err := lib.GetQuestions(context.Background(), "Geography", "capitals.json")
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("len = %d, want 2", len(qs))
	}

	q := qs[0]
	if q.Folder != "Geography" || q.FileName != "capitals.json" {
		t.Errorf("provenance = %s/%s, want Geography/capitals.json", q.Folder, q.FileName)
	}
	correct, ok := q.CorrectChoice()
	if !ok || correct != "Paris" {
		t.Errorf("correct choice = %q (%v), want Paris", correct, ok)
	}
}

func TestGetQuestionsNormalizesLegacyChoices(t *testing.T) {
	root := t.TempDir()
	writeSet(t, root, "Science", "planets.json", validSet)

	lib := NewLibrary(root)
	qs, err := lib.GetQuestions(context.Background(), "Science", "planets.json")
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}

	q := qs[1]
	if len(q.Choices) != 4 {
		t.Fatalf("choices = %d, want 4", len(q.Choices))
	}
	correct, ok := q.CorrectChoice()
	if !ok || correct != "Mercury" {
		t.Errorf("correct choice = %q (%v), want Mercury", correct, ok)
	}
	// Normalized choices carry the full typed shape.
	if q.Choices[0].IsCorrect || !q.Choices[2].IsCorrect {
		t.Error("expected only index 2 to be correct")
	}
}

func TestGetQuestionsRejectsNoCorrectChoice(t *testing.T) {
	root := t.TempDir()
	writeSet(t, root, "Bad", "none.json", `{
	  "questions": [{
	    "question": "Pick one",
	    "choices": [{"text": "a"}, {"text": "b"}, {"text": "c"}, {"text": "d"}]
	  }]
	}`)

	lib := NewLibrary(root)
	if _, err := lib.GetQuestions(context.Background(), "Bad", "none.json"); err == nil {
		t.Fatal("expected error for question with no correct choice")
	}
}

func TestGetQuestionsRejectsTooFewChoices(t *testing.T) {
	root := t.TempDir()
	writeSet(t, root, "Bad", "few.json", `{
	  "questions": [{
	    "question": "Yes or no?",
	    "choices": [{"text": "yes", "isCorrect": true}, {"text": "no"}]
	  }]
	}`)

	lib := NewLibrary(root)
	if _, err := lib.GetQuestions(context.Background(), "Bad", "few.json"); err == nil {
		t.Fatal("expected schema error for fewer than 4 choices")
	}
}

func TestFoldersAndFiles(t *testing.T) {
	root := t.TempDir()
	writeSet(t, root, "Math", "algebra.json", validSet)
	writeSet(t, root, "Math", "geometry.json", validSet)
	writeSet(t, root, "History", "rome.json", validSet)

	lib := NewLibrary(root)

	folders, err := lib.Folders()
	if err != nil {
		t.Fatalf("folders: %v", err)
	}
	if len(folders) != 2 || folders[0] != "History" || folders[1] != "Math" {
		t.Errorf("folders = %v, want [History Math]", folders)
	}

	files, err := lib.Files("Math")
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if len(files) != 2 || files[0] != "algebra.json" || files[1] != "geometry.json" {
		t.Errorf("files = %v, want [algebra.json geometry.json]", files)
	}
}

func TestFolderQuestionsConcatenatesInFileOrder(t *testing.T) {
	root := t.TempDir()
	writeSet(t, root, "Math", "a.json", validSet)
	writeSet(t, root, "Math", "b.json", validSet)

	lib := NewLibrary(root)
	all, err := lib.FolderQuestions(context.Background(), "Math")
	if err != nil {
		t.Fatalf("folder questions: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	if all[0].FileName != "a.json" || all[2].FileName != "b.json" {
		t.Errorf("file order = [%s %s ...], want a.json then b.json",
			all[0].FileName, all[2].FileName)
	}
}
