package ledger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Missing(t *testing.T) {
	l := Load(filepath.Join(t.TempDir(), "mistakes.json"))
	if len(l) != 0 {
		t.Errorf("ledger = %v, want empty", l)
	}
}

func TestLoad_MapShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mistakes.json")
	if err := os.WriteFile(path, []byte(`{"Q1": 2, "Q2": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	l := Load(path)
	if l["Q1"] != 2 || l["Q2"] != 1 {
		t.Errorf("ledger = %v", l)
	}
}

func TestLoad_LegacyListMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mistakes.json")
	if err := os.WriteFile(path, []byte(`["Q1", "Q2"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	l := Load(path)
	if l["Q1"] != RequiredStreak || l["Q2"] != RequiredStreak {
		t.Errorf("migrated ledger = %v, want every entry at %d", l, RequiredStreak)
	}

	// The file must have been rewritten in map shape.
	reloaded := Load(path)
	if reloaded["Q1"] != RequiredStreak || reloaded["Q2"] != RequiredStreak {
		t.Errorf("reloaded ledger = %v", reloaded)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if data[0] != '{' {
		t.Errorf("file still in legacy shape: %s", data)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mistakes.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := Load(path)
	if len(l) != 0 {
		t.Errorf("ledger = %v, want empty", l)
	}
}

func TestApply_WrongCreatesEntry(t *testing.T) {
	l := Ledger{}

	res := l.Apply("Q1", false, false)

	if !res.Changed || res.Remaining != RequiredStreak {
		t.Errorf("result = %+v", res)
	}
	if l["Q1"] != RequiredStreak {
		t.Errorf("ledger = %v", l)
	}
}

func TestApply_WrongResetsPartialProgress(t *testing.T) {
	l := Ledger{"Q1": 1}

	res := l.Apply("Q1", false, true)

	if l["Q1"] != RequiredStreak {
		t.Errorf("remaining = %d, want reset to %d", l["Q1"], RequiredStreak)
	}
	if !res.Tracked {
		t.Error("expected Tracked")
	}
}

func TestApply_CorrectInReviewDecrements(t *testing.T) {
	l := Ledger{"Q1": 2}

	res := l.Apply("Q1", true, true)

	if !res.Changed || res.Remaining != 1 || res.Mastered {
		t.Errorf("result = %+v", res)
	}
	if l["Q1"] != 1 {
		t.Errorf("ledger = %v", l)
	}
}

func TestApply_CorrectInReviewMasters(t *testing.T) {
	l := Ledger{"Q1": 1}

	res := l.Apply("Q1", true, true)

	if !res.Mastered || res.Remaining != 0 {
		t.Errorf("result = %+v", res)
	}
	if l.Contains("Q1") {
		t.Error("mastered question still in ledger")
	}
}

func TestApply_CorrectOutsideReviewNoMutation(t *testing.T) {
	l := Ledger{"Q1": 2}

	res := l.Apply("Q1", true, false)

	if res.Changed {
		t.Errorf("result = %+v, want no change", res)
	}
	if l["Q1"] != 2 {
		t.Errorf("ledger = %v", l)
	}
}

func TestApply_CorrectUntrackedNoMutation(t *testing.T) {
	l := Ledger{}

	res := l.Apply("Q1", true, true)

	if res.Changed || res.Tracked {
		t.Errorf("result = %+v, want no change", res)
	}
}

func TestApply_FullMasterySequence(t *testing.T) {
	l := Ledger{}

	l.Apply("Q1", false, true) // wrong → 2
	if l["Q1"] != 2 {
		t.Fatalf("after wrong: %v", l)
	}

	l.Apply("Q1", true, true) // correct → 1
	if l["Q1"] != 1 {
		t.Fatalf("after first correct: %v", l)
	}

	l.Apply("Q1", false, true) // wrong again → back to 2
	if l["Q1"] != 2 {
		t.Fatalf("after second wrong: %v", l)
	}

	l.Apply("Q1", true, true)
	res := l.Apply("Q1", true, true)
	if !res.Mastered || l.Contains("Q1") {
		t.Fatalf("after two corrects: %v, result %+v", l, res)
	}
}

func TestClear(t *testing.T) {
	l := Ledger{"Q1": 2, "Q2": 1}
	l.Clear()
	if len(l) != 0 {
		t.Errorf("ledger = %v", l)
	}
}

func TestSaveLoad_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mistakes.json")
	l := Ledger{"Q1": 2, "Q2": 1}

	if err := l.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded := Load(path)
	if err := reloaded.Save(path); err != nil {
		t.Fatalf("Save reloaded: %v", err)
	}
	again := Load(path)

	if len(again) != 2 || again["Q1"] != 2 || again["Q2"] != 1 {
		t.Errorf("ledger = %v, want %v", again, l)
	}
}
