package history

import (
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	hist "github.com/yichenw/quizdeck/internal/history"
)

func testLog(t *testing.T) *hist.Log {
	t.Helper()
	log := hist.Load(filepath.Join(t.TempDir(), "history.json"))
	if err := log.Append(hist.NewRecord("random", 4, 2, 50.0, []hist.Trace{
		{Index: 1, Content: "Oldest session question", UserAnswer: "A", CorrectAnswer: "B", Knowledge: "Geography"},
	})); err != nil {
		t.Fatal(err)
	}
	if err := log.Append(hist.NewRecord("mistake-review", 3, 3, 100.0, nil)); err != nil {
		t.Fatal(err)
	}
	return log
}

func TestHistoryScreen_Title(t *testing.T) {
	s := New(testLog(t))
	if s.Title() != "History" {
		t.Errorf("Title = %q, want %q", s.Title(), "History")
	}
}

func TestHistoryScreen_NewestFirst(t *testing.T) {
	s := New(testLog(t))
	view := s.View(90, 24)

	reviewAt := strings.Index(view, "Mistake Review")
	randomAt := strings.Index(view, "Random Quiz")
	if reviewAt == -1 || randomAt == -1 {
		t.Fatalf("expected both sessions in view, got:\n%s", view)
	}
	if reviewAt > randomAt {
		t.Error("expected the newer session to render first")
	}
}

func TestHistoryScreen_EmptyLog(t *testing.T) {
	log := hist.Load(filepath.Join(t.TempDir(), "history.json"))
	s := New(log)
	view := s.View(80, 24)
	if !strings.Contains(view, "No sessions yet") {
		t.Errorf("expected empty-state message, got:\n%s", view)
	}
}

func TestHistoryScreen_ExpandTraces(t *testing.T) {
	s := New(testLog(t))

	// Move to the older record (index 1 after reversal) and expand it.
	updated, _ := s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s = updated.(*HistoryScreen)
	updated, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s = updated.(*HistoryScreen)

	view := s.View(90, 30)
	if !strings.Contains(view, "Oldest session question") {
		t.Errorf("expected expanded trace content in view, got:\n%s", view)
	}

	// Enter again collapses.
	updated, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s = updated.(*HistoryScreen)
	if strings.Contains(s.View(90, 30), "Oldest session question") {
		t.Error("expected traces hidden after collapse")
	}
}

func TestHistoryScreen_ExpandRecordWithoutTraces(t *testing.T) {
	s := New(testLog(t))

	// Newest record (the review session) stored no traces.
	updated, _ := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s = updated.(*HistoryScreen)

	view := s.View(90, 30)
	if !strings.Contains(view, "No per-question detail") {
		t.Errorf("expected traceless placeholder, got:\n%s", view)
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := New(testLog(t))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Error("expected a command on Esc (pop)")
	}
}
