package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/yichenw/quizdeck/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "home"}
	r := New(s1)

	s2 := &stubScreen{title: "quiz"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "quiz" {
		t.Errorf("expected active 'quiz', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "home"}
	r := New(s1)

	r.Push(&stubScreen{title: "quiz"})
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "home" {
		t.Errorf("expected active 'home', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "home"})

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "quiz"})

	s3 := &stubScreen{title: "summary"}
	r.Replace(s3)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "summary" {
		t.Errorf("expected active 'summary', got %q", r.Active().Title())
	}
	if !s3.initRan {
		t.Error("expected Init() to run on replacement screen")
	}
}

func TestNavigationMessages(t *testing.T) {
	r := New(&stubScreen{title: "home"})

	r.Update(PushScreenMsg{Screen: &stubScreen{title: "quiz"}})
	if r.Depth() != 2 {
		t.Fatalf("depth after push msg = %d", r.Depth())
	}

	r.Update(ReplaceScreenMsg{Screen: &stubScreen{title: "summary"}})
	if r.Active().Title() != "summary" {
		t.Errorf("active = %q after replace msg", r.Active().Title())
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Errorf("depth = %d, active = %q after pop msg", r.Depth(), r.Active().Title())
	}
}
