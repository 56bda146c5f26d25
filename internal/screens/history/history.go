package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	hist "github.com/yichenw/quizdeck/internal/history"
	"github.com/yichenw/quizdeck/internal/quiz"
	"github.com/yichenw/quizdeck/internal/router"
	"github.com/yichenw/quizdeck/internal/screen"
	"github.com/yichenw/quizdeck/internal/ui/layout"
	"github.com/yichenw/quizdeck/internal/ui/theme"
)

// HistoryScreen lists past sessions, newest first, with expandable
// per-question traces.
type HistoryScreen struct {
	records  []hist.Record // newest first
	selected int
	expanded map[int]bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen over the session log.
func New(log *hist.Log) *HistoryScreen {
	stored := log.Records()
	records := make([]hist.Record, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		records = append(records, stored[i])
	}
	return &HistoryScreen{
		records:  records,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.records)-1 {
			s.selected++
		}
	case "enter":
		if len(s.records) > 0 {
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Take a quiz first!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s  %d questions  %.1f%% accuracy",
			prefix,
			rec.Timestamp.Format("Jan 02, 2006 15:04"),
			quiz.Mode(rec.Mode).DisplayName(),
			rec.QuestionCount,
			rec.Accuracy)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderTraces(rec, width))
		}
	}

	return b.String()
}

// renderTraces renders the expanded per-question detail for a record.
func (s *HistoryScreen) renderTraces(rec hist.Record, width int) string {
	var b strings.Builder

	if len(rec.Traces) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("    No per-question detail for this session")))
		b.WriteString("\n")
		return b.String()
	}

	for _, t := range rec.Traces {
		mark := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		if !t.Correct {
			mark = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}

		line := fmt.Sprintf("    %s Q%d  %s", mark, t.Index, truncate(t.Content, width-24))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
		b.WriteString("\n")

		detail := fmt.Sprintf("      yours: %s    correct: %s    [%s]",
			t.UserAnswer, t.CorrectAnswer, t.Knowledge)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
