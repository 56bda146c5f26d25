package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yichenw/quizdeck/internal/history"
	"github.com/yichenw/quizdeck/internal/quiz"
	"github.com/yichenw/quizdeck/internal/router"
	"github.com/yichenw/quizdeck/internal/screen"
	"github.com/yichenw/quizdeck/internal/ui/layout"
	"github.com/yichenw/quizdeck/internal/ui/theme"
)

// SummaryScreen displays the archived record of a finished attempt.
type SummaryScreen struct {
	record history.Record
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen for the given record.
func New(record history.Record) *SummaryScreen {
	return &SummaryScreen{record: record}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	rec := s.record

	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete!"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s    %s", quiz.Mode(rec.Mode).DisplayName(), rec.Timestamp.Format("Jan 02 2006 15:04"))))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %.1f%%",
		rec.QuestionCount, rec.Score, rec.Accuracy)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	wrong := rec.QuestionCount - rec.Score
	var verdict string
	var verdictColor = theme.Success
	switch {
	case wrong == 0:
		verdict = "Perfect run. Nothing new to review."
	case rec.Accuracy >= 80:
		verdict = fmt.Sprintf("Solid. %d question(s) added to your mistake ledger.", wrong)
		verdictColor = theme.Accent
	default:
		verdict = fmt.Sprintf("%d question(s) added to your mistake ledger. Time for a review round.", wrong)
		verdictColor = theme.Error
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(verdictColor).
		Render(verdict))
	b.WriteString("\n\n")

	// Missed questions, briefly.
	var missed []history.Trace
	for _, t := range rec.Traces {
		if !t.Correct {
			missed = append(missed, t)
		}
	}
	if len(missed) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Missed")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, t := range missed {
			line := fmt.Sprintf("  Q%d  %s", t.Index, truncate(t.Content, width-30))
			answers := fmt.Sprintf("      yours: %s    correct: %s", t.UserAnswer, t.CorrectAnswer)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
			b.WriteString("\n")
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(answers)))
			b.WriteString("\n")
		}
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

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
