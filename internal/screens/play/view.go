package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/yichenw/quizdeck/internal/quiz"
	"github.com/yichenw/quizdeck/internal/ui/components"
	"github.com/yichenw/quizdeck/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	switch s.phase {
	case phaseSetup:
		return s.renderSetup(width)
	case phaseFeedback:
		return s.renderFeedback(width)
	default:
		if s.showAnswered {
			return s.renderAnswered(width)
		}
		return s.renderQuestion(width)
	}
}

// renderAnswered renders the mid-attempt review of everything answered
// so far, without leaving the current question.
func (s *PlayScreen) renderAnswered(width int) string {
	a := s.engine.Attempt()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("Answered so far: %d of %d", len(a.Traces), a.Total())))
	b.WriteString("\n\n")

	if len(a.Traces) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Italic(true).
			Render("Nothing answered yet."))
		return b.String()
	}

	for _, tr := range a.Traces {
		mark := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		if !tr.Correct {
			mark = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
		line := fmt.Sprintf("  %s Q%d  %s", mark, tr.Index, truncate(tr.Content, width-28))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
		b.WriteString("\n")

		detail := fmt.Sprintf("      yours: %s    correct: %s", tr.UserAnswer, tr.CorrectAnswer)
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

// renderSetup renders the question-count prompt.
func (s *PlayScreen) renderSetup(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(s.mode.DisplayName()))
	b.WriteString("\n\n")

	poolLine := fmt.Sprintf("%d questions available", s.poolSize)
	if s.mode == quiz.ModeReview {
		poolLine = fmt.Sprintf("%d mistakes waiting for review", s.poolSize)
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(poolLine))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("How many questions? (1-%d, Enter for %d)", s.poolSize, s.defaultCount)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.countInput.View()))

	if s.flash != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.flash))
	}

	return b.String()
}

// renderQuestion renders the active question with its options.
func (s *PlayScreen) renderQuestion(width int) string {
	a := s.engine.Attempt()
	q := a.Current()

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s  [%s]", q.Type.DisplayName(), q.Knowledge))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  score %d", a.Pos+1, a.Total(), a.Score))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	bar := components.NewProgressBar("", float64(a.Pos)/float64(a.Total()), false, min(width-8, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "  "+bar.View()))
	b.WriteString("\n\n")

	questionStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(questionStyle.Render(q.Content))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))

	hint := "Space picks, Enter submits"
	if s.options.Multi {
		hint = "Space toggles, Enter submits the checked set"
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(hint))

	if s.flash != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.flash))
	}

	return b.String()
}

// renderFeedback renders the graded overlay: verdict, the marked-up
// option list, explanation and the ledger effect.
func (s *PlayScreen) renderFeedback(width int) string {
	a := s.engine.Attempt()
	q := a.Current()
	out := s.outcome

	var b strings.Builder
	b.WriteString("\n")

	if out.Correct {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Correct answer: %s", out.CorrectAnswer)))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(q.Content))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))
	b.WriteString("\n")

	if out.Explanation != "" {
		exp := theme.Card.
			Width(min(width-8, 70)).
			Render(out.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n")
	}

	if msg := ledgerMessage(out); msg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(msg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return b.String()
}

// ledgerMessage describes the outcome's effect on the mistake ledger.
func ledgerMessage(out *quiz.Outcome) string {
	res := out.Ledger
	switch {
	case res.Mastered:
		return "Mastered! Removed from your mistake ledger."
	case !out.Correct && res.Tracked:
		return fmt.Sprintf("Streak reset: %d correct review answers needed again.", res.Remaining)
	case !out.Correct:
		return fmt.Sprintf("Added to your mistake ledger: %d correct review answers to master.", res.Remaining)
	case res.Changed:
		return fmt.Sprintf("Progress! %d more correct answer(s) to master this one.", res.Remaining)
	default:
		return ""
	}
}

// renderQuitConfirm renders the abandon-attempt dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Quit this attempt?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Nothing will be recorded. Ledger updates already made are kept."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, quit"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderError renders a terminal error state.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n%s\n\nPress any key to go back.", errMsg))
}
