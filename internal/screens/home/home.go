package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yichenw/quizdeck/internal/quiz"
	"github.com/yichenw/quizdeck/internal/router"
	"github.com/yichenw/quizdeck/internal/screen"
	histscreen "github.com/yichenw/quizdeck/internal/screens/history"
	"github.com/yichenw/quizdeck/internal/screens/play"
	"github.com/yichenw/quizdeck/internal/ui/components"
	"github.com/yichenw/quizdeck/internal/ui/theme"
)

// HomeScreen is the main navigation screen.
type HomeScreen struct {
	menu   components.Menu
	engine *quiz.Engine
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen over the quiz engine.
func New(engine *quiz.Engine) *HomeScreen {
	noBank := len(engine.Questions()) == 0

	items := []components.MenuItem{
		{Label: "RANDOM QUIZ", Disabled: noBank, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: play.New(engine, quiz.ModeRandom)}
			}
		}},
		{Label: "MISTAKE REVIEW", Disabled: noBank, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: play.New(engine, quiz.ModeReview)}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: histscreen.New(engine.History())}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:   components.NewMenu(items),
		engine: engine,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(theme.Title.Width(width).Render("QuizDeck Study Center"))
	b.WriteString("\n\n")

	if len(h.engine.Questions()) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("No question bank loaded. Put .xlsx or .csv files in the bank directory."))
		b.WriteString("\n\n")
	} else {
		stats := fmt.Sprintf("%d questions loaded    %d mistakes to master    %d sessions recorded",
			len(h.engine.Questions()), len(h.engine.Ledger()), h.engine.History().Len())
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(stats))
		b.WriteString("\n\n")

		if last := lastAccuracyLine(h.engine); last != "" {
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.Secondary).
				Render(last))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	return b.String()
}

// lastAccuracyLine summarizes the most recent session, if any.
func lastAccuracyLine(engine *quiz.Engine) string {
	recs := engine.History().Records()
	if len(recs) == 0 {
		return ""
	}
	last := recs[len(recs)-1]
	return fmt.Sprintf("Last session %s: %d/%d correct (%.1f%%)",
		last.Timestamp.Format("Jan 02 15:04"), last.Score, last.QuestionCount, last.Accuracy)
}
