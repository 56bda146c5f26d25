// Package play drives an active quiz attempt: the question-count
// setup prompt, the question/answer loop and the graded feedback
// overlay, ending in a summary screen.
package play

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/yichenw/quizdeck/internal/bank"
	"github.com/yichenw/quizdeck/internal/quiz"
	"github.com/yichenw/quizdeck/internal/router"
	"github.com/yichenw/quizdeck/internal/screen"
	"github.com/yichenw/quizdeck/internal/screens/summary"
	"github.com/yichenw/quizdeck/internal/ui/components"
	"github.com/yichenw/quizdeck/internal/ui/layout"
)

// defaultRandomCount caps the suggested attempt size in random mode.
const defaultRandomCount = 20

type phase int

const (
	phaseSetup phase = iota
	phasePlaying
	phaseFeedback
)

// PlayScreen implements screen.Screen for a quiz attempt.
type PlayScreen struct {
	engine *quiz.Engine
	mode   quiz.Mode

	phase        phase
	poolSize     int
	defaultCount int
	countInput   components.TextInput
	options      components.OptionList
	outcome      *quiz.Outcome
	confirmQuit  bool
	showAnswered bool // mid-attempt answered-so-far panel

	flash  string // transient validation message, cleared on next key
	errMsg string // terminal error, any key pops back home
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.NavLocker = (*PlayScreen)(nil)

// New creates a PlayScreen in its setup phase for the given mode.
func New(engine *quiz.Engine, mode quiz.Mode) *PlayScreen {
	s := &PlayScreen{
		engine: engine,
		mode:   mode,
	}

	switch mode {
	case quiz.ModeReview:
		if len(engine.Ledger()) == 0 {
			s.errMsg = "No mistakes tracked yet. Take a random quiz first."
			return s
		}
		pool := engine.MistakePool()
		if len(pool) == 0 {
			// Every tracked question vanished from the bank; starting
			// clears the ledger wholesale and reports it.
			if err := engine.StartReview(1); err != nil {
				s.errMsg = err.Error()
			}
			return s
		}
		s.poolSize = len(pool)
		s.defaultCount = len(pool)
	default:
		s.poolSize = len(engine.Questions())
		if s.poolSize == 0 {
			s.errMsg = "No questions loaded."
			return s
		}
		s.defaultCount = min(defaultRandomCount, s.poolSize)
	}

	s.countInput = components.NewTextInput(fmt.Sprintf("%d", s.defaultCount), true, 4)
	return s
}

func (s *PlayScreen) Init() tea.Cmd {
	if s.errMsg != "" {
		return nil
	}
	return s.countInput.Init()
}

func (s *PlayScreen) Title() string {
	return s.mode.DisplayName()
}

// NavLocked keeps the app from popping this screen on esc while an
// attempt is live; esc opens the quit confirmation instead.
func (s *PlayScreen) NavLocked() bool {
	return s.engine.Playing()
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit attempt"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.phase {
	case phaseSetup:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	default:
		if s.showAnswered {
			return []layout.KeyHint{
				{Key: "any key", Description: "Close"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Space", Description: "Mark"},
			{Key: "Enter", Description: "Submit"},
			{Key: "R", Description: "Answered so far"},
			{Key: "Esc", Description: "Quit"},
		}
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		return s.handleKey(kmsg)
	}

	if s.phase == phaseSetup && s.errMsg == "" {
		var cmd tea.Cmd
		s.countInput, cmd = s.countInput.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	s.flash = ""

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.confirmQuit {
		switch msg.String() {
		case "y", "Y":
			s.engine.Abandon()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.phase {
	case phaseSetup:
		return s.handleSetupKey(msg)
	case phasePlaying:
		return s.handlePlayingKey(msg)
	case phaseFeedback:
		return s.handleFeedbackKey(msg)
	}
	return s, nil
}

func (s *PlayScreen) handleSetupKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		count := s.defaultCount
		if s.countInput.Value() != "" {
			n, err := s.countInput.NumericValue()
			if err != nil {
				s.flash = "Enter a number."
				return s, nil
			}
			count = n
		}
		return s, s.start(count)
	}

	var cmd tea.Cmd
	s.countInput, cmd = s.countInput.Update(msg)
	return s, cmd
}

// start begins the attempt and moves into the playing phase.
func (s *PlayScreen) start(count int) tea.Cmd {
	var err error
	if s.mode == quiz.ModeReview {
		err = s.engine.StartReview(count)
	} else {
		err = s.engine.StartRandom(count)
	}
	if err != nil {
		if errors.Is(err, quiz.ErrBadCount) {
			s.flash = fmt.Sprintf("Pick between 1 and %d questions.", s.poolSize)
			return nil
		}
		s.errMsg = err.Error()
		return nil
	}

	s.phase = phasePlaying
	s.loadCurrentQuestion()
	return nil
}

// loadCurrentQuestion rebuilds the option list for the question at the
// attempt's current position.
func (s *PlayScreen) loadCurrentQuestion() {
	q := s.engine.Attempt().Current()
	s.options = components.NewOptionList(q.Options, q.Type == bank.TypeMulti)
	s.outcome = nil
}

func (s *PlayScreen) handlePlayingKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.showAnswered {
		s.showAnswered = false
		return s, nil
	}

	switch msg.String() {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "r":
		s.showAnswered = true
		return s, nil
	case "enter":
		outcome, err := s.engine.Submit(s.options.Selection())
		if err != nil {
			if errors.Is(err, quiz.ErrNoSelection) {
				s.flash = "Select at least one option."
				return s, nil
			}
			s.errMsg = err.Error()
			return s, nil
		}
		s.outcome = outcome
		s.options.MarkGraded(outcome.UserAnswer, outcome.CorrectAnswer)
		s.phase = phaseFeedback
		return s, nil
	}

	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return s, cmd
}

func (s *PlayScreen) handleFeedbackKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	a := s.engine.Attempt()
	if a.Last() {
		rec, err := s.engine.Finish()
		if err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(rec)}
		}
	}

	if err := s.engine.Advance(); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.phase = phasePlaying
	s.loadCurrentQuestion()
	return s, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
