// Package quiz owns the lifecycle of a quiz attempt: sampling a question
// subset, grading answers, applying the mistake-ledger policy and
// archiving finished attempts into the session history.
package quiz

import (
	"math"
	"time"

	"github.com/yichenw/quizdeck/internal/bank"
	"github.com/yichenw/quizdeck/internal/history"
)

// Mode identifies how an attempt's question pool was chosen.
type Mode string

const (
	ModeRandom Mode = "random"
	ModeReview Mode = "mistake-review"
)

// DisplayName returns a human-readable label for the mode.
func (m Mode) DisplayName() string {
	if m == ModeReview {
		return "Mistake Review"
	}
	return "Random Quiz"
}

// Attempt is the transient state of one quiz run, created on start and
// discarded when the attempt finishes or is abandoned. It is owned by
// the Engine and passed explicitly — never ambient state.
type Attempt struct {
	Mode        Mode
	Questions   []bank.Question // sampled subset, order fixed at start
	Pos         int             // current question index
	Score       int
	Answered    bool // the current question has been graded
	LastCorrect bool
	RoundID     int // monotonically incremented per attempt, invalidates stale widgets
	StartedAt   time.Time
	Traces      []history.Trace // accumulated per answered question
}

// Current returns the question at the current position.
func (a *Attempt) Current() *bank.Question {
	if a.Pos < 0 || a.Pos >= len(a.Questions) {
		return nil
	}
	return &a.Questions[a.Pos]
}

// Total returns the number of questions in the attempt.
func (a *Attempt) Total() int {
	return len(a.Questions)
}

// Last reports whether the current question is the final one.
func (a *Attempt) Last() bool {
	return a.Pos == len(a.Questions)-1
}

// Accuracy computes the percentage of correct answers rounded to one
// decimal place, e.g. 3 of 5 → 60.0.
func Accuracy(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*1000) / 10
}
