package quiz

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/yichenw/quizdeck/internal/bank"
	"github.com/yichenw/quizdeck/internal/history"
	"github.com/yichenw/quizdeck/internal/ledger"
	"github.com/yichenw/quizdeck/internal/storage"
)

var (
	// ErrEmptyPool rejects starts against a pool with no questions.
	ErrEmptyPool = errors.New("no questions available for this mode")

	// ErrStaleLedger reports that every tracked mistake vanished from the
	// loaded bank; the ledger has been cleared and persisted.
	ErrStaleLedger = errors.New("tracked mistakes no longer exist in the bank; ledger cleared")

	// ErrBadCount rejects a start whose count is below 1 or above the pool size.
	ErrBadCount = errors.New("question count out of range")

	// ErrInProgress rejects a start while an attempt is already playing.
	ErrInProgress = errors.New("an attempt is already in progress")

	// ErrNotPlaying rejects submit/advance/finish with no active attempt.
	ErrNotPlaying = errors.New("no attempt in progress")

	// ErrAlreadyAnswered rejects a second submit for the same question.
	ErrAlreadyAnswered = errors.New("current question already answered")

	// ErrNotAnswered rejects advance/finish before the question is graded.
	ErrNotAnswered = errors.New("current question not answered yet")

	// ErrNoSelection rejects a submit with no option selected.
	ErrNoSelection = errors.New("select at least one option")

	// ErrNotLast rejects finish before the final question.
	ErrNotLast = errors.New("not on the last question")

	// ErrNotAtEnd rejects advance past the final question.
	ErrNotAtEnd = errors.New("already on the last question")
)

// Outcome is the graded result of one submitted answer, carrying what
// the feedback screen needs.
type Outcome struct {
	Correct       bool
	UserAnswer    string // canonical sorted labels
	CorrectAnswer string // canonical sorted labels
	Explanation   string
	Ledger        ledger.Result
}

// Engine holds the process-wide quiz state: the loaded bank, the two
// persisted documents and at most one active attempt. It is not safe
// for concurrent use; the app drives it from a single Bubble Tea loop.
type Engine struct {
	questions []bank.Question
	ledger    ledger.Ledger
	log       *history.Log
	paths     storage.Paths

	attempt *Attempt
	rounds  int
}

// NewEngine loads the ledger and history documents and wires the engine
// over the given question bank.
func NewEngine(questions []bank.Question, paths storage.Paths) *Engine {
	return &Engine{
		questions: questions,
		ledger:    ledger.Load(paths.Ledger),
		log:       history.Load(paths.History),
		paths:     paths,
	}
}

// Questions returns the loaded question bank.
func (e *Engine) Questions() []bank.Question {
	return e.questions
}

// Ledger returns the live mistake ledger.
func (e *Engine) Ledger() ledger.Ledger {
	return e.ledger
}

// History returns the session history log.
func (e *Engine) History() *history.Log {
	return e.log
}

// Attempt returns the active attempt, or nil when idle.
func (e *Engine) Attempt() *Attempt {
	return e.attempt
}

// Playing reports whether an attempt is in progress.
func (e *Engine) Playing() bool {
	return e.attempt != nil
}

// MistakePool returns the bank questions currently tracked in the
// mistake ledger, in bank order.
func (e *Engine) MistakePool() []bank.Question {
	var pool []bank.Question
	for _, q := range e.questions {
		if e.ledger.Contains(q.Content) {
			pool = append(pool, q)
		}
	}
	return pool
}

// StartRandom begins a random-mode attempt over the whole bank.
func (e *Engine) StartRandom(count int) error {
	return e.start(ModeRandom, e.questions, count)
}

// StartReview begins a mistake-review attempt over the tracked
// questions. If the ledger is non-empty but none of its questions exist
// in the loaded bank anymore, the ledger is cleared wholesale, persisted
// and the start is rejected with ErrStaleLedger.
func (e *Engine) StartReview(count int) error {
	if len(e.ledger) == 0 {
		return ErrEmptyPool
	}
	pool := e.MistakePool()
	if len(pool) == 0 {
		e.ledger.Clear()
		if err := e.ledger.Save(e.paths.Ledger); err != nil {
			return err
		}
		return ErrStaleLedger
	}
	return e.start(ModeReview, pool, count)
}

func (e *Engine) start(mode Mode, pool []bank.Question, count int) error {
	if e.attempt != nil {
		return ErrInProgress
	}
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	if count < 1 || count > len(pool) {
		return ErrBadCount
	}

	e.rounds++
	e.attempt = &Attempt{
		Mode:      mode,
		Questions: sample(pool, count),
		RoundID:   e.rounds,
		StartedAt: time.Now(),
	}
	return nil
}

// sample draws count distinct questions uniformly at random, without
// replacement, preserving no particular order.
func sample(pool []bank.Question, count int) []bank.Question {
	picked := make([]bank.Question, 0, count)
	for _, idx := range rand.Perm(len(pool))[:count] {
		picked = append(picked, pool[idx])
	}
	return picked
}

// Submit grades the user's selection against the current question,
// records the answer trace, applies the ledger policy and persists the
// ledger when it changed.
func (e *Engine) Submit(selection []string) (*Outcome, error) {
	a := e.attempt
	if a == nil {
		return nil, ErrNotPlaying
	}
	if a.Answered {
		return nil, ErrAlreadyAnswered
	}
	if len(selection) == 0 {
		return nil, ErrNoSelection
	}

	q := a.Current()
	userAnswer := bank.CanonicalSelection(selection)
	// Exact equality on the canonical strings: over- or under-selection
	// on a multi-choice question is fully wrong, never partial credit.
	correct := userAnswer == q.Answer

	a.Answered = true
	a.LastCorrect = correct
	if correct {
		a.Score++
	}

	a.Traces = append(a.Traces, history.Trace{
		Index:         a.Pos + 1,
		Content:       q.Content,
		Type:          string(q.Type),
		Options:       q.Options,
		Knowledge:     q.Knowledge,
		Source:        q.Source,
		UserAnswer:    userAnswer,
		CorrectAnswer: q.Answer,
		Correct:       correct,
		Explanation:   q.Explanation,
	})

	res := e.ledger.Apply(q.Content, correct, a.Mode == ModeReview)
	if res.Changed {
		// Best effort: a failed write leaves the in-memory ledger ahead
		// of disk; the next successful save catches it up.
		_ = e.ledger.Save(e.paths.Ledger)
	}

	return &Outcome{
		Correct:       correct,
		UserAnswer:    userAnswer,
		CorrectAnswer: q.Answer,
		Explanation:   q.Explanation,
		Ledger:        res,
	}, nil
}

// Advance moves to the next question after the current one was graded.
func (e *Engine) Advance() error {
	a := e.attempt
	if a == nil {
		return ErrNotPlaying
	}
	if !a.Answered {
		return ErrNotAnswered
	}
	if a.Last() {
		return ErrNotAtEnd
	}
	a.Pos++
	a.Answered = false
	return nil
}

// Finish archives the attempt into the session history and returns the
// new record. Only valid once the final question has been answered.
func (e *Engine) Finish() (history.Record, error) {
	a := e.attempt
	if a == nil {
		return history.Record{}, ErrNotPlaying
	}
	if !a.Answered {
		return history.Record{}, ErrNotAnswered
	}
	if !a.Last() {
		return history.Record{}, ErrNotLast
	}

	rec := history.NewRecord(
		string(a.Mode),
		a.Total(),
		a.Score,
		Accuracy(a.Score, a.Total()),
		a.Traces,
	)
	err := e.log.Append(rec)
	e.attempt = nil
	return rec, err
}

// Abandon discards the in-progress attempt without recording anything.
// Answers already submitted within the attempt are lost, not partially
// archived. Safe to call when idle.
func (e *Engine) Abandon() {
	e.attempt = nil
}
