package quiz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yichenw/quizdeck/internal/bank"
	"github.com/yichenw/quizdeck/internal/ledger"
	"github.com/yichenw/quizdeck/internal/storage"
)

// testBank builds n single-choice questions Q1..Qn, all with answer A.
func testBank(n int) []bank.Question {
	qs := make([]bank.Question, 0, n)
	for i := 1; i <= n; i++ {
		qs = append(qs, bank.Question{
			Content:     fmt.Sprintf("Q%d", i),
			Options:     []string{"A. right", "B. wrong"},
			Answer:      "A",
			Explanation: "because",
			Knowledge:   "test",
			Type:        bank.TypeSingle,
			Source:      "test.xlsx",
		})
	}
	return qs
}

func testEngine(t *testing.T, questions []bank.Question) *Engine {
	t.Helper()
	return NewEngine(questions, storage.PathsIn(t.TempDir()))
}

func TestStartRandom_SamplesDistinctSubset(t *testing.T) {
	e := testEngine(t, testBank(10))

	require.NoError(t, e.StartRandom(4))

	a := e.Attempt()
	require.NotNil(t, a)
	assert.Equal(t, 4, a.Total())
	assert.Equal(t, ModeRandom, a.Mode)

	seen := make(map[string]bool)
	for _, q := range a.Questions {
		assert.False(t, seen[q.Content], "duplicate question %s", q.Content)
		seen[q.Content] = true
	}
}

func TestStart_RejectsBadCounts(t *testing.T) {
	e := testEngine(t, testBank(3))

	assert.ErrorIs(t, e.StartRandom(0), ErrBadCount)
	assert.ErrorIs(t, e.StartRandom(4), ErrBadCount)
	assert.Nil(t, e.Attempt())
}

func TestStart_RejectsEmptyBank(t *testing.T) {
	e := testEngine(t, nil)
	assert.ErrorIs(t, e.StartRandom(1), ErrEmptyPool)
}

func TestStart_RejectsWhilePlaying(t *testing.T) {
	e := testEngine(t, testBank(3))
	require.NoError(t, e.StartRandom(2))
	assert.ErrorIs(t, e.StartRandom(1), ErrInProgress)
}

func TestStart_IncrementsRoundID(t *testing.T) {
	e := testEngine(t, testBank(3))

	require.NoError(t, e.StartRandom(1))
	first := e.Attempt().RoundID
	e.Abandon()

	require.NoError(t, e.StartRandom(1))
	assert.Equal(t, first+1, e.Attempt().RoundID)
}

func TestStartReview_EmptyLedgerRejected(t *testing.T) {
	e := testEngine(t, testBank(3))
	assert.ErrorIs(t, e.StartReview(1), ErrEmptyPool)
	assert.Nil(t, e.Attempt())
}

func TestStartReview_PoolIsTrackedQuestions(t *testing.T) {
	e := testEngine(t, testBank(5))
	e.Ledger()["Q2"] = 2
	e.Ledger()["Q4"] = 1

	pool := e.MistakePool()
	require.Len(t, pool, 2)
	assert.Equal(t, "Q2", pool[0].Content)
	assert.Equal(t, "Q4", pool[1].Content)

	require.NoError(t, e.StartReview(2))
	assert.Equal(t, ModeReview, e.Attempt().Mode)
}

func TestStartReview_StaleLedgerClearedWholesale(t *testing.T) {
	paths := storage.PathsIn(t.TempDir())
	e := NewEngine(testBank(3), paths)
	e.Ledger()["vanished question"] = 2

	err := e.StartReview(1)

	assert.ErrorIs(t, err, ErrStaleLedger)
	assert.Empty(t, e.Ledger())
	// The cleared ledger must have been persisted immediately.
	assert.Empty(t, ledger.Load(paths.Ledger))
}

func TestSubmit_GradingIsOrderIndependent(t *testing.T) {
	multi := []bank.Question{{
		Content: "pick three",
		Options: []string{"A. a", "B. b", "C. c", "D. d"},
		Answer:  "ABD",
		Type:    bank.TypeMulti,
	}}

	for _, selection := range [][]string{
		{"A", "B", "D"},
		{"D", "B", "A"},
		{"B", "D", "A"},
	} {
		e := testEngine(t, multi)
		require.NoError(t, e.StartRandom(1))

		out, err := e.Submit(selection)
		require.NoError(t, err)
		assert.True(t, out.Correct, "selection %v", selection)
		assert.Equal(t, "ABD", out.UserAnswer)
	}
}

func TestSubmit_PartialSelectionIsFullyWrong(t *testing.T) {
	multi := []bank.Question{{
		Content: "pick three",
		Options: []string{"A. a", "B. b", "C. c", "D. d"},
		Answer:  "ABD",
		Type:    bank.TypeMulti,
	}}

	for _, selection := range [][]string{
		{"A", "B"},           // under-selection
		{"A", "B", "C", "D"}, // over-selection
		{"A", "B", "C"},      // deviation
	} {
		e := testEngine(t, multi)
		require.NoError(t, e.StartRandom(1))

		out, err := e.Submit(selection)
		require.NoError(t, err)
		assert.False(t, out.Correct, "selection %v", selection)
	}
}

func TestSubmit_RequiresSelection(t *testing.T) {
	e := testEngine(t, testBank(1))
	require.NoError(t, e.StartRandom(1))

	_, err := e.Submit(nil)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.False(t, e.Attempt().Answered, "rejected submit must not mutate state")
	assert.Empty(t, e.Attempt().Traces)
}

func TestSubmit_OnlyOncePerQuestion(t *testing.T) {
	e := testEngine(t, testBank(1))
	require.NoError(t, e.StartRandom(1))

	_, err := e.Submit([]string{"A"})
	require.NoError(t, err)
	_, err = e.Submit([]string{"A"})
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
}

func TestSubmit_WrongAnswerEntersLedgerAndPersists(t *testing.T) {
	paths := storage.PathsIn(t.TempDir())
	e := NewEngine(testBank(1), paths)
	require.NoError(t, e.StartRandom(1))

	out, err := e.Submit([]string{"B"})
	require.NoError(t, err)

	assert.False(t, out.Correct)
	assert.Equal(t, ledger.RequiredStreak, e.Ledger()["Q1"])
	assert.Equal(t, ledger.RequiredStreak, ledger.Load(paths.Ledger)["Q1"],
		"ledger mutation must hit disk immediately")
}

func TestSubmit_ReviewCorrectDecrementsTowardMastery(t *testing.T) {
	e := testEngine(t, testBank(1))
	e.Ledger()["Q1"] = 2

	require.NoError(t, e.StartReview(1))
	out, err := e.Submit([]string{"A"})
	require.NoError(t, err)

	assert.True(t, out.Correct)
	assert.Equal(t, 1, out.Ledger.Remaining)
	assert.False(t, out.Ledger.Mastered)
	assert.Equal(t, 1, e.Ledger()["Q1"])

	// Second correct answer in a fresh review attempt masters it.
	_, err = e.Finish()
	require.NoError(t, err)
	require.NoError(t, e.StartReview(1))
	out, err = e.Submit([]string{"A"})
	require.NoError(t, err)
	assert.True(t, out.Ledger.Mastered)
	assert.False(t, e.Ledger().Contains("Q1"))
}

func TestSubmit_RandomCorrectLeavesLedgerAlone(t *testing.T) {
	e := testEngine(t, testBank(1))
	e.Ledger()["Q1"] = 2

	require.NoError(t, e.StartRandom(1))
	out, err := e.Submit([]string{"A"})
	require.NoError(t, err)

	assert.True(t, out.Correct)
	assert.False(t, out.Ledger.Changed)
	assert.Equal(t, 2, e.Ledger()["Q1"])
}

func TestAdvance_Transitions(t *testing.T) {
	e := testEngine(t, testBank(2))
	require.NoError(t, e.StartRandom(2))

	assert.ErrorIs(t, e.Advance(), ErrNotAnswered)

	_, err := e.Submit([]string{"A"})
	require.NoError(t, err)
	require.NoError(t, e.Advance())

	a := e.Attempt()
	assert.Equal(t, 1, a.Pos)
	assert.False(t, a.Answered)

	_, err = e.Submit([]string{"A"})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Advance(), ErrNotAtEnd)
}

func TestFinish_FiveQuestionScenario(t *testing.T) {
	paths := storage.PathsIn(t.TempDir())
	e := NewEngine(testBank(5), paths)
	require.NoError(t, e.StartRandom(5))

	// Answer 3 correctly, 2 wrong.
	answers := [][]string{{"A"}, {"B"}, {"A"}, {"B"}, {"A"}}
	for i, sel := range answers {
		_, err := e.Submit(sel)
		require.NoError(t, err)
		if i < len(answers)-1 {
			require.NoError(t, e.Advance())
		}
	}

	rec, err := e.Finish()
	require.NoError(t, err)

	assert.Equal(t, 3, rec.Score)
	assert.Equal(t, 60.0, rec.Accuracy)
	assert.Equal(t, 5, rec.QuestionCount)
	assert.Len(t, rec.Traces, 5)
	assert.Equal(t, string(ModeRandom), rec.Mode)

	// Attempt is reset and the record is durably archived.
	assert.Nil(t, e.Attempt())
	fresh := NewEngine(nil, paths)
	require.Equal(t, 1, fresh.History().Len())
	assert.Equal(t, rec.ID, fresh.History().Records()[0].ID)
}

func TestFinish_OnlyOnAnsweredLastQuestion(t *testing.T) {
	e := testEngine(t, testBank(2))
	require.NoError(t, e.StartRandom(2))

	_, err := e.Finish()
	assert.ErrorIs(t, err, ErrNotAnswered)

	_, err = e.Submit([]string{"A"})
	require.NoError(t, err)
	_, err = e.Finish()
	assert.ErrorIs(t, err, ErrNotLast)
}

func TestAbandon_RecordsNothing(t *testing.T) {
	paths := storage.PathsIn(t.TempDir())
	e := NewEngine(testBank(3), paths)
	require.NoError(t, e.StartRandom(3))

	_, err := e.Submit([]string{"A"})
	require.NoError(t, err)

	e.Abandon()

	assert.Nil(t, e.Attempt())
	assert.Equal(t, 0, e.History().Len())
	assert.Equal(t, 0, NewEngine(nil, paths).History().Len())
}

func TestTrace_RecordsAnswerDetail(t *testing.T) {
	e := testEngine(t, testBank(1))
	require.NoError(t, e.StartRandom(1))

	_, err := e.Submit([]string{"B"})
	require.NoError(t, err)

	traces := e.Attempt().Traces
	require.Len(t, traces, 1)
	tr := traces[0]
	assert.Equal(t, 1, tr.Index)
	assert.Equal(t, "Q1", tr.Content)
	assert.Equal(t, "B", tr.UserAnswer)
	assert.Equal(t, "A", tr.CorrectAnswer)
	assert.False(t, tr.Correct)
	assert.Equal(t, "because", tr.Explanation)
	assert.Equal(t, "test.xlsx", tr.Source)
}
