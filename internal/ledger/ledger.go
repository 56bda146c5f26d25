// Package ledger tracks questions that have been answered wrong and how
// many consecutive correct answers are still required to master them.
package ledger

import (
	"encoding/json"
	"os"

	"github.com/yichenw/quizdeck/internal/storage"
)

// RequiredStreak is the number of consecutive correct review answers
// needed to remove a question from the ledger. Any wrong answer resets
// the requirement to this value — partial progress is never kept.
const RequiredStreak = 2

// Ledger maps question content to its remaining required correct count.
// Presence in the map means "not yet mastered".
type Ledger map[string]int

// Load reads the ledger document at path. A legacy file holding a plain
// list of content strings is migrated (every entry gets the full
// RequiredStreak) and rewritten in map shape before first use. Missing
// or unparsable files yield an empty ledger.
func Load(path string) Ledger {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ledger{}
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err == nil {
		if l == nil {
			l = Ledger{}
		}
		return l
	}

	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return Ledger{}
	}
	l = make(Ledger, len(legacy))
	for _, content := range legacy {
		l[content] = RequiredStreak
	}
	// Best effort: if the rewrite fails we still run on the migrated
	// in-memory ledger and retry on the next mutation.
	_ = storage.Save(l, path)
	return l
}

// Save persists the ledger to path.
func (l Ledger) Save(path string) error {
	return storage.Save(l, path)
}

// Result describes the effect of applying one answer outcome.
type Result struct {
	Changed   bool // the ledger was mutated and needs persisting
	Tracked   bool // the question was a ledger entry when the answer was graded
	Remaining int  // remaining required correct count after the update
	Mastered  bool // the entry was removed (remaining reached zero)
}

// Apply mutates the ledger for one answered question.
//
// Wrong answers always set the entry to the full RequiredStreak, wiping
// any prior progress. Correct answers only count during mistake review,
// and only for questions currently tracked; elsewhere a correct answer
// leaves the ledger untouched.
func (l Ledger) Apply(content string, correct, review bool) Result {
	remaining, tracked := l[content]

	if !correct {
		l[content] = RequiredStreak
		return Result{Changed: true, Tracked: tracked, Remaining: RequiredStreak}
	}

	if !review || !tracked {
		return Result{Tracked: tracked, Remaining: remaining}
	}

	remaining--
	if remaining <= 0 {
		delete(l, content)
		return Result{Changed: true, Tracked: true, Remaining: 0, Mastered: true}
	}
	l[content] = remaining
	return Result{Changed: true, Tracked: true, Remaining: remaining}
}

// Contains reports whether content is currently tracked.
func (l Ledger) Contains(content string) bool {
	_, ok := l[content]
	return ok
}

// Clear drops every entry. Used when all tracked questions have
// vanished from the loaded bank and the ledger is stale wholesale.
func (l Ledger) Clear() {
	for content := range l {
		delete(l, content)
	}
}
