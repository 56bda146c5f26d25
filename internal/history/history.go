// Package history persists the append-only record of completed quiz
// sessions, including the per-question answer traces kept for later
// review.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/yichenw/quizdeck/internal/storage"
)

// Trace is the recorded detail of one answered question within a
// session, in answer order.
type Trace struct {
	Index         int      `json:"index"` // 1-based position within the attempt
	Content       string   `json:"content"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	Knowledge     string   `json:"knowledge"`
	Source        string   `json:"source"`
	UserAnswer    string   `json:"user_answer"`    // canonical sorted labels
	CorrectAnswer string   `json:"correct_answer"` // canonical sorted labels
	Correct       bool     `json:"correct"`
	Explanation   string   `json:"explanation"`
}

// Record is one finished quiz session. Immutable after creation.
// Traces may be empty for records written by early versions that did
// not save answer details.
type Record struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Mode          string    `json:"mode"`
	QuestionCount int       `json:"question_count"`
	Score         int       `json:"score"`
	Accuracy      float64   `json:"accuracy"` // percent, one decimal
	Traces        []Trace   `json:"traces,omitempty"`
}

// NewRecord builds a Record with a fresh ID and the current time.
func NewRecord(mode string, questionCount, score int, accuracy float64, traces []Trace) Record {
	return Record{
		ID:            uuid.New().String(),
		Timestamp:     time.Now(),
		Mode:          mode,
		QuestionCount: questionCount,
		Score:         score,
		Accuracy:      accuracy,
		Traces:        traces,
	}
}

// Log is the persisted list of session records.
type Log struct {
	path    string
	records []Record
}

// Load reads the history document at path. Missing or unparsable files
// yield an empty log.
func Load(path string) *Log {
	return &Log{
		path:    path,
		records: storage.Load(path, []Record{}),
	}
}

// Append adds a record and persists the whole document.
func (l *Log) Append(r Record) error {
	l.records = append(l.records, r)
	return storage.Save(l.records, l.path)
}

// Records returns the records in append order (oldest first).
func (l *Log) Records() []Record {
	return l.records
}

// Len returns the number of recorded sessions.
func (l *Log) Len() int {
	return len(l.records)
}
