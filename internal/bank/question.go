// Package bank loads the question bank from tabular sources (XLSX and
// CSV files) and exposes the immutable Question records built from them.
package bank

import (
	"sort"
	"strings"
)

// QuestionType is the closed set of supported question kinds, decided
// once at load time.
type QuestionType string

const (
	TypeSingle    QuestionType = "single"
	TypeMulti     QuestionType = "multi"
	TypeTrueFalse QuestionType = "truefalse"
)

// DisplayName returns a human-readable label for the type.
func (t QuestionType) DisplayName() string {
	switch t {
	case TypeMulti:
		return "Multiple Choice"
	case TypeTrueFalse:
		return "True / False"
	default:
		return "Single Choice"
	}
}

// Question is one loaded question. Immutable once loaded.
//
// Content doubles as the question's identity in the mistake ledger and
// in history traces; duplicate content across bank files is permitted
// but makes ledger entries ambiguous (the loader warns about it).
type Question struct {
	Content     string
	Options     []string // labeled, e.g. "A. The first option"
	Answer      string   // canonical sorted label string, e.g. "ABD"
	Explanation string
	Knowledge   string
	Type        QuestionType
	Source      string // originating file name
}

// Labels returns the option labels (first character of each option).
func (q Question) Labels() []string {
	labels := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt == "" {
			continue
		}
		labels = append(labels, string(opt[0]))
	}
	return labels
}

// CanonicalAnswer normalizes an answer string of option labels: spaces
// removed, uppercased, letters sorted. "b a" and "AB" both canonicalize
// to "AB", which makes grading order-independent.
func CanonicalAnswer(s string) string {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	letters := strings.Split(s, "")
	sort.Strings(letters)
	return strings.Join(letters, "")
}

// CanonicalSelection canonicalizes a set of selected option labels.
func CanonicalSelection(labels []string) string {
	return CanonicalAnswer(strings.Join(labels, ""))
}
