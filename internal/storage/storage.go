// Package storage reads and writes QuizDeck's persisted JSON documents.
//
// Both documents (the mistake ledger and the session history) are small
// whole-file JSON values owned by a single process, so there is no
// locking and no incremental update: every save rewrites the file.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// LedgerFile is the file name of the mistake ledger document.
	LedgerFile = "mistakes.json"

	// HistoryFile is the file name of the session history document.
	HistoryFile = "history.json"
)

// Paths holds the resolved locations of the two persisted documents.
type Paths struct {
	Ledger  string
	History string
}

// PathsIn returns the document paths under the given data directory.
func PathsIn(dir string) Paths {
	return Paths{
		Ledger:  filepath.Join(dir, LedgerFile),
		History: filepath.Join(dir, HistoryFile),
	}
}

// Load reads a JSON document from path. A missing or unparsable file
// yields def — corruption is swallowed, not surfaced, so a damaged
// document degrades to a fresh one instead of blocking startup.
func Load[T any](path string, def T) T {
	data, err := os.ReadFile(path)
	if err != nil {
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return def
	}
	return v
}

// Save writes v to path as indented UTF-8 JSON, creating parent
// directories as needed. The write is not atomic; a torn file on crash
// is recovered by Load falling back to the default.
func Save(v any, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// DefaultDataDir resolves the data directory in priority order:
// 1. QUIZDECK_DATA environment variable
// 2. $XDG_DATA_HOME/quizdeck
// 3. ~/.local/share/quizdeck
func DefaultDataDir() (string, error) {
	if p := os.Getenv("QUIZDECK_DATA"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "quizdeck"), nil
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
