package bank

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Loader scans a directory for question-bank files and parses them.
type Loader struct {
	Dir    string
	Logger *slog.Logger
}

// NewLoader creates a Loader for dir. A nil logger falls back to the
// default slog logger.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{Dir: dir, Logger: logger}
}

// Load reads every *.xlsx and *.csv file under the loader's directory
// and returns the questions parsed from them. Missing directories,
// unreadable files and malformed rows are skipped and logged, never
// fatal: an empty bank is the caller's problem to surface.
func (l *Loader) Load() []Question {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		l.Logger.Warn("question bank directory unavailable", "dir", l.Dir, "error", err)
		return nil
	}

	var questions []Question
	seen := make(map[string]string) // content → source, for duplicate warnings

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		// Excel writes ~$-prefixed lock files next to open workbooks.
		if strings.HasPrefix(name, "~$") {
			continue
		}

		var (
			qs      []Question
			loadErr error
		)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx":
			qs, loadErr = l.loadXLSX(filepath.Join(l.Dir, name))
		case ".csv":
			qs, loadErr = l.loadCSV(filepath.Join(l.Dir, name))
		default:
			continue
		}
		if loadErr != nil {
			l.Logger.Warn("skipping question bank file", "file", name, "error", loadErr)
			continue
		}

		for _, q := range qs {
			if prev, dup := seen[q.Content]; dup {
				l.Logger.Warn("duplicate question content",
					"content", q.Content, "source", q.Source, "previous", prev)
			} else {
				seen[q.Content] = q.Source
			}
			questions = append(questions, q)
		}
		l.Logger.Info("loaded question bank file", "file", name, "questions", len(qs))
	}

	return questions
}

// loadXLSX parses the first sheet of an Excel workbook.
func (l *Loader) loadXLSX(path string) ([]Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return l.parseRows(rows, filepath.Base(path)), nil
}

// loadCSV parses a CSV file with the same column contract as XLSX.
func (l *Loader) loadCSV(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return l.parseRows(rows, filepath.Base(path)), nil
}

// parseRows maps a header row plus data rows to questions, skipping and
// logging invalid rows.
func (l *Loader) parseRows(rows [][]string, source string) []Question {
	if len(rows) < 2 {
		return nil
	}

	cols := mapHeader(rows[0])
	if cols.content < 0 || cols.answer < 0 || cols.qtype < 0 {
		l.Logger.Warn("question bank file missing required columns",
			"file", source, "required", "question text, type, correct answer")
		return nil
	}

	var questions []Question
	for i, row := range rows[1:] {
		q, err := parseRow(row, cols, source)
		if err != nil {
			if !errors.Is(err, errUnrecognizedType) {
				l.Logger.Debug("skipping row", "file", source, "row", i+2, "reason", err)
			}
			continue
		}
		questions = append(questions, q)
	}
	return questions
}

// columnIndex holds the resolved column positions; -1 means absent.
type columnIndex struct {
	content     int
	qtype       int
	options     [4]int // A..D
	answer      int
	explanation int
	knowledge   int
}

// headerAliases maps normalized header cells to canonical column names.
// The bank files in the wild carry either English headers or the
// original Chinese ones, sometimes with stray spaces.
var headerAliases = map[string]string{
	"question": "content", "questiontext": "content", "content": "content", "题干": "content",
	"type": "type", "questiontype": "type", "题型": "type",
	"optiona": "a", "a": "a", "选项a": "a",
	"optionb": "b", "b": "b", "选项b": "b",
	"optionc": "c", "c": "c", "选项c": "c",
	"optiond": "d", "d": "d", "选项d": "d",
	"answer": "answer", "correctanswer": "answer", "正确答案": "answer",
	"explanation": "explanation", "解析": "explanation",
	"knowledge": "knowledge", "knowledgepoint": "knowledge", "知识点": "knowledge", "知识点分类": "knowledge",
}

func mapHeader(header []string) columnIndex {
	cols := columnIndex{content: -1, qtype: -1, answer: -1, explanation: -1, knowledge: -1}
	cols.options = [4]int{-1, -1, -1, -1}

	for i, cell := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(cell), " ", ""))
		switch headerAliases[key] {
		case "content":
			cols.content = i
		case "type":
			cols.qtype = i
		case "a":
			cols.options[0] = i
		case "b":
			cols.options[1] = i
		case "c":
			cols.options[2] = i
		case "d":
			cols.options[3] = i
		case "answer":
			cols.answer = i
		case "explanation":
			cols.explanation = i
		case "knowledge":
			cols.knowledge = i
		}
	}
	return cols
}

var (
	errUnrecognizedType = errors.New("unrecognized question type")
	errMissingContent   = errors.New("missing question text")
	errMissingAnswer    = errors.New("missing answer")
)

// typeMarkers are matched by substring against the raw type tag.
var typeMarkers = []struct {
	marker string
	qtype  QuestionType
}{
	{"多选", TypeMulti},
	{"multi", TypeMulti},
	{"判断", TypeTrueFalse},
	{"true", TypeTrueFalse},
	{"judge", TypeTrueFalse},
	{"单选", TypeSingle},
	{"single", TypeSingle},
}

// affirmative and negative true/false answer encodings, mapped to the
// fixed A/B option scheme.
var (
	tfAffirmative = map[string]bool{"对": true, "正确": true, "√": true, "T": true, "TRUE": true, "Y": true}
	tfNegative    = map[string]bool{"错": true, "错误": true, "×": true, "F": true, "FALSE": true, "N": true}
)

// cell returns the trimmed cell at idx, or "" when out of range.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow validates one data row and builds an immutable Question.
func parseRow(row []string, cols columnIndex, source string) (Question, error) {
	rawType := strings.ToLower(cell(row, cols.qtype))
	qtype, ok := matchType(rawType)
	if !ok {
		return Question{}, errUnrecognizedType
	}

	content := cell(row, cols.content)
	if content == "" {
		return Question{}, errMissingContent
	}
	rawAnswer := strings.ToUpper(strings.ReplaceAll(cell(row, cols.answer), " ", ""))
	if rawAnswer == "" {
		return Question{}, errMissingAnswer
	}

	labels := []string{"A", "B", "C", "D"}
	var options []string
	for i, idx := range cols.options {
		if text := cell(row, idx); text != "" {
			options = append(options, fmt.Sprintf("%s. %s", labels[i], text))
		}
	}

	// True/false rows often carry no option columns: normalize to the
	// fixed two-option scheme and map textual/symbolic answers to A/B.
	if qtype == TypeTrueFalse && len(options) == 0 {
		options = []string{"A. True", "B. False"}
		switch {
		case tfAffirmative[rawAnswer]:
			rawAnswer = "A"
		case tfNegative[rawAnswer]:
			rawAnswer = "B"
		}
	}

	explanation := cell(row, cols.explanation)
	if explanation == "" {
		explanation = "No explanation provided."
	}
	knowledge := cell(row, cols.knowledge)
	if knowledge == "" {
		knowledge = "General"
	}

	return Question{
		Content:     content,
		Options:     options,
		Answer:      CanonicalAnswer(rawAnswer),
		Explanation: explanation,
		Knowledge:   knowledge,
		Type:        qtype,
		Source:      source,
	}, nil
}

func matchType(raw string) (QuestionType, bool) {
	for _, m := range typeMarkers {
		if strings.Contains(raw, m.marker) {
			return m.qtype, true
		}
	}
	return "", false
}
