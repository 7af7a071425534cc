package review

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\n?(.*?)```")

// Extractor locates a tab-delimited table embedded in the model's
// free-text response. Fenced code blocks are preferred; bare runs of
// tabbed lines are a fallback. When several blocks qualify, the longest
// by row count wins; a tie is ambiguous and fails rather than guessing.
type Extractor struct {
	// PadRagged pads short rows and truncates long ones instead of
	// rejecting. Off by default: silent data loss in a compliance report
	// is worse than a failed run.
	PadRagged bool
	// FirstRowHeader treats the first parsed row as a header row.
	FirstRowHeader bool
	Logger         *zap.Logger
}

// Extract parses the response into a table.
func (e Extractor) Extract(text string) (*ParsedTable, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	candidates := fencedCandidates(text)
	if len(candidates) == 0 {
		candidates = bareCandidates(text)
	}
	if len(candidates) == 0 {
		return nil, ErrNoStructuredBlock
	}

	best := candidates[0]
	tied := false
	for _, c := range candidates[1:] {
		switch {
		case rowCount(c) > rowCount(best):
			best = c
			tied = false
		case rowCount(c) == rowCount(best):
			tied = true
		}
	}
	if tied {
		return nil, fmt.Errorf("%d candidate blocks of %d rows: %w",
			len(candidates), rowCount(best), ErrAmbiguousStructuredBlock)
	}
	if len(candidates) > 1 {
		logger.Warn("multiple structured blocks in response, taking longest",
			zap.Int("candidates", len(candidates)),
			zap.Int("rows", rowCount(best)))
	}

	table, err := e.parse(best)
	if err != nil {
		return nil, err
	}
	logger.Info("structured block parsed",
		zap.Int("rows", len(table.Rows)),
		zap.Int("cols", table.Width()))
	return table, nil
}

func (e Extractor) parse(block string) (*ParsedTable, error) {
	r := csv.NewReader(strings.NewReader(block))
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse structured block: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoStructuredBlock
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) == width {
			continue
		}
		if !e.PadRagged {
			return nil, fmt.Errorf("row %d has %d columns, expected %d: %w",
				i+1, len(row), width, ErrMalformedRow)
		}
		if len(row) > width {
			rows[i] = row[:width]
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		rows[i] = padded
	}

	table := &ParsedTable{Rows: rows}
	if e.FirstRowHeader && len(rows) > 1 {
		table.Header = rows[0]
		table.Rows = rows[1:]
	}
	return table, nil
}

// fencedCandidates returns the contents of fenced code blocks that look
// tab-delimited: at least one non-empty line, first of them tabbed.
func fencedCandidates(text string) []string {
	var out []string
	for _, m := range fencedBlockRe.FindAllStringSubmatch(text, -1) {
		body := strings.Trim(m[1], "\n")
		if body == "" {
			continue
		}
		if first := firstNonEmptyLine(body); strings.Contains(first, "\t") {
			out = append(out, body)
		}
	}
	return out
}

// bareCandidates finds maximal runs of two or more consecutive tabbed
// lines outside any fence. A single tabbed line in prose is too weak a
// signal to treat as a table.
func bareCandidates(text string) []string {
	var out []string
	var run []string
	flush := func() {
		if len(run) >= 2 {
			out = append(out, strings.Join(run, "\n"))
		}
		run = nil
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.Contains(line, "\t") {
			run = append(run, line)
			continue
		}
		flush()
	}
	flush()
	return out
}

func firstNonEmptyLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func rowCount(block string) int {
	n := 0
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
