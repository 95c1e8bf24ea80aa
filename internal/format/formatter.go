// Package format provides output formatting for CLI commands.
// It renders occurrence pages, tab counters and single occurrences.
package format

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cristianoliveira/condoview/internal/domain"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// FormatPage writes one page of occurrences.
	FormatPage(page domain.ListPage, writer io.Writer) error

	// FormatCounts writes the total of every tab.
	FormatCounts(counts []TabCount, writer io.Writer) error

	// FormatDetail writes one occurrence and its comments.
	FormatDetail(o domain.Occurrence, comments []domain.Comment, writer io.Writer) error
}

// TabCount is the number of occurrences behind one tab.
type TabCount struct {
	Tab   domain.Tab
	Count int
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeSimple prints one occurrence per line.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeTable prints a bordered table with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeJSON prints machine readable JSON.
	FormatterTypeJSON FormatterType = "json"
)

// ParseType validates a --format value.
func ParseType(raw string) (FormatterType, error) {
	switch t := FormatterType(strings.ToLower(strings.TrimSpace(raw))); t {
	case FormatterTypeSimple, FormatterTypeTable, FormatterTypeJSON:
		return t, nil
	case "":
		return FormatterTypeTable, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected simple, table or json)", raw)
	}
}

// NewFormatter creates a new formatter of the specified type.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeTable:
		return NewTableFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		return NewSimpleFormatter()
	}
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func footer(page domain.ListPage) string {
	s := fmt.Sprintf("%d of %d", len(page.Items), page.TotalItems)
	if page.HasMore {
		s += " (more with --page)"
	}
	return s
}
