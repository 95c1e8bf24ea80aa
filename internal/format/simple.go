package format

import (
	"fmt"
	"io"

	"github.com/cristianoliveira/condoview/internal/domain"
)

// simpleTitleWidth caps the title column of the simple format.
const simpleTitleWidth = 50

// SimpleFormatter prints one occurrence per line.
type SimpleFormatter struct{}

// NewSimpleFormatter creates a new SimpleFormatter.
func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

// FormatPage formats occurrences in simple format.
func (f *SimpleFormatter) FormatPage(page domain.ListPage, writer io.Writer) error {
	if len(page.Items) == 0 {
		_, err := fmt.Fprintln(writer, "No occurrences found")
		return err
	}
	for _, o := range page.Items {
		_, err := fmt.Fprintf(writer, "#%-5d  %-12s  %-12s  %s\n", o.ID, o.Status.Label(), truncate(o.Type, 12), truncate(o.Title, simpleTitleWidth))
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(writer, footer(page))
	return err
}

// FormatCounts formats tab totals as "label: n" lines.
func (f *SimpleFormatter) FormatCounts(counts []TabCount, writer io.Writer) error {
	for _, c := range counts {
		if _, err := fmt.Fprintf(writer, "%-14s %d\n", c.Tab.Label()+":", c.Count); err != nil {
			return err
		}
	}
	return nil
}

// FormatDetail formats a single occurrence followed by its comments.
func (f *SimpleFormatter) FormatDetail(o domain.Occurrence, comments []domain.Comment, writer io.Writer) error {
	lines := []string{
		fmt.Sprintf("#%d %s", o.ID, o.Title),
		fmt.Sprintf("Status:    %s", o.Status.Label()),
		fmt.Sprintf("Type:      %s", orDash(o.Type)),
		fmt.Sprintf("Resident:  %s", orDash(o.ResidentID)),
		fmt.Sprintf("Created:   %s", formatTime(o.CreatedAt)),
		fmt.Sprintf("Updated:   %s", formatTime(o.UpdatedAt)),
	}
	if o.ImageURL != "" {
		lines = append(lines, fmt.Sprintf("Image:     %s", o.ImageURL))
	}
	if o.Description != "" {
		lines = append(lines, "", o.Description)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	if len(comments) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(writer, "\nComments (%d):\n", len(comments)); err != nil {
		return err
	}
	for _, c := range comments {
		if _, err := fmt.Fprintf(writer, "  [%s] %s\n", formatTime(c.CreatedAt), c.Text); err != nil {
			return err
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
