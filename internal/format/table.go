package format

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cristianoliveira/condoview/internal/domain"
)

// tableTitleWidth caps the title column of the table format.
const tableTitleWidth = 48

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TableFormatter renders bordered tables with lipgloss.
type TableFormatter struct{}

// NewTableFormatter creates a new TableFormatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// FormatPage formats occurrences as a table followed by a position line.
func (f *TableFormatter) FormatPage(page domain.ListPage, writer io.Writer) error {
	if len(page.Items) == 0 {
		_, err := fmt.Fprintln(writer, "No occurrences found")
		return err
	}
	t := newTable("ID", "STATUS", "TYPE", "TITLE", "CREATED")
	for _, o := range page.Items {
		t.Row(
			"#"+strconv.FormatInt(o.ID, 10),
			o.Status.Label(),
			truncate(o.Type, 16),
			truncate(o.Title, tableTitleWidth),
			formatTime(o.CreatedAt),
		)
	}
	_, err := fmt.Fprintf(writer, "%s\n%s\n", t.Render(), footer(page))
	return err
}

// FormatCounts formats tab totals as a two-column table.
func (f *TableFormatter) FormatCounts(counts []TabCount, writer io.Writer) error {
	t := newTable("TAB", "TOTAL")
	for _, c := range counts {
		t.Row(c.Tab.Label(), strconv.Itoa(c.Count))
	}
	_, err := fmt.Fprintln(writer, t.Render())
	return err
}

// FormatDetail formats one occurrence as a field/value table and its
// comments as a second table.
func (f *TableFormatter) FormatDetail(o domain.Occurrence, comments []domain.Comment, writer io.Writer) error {
	t := newTable("FIELD", "VALUE").
		Row("ID", "#"+strconv.FormatInt(o.ID, 10)).
		Row("Title", o.Title).
		Row("Status", o.Status.Label()).
		Row("Type", orDash(o.Type)).
		Row("Resident", orDash(o.ResidentID)).
		Row("Created", formatTime(o.CreatedAt)).
		Row("Updated", formatTime(o.UpdatedAt))
	if o.ImageURL != "" {
		t.Row("Image", o.ImageURL)
	}
	if o.Description != "" {
		t.Row("Description", o.Description)
	}
	if _, err := fmt.Fprintln(writer, t.Render()); err != nil {
		return err
	}
	if len(comments) == 0 {
		return nil
	}
	ct := newTable("WHEN", "COMMENT")
	for _, c := range comments {
		ct.Row(formatTime(c.CreatedAt), c.Text)
	}
	_, err := fmt.Fprintln(writer, ct.Render())
	return err
}
