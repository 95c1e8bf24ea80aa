package format

import (
	"encoding/json"
	"io"
	"time"

	"github.com/cristianoliveira/condoview/internal/domain"
)

type jsonOccurrence struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Type        string     `json:"type,omitempty"`
	ResidentID  string     `json:"residentId,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type jsonComment struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type jsonPage struct {
	Items      []jsonOccurrence `json:"items"`
	HasMore    bool             `json:"hasMore"`
	TotalItems int              `json:"totalItems"`
}

type jsonDetail struct {
	jsonOccurrence
	Comments []jsonComment `json:"comments"`
}

func toJSONOccurrence(o domain.Occurrence) jsonOccurrence {
	return jsonOccurrence{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Status:      o.Status.String(),
		Type:        o.Type,
		ResidentID:  o.ResidentID,
		ImageURL:    o.ImageURL,
		CreatedAt:   timePtr(o.CreatedAt),
		UpdatedAt:   timePtr(o.UpdatedAt),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// JSONFormatter writes indented JSON documents.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) encode(writer io.Writer, v any) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatPage writes {"items": [...], "hasMore": bool, "totalItems": n}.
func (f *JSONFormatter) FormatPage(page domain.ListPage, writer io.Writer) error {
	out := jsonPage{Items: make([]jsonOccurrence, len(page.Items)), HasMore: page.HasMore, TotalItems: page.TotalItems}
	for i, o := range page.Items {
		out.Items[i] = toJSONOccurrence(o)
	}
	return f.encode(writer, out)
}

// FormatCounts writes an object keyed by tab id.
func (f *JSONFormatter) FormatCounts(counts []TabCount, writer io.Writer) error {
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[string(c.Tab)] = c.Count
	}
	return f.encode(writer, out)
}

// FormatDetail writes the occurrence with a "comments" array.
func (f *JSONFormatter) FormatDetail(o domain.Occurrence, comments []domain.Comment, writer io.Writer) error {
	out := jsonDetail{jsonOccurrence: toJSONOccurrence(o), Comments: make([]jsonComment, len(comments))}
	for i, c := range comments {
		out.Comments[i] = jsonComment{ID: c.ID, Text: c.Text, CreatedAt: timePtr(c.CreatedAt)}
	}
	return f.encode(writer, out)
}
