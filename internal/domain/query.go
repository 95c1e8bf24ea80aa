package domain

import (
	"fmt"
	"strings"
)

// DefaultPageSize is the number of occurrences fetched per page.
const DefaultPageSize = 10

// ListQuery describes one page request against the search endpoint.
// It is a value; modifiers return a copy.
type ListQuery struct {
	FreeText string
	// Status is nil when no status filter applies.
	Status   *Status
	Type     string
	Page     int
	PageSize int
	Bucket   Bucket
}

// NewListQuery builds the page-0 query for a tab.
func NewListQuery(tab Tab, freeText, typeFilter string, pageSize int) ListQuery {
	q := ListQuery{
		FreeText: freeText,
		Type:     typeFilter,
		PageSize: pageSize,
		Bucket:   tab.Bucket(),
	}
	if status, ok := tab.StatusFilter(); ok {
		q.Status = &status
	}
	return q
}

// WithPage returns a copy of the query pointing at page.
func (q ListQuery) WithPage(page int) ListQuery {
	q.Page = page
	return q
}

// WithPageSize returns a copy of the query with a different page size.
func (q ListQuery) WithPageSize(size int) ListQuery {
	q.PageSize = size
	return q
}

// StatusCode returns the status filter as sent on the wire, or "".
func (q ListQuery) StatusCode() string {
	if q.Status == nil {
		return ""
	}
	return string(*q.Status)
}

// Validate checks paging bounds and filter values.
func (q ListQuery) Validate() error {
	if q.Page < 0 {
		return fmt.Errorf("page must be non-negative, got %d", q.Page)
	}
	if q.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", q.PageSize)
	}
	if q.Status != nil && !q.Status.IsValid() {
		return fmt.Errorf("invalid occurrence status: %q", *q.Status)
	}
	return nil
}

// String renders the query for logs.
func (q ListQuery) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "q=%q status=%q type=%q page=%d size=%d bucket=%s",
		q.FreeText, q.StatusCode(), q.Type, q.Page, q.PageSize, q.Bucket)
	return b.String()
}

// ListPage is the result of one search call.
// Items keep server order and may overlap with neighbouring pages.
type ListPage struct {
	Items      []Occurrence
	HasMore    bool
	TotalItems int
}
