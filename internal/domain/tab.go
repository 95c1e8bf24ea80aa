package domain

import "strings"

// Bucket is a logical partition of the occurrence list.
// Cancelled occurrences are browsed independently and never share
// a list with the other statuses.
type Bucket string

const (
	BucketDefault  Bucket = "DEFAULT"
	BucketArchived Bucket = "ARCHIVED"
)

// Buckets returns every bucket in a stable order.
func Buckets() []Bucket {
	return []Bucket{BucketDefault, BucketArchived}
}

// Tab identifies the status tab selected in the occurrences screen.
type Tab string

const (
	TabAll        Tab = "todas"
	TabOpen       Tab = "pendente"
	TabInProgress Tab = "em_andamento"
	TabResolved   Tab = "resolvidas"
	TabCancelled  Tab = "canceladas"
)

type tabMapping struct {
	label  string
	status Status
	bucket Bucket
}

// tabMappings is the single source for tab -> status filter and tab -> bucket.
// An empty status means the tab aggregates every status.
var tabMappings = map[Tab]tabMapping{
	TabAll:        {label: "Todas", status: "", bucket: BucketDefault},
	TabOpen:       {label: "Pendente", status: StatusOpen, bucket: BucketDefault},
	TabInProgress: {label: "Em andamento", status: StatusInProgress, bucket: BucketDefault},
	TabResolved:   {label: "Resolvidas", status: StatusResolved, bucket: BucketDefault},
	TabCancelled:  {label: "Canceladas", status: StatusCancelled, bucket: BucketArchived},
}

// AllTabs returns the tabs in display order.
func AllTabs() []Tab {
	return []Tab{TabAll, TabOpen, TabInProgress, TabResolved, TabCancelled}
}

// IsValid returns whether the tab is one of the supported values.
func (t Tab) IsValid() bool {
	_, ok := tabMappings[t]
	return ok
}

// StatusFilter returns the backend status filter for the tab.
// The second value is false for the aggregate tab.
func (t Tab) StatusFilter() (Status, bool) {
	m, ok := tabMappings[t]
	if !ok || m.status == "" {
		return "", false
	}
	return m.status, true
}

// Bucket returns the list partition results for the tab land in.
func (t Tab) Bucket() Bucket {
	if m, ok := tabMappings[t]; ok {
		return m.bucket
	}
	return BucketDefault
}

// Label returns the display name of the tab.
func (t Tab) Label() string {
	if m, ok := tabMappings[t]; ok {
		return m.label
	}
	return string(t)
}

// Next returns the tab after t, wrapping around.
func (t Tab) Next() Tab {
	return t.shift(1)
}

// Prev returns the tab before t, wrapping around.
func (t Tab) Prev() Tab {
	return t.shift(-1)
}

func (t Tab) shift(delta int) Tab {
	tabs := AllTabs()
	for i, tab := range tabs {
		if tab == t {
			return tabs[(i+delta+len(tabs))%len(tabs)]
		}
	}
	return DefaultTab()
}

// DefaultTab returns the tab used when a value is missing or invalid.
func DefaultTab() Tab {
	return TabAll
}

// ParseTab parses a tab name or its display label.
func ParseTab(raw string) (Tab, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	if Tab(norm).IsValid() {
		return Tab(norm), true
	}
	for _, tab := range AllTabs() {
		if strings.ToLower(tab.Label()) == norm {
			return tab, true
		}
	}
	return "", false
}

// NormalizeTab converts arbitrary persisted input to a valid tab value.
// Missing or invalid values always resolve to the default tab.
func NormalizeTab(raw string) Tab {
	if tab, ok := ParseTab(raw); ok {
		return tab
	}
	return DefaultTab()
}
