package listctl

import (
	"github.com/cristianoliveira/condoview/internal/domain"
)

type fetchKind int

const (
	// fetchReplace loads page 0 and clears the bucket first.
	fetchReplace fetchKind = iota
	// fetchSearch is a replace triggered by a text or type edit.
	fetchSearch
	// fetchRefresh loads page 0 but keeps current items visible.
	fetchRefresh
	// fetchAppend loads the next page.
	fetchAppend
)

func (k fetchKind) String() string {
	switch k {
	case fetchSearch:
		return "search"
	case fetchRefresh:
		return "refresh"
	case fetchAppend:
		return "append"
	default:
		return "replace"
	}
}

// debounceElapsedMsg fires when the search debounce timer expires.
type debounceElapsedMsg struct {
	owner      uint64
	debounceID uint64
}

// pageLoadedMsg carries the outcome of one list fetch.
type pageLoadedMsg struct {
	owner  uint64
	token  uint64
	kind   fetchKind
	bucket domain.Bucket
	query  domain.ListQuery
	page   domain.ListPage
	err    error
}

// countersLoadedMsg carries one round of badge counts.
type countersLoadedMsg struct {
	owner      uint64
	generation uint64
	counts     Counts
	failed     []domain.Tab
}
