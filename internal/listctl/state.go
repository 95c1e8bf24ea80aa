package listctl

import (
	"slices"

	"github.com/cristianoliveira/condoview/internal/domain"
)

// ListState is the loaded slice of one bucket. Items never holds two
// occurrences with the same ID.
type ListState struct {
	Items       []domain.Occurrence
	CurrentPage int
	HasMore     bool
	TotalItems  int

	IsInitialLoading bool
	IsLoadingMore    bool
	IsSearchPending  bool
}

// Busy reports whether any fetch or debounce is outstanding for the bucket.
func (s ListState) Busy() bool {
	return s.IsInitialLoading || s.IsLoadingMore || s.IsSearchPending
}

func (s ListState) clone() ListState {
	s.Items = slices.Clone(s.Items)
	return s
}

func (s *ListState) clearFlags() {
	s.IsInitialLoading = false
	s.IsLoadingMore = false
	s.IsSearchPending = false
}

// appendUnique returns a new slice with existing followed by the
// occurrences of incoming whose ID is not present yet.
func appendUnique(existing, incoming []domain.Occurrence) []domain.Occurrence {
	seen := make(map[int64]struct{}, len(existing)+len(incoming))
	out := make([]domain.Occurrence, 0, len(existing)+len(incoming))
	for _, o := range existing {
		if _, dup := seen[o.ID]; dup {
			continue
		}
		seen[o.ID] = struct{}{}
		out = append(out, o)
	}
	for _, o := range incoming {
		if _, dup := seen[o.ID]; dup {
			continue
		}
		seen[o.ID] = struct{}{}
		out = append(out, o)
	}
	return out
}
