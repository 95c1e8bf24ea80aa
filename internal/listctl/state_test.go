package listctl

import (
	"testing"

	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAppendUnique(t *testing.T) {
	existing := []domain.Occurrence{occ(1, domain.StatusOpen, "a"), occ(2, domain.StatusOpen, "b")}
	incoming := []domain.Occurrence{occ(2, domain.StatusOpen, "b"), occ(3, domain.StatusOpen, "c"), occ(3, domain.StatusOpen, "c")}

	out := appendUnique(existing, incoming)

	assert.Equal(t, []int64{1, 2, 3}, ids(out))
	assert.Len(t, existing, 2, "input untouched")
}

func TestStateSnapshotIsIsolated(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(1)))
	h.mount()

	snap := h.ctl.ActiveState()
	snap.Items[0].Title = "mutated"
	assert.NotEqual(t, "mutated", h.ctl.ActiveState().Items[0].Title)
}

func TestBusy(t *testing.T) {
	assert.False(t, ListState{}.Busy())
	assert.True(t, ListState{IsSearchPending: true}.Busy())
	assert.True(t, ListState{IsLoadingMore: true}.Busy())
}
