package listctl

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountLoadsFirstPageOfActiveTab(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(5)))

	h.mount()

	st := h.ctl.State(domain.BucketDefault)
	assert.Len(t, st.Items, 10)
	assert.Equal(t, 0, st.CurrentPage)
	assert.True(t, st.HasMore)
	assert.Equal(t, 20, st.TotalItems)
	assert.False(t, st.Busy())
	assert.Empty(t, h.ctl.State(domain.BucketArchived).Items)

	calls := h.src.listCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 0, calls[0].query.Page)
	assert.Equal(t, domain.DefaultPageSize, calls[0].query.PageSize)
	assert.Nil(t, calls[0].query.Status)
}

func TestMountMarksInitialLoadingUntilPageArrives(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(2)))

	cmd := h.ctl.Mount()
	assert.True(t, h.ctl.ActiveState().IsInitialLoading)
	assert.Nil(t, h.ctl.Mount(), "second mount is a no-op")

	drain(h.ctl, cmd)
	assert.False(t, h.ctl.ActiveState().IsInitialLoading)
}

func TestInitialTabOption(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(3)), WithInitialTab(domain.TabCancelled))
	h.mount()

	assert.Equal(t, domain.TabCancelled, h.ctl.Active())
	archived := h.ctl.State(domain.BucketArchived)
	require.Len(t, archived.Items, 3)
	for _, o := range archived.Items {
		assert.Equal(t, domain.StatusCancelled, o.Status)
	}
}

func TestTypeFilterOptionAppliesToFirstLoad(t *testing.T) {
	src := newFakeSource(seedData(2))
	h := newHarness(t, src, WithTypeFilter("barulho"))
	h.mount()

	calls := src.listCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "barulho", calls[0].query.Type)
	assert.Equal(t, "barulho", h.ctl.TypeFilter())
	assert.Empty(t, h.ctl.ActiveState().Items)
}

func TestLastQueryWinsUnderAnyArrivalOrder(t *testing.T) {
	data := seedData(5)
	expected := paginate(filter(data, "", domain.NewListQuery(domain.TabAll, "Resolvida", "geral", 10)), domain.ListQuery{PageSize: 10})
	require.NotEmpty(t, expected.Items)

	for _, perm := range permutations(3) {
		t.Run(fmt.Sprint(perm), func(t *testing.T) {
			h := newHarness(t, newFakeSource(data))
			h.mount()

			msgs := []tea.Msg{}
			msgs = append(msgs, collect(h.ctl.SetFreeText("Pendente"))...)
			msgs = append(msgs, collect(h.ctl.SetFreeText("Resolvida"))...)
			msgs = append(msgs, collect(h.ctl.SetTypeFilter("geral"))...)
			require.Len(t, msgs, 3)

			for _, i := range perm {
				assert.Nil(t, h.ctl.Update(msgs[i]))
			}

			st := h.ctl.State(domain.BucketDefault)
			assert.Equal(t, ids(expected.Items), ids(st.Items))
			assert.Equal(t, expected.TotalItems, st.TotalItems)
			assert.False(t, st.Busy())
		})
	}
}

func TestLastQueryWinsAcrossBuckets(t *testing.T) {
	data := seedData(4)

	for _, perm := range permutations(3) {
		t.Run(fmt.Sprint(perm), func(t *testing.T) {
			h := newHarness(t, newFakeSource(data))
			h.mount()

			msgs := []tea.Msg{}
			msgs = append(msgs, collect(h.ctl.SetStatusTab(domain.TabOpen))...)
			msgs = append(msgs, collect(h.ctl.SetStatusTab(domain.TabResolved))...)
			msgs = append(msgs, collect(h.ctl.SetStatusTab(domain.TabCancelled))...)

			for _, i := range perm {
				h.ctl.Update(msgs[i])
			}

			archived := h.ctl.State(domain.BucketArchived)
			require.Len(t, archived.Items, 4)
			for _, o := range archived.Items {
				assert.Equal(t, domain.StatusCancelled, o.Status)
			}
			// the default bucket was cleared by the superseded tab switches
			assert.Empty(t, h.ctl.State(domain.BucketDefault).Items)
			assert.False(t, h.ctl.State(domain.BucketDefault).Busy())
		})
	}
}

func TestLoadMoreNeverDuplicatesOverlappingPages(t *testing.T) {
	pages := map[int][]int64{
		0: {1, 2, 3, 4, 5},
		1: {4, 5, 6, 7, 8},
		2: {8, 9, 1, 10},
	}
	src := newFakeSource(nil)
	src.respond = func(q domain.ListQuery) (domain.ListPage, error) {
		var items []domain.Occurrence
		for _, id := range pages[q.Page] {
			items = append(items, occ(id, domain.StatusOpen, "x"))
		}
		return domain.ListPage{Items: items, HasMore: q.Page < 2, TotalItems: 10}, nil
	}
	h := newHarness(t, src, WithPageSize(5))
	h.mount()

	drain(h.ctl, h.ctl.LoadMore())
	st := h.ctl.ActiveState()
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, ids(st.Items))
	assert.Equal(t, 1, st.CurrentPage)

	drain(h.ctl, h.ctl.LoadMore())
	st = h.ctl.ActiveState()
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(st.Items))
	assert.Equal(t, 2, st.CurrentPage)
	assert.False(t, st.HasMore)

	assert.Nil(t, h.ctl.LoadMore(), "no next page")
	assert.Len(t, src.listCalls(), 3)
}

func TestReplaceDeduplicatesWithinPage(t *testing.T) {
	src := newFakeSource(nil)
	src.respond = func(q domain.ListQuery) (domain.ListPage, error) {
		return domain.ListPage{Items: []domain.Occurrence{occ(3, domain.StatusOpen, "a"), occ(3, domain.StatusOpen, "a"), occ(2, domain.StatusOpen, "b")}, TotalItems: 2}, nil
	}
	h := newHarness(t, src)
	h.mount()

	assert.Equal(t, []int64{3, 2}, ids(h.ctl.ActiveState().Items))
}

func TestLoadMoreIgnoredWhileLoading(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(10)))
	h.mount()

	first := h.ctl.LoadMore()
	require.NotNil(t, first)
	assert.True(t, h.ctl.ActiveState().IsLoadingMore)
	assert.Nil(t, h.ctl.LoadMore())

	drain(h.ctl, first)
	assert.Equal(t, 1, h.ctl.ActiveState().CurrentPage)
	assert.Len(t, h.ctl.ActiveState().Items, 20)
}

func TestLoadMoreIgnoredDuringInitialLoad(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(12)))
	h.mount()

	pending := h.ctl.SetStatusTab(domain.TabOpen)
	assert.Nil(t, h.ctl.LoadMore())
	drain(h.ctl, pending)
	assert.NotNil(t, h.ctl.LoadMore())
}

func TestDebounceCoalescesRapidTyping(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(5)), WithDebounce(500*time.Millisecond))
	h.mount()

	timers := []tea.Cmd{
		h.ctl.SetFreeText("a"),
		h.ctl.SetFreeText("ab"),
		h.ctl.SetFreeText("abc"),
	}
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond}, h.ticker.durations)
	assert.True(t, h.ctl.ActiveState().IsSearchPending)
	assert.Len(t, h.src.listCalls(), 1, "nothing is sent before the timer fires")

	var fetches []tea.Cmd
	for _, timer := range timers {
		for _, msg := range collect(timer) {
			if cmd := h.ctl.Update(msg); cmd != nil {
				fetches = append(fetches, cmd)
			}
		}
	}
	require.Len(t, fetches, 1)
	drain(h.ctl, fetches[0])

	calls := h.src.listCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "abc", calls[1].query.FreeText)
	assert.Equal(t, 0, calls[1].query.Page)
	assert.False(t, h.ctl.ActiveState().IsSearchPending)
}

func TestTypeFilterSharesDebounce(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(5)), WithDebounce(500*time.Millisecond))
	h.mount()

	textTimer := h.ctl.SetFreeText("Pendente")
	typeTimer := h.ctl.SetTypeFilter("geral")
	assert.Equal(t, 2, h.ticker.count())

	assert.Nil(t, h.ctl.Update(collect(textTimer)[0]))
	drain(h.ctl, h.ctl.Update(collect(typeTimer)[0]))

	calls := h.src.listCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "Pendente", calls[1].query.FreeText)
	assert.Equal(t, "geral", calls[1].query.Type)
	assert.Len(t, h.ctl.ActiveState().Items, 5)
}

func TestEmptyTextBypassesDebounce(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(5)), WithDebounce(500*time.Millisecond))
	h.mount()
	drain(h.ctl, h.ctl.SetFreeText("Pendente"))
	require.Equal(t, 1, h.ticker.count())
	require.Len(t, h.ctl.ActiveState().Items, 5)

	cmd := h.ctl.SetFreeText("")
	require.NotNil(t, cmd)
	assert.Equal(t, 1, h.ticker.count(), "no timer for an empty search")

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	_, isPage := msgs[0].(pageLoadedMsg)
	assert.True(t, isPage)
	h.ctl.Update(msgs[0])
	assert.Len(t, h.ctl.ActiveState().Items, 10)
}

func TestUnchangedTextIsNoop(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(2)))
	h.mount()

	assert.Nil(t, h.ctl.SetFreeText(""))
	assert.Nil(t, h.ctl.SetTypeFilter(""))
	assert.Nil(t, h.ctl.SetStatusTab(domain.TabAll))
	assert.Nil(t, h.ctl.SetStatusTab(domain.Tab("bogus")))
}

func TestTabSwitchCancelsPendingDebounce(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(5)), WithDebounce(500*time.Millisecond))
	h.mount()

	timer := h.ctl.SetFreeText("Pendente")
	drain(h.ctl, h.ctl.SetStatusTab(domain.TabResolved))

	assert.Nil(t, h.ctl.Update(collect(timer)[0]), "debounce was superseded by the tab switch")
	calls := h.src.listCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "Pendente", calls[1].query.FreeText)
	assert.Equal(t, "RESOLVIDA", calls[1].query.StatusCode())
}

func TestBucketIsolation(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(12)))
	h.mount()
	defaultIDs := ids(h.ctl.State(domain.BucketDefault).Items)
	require.Len(t, defaultIDs, 10)

	drain(h.ctl, h.ctl.SetStatusTab(domain.TabCancelled))
	archived := h.ctl.State(domain.BucketArchived)
	require.Len(t, archived.Items, 10)
	for _, o := range archived.Items {
		assert.Equal(t, domain.StatusCancelled, o.Status)
	}
	assert.Equal(t, defaultIDs, ids(h.ctl.State(domain.BucketDefault).Items), "default bucket untouched")

	drain(h.ctl, h.ctl.LoadMore())
	assert.Len(t, h.ctl.State(domain.BucketArchived).Items, 12)
	assert.Equal(t, defaultIDs, ids(h.ctl.State(domain.BucketDefault).Items))

	archivedIDs := ids(h.ctl.State(domain.BucketArchived).Items)
	drain(h.ctl, h.ctl.SetStatusTab(domain.TabOpen))
	for _, o := range h.ctl.State(domain.BucketDefault).Items {
		assert.Equal(t, domain.StatusOpen, o.Status)
	}
	assert.Equal(t, archivedIDs, ids(h.ctl.State(domain.BucketArchived).Items), "archived bucket untouched")
}

func TestRefreshClearsFiltersAndKeepsItemsVisible(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(5)))
	h.mount()
	drain(h.ctl, h.ctl.SetFreeText("Pendente"))
	drain(h.ctl, h.ctl.SetTypeFilter("geral"))
	before := ids(h.ctl.ActiveState().Items)
	require.Len(t, before, 5)

	cmd := h.ctl.Refresh()
	st := h.ctl.ActiveState()
	assert.True(t, st.IsInitialLoading)
	assert.Equal(t, before, ids(st.Items), "items stay visible while refreshing")
	assert.Empty(t, h.ctl.FreeText())
	assert.Empty(t, h.ctl.TypeFilter())

	drain(h.ctl, cmd)
	assert.Len(t, h.ctl.ActiveState().Items, 10)
	assert.Len(t, h.src.counterCalls(), 10, "counters reloaded on mount and refresh")
}

func TestRefreshIsIdempotent(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(7)))
	h.mount()
	drain(h.ctl, h.ctl.LoadMore())

	drain(h.ctl, h.ctl.Refresh())
	first := h.ctl.ActiveState()
	firstCounts := h.ctl.Counts()

	drain(h.ctl, h.ctl.Refresh())
	assert.Equal(t, first, h.ctl.ActiveState())
	assert.Equal(t, firstCounts, h.ctl.Counts())
	assert.Equal(t, 0, first.CurrentPage)
}

func TestUnmountSilencesInFlightFetches(t *testing.T) {
	src := newFakeSource(seedData(5))
	h := newHarness(t, src)
	mountCmd := h.ctl.Mount()
	h.ctl.Unmount()

	for _, msg := range collect(mountCmd) {
		assert.Nil(t, h.ctl.Update(msg))
	}
	assert.False(t, h.ctl.Mounted())
	assert.Equal(t, ListState{}, h.ctl.State(domain.BucketDefault))
	assert.Empty(t, h.ctl.Counts())
	assert.Empty(t, h.notifier.GetAll())
}

func TestUnmountSilencesFailuresAndTimers(t *testing.T) {
	src := newFakeSource(seedData(5))
	h := newHarness(t, src, WithDebounce(time.Second))
	h.mount()

	timer := h.ctl.SetFreeText("x")
	src.respond = func(domain.ListQuery) (domain.ListPage, error) {
		return domain.ListPage{}, stderrors.New("connection refused")
	}
	refresh := h.ctl.Refresh()
	h.ctl.Unmount()

	drain(h.ctl, refresh)
	assert.Nil(t, h.ctl.Update(collect(timer)[0]))
	assert.Empty(t, h.notifier.GetAll())
	assert.Nil(t, h.ctl.LoadMore())
	assert.Nil(t, h.ctl.Refresh())
	assert.Nil(t, h.ctl.SetFreeText("y"))
}

func TestFailureIsReportedOnceAndKeepsItems(t *testing.T) {
	src := newFakeSource(seedData(10))
	h := newHarness(t, src)
	h.mount()
	before := ids(h.ctl.ActiveState().Items)

	src.respond = func(domain.ListQuery) (domain.ListPage, error) {
		return domain.ListPage{}, stderrors.New("HTTP 502")
	}
	drain(h.ctl, h.ctl.LoadMore())

	st := h.ctl.ActiveState()
	assert.Equal(t, before, ids(st.Items))
	assert.Equal(t, 0, st.CurrentPage)
	assert.True(t, st.HasMore)
	assert.False(t, st.Busy())

	msgs := h.notifier.GetAll()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "HTTP 502")
	assert.Len(t, src.listCalls(), 2, "failures are not retried")

	src.respond = nil
	drain(h.ctl, h.ctl.LoadMore())
	assert.Len(t, h.ctl.ActiveState().Items, 20)
}

func TestFailedRefreshStopsPagingOldResults(t *testing.T) {
	src := newFakeSource(seedData(30))
	h := newHarness(t, src)
	h.mount()
	drain(h.ctl, h.ctl.SetFreeText("Pendente"))

	searched := h.ctl.ActiveState()
	require.Len(t, searched.Items, 10)
	require.True(t, searched.HasMore)

	src.respond = func(domain.ListQuery) (domain.ListPage, error) {
		return domain.ListPage{}, stderrors.New("HTTP 503")
	}
	drain(h.ctl, h.ctl.Refresh())
	src.respond = nil

	st := h.ctl.ActiveState()
	assert.Empty(t, h.ctl.FreeText())
	assert.Equal(t, ids(searched.Items), ids(st.Items))
	assert.False(t, st.HasMore)

	calls := len(src.listCalls())
	assert.Nil(t, h.ctl.LoadMore())
	assert.Len(t, src.listCalls(), calls)
	for _, o := range h.ctl.ActiveState().Items {
		assert.Equal(t, domain.StatusOpen, o.Status)
	}

	drain(h.ctl, h.ctl.Refresh())
	st = h.ctl.ActiveState()
	assert.Len(t, st.Items, 10)
	assert.True(t, st.HasMore)
}

func TestStaleFailureIsSilent(t *testing.T) {
	src := newFakeSource(seedData(5))
	h := newHarness(t, src)
	h.mount()

	src.respond = func(domain.ListQuery) (domain.ListPage, error) {
		return domain.ListPage{}, stderrors.New("timeout")
	}
	failed := collect(h.ctl.SetStatusTab(domain.TabOpen))
	src.respond = nil
	drain(h.ctl, h.ctl.SetStatusTab(domain.TabResolved))

	h.ctl.Update(failed[0])
	assert.Empty(t, h.notifier.GetAll())
	assert.Len(t, h.ctl.ActiveState().Items, 5)
}

func TestResidentScopeUsesResidentEndpoint(t *testing.T) {
	data := seedData(3)
	data[0].ResidentID = "apto-9"
	src := newFakeSource(data)
	ctl := New(src, domain.ResidentScope("apto-9"), WithDebounce(0))
	drain(ctl, ctl.Mount())

	for _, c := range src.calls {
		assert.Equal(t, "apto-9", c.residentID)
	}
	assert.Equal(t, []int64{data[0].ID}, ids(ctl.ActiveState().Items))
}

func TestQueryReflectsLoadedPosition(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(10)))
	h.mount()
	drain(h.ctl, h.ctl.SetStatusTab(domain.TabInProgress))
	drain(h.ctl, h.ctl.LoadMore())

	q := h.ctl.Query()
	assert.Equal(t, 0, q.Page, "in-progress has 10 items, a single page")
	assert.Equal(t, "EM_ANDAMENTO", q.StatusCode())
	assert.Equal(t, domain.BucketDefault, q.Bucket)
}

func TestOwns(t *testing.T) {
	a := newHarness(t, newFakeSource(seedData(1)))
	b := newHarness(t, newFakeSource(seedData(1)))
	msgs := collect(a.ctl.Mount())
	require.NotEmpty(t, msgs)

	assert.True(t, a.ctl.Owns(msgs[0]))
	assert.False(t, b.ctl.Owns(msgs[0]))
	assert.False(t, a.ctl.Owns(tea.KeyMsg{}))
}

// Pendente tab, user searches "elev": one fetch, three results, and
// loadMore issues nothing.
func TestScenarioSearchWithoutNextPage(t *testing.T) {
	var data []domain.Occurrence
	for i := int64(1); i <= 3; i++ {
		data = append(data, occ(i, domain.StatusOpen, fmt.Sprintf("Elevador parado %d", i)))
	}
	data = append(data, occ(4, domain.StatusOpen, "Vazamento"), occ(5, domain.StatusResolved, "Elevador barulho"))
	src := newFakeSource(data)
	h := newHarness(t, src, WithInitialTab(domain.TabOpen), WithPageSize(10))
	h.mount()

	drain(h.ctl, h.ctl.SetFreeText("elev"))
	calls := src.listCalls()
	require.Len(t, calls, 2)
	q := calls[1].query
	assert.Equal(t, "elev", q.FreeText)
	assert.Equal(t, "ABERTA", q.StatusCode())
	assert.Equal(t, 0, q.Page)
	assert.Equal(t, 10, q.PageSize)

	st := h.ctl.ActiveState()
	assert.Len(t, st.Items, 3)
	assert.False(t, st.HasMore)

	assert.Nil(t, h.ctl.LoadMore())
	assert.Equal(t, 0, h.ctl.ActiveState().CurrentPage)
	assert.Len(t, src.listCalls(), 2)
}

// Switching from Todas to Canceladas while the Todas refresh is in
// flight: the late Todas response is discarded.
func TestScenarioLateResponseAfterTabSwitch(t *testing.T) {
	h := newHarness(t, newFakeSource(seedData(6)))
	h.mount()
	before := h.ctl.State(domain.BucketDefault)
	require.Len(t, before.Items, 10)
	require.True(t, before.HasMore)

	todas := collect(h.ctl.Refresh())
	canceladas := collect(h.ctl.SetStatusTab(domain.TabCancelled))
	for _, msg := range canceladas {
		h.ctl.Update(msg)
	}
	for _, msg := range todas {
		h.ctl.Update(msg)
	}

	archived := h.ctl.State(domain.BucketArchived)
	require.Len(t, archived.Items, 6)
	for _, o := range archived.Items {
		assert.True(t, o.IsCancelled())
	}
	def := h.ctl.State(domain.BucketDefault)
	assert.Equal(t, ids(before.Items), ids(def.Items))
	assert.False(t, def.Busy())
}
