package listctl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/errors"
)

type searchCall struct {
	residentID string
	query      domain.ListQuery
}

// fakeSource serves pages from an in-memory dataset unless respond is set.
type fakeSource struct {
	mu      sync.Mutex
	data    []domain.Occurrence
	respond func(q domain.ListQuery) (domain.ListPage, error)
	calls   []searchCall
}

func newFakeSource(data []domain.Occurrence) *fakeSource {
	return &fakeSource{data: data}
}

func (f *fakeSource) SearchAll(ctx context.Context, q domain.ListQuery) (domain.ListPage, error) {
	return f.serve("", q)
}

func (f *fakeSource) SearchByResident(ctx context.Context, residentID string, q domain.ListQuery) (domain.ListPage, error) {
	return f.serve(residentID, q)
}

func (f *fakeSource) serve(residentID string, q domain.ListQuery) (domain.ListPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{residentID: residentID, query: q})
	respond := f.respond
	f.mu.Unlock()
	if respond != nil {
		return respond(q)
	}
	return paginate(filter(f.data, residentID, q), q), nil
}

// listCalls returns the recorded calls whose page size is not the counter size.
func (f *fakeSource) listCalls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []searchCall
	for _, c := range f.calls {
		if c.query.PageSize != 1 {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeSource) counterCalls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []searchCall
	for _, c := range f.calls {
		if c.query.PageSize == 1 {
			out = append(out, c)
		}
	}
	return out
}

func filter(data []domain.Occurrence, residentID string, q domain.ListQuery) []domain.Occurrence {
	var out []domain.Occurrence
	for _, o := range data {
		if residentID != "" && o.ResidentID != residentID {
			continue
		}
		if q.Status != nil && o.Status != *q.Status {
			continue
		}
		if q.Type != "" && o.Type != q.Type {
			continue
		}
		if q.FreeText != "" && !strings.Contains(strings.ToLower(o.Title), strings.ToLower(q.FreeText)) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func paginate(items []domain.Occurrence, q domain.ListQuery) domain.ListPage {
	start := q.Page * q.PageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + q.PageSize
	if end > len(items) {
		end = len(items)
	}
	return domain.ListPage{
		Items:      append([]domain.Occurrence(nil), items[start:end]...),
		HasMore:    end < len(items),
		TotalItems: len(items),
	}
}

func occ(id int64, status domain.Status, title string) domain.Occurrence {
	return domain.Occurrence{ID: id, Title: title, Status: status, Type: "geral", ResidentID: "apto-1"}
}

// seedData builds n occurrences per status, newest first.
func seedData(n int) []domain.Occurrence {
	statuses := []domain.Status{domain.StatusOpen, domain.StatusInProgress, domain.StatusResolved, domain.StatusCancelled}
	var out []domain.Occurrence
	id := int64(len(statuses) * n)
	for i := 0; i < n; i++ {
		for _, s := range statuses {
			out = append(out, occ(id, s, fmt.Sprintf("%s #%d", s.Label(), id)))
			id--
		}
	}
	return out
}

// ticker records debounce requests and fires them as soon as the returned
// command runs.
type ticker struct {
	mu        sync.Mutex
	durations []time.Duration
}

func (tk *ticker) tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	tk.mu.Lock()
	tk.durations = append(tk.durations, d)
	tk.mu.Unlock()
	return func() tea.Msg { return fn(time.Now()) }
}

func (tk *ticker) count() int {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	return len(tk.durations)
}

// collect runs cmd and returns its messages, flattening batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drain runs cmd and feeds every resulting message back into c until no
// command is left.
func drain(c *Controller, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		drain(c, c.Update(msg))
	}
}

type harness struct {
	ctl      *Controller
	src      *fakeSource
	notifier *errors.TUIHandler
	ticker   *ticker
}

func newHarness(t *testing.T, src *fakeSource, opts ...Option) *harness {
	t.Helper()
	h := &harness{src: src, notifier: errors.NewTUIHandler(nil), ticker: &ticker{}}
	base := []Option{WithNotifier(h.notifier), WithTick(h.ticker.tick), WithDebounce(0)}
	h.ctl = New(src, domain.AdminScope(), append(base, opts...)...)
	return h
}

func (h *harness) mount() {
	drain(h.ctl, h.ctl.Mount())
}

func ids(items []domain.Occurrence) []int64 {
	out := make([]int64, len(items))
	for i, o := range items {
		out[i] = o.ID
	}
	return out
}

func permutations(n int) [][]int {
	if n == 1 {
		return [][]int{{0}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			perm := make([]int, 0, n)
			perm = append(perm, p[:i]...)
			perm = append(perm, n-1)
			perm = append(perm, p[i:]...)
			out = append(out, perm)
		}
	}
	return out
}
