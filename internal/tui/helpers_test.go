package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/errors"
	"github.com/cristianoliveira/condoview/internal/listctl"
	"github.com/cristianoliveira/condoview/internal/settings"
)

// memSource serves pages from memory and can be told to fail.
type memSource struct {
	mu    sync.Mutex
	data  []domain.Occurrence
	fail  error
	calls int
}

func (s *memSource) SearchAll(ctx context.Context, q domain.ListQuery) (domain.ListPage, error) {
	return s.SearchByResident(ctx, "", q)
}

func (s *memSource) SearchByResident(_ context.Context, residentID string, q domain.ListQuery) (domain.ListPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail != nil {
		return domain.ListPage{}, s.fail
	}
	var matched []domain.Occurrence
	for _, o := range s.data {
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
		matched = append(matched, o)
	}
	start := min(q.Page*q.PageSize, len(matched))
	end := min(start+q.PageSize, len(matched))
	return domain.ListPage{
		Items:      append([]domain.Occurrence(nil), matched[start:end]...),
		HasMore:    end < len(matched),
		TotalItems: len(matched),
	}, nil
}

func (s *memSource) setFail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *memSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeMutator records calls and answers with the configured error.
type fakeMutator struct {
	mu      sync.Mutex
	err     error
	created []domain.NewOccurrence
	updated map[int64]domain.OccurrenceUpdate
	cancel  []int64
}

func (f *fakeMutator) Create(_ context.Context, n domain.NewOccurrence) (domain.Occurrence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Occurrence{}, f.err
	}
	f.created = append(f.created, n)
	return domain.Occurrence{ID: 100 + int64(len(f.created)), Title: n.Title, Status: domain.StatusOpen}, nil
}

func (f *fakeMutator) Update(_ context.Context, id int64, u domain.OccurrenceUpdate) (domain.Occurrence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Occurrence{}, f.err
	}
	if f.updated == nil {
		f.updated = map[int64]domain.OccurrenceUpdate{}
	}
	f.updated[id] = u
	return domain.Occurrence{ID: id, Status: domain.StatusOpen}, nil
}

func (f *fakeMutator) Cancel(_ context.Context, id int64) (domain.Occurrence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Occurrence{}, f.err
	}
	f.cancel = append(f.cancel, id)
	return domain.Occurrence{ID: id, Status: domain.StatusCancelled}, nil
}

// dataset builds n occurrences per status, newest first.
func dataset(n int) []domain.Occurrence {
	statuses := []domain.Status{domain.StatusOpen, domain.StatusInProgress, domain.StatusResolved, domain.StatusCancelled}
	var out []domain.Occurrence
	id := int64(len(statuses) * n)
	for i := 0; i < n; i++ {
		for _, s := range statuses {
			out = append(out, domain.Occurrence{
				ID:         id,
				Title:      fmt.Sprintf("%s #%d", s.Label(), id),
				Status:     s,
				Type:       "geral",
				ResidentID: "apto-1",
				CreatedAt:  time.Now().Add(-time.Duration(id) * time.Hour),
			})
			id--
		}
	}
	return out
}

type harness struct {
	t       *testing.T
	model   *Model
	src     *memSource
	mut     *fakeMutator
	saved   []settings.TUIState
	ticks   []time.Duration
	pending []func(time.Time) tea.Msg
}

func newHarness(t *testing.T, src *memSource, pageSize int, ctlOpts ...listctl.Option) *harness {
	t.Helper()
	h := &harness{t: t, src: src, mut: &fakeMutator{}}
	notifier := errors.NewTUIHandler(nil)
	opts := append([]listctl.Option{
		listctl.WithDebounce(0),
		listctl.WithPageSize(pageSize),
		listctl.WithNotifier(notifier),
	}, ctlOpts...)
	ctl := listctl.New(src, domain.AdminScope(), opts...)
	h.model = New(ctl, Options{
		Mutator:  h.mut,
		Notifier: notifier,
		SaveState: func(s settings.TUIState) error {
			h.saved = append(h.saved, s)
			return nil
		},
		Tick: func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
			h.ticks = append(h.ticks, d)
			h.pending = append(h.pending, fn)
			return nil
		},
	})
	h.drain(h.model.Init())
	return h
}

// run executes cmd and returns its messages. Commands that do not answer
// quickly are timers (cursor blink, spinner) and are dropped.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return nil
	}
	switch msg := msg.(type) {
	case nil, spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func (h *harness) drain(cmd tea.Cmd) {
	for _, msg := range run(cmd) {
		_, next := h.model.Update(msg)
		h.drain(next)
	}
}

func (h *harness) send(msg tea.Msg) {
	_, cmd := h.model.Update(msg)
	h.drain(cmd)
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func (h *harness) typeText(text string) {
	for _, r := range text {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
