// Package listctl owns the loading state of the paginated, filterable
// occurrence list.
//
// The Controller is a Bubble Tea sub-model: operations return tea.Cmds and
// every asynchronous result comes back through Update on the program's
// goroutine, so its fields need no locking. Each list fetch is stamped with
// a request token and committed only if that token is still the latest one
// and the controller is still mounted when the result arrives.
package listctl

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/errors"
	"github.com/cristianoliveira/condoview/internal/logging"
)

const (
	// DefaultSearchDebounce is the delay between the last edit and the search.
	DefaultSearchDebounce = 500 * time.Millisecond
	// DefaultRequestTimeout bounds a single backend call.
	DefaultRequestTimeout = 15 * time.Second
)

// TickFunc schedules a message after d. tea.Tick satisfies it.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

var instances atomic.Uint64

// Controller drives the occurrence list for one screen.
type Controller struct {
	owner    uint64
	source   Source
	scope    domain.Scope
	baseCtx  context.Context
	pageSize int
	debounce time.Duration
	timeout  time.Duration
	tick     TickFunc
	logger   logging.Logger
	notifier errors.ErrorHandler

	mounted    bool
	tab        domain.Tab
	freeText   string
	typeFilter string
	states     map[domain.Bucket]*ListState

	token      uint64
	debounceID uint64
	debouncing bool

	counts     Counts
	counterGen uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the number of items per page.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithDebounce sets the search debounce delay. Zero disables debouncing.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNotifier sets where failed list fetches are reported.
func WithNotifier(h errors.ErrorHandler) Option {
	return func(c *Controller) {
		if h != nil {
			c.notifier = h
		}
	}
}

// WithTick replaces tea.Tick for the debounce timer.
func WithTick(t TickFunc) Option {
	return func(c *Controller) {
		if t != nil {
			c.tick = t
		}
	}
}

// WithInitialTab selects the tab loaded on Mount.
func WithInitialTab(tab domain.Tab) Option {
	return func(c *Controller) {
		c.tab = domain.NormalizeTab(string(tab))
	}
}

// WithTypeFilter sets the type filter applied from the first load on.
func WithTypeFilter(typ string) Option {
	return func(c *Controller) {
		c.typeFilter = typ
	}
}

// WithContext sets the parent context of every backend call.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// New creates an unmounted controller reading from src within scope.
func New(src Source, scope domain.Scope, opts ...Option) *Controller {
	c := &Controller{
		owner:    instances.Add(1),
		source:   src,
		scope:    scope,
		baseCtx:  context.Background(),
		pageSize: domain.DefaultPageSize,
		debounce: DefaultSearchDebounce,
		timeout:  DefaultRequestTimeout,
		tick:     tea.Tick,
		logger:   logging.Noop(),
		notifier: errors.Discard{},
		tab:      domain.DefaultTab(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount creates empty bucket states, loads the active tab and the counters.
// Mounting twice is a no-op.
func (c *Controller) Mount() tea.Cmd {
	if c.mounted {
		return nil
	}
	c.mounted = true
	c.states = make(map[domain.Bucket]*ListState, len(domain.Buckets()))
	for _, b := range domain.Buckets() {
		c.states[b] = &ListState{}
	}
	c.counts = Counts{}
	c.logger.Debug("list mounted", "tab", c.tab, "role", c.scope.Role)
	return tea.Batch(c.fetch(fetchReplace), c.fetchCounters())
}

// Unmount discards all state. Results of fetches still in flight are
// dropped when they arrive.
func (c *Controller) Unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false
	c.states = nil
	c.counts = nil
	c.debounceID++
	c.debouncing = false
	c.logger.Debug("list unmounted", "tab", c.tab)
}

// Mounted reports whether the controller accepts results.
func (c *Controller) Mounted() bool {
	return c.mounted
}

// SetFreeText updates the search term. The search runs after the debounce
// delay; an empty term searches immediately.
func (c *Controller) SetFreeText(text string) tea.Cmd {
	if !c.mounted || text == c.freeText {
		return nil
	}
	c.freeText = text
	return c.scheduleSearch()
}

// SetTypeFilter updates the type filter. It shares the free-text debounce.
func (c *Controller) SetTypeFilter(typ string) tea.Cmd {
	if !c.mounted || typ == c.typeFilter {
		return nil
	}
	c.typeFilter = typ
	return c.scheduleSearch()
}

// SetStatusTab switches the active tab and loads its first page at once.
func (c *Controller) SetStatusTab(tab domain.Tab) tea.Cmd {
	if !c.mounted || !tab.IsValid() || tab == c.tab {
		return nil
	}
	c.tab = tab
	return c.fetch(fetchReplace)
}

// LoadMore fetches the next page of the active bucket. It does nothing while
// another load for the bucket is outstanding or when there is no next page.
func (c *Controller) LoadMore() tea.Cmd {
	if !c.mounted {
		return nil
	}
	st := c.states[c.tab.Bucket()]
	if st.IsLoadingMore || !st.HasMore || st.IsInitialLoading || st.IsSearchPending {
		return nil
	}
	return c.fetch(fetchAppend)
}

// Refresh clears the text and type filters, reloads the active tab keeping
// its current items on screen, and reloads the counters.
func (c *Controller) Refresh() tea.Cmd {
	if !c.mounted {
		return nil
	}
	c.freeText = ""
	c.typeFilter = ""
	return tea.Batch(c.fetch(fetchRefresh), c.fetchCounters())
}

// Focus reloads the counters when the view regains focus.
func (c *Controller) Focus() tea.Cmd {
	if !c.mounted {
		return nil
	}
	return c.fetchCounters()
}

// Update applies controller messages. Unrelated messages return nil.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceElapsedMsg:
		return c.handleDebounce(msg)
	case pageLoadedMsg:
		c.handlePage(msg)
	case countersLoadedMsg:
		c.handleCounters(msg)
	}
	return nil
}

// Owns reports whether msg was produced by this controller.
func (c *Controller) Owns(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case debounceElapsedMsg:
		return msg.owner == c.owner
	case pageLoadedMsg:
		return msg.owner == c.owner
	case countersLoadedMsg:
		return msg.owner == c.owner
	}
	return false
}

// State returns a snapshot of a bucket. Unmounted controllers return the
// zero state.
func (c *Controller) State(b domain.Bucket) ListState {
	if st, ok := c.states[b]; ok {
		return st.clone()
	}
	return ListState{}
}

// ActiveState returns a snapshot of the active tab's bucket.
func (c *Controller) ActiveState() ListState {
	return c.State(c.tab.Bucket())
}

// Active returns the selected tab.
func (c *Controller) Active() domain.Tab {
	return c.tab
}

// FreeText returns the current search term.
func (c *Controller) FreeText() string {
	return c.freeText
}

// TypeFilter returns the current type filter.
func (c *Controller) TypeFilter() string {
	return c.typeFilter
}

// Query returns the query describing the active bucket's loaded position.
func (c *Controller) Query() domain.ListQuery {
	q := domain.NewListQuery(c.tab, c.freeText, c.typeFilter, c.pageSize)
	if st, ok := c.states[q.Bucket]; ok {
		q = q.WithPage(st.CurrentPage)
	}
	return q
}

// Scope returns the scope the controller searches in.
func (c *Controller) Scope() domain.Scope {
	return c.scope
}

func (c *Controller) scheduleSearch() tea.Cmd {
	if c.freeText == "" || c.debounce <= 0 {
		return c.fetch(fetchSearch)
	}
	c.debounceID++
	c.debouncing = true
	c.states[c.tab.Bucket()].IsSearchPending = true
	id, owner := c.debounceID, c.owner
	return c.tick(c.debounce, func(time.Time) tea.Msg {
		return debounceElapsedMsg{owner: owner, debounceID: id}
	})
}

func (c *Controller) handleDebounce(msg debounceElapsedMsg) tea.Cmd {
	if msg.owner != c.owner || !c.mounted || msg.debounceID != c.debounceID {
		return nil
	}
	return c.fetch(fetchSearch)
}

// fetch issues a new token, updates the target bucket's flags and returns
// the command performing the call. Any pending debounce is cancelled and
// flags owned by superseded fetches are cleared.
func (c *Controller) fetch(kind fetchKind) tea.Cmd {
	c.token++
	c.debounceID++
	c.debouncing = false
	for _, st := range c.states {
		st.clearFlags()
	}

	bucket := c.tab.Bucket()
	st := c.states[bucket]
	q := domain.NewListQuery(c.tab, c.freeText, c.typeFilter, c.pageSize)
	switch kind {
	case fetchAppend:
		q = q.WithPage(st.CurrentPage + 1)
		st.IsLoadingMore = true
	case fetchRefresh:
		st.CurrentPage = 0
		st.IsInitialLoading = true
	case fetchSearch:
		*st = ListState{IsSearchPending: true}
	default:
		*st = ListState{IsInitialLoading: true}
	}

	token, owner := c.token, c.owner
	src, scope, timeout, parent := c.source, c.scope, c.timeout, c.baseCtx
	c.logger.Debug("fetch issued", "token", token, "kind", kind.String(), "query", q.String())
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		page, err := Search(ctx, src, scope, q)
		return pageLoadedMsg{owner: owner, token: token, kind: kind, bucket: bucket, query: q, page: page, err: err}
	}
}

func (c *Controller) handlePage(msg pageLoadedMsg) {
	if msg.owner != c.owner {
		return
	}
	if !c.mounted || msg.token != c.token {
		c.logger.Debug("stale page dropped", "token", msg.token, "latest", c.token, "mounted", c.mounted)
		return
	}
	st, ok := c.states[msg.bucket]
	if !ok {
		return
	}
	st.clearFlags()

	if msg.err != nil {
		c.logger.Warn("list fetch failed", "token", msg.token, "kind", msg.kind.String(), "query", msg.query.String(), "error", msg.err)
		errors.Report(c.notifier, "Failed to load occurrences", msg.err)
		// kept items belong to the previous query; paging past them would mix results
		if msg.kind == fetchRefresh {
			st.HasMore = false
		}
		return
	}

	if msg.kind == fetchAppend {
		st.Items = appendUnique(st.Items, msg.page.Items)
		st.CurrentPage = msg.query.Page
		st.HasMore = msg.page.HasMore
		st.TotalItems = msg.page.TotalItems
	} else {
		*st = ListState{
			Items:      appendUnique(nil, msg.page.Items),
			HasMore:    msg.page.HasMore,
			TotalItems: msg.page.TotalItems,
		}
	}
	// a search typed while this page was loading is still waiting on its timer
	if c.debouncing && msg.bucket == c.tab.Bucket() {
		st.IsSearchPending = true
	}
	c.logger.Debug("page committed", "token", msg.token, "bucket", msg.bucket, "items", len(st.Items), "page", st.CurrentPage)
}
