// Package tui provides the interactive occurrences screen.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/errors"
	"github.com/cristianoliveira/condoview/internal/listctl"
	"github.com/cristianoliveira/condoview/internal/logging"
	"github.com/cristianoliveira/condoview/internal/settings"
)

const (
	defaultViewportWidth  = 80
	defaultViewportHeight = 24
	// chromeLines is the number of lines around the list: title, tabs,
	// filters, blank, footer, status and help.
	chromeLines      = 8
	statusClearDelay = 5 * time.Second
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeType
	modeForm
	modeConfirm
)

// Mutator changes occurrences on the backend.
type Mutator interface {
	Create(ctx context.Context, n domain.NewOccurrence) (domain.Occurrence, error)
	Update(ctx context.Context, id int64, u domain.OccurrenceUpdate) (domain.Occurrence, error)
	Cancel(ctx context.Context, id int64) (domain.Occurrence, error)
}

// Options configures a Model.
type Options struct {
	Mutator Mutator
	// State restores the persisted preferences. The controller must have
	// been built with the same tab and type filter.
	State settings.TUIState
	// SaveState persists preferences on quit. Nil disables persistence.
	SaveState func(settings.TUIState) error
	Notifier  *errors.TUIHandler
	Logger    logging.Logger
	Timeout   time.Duration
	// Tick schedules the status bar clear. Defaults to tea.Tick.
	Tick listctl.TickFunc
}

// Model represents the TUI model for bubbletea.
type Model struct {
	ctl       *listctl.Controller
	mutator   Mutator
	saveState func(settings.TUIState) error
	logger    logging.Logger
	timeout   time.Duration
	tick      listctl.TickFunc

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	search   textinput.Model
	typeIn   textinput.Model
	viewport viewport.Model

	mode    mode
	form    *form
	pending *domain.Occurrence
	cursor  int
	width   int
	height  int

	errorHandler      *errors.TUIHandler
	statusMessage     string
	statusMessageType errors.MessageType
	statusSeq         int
	statusScheduled   int
	quitting          bool
}

// New creates the model around ctl. The controller is mounted by Init.
// The notifier passed in opts should be the one the controller reports to;
// when nil a fresh handler is created and the controller's failures go
// wherever it was configured to send them.
func New(ctl *listctl.Controller, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Noop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = listctl.DefaultRequestTimeout
	}

	m := &Model{
		ctl:       ctl,
		mutator:   opts.Mutator,
		saveState: opts.SaveState,
		logger:    logger.With("component", "tui"),
		timeout:   timeout,
		tick:      opts.Tick,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		search:    newInput("type to search", 120),
		typeIn:    newInput("any type", 64),
		viewport:  viewport.New(defaultViewportWidth, defaultViewportHeight-chromeLines),
	}
	if m.tick == nil {
		m.tick = tea.Tick
	}
	m.help.ShowAll = opts.State.FullHelp
	m.typeIn.SetValue(ctl.TypeFilter())

	m.errorHandler = opts.Notifier
	if m.errorHandler == nil {
		m.errorHandler = errors.NewTUIHandler(nil)
	}
	m.errorHandler.SetOnNotify(func(msg errors.Message) {
		m.statusMessage = msg.Text
		m.statusMessageType = msg.Type
		m.statusSeq++
	})
	return m
}

// Init mounts the controller and starts the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.ctl.Mount(), m.spinner.Tick)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.clampCursor()
	m.syncViewport()
	return m, tea.Batch(cmd, m.scheduleStatusClear())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	if m.ctl.Owns(msg) {
		return m.ctl.Update(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeLines)
		return nil
	case tea.FocusMsg:
		return m.ctl.Focus()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case mutationDoneMsg:
		return m.handleMutationDone(msg)
	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
		}
		return nil
	}
	return nil
}

// scheduleStatusClear arms the clear timer once per new status message.
func (m *Model) scheduleStatusClear() tea.Cmd {
	if m.statusMessage == "" || m.statusScheduled == m.statusSeq {
		return nil
	}
	m.statusScheduled = m.statusSeq
	seq := m.statusSeq
	return m.tick(statusClearDelay, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case modeSearch, modeType:
		return m.handleInputKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case key.Matches(msg, m.keys.Down):
		return m.moveDown()
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(m.ctl.Active().Next())
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(m.ctl.Active().Prev())
	case key.Matches(msg, m.keys.TabIndex):
		tabs := domain.AllTabs()
		if i := int(msg.String()[0] - '1'); i >= 0 && i < len(tabs) {
			return m.switchTab(tabs[i])
		}
		return nil
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m.search.Focus()
	case key.Matches(msg, m.keys.Type):
		m.mode = modeType
		return m.typeIn.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.New):
		return m.openCreate()
	case key.Matches(msg, m.keys.Edit):
		return m.openEdit()
	case key.Matches(msg, m.keys.Cancel):
		m.askCancel()
		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}
	return nil
}

func (m *Model) switchTab(tab domain.Tab) tea.Cmd {
	cmd := m.ctl.SetStatusTab(tab)
	if cmd != nil {
		m.cursor = 0
	}
	return cmd
}

// moveDown advances the cursor; moving past the last row asks for the
// next page.
func (m *Model) moveDown() tea.Cmd {
	items := m.ctl.ActiveState().Items
	if m.cursor < len(items)-1 {
		m.cursor++
		if m.cursor < len(items)-1 {
			return nil
		}
	}
	return m.ctl.LoadMore()
}

// handleInputKey edits the search or type input. Every keystroke is
// forwarded to the controller, which debounces it.
func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	input := &m.search
	if m.mode == modeType {
		input = &m.typeIn
	}
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		input.Blur()
		m.mode = modeList
		return nil
	case tea.KeyCtrlC:
		return m.quit()
	}

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	var ctlCmd tea.Cmd
	if m.mode == modeType {
		ctlCmd = m.ctl.SetTypeFilter(input.Value())
	} else {
		ctlCmd = m.ctl.SetFreeText(input.Value())
	}
	if ctlCmd != nil {
		m.cursor = 0
	}
	return tea.Batch(cmd, ctlCmd)
}

func (m *Model) refresh() tea.Cmd {
	m.search.SetValue("")
	m.typeIn.SetValue("")
	return m.ctl.Refresh()
}

func (m *Model) selected() (domain.Occurrence, bool) {
	items := m.ctl.ActiveState().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return domain.Occurrence{}, false
	}
	return items[m.cursor], true
}

func (m *Model) openCreate() tea.Cmd {
	if m.mutator == nil {
		m.errorHandler.Warning("Read-only session: no backend client configured")
		return nil
	}
	m.form = newCreateForm()
	m.mode = modeForm
	return textinput.Blink
}

func (m *Model) openEdit() tea.Cmd {
	o, ok := m.selected()
	if !ok || m.mutator == nil {
		return nil
	}
	if o.IsCancelled() {
		m.errorHandler.Warning(fmt.Sprintf("Occurrence #%d is cancelled and cannot be edited", o.ID))
		return nil
	}
	m.form = newEditForm(o)
	m.mode = modeForm
	return textinput.Blink
}

func (m *Model) askCancel() {
	o, ok := m.selected()
	if !ok || m.mutator == nil {
		return
	}
	if o.IsCancelled() {
		m.errorHandler.Warning(fmt.Sprintf("Occurrence #%d is already cancelled", o.ID))
		return
	}
	m.pending = &o
	m.mode = modeConfirm
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm), msg.Type == tea.KeyEnter:
		id := m.pending.ID
		m.pending = nil
		m.mode = modeList
		return m.mutate(mutationCancel, func(ctx context.Context) (domain.Occurrence, error) {
			return m.mutator.Cancel(ctx, id)
		})
	case key.Matches(msg, m.keys.Deny):
		m.pending = nil
		m.mode = modeList
	case msg.Type == tea.KeyCtrlC:
		return m.quit()
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	action, cmd := m.form.handleKey(msg, m.keys)
	switch action {
	case formClose:
		m.form = nil
		m.mode = modeList
	case formSubmit:
		return m.submitForm()
	}
	return cmd
}

func (m *Model) submitForm() tea.Cmd {
	f := m.form
	if f.editing {
		u, err := f.update()
		if err != nil {
			f.err = err.Error()
			return nil
		}
		id := f.original.ID
		f.submitting = true
		return m.mutate(mutationUpdate, func(ctx context.Context) (domain.Occurrence, error) {
			return m.mutator.Update(ctx, id, u)
		})
	}

	n, err := f.newOccurrence(m.ctl.Scope().ResidentID)
	if err != nil {
		f.err = err.Error()
		return nil
	}
	f.submitting = true
	return m.mutate(mutationCreate, func(ctx context.Context) (domain.Occurrence, error) {
		return m.mutator.Create(ctx, n)
	})
}

func (m *Model) mutate(kind mutationKind, call func(ctx context.Context) (domain.Occurrence, error)) tea.Cmd {
	timeout := m.timeout
	m.logger.Debug("mutation issued", "kind", kind.String())
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		o, err := call(ctx)
		return mutationDoneMsg{kind: kind, occurrence: o, err: err}
	}
}

var (
	mutationVerbs = map[mutationKind]string{
		mutationCreate: "created",
		mutationUpdate: "updated",
		mutationCancel: "cancelled",
	}
	mutationFailures = map[mutationKind]string{
		mutationCreate: "Failed to create occurrence",
		mutationUpdate: "Failed to update occurrence",
		mutationCancel: "Failed to cancel occurrence",
	}
)

func (m *Model) handleMutationDone(msg mutationDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("mutation failed", "kind", msg.kind.String(), "error", msg.err)
		if m.form != nil {
			m.form.submitting = false
			m.form.err = errors.UserMessage(msg.err)
		}
		errors.Report(m.errorHandler, mutationFailures[msg.kind], msg.err)
		return nil
	}

	m.logger.Info("mutation done", "kind", msg.kind.String(), "id", msg.occurrence.ID)
	if m.form != nil {
		m.form = nil
		m.mode = modeList
	}
	m.errorHandler.Success(fmt.Sprintf("Occurrence #%d %s", msg.occurrence.ID, mutationVerbs[msg.kind]))
	return m.refresh()
}

// State returns the preferences to persist.
func (m *Model) State() settings.TUIState {
	return settings.TUIState{
		ActiveTab:  m.ctl.Active(),
		TypeFilter: m.ctl.TypeFilter(),
		FullHelp:   m.help.ShowAll,
	}
}

func (m *Model) quit() tea.Cmd {
	if m.quitting {
		return tea.Quit
	}
	m.quitting = true
	state := m.State()
	m.ctl.Unmount()
	if m.saveState != nil {
		if err := m.saveState(state); err != nil {
			m.logger.Warn("failed to save tui settings", "error", err)
		}
	}
	return tea.Quit
}

func (m *Model) clampCursor() {
	n := len(m.ctl.ActiveState().Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
