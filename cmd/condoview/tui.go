/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/condoview/cmd"
	"github.com/cristianoliveira/condoview/internal/colors"
	"github.com/cristianoliveira/condoview/internal/errors"
	"github.com/cristianoliveira/condoview/internal/listctl"
	"github.com/cristianoliveira/condoview/internal/settings"
	"github.com/cristianoliveira/condoview/internal/tui"
	"github.com/spf13/cobra"
)

const tuiCommandLong = `Interactive terminal UI for occurrences.

USAGE:
    condoview tui

KEY BINDINGS:
    j/k         Move down/up; moving past the last row loads more
    h/l, 1-5    Switch status tab
    /           Search
    t           Filter by type
    r           Refresh and clear filters
    n           New occurrence
    e           Edit selected occurrence
    x           Cancel selected occurrence
    ?           Toggle full help
    q           Quit

The active tab, type filter and help mode are restored on the next run.`

// stateStore loads and saves the persisted TUI preferences.
type stateStore struct {
	load func() (*settings.Settings, error)
	save func(*settings.Settings) error
}

var defaultStateStore = stateStore{load: settings.Load, save: settings.Save}

// programRunner runs a bubbletea model until it quits.
type programRunner func(ctx context.Context, m tea.Model) error

func runProgram(ctx context.Context, m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// newTUIModel wires the list controller and the screen for s.
func newTUIModel(ctx context.Context, s *session, state settings.TUIState, store stateStore) *tui.Model {
	cs := s.settings
	notifier := errors.NewTUIHandler(nil)
	ctl := listctl.New(s.client, cs.Scope,
		listctl.WithContext(ctx),
		listctl.WithInitialTab(state.ActiveTab),
		listctl.WithTypeFilter(state.TypeFilter),
		listctl.WithPageSize(cs.PageSize),
		listctl.WithDebounce(cs.SearchDebounce),
		listctl.WithTimeout(cs.RequestTimeout),
		listctl.WithNotifier(notifier),
		listctl.WithLogger(s.logger),
	)
	return tui.New(ctl, tui.Options{
		Mutator: s.client,
		State:   state,
		SaveState: func(st settings.TUIState) error {
			return store.save(st.ToSettings())
		},
		Notifier: notifier,
		Logger:   s.logger,
		Timeout:  cs.RequestTimeout,
	})
}

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(load sessionLoader, store stateStore, run programRunner) *cobra.Command {
	if load == nil || run == nil {
		panic("NewTUICmd: dependencies cannot be nil")
	}
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal UI for occurrences",
		Long:  tuiCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			saved, err := store.load()
			if err != nil {
				colors.Warning(fmt.Sprintf("Ignoring TUI settings: %v", err))
			}
			state := settings.FromSettings(saved)
			s.logger.Info("tui started", "tab", state.ActiveTab, "role", s.settings.Scope.Role)

			if err := run(c.Context(), newTUIModel(c.Context(), s, state, store)); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}
}

func init() {
	tuiCmd := NewTUICmd(loadSession, defaultStateStore, runProgram)
	cmd.RootCmd.AddCommand(tuiCmd)
	cmd.RootCmd.RunE = tuiCmd.RunE
}
