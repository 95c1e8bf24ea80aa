/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/condoview/cmd"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/errors"
	"github.com/cristianoliveira/condoview/internal/format"
	"github.com/cristianoliveira/condoview/internal/listctl"
	"github.com/spf13/cobra"
)

// NewCountsCmd creates the counts command with explicit dependencies.
func NewCountsCmd(load sessionLoader, handler errors.ErrorHandler) *cobra.Command {
	if load == nil || handler == nil {
		panic("NewCountsCmd: dependencies cannot be nil")
	}
	var outputFormat string

	countsCmd := &cobra.Command{
		Use:   "counts",
		Short: "Show the number of occurrences per tab",
		Long: `Show the number of occurrences per tab.

USAGE:
    condoview counts [--format=table|simple|json]

A tab whose count cannot be loaded shows 0 and a warning.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ft, err := format.ParseType(outputFormat)
			if err != nil {
				return err
			}
			s, err := load()
			if err != nil {
				return err
			}
			counts, errs := listctl.LoadCounts(c.Context(), s.client, s.settings.Scope, s.settings.RequestTimeout)
			if len(errs) == len(domain.AllTabs()) {
				return fmt.Errorf("load counts: %w", errs[domain.TabAll])
			}
			rows := make([]format.TabCount, 0, len(counts))
			for _, tab := range domain.AllTabs() {
				rows = append(rows, format.TabCount{Tab: tab, Count: counts.Get(tab)})
				if err, ok := errs[tab]; ok {
					handler.Warning(fmt.Sprintf("Count unavailable for %s: %s", tab.Label(), errors.UserMessage(err)))
				}
			}
			return format.NewFormatter(ft).FormatCounts(rows, c.OutOrStdout())
		},
	}
	countsCmd.Flags().StringVar(&outputFormat, "format", string(format.FormatterTypeTable), "Output format: table, simple, json")
	return countsCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewCountsCmd(loadSession, errors.NewDefaultCLIHandler()))
}
