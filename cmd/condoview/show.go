/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/condoview/cmd"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/format"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewShowCmd creates the show command with explicit dependencies.
func NewShowCmd(load sessionLoader) *cobra.Command {
	if load == nil {
		panic("NewShowCmd: session loader cannot be nil")
	}
	var outputFormat string

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an occurrence and its comments",
		Long: `Show an occurrence and its comments.

USAGE:
    condoview show <id> [--format=simple|table|json]`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ft, err := format.ParseType(outputFormat)
			if err != nil {
				return err
			}
			s, err := load()
			if err != nil {
				return err
			}
			ctx, cancel := s.requestContext(c.Context())
			defer cancel()

			var out struct {
				occurrence domain.Occurrence
				comments   []domain.Comment
			}
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				out.occurrence, err = s.client.Get(gctx, id)
				return err
			})
			g.Go(func() (err error) {
				out.comments, err = s.client.Comments(gctx, id)
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("show occurrence #%d: %w", id, err)
			}
			return format.NewFormatter(ft).FormatDetail(out.occurrence, out.comments, c.OutOrStdout())
		},
	}
	showCmd.Flags().StringVar(&outputFormat, "format", string(format.FormatterTypeSimple), "Output format: simple, table, json")
	return showCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewShowCmd(loadSession))
}
