/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoliveira/condoview/cmd"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/format"
	"github.com/cristianoliveira/condoview/internal/listctl"
	"github.com/spf13/cobra"
)

const listCommandLong = `List one page of occurrences.

USAGE:
    condoview list [OPTIONS]

OPTIONS:
    --tab <tab>          todas (default), pendente, em_andamento, resolvidas, canceladas
    --search <text>      Free-text search
    --type <type>        Filter by occurrence type
    --page <n>           Page number, starting at 1 (default 1)
    --size <n>           Page size (default from page_size)
    --format=<format>    Output format: table (default), simple, json
    -h, --help           Show this help

Residents only see their own occurrences. Cancelled occurrences are only
listed under the canceladas tab.`

// ListOptions holds the parsed list flags.
type ListOptions struct {
	Tab    string
	Search string
	Type   string
	Page   int
	Size   int
	Format string
}

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(load sessionLoader) *cobra.Command {
	if load == nil {
		panic("NewListCmd: session loader cannot be nil")
	}
	var opts ListOptions

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List occurrences with filters",
		Long:  listCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			return runList(c, s, opts)
		},
	}
	listCmd.Flags().StringVar(&opts.Tab, "tab", string(domain.DefaultTab()), "Status tab to list")
	listCmd.Flags().StringVar(&opts.Search, "search", "", "Free-text search")
	listCmd.Flags().StringVar(&opts.Type, "type", "", "Filter by occurrence type")
	listCmd.Flags().IntVar(&opts.Page, "page", 1, "Page number, starting at 1")
	listCmd.Flags().IntVar(&opts.Size, "size", 0, "Page size (default from configuration)")
	listCmd.Flags().StringVar(&opts.Format, "format", string(format.FormatterTypeTable), "Output format: table, simple, json")
	return listCmd
}

// buildListQuery validates the flags and turns them into a query.
func buildListQuery(opts ListOptions, defaultSize int) (domain.ListQuery, error) {
	tab, ok := domain.ParseTab(opts.Tab)
	if !ok {
		names := make([]string, 0, len(domain.AllTabs()))
		for _, t := range domain.AllTabs() {
			names = append(names, string(t))
		}
		return domain.ListQuery{}, fmt.Errorf("invalid tab: %q (expected one of %s)", opts.Tab, strings.Join(names, ", "))
	}
	if opts.Page < 1 {
		return domain.ListQuery{}, fmt.Errorf("invalid page: %d (pages start at 1)", opts.Page)
	}
	size := opts.Size
	if size <= 0 {
		size = defaultSize
	}
	q := domain.NewListQuery(tab, strings.TrimSpace(opts.Search), strings.TrimSpace(opts.Type), size).WithPage(opts.Page - 1)
	return q, q.Validate()
}

func runList(c *cobra.Command, s *session, opts ListOptions) error {
	ft, err := format.ParseType(opts.Format)
	if err != nil {
		return err
	}
	q, err := buildListQuery(opts, s.settings.PageSize)
	if err != nil {
		return err
	}
	ctx, cancel := s.requestContext(c.Context())
	defer cancel()

	page, err := listctl.Search(ctx, s.client, s.settings.Scope, q)
	if err != nil {
		return fmt.Errorf("list occurrences: %w", err)
	}
	s.logger.Debug("list printed", "query", q.String(), "items", len(page.Items))
	return format.NewFormatter(ft).FormatPage(page, c.OutOrStdout())
}

// parseID parses an occurrence id argument.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid occurrence id: %q", raw)
	}
	return id, nil
}

func init() {
	cmd.RootCmd.AddCommand(NewListCmd(loadSession))
}
