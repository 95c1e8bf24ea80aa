/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/condoview/cmd"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/errors"
	"github.com/spf13/cobra"
)

const updateCommandLong = `Edit an occurrence.

USAGE:
    condoview update <id> [OPTIONS]

OPTIONS:
    --title <text>         New title
    --description <text>   New description
    --type <type>          New type
    --status <status>      ABERTA, EM_ANDAMENTO or RESOLVIDA
    -h, --help             Show this help

Only the flags given are sent. Use "condoview cancel" to cancel.`

// buildUpdate collects the flags the user set into an update payload.
func buildUpdate(c *cobra.Command, title, description, typ, status string) (domain.OccurrenceUpdate, error) {
	var u domain.OccurrenceUpdate
	flags := c.Flags()
	if flags.Changed("title") {
		v := strings.TrimSpace(title)
		u.Title = &v
	}
	if flags.Changed("description") {
		v := strings.TrimSpace(description)
		u.Description = &v
	}
	if flags.Changed("type") {
		v := strings.TrimSpace(typ)
		u.Type = &v
	}
	if flags.Changed("status") {
		st, err := domain.ParseStatus(status)
		if err != nil {
			return u, err
		}
		if st == domain.StatusCancelled {
			return u, fmt.Errorf("use the cancel command to cancel an occurrence")
		}
		u.Status = &st
	}
	if u.IsEmpty() {
		return u, fmt.Errorf("nothing to update: pass at least one of --title, --description, --type, --status")
	}
	return u, u.Validate()
}

// NewUpdateCmd creates the update command with explicit dependencies.
func NewUpdateCmd(load sessionLoader, handler errors.ErrorHandler) *cobra.Command {
	if load == nil || handler == nil {
		panic("NewUpdateCmd: dependencies cannot be nil")
	}
	var title, description, typ, status string

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an occurrence",
		Long:  updateCommandLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := buildUpdate(c, title, description, typ, status)
			if err != nil {
				return err
			}
			s, err := load()
			if err != nil {
				return err
			}
			ctx, cancel := s.requestContext(c.Context())
			defer cancel()
			o, err := s.client.Update(ctx, id, u)
			if err != nil {
				return fmt.Errorf("update occurrence #%d: %w", id, err)
			}
			handler.Success(fmt.Sprintf("Occurrence #%d updated (%s)", o.ID, o.Status.Label()))
			return nil
		},
	}
	updateCmd.Flags().StringVar(&title, "title", "", "New title")
	updateCmd.Flags().StringVar(&description, "description", "", "New description")
	updateCmd.Flags().StringVar(&typ, "type", "", "New type")
	updateCmd.Flags().StringVar(&status, "status", "", "New status: ABERTA, EM_ANDAMENTO, RESOLVIDA")
	return updateCmd
}

// NewCancelCmd creates the cancel command with explicit dependencies.
func NewCancelCmd(load sessionLoader, handler errors.ErrorHandler) *cobra.Command {
	if load == nil || handler == nil {
		panic("NewCancelCmd: dependencies cannot be nil")
	}
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an occurrence",
		Long: `Cancel an occurrence.

USAGE:
    condoview cancel <id>

Cancelled occurrences move to the canceladas tab and can no longer be edited.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := load()
			if err != nil {
				return err
			}
			ctx, cancel := s.requestContext(c.Context())
			defer cancel()
			if _, err := s.client.Cancel(ctx, id); err != nil {
				return fmt.Errorf("cancel occurrence #%d: %w", id, err)
			}
			handler.Success(fmt.Sprintf("Occurrence #%d cancelled", id))
			return nil
		},
	}
}

func init() {
	handler := errors.NewDefaultCLIHandler()
	cmd.RootCmd.AddCommand(NewUpdateCmd(loadSession, handler))
	cmd.RootCmd.AddCommand(NewCancelCmd(loadSession, handler))
}
