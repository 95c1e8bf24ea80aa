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

const createCommandLong = `Report a new occurrence.

USAGE:
    condoview create --title <text> [OPTIONS]

OPTIONS:
    --title <text>         Short summary (required)
    --description <text>   Details
    --type <type>          Occurrence type, e.g. manutencao
    --image <path>         Attach an image file
    -h, --help             Show this help

The occurrence is reported on behalf of the configured resident.`

// NewCreateCmd creates the create command with explicit dependencies.
func NewCreateCmd(load sessionLoader, handler errors.ErrorHandler) *cobra.Command {
	if load == nil || handler == nil {
		panic("NewCreateCmd: dependencies cannot be nil")
	}
	var n domain.NewOccurrence

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Report a new occurrence",
		Long:  createCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			n.Title = strings.TrimSpace(n.Title)
			n.Description = strings.TrimSpace(n.Description)
			n.Type = strings.TrimSpace(n.Type)
			if err := n.Validate(); err != nil {
				return err
			}
			s, err := load()
			if err != nil {
				return err
			}
			n.ResidentID = s.settings.Scope.ResidentID

			ctx, cancel := s.requestContext(c.Context())
			defer cancel()
			o, err := s.client.Create(ctx, n)
			if err != nil {
				return fmt.Errorf("create occurrence: %w", err)
			}
			handler.Success(fmt.Sprintf("Occurrence #%d created", o.ID))
			return nil
		},
	}
	createCmd.Flags().StringVar(&n.Title, "title", "", "Short summary (required)")
	createCmd.Flags().StringVar(&n.Description, "description", "", "Details")
	createCmd.Flags().StringVar(&n.Type, "type", "", "Occurrence type")
	createCmd.Flags().StringVar(&n.ImagePath, "image", "", "Path to an image to attach")
	_ = createCmd.MarkFlagRequired("title")
	return createCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewCreateCmd(loadSession, errors.NewDefaultCLIHandler()))
}
