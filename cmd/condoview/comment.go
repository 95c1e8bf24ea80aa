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

// NewCommentCmd creates the comment command with explicit dependencies.
func NewCommentCmd(load sessionLoader, handler errors.ErrorHandler) *cobra.Command {
	if load == nil || handler == nil {
		panic("NewCommentCmd: dependencies cannot be nil")
	}
	var text string

	commentCmd := &cobra.Command{
		Use:   "comment <id>",
		Short: "Add a comment to an occurrence",
		Long: `Add a comment to an occurrence.

USAGE:
    condoview comment <id> --text <text>`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text = strings.TrimSpace(text)
			if err := domain.ValidateComment(text); err != nil {
				return err
			}
			s, err := load()
			if err != nil {
				return err
			}
			ctx, cancel := s.requestContext(c.Context())
			defer cancel()
			comment, err := s.client.Comment(ctx, id, text)
			if err != nil {
				return fmt.Errorf("comment on occurrence #%d: %w", id, err)
			}
			handler.Success(fmt.Sprintf("Comment #%d added to occurrence #%d", comment.ID, id))
			return nil
		},
	}
	commentCmd.Flags().StringVar(&text, "text", "", "Comment text (required)")
	_ = commentCmd.MarkFlagRequired("text")
	return commentCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewCommentCmd(loadSession, errors.NewDefaultCLIHandler()))
}
