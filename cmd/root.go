/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/condoview/internal/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
// Running it bare opens the TUI; the binary wires that in.
var RootCmd = &cobra.Command{
	Use:           "condoview",
	Short:         "Browse and manage condominium occurrences from the terminal.",
	Long:          `Browse and manage condominium occurrences from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors are returned to main, which prints them.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
			return
		}
		printHelpText(cmd)
	})
}

// commandOrder is the order commands appear in the root help.
var commandOrder = []string{
	"tui",
	"list",
	"counts",
	"show",
	"create",
	"update",
	"cancel",
	"comment",
	"mock-server",
	"version",
}

func printHelpText(cmd *cobra.Command) {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Use, found.Short))
	}

	helpText := fmt.Sprintf(`condoview %s

Browse and manage condominium occurrences from the terminal.

USAGE:
    condoview [COMMAND] [OPTIONS]

COMMANDS:
%s

With no command the interactive TUI opens.

CONFIGURATION:
    CONDOVIEW_API_URL, CONDOVIEW_API_TOKEN, CONDOVIEW_ROLE, CONDOVIEW_RESIDENT_ID
    or {config_dir}/config.toml

OPTIONS:
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
	fmt.Fprint(cmd.OutOrStdout(), helpText)
}
