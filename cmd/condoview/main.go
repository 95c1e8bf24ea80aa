/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"os"

	"github.com/cristianoliveira/condoview/cmd"
	"github.com/cristianoliveira/condoview/internal/colors"
	"github.com/cristianoliveira/condoview/internal/errors"
	"github.com/cristianoliveira/condoview/internal/logging"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		logging.GetGlobal().Error("command failed", "error", err)
		colors.Error(errors.UserMessage(err))
	}
	_ = logging.ShutdownGlobal()
	if err != nil {
		os.Exit(1)
	}
}
