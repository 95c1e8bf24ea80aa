// Package errors routes user-facing notifications to the CLI or the TUI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorHandler receives user-facing messages. The list controller uses it
// to report failed fetches; commands use it for their results.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// UserFacing is implemented by errors that carry a message fit for end users.
type UserFacing interface {
	UserMessage() string
}

// UserMessage returns the user-facing text for err, falling back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var uf UserFacing
	if stderrors.As(err, &uf) {
		return uf.UserMessage()
	}
	return err.Error()
}

// Report sends err to h as an error message prefixed with action.
// A nil err or nil handler is ignored.
func Report(h ErrorHandler, action string, err error) {
	if h == nil || err == nil {
		return
	}
	if action == "" {
		h.Error(UserMessage(err))
		return
	}
	h.Error(fmt.Sprintf("%s: %s", action, UserMessage(err)))
}

// Discard is an ErrorHandler that drops every message.
type Discard struct{}

func (Discard) Error(string)   {}
func (Discard) Warning(string) {}
func (Discard) Info(string)    {}
func (Discard) Success(string) {}
