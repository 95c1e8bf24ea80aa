package tui

import (
	"github.com/cristianoliveira/condoview/internal/domain"
)

type mutationKind int

const (
	mutationCreate mutationKind = iota
	mutationUpdate
	mutationCancel
)

func (k mutationKind) String() string {
	switch k {
	case mutationCreate:
		return "create"
	case mutationUpdate:
		return "update"
	default:
		return "cancel"
	}
}

// mutationDoneMsg carries the result of a create, update or cancel call.
type mutationDoneMsg struct {
	kind       mutationKind
	occurrence domain.Occurrence
	err        error
}

// statusClearMsg clears the status bar unless a newer message replaced it.
type statusClearMsg struct {
	seq int
}
