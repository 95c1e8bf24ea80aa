package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/condoview/internal/domain"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldType
	// fieldExtra is the image path on create and the status on edit.
	fieldExtra
	fieldCount
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formClose
)

// editableStatuses are the statuses reachable from the edit form.
// Cancelling has its own action.
var editableStatuses = []domain.Status{domain.StatusOpen, domain.StatusInProgress, domain.StatusResolved}

// form edits the fields of a new or existing occurrence.
type form struct {
	editing    bool
	original   domain.Occurrence
	inputs     [fieldExtra + 1]textinput.Model
	statusIdx  int
	focus      int
	err        string
	submitting bool
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	return ti
}

func newCreateForm() *form {
	f := &form{}
	f.inputs[fieldTitle] = newInput("what happened", domain.MaxTitleLength)
	f.inputs[fieldDescription] = newInput("details (optional)", domain.MaxDescriptionLength)
	f.inputs[fieldType] = newInput("e.g. manutencao (optional)", 64)
	f.inputs[fieldExtra] = newInput("path to an image (optional)", 1024)
	f.setFocus(fieldTitle)
	return f
}

func newEditForm(o domain.Occurrence) *form {
	f := &form{editing: true, original: o}
	f.inputs[fieldTitle] = newInput("", domain.MaxTitleLength)
	f.inputs[fieldTitle].SetValue(o.Title)
	f.inputs[fieldDescription] = newInput("", domain.MaxDescriptionLength)
	f.inputs[fieldDescription].SetValue(o.Description)
	f.inputs[fieldType] = newInput("", 64)
	f.inputs[fieldType].SetValue(o.Type)
	f.inputs[fieldExtra] = newInput("", 0)
	for i, s := range editableStatuses {
		if s == o.Status {
			f.statusIdx = i
		}
	}
	f.setFocus(fieldTitle)
	return f
}

func (f *form) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus && !(f.editing && j == fieldExtra) {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *form) status() domain.Status {
	return editableStatuses[f.statusIdx]
}

// handleKey applies a key press and reports what the model should do next.
func (f *form) handleKey(msg tea.KeyMsg, keys keyMap) (formAction, tea.Cmd) {
	if f.submitting {
		return formNone, nil
	}
	switch {
	case key.Matches(msg, keys.Back):
		return formClose, nil
	case key.Matches(msg, keys.Submit):
		return formSubmit, nil
	case msg.Type == tea.KeyEnter:
		if f.focus == fieldCount-1 {
			return formSubmit, nil
		}
		f.setFocus(f.focus + 1)
		return formNone, nil
	case key.Matches(msg, keys.NextFld):
		f.setFocus(f.focus + 1)
		return formNone, nil
	case key.Matches(msg, keys.PrevFld):
		f.setFocus(f.focus - 1)
		return formNone, nil
	}

	if f.editing && f.focus == fieldExtra {
		switch msg.String() {
		case "left", "h":
			f.statusIdx = (f.statusIdx + len(editableStatuses) - 1) % len(editableStatuses)
		case "right", "l", " ":
			f.statusIdx = (f.statusIdx + 1) % len(editableStatuses)
		}
		return formNone, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return formNone, cmd
}

// newOccurrence builds and validates the create payload.
func (f *form) newOccurrence(residentID string) (domain.NewOccurrence, error) {
	n := domain.NewOccurrence{
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Type:        strings.TrimSpace(f.inputs[fieldType].Value()),
		ResidentID:  residentID,
		ImagePath:   strings.TrimSpace(f.inputs[fieldExtra].Value()),
	}
	return n, n.Validate()
}

// update builds the edit payload holding only the fields that changed.
func (f *form) update() (domain.OccurrenceUpdate, error) {
	var u domain.OccurrenceUpdate
	if v := strings.TrimSpace(f.inputs[fieldTitle].Value()); v != f.original.Title {
		u.Title = &v
	}
	if v := strings.TrimSpace(f.inputs[fieldDescription].Value()); v != f.original.Description {
		u.Description = &v
	}
	if v := strings.TrimSpace(f.inputs[fieldType].Value()); v != f.original.Type {
		u.Type = &v
	}
	if s := f.status(); s != f.original.Status {
		u.Status = &s
	}
	if u.IsEmpty() {
		return u, fmt.Errorf("nothing changed")
	}
	return u, u.Validate()
}

var (
	formTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	labelStyle     = lipgloss.NewStyle().Width(13).Foreground(lipgloss.Color("241"))
	focusedLabel   = labelStyle.Foreground(lipgloss.Color("4")).Bold(true)
	formErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func (f *form) view() string {
	var b strings.Builder
	if f.editing {
		b.WriteString(formTitleStyle.Render(fmt.Sprintf("Edit occurrence #%d", f.original.ID)))
	} else {
		b.WriteString(formTitleStyle.Render("New occurrence"))
	}
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Title", "Description", "Type", "Image"}
	if f.editing {
		labels[fieldExtra] = "Status"
	}
	for i, label := range labels {
		style := labelStyle
		if i == f.focus {
			style = focusedLabel
		}
		b.WriteString(style.Render(label))
		if f.editing && i == fieldExtra {
			b.WriteString(f.statusPicker())
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n")
	}

	switch {
	case f.submitting:
		b.WriteString("\nSaving…")
	case f.err != "":
		b.WriteString("\n" + formErrStyle.Render(f.err))
	}
	return b.String()
}

func (f *form) statusPicker() string {
	parts := make([]string, len(editableStatuses))
	for i, s := range editableStatuses {
		if i == f.statusIdx {
			parts[i] = activeTabStyle.Render(s.Label())
		} else {
			parts[i] = tabStyle.Render(s.Label())
		}
	}
	return "◂ " + strings.Join(parts, " ") + " ▸"
}
