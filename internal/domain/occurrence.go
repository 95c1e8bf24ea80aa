// Package domain provides the domain layer for condominium occurrences.
// It contains the occurrence entity, list query values and the tab/bucket
// mapping used by the list screens.
package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits enforced before a payload is sent to the backend.
const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
	MaxCommentLength     = 1000
)

// Occurrence is a single issue reported by a resident.
// ID is the identity used for de-duplication across pages.
type Occurrence struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	Type        string
	ResidentID  string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Status is the backend status code of an occurrence.
type Status string

const (
	StatusOpen       Status = "ABERTA"
	StatusInProgress Status = "EM_ANDAMENTO"
	StatusResolved   Status = "RESOLVIDA"
	StatusCancelled  Status = "CANCELADA"
)

// IsValid checks if the status is one of the known backend codes.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Label returns the human readable name shown in lists.
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "Pendente"
	case StatusInProgress:
		return "Em andamento"
	case StatusResolved:
		return "Resolvida"
	case StatusCancelled:
		return "Cancelada"
	default:
		return string(s)
	}
}

// ParseStatus parses a backend status code, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid occurrence status: %q", raw)
	}
	return s, nil
}

// IsCancelled reports whether the occurrence was cancelled.
func (o Occurrence) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// NewOccurrence is the payload for creating an occurrence.
type NewOccurrence struct {
	Title       string
	Description string
	Type        string
	// ResidentID is the reporting resident; the backend fills it for
	// resident sessions when empty.
	ResidentID string
	// ImagePath is an optional local file attached on creation.
	ImagePath string
}

// Validate validates the creation payload.
func (n NewOccurrence) Validate() error {
	if err := validateTitle(n.Title); err != nil {
		return err
	}
	if utf8.RuneCountInString(n.Description) > MaxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLength)
	}
	return nil
}

// OccurrenceUpdate holds the editable fields of an occurrence.
// Nil fields are left untouched by the backend.
type OccurrenceUpdate struct {
	Title       *string
	Description *string
	Type        *string
	Status      *Status
}

// IsEmpty reports whether the update changes nothing.
func (u OccurrenceUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Type == nil && u.Status == nil
}

// Validate validates the update payload.
func (u OccurrenceUpdate) Validate() error {
	if u.IsEmpty() {
		return fmt.Errorf("update has no fields to change")
	}
	if u.Title != nil {
		if err := validateTitle(*u.Title); err != nil {
			return err
		}
	}
	if u.Description != nil && utf8.RuneCountInString(*u.Description) > MaxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLength)
	}
	if u.Status != nil {
		if !u.Status.IsValid() {
			return fmt.Errorf("invalid occurrence status: %q", *u.Status)
		}
		if *u.Status == StatusCancelled {
			return fmt.Errorf("use cancel to cancel an occurrence")
		}
	}
	return nil
}

// Comment is a note attached to an occurrence.
type Comment struct {
	ID           int64
	OccurrenceID int64
	Text         string
	CreatedAt    time.Time
}

// ValidateComment validates a comment body.
func ValidateComment(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("comment cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return fmt.Errorf("comment exceeds %d characters", MaxCommentLength)
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("title exceeds %d characters", MaxTitleLength)
	}
	return nil
}
