package api

import (
	"time"

	"github.com/cristianoliveira/condoview/internal/domain"
)

// Response bodies use pointer fields so a missing key can be told apart
// from a zero value.

type wireOccurrence struct {
	ID          *int64     `json:"id"`
	Title       *string    `json:"titulo"`
	Description string     `json:"descricao"`
	Status      *string    `json:"status"`
	Type        string     `json:"tipo"`
	ResidentID  string     `json:"moradorId"`
	ImageURL    string     `json:"imagemUrl"`
	CreatedAt   *time.Time `json:"criadoEm"`
	UpdatedAt   *time.Time `json:"atualizadoEm"`
}

type wirePage struct {
	Items      *[]wireOccurrence `json:"items"`
	HasMore    *bool             `json:"hasMore"`
	TotalItems *int              `json:"totalItems"`
}

type wireComment struct {
	ID           *int64     `json:"id"`
	OccurrenceID *int64     `json:"ocorrenciaId"`
	Text         *string    `json:"texto"`
	CreatedAt    *time.Time `json:"criadoEm"`
}

type wireError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type createRequest struct {
	Title       string `json:"titulo"`
	Description string `json:"descricao,omitempty"`
	Type        string `json:"tipo,omitempty"`
	ResidentID  string `json:"moradorId,omitempty"`
}

type updateRequest struct {
	Title       *string `json:"titulo,omitempty"`
	Description *string `json:"descricao,omitempty"`
	Type        *string `json:"tipo,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type commentRequest struct {
	Text string `json:"texto"`
}

func (w wireOccurrence) toDomain() (domain.Occurrence, error) {
	if w.ID == nil {
		return domain.Occurrence{}, malformed("occurrence without id")
	}
	if w.Status == nil {
		return domain.Occurrence{}, malformed("occurrence %d without status", *w.ID)
	}
	status, err := domain.ParseStatus(*w.Status)
	if err != nil {
		return domain.Occurrence{}, malformed("occurrence %d: %v", *w.ID, err)
	}
	o := domain.Occurrence{
		ID:          *w.ID,
		Description: w.Description,
		Status:      status,
		Type:        w.Type,
		ResidentID:  w.ResidentID,
		ImageURL:    w.ImageURL,
	}
	if w.Title != nil {
		o.Title = *w.Title
	}
	if w.CreatedAt != nil {
		o.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		o.UpdatedAt = *w.UpdatedAt
	}
	return o, nil
}

func (w wirePage) toDomain() (domain.ListPage, error) {
	switch {
	case w.Items == nil:
		return domain.ListPage{}, malformed("page without items")
	case w.HasMore == nil:
		return domain.ListPage{}, malformed("page without hasMore")
	case w.TotalItems == nil:
		return domain.ListPage{}, malformed("page without totalItems")
	case *w.TotalItems < 0:
		return domain.ListPage{}, malformed("negative totalItems %d", *w.TotalItems)
	}
	page := domain.ListPage{
		Items:      make([]domain.Occurrence, 0, len(*w.Items)),
		HasMore:    *w.HasMore,
		TotalItems: *w.TotalItems,
	}
	for _, item := range *w.Items {
		o, err := item.toDomain()
		if err != nil {
			return domain.ListPage{}, err
		}
		page.Items = append(page.Items, o)
	}
	return page, nil
}

func (w wireComment) toDomain() (domain.Comment, error) {
	if w.ID == nil || w.Text == nil {
		return domain.Comment{}, malformed("comment without id or text")
	}
	c := domain.Comment{ID: *w.ID, Text: *w.Text}
	if w.OccurrenceID != nil {
		c.OccurrenceID = *w.OccurrenceID
	}
	if w.CreatedAt != nil {
		c.CreatedAt = *w.CreatedAt
	}
	return c, nil
}

func toUpdateRequest(u domain.OccurrenceUpdate) updateRequest {
	req := updateRequest{Title: u.Title, Description: u.Description, Type: u.Type}
	if u.Status != nil {
		s := string(*u.Status)
		req.Status = &s
	}
	return req
}
