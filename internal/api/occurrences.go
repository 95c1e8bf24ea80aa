package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cristianoliveira/condoview/internal/domain"
)

// ImageField is the multipart part name of an attached image.
const ImageField = "image"

// Create registers a new occurrence. When n.ImagePath is set the request is
// sent as multipart/form-data with the file in the image part.
func (c *Client) Create(ctx context.Context, n domain.NewOccurrence) (domain.Occurrence, error) {
	if err := n.Validate(); err != nil {
		return domain.Occurrence{}, err
	}
	target := c.endpoint(nil, "ocorrencias")
	var out wireOccurrence
	if n.ImagePath == "" {
		req := createRequest{Title: n.Title, Description: n.Description, Type: n.Type, ResidentID: n.ResidentID}
		if err := c.doJSON(ctx, http.MethodPost, target, req, &out); err != nil {
			return domain.Occurrence{}, err
		}
		return out.toDomain()
	}

	body, contentType, err := multipartBody(n)
	if err != nil {
		return domain.Occurrence{}, err
	}
	if err := c.do(ctx, http.MethodPost, target, body, contentType, &out); err != nil {
		return domain.Occurrence{}, err
	}
	return out.toDomain()
}

func multipartBody(n domain.NewOccurrence) (io.Reader, string, error) {
	f, err := os.Open(n.ImagePath)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"titulo", n.Title},
		{"descricao", n.Description},
		{"tipo", n.Type},
		{"moradorId", n.ResidentID},
	}
	for _, kv := range fields {
		if kv[1] == "" {
			continue
		}
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}
	part, err := w.CreateFormFile(ImageField, filepath.Base(n.ImagePath))
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// Update changes the given fields of occurrence id.
func (c *Client) Update(ctx context.Context, id int64, u domain.OccurrenceUpdate) (domain.Occurrence, error) {
	if err := u.Validate(); err != nil {
		return domain.Occurrence{}, err
	}
	var out wireOccurrence
	target := c.endpoint(nil, "ocorrencias", strconv.FormatInt(id, 10))
	if err := c.doJSON(ctx, http.MethodPut, target, toUpdateRequest(u), &out); err != nil {
		return domain.Occurrence{}, err
	}
	return out.toDomain()
}

// Cancel moves occurrence id to the cancelled status.
func (c *Client) Cancel(ctx context.Context, id int64) (domain.Occurrence, error) {
	var out wireOccurrence
	target := c.endpoint(nil, "ocorrencias", strconv.FormatInt(id, 10), "cancelar")
	if err := c.doJSON(ctx, http.MethodPatch, target, nil, &out); err != nil {
		return domain.Occurrence{}, err
	}
	return out.toDomain()
}

// Comment adds a comment to occurrence id.
func (c *Client) Comment(ctx context.Context, id int64, text string) (domain.Comment, error) {
	if err := domain.ValidateComment(text); err != nil {
		return domain.Comment{}, err
	}
	var out wireComment
	target := c.endpoint(nil, "ocorrencias", strconv.FormatInt(id, 10), "comentarios")
	if err := c.doJSON(ctx, http.MethodPost, target, commentRequest{Text: text}, &out); err != nil {
		return domain.Comment{}, err
	}
	return out.toDomain()
}

// Get loads occurrence id.
func (c *Client) Get(ctx context.Context, id int64) (domain.Occurrence, error) {
	var out wireOccurrence
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "ocorrencias", strconv.FormatInt(id, 10)), nil, &out); err != nil {
		return domain.Occurrence{}, err
	}
	return out.toDomain()
}

// Comments lists the comments of occurrence id, oldest first.
func (c *Client) Comments(ctx context.Context, id int64) ([]domain.Comment, error) {
	var out struct {
		Items *[]wireComment `json:"items"`
	}
	target := c.endpoint(nil, "ocorrencias", strconv.FormatInt(id, 10), "comentarios")
	if err := c.doJSON(ctx, http.MethodGet, target, nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		return nil, malformed("comment list without items")
	}
	comments := make([]domain.Comment, 0, len(*out.Items))
	for _, w := range *out.Items {
		comment, err := w.toDomain()
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}
