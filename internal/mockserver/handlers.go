package mockserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPageSize = domain.DefaultPageSize
	maxPageSize     = 100
	maxUploadBytes  = 10 << 20
)

type occurrenceJSON struct {
	ID          int64     `json:"id"`
	Title       string    `json:"titulo"`
	Description string    `json:"descricao"`
	Status      string    `json:"status"`
	Type        string    `json:"tipo"`
	ResidentID  string    `json:"moradorId"`
	ImageURL    string    `json:"imagemUrl"`
	CreatedAt   time.Time `json:"criadoEm"`
	UpdatedAt   time.Time `json:"atualizadoEm"`
}

type pageJSON struct {
	Items      []occurrenceJSON `json:"items"`
	HasMore    bool             `json:"hasMore"`
	TotalItems int              `json:"totalItems"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
}

type commentJSON struct {
	ID           int64     `json:"id"`
	OccurrenceID int64     `json:"ocorrenciaId"`
	Text         string    `json:"texto"`
	CreatedAt    time.Time `json:"criadoEm"`
}

type errorJSON struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type createJSON struct {
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	Type        string `json:"tipo"`
	ResidentID  string `json:"moradorId"`
}

type updateJSON struct {
	Title       *string `json:"titulo"`
	Description *string `json:"descricao"`
	Type        *string `json:"tipo"`
	Status      *string `json:"status"`
}

type commentRequestJSON struct {
	Text string `json:"texto"`
}

func toJSON(o domain.Occurrence) occurrenceJSON {
	return occurrenceJSON{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Status:      string(o.Status),
		Type:        o.Type,
		ResidentID:  o.ResidentID,
		ImageURL:    o.ImageURL,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func commentToJSON(c domain.Comment) commentJSON {
	return commentJSON{ID: c.ID, OccurrenceID: c.OccurrenceID, Text: c.Text, CreatedAt: c.CreatedAt}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var body errorJSON
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}

// writeStoreError maps store sentinels to HTTP statuses.
func (s *server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "occurrence not found")
	case errors.Is(err, ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, "ALREADY_CANCELLED", "occurrence is cancelled")
	default:
		s.logger.Error("store failure", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "occurrences": n})
}

func (s *server) searchAll(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, "")
}

func (s *server) searchByResident(w http.ResponseWriter, r *http.Request) {
	resident := chi.URLParam(r, "residentID")
	if strings.TrimSpace(resident) == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "resident id is required")
		return
	}
	s.search(w, r, resident)
}

func (s *server) search(w http.ResponseWriter, r *http.Request, residentID string) {
	params, err := parseSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	params.ResidentID = residentID

	items, total, err := s.store.Search(r.Context(), params)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	body := pageJSON{
		Items:      make([]occurrenceJSON, 0, len(items)),
		HasMore:    params.Page*params.Size+len(items) < total,
		TotalItems: total,
		Page:       params.Page,
		Size:       params.Size,
	}
	for _, o := range items {
		body.Items = append(body.Items, toJSON(o))
	}
	writeJSON(w, http.StatusOK, body)
}

func parseSearchParams(r *http.Request) (SearchParams, error) {
	q := r.URL.Query()
	p := SearchParams{Text: q.Get("q"), Type: q.Get("tipo"), Size: defaultPageSize}
	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return p, err
		}
		p.Status = status
	}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, fmt.Errorf("page must be a non-negative integer")
		}
		p.Page = n
	}
	if raw := q.Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return p, fmt.Errorf("size must be a positive integer")
		}
		p.Size = min(n, maxPageSize)
	}
	if p.Page > math.MaxInt/p.Size {
		return p, fmt.Errorf("page %d is out of range", p.Page)
	}
	return p, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

func (s *server) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	o, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(o))
}

func (s *server) create(w http.ResponseWriter, r *http.Request) {
	var (
		n   domain.NewOccurrence
		img *Image
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		var err error
		n, img, err = parseMultipartCreate(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
	} else {
		var body createJSON
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
			return
		}
		n = domain.NewOccurrence{Title: body.Title, Description: body.Description, Type: body.Type, ResidentID: body.ResidentID}
	}
	if err := n.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	o, err := s.store.Create(r.Context(), n, img)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.logger.Info("occurrence created", "id", o.ID, "with_image", img != nil)
	writeJSON(w, http.StatusCreated, toJSON(o))
}

func parseMultipartCreate(r *http.Request) (domain.NewOccurrence, *Image, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return domain.NewOccurrence{}, nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	n := domain.NewOccurrence{
		Title:       r.FormValue("titulo"),
		Description: r.FormValue("descricao"),
		Type:        r.FormValue("tipo"),
		ResidentID:  r.FormValue("moradorId"),
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return n, nil, nil
	}
	if err != nil {
		return n, nil, fmt.Errorf("read image part: %w", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return n, nil, fmt.Errorf("read image part: %w", err)
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return n, &Image{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}

func (s *server) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	var body updateJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	u := domain.OccurrenceUpdate{Title: body.Title, Description: body.Description, Type: body.Type}
	if body.Status != nil {
		status, err := domain.ParseStatus(*body.Status)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
			return
		}
		u.Status = &status
	}
	if err := u.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	o, err := s.store.Update(r.Context(), id, u)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(o))
}

func (s *server) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	o, err := s.store.Cancel(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(o))
}

func (s *server) addComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	var body commentRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if err := domain.ValidateComment(body.Text); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	c, err := s.store.AddComment(r.Context(), id, body.Text)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentToJSON(c))
}

func (s *server) listComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	comments, err := s.store.Comments(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	out := make([]commentJSON, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentToJSON(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (s *server) image(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	img, err := s.store.Image(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	_, _ = w.Write(img.Data)
}
