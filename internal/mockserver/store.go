// Package mockserver is a local stand-in for the condominium backend's
// occurrences API, backed by SQLite.
package mockserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/condoview/internal/domain"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound indicates that an occurrence or image does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyCancelled indicates the occurrence was cancelled before.
	ErrAlreadyCancelled = errors.New("occurrence already cancelled")
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS occurrences (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL CHECK (status IN ('ABERTA', 'EM_ANDAMENTO', 'RESOLVIDA', 'CANCELADA')),
	type        TEXT NOT NULL DEFAULT '',
	resident_id TEXT NOT NULL DEFAULT '',
	image_url   TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_occurrences_status ON occurrences(status);
CREATE INDEX IF NOT EXISTS idx_occurrences_resident ON occurrences(resident_id);

CREATE TABLE IF NOT EXISTS comments (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	occurrence_id INTEGER NOT NULL REFERENCES occurrences(id),
	text          TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comments_occurrence ON comments(occurrence_id);

CREATE TABLE IF NOT EXISTS images (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	occurrence_id INTEGER NOT NULL REFERENCES occurrences(id),
	filename      TEXT NOT NULL,
	content_type  TEXT NOT NULL,
	data          BLOB NOT NULL
);
`

const occurrenceColumns = "id, title, description, status, type, resident_id, image_url, created_at, updated_at"

// Store persists occurrences, comments and images.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// SearchParams filters a search. Zero values do not filter.
type SearchParams struct {
	Text       string
	Status     domain.Status
	Type       string
	ResidentID string
	Page       int
	Size       int
}

// Image is an uploaded attachment.
type Image struct {
	ID           int64
	OccurrenceID int64
	Filename     string
	ContentType  string
	Data         []byte
}

// OpenStore opens or creates the database at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite store: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite store: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open db: %w", err)
	}
	// one connection keeps the pragmas in effect and serializes writers
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA foreign_keys = ON"} {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("sqlite store: %s: %w", pragma, err)
		}
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite store: create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().Format(time.RFC3339Nano)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOccurrence(row rowScanner) (domain.Occurrence, error) {
	var (
		o                domain.Occurrence
		status           string
		created, updated string
	)
	if err := row.Scan(&o.ID, &o.Title, &o.Description, &status, &o.Type, &o.ResidentID, &o.ImageURL, &created, &updated); err != nil {
		return domain.Occurrence{}, err
	}
	o.Status = domain.Status(status)
	o.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	o.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return o, nil
}

// escapeLike escapes LIKE wildcards so user text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Search returns one page of matches, newest first, and the total number
// of matches.
func (s *Store) Search(ctx context.Context, p SearchParams) ([]domain.Occurrence, int, error) {
	where := []string{"1 = 1"}
	var args []any
	if text := strings.TrimSpace(p.Text); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		where = append(where, `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if p.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(p.Status))
	}
	if p.Type != "" {
		where = append(where, "type = ?")
		args = append(args, p.Type)
	}
	if p.ResidentID != "" {
		where = append(where, "resident_id = ?")
		args = append(args, p.ResidentID)
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM occurrences WHERE "+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite store: count occurrences: %w", err)
	}

	query := "SELECT " + occurrenceColumns + " FROM occurrences WHERE " + clause + " ORDER BY id DESC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, p.Size, p.Page*p.Size)...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite store: search occurrences: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Occurrence, 0, p.Size)
	for rows.Next() {
		o, err := scanOccurrence(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite store: scan occurrence: %w", err)
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite store: iterate occurrences: %w", err)
	}
	return items, total, nil
}

// Get loads one occurrence.
func (s *Store) Get(ctx context.Context, id int64) (domain.Occurrence, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+occurrenceColumns+" FROM occurrences WHERE id = ?", id)
	o, err := scanOccurrence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Occurrence{}, fmt.Errorf("sqlite store: occurrence %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Occurrence{}, fmt.Errorf("sqlite store: get occurrence: %w", err)
	}
	return o, nil
}

// Create inserts an open occurrence and, when img is not nil, its image.
func (s *Store) Create(ctx context.Context, n domain.NewOccurrence, img *Image) (domain.Occurrence, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Occurrence{}, fmt.Errorf("sqlite store: begin: %w", err)
	}
	defer tx.Rollback()

	now := s.timestamp()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO occurrences (title, description, status, type, resident_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		strings.TrimSpace(n.Title), n.Description, string(domain.StatusOpen), n.Type, n.ResidentID, now, now)
	if err != nil {
		return domain.Occurrence{}, fmt.Errorf("sqlite store: insert occurrence: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Occurrence{}, fmt.Errorf("sqlite store: occurrence id: %w", err)
	}

	if img != nil {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO images (occurrence_id, filename, content_type, data) VALUES (?, ?, ?, ?)",
			id, img.Filename, img.ContentType, img.Data)
		if err != nil {
			return domain.Occurrence{}, fmt.Errorf("sqlite store: insert image: %w", err)
		}
		imageID, err := res.LastInsertId()
		if err != nil {
			return domain.Occurrence{}, fmt.Errorf("sqlite store: image id: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE occurrences SET image_url = ? WHERE id = ?", imagePath(imageID), id); err != nil {
			return domain.Occurrence{}, fmt.Errorf("sqlite store: link image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Occurrence{}, fmt.Errorf("sqlite store: commit: %w", err)
	}
	return s.Get(ctx, id)
}

// Update applies the non-nil fields of u. Cancelled occurrences are frozen.
func (s *Store) Update(ctx context.Context, id int64, u domain.OccurrenceUpdate) (domain.Occurrence, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Occurrence{}, err
	}
	if current.IsCancelled() {
		return domain.Occurrence{}, fmt.Errorf("sqlite store: occurrence %d: %w", id, ErrAlreadyCancelled)
	}

	sets := []string{"updated_at = ?"}
	args := []any{s.timestamp()}
	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(*u.Title))
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *u.Type)
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*u.Status))
	}
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, "UPDATE occurrences SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return domain.Occurrence{}, fmt.Errorf("sqlite store: update occurrence: %w", err)
	}
	return s.Get(ctx, id)
}

// Cancel sets the occurrence status to cancelled.
func (s *Store) Cancel(ctx context.Context, id int64) (domain.Occurrence, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE occurrences SET status = ?, updated_at = ? WHERE id = ? AND status != ?",
		string(domain.StatusCancelled), s.timestamp(), id, string(domain.StatusCancelled))
	if err != nil {
		return domain.Occurrence{}, fmt.Errorf("sqlite store: cancel occurrence: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Occurrence{}, fmt.Errorf("sqlite store: read rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return domain.Occurrence{}, err
		}
		return domain.Occurrence{}, fmt.Errorf("sqlite store: occurrence %d: %w", id, ErrAlreadyCancelled)
	}
	return s.Get(ctx, id)
}

// AddComment attaches a comment to an existing occurrence.
func (s *Store) AddComment(ctx context.Context, occurrenceID int64, text string) (domain.Comment, error) {
	if _, err := s.Get(ctx, occurrenceID); err != nil {
		return domain.Comment{}, err
	}
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (occurrence_id, text, created_at) VALUES (?, ?, ?)",
		occurrenceID, text, now.Format(time.RFC3339Nano))
	if err != nil {
		return domain.Comment{}, fmt.Errorf("sqlite store: insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Comment{}, fmt.Errorf("sqlite store: comment id: %w", err)
	}
	return domain.Comment{ID: id, OccurrenceID: occurrenceID, Text: text, CreatedAt: now}, nil
}

// Comments lists the comments of an occurrence, oldest first.
func (s *Store) Comments(ctx context.Context, occurrenceID int64) ([]domain.Comment, error) {
	if _, err := s.Get(ctx, occurrenceID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id, text, created_at FROM comments WHERE occurrence_id = ? ORDER BY id", occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: list comments: %w", err)
	}
	defer rows.Close()
	var out []domain.Comment
	for rows.Next() {
		c := domain.Comment{OccurrenceID: occurrenceID}
		var created string
		if err := rows.Scan(&c.ID, &c.Text, &created); err != nil {
			return nil, fmt.Errorf("sqlite store: scan comment: %w", err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Image loads an uploaded image.
func (s *Store) Image(ctx context.Context, id int64) (Image, error) {
	img := Image{ID: id}
	err := s.db.QueryRowContext(ctx, "SELECT occurrence_id, filename, content_type, data FROM images WHERE id = ?", id).
		Scan(&img.OccurrenceID, &img.Filename, &img.ContentType, &img.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return Image{}, fmt.Errorf("sqlite store: image %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Image{}, fmt.Errorf("sqlite store: get image: %w", err)
	}
	return img, nil
}

// Count returns the number of stored occurrences.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM occurrences").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite store: count: %w", err)
	}
	return n, nil
}

func imagePath(id int64) string {
	return fmt.Sprintf("/api/imagens/%d", id)
}
