// This file defines the Note model and repository. Every lookup and
// mutation is filtered by both note id and owner id in a single statement,
// so "does not exist" and "owned by someone else" are the same outcome and
// ownership cannot change between a check and a separate write.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/harshk49/notes-app-backend/internal/logger"
)

// Note represents a note row. Tags are stored as a JSON array in the
// database and marshalled transparently by the repository.
type Note struct {
	ID        uint64    `json:"id"`
	OwnerID   uint64    `json:"ownerId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	IsPinned  bool      `json:"isPinned"`
	CreatedOn time.Time `json:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn"`
}

// NotePatch carries the optional fields of an edit. Nil means "leave
// unchanged"; at least one field must be set before calling Update.
type NotePatch struct {
	Title    *string
	Content  *string
	Tags     *[]string
	IsPinned *bool
}

// Empty reports whether the patch carries no change at all.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil && p.IsPinned == nil
}

type NoteRepo struct{ DB *sql.DB }

func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{DB: db} }

// Create inserts a new note for its owner. On success the ID and timestamp
// fields are populated from the stored row.
func (r *NoteRepo) Create(ctx context.Context, n *Note) error {
	tagsJSON, err := marshalTags(n.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO notes (owner_id, title, content, tags, is_pinned) VALUES (?,?,?,?,?)",
		n.OwnerID, n.Title, n.Content, tagsJSON, n.IsPinned)
	if err != nil {
		logger.Sugar.Errorf("insert note failed: %v", err)
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)

	// Follow-up read to pick up the DB-assigned timestamps.
	stored, err := r.GetByIDAndOwner(ctx, n.ID, n.OwnerID)
	if err != nil {
		return err
	}
	*n = *stored
	return nil
}

// GetByIDAndOwner fetches a note by id, but only when it belongs to the
// given owner. Absent and not-owned both return ErrNoteNotFound.
func (r *NoteRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Note, error) {
	const q = `SELECT id, owner_id, title, content, tags, is_pinned, created_at, updated_at
	           FROM notes WHERE id = ? AND owner_id = ?`
	return r.scanOne(r.DB.QueryRowContext(ctx, q, id, ownerID))
}

// Update applies only the fields present in the patch, in one statement
// scoped by (id, owner_id). ErrNoteNotFound when no row matches.
func (r *NoteRepo) Update(ctx context.Context, id, ownerID uint64, p NotePatch) error {
	if p.Empty() {
		return nil
	}
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if p.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Content != nil {
		set = append(set, "content = ?")
		args = append(args, *p.Content)
	}
	if p.Tags != nil {
		tagsJSON, err := marshalTags(*p.Tags)
		if err != nil {
			return err
		}
		set = append(set, "tags = ?")
		args = append(args, tagsJSON)
	}
	if p.IsPinned != nil {
		set = append(set, "is_pinned = ?")
		args = append(args, *p.IsPinned)
	}
	args = append(args, id, ownerID)

	q := "UPDATE notes SET " + strings.Join(set, ", ") + " WHERE id = ? AND owner_id = ?"
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		logger.Sugar.Errorf("update note %d failed: %v", id, err)
		return err
	}
	// The pool is opened with clientFoundRows, so 0 means no matching row
	// rather than "matched but values unchanged".
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// SetPinned sets the pin flag unconditionally. Setting it to its current
// value is a successful no-op, not an error.
func (r *NoteRepo) SetPinned(ctx context.Context, id, ownerID uint64, pinned bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notes SET is_pinned = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner_id = ?",
		pinned, id, ownerID)
	if err != nil {
		logger.Sugar.Errorf("pin note %d failed: %v", id, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Delete removes a note owned by ownerID.
func (r *NoteRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM notes WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		logger.Sugar.Errorf("delete note %d failed: %v", id, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// ListByOwner returns all notes of one owner, pinned notes first, newest
// first inside each partition, id as the final tiebreaker.
func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Note, error) {
	const q = `SELECT id, owner_id, title, content, tags, is_pinned, created_at, updated_at
	           FROM notes WHERE owner_id = ?
	           ORDER BY is_pinned DESC, created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Search returns the owner's notes whose title or content contains the
// query as a case-insensitive substring. LIKE metacharacters in the query
// are escaped so the match is literal.
func (r *NoteRepo) Search(ctx context.Context, ownerID uint64, query string) ([]*Note, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	const q = `SELECT id, owner_id, title, content, tags, is_pinned, created_at, updated_at
	           FROM notes
	           WHERE owner_id = ? AND (LOWER(title) LIKE ? OR LOWER(content) LIKE ?)
	           ORDER BY is_pinned DESC, created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, q, ownerID, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *NoteRepo) scanOne(row *sql.Row) (*Note, error) {
	var n Note
	var tagsJSON []byte
	err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &tagsJSON, &n.IsPinned, &n.CreatedOn, &n.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	if err := unmarshalTags(tagsJSON, &n.Tags); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepo) scanAll(rows *sql.Rows) ([]*Note, error) {
	out := []*Note{}
	for rows.Next() {
		var n Note
		var tagsJSON []byte
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &tagsJSON, &n.IsPinned, &n.CreatedOn, &n.UpdatedOn); err != nil {
			return nil, err
		}
		if err := unmarshalTags(tagsJSON, &n.Tags); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalTags(raw []byte, into *[]string) error {
	if len(raw) == 0 {
		*into = []string{}
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return err
	}
	if *into == nil {
		*into = []string{}
	}
	return nil
}

// escapeLike escapes the LIKE metacharacters so user input matches
// literally: backslash first, then percent and underscore.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
