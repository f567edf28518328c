package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harshk49/notes-app-backend/internal/queue"
	"github.com/harshk49/notes-app-backend/internal/repository"
	queue_publisher "github.com/harshk49/notes-app-backend/internal/service"
)

// NoteHandler bundles the note repository and the broker address for the
// note endpoints. Every operation takes its owner id from the auth
// middleware binding and passes it into ownership-scoped repository calls.
type NoteHandler struct {
	Notes   *repository.NoteRepo
	AMQPURL string
}

func NewNoteHandler(notes *repository.NoteRepo, amqpURL string) *NoteHandler {
	if notes == nil {
		panic("nil repository passed to NewNoteHandler")
	}
	return &NoteHandler{Notes: notes, AMQPURL: amqpURL}
}

type addNoteReq struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// editNoteReq distinguishes absent fields from zero values with pointers;
// only the fields present in the body are applied.
type editNoteReq struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	IsPinned *bool     `json:"isPinned"`
}

type pinNoteReq struct {
	IsPinned bool `json:"isPinned"`
}

// AddNote handles POST /add-note.
func (h *NoteHandler) AddNote(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, true, "unauthorized", nil)
	}
	var req addNoteReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" {
		return badRequest(c, "Title is required")
	}
	if req.Content == "" {
		return badRequest(c, "Content is required")
	}

	note := &repository.Note{
		OwnerID: uid,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if err := h.Notes.Create(c.Request().Context(), note); err != nil {
		return internalError(c)
	}

	h.publishActivity(note, "created")
	return respond(c, http.StatusOK, false, "Note added successfully", echo.Map{"note": note})
}

// EditNote handles PUT /edit-note/:noteId. The patch must carry at least
// one recognized field; the update itself runs as a single statement
// filtered by note id and owner id.
func (h *NoteHandler) EditNote(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, true, "unauthorized", nil)
	}
	noteID, err := parseNoteID(c)
	if err != nil {
		return badRequest(c, "invalid note id")
	}
	var req editNoteReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	patch := repository.NotePatch{Tags: req.Tags, IsPinned: req.IsPinned}
	if req.Title != nil {
		if t := strings.TrimSpace(*req.Title); t != "" {
			patch.Title = &t
		}
	}
	if req.Content != nil {
		if ct := strings.TrimSpace(*req.Content); ct != "" {
			patch.Content = &ct
		}
	}
	if patch.Empty() {
		return badRequest(c, "No changes provided")
	}

	ctx := c.Request().Context()
	if err := h.Notes.Update(ctx, noteID, uid, patch); err != nil {
		if err == repository.ErrNoteNotFound {
			return respond(c, http.StatusNotFound, true, "Note not found", nil)
		}
		return internalError(c)
	}
	note, err := h.Notes.GetByIDAndOwner(ctx, noteID, uid)
	if err != nil {
		if err == repository.ErrNoteNotFound {
			return respond(c, http.StatusNotFound, true, "Note not found", nil)
		}
		return internalError(c)
	}

	h.publishActivity(note, "updated")
	return respond(c, http.StatusOK, false, "Note updated successfully", echo.Map{"note": note})
}

// GetAllNotes handles GET /get-all-notes, pinned notes first.
func (h *NoteHandler) GetAllNotes(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, true, "unauthorized", nil)
	}
	notes, err := h.Notes.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return internalError(c)
	}
	return respond(c, http.StatusOK, false, "All notes retrieved successfully", echo.Map{"notes": notes})
}

// DeleteNote handles DELETE /delete-note/:noteId.
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, true, "unauthorized", nil)
	}
	noteID, err := parseNoteID(c)
	if err != nil {
		return badRequest(c, "invalid note id")
	}

	ctx := c.Request().Context()
	// Fetch first so the activity event can carry the title; the delete
	// itself is still scoped by owner.
	note, err := h.Notes.GetByIDAndOwner(ctx, noteID, uid)
	if err != nil {
		if err == repository.ErrNoteNotFound {
			return respond(c, http.StatusNotFound, true, "Note not found", nil)
		}
		return internalError(c)
	}
	if err := h.Notes.Delete(ctx, noteID, uid); err != nil {
		if err == repository.ErrNoteNotFound {
			return respond(c, http.StatusNotFound, true, "Note not found", nil)
		}
		return internalError(c)
	}

	h.publishActivity(note, "deleted")
	return respond(c, http.StatusOK, false, "Note deleted successfully", nil)
}

// UpdateNotePinned handles PUT /update-note-pinned/:noteId. Setting the
// flag to its current value succeeds; the operation is idempotent.
func (h *NoteHandler) UpdateNotePinned(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, true, "unauthorized", nil)
	}
	noteID, err := parseNoteID(c)
	if err != nil {
		return badRequest(c, "invalid note id")
	}
	var req pinNoteReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx := c.Request().Context()
	if err := h.Notes.SetPinned(ctx, noteID, uid, req.IsPinned); err != nil {
		if err == repository.ErrNoteNotFound {
			return respond(c, http.StatusNotFound, true, "Note not found", nil)
		}
		return internalError(c)
	}
	note, err := h.Notes.GetByIDAndOwner(ctx, noteID, uid)
	if err != nil {
		if err == repository.ErrNoteNotFound {
			return respond(c, http.StatusNotFound, true, "Note not found", nil)
		}
		return internalError(c)
	}

	action := "unpinned"
	if req.IsPinned {
		action = "pinned"
	}
	h.publishActivity(note, action)
	return respond(c, http.StatusOK, false, "Note updated successfully", echo.Map{"note": note})
}

// SearchNotes handles GET /search-notes?query=...
func (h *NoteHandler) SearchNotes(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, true, "unauthorized", nil)
	}
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return badRequest(c, "Search query is required")
	}
	notes, err := h.Notes.Search(c.Request().Context(), uid, query)
	if err != nil {
		return internalError(c)
	}
	return respond(c, http.StatusOK, false, "Notes matching the search query retrieved successfully", echo.Map{"notes": notes})
}

func parseNoteID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("noteId"), 10, 64)
}

// publishActivity emits a best-effort activity event. It runs in its own
// goroutine with a fresh context so a slow or absent broker never delays
// the HTTP response.
func (h *NoteHandler) publishActivity(note *repository.Note, action string) {
	if h.AMQPURL == "" {
		return
	}
	ev := queue.NoteActivityEvent{
		NoteID:     note.ID,
		OwnerID:    note.OwnerID,
		Action:     action,
		Title:      note.Title,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishNoteActivity(ctx, h.AMQPURL, ev)
	}()
}
