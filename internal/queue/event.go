// Package queue defines message payloads exchanged over the message broker.
package queue

// NoteActivityEvent is published after a note is created, edited, pinned or
// deleted. It carries enough information for downstream consumers to log or
// trigger notifications without querying the primary database.
type NoteActivityEvent struct {
	NoteID     uint64 `json:"note_id"`
	OwnerID    uint64 `json:"owner_id"`
	Action     string `json:"action"` // created | updated | pinned | unpinned | deleted
	Title      string `json:"title"`
	OccurredAt string `json:"occurred_at"`
}
