// Package repository contains the data access layer. This file defines
// sentinel errors shared across repositories so handlers can map failure
// modes to HTTP responses without inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when registration collides with an existing
// account. The users table enforces this with a unique index, so the check
// holds even when two registrations race.
var ErrEmailExists = errors.New("email already exists")

// ErrNoteNotFound is returned when a note lookup or mutation matches no row.
// A note that exists but belongs to a different owner produces exactly this
// error; callers must not be able to tell the two cases apart.
var ErrNoteNotFound = errors.New("note not found")
