package sdk

import "github.com/dohr-michael/ozzie-core/internal/undo"

// UndoAPI exposes the Undo Log operations (spec §4.9/§4.10).
type UndoAPI struct {
	log *undo.Log
}

// CanUndo reports whether any undo entry is available.
func (u *UndoAPI) CanUndo() bool {
	return u.log.CanUndo()
}

// Undo pops the most recent entry, invokes its thunk, and emits `undo`.
func (u *UndoAPI) Undo() bool {
	return u.log.Undo()
}

// UndoByID extracts and invokes the matching entry regardless of position.
func (u *UndoAPI) UndoByID(id string) bool {
	return u.log.UndoByID(id)
}

// GetHistory returns up to limit entries, most recent first. limit <= 0
// returns the full history.
func (u *UndoAPI) GetHistory(limit int) []undo.Entry {
	return u.log.GetHistory(limit)
}
