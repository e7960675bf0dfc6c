package domain

import "time"

// Action labels recorded in ticket history entries.
const (
	ActionCreated       = "created"
	ActionAssigned      = "assigned"
	ActionStatusChanged = "status_changed"
	ActionForwarded     = "forwarded"
	ActionCommented     = "commented"
)

// TicketHistory is an immutable audit trail entry. ActorID is nil for
// system-generated entries. Entries are append-only and never mutated.
type TicketHistory struct {
	ID          string
	TicketID    string
	ActorID     *string
	Action      string
	Description string
	OldValue    *string
	NewValue    *string
	CreatedAt   time.Time
}
