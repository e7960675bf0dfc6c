package events

import (
	"time"

	"github.com/agrilink/support-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketAssigned      EventType = "ticket.assigned"
	EventTicketStatusChanged EventType = "ticket.status_changed"
	EventTicketForwarded     EventType = "ticket.forwarded"
	EventTicketCommented     EventType = "ticket.commented"
)

// Actor is the acting user captured at publish time. Name and Role are
// denormalized snapshots so notification rendering stays historically accurate
// if the user's roles change later. A nil ID means a system action.
type Actor struct {
	ID   *string `json:"id,omitempty"`
	Name string  `json:"name"`
	Role string  `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketNumber string `json:"ticket_number"`
	AssigneeID   string `json:"assignee_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketNumber string              `json:"ticket_number"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	CreatorID    string              `json:"creator_id"`
	AssigneeID   *string             `json:"assignee_id,omitempty"`
}

// TicketForwardedPayload payload. Exactly one of Role and UserID is set.
type TicketForwardedPayload struct {
	TicketNumber string  `json:"ticket_number"`
	Role         *string `json:"role,omitempty"`
	UserID       *string `json:"user_id,omitempty"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	TicketNumber string  `json:"ticket_number"`
	CommentID    string  `json:"comment_id"`
	IsInternal   bool    `json:"is_internal"`
	CreatorID    string  `json:"creator_id"`
	AssigneeID   *string `json:"assignee_id,omitempty"`
}
