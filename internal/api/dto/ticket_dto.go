package dto

import (
	"time"

	"github.com/agrilink/support-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status          domain.TicketStatus `json:"status"`
	ResolutionNotes string              `json:"resolution_notes"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// ForwardRequest payload. Exactly one of Role and User must be set.
type ForwardRequest struct {
	Role string `json:"role"`
	User string `json:"user"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Comment    string `json:"comment"`
	IsInternal bool   `json:"is_internal"`
}

// TicketResponse summarizes a ticket.
type TicketResponse struct {
	ID              string                `json:"id"`
	TicketNumber    string                `json:"ticket_number"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Category        domain.TicketCategory `json:"category"`
	Priority        domain.TicketPriority `json:"priority"`
	Status          domain.TicketStatus   `json:"status"`
	CreatedBy       string                `json:"created_by"`
	AssignedTo      *string               `json:"assigned_to_support"`
	ForwardedToRole *string               `json:"forwarded_to_role"`
	ForwardedToUser *string               `json:"forwarded_to_user"`
	ResolvedBy      *string               `json:"resolved_by"`
	ResolutionNotes *string               `json:"resolution_notes"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	ResolvedAt      *time.Time            `json:"resolved_at"`
	ClosedAt        *time.Time            `json:"closed_at"`
}

// TicketDetailResponse includes the comment thread and audit history.
type TicketDetailResponse struct {
	TicketResponse
	Comments []TicketCommentResponse `json:"comments"`
	History  []TicketHistoryResponse `json:"history"`
}

// TicketListResponse wraps a page of tickets.
type TicketListResponse struct {
	Count   int64            `json:"count"`
	Results []TicketResponse `json:"results"`
}

// TicketCommentResponse represents a thread comment.
type TicketCommentResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"user"`
	Comment    string    `json:"comment"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TicketHistoryResponse represents an audit entry.
type TicketHistoryResponse struct {
	ID          string    `json:"id"`
	ActorID     *string   `json:"user"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	OldValue    *string   `json:"old_value"`
	NewValue    *string   `json:"new_value"`
	CreatedAt   time.Time `json:"created_at"`
}

// TicketStatsResponse summarizes the support dashboard counters.
type TicketStatsResponse struct {
	Total           int64   `json:"total"`
	OpenTickets     int64   `json:"open_tickets"`
	Assigned        int64   `json:"assigned"`
	InProgress      int64   `json:"in_progress"`
	Resolved        int64   `json:"resolved"`
	Closed          int64   `json:"closed"`
	Unassigned      int64   `json:"unassigned"`
	AssignedToMe    int64   `json:"assigned_to_me"`
	Urgent          int64   `json:"urgent"`
	High            int64   `json:"high"`
	AvgResponseTime float64 `json:"avg_response_time"`
}
