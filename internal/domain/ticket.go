package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketCategory classifies the subject area of a ticket.
type TicketCategory string

const (
	TicketCategoryCrop          TicketCategory = "crop"
	TicketCategoryTransaction   TicketCategory = "transaction"
	TicketCategoryAnalysis      TicketCategory = "analysis"
	TicketCategorySoftwareIssue TicketCategory = "software_issue"
	TicketCategoryTechnical     TicketCategory = "technical"
	TicketCategoryGeneral       TicketCategory = "general"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusAssigned, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c TicketCategory) bool {
	switch c {
	case TicketCategoryCrop, TicketCategoryTransaction, TicketCategoryAnalysis,
		TicketCategorySoftwareIssue, TicketCategoryTechnical, TicketCategoryGeneral:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// statusTransitions is the full lifecycle state machine. Any edge not listed
// here is rejected with an invalid-transition error.
var statusTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusAssigned, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed},
	TicketStatusAssigned:   {TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed, TicketStatusOpen},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusClosed, TicketStatusAssigned},
	TicketStatusResolved:   {TicketStatusClosed, TicketStatusOpen},
	TicketStatusClosed:     {TicketStatusOpen},
}

// CanTransition reports whether the lifecycle permits moving from current to next.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range statusTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsReopen reports whether the edge is a reopen of a settled ticket. Reopens
// are the only transitions a ticket's creator may perform.
func IsReopen(current, next TicketStatus) bool {
	return next == TicketStatusOpen &&
		(current == TicketStatusResolved || current == TicketStatusClosed)
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID              string
	TicketNumber    string
	Title           string
	Description     string
	Category        TicketCategory
	Priority        TicketPriority
	Status          TicketStatus
	CreatedBy       string
	AssignedTo      *string
	ForwardedToRole *string
	ForwardedToUser *string
	ResolvedBy      *string
	ResolutionNotes *string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time
}
