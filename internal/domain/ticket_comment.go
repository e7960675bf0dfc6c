package domain

import "time"

// TicketComment captures a reply or note on a ticket thread. Internal comments
// are visible only to staff, never to the ticket's creator.
type TicketComment struct {
	ID         string
	TicketID   string
	AuthorID   string
	Comment    string
	IsInternal bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
