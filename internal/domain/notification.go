package domain

import "time"

// Notification types produced by the dispatcher.
const (
	NotificationTypeTicketAssigned  = "ticket_assigned"
	NotificationTypeTicketStatus    = "ticket_status"
	NotificationTypeTicketForwarded = "ticket_forwarded"
	NotificationTypeTicketComment   = "ticket_comment"
)

// Notification is a per-recipient record of a platform event. SenderName and
// SenderRole are captured at send time rather than joined live, so historical
// notifications stay stable when a sender's role later changes. A nil SenderID
// means the notification is system-generated.
type Notification struct {
	ID               string
	RecipientID      string
	SenderID         *string
	SenderName       string
	SenderRole       string
	Message          string
	NotificationType string
	Tags             map[string]any
	IsRead           bool
	CreatedAt        time.Time
}
