package dto

import "time"

// NotificationResponse represents an inbox entry. Sender is already
// formatted for the viewer's role.
type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"notification_type"`
	Message   string         `json:"message"`
	Sender    string         `json:"sender"`
	IsRead    bool           `json:"is_read"`
	Tags      map[string]any `json:"tags"`
	CreatedAt time.Time      `json:"created_at"`
}

// NotificationListResponse wraps a page of notifications.
type NotificationListResponse struct {
	Results []NotificationResponse `json:"results"`
}

// UnreadCountResponse carries the unread badge counter.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
