package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/agrilink/support-service/internal/domain"
)

func newInboxFixture(t *testing.T) (*InboxService, *fakeNotificationRepo) {
	t.Helper()
	repo := newFakeNotificationRepo()
	return NewInboxService(repo, nil, 0, zap.NewNop()), repo
}

func seedNotification(t *testing.T, repo *fakeNotificationRepo, recipientID string, read bool) *domain.Notification {
	t.Helper()
	sender := "support-1"
	n := &domain.Notification{
		RecipientID:      recipientID,
		SenderID:         &sender,
		SenderName:       "Tunde Okafor",
		SenderRole:       domain.RoleSupport,
		Message:          "Ticket TKT-20260828-10001 has been assigned to you",
		NotificationType: domain.NotificationTypeTicketAssigned,
		IsRead:           read,
	}
	if err := repo.Create(context.Background(), n); err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return n
}

func TestInboxListUnreadOnly(t *testing.T) {
	inbox, repo := newInboxFixture(t)
	seedNotification(t, repo, "user-1", false)
	seedNotification(t, repo, "user-1", true)
	seedNotification(t, repo, "user-2", false)

	all, err := inbox.List(context.Background(), "user-1", false, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}

	unread, err := inbox.ListUnread(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 || unread[0].IsRead {
		t.Errorf("unread = %d", len(unread))
	}
}

func TestInboxUnreadCount(t *testing.T) {
	inbox, repo := newInboxFixture(t)
	seedNotification(t, repo, "user-1", false)
	seedNotification(t, repo, "user-1", false)
	seedNotification(t, repo, "user-1", true)

	count, err := inbox.UnreadCount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	inbox, repo := newInboxFixture(t)
	n := seedNotification(t, repo, "user-1", false)

	if err := inbox.MarkRead(context.Background(), "user-1", n.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	// Second mark and a miss are both silent no-ops.
	if err := inbox.MarkRead(context.Background(), "user-1", n.ID); err != nil {
		t.Errorf("repeat mark read: %v", err)
	}
	if err := inbox.MarkRead(context.Background(), "user-1", "missing"); err != nil {
		t.Errorf("mark read miss: %v", err)
	}

	count, err := inbox.UnreadCount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	inbox, repo := newInboxFixture(t)
	n := seedNotification(t, repo, "user-1", false)

	if err := inbox.MarkRead(context.Background(), "user-2", n.ID); err != nil {
		t.Fatalf("cross-user mark read: %v", err)
	}
	count, _ := inbox.UnreadCount(context.Background(), "user-1")
	if count != 1 {
		t.Errorf("another user's mark-read changed the owner's unread count")
	}
}

func TestMarkAllRead(t *testing.T) {
	inbox, repo := newInboxFixture(t)
	seedNotification(t, repo, "user-1", false)
	seedNotification(t, repo, "user-1", false)
	seedNotification(t, repo, "user-2", false)

	if err := inbox.MarkAllRead(context.Background(), "user-1"); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	count, _ := inbox.UnreadCount(context.Background(), "user-1")
	if count != 0 {
		t.Errorf("user-1 count = %d, want 0", count)
	}
	count, _ = inbox.UnreadCount(context.Background(), "user-2")
	if count != 1 {
		t.Errorf("user-2 count = %d, want 1", count)
	}

	// Repeating the call on an already-clean inbox succeeds and changes nothing.
	if err := inbox.MarkAllRead(context.Background(), "user-1"); err != nil {
		t.Fatalf("repeat mark all read: %v", err)
	}
	count, _ = inbox.UnreadCount(context.Background(), "user-1")
	if count != 0 {
		t.Errorf("user-1 count after repeat = %d, want 0", count)
	}
}

func TestFormatSender(t *testing.T) {
	inbox, _ := newInboxFixture(t)
	endUser := domain.NewRoleSet(domain.RoleEndUser)
	staff := domain.NewRoleSet(domain.RoleSupport)

	cases := []struct {
		name   string
		sender domain.Notification
		viewer domain.RoleSet
		want   string
	}{
		{"system to end user", domain.Notification{}, endUser, "System"},
		{"system to staff", domain.Notification{}, staff, "System"},
		{"staff sender hidden from end user", domain.Notification{SenderName: "Tunde", SenderRole: domain.RoleSupport}, endUser, domain.RoleSupport},
		{"name only hidden from end user", domain.Notification{SenderName: "Tunde"}, endUser, "System"},
		{"full label for staff viewer", domain.Notification{SenderName: "Tunde", SenderRole: domain.RoleSupport}, staff, "Tunde (Support)"},
		{"name only for staff viewer", domain.Notification{SenderName: "Tunde"}, staff, "Tunde"},
		{"role only for staff viewer", domain.Notification{SenderRole: domain.RoleAdmin}, staff, domain.RoleAdmin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := inbox.FormatSender(tc.sender, tc.viewer); got != tc.want {
				t.Errorf("FormatSender = %q, want %q", got, tc.want)
			}
		})
	}
}
