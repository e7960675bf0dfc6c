package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrilink/support-service/internal/api/dto"
	"github.com/agrilink/support-service/internal/auth"
	"github.com/agrilink/support-service/internal/domain"
	"github.com/agrilink/support-service/internal/service"
	apperrors "github.com/agrilink/support-service/pkg/util"
)

// NotificationsHandler exposes the per-user inbox.
type NotificationsHandler struct {
	inbox *service.InboxService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(inbox *service.InboxService) *NotificationsHandler {
	return &NotificationsHandler{inbox: inbox}
}

// ListNotifications GET /notifications.
func (h *NotificationsHandler) ListNotifications(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	unreadOnly := c.Query("unread_only") == "true"
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	items, err := h.inbox.List(c.Context(), principal.User.ID, unreadOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NotificationListResponse{
		Results: h.notificationResponses(items, principal.Roles),
	}})
}

// UnreadCount GET /notifications/unread_count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	count, err := h.inbox.UnreadCount(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UnreadCountResponse{Count: count}})
}

// MarkRead POST /notifications/:id/mark_read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.inbox.MarkRead(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "ok"}})
}

// MarkAllRead POST /notifications/mark_all_read.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.inbox.MarkAllRead(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "ok"}})
}

func (h *NotificationsHandler) notificationResponses(items []domain.Notification, viewer domain.RoleSet) []dto.NotificationResponse {
	resp := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.NotificationType,
			Message:   n.Message,
			Sender:    h.inbox.FormatSender(n, viewer),
			IsRead:    n.IsRead,
			Tags:      n.Tags,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp
}
