package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agrilink/support-service/internal/domain"
	"github.com/agrilink/support-service/internal/repository"
	apperrors "github.com/agrilink/support-service/pkg/util"
)

const unreadCachePrefix = "inbox:unread:"

// InboxService is the read-oriented view over stored notifications: unread
// counts, previews and mark-read operations. Unread counts are cached in
// Redis read-through; every mark-read write invalidates the cache before
// returning so the same caller's next read observes the write.
type InboxService struct {
	notifications repository.NotificationRepository
	cache         *redis.Client
	cacheTTL      time.Duration
	logger        *zap.Logger
}

// NewInboxService constructs the service. A nil Redis client disables caching.
func NewInboxService(notifications repository.NotificationRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *InboxService {
	return &InboxService{
		notifications: notifications,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// List returns notifications for the user, newest first.
func (s *InboxService) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	items, err := s.notifications.ListByRecipient(ctx, userID, repository.NotificationFilter{
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ListUnread returns up to limit unread notifications, newest first.
func (s *InboxService) ListUnread(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	return s.List(ctx, userID, true, limit, 0)
}

// UnreadCount returns the number of unread notifications for the user.
func (s *InboxService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, unreadCachePrefix+userID).Result()
		if err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		}
	}

	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, unreadCachePrefix+userID, count, s.cacheTTL).Err(); err != nil {
			s.logger.Debug("unread count cache write failed", zap.Error(err))
		}
	}
	return count, nil
}

// MarkRead marks one notification read. It is idempotent and fails silently
// when the notification is already read, missing, or owned by someone else,
// to tolerate races with MarkAllRead.
func (s *InboxService) MarkRead(ctx context.Context, userID, notificationID string) error {
	changed, err := s.notifications.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if changed {
		s.invalidateUnreadCount(ctx, userID)
	}
	return nil
}

// MarkAllRead marks every unread notification for the user in one step.
func (s *InboxService) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	s.invalidateUnreadCount(ctx, userID)
	return nil
}

// FormatSender renders the sender label for a viewer. Viewers holding the
// end-user role only ever see the sender's captured role, never the name, so
// staff identities stay anonymous toward end users. The rule is evaluated
// per-viewer at render time.
func (s *InboxService) FormatSender(n domain.Notification, viewer domain.RoleSet) string {
	if n.SenderName == "" && n.SenderRole == "" {
		return "System"
	}
	if viewer.Has(domain.RoleEndUser) {
		if n.SenderRole != "" {
			return n.SenderRole
		}
		return "System"
	}
	if n.SenderName != "" && n.SenderRole != "" {
		return fmt.Sprintf("%s (%s)", n.SenderName, n.SenderRole)
	}
	if n.SenderName != "" {
		return n.SenderName
	}
	return n.SenderRole
}

func (s *InboxService) invalidateUnreadCount(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, unreadCachePrefix+userID).Err(); err != nil {
		s.logger.Debug("unread count cache invalidation failed", zap.Error(err))
	}
}
