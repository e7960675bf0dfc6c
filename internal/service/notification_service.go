package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agrilink/support-service/internal/domain"
	"github.com/agrilink/support-service/internal/events"
	"github.com/agrilink/support-service/internal/observability"
	"github.com/agrilink/support-service/internal/repository"
)

// NotificationService consumes ticket events and persists one Notification
// per recipient. Delivery is best-effort: a failure (e.g. a recipient lookup
// miss) is logged and skipped, never retried, and never surfaces to the
// mutation that produced the event.
type NotificationService struct {
	dispatcher    events.Dispatcher
	notifications repository.NotificationRepository
	identity      *IdentityService
	logger        *zap.Logger
	metrics       *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifications repository.NotificationRepository, identity *IdentityService, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	return &NotificationService{
		dispatcher:    dispatcher,
		notifications: notifications,
		identity:      identity,
		logger:        logger,
		metrics:       metrics,
	}
}

// RegisterHandlers subscribes to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketForwarded, n.handleTicketForwarded)
	n.dispatcher.Subscribe(events.EventTicketCommented, n.handleTicketCommented)
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	message := fmt.Sprintf("Ticket %s has been assigned to you", payload.TicketNumber)
	n.deliver(ctx, event, []string{payload.AssigneeID}, message, domain.NotificationTypeTicketAssigned, map[string]any{
		"ticket_id":     event.TicketID,
		"ticket_number": payload.TicketNumber,
	})
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}

	recipients := []string{payload.CreatorID}
	settled := payload.NewStatus == domain.TicketStatusResolved || payload.NewStatus == domain.TicketStatusClosed
	if settled && payload.AssigneeID != nil && !isActor(event, *payload.AssigneeID) && *payload.AssigneeID != payload.CreatorID {
		recipients = append(recipients, *payload.AssigneeID)
	}

	message := fmt.Sprintf("Ticket %s status changed from %s to %s",
		payload.TicketNumber, payload.OldStatus, payload.NewStatus)
	n.deliver(ctx, event, recipients, message, domain.NotificationTypeTicketStatus, map[string]any{
		"ticket_id":     event.TicketID,
		"ticket_number": payload.TicketNumber,
		"old_status":    string(payload.OldStatus),
		"new_status":    string(payload.NewStatus),
	})
	return nil
}

func (n *NotificationService) handleTicketForwarded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketForwardedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}

	tags := map[string]any{
		"ticket_id":     event.TicketID,
		"ticket_number": payload.TicketNumber,
	}

	if payload.UserID != nil {
		message := fmt.Sprintf("Ticket %s has been forwarded to you", payload.TicketNumber)
		n.deliver(ctx, event, []string{*payload.UserID}, message, domain.NotificationTypeTicketForwarded, tags)
		return nil
	}

	if payload.Role == nil {
		return nil
	}
	members, err := n.identity.UsersInRole(ctx, *payload.Role)
	if err != nil {
		n.logger.Warn("forward fan-out: role lookup failed",
			zap.String("role", *payload.Role), zap.Error(err))
		return nil
	}
	tags["forwarded_to_role"] = *payload.Role

	recipients := make([]string, 0, len(members))
	for _, member := range members {
		recipients = append(recipients, member.ID)
	}
	message := fmt.Sprintf("Ticket %s has been forwarded to the %s team", payload.TicketNumber, *payload.Role)
	n.deliver(ctx, event, recipients, message, domain.NotificationTypeTicketForwarded, tags)
	return nil
}

func (n *NotificationService) handleTicketCommented(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCommentedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}

	var recipients []string
	if isActor(event, payload.CreatorID) {
		// Creator commented: let the assigned staff know.
		if payload.AssigneeID != nil {
			recipients = append(recipients, *payload.AssigneeID)
		}
	} else if !payload.IsInternal {
		// Staff commented: the creator hears about it unless the comment
		// is internal.
		recipients = append(recipients, payload.CreatorID)
	}

	message := fmt.Sprintf("New comment on ticket %s", payload.TicketNumber)
	n.deliver(ctx, event, recipients, message, domain.NotificationTypeTicketComment, map[string]any{
		"ticket_id":     event.TicketID,
		"ticket_number": payload.TicketNumber,
		"comment_id":    payload.CommentID,
	})
	return nil
}

// deliver persists one notification per recipient, capturing the sender's
// name and role from the event actor. Individual failures are logged and
// skipped.
func (n *NotificationService) deliver(ctx context.Context, event events.Event, recipients []string, message, notificationType string, tags map[string]any) {
	delivered := 0
	for _, recipient := range recipients {
		if recipient == "" {
			continue
		}
		notification := &domain.Notification{
			RecipientID:      recipient,
			SenderID:         event.Actor.ID,
			SenderName:       event.Actor.Name,
			SenderRole:       event.Actor.Role,
			Message:          message,
			NotificationType: notificationType,
			Tags:             tags,
		}
		if err := n.notifications.Create(ctx, notification); err != nil {
			n.logger.Warn("notification delivery failed",
				zap.String("recipient_id", recipient),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
			continue
		}
		delivered++
	}
	n.metrics.RecordDispatch(string(event.Type), delivered)
}

func isActor(event events.Event, userID string) bool {
	return event.Actor.ID != nil && *event.Actor.ID == userID
}
