package worker

import (
	"context"

	"github.com/agrilink/support-service/internal/events"
	"github.com/agrilink/support-service/internal/service"
)

// StartNotificationWorker registers the notification handlers and, when the
// dispatcher is asynchronous, starts its delivery loop. Events published by
// ticket mutations are consumed here, after the mutation has committed.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()

	if async, ok := dispatcher.(*events.AsyncDispatcher); ok {
		go async.Run(ctx)
	}
}
