package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/frontdesk-service/internal/config"
	"github.com/spec-kit/frontdesk-service/internal/events"
)

// ChannelPublisher publishes a notification message to a named channel.
// The redis client satisfies this through persistence.Redis.
type ChannelPublisher interface {
	PublishMessage(ctx context.Context, channel, message string) error
}

// NotificationService relays domain events to the supervisor and caller
// channels. Delivery is best-effort: failures are logged and never surfaced
// to the operation that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  ChannelPublisher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, publisher ChannelPublisher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestEscalated, n.handleRequestEscalated)
	n.dispatcher.Subscribe(events.EventRequestResolved, n.handleRequestResolved)
	n.dispatcher.Subscribe(events.EventRequestExpired, n.handleRequestExpired)
}

func (n *NotificationService) handleRequestEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestEscalatedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Hey, I need help answering: %q (request id: %s)", payload.Question, event.RequestID)
	n.logger.Info("notify supervisor",
		zap.String("request_id", event.RequestID),
		zap.String("question", payload.Question))
	n.send(ctx, n.cfg.SupervisorChannel, message)
	return nil
}

func (n *NotificationService) handleRequestResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestResolvedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Hi, my supervisor says: %s (request id: %s)", payload.Answer, event.RequestID)
	n.logger.Info("notify caller",
		zap.String("request_id", event.RequestID),
		zap.Stringp("caller_id", payload.CallerID))
	n.send(ctx, n.callerChannel(payload.CallerID), message)
	return nil
}

func (n *NotificationService) handleRequestExpired(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestExpiredPayload)
	if !ok {
		return nil
	}
	n.logger.Info("requests expired without supervisor answer",
		zap.Int64("count", payload.ExpiredCount))
	return nil
}

func (n *NotificationService) callerChannel(callerID *string) string {
	if callerID == nil || *callerID == "" {
		return n.cfg.CallerChannelBase
	}
	return n.cfg.CallerChannelBase + ":" + *callerID
}

func (n *NotificationService) send(ctx context.Context, channel, message string) {
	if n.publisher == nil {
		return
	}
	if err := n.publisher.PublishMessage(ctx, channel, message); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("channel", channel),
			zap.Error(err))
	}
}
