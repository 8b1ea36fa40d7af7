package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/club-service/internal/config"
	"github.com/spec-kit/club-service/internal/events"
	"github.com/spec-kit/club-service/internal/mail"
	"github.com/spec-kit/club-service/internal/repository"
)

// NotificationService reacts to domain events with mail and webhook
// notifications. Failures here are logged and never propagate back into the
// operation that triggered the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	accounts   repository.AccountRepository
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, accounts repository.AccountRepository, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		accounts:   accounts,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountVerified, n.handleAccountVerified)
	n.dispatcher.Subscribe(events.EventMemberJoined, n.handleMemberJoined)
	n.dispatcher.Subscribe(events.EventEventPublished, n.handleEventPublished)
	n.dispatcher.Subscribe(events.EventEventCancelled, n.handleEventCancelled)
}

func (n *NotificationService) handleAccountVerified(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountVerifiedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("AccountVerified", zap.String("account_id", event.AccountID))

	body := "Your email address is verified. Welcome aboard!"
	if err := n.mailer.Send(ctx, payload.Email, "Welcome", body); err != nil {
		n.logger.Warn("welcome mail failed", zap.Error(err))
	}
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) handleMemberJoined(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MembershipPayload)
	if !ok {
		return nil
	}
	n.logger.Info("MemberJoined",
		zap.String("account_id", event.AccountID),
		zap.String("club_id", payload.ClubID))

	account, err := n.accounts.GetByID(ctx, event.AccountID)
	if err != nil {
		n.logger.Warn("member lookup failed", zap.Error(err))
		return nil
	}
	body := fmt.Sprintf("Hi %s,\n\nYou are now a member of %s.\n", account.Name, payload.ClubName)
	if err := n.mailer.Send(ctx, account.Email, "Membership confirmed", body); err != nil {
		n.logger.Warn("membership mail failed", zap.Error(err))
	}
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) handleEventPublished(_ context.Context, event events.Event) error {
	n.logger.Info("EventPublished", zap.Any("payload", event.Payload))
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) handleEventCancelled(_ context.Context, event events.Event) error {
	n.logger.Info("EventCancelled", zap.Any("payload", event.Payload))
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) sendWebhook(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
