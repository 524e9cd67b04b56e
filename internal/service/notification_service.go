package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/hospital-helpdesk/helpdesk-service/internal/config"
	"github.com/hospital-helpdesk/helpdesk-service/internal/events"
)

// NotificationService forwards domain events to the configured sinks: the
// structured log always, a Slack webhook when one is set. Email remains a
// stub pending an SMTP relay in the hospital network.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	postSlack  func(url string, msg *slack.WebhookMessage) error
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		postSlack:  slack.PostWebhook,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketCommented, n.handleTicketCommented)
	n.dispatcher.Subscribe(events.EventTicketComplained, n.handleTicketComplained)
	n.dispatcher.Subscribe(events.EventTicketClosed, n.handleTicketClosed)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logEvent("TicketCreated", event)
	n.sendEmailStub(event)
	return n.sendSlack(event, fmt.Sprintf("New ticket %s opened", event.TicketNumber))
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	n.logEvent("TicketStatusChanged", event)
	return n.sendSlack(event, fmt.Sprintf("Ticket %s changed status", event.TicketNumber))
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	n.logEvent("TicketAssigned", event)
	return n.sendSlack(event, fmt.Sprintf("Ticket %s (re)assigned", event.TicketNumber))
}

func (n *NotificationService) handleTicketCommented(ctx context.Context, event events.Event) error {
	n.logEvent("TicketCommented", event)
	n.sendEmailStub(event)
	return nil
}

func (n *NotificationService) handleTicketComplained(ctx context.Context, event events.Event) error {
	n.logEvent("TicketComplained", event)
	return n.sendSlack(event, fmt.Sprintf("Ticket %s reopened after requester complaint", event.TicketNumber))
}

func (n *NotificationService) handleTicketClosed(ctx context.Context, event events.Event) error {
	n.logEvent("TicketClosed", event)
	return n.sendSlack(event, fmt.Sprintf("Ticket %s closed", event.TicketNumber))
}

func (n *NotificationService) logEvent(name string, event events.Event) {
	n.logger.Info(name,
		zap.Int64("ticket_id", event.TicketID),
		zap.String("number", event.TicketNumber),
		zap.Int64("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))
}

func (n *NotificationService) sendSlack(event events.Event, text string) error {
	url := strings.TrimSpace(n.cfg.SlackWebhookURL)
	if url == "" {
		return nil
	}
	msg := &slack.WebhookMessage{Text: text}
	if err := n.postSlack(url, msg); err != nil {
		// notification failures never fail the originating transition
		n.logger.Warn("slack webhook failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

func (n *NotificationService) sendEmailStub(event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification stub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
