package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
)

// NotificationService emits best-effort notifications for committed events.
// It runs strictly after commit and outside the transaction: a notification
// failure can never roll back the mutation it describes.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{logger: logger, cfg: cfg}
}

// notifiedEvents lists the event types worth telling people about.
var notifiedEvents = map[domain.EventType]bool{
	domain.EventTicketCreated:       true,
	domain.EventTicketStatusChanged: true,
	domain.EventTicketAssigned:      true,
	domain.EventMilestoneCompleted:  true,
}

// Notify processes one committed event.
func (n *NotificationService) Notify(event domain.Event) {
	if !notifiedEvents[event.Type] {
		return
	}
	n.logger.Info("notification",
		zap.String("event_type", string(event.Type)),
		zap.String("subject_kind", string(event.SubjectKind)),
		zap.String("subject_id", event.SubjectID),
	)
	n.sendEmailStub(event)
	n.sendWebhookStub(event)
}

func (n *NotificationService) sendEmailStub(event domain.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookStub(event domain.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
