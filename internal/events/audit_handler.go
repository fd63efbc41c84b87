package events

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// auditActions maps event types to audit action labels.
var auditActions = map[domain.EventType]string{
	domain.EventTicketCreated:        "created",
	domain.EventTicketUpdated:        "updated",
	domain.EventTicketStatusChanged:  "status_changed",
	domain.EventTicketAssigned:       "assigned",
	domain.EventTicketDeleted:        "deleted",
	domain.EventMilestoneAdded:       "milestone_added",
	domain.EventMilestoneCompleted:   "milestone_completed",
	domain.EventAttachmentAdded:      "attachment_added",
	domain.EventUserCreated:          "created",
	domain.EventUserUpdated:          "updated",
	domain.EventUserRoleChanged:      "role_changed",
	domain.EventUserDeleted:          "deleted",
	domain.EventDatasetCreated:       "created",
	domain.EventDatasetUpdated:       "updated",
	domain.EventDatasetStatusChanged: "status_changed",
	domain.EventDatasetDeleted:       "deleted",
}

// AuditHandler turns domain events into audit log entries. Writes go through
// the transaction-scoped repository, so an audit entry is never observable
// without the mutation that produced it.
type AuditHandler struct {
	logger *zap.Logger
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(logger *zap.Logger) *AuditHandler {
	return &AuditHandler{logger: logger}
}

// Handle appends one audit entry for the event.
func (h *AuditHandler) Handle(ctx context.Context, tx repository.Tx, event domain.Event) error {
	action, ok := auditActions[event.Type]
	if !ok {
		return fmt.Errorf("no audit action for event type %q", event.Type)
	}

	entry := &domain.AuditLogEntry{
		SubjectKind: event.SubjectKind,
		SubjectID:   event.SubjectID,
		ActorID:     event.ActorID,
		Action:      action,
		Payload:     payloadSnapshot(event.Payload),
		PerformedAt: event.OccurredAt,
	}
	if err := tx.AuditLogs().Append(ctx, entry); err != nil {
		return err
	}

	h.logger.Info("audit entry recorded",
		zap.String("subject_kind", string(entry.SubjectKind)),
		zap.String("subject_id", entry.SubjectID),
		zap.String("action", entry.Action),
		zap.String("actor_id", entry.ActorID),
	)
	return nil
}

// Register subscribes the handler to every audited event type.
func (h *AuditHandler) Register(d Dispatcher) {
	for eventType := range auditActions {
		d.Subscribe(eventType, h.Handle)
	}
}

// payloadSnapshot flattens a typed event payload into the JSONB map stored on
// the audit row.
func payloadSnapshot(payload any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return map[string]any{}
	}
	snapshot := map[string]any{}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return map[string]any{}
	}
	return snapshot
}
