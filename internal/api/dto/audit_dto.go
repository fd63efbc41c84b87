package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// AuditLogResponse is one audit trail record.
type AuditLogResponse struct {
	ID          string         `json:"id"`
	SubjectKind string         `json:"subject_kind"`
	SubjectID   string         `json:"subject_id"`
	ActorID     string         `json:"actor_id"`
	Action      string         `json:"action"`
	Payload     map[string]any `json:"payload"`
	PerformedAt time.Time      `json:"performed_at"`
}

// NewAuditLogResponses maps audit entries.
func NewAuditLogResponses(entries []domain.AuditLogEntry) []AuditLogResponse {
	return lo.Map(entries, func(e domain.AuditLogEntry, _ int) AuditLogResponse {
		return AuditLogResponse{
			ID:          e.ID,
			SubjectKind: string(e.SubjectKind),
			SubjectID:   e.SubjectID,
			ActorID:     e.ActorID,
			Action:      e.Action,
			Payload:     e.Payload,
			PerformedAt: e.PerformedAt,
		}
	})
}
