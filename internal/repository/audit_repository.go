package repository

import (
	"context"
	"encoding/json"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// AuditLogRepository persists the append-only audit trail. Append is the only
// write path; entries are never updated or deleted.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *domain.AuditLogEntry) error
	ListBySubject(ctx context.Context, kind domain.ResourceKind, subjectID string, limit, offset int) ([]domain.AuditLogEntry, error)
}

type auditLogRepository struct {
	q Querier
}

// NewAuditLogRepository instantiates the repository over a pool or transaction.
func NewAuditLogRepository(q Querier) AuditLogRepository {
	return &auditLogRepository{q: q}
}

func (r *auditLogRepository) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO audit_logs (subject_kind, subject_id, actor_id, action, payload)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, performed_at`
	return r.q.QueryRow(ctx, query,
		entry.SubjectKind,
		entry.SubjectID,
		entry.ActorID,
		entry.Action,
		payload,
	).Scan(&entry.ID, &entry.PerformedAt)
}

func (r *auditLogRepository) ListBySubject(ctx context.Context, kind domain.ResourceKind, subjectID string, limit, offset int) ([]domain.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, subject_kind, subject_id, actor_id, action, payload, performed_at
        FROM audit_logs
        WHERE subject_kind=$1 AND subject_id=$2
        ORDER BY performed_at ASC, id ASC
        LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, kind, subjectID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditLogEntry
	for rows.Next() {
		var (
			entry      domain.AuditLogEntry
			payloadRaw []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.SubjectKind,
			&entry.SubjectID,
			&entry.ActorID,
			&entry.Action,
			&payloadRaw,
			&entry.PerformedAt,
		); err != nil {
			return nil, err
		}
		if len(payloadRaw) > 0 {
			if err := json.Unmarshal(payloadRaw, &entry.Payload); err != nil {
				return nil, err
			}
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
