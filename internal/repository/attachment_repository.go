package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// AttachmentRepository stores metadata for ticket attachments. Access control
// always goes through the owning ticket, never the attachment id alone.
type AttachmentRepository interface {
	Create(ctx context.Context, att *domain.Attachment) error
	GetByID(ctx context.Context, id string) (*domain.Attachment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error)
}

type attachmentRepository struct {
	q Querier
}

// NewAttachmentRepository instantiates the repository over a pool or transaction.
func NewAttachmentRepository(q Querier) AttachmentRepository {
	return &attachmentRepository{q: q}
}

func (r *attachmentRepository) Create(ctx context.Context, att *domain.Attachment) error {
	const query = `
        INSERT INTO attachments (ticket_id, uploaded_by, storage_key, file_name, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.q.QueryRow(ctx, query,
		att.TicketID,
		att.UploadedBy,
		att.StorageKey,
		att.FileName,
		att.MimeType,
		att.SizeBytes,
	).Scan(&att.ID, &att.CreatedAt)
}

func (r *attachmentRepository) GetByID(ctx context.Context, id string) (*domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, uploaded_by, storage_key, file_name, mime_type, size_bytes, created_at
        FROM attachments WHERE id=$1`
	var att domain.Attachment
	if err := r.q.QueryRow(ctx, query, id).Scan(
		&att.ID,
		&att.TicketID,
		&att.UploadedBy,
		&att.StorageKey,
		&att.FileName,
		&att.MimeType,
		&att.SizeBytes,
		&att.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("attachment")
		}
		return nil, err
	}
	return &att, nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, uploaded_by, storage_key, file_name, mime_type, size_bytes, created_at
        FROM attachments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var att domain.Attachment
		if err := rows.Scan(
			&att.ID,
			&att.TicketID,
			&att.UploadedBy,
			&att.StorageKey,
			&att.FileName,
			&att.MimeType,
			&att.SizeBytes,
			&att.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, rows.Err()
}
