package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=10000"`
}

// UpdateTicketRequest carries optional field updates.
type UpdateTicketRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
}

// TransitionTicketRequest payload.
type TransitionTicketRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required,uuid4"`
}

// AddMilestoneRequest payload.
type AddMilestoneRequest struct {
	Description string     `json:"description" validate:"required,max=500"`
	DueDate     *time.Time `json:"due_date"`
}

// AttachmentRequest describes attachment metadata input.
type AttachmentRequest struct {
	StorageKey string `json:"storage_key" validate:"required"`
	FileName   string `json:"file_name" validate:"required,max=255"`
	MimeType   string `json:"mime_type" validate:"required"`
	SizeBytes  int64  `json:"size_bytes" validate:"gte=0"`
}

// MilestoneResponse is one step in a ticket plan.
type MilestoneResponse struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	Order       int        `json:"order"`
}

// TicketResponse provides full ticket info.
type TicketResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	Milestones  []MilestoneResponse `json:"milestones"`
	CreatedBy   string              `json:"created_by"`
	AssignedTo  *string             `json:"assigned_to"`
	Version     int                 `json:"version"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	UploadedBy string    `json:"uploaded_by"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTicketResponse maps a ticket aggregate onto the wire shape.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Milestones:  lo.Map(t.Milestones, func(m domain.Milestone, _ int) MilestoneResponse { return newMilestoneResponse(m) }),
		CreatedBy:   t.CreatedBy,
		AssignedTo:  t.AssignedTo,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTicketResponses maps a ticket list.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	return lo.Map(tickets, func(t domain.Ticket, _ int) TicketResponse { return NewTicketResponse(&t) })
}

func newMilestoneResponse(m domain.Milestone) MilestoneResponse {
	return MilestoneResponse{
		ID:          m.ID,
		Description: m.Description,
		DueDate:     m.DueDate,
		Completed:   m.Completed,
		CompletedAt: m.CompletedAt,
		Order:       m.Order,
	}
}

// NewAttachmentResponse maps attachment metadata.
func NewAttachmentResponse(a domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		TicketID:   a.TicketID,
		UploadedBy: a.UploadedBy,
		FileName:   a.FileName,
		MimeType:   a.MimeType,
		SizeBytes:  a.SizeBytes,
		CreatedAt:  a.CreatedAt,
	}
}

// NewAttachmentResponses maps an attachment list.
func NewAttachmentResponses(attachments []domain.Attachment) []AttachmentResponse {
	return lo.Map(attachments, func(a domain.Attachment, _ int) AttachmentResponse { return NewAttachmentResponse(a) })
}
