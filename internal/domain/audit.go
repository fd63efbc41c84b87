package domain

import "time"

// ResourceKind identifies the aggregate type an audit entry or authorization
// decision refers to.
type ResourceKind string

const (
	KindTicket     ResourceKind = "ticket"
	KindDataset    ResourceKind = "dataset"
	KindUser       ResourceKind = "user"
	KindAttachment ResourceKind = "attachment"
)

// AuditLogEntry is one append-only audit record. The subject is referenced by
// id only, so deleting a resource keeps its history intact.
type AuditLogEntry struct {
	ID          string
	SubjectKind ResourceKind
	SubjectID   string
	ActorID     string
	Action      string
	Payload     map[string]any
	PerformedAt time.Time
}

// Attachment stores metadata for a file attached to a ticket. Access follows
// the owning ticket's authorization, never the attachment id alone.
type Attachment struct {
	ID         string
	TicketID   string
	UploadedBy string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}

// RecordAttachmentAdded emits the attachment event on the owning ticket.
func (t *Ticket) RecordAttachmentAdded(att Attachment, actorID string) {
	t.record(newEvent(EventAttachmentAdded, KindTicket, t.ID, actorID, AttachmentAddedPayload{
		AttachmentID: att.ID,
		FileName:     att.FileName,
		SizeBytes:    att.SizeBytes,
	}))
}
