package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported domain event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventMilestoneAdded      EventType = "milestone_added"
	EventMilestoneCompleted  EventType = "milestone_completed"
	EventAttachmentAdded     EventType = "attachment_added"

	EventUserCreated     EventType = "user_created"
	EventUserUpdated     EventType = "user_updated"
	EventUserRoleChanged EventType = "user_role_changed"
	EventUserDeleted     EventType = "user_deleted"

	EventDatasetCreated       EventType = "dataset_created"
	EventDatasetUpdated       EventType = "dataset_updated"
	EventDatasetStatusChanged EventType = "dataset_status_changed"
	EventDatasetDeleted       EventType = "dataset_deleted"
)

// Event is an immutable record of something that happened to an aggregate.
// Events are created only by aggregate mutations and consumed exactly once,
// within the same transaction that produced them.
type Event struct {
	ID          string
	Type        EventType
	SubjectKind ResourceKind
	SubjectID   string
	ActorID     string
	OccurredAt  time.Time
	Payload     any
}

func newEvent(eventType EventType, kind ResourceKind, subjectID, actorID string, payload any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		SubjectKind: kind,
		SubjectID:   subjectID,
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title     string `json:"title"`
	CreatedBy string `json:"created_by"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	ChangedFields map[string]any `json:"changed_fields"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus TicketStatus `json:"old_status"`
	NewStatus TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldAssignee *string `json:"old_assignee,omitempty"`
	NewAssignee string  `json:"new_assignee"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Title string `json:"title"`
}

// MilestoneAddedPayload payload.
type MilestoneAddedPayload struct {
	MilestoneID string     `json:"milestone_id"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// MilestoneCompletedPayload payload.
type MilestoneCompletedPayload struct {
	MilestoneID string    `json:"milestone_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// AttachmentAddedPayload payload.
type AttachmentAddedPayload struct {
	AttachmentID string `json:"attachment_id"`
	FileName     string `json:"file_name"`
	SizeBytes    int64  `json:"size_bytes"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// UserUpdatedPayload payload.
type UserUpdatedPayload struct {
	ChangedFields map[string]any `json:"changed_fields"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	OldRole Role `json:"old_role"`
	NewRole Role `json:"new_role"`
}

// DatasetCreatedPayload payload.
type DatasetCreatedPayload struct {
	TargetModel string `json:"target_model"`
	OwnerID     string `json:"owner_id"`
}

// DatasetUpdatedPayload payload.
type DatasetUpdatedPayload struct {
	ChangedFields map[string]any `json:"changed_fields"`
}

// DatasetStatusChangedPayload payload.
type DatasetStatusChangedPayload struct {
	OldStatus DatasetStatus `json:"old_status"`
	NewStatus DatasetStatus `json:"new_status"`
}

// recorder is the pending-event queue embedded in each aggregate. Events are
// drained once by the unit of work before commit.
type recorder struct {
	pending []Event
}

func (r *recorder) record(ev Event) {
	r.pending = append(r.pending, ev)
}

// CollectEvents returns pending events in emission order and clears the queue.
func (r *recorder) CollectEvents() []Event {
	events := r.pending
	r.pending = nil
	return events
}

// PendingEvents exposes the queue without draining it.
func (r *recorder) PendingEvents() []Event {
	return r.pending
}
