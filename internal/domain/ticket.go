package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for tickets. The set is closed;
// transitions happen only through the allowed-transition table below.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusReopened   TicketStatus = "reopened"
)

// allowedTransitions is the state machine as data. Any (current, target) pair
// not listed here is rejected; adding a transition is a data change only.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress},
	TicketStatusInProgress: {TicketStatusResolved},
	TicketStatusResolved:   {TicketStatusClosed, TicketStatusReopened},
	TicketStatusClosed:     {TicketStatusReopened},
	TicketStatusReopened:   {TicketStatusInProgress},
}

// ValidTicketStatus reports whether s is a member of the closed status set.
func ValidTicketStatus(s TicketStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether current -> target is in the allowed table.
func CanTransition(current, target TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == target {
			return true
		}
	}
	return false
}

// Milestone is a step owned exclusively by its ticket. Milestones are
// append-only and ordered by insertion.
type Milestone struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Order       int        `json:"order"`
}

// IsOverdue reports whether an incomplete milestone has passed its due date.
func (m Milestone) IsOverdue() bool {
	if m.DueDate == nil || m.Completed {
		return false
	}
	return time.Now().After(*m.DueDate)
}

// Ticket is the aggregate for work items. It owns its milestones and records
// domain events for every mutation; Version backs optimistic locking.
type Ticket struct {
	recorder

	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Milestones  []Milestone
	CreatedBy   string
	AssignedTo  *string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTicket builds an open ticket owned by createdBy.
func NewTicket(title, description, createdBy string) *Ticket {
	return &Ticket{
		Title:       title,
		Description: description,
		Status:      TicketStatusOpen,
		CreatedBy:   createdBy,
	}
}

// ResourceKind implements OwnedResource.
func (t *Ticket) ResourceKind() ResourceKind {
	return KindTicket
}

// OwnedBy implements OwnedResource: the creator and the assignee own a ticket.
func (t *Ticket) OwnedBy(actorID string) bool {
	if t.CreatedBy == actorID {
		return true
	}
	return t.AssignedTo != nil && *t.AssignedTo == actorID
}

// RecordCreation emits the creation event after the id is assigned.
func (t *Ticket) RecordCreation(actorID string) {
	t.record(newEvent(EventTicketCreated, KindTicket, t.ID, actorID, TicketCreatedPayload{
		Title:     t.Title,
		CreatedBy: t.CreatedBy,
	}))
}

// RecordUpdate emits an update event carrying the changed fields.
func (t *Ticket) RecordUpdate(actorID string, changed map[string]any) {
	if len(changed) == 0 {
		return
	}
	t.record(newEvent(EventTicketUpdated, KindTicket, t.ID, actorID, TicketUpdatedPayload{ChangedFields: changed}))
}

// RecordDeletion emits the deletion event prior to removal.
func (t *Ticket) RecordDeletion(actorID string) {
	t.record(newEvent(EventTicketDeleted, KindTicket, t.ID, actorID, TicketDeletedPayload{Title: t.Title}))
}

// Transition moves the ticket to target per the allowed-transition table.
// Authorization is the caller's responsibility and must happen before this.
func (t *Ticket) Transition(target TicketStatus, actorID string) error {
	if !CanTransition(t.Status, target) {
		return NewInvalidTransition(string(t.Status), string(target))
	}
	old := t.Status
	t.Status = target
	t.record(newEvent(EventTicketStatusChanged, KindTicket, t.ID, actorID, TicketStatusChangedPayload{
		OldStatus: old,
		NewStatus: target,
	}))
	return nil
}

// AssignTo sets the assignee and emits TicketAssigned.
func (t *Ticket) AssignTo(userID, actorID string) {
	old := t.AssignedTo
	t.AssignedTo = &userID
	t.record(newEvent(EventTicketAssigned, KindTicket, t.ID, actorID, TicketAssignedPayload{
		OldAssignee: old,
		NewAssignee: userID,
	}))
}

// AddMilestone appends a new incomplete milestone and emits MilestoneAdded.
func (t *Ticket) AddMilestone(description string, dueDate *time.Time, actorID string) Milestone {
	milestone := Milestone{
		ID:          uuid.NewString(),
		Description: description,
		DueDate:     dueDate,
		Order:       len(t.Milestones),
	}
	t.Milestones = append(t.Milestones, milestone)
	t.record(newEvent(EventMilestoneAdded, KindTicket, t.ID, actorID, MilestoneAddedPayload{
		MilestoneID: milestone.ID,
		Description: milestone.Description,
		DueDate:     milestone.DueDate,
	}))
	return milestone
}

// CompleteMilestone marks the milestone done. Completing a missing milestone
// fails with NotFound and a completed one with AlreadyCompleted; there is no
// silent no-op.
func (t *Ticket) CompleteMilestone(milestoneID, actorID string) error {
	for i := range t.Milestones {
		if t.Milestones[i].ID != milestoneID {
			continue
		}
		if t.Milestones[i].Completed {
			return NewAlreadyCompleted(milestoneID)
		}
		now := time.Now().UTC()
		t.Milestones[i].Completed = true
		t.Milestones[i].CompletedAt = &now
		t.record(newEvent(EventMilestoneCompleted, KindTicket, t.ID, actorID, MilestoneCompletedPayload{
			MilestoneID: milestoneID,
			CompletedAt: now,
		}))
		return nil
	}
	return NewNotFound("milestone")
}

// AllMilestonesCompleted reports whether the ticket has milestones and all are done.
func (t *Ticket) AllMilestonesCompleted() bool {
	if len(t.Milestones) == 0 {
		return false
	}
	for _, m := range t.Milestones {
		if !m.Completed {
			return false
		}
	}
	return true
}
