package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// TicketService coordinates ticket workflows. Every use case follows the same
// shape: load the aggregate, authorize the actor against it, mutate, then
// commit writes and event dispatch atomically through the unit of work.
type TicketService struct {
	authzPolicy
	tickets     repository.TicketRepository
	attachments repository.AttachmentRepository
	users       repository.UserRepository
	uow         repository.UnitOfWork
}

// TicketDependencies bundles requirements for the ticket service. The
// repositories here are pool-backed and serve read paths; mutations use the
// transaction-scoped repositories handed out by the unit of work.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	AttachmentRepo repository.AttachmentRepository
	UserRepo       repository.UserRepository
	UnitOfWork     repository.UnitOfWork
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
}

// TicketUpdateInput carries optional field updates.
type TicketUpdateInput struct {
	Title       *string
	Description *string
}

// TicketListFilter describes listing parameters.
type TicketListFilter struct {
	Statuses []domain.TicketStatus
	Limit    int
	Offset   int
}

// AttachmentInput defines attachment metadata.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// NewTicketService constructs the service.
func NewTicketService(cfg config.AuthzConfig, deps TicketDependencies) *TicketService {
	return &TicketService{
		authzPolicy: authzPolicy{maskNotFound: cfg.MaskNotFound},
		tickets:     deps.TicketRepo,
		attachments: deps.AttachmentRepo,
		users:       deps.UserRepo,
		uow:         deps.UnitOfWork,
	}
}

// CreateTicket creates a ticket owned by the actor. Ownership comes from the
// authenticated actor, never from the request payload.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if err := s.ensureActive(actor); err != nil {
		return nil, err
	}

	ticket := domain.NewTicket(strings.TrimSpace(input.Title), strings.TrimSpace(input.Description), actor.ID)
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		if err := tx.Tickets().Create(ctx, ticket); err != nil {
			return nil, err
		}
		ticket.RecordCreation(actor.ID)
		return ticket.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetTicket fetches a ticket, re-checking authorization for the read.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.ensure(actor, ticket, domain.ActionRead); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListTickets returns tickets visible to the actor. Non-admins only ever see
// tickets they created or are assigned to.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, filter TicketListFilter) ([]domain.Ticket, error) {
	if err := s.ensureActive(actor); err != nil {
		return nil, err
	}
	repoFilter := repository.TicketFilter{
		Statuses: filter.Statuses,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	if !actor.IsAdmin() {
		repoFilter.CreatedBy = &actor.ID
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// UpdateTicket applies field updates to a ticket.
func (s *TicketService) UpdateTicket(ctx context.Context, actor domain.Actor, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	var updated *domain.Ticket
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, ticket, domain.ActionUpdate); err != nil {
			return nil, err
		}

		changed := map[string]any{}
		if input.Title != nil && *input.Title != ticket.Title {
			changed["title"] = map[string]any{"old": ticket.Title, "new": *input.Title}
			ticket.Title = *input.Title
		}
		if input.Description != nil && *input.Description != ticket.Description {
			changed["description"] = map[string]any{"old": ticket.Description, "new": *input.Description}
			ticket.Description = *input.Description
		}
		if len(changed) == 0 {
			updated = ticket
			return nil, nil
		}
		ticket.RecordUpdate(actor.ID, changed)

		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return nil, err
		}
		updated = ticket
		return ticket.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TransitionTicket moves a ticket through the status state machine. The
// current status is read inside the transaction, so a concurrent transition
// either loses the optimistic-lock race (ConcurrentModification) or is
// rejected by the transition table.
func (s *TicketService) TransitionTicket(ctx context.Context, actor domain.Actor, ticketID string, target domain.TicketStatus) (*domain.Ticket, error) {
	var updated *domain.Ticket
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, ticket, domain.ActionTransition); err != nil {
			return nil, err
		}
		if err := ticket.Transition(target, actor.ID); err != nil {
			return nil, err
		}
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return nil, err
		}
		updated = ticket
		return ticket.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AssignTicket assigns a ticket to an agent. Assignment is not owner-granted,
// so only admins pass the authorization check.
func (s *TicketService) AssignTicket(ctx context.Context, actor domain.Actor, ticketID, assigneeID string) (*domain.Ticket, error) {
	var updated *domain.Ticket
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, ticket, domain.ActionAssign); err != nil {
			return nil, err
		}

		assignee, err := tx.Users().GetByID(ctx, assigneeID)
		if err != nil {
			return nil, err
		}
		if assignee.Role != domain.RoleAgent && assignee.Role != domain.RoleAdmin {
			return nil, domain.NewForbidden("assignee-not-agent")
		}

		ticket.AssignTo(assigneeID, actor.ID)
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return nil, err
		}
		updated = ticket
		return ticket.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddMilestone appends a milestone to the ticket.
func (s *TicketService) AddMilestone(ctx context.Context, actor domain.Actor, ticketID, description string, dueDate *time.Time) (*domain.Ticket, error) {
	var updated *domain.Ticket
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, ticket, domain.ActionAddMilestone); err != nil {
			return nil, err
		}
		ticket.AddMilestone(strings.TrimSpace(description), dueDate, actor.ID)
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return nil, err
		}
		updated = ticket
		return ticket.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CompleteMilestone marks a milestone as done.
func (s *TicketService) CompleteMilestone(ctx context.Context, actor domain.Actor, ticketID, milestoneID string) (*domain.Ticket, error) {
	var updated *domain.Ticket
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, ticket, domain.ActionCompleteMilestone); err != nil {
			return nil, err
		}
		if err := ticket.CompleteMilestone(milestoneID, actor.ID); err != nil {
			return nil, err
		}
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return nil, err
		}
		updated = ticket
		return ticket.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTicket removes a ticket. The deletion event is dispatched in the same
// transaction, so the audit trail records the removal even though the row is
// gone (audit entries reference subjects by id only).
func (s *TicketService) DeleteTicket(ctx context.Context, actor domain.Actor, ticketID string) error {
	return s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, ticket, domain.ActionDelete); err != nil {
			return nil, err
		}
		ticket.RecordDeletion(actor.ID)
		if err := tx.Tickets().Delete(ctx, ticket.ID); err != nil {
			return nil, err
		}
		return ticket.CollectEvents(), nil
	})
}

// AddAttachment stores attachment metadata under a ticket. Authorization
// follows the owning ticket: there is no attachment-id-only access path.
func (s *TicketService) AddAttachment(ctx context.Context, actor domain.Actor, ticketID string, input AttachmentInput) (*domain.Attachment, error) {
	att := &domain.Attachment{
		TicketID:   ticketID,
		UploadedBy: actor.ID,
		StorageKey: input.StorageKey,
		FileName:   input.FileName,
		MimeType:   input.MimeType,
		SizeBytes:  input.SizeBytes,
	}
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, ticket, domain.ActionAddAttachment); err != nil {
			return nil, err
		}
		if err := tx.Attachments().Create(ctx, att); err != nil {
			return nil, err
		}
		ticket.RecordAttachmentAdded(*att, actor.ID)
		return ticket.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return att, nil
}

// ListAttachments returns attachment metadata for a ticket the actor may read.
func (s *TicketService) ListAttachments(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.Attachment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.ensure(actor, ticket, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.attachments.ListByTicket(ctx, ticketID)
}
