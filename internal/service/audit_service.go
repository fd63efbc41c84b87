package service

import (
	"context"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// AuditService is the read-only audit query surface. The only write path into
// the audit log is the event handler inside the unit of work.
type AuditService struct {
	authzPolicy
	audits   repository.AuditLogRepository
	tickets  repository.TicketRepository
	datasets repository.DatasetRepository
	users    repository.UserRepository
}

// AuditDependencies bundles requirements for the audit service.
type AuditDependencies struct {
	AuditRepo   repository.AuditLogRepository
	TicketRepo  repository.TicketRepository
	DatasetRepo repository.DatasetRepository
	UserRepo    repository.UserRepository
}

// NewAuditService constructs the service.
func NewAuditService(cfg config.AuthzConfig, deps AuditDependencies) *AuditService {
	return &AuditService{
		authzPolicy: authzPolicy{maskNotFound: cfg.MaskNotFound},
		audits:      deps.AuditRepo,
		tickets:     deps.TicketRepo,
		datasets:    deps.DatasetRepo,
		users:       deps.UserRepo,
	}
}

// ListBySubject returns audit entries for one subject, ordered by
// performed_at ascending. Access follows read access to the subject itself;
// history of deleted subjects is admin-only since ownership can no longer be
// established.
func (s *AuditService) ListBySubject(ctx context.Context, actor domain.Actor, kind domain.ResourceKind, subjectID string, limit, offset int) ([]domain.AuditLogEntry, error) {
	if err := s.ensureActive(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		resource, err := s.loadSubject(ctx, kind, subjectID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, resource, domain.ActionRead); err != nil {
			return nil, err
		}
	}
	return s.audits.ListBySubject(ctx, kind, subjectID, limit, offset)
}

func (s *AuditService) loadSubject(ctx context.Context, kind domain.ResourceKind, subjectID string) (domain.OwnedResource, error) {
	switch kind {
	case domain.KindTicket:
		return s.tickets.GetByID(ctx, subjectID)
	case domain.KindDataset:
		return s.datasets.GetByID(ctx, subjectID)
	case domain.KindUser:
		return s.users.GetByID(ctx, subjectID)
	default:
		return nil, domain.NewNotFound("subject")
	}
}
