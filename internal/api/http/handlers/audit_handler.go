package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/dto"
	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/service"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util"
)

// AuditHandler exposes the audit trail for a single subject.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{service: auditService}
}

// ListBySubject GET /audit/:kind/:id.
func (h *AuditHandler) ListBySubject(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	kind := domain.ResourceKind(c.Params("kind"))
	switch kind {
	case domain.KindTicket, domain.KindDataset, domain.KindUser:
	default:
		return apperrors.NewValidationError("unknown subject kind", map[string]any{"kind": c.Params("kind")})
	}

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	entries, err := h.service.ListBySubject(c.Context(), actor, kind, c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAuditLogResponses(entries)})
}
