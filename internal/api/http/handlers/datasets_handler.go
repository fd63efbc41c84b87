package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/dto"
	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/service"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util"
)

// DatasetsHandler manages dataset endpoints.
type DatasetsHandler struct {
	service *service.DatasetService
}

// NewDatasetsHandler constructs handler.
func NewDatasetsHandler(datasetService *service.DatasetService) *DatasetsHandler {
	return &DatasetsHandler{service: datasetService}
}

// CreateDataset POST /datasets.
func (h *DatasetsHandler) CreateDataset(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateDatasetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	dataset, err := h.service.CreateDataset(c.Context(), actor, service.DatasetCreateInput{
		PromptText:   req.PromptText,
		ResponseText: req.ResponseText,
		TargetModel:  req.TargetModel,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDatasetResponse(dataset)})
}

// GetDataset GET /datasets/:id.
func (h *DatasetsHandler) GetDataset(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	dataset, err := h.service.GetDataset(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDatasetResponse(dataset)})
}

// ListDatasets GET /datasets.
func (h *DatasetsHandler) ListDatasets(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	datasets, err := h.service.ListDatasets(c.Context(), actor, parseDatasetQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDatasetResponses(datasets)})
}

// UpdateDataset PATCH /datasets/:id.
func (h *DatasetsHandler) UpdateDataset(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateDatasetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	dataset, err := h.service.UpdateDataset(c.Context(), actor, c.Params("id"), service.DatasetUpdateInput{
		PromptText:   req.PromptText,
		ResponseText: req.ResponseText,
		TargetModel:  req.TargetModel,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDatasetResponse(dataset)})
}

// TransitionDataset POST /datasets/:id/transition.
func (h *DatasetsHandler) TransitionDataset(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TransitionDatasetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	dataset, err := h.service.TransitionDataset(c.Context(), actor, c.Params("id"), domain.DatasetStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDatasetResponse(dataset)})
}

// DeleteDataset DELETE /datasets/:id.
func (h *DatasetsHandler) DeleteDataset(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DeleteDataset(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseDatasetQuery(c *fiber.Ctx) service.DatasetListFilter {
	filter := service.DatasetListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.DatasetStatus(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}
