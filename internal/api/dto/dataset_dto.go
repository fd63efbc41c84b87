package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// CreateDatasetRequest payload.
type CreateDatasetRequest struct {
	PromptText   string         `json:"prompt_text" validate:"required"`
	ResponseText string         `json:"response_text" validate:"required"`
	TargetModel  string         `json:"target_model" validate:"max=128"`
	Metadata     map[string]any `json:"metadata"`
}

// UpdateDatasetRequest carries optional field updates.
type UpdateDatasetRequest struct {
	PromptText   *string `json:"prompt_text" validate:"omitempty,min=1"`
	ResponseText *string `json:"response_text" validate:"omitempty,min=1"`
	TargetModel  *string `json:"target_model" validate:"omitempty,max=128"`
}

// TransitionDatasetRequest payload.
type TransitionDatasetRequest struct {
	Status string `json:"status" validate:"required"`
}

// DatasetResponse is the dataset wire shape.
type DatasetResponse struct {
	ID           string               `json:"id"`
	OwnerID      string               `json:"owner_id"`
	PromptText   string               `json:"prompt_text"`
	ResponseText string               `json:"response_text"`
	TargetModel  string               `json:"target_model"`
	Status       domain.DatasetStatus `json:"status"`
	Metadata     map[string]any       `json:"metadata"`
	Version      int                  `json:"version"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewDatasetResponse maps a dataset aggregate onto the wire shape.
func NewDatasetResponse(d *domain.Dataset) DatasetResponse {
	return DatasetResponse{
		ID:           d.ID,
		OwnerID:      d.OwnerID,
		PromptText:   d.PromptText,
		ResponseText: d.ResponseText,
		TargetModel:  d.TargetModel,
		Status:       d.Status,
		Metadata:     d.Metadata,
		Version:      d.Version,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// NewDatasetResponses maps a dataset list.
func NewDatasetResponses(datasets []domain.Dataset) []DatasetResponse {
	return lo.Map(datasets, func(d domain.Dataset, _ int) DatasetResponse { return NewDatasetResponse(&d) })
}
