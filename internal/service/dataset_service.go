package service

import (
	"context"
	"strings"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/repository"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util"
)

// DatasetService coordinates fine-tuning dataset workflows with the same
// load -> authorize -> mutate -> commit shape as tickets.
type DatasetService struct {
	authzPolicy
	datasets repository.DatasetRepository
	uow      repository.UnitOfWork
}

// DatasetDependencies bundles requirements for the dataset service.
type DatasetDependencies struct {
	DatasetRepo repository.DatasetRepository
	UnitOfWork  repository.UnitOfWork
}

// DatasetCreateInput describes dataset creation payload.
type DatasetCreateInput struct {
	PromptText   string
	ResponseText string
	TargetModel  string
	Metadata     map[string]any
}

// DatasetUpdateInput carries optional field updates.
type DatasetUpdateInput struct {
	PromptText   *string
	ResponseText *string
	TargetModel  *string
}

// DatasetListFilter describes listing parameters.
type DatasetListFilter struct {
	Statuses []domain.DatasetStatus
	Limit    int
	Offset   int
}

// NewDatasetService constructs the service.
func NewDatasetService(cfg config.AuthzConfig, deps DatasetDependencies) *DatasetService {
	return &DatasetService{
		authzPolicy: authzPolicy{maskNotFound: cfg.MaskNotFound},
		datasets:    deps.DatasetRepo,
		uow:         deps.UnitOfWork,
	}
}

// CreateDataset creates a dataset owned by the actor.
func (s *DatasetService) CreateDataset(ctx context.Context, actor domain.Actor, input DatasetCreateInput) (*domain.Dataset, error) {
	if err := s.ensureActive(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.PromptText) == "" || strings.TrimSpace(input.ResponseText) == "" {
		return nil, apperrors.NewValidationError("prompt_text and response_text required", nil)
	}

	dataset := domain.NewDataset(actor.ID, input.PromptText, input.ResponseText, input.TargetModel)
	dataset.Metadata = input.Metadata
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		if err := tx.Datasets().Create(ctx, dataset); err != nil {
			return nil, err
		}
		dataset.RecordCreation(actor.ID)
		return dataset.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return dataset, nil
}

// GetDataset fetches a dataset, re-checking authorization for the read.
func (s *DatasetService) GetDataset(ctx context.Context, actor domain.Actor, datasetID string) (*domain.Dataset, error) {
	dataset, err := s.datasets.GetByID(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	if err := s.ensure(actor, dataset, domain.ActionRead); err != nil {
		return nil, err
	}
	return dataset, nil
}

// ListDatasets returns datasets visible to the actor.
func (s *DatasetService) ListDatasets(ctx context.Context, actor domain.Actor, filter DatasetListFilter) ([]domain.Dataset, error) {
	if err := s.ensureActive(actor); err != nil {
		return nil, err
	}
	repoFilter := repository.DatasetFilter{
		Statuses: filter.Statuses,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	if !actor.IsAdmin() {
		repoFilter.OwnerID = &actor.ID
	}
	return s.datasets.ListWithFilter(ctx, repoFilter)
}

// UpdateDataset applies field updates.
func (s *DatasetService) UpdateDataset(ctx context.Context, actor domain.Actor, datasetID string, input DatasetUpdateInput) (*domain.Dataset, error) {
	var updated *domain.Dataset
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		dataset, err := tx.Datasets().GetByID(ctx, datasetID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, dataset, domain.ActionUpdate); err != nil {
			return nil, err
		}

		changed := map[string]any{}
		if input.PromptText != nil && *input.PromptText != dataset.PromptText {
			changed["prompt_text"] = true
			dataset.PromptText = *input.PromptText
		}
		if input.ResponseText != nil && *input.ResponseText != dataset.ResponseText {
			changed["response_text"] = true
			dataset.ResponseText = *input.ResponseText
		}
		if input.TargetModel != nil && *input.TargetModel != dataset.TargetModel {
			changed["target_model"] = map[string]any{"old": dataset.TargetModel, "new": *input.TargetModel}
			dataset.TargetModel = *input.TargetModel
		}
		if len(changed) == 0 {
			updated = dataset
			return nil, nil
		}
		dataset.RecordUpdate(actor.ID, changed)

		if err := tx.Datasets().Update(ctx, dataset); err != nil {
			return nil, err
		}
		updated = dataset
		return dataset.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TransitionDataset moves a dataset through the fine-tuning state machine.
func (s *DatasetService) TransitionDataset(ctx context.Context, actor domain.Actor, datasetID string, target domain.DatasetStatus) (*domain.Dataset, error) {
	var updated *domain.Dataset
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		dataset, err := tx.Datasets().GetByID(ctx, datasetID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, dataset, domain.ActionTransition); err != nil {
			return nil, err
		}
		if err := dataset.TransitionStatus(target, actor.ID); err != nil {
			return nil, err
		}
		if err := tx.Datasets().Update(ctx, dataset); err != nil {
			return nil, err
		}
		updated = dataset
		return dataset.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteDataset removes a dataset, keeping its audit history.
func (s *DatasetService) DeleteDataset(ctx context.Context, actor domain.Actor, datasetID string) error {
	return s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		dataset, err := tx.Datasets().GetByID(ctx, datasetID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, dataset, domain.ActionDelete); err != nil {
			return nil, err
		}
		dataset.RecordDeletion(actor.ID)
		if err := tx.Datasets().Delete(ctx, dataset.ID); err != nil {
			return nil, err
		}
		return dataset.CollectEvents(), nil
	})
}
