package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// DatasetFilter captures listing parameters.
type DatasetFilter struct {
	OwnerID  *string
	Statuses []domain.DatasetStatus
	Limit    int
	Offset   int
}

// DatasetRepository encapsulates dataset persistence.
type DatasetRepository interface {
	Create(ctx context.Context, dataset *domain.Dataset) error
	Update(ctx context.Context, dataset *domain.Dataset) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Dataset, error)
	ListWithFilter(ctx context.Context, filter DatasetFilter) ([]domain.Dataset, error)
}

type datasetRepository struct {
	q Querier
}

// NewDatasetRepository instantiates the repository over a pool or transaction.
func NewDatasetRepository(q Querier) DatasetRepository {
	return &datasetRepository{q: q}
}

const datasetColumns = `id, owner_id, prompt_text, response_text, target_model, status, metadata, version, created_at, updated_at`

func (r *datasetRepository) Create(ctx context.Context, dataset *domain.Dataset) error {
	metadata, err := json.Marshal(dataset.Metadata)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO datasets (owner_id, prompt_text, response_text, target_model, status, metadata)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, version, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		dataset.OwnerID,
		dataset.PromptText,
		dataset.ResponseText,
		dataset.TargetModel,
		dataset.Status,
		metadata,
	).Scan(&dataset.ID, &dataset.Version, &dataset.CreatedAt, &dataset.UpdatedAt)
}

func (r *datasetRepository) Update(ctx context.Context, dataset *domain.Dataset) error {
	metadata, err := json.Marshal(dataset.Metadata)
	if err != nil {
		return err
	}
	const query = `
        UPDATE datasets SET prompt_text=$1, response_text=$2, target_model=$3, status=$4,
            metadata=$5, version=version+1, updated_at=NOW()
        WHERE id=$6 AND version=$7`
	cmd, err := r.q.Exec(ctx, query,
		dataset.PromptText,
		dataset.ResponseText,
		dataset.TargetModel,
		dataset.Status,
		metadata,
		dataset.ID,
		dataset.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewConcurrentModification("dataset")
	}
	dataset.Version++
	return nil
}

func (r *datasetRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM datasets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("dataset")
	}
	return nil
}

func (r *datasetRepository) GetByID(ctx context.Context, id string) (*domain.Dataset, error) {
	var (
		dataset     domain.Dataset
		metadataRaw []byte
	)
	if err := r.q.QueryRow(ctx, `SELECT `+datasetColumns+` FROM datasets WHERE id=$1`, id).Scan(
		&dataset.ID,
		&dataset.OwnerID,
		&dataset.PromptText,
		&dataset.ResponseText,
		&dataset.TargetModel,
		&dataset.Status,
		&metadataRaw,
		&dataset.Version,
		&dataset.CreatedAt,
		&dataset.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("dataset")
		}
		return nil, err
	}
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &dataset.Metadata); err != nil {
			return nil, err
		}
	}
	return &dataset, nil
}

func (r *datasetRepository) ListWithFilter(ctx context.Context, filter DatasetFilter) ([]domain.Dataset, error) {
	query := `SELECT ` + datasetColumns + ` FROM datasets WHERE 1=1`
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		query += ` AND owner_id=$1`
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		query += fmt.Sprintf(" AND status=ANY($%d)", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Dataset
	for rows.Next() {
		var (
			dataset     domain.Dataset
			metadataRaw []byte
		)
		if err := rows.Scan(
			&dataset.ID,
			&dataset.OwnerID,
			&dataset.PromptText,
			&dataset.ResponseText,
			&dataset.TargetModel,
			&dataset.Status,
			&metadataRaw,
			&dataset.Version,
			&dataset.CreatedAt,
			&dataset.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(metadataRaw) > 0 {
			if err := json.Unmarshal(metadataRaw, &dataset.Metadata); err != nil {
				return nil, err
			}
		}
		result = append(result, dataset)
	}
	return result, rows.Err()
}
