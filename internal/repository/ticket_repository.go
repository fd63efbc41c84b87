package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	CreatedBy  *string
	AssignedTo *string
	Statuses   []domain.TicketStatus
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// Update persists the aggregate with an optimistic-lock check on
	// Version; a stale version fails with ConcurrentModification.
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	q Querier
}

// NewTicketRepository instantiates the repository over a pool or transaction.
func NewTicketRepository(q Querier) TicketRepository {
	return &ticketRepository{q: q}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	milestones, err := json.Marshal(ticket.Milestones)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO tickets (title, description, status, milestones, created_by, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, version, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		milestones,
		ticket.CreatedBy,
		ticket.AssignedTo,
	).Scan(&ticket.ID, &ticket.Version, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	milestones, err := json.Marshal(ticket.Milestones)
	if err != nil {
		return err
	}
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, milestones=$4,
            assigned_to=$5, version=version+1, updated_at=NOW()
        WHERE id=$6 AND version=$7`
	cmd, err := r.q.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		milestones,
		ticket.AssignedTo,
		ticket.ID,
		ticket.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewConcurrentModification("ticket")
	}
	ticket.Version++
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("ticket")
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, status, milestones, created_by, assigned_to,
               version, created_at, updated_at
        FROM tickets WHERE id=$1`
	var (
		ticket        domain.Ticket
		milestonesRaw []byte
	)
	if err := r.q.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&milestonesRaw,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("ticket")
		}
		return nil, err
	}
	if len(milestonesRaw) > 0 {
		if err := json.Unmarshal(milestonesRaw, &ticket.Milestones); err != nil {
			return nil, err
		}
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, title, description, status, milestones, created_by, assigned_to,
                    version, created_at, updated_at
             FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var (
			ticket        domain.Ticket
			milestonesRaw []byte
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&milestonesRaw,
			&ticket.CreatedBy,
			&ticket.AssignedTo,
			&ticket.Version,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(milestonesRaw) > 0 {
			if err := json.Unmarshal(milestonesRaw, &ticket.Milestones); err != nil {
				return nil, err
			}
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
