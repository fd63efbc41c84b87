package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// Querier is the subset of pgx used by repositories. Both *pgxpool.Pool and
// pgx.Tx satisfy it, so every repository operates equally on the pool or
// inside a caller-supplied transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Tx bundles the transaction-scoped repositories available inside one unit of
// work. All writes performed through it commit or roll back together.
type Tx interface {
	Tickets() TicketRepository
	Users() UserRepository
	Datasets() DatasetRepository
	Attachments() AttachmentRepository
	AuditLogs() AuditLogRepository
}

// TxFunc performs the business mutation inside an open transaction and
// returns the pending domain events drained from the touched aggregates.
type TxFunc func(ctx context.Context, tx Tx) ([]domain.Event, error)

// UnitOfWork coordinates one atomic commit per use-case invocation:
// begin -> repository writes -> event dispatch (audit writes) -> commit.
// Any failure at any stage rolls the whole transaction back, so an audit
// entry is never observable without its mutation and vice versa.
type UnitOfWork interface {
	Execute(ctx context.Context, fn TxFunc) error
}
