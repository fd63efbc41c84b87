package persistence

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// pgxTx bundles repositories bound to one open pgx transaction.
type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) Tickets() repository.TicketRepository {
	return repository.NewTicketRepository(t.tx)
}

func (t *pgxTx) Users() repository.UserRepository {
	return repository.NewUserRepository(t.tx)
}

func (t *pgxTx) Datasets() repository.DatasetRepository {
	return repository.NewDatasetRepository(t.tx)
}

func (t *pgxTx) Attachments() repository.AttachmentRepository {
	return repository.NewAttachmentRepository(t.tx)
}

func (t *pgxTx) AuditLogs() repository.AuditLogRepository {
	return repository.NewAuditLogRepository(t.tx)
}

// UnitOfWork implements repository.UnitOfWork on a pgx pool: begin ->
// mutation -> event dispatch -> commit, with rollback on any failure.
type UnitOfWork struct {
	pool        *pgxpool.Pool
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	afterCommit func([]domain.Event)
}

// NewUnitOfWork constructs the unit of work. afterCommit, when non-nil,
// receives the dispatched events once the transaction has committed; it runs
// outside the transaction and its outcome cannot affect the commit.
func NewUnitOfWork(pool *pgxpool.Pool, dispatcher events.Dispatcher, logger *zap.Logger, afterCommit func([]domain.Event)) *UnitOfWork {
	return &UnitOfWork{
		pool:        pool,
		dispatcher:  dispatcher,
		logger:      logger,
		afterCommit: afterCommit,
	}
}

// Execute runs fn inside a transaction and dispatches the events fn returns
// before committing. Engine errors (NotFound, Forbidden, state machine and
// lock conflicts) pass through untouched; infrastructure failures surface as
// a single opaque TransactionFailed.
func (u *UnitOfWork) Execute(ctx context.Context, fn repository.TxFunc) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return domain.NewTransactionFailed(err)
	}
	// Rollback is a no-op once the transaction committed; the deferred call
	// guarantees release on every exit path, panics included.
	defer tx.Rollback(ctx) //nolint:errcheck

	wrapped := &pgxTx{tx: tx}
	pending, err := fn(ctx, wrapped)
	if err != nil {
		if domain.KindOf(err) != "" {
			return err
		}
		return domain.NewTransactionFailed(err)
	}

	if err := u.dispatcher.Dispatch(ctx, wrapped, pending); err != nil {
		u.logger.Error("event dispatch failed, rolling back", zap.Error(err))
		return domain.NewTransactionFailed(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.NewTransactionFailed(err)
	}

	if u.afterCommit != nil && len(pending) > 0 {
		u.afterCommit(pending)
	}
	return nil
}
