package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// memStore is the shared backing state for the in-memory repositories. The
// fake unit of work snapshots it before each Execute so rollback semantics
// match the real transaction.
type memStore struct {
	tickets     map[string]domain.Ticket
	users       map[string]domain.User
	datasets    map[string]domain.Dataset
	attachments map[string]domain.Attachment
	audits      []domain.AuditLogEntry
	seq         int

	auditErr error
}

func newMemStore() *memStore {
	return &memStore{
		tickets:     map[string]domain.Ticket{},
		users:       map[string]domain.User{},
		datasets:    map[string]domain.Dataset{},
		attachments: map[string]domain.Attachment{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.seq = s.seq
	c.auditErr = s.auditErr
	for id, t := range s.tickets {
		t.Milestones = append([]domain.Milestone(nil), t.Milestones...)
		c.tickets[id] = t
	}
	for id, u := range s.users {
		c.users[id] = u
	}
	for id, d := range s.datasets {
		c.datasets[id] = d
	}
	for id, a := range s.attachments {
		c.attachments[id] = a
	}
	c.audits = append([]domain.AuditLogEntry(nil), s.audits...)
	return c
}

func (s *memStore) restore(from *memStore) {
	s.tickets = from.tickets
	s.users = from.users
	s.datasets = from.datasets
	s.attachments = from.attachments
	s.audits = from.audits
	s.seq = from.seq
}

type memTicketRepo struct{ store *memStore }

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = r.store.nextID("ticket")
	ticket.Version = 1
	ticket.CreatedAt = time.Now().UTC()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	stored.Milestones = append([]domain.Milestone(nil), ticket.Milestones...)
	r.store.tickets[ticket.ID] = stored
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	existing, ok := r.store.tickets[ticket.ID]
	if !ok {
		return domain.NewNotFound("ticket")
	}
	if existing.Version != ticket.Version {
		return domain.NewConcurrentModification("ticket")
	}
	ticket.Version++
	ticket.UpdatedAt = time.Now().UTC()
	stored := *ticket
	stored.Milestones = append([]domain.Milestone(nil), ticket.Milestones...)
	r.store.tickets[ticket.ID] = stored
	return nil
}

func (r *memTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.tickets[id]; !ok {
		return domain.NewNotFound("ticket")
	}
	delete(r.store.tickets, id)
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	stored, ok := r.store.tickets[id]
	if !ok {
		return nil, domain.NewNotFound("ticket")
	}
	stored.Milestones = append([]domain.Milestone(nil), stored.Milestones...)
	return &stored, nil
}

func (r *memTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.store.tickets {
		if filter.CreatedBy != nil && t.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func containsStatus(statuses []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.store.nextID("user")
	user.Version = 1
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.store.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	existing, ok := r.store.users[user.ID]
	if !ok {
		return domain.NewNotFound("user")
	}
	if existing.Version != user.Version {
		return domain.NewConcurrentModification("user")
	}
	user.Version++
	user.UpdatedAt = time.Now().UTC()
	r.store.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.users[id]; !ok {
		return domain.NewNotFound("user")
	}
	delete(r.store.users, id)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	stored, ok := r.store.users[id]
	if !ok {
		return nil, domain.NewNotFound("user")
	}
	return &stored, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.store.users {
		if u.Username == username {
			stored := u
			return &stored, nil
		}
	}
	return nil, domain.NewNotFound("user")
}

func (r *memUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.store.users {
		out = append(out, u)
	}
	return out, nil
}

type memDatasetRepo struct{ store *memStore }

func (r *memDatasetRepo) Create(_ context.Context, dataset *domain.Dataset) error {
	dataset.ID = r.store.nextID("dataset")
	dataset.Version = 1
	dataset.CreatedAt = time.Now().UTC()
	dataset.UpdatedAt = dataset.CreatedAt
	r.store.datasets[dataset.ID] = *dataset
	return nil
}

func (r *memDatasetRepo) Update(_ context.Context, dataset *domain.Dataset) error {
	existing, ok := r.store.datasets[dataset.ID]
	if !ok {
		return domain.NewNotFound("dataset")
	}
	if existing.Version != dataset.Version {
		return domain.NewConcurrentModification("dataset")
	}
	dataset.Version++
	dataset.UpdatedAt = time.Now().UTC()
	r.store.datasets[dataset.ID] = *dataset
	return nil
}

func (r *memDatasetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.datasets[id]; !ok {
		return domain.NewNotFound("dataset")
	}
	delete(r.store.datasets, id)
	return nil
}

func (r *memDatasetRepo) GetByID(_ context.Context, id string) (*domain.Dataset, error) {
	stored, ok := r.store.datasets[id]
	if !ok {
		return nil, domain.NewNotFound("dataset")
	}
	return &stored, nil
}

func (r *memDatasetRepo) ListWithFilter(_ context.Context, filter repository.DatasetFilter) ([]domain.Dataset, error) {
	var out []domain.Dataset
	for _, d := range r.store.datasets {
		if filter.OwnerID != nil && d.OwnerID != *filter.OwnerID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

type memAttachmentRepo struct{ store *memStore }

func (r *memAttachmentRepo) Create(_ context.Context, att *domain.Attachment) error {
	att.ID = r.store.nextID("att")
	att.CreatedAt = time.Now().UTC()
	r.store.attachments[att.ID] = *att
	return nil
}

func (r *memAttachmentRepo) GetByID(_ context.Context, id string) (*domain.Attachment, error) {
	stored, ok := r.store.attachments[id]
	if !ok {
		return nil, domain.NewNotFound("attachment")
	}
	return &stored, nil
}

func (r *memAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	var out []domain.Attachment
	for _, a := range r.store.attachments {
		if a.TicketID == ticketID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memAuditRepo struct{ store *memStore }

func (r *memAuditRepo) Append(_ context.Context, entry *domain.AuditLogEntry) error {
	if r.store.auditErr != nil {
		return r.store.auditErr
	}
	entry.ID = r.store.nextID("audit")
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = time.Now().UTC()
	}
	r.store.audits = append(r.store.audits, *entry)
	return nil
}

func (r *memAuditRepo) ListBySubject(_ context.Context, kind domain.ResourceKind, subjectID string, _, _ int) ([]domain.AuditLogEntry, error) {
	var out []domain.AuditLogEntry
	for _, e := range r.store.audits {
		if e.SubjectKind == kind && e.SubjectID == subjectID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memTx struct{ store *memStore }

func (t *memTx) Tickets() repository.TicketRepository         { return &memTicketRepo{store: t.store} }
func (t *memTx) Users() repository.UserRepository             { return &memUserRepo{store: t.store} }
func (t *memTx) Datasets() repository.DatasetRepository       { return &memDatasetRepo{store: t.store} }
func (t *memTx) Attachments() repository.AttachmentRepository { return &memAttachmentRepo{store: t.store} }
func (t *memTx) AuditLogs() repository.AuditLogRepository     { return &memAuditRepo{store: t.store} }

// memUnitOfWork mirrors the transactional contract of the real unit of work:
// fn runs against the shared store, events dispatch before "commit", and any
// failure restores the pre-Execute snapshot.
type memUnitOfWork struct {
	store       *memStore
	dispatcher  events.Dispatcher
	committed   [][]domain.Event
	afterCommit func([]domain.Event)
}

func (u *memUnitOfWork) Execute(ctx context.Context, fn repository.TxFunc) error {
	snapshot := u.store.clone()
	tx := &memTx{store: u.store}

	pending, err := fn(ctx, tx)
	if err != nil {
		u.store.restore(snapshot)
		if domain.KindOf(err) != "" {
			return err
		}
		return domain.NewTransactionFailed(err)
	}

	if u.dispatcher != nil {
		if err := u.dispatcher.Dispatch(ctx, tx, pending); err != nil {
			u.store.restore(snapshot)
			return domain.NewTransactionFailed(err)
		}
	}

	u.committed = append(u.committed, pending)
	if u.afterCommit != nil && len(pending) > 0 {
		u.afterCommit(pending)
	}
	return nil
}

// testEnv bundles the fakes with a real dispatcher and audit handler so
// service tests exercise the full mutation -> event -> audit pipeline.
type testEnv struct {
	store *memStore
	uow   *memUnitOfWork

	tickets     *memTicketRepo
	users       *memUserRepo
	datasets    *memDatasetRepo
	attachments *memAttachmentRepo
	audits      *memAuditRepo
}

func newTestEnv() *testEnv {
	store := newMemStore()
	dispatcher := events.NewInMemoryDispatcher()
	events.NewAuditHandler(zap.NewNop()).Register(dispatcher)

	return &testEnv{
		store:       store,
		uow:         &memUnitOfWork{store: store, dispatcher: dispatcher},
		tickets:     &memTicketRepo{store: store},
		users:       &memUserRepo{store: store},
		datasets:    &memDatasetRepo{store: store},
		attachments: &memAttachmentRepo{store: store},
		audits:      &memAuditRepo{store: store},
	}
}

func (e *testEnv) ticketService(cfg config.AuthzConfig) *TicketService {
	return NewTicketService(cfg, TicketDependencies{
		TicketRepo:     e.tickets,
		AttachmentRepo: e.attachments,
		UserRepo:       e.users,
		UnitOfWork:     e.uow,
	})
}

func (e *testEnv) datasetService(cfg config.AuthzConfig) *DatasetService {
	return NewDatasetService(cfg, DatasetDependencies{
		DatasetRepo: e.datasets,
		UnitOfWork:  e.uow,
	})
}

func (e *testEnv) userService(cfg config.AuthzConfig) *UserService {
	return NewUserService(cfg, UserDependencies{
		UserRepo:   e.users,
		UnitOfWork: e.uow,
	})
}

func (e *testEnv) auditService(cfg config.AuthzConfig) *AuditService {
	return NewAuditService(cfg, AuditDependencies{
		AuditRepo:   e.audits,
		TicketRepo:  e.tickets,
		DatasetRepo: e.datasets,
		UserRepo:    e.users,
	})
}

// seedUser inserts an account directly into the store.
func (e *testEnv) seedUser(id string, role domain.Role, active bool) domain.Actor {
	user := domain.User{
		ID:       id,
		Username: id,
		Email:    id + "@example.com",
		Role:     role,
		Active:   active,
		Version:  1,
	}
	e.store.users[id] = user
	return domain.Actor{ID: id, Role: role, Active: active}
}

// seedTicket inserts a ticket directly into the store.
func (e *testEnv) seedTicket(id, createdBy string, status domain.TicketStatus) {
	e.store.tickets[id] = domain.Ticket{
		ID:        id,
		Title:     "seeded",
		Status:    status,
		CreatedBy: createdBy,
		Version:   1,
	}
}

// auditActionsFor lists audit actions recorded for a subject, in order.
func (e *testEnv) auditActionsFor(kind domain.ResourceKind, subjectID string) []string {
	var actions []string
	for _, entry := range e.store.audits {
		if entry.SubjectKind == kind && entry.SubjectID == subjectID {
			actions = append(actions, entry.Action)
		}
	}
	return actions
}
