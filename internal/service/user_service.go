package service

import (
	"context"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// UserService coordinates account management. Role changes, activation and
// deletion are admin-gated and guarded against self-lockout.
type UserService struct {
	authzPolicy
	users repository.UserRepository
	uow   repository.UnitOfWork
}

// UserDependencies bundles requirements for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	UnitOfWork repository.UnitOfWork
}

// UserUpdateInput carries optional profile updates.
type UserUpdateInput struct {
	Email *string
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthzConfig, deps UserDependencies) *UserService {
	return &UserService{
		authzPolicy: authzPolicy{maskNotFound: cfg.MaskNotFound},
		users:       deps.UserRepo,
		uow:         deps.UnitOfWork,
	}
}

// GetUser fetches a user record; non-admins may only read themselves.
func (s *UserService) GetUser(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.ensure(actor, user, domain.ActionRead); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers is admin-only.
func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.User, error) {
	if err := s.ensureActive(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, domain.NewForbidden(domain.DenyNotOwner)
	}
	return s.users.List(ctx, limit, offset)
}

// UpdateUser applies profile updates.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.Actor, userID string, input UserUpdateInput) (*domain.User, error) {
	var updated *domain.User
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, user, domain.ActionUpdate); err != nil {
			return nil, err
		}

		changed := map[string]any{}
		if input.Email != nil && *input.Email != user.Email {
			changed["email"] = map[string]any{"old": user.Email, "new": *input.Email}
			user.Email = *input.Email
		}
		if len(changed) == 0 {
			updated = user
			return nil, nil
		}
		user.RecordUpdate(actor.ID, changed)

		if err := tx.Users().Update(ctx, user); err != nil {
			return nil, err
		}
		updated = user
		return user.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangeRole switches a user's role. Admin-only; an admin cannot demote
// themself, which would otherwise allow losing the last admin by accident.
func (s *UserService) ChangeRole(ctx context.Context, actor domain.Actor, userID string, newRole domain.Role) (*domain.User, error) {
	var updated *domain.User
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := s.ensure(actor, user, domain.ActionChangeRole); err != nil {
			return nil, err
		}
		if actor.ID == user.ID && newRole != domain.RoleAdmin {
			return nil, domain.NewForbidden("self-demotion")
		}
		if err := user.ChangeRole(newRole, actor.ID); err != nil {
			return nil, err
		}
		if err := tx.Users().Update(ctx, user); err != nil {
			return nil, err
		}
		updated = user
		return user.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetActive activates or suspends an account. Admin-only; admins cannot
// suspend themselves.
func (s *UserService) SetActive(ctx context.Context, actor domain.Actor, userID string, active bool) (*domain.User, error) {
	var updated *domain.User
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !actor.Active {
			return nil, domain.NewForbidden(domain.DenyInactiveActor)
		}
		if !actor.IsAdmin() {
			return nil, domain.NewForbidden(domain.DenyNotOwner)
		}
		if actor.ID == user.ID && !active {
			return nil, domain.NewForbidden("self-suspension")
		}
		user.SetActive(active, actor.ID)
		if err := tx.Users().Update(ctx, user); err != nil {
			return nil, err
		}
		updated = user
		return user.CollectEvents(), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteUser removes an account. Admin-only; admins cannot delete themselves.
// Audit history survives because entries reference the subject by id only.
func (s *UserService) DeleteUser(ctx context.Context, actor domain.Actor, userID string) error {
	return s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) ([]domain.Event, error) {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !actor.Active {
			return nil, domain.NewForbidden(domain.DenyInactiveActor)
		}
		if !actor.IsAdmin() {
			return nil, domain.NewForbidden(domain.DenyNotOwner)
		}
		if actor.ID == user.ID {
			return nil, domain.NewForbidden("self-deletion")
		}
		user.RecordDeletion(actor.ID)
		if err := tx.Users().Delete(ctx, user.ID); err != nil {
			return nil, err
		}
		return user.CollectEvents(), nil
	})
}
