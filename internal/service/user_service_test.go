package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
)

func TestGetUserSelfAndAdminOnly(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser("alice", domain.RoleUser, true)
	bob := env.seedUser("bob", domain.RoleUser, true)
	admin := env.seedUser("admin", domain.RoleAdmin, true)
	svc := env.userService(config.AuthzConfig{})

	got, err := svc.GetUser(context.Background(), alice, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.ID)

	_, err = svc.GetUser(context.Background(), bob, "alice")
	require.Error(t, err)
	assert.Equal(t, domain.ErrForbidden, domain.KindOf(err))

	_, err = svc.GetUser(context.Background(), admin, "alice")
	require.NoError(t, err)
}

func TestListUsersAdminOnly(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser("alice", domain.RoleUser, true)
	admin := env.seedUser("admin", domain.RoleAdmin, true)
	svc := env.userService(config.AuthzConfig{})

	_, err := svc.ListUsers(context.Background(), user, 20, 0)
	require.Error(t, err)
	assert.Equal(t, domain.ErrForbidden, domain.KindOf(err))

	users, err := svc.ListUsers(context.Background(), admin, 20, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestChangeRole(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser("alice", domain.RoleUser, true)
	admin := env.seedUser("admin", domain.RoleAdmin, true)
	svc := env.userService(config.AuthzConfig{})

	// Non-admins cannot change roles, not even their own.
	_, err := svc.ChangeRole(context.Background(), user, "alice", domain.RoleAgent)
	require.Error(t, err)
	assert.Equal(t, domain.ErrForbidden, domain.KindOf(err))

	updated, err := svc.ChangeRole(context.Background(), admin, "alice", domain.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, updated.Role)
	assert.Equal(t, []string{"role_changed"}, env.auditActionsFor(domain.KindUser, "alice"))

	// Same-role changes are rejected so every audit entry reflects a change.
	_, err = svc.ChangeRole(context.Background(), admin, "alice", domain.RoleAgent)
	require.Error(t, err)
	assert.Equal(t, domain.ErrInvalidTransition, domain.KindOf(err))
}

func TestChangeRoleSelfDemotionBlocked(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser("admin", domain.RoleAdmin, true)
	svc := env.userService(config.AuthzConfig{})

	_, err := svc.ChangeRole(context.Background(), admin, "admin", domain.RoleUser)
	require.Error(t, err)
	assert.Equal(t, domain.ErrForbidden, domain.KindOf(err))
	assert.Equal(t, domain.RoleAdmin, env.store.users["admin"].Role)
}

func TestSetActive(t *testing.T) {
	env := newTestEnv()
	env.seedUser("alice", domain.RoleUser, true)
	admin := env.seedUser("admin", domain.RoleAdmin, true)
	svc := env.userService(config.AuthzConfig{})

	updated, err := svc.SetActive(context.Background(), admin, "alice", false)
	require.NoError(t, err)
	assert.False(t, updated.Active)

	// Admins cannot suspend themselves.
	_, err = svc.SetActive(context.Background(), admin, "admin", false)
	require.Error(t, err)
	assert.Equal(t, domain.ErrForbidden, domain.KindOf(err))
	assert.True(t, env.store.users["admin"].Active)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv()
	env.seedUser("alice", domain.RoleUser, true)
	admin := env.seedUser("admin", domain.RoleAdmin, true)
	svc := env.userService(config.AuthzConfig{})

	// Self-deletion is blocked.
	err := svc.DeleteUser(context.Background(), admin, "admin")
	require.Error(t, err)
	assert.Equal(t, domain.ErrForbidden, domain.KindOf(err))

	require.NoError(t, svc.DeleteUser(context.Background(), admin, "alice"))
	assert.NotContains(t, env.store.users, "alice")
	assert.Equal(t, []string{"deleted"}, env.auditActionsFor(domain.KindUser, "alice"),
		"the audit trail outlives the account")
}

func TestUpdateUserEmail(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser("alice", domain.RoleUser, true)
	svc := env.userService(config.AuthzConfig{})

	email := "new@example.com"
	updated, err := svc.UpdateUser(context.Background(), alice, "alice", UserUpdateInput{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, []string{"updated"}, env.auditActionsFor(domain.KindUser, "alice"))
}
