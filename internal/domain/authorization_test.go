package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeInactiveActorDeniedFirst(t *testing.T) {
	// Rule order matters: an inactive admin owning the resource is still denied.
	ticket := NewTicket("t", "", "admin-1")
	actor := Actor{ID: "admin-1", Role: RoleAdmin, Active: false}

	decision := Authorize(actor, ticket, ActionRead)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyInactiveActor, decision.Reason)
}

func TestAuthorizeAdminAllowedEverything(t *testing.T) {
	ticket := NewTicket("t", "", "someone-else")
	admin := Actor{ID: "admin-1", Role: RoleAdmin, Active: true}

	for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete, ActionTransition, ActionAssign, ActionAddMilestone} {
		decision := Authorize(admin, ticket, action)
		assert.True(t, decision.Allowed, "admin denied %s", action)
		assert.Empty(t, decision.Reason)
	}
}

func TestAuthorizeOwnerGrantedActions(t *testing.T) {
	ticket := NewTicket("t", "", "user-1")
	owner := Actor{ID: "user-1", Role: RoleUser, Active: true}

	for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete, ActionTransition, ActionAddMilestone, ActionCompleteMilestone, ActionAddAttachment} {
		assert.True(t, Authorize(owner, ticket, action).Allowed, "owner denied %s", action)
	}
}

func TestAuthorizeOwnerDeniedNonGrantedAction(t *testing.T) {
	// Assignment is not in the owner grant set for tickets; it needs admin.
	ticket := NewTicket("t", "", "user-1")
	owner := Actor{ID: "user-1", Role: RoleUser, Active: true}

	decision := Authorize(owner, ticket, ActionAssign)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyNotOwner, decision.Reason)
}

func TestAuthorizeNonOwnerDeniedIncludingReads(t *testing.T) {
	ticket := NewTicket("t", "", "user-1")
	stranger := Actor{ID: "user-2", Role: RoleUser, Active: true}

	for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete, ActionTransition} {
		decision := Authorize(stranger, ticket, action)
		assert.False(t, decision.Allowed, "stranger allowed %s", action)
		assert.Equal(t, DenyNotOwner, decision.Reason)
	}
}

func TestAuthorizeAgentHasNoBlanketAccess(t *testing.T) {
	// The agent role grants nothing by itself; an agent must own (be assigned
	// to) the ticket.
	ticket := NewTicket("t", "", "user-1")
	agent := Actor{ID: "agent-1", Role: RoleAgent, Active: true}

	assert.False(t, Authorize(agent, ticket, ActionRead).Allowed)

	assignee := "agent-1"
	ticket.AssignedTo = &assignee
	assert.True(t, Authorize(agent, ticket, ActionRead).Allowed)
	assert.True(t, Authorize(agent, ticket, ActionTransition).Allowed)
	assert.False(t, Authorize(agent, ticket, ActionAssign).Allowed)
}

func TestAuthorizeDatasetOwnerActions(t *testing.T) {
	dataset := NewDataset("owner-1", "p", "r", "")
	owner := Actor{ID: "owner-1", Role: RoleUser, Active: true}

	for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete, ActionTransition} {
		assert.True(t, Authorize(owner, dataset, action).Allowed, "owner denied %s", action)
	}
	assert.False(t, Authorize(owner, dataset, ActionAddMilestone).Allowed,
		"milestones are a ticket concern, not granted on datasets")
}

func TestAuthorizeUserSelfAccess(t *testing.T) {
	account := &User{ID: "user-1", Role: RoleUser, Active: true}
	self := Actor{ID: "user-1", Role: RoleUser, Active: true}
	other := Actor{ID: "user-2", Role: RoleUser, Active: true}

	assert.True(t, Authorize(self, account, ActionRead).Allowed)
	assert.True(t, Authorize(self, account, ActionUpdate).Allowed)
	assert.False(t, Authorize(self, account, ActionChangeRole).Allowed,
		"users cannot change their own role")
	assert.False(t, Authorize(self, account, ActionDelete).Allowed)
	assert.False(t, Authorize(other, account, ActionRead).Allowed)
}
