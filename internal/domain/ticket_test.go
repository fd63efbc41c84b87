package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		current TicketStatus
		target  TicketStatus
		want    bool
	}{
		{TicketStatusOpen, TicketStatusInProgress, true},
		{TicketStatusInProgress, TicketStatusResolved, true},
		{TicketStatusResolved, TicketStatusClosed, true},
		{TicketStatusResolved, TicketStatusReopened, true},
		{TicketStatusClosed, TicketStatusReopened, true},
		{TicketStatusReopened, TicketStatusInProgress, true},

		{TicketStatusOpen, TicketStatusResolved, false},
		{TicketStatusOpen, TicketStatusClosed, false},
		{TicketStatusInProgress, TicketStatusOpen, false},
		{TicketStatusClosed, TicketStatusOpen, false},
		{TicketStatusClosed, TicketStatusClosed, false},
		{TicketStatusReopened, TicketStatusResolved, false},
		{TicketStatusOpen, TicketStatus("archived"), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.current, tc.target),
			"%s -> %s", tc.current, tc.target)
	}
}

func TestValidTicketStatus(t *testing.T) {
	for _, s := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed, TicketStatusReopened} {
		assert.True(t, ValidTicketStatus(s))
	}
	assert.False(t, ValidTicketStatus("archived"))
	assert.False(t, ValidTicketStatus("OPEN"))
}

func TestTicketTransition(t *testing.T) {
	ticket := NewTicket("broken build", "ci fails on main", "user-1")
	ticket.ID = "ticket-1"

	require.NoError(t, ticket.Transition(TicketStatusInProgress, "user-1"))
	assert.Equal(t, TicketStatusInProgress, ticket.Status)

	events := ticket.CollectEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTicketStatusChanged, events[0].Type)
	assert.Equal(t, "ticket-1", events[0].SubjectID)
	assert.Equal(t, "user-1", events[0].ActorID)

	payload, ok := events[0].Payload.(TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, TicketStatusOpen, payload.OldStatus)
	assert.Equal(t, TicketStatusInProgress, payload.NewStatus)
}

func TestTicketTransitionInvalidLeavesStateUntouched(t *testing.T) {
	ticket := NewTicket("broken build", "", "user-1")
	ticket.ID = "ticket-1"

	err := ticket.Transition(TicketStatusClosed, "user-1")
	require.Error(t, err)
	assert.Equal(t, ErrInvalidTransition, KindOf(err))
	assert.Equal(t, TicketStatusOpen, ticket.Status)
	assert.Empty(t, ticket.PendingEvents())
}

func TestTicketOwnedBy(t *testing.T) {
	ticket := NewTicket("t", "", "creator")
	assert.True(t, ticket.OwnedBy("creator"))
	assert.False(t, ticket.OwnedBy("other"))

	assignee := "agent-1"
	ticket.AssignedTo = &assignee
	assert.True(t, ticket.OwnedBy("agent-1"))
	assert.False(t, ticket.OwnedBy("other"))
}

func TestAddMilestoneOrdering(t *testing.T) {
	ticket := NewTicket("t", "", "user-1")
	ticket.ID = "ticket-1"

	first := ticket.AddMilestone("design", nil, "user-1")
	second := ticket.AddMilestone("implement", nil, "user-1")

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.Completed)

	events := ticket.CollectEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventMilestoneAdded, events[0].Type)
	assert.Equal(t, EventMilestoneAdded, events[1].Type)
}

func TestCompleteMilestone(t *testing.T) {
	ticket := NewTicket("t", "", "user-1")
	ticket.ID = "ticket-1"
	milestone := ticket.AddMilestone("design", nil, "user-1")
	ticket.CollectEvents()

	require.NoError(t, ticket.CompleteMilestone(milestone.ID, "user-1"))
	assert.True(t, ticket.Milestones[0].Completed)
	require.NotNil(t, ticket.Milestones[0].CompletedAt)

	events := ticket.CollectEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventMilestoneCompleted, events[0].Type)
}

func TestCompleteMilestoneTwiceFails(t *testing.T) {
	ticket := NewTicket("t", "", "user-1")
	ticket.ID = "ticket-1"
	milestone := ticket.AddMilestone("design", nil, "user-1")
	require.NoError(t, ticket.CompleteMilestone(milestone.ID, "user-1"))
	ticket.CollectEvents()

	err := ticket.CompleteMilestone(milestone.ID, "user-1")
	require.Error(t, err)
	assert.Equal(t, ErrAlreadyCompleted, KindOf(err))
	assert.Empty(t, ticket.PendingEvents(), "no event for a rejected completion")
}

func TestCompleteMilestoneUnknownID(t *testing.T) {
	ticket := NewTicket("t", "", "user-1")
	err := ticket.CompleteMilestone("missing", "user-1")
	require.Error(t, err)
	assert.Equal(t, ErrNotFound, KindOf(err))
}

func TestAllMilestonesCompleted(t *testing.T) {
	ticket := NewTicket("t", "", "user-1")
	assert.False(t, ticket.AllMilestonesCompleted(), "no milestones means not completed")

	first := ticket.AddMilestone("a", nil, "user-1")
	ticket.AddMilestone("b", nil, "user-1")
	require.NoError(t, ticket.CompleteMilestone(first.ID, "user-1"))
	assert.False(t, ticket.AllMilestonesCompleted())

	require.NoError(t, ticket.CompleteMilestone(ticket.Milestones[1].ID, "user-1"))
	assert.True(t, ticket.AllMilestonesCompleted())
}

func TestMilestoneIsOverdue(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	assert.True(t, Milestone{DueDate: &past}.IsOverdue())
	assert.False(t, Milestone{DueDate: &future}.IsOverdue())
	assert.False(t, Milestone{DueDate: &past, Completed: true}.IsOverdue())
	assert.False(t, Milestone{}.IsOverdue())
}

func TestCollectEventsDrainsQueue(t *testing.T) {
	ticket := NewTicket("t", "", "user-1")
	ticket.ID = "ticket-1"
	ticket.RecordCreation("user-1")

	require.Len(t, ticket.CollectEvents(), 1)
	assert.Empty(t, ticket.CollectEvents(), "second collect must be empty")
}
