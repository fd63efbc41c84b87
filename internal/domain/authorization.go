package domain

// Action names an operation an actor wants to perform on a resource.
type Action string

const (
	ActionRead              Action = "read"
	ActionUpdate            Action = "update"
	ActionDelete            Action = "delete"
	ActionTransition        Action = "transition"
	ActionAddMilestone      Action = "add_milestone"
	ActionCompleteMilestone Action = "complete_milestone"
	ActionAddAttachment     Action = "add_attachment"
	ActionAssign            Action = "assign"
	ActionChangeRole        Action = "change_role"
)

// Denial reason codes.
const (
	DenyInactiveActor = "inactive-actor"
	DenyNotOwner      = "not-owner"
)

// OwnedResource exposes the ownership attributes authorization reads.
// Aggregates implement it; the engine never mutates actors through it.
type OwnedResource interface {
	ResourceKind() ResourceKind
	OwnedBy(actorID string) bool
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// ownerActions lists, per resource kind, the actions ownership grants.
// Anything absent here (ticket assignment, role changes, user deletion) needs
// the admin role. Extending a grant is a data change, not a new code path.
var ownerActions = map[ResourceKind]map[Action]bool{
	KindTicket: {
		ActionRead:              true,
		ActionUpdate:            true,
		ActionDelete:            true,
		ActionTransition:        true,
		ActionAddMilestone:      true,
		ActionCompleteMilestone: true,
		ActionAddAttachment:     true,
	},
	KindDataset: {
		ActionRead:       true,
		ActionUpdate:     true,
		ActionDelete:     true,
		ActionTransition: true,
	},
	KindUser: {
		ActionRead:   true,
		ActionUpdate: true,
	},
}

// Authorize is the pure decision function (actor, resource, action). Rules are
// evaluated in order, first match wins:
//  1. inactive actors are denied outright
//  2. admins may do anything
//  3. owners may perform the owner-granted actions for the resource kind
//  4. everything else is denied
//
// Every use case that loads a resource by id re-invokes this, including
// read-only retrieval; the decision is never cached across requests.
func Authorize(actor Actor, resource OwnedResource, action Action) Decision {
	if !actor.Active {
		return Decision{Allowed: false, Reason: DenyInactiveActor}
	}
	if actor.IsAdmin() {
		return Decision{Allowed: true}
	}
	if resource.OwnedBy(actor.ID) && ownerActions[resource.ResourceKind()][action] {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, Reason: DenyNotOwner}
}
