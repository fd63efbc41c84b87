package domain

import "time"

// Role enumerates authorization roles for actors.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Actor is the identity snapshot used for every authorization decision.
// It is read-only inside the engine.
type Actor struct {
	ID     string
	Role   Role
	Active bool
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// User is the aggregate for account holders. Tickets and datasets reference
// users by id only.
type User struct {
	recorder

	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor returns the authorization snapshot for this user.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, Active: u.Active}
}

// ResourceKind implements OwnedResource.
func (u *User) ResourceKind() ResourceKind {
	return KindUser
}

// OwnedBy implements OwnedResource: a user owns only their own record.
func (u *User) OwnedBy(actorID string) bool {
	return u.ID == actorID
}

// RecordCreation emits the creation event after the id is assigned.
func (u *User) RecordCreation(actorID string) {
	u.record(newEvent(EventUserCreated, KindUser, u.ID, actorID, UserCreatedPayload{
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}))
}

// RecordUpdate emits an update event carrying the changed fields.
func (u *User) RecordUpdate(actorID string, changed map[string]any) {
	if len(changed) == 0 {
		return
	}
	u.record(newEvent(EventUserUpdated, KindUser, u.ID, actorID, UserUpdatedPayload{ChangedFields: changed}))
}

// RecordDeletion emits the deletion event prior to removal.
func (u *User) RecordDeletion(actorID string) {
	u.record(newEvent(EventUserDeleted, KindUser, u.ID, actorID, nil))
}

// ChangeRole switches the user's role and emits an event. Same-role changes
// are rejected so that every emitted event reflects a real mutation.
func (u *User) ChangeRole(newRole Role, actorID string) error {
	if u.Role == newRole {
		return &Error{Kind: ErrInvalidTransition, Message: "user already has role " + string(newRole)}
	}
	oldRole := u.Role
	u.Role = newRole
	u.record(newEvent(EventUserRoleChanged, KindUser, u.ID, actorID, UserRoleChangedPayload{
		OldRole: oldRole,
		NewRole: newRole,
	}))
	return nil
}

// SetActive flips the active flag, recording the change when it is real.
func (u *User) SetActive(active bool, actorID string) {
	if u.Active == active {
		return
	}
	u.Active = active
	u.RecordUpdate(actorID, map[string]any{"active": active})
}
