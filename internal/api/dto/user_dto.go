package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest carries optional field updates.
type UpdateUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
}

// ChangeRoleRequest payload.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user agent admin"`
}

// SetActiveRequest payload.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the account wire shape. The password hash never leaves the
// server.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewUserResponse maps a user aggregate onto the wire shape.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserResponses maps a user list.
func NewUserResponses(users []domain.User) []UserResponse {
	return lo.Map(users, func(u domain.User, _ int) UserResponse { return NewUserResponse(&u) })
}
