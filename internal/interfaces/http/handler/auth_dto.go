package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/infrastructure/auth"
)

// SignupRequest represents a new account registration
type SignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	InviteToken string `json:"invite_token"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries the refresh token to exchange
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AcceptInviteRequest carries an invitation token
type AcceptInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

// UserResponse is the public shape of a user account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	GlobalRole  string     `json:"global_role"`
	Plan        string     `json:"plan"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthResponse is returned on signup, login and refresh
type AuthResponse struct {
	User  UserResponse    `json:"user"`
	Token *auth.TokenPair `json:"token"`
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		GlobalRole:  string(u.GlobalRole),
		Plan:        u.Plan.String(),
		TrialEndsAt: u.TrialEndsAt,
		Status:      string(u.Status),
		CreatedAt:   u.CreatedAt,
	}
}
