package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Save persists a new user
	Save(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by its (lowercased) email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByStripeCustomerID finds a user by its Stripe customer id
	FindByStripeCustomerID(ctx context.Context, customerID string) (*User, error)

	// List returns users ordered by creation date, newest first
	List(ctx context.Context, offset, limit int) ([]*User, int64, error)
}
