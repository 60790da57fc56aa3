package identity

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/controlroom/backend/internal/domain/shared"
)

// Password cost for bcrypt
const bcryptCost = 12

// GlobalRole represents a user's platform-wide role, as opposed to the
// per-workspace role carried by a membership.
type GlobalRole string

const (
	GlobalRoleAdmin  GlobalRole = "ADMIN"
	GlobalRoleSeller GlobalRole = "SELLER"
	GlobalRoleUser   GlobalRole = "USER"
)

// IsValid returns true if the global role is a known role
func (r GlobalRole) IsValid() bool {
	switch r {
	case GlobalRoleAdmin, GlobalRoleSeller, GlobalRoleUser:
		return true
	}
	return false
}

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User represents a platform account. A user holds exactly one
// subscription plan and may belong to any number of workspaces.
type User struct {
	shared.BaseEntity
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name         string     `gorm:"type:varchar(100);not null"`
	PasswordHash string     `gorm:"type:varchar(200);not null"`
	GlobalRole   GlobalRole `gorm:"type:varchar(20);not null;default:'USER'"`
	Plan         Plan       `gorm:"type:varchar(20);not null;default:'trial'"`
	TrialEndsAt  *time.Time
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	StripeCustomerID string `gorm:"type:varchar(100);index"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// DefaultTrialDays is the trial length granted at signup.
const DefaultTrialDays = 14

// NewUser creates a new user on the trial plan
func NewUser(email, name, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	trialEnds := time.Now().AddDate(0, 0, DefaultTrialDays)
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		GlobalRole:   GlobalRoleUser,
		Plan:         PlanTrial,
		TrialEndsAt:  &trialEnds,
		Status:       UserStatusActive,
	}, nil
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_FAILED", "Could not hash password")
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(newPassword string) error {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

// SetPlan changes the user's subscription plan. Leaving the trial plan
// clears the trial expiry.
func (u *User) SetPlan(plan Plan) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}
	u.Plan = plan
	if plan != PlanTrial {
		u.TrialEndsAt = nil
	}
	u.UpdatedAt = time.Now()
	return nil
}

// SetGlobalRole changes the user's platform-wide role
func (u *User) SetGlobalRole(role GlobalRole) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown global role")
	}
	u.GlobalRole = role
	u.UpdatedAt = time.Now()
	return nil
}

// IsTrialExpired returns true if the user is on the trial plan and the
// trial expiry timestamp is strictly in the past.
func (u *User) IsTrialExpired() bool {
	if u.Plan != PlanTrial || u.TrialEndsAt == nil {
		return false
	}
	return time.Now().After(*u.TrialEndsAt)
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}
