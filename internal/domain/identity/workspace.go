package identity

import (
	"strings"
	"time"

	"github.com/controlroom/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WorkspaceRole represents a member's role within a single workspace
type WorkspaceRole string

const (
	WorkspaceRoleAdmin   WorkspaceRole = "ADMIN"
	WorkspaceRoleManager WorkspaceRole = "MANAGER"
	WorkspaceRoleSeller  WorkspaceRole = "SELLER"
	WorkspaceRoleViewer  WorkspaceRole = "VIEWER"
)

// IsValid returns true if the workspace role is a known role
func (r WorkspaceRole) IsValid() bool {
	switch r {
	case WorkspaceRoleAdmin, WorkspaceRoleManager, WorkspaceRoleSeller, WorkspaceRoleViewer:
		return true
	}
	return false
}

// CanManage returns true for roles allowed to mutate workspace
// resources (agents, policies, custom metrics).
func (r WorkspaceRole) CanManage() bool {
	return r == WorkspaceRoleAdmin || r == WorkspaceRoleManager
}

// Workspace is the tenant boundary of the system. Every governed
// resource belongs to exactly one workspace.
type Workspace struct {
	shared.BaseEntity
	Name    string    `gorm:"type:varchar(200);not null"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (Workspace) TableName() string {
	return "workspaces"
}

// NewWorkspace creates a new workspace owned by the given user
func NewWorkspace(name string, ownerID uuid.UUID) (*Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Workspace name cannot be empty")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Workspace owner cannot be empty")
	}
	return &Workspace{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		OwnerID:    ownerID,
	}, nil
}

// Membership joins a user to a workspace with exactly one role.
// A user may belong to multiple workspaces; the active one is tracked
// out-of-band in a cookie pair, not here.
type Membership struct {
	shared.BaseEntity
	WorkspaceID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_user"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_user"`
	Role        WorkspaceRole `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (Membership) TableName() string {
	return "workspace_memberships"
}

// NewMembership creates a membership with the given role
func NewMembership(workspaceID, userID uuid.UUID, role WorkspaceRole) (*Membership, error) {
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown workspace role")
	}
	return &Membership{
		BaseEntity:  shared.NewBaseEntity(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
	}, nil
}

// ChangeRole updates the membership role
func (m *Membership) ChangeRole(role WorkspaceRole) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown workspace role")
	}
	m.Role = role
	m.UpdatedAt = time.Now()
	return nil
}

// InviteTTL is how long a workspace invitation stays valid.
const InviteTTL = 7 * 24 * time.Hour

// Invitation is a pending offer to join a workspace with a role.
// The token travels by email; accepting it creates a membership.
type Invitation struct {
	shared.BaseEntity
	WorkspaceID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Email       string        `gorm:"type:varchar(200);not null;index"`
	Role        WorkspaceRole `gorm:"type:varchar(20);not null"`
	Token       string        `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt   time.Time     `gorm:"not null"`
	AcceptedAt  *time.Time
}

// TableName returns the table name for GORM
func (Invitation) TableName() string {
	return "workspace_invitations"
}

// NewInvitation creates a pending invitation
func NewInvitation(workspaceID uuid.UUID, email string, role WorkspaceRole, token string) (*Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown workspace role")
	}
	if token == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invitation token cannot be empty")
	}
	return &Invitation{
		BaseEntity:  shared.NewBaseEntity(),
		WorkspaceID: workspaceID,
		Email:       email,
		Role:        role,
		Token:       token,
		ExpiresAt:   time.Now().Add(InviteTTL),
	}, nil
}

// IsExpired returns true once the invitation has lapsed
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsAccepted returns true once the invitation has been redeemed
func (i *Invitation) IsAccepted() bool {
	return i.AcceptedAt != nil
}

// Accept marks the invitation as redeemed
func (i *Invitation) Accept() error {
	if i.IsAccepted() {
		return shared.NewDomainError("ALREADY_ACCEPTED", "Invitation has already been accepted")
	}
	if i.IsExpired() {
		return shared.NewDomainError("INVITE_EXPIRED", "Invitation has expired")
	}
	now := time.Now()
	i.AcceptedAt = &now
	i.UpdatedAt = now
	return nil
}
