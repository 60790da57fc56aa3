package identity

import (
	"context"

	"github.com/google/uuid"
)

// WorkspaceRepository defines the interface for workspace persistence
type WorkspaceRepository interface {
	// Save persists a new workspace
	Save(ctx context.Context, workspace *Workspace) error

	// FindByID finds a workspace by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Workspace, error)

	// FindForUser returns all workspaces the user is a member of
	FindForUser(ctx context.Context, userID uuid.UUID) ([]*Workspace, error)

	// Delete removes a workspace and its memberships
	Delete(ctx context.Context, id uuid.UUID) error
}

// MembershipRepository defines the interface for membership persistence
type MembershipRepository interface {
	// Save persists a new membership
	Save(ctx context.Context, membership *Membership) error

	// Update updates an existing membership
	Update(ctx context.Context, membership *Membership) error

	// Find returns the membership of a user in a workspace
	Find(ctx context.Context, workspaceID, userID uuid.UUID) (*Membership, error)

	// FindByWorkspace returns all memberships of a workspace
	FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*Membership, error)

	// CountByRole returns the number of members holding a role in a workspace
	CountByRole(ctx context.Context, workspaceID uuid.UUID, role WorkspaceRole) (int64, error)

	// Delete removes a membership
	Delete(ctx context.Context, workspaceID, userID uuid.UUID) error
}

// InvitationRepository defines the interface for invitation persistence
type InvitationRepository interface {
	// Save persists a new invitation
	Save(ctx context.Context, invitation *Invitation) error

	// Update updates an existing invitation
	Update(ctx context.Context, invitation *Invitation) error

	// FindByToken finds an invitation by its token
	FindByToken(ctx context.Context, token string) (*Invitation, error)

	// FindPendingByWorkspace returns all unaccepted invitations of a workspace
	FindPendingByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*Invitation, error)
}
