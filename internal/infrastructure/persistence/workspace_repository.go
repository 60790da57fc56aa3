package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/domain/shared"
)

// GormWorkspaceRepository implements WorkspaceRepository using GORM
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewGormWorkspaceRepository creates a new GormWorkspaceRepository
func NewGormWorkspaceRepository(db *gorm.DB) *GormWorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// Save persists a new workspace
func (r *GormWorkspaceRepository) Save(ctx context.Context, workspace *identity.Workspace) error {
	return r.db.WithContext(ctx).Create(workspace).Error
}

// FindByID finds a workspace by ID
func (r *GormWorkspaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Workspace, error) {
	var workspace identity.Workspace
	if err := r.db.WithContext(ctx).First(&workspace, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

// FindForUser returns all workspaces the user is a member of
func (r *GormWorkspaceRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]*identity.Workspace, error) {
	var workspaces []*identity.Workspace
	err := r.db.WithContext(ctx).
		Joins("JOIN workspace_memberships ON workspace_memberships.workspace_id = workspaces.id").
		Where("workspace_memberships.user_id = ?", userID).
		Order("workspaces.created_at ASC").
		Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Delete removes a workspace and its memberships
func (r *GormWorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ?", id).Delete(&identity.Membership{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&identity.Workspace{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ identity.WorkspaceRepository = (*GormWorkspaceRepository)(nil)

// GormMembershipRepository implements MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Save persists a new membership
func (r *GormMembershipRepository) Save(ctx context.Context, membership *identity.Membership) error {
	err := r.db.WithContext(ctx).Create(membership).Error
	if err != nil && isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Update updates an existing membership
func (r *GormMembershipRepository) Update(ctx context.Context, membership *identity.Membership) error {
	result := r.db.WithContext(ctx).Save(membership)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Find returns the membership of a user in a workspace
func (r *GormMembershipRepository) Find(ctx context.Context, workspaceID, userID uuid.UUID) (*identity.Membership, error) {
	var membership identity.Membership
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &membership, nil
}

// FindByWorkspace returns all memberships of a workspace
func (r *GormMembershipRepository) FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*identity.Membership, error) {
	var memberships []*identity.Membership
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountByRole returns the number of members holding a role in a workspace
func (r *GormMembershipRepository) CountByRole(ctx context.Context, workspaceID uuid.UUID, role identity.WorkspaceRole) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&identity.Membership{}).
		Where("workspace_id = ? AND role = ?", workspaceID, role).
		Count(&count).Error
	return count, err
}

// Delete removes a membership
func (r *GormMembershipRepository) Delete(ctx context.Context, workspaceID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&identity.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ identity.MembershipRepository = (*GormMembershipRepository)(nil)

// GormInvitationRepository implements InvitationRepository using GORM
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Save persists a new invitation
func (r *GormInvitationRepository) Save(ctx context.Context, invitation *identity.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

// Update updates an existing invitation
func (r *GormInvitationRepository) Update(ctx context.Context, invitation *identity.Invitation) error {
	result := r.db.WithContext(ctx).Save(invitation)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByToken finds an invitation by its token
func (r *GormInvitationRepository) FindByToken(ctx context.Context, token string) (*identity.Invitation, error) {
	if token == "" {
		return nil, shared.ErrNotFound
	}
	var invitation identity.Invitation
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// FindPendingByWorkspace returns all unaccepted invitations of a workspace
func (r *GormInvitationRepository) FindPendingByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*identity.Invitation, error) {
	var invitations []*identity.Invitation
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND accepted_at IS NULL", workspaceID).
		Order("created_at ASC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

var _ identity.InvitationRepository = (*GormInvitationRepository)(nil)
