package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/domain/shared"
)

// MemberDTO combines a membership with the member's account details
type MemberDTO struct {
	UserID uuid.UUID              `json:"user_id"`
	Email  string                 `json:"email"`
	Name   string                 `json:"name"`
	Role   identity.WorkspaceRole `json:"role"`
}

// WorkspaceService handles workspace lifecycle and membership management
type WorkspaceService struct {
	workspaceRepo  identity.WorkspaceRepository
	membershipRepo identity.MembershipRepository
	invitationRepo identity.InvitationRepository
	userRepo       identity.UserRepository
	logger         *zap.Logger
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(
	workspaceRepo identity.WorkspaceRepository,
	membershipRepo identity.MembershipRepository,
	invitationRepo identity.InvitationRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo:  workspaceRepo,
		membershipRepo: membershipRepo,
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// Create creates a workspace with the creator as its first admin
func (s *WorkspaceService) Create(ctx context.Context, name string, ownerID uuid.UUID) (*identity.Workspace, error) {
	workspace, err := identity.NewWorkspace(name, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.workspaceRepo.Save(ctx, workspace); err != nil {
		return nil, err
	}

	membership, err := identity.NewMembership(workspace.ID, ownerID, identity.WorkspaceRoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Save(ctx, membership); err != nil {
		return nil, err
	}
	return workspace, nil
}

// Get returns a workspace by ID
func (s *WorkspaceService) Get(ctx context.Context, id uuid.UUID) (*identity.Workspace, error) {
	return s.workspaceRepo.FindByID(ctx, id)
}

// ListForUser returns all workspaces the user belongs to
func (s *WorkspaceService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*identity.Workspace, error) {
	return s.workspaceRepo.FindForUser(ctx, userID)
}

// GetMembership returns the caller's membership in a workspace
func (s *WorkspaceService) GetMembership(ctx context.Context, workspaceID, userID uuid.UUID) (*identity.Membership, error) {
	return s.membershipRepo.Find(ctx, workspaceID, userID)
}

// ListMembers returns all members of a workspace with account details
func (s *WorkspaceService) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]MemberDTO, error) {
	memberships, err := s.membershipRepo.FindByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	members := make([]MemberDTO, 0, len(memberships))
	for _, m := range memberships {
		dto := MemberDTO{UserID: m.UserID, Role: m.Role}
		if user, err := s.userRepo.FindByID(ctx, m.UserID); err == nil {
			dto.Email = user.Email
			dto.Name = user.Name
		}
		members = append(members, dto)
	}
	return members, nil
}

// Invite creates an invitation for an email address
func (s *WorkspaceService) Invite(ctx context.Context, workspaceID uuid.UUID, email string, role identity.WorkspaceRole) (*identity.Invitation, error) {
	if _, err := s.workspaceRepo.FindByID(ctx, workspaceID); err != nil {
		return nil, err
	}

	token := uuid.NewString()
	invitation, err := identity.NewInvitation(workspaceID, email, role, token)
	if err != nil {
		return nil, err
	}
	if err := s.invitationRepo.Save(ctx, invitation); err != nil {
		return nil, err
	}
	return invitation, nil
}

// ListPendingInvitations returns unaccepted invitations of a workspace
func (s *WorkspaceService) ListPendingInvitations(ctx context.Context, workspaceID uuid.UUID) ([]*identity.Invitation, error) {
	return s.invitationRepo.FindPendingByWorkspace(ctx, workspaceID)
}

// ChangeMemberRole changes a member's role. Demoting the last admin is
// rejected so a workspace is never left unmanageable.
func (s *WorkspaceService) ChangeMemberRole(ctx context.Context, workspaceID, userID uuid.UUID, role identity.WorkspaceRole) (*identity.Membership, error) {
	membership, err := s.membershipRepo.Find(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	if membership.Role == identity.WorkspaceRoleAdmin && role != identity.WorkspaceRoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, workspaceID); err != nil {
			return nil, err
		}
	}

	if err := membership.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// RemoveMember removes a member from a workspace. Removing the last
// admin is rejected.
func (s *WorkspaceService) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	membership, err := s.membershipRepo.Find(ctx, workspaceID, userID)
	if err != nil {
		return err
	}

	if membership.Role == identity.WorkspaceRoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, workspaceID); err != nil {
			return err
		}
	}
	return s.membershipRepo.Delete(ctx, workspaceID, userID)
}

func (s *WorkspaceService) ensureNotLastAdmin(ctx context.Context, workspaceID uuid.UUID) error {
	admins, err := s.membershipRepo.CountByRole(ctx, workspaceID, identity.WorkspaceRoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return shared.ErrLastAdmin
	}
	return nil
}
