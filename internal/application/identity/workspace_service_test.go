package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/domain/shared"
)

// MockWorkspaceRepository is a mock implementation of identity.WorkspaceRepository
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Save(ctx context.Context, workspace *identity.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]*identity.Workspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newWorkspaceService() (*WorkspaceService, *MockWorkspaceRepository, *MockMembershipRepository, *MockInvitationRepository, *MockUserRepository) {
	workspaces := new(MockWorkspaceRepository)
	memberships := new(MockMembershipRepository)
	invitations := new(MockInvitationRepository)
	users := new(MockUserRepository)
	service := NewWorkspaceService(workspaces, memberships, invitations, users, zap.NewNop())
	return service, workspaces, memberships, invitations, users
}

func TestWorkspaceService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	service, workspaces, memberships, _, _ := newWorkspaceService()
	workspaces.On("Save", ctx, mock.AnythingOfType("*identity.Workspace")).Return(nil)
	memberships.On("Save", ctx, mock.MatchedBy(func(m *identity.Membership) bool {
		return m.UserID == ownerID && m.Role == identity.WorkspaceRoleAdmin
	})).Return(nil)

	workspace, err := service.Create(ctx, "Acme Ops", ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, workspace.OwnerID)
	memberships.AssertExpectations(t)
}

func TestWorkspaceService_ChangeMemberRole(t *testing.T) {
	ctx := context.Background()
	workspaceID := uuid.New()
	userID := uuid.New()

	t.Run("demoting the last admin is rejected", func(t *testing.T) {
		service, _, memberships, _, _ := newWorkspaceService()
		membership, err := identity.NewMembership(workspaceID, userID, identity.WorkspaceRoleAdmin)
		require.NoError(t, err)

		memberships.On("Find", ctx, workspaceID, userID).Return(membership, nil)
		memberships.On("CountByRole", ctx, workspaceID, identity.WorkspaceRoleAdmin).Return(int64(1), nil)

		_, err = service.ChangeMemberRole(ctx, workspaceID, userID, identity.WorkspaceRoleViewer)
		assert.ErrorIs(t, err, shared.ErrLastAdmin)
		assert.Equal(t, identity.WorkspaceRoleAdmin, membership.Role)
		memberships.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("demotion succeeds when another admin remains", func(t *testing.T) {
		service, _, memberships, _, _ := newWorkspaceService()
		membership, err := identity.NewMembership(workspaceID, userID, identity.WorkspaceRoleAdmin)
		require.NoError(t, err)

		memberships.On("Find", ctx, workspaceID, userID).Return(membership, nil)
		memberships.On("CountByRole", ctx, workspaceID, identity.WorkspaceRoleAdmin).Return(int64(2), nil)
		memberships.On("Update", ctx, membership).Return(nil)

		updated, err := service.ChangeMemberRole(ctx, workspaceID, userID, identity.WorkspaceRoleManager)
		require.NoError(t, err)
		assert.Equal(t, identity.WorkspaceRoleManager, updated.Role)
	})

	t.Run("promoting a non-admin needs no admin count", func(t *testing.T) {
		service, _, memberships, _, _ := newWorkspaceService()
		membership, err := identity.NewMembership(workspaceID, userID, identity.WorkspaceRoleViewer)
		require.NoError(t, err)

		memberships.On("Find", ctx, workspaceID, userID).Return(membership, nil)
		memberships.On("Update", ctx, membership).Return(nil)

		_, err = service.ChangeMemberRole(ctx, workspaceID, userID, identity.WorkspaceRoleAdmin)
		require.NoError(t, err)
		memberships.AssertNotCalled(t, "CountByRole", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWorkspaceService_RemoveMember(t *testing.T) {
	ctx := context.Background()
	workspaceID := uuid.New()
	userID := uuid.New()

	t.Run("removing the last admin is rejected", func(t *testing.T) {
		service, _, memberships, _, _ := newWorkspaceService()
		membership, err := identity.NewMembership(workspaceID, userID, identity.WorkspaceRoleAdmin)
		require.NoError(t, err)

		memberships.On("Find", ctx, workspaceID, userID).Return(membership, nil)
		memberships.On("CountByRole", ctx, workspaceID, identity.WorkspaceRoleAdmin).Return(int64(1), nil)

		err = service.RemoveMember(ctx, workspaceID, userID)
		assert.ErrorIs(t, err, shared.ErrLastAdmin)
		memberships.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removing a viewer succeeds", func(t *testing.T) {
		service, _, memberships, _, _ := newWorkspaceService()
		membership, err := identity.NewMembership(workspaceID, userID, identity.WorkspaceRoleViewer)
		require.NoError(t, err)

		memberships.On("Find", ctx, workspaceID, userID).Return(membership, nil)
		memberships.On("Delete", ctx, workspaceID, userID).Return(nil)

		require.NoError(t, service.RemoveMember(ctx, workspaceID, userID))
	})
}

func TestWorkspaceService_Invite(t *testing.T) {
	ctx := context.Background()
	workspaceID := uuid.New()

	t.Run("creates a tokened invitation", func(t *testing.T) {
		service, workspaces, _, invitations, _ := newWorkspaceService()
		workspace, err := identity.NewWorkspace("Acme Ops", uuid.New())
		require.NoError(t, err)

		workspaces.On("FindByID", ctx, workspaceID).Return(workspace, nil)
		invitations.On("Save", ctx, mock.AnythingOfType("*identity.Invitation")).Return(nil)

		invitation, err := service.Invite(ctx, workspaceID, "bob@example.com", identity.WorkspaceRoleSeller)
		require.NoError(t, err)
		assert.NotEmpty(t, invitation.Token)
		assert.Equal(t, identity.WorkspaceRoleSeller, invitation.Role)
	})

	t.Run("unknown workspace fails", func(t *testing.T) {
		service, workspaces, _, _, _ := newWorkspaceService()
		workspaces.On("FindByID", ctx, workspaceID).Return(nil, shared.ErrNotFound)

		_, err := service.Invite(ctx, workspaceID, "bob@example.com", identity.WorkspaceRoleViewer)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
