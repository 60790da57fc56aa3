package governance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/controlroom/backend/internal/application/billing"
	"github.com/controlroom/backend/internal/domain/billing"
	"github.com/controlroom/backend/internal/domain/governance"
	"github.com/controlroom/backend/internal/domain/shared"
)

// MockAgentRepository is a mock implementation of governance.AgentRepository
type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) Save(ctx context.Context, agent *governance.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, agent *governance.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockAgentRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*governance.Agent, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*governance.Agent, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*governance.Agent), args.Error(1)
}

func (m *MockAgentRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

// fakeLimitChecker records usage calls and serves a canned check result
type fakeLimitChecker struct {
	result     *appbilling.LimitCheckResult
	increments []billing.ResourceType
	decrements []billing.ResourceType
}

func (f *fakeLimitChecker) CheckLimit(_ context.Context, _ uuid.UUID, _ billing.ResourceType) (*appbilling.LimitCheckResult, error) {
	return f.result, nil
}

func (f *fakeLimitChecker) IncrementUsage(_ context.Context, _ uuid.UUID, resourceType billing.ResourceType) {
	f.increments = append(f.increments, resourceType)
}

func (f *fakeLimitChecker) DecrementUsage(_ context.Context, _ uuid.UUID, resourceType billing.ResourceType) {
	f.decrements = append(f.decrements, resourceType)
}

func allowAll() *fakeLimitChecker {
	return &fakeLimitChecker{result: &appbilling.LimitCheckResult{Allowed: true}}
}

func denyWith(reason, message string) *fakeLimitChecker {
	return &fakeLimitChecker{result: &appbilling.LimitCheckResult{
		Allowed: false, Reason: reason, Message: message,
	}}
}

func TestResourceService_CreateAgent(t *testing.T) {
	ctx := context.Background()
	workspaceID := uuid.New()
	userID := uuid.New()

	t.Run("creates and increments when under the limit", func(t *testing.T) {
		agentRepo := new(MockAgentRepository)
		usage := allowAll()
		service := NewResourceService(agentRepo, nil, nil, usage, zap.NewNop())

		agentRepo.On("Save", ctx, mock.AnythingOfType("*governance.Agent")).Return(nil)

		agent, err := service.CreateAgent(ctx, workspaceID, userID, "crawler", "scrapes listings")
		require.NoError(t, err)
		assert.Equal(t, workspaceID, agent.WorkspaceID)
		assert.Equal(t, userID, agent.CreatedBy)
		assert.Equal(t, []billing.ResourceType{billing.ResourceTypeAgents}, usage.increments)
	})

	t.Run("limit denial blocks creation", func(t *testing.T) {
		agentRepo := new(MockAgentRepository)
		usage := denyWith(appbilling.DenialReasonLimitReached, "Agent limit reached for your plan")
		service := NewResourceService(agentRepo, nil, nil, usage, zap.NewNop())

		_, err := service.CreateAgent(ctx, workspaceID, userID, "crawler", "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "LIMIT_REACHED", domainErr.Code)
		agentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, usage.increments)
	})

	t.Run("expired trial denial maps to trial error", func(t *testing.T) {
		agentRepo := new(MockAgentRepository)
		usage := denyWith(appbilling.DenialReasonTrialExpired, "Trial period has expired")
		service := NewResourceService(agentRepo, nil, nil, usage, zap.NewNop())

		_, err := service.CreateAgent(ctx, workspaceID, userID, "crawler", "")
		assert.ErrorIs(t, err, shared.ErrTrialExpired)
	})

	t.Run("failed save does not increment", func(t *testing.T) {
		agentRepo := new(MockAgentRepository)
		usage := allowAll()
		service := NewResourceService(agentRepo, nil, nil, usage, zap.NewNop())

		agentRepo.On("Save", ctx, mock.Anything).Return(assert.AnError)

		_, err := service.CreateAgent(ctx, workspaceID, userID, "crawler", "")
		assert.Error(t, err)
		assert.Empty(t, usage.increments)
	})
}

func TestResourceService_DeleteAgent(t *testing.T) {
	ctx := context.Background()
	workspaceID := uuid.New()
	creatorID := uuid.New()

	t.Run("releases one unit against the creator", func(t *testing.T) {
		agentRepo := new(MockAgentRepository)
		usage := allowAll()
		service := NewResourceService(agentRepo, nil, nil, usage, zap.NewNop())

		agent, err := governance.NewAgent(workspaceID, creatorID, "crawler", "")
		require.NoError(t, err)

		agentRepo.On("FindByID", ctx, workspaceID, agent.ID).Return(agent, nil)
		agentRepo.On("Delete", ctx, workspaceID, agent.ID).Return(nil)

		require.NoError(t, service.DeleteAgent(ctx, workspaceID, agent.ID))
		assert.Equal(t, []billing.ResourceType{billing.ResourceTypeAgents}, usage.decrements)
	})

	t.Run("missing agent does not decrement", func(t *testing.T) {
		agentRepo := new(MockAgentRepository)
		usage := allowAll()
		service := NewResourceService(agentRepo, nil, nil, usage, zap.NewNop())

		id := uuid.New()
		agentRepo.On("FindByID", ctx, workspaceID, id).Return(nil, shared.ErrNotFound)

		err := service.DeleteAgent(ctx, workspaceID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Empty(t, usage.decrements)
	})
}

func TestResourceService_PauseResume(t *testing.T) {
	ctx := context.Background()
	workspaceID := uuid.New()

	agentRepo := new(MockAgentRepository)
	service := NewResourceService(agentRepo, nil, nil, allowAll(), zap.NewNop())

	agent, err := governance.NewAgent(workspaceID, uuid.New(), "crawler", "")
	require.NoError(t, err)

	agentRepo.On("FindByID", ctx, workspaceID, agent.ID).Return(agent, nil)
	agentRepo.On("Update", ctx, agent).Return(nil)

	paused, err := service.PauseAgent(ctx, workspaceID, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, governance.AgentStatusPaused, paused.Status)

	resumed, err := service.ResumeAgent(ctx, workspaceID, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, governance.AgentStatusActive, resumed.Status)
}
