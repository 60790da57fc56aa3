package governance

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appbilling "github.com/controlroom/backend/internal/application/billing"
	"github.com/controlroom/backend/internal/domain/billing"
	"github.com/controlroom/backend/internal/domain/governance"
	"github.com/controlroom/backend/internal/domain/shared"
)

// LimitChecker is the slice of the usage service that resource
// creation depends on.
type LimitChecker interface {
	CheckLimit(ctx context.Context, userID uuid.UUID, resourceType billing.ResourceType) (*appbilling.LimitCheckResult, error)
	IncrementUsage(ctx context.Context, userID uuid.UUID, resourceType billing.ResourceType)
	DecrementUsage(ctx context.Context, userID uuid.UUID, resourceType billing.ResourceType)
}

// ResourceService manages workspace resources behind plan-limit
// enforcement. Every create checks the owner's limit first; every
// delete releases one unit of the counter.
type ResourceService struct {
	agentRepo  governance.AgentRepository
	policyRepo governance.PolicyRepository
	metricRepo governance.CustomMetricRepository
	usage      LimitChecker
	logger     *zap.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(
	agentRepo governance.AgentRepository,
	policyRepo governance.PolicyRepository,
	metricRepo governance.CustomMetricRepository,
	usage LimitChecker,
	logger *zap.Logger,
) *ResourceService {
	return &ResourceService{
		agentRepo:  agentRepo,
		policyRepo: policyRepo,
		metricRepo: metricRepo,
		usage:      usage,
		logger:     logger,
	}
}

// guard runs the limit check and converts a denial into a domain error
func (s *ResourceService) guard(ctx context.Context, userID uuid.UUID, resourceType billing.ResourceType) error {
	result, err := s.usage.CheckLimit(ctx, userID, resourceType)
	if err != nil {
		return err
	}
	if !result.Allowed {
		switch result.Reason {
		case appbilling.DenialReasonTrialExpired:
			return shared.ErrTrialExpired
		default:
			return shared.NewDomainError("LIMIT_REACHED", result.Message)
		}
	}
	return nil
}

// CreateAgent creates an agent after checking the creator's plan limit
func (s *ResourceService) CreateAgent(ctx context.Context, workspaceID, userID uuid.UUID, name, description string) (*governance.Agent, error) {
	if err := s.guard(ctx, userID, billing.ResourceTypeAgents); err != nil {
		return nil, err
	}

	agent, err := governance.NewAgent(workspaceID, userID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.agentRepo.Save(ctx, agent); err != nil {
		return nil, err
	}
	s.usage.IncrementUsage(ctx, userID, billing.ResourceTypeAgents)
	return agent, nil
}

// GetAgent returns a workspace's agent
func (s *ResourceService) GetAgent(ctx context.Context, workspaceID, id uuid.UUID) (*governance.Agent, error) {
	return s.agentRepo.FindByID(ctx, workspaceID, id)
}

// ListAgents returns all agents of a workspace
func (s *ResourceService) ListAgents(ctx context.Context, workspaceID uuid.UUID) ([]*governance.Agent, error) {
	return s.agentRepo.FindByWorkspace(ctx, workspaceID)
}

// PauseAgent pauses a running agent
func (s *ResourceService) PauseAgent(ctx context.Context, workspaceID, id uuid.UUID) (*governance.Agent, error) {
	agent, err := s.agentRepo.FindByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	agent.Pause()
	if err := s.agentRepo.Update(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// ResumeAgent resumes a paused agent
func (s *ResourceService) ResumeAgent(ctx context.Context, workspaceID, id uuid.UUID) (*governance.Agent, error) {
	agent, err := s.agentRepo.FindByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	agent.Resume()
	if err := s.agentRepo.Update(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// DeleteAgent deletes an agent and releases one unit of the counter
func (s *ResourceService) DeleteAgent(ctx context.Context, workspaceID, id uuid.UUID) error {
	agent, err := s.agentRepo.FindByID(ctx, workspaceID, id)
	if err != nil {
		return err
	}
	if err := s.agentRepo.Delete(ctx, workspaceID, id); err != nil {
		return err
	}
	s.usage.DecrementUsage(ctx, agent.CreatedBy, billing.ResourceTypeAgents)
	return nil
}

// CreatePolicy creates a policy after checking the creator's plan limit
func (s *ResourceService) CreatePolicy(ctx context.Context, workspaceID, userID uuid.UUID, name, description, rules string) (*governance.Policy, error) {
	if err := s.guard(ctx, userID, billing.ResourceTypePolicies); err != nil {
		return nil, err
	}

	policy, err := governance.NewPolicy(workspaceID, userID, name, description, rules)
	if err != nil {
		return nil, err
	}
	if err := s.policyRepo.Save(ctx, policy); err != nil {
		return nil, err
	}
	s.usage.IncrementUsage(ctx, userID, billing.ResourceTypePolicies)
	return policy, nil
}

// GetPolicy returns a workspace's policy
func (s *ResourceService) GetPolicy(ctx context.Context, workspaceID, id uuid.UUID) (*governance.Policy, error) {
	return s.policyRepo.FindByID(ctx, workspaceID, id)
}

// ListPolicies returns all policies of a workspace
func (s *ResourceService) ListPolicies(ctx context.Context, workspaceID uuid.UUID) ([]*governance.Policy, error) {
	return s.policyRepo.FindByWorkspace(ctx, workspaceID)
}

// DeletePolicy deletes a policy and releases one unit of the counter
func (s *ResourceService) DeletePolicy(ctx context.Context, workspaceID, id uuid.UUID) error {
	policy, err := s.policyRepo.FindByID(ctx, workspaceID, id)
	if err != nil {
		return err
	}
	if err := s.policyRepo.Delete(ctx, workspaceID, id); err != nil {
		return err
	}
	s.usage.DecrementUsage(ctx, policy.CreatedBy, billing.ResourceTypePolicies)
	return nil
}

// CreateMetric creates a custom metric after checking the creator's
// plan limit
func (s *ResourceService) CreateMetric(ctx context.Context, workspaceID, userID uuid.UUID, name, formula, unit string) (*governance.CustomMetric, error) {
	if err := s.guard(ctx, userID, billing.ResourceTypeMetrics); err != nil {
		return nil, err
	}

	metric, err := governance.NewCustomMetric(workspaceID, userID, name, formula, unit)
	if err != nil {
		return nil, err
	}
	if err := s.metricRepo.Save(ctx, metric); err != nil {
		return nil, err
	}
	s.usage.IncrementUsage(ctx, userID, billing.ResourceTypeMetrics)
	return metric, nil
}

// ListMetrics returns all custom metrics of a workspace
func (s *ResourceService) ListMetrics(ctx context.Context, workspaceID uuid.UUID) ([]*governance.CustomMetric, error) {
	return s.metricRepo.FindByWorkspace(ctx, workspaceID)
}

// DeleteMetric deletes a custom metric and releases one unit of the
// counter
func (s *ResourceService) DeleteMetric(ctx context.Context, workspaceID, id uuid.UUID) error {
	metric, err := s.metricRepo.FindByID(ctx, workspaceID, id)
	if err != nil {
		return err
	}
	if err := s.metricRepo.Delete(ctx, workspaceID, id); err != nil {
		return err
	}
	s.usage.DecrementUsage(ctx, metric.CreatedBy, billing.ResourceTypeMetrics)
	return nil
}
