package billing

import "github.com/controlroom/backend/internal/domain/identity"

// ResourceType identifies a usage-limited resource class
type ResourceType string

const (
	// ResourceTypeAgents counts deployed agents
	ResourceTypeAgents ResourceType = "agents"

	// ResourceTypePolicies counts governance policies
	ResourceTypePolicies ResourceType = "policies"

	// ResourceTypeMetrics counts custom metrics
	ResourceTypeMetrics ResourceType = "metrics"

	// ResourceTypeAIHelper counts AI-helper calls per calendar day
	ResourceTypeAIHelper ResourceType = "aiHelper"
)

// String returns the string representation of the resource type
func (t ResourceType) String() string {
	return string(t)
}

// IsValid returns true if the resource type is known
func (t ResourceType) IsValid() bool {
	switch t {
	case ResourceTypeAgents, ResourceTypePolicies, ResourceTypeMetrics, ResourceTypeAIHelper:
		return true
	}
	return false
}

// IsDaily returns true for resource types whose counter resets each
// calendar day rather than tracking a live resource count.
func (t ResourceType) IsDaily() bool {
	return t == ResourceTypeAIHelper
}

// DisplayName returns a human-readable name for the resource type
func (t ResourceType) DisplayName() string {
	switch t {
	case ResourceTypeAgents:
		return "Agents"
	case ResourceTypePolicies:
		return "Policies"
	case ResourceTypeMetrics:
		return "Custom Metrics"
	case ResourceTypeAIHelper:
		return "AI Helper (daily)"
	default:
		return string(t)
	}
}

// ParseResourceType parses a resource type from its wire form
func ParseResourceType(s string) (ResourceType, bool) {
	t := ResourceType(s)
	return t, t.IsValid()
}

// AllResourceTypes returns every defined resource type
func AllResourceTypes() []ResourceType {
	return []ResourceType{
		ResourceTypeAgents,
		ResourceTypePolicies,
		ResourceTypeMetrics,
		ResourceTypeAIHelper,
	}
}

// LimitFor selects the plan-table limit matching the resource type.
// A nil result means unlimited.
func (t ResourceType) LimitFor(limits identity.PlanLimits) *int {
	switch t {
	case ResourceTypeAgents:
		return limits.Agents
	case ResourceTypePolicies:
		return limits.Policies
	case ResourceTypeMetrics:
		return limits.Metrics
	case ResourceTypeAIHelper:
		return limits.AIHelperDaily
	default:
		zero := 0
		return &zero
	}
}
