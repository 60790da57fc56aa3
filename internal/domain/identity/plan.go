package identity

// Plan represents the subscription plan of a user
type Plan string

const (
	PlanTrial      Plan = "trial"
	PlanBeginner   Plan = "beginner"
	PlanUnlimited  Plan = "unlimited"
	PlanEnterprise Plan = "enterprise"
)

// IsValid returns true if the plan is a known plan
func (p Plan) IsValid() bool {
	switch p {
	case PlanTrial, PlanBeginner, PlanUnlimited, PlanEnterprise:
		return true
	}
	return false
}

// String returns the string representation of the plan
func (p Plan) String() string {
	return string(p)
}

// FeatureKey represents a unique identifier for a plan feature
type FeatureKey string

const (
	FeatureCodeEditor         FeatureKey = "code_editor"
	FeatureRealTimeMetrics    FeatureKey = "real_time_metrics"
	FeatureAffiliateDashboard FeatureKey = "affiliate_dashboard"
	FeatureAuditLogs          FeatureKey = "audit_logs"
)

// PlanFeatures defines the boolean feature flags of a plan
type PlanFeatures struct {
	CodeEditor         bool
	RealTimeMetrics    bool
	AffiliateDashboard bool
	AuditLogs          bool
}

// PlanLimits defines the numeric limits of a plan.
// A nil limit means unlimited.
type PlanLimits struct {
	Agents        *int
	Policies      *int
	Metrics       *int
	AIHelperDaily *int
	Features      PlanFeatures
}

// IsUnlimited returns true when the given limit allows unbounded usage
func IsUnlimited(limit *int) bool {
	return limit == nil
}

// LimitsFor returns the static limit table entry for a plan.
// The table is defined exhaustively; unknown plans fall back to
// the trial entry so a corrupted plan value never grants capacity.
func LimitsFor(plan Plan) PlanLimits {
	switch plan {
	case PlanTrial:
		return PlanLimits{
			Agents:        limit(1),
			Policies:      limit(1),
			Metrics:       limit(1),
			AIHelperDaily: limit(5),
			Features:      PlanFeatures{},
		}
	case PlanBeginner:
		return PlanLimits{
			Agents:        limit(3),
			Policies:      limit(2),
			Metrics:       limit(5),
			AIHelperDaily: limit(25),
			Features: PlanFeatures{
				CodeEditor:         true,
				AffiliateDashboard: true,
			},
		}
	case PlanUnlimited:
		return PlanLimits{
			Features: PlanFeatures{
				CodeEditor:         true,
				RealTimeMetrics:    true,
				AffiliateDashboard: true,
			},
		}
	case PlanEnterprise:
		return PlanLimits{
			Features: PlanFeatures{
				CodeEditor:         true,
				RealTimeMetrics:    true,
				AffiliateDashboard: true,
				AuditLogs:          true,
			},
		}
	default:
		return LimitsFor(PlanTrial)
	}
}

// HasFeature returns true if the plan enables the given feature
func HasFeature(plan Plan, key FeatureKey) bool {
	features := LimitsFor(plan).Features
	switch key {
	case FeatureCodeEditor:
		return features.CodeEditor
	case FeatureRealTimeMetrics:
		return features.RealTimeMetrics
	case FeatureAffiliateDashboard:
		return features.AffiliateDashboard
	case FeatureAuditLogs:
		return features.AuditLogs
	}
	return false
}

// AllPlans returns every defined plan
func AllPlans() []Plan {
	return []Plan{PlanTrial, PlanBeginner, PlanUnlimited, PlanEnterprise}
}

// AllFeatureKeys returns every defined feature key
func AllFeatureKeys() []FeatureKey {
	return []FeatureKey{
		FeatureCodeEditor,
		FeatureRealTimeMetrics,
		FeatureAffiliateDashboard,
		FeatureAuditLogs,
	}
}

func limit(n int) *int {
	return &n
}
