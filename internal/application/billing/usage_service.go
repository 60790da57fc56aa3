package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/controlroom/backend/internal/domain/billing"
	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/domain/shared"
)

// Denial reasons returned by CheckLimit
const (
	DenialReasonLimitReached = "LIMIT_REACHED"
	DenialReasonTrialExpired = "TRIAL_EXPIRED"
	DenialReasonCheckFailed  = "CHECK_FAILED"
)

// LimitCheckResult is the outcome of a limit check
type LimitCheckResult struct {
	Allowed      bool                 `json:"allowed"`
	ResourceType billing.ResourceType `json:"resource_type"`
	CurrentUsage int                  `json:"current_usage"`
	Limit        *int                 `json:"limit"` // nil means unlimited
	Reason       string               `json:"reason,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// ResourceUsageDTO contains usage detail for a single resource type
type ResourceUsageDTO struct {
	ResourceType string `json:"resource_type"`
	DisplayName  string `json:"display_name"`
	CurrentUsage int    `json:"current_usage"`
	Limit        *int   `json:"limit"` // nil means unlimited
	Remaining    *int   `json:"remaining,omitempty"`
}

// UsageSummaryDTO contains the full usage picture for a user
type UsageSummaryDTO struct {
	UserID      uuid.UUID          `json:"user_id"`
	Plan        string             `json:"plan"`
	TrialEndsAt *time.Time         `json:"trial_ends_at,omitempty"`
	Resources   []ResourceUsageDTO `json:"resources"`
}

// UsageService enforces the plan table against per-user usage counters.
// Limit checks fail closed: when a check cannot be completed the
// operation is denied rather than allowed through.
type UsageService struct {
	userRepo    identity.UserRepository
	counterRepo billing.UsageCounterRepository
	logger      *zap.Logger
}

// NewUsageService creates a new UsageService
func NewUsageService(
	userRepo identity.UserRepository,
	counterRepo billing.UsageCounterRepository,
	logger *zap.Logger,
) *UsageService {
	return &UsageService{
		userRepo:    userRepo,
		counterRepo: counterRepo,
		logger:      logger,
	}
}

// CheckLimit determines whether the user may create one more unit of
// the resource. The comparison is strict: creation is allowed only
// while current usage is below the limit. A nil limit means unlimited.
//
// The check and the later increment are not atomic as a pair; two
// concurrent creations near the limit can both pass. Limits here are
// a billing guardrail, not an exact concurrency barrier.
func (s *UsageService) CheckLimit(ctx context.Context, userID uuid.UUID, resourceType billing.ResourceType) (*LimitCheckResult, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !resourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RESOURCE_TYPE", "Unknown resource type")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to load user for limit check",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return s.denied(resourceType, 0, nil, DenialReasonCheckFailed,
			"Could not verify usage limits"), nil
	}

	if user.IsTrialExpired() {
		return s.denied(resourceType, 0, nil, DenialReasonTrialExpired,
			"Your trial has expired. Upgrade to keep creating resources."), nil
	}

	counter, err := s.counterRepo.FindOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load usage counter",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return s.denied(resourceType, 0, nil, DenialReasonCheckFailed,
			"Could not verify usage limits"), nil
	}

	// Daily counters reset lazily on the first touch of a new calendar day
	if resourceType.IsDaily() && counter.ResetDailyIfStale(time.Now()) {
		if err := s.counterRepo.ResetDaily(ctx, userID, counter.LastResetAt); err != nil {
			s.logger.Error("Failed to persist daily usage reset",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			return s.denied(resourceType, counter.Current(resourceType), nil,
				DenialReasonCheckFailed, "Could not verify usage limits"), nil
		}
	}

	current := counter.Current(resourceType)
	limit := resourceType.LimitFor(identity.LimitsFor(user.Plan))

	if identity.IsUnlimited(limit) {
		return &LimitCheckResult{
			Allowed:      true,
			ResourceType: resourceType,
			CurrentUsage: current,
		}, nil
	}

	if current >= *limit {
		return s.denied(resourceType, current, limit, DenialReasonLimitReached,
			fmt.Sprintf("%s limit reached (%d/%d). Upgrade your plan to create more.",
				resourceType.DisplayName(), current, *limit)), nil
	}

	return &LimitCheckResult{
		Allowed:      true,
		ResourceType: resourceType,
		CurrentUsage: current,
		Limit:        limit,
	}, nil
}

func (s *UsageService) denied(resourceType billing.ResourceType, current int, limit *int, reason, message string) *LimitCheckResult {
	return &LimitCheckResult{
		Allowed:      false,
		ResourceType: resourceType,
		CurrentUsage: current,
		Limit:        limit,
		Reason:       reason,
		Message:      message,
	}
}

// rollDailyWindow applies the lazy calendar-day reset before a daily
// counter is touched, so an increment starting a new day lands on a
// zeroed window instead of yesterday's total.
func (s *UsageService) rollDailyWindow(ctx context.Context, userID uuid.UUID) error {
	counter, err := s.counterRepo.FindOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if counter.ResetDailyIfStale(time.Now()) {
		return s.counterRepo.ResetDaily(ctx, userID, counter.LastResetAt)
	}
	return nil
}

// IncrementUsage records one created unit of the resource. Counter
// failures are logged and swallowed so resource creation never rolls
// back over bookkeeping; drift is corrected by reconciliation, not by
// failing the user's request.
func (s *UsageService) IncrementUsage(ctx context.Context, userID uuid.UUID, resourceType billing.ResourceType) {
	if resourceType.IsDaily() {
		if err := s.rollDailyWindow(ctx, userID); err != nil {
			s.logger.Error("Failed to roll daily usage window",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}
	if err := s.counterRepo.Increment(ctx, userID, resourceType); err != nil {
		s.logger.Error("Failed to increment usage counter",
			zap.String("user_id", userID.String()),
			zap.String("resource_type", resourceType.String()),
			zap.Error(err))
	}
}

// DecrementUsage records one deleted unit of the resource. Failures
// are logged and swallowed, same as IncrementUsage.
func (s *UsageService) DecrementUsage(ctx context.Context, userID uuid.UUID, resourceType billing.ResourceType) {
	if err := s.counterRepo.Decrement(ctx, userID, resourceType); err != nil {
		s.logger.Error("Failed to decrement usage counter",
			zap.String("user_id", userID.String()),
			zap.String("resource_type", resourceType.String()),
			zap.Error(err))
	}
}

// ConsumeAIHelper spends one call from the daily AI-helper allowance.
// Unlike the create/delete counters this is the authoritative
// consumption path for helper invocations: the call is denied outright
// when the allowance is exhausted, and the spent unit is recorded
// before the helper runs. CheckLimit has already rolled the daily
// window, so the increment lands on the current day.
func (s *UsageService) ConsumeAIHelper(ctx context.Context, userID uuid.UUID) (*LimitCheckResult, error) {
	result, err := s.CheckLimit(ctx, userID, billing.ResourceTypeAIHelper)
	if err != nil {
		return nil, err
	}
	if !result.Allowed {
		switch result.Reason {
		case DenialReasonTrialExpired:
			return nil, shared.ErrTrialExpired
		default:
			return nil, shared.NewDomainError("LIMIT_REACHED", result.Message)
		}
	}
	if err := s.counterRepo.Increment(ctx, userID, billing.ResourceTypeAIHelper); err != nil {
		return nil, err
	}
	result.CurrentUsage++
	return result, nil
}

// HasFeatureAccess reports whether the user's plan includes a feature
func (s *UsageService) HasFeatureAccess(ctx context.Context, userID uuid.UUID, feature identity.FeatureKey) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == shared.ErrNotFound {
			return false, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return false, err
	}
	if user.IsTrialExpired() {
		return false, nil
	}
	return identity.HasFeature(user.Plan, feature), nil
}

// GetUsageSummary returns current usage against plan limits for every
// resource type.
func (s *UsageService) GetUsageSummary(ctx context.Context, userID uuid.UUID) (*UsageSummaryDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}

	counter, err := s.counterRepo.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if counter.ResetDailyIfStale(time.Now()) {
		if err := s.counterRepo.ResetDaily(ctx, userID, counter.LastResetAt); err != nil {
			s.logger.Warn("Failed to persist daily usage reset",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}

	limits := identity.LimitsFor(user.Plan)
	resources := make([]ResourceUsageDTO, 0, len(billing.AllResourceTypes()))
	for _, rt := range billing.AllResourceTypes() {
		current := counter.Current(rt)
		limit := rt.LimitFor(limits)

		dto := ResourceUsageDTO{
			ResourceType: rt.String(),
			DisplayName:  rt.DisplayName(),
			CurrentUsage: current,
			Limit:        limit,
		}
		if !identity.IsUnlimited(limit) {
			remaining := *limit - current
			if remaining < 0 {
				remaining = 0
			}
			dto.Remaining = &remaining
		}
		resources = append(resources, dto)
	}

	return &UsageSummaryDTO{
		UserID:      user.ID,
		Plan:        string(user.Plan),
		TrialEndsAt: user.TrialEndsAt,
		Resources:   resources,
	}, nil
}
