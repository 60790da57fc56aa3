package affiliate

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/controlroom/backend/internal/domain/affiliate"
	"github.com/controlroom/backend/internal/domain/shared"
)

// CommissionRate is the flat referral commission applied to reported
// earnings until per-affiliate contracts exist.
const CommissionRate = 0.30

// AffiliateStatsDTO summarizes an affiliate's performance
type AffiliateStatsDTO struct {
	Code               string  `json:"code"`
	Approved           bool    `json:"approved"`
	Clicks             int64   `json:"clicks"`
	Conversions        int64   `json:"conversions"`
	ConversionRate     float64 `json:"conversion_rate"`
	CommissionRate     float64 `json:"commission_rate"`
	EstimatedEarningsC int64   `json:"estimated_earnings_cents"`
}

// AffiliateService handles referral applications and attribution
type AffiliateService struct {
	repo   affiliate.AffiliateRepository
	logger *zap.Logger

	// conversionValueCents is the assumed value of one referred signup
	// used for the earnings estimate shown on the dashboard.
	conversionValueCents int64
}

// NewAffiliateService creates a new AffiliateService
func NewAffiliateService(repo affiliate.AffiliateRepository, logger *zap.Logger) *AffiliateService {
	return &AffiliateService{
		repo:                 repo,
		logger:               logger,
		conversionValueCents: 2900, // one month of the beginner plan
	}
}

// Apply submits a referral program application. It stays pending until
// an admin approves it.
func (s *AffiliateService) Apply(ctx context.Context, userID uuid.UUID, code, payoutInfo string) (*affiliate.Affiliate, error) {
	if _, err := s.repo.FindByUser(ctx, userID); err == nil {
		return nil, shared.NewDomainError("ALREADY_APPLIED", "You already have a referral account")
	}
	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, shared.NewDomainError("CODE_TAKEN", "This referral code is already in use")
	}

	account, err := affiliate.NewAffiliate(userID, code, payoutInfo)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, account); err != nil {
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("CODE_TAKEN", "This referral code is already in use")
		}
		return nil, err
	}
	return account, nil
}

// Approve marks a pending application as approved
func (s *AffiliateService) Approve(ctx context.Context, affiliateID uuid.UUID) (*affiliate.Affiliate, error) {
	account, err := s.repo.FindByID(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	account.Approve()
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListPending returns unapproved applications for admin review
func (s *AffiliateService) ListPending(ctx context.Context) ([]*affiliate.Affiliate, error) {
	return s.repo.ListPending(ctx)
}

// TrackClick records a landing-page visit carrying a referral code.
// Unknown or unapproved codes are ignored silently so probing the
// endpoint reveals nothing about which codes exist. Returns true when
// the click was attributed, so the caller knows to set the cookie.
func (s *AffiliateService) TrackClick(ctx context.Context, code string) bool {
	account, err := s.repo.FindByCode(ctx, code)
	if err != nil || !account.Approved {
		return false
	}
	if err := s.repo.IncrementClicks(ctx, account.ID); err != nil {
		s.logger.Error("Failed to record referral click",
			zap.String("code", code),
			zap.Error(err))
		return false
	}
	return true
}

// TrackConversion attributes a completed signup to a referral code.
// Best effort: failures are logged and never surface to signup.
func (s *AffiliateService) TrackConversion(ctx context.Context, code string, userID uuid.UUID) {
	account, err := s.repo.FindByCode(ctx, code)
	if err != nil || !account.Approved {
		return
	}
	// Self-referral earns nothing
	if account.UserID == userID {
		return
	}
	if err := s.repo.IncrementConversions(ctx, account.ID); err != nil {
		s.logger.Error("Failed to record referral conversion",
			zap.String("code", code),
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}

// GetStats returns the dashboard numbers for a user's referral account
func (s *AffiliateService) GetStats(ctx context.Context, userID uuid.UUID) (*AffiliateStatsDTO, error) {
	account, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AffiliateStatsDTO{
		Code:               account.Code,
		Approved:           account.Approved,
		Clicks:             account.Clicks,
		Conversions:        account.Conversions,
		ConversionRate:     account.ConversionRate(),
		CommissionRate:     CommissionRate,
		EstimatedEarningsC: int64(float64(account.Conversions) * float64(s.conversionValueCents) * CommissionRate),
	}, nil
}
