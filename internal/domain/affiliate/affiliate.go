package affiliate

import (
	"context"
	"strings"
	"time"

	"github.com/controlroom/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReferralCookieTTL is how long a click attribution lasts.
const ReferralCookieTTL = 30 * 24 * time.Hour

// Affiliate is a user's referral account. At most one exists per user;
// it must be approved by an admin before codes attribute clicks.
type Affiliate struct {
	shared.BaseEntity
	UserID      uuid.UUID
	Code        string
	Approved    bool
	Clicks      int64
	Conversions int64
	PayoutInfo  string
}

// NewAffiliate creates a pending (unapproved) affiliate application
func NewAffiliate(userID uuid.UUID, code, payoutInfo string) (*Affiliate, error) {
	code = strings.TrimSpace(code)
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if len(code) < 4 {
		return nil, shared.NewDomainError("INVALID_CODE", "Referral code must be at least 4 characters")
	}
	return &Affiliate{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Code:       code,
		PayoutInfo: payoutInfo,
	}, nil
}

// Approve marks the affiliate as approved; only approved codes
// attribute clicks and conversions.
func (a *Affiliate) Approve() {
	a.Approved = true
	a.UpdatedAt = time.Now()
}

// ConversionRate returns conversions per click, 0 when no clicks
func (a *Affiliate) ConversionRate() float64 {
	if a.Clicks == 0 {
		return 0
	}
	return float64(a.Conversions) / float64(a.Clicks)
}

// AffiliateRepository defines the interface for affiliate persistence.
// IncrementClicks and IncrementConversions are single atomic
// statements; attribution never reads-modifies-writes a counter.
type AffiliateRepository interface {
	// Save persists a new affiliate
	Save(ctx context.Context, affiliate *Affiliate) error

	// Update updates an existing affiliate
	Update(ctx context.Context, affiliate *Affiliate) error

	// FindByID finds an affiliate by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Affiliate, error)

	// FindByUser finds the affiliate belonging to a user
	FindByUser(ctx context.Context, userID uuid.UUID) (*Affiliate, error)

	// FindByCode finds an affiliate by its referral code
	FindByCode(ctx context.Context, code string) (*Affiliate, error)

	// IncrementClicks atomically adds 1 to the click counter
	IncrementClicks(ctx context.Context, id uuid.UUID) error

	// IncrementConversions atomically adds 1 to the conversion counter
	IncrementConversions(ctx context.Context, id uuid.UUID) error

	// ListPending returns unapproved applications, oldest first
	ListPending(ctx context.Context) ([]*Affiliate, error)
}
