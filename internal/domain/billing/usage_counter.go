package billing

import (
	"time"

	"github.com/controlroom/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UsageCounter holds the per-user usage counters compared against the
// plan table. There is exactly one counter row per user, created
// lazily on first use.
type UsageCounter struct {
	shared.BaseEntity
	UserID        uuid.UUID
	Agents        int
	Policies      int
	Metrics       int
	AIHelperToday int
	LastResetAt   time.Time
}

// NewUsageCounter creates a zeroed counter for a user
func NewUsageCounter(userID uuid.UUID) *UsageCounter {
	return &UsageCounter{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		LastResetAt: time.Now(),
	}
}

// Current returns the counter value for a resource type
func (c *UsageCounter) Current(t ResourceType) int {
	switch t {
	case ResourceTypeAgents:
		return c.Agents
	case ResourceTypePolicies:
		return c.Policies
	case ResourceTypeMetrics:
		return c.Metrics
	case ResourceTypeAIHelper:
		return c.AIHelperToday
	}
	return 0
}

// sameCalendarDay compares two instants by calendar date, not elapsed
// duration, in the local timezone.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ResetDailyIfStale zeroes the AI-helper daily counter the first time
// the counter is touched on a calendar date different from its stored
// reset date. Returns true if a reset happened.
func (c *UsageCounter) ResetDailyIfStale(now time.Time) bool {
	if sameCalendarDay(c.LastResetAt, now) {
		return false
	}
	c.AIHelperToday = 0
	c.LastResetAt = now
	c.UpdatedAt = now
	return true
}
