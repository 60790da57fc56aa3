package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/controlroom/backend/internal/domain/billing"
	"github.com/controlroom/backend/internal/domain/shared"
)

// UsageCounterModel is the GORM model for usage counters
type UsageCounterModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Agents        int       `gorm:"not null;default:0"`
	Policies      int       `gorm:"not null;default:0"`
	Metrics       int       `gorm:"not null;default:0"`
	AIHelperToday int       `gorm:"column:ai_helper_today;not null;default:0"`
	LastResetAt   time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UsageCounterModel) TableName() string {
	return "usage_counters"
}

// ToDomain converts the model to a domain entity
func (m *UsageCounterModel) ToDomain() *billing.UsageCounter {
	return &billing.UsageCounter{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:        m.UserID,
		Agents:        m.Agents,
		Policies:      m.Policies,
		Metrics:       m.Metrics,
		AIHelperToday: m.AIHelperToday,
		LastResetAt:   m.LastResetAt,
	}
}

// UsageCounterModelFromDomain converts a domain entity to a model
func UsageCounterModelFromDomain(c *billing.UsageCounter) *UsageCounterModel {
	return &UsageCounterModel{
		ID:            c.ID,
		UserID:        c.UserID,
		Agents:        c.Agents,
		Policies:      c.Policies,
		Metrics:       c.Metrics,
		AIHelperToday: c.AIHelperToday,
		LastResetAt:   c.LastResetAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
