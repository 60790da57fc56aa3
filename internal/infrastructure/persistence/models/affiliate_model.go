package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/controlroom/backend/internal/domain/affiliate"
	"github.com/controlroom/backend/internal/domain/shared"
)

// AffiliateModel is the GORM model for affiliate accounts
type AffiliateModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Code        string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Approved    bool      `gorm:"not null;default:false"`
	Clicks      int64     `gorm:"not null;default:0"`
	Conversions int64     `gorm:"not null;default:0"`
	PayoutInfo  string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AffiliateModel) TableName() string {
	return "affiliates"
}

// ToDomain converts the model to a domain entity
func (m *AffiliateModel) ToDomain() *affiliate.Affiliate {
	return &affiliate.Affiliate{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:      m.UserID,
		Code:        m.Code,
		Approved:    m.Approved,
		Clicks:      m.Clicks,
		Conversions: m.Conversions,
		PayoutInfo:  m.PayoutInfo,
	}
}

// AffiliateModelFromDomain converts a domain entity to a model
func AffiliateModelFromDomain(a *affiliate.Affiliate) *AffiliateModel {
	return &AffiliateModel{
		ID:          a.ID,
		UserID:      a.UserID,
		Code:        a.Code,
		Approved:    a.Approved,
		Clicks:      a.Clicks,
		Conversions: a.Conversions,
		PayoutInfo:  a.PayoutInfo,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
