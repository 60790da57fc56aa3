package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/controlroom/backend/internal/domain/billing"
	"github.com/controlroom/backend/internal/domain/shared"
	"github.com/controlroom/backend/internal/infrastructure/persistence/models"
)

// GormUsageCounterRepository implements UsageCounterRepository using GORM
type GormUsageCounterRepository struct {
	db *gorm.DB
}

// NewGormUsageCounterRepository creates a new GormUsageCounterRepository
func NewGormUsageCounterRepository(db *gorm.DB) *GormUsageCounterRepository {
	return &GormUsageCounterRepository{db: db}
}

// counterColumn maps a resource type to its counter column
func counterColumn(resourceType billing.ResourceType) (string, error) {
	switch resourceType {
	case billing.ResourceTypeAgents:
		return "agents", nil
	case billing.ResourceTypePolicies:
		return "policies", nil
	case billing.ResourceTypeMetrics:
		return "metrics", nil
	case billing.ResourceTypeAIHelper:
		return "ai_helper_today", nil
	}
	return "", fmt.Errorf("unknown resource type: %s", resourceType)
}

// FindOrCreate returns the user's counter, creating a zeroed row if
// none exists. The insert ignores conflicts so concurrent first
// touches converge on a single row.
func (r *GormUsageCounterRepository) FindOrCreate(ctx context.Context, userID uuid.UUID) (*billing.UsageCounter, error) {
	model := models.UsageCounterModelFromDomain(billing.NewUsageCounter(userID))
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(model).Error
	if err != nil {
		return nil, err
	}

	var found models.UsageCounterModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&found).Error; err != nil {
		return nil, err
	}
	return found.ToDomain(), nil
}

// Increment atomically adds 1 to the named counter field, creating
// the row with that field at 1 if none exists.
func (r *GormUsageCounterRepository) Increment(ctx context.Context, userID uuid.UUID, resourceType billing.ResourceType) error {
	column, err := counterColumn(resourceType)
	if err != nil {
		return err
	}

	model := models.UsageCounterModelFromDomain(billing.NewUsageCounter(userID))
	switch resourceType {
	case billing.ResourceTypeAgents:
		model.Agents = 1
	case billing.ResourceTypePolicies:
		model.Policies = 1
	case billing.ResourceTypeMetrics:
		model.Metrics = 1
	case billing.ResourceTypeAIHelper:
		model.AIHelperToday = 1
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				column:       gorm.Expr(column+" + ?", 1),
				"updated_at": time.Now(),
			}),
		}).
		Create(model).Error
}

// Decrement atomically subtracts 1 from the named counter field.
// The floor at zero guards against double decrements.
func (r *GormUsageCounterRepository) Decrement(ctx context.Context, userID uuid.UUID, resourceType billing.ResourceType) error {
	column, err := counterColumn(resourceType)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.UsageCounterModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			column:       gorm.Expr(fmt.Sprintf("CASE WHEN %s > 0 THEN %s - 1 ELSE 0 END", column, column)),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ResetDaily zeroes the AI-helper daily field and stamps the reset time
func (r *GormUsageCounterRepository) ResetDaily(ctx context.Context, userID uuid.UUID, resetAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.UsageCounterModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"ai_helper_today": 0,
			"last_reset_at":   resetAt,
			"updated_at":      resetAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ billing.UsageCounterRepository = (*GormUsageCounterRepository)(nil)
