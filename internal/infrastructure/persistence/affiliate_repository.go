package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/controlroom/backend/internal/domain/affiliate"
	"github.com/controlroom/backend/internal/domain/shared"
	"github.com/controlroom/backend/internal/infrastructure/persistence/models"
)

// GormAffiliateRepository implements AffiliateRepository using GORM
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewGormAffiliateRepository creates a new GormAffiliateRepository
func NewGormAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// Save persists a new affiliate
func (r *GormAffiliateRepository) Save(ctx context.Context, a *affiliate.Affiliate) error {
	model := models.AffiliateModelFromDomain(a)
	err := r.db.WithContext(ctx).Create(model).Error
	if err != nil && isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Update updates an existing affiliate
func (r *GormAffiliateRepository) Update(ctx context.Context, a *affiliate.Affiliate) error {
	model := models.AffiliateModelFromDomain(a)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an affiliate by its ID
func (r *GormAffiliateRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser finds the affiliate belonging to a user
func (r *GormAffiliateRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*affiliate.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an affiliate by its referral code
func (r *GormAffiliateRepository) FindByCode(ctx context.Context, code string) (*affiliate.Affiliate, error) {
	if code == "" {
		return nil, shared.ErrNotFound
	}
	var model models.AffiliateModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// IncrementClicks atomically adds 1 to the click counter
func (r *GormAffiliateRepository) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	return r.incrementCounter(ctx, id, "clicks")
}

// IncrementConversions atomically adds 1 to the conversion counter
func (r *GormAffiliateRepository) IncrementConversions(ctx context.Context, id uuid.UUID) error {
	return r.incrementCounter(ctx, id, "conversions")
}

func (r *GormAffiliateRepository) incrementCounter(ctx context.Context, id uuid.UUID, column string) error {
	result := r.db.WithContext(ctx).
		Model(&models.AffiliateModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			column:       gorm.Expr(column+" + ?", 1),
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

// ListPending returns unapproved applications, oldest first
func (r *GormAffiliateRepository) ListPending(ctx context.Context) ([]*affiliate.Affiliate, error) {
	var modelList []*models.AffiliateModel
	if err := r.db.WithContext(ctx).
		Where("approved = ?", false).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	affiliates := make([]*affiliate.Affiliate, len(modelList))
	for i, m := range modelList {
		affiliates[i] = m.ToDomain()
	}
	return affiliates, nil
}

var _ affiliate.AffiliateRepository = (*GormAffiliateRepository)(nil)
