package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/controlroom/backend/internal/domain/governance"
	"github.com/controlroom/backend/internal/domain/shared"
)

// GormAgentRepository implements AgentRepository using GORM
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository creates a new GormAgentRepository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

func (r *GormAgentRepository) Save(ctx context.Context, agent *governance.Agent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

func (r *GormAgentRepository) Update(ctx context.Context, agent *governance.Agent) error {
	result := r.db.WithContext(ctx).Save(agent)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID returns the agent only when it belongs to the workspace
func (r *GormAgentRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*governance.Agent, error) {
	var agent governance.Agent
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&agent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &agent, nil
}

func (r *GormAgentRepository) FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*governance.Agent, error) {
	var agents []*governance.Agent
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&agents).Error
	if err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *GormAgentRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		Delete(&governance.Agent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ governance.AgentRepository = (*GormAgentRepository)(nil)

// GormPolicyRepository implements PolicyRepository using GORM
type GormPolicyRepository struct {
	db *gorm.DB
}

// NewGormPolicyRepository creates a new GormPolicyRepository
func NewGormPolicyRepository(db *gorm.DB) *GormPolicyRepository {
	return &GormPolicyRepository{db: db}
}

func (r *GormPolicyRepository) Save(ctx context.Context, policy *governance.Policy) error {
	return r.db.WithContext(ctx).Create(policy).Error
}

func (r *GormPolicyRepository) Update(ctx context.Context, policy *governance.Policy) error {
	result := r.db.WithContext(ctx).Save(policy)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormPolicyRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*governance.Policy, error) {
	var policy governance.Policy
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&policy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &policy, nil
}

func (r *GormPolicyRepository) FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*governance.Policy, error) {
	var policies []*governance.Policy
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *GormPolicyRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		Delete(&governance.Policy{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ governance.PolicyRepository = (*GormPolicyRepository)(nil)

// GormCustomMetricRepository implements CustomMetricRepository using GORM
type GormCustomMetricRepository struct {
	db *gorm.DB
}

// NewGormCustomMetricRepository creates a new GormCustomMetricRepository
func NewGormCustomMetricRepository(db *gorm.DB) *GormCustomMetricRepository {
	return &GormCustomMetricRepository{db: db}
}

func (r *GormCustomMetricRepository) Save(ctx context.Context, metric *governance.CustomMetric) error {
	return r.db.WithContext(ctx).Create(metric).Error
}

func (r *GormCustomMetricRepository) Update(ctx context.Context, metric *governance.CustomMetric) error {
	result := r.db.WithContext(ctx).Save(metric)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCustomMetricRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*governance.CustomMetric, error) {
	var metric governance.CustomMetric
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&metric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &metric, nil
}

func (r *GormCustomMetricRepository) FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*governance.CustomMetric, error) {
	var metrics []*governance.CustomMetric
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *GormCustomMetricRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		Delete(&governance.CustomMetric{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ governance.CustomMetricRepository = (*GormCustomMetricRepository)(nil)

// GormListingRepository implements ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

func (r *GormListingRepository) Save(ctx context.Context, listing *governance.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*governance.Listing, error) {
	var listing governance.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// ListPublished returns published listings for public browsing
func (r *GormListingRepository) ListPublished(ctx context.Context, offset, limit int) ([]*governance.Listing, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&governance.Listing{}).
		Where("published = ?", true).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []*governance.Listing
	if err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *GormListingRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]*governance.Listing, error) {
	var listings []*governance.Listing
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

var _ governance.ListingRepository = (*GormListingRepository)(nil)
