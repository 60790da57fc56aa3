package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/controlroom/backend/internal/domain/identity"
)

// AdminService handles platform-level user administration
type AdminService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo identity.UserRepository, logger *zap.Logger) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsers returns a page of users, newest first
func (s *AdminService) ListUsers(ctx context.Context, offset, limit int) ([]*identity.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// GetUser returns a single user by ID
func (s *AdminService) GetUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// SetUserPlan changes a user's subscription plan. For paid plans this
// bypasses Stripe, so it is reserved for support interventions; the
// next subscription webhook will overwrite it.
func (s *AdminService) SetUserPlan(ctx context.Context, userID uuid.UUID, plan identity.Plan) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.SetPlan(plan); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User plan changed by admin",
		zap.String("user_id", userID.String()),
		zap.String("plan", plan.String()))
	return user, nil
}

// SetUserGlobalRole changes a user's platform role
func (s *AdminService) SetUserGlobalRole(ctx context.Context, userID uuid.UUID, role identity.GlobalRole) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.SetGlobalRole(role); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User global role changed by admin",
		zap.String("user_id", userID.String()),
		zap.String("global_role", string(role)))
	return user, nil
}
