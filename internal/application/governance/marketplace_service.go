package governance

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/controlroom/backend/internal/domain/governance"
)

// MarketplaceService manages agent listings offered for sale
type MarketplaceService struct {
	listingRepo governance.ListingRepository
	logger      *zap.Logger
}

// NewMarketplaceService creates a new MarketplaceService
func NewMarketplaceService(listingRepo governance.ListingRepository, logger *zap.Logger) *MarketplaceService {
	return &MarketplaceService{listingRepo: listingRepo, logger: logger}
}

// Publish creates a published listing for a seller's agent template
func (s *MarketplaceService) Publish(ctx context.Context, sellerID, workspaceID uuid.UUID, name, description string, priceCents int64) (*governance.Listing, error) {
	listing, err := governance.NewListing(sellerID, workspaceID, name, description, priceCents)
	if err != nil {
		return nil, err
	}
	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Get returns a listing by ID
func (s *MarketplaceService) Get(ctx context.Context, id uuid.UUID) (*governance.Listing, error) {
	return s.listingRepo.FindByID(ctx, id)
}

// Browse returns published listings, newest first
func (s *MarketplaceService) Browse(ctx context.Context, offset, limit int) ([]*governance.Listing, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.listingRepo.ListPublished(ctx, offset, limit)
}

// ListForSeller returns all listings of a seller, published or not
func (s *MarketplaceService) ListForSeller(ctx context.Context, sellerID uuid.UUID) ([]*governance.Listing, error) {
	return s.listingRepo.FindBySeller(ctx, sellerID)
}
