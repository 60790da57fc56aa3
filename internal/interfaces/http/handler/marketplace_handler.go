package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appgovernance "github.com/controlroom/backend/internal/application/governance"
	"github.com/controlroom/backend/internal/domain/governance"
	"github.com/controlroom/backend/internal/interfaces/http/dto"
	"github.com/controlroom/backend/internal/interfaces/http/middleware"
)

// MarketplaceHandler handles marketplace listing endpoints
type MarketplaceHandler struct {
	BaseHandler
	marketplaceService *appgovernance.MarketplaceService
}

// NewMarketplaceHandler creates a new marketplace handler
func NewMarketplaceHandler(marketplaceService *appgovernance.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceService: marketplaceService,
	}
}

// PublishListingRequest represents a listing publication request
type PublishListingRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"min=0"`
}

// ListingResponse is the public shape of a marketplace listing
type ListingResponse struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

func toListingResponse(l *governance.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		SellerID:    l.SellerID,
		Name:        l.Name,
		Description: l.Description,
		PriceCents:  l.PriceCents,
		CreatedAt:   l.CreatedAt,
	}
}

// Publish creates a marketplace listing for the caller
func (h *MarketplaceHandler) Publish(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	workspaceID := middleware.GetWorkspaceID(c)

	var req PublishListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	listing, err := h.marketplaceService.Publish(c.Request.Context(), userID, workspaceID, req.Name, req.Description, req.PriceCents)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toListingResponse(listing))
}

// Get returns a single published listing
func (h *MarketplaceHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	listing, err := h.marketplaceService.Get(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toListingResponse(listing))
}

// Browse returns a page of published listings
func (h *MarketplaceHandler) Browse(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	req.Normalize()

	listings, total, err := h.marketplaceService.Browse(c.Request.Context(), req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ListingResponse, len(listings))
	for i, l := range listings {
		responses[i] = toListingResponse(l)
	}
	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}

// ListMine returns the caller's own listings
func (h *MarketplaceHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listings, err := h.marketplaceService.ListForSeller(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ListingResponse, len(listings))
	for i, l := range listings {
		responses[i] = toListingResponse(l)
	}
	h.Success(c, responses)
}
