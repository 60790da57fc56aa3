package handler

import (
	"github.com/gin-gonic/gin"

	appaffiliate "github.com/controlroom/backend/internal/application/affiliate"
)

// AffiliateHandler handles referral program endpoints
type AffiliateHandler struct {
	BaseHandler
	affiliateService *appaffiliate.AffiliateService
}

// NewAffiliateHandler creates a new affiliate handler
func NewAffiliateHandler(affiliateService *appaffiliate.AffiliateService) *AffiliateHandler {
	return &AffiliateHandler{
		affiliateService: affiliateService,
	}
}

// ApplyRequest represents an affiliate program application
type ApplyRequest struct {
	Code       string `json:"code" binding:"required,min=4,max=50"`
	PayoutInfo string `json:"payout_info"`
}

// Apply submits an affiliate application with the requested code.
// The account stays inactive until an admin approves it.
func (h *AffiliateHandler) Apply(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	account, err := h.affiliateService.Apply(c.Request.Context(), userID, req.Code, req.PayoutInfo)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{
		"code":     account.Code,
		"approved": account.Approved,
	})
}

// GetStats returns the caller's referral performance
func (h *AffiliateHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stats, err := h.affiliateService.GetStats(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
