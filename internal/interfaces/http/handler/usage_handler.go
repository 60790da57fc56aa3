package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/controlroom/backend/internal/application/billing"
	"github.com/controlroom/backend/internal/domain/billing"
)

// UsageHandler handles plan limit and usage endpoints
type UsageHandler struct {
	BaseHandler
	usageService *appbilling.UsageService
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usageService *appbilling.UsageService) *UsageHandler {
	return &UsageHandler{
		usageService: usageService,
	}
}

// CheckLimitRequest names the resource type to check
type CheckLimitRequest struct {
	ResourceType string `json:"type" binding:"required,resourcetype"`
}

// CheckLimit reports whether the caller may create one more of the
// given resource type. This is advisory for UI gating; creation
// endpoints re-check server side.
func (h *UsageHandler) CheckLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CheckLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resourceType, ok := billing.ParseResourceType(req.ResourceType)
	if !ok {
		h.BadRequest(c, "Unknown resource type")
		return
	}

	result, err := h.usageService.CheckLimit(c.Request.Context(), userID, resourceType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ConsumeAIHelper spends one unit of the caller's daily AI-helper
// allowance. Helper invocations call this first and only proceed on
// success; an exhausted allowance surfaces as a limit error.
func (h *UsageHandler) ConsumeAIHelper(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.usageService.ConsumeAIHelper(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetSummary returns the caller's usage against every plan limit
func (h *UsageHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.usageService.GetUsageSummary(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
