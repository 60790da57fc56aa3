package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appaffiliate "github.com/controlroom/backend/internal/application/affiliate"
	appidentity "github.com/controlroom/backend/internal/application/identity"
	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/interfaces/http/dto"
)

// AdminHandler handles platform administration endpoints. The router
// mounts these under /api/v1/admin, which the authorization gate
// restricts to the ADMIN global role.
type AdminHandler struct {
	BaseHandler
	adminService     *appidentity.AdminService
	affiliateService *appaffiliate.AffiliateService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *appidentity.AdminService, affiliateService *appaffiliate.AffiliateService) *AdminHandler {
	return &AdminHandler{
		adminService:     adminService,
		affiliateService: affiliateService,
	}
}

// SetPlanRequest represents an admin plan override
type SetPlanRequest struct {
	Plan string `json:"plan" binding:"required,plan"`
}

// SetGlobalRoleRequest represents an admin role change
type SetGlobalRoleRequest struct {
	Role string `json:"role" binding:"required,globalrole"`
}

// ListUsers returns a page of platform users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	req.Normalize()

	users, total, err := h.adminService.ListUsers(c.Request.Context(), req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = toUserResponse(u)
	}
	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}

// SetUserPlan overrides a user's plan outside the Stripe flow
func (h *AdminHandler) SetUserPlan(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req SetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.adminService.SetUserPlan(c.Request.Context(), uuid.MustParse(uriReq.ID), identity.Plan(req.Plan))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// SetUserGlobalRole changes a user's platform role
func (h *AdminHandler) SetUserGlobalRole(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req SetGlobalRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.adminService.SetUserGlobalRole(c.Request.Context(), uuid.MustParse(uriReq.ID), identity.GlobalRole(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// ListPendingAffiliates returns affiliate applications awaiting review
func (h *AdminHandler) ListPendingAffiliates(c *gin.Context) {
	pending, err := h.affiliateService.ListPending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	type pendingAffiliate struct {
		ID     uuid.UUID `json:"id"`
		UserID uuid.UUID `json:"user_id"`
		Code   string    `json:"code"`
	}
	responses := make([]pendingAffiliate, len(pending))
	for i, a := range pending {
		responses[i] = pendingAffiliate{ID: a.ID, UserID: a.UserID, Code: a.Code}
	}
	h.Success(c, responses)
}

// ApproveAffiliate activates an affiliate application
func (h *AdminHandler) ApproveAffiliate(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid affiliate ID")
		return
	}

	account, err := h.affiliateService.Approve(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"id":       account.ID,
		"code":     account.Code,
		"approved": account.Approved,
	})
}
