package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/controlroom/backend/internal/application/identity"
	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/infrastructure/config"
	"github.com/controlroom/backend/internal/interfaces/http/dto"
	"github.com/controlroom/backend/internal/interfaces/http/middleware"
)

// WorkspaceHandler handles workspace and membership endpoints
type WorkspaceHandler struct {
	BaseHandler
	workspaceService *appidentity.WorkspaceService
	authService      *appidentity.AuthService
	cookieCfg        *config.CookieConfig
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(
	workspaceService *appidentity.WorkspaceService,
	authService *appidentity.AuthService,
	cookieCfg *config.CookieConfig,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		authService:      authService,
		cookieCfg:        cookieCfg,
	}
}

// CreateWorkspaceRequest represents a workspace creation request
type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

// InviteRequest represents a workspace invitation request
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,workspacerole"`
}

// ChangeRoleRequest represents a member role change
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,workspacerole"`
}

// WorkspaceResponse is the public shape of a workspace
type WorkspaceResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// InvitationResponse is the public shape of a pending invitation
type InvitationResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toWorkspaceResponse(w *identity.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:        w.ID,
		Name:      w.Name,
		OwnerID:   w.OwnerID,
		CreatedAt: w.CreatedAt,
	}
}

func toInvitationResponse(inv *identity.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      string(inv.Role),
		Token:     inv.Token,
		ExpiresAt: inv.ExpiresAt,
	}
}

// Create creates a workspace with the caller as its first admin
func (h *WorkspaceHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	workspace, err := h.workspaceService.Create(c.Request.Context(), req.Name, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toWorkspaceResponse(workspace))
}

// List returns workspaces the caller belongs to
func (h *WorkspaceHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	workspaces, err := h.workspaceService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]WorkspaceResponse, len(workspaces))
	for i, w := range workspaces {
		responses[i] = toWorkspaceResponse(w)
	}
	h.Success(c, responses)
}

// Switch selects the caller's active workspace. The membership role is
// looked up once here and cached in the cookie pair; later requests
// trust the cookies without a database round trip.
func (h *WorkspaceHandler) Switch(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid workspace ID")
		return
	}
	workspaceID := uuid.MustParse(req.ID)

	membership, err := h.workspaceService.GetMembership(c.Request.Context(), workspaceID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	middleware.SetWorkspaceCookies(c, h.cookieCfg, userID, workspaceID, membership.Role)

	h.Success(c, gin.H{
		"workspace_id": workspaceID,
		"role":         membership.Role,
	})
}

// Invite creates a pending invitation to the active workspace
func (h *WorkspaceHandler) Invite(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	invitation, err := h.workspaceService.Invite(c.Request.Context(), workspaceID, req.Email, identity.WorkspaceRole(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toInvitationResponse(invitation))
}

// ListInvitations returns pending invitations for the active workspace
func (h *WorkspaceHandler) ListInvitations(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)

	invitations, err := h.workspaceService.ListPendingInvitations(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]InvitationResponse, len(invitations))
	for i, inv := range invitations {
		responses[i] = toInvitationResponse(inv)
	}
	h.Success(c, responses)
}

// AcceptInvite joins the caller to the inviting workspace
func (h *WorkspaceHandler) AcceptInvite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	membership, err := h.authService.AcceptInvite(c.Request.Context(), req.Token, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"workspace_id": membership.WorkspaceID,
		"role":         membership.Role,
	})
}

// ListMembers returns members of the active workspace
func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)

	members, err := h.workspaceService.ListMembers(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, members)
}

// ChangeMemberRole updates a member's role in the active workspace
func (h *WorkspaceHandler) ChangeMemberRole(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid member ID")
		return
	}
	memberID := uuid.MustParse(uriReq.ID)

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	membership, err := h.workspaceService.ChangeMemberRole(c.Request.Context(), workspaceID, memberID, identity.WorkspaceRole(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"user_id": membership.UserID,
		"role":    membership.Role,
	})
}

// RemoveMember removes a member from the active workspace
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid member ID")
		return
	}
	memberID := uuid.MustParse(req.ID)

	if err := h.workspaceService.RemoveMember(c.Request.Context(), workspaceID, memberID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
