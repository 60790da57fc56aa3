package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/controlroom/backend/internal/application/identity"
	"github.com/controlroom/backend/internal/infrastructure/config"
	"github.com/controlroom/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	cookieCfg   *config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, cookieCfg *config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieCfg:   cookieCfg,
	}
}

// Signup registers a new account. When a referral cookie is present the
// signup is attributed to that affiliate and the cookie is cleared.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), appidentity.SignupInput{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		InviteToken: req.InviteToken,
		RefCode:     middleware.GetRefCode(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	middleware.ClearRefCode(c, h.cookieCfg)

	h.Created(c, AuthResponse{
		User:  toUserResponse(result.User),
		Token: result.Tokens,
	})
}

// Login authenticates credentials and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AuthResponse{
		User:  toUserResponse(result.User),
		Token: result.Tokens,
	})
}

// Logout revokes the presented token and clears workspace cookies
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}

	middleware.ClearWorkspaceCookies(c, h.cookieCfg)

	h.Success(c, gin.H{"message": "Logged out successfully"})
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AuthResponse{
		User:  toUserResponse(result.User),
		Token: result.Tokens,
	})
}

// Me returns the authenticated user's account
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}
