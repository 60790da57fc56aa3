package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/infrastructure/config"
	"github.com/controlroom/backend/internal/interfaces/http/dto"
)

// Workspace cookie and context keys
const (
	WorkspaceIDCookie   = "workspace-id"
	WorkspaceRoleCookie = "workspace-role"
	WorkspaceSigCookie  = "workspace-sig"

	WorkspaceIDKey   = "workspace_id"
	WorkspaceRoleKey = "workspace_role"
)

// signWorkspaceContext authenticates the cookie pair. The MAC covers
// the user ID so a pair lifted from one session cannot be replayed in
// another, and so neither the workspace ID nor the cached role can be
// edited client side.
func signWorkspaceContext(secret, userID, workspaceID, role string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(userID + "|" + workspaceID + "|" + role))
	return hex.EncodeToString(mac.Sum(nil))
}

// WorkspaceResolver reads the signed workspace-context cookie pair into
// the request context. The role cookie is a cache set at workspace
// switch; it is trusted for the session rather than re-resolved per
// request, so a role change takes effect on the member's next switch or
// login. The pair is absent for users who have not selected a
// workspace, and a pair whose signature does not verify against the
// authenticated user is treated the same as an absent pair. Must run
// after JWT auth.
func WorkspaceResolver(cfg *config.CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		idValue, err := c.Cookie(WorkspaceIDCookie)
		if err != nil || idValue == "" {
			c.Next()
			return
		}
		workspaceID, err := uuid.Parse(idValue)
		if err != nil {
			c.Next()
			return
		}

		roleValue, err := c.Cookie(WorkspaceRoleCookie)
		if err != nil || !identity.WorkspaceRole(roleValue).IsValid() {
			// An ID without a usable role is no workspace context at all
			c.Next()
			return
		}

		sigValue, err := c.Cookie(WorkspaceSigCookie)
		if err != nil || sigValue == "" {
			c.Next()
			return
		}
		userID := GetJWTUserID(c)
		if userID == "" {
			c.Next()
			return
		}
		want := signWorkspaceContext(cfg.Secret, userID, workspaceID.String(), roleValue)
		if !hmac.Equal([]byte(sigValue), []byte(want)) {
			c.Next()
			return
		}

		c.Set(WorkspaceIDKey, workspaceID.String())
		c.Set(WorkspaceRoleKey, roleValue)
		c.Next()
	}
}

// RequireWorkspace rejects requests that carry no workspace context.
// 428 tells the client to run workspace selection and retry, as
// opposed to 403 which means the workspace was found but denied.
func RequireWorkspace() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetWorkspaceID(c) == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusPreconditionRequired,
				dto.NewErrorResponse("WORKSPACE_REQUIRED", "Select a workspace before calling this endpoint"))
			return
		}
		c.Next()
	}
}

// GetWorkspaceID returns the resolved workspace ID, or uuid.Nil
func GetWorkspaceID(c *gin.Context) uuid.UUID {
	idStr := c.GetString(WorkspaceIDKey)
	if idStr == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetWorkspaceRole returns the resolved workspace role, or ""
func GetWorkspaceRole(c *gin.Context) identity.WorkspaceRole {
	return identity.WorkspaceRole(c.GetString(WorkspaceRoleKey))
}

// SetWorkspaceCookies writes the signed workspace-context cookie pair
// after a workspace switch
func SetWorkspaceCookies(c *gin.Context, cfg *config.CookieConfig, userID, workspaceID uuid.UUID, role identity.WorkspaceRole) {
	maxAge := int(cfg.MaxAge.Seconds())
	sig := signWorkspaceContext(cfg.Secret, userID.String(), workspaceID.String(), string(role))
	c.SetSameSite(parseSameSite(cfg.SameSite))
	c.SetCookie(WorkspaceIDCookie, workspaceID.String(), maxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(WorkspaceRoleCookie, string(role), maxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(WorkspaceSigCookie, sig, maxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

// ClearWorkspaceCookies removes the workspace-context cookie pair
func ClearWorkspaceCookies(c *gin.Context, cfg *config.CookieConfig) {
	c.SetSameSite(parseSameSite(cfg.SameSite))
	c.SetCookie(WorkspaceIDCookie, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(WorkspaceRoleCookie, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(WorkspaceSigCookie, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func parseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
