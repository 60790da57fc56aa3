package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/interfaces/http/dto"
)

// GateRule is one entry of the authorization rule table. Rules are
// evaluated in order; the first match decides.
type GateRule struct {
	// PathPrefix matches the request path. Empty matches every path.
	PathPrefix string
	// Methods restricts the rule to the listed methods. Empty matches
	// every method.
	Methods []string
	// GlobalRoles pass when the caller's platform role is listed
	GlobalRoles []identity.GlobalRole
	// WorkspaceRoles pass when the caller's workspace role is listed
	WorkspaceRoles []identity.WorkspaceRole
	// RequireBoth demands a global AND a workspace role match instead
	// of either one
	RequireBoth bool
}

var mutating = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

var manageRoles = []identity.WorkspaceRole{
	identity.WorkspaceRoleAdmin,
	identity.WorkspaceRoleManager,
}

var anyWorkspaceRole = []identity.WorkspaceRole{
	identity.WorkspaceRoleAdmin,
	identity.WorkspaceRoleManager,
	identity.WorkspaceRoleSeller,
	identity.WorkspaceRoleViewer,
}

// DefaultGateRules returns the precedence-ordered authorization table
func DefaultGateRules() []GateRule {
	return []GateRule{
		// Platform administration is global-role gated, workspace
		// context is irrelevant there
		{
			PathPrefix:  "/api/v1/admin",
			GlobalRoles: []identity.GlobalRole{identity.GlobalRoleAdmin},
		},
		// Membership management stays with workspace admins
		{
			PathPrefix:     "/api/v1/workspaces/invites",
			WorkspaceRoles: []identity.WorkspaceRole{identity.WorkspaceRoleAdmin},
		},
		{
			PathPrefix:     "/api/v1/workspaces/members",
			Methods:        mutating,
			WorkspaceRoles: []identity.WorkspaceRole{identity.WorkspaceRoleAdmin},
		},
		// Selling requires the seller global role on top of workspace
		// manage rights
		{
			PathPrefix:     "/api/v1/marketplace",
			Methods:        []string{http.MethodPost},
			GlobalRoles:    []identity.GlobalRole{identity.GlobalRoleSeller},
			WorkspaceRoles: manageRoles,
			RequireBoth:    true,
		},
		{
			PathPrefix:     "/api/v1/agents",
			Methods:        mutating,
			WorkspaceRoles: manageRoles,
		},
		{
			PathPrefix:     "/api/v1/policies",
			Methods:        mutating,
			WorkspaceRoles: manageRoles,
		},
		{
			PathPrefix:     "/api/v1/metrics",
			Methods:        mutating,
			WorkspaceRoles: manageRoles,
		},
		// Reads are open to every workspace member
		{
			Methods:        []string{http.MethodGet, http.MethodHead},
			WorkspaceRoles: anyWorkspaceRole,
		},
		// Anything mutating that no earlier rule claimed needs manage
		// rights
		{
			Methods:        mutating,
			WorkspaceRoles: manageRoles,
		},
	}
}

func (r *GateRule) matches(path, method string) bool {
	if r.PathPrefix != "" && !strings.HasPrefix(path, r.PathPrefix) {
		return false
	}
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

func (r *GateRule) allows(globalRole identity.GlobalRole, workspaceRole identity.WorkspaceRole) bool {
	globalOK := false
	for _, g := range r.GlobalRoles {
		if g == globalRole {
			globalOK = true
			break
		}
	}
	workspaceOK := false
	for _, w := range r.WorkspaceRoles {
		if w == workspaceRole {
			workspaceOK = true
			break
		}
	}

	if r.RequireBoth {
		return globalOK && workspaceOK
	}
	if len(r.GlobalRoles) > 0 && globalOK {
		return true
	}
	if len(r.WorkspaceRoles) > 0 && workspaceOK {
		return true
	}
	return false
}

// AuthorizationGate enforces the rule table. It runs after JWT auth
// and workspace resolution; rules that need a workspace role fail with
// 403 when no workspace context is present.
func AuthorizationGate(rules []GateRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		globalRole := identity.GlobalRole(claims.GlobalRole)
		workspaceRole := GetWorkspaceRole(c)

		for i := range rules {
			rule := &rules[i]
			if !rule.matches(c.Request.URL.Path, c.Request.Method) {
				continue
			}
			if rule.allows(globalRole, workspaceRole) {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "You do not have permission to perform this action"))
			return
		}

		// No rule claimed the request; nothing passed it, so deny
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.ErrCodeForbidden, "You do not have permission to perform this action"))
	}
}

// DeveloperOnly restricts an endpoint to the configured developer
// email allow-list.
func DeveloperOnly(allowedEmails []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, email := range allowedEmails {
		allowed[strings.ToLower(email)] = struct{}{}
	}
	return func(c *gin.Context) {
		email := strings.ToLower(GetJWTEmail(c))
		if _, ok := allowed[email]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Developer access required"))
			return
		}
		c.Next()
	}
}
