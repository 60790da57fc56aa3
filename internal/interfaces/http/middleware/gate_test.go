package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/infrastructure/auth"
)

// injectContext fakes what JWTAuth and WorkspaceResolver would have put
// on the request so the gate can be tested in isolation.
func injectContext(globalRole identity.GlobalRole, workspaceRole identity.WorkspaceRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &auth.Claims{
			UserID:     uuid.NewString(),
			GlobalRole: string(globalRole),
			TokenType:  auth.TokenTypeAccess,
		}
		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTGlobalRoleKey, claims.GlobalRole)
		if workspaceRole != "" {
			c.Set(WorkspaceIDKey, uuid.NewString())
			c.Set(WorkspaceRoleKey, string(workspaceRole))
		}
		c.Next()
	}
}

func gateRequest(t *testing.T, method, path string, mws ...gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	for _, mw := range mws {
		router.Use(mw)
	}
	router.Any("/api/v1/*any", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestAuthorizationGate(t *testing.T) {
	gate := AuthorizationGate(DefaultGateRules())

	tests := []struct {
		name          string
		method        string
		path          string
		globalRole    identity.GlobalRole
		workspaceRole identity.WorkspaceRole
		want          int
	}{
		{
			name:       "platform admin reaches admin routes",
			method:     http.MethodGet,
			path:       "/api/v1/admin/users",
			globalRole: identity.GlobalRoleAdmin,
			want:       http.StatusOK,
		},
		{
			name:          "workspace admin role does not grant platform admin",
			method:        http.MethodGet,
			path:          "/api/v1/admin/users",
			globalRole:    identity.GlobalRoleUser,
			workspaceRole: identity.WorkspaceRoleAdmin,
			want:          http.StatusForbidden,
		},
		{
			name:          "workspace admin manages invites",
			method:        http.MethodPost,
			path:          "/api/v1/workspaces/invites",
			globalRole:    identity.GlobalRoleUser,
			workspaceRole: identity.WorkspaceRoleAdmin,
			want:          http.StatusOK,
		},
		{
			name:          "manager cannot manage invites",
			method:        http.MethodPost,
			path:          "/api/v1/workspaces/invites",
			globalRole:    identity.GlobalRoleUser,
			workspaceRole: identity.WorkspaceRoleManager,
			want:          http.StatusForbidden,
		},
		{
			name:          "viewer can list members",
			method:        http.MethodGet,
			path:          "/api/v1/workspaces/members",
			globalRole:    identity.GlobalRoleUser,
			workspaceRole: identity.WorkspaceRoleViewer,
			want:          http.StatusOK,
		},
		{
			name:          "removing a member needs workspace admin",
			method:        http.MethodDelete,
			path:          "/api/v1/workspaces/members/abc",
			globalRole:    identity.GlobalRoleUser,
			workspaceRole: identity.WorkspaceRoleManager,
			want:          http.StatusForbidden,
		},
		{
			name:          "publishing a listing needs seller role and manage rights",
			method:        http.MethodPost,
			path:          "/api/v1/marketplace",
			globalRole:    identity.GlobalRoleSeller,
			workspaceRole: identity.WorkspaceRoleManager,
			want:          http.StatusOK,
		},
		{
			name:          "seller without manage rights cannot publish",
			method:        http.MethodPost,
			path:          "/api/v1/marketplace",
			globalRole:    identity.GlobalRoleSeller,
			workspaceRole: identity.WorkspaceRoleViewer,
			want:          http.StatusForbidden,
		},
		{
			name:          "manage rights alone cannot publish",
			method:        http.MethodPost,
			path:          "/api/v1/marketplace",
			globalRole:    identity.GlobalRoleUser,
			workspaceRole: identity.WorkspaceRoleAdmin,
			want:          http.StatusForbidden,
		},
		{
			name:          "platform admin without seller role cannot publish",
			method:        http.MethodPost,
			path:          "/api/v1/marketplace",
			globalRole:    identity.GlobalRoleAdmin,
			workspaceRole: identity.WorkspaceRoleAdmin,
			want:          http.StatusForbidden,
		},
		{
			name:          "manager creates agents",
			method:        http.MethodPost,
			path:          "/api/v1/agents",
			globalRole:    identity.GlobalRoleUser,
			workspaceRole: identity.WorkspaceRoleManager,
			want:          http.StatusOK,
		},
		{
			name:          "viewer cannot create agents",
			method:        http.MethodPost,
			path:          "/api/v1/agents",
			globalRole:    identity.GlobalRoleUser,
			workspaceRole: identity.WorkspaceRoleViewer,
			want:          http.StatusForbidden,
		},
		{
			name:          "viewer reads anything",
			method:        http.MethodGet,
			path:          "/api/v1/agents",
			globalRole:    identity.GlobalRoleUser,
			workspaceRole: identity.WorkspaceRoleViewer,
			want:          http.StatusOK,
		},
		{
			name:          "unclaimed mutation falls through to manage roles",
			method:        http.MethodPost,
			path:          "/api/v1/usage/check",
			globalRole:    identity.GlobalRoleUser,
			workspaceRole: identity.WorkspaceRoleSeller,
			want:          http.StatusForbidden,
		},
		{
			name:       "workspace rules deny when no workspace context",
			method:     http.MethodPost,
			path:       "/api/v1/agents",
			globalRole: identity.GlobalRoleUser,
			want:       http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := gateRequest(t, tt.method, tt.path,
				injectContext(tt.globalRole, tt.workspaceRole), gate)
			assert.Equal(t, tt.want, code)
		})
	}

	t.Run("missing claims yields 401", func(t *testing.T) {
		code := gateRequest(t, http.MethodGet, "/api/v1/agents", gate)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestDeveloperOnly(t *testing.T) {
	mw := DeveloperOnly([]string{"Dev@Example.com"})

	t.Run("listed email passes regardless of case", func(t *testing.T) {
		code := gateRequest(t, http.MethodGet, "/api/v1/dev/health",
			func(c *gin.Context) { c.Set(JWTEmailKey, "dev@example.com") }, mw)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("unlisted email is rejected", func(t *testing.T) {
		code := gateRequest(t, http.MethodGet, "/api/v1/dev/health",
			func(c *gin.Context) { c.Set(JWTEmailKey, "other@example.com") }, mw)
		assert.Equal(t, http.StatusForbidden, code)
	})
}
