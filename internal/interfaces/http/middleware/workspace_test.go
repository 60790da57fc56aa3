package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/infrastructure/auth"
	"github.com/controlroom/backend/internal/infrastructure/config"
)

func testCookieConfig() *config.CookieConfig {
	return &config.CookieConfig{
		Path:     "/",
		SameSite: "lax",
		MaxAge:   24 * time.Hour,
		Secret:   "workspace-cookie-test-secret",
	}
}

// asUser fakes what JWT auth puts on the context; the resolver needs
// the authenticated user ID to verify the cookie signature.
func asUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(JWTClaimsKey, &auth.Claims{UserID: userID.String(), TokenType: auth.TokenTypeAccess})
		c.Set(JWTUserIDKey, userID.String())
		c.Next()
	}
}

func signedCookies(cfg *config.CookieConfig, userID, workspaceID uuid.UUID, role string) map[string]string {
	return map[string]string{
		WorkspaceIDCookie:   workspaceID.String(),
		WorkspaceRoleCookie: role,
		WorkspaceSigCookie:  signWorkspaceContext(cfg.Secret, userID.String(), workspaceID.String(), role),
	}
}

func resolverRequest(t *testing.T, userID uuid.UUID, cookies map[string]string) (uuid.UUID, identity.WorkspaceRole) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(asUser(userID), WorkspaceResolver(testCookieConfig()))

	var gotID uuid.UUID
	var gotRole identity.WorkspaceRole
	router.GET("/ctx", func(c *gin.Context) {
		gotID = GetWorkspaceID(c)
		gotRole = GetWorkspaceRole(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ctx", nil)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return gotID, gotRole
}

func TestWorkspaceResolver(t *testing.T) {
	cfg := testCookieConfig()
	userID := uuid.New()
	workspaceID := uuid.New()

	t.Run("reads signed cookie pair into context", func(t *testing.T) {
		id, role := resolverRequest(t, userID, signedCookies(cfg, userID, workspaceID, "MANAGER"))
		assert.Equal(t, workspaceID, id)
		assert.Equal(t, identity.WorkspaceRoleManager, role)
	})

	t.Run("no cookies means no context", func(t *testing.T) {
		id, role := resolverRequest(t, userID, nil)
		assert.Equal(t, uuid.Nil, id)
		assert.Equal(t, identity.WorkspaceRole(""), role)
	})

	t.Run("pair without a signature is ignored", func(t *testing.T) {
		id, _ := resolverRequest(t, userID, map[string]string{
			WorkspaceIDCookie:   workspaceID.String(),
			WorkspaceRoleCookie: "ADMIN",
		})
		assert.Equal(t, uuid.Nil, id)
	})

	t.Run("tampered role breaks the signature", func(t *testing.T) {
		cookies := signedCookies(cfg, userID, workspaceID, "VIEWER")
		cookies[WorkspaceRoleCookie] = "ADMIN"
		id, role := resolverRequest(t, userID, cookies)
		assert.Equal(t, uuid.Nil, id)
		assert.Equal(t, identity.WorkspaceRole(""), role)
	})

	t.Run("signature from another user does not transfer", func(t *testing.T) {
		cookies := signedCookies(cfg, uuid.New(), workspaceID, "ADMIN")
		id, _ := resolverRequest(t, userID, cookies)
		assert.Equal(t, uuid.Nil, id)
	})

	t.Run("malformed id is ignored", func(t *testing.T) {
		id, _ := resolverRequest(t, userID, map[string]string{
			WorkspaceIDCookie:   "not-a-uuid",
			WorkspaceRoleCookie: "ADMIN",
			WorkspaceSigCookie:  "irrelevant",
		})
		assert.Equal(t, uuid.Nil, id)
	})

	t.Run("id without a valid role is ignored", func(t *testing.T) {
		id, role := resolverRequest(t, userID, signedCookies(cfg, userID, workspaceID, "SUPERUSER"))
		assert.Equal(t, uuid.Nil, id)
		assert.Equal(t, identity.WorkspaceRole(""), role)
	})
}

func TestRequireWorkspace(t *testing.T) {
	cfg := testCookieConfig()
	userID := uuid.New()
	workspaceID := uuid.New()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(asUser(userID), WorkspaceResolver(cfg), RequireWorkspace())
	router.GET("/ctx", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("missing context yields 428", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ctx", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	})

	t.Run("passes with signed context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ctx", nil)
		for name, value := range signedCookies(cfg, userID, workspaceID, "VIEWER") {
			req.AddCookie(&http.Cookie{Name: name, Value: value})
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// A user who never joined a workspace must not reach its resources by
// hand-crafting the cookie pair; without the server-issued signature
// the resolver yields no context and the tier precondition fails.
func TestForgedWorkspaceCookiesDenied(t *testing.T) {
	cfg := testCookieConfig()
	attacker := uuid.New()
	victimWorkspace := uuid.New()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(
		asUser(attacker),
		WorkspaceResolver(cfg),
		RequireWorkspace(),
		AuthorizationGate(DefaultGateRules()),
	)
	reached := false
	router.DELETE("/api/v1/agents/:id", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/agents/"+uuid.NewString(), nil)
	req.AddCookie(&http.Cookie{Name: WorkspaceIDCookie, Value: victimWorkspace.String()})
	req.AddCookie(&http.Cookie{Name: WorkspaceRoleCookie, Value: "ADMIN"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.False(t, reached)
}

func TestWorkspaceCookies(t *testing.T) {
	cfg := testCookieConfig()
	userID := uuid.New()
	workspaceID := uuid.New()

	t.Run("set writes the signed pair", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/switch", nil)

		SetWorkspaceCookies(c, cfg, userID, workspaceID, identity.WorkspaceRoleAdmin)

		cookies := w.Result().Cookies()
		byName := map[string]*http.Cookie{}
		for _, ck := range cookies {
			byName[ck.Name] = ck
		}
		assert.Equal(t, workspaceID.String(), byName[WorkspaceIDCookie].Value)
		assert.Equal(t, "ADMIN", byName[WorkspaceRoleCookie].Value)
		assert.Equal(t,
			signWorkspaceContext(cfg.Secret, userID.String(), workspaceID.String(), "ADMIN"),
			byName[WorkspaceSigCookie].Value)
		assert.True(t, byName[WorkspaceIDCookie].HttpOnly)
		assert.True(t, byName[WorkspaceSigCookie].HttpOnly)
	})

	t.Run("set round-trips through the resolver", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/switch", nil)
		SetWorkspaceCookies(c, cfg, userID, workspaceID, identity.WorkspaceRoleSeller)

		cookies := map[string]string{}
		for _, ck := range w.Result().Cookies() {
			cookies[ck.Name] = ck.Value
		}
		id, role := resolverRequest(t, userID, cookies)
		assert.Equal(t, workspaceID, id)
		assert.Equal(t, identity.WorkspaceRoleSeller, role)
	})

	t.Run("clear expires all three", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)

		ClearWorkspaceCookies(c, cfg)

		cleared := w.Result().Cookies()
		assert.Len(t, cleared, 3)
		for _, ck := range cleared {
			assert.Less(t, ck.MaxAge, 0)
		}
	})
}
