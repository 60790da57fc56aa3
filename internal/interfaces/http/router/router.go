package router

import (
	"github.com/gin-gonic/gin"

	"github.com/controlroom/backend/internal/interfaces/http/handler"
)

// Middleware bundles the chain applied around API routes. Order
// matters: JWT runs before the workspace resolver, and the gate needs
// both of them.
type Middleware struct {
	JWTAuth           gin.HandlerFunc
	WorkspaceResolver gin.HandlerFunc
	RequireWorkspace  gin.HandlerFunc
	Gate              gin.HandlerFunc
	ReferralTracking  gin.HandlerFunc
	DeveloperOnly     gin.HandlerFunc
}

// Handlers bundles every HTTP handler mounted by the router
type Handlers struct {
	Auth        *handler.AuthHandler
	Workspace   *handler.WorkspaceHandler
	Usage       *handler.UsageHandler
	Affiliate   *handler.AffiliateHandler
	Resource    *handler.ResourceHandler
	Marketplace *handler.MarketplaceHandler
	Admin       *handler.AdminHandler
	Webhook     *handler.StripeWebhookHandler
	System      *handler.SystemHandler
}

// Setup mounts all routes on the engine. Three tiers of protection:
// public routes carry no auth, authenticated routes need a valid JWT,
// and workspace-scoped routes additionally need the workspace cookie
// pair and pass through the authorization gate.
func Setup(engine *gin.Engine, h Handlers, mw Middleware) {
	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")

	// Public tier. Referral tracking watches for ?ref=CODE on any
	// public page hit.
	public := api.Group("", mw.ReferralTracking)
	public.GET("/system/ping", h.System.Ping)
	public.POST("/auth/signup", h.Auth.Signup)
	public.POST("/auth/login", h.Auth.Login)
	public.POST("/auth/refresh", h.Auth.Refresh)
	public.GET("/marketplace", h.Marketplace.Browse)
	public.GET("/marketplace/:id", h.Marketplace.Get)

	// Stripe authenticates by webhook signature, not JWT
	api.POST("/webhooks/stripe", h.Webhook.HandleWebhook)

	// Authenticated tier. The workspace resolver runs here too so
	// user-level routes can read workspace context when present.
	authed := api.Group("", mw.JWTAuth, mw.WorkspaceResolver)
	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/auth/me", h.Auth.Me)

	authed.POST("/workspaces", h.Workspace.Create)
	authed.GET("/workspaces", h.Workspace.List)
	authed.POST("/workspaces/:id/switch", h.Workspace.Switch)
	authed.POST("/workspaces/invites/accept", h.Workspace.AcceptInvite)

	authed.POST("/usage/check", h.Usage.CheckLimit)
	authed.POST("/usage/ai-helper", h.Usage.ConsumeAIHelper)
	authed.GET("/usage/summary", h.Usage.GetSummary)

	authed.POST("/affiliate/apply", h.Affiliate.Apply)
	authed.GET("/affiliate/stats", h.Affiliate.GetStats)

	authed.GET("/marketplace/mine", h.Marketplace.ListMine)

	// Workspace-scoped tier: an active workspace is a precondition,
	// then the rule table decides by role.
	ws := authed.Group("", mw.RequireWorkspace, mw.Gate)
	ws.GET("/workspaces/members", h.Workspace.ListMembers)
	ws.PUT("/workspaces/members/:id/role", h.Workspace.ChangeMemberRole)
	ws.DELETE("/workspaces/members/:id", h.Workspace.RemoveMember)
	ws.POST("/workspaces/invites", h.Workspace.Invite)
	ws.GET("/workspaces/invites", h.Workspace.ListInvitations)

	ws.POST("/agents", h.Resource.CreateAgent)
	ws.GET("/agents", h.Resource.ListAgents)
	ws.GET("/agents/:id", h.Resource.GetAgent)
	ws.POST("/agents/:id/pause", h.Resource.PauseAgent)
	ws.POST("/agents/:id/resume", h.Resource.ResumeAgent)
	ws.DELETE("/agents/:id", h.Resource.DeleteAgent)

	ws.POST("/policies", h.Resource.CreatePolicy)
	ws.GET("/policies", h.Resource.ListPolicies)
	ws.GET("/policies/:id", h.Resource.GetPolicy)
	ws.DELETE("/policies/:id", h.Resource.DeletePolicy)

	ws.POST("/metrics", h.Resource.CreateMetric)
	ws.GET("/metrics", h.Resource.ListMetrics)
	ws.DELETE("/metrics/:id", h.Resource.DeleteMetric)

	ws.POST("/marketplace", h.Marketplace.Publish)

	// Platform administration: the gate's first rule restricts the
	// whole prefix to the ADMIN global role.
	admin := authed.Group("/admin", mw.Gate)
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id/plan", h.Admin.SetUserPlan)
	admin.PUT("/users/:id/role", h.Admin.SetUserGlobalRole)
	admin.GET("/affiliates/pending", h.Admin.ListPendingAffiliates)
	admin.POST("/affiliates/:id/approve", h.Admin.ApproveAffiliate)

	// Internal diagnostics behind the developer email allow-list
	if mw.DeveloperOnly != nil {
		dev := authed.Group("/dev", mw.DeveloperOnly)
		dev.GET("/health", h.System.Health)
	}
}
