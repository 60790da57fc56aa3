package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appgovernance "github.com/controlroom/backend/internal/application/governance"
	"github.com/controlroom/backend/internal/domain/governance"
	"github.com/controlroom/backend/internal/interfaces/http/dto"
	"github.com/controlroom/backend/internal/interfaces/http/middleware"
)

// ResourceHandler handles agent, policy and custom metric endpoints.
// All operations are scoped to the active workspace from the cookie
// pair; plan limits are enforced by the governance service.
type ResourceHandler struct {
	BaseHandler
	resourceService *appgovernance.ResourceService
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resourceService *appgovernance.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
	}
}

// CreateAgentRequest represents an agent registration request
type CreateAgentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreatePolicyRequest represents a policy creation request
type CreatePolicyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Rules       string `json:"rules"`
}

// CreateMetricRequest represents a custom metric creation request
type CreateMetricRequest struct {
	Name    string `json:"name" binding:"required"`
	Formula string `json:"formula" binding:"required"`
	Unit    string `json:"unit"`
}

// AgentResponse is the public shape of a monitored agent
type AgentResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PolicyResponse is the public shape of a governance policy
type PolicyResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Rules       string    `json:"rules"`
	Active      bool      `json:"active"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// MetricResponse is the public shape of a custom metric
type MetricResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Formula   string    `json:"formula"`
	Unit      string    `json:"unit,omitempty"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func toAgentResponse(a *governance.Agent) AgentResponse {
	return AgentResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Status:      string(a.Status),
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toPolicyResponse(p *governance.Policy) PolicyResponse {
	return PolicyResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Rules:       p.Rules,
		Active:      p.Active,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func toMetricResponse(m *governance.CustomMetric) MetricResponse {
	return MetricResponse{
		ID:        m.ID,
		Name:      m.Name,
		Formula:   m.Formula,
		Unit:      m.Unit,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// resourceScope extracts the caller and active workspace from context
func (h *ResourceHandler) resourceScope(c *gin.Context) (workspaceID, userID uuid.UUID, ok bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	return middleware.GetWorkspaceID(c), userID, true
}

func (h *ResourceHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid resource ID")
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}

// CreateAgent registers a new agent in the active workspace
func (h *ResourceHandler) CreateAgent(c *gin.Context) {
	workspaceID, userID, ok := h.resourceScope(c)
	if !ok {
		return
	}

	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	agent, err := h.resourceService.CreateAgent(c.Request.Context(), workspaceID, userID, req.Name, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAgentResponse(agent))
}

// GetAgent returns a single agent in the active workspace
func (h *ResourceHandler) GetAgent(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	agent, err := h.resourceService.GetAgent(c.Request.Context(), workspaceID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAgentResponse(agent))
}

// ListAgents returns all agents in the active workspace
func (h *ResourceHandler) ListAgents(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)

	agents, err := h.resourceService.ListAgents(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AgentResponse, len(agents))
	for i, a := range agents {
		responses[i] = toAgentResponse(a)
	}
	h.Success(c, responses)
}

// PauseAgent stops monitoring an agent without deleting it
func (h *ResourceHandler) PauseAgent(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	agent, err := h.resourceService.PauseAgent(c.Request.Context(), workspaceID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAgentResponse(agent))
}

// ResumeAgent re-activates a paused agent
func (h *ResourceHandler) ResumeAgent(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	agent, err := h.resourceService.ResumeAgent(c.Request.Context(), workspaceID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAgentResponse(agent))
}

// DeleteAgent removes an agent and frees its plan slot
func (h *ResourceHandler) DeleteAgent(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.resourceService.DeleteAgent(c.Request.Context(), workspaceID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreatePolicy creates a governance policy in the active workspace
func (h *ResourceHandler) CreatePolicy(c *gin.Context) {
	workspaceID, userID, ok := h.resourceScope(c)
	if !ok {
		return
	}

	var req CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	policy, err := h.resourceService.CreatePolicy(c.Request.Context(), workspaceID, userID, req.Name, req.Description, req.Rules)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPolicyResponse(policy))
}

// GetPolicy returns a single policy in the active workspace
func (h *ResourceHandler) GetPolicy(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	policy, err := h.resourceService.GetPolicy(c.Request.Context(), workspaceID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPolicyResponse(policy))
}

// ListPolicies returns all policies in the active workspace
func (h *ResourceHandler) ListPolicies(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)

	policies, err := h.resourceService.ListPolicies(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PolicyResponse, len(policies))
	for i, p := range policies {
		responses[i] = toPolicyResponse(p)
	}
	h.Success(c, responses)
}

// DeletePolicy removes a policy and frees its plan slot
func (h *ResourceHandler) DeletePolicy(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.resourceService.DeletePolicy(c.Request.Context(), workspaceID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateMetric creates a custom metric in the active workspace
func (h *ResourceHandler) CreateMetric(c *gin.Context) {
	workspaceID, userID, ok := h.resourceScope(c)
	if !ok {
		return
	}

	var req CreateMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	metric, err := h.resourceService.CreateMetric(c.Request.Context(), workspaceID, userID, req.Name, req.Formula, req.Unit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toMetricResponse(metric))
}

// ListMetrics returns all custom metrics in the active workspace
func (h *ResourceHandler) ListMetrics(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)

	metrics, err := h.resourceService.ListMetrics(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]MetricResponse, len(metrics))
	for i, m := range metrics {
		responses[i] = toMetricResponse(m)
	}
	h.Success(c, responses)
}

// DeleteMetric removes a custom metric and frees its plan slot
func (h *ResourceHandler) DeleteMetric(c *gin.Context) {
	workspaceID := middleware.GetWorkspaceID(c)
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.resourceService.DeleteMetric(c.Request.Context(), workspaceID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
