package governance

import (
	"strings"
	"time"

	"github.com/controlroom/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AgentStatus represents the lifecycle state of a monitored agent
type AgentStatus string

const (
	AgentStatusActive AgentStatus = "active"
	AgentStatusPaused AgentStatus = "paused"
	AgentStatusError  AgentStatus = "error"
)

// Agent is a monitored AI agent registered in a workspace.
type Agent struct {
	shared.WorkspaceEntity
	Name        string      `gorm:"type:varchar(200);not null"`
	Description string      `gorm:"type:text"`
	Status      AgentStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Config      string      `gorm:"type:jsonb;default:'{}'"`
	CreatedBy   uuid.UUID   `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Agent) TableName() string {
	return "agents"
}

// NewAgent registers an agent in a workspace
func NewAgent(workspaceID, createdBy uuid.UUID, name, description string) (*Agent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Agent name cannot be empty")
	}
	return &Agent{
		WorkspaceEntity: shared.NewWorkspaceEntity(workspaceID),
		Name:            name,
		Description:     description,
		Status:          AgentStatusActive,
		Config:          "{}",
		CreatedBy:       createdBy,
	}, nil
}

// Pause stops monitoring without deleting the agent
func (a *Agent) Pause() {
	a.Status = AgentStatusPaused
	a.UpdatedAt = time.Now()
}

// Resume re-activates a paused agent
func (a *Agent) Resume() {
	a.Status = AgentStatusActive
	a.UpdatedAt = time.Now()
}

// Policy is a governance rule set applied to agents in a workspace.
type Policy struct {
	shared.WorkspaceEntity
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Rules       string    `gorm:"type:jsonb;default:'[]'"`
	Active      bool      `gorm:"not null;default:true"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Policy) TableName() string {
	return "policies"
}

// NewPolicy creates a policy in a workspace
func NewPolicy(workspaceID, createdBy uuid.UUID, name, description, rules string) (*Policy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Policy name cannot be empty")
	}
	if rules == "" {
		rules = "[]"
	}
	return &Policy{
		WorkspaceEntity: shared.NewWorkspaceEntity(workspaceID),
		Name:            name,
		Description:     description,
		Rules:           rules,
		Active:          true,
		CreatedBy:       createdBy,
	}, nil
}

// CustomMetric is a user-defined measurement tracked for a workspace.
type CustomMetric struct {
	shared.WorkspaceEntity
	Name      string    `gorm:"type:varchar(200);not null"`
	Formula   string    `gorm:"type:text;not null"`
	Unit      string    `gorm:"type:varchar(50)"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (CustomMetric) TableName() string {
	return "custom_metrics"
}

// NewCustomMetric creates a custom metric in a workspace
func NewCustomMetric(workspaceID, createdBy uuid.UUID, name, formula, unit string) (*CustomMetric, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Metric name cannot be empty")
	}
	if strings.TrimSpace(formula) == "" {
		return nil, shared.NewDomainError("INVALID_FORMULA", "Metric formula cannot be empty")
	}
	return &CustomMetric{
		WorkspaceEntity: shared.NewWorkspaceEntity(workspaceID),
		Name:            name,
		Formula:         formula,
		Unit:            unit,
		CreatedBy:       createdBy,
	}, nil
}

// Listing is a marketplace entry published by a seller.
type Listing struct {
	shared.BaseEntity
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	PriceCents  int64     `gorm:"not null;default:0"`
	Published   bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Listing) TableName() string {
	return "marketplace_listings"
}

// NewListing creates a published marketplace listing
func NewListing(sellerID, workspaceID uuid.UUID, name, description string, priceCents int64) (*Listing, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Listing name cannot be empty")
	}
	if priceCents < 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Listing price cannot be negative")
	}
	return &Listing{
		BaseEntity:  shared.NewBaseEntity(),
		SellerID:    sellerID,
		WorkspaceID: workspaceID,
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		Published:   true,
	}, nil
}
