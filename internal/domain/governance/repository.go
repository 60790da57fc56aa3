package governance

import (
	"context"

	"github.com/google/uuid"
)

// AgentRepository defines the interface for agent persistence
type AgentRepository interface {
	Save(ctx context.Context, agent *Agent) error
	Update(ctx context.Context, agent *Agent) error

	// FindByID returns the agent only when it belongs to the given
	// workspace; cross-tenant lookups report not-found.
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*Agent, error)
	FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*Agent, error)
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}

// PolicyRepository defines the interface for policy persistence
type PolicyRepository interface {
	Save(ctx context.Context, policy *Policy) error
	Update(ctx context.Context, policy *Policy) error
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*Policy, error)
	FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*Policy, error)
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}

// CustomMetricRepository defines the interface for custom metric persistence
type CustomMetricRepository interface {
	Save(ctx context.Context, metric *CustomMetric) error
	Update(ctx context.Context, metric *CustomMetric) error
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*CustomMetric, error)
	FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*CustomMetric, error)
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}

// ListingRepository defines the interface for marketplace listing persistence
type ListingRepository interface {
	Save(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// ListPublished returns published listings for public browsing
	ListPublished(ctx context.Context, offset, limit int) ([]*Listing, int64, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Listing, error)
}
