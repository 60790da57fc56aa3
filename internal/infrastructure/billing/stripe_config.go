package billing

import (
	"fmt"
)

// StripeConfig holds configuration for Stripe integration
type StripeConfig struct {
	// WebhookSecret is the secret for verifying webhook signatures
	WebhookSecret string `json:"webhook_secret" mapstructure:"webhook_secret"`

	// PriceIDs maps plan names to Stripe Price IDs
	PriceIDs map[string]string `json:"price_ids" mapstructure:"price_ids"`
}

// DefaultStripeConfig returns a default configuration for development/testing
func DefaultStripeConfig() *StripeConfig {
	return &StripeConfig{
		PriceIDs: map[string]string{
			"beginner":   "price_beginner_monthly",
			"unlimited":  "price_unlimited_monthly",
			"enterprise": "price_enterprise_monthly",
		},
	}
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}
	return nil
}

// GetPriceID returns the Stripe Price ID for a given plan
func (c *StripeConfig) GetPriceID(plan string) (string, error) {
	priceID, exists := c.PriceIDs[plan]
	if !exists || priceID == "" {
		return "", fmt.Errorf("stripe: no price configured for plan %q", plan)
	}
	return priceID, nil
}

// PlanForPriceID reverses the price mapping. Returns false for
// unknown price IDs.
func (c *StripeConfig) PlanForPriceID(priceID string) (string, bool) {
	for plan, id := range c.PriceIDs {
		if id == priceID && id != "" {
			return plan, true
		}
	}
	return "", false
}
