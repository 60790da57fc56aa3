package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/controlroom/backend/internal/domain/identity"
	"github.com/controlroom/backend/internal/domain/shared"
	infrabilling "github.com/controlroom/backend/internal/infrastructure/billing"
)

// StripeWebhookService syncs subscription state from Stripe into the
// user's plan. Stripe is the source of truth for paid plans; this
// service only mirrors it.
type StripeWebhookService struct {
	config   *infrabilling.StripeConfig
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(
	config *infrabilling.StripeConfig,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *StripeWebhookService {
	return &StripeWebhookService{
		config:   config,
		userRepo: userRepo,
		logger:   logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies and processes a Stripe webhook event
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		s.logger.Error("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "checkout.session.completed":
		err = s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.created", "customer.subscription.updated":
		err = s.handleSubscriptionChanged(ctx, event)
	case "customer.subscription.deleted":
		err = s.handleSubscriptionDeleted(ctx, event)
	default:
		s.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}
	return result, nil
}

// handleCheckoutCompleted links the Stripe customer to the user who
// started the checkout. The user ID travels in client_reference_id.
func (s *StripeWebhookService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}
	if session.ClientReferenceID == "" || session.Customer == nil {
		s.logger.Warn("Checkout session missing reference or customer, skipping",
			zap.String("session_id", session.ID))
		return nil
	}

	user, err := s.findUserByReference(ctx, session.ClientReferenceID)
	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("No user for checkout reference",
				zap.String("reference", session.ClientReferenceID))
			return nil
		}
		return err
	}

	user.StripeCustomerID = session.Customer.ID
	return s.userRepo.Update(ctx, user)
}

// handleSubscriptionChanged maps the subscription's price to a plan
// and applies it to the user.
func (s *StripeWebhookService) handleSubscriptionChanged(ctx context.Context, event stripe.Event) error {
	var subscription stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	customerID := ""
	if subscription.Customer != nil {
		customerID = subscription.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("Subscription has no customer ID, skipping",
			zap.String("subscription_id", subscription.ID))
		return nil
	}

	user, err := s.userRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if err == shared.ErrNotFound {
			// Webhooks can arrive before checkout linking completed, or
			// for customers outside this system; acknowledge so Stripe
			// does not retry forever.
			s.logger.Warn("No user for Stripe customer",
				zap.String("customer_id", customerID))
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	// An unpaid or canceled subscription does not grant a paid plan
	if subscription.Status != stripe.SubscriptionStatusActive &&
		subscription.Status != stripe.SubscriptionStatusTrialing {
		s.logger.Info("Ignoring subscription in non-active status",
			zap.String("subscription_id", subscription.ID),
			zap.String("status", string(subscription.Status)))
		return nil
	}

	planName, ok := s.planFromSubscription(&subscription)
	if !ok {
		s.logger.Warn("Subscription price maps to no known plan",
			zap.String("subscription_id", subscription.ID))
		return nil
	}

	if err := user.SetPlan(identity.Plan(planName)); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Plan updated from Stripe subscription",
		zap.String("user_id", user.ID.String()),
		zap.String("plan", planName))
	return nil
}

// handleSubscriptionDeleted drops the user back to the trial plan with
// an already-expired trial, so paid features stop immediately.
func (s *StripeWebhookService) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var subscription stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	customerID := ""
	if subscription.Customer != nil {
		customerID = subscription.Customer.ID
	}
	if customerID == "" {
		return nil
	}

	user, err := s.userRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := user.SetPlan(identity.PlanTrial); err != nil {
		return err
	}
	now := time.Now()
	user.TrialEndsAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Subscription canceled, user reverted to expired trial",
		zap.String("user_id", user.ID.String()))
	return nil
}

func (s *StripeWebhookService) planFromSubscription(subscription *stripe.Subscription) (string, bool) {
	if subscription.Items == nil {
		return "", false
	}
	for _, item := range subscription.Items.Data {
		if item.Price == nil {
			continue
		}
		if plan, ok := s.config.PlanForPriceID(item.Price.ID); ok {
			return plan, true
		}
	}
	return "", false
}

func (s *StripeWebhookService) findUserByReference(ctx context.Context, reference string) (*identity.User, error) {
	userID, err := uuid.Parse(reference)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return s.userRepo.FindByID(ctx, userID)
}
