package billing

import (
	"context"

	"github.com/stripe/stripe-go/v84"

	pkgstripe "github.com/instaprompt/backend/pkg/stripe"
)

// StripeCheckoutClient exposes the subset of Stripe operations required by the billing service.
type StripeCheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error)
	CreatePortalSession(ctx context.Context, params *stripe.BillingPortalSessionCreateParams) (*stripe.BillingPortalSession, error)
}

type stripeClientWrapper struct {
	api *stripe.Client
}

// NewStripeClient wraps the provided Stripe client so the billing service can be tested.
func NewStripeClient(client *pkgstripe.Client) StripeCheckoutClient {
	if client == nil || client.API() == nil {
		return nil
	}
	return &stripeClientWrapper{api: client.API()}
}

func (w *stripeClientWrapper) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error) {
	return w.api.V1CheckoutSessions.Create(ctx, params)
}

func (w *stripeClientWrapper) CreatePortalSession(ctx context.Context, params *stripe.BillingPortalSessionCreateParams) (*stripe.BillingPortalSession, error) {
	return w.api.V1BillingPortalSessions.Create(ctx, params)
}
