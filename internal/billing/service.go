package billing

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/instaprompt/backend/internal/profiles"
	"github.com/instaprompt/backend/pkg/config"
	"github.com/instaprompt/backend/pkg/db/models"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/logger"
)

// ProfileFinder is the profile lookup surface the portal flow needs.
type ProfileFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// Service creates hosted Stripe sessions for plan purchases and
// subscription management. Every call returns the URL the caller
// redirects to with a 303.
type Service interface {
	ProCheckoutURL(ctx context.Context) (string, error)
	TrialCheckoutURL(ctx context.Context) (string, error)
	CustomerPortalURL(ctx context.Context, email string) (string, error)
}

type ServiceParams struct {
	Stripe   StripeCheckoutClient
	Profiles ProfileFinder
	Config   config.StripeConfig
	BaseURL  string
	Logger   *logger.Logger
}

type service struct {
	stripe   StripeCheckoutClient
	profiles ProfileFinder
	cfg      config.StripeConfig
	baseURL  string
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Stripe == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	if params.Profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profiles finder required")
	}
	if strings.TrimSpace(params.BaseURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "base url required")
	}
	return &service{
		stripe:   params.Stripe,
		profiles: params.Profiles,
		cfg:      params.Config,
		baseURL:  strings.TrimRight(params.BaseURL, "/"),
		logg:     params.Logger,
	}, nil
}

// ProCheckoutURL opens a subscription checkout for the PRO plan.
func (s *service) ProCheckoutURL(ctx context.Context) (string, error) {
	return s.checkoutURL(ctx, &stripe.CheckoutSessionCreateParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{{
			Price:    stripe.String(s.cfg.ProPriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(s.baseURL + "/sucesso"),
		CancelURL:  stripe.String(s.baseURL + "/cancelado"),
	})
}

// TrialCheckoutURL opens a one-time payment checkout that activates a
// fresh trial.
func (s *service) TrialCheckoutURL(ctx context.Context) (string, error) {
	return s.checkoutURL(ctx, &stripe.CheckoutSessionCreateParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{{
			Price:    stripe.String(s.cfg.TrialPriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(s.baseURL + "/thanks?plan=trial"),
		CancelURL:  stripe.String(s.baseURL + "/cancelled"),
	})
}

func (s *service) checkoutURL(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (string, error) {
	session, err := s.stripe.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}
	if session == nil || session.URL == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "checkout session has no url")
	}
	return session.URL, nil
}

// CustomerPortalURL opens the billing portal for the customer stored
// against the email. Profiles without a Stripe customer id have never
// subscribed, so the portal has nothing to show them.
func (s *service) CustomerPortalURL(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err == profiles.ErrNotFound {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "no subscription found for this email")
	}
	if err != nil {
		return "", err
	}
	if profile.StripeCustomerID == nil || strings.TrimSpace(*profile.StripeCustomerID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "no subscription found for this email")
	}

	session, err := s.stripe.CreatePortalSession(ctx, &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(*profile.StripeCustomerID),
		ReturnURL: stripe.String(s.baseURL),
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create billing portal session")
	}
	if session == nil || session.URL == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "portal session has no url")
	}
	return session.URL, nil
}
