package stripewebhook

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/instaprompt/backend/pkg/enums"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/logger"
	"github.com/instaprompt/backend/pkg/metrics"
)

// GuardScope namespaces the idempotency keys for this webhook.
const GuardScope = "stripe-events"

type profileUpdater interface {
	SetPlan(ctx context.Context, email string, plan enums.Plan, stripeCustomerID *string) error
	ResetTrial(ctx context.Context, email string) error
}

type eventGuard interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

type ServiceParams struct {
	Profiles profileUpdater
	Guard    eventGuard
	Metrics  *metrics.ServiceMetrics
	Logger   *logger.Logger
}

// Service applies plan transitions driven by Stripe checkout events.
type Service struct {
	profiles profileUpdater
	guard    eventGuard
	metrics  *metrics.ServiceMetrics
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profile updater required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "event guard required")
	}
	return &Service{
		profiles: params.Profiles,
		guard:    params.Guard,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// HandleEvent processes one verified Stripe event. Unknown event types
// are acknowledged without action. A failed handler releases the
// idempotency claim so Stripe's retry can apply the event.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	if s.metrics != nil {
		s.metrics.IncStripeEvent(string(event.Type))
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil
	}

	duplicate, err := s.guard.Claim(ctx, event.ID)
	if err != nil {
		// Both plan transitions are idempotent upserts, so a broken
		// guard degrades to at-least-once instead of blocking upgrades.
		s.warnf(ctx, "idempotency claim failed, applying event anyway", err)
	} else if duplicate {
		s.warnf(ctx, "duplicate stripe event skipped", nil)
		return nil
	}

	if err := s.applyCheckoutCompleted(ctx, event); err != nil {
		if releaseErr := s.guard.Release(ctx, event.ID); releaseErr != nil {
			s.warnf(ctx, "release idempotency claim failed", releaseErr)
		}
		return err
	}
	return nil
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, event *stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session")
	}

	email := ""
	if session.CustomerDetails != nil {
		email = strings.TrimSpace(session.CustomerDetails.Email)
	}
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout session has no customer email")
	}

	if s.logg != nil {
		ctx = s.logg.WithEmail(ctx, email)
	}

	switch session.Mode {
	case stripe.CheckoutSessionModeSubscription:
		var customerID *string
		if session.Customer != nil && session.Customer.ID != "" {
			customerID = &session.Customer.ID
		}
		if err := s.profiles.SetPlan(ctx, email, enums.PlanPro, customerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upgrade profile to pro")
		}
		if s.logg != nil {
			s.logg.Info(ctx, "profile upgraded to pro")
		}
	case stripe.CheckoutSessionModePayment:
		if err := s.profiles.ResetTrial(ctx, email); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "activate trial")
		}
		if s.logg != nil {
			s.logg.Info(ctx, "trial activated")
		}
	}
	return nil
}

func (s *Service) warnf(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	if err != nil {
		ctx = s.logg.WithField(ctx, "error", err.Error())
	}
	s.logg.Warn(ctx, msg)
}
