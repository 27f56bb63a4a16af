package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v84"

	"github.com/instaprompt/backend/pkg/enums"
)

type stubProfiles struct {
	setPlanCalls []setPlanCall
	resetCalls   []string
	err          error
}

type setPlanCall struct {
	email      string
	plan       enums.Plan
	customerID *string
}

func (s *stubProfiles) SetPlan(ctx context.Context, email string, plan enums.Plan, stripeCustomerID *string) error {
	s.setPlanCalls = append(s.setPlanCalls, setPlanCall{email: email, plan: plan, customerID: stripeCustomerID})
	return s.err
}

func (s *stubProfiles) ResetTrial(ctx context.Context, email string) error {
	s.resetCalls = append(s.resetCalls, email)
	return s.err
}

type stubGuard struct {
	duplicate bool
	claimErr  error
	claimed   []string
	released  []string
}

func (s *stubGuard) Claim(ctx context.Context, eventID string) (bool, error) {
	s.claimed = append(s.claimed, eventID)
	return s.duplicate, s.claimErr
}

func (s *stubGuard) Release(ctx context.Context, eventID string) error {
	s.released = append(s.released, eventID)
	return nil
}

func newTestWebhookService(t *testing.T, profiles *stubProfiles, guard *stubGuard) *Service {
	t.Helper()
	service, err := NewService(ServiceParams{
		Profiles: profiles,
		Guard:    guard,
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}
	return service
}

func checkoutCompletedEvent(t *testing.T, session *stripe.CheckoutSession) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	return &stripe.Event{
		ID:   "evt_test",
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestService_SubscriptionCheckoutUpgradesToPro(t *testing.T) {
	profiles := &stubProfiles{}
	guard := &stubGuard{}
	service := newTestWebhookService(t, profiles, guard)

	event := checkoutCompletedEvent(t, &stripe.CheckoutSession{
		Mode:            stripe.CheckoutSessionModeSubscription,
		Customer:        &stripe.Customer{ID: "cus_123"},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "ana@example.com"},
	})

	if err := service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(profiles.setPlanCalls) != 1 {
		t.Fatalf("expected one SetPlan call, got %d", len(profiles.setPlanCalls))
	}
	call := profiles.setPlanCalls[0]
	if call.email != "ana@example.com" || call.plan != enums.PlanPro {
		t.Fatalf("unexpected SetPlan call %+v", call)
	}
	if call.customerID == nil || *call.customerID != "cus_123" {
		t.Fatalf("expected stored customer id cus_123, got %v", call.customerID)
	}
	if len(guard.claimed) != 1 || len(guard.released) != 0 {
		t.Fatalf("expected one claim and no release, got %d/%d", len(guard.claimed), len(guard.released))
	}
}

func TestService_PaymentCheckoutActivatesTrial(t *testing.T) {
	profiles := &stubProfiles{}
	guard := &stubGuard{}
	service := newTestWebhookService(t, profiles, guard)

	event := checkoutCompletedEvent(t, &stripe.CheckoutSession{
		Mode:            stripe.CheckoutSessionModePayment,
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "bob@example.com"},
	})

	if err := service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(profiles.resetCalls) != 1 || profiles.resetCalls[0] != "bob@example.com" {
		t.Fatalf("expected trial reset for bob@example.com, got %v", profiles.resetCalls)
	}
	if len(profiles.setPlanCalls) != 0 {
		t.Fatal("payment mode must not touch the plan upgrade path")
	}
}

func TestService_DuplicateEventSkipped(t *testing.T) {
	profiles := &stubProfiles{}
	guard := &stubGuard{duplicate: true}
	service := newTestWebhookService(t, profiles, guard)

	event := checkoutCompletedEvent(t, &stripe.CheckoutSession{
		Mode:            stripe.CheckoutSessionModeSubscription,
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "dup@example.com"},
	})

	if err := service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(profiles.setPlanCalls) != 0 || len(profiles.resetCalls) != 0 {
		t.Fatal("duplicate event must not be applied")
	}
}

func TestService_GuardErrorStillAppliesEvent(t *testing.T) {
	profiles := &stubProfiles{}
	guard := &stubGuard{claimErr: errors.New("redis down")}
	service := newTestWebhookService(t, profiles, guard)

	event := checkoutCompletedEvent(t, &stripe.CheckoutSession{
		Mode:            stripe.CheckoutSessionModeSubscription,
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "x@example.com"},
	})

	if err := service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(profiles.setPlanCalls) != 1 {
		t.Fatal("event must still apply when the guard is unavailable")
	}
}

func TestService_FailedHandlerReleasesClaim(t *testing.T) {
	profiles := &stubProfiles{err: errors.New("db down")}
	guard := &stubGuard{}
	service := newTestWebhookService(t, profiles, guard)

	event := checkoutCompletedEvent(t, &stripe.CheckoutSession{
		Mode:            stripe.CheckoutSessionModeSubscription,
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "x@example.com"},
	})

	if err := service.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected handler error to propagate")
	}
	if len(guard.released) != 1 {
		t.Fatalf("expected claim release on failure, got %d", len(guard.released))
	}
}

func TestService_IgnoresUnrelatedEvents(t *testing.T) {
	profiles := &stubProfiles{}
	guard := &stubGuard{}
	service := newTestWebhookService(t, profiles, guard)

	event := &stripe.Event{
		ID:   "evt_other",
		Type: stripe.EventTypeInvoicePaid,
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	}

	if err := service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(guard.claimed) != 0 {
		t.Fatal("unrelated events must not claim the guard")
	}
}

func TestService_MissingEmailRejected(t *testing.T) {
	profiles := &stubProfiles{}
	guard := &stubGuard{}
	service := newTestWebhookService(t, profiles, guard)

	event := checkoutCompletedEvent(t, &stripe.CheckoutSession{
		Mode: stripe.CheckoutSessionModeSubscription,
	})

	if err := service.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected validation error for missing email")
	}
	if len(guard.released) != 1 {
		t.Fatal("claim must be released when the event cannot be applied")
	}
}
