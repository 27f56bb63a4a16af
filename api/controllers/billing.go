package controllers

import (
	"net/http"

	"github.com/instaprompt/backend/api/responses"
	"github.com/instaprompt/backend/internal/billing"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/logger"
)

// ProCheckout redirects to a hosted subscription checkout session.
func ProCheckout(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return redirectToSession(svc, logg, func(r *http.Request) (string, error) {
		return svc.ProCheckoutURL(r.Context())
	})
}

// TrialCheckout redirects to a hosted one-time payment session that
// grants fresh trial credits.
func TrialCheckout(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return redirectToSession(svc, logg, func(r *http.Request) (string, error) {
		return svc.TrialCheckoutURL(r.Context())
	})
}

// CustomerPortal redirects subscribed customers to their billing portal.
func CustomerPortal(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return redirectToSession(svc, logg, func(r *http.Request) (string, error) {
		return svc.CustomerPortalURL(r.Context(), r.URL.Query().Get("email"))
	})
}

func redirectToSession(svc billing.Service, logg *logger.Logger, open func(*http.Request) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteTextError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		url, err := open(r)
		if err != nil {
			responses.WriteTextError(ctx, logg, w, err)
			return
		}
		http.Redirect(w, r, url, http.StatusSeeOther)
	}
}
