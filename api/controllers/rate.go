package controllers

import (
	"fmt"
	"net/http"

	"github.com/instaprompt/backend/api/responses"
	"github.com/instaprompt/backend/api/validators"
	"github.com/instaprompt/backend/internal/ratings"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/logger"
)

// Rate records a caption rating clicked from the result email.
func Rate(svc ratings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteTextError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ratings service unavailable"))
			return
		}

		score, err := validators.ParseQueryInt(r, "score", 0, 1, 5)
		if err != nil {
			responses.WriteTextError(ctx, logg, w, err)
			return
		}

		query := r.URL.Query()
		if err := svc.Record(ctx, query.Get("email"), query.Get("id"), score); err != nil {
			responses.WriteTextError(ctx, logg, w, err)
			return
		}

		responses.WriteText(w, http.StatusOK,
			fmt.Sprintf("Thanks for your rating (%d stars)!", score))
	}
}
