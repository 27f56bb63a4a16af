package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/instaprompt/backend/api/responses"
	"github.com/instaprompt/backend/api/validators"
	"github.com/instaprompt/backend/internal/captions"
	"github.com/instaprompt/backend/internal/fields"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/logger"
)

// webhookPayload is the form-builder submission envelope. Only labels
// and values matter; everything else the builder sends is ignored.
type webhookPayload struct {
	Data struct {
		Fields []webhookField `json:"fields"`
	} `json:"data"`
}

type webhookField struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// captionOrder is the validated core of one submission.
type captionOrder struct {
	Email    string `json:"email" validate:"required,email"`
	Topic    string `json:"topic" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

// Webhook runs the main caption flow for one form submission. The form
// provider renders the response body, so successes come back as an HTML
// fragment and failures as bare text.
func Webhook(svc captions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteTextError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "caption service unavailable"))
			return
		}

		var payload webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteTextError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid JSON payload"))
			return
		}
		if len(payload.Data.Fields) == 0 {
			responses.WriteTextError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "payload has no form fields"))
			return
		}

		raw := make(map[string]string, len(payload.Data.Fields))
		for _, field := range payload.Data.Fields {
			if value, ok := field.Value.(string); ok {
				raw[field.Label] = value
			}
		}

		extracted := fields.Extract(raw)
		if missing := fields.Missing(extracted); len(missing) > 0 {
			responses.WriteTextError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation,
				"missing required fields: "+strings.Join(missing, ", ")))
			return
		}

		order := captionOrder{
			Email:    validators.SanitizeString(extracted[fields.FieldEmail], 320),
			Topic:    validators.SanitizeString(extracted[fields.FieldTopic], 500),
			Platform: validators.SanitizeString(extracted[fields.FieldPlatform], 100),
		}
		if err := validators.ValidateStruct(&order); err != nil {
			responses.WriteTextError(ctx, logg, w, err)
			return
		}

		result, err := svc.Create(ctx, captions.Request{
			Email:    order.Email,
			Topic:    order.Topic,
			Platform: order.Platform,
			Language: extracted[fields.FieldLanguage],
			Tone:     extracted[fields.FieldTone],
		})
		if err != nil {
			responses.WriteTextError(ctx, logg, w, err)
			return
		}

		responses.WriteHTML(w, http.StatusOK,
			fmt.Sprintf("<h2>Your result:</h2><p>%s</p>", result.Text))
	}
}
