package controllers

import (
	"net/http"
	"strings"

	"github.com/instaprompt/backend/api/responses"
	"github.com/instaprompt/backend/internal/notify"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/logger"
)

const testEmailDefaultRecipient = "prpedersen@outlook.com"

// TestEmail sends a canned caption email so the SendGrid setup can be
// verified end to end. Routed in non-production only.
func TestEmail(sender *notify.EmailSender, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if sender == nil {
			responses.WriteTextError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "email sender unavailable"))
			return
		}

		to := strings.TrimSpace(r.URL.Query().Get("to"))
		if to == "" {
			to = testEmailDefaultRecipient
		}

		err := sender.Send(ctx, notify.EmailParams{
			To:       to,
			Caption:  "Test from InstaPrompt, this is an email delivery check",
			Language: "português",
			Topic:    "Teste de envio",
			Platform: "Instagram",
		})
		if err != nil {
			responses.WriteTextError(ctx, logg, w, err)
			return
		}

		responses.WriteText(w, http.StatusOK, "Test email sent to "+to)
	}
}
