package controllers

import (
	"net/http"

	"github.com/instaprompt/backend/api/responses"
)

// StaticPage serves one of the checkout landing pages. Stripe redirects
// customers here after a hosted session finishes or is abandoned.
func StaticPage(heading, detail string) http.HandlerFunc {
	page := renderPage(heading, detail)
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteHTML(w, http.StatusOK, page)
	}
}

func renderPage(heading, detail string) string {
	return "<html><body style=\"font-family:Arial;text-align:center;padding:40px;\"><h2>" +
		heading + "</h2><p>" + detail + "</p></body></html>"
}
