package controllers

import (
	"net/http"

	"github.com/instaprompt/backend/api/responses"
)

// Home is the liveness probe hit by the platform and by curious humans.
func Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteText(w, http.StatusOK, "InstaPrompt is live!")
	}
}

func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteText(w, http.StatusOK, "pong")
	}
}
