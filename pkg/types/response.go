// Package types defines the JSON wire envelopes shared by every API
// endpoint that responds with JSON (the form webhook and rating
// endpoints answer in text/HTML instead, since form providers render
// the body inline).
package types

// SuccessEnvelope wraps successful payloads under a data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape; Details is only populated for
// codes whose metadata allows exposing them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under an error key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
