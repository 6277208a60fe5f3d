// Package types holds the JSON envelopes every procurement endpoint writes.
package types

// SuccessEnvelope wraps a successful payload as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the buyer-facing error body. Code is one of the pkg/errors
// codes such as EMPTY_CART or SUBMISSION_FAILURE; Details carries per-vendor
// outcomes for submission failures.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError as {"error": ...}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
