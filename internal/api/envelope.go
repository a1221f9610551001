package api

import "github.com/danielgtaylor/huma/v2"

// The response envelope is a stable contract with the clients: every body
// is wrapped in {v, success, ...} so clients can switch on success before
// touching the payload. The version field is named exactly "v".

// envelopeVersion is bumped only when the envelope structure itself changes.
const envelopeVersion = 1

// Envelope is the wire shape of every API response.
type Envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps huma response bodies in the envelope. Error
// bodies (APIError) flatten into the envelope's error fields; everything
// else rides in data.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	return Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
