// Package apierror provides the canonical response envelope for the API.
// Every endpoint answers {"data": ..., "error": null} on success and
// {"data": null, "error": "<message>"} on failure, so clients never branch on
// shape. Internal details (stack traces, DB errors) never reach this layer.
package apierror

// Envelope is the wire shape of every API response.
type Envelope struct {
	Data   interface{}       `json:"data"`
	Error  *string           `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// OK wraps a successful payload.
func OK(data interface{}) Envelope {
	return Envelope{Data: data}
}

// New wraps a user-visible error message.
func New(msg string) Envelope {
	return Envelope{Error: &msg}
}

// NewValidation reports field-level validation failures alongside the message.
func NewValidation(fields map[string]string) Envelope {
	msg := "validation error"
	return Envelope{Error: &msg, Fields: fields}
}
