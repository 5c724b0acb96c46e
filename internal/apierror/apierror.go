// Package apierror provides the error envelope every 4xx/5xx response uses.
// Handlers never put internal errors (store, Redis, Postgres) in Detail.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries one entry per rejected field, keyed by the JSON
// field name, valued with the failed rule.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Internal is the only body sent for unexpected failures.
func Internal() *APIError {
	return New("Error interno del servidor")
}
