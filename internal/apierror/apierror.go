// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// ConflictError is returned for recoverable already-open conflicts on turno /
// caja transitions: the client must route the operator to the existing
// session instead of treating the response as fatal.
type ConflictError struct {
	Detail      string `json:"detail"`
	Motivo      string `json:"motivo"`
	Recuperable bool   `json:"recuperable"`
	ExistenteID string `json:"existente_id,omitempty"`
}

func NewConflict(detail, motivo, existenteID string, recuperable bool) *ConflictError {
	return &ConflictError{
		Detail:      detail,
		Motivo:      motivo,
		Recuperable: recuperable,
		ExistenteID: existenteID,
	}
}
