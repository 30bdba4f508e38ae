package types

// SuccessEnvelope is the wire shape for every successful response.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorEnvelope is the wire shape for every failed response.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
